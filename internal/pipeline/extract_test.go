package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/creatorstack/dealflow-cli/internal/model"
)

var contractMsg = model.Message{
	From:    "partnerships@acme.com",
	Subject: "Brand Partnership Agreement",
	Body:    "Paid $5,000 net-30, see contract attached.",
}

const minimalPayload = `{
	"campaignName": null,
	"brandName": null,
	"lastActionNeededBy": null,
	"draftRequired": null,
	"goLiveWindow": null,
	"payment": {
		"amount": 5000,
		"currency": "USD",
		"paymentTerms": "net-30",
		"evidence": {"quote": "net-30", "source": "EMAIL_BODY", "page": null}
	},
	"deliverablesSummary": null
}`

const deepPayload = `{
	"exclusivityRightsSummary": null,
	"usageRightsSummary": null,
	"payment": {
		"amount": 5000,
		"currency": "USD",
		"paymentTerms": "net-30",
		"paymentStatus": null,
		"invoiceSentAt": null,
		"invoiceExpectedAt": null,
		"evidence": {"quote": "Paid $5,000 net-30", "source": "EMAIL_BODY", "page": null}
	},
	"keyDates": [],
	"requiredActions": [],
	"mustAvoids": [],
	"deliverables": []
}`

func TestHasAttachmentKeywords(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		body    string
		want    bool
	}{
		{"contract in body", "", "see contract attached", true},
		{"agreement in subject", "Brand Partnership Agreement", "", true},
		{"case insensitive", "", "SIGNED SOW ENCLOSED", true},
		{"multiword phrase", "", "the statement of work is ready", true},
		{"io as a word", "", "the io is attached", true},
		{"io inside another word", "", "action required for the promotion", false},
		{"no keywords", "Quick question", "love your videos, can we chat?", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HasAttachmentKeywords(model.Message{Subject: tt.subject, Body: tt.body})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShouldRunDeep(t *testing.T) {
	neutral := model.Message{Subject: "hello", Body: "no hints here"}
	tests := []struct {
		name    string
		routing model.Routing
		msg     model.Message
		want    bool
	}{
		{
			name:    "early stage no signals",
			routing: model.Routing{DealStage: model.StageInbound},
			msg:     neutral,
			want:    false,
		},
		{
			name:    "contracting stage alone is enough",
			routing: model.Routing{DealStage: model.StageContracting},
			msg:     neutral,
			want:    true,
		},
		{
			name:    "payment stage",
			routing: model.Routing{DealStage: model.StagePayment},
			msg:     neutral,
			want:    true,
		},
		{
			name:    "attachment flag from routing",
			routing: model.Routing{DealStage: model.StageInbound, ShouldParseAttachments: true},
			msg:     neutral,
			want:    true,
		},
		{
			name:    "keyword heuristic despite early stage",
			routing: model.Routing{DealStage: model.StageNegotiation},
			msg:     contractMsg,
			want:    true,
		},
		{
			name:    "dead stage no signals",
			routing: model.Routing{DealStage: model.StageDead},
			msg:     neutral,
			want:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldRunDeep(tt.routing, tt.msg))
		})
	}
}

func TestExtract_MinimalOnlyForEarlyStage(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, forTool("deal_minimal_extraction_v1")).
		Return(toolResponse("deal_minimal_extraction_v1", minimalPayload), nil).Once()

	engine := NewEngine(newTestExecutor(client, 0))
	msg := model.Message{From: "a@b.c", Subject: "collab?", Body: "Paid $5,000 net-30, nothing else."}
	routing := model.Routing{IsDeal: true, DealStage: model.StageInbound}

	minimal, deep, err := engine.Extract(context.Background(), msg, routing)
	require.NoError(t, err)
	require.NotNil(t, minimal)
	assert.Nil(t, deep, "deep must not run without eligibility signals")
	client.AssertNumberOfCalls(t, "CreateMessage", 1)
}

func TestExtract_DeepRunsConcurrentlyWhenEligible(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, forTool("deal_minimal_extraction_v1")).
		Return(toolResponse("deal_minimal_extraction_v1", minimalPayload), nil).Once()
	client.On("CreateMessage", mock.Anything, forTool("deal_deep_extraction_v1")).
		Return(toolResponse("deal_deep_extraction_v1", deepPayload), nil).Once()

	engine := NewEngine(newTestExecutor(client, 0))
	// INBOUND stage and no attachment flag: only the keyword heuristic
	// ("contract", "agreement") makes this eligible.
	routing := model.Routing{IsDeal: true, DealStage: model.StageInbound, ShouldParseAttachments: false}

	minimal, deep, err := engine.Extract(context.Background(), contractMsg, routing)
	require.NoError(t, err)
	require.NotNil(t, minimal)
	require.NotNil(t, deep)
	client.AssertNumberOfCalls(t, "CreateMessage", 2)

	require.NotNil(t, minimal.Payment)
	assert.Equal(t, model.CurrencyUSD, minimal.Payment.Currency)
	require.NotNil(t, deep.Payment)
	assert.Equal(t, "Paid $5,000 net-30", deep.Payment.Evidence.Quote)
}

func TestExtract_JoinIsAllOrNothing(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, forTool("deal_minimal_extraction_v1")).
		Return(toolResponse("deal_minimal_extraction_v1", minimalPayload), nil).
		Maybe()
	client.On("CreateMessage", mock.Anything, forTool("deal_deep_extraction_v1")).
		Return(nil, errors.New("500 upstream")).
		Maybe()

	engine := NewEngine(newTestExecutor(client, 0))
	routing := model.Routing{IsDeal: true, DealStage: model.StageContracting}

	minimal, deep, err := engine.Extract(context.Background(), contractMsg, routing)
	require.Error(t, err)
	assert.Nil(t, minimal, "no partial result when the join fails")
	assert.Nil(t, deep)
}

func TestExtract_SanitizesAgainstFullPrompt(t *testing.T) {
	// Evidence quoting text outside this message must be nulled even
	// though the payload is schema-valid.
	hallucinated := `{
		"campaignName": {
			"value": "Winter Gala",
			"evidence": {"quote": "Winter Gala", "source": "EMAIL_BODY", "page": null}
		},
		"brandName": null,
		"lastActionNeededBy": null,
		"draftRequired": null,
		"goLiveWindow": null,
		"payment": null,
		"deliverablesSummary": null
	}`
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, forTool("deal_minimal_extraction_v1")).
		Return(toolResponse("deal_minimal_extraction_v1", hallucinated), nil).Once()

	engine := NewEngine(newTestExecutor(client, 0))
	msg := model.Message{From: "a@b.c", Subject: "collab", Body: "plain chat, no campaign names"}
	routing := model.Routing{IsDeal: true, DealStage: model.StageInbound}

	minimal, _, err := engine.Extract(context.Background(), msg, routing)
	require.NoError(t, err)
	assert.Nil(t, minimal.CampaignName, "ungrounded wrapper must collapse to nil")
}
