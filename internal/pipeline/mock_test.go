package pipeline

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/creatorstack/dealflow-cli/pkg/anthropic"
)

// --- Anthropic Mock ---

type mockAnthropicClient struct {
	mock.Mock
}

func (m *mockAnthropicClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

// toolResponse builds a response carrying a forced-tool payload.
func toolResponse(toolName, payload string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		ID:         "msg_test",
		StopReason: "tool_use",
		Content: []anthropic.ContentBlock{
			{Type: "tool_use", Name: toolName, Input: json.RawMessage(payload)},
		},
	}
}

// forTool matches a request by the forced tool's name.
func forTool(name string) any {
	return mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.Tool != nil && req.Tool.Name == name
	})
}
