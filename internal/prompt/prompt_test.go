package prompt

import (
	"strings"
	"testing"

	"github.com/creatorstack/dealflow-cli/internal/model"
)

func strPtr(s string) *string { return &s }

func TestSnippet_TruncatesBody(t *testing.T) {
	msg := model.Message{
		From:    "brand@example.com",
		Subject: "Collab",
		Body:    strings.Repeat("x", 5000),
	}
	out := Snippet(msg, 1000)
	if strings.Count(out, "x") != 1000 {
		t.Errorf("expected body truncated to 1000 chars, got %d", strings.Count(out, "x"))
	}
	if !strings.Contains(out, "From: brand@example.com") {
		t.Error("missing From metadata line")
	}
	if !strings.Contains(out, "<EMAIL_BODY_SNIPPET>") {
		t.Error("missing body snippet delimiter")
	}
}

func TestSnippet_ShortBodyUnchanged(t *testing.T) {
	msg := model.Message{From: "a@b.c", Subject: "Hi", Body: "short body"}
	out := Snippet(msg, 1000)
	if !strings.Contains(out, "short body") {
		t.Error("short body should pass through untruncated")
	}
}

func TestFull_RendersAllMetadata(t *testing.T) {
	msg := model.Message{
		From:       "agent@talent.co",
		Subject:    "Summer Launch brief",
		ReceivedAt: strPtr("2026-05-01T10:00:00Z"),
		Body:       "Paid $5,000 net-30.",
	}
	out := Full(msg)
	for _, want := range []string{
		"From: agent@talent.co",
		"Subject: Summer Launch brief",
		"ReceivedAt: 2026-05-01T10:00:00Z",
		"<EMAIL_BODY>",
		"Paid $5,000 net-30.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("full prompt missing %q", want)
		}
	}
}

func TestFull_NilReceivedAtRendersEmpty(t *testing.T) {
	out := Full(model.Message{From: "a@b.c", Subject: "s", Body: "b"})
	if !strings.Contains(out, "ReceivedAt: \n") {
		t.Error("nil receivedAt should render as an empty value")
	}
}

func TestFull_BodyIsLiteralSubstring(t *testing.T) {
	// The grounding validator scans the rendered prompt, so the body must
	// survive rendering byte-for-byte.
	body := "Line one.\n  Indented line.\nQuote: \"Summer Launch\""
	out := Full(model.Message{From: "a@b.c", Subject: "s", Body: body})
	if !strings.Contains(out, body) {
		t.Error("body must appear verbatim in the rendered prompt")
	}
}

func TestFull_Deterministic(t *testing.T) {
	msg := model.Message{From: "a@b.c", Subject: "s", Body: "b"}
	if Full(msg) != Full(msg) {
		t.Error("renderers must be pure functions of the message")
	}
}
