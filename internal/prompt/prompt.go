// Package prompt renders messages into the exact text shown to the model.
// The rendered string doubles as the grounding corpus: evidence quotes are
// later validated as literal substrings of it, so both renderers must stay
// deterministic and byte-stable.
package prompt

import (
	"strings"

	"github.com/creatorstack/dealflow-cli/internal/model"
)

// Snippet renders the cheap routing prompt: metadata plus the body
// truncated to maxBodyChars.
func Snippet(msg model.Message, maxBodyChars int) string {
	body := msg.Body
	if maxBodyChars >= 0 && len(body) > maxBodyChars {
		body = body[:maxBodyChars]
	}
	lines := []string{
		"<EMAIL_METADATA>",
		"From: " + msg.From,
		"Subject: " + msg.Subject,
		"</EMAIL_METADATA>",
		"",
		"<EMAIL_BODY_SNIPPET>",
		body,
		"</EMAIL_BODY_SNIPPET>",
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Full renders the untruncated extraction prompt.
func Full(msg model.Message) string {
	receivedAt := ""
	if msg.ReceivedAt != nil {
		receivedAt = *msg.ReceivedAt
	}
	lines := []string{
		"Extract campaign data according to the output schema.",
		"Prefer the newest reply content; ignore outdated quoted text.",
		"",
		"<EMAIL_METADATA>",
		"From: " + msg.From,
		"Subject: " + msg.Subject,
		"ReceivedAt: " + receivedAt,
		"</EMAIL_METADATA>",
		"",
		"<EMAIL_BODY>",
		msg.Body,
		"</EMAIL_BODY>",
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
