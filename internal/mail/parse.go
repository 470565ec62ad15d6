// Package mail extracts plain text and sender identity from pushed
// mailbox payloads before they enter the pipeline.
package mail

import (
	"encoding/base64"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

// PartBody carries the base64url-encoded data of one MIME part.
type PartBody struct {
	Data string `json:"data"`
}

// Part is one node of a provider message payload tree.
type Part struct {
	MimeType string   `json:"mimeType"`
	Body     PartBody `json:"body"`
	Parts    []Part   `json:"parts"`
}

// DecodeBody decodes URL-safe base64 as mailbox providers emit it, with
// or without padding.
func DecodeBody(data string) (string, error) {
	if data == "" {
		return "", nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return "", eris.Wrap(err, "mail: decode body")
	}
	return string(raw), nil
}

// ExtractPlainText pulls a readable body out of a payload tree, preferring
// a text/plain part over the top-level body.
func ExtractPlainText(payload *Part) (string, error) {
	if payload == nil {
		return "", nil
	}
	for _, part := range payload.Parts {
		if part.MimeType == "text/plain" {
			return DecodeBody(part.Body.Data)
		}
	}
	if payload.Body.Data != "" {
		return DecodeBody(payload.Body.Data)
	}
	return "", nil
}

// NormalizeAddress lowers and trims an address for stable comparisons.
func NormalizeAddress(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var displayNameRe = regexp.MustCompile(`^(.*)<.*>$`)

// ParseDisplayName pulls a readable name from a From header. Falls back
// to the local part of a bare address, then to the raw input.
func ParseDisplayName(from string) string {
	if m := displayNameRe.FindStringSubmatch(strings.TrimSpace(from)); m != nil {
		name := strings.TrimSpace(strings.ReplaceAll(m[1], `"`, ""))
		if name != "" {
			return name
		}
	}
	addr := strings.Trim(strings.TrimSpace(from), "<>")
	if at := strings.Index(addr, "@"); at > 0 {
		return addr[:at]
	}
	return addr
}
