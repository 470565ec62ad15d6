package mail

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func b64url(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func TestDecodeBody(t *testing.T) {
	got, err := DecodeBody(b64url("Hello, creator!"))
	require.NoError(t, err)
	assert.Equal(t, "Hello, creator!", got)
}

func TestDecodeBody_AcceptsPadding(t *testing.T) {
	padded := base64.URLEncoding.EncodeToString([]byte("ok"))
	got, err := DecodeBody(padded)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestDecodeBody_Empty(t *testing.T) {
	got, err := DecodeBody("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecodeBody_Invalid(t *testing.T) {
	_, err := DecodeBody("not*base64!")
	assert.Error(t, err)
}

func TestExtractPlainText_PrefersPlainPart(t *testing.T) {
	payload := &Part{
		MimeType: "multipart/alternative",
		Body:     PartBody{Data: b64url("<html>rich</html>")},
		Parts: []Part{
			{MimeType: "text/html", Body: PartBody{Data: b64url("<html>rich</html>")}},
			{MimeType: "text/plain", Body: PartBody{Data: b64url("plain body")}},
		},
	}
	got, err := ExtractPlainText(payload)
	require.NoError(t, err)
	assert.Equal(t, "plain body", got)
}

func TestExtractPlainText_FallsBackToTopLevelBody(t *testing.T) {
	payload := &Part{
		MimeType: "text/plain",
		Body:     PartBody{Data: b64url("single part")},
	}
	got, err := ExtractPlainText(payload)
	require.NoError(t, err)
	assert.Equal(t, "single part", got)
}

func TestExtractPlainText_NilPayload(t *testing.T) {
	got, err := ExtractPlainText(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t, "deals@acme.com", NormalizeAddress("  Deals@Acme.COM "))
}

func TestParseDisplayName(t *testing.T) {
	tests := []struct {
		from string
		want string
	}{
		{`Jordan Lee <jordan@acme.com>`, "Jordan Lee"},
		{`"Acme Partnerships" <deals@acme.com>`, "Acme Partnerships"},
		{`<deals@acme.com>`, "deals"},
		{`deals@acme.com`, "deals"},
		{`no-at-sign`, "no-at-sign"},
	}
	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDisplayName(tt.from))
		})
	}
}
