package anthropic

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/creatorstack/dealflow-cli/internal/resilience"
)

func TestToolInput_ReturnsFirstToolUsePayload(t *testing.T) {
	resp := &MessageResponse{
		Content: []ContentBlock{
			{Type: "text", Text: "thinking..."},
			{Type: "tool_use", Name: "routing_v1", Input: json.RawMessage(`{"isDeal":true}`)},
		},
	}
	got := resp.ToolInput()
	if string(got) != `{"isDeal":true}` {
		t.Errorf("ToolInput = %s", got)
	}
}

func TestToolInput_NilWhenAbsent(t *testing.T) {
	resp := &MessageResponse{Content: []ContentBlock{{Type: "text", Text: "hi"}}}
	if resp.ToolInput() != nil {
		t.Error("expected nil when no tool_use block present")
	}
	var nilResp *MessageResponse
	if nilResp.ToolInput() != nil {
		t.Error("expected nil for nil response")
	}
}

func apiError(status int, headers map[string]string) *sdk.Error {
	h := http.Header{}
	for k, v := range headers {
		h.Set(k, v)
	}
	return &sdk.Error{
		StatusCode: status,
		Response:   &http.Response{Header: h},
	}
}

func TestClassifyError_MapsRateLimit(t *testing.T) {
	err := classifyError(apiError(429, map[string]string{"retry-after-ms": "250"}))
	if !resilience.IsRateLimit(err) {
		t.Fatal("429 should classify as a rate-limit error")
	}
	hint, ok := resilience.RetryAfterHint(err)
	if !ok || hint != 250*time.Millisecond {
		t.Errorf("hint = %v, %v; want 250ms, true", hint, ok)
	}
}

func TestClassifyError_RetryAfterSecondsHeader(t *testing.T) {
	err := classifyError(apiError(429, map[string]string{"retry-after": "2"}))
	hint, ok := resilience.RetryAfterHint(err)
	if !ok || hint != 2*time.Second {
		t.Errorf("hint = %v, %v; want 2s (seconds header multiplied out)", hint, ok)
	}
}

func TestClassifyError_MillisecondsHeaderWinsOverSeconds(t *testing.T) {
	err := classifyError(apiError(429, map[string]string{
		"retry-after-ms": "100",
		"retry-after":    "5",
	}))
	hint, ok := resilience.RetryAfterHint(err)
	if !ok || hint != 100*time.Millisecond {
		t.Errorf("hint = %v; retry-after-ms must take precedence", hint)
	}
}

func TestClassifyError_RateLimitWithoutHint(t *testing.T) {
	err := classifyError(apiError(429, nil))
	if !resilience.IsRateLimit(err) {
		t.Fatal("expected rate-limit classification")
	}
	if _, ok := resilience.RetryAfterHint(err); ok {
		t.Error("no headers means no hint")
	}
}

func TestClassifyError_NonRateLimitIsFatal(t *testing.T) {
	err := classifyError(apiError(400, nil))
	if resilience.IsRateLimit(err) {
		t.Error("400 must not classify as retryable")
	}

	err = classifyError(errors.New("transport exploded"))
	if resilience.IsRateLimit(err) {
		t.Error("plain errors must not classify as retryable")
	}
}

func TestEstimateCost_KnownAndUnknownModels(t *testing.T) {
	usage := TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}
	if cost := usage.EstimateCost("claude-haiku-4-5-20251001"); cost != 4.80 {
		t.Errorf("haiku cost = %v, want 4.80", cost)
	}
	if cost := usage.EstimateCost("no-such-model"); cost != 0 {
		t.Errorf("unknown model cost = %v, want 0", cost)
	}
}

func TestBuildCachedSystemBlocks(t *testing.T) {
	blocks := BuildCachedSystemBlocks("system text")
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].CacheControl == nil || blocks[0].CacheControl.TTL != "1h" {
		t.Error("expected a 1h cache breakpoint")
	}
}

func TestToSDKInputSchema_CarriesStrictness(t *testing.T) {
	schema := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           map[string]any{"a": map[string]any{"type": "string"}},
		"required":             []string{"a"},
	}
	out := toSDKInputSchema(schema)
	if out.ExtraFields["additionalProperties"] != false {
		t.Error("additionalProperties:false must survive conversion")
	}
	if len(out.Required) != 1 || out.Required[0] != "a" {
		t.Errorf("required = %v", out.Required)
	}
}
