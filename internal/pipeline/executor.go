package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"

	"github.com/creatorstack/dealflow-cli/internal/resilience"
	"github.com/creatorstack/dealflow-cli/internal/schema"
	"github.com/creatorstack/dealflow-cli/pkg/anthropic"
)

// ErrEmptyCompletion is returned when the service answered without a
// structured payload. It is fatal for the call: retrying a content error
// wastes quota without improving the odds.
var ErrEmptyCompletion = errors.New("completion returned no structured content")

const defaultMaxTokens = 4096

// Executor issues one schema-constrained completion per call and resolves
// its typed payload, retrying only on rate-limit responses.
type Executor struct {
	client anthropic.Client
	model  string
	retry  resilience.RetryConfig
}

// NewExecutor builds an Executor. maxRetries is the retry budget on top of
// the initial attempt; baseDelay seeds the exponential fallback used when
// the server sends no retry-after hint.
func NewExecutor(client anthropic.Client, model string, maxRetries int, baseDelay time.Duration) *Executor {
	return &Executor{
		client: client,
		model:  model,
		retry: resilience.RetryConfig{
			MaxAttempts:     maxRetries + 1,
			InitialBackoff:  baseDelay,
			Multiplier:      2.0,
			HonorRetryAfter: true,
			ShouldRetry:     resilience.IsRateLimit,
			OnRetry:         resilience.RetryLogger("anthropic", "create_message"),
		},
	}
}

// Execute runs one completion against the given stage contract and returns
// the raw structured payload. Rate limits are retried with backoff inside;
// every other failure, including empty or non-JSON payloads, propagates
// immediately.
func (e *Executor) Execute(ctx context.Context, systemPrompt, userPrompt string, def schema.Definition) (json.RawMessage, error) {
	req := anthropic.MessageRequest{
		Model:     e.model,
		MaxTokens: defaultMaxTokens,
		System:    anthropic.BuildCachedSystemBlocks(systemPrompt),
		Messages: []anthropic.Message{
			{Role: "user", Content: userPrompt},
		},
		Tool: &anthropic.ToolDefinition{
			Name:        def.Name,
			Description: "Record the extraction result.",
			InputSchema: def.Schema,
		},
	}

	resp, err := resilience.DoVal(ctx, e.retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return e.client.CreateMessage(ctx, req)
	})
	if err != nil {
		return nil, eris.Wrapf(err, "executor: %s", def.Name)
	}

	resp.Usage.LogCost(e.model, def.Name)

	payload := resp.ToolInput()
	if len(payload) == 0 {
		return nil, eris.Wrapf(ErrEmptyCompletion, "executor: %s", def.Name)
	}
	if !json.Valid(payload) {
		return nil, eris.Errorf("executor: %s: payload is not valid JSON", def.Name)
	}
	return payload, nil
}
