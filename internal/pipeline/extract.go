package pipeline

import (
	"context"
	"encoding/json"
	"regexp"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/creatorstack/dealflow-cli/internal/model"
	"github.com/creatorstack/dealflow-cli/internal/prompt"
	"github.com/creatorstack/dealflow-cli/internal/schema"
)

// attachmentKeywords matches subject+body text hinting at contractual
// documents. Word-ish boundaries keep "io" from matching inside "action".
var attachmentKeywords = regexp.MustCompile(
	`(?i)\b(contract|agreement|sow|statement of work|msa|master service|brief|insertion order|io|terms and conditions)\b`,
)

// HasAttachmentKeywords reports whether the message text mentions a
// document type likely to carry deal terms. Text-only heuristic: actual
// attachment presence is never inspected.
func HasAttachmentKeywords(msg model.Message) bool {
	return attachmentKeywords.MatchString(msg.Subject + " " + msg.Body)
}

// Engine orchestrates stage 2: a minimal extraction always, and a deep
// extraction in parallel when late-stage or contractual signals warrant
// the extra spend.
type Engine struct {
	exec *Executor
}

// NewEngine builds an extraction Engine on the given executor.
func NewEngine(exec *Executor) *Engine {
	return &Engine{exec: exec}
}

// ShouldRunDeep decides deep eligibility from routing signals and the
// attachment-keyword heuristic.
func ShouldRunDeep(routing model.Routing, msg model.Message) bool {
	for _, stage := range model.DeepEligibleStages() {
		if routing.DealStage == stage {
			return true
		}
	}
	return routing.ShouldParseAttachments || HasAttachmentKeywords(msg)
}

// Extract runs the stage-2 calls for a message already routed as a deal.
// The minimal call starts immediately; when deep is warranted the deep
// call runs concurrently and the join is all-or-nothing: if either call
// fails, no partial payload is returned.
func (e *Engine) Extract(ctx context.Context, msg model.Message, routing model.Routing) (*model.MinimalExtraction, *model.DeepExtraction, error) {
	fullPrompt := prompt.Full(msg)
	runDeep := ShouldRunDeep(routing, msg)

	zap.L().Debug("extract: starting stage 2",
		zap.String("deal_stage", string(routing.DealStage)),
		zap.Bool("deep", runDeep),
	)

	var minimal model.MinimalExtraction
	var deep model.DeepExtraction

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		payload, err := e.exec.Execute(gCtx, prompt.MinimalSystem, fullPrompt, schema.Minimal())
		if err != nil {
			return eris.Wrap(err, "extract: minimal call")
		}
		return decodeSanitized(payload, fullPrompt, &minimal)
	})

	if runDeep {
		g.Go(func() error {
			payload, err := e.exec.Execute(gCtx, prompt.DeepSystem, fullPrompt, schema.Deep())
			if err != nil {
				return eris.Wrap(err, "extract: deep call")
			}
			return decodeSanitized(payload, fullPrompt, &deep)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if !runDeep {
		return &minimal, nil, nil
	}
	return &minimal, &deep, nil
}

// decodeSanitized grounds a raw payload against the prompt that produced
// it, then decodes the surviving claims into the typed output. Grounding
// runs before typing so collapsed wrappers become plain JSON nulls.
func decodeSanitized(payload json.RawMessage, promptText string, out any) error {
	cleaned, err := SanitizeJSON(payload, promptText)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(cleaned, out); err != nil {
		return eris.Wrap(err, "extract: decode sanitized payload")
	}
	return nil
}
