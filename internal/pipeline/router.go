package pipeline

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/creatorstack/dealflow-cli/internal/model"
	"github.com/creatorstack/dealflow-cli/internal/prompt"
	"github.com/creatorstack/dealflow-cli/internal/schema"
)

// Router performs the stage-1 triage call: is this a deal, what stage is
// it at, and do attachments merit a deeper pass. It sees only a snippet of
// the body to keep the call cheap; everything downstream branches on its
// answer.
type Router struct {
	exec          *Executor
	snippetBudget int
}

// NewRouter builds a Router. snippetBudget caps the body characters shown
// to the routing call.
func NewRouter(exec *Executor, snippetBudget int) *Router {
	return &Router{exec: exec, snippetBudget: snippetBudget}
}

// Route classifies a message with a single completion call.
func (r *Router) Route(ctx context.Context, msg model.Message) (model.Routing, error) {
	userPrompt := prompt.Snippet(msg, r.snippetBudget)

	payload, err := r.exec.Execute(ctx, prompt.RoutingSystem, userPrompt, schema.Routing())
	if err != nil {
		return model.Routing{}, eris.Wrap(err, "router: routing call")
	}

	var routing model.Routing
	if err := json.Unmarshal(payload, &routing); err != nil {
		return model.Routing{}, eris.Wrap(err, "router: decode routing payload")
	}

	// Constrained decoding should make this unreachable, but the stage
	// value gates real spend, so an unknown stage degrades to OTHER.
	if !validStage(routing.DealStage) {
		zap.L().Warn("router: unknown deal stage, using OTHER",
			zap.String("deal_stage", string(routing.DealStage)),
		)
		routing.DealStage = model.StageOther
	}

	zap.L().Debug("router: message routed",
		zap.Bool("is_deal", routing.IsDeal),
		zap.String("deal_stage", string(routing.DealStage)),
		zap.Bool("should_parse_attachments", routing.ShouldParseAttachments),
	)

	return routing, nil
}

func validStage(stage model.DealStage) bool {
	for _, s := range model.AllDealStages() {
		if s == stage {
			return true
		}
	}
	return false
}
