// Package pipeline turns one inbound message into a structured,
// evidence-grounded record of deal terms via a routing call and up to two
// concurrent extraction calls against the completion service.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/creatorstack/dealflow-cli/internal/model"
)

// Pipeline wires the stage-1 router and stage-2 extraction engine. It is
// stateless and reentrant: concurrent messages share nothing but the
// underlying API client.
type Pipeline struct {
	router *Router
	engine *Engine
}

// New builds a Pipeline from its stages.
func New(router *Router, engine *Engine) *Pipeline {
	return &Pipeline{router: router, engine: engine}
}

// Process runs the full decision tree for one message. A message routed
// as not-a-deal short-circuits: no extraction call is ever issued. When
// stage 2 fails, the returned result still carries the routing verdict so
// the caller learns isDeal/dealStage, but no partial extraction payload
// accompanies the error.
func (p *Pipeline) Process(ctx context.Context, msg model.Message) (*model.DecisionTreeResult, error) {
	routing, err := p.router.Route(ctx, msg)
	if err != nil {
		return nil, err
	}

	result := &model.DecisionTreeResult{Routing: routing}

	if !routing.IsDeal {
		zap.L().Info("pipeline: message is not a deal, skipping extraction",
			zap.String("deal_stage", string(routing.DealStage)),
		)
		return result, nil
	}

	minimal, deep, err := p.engine.Extract(ctx, msg, routing)
	if err != nil {
		return result, err
	}

	result.Minimal = minimal
	result.Deep = deep
	return result, nil
}
