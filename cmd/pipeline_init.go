package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/creatorstack/dealflow-cli/internal/dealsync"
	"github.com/creatorstack/dealflow-cli/internal/model"
	"github.com/creatorstack/dealflow-cli/internal/pipeline"
	"github.com/creatorstack/dealflow-cli/internal/store"
	anthropicpkg "github.com/creatorstack/dealflow-cli/pkg/anthropic"
	"github.com/creatorstack/dealflow-cli/pkg/notion"
)

// pipelineEnv holds the initialized clients and stages shared by the
// run/serve commands.
type pipelineEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
}

// Close releases held resources.
func (e *pipelineEnv) Close() {
	if e.Store != nil {
		if err := e.Store.Close(); err != nil {
			zap.L().Warn("store close failed", zap.Error(err))
		}
	}
}

// initStore opens the configured persistence backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	case "sqlite":
		return store.NewSQLite(cfg.Store.Path)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// initPipeline builds the two-stage pipeline from config. The router and
// extraction engine may run different models; both share one API client
// and its rate limiter.
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	client := anthropicpkg.NewClient(cfg.Anthropic.Key, cfg.Anthropic.RequestsPerSecond)
	baseDelay := time.Duration(cfg.Anthropic.BaseRetryDelayMS) * time.Millisecond

	routerExec := pipeline.NewExecutor(client, cfg.Anthropic.RouterModel, cfg.Anthropic.MaxRetries, baseDelay)
	extractExec := pipeline.NewExecutor(client, cfg.Anthropic.ExtractModel, cfg.Anthropic.MaxRetries, baseDelay)

	p := pipeline.New(
		pipeline.NewRouter(routerExec, cfg.Anthropic.SnippetBudget),
		pipeline.NewEngine(extractExec),
	)

	return &pipelineEnv{Store: st, Pipeline: p}, nil
}

// dealSink runs one message end to end: prescreen gate, pipeline, derived
// row persistence, and optional Notion export.
type dealSink struct {
	env      *pipelineEnv
	notion   notion.Client
	notionDB string
}

func (s *dealSink) Handle(ctx context.Context, msg model.Message) error {
	if pre := pipeline.Prescreen(msg); !pre.IsCampaign {
		zap.L().Debug("skipping message",
			zap.String("subject", msg.Subject),
			zap.String("reason", pre.Reason),
		)
		return nil
	}

	result, err := s.env.Pipeline.Process(ctx, msg)
	if err != nil {
		return eris.Wrap(err, "process message")
	}
	if !result.Routing.IsDeal {
		return nil
	}

	rec := dealsync.BuildRecord(msg, *result, time.Now().UTC())
	if err := s.env.Store.SaveDeal(ctx, rec); err != nil {
		return eris.Wrap(err, "save deal")
	}

	if s.notion != nil {
		if _, err := notion.UpsertDeal(ctx, s.notion, s.notionDB, rec); err != nil {
			// Notion is a mirror; a sync failure must not lose the deal.
			zap.L().Warn("notion export failed",
				zap.String("deal_id", rec.ID),
				zap.Error(err),
			)
		}
	}

	zap.L().Info("deal saved",
		zap.String("deal_id", rec.ID),
		zap.String("stage", string(rec.Stage)),
		zap.String("urgency", string(rec.Urgency)),
	)
	return nil
}
