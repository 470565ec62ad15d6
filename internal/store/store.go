package store

import (
	"context"

	"github.com/creatorstack/dealflow-cli/internal/model"
)

// DealFilter specifies criteria for listing deals.
type DealFilter struct {
	Stage   model.DealStage    `json:"stage,omitempty"`
	Urgency model.UrgencyLevel `json:"urgency,omitempty"`
	Sender  string             `json:"sender,omitempty"`
	Limit   int                `json:"limit,omitempty"`
	Offset  int                `json:"offset,omitempty"`
}

// Store defines the persistence interface for extracted deals. SaveDeal
// upserts: a second result for the same thread replaces the first, so a
// thread converges on its latest extraction.
type Store interface {
	SaveDeal(ctx context.Context, rec model.DealRecord) error
	GetDeal(ctx context.Context, id string) (*model.DealRecord, error)
	GetDealByThread(ctx context.Context, threadID string) (*model.DealRecord, error)
	ListDeals(ctx context.Context, filter DealFilter) ([]model.DealRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
