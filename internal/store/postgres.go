package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/creatorstack/dealflow-cli/internal/db"
	"github.com/creatorstack/dealflow-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// the hot path of the push handler.
var preparedStatements = map[string]string{
	"save_deal":          postgresUpsert,
	"get_deal":           postgresSelect + ` WHERE id = $1`,
	"get_deal_by_thread": postgresSelect + ` WHERE thread_id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool, used by tests with pgxmock.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS deals (
	id                  TEXT PRIMARY KEY,
	thread_id           TEXT,
	sender_address      TEXT NOT NULL,
	sender_display_name TEXT NOT NULL,
	subject             TEXT NOT NULL,
	brand_name          TEXT,
	campaign_name       TEXT,
	stage               TEXT NOT NULL,
	payment_amount      DOUBLE PRECISION,
	payment_currency    TEXT,
	payment_state       TEXT NOT NULL DEFAULT 'PENDING',
	next_deadline       TIMESTAMPTZ,
	urgency             TEXT NOT NULL DEFAULT 'LOW',
	deliverable_summary TEXT NOT NULL DEFAULT '',
	result              JSONB NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_deals_thread_id ON deals(thread_id) WHERE thread_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_deals_stage ON deals(stage);
CREATE INDEX IF NOT EXISTS idx_deals_urgency ON deals(urgency);
CREATE INDEX IF NOT EXISTS idx_deals_sender ON deals(sender_address);
CREATE INDEX IF NOT EXISTS idx_deals_next_deadline ON deals(next_deadline);
`

const postgresSelect = `SELECT id, thread_id, sender_address, sender_display_name, subject,
	brand_name, campaign_name, stage, payment_amount, payment_currency,
	payment_state, next_deadline, urgency, deliverable_summary, result,
	created_at, updated_at FROM deals`

const postgresUpsert = `INSERT INTO deals (
	id, thread_id, sender_address, sender_display_name, subject,
	brand_name, campaign_name, stage, payment_amount, payment_currency,
	payment_state, next_deadline, urgency, deliverable_summary, result,
	created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
ON CONFLICT (thread_id) WHERE thread_id IS NOT NULL DO UPDATE SET
	sender_address = EXCLUDED.sender_address,
	sender_display_name = EXCLUDED.sender_display_name,
	subject = EXCLUDED.subject,
	brand_name = EXCLUDED.brand_name,
	campaign_name = EXCLUDED.campaign_name,
	stage = EXCLUDED.stage,
	payment_amount = EXCLUDED.payment_amount,
	payment_currency = EXCLUDED.payment_currency,
	payment_state = EXCLUDED.payment_state,
	next_deadline = EXCLUDED.next_deadline,
	urgency = EXCLUDED.urgency,
	deliverable_summary = EXCLUDED.deliverable_summary,
	result = EXCLUDED.result,
	updated_at = EXCLUDED.updated_at`

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveDeal(ctx context.Context, rec model.DealRecord) error {
	resultJSON, err := json.Marshal(rec.Result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal result")
	}

	_, err = s.pool.Exec(ctx, postgresUpsert,
		rec.ID, rec.ThreadID, rec.SenderAddress, rec.SenderDisplayName, rec.Subject,
		rec.BrandName, rec.CampaignName, string(rec.Stage), rec.PaymentAmount, currencyArg(rec.PaymentCurrency),
		string(rec.PaymentState), rec.NextDeadline, string(rec.Urgency), rec.DeliverableSummary, resultJSON,
		rec.CreatedAt.UTC(), rec.UpdatedAt.UTC(),
	)
	return eris.Wrap(err, "postgres: save deal")
}

func (s *PostgresStore) GetDeal(ctx context.Context, id string) (*model.DealRecord, error) {
	row := s.pool.QueryRow(ctx, postgresSelect+` WHERE id = $1`, id)
	rec, err := scanPostgresDeal(row)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get deal %s", id)
	}
	return rec, nil
}

func (s *PostgresStore) GetDealByThread(ctx context.Context, threadID string) (*model.DealRecord, error) {
	row := s.pool.QueryRow(ctx, postgresSelect+` WHERE thread_id = $1`, threadID)
	rec, err := scanPostgresDeal(row)
	if eris.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get deal by thread %s", threadID)
	}
	return rec, nil
}

func (s *PostgresStore) ListDeals(ctx context.Context, filter DealFilter) ([]model.DealRecord, error) {
	query := postgresSelect + ` WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return placeholder(len(args))
	}

	if filter.Stage != "" {
		query += ` AND stage = ` + arg(string(filter.Stage))
	}
	if filter.Urgency != "" {
		query += ` AND urgency = ` + arg(string(filter.Urgency))
	}
	if filter.Sender != "" {
		query += ` AND sender_address = ` + arg(filter.Sender)
	}
	query += ` ORDER BY updated_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ` + arg(limit)
	if filter.Offset > 0 {
		query += ` OFFSET ` + arg(filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list deals")
	}
	defer rows.Close()

	var deals []model.DealRecord
	for rows.Next() {
		rec, err := scanPostgresDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, *rec)
	}
	return deals, eris.Wrap(rows.Err(), "postgres: list deals iterate")
}

func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func scanPostgresDeal(row scannable) (*model.DealRecord, error) {
	var rec model.DealRecord
	var stage, state, urgency string
	var currency *string
	var resultJSON []byte

	err := row.Scan(
		&rec.ID, &rec.ThreadID, &rec.SenderAddress, &rec.SenderDisplayName, &rec.Subject,
		&rec.BrandName, &rec.CampaignName, &stage, &rec.PaymentAmount, &currency,
		&state, &rec.NextDeadline, &urgency, &rec.DeliverableSummary, &resultJSON,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan deal")
	}

	rec.Stage = model.DealStage(stage)
	rec.PaymentState = model.DealPaymentState(state)
	rec.Urgency = model.UrgencyLevel(urgency)
	if currency != nil {
		c := model.Currency(*currency)
		rec.PaymentCurrency = &c
	}
	if err := json.Unmarshal(resultJSON, &rec.Result); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal result")
	}
	return &rec, nil
}
