package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/creatorstack/dealflow-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS deals (
	id                  TEXT PRIMARY KEY,
	thread_id           TEXT,
	sender_address      TEXT NOT NULL,
	sender_display_name TEXT NOT NULL,
	subject             TEXT NOT NULL,
	brand_name          TEXT,
	campaign_name       TEXT,
	stage               TEXT NOT NULL,
	payment_amount      REAL,
	payment_currency    TEXT,
	payment_state       TEXT NOT NULL DEFAULT 'PENDING',
	next_deadline       DATETIME,
	urgency             TEXT NOT NULL DEFAULT 'LOW',
	deliverable_summary TEXT NOT NULL DEFAULT '',
	result              TEXT NOT NULL,
	created_at          DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at          DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_deals_thread_id ON deals(thread_id) WHERE thread_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_deals_stage ON deals(stage);
CREATE INDEX IF NOT EXISTS idx_deals_urgency ON deals(urgency);
CREATE INDEX IF NOT EXISTS idx_deals_sender ON deals(sender_address);
CREATE INDEX IF NOT EXISTS idx_deals_next_deadline ON deals(next_deadline);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveDeal(ctx context.Context, rec model.DealRecord) error {
	resultJSON, err := json.Marshal(rec.Result)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal result")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO deals (
			id, thread_id, sender_address, sender_display_name, subject,
			brand_name, campaign_name, stage, payment_amount, payment_currency,
			payment_state, next_deadline, urgency, deliverable_summary, result,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (thread_id) WHERE thread_id IS NOT NULL DO UPDATE SET
			sender_address = excluded.sender_address,
			sender_display_name = excluded.sender_display_name,
			subject = excluded.subject,
			brand_name = excluded.brand_name,
			campaign_name = excluded.campaign_name,
			stage = excluded.stage,
			payment_amount = excluded.payment_amount,
			payment_currency = excluded.payment_currency,
			payment_state = excluded.payment_state,
			next_deadline = excluded.next_deadline,
			urgency = excluded.urgency,
			deliverable_summary = excluded.deliverable_summary,
			result = excluded.result,
			updated_at = excluded.updated_at`,
		rec.ID, rec.ThreadID, rec.SenderAddress, rec.SenderDisplayName, rec.Subject,
		rec.BrandName, rec.CampaignName, string(rec.Stage), rec.PaymentAmount, currencyArg(rec.PaymentCurrency),
		string(rec.PaymentState), rec.NextDeadline, string(rec.Urgency), rec.DeliverableSummary, string(resultJSON),
		rec.CreatedAt.UTC(), rec.UpdatedAt.UTC(),
	)
	return eris.Wrap(err, "sqlite: save deal")
}

func (s *SQLiteStore) GetDeal(ctx context.Context, id string) (*model.DealRecord, error) {
	row := s.db.QueryRowContext(ctx, sqliteSelect+` WHERE id = ?`, id)
	return scanDeal(row)
}

func (s *SQLiteStore) GetDealByThread(ctx context.Context, threadID string) (*model.DealRecord, error) {
	row := s.db.QueryRowContext(ctx, sqliteSelect+` WHERE thread_id = ?`, threadID)
	rec, err := scanDeal(row)
	if err != nil && eris.Is(err, ErrNotFound) {
		return nil, nil
	}
	return rec, err
}

const sqliteSelect = `SELECT id, thread_id, sender_address, sender_display_name, subject,
	brand_name, campaign_name, stage, payment_amount, payment_currency,
	payment_state, next_deadline, urgency, deliverable_summary, result,
	created_at, updated_at FROM deals`

func (s *SQLiteStore) ListDeals(ctx context.Context, filter DealFilter) ([]model.DealRecord, error) {
	query := sqliteSelect + ` WHERE 1=1`
	var args []any

	if filter.Stage != "" {
		query += ` AND stage = ?`
		args = append(args, string(filter.Stage))
	}
	if filter.Urgency != "" {
		query += ` AND urgency = ?`
		args = append(args, string(filter.Urgency))
	}
	if filter.Sender != "" {
		query += ` AND sender_address = ?`
		args = append(args, filter.Sender)
	}
	query += ` ORDER BY updated_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list deals")
	}
	defer rows.Close()

	var deals []model.DealRecord
	for rows.Next() {
		rec, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, *rec)
	}
	return deals, eris.Wrap(rows.Err(), "sqlite: list deals iterate")
}

// helpers

// ErrNotFound reports a lookup that matched no row.
var ErrNotFound = eris.New("store: not found")

type scannable interface {
	Scan(dest ...any) error
}

func currencyArg(c *model.Currency) *string {
	if c == nil {
		return nil
	}
	s := string(*c)
	return &s
}

func scanDeal(row scannable) (*model.DealRecord, error) {
	var rec model.DealRecord
	var stage, state, urgency string
	var currency sql.NullString
	var nextDeadline sql.NullTime
	var resultJSON string

	err := row.Scan(
		&rec.ID, &rec.ThreadID, &rec.SenderAddress, &rec.SenderDisplayName, &rec.Subject,
		&rec.BrandName, &rec.CampaignName, &stage, &rec.PaymentAmount, &currency,
		&state, &nextDeadline, &urgency, &rec.DeliverableSummary, &resultJSON,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: scan deal")
	}

	rec.Stage = model.DealStage(stage)
	rec.PaymentState = model.DealPaymentState(state)
	rec.Urgency = model.UrgencyLevel(urgency)
	if currency.Valid {
		c := model.Currency(currency.String)
		rec.PaymentCurrency = &c
	}
	if nextDeadline.Valid {
		t := nextDeadline.Time
		rec.NextDeadline = &t
	}
	if err := json.Unmarshal([]byte(resultJSON), &rec.Result); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal result")
	}
	return &rec, nil
}
