// Package sqlite contains database/sql implementations of repository interfaces.
// The statements are portable, so the same repositories serve SQLite and MySQL.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/haggle/internal/ports/secondary"
)

// NegotiationRepository implements secondary.NegotiationRepository.
type NegotiationRepository struct {
	db *sql.DB
}

// NewNegotiationRepository creates a new negotiation repository.
func NewNegotiationRepository(db *sql.DB) *NegotiationRepository {
	return &NegotiationRepository{db: db}
}

// Save persists a completed negotiation.
func (r *NegotiationRepository) Save(ctx context.Context, record *secondary.NegotiationRecord) error {
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO negotiations
			(id, item, buyer_max, seller_min, final_price, conversation, transcript, summary, analysis, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Item,
		record.BuyerMax,
		record.SellerMin,
		record.FinalPrice,
		record.Conversation,
		nullString(record.Transcript),
		nullString(record.Summary),
		nullString(record.Analysis),
		createdAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save negotiation %s: %w", record.ID, err)
	}

	return nil
}

// ListRecent returns up to limit negotiations, newest first.
func (r *NegotiationRepository) ListRecent(ctx context.Context, limit int) ([]*secondary.NegotiationSummaryRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("history limit must be positive, got %d", limit)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, item, buyer_max, seller_min, final_price, created_at
		FROM negotiations
		ORDER BY created_at DESC, id DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list negotiations: %w", err)
	}
	defer rows.Close()

	var records []*secondary.NegotiationSummaryRecord
	for rows.Next() {
		record := &secondary.NegotiationSummaryRecord{}
		err := rows.Scan(&record.ID, &record.Item, &record.BuyerMax, &record.SellerMin, &record.FinalPrice, &record.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan negotiation: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate negotiations: %w", err)
	}

	return records, nil
}

// GetByID retrieves a negotiation by its ID.
func (r *NegotiationRepository) GetByID(ctx context.Context, id string) (*secondary.NegotiationRecord, error) {
	var transcript, summary, analysis sql.NullString

	record := &secondary.NegotiationRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, item, buyer_max, seller_min, final_price, conversation, transcript, summary, analysis, created_at
		FROM negotiations WHERE id = ?`,
		id,
	).Scan(
		&record.ID,
		&record.Item,
		&record.BuyerMax,
		&record.SellerMin,
		&record.FinalPrice,
		&record.Conversation,
		&transcript,
		&summary,
		&analysis,
		&record.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("negotiation %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get negotiation: %w", err)
	}

	record.Transcript = transcript.String
	record.Summary = summary.String
	record.Analysis = analysis.String

	return record, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ secondary.NegotiationRepository = (*NegotiationRepository)(nil)
