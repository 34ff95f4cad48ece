package postgres

import (
	"context"
	"fmt"

	"github.com/vietddude/bloomcheck/internal/core/domain"
)

// CheckRepo persists verification audit records.
type CheckRepo struct {
	db *DB
}

// NewCheckRepo creates a new PostgreSQL check repository.
func NewCheckRepo(db *DB) *CheckRepo {
	return &CheckRepo{db: db}
}

// Save inserts one audit record.
func (r *CheckRepo) Save(ctx context.Context, rec *domain.CheckRecord) error {
	const query = `
		INSERT INTO checks (
			id, chain_id, block_number, address, topic,
			address_in_bloom, topic_in_bloom, log_count, outcome, created_at
		) VALUES (
			:id, :chain_id, :block_number, :address, :topic,
			:address_in_bloom, :topic_in_bloom, :log_count, :outcome, :created_at
		)`
	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("failed to save check record: %w", err)
	}
	return nil
}

// ListRecent returns the most recent audit records, newest first.
func (r *CheckRepo) ListRecent(ctx context.Context, limit int) ([]domain.CheckRecord, error) {
	const query = `
		SELECT id, chain_id, block_number, address, topic,
		       address_in_bloom, topic_in_bloom, log_count, outcome, created_at
		FROM checks
		ORDER BY created_at DESC, id
		LIMIT $1`
	var records []domain.CheckRecord
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list check records: %w", err)
	}
	return records, nil
}

// ListViolations returns recorded soundness violations, newest first.
// These indicate a corrupted filter or a derivation bug and are kept
// separately queryable.
func (r *CheckRepo) ListViolations(ctx context.Context, limit int) ([]domain.CheckRecord, error) {
	const query = `
		SELECT id, chain_id, block_number, address, topic,
		       address_in_bloom, topic_in_bloom, log_count, outcome, created_at
		FROM checks
		WHERE outcome = 'soundness_violation'
		ORDER BY created_at DESC, id
		LIMIT $1`
	var records []domain.CheckRecord
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list violations: %w", err)
	}
	return records, nil
}
