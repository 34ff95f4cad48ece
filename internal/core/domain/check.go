package domain

import "database/sql"

// CheckRecord is the persisted audit row for one verification query.
// Soundness violations must stay durably queryable, so every verified
// check is recorded, not just the failing ones.
type CheckRecord struct {
	ID             string         `db:"id"`
	ChainID        int64          `db:"chain_id"`
	BlockNumber    int64          `db:"block_number"`
	Address        sql.NullString `db:"address"`
	Topic          sql.NullString `db:"topic"`
	AddressInBloom sql.NullBool   `db:"address_in_bloom"`
	TopicInBloom   sql.NullBool   `db:"topic_in_bloom"`
	LogCount       sql.NullInt64  `db:"log_count"`
	Outcome        string         `db:"outcome"`
	CreatedAt      int64          `db:"created_at"`
}
