package domain

import "github.com/vietddude/bloomcheck/internal/core/bloom"

// Header is the block header snapshot a bloom query operates on.
// It is read-only once constructed and discarded after the query.
type Header struct {
	ChainID    ChainID
	Number     uint64
	Hash       string
	ParentHash string
	Timestamp  uint64
	LogsBloom  bloom.Bloom
}
