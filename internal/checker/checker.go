// Package checker orchestrates bloom queries: resolve a block header,
// test candidates against its log bloom, and optionally verify the
// result against an exact log count.
package checker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	logger "log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vietddude/bloomcheck/internal/core/domain"
	"github.com/vietddude/bloomcheck/internal/core/verify"
	"github.com/vietddude/bloomcheck/internal/metrics"
)

var (
	// ErrNoCandidates is returned when neither address nor topic is given.
	ErrNoCandidates = errors.New("checker: provide at least one of address or topic")

	// ErrBlockNotFound is returned for unknown or future blocks.
	ErrBlockNotFound = errors.New("checker: block not found")
)

// HeaderProvider resolves block header snapshots.
type HeaderProvider interface {
	HeaderByNumber(ctx context.Context, blockNumber uint64) (*domain.Header, error)
}

// BatchHeaderProvider is implemented by header providers that can fetch
// a set of headers in one round trip. Range scans use it to avoid one
// RPC call per block.
type BatchHeaderProvider interface {
	HeadersByNumbers(ctx context.Context, blockNumbers []uint64) (map[uint64]*domain.Header, error)
}

// LogCounter provides the authoritative count of matching log entries.
type LogCounter interface {
	LogCount(ctx context.Context, blockNumber uint64, address, topic0 string) (uint64, error)
}

// HeaderCache caches resolved headers between queries.
type HeaderCache interface {
	GetHeader(ctx context.Context, chainID domain.ChainID, blockNumber uint64) (*domain.Header, error)
	SetHeader(ctx context.Context, header *domain.Header, ttl time.Duration) error
}

// Recorder persists audit records of completed checks.
type Recorder interface {
	Save(ctx context.Context, rec *domain.CheckRecord) error
}

// Request describes one bloom query.
type Request struct {
	Block   uint64
	Address string // 0x hex, optional
	Topic   string // 0x hex, optional
	Verify  bool   // also fetch the exact log count and classify
}

// Result is the outcome of one bloom query.
type Result struct {
	ChainID      domain.ChainID
	Block        uint64
	BlockHash    string
	Address      string
	AddrPresent  *bool // nil when no address was tested
	Topic        string
	TopicPresent *bool // nil when no topic was tested
	Verified     bool
	LogCount     uint64         // valid only when Verified
	Outcome      verify.Outcome // valid only when Verified
	Elapsed      time.Duration
}

// MayContain reports whether any tested candidate may be present.
func (r *Result) MayContain() bool {
	return (r.AddrPresent != nil && *r.AddrPresent) ||
		(r.TopicPresent != nil && *r.TopicPresent)
}

// Service runs bloom queries against one chain.
type Service struct {
	chainID     domain.ChainID
	headers     HeaderProvider
	counts      LogCounter
	cache       HeaderCache // optional
	audit       Recorder    // optional
	cacheTTL    time.Duration
	scanWorkers int
	log         *logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables header caching.
func WithCache(cache HeaderCache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithRecorder enables audit persistence.
func WithRecorder(rec Recorder) Option {
	return func(s *Service) {
		s.audit = rec
	}
}

// WithScanWorkers bounds range-scan concurrency.
func WithScanWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.scanWorkers = n
		}
	}
}

// NewService creates a checker service.
func NewService(chainID domain.ChainID, headers HeaderProvider, counts LogCounter, opts ...Option) *Service {
	s := &Service{
		chainID:     chainID,
		headers:     headers,
		counts:      counts,
		scanWorkers: 5,
		log:         logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check runs one bloom query.
//
// Candidate decoding failures and unknown blocks are returned as errors;
// a soundness violation is NOT an error here — it is a classified result
// the caller must surface prominently.
func (s *Service) Check(ctx context.Context, req Request) (*Result, error) {
	return s.check(ctx, req, nil)
}

// check runs one query, using prefetched as the header when a range
// scan already fetched it in batch.
func (s *Service) check(ctx context.Context, req Request, prefetched *domain.Header) (*Result, error) {
	start := time.Now()

	if req.Address == "" && req.Topic == "" {
		return nil, ErrNoCandidates
	}

	var addrBytes, topicBytes []byte
	var err error
	if req.Address != "" {
		if addrBytes, err = domain.ParseAddress(req.Address); err != nil {
			return nil, err
		}
	}
	if req.Topic != "" {
		if topicBytes, err = domain.ParseTopic(req.Topic); err != nil {
			return nil, err
		}
	}

	header := prefetched
	if header == nil {
		if header, err = s.resolveHeader(ctx, req.Block); err != nil {
			return nil, err
		}
	}

	result := &Result{
		ChainID:   s.chainID,
		Block:     req.Block,
		BlockHash: header.Hash,
		Address:   req.Address,
		Topic:     req.Topic,
	}

	if addrBytes != nil {
		present := header.LogsBloom.Test(addrBytes)
		result.AddrPresent = &present
		metrics.BloomHits.WithLabelValues(s.chainID.String(), "address", fmt.Sprint(present)).Inc()
	}
	if topicBytes != nil {
		present := header.LogsBloom.Test(topicBytes)
		result.TopicPresent = &present
		metrics.BloomHits.WithLabelValues(s.chainID.String(), "topic", fmt.Sprint(present)).Inc()
	}

	if req.Verify {
		count, err := s.counts.LogCount(ctx, req.Block, req.Address, req.Topic)
		if err != nil {
			return nil, fmt.Errorf("verification fetch failed: %w", err)
		}
		result.Verified = true
		result.LogCount = count
		result.Outcome = s.classify(result, count)
	} else {
		metrics.ChecksTotal.WithLabelValues(s.chainID.String(), "unverified").Inc()
	}

	result.Elapsed = time.Since(start)
	metrics.CheckDuration.WithLabelValues(s.chainID.String(), fmt.Sprint(req.Verify)).
		Observe(result.Elapsed.Seconds())

	s.record(ctx, result)
	return result, nil
}

// classify applies the aggregate consistency rules and bumps metrics.
func (s *Service) classify(result *Result, count uint64) verify.Outcome {
	anyPresent := result.MayContain()
	anyAbsent := (result.AddrPresent != nil && !*result.AddrPresent) ||
		(result.TopicPresent != nil && !*result.TopicPresent)

	outcome := verify.ClassifyAggregate(anyPresent, anyAbsent, count)
	metrics.ChecksTotal.WithLabelValues(s.chainID.String(), string(outcome)).Inc()

	if outcome.IsViolation() {
		metrics.SoundnessViolationsTotal.WithLabelValues(s.chainID.String()).Inc()
		s.log.Error("bloom soundness violation",
			"chain", s.chainID.String(),
			"block", result.Block,
			"address", result.Address,
			"topic", result.Topic,
			"log_count", count)
	}
	return outcome
}

func (s *Service) resolveHeader(ctx context.Context, blockNumber uint64) (*domain.Header, error) {
	if s.cache != nil {
		header, err := s.cache.GetHeader(ctx, s.chainID, blockNumber)
		if err != nil {
			s.log.Warn("header cache read failed", "block", blockNumber, "error", err)
		} else if header != nil {
			metrics.HeaderCacheHits.WithLabelValues(s.chainID.String(), "hit").Inc()
			return header, nil
		}
		metrics.HeaderCacheHits.WithLabelValues(s.chainID.String(), "miss").Inc()
	}

	header, err := s.headers.HeaderByNumber(ctx, blockNumber)
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, fmt.Errorf("%w: %d", ErrBlockNotFound, blockNumber)
	}
	header.ChainID = s.chainID

	if s.cache != nil {
		if err := s.cache.SetHeader(ctx, header, s.cacheTTL); err != nil {
			s.log.Warn("header cache write failed", "block", blockNumber, "error", err)
		}
	}
	return header, nil
}

// record persists an audit row; audit failures do not fail the query.
func (s *Service) record(ctx context.Context, result *Result) {
	if s.audit == nil {
		return
	}

	rec := &domain.CheckRecord{
		ID:          uuid.New().String(),
		ChainID:     int64(s.chainID),
		BlockNumber: int64(result.Block),
		Outcome:     "unverified",
		CreatedAt:   time.Now().Unix(),
	}
	if result.Address != "" {
		rec.Address = sql.NullString{String: result.Address, Valid: true}
	}
	if result.Topic != "" {
		rec.Topic = sql.NullString{String: result.Topic, Valid: true}
	}
	if result.AddrPresent != nil {
		rec.AddressInBloom = sql.NullBool{Bool: *result.AddrPresent, Valid: true}
	}
	if result.TopicPresent != nil {
		rec.TopicInBloom = sql.NullBool{Bool: *result.TopicPresent, Valid: true}
	}
	if result.Verified {
		rec.LogCount = sql.NullInt64{Int64: int64(result.LogCount), Valid: true}
		rec.Outcome = string(result.Outcome)
	}

	if err := s.audit.Save(ctx, rec); err != nil {
		s.log.Warn("failed to persist check record", "block", result.Block, "error", err)
	}
}

// CheckRange runs the same query over [from, to] concurrently and
// returns results ordered by block number. Individual block failures
// fail the scan; the range is meant as a pruning pass, so a hole in the
// results would silently hide candidate blocks.
func (s *Service) CheckRange(ctx context.Context, from, to uint64, address, topic string, verifyAll bool) ([]*Result, error) {
	if to < from {
		return nil, fmt.Errorf("checker: invalid range %d-%d", from, to)
	}

	// One batch round trip for the whole range when the header source
	// supports it. Blocks missing from the map (unknown/future) fall
	// back to a single fetch, which reports them as not found.
	var prefetched map[uint64]*domain.Header
	if batch, ok := s.headers.(BatchHeaderProvider); ok {
		numbers := make([]uint64, 0, to-from+1)
		for block := from; block <= to; block++ {
			numbers = append(numbers, block)
		}
		headers, err := batch.HeadersByNumbers(ctx, numbers)
		if err != nil {
			return nil, fmt.Errorf("header batch %d-%d: %w", from, to, err)
		}
		for _, header := range headers {
			header.ChainID = s.chainID
		}
		prefetched = headers
	}

	results := make([]*Result, to-from+1)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.scanWorkers)

	for block := from; block <= to; block++ {
		g.Go(func() error {
			res, err := s.check(ctx, Request{
				Block:   block,
				Address: address,
				Topic:   topic,
				Verify:  verifyAll,
			}, prefetched[block])
			if err != nil {
				return fmt.Errorf("block %d: %w", block, err)
			}
			results[block-from] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
