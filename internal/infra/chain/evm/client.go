// Package evm talks to an EVM JSON-RPC node for header and log queries.
package evm

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/vietddude/bloomcheck/internal/core/bloom"
	"github.com/vietddude/bloomcheck/internal/core/domain"
	"github.com/vietddude/bloomcheck/internal/infra/rpc"
)

// Caller is the RPC surface the client needs.
type Caller interface {
	Call(ctx context.Context, method string, params []any) (any, error)
}

// BatchCaller is implemented by callers that can send several requests
// in one round trip.
type BatchCaller interface {
	BatchCall(ctx context.Context, requests []rpc.BatchRequest) ([]rpc.BatchResponse, error)
}

// Client fetches block headers and exact log counts from an EVM node.
type Client struct {
	rpc Caller
}

// NewClient creates an EVM chain client over the given RPC caller.
func NewClient(rpc Caller) *Client {
	return &Client{rpc: rpc}
}

// ChainID queries the node's chain id.
func (c *Client) ChainID(ctx context.Context) (domain.ChainID, error) {
	result, err := c.rpc.Call(ctx, "eth_chainId", []any{})
	if err != nil {
		return 0, fmt.Errorf("eth_chainId failed: %w", err)
	}
	hexID, ok := result.(string)
	if !ok {
		return 0, fmt.Errorf("invalid chain id response")
	}
	id, err := parseHexString(hexID)
	if err != nil {
		return 0, err
	}
	return domain.ChainID(id), nil
}

// HeaderByNumber fetches the block header snapshot for blockNumber.
// Returns nil if the block does not exist (future or unknown).
func (c *Client) HeaderByNumber(ctx context.Context, blockNumber uint64) (*domain.Header, error) {
	blockHex := fmt.Sprintf("0x%x", blockNumber)
	result, err := c.rpc.Call(ctx, "eth_getBlockByNumber", []any{blockHex, false})
	if err != nil {
		return nil, fmt.Errorf("eth_getBlockByNumber failed: %w", err)
	}
	if result == nil {
		return nil, nil // Not found/future
	}

	raw, ok := result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid block format")
	}
	return parseHeader(raw)
}

func parseHeader(raw map[string]any) (*domain.Header, error) {
	number, err := parseHexString(getString(raw["number"]))
	if err != nil {
		return nil, fmt.Errorf("invalid block number: %w", err)
	}
	timestamp, _ := parseHexString(getString(raw["timestamp"]))

	logsBloom, err := bloom.FromHex(getString(raw["logsBloom"]))
	if err != nil {
		return nil, fmt.Errorf("invalid logsBloom field: %w", err)
	}

	return &domain.Header{
		Number:     number,
		Hash:       getString(raw["hash"]),
		ParentHash: getString(raw["parentHash"]),
		Timestamp:  timestamp,
		LogsBloom:  logsBloom,
	}, nil
}

// HeadersByNumbers fetches the headers for the given blocks, in a
// single batch round trip when the caller supports it. Unknown or
// future blocks are omitted from the result map.
func (c *Client) HeadersByNumbers(ctx context.Context, blockNumbers []uint64) (map[uint64]*domain.Header, error) {
	headers := make(map[uint64]*domain.Header, len(blockNumbers))

	batcher, ok := c.rpc.(BatchCaller)
	if !ok {
		for _, n := range blockNumbers {
			header, err := c.HeaderByNumber(ctx, n)
			if err != nil {
				return nil, err
			}
			if header != nil {
				headers[n] = header
			}
		}
		return headers, nil
	}

	requests := make([]rpc.BatchRequest, len(blockNumbers))
	for i, n := range blockNumbers {
		requests[i] = rpc.BatchRequest{
			Method: "eth_getBlockByNumber",
			Params: []any{fmt.Sprintf("0x%x", n), false},
		}
	}

	responses, err := batcher.BatchCall(ctx, requests)
	if err != nil {
		return nil, fmt.Errorf("batch eth_getBlockByNumber failed: %w", err)
	}
	if len(responses) != len(requests) {
		return nil, fmt.Errorf("batch response count mismatch: got %d, want %d", len(responses), len(requests))
	}

	for i, resp := range responses {
		n := blockNumbers[i]
		if resp.Error != nil {
			return nil, fmt.Errorf("block %d: %w", n, resp.Error)
		}
		if resp.Result == nil {
			continue // Not found/future
		}
		raw, ok := resp.Result.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("block %d: invalid block format", n)
		}
		header, err := parseHeader(raw)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", n, err)
		}
		headers[n] = header
	}
	return headers, nil
}

// LogCount returns the exact number of log entries in blockNumber that
// match the given address and/or topic0 filter. Empty strings mean
// "no filter on that dimension". This is the authoritative ground truth
// the bloom check is verified against.
func (c *Client) LogCount(ctx context.Context, blockNumber uint64, address, topic0 string) (uint64, error) {
	blockHex := fmt.Sprintf("0x%x", blockNumber)
	params := map[string]any{
		"fromBlock": blockHex,
		"toBlock":   blockHex,
	}
	if address != "" {
		params["address"] = strings.ToLower(address)
	}
	if topic0 != "" {
		params["topics"] = []any{strings.ToLower(topic0)}
	}

	result, err := c.rpc.Call(ctx, "eth_getLogs", []any{params})
	if err != nil {
		return 0, fmt.Errorf("eth_getLogs failed: %w", err)
	}
	logs, ok := result.([]any)
	if !ok {
		return 0, fmt.Errorf("invalid logs response")
	}
	return uint64(len(logs)), nil
}

// parseHexString decodes a 0x-prefixed hex quantity. Values that do
// not fit in uint64 are an input-format error, never truncated.
func parseHexString(hexStr string) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(hexStr, "0x"), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hex: %s", hexStr)
	}
	return n, nil
}

func getString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
