package evm

import (
	"context"
	"strings"
	"testing"

	"github.com/vietddude/bloomcheck/internal/infra/rpc"
)

// MockCaller implements Caller for testing
type MockCaller struct {
	CallFunc func(ctx context.Context, method string, params []any) (any, error)
	calls    int
}

func (m *MockCaller) Call(ctx context.Context, method string, params []any) (any, error) {
	m.calls++
	if m.CallFunc != nil {
		return m.CallFunc(ctx, method, params)
	}
	return nil, nil
}

// MockBatchCaller additionally implements BatchCaller.
type MockBatchCaller struct {
	MockCaller
	BatchFunc  func(ctx context.Context, requests []rpc.BatchRequest) ([]rpc.BatchResponse, error)
	batchCalls int
}

func (m *MockBatchCaller) BatchCall(ctx context.Context, requests []rpc.BatchRequest) ([]rpc.BatchResponse, error) {
	m.batchCalls++
	return m.BatchFunc(ctx, requests)
}

func emptyBloomHex() string {
	return "0x" + strings.Repeat("00", 256)
}

func TestClient_ChainID(t *testing.T) {
	mock := &MockCaller{
		CallFunc: func(ctx context.Context, method string, params []any) (any, error) {
			if method == "eth_chainId" {
				return "0x1", nil
			}
			return nil, nil
		},
	}

	client := NewClient(mock)
	id, err := client.ChainID(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 1 {
		t.Errorf("expected chain id 1, got %d", id)
	}
	if id.Name() != "Ethereum Mainnet" {
		t.Errorf("unexpected network name: %s", id.Name())
	}
}

func TestClient_HeaderByNumber(t *testing.T) {
	mock := &MockCaller{
		CallFunc: func(ctx context.Context, method string, params []any) (any, error) {
			if method == "eth_getBlockByNumber" {
				if params[0] != "0x12d687" {
					t.Errorf("unexpected block param: %v", params[0])
				}
				if params[1] != false {
					t.Error("header fetch must not request full transactions")
				}
				return map[string]any{
					"number":     "0x12d687",
					"hash":       "0xabc123",
					"parentHash": "0xabc122",
					"timestamp":  "0x65678900",
					"logsBloom":  emptyBloomHex(),
				}, nil
			}
			return nil, nil
		},
	}

	client := NewClient(mock)
	header, err := client.HeaderByNumber(context.Background(), 1234567)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if header.Number != 1234567 {
		t.Errorf("expected block number 1234567, got %d", header.Number)
	}
	if header.Hash != "0xabc123" {
		t.Errorf("unexpected block hash: %s", header.Hash)
	}
	if header.LogsBloom.Test([]byte("anything")) {
		t.Error("empty bloom must not report any candidate present")
	}
}

func TestClient_HeaderByNumber_NotFound(t *testing.T) {
	mock := &MockCaller{
		CallFunc: func(ctx context.Context, method string, params []any) (any, error) {
			return nil, nil // node returns null for unknown blocks
		},
	}

	client := NewClient(mock)
	header, err := client.HeaderByNumber(context.Background(), 99999999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if header != nil {
		t.Error("expected nil header for unknown block")
	}
}

func TestClient_HeaderByNumber_BadBloom(t *testing.T) {
	mock := &MockCaller{
		CallFunc: func(ctx context.Context, method string, params []any) (any, error) {
			return map[string]any{
				"number":    "0x1",
				"logsBloom": "0xdeadbeef", // wrong width
			}, nil
		},
	}

	client := NewClient(mock)
	if _, err := client.HeaderByNumber(context.Background(), 1); err == nil {
		t.Fatal("expected error for truncated logsBloom")
	}
}

func TestClient_HeaderByNumber_OversizedNumber(t *testing.T) {
	mock := &MockCaller{
		CallFunc: func(ctx context.Context, method string, params []any) (any, error) {
			return map[string]any{
				"number":    "0x10000000000000000", // 2^64, does not fit
				"logsBloom": emptyBloomHex(),
			}, nil
		},
	}

	client := NewClient(mock)
	if _, err := client.HeaderByNumber(context.Background(), 1); err == nil {
		t.Fatal("expected error for block number exceeding uint64, not truncation")
	}
}

func TestClient_HeadersByNumbers_Batch(t *testing.T) {
	mock := &MockBatchCaller{
		BatchFunc: func(ctx context.Context, requests []rpc.BatchRequest) ([]rpc.BatchResponse, error) {
			if len(requests) != 3 {
				t.Errorf("expected 3 batched requests, got %d", len(requests))
			}
			if requests[0].Method != "eth_getBlockByNumber" || requests[0].Params[0] != "0xa" {
				t.Errorf("unexpected first request: %+v", requests[0])
			}
			return []rpc.BatchResponse{
				{Result: map[string]any{"number": "0xa", "hash": "0xaaa", "logsBloom": emptyBloomHex()}},
				{Result: nil}, // unknown block
				{Result: map[string]any{"number": "0xc", "hash": "0xccc", "logsBloom": emptyBloomHex()}},
			}, nil
		},
	}

	client := NewClient(mock)
	headers, err := client.HeadersByNumbers(context.Background(), []uint64{10, 11, 12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.batchCalls != 1 {
		t.Errorf("expected 1 batch round trip, got %d", mock.batchCalls)
	}
	if mock.calls != 0 {
		t.Errorf("batch fetch must not fall back to single calls, got %d", mock.calls)
	}
	if len(headers) != 2 {
		t.Fatalf("expected 2 headers, got %d", len(headers))
	}
	if headers[10] == nil || headers[10].Hash != "0xaaa" {
		t.Errorf("unexpected header for block 10: %+v", headers[10])
	}
	if _, ok := headers[11]; ok {
		t.Error("unknown block must be omitted from the result map")
	}
}

func TestClient_HeadersByNumbers_SequentialFallback(t *testing.T) {
	mock := &MockCaller{
		CallFunc: func(ctx context.Context, method string, params []any) (any, error) {
			return map[string]any{
				"number":    params[0],
				"hash":      "0xhead",
				"logsBloom": emptyBloomHex(),
			}, nil
		},
	}

	client := NewClient(mock)
	headers, err := client.HeadersByNumbers(context.Background(), []uint64{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.calls != 3 {
		t.Errorf("expected 3 single fetches without batch support, got %d", mock.calls)
	}
	if len(headers) != 3 {
		t.Errorf("expected 3 headers, got %d", len(headers))
	}
}

func TestClient_LogCount(t *testing.T) {
	mock := &MockCaller{
		CallFunc: func(ctx context.Context, method string, params []any) (any, error) {
			if method != "eth_getLogs" {
				return nil, nil
			}
			filter := params[0].(map[string]any)
			if filter["fromBlock"] != "0xa" || filter["toBlock"] != "0xa" {
				t.Errorf("unexpected block range: %v", filter)
			}
			if filter["address"] != "0xabc" {
				t.Errorf("unexpected address filter: %v", filter["address"])
			}
			topics := filter["topics"].([]any)
			if topics[0] != "0xdef" {
				t.Errorf("unexpected topic filter: %v", topics[0])
			}
			return []any{map[string]any{}, map[string]any{}, map[string]any{}}, nil
		},
	}

	client := NewClient(mock)
	count, err := client.LogCount(context.Background(), 10, "0xAbC", "0xDeF")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Errorf("expected count 3, got %d", count)
	}
}

func TestClient_LogCount_NoFilters(t *testing.T) {
	mock := &MockCaller{
		CallFunc: func(ctx context.Context, method string, params []any) (any, error) {
			filter := params[0].(map[string]any)
			if _, ok := filter["address"]; ok {
				t.Error("address filter must be omitted when empty")
			}
			if _, ok := filter["topics"]; ok {
				t.Error("topics filter must be omitted when empty")
			}
			return []any{}, nil
		},
	}

	client := NewClient(mock)
	count, err := client.LogCount(context.Background(), 10, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}
}
