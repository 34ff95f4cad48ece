package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// HTTPProvider implements RPCProvider for JSON-RPC over HTTP.
type HTTPProvider struct {
	name       string
	endpoint   string
	httpClient *http.Client

	mu           sync.RWMutex
	failureCount int
	requestCount int
}

// NewHTTPProvider creates a new HTTP-based RPC provider.
func NewHTTPProvider(name, endpoint string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		name:     name,
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Call makes a single JSON-RPC call.
func (p *HTTPProvider) Call(ctx context.Context, method string, params []any) (any, error) {
	reqBody := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
		"id":      1,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		p.recordFailure()
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		p.recordFailure()
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.recordFailure()
		return nil, fmt.Errorf("rpc call: %w", err)
	}
	defer resp.Body.Close()

	// Rate limit detection
	if resp.StatusCode == 429 {
		p.recordFailure()
		return nil, fmt.Errorf("rate limited (429), retry after: %s",
			resp.Header.Get("Retry-After"))
	}

	// IP blocked detection
	if resp.StatusCode == 403 {
		p.recordFailure()
		return nil, fmt.Errorf("ip blocked (403)")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		p.recordFailure()
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		p.recordFailure()
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
	}

	var rpcResp struct {
		Result any `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &rpcResp); err != nil {
		p.recordFailure()
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if rpcResp.Error != nil {
		p.recordFailure()
		return nil, fmt.Errorf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}

	p.recordSuccess()
	return rpcResp.Result, nil
}

// BatchCall makes multiple RPC calls in one request.
func (p *HTTPProvider) BatchCall(ctx context.Context, requests []BatchRequest) ([]BatchResponse, error) {
	batchReq := make([]map[string]any, len(requests))
	for i, req := range requests {
		batchReq[i] = map[string]any{
			"jsonrpc": "2.0",
			"method":  req.Method,
			"params":  req.Params,
			"id":      i + 1,
		}
	}

	jsonData, err := json.Marshal(batchReq)
	if err != nil {
		p.recordFailure()
		return nil, fmt.Errorf("marshal batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		p.recordFailure()
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.recordFailure()
		return nil, fmt.Errorf("batch call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		p.recordFailure()
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		p.recordFailure()
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
	}

	var rpcResps []struct {
		ID     int `json:"id"`
		Result any `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &rpcResps); err != nil {
		p.recordFailure()
		return nil, fmt.Errorf("parse batch response: %w", err)
	}

	// Responses may arrive out of order; map by id.
	responses := make([]BatchResponse, len(requests))
	for _, r := range rpcResps {
		idx := r.ID - 1
		if idx < 0 || idx >= len(responses) {
			continue
		}
		if r.Error != nil {
			responses[idx].Error = fmt.Errorf("rpc error %d: %s", r.Error.Code, r.Error.Message)
			continue
		}
		responses[idx].Result = r.Result
	}

	p.recordSuccess()
	return responses, nil
}

// GetName returns the provider identifier.
func (p *HTTPProvider) GetName() string {
	return p.name
}

// IsAvailable checks if the provider is healthy enough to use.
func (p *HTTPProvider) IsAvailable() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.requestCount >= 10 && float64(p.failureCount)/float64(p.requestCount) > 0.5 {
		return false
	}
	return true
}

// Close cleans up resources.
func (p *HTTPProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}

func (p *HTTPProvider) recordSuccess() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requestCount++
}

func (p *HTTPProvider) recordFailure() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requestCount++
	p.failureCount++
}
