// Package rpc provides a resilient JSON-RPC client for blockchain nodes.
//
// Calls go through retry with exponential backoff and fail over across
// the configured providers. Rate limiting (429) and blocked-IP (403)
// responses skip straight to the next provider; malformed-request
// JSON-RPC codes abort immediately.
package rpc

import (
	"context"
	"time"

	"github.com/vietddude/bloomcheck/internal/infra/rpc/provider"
	"github.com/vietddude/bloomcheck/internal/infra/rpc/routing"
)

// Provider is the core interface for RPC endpoints.
type Provider = provider.Provider

// RPCProvider is the interface for providers that support JSON-RPC calls.
type RPCProvider = provider.RPCProvider

// HTTPProvider implements Provider for JSON-RPC over HTTP.
type HTTPProvider = provider.HTTPProvider

// BatchRequest represents a single request in a batch call.
type BatchRequest = provider.BatchRequest

// BatchResponse represents a single response from a batch call.
type BatchResponse = provider.BatchResponse

// RetryConfig defines retry behavior.
type RetryConfig = routing.RetryConfig

// DefaultRetryConfig provides sensible retry defaults.
var DefaultRetryConfig = routing.DefaultRetryConfig

// NewHTTPProvider creates a new HTTP-based RPC provider.
func NewHTTPProvider(name, endpoint string, timeout time.Duration) *HTTPProvider {
	return provider.NewHTTPProvider(name, endpoint, timeout)
}

// Client binds an ordered provider list with retry/failover policy.
type Client struct {
	providers []RPCProvider
	retry     RetryConfig
}

// NewClient creates a client over the given providers. Providers are
// tried in order; earlier entries are preferred.
func NewClient(providers ...RPCProvider) *Client {
	return &Client{
		providers: providers,
		retry:     DefaultRetryConfig,
	}
}

// WithRetryConfig overrides the retry policy.
func (c *Client) WithRetryConfig(cfg RetryConfig) *Client {
	c.retry = cfg
	return c
}

// Call makes a JSON-RPC call with retry and failover.
func (c *Client) Call(ctx context.Context, method string, params []any) (any, error) {
	return routing.CallWithFailover(ctx, c.providers, method, params, c.retry)
}

// BatchCall sends several JSON-RPC requests in one round trip, failing
// over across providers on transport errors.
func (c *Client) BatchCall(ctx context.Context, requests []BatchRequest) ([]BatchResponse, error) {
	return routing.BatchCallWithFailover(ctx, c.providers, requests, c.retry)
}

// Close releases all provider resources.
func (c *Client) Close() error {
	for _, p := range c.providers {
		_ = p.Close()
	}
	return nil
}
