// Package provider implements RPC provider interfaces.
//
// This package contains:
//   - Provider interface: core abstraction for RPC endpoints
//   - HTTPProvider: JSON-RPC over HTTP implementation
package provider

import "context"

// Provider defines the core interface for any RPC provider.
type Provider interface {
	// GetName returns the provider identifier (e.g., "alchemy", "infura")
	GetName() string

	// IsAvailable checks if the provider is healthy enough to use
	IsAvailable() bool

	// Close cleans up resources
	Close() error
}

// RPCProvider extends Provider with methods for making JSON-RPC calls.
type RPCProvider interface {
	Provider

	// Call makes a single RPC request
	Call(ctx context.Context, method string, params []any) (any, error)

	// BatchCall makes multiple RPC calls in one request
	BatchCall(ctx context.Context, requests []BatchRequest) ([]BatchResponse, error)
}

// BatchRequest represents a single request in a batch call.
type BatchRequest struct {
	Method string
	Params []any
}

// BatchResponse represents a single response from a batch call.
// A per-request failure is carried in Error; the slice position matches
// the request position.
type BatchResponse struct {
	Result any
	Error  error
}
