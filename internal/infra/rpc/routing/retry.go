// Package routing implements retry and failover across RPC providers.
package routing

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vietddude/bloomcheck/internal/infra/rpc/provider"
)

// RetryConfig defines retry behavior.
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffMultiple float64
}

// DefaultRetryConfig provides sensible defaults.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts:     4,
	InitialDelay:    500 * time.Millisecond,
	MaxDelay:        15 * time.Second,
	BackoffMultiple: 2.0,
}

// ErrorAction determines how to handle an error.
type ErrorAction int

const (
	ActionRetry ErrorAction = iota
	ActionFailover
	ActionFatal
)

// ClassifyError determines the action for a given error.
func ClassifyError(err error) ErrorAction {
	if err == nil {
		return ActionRetry // Should not happen
	}

	s := err.Error()
	sLower := strings.ToLower(s)

	// Fatal (Code or Request issues)
	// -32700: Parse error, -32600: Invalid Request, -32601: Method not found, -32602: Invalid params
	if strings.Contains(s, "-32700") || strings.Contains(s, "-32600") ||
		strings.Contains(s, "-32601") || strings.Contains(s, "-32602") {
		return ActionFatal
	}

	// Failover (Provider specific issues)
	if strings.Contains(s, "429") || strings.Contains(sLower, "too many requests") ||
		strings.Contains(s, "403") || strings.Contains(sLower, "forbidden") ||
		strings.Contains(sLower, "quota") || strings.Contains(sLower, "plan limit") ||
		strings.Contains(sLower, "unauthorized") ||
		strings.Contains(sLower, "rate limit") {
		return ActionFailover
	}

	// Default to Retry (Network, 5xx, etc)
	return ActionRetry
}

// CallWithRetry executes an RPC call with exponential backoff.
func CallWithRetry(
	ctx context.Context,
	p provider.RPCProvider,
	method string,
	params []any,
	config RetryConfig,
) (any, error) {
	var lastErr error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		result, err := p.Call(ctx, method, params)
		if err == nil {
			return result, nil
		}

		lastErr = err

		action := ClassifyError(err)
		if action == ActionFatal {
			return nil, err // Stop immediately, do not retry
		}
		if action == ActionFailover {
			return nil, err // Return error immediately to try next provider
		}

		// ActionRetry: continue loop
		if attempt == config.MaxAttempts-1 {
			break
		}

		delay := calculateBackoff(attempt, config)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", config.MaxAttempts, lastErr)
}

// CallWithFailover tries each provider in order with retry.
func CallWithFailover(
	ctx context.Context,
	providers []provider.RPCProvider,
	method string,
	params []any,
	config RetryConfig,
) (any, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("no providers configured")
	}

	var lastErr error
	for _, p := range providers {
		if !p.IsAvailable() {
			continue
		}
		result, err := CallWithRetry(ctx, p, method, params, config)
		if err == nil {
			return result, nil
		}

		lastErr = err

		if ClassifyError(err) == ActionFatal {
			return nil, fmt.Errorf("fatal error from provider %s: %w", p.GetName(), err)
		}
	}

	if lastErr == nil {
		return nil, fmt.Errorf("no available providers")
	}
	return nil, fmt.Errorf("all providers failed: %w", lastErr)
}

// BatchCallWithFailover sends one batch through the first available
// provider that serves it. Transport errors fail over to the next
// provider; per-request errors come back inside the responses and do
// not trigger failover.
func BatchCallWithFailover(
	ctx context.Context,
	providers []provider.RPCProvider,
	requests []provider.BatchRequest,
	config RetryConfig,
) ([]provider.BatchResponse, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("no providers configured")
	}

	var lastErr error
	for _, p := range providers {
		if !p.IsAvailable() {
			continue
		}
		responses, err := p.BatchCall(ctx, requests)
		if err == nil {
			return responses, nil
		}

		lastErr = err

		if ClassifyError(err) == ActionFatal {
			return nil, fmt.Errorf("fatal error from provider %s: %w", p.GetName(), err)
		}
	}

	if lastErr == nil {
		return nil, fmt.Errorf("no available providers")
	}
	return nil, fmt.Errorf("all providers failed: %w", lastErr)
}

func calculateBackoff(attempt int, config RetryConfig) time.Duration {
	delay := float64(config.InitialDelay) * math.Pow(config.BackoffMultiple, float64(attempt))
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	return time.Duration(delay)
}
