package llm

import (
	"context"
	"fmt"
	"time"
)

// transportRetryDelay is the fixed pause before the single transport retry.
const transportRetryDelay = 500 * time.Millisecond

// RetryingProvider wraps a Provider with a single retry on transport failure,
// after a fixed delay. A second failure is terminal; the caller sees the
// final error and must retry manually.
type RetryingProvider struct {
	provider Provider
	delay    time.Duration
}

// NewRetryingProvider wraps the given provider with the one-retry transport
// policy.
func NewRetryingProvider(provider Provider) *RetryingProvider {
	return &RetryingProvider{
		provider: provider,
		delay:    transportRetryDelay,
	}
}

func (r *RetryingProvider) Name() string {
	return r.provider.Name()
}

func (r *RetryingProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	resp, err := r.provider.Complete(ctx, req)
	if err == nil {
		return resp, nil
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(r.delay):
	}

	resp, retryErr := r.provider.Complete(ctx, req)
	if retryErr != nil {
		return nil, fmt.Errorf("model request failed after retry: %w", retryErr)
	}
	return resp, nil
}
