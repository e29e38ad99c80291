package domain

import "context"

// Transport is a remote text-generation backend.
type Transport interface {
	// Generate sends a single generation request and returns the raw response.
	Generate(ctx context.Context, req *TransportRequest) (*TransportResponse, error)

	// Name returns the transport identifier.
	Name() string
}

// UsageSink consumes finalized usage records.
type UsageSink interface {
	// Emit hands off a finalized record. It must not fail or block the
	// caller's result path.
	Emit(rec UsageRecord)
}

// PriceBook maintains per-model pricing used for cost estimation.
type PriceBook interface {
	// Lookup returns the pricing for a model.
	Lookup(ctx context.Context, model string) (Pricing, error)

	// Register adds pricing for a model.
	Register(ctx context.Context, model string, p Pricing) error
}
