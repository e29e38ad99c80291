package gemini

import (
	"context"
	"fmt"

	"github.com/mkarlin/wick/internal/domain"
)

const (
	// Gemini 1.5 Flash pricing per 1K tokens
	flash15InputCostPer1K  = 0.000075
	flash15OutputCostPer1K = 0.0003

	// Gemini 1.5 Pro pricing per 1K tokens
	pro15InputCostPer1K  = 0.00125
	pro15OutputCostPer1K = 0.005

	// Gemini 2.0 Flash pricing per 1K tokens
	flash20InputCostPer1K  = 0.0001
	flash20OutputCostPer1K = 0.0004
)

// RegisterPricing registers Gemini model pricing with the price book.
func RegisterPricing(ctx context.Context, book domain.PriceBook) error {
	models := map[string]domain.Pricing{
		"gemini-1.5-flash": {
			InputCostPer1K:  flash15InputCostPer1K,
			OutputCostPer1K: flash15OutputCostPer1K,
		},
		"gemini-1.5-pro": {
			InputCostPer1K:  pro15InputCostPer1K,
			OutputCostPer1K: pro15OutputCostPer1K,
		},
		"gemini-2.0-flash": {
			InputCostPer1K:  flash20InputCostPer1K,
			OutputCostPer1K: flash20OutputCostPer1K,
		},
	}

	for model, pricing := range models {
		if err := book.Register(ctx, model, pricing); err != nil {
			return fmt.Errorf("failed to register pricing for model %s: %w", model, err)
		}
	}

	return nil
}
