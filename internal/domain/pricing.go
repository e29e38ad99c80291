package domain

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Pricing holds per-model token pricing.
type Pricing struct {
	InputCostPer1K  float64 // USD per 1K input tokens
	OutputCostPer1K float64 // USD per 1K output tokens
}

// MemoryPriceBook stores pricing in memory. Transports register their model
// tables at startup; lookups afterwards are read-only.
type MemoryPriceBook struct {
	mu     sync.RWMutex
	prices map[string]Pricing
}

// NewMemoryPriceBook creates an empty in-memory price book.
func NewMemoryPriceBook() *MemoryPriceBook {
	return &MemoryPriceBook{
		mu:     sync.RWMutex{},
		prices: make(map[string]Pricing),
	}
}

// Lookup returns the pricing for a model.
func (b *MemoryPriceBook) Lookup(_ context.Context, model string) (Pricing, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	p, exists := b.prices[model]
	if !exists {
		return Pricing{}, fmt.Errorf("pricing not found for model: %s", model)
	}

	return p, nil
}

// Register adds pricing for a model.
func (b *MemoryPriceBook) Register(_ context.Context, model string, p Pricing) error {
	if model == "" {
		return errors.New("model cannot be empty")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.prices[model] = p
	return nil
}
