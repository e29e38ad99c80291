package domain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkarlin/wick/internal/domain"
	"github.com/mkarlin/wick/internal/provider/gemini"
	"github.com/mkarlin/wick/internal/provider/openaicompat"
)

func TestMemoryPriceBook(t *testing.T) {
	ctx := context.Background()

	t.Run("registered pricing round-trips", func(t *testing.T) {
		book := domain.NewMemoryPriceBook()
		pricing := domain.Pricing{InputCostPer1K: 0.001, OutputCostPer1K: 0.002}

		require.NoError(t, book.Register(ctx, "test-model", pricing))

		got, err := book.Lookup(ctx, "test-model")
		require.NoError(t, err)
		require.Equal(t, pricing, got)
	})

	t.Run("re-registering replaces the entry", func(t *testing.T) {
		book := domain.NewMemoryPriceBook()
		require.NoError(t, book.Register(ctx, "test-model", domain.Pricing{InputCostPer1K: 0.001}))
		require.NoError(t, book.Register(ctx, "test-model", domain.Pricing{InputCostPer1K: 0.005}))

		got, err := book.Lookup(ctx, "test-model")
		require.NoError(t, err)
		require.InDelta(t, 0.005, got.InputCostPer1K, 1e-9)
	})

	t.Run("unknown model fails lookup", func(t *testing.T) {
		book := domain.NewMemoryPriceBook()
		_, err := book.Lookup(ctx, "missing")
		require.Error(t, err)
		require.Contains(t, err.Error(), "pricing not found")
	})

	t.Run("empty model name is rejected", func(t *testing.T) {
		book := domain.NewMemoryPriceBook()
		err := book.Register(ctx, "", domain.Pricing{})
		require.Error(t, err)
	})
}

func TestProviderPricingRegistration(t *testing.T) {
	ctx := context.Background()
	book := domain.NewMemoryPriceBook()

	require.NoError(t, gemini.RegisterPricing(ctx, book))
	require.NoError(t, openaicompat.RegisterPricing(ctx, book))

	for _, model := range []string{
		"gemini-1.5-flash", "gemini-1.5-pro", "gemini-2.0-flash",
		"gpt-4o", "gpt-4o-mini", "gpt-3.5-turbo",
	} {
		pricing, err := book.Lookup(ctx, model)
		require.NoError(t, err, "model %s", model)
		require.Positive(t, pricing.InputCostPer1K)
		require.Positive(t, pricing.OutputCostPer1K)
	}
}
