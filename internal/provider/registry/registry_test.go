package registry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkarlin/wick/internal/domain"
	"github.com/mkarlin/wick/internal/provider/registry"
)

type namedTransport struct {
	name string
}

func (t *namedTransport) Name() string { return t.name }

func (t *namedTransport) Generate(_ context.Context, _ *domain.TransportRequest) (*domain.TransportResponse, error) {
	return &domain.TransportResponse{Text: "ok"}, nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	ctx := context.Background()
	reg := registry.NewRegistry()

	t.Run("register and retrieve a transport", func(t *testing.T) {
		transport := &namedTransport{name: "gemini"}
		require.NoError(t, reg.Register(ctx, transport))

		got, err := reg.Get(ctx, "gemini")
		require.NoError(t, err)
		require.Same(t, domain.Transport(transport), got)
	})

	t.Run("duplicate registration fails", func(t *testing.T) {
		err := reg.Register(ctx, &namedTransport{name: "gemini"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "already registered")
	})

	t.Run("nil transport is rejected", func(t *testing.T) {
		require.Error(t, reg.Register(ctx, nil))
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		require.Error(t, reg.Register(ctx, &namedTransport{name: ""}))
	})

	t.Run("unknown transport is not found", func(t *testing.T) {
		_, err := reg.Get(ctx, "missing")
		require.Error(t, err)
	})

	t.Run("empty lookup name is rejected", func(t *testing.T) {
		_, err := reg.Get(ctx, "")
		require.Error(t, err)
	})
}

func TestRegistry_List(t *testing.T) {
	ctx := context.Background()
	reg := registry.NewRegistry()

	names, err := reg.List(ctx)
	require.NoError(t, err)
	require.Empty(t, names)

	require.NoError(t, reg.Register(ctx, &namedTransport{name: "gemini"}))
	require.NoError(t, reg.Register(ctx, &namedTransport{name: "openai-compat"}))

	names, err = reg.List(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"gemini", "openai-compat"}, names)
}
