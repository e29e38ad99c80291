package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mkarlin/wick/internal/config"
	"github.com/mkarlin/wick/internal/domain"
	"github.com/mkarlin/wick/internal/observability"
	"github.com/mkarlin/wick/internal/provider/gemini"
	"github.com/mkarlin/wick/internal/provider/openaicompat"
	"github.com/mkarlin/wick/internal/provider/registry"
	"github.com/mkarlin/wick/internal/ratelimit"
	"github.com/mkarlin/wick/internal/retry"
)

func main() {
	container := buildContainer()

	err := container.Invoke(func(client *domain.Client, logger *zap.Logger) error {
		defer func() { _ = logger.Sync() }()
		return run(context.Background(), client)
	})
	if err != nil {
		log.Fatalf("Failed to run: %v", err)
	}
}

func run(ctx context.Context, client *domain.Client) error {
	if !client.HealthCheck(ctx) {
		return errors.New("health check failed: no text came back from the API")
	}

	promptText := strings.Join(os.Args[1:], " ")
	if promptText == "" {
		fmt.Println("ok")
		return nil
	}

	cost, err := client.EstimateRequestCost(ctx, promptText, 0)
	if err != nil {
		return fmt.Errorf("cost estimation failed: %w", err)
	}
	fmt.Printf("estimated cost: $%.6f\n", cost)

	result, err := client.Generate(ctx, &domain.GenerationRequest{Prompt: promptText})
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	fmt.Println(result.Text)
	fmt.Printf("tokens: %d in / %d out, finish: %s\n",
		result.Tokens.Input, result.Tokens.Output, result.FinishReason)
	return nil
}

func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(func(cfg *domain.ClientConfig) (*zap.Logger, error) {
		return observability.InitLogger(cfg.Debug)
	}); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}

	// Transport registry
	if err := container.Provide(registry.NewRegistry); err != nil {
		log.Fatalf("Failed to provide registry: %v", err)
	}

	// Gemini transport. A missing key yields a nil transport; selection
	// skips nil entries so optional transports never fail the graph.
	if err := container.Provide(func(cfg *gemini.Config) (*gemini.Client, error) {
		if cfg.APIKey == "" {
			return nil, nil
		}
		return gemini.NewClient(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide Gemini transport: %v", err)
	}

	// OpenAI-compatible transport
	if err := container.Provide(func(cfg *openaicompat.Config) (*openaicompat.Transport, error) {
		if cfg.APIKey == "" {
			return nil, nil
		}
		return openaicompat.NewTransport(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide OpenAI-compatible transport: %v", err)
	}

	// Pricing
	if err := container.Provide(func() domain.PriceBook {
		return domain.NewMemoryPriceBook()
	}); err != nil {
		log.Fatalf("Failed to provide price book: %v", err)
	}
	if err := container.Invoke(func(book domain.PriceBook) error {
		ctx := context.Background()
		if err := gemini.RegisterPricing(ctx, book); err != nil {
			return err
		}
		return openaicompat.RegisterPricing(ctx, book)
	}); err != nil {
		log.Fatalf("Failed to register pricing: %v", err)
	}

	// Rate limiter and retry executor
	if err := container.Provide(func(cfg *domain.ClientConfig) *ratelimit.Limiter {
		return ratelimit.New(cfg.RateLimitPerMinute)
	}); err != nil {
		log.Fatalf("Failed to provide rate limiter: %v", err)
	}
	if err := container.Provide(func() *retry.Executor {
		return retry.New(domain.IsRetryable)
	}); err != nil {
		log.Fatalf("Failed to provide retry executor: %v", err)
	}

	// Usage recorder
	if err := container.Provide(func(cfg *domain.ClientConfig, logger *zap.Logger) domain.UsageSink {
		return domain.NewUsageRecorder(logger, cfg.Debug)
	}); err != nil {
		log.Fatalf("Failed to provide usage recorder: %v", err)
	}

	// Selected transport
	if err := container.Provide(func(
		cfg *config.Config,
		reg *registry.Registry,
		geminiTransport *gemini.Client,
		openaiTransport *openaicompat.Transport,
	) (domain.Transport, error) {
		ctx := context.Background()

		if geminiTransport != nil {
			if err := reg.Register(ctx, geminiTransport); err != nil {
				return nil, fmt.Errorf("failed to register Gemini transport: %w", err)
			}
		}
		if openaiTransport != nil {
			if err := reg.Register(ctx, openaiTransport); err != nil {
				return nil, fmt.Errorf("failed to register OpenAI-compatible transport: %w", err)
			}
		}

		return reg.Get(ctx, cfg.Transport)
	}); err != nil {
		log.Fatalf("Failed to provide transport: %v", err)
	}

	// Request client
	if err := container.Provide(func(
		cfg *domain.ClientConfig,
		transport domain.Transport,
		retrier *retry.Executor,
		limiter *ratelimit.Limiter,
		sink domain.UsageSink,
		book domain.PriceBook,
	) (*domain.Client, error) {
		return domain.NewClient(*cfg, transport, retrier, limiter, sink, book)
	}); err != nil {
		log.Fatalf("Failed to provide client: %v", err)
	}

	return container
}
