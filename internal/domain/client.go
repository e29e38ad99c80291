package domain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mkarlin/wick/internal/observability"
	"github.com/mkarlin/wick/internal/prompt"
	"github.com/mkarlin/wick/internal/ratelimit"
	"github.com/mkarlin/wick/internal/retry"
	"github.com/mkarlin/wick/internal/tokens"
)

const (
	// batchGroupSize bounds how many batch requests run concurrently.
	batchGroupSize = 5

	// healthCheckPrompt is the minimal probe sent by HealthCheck.
	healthCheckPrompt = "ping"
	// healthCheckMaxTokens keeps probe responses cheap.
	healthCheckMaxTokens = 8

	maxTemperature = 2.0
	maxTopP        = 1.0
)

// Client orchestrates the request lifecycle: sanitize, budget, dispatch with
// bounded retry and a hard per-call timeout, classify failures, and account
// usage. Config and transport are immutable after construction, so one
// client is safe for concurrent use.
type Client struct {
	cfg         ClientConfig
	transport   Transport
	retrier     *retry.Executor
	limiter     *ratelimit.Limiter
	sink        UsageSink
	prices      PriceBook
	initialized bool
}

// NewClient creates a client (DI constructor). The configuration is
// validated here; a client that fails construction never dispatches.
func NewClient(
	cfg ClientConfig,
	transport Transport,
	retrier *retry.Executor,
	limiter *ratelimit.Limiter,
	sink UsageSink,
	prices PriceBook,
) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}
	if transport == nil {
		return nil, errors.New("transport cannot be nil")
	}
	if retrier == nil {
		retrier = retry.New(IsRetryable)
	}

	return &Client{
		cfg:         cfg,
		transport:   transport,
		retrier:     retrier,
		limiter:     limiter,
		sink:        sink,
		prices:      prices,
		initialized: true,
	}, nil
}

// Generate runs one generation request through the full pipeline and returns
// the typed result or a typed error.
func (c *Client) Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error) {
	if c == nil || !c.initialized {
		return nil, NewError(KindInvalidRequest, "client is not initialized", nil)
	}
	if req == nil {
		return nil, NewError(KindInvalidRequest, "request cannot be nil", nil)
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	ctx = observability.WithRequestID(ctx, observability.GenerateRequestID())
	ctx = observability.WithTransport(ctx, c.transport.Name())
	ctx = observability.WithModel(ctx, c.cfg.Model)
	logger := observability.FromContext(ctx)

	sanitized := prompt.Sanitize(req.Prompt)

	adjusted, inputTokens, truncated, err := prompt.FitToBudget(
		sanitized, c.cfg.MaxTokens, tokens.DefaultReservedTokens)
	if err != nil {
		return nil, NewError(KindTokenLimitExceeded,
			"prompt cannot be truncated to fit the token budget", err)
	}
	if truncated {
		logger.Warn("prompt truncated to fit token budget",
			observability.Int("input_tokens", inputTokens),
			observability.Int("max_tokens", c.cfg.MaxTokens))
	}

	start := time.Now()
	rec := UsageRecord{
		Timestamp:   start,
		Model:       c.cfg.Model,
		InputTokens: inputTokens,
		Success:     false,
	}

	resp, err := c.dispatch(ctx, req, adjusted)
	latency := int(time.Since(start).Milliseconds())

	// Empty output is never a valid success, even when the HTTP layer
	// reported one.
	if err == nil && resp.Text == "" {
		err = NewError(KindContentFiltered, UserMessage(KindContentFiltered), nil)
	}

	if err != nil {
		typed := AsError(err)
		rec.LatencyMs = latency
		rec.Error = typed.Message
		c.record(rec)
		logger.Error("generation failed",
			observability.String("kind", string(typed.Kind)),
			observability.Bool("retryable", typed.Retryable),
			observability.Int("latency_ms", latency),
			observability.Error(typed.Cause))
		return nil, typed
	}

	outputTokens := tokens.Estimate(resp.Text)
	rec.OutputTokens = outputTokens
	rec.LatencyMs = latency
	rec.Success = true
	c.record(rec)

	finishReason := resp.FinishReason
	if finishReason == "" {
		finishReason = FinishStop
	}

	logger.Debug("generation succeeded",
		observability.Int("input_tokens", inputTokens),
		observability.Int("output_tokens", outputTokens),
		observability.Int("latency_ms", latency))

	return &GenerationResult{
		Text: resp.Text,
		Tokens: TokenCounts{
			Input:  inputTokens,
			Output: outputTokens,
			Total:  inputTokens + outputTokens,
		},
		FinishReason:  finishReason,
		SafetyRatings: resp.SafetyRatings,
	}, nil
}

// dispatch sends the adjusted prompt through the rate limiter and the retry
// executor; every attempt runs under its own hard deadline that cancels the
// in-flight call.
func (c *Client) dispatch(ctx context.Context, req *GenerationRequest, adjusted string) (*TransportResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	treq := &TransportRequest{
		Model:           c.cfg.Model,
		Prompt:          adjusted,
		MaxOutputTokens: req.MaxOutputTokens,
		Temperature:     req.Temperature,
		TopP:            req.TopP,
		StopSequences:   req.StopSequences,
	}

	var resp *TransportResponse
	err := c.retrier.Do(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
		defer cancel()

		r, callErr := c.transport.Generate(callCtx, treq)
		if callErr != nil {
			return callErr
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// GenerateBatch processes requests in fixed-size groups: groups run
// sequentially, requests within a group run concurrently. The first failure
// aborts the whole batch; there is no partial-result return.
func (c *Client) GenerateBatch(ctx context.Context, reqs []*GenerationRequest) ([]*GenerationResult, error) {
	results := make([]*GenerationResult, len(reqs))

	for groupStart := 0; groupStart < len(reqs); groupStart += batchGroupSize {
		groupEnd := min(groupStart+batchGroupSize, len(reqs))

		var wg sync.WaitGroup
		groupErrs := make(chan error, groupEnd-groupStart)

		for i := groupStart; i < groupEnd; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				res, err := c.Generate(ctx, reqs[i])
				if err != nil {
					groupErrs <- err
					return
				}
				results[i] = res
			}(i)
		}

		wg.Wait()
		close(groupErrs)

		for err := range groupErrs {
			return nil, err
		}
	}

	return results, nil
}

// GenerateStream is deliberately unimplemented; streaming generation is out
// of scope for this client.
func (c *Client) GenerateStream(_ context.Context, _ *GenerationRequest) (<-chan StreamChunk, error) {
	return nil, NewError(KindInvalidRequest, "streaming generation is not supported", nil)
}

// HealthCheck issues a minimal probe and reports whether non-empty text came
// back.
func (c *Client) HealthCheck(ctx context.Context) bool {
	res, err := c.Generate(ctx, &GenerationRequest{
		Prompt:          healthCheckPrompt,
		MaxOutputTokens: healthCheckMaxTokens,
	})
	return err == nil && res.Text != ""
}

// EstimateRequestCost estimates the cost of a request in USD from the fixed
// price table, without any network call. A non-positive maxOutputTokens
// assumes the reserved output margin. Models without registered pricing
// estimate to zero.
func (c *Client) EstimateRequestCost(ctx context.Context, promptText string, maxOutputTokens int) (float64, error) {
	if c == nil || !c.initialized {
		return 0, NewError(KindInvalidRequest, "client is not initialized", nil)
	}
	if c.prices == nil {
		return 0, nil
	}

	pricing, err := c.prices.Lookup(ctx, c.cfg.Model)
	if err != nil {
		//nolint:nilerr // Unknown pricing estimates to zero cost, as elsewhere
		return 0, nil
	}

	if maxOutputTokens <= 0 {
		maxOutputTokens = tokens.DefaultReservedTokens
	}

	inputTokens := tokens.Estimate(prompt.Sanitize(promptText))
	inputCost := float64(inputTokens) / tokensToPerK * pricing.InputCostPer1K
	outputCost := float64(maxOutputTokens) / tokensToPerK * pricing.OutputCostPer1K

	return inputCost + outputCost, nil
}

const tokensToPerK = 1000.0

func (c *Client) record(rec UsageRecord) {
	if c.sink == nil {
		return
	}
	c.sink.Emit(rec)
}

func validateRequest(req *GenerationRequest) error {
	if req.Temperature < 0 || req.Temperature > maxTemperature {
		return NewError(KindInvalidRequest,
			fmt.Sprintf("temperature must be in [0, %v]", maxTemperature), nil)
	}
	if req.TopP < 0 || req.TopP > maxTopP {
		return NewError(KindInvalidRequest,
			fmt.Sprintf("top_p must be in [0, %v]", maxTopP), nil)
	}
	return nil
}
