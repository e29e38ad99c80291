package domain

import (
	"go.uber.org/zap"
)

// UsageRecorder builds usage accounting from finalized records. Emission is
// gated on verbose diagnostics and never blocks or fails the result path.
type UsageRecorder struct {
	logger  *zap.Logger
	verbose bool
}

// NewUsageRecorder creates a recorder that emits to the given logger when
// verbose is enabled.
func NewUsageRecorder(logger *zap.Logger, verbose bool) *UsageRecorder {
	return &UsageRecorder{
		logger:  logger,
		verbose: verbose,
	}
}

// Emit hands a finalized record to the logging sink. A nil recorder, nil
// logger, or disabled verbose mode makes this a no-op.
func (r *UsageRecorder) Emit(rec UsageRecord) {
	if r == nil || r.logger == nil || !r.verbose {
		return
	}

	r.logger.Info("usage",
		zap.Time("timestamp", rec.Timestamp),
		zap.String("model", rec.Model),
		zap.Int("input_tokens", rec.InputTokens),
		zap.Int("output_tokens", rec.OutputTokens),
		zap.Int("latency_ms", rec.LatencyMs),
		zap.Bool("success", rec.Success),
		zap.String("error", rec.Error),
	)
}

// Aggregate summarizes a batch of usage records. An empty batch yields an
// all-zero summary rather than a division error.
func Aggregate(recs []UsageRecord) UsageSummary {
	if len(recs) == 0 {
		return UsageSummary{}
	}

	var successes, totalLatency, totalTokens int
	for _, rec := range recs {
		if rec.Success {
			successes++
		}
		totalLatency += rec.LatencyMs
		totalTokens += rec.InputTokens + rec.OutputTokens
	}

	total := len(recs)
	return UsageSummary{
		TotalRequests:           total,
		SuccessRate:             float64(successes) / float64(total),
		AverageLatencyMs:        float64(totalLatency) / float64(total),
		TotalTokens:             totalTokens,
		AverageTokensPerRequest: float64(totalTokens) / float64(total),
	}
}
