package domain

import "time"

// GenerationRequest represents a single text-generation request.
// It is immutable once constructed and owned by the call that creates it.
type GenerationRequest struct {
	Prompt          string   `json:"prompt"`
	MaxOutputTokens int      `json:"max_output_tokens,omitempty"`
	Temperature     float64  `json:"temperature,omitempty"`
	TopP            float64  `json:"top_p,omitempty"`
	StopSequences   []string `json:"stop_sequences,omitempty"`
}

// FinishReason indicates why the model stopped generating.
type FinishReason string

const (
	FinishStop       FinishReason = "STOP"
	FinishMaxTokens  FinishReason = "MAX_TOKENS"
	FinishSafety     FinishReason = "SAFETY"
	FinishRecitation FinishReason = "RECITATION"
	FinishOther      FinishReason = "OTHER"
)

// SafetyProbability is the likelihood bucket reported for a safety category.
type SafetyProbability string

const (
	SafetyNegligible SafetyProbability = "NEGLIGIBLE"
	SafetyLow        SafetyProbability = "LOW"
	SafetyMedium     SafetyProbability = "MEDIUM"
	SafetyHigh       SafetyProbability = "HIGH"
)

// SafetyRating is a per-category safety assessment attached to a result.
type SafetyRating struct {
	Category    string            `json:"category"`
	Probability SafetyProbability `json:"probability"`
}

// TokenCounts tracks token consumption for one request.
type TokenCounts struct {
	Input  int `json:"input"`
	Output int `json:"output"`
	Total  int `json:"total"`
}

// GenerationResult represents a successful generation response.
type GenerationResult struct {
	Text          string         `json:"text"`
	Tokens        TokenCounts    `json:"tokens"`
	FinishReason  FinishReason   `json:"finish_reason"`
	SafetyRatings []SafetyRating `json:"safety_ratings,omitempty"`
}

// StreamChunk represents a single streaming response chunk.
type StreamChunk struct {
	Delta string `json:"delta"`
	Done  bool   `json:"done"`
	Error error  `json:"error,omitempty"`
}

// UsageRecord captures the accounting outcome of one request. It is
// finalized exactly once, after all retries resolve, then handed to the
// usage sink and never mutated again.
type UsageRecord struct {
	Timestamp    time.Time `json:"timestamp"`
	Model        string    `json:"model"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	LatencyMs    int       `json:"latency_ms"`
	Success      bool      `json:"success"`
	Error        string    `json:"error,omitempty"`
}

// UsageSummary aggregates a batch of usage records.
type UsageSummary struct {
	TotalRequests           int     `json:"total_requests"`
	SuccessRate             float64 `json:"success_rate"`
	AverageLatencyMs        float64 `json:"average_latency_ms"`
	TotalTokens             int     `json:"total_tokens"`
	AverageTokensPerRequest float64 `json:"average_tokens_per_request"`
}

// TransportRequest is the wire-level request handed to a transport.
type TransportRequest struct {
	Model           string
	Prompt          string
	MaxOutputTokens int
	Temperature     float64
	TopP            float64
	StopSequences   []string
}

// TransportResponse is the wire-level response returned by a transport.
// FinishReason may be empty when the remote does not supply one.
type TransportResponse struct {
	Text          string
	FinishReason  FinishReason
	SafetyRatings []SafetyRating
}
