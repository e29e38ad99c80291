// Package gemini provides the native REST transport for the Gemini
// generateContent API. It owns the wire DTOs and surfaces HTTP failures as
// status-carrying errors for classification upstream.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mkarlin/wick/internal/domain"
)

const transportName = "gemini"

// Client is the HTTP transport for the Gemini API. It implements
// domain.Transport; cancellation is driven entirely by the request context.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Gemini transport.
func NewClient(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, errors.New("Gemini API key is required")
	}

	return &Client{
		apiKey:     config.APIKey,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{},
	}, nil
}

// Gemini API request/response structures.
type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	TopP            *float64 `json:"topP,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	StopSequences   []string `json:"stopSequences,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
		SafetyRatings []struct {
			Category    string `json:"category"`
			Probability string `json:"probability"`
		} `json:"safetyRatings"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

type geminiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Name returns the transport identifier.
func (c *Client) Name() string {
	return transportName
}

// Generate sends a generateContent request and returns the raw response.
func (c *Client) Generate(ctx context.Context, req *domain.TransportRequest) (*domain.TransportResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	reqBody, err := json.Marshal(toGeminiRequest(req))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, req.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	var geminiResp geminiResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&geminiResp); decodeErr != nil {
		return nil, fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	return toTransportResponse(&geminiResp)
}

// statusError shapes a non-200 response into a status-carrying error so the
// classifier sees both the code and the API's own message.
func (c *Client) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var apiErr geminiErrorBody
	if jsonErr := json.Unmarshal(body, &apiErr); jsonErr == nil && apiErr.Error.Message != "" {
		return &domain.StatusError{
			Code:    resp.StatusCode,
			Message: apiErr.Error.Message,
		}
	}

	return &domain.StatusError{
		Code:    resp.StatusCode,
		Message: fmt.Sprintf("API returned status %d: %s", resp.StatusCode, string(body)),
	}
}

func toGeminiRequest(req *domain.TransportRequest) geminiRequest {
	out := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: req.Prompt}}},
		},
	}

	cfg := &geminiGenerationConfig{
		MaxOutputTokens: req.MaxOutputTokens,
		StopSequences:   req.StopSequences,
	}
	if req.Temperature > 0 {
		temp := req.Temperature
		cfg.Temperature = &temp
	}
	if req.TopP > 0 {
		topP := req.TopP
		cfg.TopP = &topP
	}
	out.GenerationConfig = cfg

	return out
}

func toTransportResponse(resp *geminiResponse) (*domain.TransportResponse, error) {
	if len(resp.Candidates) == 0 {
		if reason := resp.PromptFeedback.BlockReason; reason != "" {
			return nil, fmt.Errorf("prompt blocked: %s", reason)
		}
		return &domain.TransportResponse{}, nil
	}

	candidate := resp.Candidates[0]

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		text.WriteString(part.Text)
	}

	ratings := make([]domain.SafetyRating, 0, len(candidate.SafetyRatings))
	for _, r := range candidate.SafetyRatings {
		ratings = append(ratings, domain.SafetyRating{
			Category:    r.Category,
			Probability: domain.SafetyProbability(r.Probability),
		})
	}

	return &domain.TransportResponse{
		Text:          text.String(),
		FinishReason:  toFinishReason(candidate.FinishReason),
		SafetyRatings: ratings,
	}, nil
}

func toFinishReason(reason string) domain.FinishReason {
	switch reason {
	case "STOP":
		return domain.FinishStop
	case "MAX_TOKENS":
		return domain.FinishMaxTokens
	case "SAFETY":
		return domain.FinishSafety
	case "RECITATION":
		return domain.FinishRecitation
	case "":
		return ""
	default:
		return domain.FinishOther
	}
}
