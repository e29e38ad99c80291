// Package openaicompat provides a transport for OpenAI-compatible
// chat-completion APIs using the official SDK. It converts between the
// domain transport types and SDK types; retry stays with the domain client,
// so the SDK's own retries are disabled.
package openaicompat

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/mkarlin/wick/internal/domain"
)

const transportName = "openai-compat"

// Transport implements domain.Transport for OpenAI-compatible APIs.
type Transport struct {
	client openai.Client
}

// NewTransport creates a new OpenAI-compatible transport.
func NewTransport(config Config) (*Transport, error) {
	if config.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
	}

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &Transport{
		client: openai.NewClient(opts...),
	}, nil
}

// Name returns the transport identifier.
func (t *Transport) Name() string {
	return transportName
}

// Generate sends a chat-completion request and returns the raw response.
func (t *Transport) Generate(ctx context.Context, req *domain.TransportRequest) (*domain.TransportResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	resp, err := t.client.Chat.Completions.New(ctx, toSDKParams(req))
	if err != nil {
		return nil, toTransportError(err)
	}

	return toTransportResponse(resp), nil
}

// toSDKParams converts a transport request to SDK ChatCompletionNewParams.
func toSDKParams(req *domain.TransportRequest) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
	}

	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	if req.TopP > 0 {
		params.TopP = openai.Float(req.TopP)
	}

	if req.MaxOutputTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxOutputTokens))
	}

	if len(req.StopSequences) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{
			OfStringArray: req.StopSequences,
		}
	}

	return params
}

// toTransportError reshapes SDK errors so the classifier sees the HTTP
// status code and the API's own message.
func toTransportError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return &domain.StatusError{
			Code:    apierr.StatusCode,
			Message: apierr.Error(),
		}
	}
	return fmt.Errorf("OpenAI API call failed: %w", err)
}

// toTransportResponse converts an SDK response to the domain transport
// response.
func toTransportResponse(resp *openai.ChatCompletion) *domain.TransportResponse {
	if len(resp.Choices) == 0 {
		return &domain.TransportResponse{}
	}

	choice := resp.Choices[0]

	return &domain.TransportResponse{
		Text:         choice.Message.Content,
		FinishReason: toFinishReason(choice.FinishReason),
	}
}

func toFinishReason(reason string) domain.FinishReason {
	switch reason {
	case "stop":
		return domain.FinishStop
	case "length":
		return domain.FinishMaxTokens
	case "content_filter":
		return domain.FinishSafety
	case "":
		return ""
	default:
		return domain.FinishOther
	}
}
