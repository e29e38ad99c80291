package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkarlin/wick/internal/domain"
	"github.com/mkarlin/wick/internal/provider/gemini"
)

func TestNewClient(t *testing.T) {
	t.Run("valid config constructs", func(t *testing.T) {
		client, err := gemini.NewClient(gemini.Config{APIKey: "test-key", BaseURL: "https://example.test/v1beta"})
		require.NoError(t, err)
		require.NotNil(t, client)
		require.Equal(t, "gemini", client.Name())
	})

	t.Run("missing API key is rejected", func(t *testing.T) {
		_, err := gemini.NewClient(gemini.Config{})
		require.Error(t, err)
		require.Contains(t, err.Error(), "API key is required")
	})
}

func newServerClient(t *testing.T, handler http.HandlerFunc) *gemini.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := gemini.NewClient(gemini.Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)
	return client
}

func TestClient_Generate_Success(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any

	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content":      map[string]any{"parts": []map[string]any{{"text": "hello "}, {"text": "world"}}},
				"finishReason": "STOP",
				"safetyRatings": []map[string]any{
					{"category": "HARM_CATEGORY_HARASSMENT", "probability": "NEGLIGIBLE"},
				},
			}},
		})
	})

	resp, err := client.Generate(context.Background(), &domain.TransportRequest{
		Model:           "gemini-1.5-flash",
		Prompt:          "say hello",
		MaxOutputTokens: 128,
		Temperature:     0.7,
		TopP:            0.9,
		StopSequences:   []string{"END"},
	})

	require.NoError(t, err)
	require.Equal(t, "hello world", resp.Text)
	require.Equal(t, domain.FinishStop, resp.FinishReason)
	require.Len(t, resp.SafetyRatings, 1)
	require.Equal(t, domain.SafetyNegligible, resp.SafetyRatings[0].Probability)

	require.Equal(t, "/models/gemini-1.5-flash:generateContent", gotPath)
	require.Equal(t, "test-key", gotKey)

	genCfg, ok := gotBody["generationConfig"].(map[string]any)
	require.True(t, ok)
	require.InDelta(t, 0.7, genCfg["temperature"], 0.0001)
	require.InDelta(t, 0.9, genCfg["topP"], 0.0001)
	require.InDelta(t, 128, genCfg["maxOutputTokens"], 0.0001)
	require.Equal(t, []any{"END"}, genCfg["stopSequences"])
}

func TestClient_Generate_FinishReasonMapping(t *testing.T) {
	tests := []struct {
		remote   string
		expected domain.FinishReason
	}{
		{"STOP", domain.FinishStop},
		{"MAX_TOKENS", domain.FinishMaxTokens},
		{"SAFETY", domain.FinishSafety},
		{"RECITATION", domain.FinishRecitation},
		{"SPII", domain.FinishOther},
		{"", domain.FinishReason("")},
	}

	for _, tt := range tests {
		t.Run("remote reason "+tt.remote, func(t *testing.T) {
			client := newServerClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"candidates": []map[string]any{{
						"content":      map[string]any{"parts": []map[string]any{{"text": "x"}}},
						"finishReason": tt.remote,
					}},
				})
			})

			resp, err := client.Generate(context.Background(), &domain.TransportRequest{
				Model:  "gemini-1.5-flash",
				Prompt: "hi",
			})
			require.NoError(t, err)
			require.Equal(t, tt.expected, resp.FinishReason)
		})
	}
}

func TestClient_Generate_BlockedPrompt(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates":     []map[string]any{},
			"promptFeedback": map[string]any{"blockReason": "SAFETY"},
		})
	})

	_, err := client.Generate(context.Background(), &domain.TransportRequest{
		Model:  "gemini-1.5-flash",
		Prompt: "hi",
	})

	require.Error(t, err)
	require.Equal(t, domain.KindContentFiltered, domain.Classify(err))
}

func TestClient_Generate_StatusErrorCarriesCodeAndMessage(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    429,
				"message": "Resource has been exhausted (e.g. check quota).",
				"status":  "RESOURCE_EXHAUSTED",
			},
		})
	})

	_, err := client.Generate(context.Background(), &domain.TransportRequest{
		Model:  "gemini-1.5-flash",
		Prompt: "hi",
	})

	require.Error(t, err)

	var statusErr *domain.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusTooManyRequests, statusErr.Code)
	require.Contains(t, statusErr.Message, "quota")
	require.Equal(t, domain.KindQuotaExceeded, domain.Classify(err))
}

func TestClient_Generate_PlainBodyStatusError(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("upstream unavailable"))
	})

	_, err := client.Generate(context.Background(), &domain.TransportRequest{
		Model:  "gemini-1.5-flash",
		Prompt: "hi",
	})

	var statusErr *domain.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
	require.Equal(t, domain.KindServiceUnavailable, domain.Classify(err))
}

func TestClient_Generate_ContextCancellation(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Generate(ctx, &domain.TransportRequest{
		Model:  "gemini-1.5-flash",
		Prompt: "hi",
	})
	require.Error(t, err)
}

func TestClient_Generate_NilRequest(t *testing.T) {
	client, err := gemini.NewClient(gemini.Config{APIKey: "test-key"})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "request cannot be nil")
}
