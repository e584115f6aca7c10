package generative

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"catalog-search/internal/models"
)

func fakeOpenAI(t *testing.T, content string, captured *openai.ChatCompletionRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(captured))

		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnswer(t *testing.T) {
	var req openai.ChatCompletionRequest
	srv := fakeOpenAI(t, "  Our linen shirt costs 30.00.  ", &req)

	a := NewOpenAIAnswerer(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1"}, zap.NewNop())
	answer, err := a.Answer(context.Background(), "Introduce the products.", []models.Product{
		{Name: "Linen Shirt", Price: 30, Tags: []string{"summer"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Our linen shirt costs 30.00.", answer)
	assert.Equal(t, DefaultModel, req.Model)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "Introduce the products.", req.Messages[0].Content)
	assert.Contains(t, req.Messages[1].Content, "name: Linen Shirt")
	assert.Contains(t, req.Messages[1].Content, "price: 30.00")
}

func TestAnswer_EmptyContent(t *testing.T) {
	var req openai.ChatCompletionRequest
	srv := fakeOpenAI(t, "   ", &req)

	a := NewOpenAIAnswerer(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Model: "gpt-test"}, zap.NewNop())
	_, err := a.Answer(context.Background(), "task", []models.Product{{Name: "x"}})

	assert.ErrorIs(t, err, ErrEmptyResponse)
	assert.Equal(t, "gpt-test", req.Model)
}

func TestAnswer_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
	}))
	defer srv.Close()

	a := NewOpenAIAnswerer(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1"}, zap.NewNop())
	_, err := a.Answer(context.Background(), "task", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM request failed")
}

func TestProductContext_TruncatesDescription(t *testing.T) {
	out := ProductContext([]models.Product{
		{Name: "A", Price: 1, Description: strings.Repeat("a", 400)},
		{Name: "B", Price: 2.5},
	})

	assert.Contains(t, out, "1. name: A")
	assert.Contains(t, out, "2. name: B")
	assert.Contains(t, out, strings.Repeat("a", 300)+"...")
	assert.NotContains(t, out, strings.Repeat("a", 301))
}
