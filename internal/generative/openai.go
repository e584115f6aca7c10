// Package generative arma la respuesta de venta con OpenAI cuando el vector
// store no devuelve una respuesta agrupada.
package generative

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"catalog-search/internal/models"
)

const (
	DefaultModel   = "gpt-4o-mini"
	defaultTimeout = 30 * time.Second
	maxDescription = 300
)

var ErrEmptyResponse = errors.New("empty response from LLM")

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type OpenAIAnswerer struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

func NewOpenAIAnswerer(cfg Config, logger *zap.Logger) *OpenAIAnswerer {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &OpenAIAnswerer{
		client:  openai.NewClientWithConfig(config),
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

// Answer aplica la tarea agrupada sobre todos los productos en una sola llamada
func (a *OpenAIAnswerer) Answer(ctx context.Context, task string, products []models.Product) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: task},
			{Role: openai.ChatMessageRoleUser, Content: ProductContext(products)},
		},
	}

	start := time.Now()
	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		a.logger.Error("answer generation failed",
			zap.String("model", a.model),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err),
		)
		return "", fmt.Errorf("LLM request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", ErrEmptyResponse
	}

	a.logger.Debug("answer generated",
		zap.String("model", a.model),
		zap.Int("products", len(products)),
		zap.Int("tokens", resp.Usage.TotalTokens),
		zap.Duration("latency", time.Since(start)),
	)
	return answer, nil
}

// ProductContext lista los productos en texto plano para el prompt
func ProductContext(products []models.Product) string {
	var b strings.Builder
	for i, p := range products {
		fmt.Fprintf(&b, "%d. name: %s\n   price: %.2f\n", i+1, p.Name, p.Price)
		if p.Type != "" {
			fmt.Fprintf(&b, "   type: %s\n", p.Type)
		}
		if len(p.Tags) > 0 {
			fmt.Fprintf(&b, "   tags: %s\n", strings.Join(p.Tags, ", "))
		}
		if desc := truncate(p.Description, maxDescription); desc != "" {
			fmt.Fprintf(&b, "   description: %s\n", desc)
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "..."
}
