// Package shopify es un cliente mínimo de la Admin REST API de Shopify.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"catalog-search/internal/models"
)

const (
	accessTokenHeader = "X-Shopify-Access-Token"
	// MaxPageSize es el máximo permitido por products.json
	MaxPageSize = 250
)

type Config struct {
	Store       string
	AccessToken string
	APIVersion  string
	// BaseURL reemplaza https://{Store}/admin/api/{APIVersion} (tests)
	BaseURL string
	Timeout time.Duration
	// RequestsPerSecond limita las llamadas a la API (bucket leaky de Shopify: 2/s)
	RequestsPerSecond float64
	Burst             int
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// ProductPage es una página de productos con el cursor de la siguiente
type ProductPage struct {
	Products     []models.ShopifyProduct
	NextPageInfo string
}

// APIError es una respuesta no exitosa de Shopify
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopify api: status %d: %s", e.StatusCode, e.Body)
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2025-07"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = 2
	}
	if cfg.Burst == 0 {
		cfg.Burst = 4
	}
	base := cfg.BaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s/admin/api/%s", cfg.Store, cfg.APIVersion)
	}
	return &Client{
		baseURL: base,
		token:   cfg.AccessToken,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:  logger,
	}
}

// ListProducts pide una página de products.json; pageInfo vacío pide la primera
func (c *Client) ListProducts(ctx context.Context, pageInfo string, limit int) (*ProductPage, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	if pageInfo != "" {
		params.Set("page_info", pageInfo)
	}

	var body struct {
		Products []models.ShopifyProduct `json:"products"`
	}
	header, err := c.do(ctx, http.MethodGet, "/products.json?"+params.Encode(), nil, &body)
	if err != nil {
		return nil, err
	}

	return &ProductPage{
		Products:     body.Products,
		NextPageInfo: NextPageInfo(header.Get("Link")),
	}, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, requestBody, response any) (http.Header, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var reader io.Reader
	if requestBody != nil {
		data, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(accessTokenHeader, c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("shopify request", zap.String("method", method), zap.String("endpoint", endpoint))

	resp, err := c.http.Do(req)
	if err != nil {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("request was cancelled: %w", ctx.Err())
		default:
			return nil, fmt.Errorf("failed to execute request: %w", err)
		}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: truncate(string(payload), 512)}
	}

	if response != nil && len(bytes.TrimSpace(payload)) > 0 {
		if err := json.Unmarshal(payload, response); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return resp.Header, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
