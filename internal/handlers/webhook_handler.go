package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"catalog-search/internal/cache"
	"catalog-search/internal/ledger"
	"catalog-search/internal/metrics"
	"catalog-search/internal/models"
	"catalog-search/internal/repository"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"

	HMACHeader = "X-Shopify-Hmac-Sha256"
)

type ProductWriter interface {
	Insert(ctx context.Context, product models.Product) error
	Update(ctx context.Context, product models.Product) error
	Delete(ctx context.Context, productID string) (bool, error)
}

// WebhookHandler recibe los webhooks de productos de Shopify
type WebhookHandler struct {
	products ProductWriter
	cache    *cache.Cache
	ledger   ledger.Recorder
	metrics  *metrics.Metrics
	secret   string
	logger   *zap.Logger
	now      func() time.Time
}

type WebhookOption func(*WebhookHandler)

// WithSearchCache invalida las búsquedas cacheadas tras cada escritura
func WithSearchCache(c *cache.Cache) WebhookOption {
	return func(h *WebhookHandler) { h.cache = c }
}

func WithWebhookLedger(r ledger.Recorder) WebhookOption {
	return func(h *WebhookHandler) {
		if r != nil {
			h.ledger = r
		}
	}
}

func WithWebhookMetrics(m *metrics.Metrics) WebhookOption {
	return func(h *WebhookHandler) { h.metrics = m }
}

// WithSecret activa la verificación HMAC de cada entrega
func WithSecret(secret string) WebhookOption {
	return func(h *WebhookHandler) { h.secret = secret }
}

func NewWebhookHandler(products ProductWriter, logger *zap.Logger, opts ...WebhookOption) *WebhookHandler {
	h := &WebhookHandler{
		products: products,
		ledger:   ledger.Nop{},
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// POST /products/create
func (h *WebhookHandler) CreateProduct(c *gin.Context) { h.handle(c, ActionCreate) }

// POST /products/update
func (h *WebhookHandler) UpdateProduct(c *gin.Context) { h.handle(c, ActionUpdate) }

// POST /products/delete
func (h *WebhookHandler) DeleteProduct(c *gin.Context) { h.handle(c, ActionDelete) }

func (h *WebhookHandler) handle(c *gin.Context, action string) {
	body, err := c.GetRawData()
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		h.reject(c, action, http.StatusBadRequest, &ValidationError{Field: "body", Message: "empty request body"})
		return
	}

	if h.secret != "" && !VerifyWebhook(body, c.GetHeader(HMACHeader), h.secret) {
		h.reject(c, action, http.StatusUnauthorized, errors.New("invalid webhook signature"))
		return
	}

	var payload models.ShopifyProduct
	if err := json.Unmarshal(body, &payload); err != nil {
		h.reject(c, action, http.StatusBadRequest, &ValidationError{Field: "body", Message: "invalid JSON payload"})
		return
	}
	if payload.ID == 0 {
		h.reject(c, action, http.StatusBadRequest, &ValidationError{Field: "id", Message: "product id is required"})
		return
	}

	product := payload.ToProduct(h.now())
	ctx := c.Request.Context()

	var data any
	switch action {
	case ActionCreate:
		err = h.products.Insert(ctx, product)
		data = product
	case ActionUpdate:
		err = h.products.Update(ctx, product)
		data = product
	case ActionDelete:
		var deleted bool
		deleted, err = h.products.Delete(ctx, product.ProductID)
		data = DeletedProduct{ProductID: product.ProductID, Deleted: deleted}
	}

	if err != nil {
		status, outcome, message := webhookOutcome(action, err)
		if outcome == metrics.OutcomeFailed {
			h.logger.Error("webhook failed",
				zap.String("action", action),
				zap.String("product_id", product.ProductID),
				zap.Error(err),
			)
		} else {
			h.logger.Info("webhook not applied",
				zap.String("action", action),
				zap.String("product_id", product.ProductID),
				zap.String("reason", message),
			)
		}
		h.record(ctx, action, product.ProductID, outcome, err)
		c.JSON(status, WebhookResponse{Success: false, Action: action, Message: message})
		return
	}

	if h.cache != nil {
		h.cache.DeleteByPrefix(SearchCachePrefix)
	}
	h.record(ctx, action, product.ProductID, metrics.OutcomeApplied, nil)
	h.logger.Info("webhook applied", zap.String("action", action), zap.String("product_id", product.ProductID))

	c.JSON(http.StatusOK, WebhookResponse{Success: true, Action: action, Data: data})
}

// webhookOutcome traduce el error del repositorio sin exponer el detalle interno.
// Un duplicado o un producto inexistente no son fallos: se responde 200 para que
// Shopify no reintente la entrega.
func webhookOutcome(action string, err error) (status int, outcome, message string) {
	switch {
	case errors.Is(err, repository.ErrAlreadyExists):
		return http.StatusOK, metrics.OutcomeSkipped, "product already exists"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusOK, metrics.OutcomeSkipped, "product not found"
	case errors.Is(err, repository.ErrInvalidProduct):
		return http.StatusBadRequest, metrics.OutcomeRejected, "invalid product"
	}
	return http.StatusInternalServerError, metrics.OutcomeFailed, "could not " + action + " product"
}

func (h *WebhookHandler) reject(c *gin.Context, action string, status int, err error) {
	h.logger.Warn("webhook rejected", zap.String("action", action), zap.Int("status", status), zap.Error(err))
	if h.metrics != nil {
		h.metrics.RecordWebhook(action, metrics.OutcomeRejected)
	}
	c.JSON(status, WebhookResponse{Success: false, Action: action, Message: err.Error()})
}

func (h *WebhookHandler) record(ctx context.Context, action, productID, outcome string, err error) {
	if h.metrics != nil {
		h.metrics.RecordWebhook(action, outcome)
	}

	event := &ledger.WebhookEvent{
		Action:     action,
		ProductID:  productID,
		Success:    err == nil,
		ReceivedAt: h.now(),
	}
	if err != nil {
		event.Error = err.Error()
	}
	if recErr := h.ledger.RecordWebhook(context.WithoutCancel(ctx), event); recErr != nil {
		h.logger.Warn("webhook event not recorded", zap.Error(recErr))
	}
}

// VerifyWebhook compara la firma HMAC-SHA256 (base64) del cuerpo crudo
func VerifyWebhook(body []byte, signature, secret string) bool {
	if signature == "" {
		return false
	}
	got, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}
