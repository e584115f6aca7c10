package shopify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Topics de producto que sincronizan el catálogo
var ProductTopics = []WebhookTopic{
	{Topic: "products/create", Endpoint: "create"},
	{Topic: "products/update", Endpoint: "update"},
	{Topic: "products/delete", Endpoint: "delete"},
}

type WebhookTopic struct {
	Topic    string
	Endpoint string
}

type Webhook struct {
	ID        int64      `json:"id,omitempty"`
	Topic     string     `json:"topic"`
	Address   string     `json:"address"`
	Format    string     `json:"format,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// ListWebhooks lista los webhooks registrados en la tienda
func (c *Client) ListWebhooks(ctx context.Context) ([]Webhook, error) {
	var body struct {
		Webhooks []Webhook `json:"webhooks"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/webhooks.json", nil, &body); err != nil {
		return nil, err
	}
	return body.Webhooks, nil
}

// CreateWebhook registra un webhook JSON para el topic en la dirección dada
func (c *Client) CreateWebhook(ctx context.Context, topic, address string) (*Webhook, error) {
	req := map[string]Webhook{
		"webhook": {Topic: topic, Address: address, Format: "json"},
	}
	var body struct {
		Webhook Webhook `json:"webhook"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/webhooks.json", req, &body); err != nil {
		return nil, err
	}
	return &body.Webhook, nil
}

// DeleteWebhook elimina un webhook por ID
func (c *Client) DeleteWebhook(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/webhooks/%d.json", id), nil, nil)
	return err
}

// SetupProductWebhooks registra create/update/delete apuntando a baseURL/{endpoint}.
// Los topics ya registrados con la misma dirección no se duplican.
func (c *Client) SetupProductWebhooks(ctx context.Context, baseURL string) ([]Webhook, error) {
	existing, err := c.ListWebhooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list webhooks: %w", err)
	}
	registered := make(map[string]bool, len(existing))
	for _, w := range existing {
		registered[w.Topic+" "+w.Address] = true
	}

	created := make([]Webhook, 0, len(ProductTopics))
	for _, t := range ProductTopics {
		address := baseURL + "/" + t.Endpoint
		if registered[t.Topic+" "+address] {
			c.logger.Info("webhook already registered", zap.String("topic", t.Topic), zap.String("address", address))
			continue
		}
		w, err := c.CreateWebhook(ctx, t.Topic, address)
		if err != nil {
			return created, fmt.Errorf("create webhook %s: %w", t.Topic, err)
		}
		c.logger.Info("webhook created", zap.String("topic", t.Topic), zap.String("address", address), zap.Int64("id", w.ID))
		created = append(created, *w)
	}
	return created, nil
}

// DeleteAllWebhooks elimina todos los webhooks de la tienda y devuelve cuántos borró
func (c *Client) DeleteAllWebhooks(ctx context.Context) (int, error) {
	webhooks, err := c.ListWebhooks(ctx)
	if err != nil {
		return 0, fmt.Errorf("list webhooks: %w", err)
	}
	deleted := 0
	for _, w := range webhooks {
		if err := c.DeleteWebhook(ctx, w.ID); err != nil {
			return deleted, fmt.Errorf("delete webhook %d: %w", w.ID, err)
		}
		c.logger.Info("webhook deleted", zap.Int64("id", w.ID), zap.String("topic", w.Topic), zap.String("address", w.Address))
		deleted++
	}
	return deleted, nil
}
