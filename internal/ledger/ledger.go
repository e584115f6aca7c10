// Package ledger registra las corridas de sincronización y los webhooks recibidos.
package ledger

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SyncRun resume una corrida de sincronización completa
type SyncRun struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	StartedAt  time.Time          `json:"started_at" bson:"started_at"`
	FinishedAt time.Time          `json:"finished_at" bson:"finished_at"`
	Pages      int                `json:"pages" bson:"pages"`
	Synced     []string           `json:"synced" bson:"synced"`
	Skipped    int                `json:"skipped" bson:"skipped"`
	Failed     []string           `json:"failed" bson:"failed"`
	Error      string             `json:"error,omitempty" bson:"error,omitempty"`
}

// WebhookEvent es una entrega de webhook procesada
type WebhookEvent struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Action     string             `json:"action" bson:"action"`
	ProductID  string             `json:"product_id" bson:"product_id"`
	Success    bool               `json:"success" bson:"success"`
	Error      string             `json:"error,omitempty" bson:"error,omitempty"`
	ReceivedAt time.Time          `json:"received_at" bson:"received_at"`
}

type Recorder interface {
	RecordSyncRun(ctx context.Context, run *SyncRun) error
	RecordWebhook(ctx context.Context, event *WebhookEvent) error
}

// Nop descarta todo; se usa cuando no hay MONGO_URI
type Nop struct{}

func (Nop) RecordSyncRun(context.Context, *SyncRun) error      { return nil }
func (Nop) RecordWebhook(context.Context, *WebhookEvent) error { return nil }
