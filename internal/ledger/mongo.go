package ledger

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	SyncRunsCollection      = "sync_runs"
	WebhookEventsCollection = "webhook_events"
)

type MongoRecorder struct {
	syncRuns *mongo.Collection
	webhooks *mongo.Collection
}

func NewMongoRecorder(db *mongo.Database) *MongoRecorder {
	return &MongoRecorder{
		syncRuns: db.Collection(SyncRunsCollection),
		webhooks: db.Collection(WebhookEventsCollection),
	}
}

// RecordSyncRun guarda la corrida y completa su ID
func (r *MongoRecorder) RecordSyncRun(ctx context.Context, run *SyncRun) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if run.ID.IsZero() {
		run.ID = primitive.NewObjectID()
	}
	_, err := r.syncRuns.InsertOne(ctx, run)
	return err
}

// RecordWebhook guarda el evento de webhook
func (r *MongoRecorder) RecordWebhook(ctx context.Context, event *WebhookEvent) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.ReceivedAt.IsZero() {
		event.ReceivedAt = time.Now()
	}
	_, err := r.webhooks.InsertOne(ctx, event)
	return err
}

// LastSyncRuns lista las últimas corridas, más recientes primero
func (r *MongoRecorder) LastSyncRuns(ctx context.Context, limit int64) ([]*SyncRun, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 10
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.syncRuns.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	runs := make([]*SyncRun, 0)
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}
