package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoRecorder(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("record sync run assigns id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		rec := NewMongoRecorder(mt.DB)

		run := &SyncRun{StartedAt: time.Now(), Pages: 3, Synced: []string{"1", "2"}}
		require.NoError(t, rec.RecordSyncRun(context.Background(), run))
		assert.False(t, run.ID.IsZero())
	})

	mt.Run("record webhook sets received_at", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		rec := NewMongoRecorder(mt.DB)

		event := &WebhookEvent{Action: "create", ProductID: "1", Success: true}
		require.NoError(t, rec.RecordWebhook(context.Background(), event))
		assert.False(t, event.ID.IsZero())
		assert.False(t, event.ReceivedAt.IsZero())
	})

	mt.Run("write error is returned", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))
		rec := NewMongoRecorder(mt.DB)

		err := rec.RecordWebhook(context.Background(), &WebhookEvent{Action: "delete", ProductID: "1"})
		assert.True(t, mongo.IsDuplicateKeyError(err))
	})

	mt.Run("last sync runs", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		ns := mt.DB.Name() + "." + SyncRunsCollection
		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "pages", Value: 2},
			{Key: "synced", Value: bson.A{"1", "2", "3"}},
			{Key: "skipped", Value: 1},
		})
		last := mtest.CreateCursorResponse(0, ns, mtest.NextBatch)
		mt.AddMockResponses(first, last)
		rec := NewMongoRecorder(mt.DB)

		runs, err := rec.LastSyncRuns(context.Background(), 5)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, id, runs[0].ID)
		assert.Equal(t, 2, runs[0].Pages)
		assert.Equal(t, []string{"1", "2", "3"}, runs[0].Synced)
		assert.Equal(t, 1, runs[0].Skipped)
	})
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	assert.NoError(t, r.RecordSyncRun(context.Background(), &SyncRun{}))
	assert.NoError(t, r.RecordWebhook(context.Background(), &WebhookEvent{}))
}
