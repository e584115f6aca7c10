package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-search/internal/vectorstore"
)

func TestStore_CollectionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewStore("Products")

	_, err := s.ExistingCollection(ctx)
	assert.ErrorIs(t, err, vectorstore.ErrCollectionNotFound)

	_, err = s.Collection(ctx)
	require.NoError(t, err)

	col, err := s.ExistingCollection(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Products", col.Name())
}

func TestStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := NewStore("Products")

	require.NoError(t, s.Insert(ctx, "a", vectorstore.Properties{"name": "Red mug"}))
	assert.Error(t, s.Insert(ctx, "a", vectorstore.Properties{"name": "dup"}))

	ok, err := s.Exists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Replace(ctx, "a", vectorstore.Properties{"name": "Blue mug"}))
	obj, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Blue mug", obj.Properties["name"])

	assert.Error(t, s.Replace(ctx, "missing", vectorstore.Properties{}))

	require.NoError(t, s.Delete(ctx, "a"))
	obj, err = s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, obj)
	assert.Equal(t, 0, s.Len())
}

func TestStore_NearText(t *testing.T) {
	ctx := context.Background()
	s := NewStore("Products")
	require.NoError(t, s.Insert(ctx, "1", vectorstore.Properties{"name": "Red running shoes", "tags": []string{"sport"}}))
	require.NoError(t, s.Insert(ctx, "2", vectorstore.Properties{"name": "Red mug", "description": "Ceramic"}))
	require.NoError(t, s.Insert(ctx, "3", vectorstore.Properties{"name": "Desk lamp"}))

	res, err := s.NearText(ctx, "red sport shoes", 5, "task")
	require.NoError(t, err)
	require.Len(t, res.Matches, 2)
	assert.Equal(t, "1", res.Matches[0].ID)
	assert.Equal(t, 0.0, res.Matches[0].Distance)
	assert.Equal(t, "2", res.Matches[1].ID)
	assert.Empty(t, res.Answer)

	res, err = s.NearText(ctx, "red", 1, "")
	require.NoError(t, err)
	assert.Len(t, res.Matches, 1)

	res, err = s.NearText(ctx, "   ", 5, "")
	require.NoError(t, err)
	assert.Empty(t, res.Matches)
}
