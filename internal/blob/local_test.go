package blob

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir(), "/v1/exports/")
	require.NoError(t, err)

	n, err := store.PutObject(ctx, "shopping-lists/list.pdf", []byte("%PDF"), "application/pdf")
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)

	data, err := store.GetObject(ctx, "shopping-lists/list.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), data)

	url, err := store.PresignGet(ctx, "shopping-lists/list.pdf", 60)
	require.NoError(t, err)
	assert.Equal(t, "/v1/exports/shopping-lists/list.pdf", url)

	require.NoError(t, store.DeleteObject(ctx, "shopping-lists/list.pdf"))
	_, err = store.GetObject(ctx, "shopping-lists/list.pdf")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, store.DeleteObject(ctx, "shopping-lists/list.pdf"))
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/v1/exports")
	require.NoError(t, err)

	for _, key := range []string{"", "../etc/passwd", "a/../../b", "/abs"} {
		_, err := store.GetObject(context.Background(), key)
		assert.Error(t, err, key)
		assert.False(t, errors.Is(err, ErrNotFound), key)
	}
}
