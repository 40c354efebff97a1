package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKV_SetGet(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "a", []byte("1"), 0))

	got, err := kv.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	_, err = kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryKV_Expiry(t *testing.T) {
	kv := NewMemoryKV()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	kv.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "session", []byte("x"), time.Minute))

	_, err := kv.Get(ctx, "session")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = kv.Get(ctx, "session")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryKV_DeletePrefix(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "books_list_p1", []byte("a"), 0))
	require.NoError(t, kv.Set(ctx, "books_list_p2", []byte("b"), 0))
	require.NoError(t, kv.Set(ctx, "guest_cart:1", []byte("c"), 0))

	require.NoError(t, kv.DeletePrefix(ctx, "books_list_"))

	_, err := kv.Get(ctx, "books_list_p1")
	assert.ErrorIs(t, err, ErrMiss)
	_, err = kv.Get(ctx, "guest_cart:1")
	assert.NoError(t, err)
}

func TestJSONHelpers(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, SetJSON(ctx, kv, "p", payload{Name: "dune", Count: 2}, 0))

	var got payload
	require.NoError(t, GetJSON(ctx, kv, "p", &got))
	assert.Equal(t, payload{Name: "dune", Count: 2}, got)

	require.NoError(t, kv.Delete(ctx, "p"))
	assert.ErrorIs(t, GetJSON(ctx, kv, "p", &got), ErrMiss)
}
