package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet(t *testing.T) {
	store := NewMemoryStore(time.Minute, time.Minute)
	ctx := context.Background()

	_, ok := store.Get(ctx, "missing")
	assert.False(t, ok)

	store.Set(ctx, "k", []byte("v"), time.Minute)
	got, ok := store.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(time.Minute, time.Minute)
	ctx := context.Background()

	store.Set(ctx, "k", []byte("v"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, ok := store.Get(ctx, "k")
	assert.False(t, ok)
}

func TestJSONHelpers(t *testing.T) {
	store := NewMemoryStore(time.Minute, time.Minute)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	var out payload
	assert.False(t, GetJSON(ctx, store, "missing", &out))

	SetJSON(ctx, store, "k", payload{Name: "louvre", Count: 3}, time.Minute)
	require.True(t, GetJSON(ctx, store, "k", &out))
	assert.Equal(t, "louvre", out.Name)
	assert.Equal(t, 3, out.Count)

	// Corrupt entries read as misses.
	store.Set(ctx, "bad", []byte("{not json"), time.Minute)
	assert.False(t, GetJSON(ctx, store, "bad", &out))
}

func TestNopStore(t *testing.T) {
	store := NopStore{}
	ctx := context.Background()

	store.Set(ctx, "k", []byte("v"), time.Minute)
	_, ok := store.Get(ctx, "k")
	assert.False(t, ok)
}
