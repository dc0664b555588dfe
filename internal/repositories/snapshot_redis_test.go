package repositories

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (SnapshotStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSnapshotStore(client), mr
}

func TestRedisSnapshotStore_PutThenGet(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "problem_json", []byte(`{"1":{}}`)))

	got, err := store.Get(ctx, "problem_json")
	require.NoError(t, err)
	assert.Equal(t, `{"1":{}}`, string(got))
	assert.Zero(t, mr.TTL("problem_json"))
}

func TestRedisSnapshotStore_PutReplaces(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "problem_json", []byte(`{"1":{}}`)))
	require.NoError(t, store.Put(ctx, "problem_json", []byte(`{"2":{}}`)))

	got, err := store.Get(ctx, "problem_json")
	require.NoError(t, err)
	assert.Equal(t, `{"2":{}}`, string(got))
}

func TestRedisSnapshotStore_Missing(t *testing.T) {
	store, _ := newRedisStore(t)

	_, err := store.Get(context.Background(), "problem_json")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestRedisSnapshotStore_Unavailable(t *testing.T) {
	store, mr := newRedisStore(t)
	mr.Close()

	_, err := store.Get(context.Background(), "problem_json")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSnapshotNotFound)

	assert.Error(t, store.Put(context.Background(), "problem_json", []byte(`{}`)))
}
