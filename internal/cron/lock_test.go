package cron

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	values map[string]string
}

func (m *memoryStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value.(string)
	return true, nil
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func TestRedisLockExcludesSecondOwner(t *testing.T) {
	store := &memoryStore{values: map[string]string{}}
	ctx := context.Background()

	a, err := NewRedisLock(store, "lock:cron", time.Minute)
	require.NoError(t, err)
	b, err := NewRedisLock(store, "lock:cron", time.Minute)
	require.NoError(t, err)

	ok, err := a.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// a non-owner release must leave the lock alone
	require.NoError(t, b.Release(ctx))
	assert.Contains(t, store.values, "lock:cron")

	require.NoError(t, a.Release(ctx))
	assert.NotContains(t, store.values, "lock:cron")

	ok, err = b.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewRedisLockValidates(t *testing.T) {
	_, err := NewRedisLock(nil, "k", time.Minute)
	assert.Error(t, err)
	_, err = NewRedisLock(&memoryStore{}, "", time.Minute)
	assert.Error(t, err)
}

func TestRedisLockLeavesLeaseTakenByAnotherReplica(t *testing.T) {
	store := &memoryStore{values: map[string]string{}}
	ctx := context.Background()

	lock, err := NewRedisLock(store, "lock:cron", time.Minute)
	require.NoError(t, err)
	ok, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, store.values["lock:cron"], "/")

	// lease expired and another replica took over
	store.values["lock:cron"] = "other-replica/token"

	require.NoError(t, lock.Release(ctx))
	assert.Equal(t, "other-replica/token", store.values["lock:cron"])
}
