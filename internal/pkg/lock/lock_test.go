package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_ExclusiveUntilRelease(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	release, err := l.Acquire(ctx, "payroll:auto-generate:2024-04", time.Minute)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "payroll:auto-generate:2024-04", time.Minute)
	assert.ErrorIs(t, err, ErrNotObtained)

	other, err := l.Acquire(ctx, "payroll:auto-generate:2024-05", time.Minute)
	require.NoError(t, err)
	require.NoError(t, other(ctx))

	require.NoError(t, release(ctx))
	again, err := l.Acquire(ctx, "payroll:auto-generate:2024-04", time.Minute)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func TestLocalLocker_ExpiresAfterTTL(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	_, err := l.Acquire(ctx, "k", time.Millisecond)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = l.Acquire(ctx, "k", time.Minute)
	assert.NoError(t, err)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisClient(ctx, "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
