package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuntRevocations(t *testing.T) {
	r, err := NewBuntRevocations()
	require.NoError(t, err)
	defer r.Close()

	ctx := context.Background()

	revoked, err := r.IsRevoked(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))
	revoked, err = r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestBuntRevocations_PastExpiryIsNoop(t *testing.T) {
	r, err := NewBuntRevocations()
	require.NoError(t, err)
	defer r.Close()

	ctx := context.Background()
	require.NoError(t, r.Revoke(ctx, "stale", time.Now().Add(-time.Minute)))
	revoked, err := r.IsRevoked(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestBuntRevocations_EntryExpires(t *testing.T) {
	r, err := NewBuntRevocations()
	require.NoError(t, err)
	defer r.Close()

	ctx := context.Background()
	require.NoError(t, r.Revoke(ctx, "short", time.Now().Add(50*time.Millisecond)))
	time.Sleep(120 * time.Millisecond)

	revoked, err := r.IsRevoked(ctx, "short")
	require.NoError(t, err)
	assert.False(t, revoked)
}
