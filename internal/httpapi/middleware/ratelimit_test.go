package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPLimiters_BurstThenDeny(t *testing.T) {
	l := newIPLimiters(1, 2, time.Minute)

	assert.True(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"), "burst exhausted")

	// another client has its own bucket
	assert.True(t, l.allow("10.0.0.2"))
}

func TestIPLimiters_SweepDropsIdleClients(t *testing.T) {
	l := newIPLimiters(1, 1, time.Minute)

	require.True(t, l.allow("10.0.0.1"))
	require.True(t, l.allow("10.0.0.2"))

	l.mu.Lock()
	require.Len(t, l.clients, 2)
	// age one entry past the TTL, keep the other fresh
	l.clients["10.0.0.1"].lastSeen = time.Now().Add(-2 * time.Minute)
	l.sweepLocked(time.Now())
	assert.Len(t, l.clients, 1)
	_, kept := l.clients["10.0.0.2"]
	assert.True(t, kept)
	l.mu.Unlock()
}

func TestIPLimiters_EvictedClientGetsFreshBucket(t *testing.T) {
	l := newIPLimiters(1, 1, time.Minute)

	require.True(t, l.allow("10.0.0.1"))
	require.False(t, l.allow("10.0.0.1"))

	l.mu.Lock()
	l.clients["10.0.0.1"].lastSeen = time.Now().Add(-2 * time.Minute)
	l.sweepLocked(time.Now())
	l.mu.Unlock()

	assert.True(t, l.allow("10.0.0.1"), "new bucket after eviction")
}
