package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikron807/gem/internal/entitlement"
)

func TestTake_NoSelection(t *testing.T) {
	s := NewStore()

	_, had, _ := s.Take(1)
	assert.False(t, had)
}

func TestTake_WithinWindow(t *testing.T) {
	s := NewStore()
	s.Set(1, entitlement.TierGoy)

	tier, had, valid := s.Take(1)
	require.True(t, had)
	require.True(t, valid)
	assert.Equal(t, entitlement.TierGoy, tier)

	// выбор одноразовый
	_, had, _ = s.Take(1)
	assert.False(t, had)
}

func TestTake_Expired(t *testing.T) {
	now := time.Now()

	s := NewStore()
	s.now = func() time.Time { return now }
	s.Set(1, entitlement.TierSigma)

	s.now = func() time.Time { return now.Add(PendingTTL + time.Second) }

	_, had, valid := s.Take(1)
	assert.True(t, had)
	assert.False(t, valid)
}

func TestTake_JustInsideWindow(t *testing.T) {
	now := time.Now()

	s := NewStore()
	s.now = func() time.Time { return now }
	s.Set(1, entitlement.TierChushpan)

	s.now = func() time.Time { return now.Add(PendingTTL) }

	tier, had, valid := s.Take(1)
	require.True(t, had)
	assert.True(t, valid)
	assert.Equal(t, entitlement.TierChushpan, tier)
}

func TestCleanupExpired(t *testing.T) {
	now := time.Now()

	s := NewStore()
	s.now = func() time.Time { return now }
	s.Set(1, entitlement.TierChushpan)
	s.Set(2, entitlement.TierGoy)

	s.now = func() time.Time { return now.Add(PendingTTL + time.Minute) }
	s.Set(3, entitlement.TierSigma)

	removed := s.CleanupExpired()
	assert.Equal(t, 2, removed)

	// свежий выбор пережил чистку
	tier, had, valid := s.Take(3)
	require.True(t, had)
	require.True(t, valid)
	assert.Equal(t, entitlement.TierSigma, tier)
}
