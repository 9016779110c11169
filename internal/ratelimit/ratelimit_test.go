package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_PerKeyBurst(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	l := New(1, 2)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"), "keys are limited independently")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("a"))
}

func TestLimiter_DisabledAllowsEverything(t *testing.T) {
	l := New(0, 0)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("a"))
	}

	var nilLimiter *Limiter
	assert.True(t, nilLimiter.Allow("a"))
}

func TestLimiter_SweepDropsIdleKeys(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	l := New(10, 10)
	l.now = func() time.Time { return now }

	l.Allow("old")
	now = now.Add(5 * time.Minute)
	l.Allow("fresh")

	assert.Equal(t, 1, l.Sweep(3*time.Minute))
	assert.Len(t, l.clients, 1)
}
