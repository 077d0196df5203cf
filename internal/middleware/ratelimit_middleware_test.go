package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidAuthRateLimiter(t *testing.T) {
	rl := NewInvalidAuthRateLimiter()

	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "attempt %d should be allowed", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"), "sixth attempt should be blocked")

	// other addresses are unaffected
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestBlockedDoesNotConsume(t *testing.T) {
	rl := NewInvalidAuthRateLimiter()

	// Repeated checks never eat into the budget, so a user logging in
	// successfully any number of times is never throttled.
	for i := 0; i < 20; i++ {
		assert.False(t, rl.Blocked("10.0.0.3"))
	}
	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow("10.0.0.3"), "failure %d should be recorded", i+1)
	}
	assert.True(t, rl.Blocked("10.0.0.3"))
	assert.False(t, rl.Blocked("10.0.0.4"))
}
