package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrueValueScore(t *testing.T) {
	// price 99 gives a log10(100) = 2 price term, so the score is exact
	assert.Equal(t, 84.0, trueValueScore(99, 5))

	// price 9 gives log10(10) = 1; rating zero
	assert.Equal(t, 32.0, trueValueScore(9, 0))

	// very expensive items floor the price term at zero
	assert.Equal(t, 60.0, trueValueScore(9999999, 5))

	// rating is clamped to the 0..5 scale
	assert.Equal(t, trueValueScore(99, 5), trueValueScore(99, 7))

	// cheap item with top rating approaches 100
	assert.InDelta(t, 100.0, trueValueScore(0.01, 5), 0.1)
}
