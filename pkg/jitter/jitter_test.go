package jitter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration_WithinBounds(t *testing.T) {
	base := time.Second
	for i := 0; i < 100; i++ {
		d := Duration(base, DefaultJitter)
		assert.GreaterOrEqual(t, d, base)
		assert.LessOrEqual(t, d, base+time.Duration(DefaultJitter*float64(base)))
	}
}

func TestExponentialBackoff_GrowsAndCaps(t *testing.T) {
	base := time.Second
	max := 10 * time.Second

	// attempt 0 — базовая задержка без удвоений
	d := ExponentialBackoff(base, max, 0, 0)
	assert.Equal(t, base, d)

	// attempt 2 — base*4
	d = ExponentialBackoff(base, max, 2, 0)
	assert.Equal(t, 4*time.Second, d)

	// большой attempt упирается в max
	d = ExponentialBackoff(base, max, 20, 0)
	assert.Equal(t, max, d)

	// с джиттером не выходит за max*(1+jitter)
	d = ExponentialBackoff(base, max, 20, DefaultJitter)
	assert.GreaterOrEqual(t, d, max)
	assert.LessOrEqual(t, d, max+time.Duration(DefaultJitter*float64(max)))
}
