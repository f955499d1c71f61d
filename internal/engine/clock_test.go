package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClock(t *testing.T) {
	start := time.UnixMilli(5000)
	c := NewFixedClock(start)
	assert.Equal(t, start, c.Now())
	assert.Equal(t, start, c.Now()) // frozen, not ticking

	c.Advance(250 * time.Millisecond)
	assert.Equal(t, int64(5250), millis(c.Now()))

	c.Set(time.UnixMilli(9000))
	assert.Equal(t, int64(9000), millis(c.Now()))
}

func TestSystemClock(t *testing.T) {
	before := time.Now()
	now := SystemClock{}.Now()
	assert.False(t, now.Before(before))
}
