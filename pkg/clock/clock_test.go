package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedAlwaysReturnsTheSameInstant(t *testing.T) {
	at := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Fixed(at)

	assert.Equal(t, at, c())
	assert.Equal(t, at, c(), "repeated reads do not advance")
}

func TestSystemTracksWallClock(t *testing.T) {
	before := time.Now()
	got := System()
	after := time.Now()

	assert.False(t, got.Before(before))
	assert.False(t, got.After(after))
}
