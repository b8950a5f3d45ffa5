package jitter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExponentialBackoffBounds(t *testing.T) {
	base := 100 * time.Millisecond
	max := time.Second

	for attempt := 0; attempt < 6; attempt++ {
		got := ExponentialBackoff(base, max, attempt, DefaultJitter)

		want := base << attempt
		if want > max {
			want = max
		}
		assert.GreaterOrEqual(t, got, want)
		assert.LessOrEqual(t, got, want+time.Duration(float64(want)*DefaultJitter))
	}
}

func TestSleepInterrupted(t *testing.T) {
	done := make(chan struct{})
	close(done)

	assert.False(t, Sleep(done, time.Hour, time.Hour, 0))
}
