package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	b := New("openlaw", WithFailureThreshold(3))

	assert.False(t, b.Observe(false).Changed())
	assert.False(t, b.Observe(false).Changed())
	change := b.Observe(false)

	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())
	assert.Equal(t, "open", b.State().String())

	assert.False(t, b.Observe(false).Changed(), "further failures while open are not transitions")
}

func TestSuccessResetsFailureRun(t *testing.T) {
	b := New("openlaw", WithFailureThreshold(2))

	b.Observe(false)
	b.Observe(true)
	b.Observe(false)

	assert.False(t, b.IsOpen())
}

func TestClosesAfterConsecutiveSuccesses(t *testing.T) {
	b := New("openlaw", WithFailureThreshold(1), WithSuccessThreshold(2))
	b.Observe(false)
	assert.True(t, b.IsOpen())

	assert.False(t, b.Observe(true).Changed())
	b.Observe(false)
	assert.False(t, b.Observe(true).Changed(), "a failure restarts the success run")
	change := b.Observe(true)

	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
}

func TestSinceTracksTransitions(t *testing.T) {
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	b := New("openlaw", WithFailureThreshold(1), WithClock(func() time.Time { return now }))
	assert.Equal(t, now, b.Since())

	now = now.Add(time.Minute)
	b.Observe(false)
	assert.Equal(t, now, b.Since())

	now = now.Add(time.Minute)
	b.Reset()
	assert.Equal(t, now, b.Since())
	assert.Equal(t, StateClosed, b.State())
}

func TestInvalidThresholdsKeepDefaults(t *testing.T) {
	b := New("openlaw", WithFailureThreshold(0), WithSuccessThreshold(-1), WithClock(nil))

	assert.Equal(t, 5, b.failureThreshold)
	assert.Equal(t, 3, b.successThreshold)
	assert.NotNil(t, b.now)
}
