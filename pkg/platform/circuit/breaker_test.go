package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	b := New("ledger", WithFailureThreshold(3))

	assert.False(t, b.RecordFailure().Opened)
	assert.False(t, b.RecordFailure().Opened)
	b.RecordSuccess()
	assert.False(t, b.IsOpen(), "success resets the failure streak")

	b.RecordFailure()
	b.RecordFailure()
	change := b.RecordFailure()
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())
	assert.Equal(t, "open", b.State().String())
}

func TestBreaker_ProbesOncePerCooldown(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := New("ledger", WithFailureThreshold(1), WithCooldown(10*time.Second), WithClock(clock.now))

	assert.True(t, b.Allow())
	b.RecordFailure()
	assert.False(t, b.Allow(), "freshly opened circuit does not probe")

	clock.advance(10 * time.Second)
	assert.True(t, b.Allow())
	assert.False(t, b.Allow(), "one probe per window")
}

func TestBreaker_ClosesAfterSuccessfulProbes(t *testing.T) {
	b := New("ledger", WithFailureThreshold(1), WithSuccessThreshold(2))
	b.RecordFailure()
	assert.True(t, b.IsOpen())

	assert.False(t, b.RecordSuccess().Closed)
	assert.True(t, b.RecordSuccess().Closed)
	assert.False(t, b.IsOpen())
	assert.True(t, b.Allow())
}
