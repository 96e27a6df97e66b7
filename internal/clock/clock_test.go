package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeFiresInDeadlineOrder(t *testing.T) {
	start := time.Unix(0, 0)
	c := NewFake(start)

	var order []string
	c.AfterFunc(300*time.Millisecond, func() { order = append(order, "late") })
	c.AfterFunc(100*time.Millisecond, func() { order = append(order, "early") })
	c.AfterFunc(100*time.Millisecond, func() { order = append(order, "early-second") })

	c.Advance(99 * time.Millisecond)
	assert.Empty(t, order)

	c.Advance(time.Second)
	assert.Equal(t, []string{"early", "early-second", "late"}, order)
	assert.Equal(t, start.Add(1099*time.Millisecond), c.Now())
}

func TestFakeCallbackSeesDeadlineAsNow(t *testing.T) {
	start := time.Unix(0, 0)
	c := NewFake(start)

	var seen time.Time
	c.AfterFunc(250*time.Millisecond, func() { seen = c.Now() })
	c.Advance(time.Second)

	assert.Equal(t, start.Add(250*time.Millisecond), seen)
}

func TestFakeStop(t *testing.T) {
	c := NewFake(time.Unix(0, 0))
	fired := false
	timer := c.AfterFunc(time.Millisecond, func() { fired = true })

	assert.Equal(t, 1, c.Pending())
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	c.Advance(time.Second)

	assert.False(t, fired)
	assert.Zero(t, c.Pending())
}

func TestFakeNestedScheduling(t *testing.T) {
	c := NewFake(time.Unix(0, 0))
	count := 0
	c.AfterFunc(10*time.Millisecond, func() {
		count++
		c.AfterFunc(10*time.Millisecond, func() { count++ })
	})

	c.Advance(25 * time.Millisecond)
	assert.Equal(t, 2, count)
}
