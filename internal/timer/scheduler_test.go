package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAfterFiresWhenDue(t *testing.T) {
	s := New()
	fired := 0
	s.After(time.Second, func() { fired++ })

	assert.Equal(t, 0, s.Advance(999*time.Millisecond))
	assert.Equal(t, 0, fired)

	assert.Equal(t, 1, s.Advance(time.Millisecond))
	assert.Equal(t, 1, fired)

	// Fires only once.
	s.Advance(10 * time.Second)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 0, s.Pending())
}

func TestAdvanceRunsInDueOrder(t *testing.T) {
	s := New()
	var order []string
	s.After(300*time.Millisecond, func() { order = append(order, "c") })
	s.After(100*time.Millisecond, func() { order = append(order, "a") })
	s.After(100*time.Millisecond, func() { order = append(order, "b") })

	ran := s.Advance(time.Second)
	require.Equal(t, 3, ran)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestChainedTasksRunWhenAlreadyDue(t *testing.T) {
	s := New()
	steps := 0
	var step func()
	step = func() {
		steps++
		if steps < 3 {
			s.After(0, step)
		}
	}
	s.After(50*time.Millisecond, step)

	s.Advance(50 * time.Millisecond)
	assert.Equal(t, 3, steps)
}

func TestChainedTaskWaitsForItsDelay(t *testing.T) {
	s := New()
	steps := 0
	s.After(time.Second, func() {
		steps++
		s.After(time.Second, func() { steps++ })
	})

	s.Advance(time.Second)
	assert.Equal(t, 1, steps)
	s.Advance(999 * time.Millisecond)
	assert.Equal(t, 1, steps)
	s.Advance(time.Millisecond)
	assert.Equal(t, 2, steps)
}

func TestHandleCancel(t *testing.T) {
	s := New()
	fired := false
	h := s.After(time.Second, func() { fired = true })

	assert.True(t, h.Pending())
	assert.True(t, h.Cancel())
	assert.False(t, h.Pending())
	assert.False(t, h.Cancel(), "second cancel is a no-op")

	s.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestCancelAll(t *testing.T) {
	s := New()
	fired := 0
	for i := 0; i < 5; i++ {
		s.After(time.Duration(i)*time.Millisecond, func() { fired++ })
	}
	s.CancelAll()
	s.Advance(time.Second)
	assert.Equal(t, 0, fired)
	assert.Equal(t, 0, s.Pending())
}

func TestZeroHandle(t *testing.T) {
	var h Handle
	assert.False(t, h.Cancel())
	assert.False(t, h.Pending())
}
