package runtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source so timer tests never
// sleep.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTimerTestRuntime(t *testing.T) (*Runtime, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Unix(0, 0)}
	rt, err := New(WithGCDisabled(), WithClock(clock.Now))
	require.NoError(t, err)
	return rt, clock
}

func TestTimersFireInDeadlineOrder(t *testing.T) {
	rt, clock := newTimerTestRuntime(t)

	var fired []string
	rt.SetTimeout(30*time.Millisecond, func() { fired = append(fired, "late") })
	rt.SetTimeout(10*time.Millisecond, func() { fired = append(fired, "early") })
	rt.SetTimeout(20*time.Millisecond, func() { fired = append(fired, "middle") })

	rt.SolveEvents()
	require.Empty(t, fired, "nothing is due yet")
	require.Equal(t, 3, rt.PendingTimers())

	clock.Advance(25 * time.Millisecond)
	rt.SolveEvents()
	require.Equal(t, []string{"early", "middle"}, fired)
	require.Equal(t, 1, rt.PendingTimers())

	clock.Advance(10 * time.Millisecond)
	rt.SolveEvents()
	require.Equal(t, []string{"early", "middle", "late"}, fired)
	require.Zero(t, rt.PendingTimers())
}

func TestTimersWithEqualDeadlinesFireInSetOrder(t *testing.T) {
	rt, clock := newTimerTestRuntime(t)

	var fired []int
	for i := 0; i < 4; i++ {
		i := i
		rt.SetTimeout(10*time.Millisecond, func() { fired = append(fired, i) })
	}

	clock.Advance(10 * time.Millisecond)
	rt.SolveEvents()
	require.Equal(t, []int{0, 1, 2, 3}, fired)
}

func TestClearTimeoutCancelsAndIsIdempotent(t *testing.T) {
	rt, clock := newTimerTestRuntime(t)

	var fired bool
	tm := rt.SetTimeout(10*time.Millisecond, func() { fired = true })
	rt.ClearTimeout(tm)
	rt.ClearTimeout(tm)

	clock.Advance(time.Second)
	rt.SolveEvents()
	require.False(t, fired)
	require.Zero(t, rt.PendingTimers())
}

func TestTimerCallbackJobsDrainBeforeNextTimer(t *testing.T) {
	rt, clock := newTimerTestRuntime(t)
	realm := rt.Current()

	var order []string
	rt.SetTimeout(10*time.Millisecond, func() {
		order = append(order, "timer1")
		rt.EnqueueJob(realm, nil, func() error {
			order = append(order, "timer1-job")
			return nil
		})
	})
	rt.SetTimeout(20*time.Millisecond, func() { order = append(order, "timer2") })

	clock.Advance(30 * time.Millisecond)
	rt.SolveEvents()
	require.Equal(t, []string{"timer1", "timer1-job", "timer2"}, order)
}
