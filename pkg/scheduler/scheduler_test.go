package scheduler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/overlaysync/pkg/scheduler"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func TestIdleUntilChange(t *testing.T) {
	s := scheduler.New(600 * time.Millisecond)
	s.Baseline(at(-1000), at(0))

	assert.Equal(t, scheduler.Idle, s.State())
	assert.False(t, s.ObserveModTime(at(-1000), at(100)), "same mtime is not a change")
	assert.False(t, s.Due(at(5000)))
}

func TestDebounceRestartsOnEachWrite(t *testing.T) {
	s := scheduler.New(600 * time.Millisecond)
	s.Baseline(at(-1000), at(-1000))

	// external writes at t=0 and t=500
	assert.True(t, s.ObserveModTime(at(0), at(0)))
	assert.Equal(t, scheduler.PendingQuiet, s.State())
	assert.True(t, s.ObserveModTime(at(500), at(500)))

	for ms := 0; ms < 1100; ms += 50 {
		assert.False(t, s.Due(at(ms)), "must not fire at %dms", ms)
		assert.False(t, s.Begin(at(ms)))
	}
	assert.True(t, s.Due(at(1100)))
	assert.Equal(t, time.Duration(0), s.Remaining(at(1100)))
	assert.Equal(t, 100*time.Millisecond, s.Remaining(at(1000)))
}

func TestRequestFromIdleStartsDebounce(t *testing.T) {
	s := scheduler.New(600 * time.Millisecond)
	s.Baseline(at(0), at(0))

	s.Request(at(1000))
	assert.Equal(t, scheduler.PendingQuiet, s.State())
	assert.False(t, s.Due(at(1599)))
	assert.True(t, s.Due(at(1600)))
}

func TestRequestDoesNotExtendRunningDebounce(t *testing.T) {
	s := scheduler.New(600 * time.Millisecond)
	s.Baseline(at(-1000), at(-1000))

	s.ObserveModTime(at(0), at(0))
	s.Request(at(400))
	assert.True(t, s.Due(at(600)))
}

func TestSuccessfulCycle(t *testing.T) {
	s := scheduler.New(600 * time.Millisecond)
	s.Baseline(at(-1000), at(-1000))
	s.ObserveModTime(at(0), at(0))

	assert.True(t, s.Begin(at(700)))
	assert.Equal(t, scheduler.Reconciling, s.State())
	assert.False(t, s.Due(at(800)), "not due while reconciling")

	s.Complete(true, at(780), at(790))
	snap := s.Snapshot()
	assert.Equal(t, scheduler.Idle, snap.State)
	assert.False(t, snap.Pending)
	assert.True(t, snap.ModTime.Equal(at(780)))
	assert.False(t, s.ObserveModTime(at(780), at(900)), "own write is the new baseline")
}

func TestFailedCycleStaysPending(t *testing.T) {
	s := scheduler.New(600 * time.Millisecond)
	s.Baseline(at(-1000), at(-1000))
	s.ObserveModTime(at(0), at(0))

	assert.True(t, s.Begin(at(700)))
	s.Complete(false, time.Time{}, at(780))

	assert.Equal(t, scheduler.PendingQuiet, s.State())
	assert.True(t, s.Snapshot().Pending)
	assert.True(t, s.Due(at(800)), "retried on the next opportunity")
}

func TestAbortKeepsPending(t *testing.T) {
	s := scheduler.New(600 * time.Millisecond)
	s.Baseline(at(-1000), at(-1000))
	s.ObserveModTime(at(0), at(0))
	assert.True(t, s.Begin(at(600)))

	// write landed during the settle delay
	s.Abort()
	assert.True(t, s.ObserveModTime(at(650), at(650)))
	assert.Equal(t, scheduler.PendingQuiet, s.State())
	assert.False(t, s.Due(at(1200)))
	assert.True(t, s.Due(at(1250)))
}

func TestRequestDuringReconcileKeepsPending(t *testing.T) {
	s := scheduler.New(600 * time.Millisecond)
	s.Baseline(at(-1000), at(-1000))
	s.ObserveModTime(at(0), at(0))
	assert.True(t, s.Begin(at(600)))

	s.Request(at(620))
	assert.Equal(t, scheduler.Reconciling, s.State())

	s.Complete(true, at(680), at(690))
	assert.Equal(t, scheduler.PendingQuiet, s.State())
	assert.True(t, s.Snapshot().Pending)
}

func TestTouchDelaysWithoutConsumingModTime(t *testing.T) {
	s := scheduler.New(600 * time.Millisecond)
	s.Baseline(at(-1000), at(-1000))
	s.ObserveModTime(at(0), at(0))

	s.Touch(at(300))
	assert.False(t, s.Due(at(800)))
	assert.True(t, s.Due(at(900)))
	assert.True(t, s.Changed(at(300)))
}

func TestCompleteOutsideReconcileIsIgnored(t *testing.T) {
	s := scheduler.New(0)
	assert.Equal(t, 600*time.Millisecond, s.Quiet())
	s.Complete(true, at(5), at(5))
	assert.Equal(t, scheduler.Idle, s.State())
	assert.True(t, s.Snapshot().ModTime.IsZero())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", scheduler.Idle.String())
	assert.Equal(t, "pending_quiet", scheduler.PendingQuiet.String())
	assert.Equal(t, "reconciling", scheduler.Reconciling.String())
}
