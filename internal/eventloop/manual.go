package eventloop

import (
	"context"
	"sort"
	"time"
)

// Manual is a virtual-time Executor for tests.
//
// Post appends to a queue that runs on Drain. AfterFunc registers a timer
// against a virtual clock that only moves on Advance. Manual is not safe for
// concurrent use; tests drive it from a single goroutine.
type Manual struct {
	now    time.Duration
	seq    int
	queue  []func()
	timers []*manualTimer
}

// NewManual creates a Manual loop at virtual time zero.
func NewManual() *Manual {
	return &Manual{}
}

// Post queues fn until the next Drain.
func (m *Manual) Post(fn func()) {
	m.queue = append(m.queue, fn)
}

// Drain runs queued work, including work queued while draining.
func (m *Manual) Drain() {
	for len(m.queue) > 0 {
		fn := m.queue[0]
		m.queue = m.queue[1:]
		fn()
	}
}

// Do runs fn immediately, then drains any work it queued.
func (m *Manual) Do(_ context.Context, fn func()) error {
	fn()
	m.Drain()
	return nil
}

// AfterFunc schedules fn at now+d on the virtual clock.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	m.seq++
	t := &manualTimer{
		owner: m,
		due:   m.now + d,
		seq:   m.seq,
		fn:    fn,
	}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the virtual clock forward by d, firing due timers in due
// order and draining posted work after each one.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	m.Drain()
	for {
		next := m.nextDue(target)
		if next == nil {
			break
		}
		m.now = next.due
		m.remove(next)
		next.fn()
		m.Drain()
	}
	m.now = target
}

// Now returns the virtual time elapsed since creation.
func (m *Manual) Now() time.Duration {
	return m.now
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (m *Manual) Pending() int {
	return len(m.timers)
}

// nextDue returns the earliest timer due at or before target.
func (m *Manual) nextDue(target time.Duration) *manualTimer {
	if len(m.timers) == 0 {
		return nil
	}
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].due != m.timers[j].due {
			return m.timers[i].due < m.timers[j].due
		}
		return m.timers[i].seq < m.timers[j].seq
	})
	if m.timers[0].due > target {
		return nil
	}
	return m.timers[0]
}

func (m *Manual) remove(t *manualTimer) bool {
	for i, candidate := range m.timers {
		if candidate == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return true
		}
	}
	return false
}

type manualTimer struct {
	owner *Manual
	due   time.Duration
	seq   int
	fn    func()
}

func (t *manualTimer) Stop() bool {
	return t.owner.remove(t)
}
