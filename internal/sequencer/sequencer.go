package sequencer

import (
	"time"

	"github.com/nerrad567/irrigation-dashboard/internal/device"
	"github.com/nerrad567/irrigation-dashboard/internal/eventloop"
)

// Phase is an animation stage.
type Phase int

// Animation phases.
const (
	PhaseIdle Phase = iota
	PhaseFlowing
	PhasePerTargetActive
	PhaseSettling
	PhaseCelebrating
)

// String returns the phase name used by the presentation layer.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFlowing:
		return "flowing"
	case PhasePerTargetActive:
		return "per_target_active"
	case PhaseSettling:
		return "settling"
	case PhaseCelebrating:
		return "celebrating"
	default:
		return "unknown"
	}
}

// Category groups timers that belong to the same kind of phase.
type Category int

// Timer categories.
const (
	CategoryTargets Category = iota
	CategoryCelebrate
)

// Timing holds the animation constants.
type Timing struct {
	// TargetOffsets has one increasing delay per physical target.
	TargetOffsets []time.Duration
	// CelebrateStagger is multiplied by the target index.
	CelebrateStagger time.Duration
	// CelebrateDuration is how long celebrate markers stay before Idle.
	CelebrateDuration time.Duration
}

// DefaultTiming returns the timings for a four-plant bed.
func DefaultTiming() Timing {
	return Timing{
		TargetOffsets: []time.Duration{
			500 * time.Millisecond,
			1000 * time.Millisecond,
			1500 * time.Millisecond,
			2000 * time.Millisecond,
		},
		CelebrateStagger:  300 * time.Millisecond,
		CelebrateDuration: 5000 * time.Millisecond,
	}
}

// Animation is the visible state of one actuator.
type Animation struct {
	Phase       Phase  `json:"phase"`
	Flowing     bool   `json:"flowing"`
	Targets     []bool `json:"targets"`
	Celebrating []bool `json:"celebrating"`
}

// track is the per-actuator machine.
type track struct {
	anim   Animation
	epoch  uint64
	timers map[Category][]eventloop.Timer
}

func (tr *track) forget(cat Category, t eventloop.Timer) {
	list := tr.timers[cat]
	for i, h := range list {
		if h == t {
			tr.timers[cat] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Sequencer runs one animation machine per actuator.
type Sequencer struct {
	sched     eventloop.Scheduler
	timing    Timing
	tracks    map[device.ActuatorID]*track
	observers []func(device.ActuatorID, Animation)
}

// New creates a sequencer for the given actuators.
func New(sched eventloop.Scheduler, timing Timing, ids []device.ActuatorID) *Sequencer {
	s := &Sequencer{
		sched:  sched,
		timing: timing,
		tracks: make(map[device.ActuatorID]*track, len(ids)),
	}
	for _, id := range ids {
		tr := &track{timers: make(map[Category][]eventloop.Timer)}
		tr.anim = s.idle()
		s.tracks[id] = tr
	}
	return s
}

// OnChange registers fn to be called whenever an actuator's animation changes.
func (s *Sequencer) OnChange(fn func(device.ActuatorID, Animation)) {
	s.observers = append(s.observers, fn)
}

// Observe is the device.Model observer. Only real on/off transitions drive
// the machine; repeated tokens are ignored.
func (s *Sequencer) Observe(c device.Change) {
	switch {
	case c.TurnedOn():
		s.TurnedOn(c.Actuator)
	case c.TurnedOff():
		s.TurnedOff(c.Actuator)
	}
}

// TurnedOn enters Flowing and schedules the staggered target activations.
func (s *Sequencer) TurnedOn(id device.ActuatorID) {
	tr, ok := s.tracks[id]
	if !ok {
		return
	}
	s.cancel(tr)

	tr.anim = s.idle()
	tr.anim.Phase = PhaseFlowing
	tr.anim.Flowing = true

	for k, offset := range s.timing.TargetOffsets {
		s.schedule(tr, CategoryTargets, offset, func() {
			tr.anim.Targets[k] = true
			tr.anim.Phase = PhasePerTargetActive
			s.notify(id, tr)
		})
	}
	s.notify(id, tr)
}

// TurnedOff drops flowing and target markers, then staggers the celebrate
// markers and schedules the return to Idle.
func (s *Sequencer) TurnedOff(id device.ActuatorID) {
	tr, ok := s.tracks[id]
	if !ok {
		return
	}
	s.cancel(tr)

	tr.anim = s.idle()
	tr.anim.Phase = PhaseSettling

	for k := range s.timing.TargetOffsets {
		mark := func() {
			tr.anim.Celebrating[k] = true
			tr.anim.Phase = PhaseCelebrating
		}
		delay := s.timing.CelebrateStagger * time.Duration(k)
		if delay <= 0 {
			mark()
			continue
		}
		s.schedule(tr, CategoryCelebrate, delay, func() {
			mark()
			s.notify(id, tr)
		})
	}

	s.schedule(tr, CategoryCelebrate, s.timing.CelebrateDuration, func() {
		s.cancel(tr)
		tr.anim = s.idle()
		s.notify(id, tr)
	})
	s.notify(id, tr)
}

// CancelAll stops every outstanding timer and returns all actuators to Idle.
func (s *Sequencer) CancelAll() {
	for id, tr := range s.tracks {
		hadWork := len(tr.timers[CategoryTargets])+len(tr.timers[CategoryCelebrate]) > 0
		s.cancel(tr)
		if hadWork || tr.anim.Phase != PhaseIdle {
			tr.anim = s.idle()
			s.notify(id, tr)
		}
	}
}

// Animation returns a copy of the actuator's animation state.
func (s *Sequencer) Animation(id device.ActuatorID) (Animation, bool) {
	tr, ok := s.tracks[id]
	if !ok {
		return Animation{}, false
	}
	return copyAnimation(tr.anim), true
}

// PendingTimers returns the number of outstanding timers of a category.
func (s *Sequencer) PendingTimers(id device.ActuatorID, cat Category) int {
	tr, ok := s.tracks[id]
	if !ok {
		return 0
	}
	return len(tr.timers[cat])
}

// schedule registers a timer under cat that runs fn only if no transition
// has happened since it was scheduled.
func (s *Sequencer) schedule(tr *track, cat Category, d time.Duration, fn func()) {
	epoch := tr.epoch
	var t eventloop.Timer
	t = s.sched.AfterFunc(d, func() {
		tr.forget(cat, t)
		if tr.epoch != epoch {
			return
		}
		fn()
	})
	tr.timers[cat] = append(tr.timers[cat], t)
}

// cancel stops every timer of the track and starts a new epoch.
func (s *Sequencer) cancel(tr *track) {
	for cat, list := range tr.timers {
		for _, t := range list {
			t.Stop()
		}
		delete(tr.timers, cat)
	}
	tr.epoch++
}

func (s *Sequencer) idle() Animation {
	n := len(s.timing.TargetOffsets)
	return Animation{
		Phase:       PhaseIdle,
		Targets:     make([]bool, n),
		Celebrating: make([]bool, n),
	}
}

func (s *Sequencer) notify(id device.ActuatorID, tr *track) {
	if len(s.observers) == 0 {
		return
	}
	anim := copyAnimation(tr.anim)
	for _, fn := range s.observers {
		fn(id, anim)
	}
}

func copyAnimation(a Animation) Animation {
	a.Targets = append([]bool(nil), a.Targets...)
	a.Celebrating = append([]bool(nil), a.Celebrating...)
	return a
}
