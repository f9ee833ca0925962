package device

import (
	"fmt"
	"time"
)

// ChangeKind says which part of the model a Change concerns.
type ChangeKind int

// Change kinds.
const (
	ChangeActuator ChangeKind = iota
	ChangeSchedule
	ChangeHealth
)

// Change describes one completed write.
type Change struct {
	Kind     ChangeKind
	Actuator ActuatorID

	// Before and After are set for ChangeActuator.
	Before ActuatorStatus
	After  ActuatorStatus
}

// TurnedOn reports whether an actuator change is an off→on transition.
func (c Change) TurnedOn() bool {
	return c.Kind == ChangeActuator && c.After.IsOn && !c.Before.IsOn
}

// TurnedOff reports whether an actuator change is an on→off transition.
func (c Change) TurnedOff() bool {
	return c.Kind == ChangeActuator && !c.After.IsOn && c.Before.IsOn
}

// Model is the device-state model. It is not safe for concurrent use.
type Model struct {
	actuators     []ActuatorStatus
	schedules     []Schedule
	health        DeviceHealth
	lastMessageAt time.Time

	observers []func(Change)
}

// NewModel creates a model for actuators 1..n.
func NewModel(n int) *Model {
	m := &Model{
		actuators: make([]ActuatorStatus, n),
		schedules: make([]Schedule, n),
	}
	for i := range n {
		m.actuators[i].ID = ActuatorID(i + 1)
		m.schedules[i].ID = ActuatorID(i + 1)
	}
	return m
}

// Observe registers fn to be called after every write.
func (m *Model) Observe(fn func(Change)) {
	m.observers = append(m.observers, fn)
}

// Actuators returns the IDs of all actuators in order.
func (m *Model) Actuators() []ActuatorID {
	ids := make([]ActuatorID, len(m.actuators))
	for i, a := range m.actuators {
		ids[i] = a.ID
	}
	return ids
}

// Has reports whether id is a known actuator.
func (m *Model) Has(id ActuatorID) bool {
	return id >= 1 && int(id) <= len(m.actuators)
}

// ActuatorStatus returns the status of id.
func (m *Model) ActuatorStatus(id ActuatorID) (ActuatorStatus, error) {
	if !m.Has(id) {
		return ActuatorStatus{}, fmt.Errorf("%w: %d", ErrUnknownActuator, id)
	}
	return m.actuators[id-1], nil
}

// Schedule returns the schedule of id.
func (m *Model) Schedule(id ActuatorID) (Schedule, error) {
	if !m.Has(id) {
		return Schedule{}, fmt.Errorf("%w: %d", ErrUnknownActuator, id)
	}
	return m.schedules[id-1], nil
}

// DeviceHealth returns the controller heartbeat state.
func (m *Model) DeviceHealth() DeviceHealth {
	return m.health
}

// LastMessageAt returns when the last inbound message arrived.
func (m *Model) LastMessageAt() time.Time {
	return m.lastMessageAt
}

// Touch records that a message arrived at t. It does not notify observers.
func (m *Model) Touch(t time.Time) {
	m.lastMessageAt = t
}

// SetActuatorStatus records the reported state of id.
func (m *Model) SetActuatorStatus(id ActuatorID, on bool, at time.Time) error {
	if !m.Has(id) {
		return fmt.Errorf("%w: %d", ErrUnknownActuator, id)
	}

	before := m.actuators[id-1]
	after := ActuatorStatus{ID: id, IsOn: on, Reported: true, UpdatedAt: at}
	m.actuators[id-1] = after

	m.notify(Change{Kind: ChangeActuator, Actuator: id, Before: before, After: after})
	return nil
}

// SetSchedule records the schedule of id. The config is expected to be valid.
func (m *Model) SetSchedule(id ActuatorID, cfg ScheduleConfig, at time.Time) error {
	if !m.Has(id) {
		return fmt.Errorf("%w: %d", ErrUnknownActuator, id)
	}

	m.schedules[id-1] = Schedule{ID: id, Config: cfg, Known: true, UpdatedAt: at}

	m.notify(Change{Kind: ChangeSchedule, Actuator: id})
	return nil
}

// RestoreSchedule puts back a schedule previously read with Schedule.
func (m *Model) RestoreSchedule(s Schedule) error {
	if !m.Has(s.ID) {
		return fmt.Errorf("%w: %d", ErrUnknownActuator, s.ID)
	}

	m.schedules[s.ID-1] = s

	m.notify(Change{Kind: ChangeSchedule, Actuator: s.ID})
	return nil
}

// SetDeviceHealth records the controller heartbeat.
func (m *Model) SetDeviceHealth(online bool, at time.Time) {
	m.health = DeviceHealth{Online: online, Reported: true, UpdatedAt: at}
	m.notify(Change{Kind: ChangeHealth})
}

// Snapshot returns a copy of the model.
func (m *Model) Snapshot() Snapshot {
	return Snapshot{
		Actuators:     append([]ActuatorStatus(nil), m.actuators...),
		Schedules:     append([]Schedule(nil), m.schedules...),
		Health:        m.health,
		LastMessageAt: m.lastMessageAt,
	}
}

func (m *Model) notify(c Change) {
	for _, fn := range m.observers {
		fn(c)
	}
}
