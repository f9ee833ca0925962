package device

import (
	"errors"
	"testing"
	"time"
)

func TestModel_SetActuatorStatusNotifies(t *testing.T) {
	m := NewModel(2)
	at := time.Date(2026, 3, 1, 6, 30, 0, 0, time.UTC)

	var changes []Change
	m.Observe(func(c Change) {
		// Observers run after the write is complete.
		got, _ := m.ActuatorStatus(c.Actuator)
		if got != c.After {
			t.Errorf("observer saw %+v, change says %+v", got, c.After)
		}
		changes = append(changes, c)
	})

	if err := m.SetActuatorStatus(1, true, at); err != nil {
		t.Fatalf("SetActuatorStatus() error = %v", err)
	}
	if err := m.SetActuatorStatus(1, true, at); err != nil {
		t.Fatalf("SetActuatorStatus() error = %v", err)
	}
	if err := m.SetActuatorStatus(1, false, at); err != nil {
		t.Fatalf("SetActuatorStatus() error = %v", err)
	}

	if len(changes) != 3 {
		t.Fatalf("got %d changes, want 3", len(changes))
	}
	if !changes[0].TurnedOn() || changes[0].TurnedOff() {
		t.Errorf("first change should be a turn-on: %+v", changes[0])
	}
	if changes[1].TurnedOn() || changes[1].TurnedOff() {
		t.Errorf("repeated on should not be a transition: %+v", changes[1])
	}
	if !changes[2].TurnedOff() {
		t.Errorf("third change should be a turn-off: %+v", changes[2])
	}

	st, _ := m.ActuatorStatus(1)
	if st.IsOn || !st.Reported || !st.UpdatedAt.Equal(at) {
		t.Errorf("ActuatorStatus(1) = %+v", st)
	}
}

func TestModel_UnknownActuator(t *testing.T) {
	m := NewModel(2)
	notified := false
	m.Observe(func(Change) { notified = true })

	for _, id := range []ActuatorID{0, 3, -1} {
		if err := m.SetActuatorStatus(id, true, time.Now()); !errors.Is(err, ErrUnknownActuator) {
			t.Errorf("SetActuatorStatus(%d) error = %v, want ErrUnknownActuator", id, err)
		}
		if err := m.SetSchedule(id, ScheduleConfig{IntervalDays: 1}, time.Now()); !errors.Is(err, ErrUnknownActuator) {
			t.Errorf("SetSchedule(%d) error = %v, want ErrUnknownActuator", id, err)
		}
	}
	if notified {
		t.Error("rejected writes notified observers")
	}
}

func TestModel_ScheduleAndRestore(t *testing.T) {
	m := NewModel(1)
	at := time.Now()

	before, _ := m.Schedule(1)
	if before.Known {
		t.Fatal("new model reports a known schedule")
	}

	cfg := ScheduleConfig{Enabled: true, Hour: 6, Minute: 30, IntervalDays: 2, DurationMs: 15000}
	if err := m.SetSchedule(1, cfg, at); err != nil {
		t.Fatalf("SetSchedule() error = %v", err)
	}
	got, _ := m.Schedule(1)
	if !got.Known || got.Config != cfg {
		t.Errorf("Schedule(1) = %+v", got)
	}

	if err := m.RestoreSchedule(before); err != nil {
		t.Fatalf("RestoreSchedule() error = %v", err)
	}
	if got, _ := m.Schedule(1); got != before {
		t.Errorf("after restore Schedule(1) = %+v, want %+v", got, before)
	}
}

func TestModel_SnapshotIsACopy(t *testing.T) {
	m := NewModel(2)
	m.SetDeviceHealth(true, time.Now())
	m.Touch(time.Unix(100, 0))

	snap := m.Snapshot()
	snap.Actuators[0].IsOn = true

	if st, _ := m.ActuatorStatus(1); st.IsOn {
		t.Error("mutating the snapshot changed the model")
	}
	if !snap.Health.Online || !snap.LastMessageAt.Equal(time.Unix(100, 0)) {
		t.Errorf("snapshot = %+v", snap)
	}
	if ids := m.Actuators(); len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Errorf("Actuators() = %v", ids)
	}
}

func TestParseActuatorID(t *testing.T) {
	tests := []struct {
		in      string
		want    ActuatorID
		wantErr bool
	}{
		{"1", 1, false},
		{"12", 12, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"pump1", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseActuatorID(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseActuatorID(%q) = %v, %v", tt.in, got, err)
		}
	}
}
