package router

import (
	"testing"
	"time"

	"github.com/nerrad567/irrigation-dashboard/internal/device"
)

var fixedNow = time.Date(2026, 3, 1, 6, 30, 15, 0, time.UTC)

func newRouter(n int) (*Router, *device.Model) {
	m := device.NewModel(n)
	r := New(m)
	r.SetClock(func() time.Time { return fixedNow })
	return r, m
}

func TestRoute_ActuatorStatus(t *testing.T) {
	r, m := newRouter(2)

	if err := r.Route("plant/pump2/status", []byte("on")); err != nil {
		t.Fatalf("Route() error = %v", err)
	}

	st, _ := m.ActuatorStatus(2)
	if !st.IsOn || !st.Reported {
		t.Errorf("ActuatorStatus(2) = %+v, want on", st)
	}
	if other, _ := m.ActuatorStatus(1); other.Reported {
		t.Errorf("ActuatorStatus(1) changed: %+v", other)
	}
	if !m.LastMessageAt().Equal(fixedNow) {
		t.Errorf("LastMessageAt() = %v", m.LastMessageAt())
	}
}

func TestRoute_DeviceHealth(t *testing.T) {
	r, m := newRouter(1)

	if err := r.Route("plant/status", []byte("offline")); err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if h := m.DeviceHealth(); h.Online || !h.Reported {
		t.Errorf("DeviceHealth() = %+v, want reported offline", h)
	}
}

func TestRoute_Schedule(t *testing.T) {
	r, m := newRouter(1)
	payload := `{"enabled":true,"hour":6,"minute":30,"intervalDays":2,"durationMs":15000}`

	if err := r.Route("plant/pump1/schedule", []byte(payload)); err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	got, _ := m.Schedule(1)
	want := device.ScheduleConfig{Enabled: true, Hour: 6, Minute: 30, IntervalDays: 2, DurationMs: 15000}
	if !got.Known || got.Config != want {
		t.Errorf("Schedule(1) = %+v", got)
	}
}

func TestRoute_MalformedPayloadKeepsPriorState(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		payload string
	}{
		{"schedule not json", "plant/pump1/schedule", "garbage"},
		{"schedule out of range", "plant/pump1/schedule", `{"enabled":true,"hour":25,"minute":0,"intervalDays":1,"durationMs":0}`},
		{"schedule missing field", "plant/pump1/schedule", `{"enabled":false}`},
		{"status token", "plant/pump1/status", "maybe"},
		{"health token", "plant/status", "sleeping"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, m := newRouter(1)
			prior := `{"enabled":true,"hour":6,"minute":30,"intervalDays":2,"durationMs":15000}`
			if err := r.Route("plant/pump1/schedule", []byte(prior)); err != nil {
				t.Fatalf("seeding schedule: %v", err)
			}
			if err := r.Route("plant/pump1/status", []byte("on")); err != nil {
				t.Fatalf("seeding status: %v", err)
			}
			if err := r.Route("plant/status", []byte("online")); err != nil {
				t.Fatalf("seeding health: %v", err)
			}

			before := m.Snapshot()
			notified := false
			m.Observe(func(device.Change) { notified = true })

			err := r.Route(tt.topic, []byte(tt.payload))
			if !IsDecodeError(err) {
				t.Fatalf("Route() error = %v, want decode error", err)
			}
			if notified {
				t.Error("malformed payload notified observers")
			}

			after := m.Snapshot()
			if after.Schedules[0] != before.Schedules[0] {
				t.Errorf("schedule changed: %+v -> %+v", before.Schedules[0], after.Schedules[0])
			}
			if after.Actuators[0] != before.Actuators[0] {
				t.Errorf("status changed: %+v -> %+v", before.Actuators[0], after.Actuators[0])
			}
			if after.Health != before.Health {
				t.Errorf("health changed: %+v -> %+v", before.Health, after.Health)
			}
		})
	}
}

func TestRoute_IgnoredTopics(t *testing.T) {
	topics := []string{
		"plant/pump1/set",
		"plant/pump9/status",
		"plant/pump1/unknown",
		"garden/pump1/status",
		"plant",
	}

	for _, topic := range topics {
		t.Run(topic, func(t *testing.T) {
			r, m := newRouter(2)
			notified := false
			m.Observe(func(device.Change) { notified = true })

			if err := r.Route(topic, []byte("on")); err != nil {
				t.Errorf("Route() error = %v, want nil", err)
			}
			if notified {
				t.Error("ignored topic changed the model")
			}
			if !m.LastMessageAt().Equal(fixedNow) {
				t.Error("ignored topic did not stamp LastMessageAt")
			}
		})
	}
}
