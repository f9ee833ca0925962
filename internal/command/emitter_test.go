package command

import (
	"errors"
	"testing"

	"github.com/nerrad567/irrigation-dashboard/internal/device"
	"github.com/nerrad567/irrigation-dashboard/internal/session"
)

type published struct {
	topic   string
	payload string
}

type fakePublisher struct {
	connected bool
	err       error
	sent      []published
}

func (f *fakePublisher) Connected() bool { return f.connected }

func (f *fakePublisher) Publish(topic string, payload []byte) error {
	if !f.connected {
		return session.ErrNotConnected
	}
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{topic, string(payload)})
	return nil
}

var morning = device.ScheduleConfig{Enabled: true, Hour: 6, Minute: 30, IntervalDays: 2, DurationMs: 15000}

func TestEmitter_NotConnectedNeverPublishes(t *testing.T) {
	ops := map[string]func(*Emitter) error{
		"SetActuator on":   func(e *Emitter) error { return e.SetActuator(1, true) },
		"SetActuator off":  func(e *Emitter) error { return e.SetActuator(1, false) },
		"SetActuatorTimed": func(e *Emitter) error { return e.SetActuatorTimed(1, 15000) },
		"UpdateSchedule":   func(e *Emitter) error { return e.UpdateSchedule(1, morning) },
		"invalid input":    func(e *Emitter) error { return e.SetActuatorTimed(1, -5) },
		"unknown actuator": func(e *Emitter) error { return e.SetActuator(7, true) },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			pub := &fakePublisher{}
			model := device.NewModel(2)
			e := New(pub, model)

			if err := op(e); !errors.Is(err, session.ErrNotConnected) {
				t.Errorf("error = %v, want ErrNotConnected", err)
			}
			if len(pub.sent) != 0 {
				t.Errorf("published %v while disconnected", pub.sent)
			}
			if s, _ := model.Schedule(1); s.Known {
				t.Error("schedule applied while disconnected")
			}
		})
	}
}

func TestEmitter_SetActuator(t *testing.T) {
	pub := &fakePublisher{connected: true}
	e := New(pub, device.NewModel(2))

	if err := e.SetActuator(2, true); err != nil {
		t.Fatalf("SetActuator() error = %v", err)
	}
	if err := e.SetActuator(1, false); err != nil {
		t.Fatalf("SetActuator() error = %v", err)
	}

	want := []published{{"plant/pump2/set", "on"}, {"plant/pump1/set", "off"}}
	if len(pub.sent) != 2 || pub.sent[0] != want[0] || pub.sent[1] != want[1] {
		t.Errorf("sent %v, want %v", pub.sent, want)
	}
}

func TestEmitter_SetActuatorTimed(t *testing.T) {
	tests := []struct {
		name     string
		duration int
		wantErr  error
		want     string
	}{
		{"fifteen seconds", 15000, nil, `{"state":"on","duration":15000}`},
		{"zero", 0, nil, `{"state":"on","duration":0}`},
		{"limit", device.MaxDurationMs, nil, `{"state":"on","duration":300000}`},
		{"negative", -1, device.ErrInvalidDuration, ""},
		{"over limit", device.MaxDurationMs + 1, device.ErrInvalidDuration, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{connected: true}
			e := New(pub, device.NewModel(1))

			err := e.SetActuatorTimed(1, tt.duration)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				if len(pub.sent) != 0 {
					t.Errorf("invalid duration was published")
				}
				return
			}
			if err != nil {
				t.Fatalf("SetActuatorTimed() error = %v", err)
			}
			if len(pub.sent) != 1 || pub.sent[0].topic != "plant/pump1/set" || pub.sent[0].payload != tt.want {
				t.Errorf("sent %v, want %s", pub.sent, tt.want)
			}
		})
	}
}

func TestEmitter_UnknownActuator(t *testing.T) {
	pub := &fakePublisher{connected: true}
	e := New(pub, device.NewModel(2))

	if err := e.SetActuator(3, true); !errors.Is(err, device.ErrUnknownActuator) {
		t.Errorf("error = %v, want ErrUnknownActuator", err)
	}
	if len(pub.sent) != 0 {
		t.Error("published for an unknown actuator")
	}
}

func TestEmitter_UpdateSchedule(t *testing.T) {
	t.Run("applies and publishes", func(t *testing.T) {
		pub := &fakePublisher{connected: true}
		model := device.NewModel(1)
		e := New(pub, model)

		if err := e.UpdateSchedule(1, morning); err != nil {
			t.Fatalf("UpdateSchedule() error = %v", err)
		}
		if len(pub.sent) != 1 || pub.sent[0].topic != "plant/pump1/schedule" {
			t.Fatalf("sent %v", pub.sent)
		}

		// The controller echoes the schedule back; decoding it must reproduce the input.
		echoed, err := device.DecodeSchedule([]byte(pub.sent[0].payload))
		if err != nil {
			t.Fatalf("DecodeSchedule() error = %v", err)
		}
		if echoed != morning {
			t.Errorf("echoed schedule = %+v, want %+v", echoed, morning)
		}
		if s, _ := model.Schedule(1); !s.Known || s.Config != morning {
			t.Errorf("model schedule = %+v", s)
		}
	})

	t.Run("rejects out of range", func(t *testing.T) {
		pub := &fakePublisher{connected: true}
		e := New(pub, device.NewModel(1))
		bad := morning
		bad.Minute = 75

		if err := e.UpdateSchedule(1, bad); !errors.Is(err, device.ErrInvalidSchedule) {
			t.Errorf("error = %v, want ErrInvalidSchedule", err)
		}
		if len(pub.sent) != 0 {
			t.Error("invalid schedule was published")
		}
	})

	t.Run("restores previous schedule when publish fails", func(t *testing.T) {
		pub := &fakePublisher{connected: true, err: session.ErrPublishFailed}
		model := device.NewModel(1)
		e := New(pub, model)
		before, _ := model.Schedule(1)

		if err := e.UpdateSchedule(1, morning); !errors.Is(err, session.ErrPublishFailed) {
			t.Errorf("error = %v, want ErrPublishFailed", err)
		}
		if after, _ := model.Schedule(1); after != before {
			t.Errorf("schedule = %+v, want restored %+v", after, before)
		}
	})
}
