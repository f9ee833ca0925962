package command

import (
	"fmt"
	"time"

	"github.com/nerrad567/irrigation-dashboard/internal/device"
	"github.com/nerrad567/irrigation-dashboard/internal/infrastructure/mqtt"
	"github.com/nerrad567/irrigation-dashboard/internal/session"
)

// Publisher is the subset of the session manager the emitter needs.
type Publisher interface {
	Connected() bool
	Publish(topic string, payload []byte) error
}

// Logger is the logging interface used by the emitter.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any) {}
func (noopLogger) Warn(string, ...any) {}

// Emitter validates and publishes commands. It must run on the event loop.
type Emitter struct {
	pub    Publisher
	model  *device.Model
	topics mqtt.Topics
	logger Logger
	now    func() time.Time
}

// New creates an emitter publishing through pub. The model is used to
// validate actuator IDs and to apply schedule edits optimistically.
func New(pub Publisher, model *device.Model) *Emitter {
	return &Emitter{pub: pub, model: model, logger: noopLogger{}, now: time.Now}
}

// SetLogger sets the logger.
func (e *Emitter) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	e.logger = logger
}

// SetActuator publishes "on" or "off" on the actuator's command topic.
func (e *Emitter) SetActuator(id device.ActuatorID, on bool) error {
	if err := e.precheck(id); err != nil {
		return err
	}

	if err := e.pub.Publish(e.topics.PumpSet(int(id)), device.EncodeSwitch(on)); err != nil {
		return err
	}
	e.logger.Info("actuator command sent", "actuator", int(id), "on", on)
	return nil
}

// SetActuatorTimed publishes {"state":"on","duration":ms}. The device turns
// the actuator off by itself when the duration elapses.
func (e *Emitter) SetActuatorTimed(id device.ActuatorID, durationMs int) error {
	if err := e.precheck(id); err != nil {
		return err
	}
	if err := device.ValidateDuration(durationMs); err != nil {
		return err
	}

	payload, err := device.EncodeTimed(durationMs)
	if err != nil {
		return fmt.Errorf("encoding timed command: %w", err)
	}
	if err := e.pub.Publish(e.topics.PumpSet(int(id)), payload); err != nil {
		return err
	}
	e.logger.Info("timed actuator command sent", "actuator", int(id), "duration_ms", durationMs)
	return nil
}

// UpdateSchedule validates cfg, applies it to the model and publishes it on
// the actuator's schedule topic. If the publish fails the previous schedule
// is put back.
func (e *Emitter) UpdateSchedule(id device.ActuatorID, cfg device.ScheduleConfig) error {
	if err := e.precheck(id); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	payload, err := device.EncodeSchedule(cfg)
	if err != nil {
		return fmt.Errorf("encoding schedule: %w", err)
	}

	prev, err := e.model.Schedule(id)
	if err != nil {
		return err
	}
	if err := e.model.SetSchedule(id, cfg, e.now()); err != nil {
		return err
	}

	if err := e.pub.Publish(e.topics.PumpSchedule(int(id)), payload); err != nil {
		if rerr := e.model.RestoreSchedule(prev); rerr != nil {
			e.logger.Warn("restoring schedule failed", "actuator", int(id), "error", rerr)
		}
		return err
	}
	e.logger.Info("schedule sent", "actuator", int(id), "enabled", cfg.Enabled,
		"time", fmt.Sprintf("%02d:%02d", cfg.Hour, cfg.Minute), "interval_days", cfg.IntervalDays)
	return nil
}

// precheck enforces the connectivity precondition before anything else so a
// disconnected dashboard always reports NotConnected.
func (e *Emitter) precheck(id device.ActuatorID) error {
	if !e.pub.Connected() {
		return session.ErrNotConnected
	}
	if !e.model.Has(id) {
		return fmt.Errorf("%w: %d", device.ErrUnknownActuator, id)
	}
	return nil
}
