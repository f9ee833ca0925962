package router

import (
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/irrigation-dashboard/internal/device"
	"github.com/nerrad567/irrigation-dashboard/internal/infrastructure/mqtt"
)

// Logger is the logging interface used by the router.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Router dispatches messages to the model. It must run on the event loop.
type Router struct {
	model  *device.Model
	logger Logger
	now    func() time.Time
}

// New creates a router writing to model.
func New(model *device.Model) *Router {
	return &Router{model: model, logger: noopLogger{}, now: time.Now}
}

// SetLogger sets the logger.
func (r *Router) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	r.logger = logger
}

// SetClock overrides the time source used for timestamps.
func (r *Router) SetClock(now func() time.Time) {
	r.now = now
}

// Handle routes a message and logs any decode failure. It is the session's
// message callback.
func (r *Router) Handle(topic string, payload []byte) {
	if err := r.Route(topic, payload); err != nil {
		r.logger.Warn("dropping message", "topic", topic, "error", err)
	}
}

// Route decodes payload according to topic and applies it to the model.
// Unrecognised topics return nil. Decode failures return an error wrapping
// device.ErrPayloadDecode and leave the model unchanged.
func (r *Router) Route(topic string, payload []byte) error {
	at := r.now()
	r.model.Touch(at)

	kind, pump := mqtt.ParseTopic(topic)
	id := device.ActuatorID(pump)

	switch kind {
	case mqtt.TopicPumpStatus:
		if !r.known(topic, id) {
			return nil
		}
		on, err := device.DecodeStatus(payload)
		if err != nil {
			return err
		}
		return r.model.SetActuatorStatus(id, on, at)

	case mqtt.TopicPumpSchedule:
		if !r.known(topic, id) {
			return nil
		}
		cfg, err := device.DecodeSchedule(payload)
		if err != nil {
			return err
		}
		return r.model.SetSchedule(id, cfg, at)

	case mqtt.TopicDeviceStatus:
		online, err := device.DecodeHealth(payload)
		if err != nil {
			return err
		}
		r.model.SetDeviceHealth(online, at)
		return nil

	case mqtt.TopicPumpSet:
		// Our own commands (and other dashboards') echoed back.
		r.logger.Debug("ignoring command echo", "topic", topic)
		return nil

	default:
		r.logger.Debug("ignoring unrecognised topic", "topic", topic)
		return nil
	}
}

func (r *Router) known(topic string, id device.ActuatorID) bool {
	if r.model.Has(id) {
		return true
	}
	r.logger.Debug("ignoring topic for unknown actuator", "topic", topic,
		"error", fmt.Errorf("%w: %d", device.ErrUnknownActuator, id))
	return false
}

// IsDecodeError reports whether err came from a malformed payload.
func IsDecodeError(err error) bool {
	return errors.Is(err, device.ErrPayloadDecode)
}
