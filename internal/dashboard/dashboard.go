package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/nerrad567/irrigation-dashboard/internal/command"
	"github.com/nerrad567/irrigation-dashboard/internal/credentials"
	"github.com/nerrad567/irrigation-dashboard/internal/device"
	"github.com/nerrad567/irrigation-dashboard/internal/eventloop"
	"github.com/nerrad567/irrigation-dashboard/internal/infrastructure/mqtt"
	"github.com/nerrad567/irrigation-dashboard/internal/panel"
	"github.com/nerrad567/irrigation-dashboard/internal/router"
	"github.com/nerrad567/irrigation-dashboard/internal/sequencer"
	"github.com/nerrad567/irrigation-dashboard/internal/session"
)

// Logger is the logging interface shared by every core component.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}

// Options configures a Dashboard.
type Options struct {
	Actuators int
	Session   session.Settings
	Timing    sequencer.Timing

	// Seed is stored and used when the store is empty. Optional.
	Seed *credentials.ConnectionConfig

	Logger Logger
}

// Dashboard is the running irrigation client.
type Dashboard struct {
	loop   eventloop.Runner
	store  credentials.Store
	logger Logger
	seed   *credentials.ConnectionConfig

	session   *session.Manager
	model     *device.Model
	router    *router.Router
	emitter   *command.Emitter
	sequencer *sequencer.Sequencer

	credentialsRequired bool
	renderPending       bool
	viewObservers       []func(panel.View)
}

// New wires the core. Nothing connects until Start.
func New(loop eventloop.Runner, store credentials.Store, dialer mqtt.Dialer, opts Options) *Dashboard {
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	settings := opts.Session
	if len(settings.Topics) == 0 {
		settings.Topics = mqtt.Topics{}.Subscriptions(opts.Actuators)
	}

	d := &Dashboard{
		loop:   loop,
		store:  store,
		logger: logger,
		seed:   opts.Seed,
		model:  device.NewModel(opts.Actuators),
	}

	d.session = session.NewManager(loop, dialer, settings)
	d.session.SetLogger(logger)

	d.router = router.New(d.model)
	d.router.SetLogger(logger)

	d.emitter = command.New(d.session, d.model)
	d.emitter.SetLogger(logger)

	d.sequencer = sequencer.New(loop, opts.Timing, d.model.Actuators())

	// The sequencer observes first so a render sees the new phase.
	d.model.Observe(d.sequencer.Observe)
	d.model.Observe(func(device.Change) { d.changed() })
	d.sequencer.OnChange(func(device.ActuatorID, sequencer.Animation) { d.changed() })
	d.session.OnStateChange(func(session.Status) { d.changed() })
	d.session.OnMessage(func(topic string, payload []byte) {
		d.router.Handle(topic, payload)
		d.changed()
	})

	return d
}

// OnView registers fn to receive every rendered View. It runs on the loop
// and must not block. Register observers before Start.
func (d *Dashboard) OnView(fn func(panel.View)) {
	d.viewObservers = append(d.viewObservers, fn)
}

// Start connects with the stored credentials. With none stored and no seed,
// the view reports credentials_required and Start returns nil.
func (d *Dashboard) Start(ctx context.Context) error {
	cfg, err := d.store.Load(ctx)
	switch {
	case errors.Is(err, credentials.ErrNotFound):
		if d.seed == nil || d.seed.Validate() != nil {
			d.logger.Info("no broker credentials stored, waiting for user input")
			return d.loop.Do(ctx, func() {
				d.credentialsRequired = true
				d.changed()
			})
		}
		if err := d.store.Save(ctx, *d.seed); err != nil {
			return fmt.Errorf("storing seed credentials: %w", err)
		}
		cfg = *d.seed
	case err != nil:
		return fmt.Errorf("loading credentials: %w", err)
	}

	return d.loop.Do(ctx, func() {
		if err := d.session.Connect(cfg); err != nil {
			d.logger.Warn("stored credentials unusable", "error", err)
			d.credentialsRequired = true
			d.changed()
		}
	})
}

// SaveAndConnect validates cfg, stores it and replaces the current session.
// Animations of the old session are cancelled.
func (d *Dashboard) SaveAndConnect(ctx context.Context, cfg credentials.ConnectionConfig) error {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := d.store.Save(ctx, cfg); err != nil {
		return fmt.Errorf("storing credentials: %w", err)
	}

	var connErr error
	if err := d.loop.Do(ctx, func() {
		// Animations belong to the session being replaced.
		d.sequencer.CancelAll()
		connErr = d.session.Connect(cfg)
		if connErr == nil {
			d.credentialsRequired = false
			d.changed()
		}
	}); err != nil {
		return err
	}
	return connErr
}

// Disconnect closes the session, cancels reconnects and stops every animation.
func (d *Dashboard) Disconnect(ctx context.Context) error {
	return d.loop.Do(ctx, func() {
		d.session.Disconnect()
		d.sequencer.CancelAll()
	})
}

// Forget disconnects and deletes the stored credentials. The view asks for
// new ones afterwards.
func (d *Dashboard) Forget(ctx context.Context) error {
	if err := d.loop.Do(ctx, func() {
		d.session.Disconnect()
		d.sequencer.CancelAll()
		d.credentialsRequired = true
		d.changed()
	}); err != nil {
		return err
	}
	if err := d.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing credentials: %w", err)
	}
	d.logger.Info("broker credentials forgotten")
	return nil
}

// SetActuator switches an actuator on or off.
func (d *Dashboard) SetActuator(ctx context.Context, id device.ActuatorID, on bool) error {
	return d.run(ctx, func() error { return d.emitter.SetActuator(id, on) })
}

// SetActuatorTimed runs an actuator for durationMs.
func (d *Dashboard) SetActuatorTimed(ctx context.Context, id device.ActuatorID, durationMs int) error {
	return d.run(ctx, func() error { return d.emitter.SetActuatorTimed(id, durationMs) })
}

// UpdateSchedule replaces an actuator's schedule.
func (d *Dashboard) UpdateSchedule(ctx context.Context, id device.ActuatorID, cfg device.ScheduleConfig) error {
	return d.run(ctx, func() error { return d.emitter.UpdateSchedule(id, cfg) })
}

// View renders the current state.
func (d *Dashboard) View(ctx context.Context) (panel.View, error) {
	var v panel.View
	err := d.loop.Do(ctx, func() { v = d.render() })
	return v, err
}

// Status returns the connection status.
func (d *Dashboard) Status(ctx context.Context) (session.Status, error) {
	var st session.Status
	err := d.loop.Do(ctx, func() { st = d.session.Status() })
	return st, err
}

func (d *Dashboard) run(ctx context.Context, fn func() error) error {
	var opErr error
	if err := d.loop.Do(ctx, func() { opErr = fn() }); err != nil {
		return err
	}
	return opErr
}

// changed schedules one render for the current loop step.
func (d *Dashboard) changed() {
	if d.renderPending || len(d.viewObservers) == 0 {
		return
	}
	d.renderPending = true
	d.loop.Post(func() {
		d.renderPending = false
		v := d.render()
		for _, fn := range d.viewObservers {
			fn(v)
		}
	})
}

func (d *Dashboard) render() panel.View {
	anims := make(map[device.ActuatorID]sequencer.Animation)
	for _, id := range d.model.Actuators() {
		if a, ok := d.sequencer.Animation(id); ok {
			anims[id] = a
		}
	}
	return panel.Render(panel.Input{
		Status:              d.session.Status(),
		CredentialsRequired: d.credentialsRequired,
		Model:               d.model.Snapshot(),
		Animations:          anims,
	})
}
