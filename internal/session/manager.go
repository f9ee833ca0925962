package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/irrigation-dashboard/internal/credentials"
	"github.com/nerrad567/irrigation-dashboard/internal/eventloop"
	"github.com/nerrad567/irrigation-dashboard/internal/infrastructure/mqtt"
)

// Logger is the logging interface used by the manager.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}

// Manager owns the broker session and its reconnect cycle.
type Manager struct {
	exec     eventloop.Executor
	dialer   mqtt.Dialer
	settings Settings
	logger   Logger
	now      func() time.Time

	status    Status
	cfg       *credentials.ConnectionConfig
	conn      mqtt.Conn
	gen       uint64
	reconnect eventloop.Timer

	stateObservers []func(Status)
	onMessage      func(topic string, payload []byte)
}

// NewManager creates a manager in StateDisconnected.
func NewManager(exec eventloop.Executor, dialer mqtt.Dialer, settings Settings) *Manager {
	m := &Manager{
		exec:     exec,
		dialer:   dialer,
		settings: settings,
		logger:   noopLogger{},
		now:      time.Now,
	}
	m.status = Status{State: StateDisconnected, Since: m.now()}
	return m
}

// SetLogger sets the logger.
func (m *Manager) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	m.logger = logger
}

// SetClock overrides the time source used for Status.Since.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// OnStateChange registers fn to be called after every state change.
func (m *Manager) OnStateChange(fn func(Status)) {
	m.stateObservers = append(m.stateObservers, fn)
}

// OnMessage sets the receiver of inbound messages.
func (m *Manager) OnMessage(fn func(topic string, payload []byte)) {
	m.onMessage = fn
}

// Status returns the current connection status.
func (m *Manager) Status() Status {
	return m.status
}

// Connected reports whether the session is in StateConnected.
func (m *Manager) Connected() bool {
	return m.status.State == StateConnected
}

// Config returns the config of the current session, if any.
func (m *Manager) Config() (credentials.ConnectionConfig, bool) {
	if m.cfg == nil {
		return credentials.ConnectionConfig{}, false
	}
	return *m.cfg, true
}

// Connect validates cfg and starts a new session with it, tearing down any
// existing one. An invalid config returns credentials.ErrConfigInvalid and
// leaves the current session untouched.
func (m *Manager) Connect(cfg credentials.ConnectionConfig) error {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}

	m.teardown()
	m.cfg = &cfg
	m.status.Attempts = 0
	m.logger.Info("connecting to broker", "broker", cfg.String())
	m.dial()
	return nil
}

// Disconnect cancels any pending reconnect and closes the session.
// Calling it again has no effect.
func (m *Manager) Disconnect() {
	if m.cfg == nil && m.conn == nil && m.reconnect == nil {
		return
	}
	m.teardown()
	m.cfg = nil
	m.status.Attempts = 0
	m.setState(StateDisconnected, "", "")
	m.logger.Info("disconnected from broker")
}

// Publish sends payload on topic. It returns ErrNotConnected without
// touching the transport unless the session is connected.
func (m *Manager) Publish(topic string, payload []byte) error {
	if m.status.State != StateConnected || m.conn == nil {
		return ErrNotConnected
	}
	if err := m.conn.Publish(topic, payload); err != nil {
		if errors.Is(err, mqtt.ErrNotConnected) {
			return ErrNotConnected
		}
		return fmt.Errorf("%w: %s: %w", ErrPublishFailed, topic, err)
	}
	return nil
}

// Dispatch advances the state machine. Events from a superseded session are ignored.
func (m *Manager) Dispatch(ev Event) {
	if ev.generation() != m.gen {
		m.logger.Debug("ignoring stale session event", "event", fmt.Sprintf("%T", ev),
			"event_gen", ev.generation(), "gen", m.gen)
		return
	}

	switch e := ev.(type) {
	case EventConnected:
		m.status.Attempts = 0
		m.setState(StateConnected, "", "")
		m.subscribe()

	case EventMessage:
		if m.status.State != StateConnected {
			return
		}
		if m.onMessage != nil {
			m.onMessage(e.Topic, e.Payload)
		}

	case EventError:
		m.closeConn()
		kind := mqtt.Classify(e.Err)
		var connErr *mqtt.ConnectError
		if errors.As(e.Err, &connErr) {
			kind = connErr.Kind
		}
		m.logger.Warn("broker connect failed", "error", e.Err, "kind", string(kind),
			"attempt", m.status.Attempts)
		m.setState(StateErrored, reason(e.Err), kind)
		m.scheduleReconnect()

	case EventClosed:
		m.closeConn()
		m.logger.Warn("broker connection closed", "error", e.Err)
		m.setState(StateDisconnected, reason(e.Err), "")
		m.scheduleReconnect()

	case EventReconnecting:
		m.reconnect = nil
		if m.cfg == nil {
			return
		}
		m.setState(StateReconnecting, m.status.Reason, m.status.Kind)
		m.dial()
	}
}

// dial starts a new attempt with the stored config under a fresh generation.
func (m *Manager) dial() {
	m.gen++
	gen := m.gen
	m.status.Attempts++
	m.setState(StateConnecting, "", "")

	opts := mqtt.Options{
		Host:           m.cfg.Host,
		Port:           m.settings.Port,
		Path:           m.settings.Path,
		Username:       m.cfg.Username,
		Password:       m.cfg.Password,
		ClientID:       mqtt.NewClientID(m.settings.ClientIDPrefix),
		ConnectTimeout: m.settings.ConnectTimeout,
		KeepAlive:      m.settings.KeepAlive,
		QoS:            m.settings.QoS,
	}
	m.logger.Debug("dialing broker", "url", opts.BrokerURL(), "client_id", opts.ClientID, "gen", gen)

	m.conn = m.dialer.Dial(opts, m.handlers(gen))
}

// handlers bridges transport callbacks onto the loop as events.
func (m *Manager) handlers(gen uint64) mqtt.Handlers {
	post := func(ev Event) {
		m.exec.Post(func() { m.Dispatch(ev) })
	}
	return mqtt.Handlers{
		OnConnect:        func() { post(EventConnected{Gen: gen}) },
		OnConnectError:   func(err error) { post(EventError{Gen: gen, Err: err}) },
		OnConnectionLost: func(err error) { post(EventClosed{Gen: gen, Err: err}) },
		OnMessage: func(topic string, payload []byte) {
			post(EventMessage{Gen: gen, Topic: topic, Payload: payload})
		},
		OnSubscribeError: func(topic string, err error) {
			m.logger.Warn("subscription failed", "topic", topic, "error", err)
		},
		OnPublishError: func(topic string, err error) {
			m.logger.Warn("publish not acknowledged", "topic", topic, "error", err)
		},
	}
}

// subscribe requests the fixed topic set. Failures are logged only.
func (m *Manager) subscribe() {
	for _, topic := range m.settings.Topics {
		if err := m.conn.Subscribe(topic); err != nil {
			m.logger.Warn("subscription failed", "topic", topic, "error", err)
		}
	}
}

func (m *Manager) scheduleReconnect() {
	m.cancelReconnect()
	gen := m.gen
	m.reconnect = m.exec.AfterFunc(m.settings.ReconnectInterval, func() {
		m.Dispatch(EventReconnecting{Gen: gen})
	})
	m.logger.Debug("reconnect scheduled", "in", m.settings.ReconnectInterval)
}

func (m *Manager) cancelReconnect() {
	if m.reconnect != nil {
		m.reconnect.Stop()
		m.reconnect = nil
	}
}

func (m *Manager) closeConn() {
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
}

// teardown ends the current session and invalidates its pending events.
func (m *Manager) teardown() {
	m.cancelReconnect()
	m.closeConn()
	m.gen++
}

func (m *Manager) setState(state State, why string, kind mqtt.FailureKind) {
	if m.status.State == state && m.status.Reason == why && m.status.Kind == kind {
		return
	}
	m.status.State = state
	m.status.Reason = why
	m.status.Kind = kind
	m.status.Since = m.now()

	m.logger.Info("connection state changed", "state", state.String(), "reason", why)
	for _, fn := range m.stateObservers {
		fn(m.status)
	}
}

func reason(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
