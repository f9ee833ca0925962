package mqtt

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// Handlers receives session events. Every field is optional.
//
// Callbacks fire on transport goroutines. After Conn.Close returns no
// further callbacks are delivered.
type Handlers struct {
	// OnConnect fires once when the broker accepts the session.
	OnConnect func()

	// OnConnectError fires once if the attempt fails. The error is a *ConnectError.
	OnConnectError func(err error)

	// OnConnectionLost fires when an established session drops.
	OnConnectionLost func(err error)

	// OnMessage fires for every message on a subscribed topic, in arrival order.
	OnMessage func(topic string, payload []byte)

	// OnSubscribeError and OnPublishError report asynchronous broker refusals.
	OnSubscribeError func(topic string, err error)
	OnPublishError   func(topic string, err error)
}

// Conn is one broker session.
//
// Subscribe and Publish do not block on the broker. Failures detected
// locally are returned; failures reported later by the broker arrive on
// Handlers.OnSubscribeError / OnPublishError.
type Conn interface {
	Subscribe(topic string) error
	Publish(topic string, payload []byte) error
	Close()
}

// Dialer opens sessions. The attempt proceeds in the background and its
// outcome is reported through h.
type Dialer interface {
	Dial(opts Options, h Handlers) Conn
}

// Logger interface for MQTT client logging.
// Compatible with slog.Logger and the logging package.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger is a logger that discards all output.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// PahoDialer opens sessions with paho.mqtt.golang.
type PahoDialer struct {
	Logger Logger
}

// Dial starts a connect attempt and returns immediately.
func (d PahoDialer) Dial(opts Options, h Handlers) Conn {
	logger := d.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	c := &pahoConn{opts: opts, handlers: h, logger: logger}

	popts := buildClientOptions(opts)
	popts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		if c.closed.Load() {
			return
		}
		logger.Warn("mqtt connection lost", "broker", opts.BrokerURL(), "error", err)
		if h.OnConnectionLost != nil {
			h.OnConnectionLost(err)
		}
	})

	c.client = pahomqtt.NewClient(popts)
	go c.connect()
	return c
}

type pahoConn struct {
	client   pahomqtt.Client
	opts     Options
	handlers Handlers
	logger   Logger

	closed    atomic.Bool
	closeOnce sync.Once
}

// connect waits for the CONNACK. paho already bounds the attempt with the
// connect timeout; the extra second guards against a token that never completes.
func (c *pahoConn) connect() {
	token := c.client.Connect()

	var err error
	switch {
	case !token.WaitTimeout(c.opts.ConnectTimeout + time.Second):
		err = NewConnectError(ErrTimeout)
	case token.Error() != nil:
		err = NewConnectError(token.Error())
	}

	if c.closed.Load() {
		return
	}
	if err != nil {
		// Release anything paho started for the failed attempt.
		c.client.Disconnect(0)
		if c.handlers.OnConnectError != nil {
			c.handlers.OnConnectError(err)
		}
		return
	}

	c.logger.Debug("mqtt connected", "broker", c.opts.BrokerURL(), "client_id", c.opts.ClientID)
	if c.handlers.OnConnect != nil {
		c.handlers.OnConnect()
	}
}

func (c *pahoConn) Subscribe(topic string) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if c.closed.Load() || !c.client.IsConnectionOpen() {
		return ErrNotConnected
	}

	token := c.client.Subscribe(topic, c.opts.QoS, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		c.deliver(msg.Topic(), msg.Payload())
	})
	go c.await(token, topic, ErrSubscribeFailed, c.handlers.OnSubscribeError)
	return nil
}

func (c *pahoConn) Publish(topic string, payload []byte) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if c.closed.Load() || !c.client.IsConnectionOpen() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, c.opts.QoS, false, payload)
	go c.await(token, topic, ErrPublishFailed, c.handlers.OnPublishError)
	return nil
}

// Close stops callbacks at once. The broker DISCONNECT and its quiesce
// period run in the background so the caller never waits on the network.
func (c *pahoConn) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		go c.client.Disconnect(defaultDisconnectQuiesce)
	})
}

// deliver hands a message to the handler, recovering from panics so one bad
// handler cannot kill paho's delivery goroutine.
func (c *pahoConn) deliver(topic string, payload []byte) {
	if c.closed.Load() || c.handlers.OnMessage == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("mqtt message handler panic", "topic", topic, "panic", fmt.Sprint(r))
		}
	}()
	c.handlers.OnMessage(topic, payload)
}

func (c *pahoConn) await(token pahomqtt.Token, topic string, sentinel error, report func(string, error)) {
	var err error
	switch {
	case !token.WaitTimeout(defaultOperationTimeout):
		err = fmt.Errorf("%w: %w", sentinel, ErrTimeout)
	case token.Error() != nil:
		err = fmt.Errorf("%w: %w", sentinel, token.Error())
	}
	if err == nil || c.closed.Load() {
		return
	}
	c.logger.Warn("mqtt operation failed", "topic", topic, "error", err)
	if report != nil {
		report(topic, err)
	}
}
