package mqtt

import "sync"

// FakeDialer is an in-memory Dialer for tests. Nothing connects until the
// test drives the returned FakeConn.
type FakeDialer struct {
	mu    sync.Mutex
	conns []*FakeConn
}

// Dial records the attempt and returns a FakeConn.
func (d *FakeDialer) Dial(opts Options, h Handlers) Conn {
	d.mu.Lock()
	defer d.mu.Unlock()
	conn := &FakeConn{Options: opts, handlers: h}
	d.conns = append(d.conns, conn)
	return conn
}

// Dials returns the number of Dial calls so far.
func (d *FakeDialer) Dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.conns)
}

// Last returns the most recent FakeConn, or nil.
func (d *FakeDialer) Last() *FakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.conns) == 0 {
		return nil
	}
	return d.conns[len(d.conns)-1]
}

// Published is one recorded publish.
type Published struct {
	Topic   string
	Payload []byte
}

// FakeConn records traffic and lets tests trigger session callbacks.
type FakeConn struct {
	Options Options

	// PublishErr and SubscribeErr, when set, are returned by the matching call.
	PublishErr   error
	SubscribeErr error

	mu            sync.Mutex
	handlers      Handlers
	subscriptions []string
	published     []Published
	closed        bool
}

func (c *FakeConn) Subscribe(topic string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SubscribeErr != nil {
		return c.SubscribeErr
	}
	if c.closed {
		return ErrNotConnected
	}
	c.subscriptions = append(c.subscriptions, topic)
	return nil
}

func (c *FakeConn) Publish(topic string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.PublishErr != nil {
		return c.PublishErr
	}
	if c.closed {
		return ErrNotConnected
	}
	c.published = append(c.published, Published{Topic: topic, Payload: append([]byte(nil), payload...)})
	return nil
}

func (c *FakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Closed reports whether Close was called.
func (c *FakeConn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Subscriptions returns the topics subscribed so far.
func (c *FakeConn) Subscriptions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.subscriptions...)
}

// Published returns the messages published so far.
func (c *FakeConn) Published() []Published {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Published(nil), c.published...)
}

// Accept simulates a successful CONNACK.
func (c *FakeConn) Accept() {
	if h := c.handlers.OnConnect; h != nil {
		h()
	}
}

// Refuse simulates a failed attempt.
func (c *FakeConn) Refuse(err error) {
	if h := c.handlers.OnConnectError; h != nil {
		h(NewConnectError(err))
	}
}

// Drop simulates the broker closing an established session.
func (c *FakeConn) Drop(err error) {
	if h := c.handlers.OnConnectionLost; h != nil {
		h(err)
	}
}

// Deliver simulates an inbound message.
func (c *FakeConn) Deliver(topic string, payload []byte) {
	if h := c.handlers.OnMessage; h != nil {
		h(topic, payload)
	}
}
