package mqtt

import (
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// Connection constants.
const (
	// defaultDisconnectQuiesce is the time to wait for pending operations on disconnect.
	defaultDisconnectQuiesce = 250 // milliseconds

	// defaultOperationTimeout bounds how long a subscribe or publish token is awaited.
	defaultOperationTimeout = 5 * time.Second

	// clientIDSuffixLen is the number of random hex characters appended to the prefix.
	clientIDSuffixLen = 8

	// tlsMinVersion is the minimum TLS version for secure connections.
	tlsMinVersion = tls.VersionTLS12
)

// Options describes a single broker session.
type Options struct {
	Host     string
	Port     int
	Path     string
	Username string
	Password string

	// ClientID must be unique per session so several dashboards can be
	// open against the same broker. See NewClientID.
	ClientID string

	ConnectTimeout time.Duration
	KeepAlive      time.Duration
	QoS            byte
}

// BrokerURL returns the secure WebSocket endpoint, e.g. wss://host:8884/mqtt.
func (o Options) BrokerURL() string {
	path := o.Path
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return fmt.Sprintf("wss://%s:%d%s", o.Host, o.Port, path)
}

// NewClientID returns prefix followed by eight random hex characters.
func NewClientID(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + id[:clientIDSuffixLen]
}

// buildClientOptions creates paho options for one session.
//
// This configures:
//   - wss:// broker URL with TLS 1.2+
//   - Username/password authentication
//   - Clean session (no subscription state resumed)
//   - Connect timeout and keepalive
//   - Auto-reconnect and connect-retry disabled; the caller owns reconnects
//   - In-order message delivery
func buildClientOptions(o Options) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()

	opts.AddBroker(o.BrokerURL())
	opts.SetClientID(o.ClientID)
	opts.SetUsername(o.Username)
	opts.SetPassword(o.Password)

	opts.SetCleanSession(true)

	opts.SetAutoReconnect(false)
	opts.SetConnectRetry(false)

	opts.SetConnectTimeout(o.ConnectTimeout)
	if o.KeepAlive > 0 {
		opts.SetKeepAlive(o.KeepAlive)
	}

	// Messages on a subscription reach the handler in arrival order.
	opts.SetOrderMatters(true)

	opts.SetTLSConfig(&tls.Config{
		MinVersion: tlsMinVersion,
		ServerName: o.Host,
	})

	return opts
}
