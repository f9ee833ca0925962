package mqtt

import (
	"crypto/tls"
	"regexp"
	"testing"
	"time"
)

func TestBrokerURL(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"standard", Options{Host: "broker.example.com", Port: 8884, Path: "/mqtt"}, "wss://broker.example.com:8884/mqtt"},
		{"path without slash", Options{Host: "h", Port: 443, Path: "mqtt"}, "wss://h:443/mqtt"},
		{"empty path", Options{Host: "h", Port: 8884}, "wss://h:8884"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.BrokerURL(); got != tt.want {
				t.Errorf("BrokerURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewClientID(t *testing.T) {
	pattern := regexp.MustCompile(`^web-dashboard-[0-9a-f]{8}$`)

	a := NewClientID("web-dashboard-")
	b := NewClientID("web-dashboard-")

	if !pattern.MatchString(a) {
		t.Errorf("NewClientID() = %q, does not match %s", a, pattern)
	}
	if a == b {
		t.Errorf("NewClientID() returned %q twice", a)
	}
}

func TestBuildClientOptions(t *testing.T) {
	opts := buildClientOptions(Options{
		Host:           "broker.example.com",
		Port:           8884,
		Path:           "/mqtt",
		Username:       "alice",
		Password:       "secret",
		ClientID:       "web-dashboard-abcd1234",
		ConnectTimeout: 30 * time.Second,
		KeepAlive:      60 * time.Second,
	})

	if len(opts.Servers) != 1 || opts.Servers[0].String() != "wss://broker.example.com:8884/mqtt" {
		t.Errorf("Servers = %v, want [wss://broker.example.com:8884/mqtt]", opts.Servers)
	}
	if opts.ClientID != "web-dashboard-abcd1234" {
		t.Errorf("ClientID = %q", opts.ClientID)
	}
	if opts.Username != "alice" || opts.Password != "secret" {
		t.Errorf("credentials not applied: %q/%q", opts.Username, opts.Password)
	}
	if !opts.CleanSession {
		t.Error("CleanSession = false, want true")
	}
	if opts.AutoReconnect {
		t.Error("AutoReconnect = true, want false")
	}
	if opts.ConnectRetry {
		t.Error("ConnectRetry = true, want false")
	}
	if opts.ConnectTimeout != 30*time.Second {
		t.Errorf("ConnectTimeout = %v, want 30s", opts.ConnectTimeout)
	}
	if opts.TLSConfig == nil || opts.TLSConfig.MinVersion != tls.VersionTLS12 {
		t.Error("TLSConfig missing or below TLS 1.2")
	}
	if !opts.Order {
		t.Error("Order = false, want in-order delivery")
	}
}
