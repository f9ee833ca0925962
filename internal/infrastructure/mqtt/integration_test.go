//go:build integration

package mqtt

import (
	"os"
	"strconv"
	"testing"
	"time"
)

// Integration tests require a reachable wss broker:
//
//	MQTT_TEST_HOST=broker.example.com MQTT_TEST_USERNAME=u MQTT_TEST_PASSWORD=p \
//	  go test -tags=integration ./internal/infrastructure/mqtt/...
func integrationOptions(t *testing.T) Options {
	t.Helper()
	host := os.Getenv("MQTT_TEST_HOST")
	if host == "" {
		t.Skip("MQTT_TEST_HOST not set")
	}
	port := 8884
	if p, err := strconv.Atoi(os.Getenv("MQTT_TEST_PORT")); err == nil {
		port = p
	}
	return Options{
		Host:           host,
		Port:           port,
		Path:           "/mqtt",
		Username:       os.Getenv("MQTT_TEST_USERNAME"),
		Password:       os.Getenv("MQTT_TEST_PASSWORD"),
		ClientID:       NewClientID("web-dashboard-test-"),
		ConnectTimeout: 10 * time.Second,
	}
}

func TestIntegration_PublishSubscribeRoundTrip(t *testing.T) {
	opts := integrationOptions(t)

	connected := make(chan struct{})
	failed := make(chan error, 1)
	received := make(chan []byte, 1)
	topic := Topics{}.PumpSchedule(99)

	conn := PahoDialer{}.Dial(opts, Handlers{
		OnConnect:      func() { close(connected) },
		OnConnectError: func(err error) { failed <- err },
		OnMessage: func(got string, payload []byte) {
			if got == topic {
				received <- payload
			}
		},
	})
	defer conn.Close()

	select {
	case <-connected:
	case err := <-failed:
		t.Fatalf("connect failed: %v", err)
	case <-time.After(15 * time.Second):
		t.Fatal("connect timed out")
	}

	if err := conn.Subscribe(topic); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	time.Sleep(500 * time.Millisecond)

	if err := conn.Publish(topic, []byte(`{"enabled":false}`)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case payload := <-received:
		if string(payload) != `{"enabled":false}` {
			t.Errorf("payload = %s", payload)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("message not received")
	}
}

func TestIntegration_BadCredentialsClassifiedAsAuth(t *testing.T) {
	opts := integrationOptions(t)
	opts.Password = "definitely-wrong"

	failed := make(chan error, 1)
	conn := PahoDialer{}.Dial(opts, Handlers{
		OnConnectError: func(err error) { failed <- err },
	})
	defer conn.Close()

	select {
	case err := <-failed:
		if k := Classify(err); k != FailureAuth {
			t.Errorf("Classify() = %q, want auth (err=%v)", k, err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("expected a connect failure")
	}
}
