package mqtt

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/smartcity-core/internal/infrastructure/config"
)

func testConfig() config.MQTTConfig {
	return config.Default().MQTT
}

func TestBuildClientOptions(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*config.MQTTConfig)
		wantScheme string
		wantUser   string
	}{
		{name: "plain tcp", mutate: func(*config.MQTTConfig) {}, wantScheme: "tcp"},
		{
			name:       "tls with auth",
			mutate:     func(c *config.MQTTConfig) { c.Broker.TLS = true; c.Auth.Username = "u"; c.Auth.Password = "p" },
			wantScheme: "ssl",
			wantUser:   "u",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			opts := buildClientOptions(cfg)

			if len(opts.Servers) != 1 || opts.Servers[0].Scheme != tt.wantScheme {
				t.Fatalf("Servers = %v, want one %s broker", opts.Servers, tt.wantScheme)
			}
			if opts.Servers[0].Host != "localhost:1883" {
				t.Errorf("broker host = %q", opts.Servers[0].Host)
			}
			if opts.ClientID != "smartcity-core" {
				t.Errorf("ClientID = %q", opts.ClientID)
			}
			if opts.Username != tt.wantUser {
				t.Errorf("Username = %q, want %q", opts.Username, tt.wantUser)
			}
			if cfg.Broker.TLS && (opts.TLSConfig == nil || opts.TLSConfig.MinVersion != tlsMinVersion) {
				t.Errorf("TLSConfig = %+v, want MinVersion TLS 1.2", opts.TLSConfig)
			}
			if opts.MaxReconnectInterval != 60*time.Second {
				t.Errorf("MaxReconnectInterval = %v", opts.MaxReconnectInterval)
			}
		})
	}
}

func TestConfigureLWT(t *testing.T) {
	opts := buildClientOptions(testConfig())
	configureLWT(opts, "smartcity-core")

	if !opts.WillEnabled || !opts.WillRetained || opts.WillTopic != "smartcity/system/status" {
		t.Fatalf("will = enabled:%v retained:%v topic:%q", opts.WillEnabled, opts.WillRetained, opts.WillTopic)
	}

	var p statusPayload
	if err := json.Unmarshal(opts.WillPayload, &p); err != nil {
		t.Fatalf("will payload not JSON: %v", err)
	}
	if p.Status != "offline" || p.Reason != "unexpected_disconnect" {
		t.Errorf("will payload = %+v", p)
	}
}

func TestValidatePublish(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{name: "valid", topic: "t", payload: []byte("x"), qos: 1},
		{name: "nil payload", topic: "t", qos: 0},
		{name: "empty topic", topic: "", qos: 0, wantErr: ErrInvalidTopic},
		{name: "bad qos", topic: "t", qos: 3, wantErr: ErrInvalidQoS},
		{name: "oversized", topic: "t", payload: []byte(strings.Repeat("x", maxPayloadSize+1)), wantErr: ErrPublishFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePublish(tt.topic, tt.payload, tt.qos)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validatePublish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_Disconnected(t *testing.T) {
	c := &Client{cfg: testConfig(), subscriptions: make(map[string]subscription)}

	if c.IsConnected() {
		t.Error("IsConnected() = true for unconnected client")
	}
	if err := c.Publish("t", nil, 0, false); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Publish() error = %v, want ErrNotConnected", err)
	}
	if err := c.Subscribe("t", 0, func(string, []byte) error { return nil }); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Subscribe() error = %v, want ErrNotConnected", err)
	}
	if err := c.Subscribe("t", 0, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("Subscribe(nil) error = %v, want ErrSubscribeFailed", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	var nilClient *Client
	if err := nilClient.Close(); err != nil {
		t.Errorf("nil Close() error = %v", err)
	}
}
