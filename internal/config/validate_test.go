package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidNodeID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"!9eed0410", true},
		{"!2c9e092b", true},
		{"!849C4818", true}, // hex digits in either case
		{"!00000000", true},
		{"", false},
		{"9eed0410", false},    // missing bang
		{"!9eed041", false},    // too short
		{"!9eed04100", false},  // too long
		{"!9eed041g", false},   // non-hex
		{"not-a-node", false},
		{"!9eed 410", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidNodeID(tt.id))
		})
	}
}

func TestValidate_Defaults(t *testing.T) {
	require.NoError(t, Validate(DefaultConfig()))
}

func TestValidate_FutureVersion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Version = CurrentConfigVersion + 1

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "from the future")
}

func TestValidate_Transport(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown kind",
			mutate:  func(c *Config) { c.Transport.Kind = "carrier-pigeon" },
			wantErr: "Unknown transport kind",
		},
		{
			name:    "tcp without host",
			mutate:  func(c *Config) { c.Transport.Kind = "tcp" },
			wantErr: "transport.host is required",
		},
		{
			name: "ble without address",
			mutate: func(c *Config) {
				c.Transport.Kind = "ble"
			},
			wantErr: "transport.ble_address is required",
		},
		{
			name:    "empty binary",
			mutate:  func(c *Config) { c.Transport.Binary = "" },
			wantErr: "transport.binary",
		},
		{
			name: "serial without port is fine",
			mutate: func(c *Config) {
				c.Transport.Kind = "serial"
				c.Transport.Port = ""
			},
		},
		{
			name: "tcp with host is fine",
			mutate: func(c *Config) {
				c.Transport.Kind = "tcp"
				c.Transport.Host = "meshtastic.local"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidate_Timeouts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeouts.Telemetry = 0
	require.Error(t, Validate(cfg))

	cfg = DefaultConfig()
	cfg.Timeouts.Nodes = -time.Second
	require.Error(t, Validate(cfg))

	cfg = DefaultConfig()
	cfg.Interval = 0
	require.Error(t, Validate(cfg))

	cfg = DefaultConfig()
	cfg.Retry = 0
	require.Error(t, Validate(cfg))
}

func TestValidate_Lock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lock.Timeout = 0
	require.Error(t, Validate(cfg))

	// Disabled locks skip lock validation
	cfg.Lock.Enabled = false
	require.NoError(t, Validate(cfg))
}

func TestValidate_Paths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Paths.TelemetryLog = ""
	require.Error(t, Validate(cfg))

	cfg = DefaultConfig()
	cfg.Paths.Registry = ""
	require.Error(t, Validate(cfg))
}

// Invalid node ids in the configured set are not a config error: the
// orchestrator records a rejection per bad id and keeps going.
func TestValidate_DoesNotRejectBadNodeIDs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Nodes = []string{"not-a-node"}
	require.NoError(t, Validate(cfg))
}
