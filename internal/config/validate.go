package config

import (
	"fmt"

	"github.com/meshwatch/meshwatch/internal/errors"
)

// ValidNodeID reports whether id has the radio address shape the mesh uses:
// a '!' followed by exactly eight hex digits, e.g. "!9eed0410".
func ValidNodeID(id string) bool {
	if len(id) != 9 || id[0] != '!' {
		return false
	}
	for _, c := range id[1:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but meshwatch only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Update meshwatch, or set version to a supported value")
	}

	if err := validateTransport(cfg.Transport); err != nil {
		return err
	}

	if cfg.Timeouts.Telemetry <= 0 {
		return errors.New(errors.ErrConfig,
			"timeouts.telemetry must be positive",
			"Use a duration like 2m or 90s")
	}
	if cfg.Timeouts.Nodes <= 0 {
		return errors.New(errors.ErrConfig,
			"timeouts.nodes must be positive",
			"Use a duration like 1m or 30s")
	}
	if cfg.Interval <= 0 {
		return errors.New(errors.ErrConfig,
			"interval must be positive",
			"Use a duration like 5m")
	}
	if cfg.Retry <= 0 {
		return errors.New(errors.ErrConfig,
			"retry must be positive",
			"Use a duration like 1m")
	}

	if cfg.Lock.Enabled {
		if cfg.Lock.Timeout <= 0 {
			return errors.New(errors.ErrConfig,
				"lock.timeout must be positive when locking is enabled",
				"Use a duration like 5m, or disable the lock")
		}
		if cfg.Lock.Stale <= 0 {
			return errors.New(errors.ErrConfig,
				"lock.stale must be positive when locking is enabled",
				"Use a duration like 30m, or disable the lock")
		}
	}

	if cfg.Paths.TelemetryLog == "" {
		return errors.New(errors.ErrConfig,
			"paths.telemetry_log must not be empty",
			"Point it at the telemetry CSV, e.g. telemetry_log.csv")
	}
	if cfg.Paths.Registry == "" {
		return errors.New(errors.ErrConfig,
			"paths.registry must not be empty",
			"Point it at the node registry CSV, e.g. nodes_log.csv")
	}

	return nil
}

// validateTransport checks that the transport section names a usable channel.
// Node ids are deliberately not validated here: a misconfigured id must not
// block the rest of the batch, so the orchestrator rejects them per-node.
func validateTransport(tc TransportConfig) error {
	switch tc.Kind {
	case "serial":
		// An empty port lets the device CLI autodetect, which is fine.
	case "tcp":
		if tc.Host == "" {
			return errors.New(errors.ErrConfig,
				"transport.host is required for the tcp transport",
				"Set it to the device's network address")
		}
	case "ble":
		if tc.BLEAddress == "" {
			return errors.New(errors.ErrConfig,
				"transport.ble_address is required for the ble transport",
				"Set it to the device's BLE address")
		}
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown transport kind '%s'", tc.Kind),
			"Supported kinds: serial, ble, tcp")
	}

	if tc.Binary == "" {
		return errors.New(errors.ErrConfig,
			"transport.binary must not be empty",
			"Leave it unset to default to 'meshtastic'")
	}

	return nil
}
