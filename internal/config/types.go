package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .meshwatch.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Nodes is the ordered set of node ids polled each cycle.
	// Order matters on exclusive transports: requests are issued in this order.
	Nodes []string `yaml:"nodes" mapstructure:"nodes"`

	Transport TransportConfig `yaml:"transport" mapstructure:"transport"`
	Timeouts  TimeoutConfig   `yaml:"timeouts" mapstructure:"timeouts"`
	Paths     PathConfig      `yaml:"paths" mapstructure:"paths"`
	Lock      LockConfig      `yaml:"lock" mapstructure:"lock"`

	// Interval between collection cycles in continuous mode.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// Retry is how long continuous mode waits after a failed cycle
	// before trying again, instead of sleeping the full interval.
	Retry time.Duration `yaml:"retry" mapstructure:"retry"`
}

// TransportConfig selects and parameterizes the channel used to reach nodes.
type TransportConfig struct {
	// Kind is one of "serial", "ble", or "tcp".
	// Serial and BLE are exclusive physical channels, so telemetry requests
	// run one at a time. TCP supports independent sessions and runs them
	// concurrently.
	Kind string `yaml:"kind" mapstructure:"kind"`

	// Port is the serial device path (serial kind), e.g. /dev/ttyUSB0.
	Port string `yaml:"port" mapstructure:"port"`

	// Host is the device address for the tcp kind, e.g. 192.168.1.42.
	Host string `yaml:"host" mapstructure:"host"`

	// BLEAddress is the device address for the ble kind.
	BLEAddress string `yaml:"ble_address" mapstructure:"ble_address"`

	// Binary is the device CLI executable name. Defaults to "meshtastic".
	Binary string `yaml:"binary" mapstructure:"binary"`
}

// TimeoutConfig bounds individual device requests.
type TimeoutConfig struct {
	// Telemetry bounds one telemetry request to one node.
	Telemetry time.Duration `yaml:"telemetry" mapstructure:"telemetry"`

	// Nodes bounds a node-listing request.
	Nodes time.Duration `yaml:"nodes" mapstructure:"nodes"`
}

// PathConfig locates the durable files. Relative paths resolve against the
// directory containing the config file.
type PathConfig struct {
	// TelemetryLog is the append-only telemetry CSV.
	TelemetryLog string `yaml:"telemetry_log" mapstructure:"telemetry_log"`

	// Registry is the deduplicated node registry CSV (whole-file replace).
	Registry string `yaml:"registry" mapstructure:"registry"`

	// Diagnostics is the rotating log of raw failed responses.
	Diagnostics string `yaml:"diagnostics" mapstructure:"diagnostics"`
}

// LockConfig controls the collection lock that keeps two orchestrator
// processes from interleaving writes to the log and registry.
type LockConfig struct {
	// Enabled toggles locking on/off.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Dir is where the lock directory is created.
	Dir string `yaml:"dir" mapstructure:"dir"`

	// Timeout is how long to wait for a held lock before giving up.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Stale is the age after which a lock is considered abandoned.
	Stale time.Duration `yaml:"stale" mapstructure:"stale"`
}

// DefaultConfig returns a Config populated with defaults matching the
// shipped .meshwatch.yaml template.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Transport: TransportConfig{
			Kind:   "serial",
			Binary: "meshtastic",
		},
		Timeouts: TimeoutConfig{
			Telemetry: 2 * time.Minute,
			Nodes:     time.Minute,
		},
		Paths: PathConfig{
			TelemetryLog: "telemetry_log.csv",
			Registry:     "nodes_log.csv",
			Diagnostics:  "meshwatch.log",
		},
		Lock: LockConfig{
			Enabled: true,
			Dir:     "/tmp",
			Timeout: 5 * time.Minute,
			Stale:   30 * time.Minute,
		},
		Interval: 5 * time.Minute,
		Retry:    time.Minute,
	}
}
