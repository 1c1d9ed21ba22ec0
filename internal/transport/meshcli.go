package transport

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/meshwatch/meshwatch/internal/config"
	mwerrors "github.com/meshwatch/meshwatch/internal/errors"
)

// CLITransport reaches nodes by shelling out to the device CLI
// (the meshtastic python tool). One subprocess per request, bounded by the
// caller's context. The CLI itself multiplexes serial, BLE, and TCP device
// connections, so the connection flags come from the transport config.
type CLITransport struct {
	binary    string
	connArgs  []string
	exclusive bool
}

// NewCLITransport builds a transport from the config's transport section.
// The config is assumed validated; unknown kinds degrade to an exclusive
// serial-style channel.
func NewCLITransport(tc config.TransportConfig) *CLITransport {
	t := &CLITransport{
		binary:    tc.Binary,
		exclusive: true,
	}
	if t.binary == "" {
		t.binary = "meshtastic"
	}

	switch tc.Kind {
	case "tcp":
		t.connArgs = []string{"--host", tc.Host}
		// TCP device connections support independent sessions, so
		// telemetry requests may run concurrently.
		t.exclusive = false
	case "ble":
		t.connArgs = []string{"--ble", tc.BLEAddress}
	default: // serial
		if tc.Port != "" {
			t.connArgs = []string{"--port", tc.Port}
		}
	}

	return t
}

// RequestTelemetry runs `<binary> <conn flags> --request-telemetry --dest <id>`.
func (t *CLITransport) RequestTelemetry(ctx context.Context, nodeID string) (string, error) {
	args := append(append([]string{}, t.connArgs...), "--request-telemetry", "--dest", nodeID)
	return t.run(ctx, args)
}

// ListNodes runs `<binary> <conn flags> --nodes`.
func (t *CLITransport) ListNodes(ctx context.Context) (string, error) {
	args := append(append([]string{}, t.connArgs...), "--nodes")
	return t.run(ctx, args)
}

// Exclusive reports whether requests must be serialized.
func (t *CLITransport) Exclusive() bool {
	return t.exclusive
}

// run executes the device CLI and returns its combined output.
// The CLI writes some diagnostics to stderr, so both streams matter for
// response classification.
func (t *CLITransport) run(ctx context.Context, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, t.binary, args...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	output := out.String()

	if ctx.Err() == context.DeadlineExceeded {
		return output, ErrTimeout
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The CLI exited non-zero but produced output; let the
			// caller classify the response text.
			return output, nil
		}
		return output, mwerrors.WrapWithCode(err, mwerrors.ErrTransport,
			"Couldn't run the device CLI",
			"Check that '"+t.binary+"' is installed and on PATH")
	}

	return output, nil
}
