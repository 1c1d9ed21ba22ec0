// Package transport abstracts the communication channel used to reach
// mesh nodes. Implementations issue one synchronous request per call,
// bounded by the caller's context deadline.
package transport

import "context"

// ErrTimeout is returned when a device request exceeds its deadline.
// Callers classify it as a timeout outcome rather than a hard failure.
type timeoutError struct{}

func (timeoutError) Error() string { return "device request timed out" }
func (timeoutError) Timeout() bool { return true }

// ErrTimeout is the sentinel timeout signal for device requests.
var ErrTimeout error = timeoutError{}

// Transport reaches mesh nodes over one communication channel.
type Transport interface {
	// RequestTelemetry asks one node for a telemetry snapshot and returns
	// the device CLI's raw text output. The context deadline bounds the
	// whole request; expiry surfaces as ErrTimeout.
	RequestTelemetry(ctx context.Context, nodeID string) (string, error)

	// ListNodes asks the local device for its node table and returns the
	// raw tabular text output.
	ListNodes(ctx context.Context) (string, error)

	// Exclusive reports whether the channel admits at most one outstanding
	// request. Serial and BLE links are exclusive; network transports
	// support independent simultaneous sessions.
	Exclusive() bool
}
