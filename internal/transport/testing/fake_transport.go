// Package testing provides test doubles for the transport package.
package testing

import (
	"context"
	"sync"
	"time"

	"github.com/meshwatch/meshwatch/internal/transport"
)

// TelemetryCall records a call to RequestTelemetry.
type TelemetryCall struct {
	NodeID string
	At     time.Time
}

// FakeTransport simulates a device channel for testing.
// It records calls and returns configured per-node responses.
type FakeTransport struct {
	mu sync.Mutex

	// Configuration
	Responses     map[string]string // nodeID -> response text
	Errors        map[string]error  // nodeID -> error to return
	NodesOutput   string            // response for ListNodes
	NodesErr      error
	Delay         time.Duration // artificial latency per request
	ExclusiveMode bool

	// Call tracking
	Calls       []TelemetryCall
	inFlight    int
	MaxInFlight int
}

// NewFakeTransport creates a fake that answers every request with an empty
// response. Exclusive by default, matching the serial transport.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{
		Responses:     make(map[string]string),
		Errors:        make(map[string]error),
		ExclusiveMode: true,
	}
}

// Respond configures the response text for a node.
func (f *FakeTransport) Respond(nodeID, text string) *FakeTransport {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Responses[nodeID] = text
	return f
}

// Fail configures an error return for a node.
func (f *FakeTransport) Fail(nodeID string, err error) *FakeTransport {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Errors[nodeID] = err
	return f
}

// RequestTelemetry returns the configured response or error for nodeID.
// It tracks the peak number of simultaneous requests so tests can assert
// on scheduling behavior.
func (f *FakeTransport) RequestTelemetry(ctx context.Context, nodeID string) (string, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, TelemetryCall{NodeID: nodeID, At: time.Now()})
	f.inFlight++
	if f.inFlight > f.MaxInFlight {
		f.MaxInFlight = f.inFlight
	}
	delay := f.Delay
	resp := f.Responses[nodeID]
	err := f.Errors[nodeID]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			f.done()
			return "", transport.ErrTimeout
		}
	}

	f.done()
	return resp, err
}

func (f *FakeTransport) done() {
	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
}

// ListNodes returns the configured node table output.
func (f *FakeTransport) ListNodes(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.NodesOutput, f.NodesErr
}

// Exclusive reports the configured channel mode.
func (f *FakeTransport) Exclusive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ExclusiveMode
}

// CalledNodes returns the node ids requested, in call order.
func (f *FakeTransport) CalledNodes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		ids[i] = c.NodeID
	}
	return ids
}
