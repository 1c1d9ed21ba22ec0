package ui

// Unicode symbols for per-node collection outcomes.
const (
	SymbolSuccess = "✓" // Telemetry received
	SymbolFail    = "✗" // Collection failed
	SymbolTimeout = "◌" // Node did not answer in time
	SymbolPending = "○" // Not yet polled
)
