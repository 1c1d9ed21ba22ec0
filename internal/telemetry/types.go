package telemetry

import "time"

// Status classifies the outcome of one telemetry attempt.
type Status string

const (
	// StatusSuccess means the node answered with a recognized telemetry
	// response.
	StatusSuccess Status = "success"

	// StatusTimeout means the request exceeded its deadline, either via the
	// transport's timeout signal or a "timed out" response from the CLI.
	StatusTimeout Status = "timeout"

	// StatusError means the node produced an unexpected response, or the
	// configured id was rejected before any request was sent.
	StatusError Status = "error"

	// StatusUnknown is the defensive default: no response and no timeout.
	// It should not occur in practice.
	StatusUnknown Status = "unknown"
)

// Record is one row of the telemetry log: a single attempt against a single
// node. Records are append-only and never updated once written.
//
// Numeric fields are pointers so "not reported" stays distinct from an
// observed zero. Battery may exceed 100 from device noise; the collection
// layer stores it as-is.
type Record struct {
	Timestamp   time.Time
	NodeID      string
	Status      Status
	Battery     *float64
	Voltage     *float64
	ChannelUtil *float64
	TxUtil      *float64
	Uptime      *float64 // seconds
}

// Failed reports whether the attempt produced anything other than a
// successful telemetry response.
func (r Record) Failed() bool {
	return r.Status != StatusSuccess
}
