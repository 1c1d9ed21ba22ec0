package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/meshwatch/meshwatch/internal/config"
	"github.com/meshwatch/meshwatch/internal/logger"
	"github.com/meshwatch/meshwatch/internal/transport"
)

// Sink receives records as they complete. The telemetry Log is the
// production sink; tests substitute their own.
type Sink interface {
	Append(Record) error
}

// Collector orchestrates one telemetry batch over the configured node set.
// Scheduling follows the transport's capability: exclusive channels poll
// strictly one node at a time in configured order, sharable channels poll
// all nodes concurrently.
type Collector struct {
	transport transport.Transport
	timeout   time.Duration
	log       logger.Logger
	diag      logger.Logger
	now       func() time.Time
}

// Option configures a Collector.
type Option func(*Collector)

// WithTimeout sets the per-node request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Collector) { c.timeout = d }
}

// WithLogger sets the operational logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Collector) { c.log = l }
}

// WithDiagnostics sets the sink for raw failed responses and rejected ids.
func WithDiagnostics(l logger.Logger) Option {
	return func(c *Collector) { c.diag = l }
}

// WithClock injects the batch timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) { c.now = now }
}

// NewCollector creates a collector polling over the given transport.
func NewCollector(tr transport.Transport, opts ...Option) *Collector {
	c := &Collector{
		transport: tr,
		timeout:   2 * time.Minute,
		log:       logger.Default(),
		diag:      logger.Noop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect polls every configured node id exactly once and returns one
// record per id. Records are handed to sink as each attempt resolves; a
// sink failure is the only error that aborts the batch, since it means the
// durable log itself is unavailable.
//
// The batch timestamp is captured once and shared by all records, so every
// record from one cycle groups together regardless of when its request
// resolved.
func (c *Collector) Collect(ctx context.Context, nodeIDs []string, sink Sink) ([]Record, error) {
	batchTime := c.now()

	if c.transport.Exclusive() {
		return c.collectSequential(ctx, nodeIDs, batchTime, sink)
	}
	return c.collectConcurrent(ctx, nodeIDs, batchTime, sink)
}

// collectSequential issues requests in configured order, each fully
// resolved before the next begins. Required for exclusive physical
// channels like a single serial port.
func (c *Collector) collectSequential(ctx context.Context, nodeIDs []string, batchTime time.Time, sink Sink) ([]Record, error) {
	records := make([]Record, 0, len(nodeIDs))

	for _, id := range nodeIDs {
		rec := c.pollOne(ctx, id, batchTime)
		records = append(records, rec)

		if sink != nil {
			if err := sink.Append(rec); err != nil {
				return records, err
			}
		}
	}

	return records, nil
}

// collectConcurrent issues all requests without waiting and returns once
// every outstanding request has resolved. Output order is completion
// order, not input order.
func (c *Collector) collectConcurrent(ctx context.Context, nodeIDs []string, batchTime time.Time, sink Sink) ([]Record, error) {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		records = make([]Record, 0, len(nodeIDs))
		sinkErr error
	)

	for _, id := range nodeIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()

			rec := c.pollOne(ctx, id, batchTime)

			mu.Lock()
			defer mu.Unlock()
			records = append(records, rec)
			if sink != nil && sinkErr == nil {
				sinkErr = sink.Append(rec)
			}
		}(id)
	}

	wg.Wait()
	return records, sinkErr
}

// pollOne resolves a single node attempt: reject syntactically invalid ids
// before any transport call, otherwise issue one bounded request and
// classify the result. A timeout or bad response never aborts the batch.
func (c *Collector) pollOne(ctx context.Context, nodeID string, batchTime time.Time) Record {
	if !config.ValidNodeID(nodeID) {
		c.diag.Error("rejected node id %q: not a radio address", nodeID)
		c.log.Warn("skipping invalid node id %q", nodeID)
		return Record{Timestamp: batchTime, NodeID: nodeID, Status: StatusError}
	}

	c.log.Debug("requesting telemetry for %s", nodeID)

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	output, err := c.transport.RequestTelemetry(reqCtx, nodeID)
	rec := BuildRecord(batchTime, nodeID, output, err)

	switch rec.Status {
	case StatusSuccess:
		c.log.Debug("telemetry received from %s", nodeID)
	case StatusTimeout:
		c.log.Warn("telemetry timed out for %s", nodeID)
	case StatusError:
		// Preserve the raw response so the operator can see what the
		// device actually said.
		c.diag.Error("node %s: unexpected response: %s", nodeID, output)
		c.log.Warn("telemetry failed for %s", nodeID)
	default:
		c.log.Warn("no response and no timeout for %s", nodeID)
	}

	return rec
}
