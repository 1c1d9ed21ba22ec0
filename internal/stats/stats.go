// Package stats derives per-node reliability and battery summaries from
// the telemetry log. It is a pure fold over records: no IO, no clock.
package stats

import (
	"sort"
	"time"

	"github.com/meshwatch/meshwatch/internal/telemetry"
)

// NodeStats summarizes the collection history for one node.
type NodeStats struct {
	NodeID        string
	TotalAttempts int
	SuccessCount  int
	FailureCount  int
	// SuccessRate is a percentage in [0, 100]. Zero attempts yield zero.
	SuccessRate float64

	LastAttempt time.Time
	LastSuccess time.Time

	// Battery and voltage track successful reports only. Current is the
	// value from the most recent success; Min and Max span all successes
	// that reported a battery level. Nil means no success ever reported
	// the metric.
	CurrentBattery *float64
	CurrentVoltage *float64
	MinBattery     *float64
	MaxBattery     *float64
}

// Aggregate folds telemetry records into per-node statistics in a single
// pass. Records are assumed log-ordered (oldest first), which is how the
// telemetry log reads them back.
func Aggregate(records []telemetry.Record) map[string]NodeStats {
	stats := make(map[string]NodeStats)

	for _, r := range records {
		if r.NodeID == "" {
			continue
		}
		s := stats[r.NodeID]
		s.NodeID = r.NodeID
		s.TotalAttempts++
		if r.Timestamp.After(s.LastAttempt) {
			s.LastAttempt = r.Timestamp
		}

		if r.Status == telemetry.StatusSuccess {
			s.SuccessCount++
			if r.Timestamp.After(s.LastSuccess) {
				s.LastSuccess = r.Timestamp
			}
			if r.Battery != nil {
				s.CurrentBattery = r.Battery
				if s.MinBattery == nil || *r.Battery < *s.MinBattery {
					s.MinBattery = r.Battery
				}
				if s.MaxBattery == nil || *r.Battery > *s.MaxBattery {
					s.MaxBattery = r.Battery
				}
			}
			if r.Voltage != nil {
				s.CurrentVoltage = r.Voltage
			}
		} else {
			s.FailureCount++
		}

		s.SuccessRate = float64(s.SuccessCount) / float64(s.TotalAttempts) * 100
		stats[r.NodeID] = s
	}

	return stats
}

// SortedIDs returns the node ids present in stats ordered by success rate
// descending, ties broken by id, so the healthiest nodes list first.
func SortedIDs(stats map[string]NodeStats) []string {
	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := stats[ids[i]], stats[ids[j]]
		if a.SuccessRate != b.SuccessRate {
			return a.SuccessRate > b.SuccessRate
		}
		return ids[i] < ids[j]
	})
	return ids
}
