package telemetry

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/meshwatch/meshwatch/internal/transport"
)

// receivedMarker is the line the device CLI prints before the metric lines
// of a successful telemetry response.
const receivedMarker = "Telemetry received"

// fieldRules maps response line markers to record fields. The rules are
// applied in a single pass over the response; each is independently
// optional, so a firmware that omits a metric just leaves that field nil.
//
// "Total channel utilization" must be matched before plain prefix checks
// could confuse it with another metric, so rules match on a contains basis
// against the part left of the colon.
var fieldRules = []struct {
	marker string
	assign func(*Record, float64)
}{
	{"Battery level", func(r *Record, v float64) { r.Battery = &v }},
	{"Voltage", func(r *Record, v float64) { r.Voltage = &v }},
	{"Total channel utilization", func(r *Record, v float64) { r.ChannelUtil = &v }},
	{"Transmit air utilization", func(r *Record, v float64) { r.TxUtil = &v }},
	{"Uptime", func(r *Record, v float64) { r.Uptime = &v }},
}

// BuildRecord classifies a transport result into exactly one status and,
// on success, extracts the reported metrics. The raw response text is not
// stored in the record; callers preserve it separately for diagnostics.
func BuildRecord(ts time.Time, nodeID, output string, err error) Record {
	rec := Record{
		Timestamp: ts,
		NodeID:    nodeID,
		Status:    StatusUnknown,
	}

	switch {
	case errors.Is(err, transport.ErrTimeout),
		strings.Contains(strings.ToLower(output), "timed out"):
		rec.Status = StatusTimeout

	case err != nil:
		rec.Status = StatusError

	case strings.Contains(output, receivedMarker):
		rec.Status = StatusSuccess
		extractFields(&rec, output)

	case strings.TrimSpace(output) != "":
		rec.Status = StatusError
	}

	return rec
}

// extractFields walks the response once, applying each matching rule to its
// line. Lines without a recognized marker or parseable value are ignored.
func extractFields(rec *Record, output string) {
	for _, line := range strings.Split(output, "\n") {
		label, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		for _, rule := range fieldRules {
			if !strings.Contains(label, rule.marker) {
				continue
			}
			if v, ok := parseNumber(rest); ok {
				rule.assign(rec, v)
			}
			break
		}
	}
}

// parseNumber pulls the first numeric token out of a metric value like
// " 85.00%" or " 3.94 V". Returns false when no digits are present.
func parseNumber(s string) (float64, bool) {
	start := -1
	end := len(s)
	for i, c := range s {
		if c >= '0' && c <= '9' || c == '.' || c == '-' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			end = i
			break
		}
	}
	if start < 0 {
		return 0, false
	}

	v, err := strconv.ParseFloat(strings.Trim(s[start:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
