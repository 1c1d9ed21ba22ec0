package telemetry

import (
	"encoding/csv"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/meshwatch/meshwatch/internal/errors"
)

// Columns is the telemetry log header row.
var Columns = []string{
	"timestamp", "node_id", "status",
	"battery", "voltage", "channel_util", "tx_util", "uptime",
}

// Log is the append-only telemetry CSV. One row per attempt; rows are never
// rewritten, so the file is the durable source of truth for all derived
// state.
type Log struct {
	path string
	mu   sync.Mutex
}

// OpenLog returns a Log backed by the CSV at path. The file is created
// lazily on first append.
func OpenLog(path string) *Log {
	return &Log{path: path}
}

// Path returns the backing file path.
func (l *Log) Path() string {
	return l.path
}

// Append writes one record, creating the file with its header row first if
// needed. Safe for concurrent use within one process; cross-process
// exclusion is the collection lock's job.
func (l *Log) Append(rec Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStore,
			"Cannot open telemetry log "+l.path,
			"Check the directory exists and is writable")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStore,
			"Cannot stat telemetry log "+l.path, "")
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(Columns); err != nil {
			return errors.WrapWithCode(err, errors.ErrStore,
				"Cannot write telemetry log header", "")
		}
	}

	if err := w.Write(recordRow(rec)); err != nil {
		return errors.WrapWithCode(err, errors.ErrStore,
			"Cannot append to telemetry log "+l.path,
			"Check disk space")
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return errors.WrapWithCode(err, errors.ErrStore,
			"Cannot append to telemetry log "+l.path,
			"Check disk space")
	}

	return nil
}

// Read loads every record in the log, skipping the header and any rows too
// malformed to carry a node id. A missing file is an empty log, not an
// error.
func (l *Log) Read() ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapWithCode(err, errors.ErrStore,
			"Cannot read telemetry log "+l.path,
			"Check file permissions")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate short rows from older versions

	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrParse,
			"Telemetry log is not valid CSV: "+l.path,
			"The log may be corrupted; move it aside and re-collect")
	}

	var records []Record
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == Columns[0] {
			continue // header
		}
		if len(row) < 3 || row[1] == "" {
			continue
		}

		rec := Record{
			NodeID: row[1],
			Status: Status(row[2]),
		}
		if ts, err := time.Parse(time.RFC3339, row[0]); err == nil {
			rec.Timestamp = ts
		}
		if len(row) > 3 {
			rec.Battery = parseOptional(row[3])
		}
		if len(row) > 4 {
			rec.Voltage = parseOptional(row[4])
		}
		if len(row) > 5 {
			rec.ChannelUtil = parseOptional(row[5])
		}
		if len(row) > 6 {
			rec.TxUtil = parseOptional(row[6])
		}
		if len(row) > 7 {
			rec.Uptime = parseOptional(row[7])
		}

		records = append(records, rec)
	}

	return records, nil
}

// recordRow serializes a record. Nil metrics become empty cells, never
// zeros: zero is a real observed value.
func recordRow(rec Record) []string {
	return []string{
		rec.Timestamp.Format(time.RFC3339),
		rec.NodeID,
		string(rec.Status),
		formatOptional(rec.Battery),
		formatOptional(rec.Voltage),
		formatOptional(rec.ChannelUtil),
		formatOptional(rec.TxUtil),
		formatOptional(rec.Uptime),
	}
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// parseOptional treats empty and sentinel cells as "not reported".
func parseOptional(s string) *float64 {
	if s == "" || s == "N/A" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
