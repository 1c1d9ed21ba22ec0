package registry

import (
	"encoding/csv"
	"os"

	"github.com/meshwatch/meshwatch/internal/errors"
)

// ReadRegistry loads the node registry CSV at path. A missing file is not
// an error: it returns an empty registry so a first run starts clean.
// Rows that do not have the expected column count are skipped.
func ReadRegistry(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapWithCode(err, errors.ErrStore,
			"Cannot read node registry "+path,
			"Check file permissions")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrParse,
			"Node registry is not valid CSV: "+path,
			"The registry may be corrupted; remove it and re-collect")
	}

	var entries []Entry
	for _, row := range rows {
		if len(row) != len(Columns) {
			continue
		}
		if row[0] == Columns[0] {
			continue // header
		}
		e := entryFromRow(row)
		if e.ID == "" {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteRegistry replaces the registry file at path with the given entries.
// The whole file is rewritten every time: the registry is a snapshot, not
// an append log.
func WriteRegistry(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStore,
			"Cannot write node registry "+path,
			"Check the directory exists and is writable")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		return errors.WrapWithCode(err, errors.ErrStore,
			"Cannot write node registry header", "")
	}
	for _, e := range entries {
		if err := w.Write(e.row()); err != nil {
			return errors.WrapWithCode(err, errors.ErrStore,
				"Cannot write node registry row", "Check disk space")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.WrapWithCode(err, errors.ErrStore,
			"Cannot write node registry "+path,
			"Check disk space")
	}
	return nil
}
