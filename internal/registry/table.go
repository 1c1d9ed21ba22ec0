package registry

import (
	"strings"

	"github.com/meshwatch/meshwatch/internal/logger"
)

// tableSeparator is the box-drawing column separator the device CLI uses
// in its node table output.
const tableSeparator = "│"

// ParseNodeTable scrapes the device CLI's tabular node listing into
// entries. The table looks like:
//
//	╒═══╤══════════╤═══════════╤ ...
//	│ N │ User     │ ID        │ AKA │ Hardware │ ... │ LastHeard │ Since │
//	╞═══╪══════════╪═══════════╪ ...
//	│ 1 │ Basecamp │ !9eed0410 │ BC  │ TBEAM    │ ... │ 2025-06-01 11:58:02 │ ... │
//
// Rows that don't decompose into the expected column count are skipped
// with a warning rather than failing the cycle; a table with zero data
// rows is not an error. The leading row-number column is dropped.
func ParseNodeTable(text string, log logger.Logger) []Entry {
	var entries []Entry

	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, tableSeparator) {
			continue
		}
		// Header and horizontal rules
		if strings.Contains(line, "User") || strings.ContainsAny(line, "─═╒╞╘") {
			continue
		}

		parts := strings.Split(line, tableSeparator)
		// A well-formed row splits into leading empty, N, 17 data cells,
		// and a trailing empty.
		if len(parts) != len(Columns)+3 {
			log.Warn("skipping node table row with %d cells (want %d): %.60s",
				len(parts)-2, len(Columns)+1, strings.TrimSpace(line))
			continue
		}

		cells := make([]string, 0, len(Columns))
		for _, p := range parts[2 : len(parts)-1] {
			cells = append(cells, strings.TrimSpace(p))
		}

		entry := entryFromRow(cells)
		if entry.ID == "" {
			log.Warn("skipping node table row without an id")
			continue
		}
		entries = append(entries, entry)
	}

	return entries
}
