package registry

import "sort"

// Merge reconciles freshly scraped rows against the existing registry and
// returns the deduplicated result: at most one entry per node id, keeping
// the row heard from most recently. Entries are processed existing-first,
// so a fresh row only displaces a stored one by strictly greater
// last-heard time.
//
// An empty or unparsable last-heard never wins a comparison but is still
// retained when it is the only entry for its id. Zero fresh rows return
// the existing registry unchanged.
//
// The result is sorted most-recently-heard first; entries without a
// comparable last-heard sink to the bottom.
func Merge(existing, fresh []Entry) []Entry {
	byID := make(map[string]Entry, len(existing)+len(fresh))
	order := make([]string, 0, len(existing)+len(fresh))

	consider := func(e Entry) {
		if e.ID == "" {
			return
		}
		stored, ok := byID[e.ID]
		if !ok {
			byID[e.ID] = e
			order = append(order, e.ID)
			return
		}
		if heardAfter(e, stored) {
			byID[e.ID] = e
		}
	}

	for _, e := range existing {
		consider(e)
	}
	for _, e := range fresh {
		consider(e)
	}

	merged := make([]Entry, 0, len(byID))
	for _, id := range order {
		merged = append(merged, byID[id])
	}

	sort.SliceStable(merged, func(i, j int) bool {
		ti, iok := parseLastHeard(merged[i].LastHeard)
		tj, jok := parseLastHeard(merged[j].LastHeard)
		if iok != jok {
			return iok // comparable timestamps before unparsable ones
		}
		if !iok {
			return false
		}
		return ti.After(tj)
	})

	return merged
}

// heardAfter reports whether a was heard strictly later than b.
// An unparsable last-heard is older than any comparable value.
func heardAfter(a, b Entry) bool {
	ta, aok := parseLastHeard(a.LastHeard)
	tb, bok := parseLastHeard(b.LastHeard)

	switch {
	case aok && bok:
		return ta.After(tb)
	case aok:
		return true
	default:
		return false
	}
}
