// Package registry maintains the deduplicated, latest-known metadata
// snapshot for every node the mesh has ever reported. The on-disk CSV is
// the single persisted copy; the in-memory name cache is a read
// optimization over it.
package registry

import "time"

// Columns is the registry CSV header row.
var Columns = []string{
	"user", "id", "aka", "hardware", "pubkey", "role",
	"latitude", "longitude", "altitude",
	"battery", "channel_util", "tx_air_util", "snr", "hops",
	"channel", "last_heard", "since",
}

// Entry is one registry row: the latest-known metadata for a node id.
// Fields are kept as the device CLI reported them; the registry is a
// snapshot store, not an interpreter. "N/A" marks an unreported field.
type Entry struct {
	User        string
	ID          string
	AKA         string
	Hardware    string
	Pubkey      string
	Role        string
	Latitude    string
	Longitude   string
	Altitude    string
	Battery     string
	ChannelUtil string
	TxAirUtil   string
	SNR         string
	Hops        string
	Channel     string
	LastHeard   string
	Since       string
}

// row serializes the entry in column order.
func (e Entry) row() []string {
	return []string{
		e.User, e.ID, e.AKA, e.Hardware, e.Pubkey, e.Role,
		e.Latitude, e.Longitude, e.Altitude,
		e.Battery, e.ChannelUtil, e.TxAirUtil, e.SNR, e.Hops,
		e.Channel, e.LastHeard, e.Since,
	}
}

// entryFromRow builds an Entry from a CSV row in column order.
func entryFromRow(row []string) Entry {
	get := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return Entry{
		User: get(0), ID: get(1), AKA: get(2), Hardware: get(3),
		Pubkey: get(4), Role: get(5),
		Latitude: get(6), Longitude: get(7), Altitude: get(8),
		Battery: get(9), ChannelUtil: get(10), TxAirUtil: get(11),
		SNR: get(12), Hops: get(13), Channel: get(14),
		LastHeard: get(15), Since: get(16),
	}
}

// lastHeardLayouts are the timestamp shapes different device CLI versions
// emit for the LastHeard and Since columns.
var lastHeardLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseLastHeard parses a last-heard cell into a comparable time.
// Comparing parsed times instead of raw strings keeps the merge correct
// even when producers disagree about timezone suffixes or separators.
func parseLastHeard(s string) (time.Time, bool) {
	for _, layout := range lastHeardLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
