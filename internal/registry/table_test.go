package registry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshwatch/meshwatch/internal/logger"
)

const sampleNodeTable = `Connected to radio
╒═══╤══════════╤═══════════╤═════╤══════════╤════════╤══════╤══════════╤═══════════╤══════════╤═════════╤══════════════╤═════════════╤══════╤══════╤═════════╤═════════════════════╤═════════╕
│ N │ User     │ ID        │ AKA │ Hardware │ Pubkey │ Role │ Latitude │ Longitude │ Altitude │ Battery │ Channel util │ Tx air util │ SNR  │ Hops │ Channel │ LastHeard           │ Since   │
╞═══╪══════════╪═══════════╪═════╪══════════╪════════╪══════╪══════════╪═══════════╪══════════╪═════════╪══════════════╪═════════════╪══════╪══════╪═════════╪═════════════════════╪═════════╡
│ 1 │ Basecamp │ !9eed0410 │ BC  │ TBEAM    │ abc=   │ CLIENT │ N/A │ N/A │ N/A │ 85%  │ 3.1%  │ 0.5% │ 6.25 │ 0    │ 0 │ 2025-06-01 11:58:02 │ 2 mins  │
│ 2 │ Ridge    │ !33fa44b1 │ RG  │ HELTEC   │ def=   │ ROUTER │ N/A │ N/A │ N/A │ 100% │ 2.0%  │ 0.2% │ -3.5 │ 1    │ 0 │ 2025-06-01 11:40:11 │ 20 mins │
╘═══╧══════════╧═══════════╧═════╧══════════╧════════╧══════╧══════════╧═══════════╧══════════╧═════════╧══════════════╧═════════════╧══════╧══════╧═════════╧═════════════════════╧═════════╛
`

func TestParseNodeTable(t *testing.T) {
	entries := ParseNodeTable(sampleNodeTable, logger.Noop())
	require.Len(t, entries, 2)

	assert.Equal(t, "Basecamp", entries[0].User)
	assert.Equal(t, "!9eed0410", entries[0].ID)
	assert.Equal(t, "TBEAM", entries[0].Hardware)
	assert.Equal(t, "85%", entries[0].Battery)
	assert.Equal(t, "2025-06-01 11:58:02", entries[0].LastHeard)
	assert.Equal(t, "2 mins", entries[0].Since)

	assert.Equal(t, "!33fa44b1", entries[1].ID)
	assert.Equal(t, "ROUTER", entries[1].Role)
}

func TestParseNodeTable_SkipsMalformedRows(t *testing.T) {
	// A truncated row should be skipped with a warning, not kill the parse.
	malformed := strings.Replace(sampleNodeTable,
		"│ 2 │ Ridge    │ !33fa44b1 │ RG  │ HELTEC   │ def=   │ ROUTER │ N/A │ N/A │ N/A │ 100% │ 2.0%  │ 0.2% │ -3.5 │ 1    │ 0 │ 2025-06-01 11:40:11 │ 20 mins │",
		"│ 2 │ Ridge │ !33fa44b1 │", 1)

	buf := logger.NewBufferLogger()
	entries := ParseNodeTable(malformed, buf)

	require.Len(t, entries, 1)
	assert.Equal(t, "!9eed0410", entries[0].ID)
	assert.True(t, buf.HasLevel("warn"))
}

func TestParseNodeTable_EmptyOutput(t *testing.T) {
	assert.Empty(t, ParseNodeTable("", logger.Noop()))
	assert.Empty(t, ParseNodeTable("Connected to radio\nNo nodes.\n", logger.Noop()))
}

func TestParseNodeTable_HeaderOnly(t *testing.T) {
	headerOnly := strings.Join(strings.Split(sampleNodeTable, "\n")[:4], "\n")
	assert.Empty(t, ParseNodeTable(headerOnly, logger.Noop()))
}
