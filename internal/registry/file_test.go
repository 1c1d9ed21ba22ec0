package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mwerrors "github.com/meshwatch/meshwatch/internal/errors"
)

func TestWriteReadRegistry_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes_log.csv")
	entries := []Entry{
		{ID: "!9eed0410", User: "Basecamp", Hardware: "TBEAM", Battery: "85%", LastHeard: "2025-06-01 11:58:02"},
		{ID: "!33fa44b1", User: "Ridge, North", Hardware: "HELTEC", LastHeard: "2025-06-01 11:40:11"},
	}

	require.NoError(t, WriteRegistry(path, entries))

	got, err := ReadRegistry(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Basecamp", got[0].User)
	// Commas inside cells must survive the CSV round trip.
	assert.Equal(t, "Ridge, North", got[1].User)
}

func TestWriteRegistry_ReplacesWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes_log.csv")

	require.NoError(t, WriteRegistry(path, []Entry{
		{ID: "!9eed0410", User: "A"},
		{ID: "!33fa44b1", User: "B"},
	}))
	require.NoError(t, WriteRegistry(path, []Entry{
		{ID: "!9eed0410", User: "A"},
	}))

	got, err := ReadRegistry(path)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2) // header + one row
	assert.Equal(t, strings.Join(Columns, ","), lines[0])
}

func TestReadRegistry_MissingFile(t *testing.T) {
	got, err := ReadRegistry(filepath.Join(t.TempDir(), "absent.csv"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReadRegistry_CorruptFileIsParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes_log.csv")
	require.NoError(t, os.WriteFile(path, []byte("user,\"id\"aka\n"), 0644))

	_, err := ReadRegistry(path)
	require.Error(t, err)
	assert.True(t, mwerrors.IsCode(err, mwerrors.ErrParse))
}

func TestReadRegistry_SkipsMalformedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes_log.csv")
	content := strings.Join(Columns, ",") + "\n" +
		"Basecamp,!9eed0410,BC,TBEAM,abc=,CLIENT,N/A,N/A,N/A,85%,3.1%,0.5%,6.25,0,0,2025-06-01 11:58:02,2 mins\n" +
		"short,row\n" +
		",,BC,TBEAM,abc=,CLIENT,N/A,N/A,N/A,85%,3.1%,0.5%,6.25,0,0,2025-06-01 11:58:02,2 mins\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	got, err := ReadRegistry(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "!9eed0410", got[0].ID)
}
