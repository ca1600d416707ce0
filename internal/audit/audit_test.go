package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.log")
	l, err := NewLogger(path)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l, path
}

func readEntries(t *testing.T, path string) []Entry {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		entries = append(entries, e)
	}
	require.NoError(t, scanner.Err())
	return entries
}

func TestLogAppendsNDJSON(t *testing.T) {
	l, path := newTestLogger(t)

	require.NoError(t, l.Log(Entry{Action: ActionWrite, Key: "api-token", Namespace: "ns"}))
	require.NoError(t, l.Log(Entry{Action: ActionDelete, Key: "api-token", Namespace: "ns", Status: -25300}))

	entries := readEntries(t, path)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionWrite, entries[0].Action)
	assert.Equal(t, "api-token", entries[0].Key)
	assert.Equal(t, int32(-25300), entries[1].Status)
}

func TestLogFillsIDAndTimestamp(t *testing.T) {
	l, path := newTestLogger(t)

	require.NoError(t, l.Log(Entry{Action: ActionRead, Key: "k"}))
	require.NoError(t, l.Log(Entry{Action: ActionRead, Key: "k"}))

	entries := readEntries(t, path)
	require.Len(t, entries, 2)
	assert.NotEmpty(t, entries[0].ID)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestLogReopensForAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	l, err := NewLogger(path)
	require.NoError(t, err)
	require.NoError(t, l.Log(Entry{Action: ActionWrite, Key: "a"}))
	require.NoError(t, l.Close())

	l, err = NewLogger(path)
	require.NoError(t, err)
	require.NoError(t, l.Log(Entry{Action: ActionWrite, Key: "b"}))
	require.NoError(t, l.Close())

	assert.Len(t, readEntries(t, path), 2)
}
