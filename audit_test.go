package coffer

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benaskins/coffer/internal/audit"
)

func TestOperationsAreAudited(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	logger, err := audit.NewLogger(path)
	require.NoError(t, err)
	t.Cleanup(func() { logger.Close() })

	c := testCoffer(WithAudit(logger))

	require.NoError(t, c.Set("api-token", []byte("abc123")))
	_, err = c.Get("api-token")
	require.NoError(t, err)
	require.NoError(t, c.Delete("api-token"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []audit.Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e audit.Entry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		entries = append(entries, e)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, entries, 3)
	assert.Equal(t, audit.ActionWrite, entries[0].Action)
	assert.Equal(t, audit.ActionRead, entries[1].Action)
	assert.Equal(t, audit.ActionDelete, entries[2].Action)
	for _, e := range entries {
		assert.Equal(t, "api-token", e.Key)
		assert.Equal(t, "com.coffer.test", e.Namespace)
		assert.NotContains(t, e.Error, "abc123")
	}
}
