package coffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benaskins/coffer/internal/engine"
	"github.com/benaskins/coffer/internal/query"
	"github.com/benaskins/coffer/internal/status"
)

func TestMigratePreservesPayloads(t *testing.T) {
	c := testCoffer()

	require.NoError(t, c.Set("k1", []byte("v1"), WithNamespace("old")))
	require.NoError(t, c.Set("k2", []byte("v2"), WithNamespace("old")))

	require.NoError(t, c.Migrate("old", "new"))

	oldItems, err := c.All(WithNamespace("old"))
	require.NoError(t, err)
	assert.Empty(t, oldItems)

	newItems, err := c.All(WithNamespace("new"))
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"k1": []byte("v1"), "k2": []byte("v2")}, newItems)
}

func TestMigrateSameNamespaceKeepsItems(t *testing.T) {
	c := testCoffer()

	require.NoError(t, c.Set("k1", []byte("v1"), WithNamespace("ns")))

	require.NoError(t, c.Migrate("ns", "ns"))

	items, err := c.All(WithNamespace("ns"))
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"k1": []byte("v1")}, items)
}

func TestMigrateRejectsEmptyNamespaces(t *testing.T) {
	c := testCoffer()

	assert.ErrorIs(t, c.Migrate("", "new"), ErrInvalidParameter)
	assert.ErrorIs(t, c.Migrate("old", ""), ErrInvalidParameter)
}

func TestMigrateEmptyNamespace(t *testing.T) {
	c := testCoffer()

	assert.NoError(t, c.Migrate("old", "new"))
}

func TestMigrateOverwritesDestination(t *testing.T) {
	c := testCoffer()

	require.NoError(t, c.Set("k1", []byte("stale"), WithNamespace("new")))
	require.NoError(t, c.Set("k1", []byte("fresh"), WithNamespace("old")))

	require.NoError(t, c.Migrate("old", "new"))

	got, err := c.Get("k1", WithNamespace("new"))
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), got)
}

// addRejectingEngine delegates to a MemoryEngine but refuses to create
// items under one namespace, simulating a write failure mid-migration.
type addRejectingEngine struct {
	*engine.MemoryEngine
	rejectNamespace string
}

func (e *addRejectingEngine) Add(attrs query.Attributes) status.Code {
	if ns, _ := attrs[query.AttrService].(string); ns == e.rejectNamespace {
		return status.MissingEntitlement
	}
	return e.MemoryEngine.Add(attrs)
}

func TestMigrateAbortsWithoutDataLoss(t *testing.T) {
	eng := &addRejectingEngine{MemoryEngine: engine.NewMemoryEngine(), rejectNamespace: "new"}
	c := testCoffer(WithEngine(eng))

	require.NoError(t, c.Set("k1", []byte("v1"), WithNamespace("old")))
	require.NoError(t, c.Set("k2", []byte("v2"), WithNamespace("old")))

	err := c.Migrate("old", "new")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingEntitlement)

	// Every payload is still readable under the source: the copy is
	// inserted before the original is deleted, so a failed insert leaves
	// the original in place.
	oldItems, err := c.All(WithNamespace("old"))
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"k1": []byte("v1"), "k2": []byte("v2")}, oldItems)
}
