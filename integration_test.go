//go:build integration

package coffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests run against the real platform keychain.
// Run with: go test -tags integration .
//
// On macOS this requires an unlocked login Keychain and an interactive
// session (first run may prompt for Keychain access approval).

func integrationCoffer(t *testing.T) *Coffer {
	t.Helper()
	c := New(WithNamespace("com.coffer.integration"))
	t.Cleanup(func() { _ = c.DeleteAll() })
	return c
}

func TestKeychainRoundTrip(t *testing.T) {
	c := integrationCoffer(t)

	require.NoError(t, c.Set("integration/round-trip", []byte("hello-keychain")))

	got, err := c.Get("integration/round-trip")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello-keychain"), got)
}

func TestKeychainOverwrite(t *testing.T) {
	c := integrationCoffer(t)

	require.NoError(t, c.Set("integration/overwrite", []byte("first")))
	require.NoError(t, c.Set("integration/overwrite", []byte("second")))

	got, err := c.Get("integration/overwrite")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)

	n, err := c.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestKeychainDelete(t *testing.T) {
	c := integrationCoffer(t)

	require.NoError(t, c.Set("integration/delete", []byte("to-delete")))
	require.NoError(t, c.Delete("integration/delete"))

	_, err := c.Get("integration/delete")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKeychainMigrate(t *testing.T) {
	c := integrationCoffer(t)
	t.Cleanup(func() {
		_ = c.DeleteAll(WithNamespace("com.coffer.integration.old"))
		_ = c.DeleteAll(WithNamespace("com.coffer.integration.new"))
	})

	require.NoError(t, c.Set("k1", []byte("v1"), WithNamespace("com.coffer.integration.old")))

	require.NoError(t, c.Migrate("com.coffer.integration.old", "com.coffer.integration.new"))

	got, err := c.Get("k1", WithNamespace("com.coffer.integration.new"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	items, err := c.All(WithNamespace("com.coffer.integration.old"))
	require.NoError(t, err)
	assert.Empty(t, items)
}
