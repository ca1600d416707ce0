package coffer

import (
	"fmt"

	"github.com/benaskins/coffer/internal/audit"
	"github.com/benaskins/coffer/internal/query"
)

// Migrate moves every item from one namespace to another. For each item
// the copy is inserted under the destination before the original is
// deleted, so an interruption can leave an item under both namespaces but
// never under neither. Not transactional: the loop aborts on the first
// write failure, leaving already-moved items under the destination and the
// rest untouched under the source.
func (c *Coffer) Migrate(from, to string, opts ...Option) error {
	if from == "" || to == "" {
		return fmt.Errorf("keychain: empty namespace: %w", ErrInvalidParameter)
	}
	if from == to {
		// Same scope: every item already lives at the destination, and
		// copy-then-delete on a single tuple would destroy the item.
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	src := c.scoped("", opts)
	src.Namespace = from

	items, err := c.read().all(src)
	if err != nil {
		return fmt.Errorf("migrating from %q: %w", from, err)
	}

	w := c.write()
	for key, value := range items {
		dst := src
		dst.Namespace = to
		dst.Key = key
		if err := w.set(dst, value); err != nil {
			c.record(audit.ActionMigrate, dst, err)
			return fmt.Errorf("migrating %q to %q: %w", key, to, err)
		}
		old := src
		old.Key = key
		if err := w.remove(old); err != nil {
			c.record(audit.ActionMigrate, old, err)
			return fmt.Errorf("removing migrated %q from %q: %w", key, from, err)
		}
	}
	c.record(audit.ActionMigrate, query.Query{Namespace: to}, nil)
	return nil
}
