package coffer

import (
	"errors"
	"fmt"

	"github.com/benaskins/coffer/internal/engine"
	"github.com/benaskins/coffer/internal/query"
	"github.com/benaskins/coffer/internal/status"
)

// writer issues mutating requests against the engine.
type writer struct {
	eng engine.Engine
	rd  reader
}

// set is an upsert: probe for the item, update in place when present, add
// otherwise. Probe failures other than absence propagate. No defensive
// pre-delete; the store's tuple uniqueness makes add-after-probe safe
// within the facade's serialization domain. A concurrent writer in another
// process can still win the race, in which case the add surfaces the
// store's duplicate-item status.
func (w writer) set(q query.Query, value []byte) error {
	found, err := w.rd.exists(q)
	if err != nil {
		return err
	}
	if found {
		return w.update(q, value)
	}
	code := w.eng.Add(query.Create(q, value))
	if err := status.Translate(code); err != nil {
		return fmt.Errorf("keychain add %q: %w", q.Key, err)
	}
	return nil
}

// update rewrites the payload of an existing item. The payload travels in
// the update-attributes set, not the match query, and the match query
// carries no access-control handle.
func (w writer) update(q query.Query, value []byte) error {
	code := w.eng.Update(query.Match(q), query.Attributes{query.ValueData: value})
	if err := status.Translate(code); err != nil {
		return fmt.Errorf("keychain update %q: %w", q.Key, err)
	}
	return nil
}

// remove deletes the item identified by q. Zero matches fails with the
// store's not-found status.
func (w writer) remove(q query.Query) error {
	code := w.eng.Remove(query.Match(q))
	if err := status.Translate(code); err != nil {
		return fmt.Errorf("keychain delete %q: %w", q.Key, err)
	}
	return nil
}

// removeAll clears every item in q's scope. Idempotent: zero matches is a
// success, unlike single-item remove.
func (w writer) removeAll(q query.Query) error {
	code := w.eng.Remove(query.ClearMatching(q))
	err := status.Translate(code)
	if err != nil && !errors.Is(err, status.ErrItemNotFound) {
		return fmt.Errorf("keychain clear: %w", err)
	}
	return nil
}
