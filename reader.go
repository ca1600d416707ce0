package coffer

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/benaskins/coffer/internal/engine"
	"github.com/benaskins/coffer/internal/query"
	"github.com/benaskins/coffer/internal/status"
)

// reader issues read and enumerate requests against the engine.
type reader struct {
	eng engine.Engine
}

// one fetches the payload of exactly one matching item. The request is
// limit-one by construction, so multiple matches cannot surface.
func (r reader) one(q query.Query) ([]byte, error) {
	results, code := r.eng.Fetch(query.ReadOne(q))
	if err := status.Translate(code); err != nil {
		return nil, fmt.Errorf("keychain read %q: %w", q.Key, err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("keychain read %q: %w", q.Key, status.Translate(status.ItemNotFound))
	}
	data, ok := results[0][query.ValueData].([]byte)
	if !ok {
		return nil, fmt.Errorf("keychain read %q: %w", q.Key, ErrTypeMismatch)
	}
	return data, nil
}

// exists reports whether one would succeed. Absence is signalled only by
// ErrNotFound; every other failure propagates so real errors are never
// masked as a missing item.
func (r reader) exists(q query.Query) (bool, error) {
	_, err := r.one(q)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, status.ErrItemNotFound) {
		return false, nil
	}
	return false, err
}

// all returns a point-in-time snapshot of every matching item. An empty
// scope yields an empty map, and entries missing a key or payload are
// skipped silently.
func (r reader) all(q query.Query) (map[string][]byte, error) {
	results, code := r.eng.Fetch(query.EnumerateAll(q))
	if err := status.Translate(code); err != nil {
		if errors.Is(err, status.ErrItemNotFound) {
			return map[string][]byte{}, nil
		}
		return nil, fmt.Errorf("keychain enumerate: %w", err)
	}
	items := make(map[string][]byte, len(results))
	for _, attrs := range results {
		key, ok := attrs[query.AttrAccount].(string)
		if !ok || key == "" {
			continue
		}
		data, ok := attrs[query.ValueData].([]byte)
		if !ok {
			continue
		}
		items[key] = data
	}
	return items, nil
}

// keys lists the keys of every matching item via an attributes-only
// request; payloads never leave the store.
func (r reader) keys(q query.Query) ([]string, error) {
	results, code := r.eng.Fetch(query.ReadAttributes(q))
	if err := status.Translate(code); err != nil {
		if errors.Is(err, status.ErrItemNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("keychain list: %w", err)
	}
	keys := make([]string, 0, len(results))
	for _, attrs := range results {
		if key, ok := attrs[query.AttrAccount].(string); ok && key != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// first scans matching items in enumeration order and returns the first
// whose payload satisfies pred. Enumeration failures, including an empty
// scope, propagate; a completed scan without a hit is ErrNoMatch.
func (r reader) first(q query.Query, pred func([]byte) bool) (string, []byte, error) {
	results, code := r.eng.Fetch(query.EnumerateAll(q))
	if err := status.Translate(code); err != nil {
		return "", nil, fmt.Errorf("keychain enumerate: %w", err)
	}
	for _, attrs := range results {
		key, ok := attrs[query.AttrAccount].(string)
		if !ok || key == "" {
			continue
		}
		data, ok := attrs[query.ValueData].([]byte)
		if !ok {
			continue
		}
		if pred(data) {
			return key, data, nil
		}
	}
	return "", nil, ErrNoMatch
}

// describe returns the non-secret attributes of the item stored under
// q.Key.
func (r reader) describe(q query.Query) (*ItemInfo, error) {
	results, code := r.eng.Fetch(query.ReadAttributes(q))
	if err := status.Translate(code); err != nil {
		return nil, fmt.Errorf("keychain describe %q: %w", q.Key, err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("keychain describe %q: %w", q.Key, status.Translate(status.ItemNotFound))
	}
	attrs := results[0]
	info := &ItemInfo{Key: q.Key}
	if key, ok := attrs[query.AttrAccount].(string); ok {
		info.Key = key
	}
	if ns, ok := attrs[query.AttrService].(string); ok {
		info.Namespace = ns
	}
	if g, ok := attrs[query.AttrAccessGroup].(string); ok {
		info.Group = g
	}
	if t, ok := attrs[query.AttrCreationDate].(time.Time); ok {
		info.Created = t
	}
	if t, ok := attrs[query.AttrModificationDate].(time.Time); ok {
		info.Modified = t
	}
	return info, nil
}
