package engine

import (
	"sync"
	"time"

	"github.com/benaskins/coffer/internal/query"
	"github.com/benaskins/coffer/internal/status"
)

// tuple is the identifying coordinate of a stored item. The store enforces
// uniqueness over it.
type tuple struct {
	class     query.Class
	namespace string
	group     string
	key       string
}

type memItem struct {
	tuple         tuple
	accessibility query.Accessibility
	data          []byte
	created       time.Time
	modified      time.Time
}

// MemoryEngine emulates the secure item store in process memory. It returns
// the same raw status codes the platform store would, so everything above
// the engine boundary exercises the real translation paths. Nothing is
// encrypted or persisted; it exists for tests and platforms without a
// native keychain.
type MemoryEngine struct {
	mu    sync.Mutex
	items map[tuple]*memItem
}

// NewMemoryEngine creates an empty in-memory engine.
func NewMemoryEngine() *MemoryEngine {
	return &MemoryEngine{items: make(map[tuple]*memItem)}
}

func (m *MemoryEngine) Add(attrs query.Attributes) status.Code {
	key, _ := attrs[query.AttrAccount].(string)
	if key == "" {
		return status.Param
	}
	data, ok := attrs[query.ValueData].([]byte)
	if !ok {
		return status.Param
	}

	t := tupleOf(attrs)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.items[t]; exists {
		return status.DuplicateItem
	}
	now := time.Now().UTC()
	item := &memItem{
		tuple:    t,
		data:     append([]byte(nil), data...),
		created:  now,
		modified: now,
	}
	if a, ok := attrs[query.AttrAccessible].(query.Accessibility); ok {
		item.accessibility = a
	}
	m.items[t] = item
	return status.Success
}

func (m *MemoryEngine) Fetch(q query.Attributes) ([]query.Attributes, status.Code) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := m.match(q)
	if len(matched) == 0 {
		return nil, status.ItemNotFound
	}
	if limit, _ := q[query.MatchLimit].(string); limit != query.MatchLimitAll {
		matched = matched[:1]
	}

	returnData, _ := q[query.ReturnData].(bool)
	returnAttrs, _ := q[query.ReturnAttributes].(bool)

	results := make([]query.Attributes, 0, len(matched))
	for _, item := range matched {
		res := query.Attributes{}
		if returnAttrs {
			res[query.AttrClass] = item.tuple.class
			res[query.AttrAccount] = item.tuple.key
			if item.tuple.namespace != "" {
				res[query.AttrService] = item.tuple.namespace
			}
			if item.tuple.group != "" {
				res[query.AttrAccessGroup] = item.tuple.group
			}
			res[query.AttrCreationDate] = item.created
			res[query.AttrModificationDate] = item.modified
		}
		if returnData {
			res[query.ValueData] = append([]byte(nil), item.data...)
		}
		results = append(results, res)
	}
	return results, status.Success
}

func (m *MemoryEngine) Update(q, attrs query.Attributes) status.Code {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := m.match(q)
	if len(matched) == 0 {
		return status.ItemNotFound
	}
	for _, item := range matched {
		if data, ok := attrs[query.ValueData].([]byte); ok {
			item.data = append([]byte(nil), data...)
		}
		if a, ok := attrs[query.AttrAccessible].(query.Accessibility); ok {
			item.accessibility = a
		}
		item.modified = time.Now().UTC()
	}
	return status.Success
}

func (m *MemoryEngine) Remove(q query.Attributes) status.Code {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := m.match(q)
	if len(matched) == 0 {
		return status.ItemNotFound
	}
	for _, item := range matched {
		delete(m.items, item.tuple)
	}
	return status.Success
}

// match returns items whose attributes equal every attribute present in q.
// Absent attributes match any value.
func (m *MemoryEngine) match(q query.Attributes) []*memItem {
	var out []*memItem
	for _, item := range m.items {
		if class, ok := q[query.AttrClass].(query.Class); ok && class != item.tuple.class {
			continue
		}
		if key, ok := q[query.AttrAccount].(string); ok && key != item.tuple.key {
			continue
		}
		if ns, ok := q[query.AttrService].(string); ok && ns != item.tuple.namespace {
			continue
		}
		if g, ok := q[query.AttrAccessGroup].(string); ok && g != item.tuple.group {
			continue
		}
		if a, ok := q[query.AttrAccessible].(query.Accessibility); ok && a != item.accessibility {
			continue
		}
		out = append(out, item)
	}
	return out
}

func tupleOf(attrs query.Attributes) tuple {
	var t tuple
	if c, ok := attrs[query.AttrClass].(query.Class); ok {
		t.class = c
	}
	t.key, _ = attrs[query.AttrAccount].(string)
	t.namespace, _ = attrs[query.AttrService].(string)
	t.group, _ = attrs[query.AttrAccessGroup].(string)
	return t
}
