// Package coffer is a typed convenience layer over the platform keychain.
//
// Items are stored as passwords keyed by (key, namespace, sharing group,
// item class). Every operation on a Coffer funnels through one mutex, so
// concurrent callers in the same process never race on the underlying
// store. Calls are synchronous: they block for the full store round-trip,
// including any authentication prompt a protected item may trigger, and
// support no cancellation or timeout. Do not call from a thread that must
// stay responsive.
//
// On macOS the store is the system Keychain; elsewhere an in-memory
// emulation is used and nothing persists across restarts.
package coffer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/benaskins/coffer/internal/audit"
	"github.com/benaskins/coffer/internal/engine"
	"github.com/benaskins/coffer/internal/query"
	"github.com/benaskins/coffer/internal/status"
)

// Accessibility is the lock-state constraint applied to items at creation.
type Accessibility = query.Accessibility

const (
	AccessibilityUnset             = query.AccessibilityUnset
	WhenUnlocked                   = query.WhenUnlocked
	AfterFirstUnlock               = query.AfterFirstUnlock
	WhenUnlockedThisDeviceOnly     = query.WhenUnlockedThisDeviceOnly
	AfterFirstUnlockThisDeviceOnly = query.AfterFirstUnlockThisDeviceOnly
)

// Class is the keychain item class.
type Class = query.Class

const (
	GenericPassword  = query.GenericPassword
	InternetPassword = query.InternetPassword
	Certificate      = query.Certificate
	CryptoKey        = query.CryptoKey
	Identity         = query.Identity
)

// ItemInfo describes a stored item without exposing its payload.
type ItemInfo struct {
	Key       string
	Namespace string
	Group     string
	Created   time.Time
	Modified  time.Time
}

// Coffer is the synchronized entry point to the keychain. The zero value is
// not usable; construct with New.
type Coffer struct {
	mu    sync.Mutex
	eng   engine.Engine
	audit *audit.Logger
	base  query.Query
}

// Option configures a Coffer, or overrides its query defaults for a single
// call when passed to an operation. Only the query-scoping options take
// effect per call; WithEngine and WithAudit apply at construction.
type Option func(*Coffer)

// WithNamespace sets the namespace (keychain service) items are scoped to.
func WithNamespace(ns string) Option {
	return func(c *Coffer) { c.base.Namespace = ns }
}

// WithGroup sets the sharing (access) group. Sharing groups are ignored by
// the platform in sandboxed test environments.
func WithGroup(g string) Option {
	return func(c *Coffer) { c.base.Group = g }
}

// WithAccessibility sets the accessibility policy for created items.
// Mutually exclusive in practice with WithAccessControl; the store rejects
// offending requests at call time.
func WithAccessibility(a Accessibility) Option {
	return func(c *Coffer) { c.base.Accessibility = a }
}

// WithClass sets the item class. The default is GenericPassword.
func WithClass(cl Class) Option {
	return func(c *Coffer) { c.base.Class = cl }
}

// WithAccessControl attaches an opaque platform access-control handle
// (for example a biometric-gated policy) to created items.
func WithAccessControl(ref any) Option {
	return func(c *Coffer) { c.base.AccessControl = ref }
}

// WithAuthContext attaches a reusable authentication handle, avoiding
// repeated prompts across calls.
func WithAuthContext(ctx any) Option {
	return func(c *Coffer) { c.base.AuthContext = ctx }
}

// WithEngine substitutes the secure store engine. Used by tests.
// Constructor-only: passed to an operation it is ignored.
func WithEngine(e engine.Engine) Option {
	return func(c *Coffer) { c.eng = e }
}

// WithAudit enables append-only audit logging of operation metadata.
// Constructor-only: passed to an operation it is ignored.
func WithAudit(l *audit.Logger) Option {
	return func(c *Coffer) { c.audit = l }
}

// New creates a Coffer backed by the platform store. Unless overridden by
// WithNamespace, items are scoped to a namespace derived from the running
// executable's name.
func New(opts ...Option) *Coffer {
	c := &Coffer{
		eng:  engine.NewSystemEngine(),
		base: query.Query{Namespace: processNamespace()},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	defaultOnce   sync.Once
	defaultCoffer *Coffer
)

// Default returns the process-wide Coffer, created on first use and alive
// for the life of the process.
func Default() *Coffer {
	defaultOnce.Do(func() { defaultCoffer = New() })
	return defaultCoffer
}

func processNamespace() string {
	exe, err := os.Executable()
	if err != nil {
		return "coffer"
	}
	return filepath.Base(exe)
}

// validateKey rejects empty keys before they reach the store. An absent
// key in a request means "match any item", which is only meaningful for
// the scoped bulk operations.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("keychain: empty key: %w", ErrInvalidParameter)
	}
	return nil
}

// Set stores value under key, updating in place when the key already
// exists. The item count for the scope never grows from re-setting a key.
func (c *Coffer) Set(key string, value []byte, opts ...Option) error {
	if err := validateKey(key); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.scoped(key, opts)
	err := c.write().set(q, value)
	c.record(audit.ActionWrite, q, err)
	return err
}

// Get returns the payload stored under key. Fails with ErrNotFound when no
// item matches.
func (c *Coffer) Get(key string, opts ...Option) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.scoped(key, opts)
	data, err := c.read().one(q)
	c.record(audit.ActionRead, q, err)
	return data, err
}

// Delete removes the item stored under key. Fails with ErrNotFound when no
// item matches; callers meaning "delete if present" catch that error.
func (c *Coffer) Delete(key string, opts ...Option) error {
	if err := validateKey(key); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.scoped(key, opts)
	err := c.write().remove(q)
	c.record(audit.ActionDelete, q, err)
	return err
}

// DeleteAll removes every item in the scope. Unlike Delete it is
// idempotent: clearing an empty scope succeeds.
func (c *Coffer) DeleteAll(opts ...Option) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.scoped("", opts)
	err := c.write().removeAll(q)
	c.record(audit.ActionClear, q, err)
	return err
}

// Contains reports whether an item exists under key. Only ErrNotFound is
// read as absence; any other store failure propagates rather than being
// coerced to false.
func (c *Coffer) Contains(key string, opts ...Option) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read().exists(c.scoped(key, opts))
}

// Keys lists the keys of every item in the scope, sorted.
func (c *Coffer) Keys(opts ...Option) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read().keys(c.scoped("", opts))
}

// All returns a point-in-time snapshot of every item in the scope. Entries
// missing a key or payload are skipped, never surfaced as errors.
func (c *Coffer) All(opts ...Option) (map[string][]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.scoped("", opts)
	items, err := c.read().all(q)
	c.record(audit.ActionRead, q, err)
	return items, err
}

// Count returns the number of items in the scope. Defined as the size of
// the All snapshot, so the two can never disagree.
func (c *Coffer) Count(opts ...Option) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, err := c.read().all(c.scoped("", opts))
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// First returns the first item in the scope whose payload satisfies pred.
// Enumeration order is store-defined and not stable. A linear scan:
// keychains hold few items, so no index exists. Fails with ErrNoMatch when
// the scan completes without a hit; enumeration failures propagate as
// store errors.
func (c *Coffer) First(pred func([]byte) bool, opts ...Option) (string, []byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.scoped("", opts)
	key, data, err := c.read().first(q, pred)
	c.record(audit.ActionRead, q, err)
	return key, data, err
}

// Describe returns non-secret attributes of the item stored under key.
func (c *Coffer) Describe(key string, opts ...Option) (*ItemInfo, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read().describe(c.scoped(key, opts))
}

// scoped derives the query for one call: the Coffer's defaults, any
// per-call overrides, and the key.
func (c *Coffer) scoped(key string, opts []Option) query.Query {
	q := c.base
	if len(opts) > 0 {
		scratch := Coffer{eng: c.eng, base: c.base}
		for _, opt := range opts {
			opt(&scratch)
		}
		q = scratch.base
	}
	q.Key = key
	return q
}

func (c *Coffer) read() reader  { return reader{eng: c.eng} }
func (c *Coffer) write() writer { return writer{eng: c.eng, rd: reader{eng: c.eng}} }

// record writes an audit entry when auditing is enabled. Best-effort: a
// failure to log never blocks the operation. Entries carry identifiers and
// status codes only, never payloads.
func (c *Coffer) record(action audit.Action, q query.Query, err error) {
	if c.audit == nil {
		return
	}
	entry := audit.Entry{
		Action:    action,
		Key:       q.Key,
		Namespace: q.Namespace,
		Status:    int32(status.CodeOf(err)),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if logErr := c.audit.Log(entry); logErr != nil {
		slog.Warn("audit log write failed", "error", logErr)
	}
}
