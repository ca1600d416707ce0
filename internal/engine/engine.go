// Package engine is the boundary to the platform's secure item store.
//
// Requests and responses cross this boundary as attribute dictionaries
// (query.Attributes) paired with raw status codes; everything typed lives
// above it. Two engines exist: the macOS Keychain (darwin builds) and an
// in-memory emulation that speaks the same status codes, used on other
// platforms and in unit tests everywhere.
package engine

import (
	"github.com/benaskins/coffer/internal/query"
	"github.com/benaskins/coffer/internal/status"
)

// Engine executes the four request shapes against a secure item store.
// Implementations return raw status codes; translation happens in callers.
type Engine interface {
	// Add creates a new item from a full create request. Fails with
	// DuplicateItem when the identifying tuple already exists.
	Add(attrs query.Attributes) status.Code

	// Fetch returns the items matching q, shaped by q's match-limit and
	// return flags. Zero matches is ItemNotFound.
	Fetch(q query.Attributes) ([]query.Attributes, status.Code)

	// Update rewrites the attributes of every item matching q.
	// Zero matches is ItemNotFound.
	Update(q, attrs query.Attributes) status.Code

	// Remove deletes every item matching q. Zero matches is ItemNotFound.
	Remove(q query.Attributes) status.Code
}
