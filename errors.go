package coffer

import (
	"errors"

	"github.com/benaskins/coffer/internal/status"
)

// Store-originated classifications, re-exported for errors.Is branching.
var (
	ErrNotFound               = status.ErrItemNotFound
	ErrDuplicate              = status.ErrDuplicateItem
	ErrAuthenticationRequired = status.ErrAuthenticationRequired
	ErrMissingEntitlement     = status.ErrMissingEntitlement
	ErrInvalidParameter       = status.ErrInvalidParameter
)

// Facade-level error kinds, distinct from store access failures.
var (
	// ErrEncoding marks a payload that failed to encode or decode
	// (invalid UTF-8, JSON codec failure).
	ErrEncoding = errors.New("payload encoding failed")

	// ErrTypeMismatch marks a stored value that is not a raw data
	// payload, usually a caller or configuration error.
	ErrTypeMismatch = errors.New("stored value is not a data payload")

	// ErrNoMatch is returned by First when enumeration succeeds but no
	// payload satisfies the predicate.
	ErrNoMatch = errors.New("no item satisfied the predicate")
)

// StatusCode extracts the raw store status from an error chain: 0 for nil,
// -1 for errors that did not originate from the store. The structured
// errors above are the supported way to branch; the raw code is for
// diagnostics and platform-specific handling.
func StatusCode(err error) int32 {
	return int32(status.CodeOf(err))
}
