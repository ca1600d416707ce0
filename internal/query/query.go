// Package query describes the coordinates of a keychain operation and
// builds the concrete request dictionaries the secure item store understands.
//
// A Query is an immutable value constructed per call site. The builder
// functions map it onto attribute dictionaries keyed by the platform's
// well-known attribute names; optional fields that are unset are omitted
// from the dictionary entirely, which the store reads as "match any value
// of this attribute" — never as "match empty".
package query

// Class is the keychain item class.
type Class int

const (
	GenericPassword Class = iota
	InternetPassword
	Certificate
	CryptoKey
	Identity
)

func (c Class) String() string {
	switch c {
	case GenericPassword:
		return "generic-password"
	case InternetPassword:
		return "internet-password"
	case Certificate:
		return "certificate"
	case CryptoKey:
		return "key"
	case Identity:
		return "identity"
	}
	return "unknown"
}

// Accessibility is the lock-state constraint applied to an item at creation.
type Accessibility int

const (
	AccessibilityUnset Accessibility = iota
	WhenUnlocked
	AfterFirstUnlock
	WhenUnlockedThisDeviceOnly
	AfterFirstUnlockThisDeviceOnly
)

func (a Accessibility) String() string {
	switch a {
	case WhenUnlocked:
		return "when-unlocked"
	case AfterFirstUnlock:
		return "after-first-unlock"
	case WhenUnlockedThisDeviceOnly:
		return "when-unlocked-this-device-only"
	case AfterFirstUnlockThisDeviceOnly:
		return "after-first-unlock-this-device-only"
	}
	return "unset"
}

// Query holds the attribute tuple identifying items for one store call.
// AccessControl and AuthContext are opaque platform handles passed through
// to the engine untouched. Setting both AccessControl and Accessibility is
// legal here but may be rejected by the store at call time.
type Query struct {
	Key           string
	Namespace     string
	Group         string
	Accessibility Accessibility
	Class         Class
	AccessControl any
	AuthContext   any
}

// Attributes is a request or result dictionary exchanged with the engine.
type Attributes map[string]any

// Well-known attribute keys, mirroring the platform's kSec* constants.
const (
	AttrClass            = "class"
	AttrAccount          = "acct"
	AttrService          = "svce"
	AttrAccessGroup      = "agrp"
	AttrAccessible       = "pdmn"
	AttrAccessControl    = "accc"
	AttrCreationDate     = "cdat"
	AttrModificationDate = "mdat"
	UseAuthContext       = "u_AuthCtx"
	MatchLimit           = "m_Limit"
	ReturnData           = "r_Data"
	ReturnAttributes     = "r_Attributes"
	ValueData            = "v_Data"
)

// Match-limit values.
const (
	MatchLimitOne = "m_LimitOne"
	MatchLimitAll = "m_LimitAll"
)

// base maps every set field of q onto its attribute key. Unset fields are
// omitted, not written as empty values.
func base(q Query) Attributes {
	attrs := Attributes{AttrClass: q.Class}
	if q.Key != "" {
		attrs[AttrAccount] = q.Key
	}
	if q.Namespace != "" {
		attrs[AttrService] = q.Namespace
	}
	if q.Group != "" {
		attrs[AttrAccessGroup] = q.Group
	}
	if q.Accessibility != AccessibilityUnset {
		attrs[AttrAccessible] = q.Accessibility
	}
	if q.AuthContext != nil {
		attrs[UseAuthContext] = q.AuthContext
	}
	return attrs
}

// ReadOne builds a request for the payload of exactly one matching item.
func ReadOne(q Query) Attributes {
	attrs := base(q)
	attrs[MatchLimit] = MatchLimitOne
	attrs[ReturnData] = true
	return attrs
}

// ReadAttributes builds a request for the attributes (not payloads) of all
// matching items. Used for key listing and item metadata.
func ReadAttributes(q Query) Attributes {
	attrs := base(q)
	attrs[MatchLimit] = MatchLimitAll
	attrs[ReturnAttributes] = true
	return attrs
}

// EnumerateAll builds a request for attributes and payloads of all matching
// items, unlimited count. Used for bulk reads and migration.
func EnumerateAll(q Query) Attributes {
	attrs := base(q)
	attrs[MatchLimit] = MatchLimitAll
	attrs[ReturnAttributes] = true
	attrs[ReturnData] = true
	return attrs
}

// ClearMatching builds a bulk-delete request scoped by class and the
// optional namespace, sharing group, and accessibility. The key is excluded
// on purpose: clearing is scoped, never per-item.
func ClearMatching(q Query) Attributes {
	attrs := Attributes{AttrClass: q.Class}
	if q.Namespace != "" {
		attrs[AttrService] = q.Namespace
	}
	if q.Group != "" {
		attrs[AttrAccessGroup] = q.Group
	}
	if q.Accessibility != AccessibilityUnset {
		attrs[AttrAccessible] = q.Accessibility
	}
	return attrs
}

// Match builds the match portion of an update or single-item delete request:
// the identifying tuple without payload, return flags, or access control.
func Match(q Query) Attributes {
	return base(q)
}

// Create builds the full add request for a new item, including payload and
// the access-control handle when present.
func Create(q Query, payload []byte) Attributes {
	attrs := base(q)
	if q.AccessControl != nil {
		attrs[AttrAccessControl] = q.AccessControl
	}
	attrs[ValueData] = payload
	return attrs
}
