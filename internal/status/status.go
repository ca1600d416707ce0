// Package status translates the secure store's raw status codes into
// structured errors.
//
// The translation is advisory: programmatic decisions branch on the raw
// code (or on the sentinel errors via errors.Is); the message text exists
// for diagnostics only and never carries secret material.
package status

import (
	"errors"
	"fmt"
)

// Code is a raw status code returned by the secure store (an OSStatus).
type Code int32

const (
	Success               Code = 0
	Param                 Code = -50
	UserCanceled          Code = -128
	AuthFailed            Code = -25293
	DuplicateItem         Code = -25299
	ItemNotFound          Code = -25300
	InteractionNotAllowed Code = -25308
	MissingEntitlement    Code = -34018
)

// Sentinel classifications. Callers branch with errors.Is.
var (
	ErrItemNotFound           = errors.New("item not found")
	ErrDuplicateItem          = errors.New("duplicate item")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrMissingEntitlement     = errors.New("missing keychain entitlement")
	ErrInvalidParameter       = errors.New("invalid parameter")
	ErrUnhandled              = errors.New("unhandled keychain status")
)

// Error carries the raw store status alongside its classification.
type Error struct {
	Code     Code
	sentinel error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (status %d)", Message(e.Code), e.Code)
}

func (e *Error) Unwrap() error { return e.sentinel }

// Translate maps a raw status code to a structured error, or nil for success.
func Translate(c Code) error {
	switch c {
	case Success:
		return nil
	case ItemNotFound:
		return &Error{Code: c, sentinel: ErrItemNotFound}
	case DuplicateItem:
		return &Error{Code: c, sentinel: ErrDuplicateItem}
	case AuthFailed, InteractionNotAllowed, UserCanceled:
		return &Error{Code: c, sentinel: ErrAuthenticationRequired}
	case MissingEntitlement:
		return &Error{Code: c, sentinel: ErrMissingEntitlement}
	case Param:
		return &Error{Code: c, sentinel: ErrInvalidParameter}
	default:
		return &Error{Code: c, sentinel: ErrUnhandled}
	}
}

// CodeOf extracts the raw status code from an error chain. Returns Success
// for nil and -1 for errors that did not originate from the store.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return -1
}

// messages mirrors the platform's own error strings for the codes this
// layer branches on.
var messages = map[Code]string{
	Param:                 "one or more parameters passed to the function were not valid",
	UserCanceled:          "user canceled the operation",
	AuthFailed:            "the user name or passphrase you entered is not correct",
	DuplicateItem:         "the specified item already exists in the keychain",
	ItemNotFound:          "the specified item could not be found in the keychain",
	InteractionNotAllowed: "user interaction is not allowed",
	MissingEntitlement:    "a required entitlement isn't present",
}

// Message returns a human-readable string for a status code, falling back
// to a generic message embedding the raw code.
func Message(c Code) string {
	if m, ok := messages[c]; ok {
		return m
	}
	return fmt.Sprintf("keychain operation failed with status %d", c)
}
