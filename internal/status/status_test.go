package status

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateSuccess(t *testing.T) {
	assert.NoError(t, Translate(Success))
}

func TestTranslateClassification(t *testing.T) {
	cases := []struct {
		code Code
		want error
	}{
		{ItemNotFound, ErrItemNotFound},
		{DuplicateItem, ErrDuplicateItem},
		{AuthFailed, ErrAuthenticationRequired},
		{InteractionNotAllowed, ErrAuthenticationRequired},
		{UserCanceled, ErrAuthenticationRequired},
		{MissingEntitlement, ErrMissingEntitlement},
		{Param, ErrInvalidParameter},
		{Code(-99999), ErrUnhandled},
	}
	for _, tc := range cases {
		err := Translate(tc.code)
		require.Error(t, err, "code %d", tc.code)
		assert.ErrorIs(t, err, tc.want, "code %d", tc.code)
	}
}

func TestTranslateCarriesRawCode(t *testing.T) {
	err := Translate(ItemNotFound)

	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ItemNotFound, se.Code)
}

func TestUnhandledMessageEmbedsCode(t *testing.T) {
	err := Translate(Code(-4242))
	assert.Contains(t, err.Error(), "-4242")
}

func TestKnownMessages(t *testing.T) {
	assert.Equal(t, "the specified item could not be found in the keychain", Message(ItemNotFound))
	assert.Equal(t, "the specified item already exists in the keychain", Message(DuplicateItem))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, Success, CodeOf(nil))
	assert.Equal(t, DuplicateItem, CodeOf(Translate(DuplicateItem)))
	assert.Equal(t, Code(-1), CodeOf(errors.New("not a store error")))

	wrapped := fmt.Errorf("keychain add %q: %w", "john", Translate(DuplicateItem))
	assert.Equal(t, DuplicateItem, CodeOf(wrapped))
}
