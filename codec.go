package coffer

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// SetString stores a string payload as UTF-8 bytes.
func (c *Coffer) SetString(key, value string, opts ...Option) error {
	return c.Set(key, []byte(value), opts...)
}

// GetString returns the payload stored under key as a string. A payload
// that is not valid UTF-8 fails with ErrEncoding rather than producing a
// mangled string.
func (c *Coffer) GetString(key string, opts ...Option) (string, error) {
	data, err := c.Get(key, opts...)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("keychain read %q: %w", key, ErrEncoding)
	}
	return string(data), nil
}

// SetJSON encodes value as JSON and stores it under key. Codec failures
// surface as ErrEncoding, distinct from store access failures.
func (c *Coffer) SetJSON(key string, value any, opts ...Option) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %q: %w: %w", key, ErrEncoding, err)
	}
	return c.Set(key, data, opts...)
}

// GetJSON fetches the raw payload stored under key and decodes it into
// out. A stored value that is not a data payload fails ErrTypeMismatch;
// decode failures surface as ErrEncoding.
func (c *Coffer) GetJSON(key string, out any, opts ...Option) error {
	data, err := c.Get(key, opts...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %q: %w: %w", key, ErrEncoding, err)
	}
	return nil
}
