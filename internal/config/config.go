// Package config loads the coffer CLI configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/benaskins/coffer/internal/query"
)

// Config holds persistent CLI configuration loaded from
// ~/.coffer/config.yaml.
type Config struct {
	Namespace     string `yaml:"namespace"`
	Group         string `yaml:"group"`
	Accessibility string `yaml:"accessibility"`
	AuditLog      string `yaml:"audit_log"`
}

// DefaultPath returns the default config file path: ~/.coffer/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".coffer", "config.yaml")
}

// Load reads a YAML config file from path. If the file does not exist,
// it returns an empty Config and no error. An empty or all-comment file
// also returns an empty Config with no error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseAccessibility maps a config string onto an accessibility policy.
// The empty string means unset.
func ParseAccessibility(s string) (query.Accessibility, error) {
	switch s {
	case "":
		return query.AccessibilityUnset, nil
	case "when-unlocked":
		return query.WhenUnlocked, nil
	case "after-first-unlock":
		return query.AfterFirstUnlock, nil
	case "when-unlocked-this-device-only":
		return query.WhenUnlockedThisDeviceOnly, nil
	case "after-first-unlock-this-device-only":
		return query.AfterFirstUnlockThisDeviceOnly, nil
	}
	return query.AccessibilityUnset, fmt.Errorf("unknown accessibility %q", s)
}
