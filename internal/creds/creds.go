// Package creds persists the device activation credentials.
package creds

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrNotActivated is returned when no credential file exists yet.
var ErrNotActivated = errors.New("device not activated (run 'rtv activate <code>')")

type Credentials struct {
	DeviceID    string `toml:"device_id"`
	Token       string `toml:"token"`
	Plan        string `toml:"plan"`
	ExpiresAt   string `toml:"expires_at"` // RFC3339
	CatchupDays int    `toml:"catchup_days"`
}

func Load(path string) (*Credentials, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, ErrNotActivated
	}
	var c Credentials
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return nil, fmt.Errorf("parse credentials %s: %w", path, err)
	}
	if c.Token == "" {
		return nil, ErrNotActivated
	}
	return &c, nil
}

// Save writes the credential file with owner-only permissions.
func Save(path string, c *Credentials) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create creds dir: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Expired reports whether the subscription end date has passed. A missing or
// malformed date counts as not expired; the server is the authority.
func (c *Credentials) Expired(now time.Time) bool {
	if c.ExpiresAt == "" {
		return false
	}
	t, err := time.Parse(time.RFC3339, c.ExpiresAt)
	if err != nil {
		return false
	}
	return t.Before(now)
}
