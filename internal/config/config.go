package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	Version int    `json:"version"`
	BaseURL string `json:"base_url,omitempty"`

	Session *SessionConfig `json:"session,omitempty"`
}

// SessionConfig is one authenticated tenant session. It is cleared on
// logout and replaced wholesale on login or tenant switch.
type SessionConfig struct {
	Email          string    `json:"email,omitempty"`
	AccessToken    string    `json:"access_token,omitempty"`
	ExpiresAt      time.Time `json:"expires_at,omitempty"`
	RestaurantID   int64     `json:"restaurant_id,omitempty"`
	RestaurantName string    `json:"restaurant_name,omitempty"`
}

func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tablo", "config.json"), nil
}

func Load(path string) (Config, error) {
	var cfg Config

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return cfg, err
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	return cfg, nil
}

func Save(path string, cfg Config) error {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func New() Config {
	return Config{
		Version: 1,
	}
}

// Sess returns the session block, allocating an empty one on demand.
func (c *Config) Sess() *SessionConfig {
	if c.Session == nil {
		c.Session = &SessionConfig{}
	}
	return c.Session
}

// ClearSession drops the stored session, e.g. on logout or a 401.
func (c *Config) ClearSession() {
	c.Session = nil
}

func (s SessionConfig) HasSession() bool {
	return s.AccessToken != ""
}

// TokenLikelyExpired reports whether the stored token should be treated
// as stale. Tokens without a readable expiry are assumed valid; the API
// is the final judge either way.
func (s SessionConfig) TokenLikelyExpired(now time.Time) bool {
	if s.AccessToken == "" {
		return true
	}
	exp := s.ExpiresAt
	if exp.IsZero() {
		claimed, ok := AccessTokenExpiresAt(s.AccessToken)
		if !ok {
			return false
		}
		exp = claimed
	}
	return !exp.After(now.Add(30 * time.Second))
}
