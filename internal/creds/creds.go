// Package creds owns the two on-disk credential artifacts and the
// optional keyring storage for the Libby bearer token.
//
// goodreads_config.json and libby_config.json are independent files
// produced by unrelated flows; nothing here merges or converts between
// them.
package creds

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

// DefaultGoodreadsConfig is the artifact written by `shelfsync cookies`.
const DefaultGoodreadsConfig = "goodreads_config.json"

// DefaultLibbyConfig is the artifact written by `shelfsync login`.
const DefaultLibbyConfig = "libby_config.json"

const keyringService = "shelfsync"
const keyringTokenKey = "libby-bearer-token"

// GoodreadsConfig is the cookie-extraction artifact consumed by the
// exporter. Both fields are required and non-empty.
type GoodreadsConfig struct {
	UserID  string `json:"user_id"`
	Cookies string `json:"cookies"`
}

// LibbyConfig is the login artifact. BearerToken may be empty when the
// token lives in the OS keyring instead.
type LibbyConfig struct {
	BearerToken string `json:"bearer_token,omitempty"`
	CardID      string `json:"card_id"`
}

// SaveGoodreads writes the config as 2-space-indented JSON, fully
// replacing whatever is at path.
func SaveGoodreads(path string, cfg GoodreadsConfig) error {
	if cfg.UserID == "" || cfg.Cookies == "" {
		return fmt.Errorf("refusing to write %s: user_id and cookies must both be set", path)
	}
	return writeJSON(path, cfg)
}

// LoadGoodreads reads and validates the cookie-extraction artifact.
func LoadGoodreads(path string) (GoodreadsConfig, error) {
	var cfg GoodreadsConfig
	if err := readJSON(path, &cfg); err != nil {
		return GoodreadsConfig{}, err
	}
	if cfg.UserID == "" || cfg.Cookies == "" {
		return GoodreadsConfig{}, fmt.Errorf("%s: user_id and cookies must both be set", path)
	}
	return cfg, nil
}

// SaveLibby writes the login artifact.
func SaveLibby(path string, cfg LibbyConfig) error {
	if cfg.CardID == "" {
		return fmt.Errorf("refusing to write %s: card_id must be set", path)
	}
	return writeJSON(path, cfg)
}

// LoadLibby reads the login artifact. When the file carries no token the
// keyring is consulted.
func LoadLibby(path string) (LibbyConfig, error) {
	var cfg LibbyConfig
	if err := readJSON(path, &cfg); err != nil {
		return LibbyConfig{}, err
	}
	if cfg.BearerToken == "" {
		if token, err := TokenFromKeyring(); err == nil {
			cfg.BearerToken = token
		}
	}
	if cfg.BearerToken == "" {
		return LibbyConfig{}, fmt.Errorf("%s: no bearer token in file or keyring; run `shelfsync login` again", path)
	}
	return cfg, nil
}

// StoreTokenInKeyring saves the bearer token under the shelfsync service.
func StoreTokenInKeyring(token string) error {
	return keyring.Set(keyringService, keyringTokenKey, token)
}

// TokenFromKeyring fetches a previously stored bearer token.
func TokenFromKeyring() (string, error) {
	return keyring.Get(keyringService, keyringTokenKey)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
