// Package credstore keeps the API key and user subscription id in a small
// owner-only JSON file under the user's home directory.
package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	dirName      = ".breeds"
	credFileName = "credentials.json"
)

type Credentials struct {
	APIKey    string    `json:"api_key"`
	SubID     string    `json:"sub_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Dir is ~/.breeds.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

func path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credFileName), nil
}

// Load returns nil, nil when nothing has been saved yet.
func Load() (*Credentials, error) {
	p, err := path()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return &c, nil
}

// Save stores apiKey. An existing sub id is kept; otherwise a new one is
// generated so favourites stay attached to this machine's user.
func Save(apiKey string) (*Credentials, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("empty api key")
	}
	prev, err := Load()
	if err != nil {
		return nil, err
	}

	c := Credentials{APIKey: apiKey, CreatedAt: time.Now().UTC()}
	if prev != nil && prev.SubID != "" {
		c.SubID = prev.SubID
	} else {
		c.SubID = "breeds-" + uuid.NewString()
	}

	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	p, err := path()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(p, b, 0o600); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	return &c, nil
}

// Delete removes the file; a missing file is not an error.
func Delete() error {
	p, err := path()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}
