package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// EnsureUserID gives the config a learner identity, generating one and
// saving it to the config file the first time. Other keys in the file are
// preserved.
func (c *Config) EnsureUserID() (string, error) {
	if c.Assessment.UserID != "" {
		return c.Assessment.UserID, nil
	}

	id := uuid.NewString()
	if c.file != "" {
		if err := saveUserID(c.file, id); err != nil {
			return "", err
		}
	}
	c.Assessment.UserID = id
	return id, nil
}

func saveUserID(path, id string) error {
	doc := map[string]any{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("read %s: %w", path, err)
	}

	section, _ := doc["assessment"].(map[string]any)
	if section == nil {
		section = map[string]any{}
	}
	section["user_id"] = id
	doc["assessment"] = section

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
