package settings

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrFormat is returned for a settings file with an unknown extension.
var ErrFormat = errors.New("settings: unsupported file format")

// DefaultFile is the settings file name inside the user config directory.
const DefaultFile = "settings.json"

// DefaultPath returns ~/.geo-art/settings.json.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("settings: home directory: %w", err)
	}
	return filepath.Join(home, ".geo-art", DefaultFile), nil
}

// LoadFile reads settings from path, choosing the decoder by extension:
// .json, .toml, .yaml or .yml. A leading ~ is expanded.
func LoadFile(path string) (Settings, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return Settings{}, fmt.Errorf("settings: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("settings: %w", err)
	}
	return Decode(filepath.Ext(path), data)
}

// Decode parses data in the format named by ext (".json", ".toml",
// ".yaml" or ".yml").
func Decode(ext string, data []byte) (Settings, error) {
	switch strings.ToLower(ext) {
	case ".json":
		return Load(bytes.NewReader(data))
	case ".toml":
		s := Defaults()
		if err := toml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("settings: toml: %w", err)
		}
		return validated(s)
	case ".yaml", ".yml":
		s := Defaults()
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("settings: yaml: %w", err)
		}
		return validated(s)
	}
	return Settings{}, fmt.Errorf("%w: %q", ErrFormat, ext)
}

// Encode renders s in the format named by ext.
func Encode(ext string, s Settings) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".json":
		var buf bytes.Buffer
		if err := Save(&buf, s); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case ".toml":
		return toml.Marshal(s)
	case ".yaml", ".yml":
		return yaml.Marshal(s)
	}
	return nil, fmt.Errorf("%w: %q", ErrFormat, ext)
}

// SaveFile writes s to path in the format given by its extension,
// creating parent directories.
func SaveFile(path string, s Settings) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	data, err := Encode(filepath.Ext(path), s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}

func validated(s Settings) (Settings, error) {
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
