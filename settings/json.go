package settings

import (
	"encoding/json"
	"fmt"
	"io"
)

// Save writes s as a flat JSON object keyed by setting name.
func Save(w io.Writer, s Settings) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("settings: save: %w", err)
	}
	return nil
}

// Load reads settings saved by Save. Keys missing from the input keep
// their default values and unknown keys are ignored. A known key holding a
// value of the wrong type is an error.
func Load(r io.Reader) (Settings, error) {
	s := Defaults()
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("settings: load: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("settings: load: %w", err)
	}
	return s, nil
}
