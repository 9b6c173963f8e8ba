package composition

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// GenerateConfigPath returns a timestamped composition file name inside dir.
func GenerateConfigPath(dir, preset string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.yaml", preset, timestamp))
}

// WriteConfig writes a composition config to a YAML file
func WriteConfig(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadConfig reads a composition config from a YAML file. Unknown keys are
// rejected so typos in hand-edited files do not silently fall back to defaults.
func ReadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Load reads and validates a composition file.
func Load(path string) (*Composition, error) {
	cfg, err := ReadConfig(path)
	if err != nil {
		return nil, err
	}
	return New(cfg)
}
