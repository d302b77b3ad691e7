package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the workspace configuration file, expected at the workspace root.
const FileName = "pytk.yaml"

// Settings holds the workspace configuration. All fields are optional in the
// file; zero values are filled in from Default.
type Settings struct {
	Python            string   `yaml:"python,omitempty"`
	MinPython         string   `yaml:"min_python,omitempty"`
	ManagerPreference []string `yaml:"manager_preference,omitempty"`
	Exclude           []string `yaml:"exclude,omitempty"`
	TestArgs          []string `yaml:"test_args,omitempty"`
	Watch             Watch    `yaml:"watch,omitempty"`
}

// Watch configures the file watcher.
type Watch struct {
	DebounceMS int      `yaml:"debounce_ms,omitempty"`
	Ignore     []string `yaml:"ignore,omitempty"`
}

// Default returns the settings used when no pytk.yaml exists.
func Default() Settings {
	return Settings{
		Python:            "python3",
		ManagerPreference: []string{"uv", "pip"},
		TestArgs:          []string{"-q"},
		Watch: Watch{
			DebounceMS: 300,
			Ignore: []string{
				"**/.git/**",
				"**/.venv/**",
				"**/venv/**",
				"**/__pycache__/**",
				"**/node_modules/**",
			},
		},
	}
}

// Debounce returns the watch debounce window as a duration.
func (w Watch) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// Load reads and validates a pytk.yaml file. A missing file is not an error:
// defaults are returned so a workspace works without any configuration.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is the workspace config file path
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates pytk.yaml content, filling defaults for
// unset fields.
func Parse(data []byte) (Settings, error) {
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing config YAML: %w", err)
	}
	if err := validate(s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Save validates and writes settings to disk.
func Save(path string, s Settings) error {
	if err := validate(s); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec // config file needs to be readable
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func validate(s Settings) error {
	if s.Python == "" {
		return fmt.Errorf("config: python must not be empty")
	}
	for _, m := range s.ManagerPreference {
		if m != "uv" && m != "pip" {
			return fmt.Errorf("config: unknown manager %q in manager_preference (must be uv or pip)", m)
		}
	}
	if s.Watch.DebounceMS < 0 {
		return fmt.Errorf("config: watch.debounce_ms must be >= 0 (got %d)", s.Watch.DebounceMS)
	}
	return nil
}
