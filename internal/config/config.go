// internal/config/config.go
//
// Configuration and the application data directory. eightd keeps everything
// under one directory: the report store, logs, and config.yaml. The
// directory defaults to <user config dir>/eightd and can be moved with
// EIGHTD_DATA_DIR.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DriverSQLite stores the collection in a SQLite database file.
	DriverSQLite = "sqlite"
	// DriverFile stores the collection as a JSON document.
	DriverFile = "file"

	defaultAutosaveMS = 1000
	defaultModel      = "gemini-2.5-flash"
)

const defaultSettingsYAML = `# eightd configuration
version: 1

storage:
  # driver is "sqlite" or "file". path overrides the default location
  # inside the data directory.
  driver: sqlite

assist:
  # Gemini model used for authoring assistance. The API key is read from
  # the GEMINI_API_KEY environment variable.
  model: gemini-2.5-flash

editor:
  # milliseconds of quiet time before an open report auto-saves
  autosave_ms: 1000
`

// StorageSettings selects and locates the persistent store.
type StorageSettings struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path,omitempty"`
}

// AssistSettings configures the text-generation collaborator.
type AssistSettings struct {
	Model string `yaml:"model"`
}

// EditorSettings tunes the editing session.
type EditorSettings struct {
	AutosaveMS int `yaml:"autosave_ms"`
}

// Settings models config.yaml.
type Settings struct {
	Version int             `yaml:"version"`
	Storage StorageSettings `yaml:"storage"`
	Assist  AssistSettings  `yaml:"assist"`
	Editor  EditorSettings  `yaml:"editor"`
}

// Config holds the runtime configuration.
type Config struct {
	// DataDir is where eightd keeps its store, logs, and settings.
	DataDir  string
	Settings Settings
}

// DefaultDataDir resolves the data directory: EIGHTD_DATA_DIR when set,
// otherwise <user config dir>/eightd.
func DefaultDataDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("EIGHTD_DATA_DIR")); dir != "" {
		return filepath.Clean(dir), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve user config dir: %w", err)
	}
	return filepath.Join(base, "eightd"), nil
}

// New initializes the data directory (seeding config.yaml on first run) and
// loads the settings.
func New(dataDir string) (*Config, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("config: data dir is required")
	}
	cfg := &Config{
		DataDir:  dataDir,
		Settings: defaultSettings(),
	}
	if err := cfg.initDataDir(); err != nil {
		return nil, err
	}
	if err := cfg.loadSettings(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SettingsPath returns the on-disk location of config.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.DataDir, "config.yaml")
}

// LogsDir returns the directory application logs are written to.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// StorePath returns the location of the persistent store for the configured
// driver: a database file for sqlite, a directory for the JSON file driver.
func (c *Config) StorePath() string {
	if c.Settings.Storage.Path != "" {
		return c.Settings.Storage.Path
	}
	if c.Settings.Storage.Driver == DriverFile {
		return filepath.Join(c.DataDir, "reports")
	}
	return filepath.Join(c.DataDir, "reports.db")
}

// QuietInterval returns the editing session's debounce interval.
func (c *Config) QuietInterval() time.Duration {
	return time.Duration(c.Settings.Editor.AutosaveMS) * time.Millisecond
}

// Model returns the configured text-generation model.
func (c *Config) Model() string {
	return c.Settings.Assist.Model
}

// APIKey returns the Gemini credential. Credentials live in the environment,
// never in config.yaml.
func (c *Config) APIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

func defaultSettings() Settings {
	return Settings{
		Version: 1,
		Storage: StorageSettings{Driver: DriverSQLite},
		Assist:  AssistSettings{Model: defaultModel},
		Editor:  EditorSettings{AutosaveMS: defaultAutosaveMS},
	}
}

func (c *Config) initDataDir() error {
	for _, dir := range []string{c.DataDir, c.LogsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: ensure %s: %w", dir, err)
		}
	}
	return ensureSettingsFile(c.SettingsPath())
}

func (c *Config) loadSettings() error {
	data, err := os.ReadFile(c.SettingsPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", c.SettingsPath(), err)
	}
	var parsed Settings
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", c.SettingsPath(), err)
	}
	parsed.applyDefaults()
	parsed.normalize(c.DataDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Settings = parsed
	return nil
}

func (s *Settings) applyDefaults() {
	if s.Version == 0 {
		s.Version = 1
	}
	if s.Storage.Driver == "" {
		s.Storage.Driver = DriverSQLite
	}
	if s.Assist.Model == "" {
		s.Assist.Model = defaultModel
	}
	if s.Editor.AutosaveMS == 0 {
		s.Editor.AutosaveMS = defaultAutosaveMS
	}
}

func (s *Settings) normalize(base string) {
	s.Storage.Driver = strings.ToLower(strings.TrimSpace(s.Storage.Driver))
	s.Assist.Model = strings.TrimSpace(s.Assist.Model)
	if path := strings.TrimSpace(s.Storage.Path); path != "" {
		if filepath.IsAbs(path) {
			s.Storage.Path = filepath.Clean(path)
		} else {
			s.Storage.Path = filepath.Clean(filepath.Join(base, path))
		}
	} else {
		s.Storage.Path = ""
	}
}

func (s Settings) validate() error {
	if s.Version < 1 {
		return fmt.Errorf("version must be >= 1")
	}
	switch s.Storage.Driver {
	case DriverSQLite, DriverFile:
	default:
		return fmt.Errorf("storage.driver must be %q or %q", DriverSQLite, DriverFile)
	}
	if s.Editor.AutosaveMS < 0 {
		return fmt.Errorf("editor.autosave_ms must not be negative")
	}
	return nil
}

func ensureSettingsFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultSettingsYAML), 0o644)
}
