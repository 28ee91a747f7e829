package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Config holds the user's persistent configuration preferences.
type Config struct {
	LibraryRoot   string `json:"library_root,omitempty"`   // Default prompt library root
	DefaultFormat string `json:"default_format,omitempty"` // term or markdown
	SearchLimit   int    `json:"search_limit,omitempty"`   // Default number of search results
	AutoIndex     bool   `json:"auto_index"`               // Whether list/show refresh the index first
}

// Manager handles loading and saving the configuration.
type Manager struct {
	configDir string
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config dir: %w", err)
	}

	return &Manager{
		configDir: filepath.Join(configDir, "promptdex"),
	}, nil
}

// GetConfigPath returns the absolute path to the config.json file.
func (m *Manager) GetConfigPath() string {
	return filepath.Join(m.configDir, "config.json")
}

// Load reads the configuration from disk.
// If the file does not exist, it returns a Config with defaults and no error.
func (m *Manager) Load() (*Config, error) {
	path := m.GetConfigPath()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := defaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config json: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to disk with restricted permissions (0600).
func (m *Manager) Save(cfg *Config) error {
	if err := os.MkdirAll(m.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := m.GetConfigPath()
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Exists checks if the configuration file has been created.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.GetConfigPath())
	return !os.IsNotExist(err)
}

func defaultConfig() *Config {
	return &Config{
		DefaultFormat: "term",
		SearchLimit:   10,
		AutoIndex:     true,
	}
}

// LibraryID returns the stable identifier for a library, generating and
// persisting one on first use. The id lives in .promptdex/library_id
// rather than deriving from the path, so a moved library keeps its index.
func LibraryID(root string) (string, error) {
	dir, err := LibraryDataDir(root)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, "library_id")
	if data, readErr := os.ReadFile(path); readErr == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}

	id := uuid.NewString()
	if err := os.WriteFile(path, []byte(id+"\n"), 0644); err != nil {
		return "", fmt.Errorf("failed to persist library id: %w", err)
	}
	return id, nil
}

// LibraryDataDir returns (and creates) the per-library data directory
// at <root>/.promptdex.
func LibraryDataDir(root string) (string, error) {
	dir := filepath.Join(root, ".promptdex")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create library data dir: %w", err)
	}
	return dir, nil
}

// LibraryDBPath returns the catalog database path for a library root,
// creating the data directory if needed.
func LibraryDBPath(root string) (string, error) {
	dir, err := LibraryDataDir(root)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "catalog.db"), nil
}
