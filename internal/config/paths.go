package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/relver/config.yml
// - macOS: ~/Library/Application Support/relver/config.yml
// - Windows: %APPDATA%\relver\config.yml
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "relver", "config.yml"), nil
}

// ProjectConfigPath returns the path to the project-level config file.
// This is always .relver/config.yml relative to the current directory.
func ProjectConfigPath() string {
	return filepath.Join(".relver", "config.yml")
}

// LegacyUserConfigPath returns the path to the legacy user-level JSON
// config file: ~/.relver/config.json.
func LegacyUserConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".relver", "config.json"), nil
}

// LegacyProjectConfigPath returns the path to the legacy project-level
// JSON config file: .relver/config.json.
func LegacyProjectConfigPath() string {
	return filepath.Join(".relver", "config.json")
}
