// Package config provides hierarchical configuration management for relver
// using koanf. Configuration is loaded with priority: environment variables
// > project config (.relver/config.yml) > user config
// (~/.config/relver/config.yml) > defaults. Legacy JSON config files are
// still honored at the same locations with a .json extension.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces relver environment variables, e.g. RELVER_TAG_MODE.
const envPrefix = "RELVER_"

// Configuration represents the relver CLI tool configuration.
type Configuration struct {
	// TagMode selects which tag kinds version derivation considers:
	// "annotated" (default) or "lightweight" (includes lightweight tags).
	// Can be set via RELVER_TAG_MODE.
	TagMode string `koanf:"tag_mode"`

	// LineFormat is the per-commit changelog line template. Tokens:
	// %h (abbreviated hash) and %s (subject). Empty selects the
	// per-format default (%h %s for markdown, %s for rpm).
	LineFormat string `koanf:"line_format"`

	// OutputFormat is the default changelog format: "markdown" or "rpm".
	OutputFormat string `koanf:"output_format"`

	// Packager is an optional attribution string included in RPM
	// changelog headers, e.g. "Jane Doe <jane@example.com>".
	Packager string `koanf:"packager"`
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path
	// (default: .relver/config.yml).
	ProjectConfigPath string
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults.
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	loadDefaults(k)

	if err := loadUserConfig(k); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(k, opts.ProjectConfigPath); err != nil {
		return nil, err
	}
	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadUserConfig merges the user-level config file when present,
// preferring YAML over the legacy JSON location.
func loadUserConfig(k *koanf.Koanf) error {
	yamlPath, err := UserConfigPath()
	if err != nil {
		// No resolvable config dir; defaults still apply.
		return nil
	}
	if fileExists(yamlPath) {
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading user config %s: %w", yamlPath, err)
		}
		return nil
	}

	jsonPath, err := LegacyUserConfigPath()
	if err != nil || !fileExists(jsonPath) {
		return nil
	}
	if err := k.Load(file.Provider(jsonPath), json.Parser()); err != nil {
		return fmt.Errorf("loading legacy user config %s: %w", jsonPath, err)
	}
	return nil
}

// loadProjectConfig merges the project-level config file when present.
func loadProjectConfig(k *koanf.Koanf, path string) error {
	if path == "" {
		path = ProjectConfigPath()
	}
	if fileExists(path) {
		parser, err := parserForPath(path)
		if err != nil {
			return err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return fmt.Errorf("loading project config %s: %w", path, err)
		}
		return nil
	}

	legacy := LegacyProjectConfigPath()
	if !fileExists(legacy) {
		return nil
	}
	if err := k.Load(file.Provider(legacy), json.Parser()); err != nil {
		return fmt.Errorf("loading legacy project config %s: %w", legacy, err)
	}
	return nil
}

// parserForPath picks the koanf parser matching the file extension.
func parserForPath(path string) (koanf.Parser, error) {
	switch {
	case strings.HasSuffix(path, ".yml"), strings.HasSuffix(path, ".yaml"):
		return yaml.Parser(), nil
	case strings.HasSuffix(path, ".json"):
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config file extension: %s", path)
	}
}

// loadEnvironmentConfig merges RELVER_* environment variables, mapping
// RELVER_TAG_MODE to tag_mode and so on.
func loadEnvironmentConfig(k *koanf.Koanf) error {
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return fmt.Errorf("loading environment config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
