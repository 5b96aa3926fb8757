package config

import (
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	// DefaultTagMode considers annotated tags only.
	DefaultTagMode = "annotated"
	// DefaultOutputFormat is the sectioned markdown changelog.
	DefaultOutputFormat = "markdown"
	// DefaultMarkdownLineFormat prefixes each subject with the hash.
	DefaultMarkdownLineFormat = "%h %s"
	// DefaultRPMLineFormat is the bare subject; the renderer adds the dash.
	DefaultRPMLineFormat = "%s"
)

// loadDefaults seeds the koanf instance with default values.
func loadDefaults(k *koanf.Koanf) {
	defaults := map[string]interface{}{
		"tag_mode":      DefaultTagMode,
		"line_format":   "",
		"output_format": DefaultOutputFormat,
		"packager":      "",
	}
	for key, value := range defaults {
		_ = k.Set(key, value)
	}
}

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options.
func GetDefaultConfigTemplate() string {
	return `# relver Configuration
# See 'relver config -h' for commands

tag_mode: annotated      # Tag kinds considered: annotated | lightweight
line_format: ""          # Per-commit template (%h hash, %s subject); empty = per-format default
output_format: markdown  # Default changelog format: markdown | rpm
packager: ""             # RPM changelog attribution, e.g. "Jane Doe <jane@example.com>"
`
}
