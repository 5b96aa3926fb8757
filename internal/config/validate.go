package config

import (
	"fmt"

	"github.com/raveheart1/relver/internal/gitrepo"
)

// Validate checks the configuration for invalid values.
func (c *Configuration) Validate() error {
	switch c.TagMode {
	case "annotated", "lightweight":
	default:
		return fmt.Errorf("invalid tag_mode %q: must be annotated or lightweight", c.TagMode)
	}

	switch c.OutputFormat {
	case "markdown", "rpm":
	default:
		return fmt.Errorf("invalid output_format %q: must be markdown or rpm", c.OutputFormat)
	}

	return nil
}

// Mode converts the configured tag_mode string to a TagMatchMode.
func (c *Configuration) Mode() gitrepo.TagMatchMode {
	if c.TagMode == "lightweight" {
		return gitrepo.IncludeLightweight
	}
	return gitrepo.AnnotatedOnly
}

// LineFormatFor resolves the effective per-commit template for an output
// format, falling back to the format's default when unset.
func (c *Configuration) LineFormatFor(format string) string {
	if c.LineFormat != "" {
		return c.LineFormat
	}
	if format == "rpm" {
		return DefaultRPMLineFormat
	}
	return DefaultMarkdownLineFormat
}
