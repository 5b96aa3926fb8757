// Package errors tests the structured error formatter.
// Related: internal/errors/format.go
// Tags: errors, formatting

package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatErrorPlain(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  *CLIError
		want []string
	}{
		"message only": {
			err:  NewReferenceError("reference \"nope\" matches no tag or branch"),
			want: []string{"Error [Reference Error]: reference \"nope\" matches no tag or branch\n"},
		},
		"with remediation": {
			err: NewConfigError("invalid tag_mode", "Use annotated or lightweight"),
			want: []string{
				"Error [Configuration Error]: invalid tag_mode\n",
				"To fix this:\n",
				"  • Use annotated or lightweight\n",
			},
		},
		"with usage": {
			err: NewArgumentErrorWithUsage("unknown output format", "relver changelog --format markdown|rpm"),
			want: []string{
				"Error [Argument Error]: unknown output format\n",
				"Usage: relver changelog --format markdown|rpm\n",
			},
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := FormatErrorPlain(tt.err)
			for _, fragment := range tt.want {
				assert.Contains(t, got, fragment)
			}
			assert.False(t, strings.Contains(got, "\x1b["), "plain output must carry no escape codes")
		})
	}
}

func TestFormatErrorPlain_Nil(t *testing.T) {
	t.Parallel()

	assert.Empty(t, FormatErrorPlain(nil))
	assert.Empty(t, FormatError(nil))
}
