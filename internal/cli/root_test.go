// Package cli tests root command structure, flags, and exit code mapping
// for relver.
// Related: internal/cli/root.go, internal/cli/exit_codes.go
// Tags: cli, root, exit-codes

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/raveheart1/relver/internal/errors"
)

func TestRootCmd_Structure(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "relver", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotEmpty(t, rootCmd.Example)
	assert.True(t, rootCmd.SilenceUsage)
	assert.True(t, rootCmd.SilenceErrors)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		flagName string
	}{
		"config flag exists": {flagName: "config"},
		"debug flag exists":  {flagName: "debug"},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			flag := rootCmd.PersistentFlags().Lookup(tt.flagName)
			assert.NotNil(t, flag, "Flag %s should exist", tt.flagName)
		})
	}
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	t.Parallel()

	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	assert.True(t, names["version"], "Should have version subcommand")
	assert.True(t, names["changelog"], "Should have changelog subcommand")
	assert.True(t, names["config"], "Should have config subcommand")
	assert.True(t, names["buildinfo"], "Should have buildinfo subcommand")
}

func TestBuildinfoCmd(t *testing.T) {
	// Not parallel: writes the shared command's output writer.

	assert.True(t, buildinfoCmd.Hidden, "buildinfo should stay off the help listing")

	var buf bytes.Buffer
	buildinfoCmd.SetOut(&buf)
	buildinfoCmd.Run(buildinfoCmd, nil)

	assert.Contains(t, buf.String(), "version:")
	assert.Contains(t, buf.String(), "commit:")
	assert.Contains(t, buf.String(), "dev build: true")
}

func TestRootCmd_CanShowHelp(t *testing.T) {
	t.Parallel()

	// Create a fresh command to avoid modifying global state
	cmd := &cobra.Command{
		Use:   "relver",
		Short: "Test command",
	}
	cmd.SetArgs([]string{"--help"})
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	err := cmd.Execute()
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Test command")
}

func TestRootCmd_Example(t *testing.T) {
	t.Parallel()

	assert.Contains(t, rootCmd.Example, "relver version")
	assert.Contains(t, rootCmd.Example, "relver changelog")
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want int
	}{
		"nil error": {
			err:  nil,
			want: ExitSuccess,
		},
		"explicit exit error": {
			err:  NewExitError(ExitConfigInvalid),
			want: ExitConfigInvalid,
		},
		"wrapped exit error": {
			err:  fmt.Errorf("running command: %w", NewExitError(ExitInvalidArguments)),
			want: ExitInvalidArguments,
		},
		"argument category": {
			err:  apperrors.NewArgumentError("bad flag"),
			want: ExitInvalidArguments,
		},
		"reference category": {
			err:  apperrors.UnresolvedReference("nope"),
			want: ExitInvalidArguments,
		},
		"configuration category": {
			err:  apperrors.NewConfigError("bad config"),
			want: ExitConfigInvalid,
		},
		"repository category": {
			err:  apperrors.RepositoryAccess(errors.New("not a git repository")),
			want: ExitRepositoryFailure,
		},
		"plain error": {
			err:  errors.New("something broke"),
			want: ExitRepositoryFailure,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestExitError_Error(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "exit code 3", NewExitError(3).Error())
}
