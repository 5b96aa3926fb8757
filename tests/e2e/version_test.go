//go:build e2e

// Package e2e provides end-to-end tests for the relver CLI.
package e2e

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raveheart1/relver/internal/testutil"
)

// TestE2E_VersionCommand exercises version derivation through the built
// binary against real git repositories.
func TestE2E_VersionCommand(t *testing.T) {
	tests := map[string]struct {
		setupFunc    func(env *testutil.E2EEnv) []string
		args         []string
		wantExitCode int
		wantStdout   func(hashes []string) string
	}{
		"plain annotated tag": {
			setupFunc: func(env *testutil.E2EEnv) []string {
				h := env.Commit("initial import")
				env.AnnotatedTag("v1.2.0")
				return []string{h}
			},
			args:         []string{"version", "v1.2.0"},
			wantExitCode: 0,
			wantStdout: func([]string) string {
				return "VERSION=1.2.0\nRELEASE=1\nMETADATA=\n"
			},
		},
		"tag with numeric release and qualifier": {
			setupFunc: func(env *testutil.E2EEnv) []string {
				env.Commit("initial import")
				env.AnnotatedTag("v1.0.0-2_beta")
				return nil
			},
			args:         []string{"version", "v1.0.0-2_beta"},
			wantExitCode: 0,
			wantStdout: func([]string) string {
				return "VERSION=1.0.0\nRELEASE=2\nMETADATA=+beta\n"
			},
		},
		"release candidate tag": {
			setupFunc: func(env *testutil.E2EEnv) []string {
				env.Commit("initial import")
				env.AnnotatedTag("v2.0-rc1")
				return nil
			},
			args:         []string{"version", "v2.0-rc1"},
			wantExitCode: 0,
			wantStdout: func([]string) string {
				// One tag shares the 2.0 prefix: the rc tag itself.
				return "VERSION=2.0\nRELEASE=0\nMETADATA=+1.rc1\n"
			},
		},
		"head on tag is versioned as the tag": {
			setupFunc: func(env *testutil.E2EEnv) []string {
				env.Commit("initial import")
				env.AnnotatedTag("v3.1")
				return nil
			},
			args:         []string{"version"},
			wantExitCode: 0,
			wantStdout: func([]string) string {
				return "VERSION=3.1\nRELEASE=1\nMETADATA=\n"
			},
		},
		"branch tier": {
			setupFunc: func(env *testutil.E2EEnv) []string {
				env.Commit("initial import")
				env.CreateBranch("feature/x")
				h := env.Commit("feature work")
				return []string{h}
			},
			args:         []string{"version", "feature/x"},
			wantExitCode: 0,
			wantStdout: func(hashes []string) string {
				return fmt.Sprintf("VERSION=0.1.2\nRELEASE=1\nMETADATA=+feature.x.sha.%s\n", hashes[0][:8])
			},
		},
		"unparseable tag tier": {
			setupFunc: func(env *testutil.E2EEnv) []string {
				env.Commit("initial import")
				h := env.Commit("hot fix")
				env.AnnotatedTag("hotfix")
				return []string{h}
			},
			args:         []string{"version", "hotfix"},
			wantExitCode: 0,
			wantStdout: func(hashes []string) string {
				return fmt.Sprintf("VERSION=0.2.2\nRELEASE=1\nMETADATA=+hotfix.sha.%s\n", hashes[0][:8])
			},
		},
		"untagged branch head falls back to the branch tier": {
			setupFunc: func(env *testutil.E2EEnv) []string {
				env.Commit("initial import")
				h := env.Commit("more work")
				return []string{h}
			},
			args:         []string{"version"},
			wantExitCode: 0,
			wantStdout: func(hashes []string) string {
				return fmt.Sprintf("VERSION=0.1.2\nRELEASE=1\nMETADATA=+main.sha.%s\n", hashes[0][:8])
			},
		},
		"commit tier on detached untagged head": {
			setupFunc: func(env *testutil.E2EEnv) []string {
				h := env.Commit("initial import")
				env.Commit("more work")
				env.Checkout(h)
				return []string{h}
			},
			args:         []string{"version"},
			wantExitCode: 0,
			wantStdout: func(hashes []string) string {
				return fmt.Sprintf("VERSION=0.0.1\nRELEASE=1\nMETADATA=+sha.%s\n", hashes[0][:8])
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			env := testutil.NewE2EEnv(t)

			var hashes []string
			if tt.setupFunc != nil {
				hashes = tt.setupFunc(env)
			}

			result := env.Run(tt.args...)

			require.Equal(t, tt.wantExitCode, result.ExitCode,
				"exit code mismatch\nstdout: %s\nstderr: %s",
				result.Stdout, result.Stderr)
			assert.Equal(t, tt.wantStdout(hashes), result.Stdout)
		})
	}
}

// TestE2E_VersionLightweightFlag verifies --lightweight changes which tags
// HEAD-on-tag detection considers.
func TestE2E_VersionLightweightFlag(t *testing.T) {
	env := testutil.NewE2EEnv(t)
	env.Commit("initial import")
	env.LightweightTag("v4.0")

	// Annotated mode ignores the lightweight tag and lands in the commit tier.
	result := env.Run("version")
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)
	assert.True(t, strings.HasPrefix(result.Stdout, "VERSION=0.0."), "stdout: %s", result.Stdout)

	result = env.Run("version", "--lightweight")
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)
	assert.True(t, strings.HasPrefix(result.Stdout, "VERSION=4.0\n"), "stdout: %s", result.Stdout)
}
