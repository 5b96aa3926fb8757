package testutil

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"
)

var (
	// relverBinaryPath caches the built relver binary path.
	relverBinaryPath string
	relverBuildOnce  sync.Once
	relverBuildErr   error
)

// E2EEnv provides an isolated environment for E2E testing: a scratch git
// repository, a relver binary built once per test session, and a sanitized
// environment so a developer's user config never leaks into a test.
type E2EEnv struct {
	t         *testing.T
	tempDir   string
	binDir    string
	repoDir   string
	commitSeq int
	cleanedUp bool
}

// CommandResult captures the result of running a relver command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// NewE2EEnv creates a new E2E test environment.
func NewE2EEnv(t *testing.T) *E2EEnv {
	t.Helper()

	env := &E2EEnv{t: t}
	env.setup()
	t.Cleanup(env.Cleanup)

	return env
}

func (e *E2EEnv) setup() {
	e.t.Helper()

	tempDir, err := os.MkdirTemp("", "e2e-test-*")
	if err != nil {
		e.t.Fatalf("creating temp directory: %v", err)
	}
	e.tempDir = tempDir

	e.binDir = filepath.Join(tempDir, "bin")
	if err := os.MkdirAll(e.binDir, 0o755); err != nil {
		e.t.Fatalf("creating bin directory: %v", err)
	}

	e.repoDir = filepath.Join(tempDir, "repo")
	if err := os.MkdirAll(e.repoDir, 0o755); err != nil {
		e.t.Fatalf("creating repo directory: %v", err)
	}

	e.buildRelver()
	e.initGitRepo()
}

func (e *E2EEnv) buildRelver() {
	e.t.Helper()

	// Build the relver binary once per test session.
	relverBuildOnce.Do(func() {
		relverBinaryPath, relverBuildErr = doBuildRelver()
	})

	if relverBuildErr != nil {
		e.t.Fatalf("building relver: %v", relverBuildErr)
	}

	relverLink := filepath.Join(e.binDir, "relver")
	content, err := os.ReadFile(relverBinaryPath)
	if err != nil {
		e.t.Fatalf("reading relver binary: %v", err)
	}

	if err := os.WriteFile(relverLink, content, 0o755); err != nil {
		e.t.Fatalf("writing relver binary: %v", err)
	}
}

func doBuildRelver() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("determining current file location")
	}
	repoRoot := filepath.Join(filepath.Dir(currentFile), "..", "..")

	tmpDir, err := os.MkdirTemp("", "relver-build-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir for build: %w", err)
	}

	binaryPath := filepath.Join(tmpDir, "relver")

	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/relver")
	cmd.Dir = repoRoot
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("building relver: %w\nOutput: %s", err, output)
	}

	return binaryPath, nil
}

// Run executes a relver command inside the scratch repository.
func (e *E2EEnv) Run(args ...string) CommandResult {
	e.t.Helper()

	start := time.Now()

	cmd := exec.Command(filepath.Join(e.binDir, "relver"), args...)
	cmd.Dir = e.repoDir
	cmd.Env = e.buildIsolatedEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := CommandResult{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 1
		}
	}

	return result
}

func (e *E2EEnv) buildIsolatedEnv() []string {
	// HOME points into the temp dir so a developer's user config cannot
	// leak in. NO_COLOR keeps output assertable.
	env := []string{
		"PATH=" + e.binDir + ":" + os.Getenv("PATH"),
		"HOME=" + e.tempDir,
		"NO_COLOR=1",
	}

	safeVars := []string{
		"TERM",
		"LANG",
		"LC_ALL",
		"TMPDIR",
	}

	for _, key := range safeVars {
		if val, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+val)
		}
	}

	return env
}

// RepoDir returns the scratch git repository path.
func (e *E2EEnv) RepoDir() string {
	return e.repoDir
}

// WriteProjectConfig writes .relver/config.yml inside the scratch
// repository so a test can exercise project-level configuration.
func (e *E2EEnv) WriteProjectConfig(content string) {
	e.t.Helper()

	dir := filepath.Join(e.repoDir, ".relver")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		e.t.Fatalf("creating project config directory: %v", err)
	}
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("writing project config: %v", err)
	}
}

func (e *E2EEnv) initGitRepo() {
	e.t.Helper()

	e.git("init")
	e.git("config", "user.email", "test@test.com")
	e.git("config", "user.name", "Test")
	// Deterministic starting branch regardless of the host git default.
	e.git("checkout", "-b", "main")
}

// git runs a git command inside the scratch repository.
func (e *E2EEnv) git(args ...string) string {
	e.t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = e.repoDir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_DATE=2026-01-01T00:00:00 +0000",
		"GIT_COMMITTER_DATE=2026-01-01T00:00:00 +0000",
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		e.t.Fatalf("git %v failed: %v\nOutput: %s", args, err, output)
	}
	return string(output)
}

// Commit writes a file and commits it, returning the full commit hash.
func (e *E2EEnv) Commit(message string) string {
	e.t.Helper()

	e.commitSeq++
	name := fmt.Sprintf("file-%d.txt", e.commitSeq)
	if err := os.WriteFile(filepath.Join(e.repoDir, name), []byte(message), 0o644); err != nil {
		e.t.Fatalf("writing %s: %v", name, err)
	}
	e.git("add", name)
	e.git("commit", "-m", message)

	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = e.repoDir
	output, err := cmd.Output()
	if err != nil {
		e.t.Fatalf("git rev-parse failed: %v", err)
	}
	return string(bytes.TrimSpace(output))
}

// AnnotatedTag creates an annotated tag at HEAD.
func (e *E2EEnv) AnnotatedTag(name string) {
	e.t.Helper()
	e.git("tag", "-a", name, "-m", "tag "+name)
}

// LightweightTag creates a lightweight tag at HEAD.
func (e *E2EEnv) LightweightTag(name string) {
	e.t.Helper()
	e.git("tag", name)
}

// CreateBranch creates and checks out a branch at HEAD.
func (e *E2EEnv) CreateBranch(name string) {
	e.t.Helper()
	e.git("checkout", "-b", name)
}

// Checkout checks out an existing ref.
func (e *E2EEnv) Checkout(ref string) {
	e.t.Helper()
	e.git("checkout", ref)
}

// Cleanup removes temp files.
func (e *E2EEnv) Cleanup() {
	if e.cleanedUp {
		return
	}
	e.cleanedUp = true

	if e.tempDir != "" {
		if err := os.RemoveAll(e.tempDir); err != nil {
			e.t.Logf("note: could not remove temp directory: %v", err)
		}
	}
}
