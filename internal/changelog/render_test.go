package changelog

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raveheart1/relver/internal/gitrepo"
	"github.com/raveheart1/relver/internal/testutil"
)

// renderRepo builds a six-commit history: annotated v1.0 at c2, lightweight
// snap at c4, HEAD at c6 on main.
func renderRepo() *testutil.FakeRepo {
	return &testutil.FakeRepo{
		Commits: []gitrepo.Commit{
			{Hash: strings.Repeat("a1", 20), Subject: "initial import"},
			{Hash: strings.Repeat("b2", 20), Subject: "add parser"},
			{Hash: strings.Repeat("c3", 20), Subject: "release prep"},
			{Hash: strings.Repeat("d4", 20), Subject: "fix off-by-one"},
			{Hash: strings.Repeat("e5", 20), Subject: "snapshot tweaks"},
			{Hash: strings.Repeat("f6", 20), Subject: "improve docs"},
		},
		Tags:          map[string]int{"v1.0": 2, "snap": 4},
		AnnotatedTags: map[string]bool{"v1.0": true},
		Branches:      map[string]int{"main": 5},
		Head:          5,
		HeadBranch:    "main",
	}
}

var testNow = time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)

func TestRenderSections_SingleMode(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	opts := Options{
		Modes:      []gitrepo.TagMatchMode{gitrepo.AnnotatedOnly},
		LineFormat: "%h %s",
		Now:        testNow,
	}
	require.NoError(t, RenderSections(renderRepo(), "HEAD", opts, &sb))

	want := "### Changes since v1.0\n" +
		"f6f6f6f6 improve docs\n" +
		"e5e5e5e5 snapshot tweaks\n" +
		"d4d4d4d4 fix off-by-one\n"
	assert.Equal(t, want, sb.String())
}

// TestRenderSections_BothModes verifies the sectioning contract: exactly
// two sections in the order requested, one blank separator line, no
// trailing blank line.
func TestRenderSections_BothModes(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	opts := Options{
		Modes:      []gitrepo.TagMatchMode{gitrepo.AnnotatedOnly, gitrepo.IncludeLightweight},
		LineFormat: "%s",
		Now:        testNow,
	}
	require.NoError(t, RenderSections(renderRepo(), "HEAD", opts, &sb))

	got := sb.String()
	assert.Equal(t, 2, strings.Count(got, "### Changes since "))
	assert.Contains(t, got, "### Changes since v1.0\n")
	assert.Contains(t, got, "### Changes since snap\n")
	assert.Less(t, strings.Index(got, "v1.0"), strings.Index(got, "snap"), "annotated section comes first")
	assert.Equal(t, 1, strings.Count(got, "\n\n"), "exactly one blank separator")
	assert.False(t, strings.HasSuffix(got, "\n\n"), "no trailing blank line")
}

func TestRenderSections_NoPriorBoundary(t *testing.T) {
	t.Parallel()

	repo := &testutil.FakeRepo{
		Commits: []gitrepo.Commit{
			{Hash: strings.Repeat("a1", 20), Subject: "initial import"},
			{Hash: strings.Repeat("b2", 20), Subject: "add parser"},
		},
		Tags:       map[string]int{},
		Branches:   map[string]int{"main": 1},
		Head:       1,
		HeadBranch: "main",
	}

	var sb strings.Builder
	opts := Options{
		Modes:      []gitrepo.TagMatchMode{gitrepo.AnnotatedOnly},
		LineFormat: "%s",
		Now:        testNow,
	}
	require.NoError(t, RenderSections(repo, "HEAD", opts, &sb))

	want := "### Changes since beginning of history\n" +
		"add parser\n" +
		"initial import\n"
	assert.Equal(t, want, sb.String())
}

func TestRenderSections_CustomLineFormat(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	opts := Options{
		Modes:      []gitrepo.TagMatchMode{gitrepo.IncludeLightweight},
		LineFormat: "[%h] %s (%h)",
		Now:        testNow,
	}
	require.NoError(t, RenderSections(renderRepo(), "HEAD", opts, &sb))
	assert.Contains(t, sb.String(), "[f6f6f6f6] improve docs (f6f6f6f6)")
}

func TestRenderRPMEntry(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	opts := Options{
		Modes:      []gitrepo.TagMatchMode{gitrepo.IncludeLightweight},
		LineFormat: "%s",
		Now:        testNow,
	}
	require.NoError(t, RenderRPMEntry(renderRepo(), "HEAD", opts, &sb))

	want := "* Sat Aug 29 2026 snap f6f6f6f6\n" +
		"- improve docs\n" +
		"- snapshot tweaks\n"
	assert.Equal(t, want, sb.String())
}

func TestRenderRPMEntry_Packager(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	opts := Options{
		Modes:      []gitrepo.TagMatchMode{gitrepo.AnnotatedOnly},
		LineFormat: "%s",
		Now:        testNow,
		Packager:   "Jane Doe <jane@example.com>",
	}
	require.NoError(t, RenderRPMEntry(renderRepo(), "HEAD", opts, &sb))

	lines := strings.SplitN(sb.String(), "\n", 2)
	assert.Equal(t, "* Sat Aug 29 2026 Jane Doe <jane@example.com> v1.0 f6f6f6f6", lines[0])
}

// TestRenderRPMEntry_OnTag checks the header names the tag ref sits on
// while the bullets cover the stepped-back boundary range.
func TestRenderRPMEntry_OnTag(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	opts := Options{
		Modes:      []gitrepo.TagMatchMode{gitrepo.IncludeLightweight},
		LineFormat: "%s",
		Now:        testNow,
	}
	require.NoError(t, RenderRPMEntry(renderRepo(), "snap", opts, &sb))

	got := sb.String()
	assert.True(t, strings.HasPrefix(got, "* Sat Aug 29 2026 snap e5e5e5e5\n"), "header: %q", got)
	// Range is (v1.0, snap]: two commits.
	assert.Contains(t, got, "- snapshot tweaks\n")
	assert.Contains(t, got, "- fix off-by-one\n")
	assert.NotContains(t, got, "release prep")
}

func TestRenderRPMEntry_NoTagsAtAll(t *testing.T) {
	t.Parallel()

	repo := &testutil.FakeRepo{
		Commits: []gitrepo.Commit{
			{Hash: strings.Repeat("a1", 20), Subject: "initial import"},
		},
		Tags:       map[string]int{},
		Branches:   map[string]int{"main": 0},
		Head:       0,
		HeadBranch: "main",
	}

	var sb strings.Builder
	opts := Options{
		Modes:      []gitrepo.TagMatchMode{gitrepo.AnnotatedOnly},
		LineFormat: "%s",
		Now:        testNow,
	}
	require.NoError(t, RenderRPMEntry(repo, "HEAD", opts, &sb))

	want := "* Sat Aug 29 2026 a1a1a1a1\n" +
		"- initial import\n"
	assert.Equal(t, want, sb.String())
}
