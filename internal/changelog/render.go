// Package changelog renders commit ranges between resolved boundaries as
// markdown sections or a single RPM changelog entry. The renderer only
// orders and buckets commits; per-line formatting is delegated to a
// caller-supplied template, and the current date is injected explicitly so
// output is a pure function of the inputs.
package changelog

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/raveheart1/relver/internal/boundary"
	"github.com/raveheart1/relver/internal/gitrepo"
)

// Options controls changelog rendering.
type Options struct {
	// Modes lists the tag-match modes to emit sections for, in order.
	Modes []gitrepo.TagMatchMode
	// LineFormat is the per-commit template. Tokens: %h is the
	// abbreviated 8-hex hash, %s the commit subject.
	LineFormat string
	// Now is the clock value a dated header uses.
	Now time.Time
	// Packager is an optional attribution included in the RPM header.
	Packager string
}

// RenderSections writes one markdown section per requested mode: a header
// naming the boundary tag followed by the formatted non-merge commits
// between boundary and ref. Sections are separated by exactly one blank
// line, with no trailing blank line after the last.
func RenderSections(repo gitrepo.Repository, ref string, opts Options, w io.Writer) error {
	for i, mode := range opts.Modes {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := renderSection(repo, ref, mode, opts.LineFormat, w); err != nil {
			return fmt.Errorf("rendering %s section: %w", mode, err)
		}
	}
	return nil
}

// renderSection writes a single boundary section.
func renderSection(repo gitrepo.Repository, ref string, mode gitrepo.TagMatchMode, format string, w io.Writer) error {
	from, header, err := resolveRange(repo, ref, mode)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "### Changes since %s\n", header); err != nil {
		return err
	}

	commits, err := repo.ListNonMergeCommitSubjects(from, ref)
	if err != nil {
		return fmt.Errorf("listing commits %s..%s: %w", from, ref, err)
	}
	for _, c := range commits {
		if _, err := fmt.Fprintln(w, formatLine(format, c)); err != nil {
			return err
		}
	}
	return nil
}

// RenderRPMEntry writes a single dated changelog entry: a header line with
// the injected date, the nearest tag at or before ref, and the abbreviated
// ref commit hash, followed by dash-prefixed commit bullets. Exactly one
// boundary is resolved, under the last requested mode (lightweight wins
// when both are requested).
func RenderRPMEntry(repo gitrepo.Repository, ref string, opts Options, w io.Writer) error {
	mode := gitrepo.AnnotatedOnly
	if len(opts.Modes) > 0 {
		mode = opts.Modes[len(opts.Modes)-1]
	}

	hash, err := repo.LatestCommitHash(ref)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", ref, err)
	}
	if len(hash) > 8 {
		hash = hash[:8]
	}

	// The header names where ref sits, not the stepped-back boundary.
	headerTag, err := repo.NearestTag(ref, mode.Lightweight())
	if err != nil && !errors.Is(err, gitrepo.ErrNoTagFound) {
		return fmt.Errorf("querying nearest tag: %w", err)
	}

	header := "* " + opts.Now.Format("Mon Jan 02 2006")
	if opts.Packager != "" {
		header += " " + opts.Packager
	}
	if headerTag != "" {
		header += " " + headerTag
	}
	header += " " + hash
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	from, _, err := resolveRange(repo, ref, mode)
	if err != nil {
		return err
	}
	commits, err := repo.ListNonMergeCommitSubjects(from, ref)
	if err != nil {
		return fmt.Errorf("listing commits %s..%s: %w", from, ref, err)
	}
	for _, c := range commits {
		if _, err := fmt.Fprintln(w, "- "+formatLine(opts.LineFormat, c)); err != nil {
			return err
		}
	}
	return nil
}

// resolveRange finds the boundary for ref under mode. Running off the
// start of history is not an error here: the range simply covers
// everything, and the header says so.
func resolveRange(repo gitrepo.Repository, ref string, mode gitrepo.TagMatchMode) (from, header string, err error) {
	tag, err := boundary.Nearest(repo, ref, mode)
	if err != nil {
		if errors.Is(err, boundary.ErrNoPriorBoundary) {
			return "", "beginning of history", nil
		}
		return "", "", err
	}
	return tag, tag, nil
}

// formatLine expands the per-commit template tokens.
func formatLine(format string, c gitrepo.Commit) string {
	hash := c.Hash
	if len(hash) > 8 {
		hash = hash[:8]
	}
	line := strings.ReplaceAll(format, "%h", hash)
	return strings.ReplaceAll(line, "%s", c.Subject)
}
