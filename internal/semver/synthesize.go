// Package semver synthesizes a (version, release, metadata) triple from a
// classified repository reference. Parsed tags carry their own version;
// everything else gets a synthetic MAJOR.MINOR.commitCount version whose
// MAJOR.MINOR prefix encodes the trust tier: 0.2 for tags that do not parse,
// 0.1 for branches, 0.0 for bare commits. The prefix ordering is the defining
// invariant and must hold regardless of commit counts.
package semver

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/raveheart1/relver/internal/gitrepo"
	"github.com/raveheart1/relver/internal/refs"
)

// Triple is the synthesized version identity of a build.
type Triple struct {
	// Version is a dot-separated sequence of non-negative integers.
	Version string
	// Release is a non-negative integer, 1 unless the source tag says
	// otherwise (0 marks a release candidate).
	Release int
	// Metadata is the free-text build qualifier, empty or "+"-prefixed.
	Metadata string
}

// tagPattern matches tag names shaped v<digits>(.<digits>)* with an
// arbitrary remainder. Tags that fail this entirely fall back to the
// unparseable-tag tier.
var tagPattern = regexp.MustCompile(`^v(\d+(?:\.\d+)*)(.*)$`)

// remainderRule pairs a remainder pattern with its handler. Rules are
// evaluated top-down with early exit so the precedence stays auditable.
type remainderRule struct {
	pattern *regexp.Regexp
	apply   func(repo gitrepo.Repository, version string, m []string) (Triple, error)
}

var remainderRules = []remainderRule{
	// Explicit numeric release: v1.0.0-2_beta -> release 2, metadata +beta.
	{
		pattern: regexp.MustCompile(`^-(\d+)(.*)$`),
		apply: func(_ gitrepo.Repository, version string, m []string) (Triple, error) {
			release, err := strconv.Atoi(m[1])
			if err != nil {
				return Triple{}, fmt.Errorf("parsing release %q: %w", m[1], err)
			}
			return Triple{Version: version, Release: release, Metadata: qualifier(m[2])}, nil
		},
	},
	// Release candidate: no numeric release, rc<digits> after optional
	// separators. Release 0 ranks candidates below the final release; the
	// tag count sharing this version prefix disambiguates candidates of
	// the same version by build recency.
	{
		pattern: regexp.MustCompile(`^[-._/]*(rc\d.*)$`),
		apply: func(repo gitrepo.Repository, version string, m []string) (Triple, error) {
			count, err := repo.CountTagsMatchingPrefix(version)
			if err != nil {
				return Triple{}, fmt.Errorf("counting tags for %s: %w", version, err)
			}
			meta := "+" + strconv.Itoa(count) + "." + normalize(m[1])
			return Triple{Version: version, Release: 0, Metadata: meta}, nil
		},
	},
	// Plain remainder (possibly empty): release defaults to 1.
	{
		pattern: regexp.MustCompile(`^(.*)$`),
		apply: func(_ gitrepo.Repository, version string, m []string) (Triple, error) {
			return Triple{Version: version, Release: 1, Metadata: qualifier(m[1])}, nil
		},
	},
}

// Synthesize produces the version triple for a classified reference.
func Synthesize(repo gitrepo.Repository, ref refs.Reference) (Triple, error) {
	switch ref.Kind {
	case refs.KindTag:
		return fromTag(repo, ref.Name)
	case refs.KindBranch:
		return fromBranch(repo, ref.Name)
	default:
		return fromCommit(repo)
	}
}

// fromTag parses a tag name through the ordered rule list, falling back to
// the unparseable-tag tier when the name has no v<digits> shape at all.
func fromTag(repo gitrepo.Repository, tag string) (Triple, error) {
	m := tagPattern.FindStringSubmatch(tag)
	if m == nil {
		return fromUnparseableTag(repo, tag)
	}

	version, remainder := m[1], m[2]
	if version == "" {
		// Defensive: the pattern requires at least one digit group.
		version = "0"
	}

	for _, rule := range remainderRules {
		if rm := rule.pattern.FindStringSubmatch(remainder); rm != nil {
			return rule.apply(repo, version, rm)
		}
	}
	// Unreachable: the final rule matches everything.
	return Triple{Version: version, Release: 1}, nil
}

// fromUnparseableTag handles tag names that are not version-shaped, e.g.
// "hotfix". They rank above branches but below parsed tags.
func fromUnparseableTag(repo gitrepo.Repository, tag string) (Triple, error) {
	count, head8, err := headPosition(repo)
	if err != nil {
		return Triple{}, err
	}
	return Triple{
		Version:  fmt.Sprintf("0.2.%d", count),
		Release:  1,
		Metadata: "+" + normalize(tag) + ".sha." + head8,
	}, nil
}

// fromBranch synthesizes the branch-tier triple.
func fromBranch(repo gitrepo.Repository, branch string) (Triple, error) {
	count, err := repo.NonMergeCommitCount("", branch)
	if err != nil {
		return Triple{}, fmt.Errorf("counting commits on %s: %w", branch, err)
	}
	hash, err := repo.LatestCommitHash(branch)
	if err != nil {
		return Triple{}, fmt.Errorf("resolving %s: %w", branch, err)
	}
	return Triple{
		Version:  fmt.Sprintf("0.1.%d", count),
		Release:  1,
		Metadata: "+" + normalize(branch) + ".sha." + short8(hash),
	}, nil
}

// fromCommit synthesizes the bottom-tier triple for a bare or detached
// HEAD. The qualifier names the nearest reachable tag, the current branch,
// or nothing at all on a history with neither.
func fromCommit(repo gitrepo.Repository) (Triple, error) {
	count, head8, err := headPosition(repo)
	if err != nil {
		return Triple{}, err
	}

	qualifier := ""
	if tag, tagErr := repo.NearestTag("HEAD", true); tagErr == nil {
		qualifier = tag
	} else if errors.Is(tagErr, gitrepo.ErrNoTagFound) {
		if branch, headErr := repo.ResolveSymbolicHead(); headErr == nil {
			qualifier = branch
		}
	} else {
		return Triple{}, fmt.Errorf("querying nearest tag: %w", tagErr)
	}

	meta := "+sha." + head8
	if qualifier != "" {
		meta = "+" + normalize(qualifier) + ".sha." + head8
	}
	return Triple{
		Version:  fmt.Sprintf("0.0.%d", count),
		Release:  1,
		Metadata: meta,
	}, nil
}

// headPosition returns the non-merge commit count reachable from HEAD and
// the abbreviated HEAD hash.
func headPosition(repo gitrepo.Repository) (int, string, error) {
	count, err := repo.NonMergeCommitCount("", "HEAD")
	if err != nil {
		return 0, "", fmt.Errorf("counting commits on HEAD: %w", err)
	}
	hash, err := repo.LatestCommitHash("HEAD")
	if err != nil {
		return 0, "", fmt.Errorf("resolving HEAD: %w", err)
	}
	return count, short8(hash), nil
}

// separatorSet is the class of characters normalized to dots inside a
// build qualifier.
const separatorSet = "-_/"

// normalize rewrites name separators so the result is a valid metadata
// segment: "-", "_", and "/" all become ".".
func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(separatorSet, r) {
			return '.'
		}
		return r
	}, s)
}

// qualifier turns a tag-name remainder into a metadata segment: empty stays
// empty, otherwise one leading separator is dropped and the rest becomes a
// "+"-prefixed, dot-separated qualifier.
func qualifier(remainder string) string {
	if remainder == "" {
		return ""
	}
	trimmed := remainder
	if strings.ContainsRune(separatorSet+".", rune(remainder[0])) {
		trimmed = remainder[1:]
	}
	if trimmed == "" {
		return ""
	}
	return "+" + normalize(trimmed)
}

// short8 abbreviates a commit hash to its first 8 hex characters.
func short8(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
