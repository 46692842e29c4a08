// Package scan walks a repository tree, validates every matching
// document, and aggregates the results into a report.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/eykd/skillmark-go/internal/domain"
	"github.com/eykd/skillmark-go/internal/rules"
	"github.com/eykd/skillmark-go/internal/validate"
)

// excludedDirs are never descended into: VCS internals, dependency
// trees, virtual envs, and cache directories.
var excludedDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	"node_modules": true,
	"vendor":       true,
	"venv":         true,
	".venv":        true,
	"__pycache__":  true,
	".cache":       true,
	".backup":      true,
}

// Scanner validates all documents under a root matching a glob.
type Scanner struct {
	root    string
	pattern string
	profile rules.Profile
}

// New builds a Scanner. pattern is a doublestar glob matched against
// paths relative to root, e.g. "**/SKILL.md".
func New(root, pattern string, profile rules.Profile) *Scanner {
	return &Scanner{root: root, pattern: pattern, profile: profile}
}

// Discover returns the sorted root-relative paths of files matching
// pattern under root, skipping excluded directories.
func Discover(root, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	var matches []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && excludedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if ok, _ := doublestar.Match(pattern, rel); ok {
			matches = append(matches, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Strings(matches)
	return matches, nil
}

// Scan validates every matching document and aggregates a report.
// Individual unreadable documents are reported as verdicts, not
// errors; only a bad root or pattern fails the scan itself.
func (s *Scanner) Scan(ctx context.Context) (*domain.Report, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", s.root)
	}

	paths, err := Discover(s.root, s.pattern)
	if err != nil {
		return nil, err
	}

	validator := validate.New(s.profile, func(rel string) bool {
		_, statErr := os.Stat(filepath.Join(s.root, filepath.FromSlash(rel)))
		return statErr == nil
	})

	report := &domain.Report{Root: s.root, Documents: []domain.Verdict{}}
	for _, rel := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		verdict := s.validateFile(validator, rel)
		report.Documents = append(report.Documents, verdict)
	}

	if s.profile.Metadata {
		report.CrossFile = s.crossFileViolations(paths)
	}

	finalize(report)
	return report, nil
}

// validateFile reads one document tolerantly and validates it.
func (s *Scanner) validateFile(validator *validate.Validator, rel string) domain.Verdict {
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		return validate.FailedVerdict(rel, err)
	}
	// Invalid UTF-8 byte sequences are replaced, not fatal.
	text := strings.ToValidUTF8(string(data), "�")
	return validator.Validate(rel, text)
}

// finalize fills the aggregate counters of a report.
func finalize(r *domain.Report) {
	r.Total = len(r.Documents)
	for _, d := range r.Documents {
		if d.Compliant {
			r.CompliantCount++
		} else {
			r.NonCompliantCount++
		}
	}
	r.ErrorCount = r.CountBySeverity(domain.SeverityError)
	r.WarningCount = r.CountBySeverity(domain.SeverityWarning)
	r.InfoCount = r.CountBySeverity(domain.SeverityInfo)
	if r.Total > 0 {
		r.ComplianceRate = float64(r.CompliantCount) / float64(r.Total) * 100
	}
}
