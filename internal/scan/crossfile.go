package scan

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eykd/skillmark-go/internal/domain"
)

// Collaborator documents consulted by the cross-file rules. They are
// read, never written, and their absence is advisory.
const (
	manifestFile = "MANIFEST.yaml"
	indexFile    = "STANDARDS_INDEX.md"
	graphFile    = "STANDARDS_GRAPH.md"
)

// relationshipTypes must all be mentioned by the graph document.
var relationshipTypes = []string{"requires", "recommends", "enhances", "conflicts"}

// manifest is the subset of MANIFEST.yaml the completeness rule reads.
type manifest struct {
	Standards map[string]struct {
		FullName string `yaml:"full_name"`
		Filename string `yaml:"filename"`
	} `yaml:"standards"`
}

// crossFileViolations runs the rules whose input spans documents.
// Violations attach to the collaborator file, not to scanned documents.
func (s *Scanner) crossFileViolations(paths []string) map[string][]domain.Violation {
	out := map[string][]domain.Violation{}

	add := func(file string, v domain.Violation) {
		out[file] = append(out[file], v)
	}

	s.checkManifest(paths, add)
	s.checkIndex(paths, add)
	s.checkGraph(add)

	if len(out) == 0 {
		return nil
	}
	return out
}

// checkManifest verifies every scanned document appears in the
// manifest mapping of short codes to filenames.
func (s *Scanner) checkManifest(paths []string, add func(string, domain.Violation)) {
	data, err := os.ReadFile(filepath.Join(s.root, manifestFile))
	if err != nil {
		add(manifestFile, domain.Violation{
			Rule:     domain.RuleManifestAbsent,
			Severity: domain.SeverityInfo,
			Line:     1,
			Column:   1,
			Message:  "manifest not found; completeness check skipped",
		})
		return
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		add(manifestFile, domain.Violation{
			Rule:     domain.RuleManifestAbsent,
			Severity: domain.SeverityInfo,
			Line:     1,
			Column:   1,
			Message:  fmt.Sprintf("manifest unreadable: %v; completeness check skipped", err),
		})
		return
	}

	listed := map[string]bool{}
	for _, entry := range m.Standards {
		if entry.FullName != "" {
			listed[entry.FullName] = true
		}
		if entry.Filename != "" {
			listed[entry.Filename] = true
		}
	}

	for _, rel := range paths {
		base := path.Base(rel)
		if !listed[base] {
			add(manifestFile, domain.Violation{
				Rule:     domain.RuleManifestMissing,
				Severity: domain.SeverityError,
				Line:     1,
				Column:   1,
				Message:  fmt.Sprintf("%s not found in %s", base, manifestFile),
				Fix:      fmt.Sprintf("Add an entry for %s", base),
			})
		}
	}
}

// checkIndex verifies every scanned document is referenced, by
// substring, in the index document.
func (s *Scanner) checkIndex(paths []string, add func(string, domain.Violation)) {
	data, err := os.ReadFile(filepath.Join(s.root, indexFile))
	if err != nil {
		add(indexFile, domain.Violation{
			Rule:     domain.RuleIndexAbsent,
			Severity: domain.SeverityInfo,
			Line:     1,
			Column:   1,
			Message:  "index document not found; coverage check skipped",
		})
		return
	}

	content := string(data)
	for _, rel := range paths {
		base := path.Base(rel)
		if !strings.Contains(content, base) {
			add(indexFile, domain.Violation{
				Rule:     domain.RuleIndexMissing,
				Severity: domain.SeverityWarning,
				Line:     1,
				Column:   1,
				Message:  fmt.Sprintf("%s not referenced in %s", base, indexFile),
				Fix:      fmt.Sprintf("Add %s to the index", base),
			})
		}
	}
}

// checkGraph verifies the relationship-graph document mentions every
// relationship type keyword.
func (s *Scanner) checkGraph(add func(string, domain.Violation)) {
	data, err := os.ReadFile(filepath.Join(s.root, graphFile))
	if err != nil {
		add(graphFile, domain.Violation{
			Rule:     domain.RuleGraphAbsent,
			Severity: domain.SeverityInfo,
			Line:     1,
			Column:   1,
			Message:  "relationship graph not found; relationship check skipped",
		})
		return
	}

	content := string(data)
	for _, rel := range relationshipTypes {
		if !strings.Contains(content, rel) {
			add(graphFile, domain.Violation{
				Rule:     domain.RuleGraphRelation,
				Severity: domain.SeverityInfo,
				Line:     1,
				Column:   1,
				Message:  fmt.Sprintf("missing %q relationship type", rel),
				Fix:      fmt.Sprintf("Document %s relationships", rel),
			})
		}
	}
}
