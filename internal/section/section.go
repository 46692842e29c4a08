// Package section extracts header-bounded content zones from markdown.
package section

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/eykd/skillmark-go/internal/token"
)

// Section is one named content zone inside a document body.
type Section struct {
	// Label is the matched header line without its leading hashes.
	Label string
	// Line is the 1-based line number of the opening header in the body.
	Line int
	// Content is the trimmed text between the opening header and the
	// next header of equal or shallower depth.
	Content string
	// Tokens is the estimated token count of Content.
	Tokens int
}

// headerDepth counts the leading hashes of a header line, clamped to 1
// so the stop expression stays valid for non-header matches.
func headerDepth(line string) int {
	d := len(line) - len(strings.TrimLeft(line, "#"))
	if d < 1 {
		return 1
	}
	return d
}

// Extract scans body line by line for the first header line matching
// pattern. Lines before the match are ignored. Content accumulates
// until a header of equal or shallower depth than the matched header
// appears; deeper headers do not terminate the section. found is false
// when pattern never matches.
func Extract(body string, pattern *regexp.Regexp, est *token.Estimator) (Section, bool) {
	lines := strings.Split(body, "\n")
	inSection := false
	var stop *regexp.Regexp
	var sec Section
	var content []string

	for i, line := range lines {
		if !inSection {
			if pattern.MatchString(line) {
				inSection = true
				stop = regexp.MustCompile(fmt.Sprintf(`^#{1,%d}\s`, headerDepth(line)))
				sec.Label = strings.TrimSpace(strings.TrimLeft(line, "#"))
				sec.Line = i + 1
			}
			continue
		}
		if stop.MatchString(line) {
			break
		}
		content = append(content, line)
	}

	if !inSection {
		return Section{}, false
	}

	sec.Content = strings.TrimSpace(strings.Join(content, "\n"))
	sec.Tokens = est.Estimate(sec.Content)
	return sec, true
}
