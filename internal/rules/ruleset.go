// Package rules evaluates the fixed compliance rule table against a
// parsed document and produces typed violations.
//
// Rules are pure functions over the document and its derived sections.
// They run in table order, which fixes the violation order inside a
// verdict, and each rule is isolated: a rule that panics is reported as
// an info-level violation instead of blocking the remaining rules.
package rules

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/eykd/skillmark-go/internal/domain"
	"github.com/eykd/skillmark-go/internal/section"
	"github.com/eykd/skillmark-go/internal/token"
)

// FileExists reports whether a path, relative to the scan root, exists.
// It backs the broken-link rule; tests inject fakes.
type FileExists func(rel string) bool

// Rule is one entry of the compliance table.
type Rule struct {
	ID    string
	Check func(*Context) []domain.Violation
}

// Context carries a document plus derived data shared across rules.
// It is built once per Evaluate call and read-only for every rule.
type Context struct {
	Doc     domain.Document
	Profile Profile
	Est     *token.Estimator
	Exists  FileExists

	lines      []string // RawText split into lines
	bodyLines  []string // Body split into lines
	bodyOffset int      // file lines preceding Body

	levels map[int]levelSection
}

type levelSection struct {
	sec   section.Section
	found bool
}

// head returns up to the first 20 file lines, the zone where bold
// metadata headers must appear.
func (c *Context) head() []string {
	if len(c.lines) > 20 {
		return c.lines[:20]
	}
	return c.lines
}

var levelPatterns = map[int]*regexp.Regexp{
	1: regexp.MustCompile(`^#{1,3}\s+.*Level 1\b`),
	2: regexp.MustCompile(`^#{1,3}\s+.*Level 2\b`),
	3: regexp.MustCompile(`^#{1,3}\s+.*Level 3\b`),
}

// level extracts the "Level n" zone of the body, memoized. The section
// ends at the next header no deeper than the level's own header, so
// sibling levels bound each other whatever depth a document nests
// them at.
func (c *Context) level(n int) (section.Section, bool) {
	if cached, ok := c.levels[n]; ok {
		return cached.sec, cached.found
	}
	sec, found := section.Extract(c.Doc.Body, levelPatterns[n], c.Est)
	c.levels[n] = levelSection{sec: sec, found: found}
	return sec, found
}

// bodyLine converts a 1-based body line number to a file line number.
func (c *Context) bodyLine(n int) int {
	return c.bodyOffset + n
}

// base returns the document's base filename.
func (c *Context) base() string {
	return path.Base(strings.ReplaceAll(c.Doc.Path, "\\", "/"))
}

// RuleSet evaluates the compliance table against documents.
type RuleSet struct {
	profile Profile
	est     *token.Estimator
	exists  FileExists
	rules   []Rule
}

// New builds a RuleSet for the given profile. exists backs the
// broken-link rule; a nil exists treats every link target as present.
func New(profile Profile, exists FileExists) *RuleSet {
	if exists == nil {
		exists = func(string) bool { return true }
	}
	return &RuleSet{
		profile: profile,
		est:     token.New(profile.TokenPolicy),
		exists:  exists,
		rules:   table(),
	}
}

// table returns the rule catalogue in canonical evaluation order.
func table() []Rule {
	return []Rule{
		{ID: domain.RuleMetadataVersion, Check: checkMetadataVersion},
		{ID: domain.RuleMetadataDate, Check: checkMetadataDate},
		{ID: domain.RuleMetadataStatus, Check: checkMetadataStatus},
		{ID: domain.RuleMetadataCode, Check: checkMetadataCode},
		{ID: domain.RuleNameMissing, Check: checkNameMissing},
		{ID: domain.RuleNameTooLong, Check: checkNameTooLong},
		{ID: domain.RuleNameInvalidChars, Check: checkNameInvalidChars},
		{ID: domain.RuleNameReserved, Check: checkNameReserved},
		{ID: domain.RuleDescMissing, Check: checkDescriptionMissing},
		{ID: domain.RuleDescTooLong, Check: checkDescriptionTooLong},
		{ID: domain.RuleNoXMLTags, Check: checkNoXMLTags},
		{ID: domain.RuleStructureTOC, Check: checkStructureTOC},
		{ID: domain.RuleStructureSection, Check: checkRequiredSections},
		{ID: domain.RuleStructureChecklist, Check: checkChecklist},
		{ID: domain.RuleTagsMissing, Check: checkTagsMissing},
		{ID: domain.RuleTagsPlacement, Check: checkTagsPlacement},
		{ID: domain.RuleLevel1Missing, Check: checkLevel1Missing},
		{ID: domain.RuleLevel2Missing, Check: checkLevel2Missing},
		{ID: domain.RuleLevel3Missing, Check: checkLevel3Missing},
		{ID: domain.RuleLevel1TokenBounds, Check: checkLevelTokenBounds},
		{ID: domain.RuleExamplesMissing, Check: checkExamplesMissing},
		{ID: domain.RuleExamplesLanguage, Check: checkCodeFenceLanguage},
		{ID: domain.RuleXrefBroken, Check: checkXrefBroken},
		{ID: domain.RuleXrefLowQualityText, Check: checkXrefText},
		{ID: domain.RuleTokenBudgetTotal, Check: checkTokenBudgetTotal},
		{ID: domain.RuleTokenBudgetSection, Check: checkTokenBudgetSections},
		{ID: domain.RuleFormatTrailing, Check: checkTrailingWhitespace},
		{ID: domain.RuleFormatLineLength, Check: checkLineLength},
		{ID: domain.RuleFormatBlankLines, Check: checkBlankLines},
	}
}

// Evaluate runs every rule against doc in table order.
func (rs *RuleSet) Evaluate(doc domain.Document) []domain.Violation {
	ctx := &Context{
		Doc:        doc,
		Profile:    rs.profile,
		Est:        rs.est,
		Exists:     rs.exists,
		lines:      strings.Split(doc.RawText, "\n"),
		bodyLines:  strings.Split(doc.Body, "\n"),
		bodyOffset: strings.Count(doc.RawText, "\n") - strings.Count(doc.Body, "\n"),
		levels:     map[int]levelSection{},
	}

	violations := []domain.Violation{}
	for _, r := range rs.rules {
		violations = append(violations, runRule(r, ctx)...)
	}
	return violations
}

// runRule isolates a single rule so one broken rule cannot block the
// rest of the table or the rest of the scan.
func runRule(r Rule, ctx *Context) (out []domain.Violation) {
	defer func() {
		if rec := recover(); rec != nil {
			out = []domain.Violation{{
				Rule:     domain.RuleEvalError,
				Severity: domain.SeverityInfo,
				Line:     1,
				Column:   1,
				Message:  fmt.Sprintf("rule %s failed to evaluate: %v", r.ID, rec),
			}}
		}
	}()
	return r.Check(ctx)
}
