package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/eykd/skillmark-go/internal/domain"
)

var (
	requiredSectionRes = []struct {
		name string
		re   *regexp.Regexp
	}{
		{"Overview", regexp.MustCompile(`(?m)^#{1,3}\s+.*\bOverview\b`)},
		{"Implementation", regexp.MustCompile(`(?m)^#{1,3}\s+.*\bImplementation\b`)},
	}
	tagRe      = regexp.MustCompile(`\[(REQUIRED|RECOMMENDED|OPTIONAL)\]`)
	examplesRe = regexp.MustCompile(`(?m)^#{1,6}\s+Examples?\b`)
)

func checkStructureTOC(ctx *Context) []domain.Violation {
	if !ctx.Profile.Metadata {
		return nil
	}
	body := ctx.Doc.Body
	if strings.Contains(body, "Table of Contents") || strings.Contains(body, "## Contents") {
		return nil
	}
	return []domain.Violation{headerViolation(domain.RuleStructureTOC, domain.SeverityWarning,
		"Missing Table of Contents", "Add a Table of Contents section")}
}

func checkRequiredSections(ctx *Context) []domain.Violation {
	if !ctx.Profile.Metadata {
		return nil
	}
	var out []domain.Violation
	for _, req := range requiredSectionRes {
		if !req.re.MatchString(ctx.Doc.Body) {
			out = append(out, headerViolation(domain.RuleStructureSection, domain.SeverityError,
				fmt.Sprintf("Missing required section: %s", req.name),
				fmt.Sprintf("Add a ## %s section", req.name)))
		}
	}
	return out
}

func checkChecklist(ctx *Context) []domain.Violation {
	if !ctx.Profile.Metadata {
		return nil
	}
	if strings.Contains(strings.ToLower(ctx.Doc.Body), "checklist") {
		return nil
	}
	return []domain.Violation{headerViolation(domain.RuleStructureChecklist, domain.SeverityWarning,
		"Missing Implementation Checklist", "Add an Implementation Checklist section")}
}

func checkTagsMissing(ctx *Context) []domain.Violation {
	if !ctx.Profile.Metadata {
		return nil
	}
	body := ctx.Doc.Body
	if strings.Contains(body, "[REQUIRED]") || strings.Contains(body, "[RECOMMENDED]") {
		return nil
	}
	return []domain.Violation{headerViolation(domain.RuleTagsMissing, domain.SeverityWarning,
		"No [REQUIRED] or [RECOMMENDED] tags found",
		"Add requirement level tags to important sections")}
}

func checkTagsPlacement(ctx *Context) []domain.Violation {
	if !ctx.Profile.Metadata {
		return nil
	}
	var out []domain.Violation
	for i, line := range ctx.bodyLines {
		if !tagRe.MatchString(line) {
			continue
		}
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "#") || strings.HasPrefix(stripped, "[") {
			continue
		}
		out = append(out, domain.Violation{
			Rule:     domain.RuleTagsPlacement,
			Severity: domain.SeverityWarning,
			Line:     ctx.bodyLine(i + 1),
			Column:   1,
			Message:  "Requirement tag should be in a header or at line start",
			Fix:      "Move the tag into the header: ### [REQUIRED] Section Name",
		})
	}
	return out
}

// missingLevel builds the violation for an absent Level section.
func missingLevel(rule string, sev domain.Severity, n int, hint string) domain.Violation {
	return headerViolation(rule, sev,
		fmt.Sprintf("Missing Level %d section", n),
		fmt.Sprintf("Add ## Level %d: %s", n, hint))
}

func checkLevel1Missing(ctx *Context) []domain.Violation {
	if !ctx.Profile.Frontmatter {
		return nil
	}
	if _, found := ctx.level(1); found {
		return nil
	}
	return []domain.Violation{missingLevel(domain.RuleLevel1Missing, domain.SeverityError, 1, "Quick Start")}
}

func checkLevel2Missing(ctx *Context) []domain.Violation {
	if !ctx.Profile.Frontmatter {
		return nil
	}
	if _, found := ctx.level(2); found {
		return nil
	}
	return []domain.Violation{missingLevel(domain.RuleLevel2Missing, domain.SeverityError, 2, "Implementation")}
}

func checkLevel3Missing(ctx *Context) []domain.Violation {
	if !ctx.Profile.Frontmatter {
		return nil
	}
	if _, found := ctx.level(3); found {
		return nil
	}
	return []domain.Violation{missingLevel(domain.RuleLevel3Missing, ctx.Profile.Level3MissingSeverity, 3, "Mastery")}
}

// checkLevelTokenBounds enforces the per-level token budgets: Level 1
// and Level 2 within their configured bands, Level 3 under a small cap
// since it should hold mostly links.
func checkLevelTokenBounds(ctx *Context) []domain.Violation {
	if !ctx.Profile.Frontmatter {
		return nil
	}
	var out []domain.Violation

	if sec, found := ctx.level(1); found {
		b := ctx.Profile.Level1
		if sec.Tokens < b.Min || sec.Tokens > b.Max {
			out = append(out, domain.Violation{
				Rule:     domain.RuleLevel1TokenBounds,
				Severity: domain.SeverityWarning,
				Line:     ctx.bodyLine(sec.Line),
				Column:   1,
				Message:  fmt.Sprintf("Level 1 tokens: %d (expected: %d-%d)", sec.Tokens, b.Min, b.Max),
				Fix:      "Trim or expand the Quick Start to fit its budget",
			})
		}
	}
	if sec, found := ctx.level(2); found {
		b := ctx.Profile.Level2
		if sec.Tokens < b.Min || sec.Tokens > b.Max {
			out = append(out, domain.Violation{
				Rule:     domain.RuleLevel2TokenBounds,
				Severity: domain.SeverityWarning,
				Line:     ctx.bodyLine(sec.Line),
				Column:   1,
				Message:  fmt.Sprintf("Level 2 tokens: %d (expected: %d-%d)", sec.Tokens, b.Min, b.Max),
				Fix:      "Move detail into Level 3 references",
			})
		}
	}
	if sec, found := ctx.level(3); found {
		if ceiling := ctx.Profile.Level3Cap; sec.Tokens > ceiling {
			out = append(out, domain.Violation{
				Rule:     domain.RuleLevel3TokenBounds,
				Severity: domain.SeverityWarning,
				Line:     ctx.bodyLine(sec.Line),
				Column:   1,
				Message:  fmt.Sprintf("Level 3 tokens: %d (expected: <%d, mostly references)", sec.Tokens, ceiling),
				Fix:      "Replace inline content with links to reference files",
			})
		}
	}
	return out
}

func checkExamplesMissing(ctx *Context) []domain.Violation {
	body := ctx.Doc.Body
	if examplesRe.MatchString(body) || !strings.Contains(body, "Implementation") {
		return nil
	}
	return []domain.Violation{headerViolation(domain.RuleExamplesMissing, domain.SeverityWarning,
		"No Examples section found", "Add practical examples")}
}

// checkCodeFenceLanguage flags opening fences without a language tag.
func checkCodeFenceLanguage(ctx *Context) []domain.Violation {
	var out []domain.Violation
	inFence := false
	for i, line := range ctx.bodyLines {
		stripped := strings.TrimSpace(line)
		if !strings.HasPrefix(stripped, "```") {
			continue
		}
		if inFence {
			inFence = false
			continue
		}
		inFence = true
		if strings.TrimSpace(strings.TrimPrefix(stripped, "```")) == "" {
			out = append(out, domain.Violation{
				Rule:     domain.RuleExamplesLanguage,
				Severity: domain.SeverityWarning,
				Line:     ctx.bodyLine(i + 1),
				Column:   1,
				Message:  "Code block missing language specifier",
				Fix:      "Add a language after ``` (e.g. ```go)",
			})
		}
	}
	return out
}
