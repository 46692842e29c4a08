package rules

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/eykd/skillmark-go/internal/domain"
)

const maxLineLength = 120

var linkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// lowQualityLinkText reads as noise in a report and in a screen reader.
var lowQualityLinkText = map[string]bool{
	"here":       true,
	"click here": true,
	"this":       true,
}

// checkXrefBroken resolves relative link targets against the document's
// directory and flags targets that do not exist.
func checkXrefBroken(ctx *Context) []domain.Violation {
	var out []domain.Violation
	dir := path.Dir(strings.ReplaceAll(ctx.Doc.Path, "\\", "/"))
	for i, line := range ctx.lines {
		for _, m := range linkRe.FindAllStringSubmatchIndex(line, -1) {
			target := line[m[4]:m[5]]
			if !strings.HasPrefix(target, "./") && !strings.HasPrefix(target, "../") {
				continue
			}
			target, _, _ = strings.Cut(target, "#")
			if ctx.Exists(path.Join(dir, target)) {
				continue
			}
			out = append(out, domain.Violation{
				Rule:     domain.RuleXrefBroken,
				Severity: domain.SeverityError,
				Line:     i + 1,
				Column:   m[0] + 1,
				Message:  fmt.Sprintf("Broken link: %s", line[m[4]:m[5]]),
				Fix:      "Fix the link path or remove the link",
			})
		}
	}
	return out
}

func checkXrefText(ctx *Context) []domain.Violation {
	var out []domain.Violation
	for i, line := range ctx.lines {
		for _, m := range linkRe.FindAllStringSubmatchIndex(line, -1) {
			text := line[m[2]:m[3]]
			if !lowQualityLinkText[strings.ToLower(text)] {
				continue
			}
			out = append(out, domain.Violation{
				Rule:     domain.RuleXrefLowQualityText,
				Severity: domain.SeverityWarning,
				Line:     i + 1,
				Column:   m[0] + 1,
				Message:  fmt.Sprintf("Non-descriptive link text: %q", text),
				Fix:      "Use descriptive link text",
			})
		}
	}
	return out
}

func checkTokenBudgetTotal(ctx *Context) []domain.Violation {
	total := ctx.Est.Estimate(ctx.Doc.RawText)
	if total <= ctx.Profile.TotalTokenCeiling {
		return nil
	}
	return []domain.Violation{headerViolation(domain.RuleTokenBudgetTotal, domain.SeverityWarning,
		fmt.Sprintf("Document has ~%d estimated tokens (ceiling %d)", total, ctx.Profile.TotalTokenCeiling),
		"Consider splitting into multiple documents")}
}

// checkTokenBudgetSections estimates every ##-level section of the body
// against the per-section ceiling.
func checkTokenBudgetSections(ctx *Context) []domain.Violation {
	var out []domain.Violation

	flush := func(name string, headerLine int, content []string) {
		if name == "" {
			return
		}
		tokens := ctx.Est.Estimate(strings.TrimSpace(strings.Join(content, "\n")))
		if tokens <= ctx.Profile.SectionTokenCeiling {
			return
		}
		out = append(out, domain.Violation{
			Rule:     domain.RuleTokenBudgetSection,
			Severity: domain.SeverityInfo,
			Line:     ctx.bodyLine(headerLine),
			Column:   1,
			Message:  fmt.Sprintf("Section %q has ~%d estimated tokens (ceiling %d)", name, tokens, ctx.Profile.SectionTokenCeiling),
			Fix:      "Use progressive disclosure or split the section",
		})
	}

	var name string
	var headerLine int
	var content []string
	for i, line := range ctx.bodyLines {
		if strings.HasPrefix(line, "## ") {
			flush(name, headerLine, content)
			name = strings.TrimSpace(strings.TrimPrefix(line, "## "))
			headerLine = i + 1
			content = nil
			continue
		}
		content = append(content, line)
	}
	flush(name, headerLine, content)
	return out
}

func checkTrailingWhitespace(ctx *Context) []domain.Violation {
	var out []domain.Violation
	for i, line := range ctx.lines {
		if !strings.HasSuffix(line, " ") && !strings.HasSuffix(line, "\t") {
			continue
		}
		out = append(out, domain.Violation{
			Rule:     domain.RuleFormatTrailing,
			Severity: domain.SeverityError,
			Line:     i + 1,
			Column:   utf8.RuneCountInString(line),
			Message:  "Trailing whitespace",
			Fix:      "Remove trailing spaces",
		})
	}
	return out
}

// checkLineLength flags over-long lines outside code fences, excluding
// URL lines which cannot be wrapped.
func checkLineLength(ctx *Context) []domain.Violation {
	var out []domain.Violation
	inFence := false
	for i, line := range ctx.lines {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "```") {
			inFence = !inFence
			continue
		}
		if inFence || strings.HasPrefix(stripped, "http") {
			continue
		}
		n := utf8.RuneCountInString(line)
		if n <= maxLineLength {
			continue
		}
		out = append(out, domain.Violation{
			Rule:     domain.RuleFormatLineLength,
			Severity: domain.SeverityWarning,
			Line:     i + 1,
			Column:   maxLineLength + 1,
			Message:  fmt.Sprintf("Line too long (%d > %d)", n, maxLineLength),
			Fix:      "Break the line at an appropriate point",
		})
	}
	return out
}

func checkBlankLines(ctx *Context) []domain.Violation {
	var out []domain.Violation
	run := 0
	for i, line := range ctx.lines {
		if line != "" {
			run = 0
			continue
		}
		run++
		if run < 3 {
			continue
		}
		out = append(out, domain.Violation{
			Rule:     domain.RuleFormatBlankLines,
			Severity: domain.SeverityWarning,
			Line:     i + 1,
			Column:   1,
			Message:  "Multiple consecutive blank lines",
			Fix:      "Use at most 2 consecutive blank lines",
		})
	}
	return out
}
