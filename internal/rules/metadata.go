package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/eykd/skillmark-go/internal/domain"
	"github.com/eykd/skillmark-go/internal/slug"
)

const (
	maxNameLength        = 64
	maxDescriptionLength = 1024
)

// reservedNames cannot be used as a skill name.
var reservedNames = map[string]bool{
	"skill":       true,
	"name":        true,
	"description": true,
	"content":     true,
	"type":        true,
	"version":     true,
}

var (
	versionRe = regexp.MustCompile(`^\*\*Version:\*\*\s+\d+\.\d+\.\d+\s*$`)
	dateRe    = regexp.MustCompile(`^\*\*Last Updated:\*\*\s+\d{4}-\d{2}-\d{2}\s*$`)
	statusRe  = regexp.MustCompile(`^\*\*Status:\*\*\s+(Draft|Active|Deprecated)\s*$`)
	codeRe    = regexp.MustCompile(`^\*\*Standard Code:\*\*\s+[A-Z]{2,4}\s*$`)
	nameRe    = regexp.MustCompile(`^[a-z0-9-]+$`)
	xmlTagRe  = regexp.MustCompile(`<[^>]+>`)
)

// headerViolation builds a violation anchored at the top of the file.
func headerViolation(rule string, sev domain.Severity, message, fix string) domain.Violation {
	return domain.Violation{Rule: rule, Severity: sev, Line: 1, Column: 1, Message: message, Fix: fix}
}

func anyLineMatches(lines []string, re *regexp.Regexp) bool {
	for _, line := range lines {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func checkMetadataVersion(ctx *Context) []domain.Violation {
	if !ctx.Profile.Metadata || anyLineMatches(ctx.head(), versionRe) {
		return nil
	}
	return []domain.Violation{headerViolation(domain.RuleMetadataVersion, domain.SeverityError,
		"Missing or invalid version metadata", "Add: **Version:** X.Y.Z")}
}

func checkMetadataDate(ctx *Context) []domain.Violation {
	if !ctx.Profile.Metadata || anyLineMatches(ctx.head(), dateRe) {
		return nil
	}
	return []domain.Violation{headerViolation(domain.RuleMetadataDate, domain.SeverityError,
		"Missing or invalid Last Updated metadata", "Add: **Last Updated:** YYYY-MM-DD")}
}

func checkMetadataStatus(ctx *Context) []domain.Violation {
	if !ctx.Profile.Metadata || anyLineMatches(ctx.head(), statusRe) {
		return nil
	}
	return []domain.Violation{headerViolation(domain.RuleMetadataStatus, domain.SeverityError,
		"Missing or invalid Status metadata", "Add: **Status:** Draft, Active, or Deprecated")}
}

func checkMetadataCode(ctx *Context) []domain.Violation {
	if !ctx.Profile.Metadata || ctx.base() == ctx.Profile.UnifiedName {
		return nil
	}
	if anyLineMatches(ctx.head(), codeRe) {
		return nil
	}
	return []domain.Violation{headerViolation(domain.RuleMetadataCode, domain.SeverityWarning,
		"Missing Standard Code metadata", "Add: **Standard Code:** XX (2-4 uppercase letters)")}
}

func checkNameMissing(ctx *Context) []domain.Violation {
	if !ctx.Profile.Frontmatter {
		return nil
	}
	if name, _ := ctx.Doc.StringField("name"); name != "" {
		return nil
	}
	return []domain.Violation{headerViolation(domain.RuleNameMissing, domain.SeverityError,
		"Missing required frontmatter field: 'name'", "Add name: <skill-name> to the frontmatter")}
}

func checkNameTooLong(ctx *Context) []domain.Violation {
	if !ctx.Profile.Frontmatter {
		return nil
	}
	name, _ := ctx.Doc.StringField("name")
	if n := utf8.RuneCountInString(name); n > maxNameLength {
		return []domain.Violation{headerViolation(domain.RuleNameTooLong, domain.SeverityError,
			fmt.Sprintf("Name exceeds %d characters (current: %d)", maxNameLength, n),
			"Shorten the name")}
	}
	return nil
}

func checkNameInvalidChars(ctx *Context) []domain.Violation {
	if !ctx.Profile.Frontmatter {
		return nil
	}
	name, _ := ctx.Doc.StringField("name")
	if name == "" || nameRe.MatchString(name) {
		return nil
	}
	// A reserved word is reported once, by the reserved-name rule.
	if reservedNames[strings.ToLower(name)] {
		return nil
	}
	fix := "Use only lowercase letters, numbers, and hyphens"
	if suggestion := slug.Name(name); suggestion != "" {
		fix = fmt.Sprintf("Use only lowercase letters, numbers, and hyphens (e.g. %q)", suggestion)
	}
	return []domain.Violation{headerViolation(domain.RuleNameInvalidChars, domain.SeverityError,
		fmt.Sprintf("Name %q contains invalid characters", name), fix)}
}

func checkNameReserved(ctx *Context) []domain.Violation {
	if !ctx.Profile.Frontmatter {
		return nil
	}
	name, _ := ctx.Doc.StringField("name")
	if name == "" || !reservedNames[strings.ToLower(name)] {
		return nil
	}
	return []domain.Violation{headerViolation(domain.RuleNameReserved, domain.SeverityError,
		fmt.Sprintf("Name %q is a reserved word", name), "Choose a different name")}
}

func checkDescriptionMissing(ctx *Context) []domain.Violation {
	if !ctx.Profile.Frontmatter {
		return nil
	}
	if desc, _ := ctx.Doc.StringField("description"); desc != "" {
		return nil
	}
	return []domain.Violation{headerViolation(domain.RuleDescMissing, domain.SeverityError,
		"Missing required frontmatter field: 'description'",
		"Add a one-sentence description to the frontmatter")}
}

func checkDescriptionTooLong(ctx *Context) []domain.Violation {
	if !ctx.Profile.Frontmatter {
		return nil
	}
	desc, _ := ctx.Doc.StringField("description")
	if n := utf8.RuneCountInString(desc); n > maxDescriptionLength {
		return []domain.Violation{headerViolation(domain.RuleDescTooLong, domain.SeverityError,
			fmt.Sprintf("Description exceeds %d characters (current: %d)", maxDescriptionLength, n),
			"Shorten the description")}
	}
	return nil
}

func checkNoXMLTags(ctx *Context) []domain.Violation {
	if !ctx.Profile.Frontmatter {
		return nil
	}
	var out []domain.Violation
	for _, field := range []string{"name", "description"} {
		value, _ := ctx.Doc.StringField(field)
		if value != "" && xmlTagRe.MatchString(value) {
			out = append(out, headerViolation(domain.RuleNoXMLTags, domain.SeverityError,
				fmt.Sprintf("Field %q contains an XML tag", field), "Remove angle-bracket tags"))
		}
	}
	return out
}
