package rules

import (
	"github.com/eykd/skillmark-go/internal/domain"
	"github.com/eykd/skillmark-go/internal/token"
)

// Bounds is an inclusive token-count range.
type Bounds struct {
	Min int
	Max int
}

// Profile configures which rules run and with what thresholds. The two
// built-in profiles correspond to the two document families of the
// knowledge base: skill documents (frontmatter + progressive-disclosure
// levels) and standards documents (bold metadata headers + structure).
type Profile struct {
	Name string

	// TokenPolicy is applied to every estimate this profile makes.
	// A single profile never mixes policies.
	TokenPolicy token.Policy

	// Frontmatter enables the name/description/level rules.
	Frontmatter bool
	// Metadata enables the bold-metadata, structure, and tag rules.
	Metadata bool

	Level1 Bounds
	Level2 Bounds
	// Level3Cap is the token ceiling for Level 3, which is intended to
	// hold mostly links.
	Level3Cap int
	// Level3MissingSeverity lets a profile treat an absent Level 3 as a
	// warning instead of an error.
	Level3MissingSeverity domain.Severity

	TotalTokenCeiling   int
	SectionTokenCeiling int

	// UnifiedName is the basename of the aggregate document exempt from
	// the standard-code rule.
	UnifiedName string
}

// Skill is the profile for SKILL.md documents.
func Skill() Profile {
	return Profile{
		Name:                  "skill",
		TokenPolicy:           token.CharBased,
		Frontmatter:           true,
		Level1:                Bounds{Min: 100, Max: 200},
		Level2:                Bounds{Min: 1000, Max: 5000},
		Level3Cap:             100,
		Level3MissingSeverity: domain.SeverityError,
		TotalTokenCeiling:     5000,
		SectionTokenCeiling:   3000,
	}
}

// Standards is the profile for *_STANDARDS.md documents.
func Standards() Profile {
	return Profile{
		Name:                "standards",
		TokenPolicy:         token.WordBased,
		Metadata:            true,
		TotalTokenCeiling:   15000,
		SectionTokenCeiling: 3000,
		UnifiedName:         "UNIFIED_STANDARDS.md",
	}
}

// ByName returns the named built-in profile.
func ByName(name string) (Profile, bool) {
	switch name {
	case "skill":
		return Skill(), true
	case "standards":
		return Standards(), true
	}
	return Profile{}, false
}
