// Package validate orchestrates compliance rule evaluation for single
// documents and turns the outcome into a verdict.
package validate

import (
	"fmt"

	"github.com/eykd/skillmark-go/internal/domain"
	"github.com/eykd/skillmark-go/internal/frontmatter"
	"github.com/eykd/skillmark-go/internal/rules"
)

// Score deductions per violation severity. The score is advisory; the
// compliance verdict depends only on error-severity violations.
const (
	errorDeduction   = 15
	warningDeduction = 5
	infoDeduction    = 1
)

// Validator validates one document at a time against a profile.
type Validator struct {
	ruleset *rules.RuleSet
}

// New builds a Validator. exists backs the broken-link rule.
func New(profile rules.Profile, exists rules.FileExists) *Validator {
	return &Validator{ruleset: rules.New(profile, exists)}
}

// Validate parses rawText and evaluates the rule table. It never
// panics: an internal failure becomes a single validator-error
// violation so one bad document cannot abort a repository scan.
func (v *Validator) Validate(path, rawText string) (verdict domain.Verdict) {
	defer func() {
		if rec := recover(); rec != nil {
			verdict = failedVerdict(path, fmt.Sprintf("validation failed: %v", rec))
		}
	}()

	fm := frontmatter.Parse(rawText)
	doc := domain.Document{
		Path:        path,
		RawText:     rawText,
		Frontmatter: fm.Fields,
		Body:        fm.Body,
	}

	violations := v.ruleset.Evaluate(doc)
	return buildVerdict(path, violations)
}

// FailedVerdict records a document that could not be read or decoded.
func FailedVerdict(path string, err error) domain.Verdict {
	return failedVerdict(path, fmt.Sprintf("could not read document: %v", err))
}

func failedVerdict(path, message string) domain.Verdict {
	return buildVerdict(path, []domain.Violation{{
		Rule:     domain.RuleValidatorError,
		Severity: domain.SeverityError,
		Line:     1,
		Column:   1,
		Message:  message,
	}})
}

func buildVerdict(path string, violations []domain.Violation) domain.Verdict {
	score := 100
	compliant := true
	for _, v := range violations {
		switch v.Severity {
		case domain.SeverityError:
			score -= errorDeduction
			compliant = false
		case domain.SeverityWarning:
			score -= warningDeduction
		default:
			score -= infoDeduction
		}
	}
	if score < 0 {
		score = 0
	}
	return domain.Verdict{Path: path, Violations: violations, Compliant: compliant, Score: score}
}
