// Package report renders an aggregated compliance report as text,
// JSON, or markdown. Formatting is a pure function of the report:
// violations are sorted explicitly so output is deterministic
// regardless of scan order.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/eykd/skillmark-go/internal/domain"
)

// Mode selects the output format.
type Mode string

const (
	ModeText     Mode = "text"
	ModeJSON     Mode = "json"
	ModeMarkdown Mode = "markdown"
)

// ParseMode validates a format flag value.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeText, ModeJSON, ModeMarkdown:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown format %q (want text, json, or markdown)", s)
}

// Format renders the report in the given mode.
func Format(r *domain.Report, mode Mode) (string, error) {
	switch mode {
	case ModeText:
		return formatText(r), nil
	case ModeJSON:
		return formatJSON(r)
	case ModeMarkdown:
		return formatMarkdown(r), nil
	}
	return "", fmt.Errorf("unknown format %q", mode)
}

// row is one violation joined with the file it belongs to.
type row struct {
	File string
	V    domain.Violation
}

// flatten collects all violations, document and cross-file alike,
// sorted by (file, line, column, rule).
func flatten(r *domain.Report) []row {
	var rows []row
	for _, d := range r.Documents {
		for _, v := range d.Violations {
			rows = append(rows, row{File: d.Path, V: v})
		}
	}
	for file, vs := range r.CrossFile {
		for _, v := range vs {
			rows = append(rows, row{File: file, V: v})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.V.Line != b.V.Line {
			return a.V.Line < b.V.Line
		}
		if a.V.Column != b.V.Column {
			return a.V.Column < b.V.Column
		}
		return a.V.Rule < b.V.Rule
	})
	return rows
}

var severityMarks = map[domain.Severity]string{
	domain.SeverityError:   "✗",
	domain.SeverityWarning: "⚠",
	domain.SeverityInfo:    "ℹ",
}

func formatText(r *domain.Report) string {
	var b strings.Builder
	b.WriteString("Compliance Report\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "Files checked: %d\n", r.Total)
	fmt.Fprintf(&b, "Compliant: %d (%.1f%%)\n", r.CompliantCount, r.ComplianceRate)
	fmt.Fprintf(&b, "Issues found: %d\n", r.ErrorCount+r.WarningCount+r.InfoCount)
	fmt.Fprintf(&b, "  Errors: %d\n", r.ErrorCount)
	fmt.Fprintf(&b, "  Warnings: %d\n", r.WarningCount)
	fmt.Fprintf(&b, "  Info: %d\n", r.InfoCount)

	rows := flatten(r)
	var current string
	for _, row := range rows {
		if row.File != current {
			current = row.File
			fmt.Fprintf(&b, "\n%s:\n", current)
		}
		mark := severityMarks[row.V.Severity]
		fmt.Fprintf(&b, "  %d:%d %s [%s] %s\n", row.V.Line, row.V.Column, mark, row.V.Rule, row.V.Message)
		if row.V.Fix != "" {
			fmt.Fprintf(&b, "         Fix: %s\n", row.V.Fix)
		}
	}
	return b.String()
}

// jsonReport is the stable JSON schema: summary first, then the
// flattened violation list.
type jsonReport struct {
	Summary struct {
		Total          int     `json:"total"`
		Compliant      int     `json:"compliant"`
		NonCompliant   int     `json:"non_compliant"`
		ComplianceRate float64 `json:"compliance_rate"`
		Errors         int     `json:"errors"`
		Warnings       int     `json:"warnings"`
		Info           int     `json:"info"`
	} `json:"summary"`
	Violations []jsonViolation `json:"violations"`
}

type jsonViolation struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Fix      string `json:"fix,omitempty"`
}

func formatJSON(r *domain.Report) (string, error) {
	out := jsonReport{Violations: []jsonViolation{}}
	out.Summary.Total = r.Total
	out.Summary.Compliant = r.CompliantCount
	out.Summary.NonCompliant = r.NonCompliantCount
	out.Summary.ComplianceRate = r.ComplianceRate
	out.Summary.Errors = r.ErrorCount
	out.Summary.Warnings = r.WarningCount
	out.Summary.Info = r.InfoCount

	for _, row := range flatten(r) {
		out.Violations = append(out.Violations, jsonViolation{
			File:     row.File,
			Line:     row.V.Line,
			Column:   row.V.Column,
			Rule:     row.V.Rule,
			Severity: string(row.V.Severity),
			Message:  row.V.Message,
			Fix:      row.V.Fix,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}
	return string(data) + "\n", nil
}
