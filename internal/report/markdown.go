package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/eykd/skillmark-go/internal/domain"
)

// Remediation buckets by per-document score.
const (
	bucketCritical  = "Critical"
	bucketHigh      = "High"
	bucketMedium    = "Medium"
	bucketCompliant = "Compliant"
)

var bucketOrder = []string{bucketCritical, bucketHigh, bucketMedium, bucketCompliant}

func bucketOf(score int) string {
	switch {
	case score < 60:
		return bucketCritical
	case score < 80:
		return bucketHigh
	case score < 100:
		return bucketMedium
	}
	return bucketCompliant
}

// missingSectionRules feed the missing-sections frequency table.
var missingSectionRules = map[string]string{
	domain.RuleLevel1Missing:    "Level 1: Quick Start",
	domain.RuleLevel2Missing:    "Level 2: Implementation",
	domain.RuleLevel3Missing:    "Level 3: Mastery",
	domain.RuleExamplesMissing:  "Examples",
	domain.RuleStructureTOC:     "Table of Contents",
	domain.RuleStructureSection: "Required sections",
}

func formatMarkdown(r *domain.Report) string {
	var b strings.Builder
	b.WriteString("# Compliance Report\n\n")
	fmt.Fprintf(&b, "**Total Documents**: %d\n", r.Total)
	fmt.Fprintf(&b, "**Compliant**: %d\n", r.CompliantCount)
	fmt.Fprintf(&b, "**Non-Compliant**: %d\n", r.NonCompliantCount)
	fmt.Fprintf(&b, "**Compliance Rate**: %.1f%%\n\n", r.ComplianceRate)

	buckets := map[string][]domain.Verdict{}
	for _, d := range r.Documents {
		key := bucketOf(d.Score)
		buckets[key] = append(buckets[key], d)
	}

	b.WriteString("## Score Distribution\n\n")
	b.WriteString("| Priority | Score | Documents |\n")
	b.WriteString("|----------|-------|-----------|\n")
	ranges := map[string]string{
		bucketCritical:  "<60",
		bucketHigh:      "60-79",
		bucketMedium:    "80-99",
		bucketCompliant: "100",
	}
	for _, name := range bucketOrder {
		fmt.Fprintf(&b, "| %s | %s | %d |\n", name, ranges[name], len(buckets[name]))
	}
	b.WriteString("\n")

	for _, name := range bucketOrder {
		if name == bucketCompliant {
			continue
		}
		fmt.Fprintf(&b, "## %s Priority\n\n", name)
		docs := buckets[name]
		if len(docs) == 0 {
			b.WriteString("*None*\n\n")
			continue
		}
		for _, d := range docs {
			fmt.Fprintf(&b, "### `%s` (score %d)\n\n", d.Path, d.Score)
			for _, v := range d.Violations {
				fmt.Fprintf(&b, "- **%s** [%s] %s\n", v.Severity, v.Rule, v.Message)
			}
			b.WriteString("\n")
		}
	}

	writeMissingSections(&b, r)

	if len(r.CrossFile) > 0 {
		b.WriteString("## Cross-File Checks\n\n")
		files := make([]string, 0, len(r.CrossFile))
		for f := range r.CrossFile {
			files = append(files, f)
		}
		sort.Strings(files)
		for _, f := range files {
			fmt.Fprintf(&b, "### `%s`\n\n", f)
			for _, v := range r.CrossFile[f] {
				fmt.Fprintf(&b, "- **%s** [%s] %s\n", v.Severity, v.Rule, v.Message)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// writeMissingSections renders the frequency table of absent sections
// across all documents.
func writeMissingSections(b *strings.Builder, r *domain.Report) {
	counts := map[string]int{}
	for _, d := range r.Documents {
		for _, v := range d.Violations {
			if label, ok := missingSectionRules[v.Rule]; ok {
				counts[label]++
			}
		}
	}
	if len(counts) == 0 {
		return
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})

	b.WriteString("## Missing Sections\n\n")
	b.WriteString("| Section | Documents Missing It |\n")
	b.WriteString("|---------|----------------------|\n")
	for _, label := range labels {
		fmt.Fprintf(b, "| %s | %d |\n", label, counts[label])
	}
	b.WriteString("\n")
}
