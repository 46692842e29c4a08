package scan

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/eykd/skillmark-go/internal/domain"
	"github.com/eykd/skillmark-go/internal/rules"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func compliantSkill() string {
	return "---\nname: api-security\ndescription: Security guidance for REST APIs.\n---\n" +
		"## Level 1: Quick Start\n\n" + words(120) + "\n\n" +
		"## Level 2: Implementation\n\n" + words(2000) + "\n\n" +
		"## Level 3: Mastery\n\n- [Reference](https://example.com)\n"
}

func TestScan_EmptyDirectory(t *testing.T) {
	root := t.TempDir()

	report, err := New(root, "**/SKILL.md", rules.Skill()).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if report.Total != 0 {
		t.Errorf("Total = %d, want 0", report.Total)
	}
	if report.ComplianceRate != 0 {
		t.Errorf("ComplianceRate = %v, want 0 for empty scan", report.ComplianceRate)
	}
}

func TestScan_MissingRootFails(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope"), "**/SKILL.md", rules.Skill()).Scan(context.Background())
	if err == nil {
		t.Fatal("Scan() error = nil, want error for missing root")
	}
}

func TestScan_InvalidPatternFails(t *testing.T) {
	_, err := New(t.TempDir(), "[", rules.Skill()).Scan(context.Background())
	if err == nil {
		t.Fatal("Scan() error = nil, want error for invalid pattern")
	}
}

func TestScan_CompliantAndNonCompliantMix(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "skills/good/SKILL.md", compliantSkill())
	// Reserved name, missing description, broken relative link: 3 errors.
	writeFile(t, root, "skills/bad/SKILL.md",
		"---\nname: SKILL\n---\n"+
			"## Level 1: Quick Start\n\nx\n## Level 2: Implementation\n\nsee [docs](./missing.md)\n## Level 3: Mastery\n\nx\n")

	report, err := New(root, "**/SKILL.md", rules.Skill()).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if report.Total != 2 {
		t.Fatalf("Total = %d, want 2", report.Total)
	}
	if report.CompliantCount != 1 || report.NonCompliantCount != 1 {
		t.Errorf("compliant/non-compliant = %d/%d, want 1/1",
			report.CompliantCount, report.NonCompliantCount)
	}
	if report.ErrorCount != 3 {
		t.Errorf("ErrorCount = %d, want 3", report.ErrorCount)
	}
	if report.ComplianceRate != 50 {
		t.Errorf("ComplianceRate = %v, want 50", report.ComplianceRate)
	}

	var paths []string
	for _, d := range report.Documents {
		paths = append(paths, d.Path)
	}
	want := []string{"skills/bad/SKILL.md", "skills/good/SKILL.md"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("document order = %v, want sorted %v", paths, want)
	}
}

func TestScan_BrokenLinkResolvesAgainstDocumentDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "skills/api/SKILL.md",
		compliantSkill()+"\nSee [here](./missing.md).\nAnd [guide](./ref/guide.md#anchor).\n")
	writeFile(t, root, "skills/api/ref/guide.md", "# Guide\n")

	report, err := New(root, "**/SKILL.md", rules.Skill()).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	var broken, lowQuality int
	for _, v := range report.Documents[0].Violations {
		switch v.Rule {
		case domain.RuleXrefBroken:
			broken++
			if !strings.Contains(v.Message, "./missing.md") {
				t.Errorf("broken link message %q does not name target", v.Message)
			}
		case domain.RuleXrefLowQualityText:
			lowQuality++
		}
	}
	if broken != 1 {
		t.Errorf("xref-broken count = %d, want 1 (existing target must resolve)", broken)
	}
	if lowQuality != 1 {
		t.Errorf("xref-low-quality-text count = %d, want 1", lowQuality)
	}
}

func TestScan_SkipsExcludedDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "skills/ok/SKILL.md", compliantSkill())
	writeFile(t, root, "node_modules/pkg/SKILL.md", "junk")
	writeFile(t, root, ".git/SKILL.md", "junk")

	report, err := New(root, "**/SKILL.md", rules.Skill()).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if report.Total != 1 {
		t.Errorf("Total = %d, want 1 (excluded dirs must be skipped)", report.Total)
	}
}

func TestScan_Idempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "skills/a/SKILL.md", "---\nname: SKILL\n---\nbody \n")
	writeFile(t, root, "skills/b/SKILL.md", compliantSkill())

	s := New(root, "**/SKILL.md", rules.Skill())
	first, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	second, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("identical scans produced different reports")
	}
}

func TestScan_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "skills/a/SKILL.md", compliantSkill())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(root, "**/SKILL.md", rules.Skill()).Scan(ctx)
	if err == nil {
		t.Fatal("Scan() error = nil, want context error")
	}
}

func TestScan_StandardsCrossFileRules(t *testing.T) {
	root := t.TempDir()
	standards := "# CS\n\n**Version:** 1.0.0\n**Last Updated:** 2026-01-01\n**Status:** Active\n" +
		"**Standard Code:** CS\n\nTable of Contents\n\n## Overview\n\nx\n\n## Implementation\n\n" +
		"### [REQUIRED] Checklist\n\nx\n"
	writeFile(t, root, "CODING_STANDARDS.md", standards)
	writeFile(t, root, "MANIFEST.yaml",
		"standards:\n  CS:\n    full_name: CODING_STANDARDS.md\n")
	writeFile(t, root, "STANDARDS_INDEX.md", "- CODING_STANDARDS.md\n")
	writeFile(t, root, "STANDARDS_GRAPH.md", "requires recommends enhances\n")

	report, err := New(root, "*_STANDARDS.md", rules.Standards()).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if vs := report.CrossFile["MANIFEST.yaml"]; len(vs) != 0 {
		t.Errorf("manifest violations = %+v, want none", vs)
	}
	if vs := report.CrossFile["STANDARDS_INDEX.md"]; len(vs) != 0 {
		t.Errorf("index violations = %+v, want none", vs)
	}

	// "conflicts" is absent from the graph document.
	graph := report.CrossFile["STANDARDS_GRAPH.md"]
	if len(graph) != 1 || graph[0].Rule != domain.RuleGraphRelation {
		t.Fatalf("graph violations = %+v, want one %s", graph, domain.RuleGraphRelation)
	}
	if graph[0].Severity != domain.SeverityInfo {
		t.Errorf("graph violation severity = %s, want info", graph[0].Severity)
	}
}

func TestScan_MissingCollaboratorsAreInfo(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "X_STANDARDS.md", "# X\n")

	report, err := New(root, "*_STANDARDS.md", rules.Standards()).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	for file, rule := range map[string]string{
		"MANIFEST.yaml":      domain.RuleManifestAbsent,
		"STANDARDS_INDEX.md": domain.RuleIndexAbsent,
		"STANDARDS_GRAPH.md": domain.RuleGraphAbsent,
	} {
		vs := report.CrossFile[file]
		if len(vs) != 1 || vs[0].Rule != rule || vs[0].Severity != domain.SeverityInfo {
			t.Errorf("CrossFile[%s] = %+v, want one info %s", file, vs, rule)
		}
	}
}

func TestScan_ManifestOmission(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "A_STANDARDS.md", "# A\n")
	writeFile(t, root, "B_STANDARDS.md", "# B\n")
	writeFile(t, root, "MANIFEST.yaml", "standards:\n  A:\n    filename: A_STANDARDS.md\n")

	report, err := New(root, "*_STANDARDS.md", rules.Standards()).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	vs := report.CrossFile["MANIFEST.yaml"]
	if len(vs) != 1 {
		t.Fatalf("manifest violations = %+v, want exactly one", vs)
	}
	if vs[0].Rule != domain.RuleManifestMissing || !strings.Contains(vs[0].Message, "B_STANDARDS.md") {
		t.Errorf("violation = %+v, want %s naming B_STANDARDS.md", vs[0], domain.RuleManifestMissing)
	}
}
