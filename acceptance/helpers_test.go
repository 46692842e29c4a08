package acceptance_test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// runSkm executes the skm binary and returns stdout, stderr, and exit code.
func runSkm(t *testing.T, dir string, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(skmBinary, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("failed to run skm: %v", err)
		}
	}
	return stdout.String(), stderr.String(), exitCode
}

// runSkmSuccess runs skm expecting exit code 0 and returns stdout.
func runSkmSuccess(t *testing.T, dir string, args ...string) string {
	t.Helper()
	stdout, stderr, exitCode := runSkm(t, dir, args...)
	if exitCode != 0 {
		t.Fatalf("expected exit 0, got %d\nargs: %v\nstdout: %s\nstderr: %s", exitCode, args, stdout, stderr)
	}
	return stdout
}

// writeDoc creates a document at rel under dir, making parent directories.
func writeDoc(t *testing.T, dir, rel, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// words returns n space-separated filler words with no trailing space.
func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

// compliantSkill returns a skill document that passes every rule.
func compliantSkill() string {
	return "---\nname: api-security\ndescription: Security guidance for REST APIs.\n---\n" +
		"## Level 1: Quick Start\n\n" + words(120) + "\n\n" +
		"## Level 2: Implementation\n\n" + words(2000) + "\n\n" +
		"## Level 3: Mastery\n\n- [Reference](https://example.com)\n"
}

// brokenSkill returns a skill document with a reserved name and no description.
func brokenSkill() string {
	return "---\nname: SKILL\n---\n" +
		"## Level 1: Quick Start\n\nx\n## Level 2: Implementation\n\nx\n## Level 3: Mastery\n\nx\n"
}

// validateJSON runs skm validate --format json and parses the report.
func validateJSON(t *testing.T, dir string, extraArgs ...string) (map[string]interface{}, int) {
	t.Helper()
	args := append([]string{"validate", ".", "--format", "json"}, extraArgs...)
	stdout, stderr, exitCode := runSkm(t, dir, args...)
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("failed to parse validate JSON: %v\nstdout: %s\nstderr: %s", err, stdout, stderr)
	}
	return result, exitCode
}

// summaryInt extracts an integer field from the report summary.
func summaryInt(t *testing.T, result map[string]interface{}, key string) int {
	t.Helper()
	summary, ok := result["summary"].(map[string]interface{})
	if !ok {
		t.Fatal("missing summary in result")
	}
	v, ok := summary[key].(float64)
	if !ok {
		t.Fatalf("missing summary field %q", key)
	}
	return int(v)
}
