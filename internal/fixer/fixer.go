// Package fixer repairs broken frontmatter in place. It is the only
// part of the toolkit that writes to scanned documents, and it never
// rewrites a file without first taking an exclusive repository lock
// and copying the original into a timestamped backup directory.
package fixer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/eykd/skillmark-go/internal/frontmatter"
	"github.com/eykd/skillmark-go/internal/lock"
	"github.com/eykd/skillmark-go/internal/scan"
	"github.com/eykd/skillmark-go/internal/slug"
)

const (
	lockFile      = ".skillmark.lock"
	backupRoot    = ".backup"
	maxNameLen    = 64
	maxDescLen    = 1024
	backupPattern = "skill-fixes-20060102-150405"
)

var validName = regexp.MustCompile(`^[a-z0-9-]+$`)

// Change records the repair of one document.
type Change struct {
	Path string `json:"path"`
	// Fields lists the frontmatter fields added or rewritten.
	Fields []string `json:"fields"`
	// Backup is the path of the pre-rewrite copy, empty on dry runs.
	Backup string `json:"backup,omitempty"`
}

// Result aggregates one fix run.
type Result struct {
	Changes []Change `json:"changes"`
	// Clean counts documents that needed no repair.
	Clean int `json:"clean"`
	// BackupDir is set when at least one file was rewritten.
	BackupDir string `json:"backup_dir,omitempty"`
	// Planned is true for dry runs.
	Planned bool `json:"planned"`
}

// Fixer repairs frontmatter for documents matching a glob under root.
type Fixer struct {
	root    string
	pattern string
	apply   bool
	now     func() time.Time
}

// New builds a Fixer. With apply false the run is a dry run: changes
// are reported but nothing is written.
func New(root, pattern string, apply bool) *Fixer {
	return &Fixer{root: root, pattern: pattern, apply: apply, now: time.Now}
}

// Fix repairs every matching document that needs it.
func (f *Fixer) Fix(ctx context.Context) (*Result, error) {
	paths, err := scan.Discover(f.root, f.pattern)
	if err != nil {
		return nil, err
	}

	result := &Result{Changes: []Change{}, Planned: !f.apply}

	var repoLock *lock.Lock
	if f.apply {
		repoLock = lock.NewFromPath(filepath.Join(f.root, lockFile))
		if err := repoLock.TryLock(ctx); err != nil {
			return nil, err
		}
		defer func() { _ = repoLock.Unlock() }()
	}

	for _, rel := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		change, fixed, err := f.fixFile(rel, result)
		if err != nil {
			return nil, err
		}
		if !fixed {
			result.Clean++
			continue
		}
		result.Changes = append(result.Changes, change)
	}

	return result, nil
}

// fixFile repairs one document, returning whether anything changed.
func (f *Fixer) fixFile(rel string, result *Result) (Change, bool, error) {
	abs := filepath.Join(f.root, filepath.FromSlash(rel))
	data, err := os.ReadFile(abs)
	if err != nil {
		return Change{}, false, fmt.Errorf("reading %s: %w", rel, err)
	}

	parsed := frontmatter.Parse(string(data))
	fields := map[string]any{}
	for k, v := range parsed.Fields {
		fields[k] = v
	}

	var changed []string
	if repaired := f.repairName(rel, fields); repaired {
		changed = append(changed, "name")
	}
	if repaired := repairDescription(fields, parsed.Body); repaired {
		changed = append(changed, "description")
	}
	// A recovered block is rewritten even when no field changed, so the
	// file ends up with a well-formed delimiter pair.
	if len(changed) == 0 && !parsed.Recovered {
		return Change{}, false, nil
	}

	change := Change{Path: rel, Fields: changed}
	if !f.apply {
		return change, true, nil
	}

	backup, err := f.backupFile(rel, data, result)
	if err != nil {
		return Change{}, false, err
	}
	change.Backup = backup

	doc, err := frontmatter.Serialize(fields, parsed.Body)
	if err != nil {
		return Change{}, false, fmt.Errorf("serializing %s: %w", rel, err)
	}
	if err := os.WriteFile(abs, []byte(doc), 0o644); err != nil {
		return Change{}, false, fmt.Errorf("writing %s: %w", rel, err)
	}
	return change, true, nil
}

// repairName fills or replaces an invalid name, derived from the
// document's directory.
func (f *Fixer) repairName(rel string, fields map[string]any) bool {
	if name, ok := fields["name"].(string); ok && name != "" &&
		len(name) <= maxNameLen && validName.MatchString(name) {
		return false
	}

	dir := filepath.Base(filepath.Dir(filepath.FromSlash(rel)))
	if dir == "." || dir == string(filepath.Separator) {
		base := filepath.Base(filepath.FromSlash(rel))
		dir = strings.TrimSuffix(base, filepath.Ext(base))
	}
	name := slug.Name(dir)
	if name == "" {
		name = "unnamed-skill"
	}
	if len(name) > maxNameLen {
		name = strings.Trim(name[:maxNameLen], "-")
	}
	fields["name"] = name
	return true
}

// repairDescription fills a missing description from the first prose
// paragraph of the body.
func repairDescription(fields map[string]any, body string) bool {
	if desc, ok := fields["description"].(string); ok && desc != "" {
		return false
	}

	desc := firstParagraph(body)
	if desc == "" {
		name, _ := fields["name"].(string)
		desc = fmt.Sprintf("Guidance and reference material for %s.", name)
	}
	fields["description"] = desc
	return true
}

// firstParagraph returns the first run of plain prose lines in body,
// skipping headings, fences, lists, and placeholder text.
func firstParagraph(body string) string {
	var para []string
	inFence := false
	for _, line := range strings.Split(body, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if stripped == "" {
			if len(para) > 0 {
				break
			}
			continue
		}
		if strings.HasPrefix(stripped, "#") || strings.HasPrefix(stripped, "-") ||
			strings.HasPrefix(stripped, "|") || strings.HasPrefix(stripped, "---") ||
			strings.Contains(strings.ToUpper(stripped), "TODO") {
			if len(para) > 0 {
				break
			}
			continue
		}
		para = append(para, stripped)
	}

	desc := strings.Join(para, " ")
	runes := []rune(desc)
	if len(runes) > maxDescLen {
		desc = strings.TrimSpace(string(runes[:maxDescLen]))
	}
	return desc
}

// backupFile copies the original file into the run's backup directory,
// creating the directory on first use.
func (f *Fixer) backupFile(rel string, data []byte, result *Result) (string, error) {
	if result.BackupDir == "" {
		stamp := f.now().Format(backupPattern)
		result.BackupDir = filepath.Join(f.root, backupRoot, stamp)
	}

	dest := filepath.Join(result.BackupDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("writing backup for %s: %w", rel, err)
	}
	return dest, nil
}
