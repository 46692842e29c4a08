// Package frontmatter parses the leading YAML metadata block delimited
// by --- lines at the top of a markdown document.
//
// Parsing is best-effort and never fails: documents with malformed or
// unterminated frontmatter are recovered by line scanning so that a
// single broken file cannot abort a repository scan. Callers can
// distinguish "no frontmatter at all" (nil Fields) from "frontmatter
// present but empty or irrecoverable" (non-nil empty Fields).
package frontmatter

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Result holds the outcome of splitting a document.
type Result struct {
	// Fields is the parsed frontmatter mapping. It is nil only when the
	// document has no leading --- delimiter.
	Fields map[string]any
	// Body is everything after the frontmatter block, or the whole
	// document when no block exists.
	Body string
	// Recovered is true when the block was malformed and a line-scanning
	// fallback produced Fields.
	Recovered bool
}

// trimCR drops a trailing carriage return so CRLF documents compare
// delimiter lines correctly.
func trimCR(line string) string {
	return strings.TrimSuffix(line, "\r")
}

// Parse splits a document into frontmatter and body.
func Parse(input string) Result {
	first, rest, hasRest := strings.Cut(input, "\n")
	if trimCR(first) != delimiter {
		return Result{Fields: nil, Body: input}
	}
	if !hasRest {
		return Result{Fields: map[string]any{}, Body: "", Recovered: true}
	}

	block, body, closed := splitAtClosingDelimiter(rest)
	if !closed {
		// Unterminated block: scan forward for key: value lines and stop
		// at the first markdown heading or fenced code block.
		block, body = recoverUnterminated(rest)
	}

	fields, clean := parseYAML(block)
	return Result{Fields: fields, Body: body, Recovered: !closed || !clean}
}

// splitAtClosingDelimiter scans rest line by line for a closing ---.
func splitAtClosingDelimiter(rest string) (block, body string, closed bool) {
	pos := 0
	for pos <= len(rest) {
		nl := strings.IndexByte(rest[pos:], '\n')

		var line string
		var next int
		if nl < 0 {
			line = rest[pos:]
			next = len(rest) + 1
		} else {
			line = rest[pos : pos+nl]
			next = pos + nl + 1
		}

		if trimCR(line) == delimiter {
			if nl < 0 {
				return rest[:pos], "", true
			}
			return rest[:pos], rest[next:], true
		}
		pos = next
	}
	return "", "", false
}

// recoverUnterminated accumulates key: value lines until the first line
// that reads as markdown (heading or code fence) or fails the key:
// value shape. That line and everything after it become the body.
func recoverUnterminated(rest string) (block, body string) {
	lines := strings.Split(rest, "\n")
	var kept []string

	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(stripped, "#"), strings.HasPrefix(stripped, "```"):
			return strings.Join(kept, "\n"), strings.Join(lines[i:], "\n")
		case stripped == "":
			kept = append(kept, line)
		case isKeyValueLine(line):
			kept = append(kept, line)
		default:
			return strings.Join(kept, "\n"), strings.Join(lines[i:], "\n")
		}
	}
	return strings.Join(kept, "\n"), ""
}

// parseYAML parses a frontmatter block, falling back to line-by-line
// string pairs when the YAML is syntactically broken. The returned map
// is never nil; clean is false when the fallback was used.
func parseYAML(block string) (map[string]any, bool) {
	var fields map[string]any
	if err := yaml.Unmarshal([]byte(block), &fields); err == nil {
		if fields == nil {
			fields = map[string]any{}
		}
		return fields, true
	}

	fields = map[string]any{}
	for _, line := range strings.Split(block, "\n") {
		if !isKeyValueLine(line) {
			continue
		}
		key, value, _ := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key != "" && value != "" {
			fields[key] = value
		}
	}
	return fields, false
}

// isKeyValueLine reports whether a line has the shape "key: value" with
// the colon not at line start and the line not being a YAML list item.
func isKeyValueLine(line string) bool {
	stripped := strings.TrimSpace(line)
	if stripped == "" || strings.HasPrefix(stripped, "-") || strings.HasPrefix(stripped, "#") {
		return false
	}
	return strings.IndexByte(line, ':') > 0
}

// Serialize combines a frontmatter mapping and body into a document.
func Serialize(fields map[string]any, body string) (string, error) {
	data, err := yaml.Marshal(fields)
	if err != nil {
		return "", err
	}
	return delimiter + "\n" + string(data) + delimiter + "\n" + body, nil
}
