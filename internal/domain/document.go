// Package domain defines the record types of the compliance pipeline:
// documents under validation, the violations found in them, and the
// aggregated verdicts and reports. All types are plain serializable
// data, constructed once per run and never mutated afterward.
package domain

// Document is one markdown file under evaluation.
type Document struct {
	// Path identifies the file, relative to the scan root.
	Path string
	// RawText is the full file content as read.
	RawText string
	// Frontmatter is the parsed leading YAML mapping, nil when the file
	// has no frontmatter block at all.
	Frontmatter map[string]any
	// Body is the text following the frontmatter block, or the full
	// text when no block exists.
	Body string
}

// StringField returns the named frontmatter field when it is a
// non-empty string, and reports whether the field was present at all.
func (d Document) StringField(key string) (string, bool) {
	if d.Frontmatter == nil {
		return "", false
	}
	v, ok := d.Frontmatter[key]
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, true
}
