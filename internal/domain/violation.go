package domain

// Severity indicates how severe a violation is, ordered by blocking
// strength: errors fail a document, warnings and infos do not.
type Severity string

const (
	// SeverityError indicates a violation that makes the document
	// non-compliant.
	SeverityError Severity = "error"
	// SeverityWarning indicates a violation that should be reviewed.
	SeverityWarning Severity = "warning"
	// SeverityInfo indicates an advisory observation.
	SeverityInfo Severity = "info"
)

// Rule identifiers for metadata and frontmatter violations.
const (
	RuleMetadataVersion  = "metadata-version"
	RuleMetadataDate     = "metadata-date"
	RuleMetadataStatus   = "metadata-status"
	RuleMetadataCode     = "metadata-code"
	RuleNameMissing      = "name-missing"
	RuleNameTooLong      = "name-too-long"
	RuleNameInvalidChars = "name-invalid-chars"
	RuleNameReserved     = "name-reserved"
	RuleDescMissing      = "description-missing"
	RuleDescTooLong      = "description-too-long"
	RuleNoXMLTags        = "no-xml-tags"
)

// Rule identifiers for document structure violations.
const (
	RuleStructureTOC       = "structure-toc"
	RuleStructureSection   = "structure-required-section"
	RuleStructureChecklist = "structure-checklist"
	RuleTagsMissing        = "tags-missing"
	RuleTagsPlacement      = "tags-placement"
	RuleLevel1Missing      = "level1-missing"
	RuleLevel2Missing      = "level2-missing"
	RuleLevel3Missing      = "level3-missing"
	RuleLevel1TokenBounds  = "level1-token-bounds"
	RuleLevel2TokenBounds  = "level2-token-bounds"
	RuleLevel3TokenBounds  = "level3-token-bounds"
)

// Rule identifiers for content and formatting violations.
const (
	RuleExamplesMissing    = "examples-missing"
	RuleExamplesLanguage   = "examples-language-missing"
	RuleXrefBroken         = "xref-broken"
	RuleXrefLowQualityText = "xref-low-quality-text"
	RuleTokenBudgetTotal   = "token-budget-total"
	RuleTokenBudgetSection = "token-budget-section"
	RuleFormatTrailing     = "format-trailing-whitespace"
	RuleFormatLineLength   = "format-line-too-long"
	RuleFormatBlankLines   = "format-excess-blank-lines"
)

// Rule identifiers for evaluation failures and cross-file checks.
const (
	RuleValidatorError  = "validator-error"
	RuleEvalError       = "rule-eval-error"
	RuleManifestMissing = "manifest-missing"
	RuleManifestAbsent  = "manifest-not-found"
	RuleIndexMissing    = "index-missing"
	RuleIndexAbsent     = "index-not-found"
	RuleGraphRelation   = "graph-relationship"
	RuleGraphAbsent     = "graph-not-found"
)

// Violation is one detected compliance problem in a document.
type Violation struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Message  string   `json:"message"`
	Fix      string   `json:"fix,omitempty"`
}
