package domain

// Verdict is the aggregate validation result for one document.
type Verdict struct {
	// Path identifies the document, relative to the scan root.
	Path string `json:"path"`
	// Violations preserve rule evaluation order.
	Violations []Violation `json:"violations"`
	// Compliant is true iff no violation has error severity.
	Compliant bool `json:"compliant"`
	// Score is 0-100: 100 minus weighted deductions per violation.
	Score int `json:"score"`
}

// Report is the aggregate over all documents of one scan.
type Report struct {
	Root              string `json:"root"`
	Total             int    `json:"total"`
	CompliantCount    int    `json:"compliant"`
	NonCompliantCount int    `json:"non_compliant"`
	ErrorCount        int    `json:"errors"`
	WarningCount      int    `json:"warnings"`
	InfoCount         int    `json:"info"`
	// ComplianceRate is CompliantCount/Total as a percentage, defined
	// as 0 when Total is 0.
	ComplianceRate float64 `json:"compliance_rate"`
	// Documents holds one verdict per scanned file, sorted by path.
	Documents []Verdict `json:"documents"`
	// CrossFile holds violations whose scope spans documents, keyed by
	// the collaborator file they are attached to.
	CrossFile map[string][]Violation `json:"cross_file,omitempty"`
}

// CountBySeverity tallies violations of the given severity across all
// documents and cross-file checks.
func (r *Report) CountBySeverity(sev Severity) int {
	n := 0
	for _, d := range r.Documents {
		for _, v := range d.Violations {
			if v.Severity == sev {
				n++
			}
		}
	}
	for _, vs := range r.CrossFile {
		for _, v := range vs {
			if v.Severity == sev {
				n++
			}
		}
	}
	return n
}
