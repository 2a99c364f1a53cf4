package diag

import "strings"

// Report accumulates diagnostics in the order they were emitted.
type Report struct {
	diagnostics []Diagnostic
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{}
}

// Add appends a diagnostic.
func (r *Report) Add(d Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
}

// Merge appends every diagnostic of other.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.diagnostics = append(r.diagnostics, other.diagnostics...)
}

// Len returns the number of diagnostics.
func (r *Report) Len() int {
	return len(r.diagnostics)
}

// Diagnostics returns a copy of the collected diagnostics.
func (r *Report) Diagnostics() []Diagnostic {
	result := make([]Diagnostic, len(r.diagnostics))
	copy(result, r.diagnostics)
	return result
}

// HasErrors reports whether any diagnostic has error severity.
func (r *Report) HasErrors() bool {
	for _, d := range r.diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Warnings returns only the warning diagnostics.
func (r *Report) Warnings() []Diagnostic {
	return r.filter(SeverityWarning)
}

// Errors returns only the error diagnostics.
func (r *Report) Errors() []Diagnostic {
	return r.filter(SeverityError)
}

func (r *Report) filter(sev Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.diagnostics {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

// Format renders every diagnostic against src, one per line.
func (r *Report) Format(src *Source) string {
	var sb strings.Builder
	for i, d := range r.diagnostics {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(d.Format(src))
	}
	return sb.String()
}
