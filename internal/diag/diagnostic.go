package diag

import (
	"fmt"
	"strings"
)

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// MarshalText renders the severity by name for JSON and YAML output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Helper is a labeled span attached to a diagnostic.
type Helper struct {
	Message string   `json:"message" yaml:"message"`
	Span    Location `json:"span" yaml:"span"`
}

// Diagnostic is a single problem reported by the parser or a pass.
type Diagnostic struct {
	Message  string   `json:"message" yaml:"message"`
	Severity Severity `json:"severity" yaml:"severity"`
	Offset   int      `json:"offset" yaml:"offset"`
	Note     string   `json:"note,omitempty" yaml:"note,omitempty"`
	Helpers  []Helper `json:"helpers,omitempty" yaml:"helpers,omitempty"`
}

// Errorf creates an error diagnostic at offset.
func Errorf(offset int, format string, args ...any) Diagnostic {
	return Diagnostic{Message: fmt.Sprintf(format, args...), Severity: SeverityError, Offset: offset}
}

// Warningf creates a warning diagnostic at offset.
func Warningf(offset int, format string, args ...any) Diagnostic {
	return Diagnostic{Message: fmt.Sprintf(format, args...), Severity: SeverityWarning, Offset: offset}
}

// WithNote returns a copy of d carrying note.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Note = note
	return d
}

// WithHelper returns a copy of d with an extra labeled span.
func (d Diagnostic) WithHelper(msg string, span Location) Diagnostic {
	helpers := make([]Helper, len(d.Helpers), len(d.Helpers)+1)
	copy(helpers, d.Helpers)
	d.Helpers = append(helpers, Helper{Message: msg, Span: span})
	return d
}

// Format renders the diagnostic as "file:line:col: severity: message (note)",
// followed by one indented line per helper.
func (d Diagnostic) Format(src *Source) string {
	var sb strings.Builder
	sb.WriteString(src.Position(d.Offset).String())
	sb.WriteString(": ")
	sb.WriteString(d.Severity.String())
	sb.WriteString(": ")
	sb.WriteString(d.Message)
	if d.Note != "" {
		sb.WriteString(" (")
		sb.WriteString(d.Note)
		sb.WriteString(")")
	}
	for _, h := range d.Helpers {
		sb.WriteString("\n  ")
		sb.WriteString(src.Position(h.Span.Offset).String())
		sb.WriteString(": ")
		sb.WriteString(h.Message)
	}
	return sb.String()
}
