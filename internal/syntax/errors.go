package syntax

import (
	"fmt"
	"strings"

	"github.com/grindlemire/decorous/internal/diag"
)

// ErrorKind classifies a parse error.
type ErrorKind int

const (
	ErrInvalidClosingTag ErrorKind = iota + 1
	ErrUnclosedTag
	ErrUnclosedMustache
	ErrUnclosedAttrs
	ErrUnclosedCodeBlock
	ErrExpectedCharacter
	ErrExpected
	ErrCannotHaveTwoScripts
	ErrCannotHaveTwoStyles
	ErrCannotHaveTwoWasmBlocks
	ErrCannotHaveTwoStatics
	ErrJavaScript
	ErrCSSParsing
	ErrPreprocessor
	ErrInvalidSpecialBlockType
	ErrInvalidExtender
	ErrExpectedStatic
)

var errorKindNames = map[ErrorKind]string{
	ErrInvalidClosingTag:       "InvalidClosingTag",
	ErrUnclosedTag:             "UnclosedTag",
	ErrUnclosedMustache:        "UnclosedMustache",
	ErrUnclosedAttrs:           "UnclosedAttrs",
	ErrUnclosedCodeBlock:       "UnclosedCodeBlock",
	ErrExpectedCharacter:       "ExpectedCharacter",
	ErrExpected:                "Expected",
	ErrCannotHaveTwoScripts:    "CannotHaveTwoScripts",
	ErrCannotHaveTwoStyles:     "CannotHaveTwoStyles",
	ErrCannotHaveTwoWasmBlocks: "CannotHaveTwoWasmBlocks",
	ErrCannotHaveTwoStatics:    "CannotHaveTwoStatics",
	ErrJavaScript:              "JavaScript",
	ErrCSSParsing:              "CssParsing",
	ErrPreprocessor:            "Preprocessor",
	ErrInvalidSpecialBlockType: "InvalidSpecialBlockType",
	ErrInvalidExtender:         "InvalidExtender",
	ErrExpectedStatic:          "ExpectedStatic",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a parse error with source location and optional hint.
type Error struct {
	Kind    ErrorKind
	Pos     diag.Position
	Loc     diag.Location
	Message string
	Hint    string         // optional help text
	HintLoc *diag.Location // what the hint points at, if not Loc
	Note    string

	// Name is the tag or block name the error is about, when there is one.
	Name string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Pos.String())
	sb.WriteString(": error: ")
	sb.WriteString(e.Message)
	if e.Hint != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Hint)
		sb.WriteString(")")
	}
	return sb.String()
}

// Diagnostic converts the error into a report entry.
func (e *Error) Diagnostic() diag.Diagnostic {
	d := diag.Errorf(e.Loc.Offset, "%s", e.Message).WithNote(e.Note)
	if e.Hint != "" {
		span := e.Loc
		if e.HintLoc != nil {
			span = *e.HintLoc
		}
		d = d.WithHelper(e.Hint, span)
	}
	return d
}

// ErrorList collects the errors of one parse.
type ErrorList struct {
	errors []*Error
}

// NewErrorList creates an empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{}
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *Error) {
	el.errors = append(el.errors, err)
}

// Merge appends every error of other.
func (el *ErrorList) Merge(other *ErrorList) {
	if other == nil {
		return
	}
	el.errors = append(el.errors, other.errors...)
}

// Len returns the number of errors.
func (el *ErrorList) Len() int {
	return len(el.errors)
}

// HasErrors returns true if there are any errors.
func (el *ErrorList) HasErrors() bool {
	return len(el.errors) > 0
}

// Errors returns a copy of the error slice.
func (el *ErrorList) Errors() []*Error {
	result := make([]*Error, len(el.errors))
	copy(result, el.errors)
	return result
}

// Report converts the list into a diagnostic report.
func (el *ErrorList) Report() *diag.Report {
	r := diag.NewReport()
	for _, e := range el.errors {
		r.Add(e.Diagnostic())
	}
	return r
}

// Error implements the error interface, returning all errors joined by newlines.
func (el *ErrorList) Error() string {
	if len(el.errors) == 0 {
		return ""
	}
	if len(el.errors) == 1 {
		return el.errors[0].Error()
	}

	var sb strings.Builder
	for i, err := range el.errors {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Err returns nil if there are no errors, otherwise returns the ErrorList as an error.
func (el *ErrorList) Err() error {
	if len(el.errors) == 0 {
		return nil
	}
	return el
}
