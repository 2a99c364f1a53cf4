package diag

import "fmt"

// Location is a byte span into the original component source.
type Location struct {
	Offset int
	Length int
}

// Loc is shorthand for constructing a Location.
func Loc(offset, length int) Location {
	return Location{Offset: offset, Length: length}
}

// End returns the offset one past the last byte of the span.
func (l Location) End() int {
	return l.Offset + l.Length
}

// Contains reports whether offset falls inside the span.
func (l Location) Contains(offset int) bool {
	return offset >= l.Offset && offset < l.End()
}

func (l Location) String() string {
	return fmt.Sprintf("%d..%d", l.Offset, l.End())
}

// Position is a human-readable location in a source file.
type Position struct {
	File   string
	Line   int // 1-based
	Column int // 1-based, in bytes
}

// String returns "file:line:col".
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}
