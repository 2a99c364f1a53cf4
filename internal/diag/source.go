package diag

import "sort"

// Source is a named component source with a line index for offset lookups.
type Source struct {
	Name  string
	Text  string
	lines []int // byte offset of the start of each line
}

// NewSource indexes text for position lookups.
func NewSource(name, text string) *Source {
	lines := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &Source{Name: name, Text: text, lines: lines}
}

// Position converts a byte offset into a file position. Offsets past the end
// of the text are clamped to the end.
func (s *Source) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(s.Text) {
		offset = len(s.Text)
	}
	line := sort.Search(len(s.lines), func(i int) bool { return s.lines[i] > offset }) - 1
	return Position{
		File:   s.Name,
		Line:   line + 1,
		Column: offset - s.lines[line] + 1,
	}
}

// Line returns the 1-based line number containing offset.
func (s *Source) Line(offset int) int {
	return s.Position(offset).Line
}

// LineText returns the text of the given 1-based line without its newline.
func (s *Source) LineText(line int) string {
	if line < 1 || line > len(s.lines) {
		return ""
	}
	start := s.lines[line-1]
	end := len(s.Text)
	if line < len(s.lines) {
		end = s.lines[line] - 1
	}
	return s.Text[start:end]
}

// Slice returns the text covered by loc, clamped to the source bounds.
func (s *Source) Slice(loc Location) string {
	start, end := loc.Offset, loc.End()
	if start < 0 {
		start = 0
	}
	if end > len(s.Text) {
		end = len(s.Text)
	}
	if start > end {
		return ""
	}
	return s.Text[start:end]
}
