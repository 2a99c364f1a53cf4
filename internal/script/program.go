package script

import (
	"sort"
	"strings"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/parser"
)

// Statement is one top-level statement of a script block.
type Statement struct {
	Code

	// Import is set for import declarations, which have no goja syntax tree.
	Import *Import
}

// Node returns the goja statement, or nil for imports.
func (s *Statement) Node() ast.Statement {
	if s.root == nil {
		return nil
	}
	return s.root.(ast.Statement)
}

// IsImport reports whether the statement is an import declaration.
func (s *Statement) IsImport() bool {
	return s.Import != nil
}

// Import describes an import declaration.
type Import struct {
	Specifier string   // module specifier without quotes
	Names     []string // local bindings introduced by the import
}

// Program is a parsed script block.
type Program struct {
	Source     string
	Offset     int
	Statements []*Statement
}

// ImportNames returns every local name bound by the program's imports.
func (p *Program) ImportNames() []string {
	var names []string
	for _, s := range p.Statements {
		if s.Import != nil {
			names = append(names, s.Import.Names...)
		}
	}
	return names
}

// ParseProgram parses a script block located at offset in the component file.
// The block is a sequence of statements, optionally including imports.
func ParseProgram(src string, offset int) (*Program, error) {
	imports, err := scanImports(src)
	if err != nil {
		return nil, err
	}

	masked := maskImports(src, imports)
	prog, err := parser.ParseFile(nil, "", masked, 0, parser.WithDisableSourceMaps)
	if err != nil {
		return nil, convertError(err, masked, 0, offset, len(src))
	}

	p := &Program{Source: src, Offset: offset}
	for _, imp := range imports {
		p.Statements = append(p.Statements, &Statement{
			Code:   Code{Source: src[imp.start:imp.end], Offset: offset + imp.start, shift: imp.start},
			Import: &Import{Specifier: imp.specifier, Names: imp.names},
		})
	}

	for i, stmt := range prog.Body {
		if _, ok := stmt.(*ast.EmptyStatement); ok {
			continue
		}
		limit := len(src)
		if i+1 < len(prog.Body) {
			limit = int(prog.Body[i+1].Idx0()) - 1
		}
		start, end := statementBounds(src, int(stmt.Idx0())-1, int(stmt.Idx1())-1, limit)
		p.Statements = append(p.Statements, &Statement{
			Code: Code{Source: src[start:end], Offset: offset + start, root: stmt, shift: start},
		})
	}

	sort.SliceStable(p.Statements, func(i, j int) bool {
		return p.Statements[i].Offset < p.Statements[j].Offset
	})
	return p, nil
}

// statementBounds widens a goja statement extent to cover parentheses that
// goja drops from its nodes and the terminating semicolon.
func statementBounds(src string, start, end, limit int) (int, int) {
	for start > 0 {
		i := start - 1
		for i >= 0 && (src[i] == ' ' || src[i] == '\t') {
			i--
		}
		if i < 0 || src[i] != '(' {
			break
		}
		start = i
	}

	if limit < end {
		limit = end
	}
	if limit > len(src) {
		limit = len(src)
	}
	i := end
	for i < limit {
		switch src[i] {
		case ' ', '\t', '\r', '\n':
			i++
			continue
		case ')':
			i++
			end = i
			continue
		case ';':
			end = i + 1
		}
		break
	}
	return start, end
}

// maskImports blanks out import declarations so goja can parse the rest of
// the program. Newlines are kept so line numbers in errors stay accurate.
func maskImports(src string, imports []importSpan) string {
	if len(imports) == 0 {
		return src
	}
	b := []byte(src)
	for _, imp := range imports {
		for i := imp.start; i < imp.end; i++ {
			if b[i] != '\n' {
				b[i] = ' '
			}
		}
	}
	return string(b)
}

// DeclaredNames returns the names bound by a top-level var, let or const
// declaration or a named function declaration. Other statements bind nothing.
func DeclaredNames(stmt ast.Statement) []string {
	switch s := stmt.(type) {
	case *ast.VariableStatement:
		return bindingNames(s.List)
	case *ast.LexicalDeclaration:
		return bindingNames(s.List)
	case *ast.FunctionDeclaration:
		if s.Function.Name != nil {
			return []string{s.Function.Name.Name.String()}
		}
	}
	return nil
}

func bindingNames(list []*ast.Binding) []string {
	var names []string
	for _, b := range list {
		names = append(names, PatternNames(b.Target)...)
	}
	return names
}

// IsReactiveLabel reports whether stmt is a top-level "$:" labelled statement.
func IsReactiveLabel(stmt ast.Statement) bool {
	l, ok := stmt.(*ast.LabelledStatement)
	return ok && l.Label != nil && l.Label.Name.String() == "$"
}

// BoundNames returns every name the statement binds in the enclosing scope:
// declared variables, named functions, classes and imported bindings.
func (s *Statement) BoundNames() []string {
	if s.Import != nil {
		return s.Import.Names
	}
	names := DeclaredNames(s.Node())
	if c, ok := s.Node().(*ast.ClassDeclaration); ok && c.Class.Name != nil {
		names = append(names, c.Class.Name.Name.String())
	}
	return names
}

// Trimmed returns the statement source without surrounding whitespace.
func (s *Statement) Trimmed() string {
	return strings.TrimSpace(s.Source)
}
