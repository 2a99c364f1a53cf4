package script

import "github.com/dop251/goja/ast"

// PatternNames returns the names bound by a binding target, descending into
// object and array destructuring patterns.
func PatternNames(target ast.Expression) []string {
	var names []string
	collectPatternNames(target, &names)
	return names
}

func collectPatternNames(target ast.Expression, names *[]string) {
	switch t := target.(type) {
	case *ast.Identifier:
		*names = append(*names, t.Name.String())
	case *ast.ObjectPattern:
		for _, p := range t.Properties {
			switch p := p.(type) {
			case *ast.PropertyShort:
				*names = append(*names, p.Name.Name.String())
			case *ast.PropertyKeyed:
				collectPatternNames(p.Value, names)
			case *ast.SpreadElement:
				collectPatternNames(p.Expression, names)
			}
		}
		collectPatternNames(t.Rest, names)
	case *ast.ArrayPattern:
		for _, e := range t.Elements {
			collectPatternNames(e, names)
		}
		collectPatternNames(t.Rest, names)
	case *ast.AssignExpression:
		collectPatternNames(t.Left, names)
	case *ast.Binding:
		collectPatternNames(t.Target, names)
	case *ast.SpreadElement:
		collectPatternNames(t.Expression, names)
	}
}
