package component

import (
	"context"
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/grindlemire/decorous/internal/diag"
)

// foreignRoots hold their own vocabularies of element names.
var foreignRoots = map[string]bool{
	"svg":  true,
	"math": true,
}

// ElementLintPass warns about elements that are not HTML. Custom elements
// (names containing a hyphen) and the contents of svg and math are skipped.
type ElementLintPass struct{}

func (*ElementLintPass) Name() string { return "elements" }

// Run implements Pass.
func (*ElementLintPass) Run(_ context.Context, c *Component) error {
	lintElements(c, c.tree)
	return nil
}

func lintElements(c *Component, nodes []*Node) {
	for _, n := range nodes {
		elem := n.Element()
		if elem != nil {
			if foreignRoots[elem.Tag] {
				continue
			}
			if !isKnownElement(elem.Tag) {
				loc := elem.Location
				c.report.Add(diag.Warningf(loc.Offset, "unknown element: %s", elem.Tag).
					WithNote("custom elements must contain a hyphen"))
			}
		}
		lintElements(c, n.Children)
		lintElements(c, n.Else)
	}
}

func isKnownElement(tag string) bool {
	if strings.Contains(tag, "-") || tag != strings.ToLower(tag) {
		return true
	}
	return atom.Lookup([]byte(tag)) != 0 && isElementAtom(tag)
}

// isElementAtom filters atoms that are only attribute names.
func isElementAtom(tag string) bool {
	_, attrOnly := attributeAtoms[tag]
	return !attrOnly
}

var attributeAtoms = map[string]struct{}{
	"accept": {}, "action": {}, "align": {}, "alt": {}, "async": {},
	"charset": {}, "checked": {}, "class": {}, "cols": {}, "content": {},
	"disabled": {}, "href": {}, "id": {}, "lang": {}, "name": {},
	"placeholder": {}, "rel": {}, "rows": {}, "src": {}, "type": {},
	"value": {}, "width": {}, "height": {}, "onclick": {}, "hidden": {},
}
