package style

// Scope appends .class to every compound selector that names an element,
// class, id or attribute. Rules inside @keyframes are left alone.
func (s *Sheet) Scope(class string) {
	scopeRules(s.Rules, class)
}

func scopeRules(rules []Rule, class string) {
	for _, r := range rules {
		switch r := r.(type) {
		case *RegularRule:
			for i := range r.Selectors {
				parts := r.Selectors[i].Parts
				for j := range parts {
					if parts[j].Text != "" {
						parts[j].Text += "." + class
					}
				}
			}
		case *AtRule:
			if !frameRules[r.Name] {
				scopeRules(r.Rules, class)
			}
		}
	}
}
