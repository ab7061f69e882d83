package grammar

// RemoveUseless deletes every production whose LHS is useless or whose
// RHS mentions a useless symbol, leaving every surviving nonterminal both
// productive and reachable from a root. Refuses (returning
// ErrUnproductiveStart, g unchanged) if any root symbol is itself
// unproductive, since that would otherwise silently empty out the
// language entirely rather than just shrink it.
func RemoveUseless(g *Grammar) (*Grammar, error) {
	productive, err := ComputeProductive(g, nil)
	if err != nil {
		return nil, err
	}
	reachable, err := ComputeReachable(g, nil)
	if err != nil {
		return nil, err
	}
	for _, r := range g.Roots() {
		if g.IsNonTerminal(r) && !productive.has(r) {
			return g, ErrUnproductiveStart
		}
	}
	useless := map[SymbolID]bool{}
	for _, s := range ComputeUseless(g, productive, reachable) {
		useless[s.ID] = true
	}
	out := g.Clone()
	out.Retain(func(p *Production) bool {
		if useless[p.LHS.ID] {
			return false
		}
		for _, s := range p.RHS {
			if useless[s.ID] {
				return false
			}
		}
		return true
	})
	return out, nil
}
