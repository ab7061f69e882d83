package grammar

// RemapTable records the old-id -> new-id mapping Compact applied. The
// zero value maps nothing.
type RemapTable struct {
	oldToNew map[SymbolID]SymbolID
}

// Map returns the new id old was renumbered to, and whether old survived
// compaction at all.
func (r RemapTable) Map(old SymbolID) (SymbolID, bool) {
	newID, ok := r.oldToNew[old]
	return newID, ok
}

// Compact renumbers every surviving symbol (any symbol mentioned in a
// remaining production, plus any root not otherwise mentioned) to a
// dense [0, k) range, preserving their relative original ordering and the
// order of the root set (see DESIGN.md for why root order is preserved
// rather than renumbered by first-use). It returns the new
// grammar and the old->new RemapTable; it never mutates g.
func Compact(g *Grammar) (*Grammar, RemapTable, error) {
	var survivors []Symbol
	seen := map[SymbolID]bool{}
	g.EachSymbol(func(s Symbol) {
		survivors = append(survivors, s)
		seen[s.ID] = true
	})
	for _, r := range g.Roots() {
		if !seen[r.ID] {
			survivors = append(survivors, r)
			seen[r.ID] = true
		}
	}
	sortSymbolsByID(survivors)

	out := New(g.name)
	remap := RemapTable{oldToNew: make(map[SymbolID]SymbolID, len(survivors))}
	newSymbols := make(map[SymbolID]Symbol, len(survivors))
	for _, s := range survivors {
		ns := out.NewSymbol(s.Name)
		remap.oldToNew[s.ID] = ns.ID
		newSymbols[s.ID] = ns
	}

	for _, p := range g.Iter() {
		newLHS := newSymbols[p.LHS.ID]
		newRHS := make([]Symbol, len(p.RHS))
		for i, s := range p.RHS {
			newRHS[i] = newSymbols[s.ID]
		}
		if _, err := out.addRuleHistory(newLHS, newRHS, Derive(Compacted, "symbol remap", p.Hist)); err != nil {
			return nil, RemapTable{}, err
		}
	}
	newRoots := make([]Symbol, len(g.Roots()))
	for i, r := range g.Roots() {
		newRoots[i] = newSymbols[r.ID]
	}
	out.SetRoots(newRoots...)
	out.nullsEmptyString = g.nullsEmptyString
	return out, remap, nil
}

func sortSymbolsByID(syms []Symbol) {
	for i := 1; i < len(syms); i++ {
		for j := i; j > 0 && syms[j].ID < syms[j-1].ID; j-- {
			syms[j], syms[j-1] = syms[j-1], syms[j]
		}
	}
}
