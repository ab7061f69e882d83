package grammar

import (
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// symbolIDComparator orders Symbols by SymbolID, for gods containers that
// need a deterministic ordering independent of map/slice iteration order.
func symbolIDComparator(a, b interface{}) int {
	return utils.Int32Comparator(int32(a.(Symbol).ID), int32(b.(Symbol).ID))
}

// EliminateCycles collapses every cycle SCC {A1, ..., Am} found by
// DetectCycles into a single representative, the member with the
// smallest SymbolID (a deterministic choice independent of discovery
// order), rewriting every LHS and RHS occurrence of the other members to
// the representative, then dropping the unit productions that become
// genuine self-loops (Ai -> Ai) as a result. Returns g unchanged (a
// clone) if it has no cycles.
func EliminateCycles(g *Grammar) (*Grammar, error) {
	nullable, err := ComputeNullable(g, nil)
	if err != nil {
		return nil, err
	}
	report := detectCyclesWith(g, nullable)
	if !report.HasCycles() {
		return g.Clone(), nil
	}

	remap := make(map[SymbolID]SymbolID)
	for _, scc := range report.SCCs {
		ordered := treeset.NewWith(symbolIDComparator)
		for _, s := range scc {
			ordered.Add(s)
		}
		rep := ordered.Values()[0].(Symbol)
		for _, s := range scc {
			remap[s.ID] = rep.ID
		}
	}
	resolve := func(s Symbol) Symbol {
		if newID, ok := remap[s.ID]; ok {
			return g.symbols.symbolAt(newID)
		}
		return s
	}

	out := g.Clone()
	out.Retain(func(*Production) bool { return false })
	for _, p := range g.Iter() {
		newLHS := resolve(p.LHS)
		newRHS := make([]Symbol, len(p.RHS))
		for i, s := range p.RHS {
			newRHS[i] = resolve(s)
		}
		if len(newRHS) == 1 && newRHS[0].ID == newLHS.ID {
			// a unit production that became a self-loop under the
			// representative remap: exactly the wrap this rewrite exists
			// to remove.
			continue
		}
		if _, err := out.addRuleHistory(newLHS, newRHS, Derive(CycleEliminated, "cycle representative remap", p.Hist)); err != nil {
			return nil, err
		}
	}
	newRoots := make([]Symbol, len(g.Roots()))
	for i, r := range g.Roots() {
		newRoots[i] = resolve(r)
	}
	out.SetRoots(newRoots...)
	return out, nil
}
