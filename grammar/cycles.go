package grammar

// cycleNode is one Tarjan DFS frame.
type cycleNode struct {
	index   int
	lowlink int
	onStack bool
}

// CycleReport names the nonterminals involved in a production cycle, i.e.
// a chain A =>+ A derivable by repeatedly taking a single RHS symbol of a
// production whose every other RHS symbol is nullable ("unit-ish"
// rewriting, the generalization of a classical unit-production cycle to a
// grammar that has not yet been cleared of nulling rules).
type CycleReport struct {
	// SCCs lists every strongly connected component of size > 1 in the
	// unit-ish graph, plus every single nonterminal with a unit-ish
	// self-loop, each naming the nonterminals on the cycle. A grammar with
	// no cycles reports an empty slice.
	SCCs [][]Symbol
}

// HasCycles reports whether r found any cycle.
func (r *CycleReport) HasCycles() bool { return len(r.SCCs) > 0 }

// unitGraph builds the adjacency relation A -> B such that some production
// A -> x1..xk has exactly one xi equal to B and every other xj (j != i)
// nullable. Self-loops (A -> B where B == A under that same condition) are
// recorded too, since a single-node SCC with a self-loop is itself a
// cycle even though Tarjan's SCC decomposition alone would not flag a
// size-1 component.
func unitGraph(g *Grammar, nullable symSet) map[SymbolID][]SymbolID {
	adj := make(map[SymbolID][]SymbolID)
	for _, p := range g.Iter() {
		for i, cand := range p.RHS {
			if g.IsTerminal(cand) {
				continue
			}
			othersNullable := true
			for j, s := range p.RHS {
				if j == i {
					continue
				}
				if !nullable.has(s) {
					othersNullable = false
					break
				}
			}
			if othersNullable {
				adj[p.LHS.ID] = append(adj[p.LHS.ID], cand.ID)
			}
		}
	}
	return adj
}

// DetectCycles finds every cycle in g's unit-ish derivation graph, using a
// nullable set computed fresh (ComputeNullable) unless the caller already
// has one cached via Analysis; see (*Analysis).Cycles for that case.
func DetectCycles(g *Grammar) (*CycleReport, error) {
	nullable, err := ComputeNullable(g, nil)
	if err != nil {
		return nil, err
	}
	return detectCyclesWith(g, nullable), nil
}

func detectCyclesWith(g *Grammar, nullable symSet) *CycleReport {
	adj := unitGraph(g, nullable)
	selfLoop := make(map[SymbolID]bool)
	for from, tos := range adj {
		for _, to := range tos {
			if to == from {
				selfLoop[from] = true
			}
		}
	}

	var nodes []SymbolID
	g.EachSymbol(func(s Symbol) {
		if g.IsNonTerminal(s) {
			nodes = append(nodes, s.ID)
		}
	})

	state := make(map[SymbolID]*cycleNode)
	var stack []SymbolID
	index := 0
	var sccs [][]SymbolID

	var strongconnect func(v SymbolID)
	strongconnect = func(v SymbolID) {
		state[v] = &cycleNode{index: index, lowlink: index, onStack: true}
		index++
		stack = append(stack, v)

		for _, w := range adj[v] {
			if state[w] == nil {
				strongconnect(w)
				if state[w].lowlink < state[v].lowlink {
					state[v].lowlink = state[w].lowlink
				}
			} else if state[w].onStack {
				if state[w].index < state[v].lowlink {
					state[v].lowlink = state[w].index
				}
			}
		}

		if state[v].lowlink == state[v].index {
			var scc []SymbolID
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				state[w].onStack = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, v := range nodes {
		if state[v] == nil {
			strongconnect(v)
		}
	}

	var out [][]Symbol
	for _, scc := range sccs {
		isCycle := len(scc) > 1 || (len(scc) == 1 && selfLoop[scc[0]])
		if !isCycle {
			continue
		}
		syms := make([]Symbol, len(scc))
		for i, id := range scc {
			syms[i] = g.symbols.symbolAt(id)
		}
		out = append(out, syms)
	}
	return &CycleReport{SCCs: out}
}

// Cycles reports production cycles in a's grammar, reusing the nullable
// set already computed by this Analysis.
func (a *Analysis) Cycles() *CycleReport {
	return detectCyclesWith(a.g, a.nullable)
}
