package grammar

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	cfg "github.com/norgram/cfg"
	"github.com/norgram/cfg/grammar/iteratable"
)

// analysisTracer traces with key 'cfg.grammar.analysis'.
func analysisTracer() tracing.Trace {
	return tracing.Select("cfg.grammar.analysis")
}

// EOF is a sentinel symbol outside any grammar's own symbol space, added
// to FOLLOW(start) to mark end-of-input.
var EOF = Symbol{ID: -2, Name: "#eof"}

func isEOF(s Symbol) bool { return s.ID == EOF.ID && s.Name == EOF.Name }

// symSet is the settled result of a fixed-point analysis (Nullable,
// Productive, Reachable, a row of FIRST or FOLLOW): a plain "is this
// symbol in the set" predicate. The worklists that compute these results
// are built on grammar/iteratable.Set; symSet is just their output shape.
type symSet map[SymbolID]bool

func (s symSet) has(sym Symbol) bool { return s[sym.ID] }

// ComputeNullable computes the smallest set N of symbols such that some
// production A -> x1..xk has every xi in N (an empty RHS puts A in N
// immediately). Implemented as a worklist keyed by how many of a
// production's RHS symbols are still unknown: a production is queued the
// moment that count reaches zero, and resolving its LHS decrements the
// count of every production that mentions it, propagating the queue via
// grammar/iteratable.Set rather than rescanning the whole production list
// on every pass. A production containing a terminal is permanently
// blocked, since terminals are never nullable.
func ComputeNullable(g *Grammar, cancel cfg.CancelFunc) (symSet, error) {
	nullable := symSet{}
	prods := g.Iter()
	remaining := make([]int, len(prods))
	blocked := make([]bool, len(prods))
	byRHS := map[SymbolID][]int{}
	queue := iteratable.NewSet(len(prods))
	for i, p := range prods {
		count := 0
		for _, s := range p.RHS {
			if g.IsTerminal(s) {
				blocked[i] = true
				break
			}
			count++
			byRHS[s.ID] = append(byRHS[s.ID], i)
		}
		remaining[i] = count
		if !blocked[i] && count == 0 {
			queue.Add(i)
		}
	}
	for !queue.Empty() {
		if cfg.Cancelled(cancel) {
			return nil, ErrCancelled
		}
		i := queue.Values()[0].(int)
		queue.Remove(i)
		p := prods[i]
		if nullable.has(p.LHS) {
			continue
		}
		nullable[p.LHS.ID] = true
		for _, j := range byRHS[p.LHS.ID] {
			if blocked[j] {
				continue
			}
			remaining[j]--
			if remaining[j] == 0 {
				queue.Add(j)
			}
		}
	}
	return nullable, nil
}

// ComputeProductive computes the smallest set P such that some production
// A -> x1..xk has every xi in P union Terminals. Terminals are always
// productive (derive themselves), so only a production's nonterminal RHS
// symbols count toward its "still unknown" tally. The worklist discipline
// mirrors ComputeNullable: a production is queued once that tally reaches
// zero, and marking its LHS productive decrements the tally of every
// production depending on it.
func ComputeProductive(g *Grammar, cancel cfg.CancelFunc) (symSet, error) {
	productive := symSet{}
	prods := g.Iter()
	remaining := make([]int, len(prods))
	byRHS := map[SymbolID][]int{}
	queue := iteratable.NewSet(len(prods))
	for i, p := range prods {
		count := 0
		for _, s := range p.RHS {
			if g.IsNonTerminal(s) {
				count++
				byRHS[s.ID] = append(byRHS[s.ID], i)
			}
		}
		remaining[i] = count
		if count == 0 {
			queue.Add(i)
		}
	}
	for !queue.Empty() {
		if cfg.Cancelled(cancel) {
			return nil, ErrCancelled
		}
		i := queue.Values()[0].(int)
		queue.Remove(i)
		p := prods[i]
		if productive.has(p.LHS) {
			continue
		}
		productive[p.LHS.ID] = true
		for _, j := range byRHS[p.LHS.ID] {
			remaining[j]--
			if remaining[j] == 0 {
				queue.Add(j)
			}
		}
	}
	return productive, nil
}

// ComputeReachable performs a BFS from g.Roots() over "A reaches the
// symbols appearing in A's own productions' RHS", using a
// grammar/iteratable.Set as the combined visited-set and FIFO queue: Add
// during IterateOnce is exactly the "discover and enqueue" step a BFS
// worklist needs.
func ComputeReachable(g *Grammar, cancel cfg.CancelFunc) (symSet, error) {
	reachable := symSet{}
	visited := iteratable.NewSet(0)
	for _, r := range g.Roots() {
		visited.Add(r.ID)
	}
	visited.IterateOnce()
	for visited.Next() {
		if cfg.Cancelled(cancel) {
			return nil, ErrCancelled
		}
		id := visited.Item().(SymbolID)
		if reachable[id] {
			continue
		}
		reachable[id] = true
		A := g.symbols.symbolAt(id)
		for _, p := range g.FindRules(A) {
			for _, s := range p.RHS {
				visited.Add(s.ID)
			}
		}
	}
	return reachable, nil
}

// ComputeUseless returns every nonterminal symbol that is not both
// productive and reachable from a root. Terminals are never reported:
// they carry no productions of their own, so RemoveUseless prunes them
// implicitly when every production that mentions them is dropped.
func ComputeUseless(g *Grammar, productive, reachable symSet) []Symbol {
	var useless []Symbol
	g.EachSymbol(func(s Symbol) {
		if !g.IsNonTerminal(s) {
			return
		}
		if !productive.has(s) || !reachable.has(s) {
			useless = append(useless, s)
		}
	})
	return useless
}

// firstSets maps a SymbolID to the set of terminal SymbolIDs that can
// begin some string it derives.
type firstSets map[SymbolID]symSet

// ComputeFirst computes FIRST(A) for every symbol appearing in g,
// terminals included (FIRST(t) = {t}). nullable must already have been
// computed over the same grammar. Productions are held on a
// grammar/iteratable.Set worklist: a production is (re)examined whenever
// one of its RHS symbols' FIRST set has grown, and growing FIRST(A) in
// turn re-queues every production that mentions A anywhere in its RHS.
func ComputeFirst(g *Grammar, nullable symSet, cancel cfg.CancelFunc) (firstSets, error) {
	first := firstSets{}
	g.EachSymbol(func(s Symbol) {
		if g.IsTerminal(s) {
			first[s.ID] = symSet{s.ID: true}
		}
	})

	prods := g.Iter()
	byRHS := map[SymbolID][]int{}
	for i, p := range prods {
		seen := map[SymbolID]bool{}
		for _, s := range p.RHS {
			if !seen[s.ID] {
				seen[s.ID] = true
				byRHS[s.ID] = append(byRHS[s.ID], i)
			}
		}
	}

	queue := iteratable.NewSet(len(prods))
	for i := range prods {
		queue.Add(i)
	}
	for !queue.Empty() {
		if cfg.Cancelled(cancel) {
			return nil, ErrCancelled
		}
		i := queue.Values()[0].(int)
		queue.Remove(i)
		p := prods[i]
		target := first[p.LHS.ID]
		if target == nil {
			target = symSet{}
			first[p.LHS.ID] = target
		}
		before := len(target)
		for _, x := range p.RHS {
			for t := range first[x.ID] {
				target[t] = true
			}
			if !nullable.has(x) {
				break
			}
		}
		if len(target) != before {
			for _, j := range byRHS[p.LHS.ID] {
				queue.Add(j)
			}
		}
	}
	return first, nil
}

// firstOfSequence computes FIRST(x1 x2 ... xk) from pre-computed
// per-symbol FIRST sets: the union of FIRST(xi) for the longest nullable
// prefix x1..x(i-1), plus FIRST(xi) itself, stopping at the first
// non-nullable xi (or at the end, in which case the whole sequence is
// nullable too, tracked separately via the caller's nullable set).
func firstOfSequence(seq []Symbol, first firstSets, nullable symSet) symSet {
	out := symSet{}
	for _, x := range seq {
		for t := range first[x.ID] {
			out[t] = true
		}
		if !nullable.has(x) {
			break
		}
	}
	return out
}

// sequenceNullable reports whether every symbol in seq is nullable (the
// empty sequence is vacuously nullable).
func sequenceNullable(seq []Symbol, nullable symSet) bool {
	for _, x := range seq {
		if !nullable.has(x) {
			return false
		}
	}
	return true
}

// ComputeFollow computes FOLLOW(A) for every nonterminal A, requiring a
// start symbol (g.Start() picks g.Roots()[0]). FOLLOW(start) always
// includes EOF. A production p is queued on a grammar/iteratable.Set
// worklist whenever FOLLOW(p.LHS) grows, since that is the only input a
// production's own trailing-context propagation depends on; every other
// production's propagation is self-contained within the pass that first
// examines it.
func ComputeFollow(g *Grammar, first firstSets, nullable symSet, cancel cfg.CancelFunc) (firstSets, error) {
	start, err := g.Start()
	if err != nil {
		return nil, err
	}
	follow := firstSets{}
	follow[start.ID] = symSet{EOF.ID: true}

	prods := g.Iter()
	byLHS := map[SymbolID][]int{}
	for i, p := range prods {
		byLHS[p.LHS.ID] = append(byLHS[p.LHS.ID], i)
	}

	queue := iteratable.NewSet(len(prods))
	for i := range prods {
		queue.Add(i)
	}
	for !queue.Empty() {
		if cfg.Cancelled(cancel) {
			return nil, ErrCancelled
		}
		i := queue.Values()[0].(int)
		queue.Remove(i)
		p := prods[i]
		for bi, B := range p.RHS {
			if g.IsTerminal(B) {
				continue
			}
			beta := p.RHS[bi+1:]
			target := follow[B.ID]
			if target == nil {
				target = symSet{}
				follow[B.ID] = target
			}
			before := len(target)
			for t := range firstOfSequence(beta, first, nullable) {
				target[t] = true
			}
			if sequenceNullable(beta, nullable) {
				for t := range follow[p.LHS.ID] {
					target[t] = true
				}
			}
			if len(target) != before {
				for _, j := range byLHS[B.ID] {
					queue.Add(j)
				}
			}
		}
	}
	return follow, nil
}

// ComputeMinDistance computes, for every symbol, the length in terminals
// of its shortest terminal derivation (Infinite if unproductive).
// Terminals have distance 1. Implemented as Dijkstra-like relaxation on a
// grammar/iteratable.Set worklist: a production's candidate distance is
// the sum of its RHS symbols' distances, d(A) is the minimum candidate
// over A's productions, and a production is re-queued for relaxation
// whenever some symbol it mentions in its LHS's candidate sum just got a
// smaller distance. Ties are broken by production insertion order.
func ComputeMinDistance(g *Grammar, cancel cfg.CancelFunc) (map[SymbolID]cfg.Distance, error) {
	dist := make(map[SymbolID]cfg.Distance)
	g.EachSymbol(func(s Symbol) {
		if g.IsTerminal(s) {
			dist[s.ID] = 1
		} else {
			dist[s.ID] = cfg.Infinite
		}
	})

	prods := g.Iter()
	byRHS := map[SymbolID][]int{}
	for i, p := range prods {
		seen := map[SymbolID]bool{}
		for _, s := range p.RHS {
			if !seen[s.ID] {
				seen[s.ID] = true
				byRHS[s.ID] = append(byRHS[s.ID], i)
			}
		}
	}

	queue := iteratable.NewSet(len(prods))
	for i := range prods {
		queue.Add(i)
	}
	for !queue.Empty() {
		if cfg.Cancelled(cancel) {
			return nil, ErrCancelled
		}
		i := queue.Values()[0].(int)
		queue.Remove(i)
		p := prods[i]
		cand := productionDistance(p, dist)
		if cand < dist[p.LHS.ID] {
			dist[p.LHS.ID] = cand
			for _, j := range byRHS[p.LHS.ID] {
				queue.Add(j)
			}
		}
	}
	return dist, nil
}

func productionDistance(p *Production, dist map[SymbolID]cfg.Distance) cfg.Distance {
	var sum cfg.Distance
	for _, s := range p.RHS {
		d := dist[s.ID]
		if d == cfg.Infinite {
			return cfg.Infinite
		}
		sum += d
	}
	return sum
}

// Analysis bundles nullability, productivity, reachability, FIRST,
// FOLLOW and minimal distance, each computed once (eagerly at
// construction, except FOLLOW, which is computed on first use of Follow)
// and exposed as read-only getters. Analysis never
// mutates g and holds no reference to anything that would become invalid
// across a rewrite; construct a new Analysis after rewriting.
type Analysis struct {
	g          *Grammar
	nullable   symSet
	productive symSet
	reachable  symSet
	first      firstSets
	follow     firstSets // computed lazily: needs a start symbol
	followErr  error
	dist       map[SymbolID]cfg.Distance
}

// NewAnalysis computes FIRST, nullability, productivity, reachability and
// minimal distance for g. It never fails (no cancellation requested); for
// cooperative cancellation use NewAnalysisWithCancel.
func NewAnalysis(g *Grammar) *Analysis {
	a, err := NewAnalysisWithCancel(g, nil)
	if err != nil {
		// unreachable: a nil CancelFunc never cancels, and the Compute*
		// functions have no other failure mode.
		panic(err)
	}
	return a
}

// NewAnalysisWithCancel is like NewAnalysis but polls cancel between
// fixed-point iterations, returning ErrCancelled if it ever reports true.
func NewAnalysisWithCancel(g *Grammar, cancel cfg.CancelFunc) (*Analysis, error) {
	a := &Analysis{g: g}
	var err error
	if a.nullable, err = ComputeNullable(g, cancel); err != nil {
		return nil, err
	}
	if a.productive, err = ComputeProductive(g, cancel); err != nil {
		return nil, err
	}
	if a.reachable, err = ComputeReachable(g, cancel); err != nil {
		return nil, err
	}
	if a.first, err = ComputeFirst(g, a.nullable, cancel); err != nil {
		return nil, err
	}
	if a.dist, err = ComputeMinDistance(g, cancel); err != nil {
		return nil, err
	}
	analysisTracer().Debugf("analysis complete for grammar %q: %d nullable, %d productive",
		g.Name(), len(a.nullable), len(a.productive))
	return a, nil
}

// Grammar returns the grammar this analysis was computed over.
func (a *Analysis) Grammar() *Grammar { return a.g }

// DerivesEpsilon reports whether s is nullable.
func (a *Analysis) DerivesEpsilon(s Symbol) bool { return a.nullable.has(s) }

// IsProductive reports whether s can derive some all-terminal string.
func (a *Analysis) IsProductive(s Symbol) bool { return a.productive.has(s) }

// IsReachable reports whether s is reachable from some root.
func (a *Analysis) IsReachable(s Symbol) bool { return a.reachable.has(s) }

// Useless returns every nonterminal that is not both productive and
// reachable.
func (a *Analysis) Useless() []Symbol {
	return ComputeUseless(a.g, a.productive, a.reachable)
}

// First returns FIRST(s) as a slice of terminal symbols, in ascending id
// order for determinism. It does not include an explicit ε marker; call
// DerivesEpsilon(s) to find out whether s is nullable.
func (a *Analysis) First(s Symbol) []Symbol {
	return a.symbolsOf(a.first[s.ID])
}

// FirstOfSequence returns FIRST(x1...xk) for an arbitrary RHS fragment.
func (a *Analysis) FirstOfSequence(seq []Symbol) []Symbol {
	return a.symbolsOf(firstOfSequence(seq, a.first, a.nullable))
}

// Follow returns FOLLOW(s), computing it (and caching it for every
// nonterminal) on first use. Fails with ErrNoStart if the grammar has no
// root symbol.
func (a *Analysis) Follow(s Symbol) ([]Symbol, error) {
	if a.follow == nil && a.followErr == nil {
		a.follow, a.followErr = ComputeFollow(a.g, a.first, a.nullable, nil)
	}
	if a.followErr != nil {
		return nil, a.followErr
	}
	return a.symbolsOf(a.follow[s.ID]), nil
}

// MinDistance returns the minimal terminal-derivation length of s
// (cfg.Infinite if s is unproductive).
func (a *Analysis) MinDistance(s Symbol) cfg.Distance {
	return a.dist[s.ID]
}

// MinDistanceOfSequence sums MinDistance over seq, short-circuiting to
// cfg.Infinite as soon as any element is unproductive.
func (a *Analysis) MinDistanceOfSequence(seq []Symbol) cfg.Distance {
	var sum cfg.Distance
	for _, s := range seq {
		d := a.dist[s.ID]
		if d == cfg.Infinite {
			return cfg.Infinite
		}
		sum += d
	}
	return sum
}

func (a *Analysis) symbolsOf(set symSet) []Symbol {
	ids := make([]SymbolID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if ids[j] < ids[i] {
				ids[i], ids[j] = ids[j], ids[i]
			}
		}
	}
	out := make([]Symbol, len(ids))
	for i, id := range ids {
		if id == EOF.ID {
			out[i] = EOF
			continue
		}
		out[i] = a.g.symbols.symbolAt(id)
	}
	return out
}

// String renders a symSet for debugging.
func (s symSet) String() string {
	return fmt.Sprintf("%v", map[SymbolID]bool(s))
}
