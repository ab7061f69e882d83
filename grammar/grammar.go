package grammar

import (
	"fmt"
	"io"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"

	cfg "github.com/norgram/cfg"
)

// tracer traces with key 'cfg.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("cfg.grammar")
}

// cfg.grammar.lenient-foreign-symbols opts out of the ForeignSymbol check
// in AddRule. Off (strict) unless an embedding application sets it; it is
// the only switch in this module read through gconf.
const confLenientForeignSymbols = "cfg.grammar.lenient-foreign-symbols"

// Production is a single grammar rule: lhs -> rhs[0] rhs[1] ... rhs[n-1].
// An empty RHS is a nulling rule. Two productions with identical LHS/RHS
// are permitted and semantically equivalent; History distinguishes them.
// Productions are never mutated in place: rewrites always build a new
// production list.
type Production struct {
	LHS     Symbol
	RHS     []Symbol
	Hist    *History
	Weight  cfg.Weight // PCFG weight, used only by package sample
	serial  int        // insertion-order tiebreaker, assigned by the owning Grammar
}

// Serial returns the insertion-order index this production was created
// at, used as the deterministic tie-break minimal-distance and rewrite
// algorithms honor.
func (p *Production) Serial() int { return p.serial }

func (p *Production) String() string {
	rhs := ""
	for i, s := range p.RHS {
		if i > 0 {
			rhs += " "
		}
		rhs += s.String()
	}
	if rhs == "" {
		rhs = "ε"
	}
	return fmt.Sprintf("%s -> %s", p.LHS, rhs)
}

// Fingerprint returns a stable content hash over the production's LHS,
// RHS and History fingerprint (not its Weight or serial, which are not
// part of the grammar's language-level identity). Grammar.Fingerprint is
// built from it.
func (p *Production) Fingerprint() string {
	rhsIDs := make([]int32, len(p.RHS))
	for i, s := range p.RHS {
		rhsIDs[i] = int32(s.ID)
	}
	sum, err := structhash.Hash(struct {
		LHS     int32
		RHS     []int32
		History string
	}{int32(p.LHS.ID), rhsIDs, p.Hist.Fingerprint()}, 1)
	if err != nil {
		panic(err)
	}
	return sum
}

// Grammar is the canonical mutable representation of a context-free
// grammar: an ordered list of productions over symbols minted by a single
// SymbolSource, plus a set of root (start) symbols. Order of productions
// is user-observable and is preserved by every rewrite unless the rewrite
// explicitly documents otherwise.
type Grammar struct {
	name             string
	symbols          *SymbolSource
	productions      *arraylist.List // of *Production, in insertion order
	roots            []Symbol
	nextSerial       int
	nullsEmptyString bool // set by EliminateNulling; see NullsEmptyString
}

// New creates an empty, named Grammar with its own SymbolSource.
func New(name string) *Grammar {
	return &Grammar{
		name:        name,
		symbols:     NewSymbolSource(),
		productions: arraylist.New(),
	}
}

// Name returns the grammar's display name, purely for diagnostics.
func (g *Grammar) Name() string { return g.name }

// NewSymbol allocates a fresh symbol owned by this grammar, optionally
// named.
func (g *Grammar) NewSymbol(name string) Symbol {
	if name == "" {
		return g.symbols.Next()
	}
	return g.symbols.NextNamed(name)
}

// Symbols returns this grammar's SymbolSource, mainly so builders in this
// package (sequence/precedence lowering) can mint helper symbols.
func (g *Grammar) Symbols() *SymbolSource { return g.symbols }

// AddRule appends a fresh production lhs -> rhs with an original History,
// and returns it as a RuleHandle. Fails with ErrForeignSymbol if lhs or
// any symbol in rhs was not minted by this grammar's SymbolSource.
func (g *Grammar) AddRule(lhs Symbol, rhs []Symbol) (*Production, error) {
	return g.addRuleHistory(lhs, rhs, NewOriginHistory(""))
}

func (g *Grammar) addRuleHistory(lhs Symbol, rhs []Symbol, h *History) (*Production, error) {
	if !gconf.GetBool(confLenientForeignSymbols) {
		if !lhs.owns(g.symbols) {
			return nil, fmt.Errorf("%w: lhs %s", ErrForeignSymbol, lhs)
		}
		for _, s := range rhs {
			if !s.owns(g.symbols) {
				return nil, fmt.Errorf("%w: rhs symbol %s", ErrForeignSymbol, s)
			}
		}
	}
	p := &Production{LHS: lhs, RHS: append([]Symbol(nil), rhs...), Hist: h, serial: g.nextSerial}
	g.nextSerial++
	g.productions.Add(p)
	tracer().Debugf("added rule [%d] %s", p.serial, p)
	return p, nil
}

// AddRuleWithHistory is AddRule for callers that already have a History
// node to attach (package serialize, reconstructing a decoded
// production's provenance tag rather than starting a fresh origin).
func (g *Grammar) AddRuleWithHistory(lhs Symbol, rhs []Symbol, h *History) (*Production, error) {
	return g.addRuleHistory(lhs, rhs, h)
}

// RuleHandle is an opaque reference to a production within its grammar,
// returned by AddRule and the rule builders.
type RuleHandle = *Production

// Len returns the number of productions currently in the grammar.
func (g *Grammar) Len() int { return g.productions.Size() }

// RuleAt returns the i-th production in insertion order, or nil if i is
// out of range.
func (g *Grammar) RuleAt(i int) *Production {
	v, ok := g.productions.Get(i)
	if !ok {
		return nil
	}
	return v.(*Production)
}

// Iter returns a snapshot slice of all productions, in insertion order.
func (g *Grammar) Iter() []*Production {
	vals := g.productions.Values()
	out := make([]*Production, len(vals))
	for i, v := range vals {
		out[i] = v.(*Production)
	}
	return out
}

// Retain keeps only the productions for which keep returns true,
// preserving their relative order.
func (g *Grammar) Retain(keep func(*Production) bool) {
	kept := arraylist.New()
	it := g.productions.Iterator()
	for it.Next() {
		p := it.Value().(*Production)
		if keep(p) {
			kept.Add(p)
		}
	}
	g.productions = kept
}

// ExtendFrom appends every production of other to g, preserving their
// histories and relative order. The productions' symbols must already be
// owned by g (callers typically ExtendFrom only within helpers of a single
// rewrite pass that share one SymbolSource).
func (g *Grammar) ExtendFrom(other *Grammar) error {
	for _, p := range other.Iter() {
		if _, err := g.addRuleHistory(p.LHS, p.RHS, p.Hist); err != nil {
			return err
		}
	}
	return nil
}

// SetRoots replaces the grammar's root (start) symbol set.
func (g *Grammar) SetRoots(roots ...Symbol) {
	g.roots = append([]Symbol(nil), roots...)
}

// Roots returns the grammar's current root symbols, in the order they
// were set.
func (g *Grammar) Roots() []Symbol {
	return append([]Symbol(nil), g.roots...)
}

// Start returns the grammar's first root symbol, the "first root" policy
// used by FOLLOW/LL(1) when roots is ambiguous (more than one). Fails
// with ErrNoStart if roots is empty.
func (g *Grammar) Start() (Symbol, error) {
	if len(g.roots) == 0 {
		return Symbol{}, ErrNoStart
	}
	return g.roots[0], nil
}

// NullsEmptyString reports whether the empty string is known to be part
// of the grammar's language, a fact only EliminateNulling determines.
// False for a grammar that has not been through that rewrite, even if it
// happens to be nullable at the start symbol.
func (g *Grammar) NullsEmptyString() bool { return g.nullsEmptyString }

// AllSymbols returns every symbol minted by this grammar's SymbolSource,
// in id order, regardless of whether it still appears in any production.
func (g *Grammar) AllSymbols() []Symbol {
	n := g.symbols.NumSyms()
	out := make([]Symbol, n)
	for i := 0; i < n; i++ {
		out[i] = g.symbols.symbolAt(SymbolID(i))
	}
	return out
}

// EachSymbol calls fn for every symbol that appears in some surviving
// production (as LHS or within an RHS), each exactly once, in id order.
func (g *Grammar) EachSymbol(fn func(Symbol)) {
	seen := make(map[SymbolID]bool)
	var order []Symbol
	consider := func(s Symbol) {
		if !seen[s.ID] {
			seen[s.ID] = true
			order = append(order, s)
		}
	}
	for _, p := range g.Iter() {
		consider(p.LHS)
		for _, s := range p.RHS {
			consider(s)
		}
	}
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			if order[j].ID < order[i].ID {
				order[i], order[j] = order[j], order[i]
			}
		}
	}
	for _, s := range order {
		fn(s)
	}
}

// lhsSet returns the set of symbol ids that appear as LHS of some
// surviving production.
func (g *Grammar) lhsSet() map[SymbolID]bool {
	set := make(map[SymbolID]bool)
	for _, p := range g.Iter() {
		set[p.LHS.ID] = true
	}
	return set
}

// IsTerminal reports whether s is terminal: it never appears as the LHS
// of any surviving production. This is computed on demand from the
// production list rather than cached on the Symbol, since terminality is
// derived, not assigned.
func (g *Grammar) IsTerminal(s Symbol) bool {
	return !g.lhsSet()[s.ID]
}

// IsNonTerminal is the complement of IsTerminal.
func (g *Grammar) IsNonTerminal(s Symbol) bool {
	return g.lhsSet()[s.ID]
}

// FindRules returns every production whose LHS is lhs, in insertion order.
func (g *Grammar) FindRules(lhs Symbol) []*Production {
	var out []*Production
	for _, p := range g.Iter() {
		if p.LHS.ID == lhs.ID {
			out = append(out, p)
		}
	}
	return out
}

// Clone returns a deep-enough copy of g suitable as the starting point of
// a rewrite: a fresh Grammar sharing the same SymbolSource (so existing
// Symbol values remain valid) but with its own independent production
// list and roots slice. Rewrites build their output by cloning the input
// and then calling Retain/AddRule/ExtendFrom on the clone, so the input
// Grammar is never mutated: every rewrite produces a new production list
// atomically.
func (g *Grammar) Clone() *Grammar {
	clone := &Grammar{
		name:             g.name,
		symbols:          g.symbols,
		productions:      arraylist.New(),
		roots:            append([]Symbol(nil), g.roots...),
		nextSerial:       g.nextSerial,
		nullsEmptyString: g.nullsEmptyString,
	}
	for _, p := range g.Iter() {
		clone.productions.Add(p)
	}
	return clone
}

// Fingerprint returns a stable content hash over every surviving
// production (via Production.Fingerprint) plus the root set, in order.
// Two grammars with equal Fingerprint are not guaranteed to be identical
// (hash collision aside), but the converse holds: a rewrite that silently
// reorders or duplicates productions will change it. It covers each
// production's full History chain, so a grammar decoded by package
// serialize (which keeps only the most recent rewrite tag) does not share
// the original's fingerprint.
func (g *Grammar) Fingerprint() string {
	prodFPs := make([]string, 0, g.Len())
	for _, p := range g.Iter() {
		prodFPs = append(prodFPs, p.Fingerprint())
	}
	rootIDs := make([]int32, len(g.roots))
	for i, r := range g.roots {
		rootIDs[i] = int32(r.ID)
	}
	sum, err := structhash.Hash(struct {
		Productions []string
		Roots       []int32
	}{prodFPs, rootIDs}, 1)
	if err != nil {
		panic(err)
	}
	return sum
}

// Dump writes a plain, deterministic textual listing of the grammar's
// productions to w, one per line, in insertion order, e.g. for test
// goldens.
func (g *Grammar) Dump(w io.Writer) {
	fmt.Fprintf(w, "grammar %q (%d rules)\n", g.name, g.Len())
	for i, p := range g.Iter() {
		fmt.Fprintf(w, "%3d: %s\n", i, p)
	}
}
