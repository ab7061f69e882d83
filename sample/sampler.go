package sample

import (
	cfg "github.com/norgram/cfg"
	"github.com/norgram/cfg/grammar"
)

const defaultMaxBacktrack = 1024

const weightResolution = 1 << 20

// Sampler draws random terminal sentences from a weighted grammar.
type Sampler struct {
	g            *grammar.Grammar
	an           *grammar.Analysis
	source       Source
	maxLen       int
	maxBacktrack int
	guards       map[grammar.SymbolID]*Guard
}

// Option configures a Sampler at construction.
type Option func(*Sampler)

// WithMaxBacktrack overrides the default backtrack budget (1024) a
// lookahead guard violation may spend retrying decision points before
// the sampler gives up with ErrLookaheadUnsatisfiable.
func WithMaxBacktrack(n int) Option {
	return func(s *Sampler) { s.maxBacktrack = n }
}

// WithGuard attaches a negative lookahead guard to every occurrence of
// sym: while sym is being expanded, none of its derived terminals may be
// in guard.Forbidden.
func WithGuard(sym grammar.Symbol, guard *Guard) Option {
	return func(s *Sampler) { s.guards[sym.ID] = guard }
}

// NewSampler builds a Sampler over g, using an (already computed for g)
// for minimal-distance feasibility checks, drawing from source, and
// bounding output to at most maxLen terminals.
func NewSampler(g *grammar.Grammar, an *grammar.Analysis, source Source, maxLen int, opts ...Option) *Sampler {
	s := &Sampler{
		g:            g,
		an:           an,
		source:       source,
		maxLen:       maxLen,
		maxBacktrack: defaultMaxBacktrack,
		guards:       make(map[grammar.SymbolID]*Guard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// genState threads the mutable parts of a single Generate run through the
// recursive expand calls: the terminals emitted so far, the currently
// active guard set, and a running count of backtrack attempts spent.
type genState struct {
	emitted       []grammar.Symbol
	guards        []*Guard
	backtracks    int
	guardViolated bool
}

// Generate draws one terminal sentence derived from root, or fails with
// ErrLookaheadUnsatisfiable (some expansion violated a lookahead guard and
// no alternative succeeded before the alternatives or the backtrack budget
// ran out) or ErrBudgetExceeded (the same failure without any guard
// violation).
func (s *Sampler) Generate(root grammar.Symbol) ([]grammar.Symbol, error) {
	state := &genState{}
	ok := s.expand([]stackFrame{symbolFrame(root)}, state)
	if ok {
		tracer().Debugf("sampled sentence of length %d (backtracks=%d)", len(state.emitted), state.backtracks)
		return state.emitted, nil
	}
	if state.guardViolated {
		return nil, ErrLookaheadUnsatisfiable
	}
	return nil, ErrBudgetExceeded
}

// expand tries to fully resolve stack (head first) into emitted
// terminals, mutating state in place and restoring it on failure so a
// caller further up the recursion can try its own next alternative.
func (s *Sampler) expand(stack []stackFrame, state *genState) bool {
	if len(stack) == 0 {
		return true
	}
	top, rest := stack[0], stack[1:]

	if top.isGuardPop {
		saved := state.guards
		state.guards = removeGuard(state.guards, top.guard)
		if s.expand(rest, state) {
			return true
		}
		state.guards = saved
		return false
	}

	sym := top.sym
	if s.g.IsTerminal(sym) {
		for _, g := range state.guards {
			if g.forbids(sym) {
				state.guardViolated = true
				return false
			}
		}
		state.emitted = append(state.emitted, sym)
		if s.expand(rest, state) {
			return true
		}
		state.emitted = state.emitted[:len(state.emitted)-1]
		return false
	}

	prods := s.g.FindRules(sym)
	candidates := feasible(prods, s.an, sym, len(state.emitted), stack, s.maxLen)
	if len(candidates) == 0 {
		return false
	}

	tried := map[int]bool{}
	for {
		if state.backtracks >= s.maxBacktrack {
			return false
		}
		choice := s.weightedChoice(candidates, tried)
		if choice == nil {
			return false
		}
		tried[choice.Serial()] = true

		childFrames := make([]stackFrame, len(choice.RHS))
		for i, rs := range choice.RHS {
			childFrames[i] = symbolFrame(rs)
		}
		savedGuards := state.guards
		if guard, ok := s.guards[sym.ID]; ok {
			childFrames = append(childFrames, guardPopFrame(guard))
			state.guards = append(append([]*Guard{}, state.guards...), guard)
		}
		full := append(append([]stackFrame{}, childFrames...), rest...)
		if s.expand(full, state) {
			return true
		}
		state.guards = savedGuards
		state.backtracks++
	}
}

func removeGuard(guards []*Guard, g *Guard) []*Guard {
	out := make([]*Guard, 0, len(guards))
	removed := false
	for _, existing := range guards {
		if !removed && existing == g {
			removed = true
			continue
		}
		out = append(out, existing)
	}
	return out
}

// weightedChoice samples proportionally to weight among candidates not
// yet in tried. A zero-weight candidate is chosen only when it is the
// only untried one left; more generally, once every untried candidate
// carries weight zero, the choice falls back to a uniform draw among them.
func (s *Sampler) weightedChoice(candidates []*grammar.Production, tried map[int]bool) *grammar.Production {
	var remaining []*grammar.Production
	var total cfg.Weight
	for _, p := range candidates {
		if tried[p.Serial()] {
			continue
		}
		remaining = append(remaining, p)
		total += p.Weight
	}
	if len(remaining) == 0 {
		return nil
	}
	if total <= 0 {
		return remaining[s.source.Intn(len(remaining))]
	}
	draw := s.source.Intn(weightResolution)
	threshold := cfg.Weight(draw) * total / cfg.Weight(weightResolution)
	var cum cfg.Weight
	for _, p := range remaining {
		cum += p.Weight
		if cum > threshold {
			return p
		}
	}
	return remaining[len(remaining)-1]
}
