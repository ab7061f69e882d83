package sample

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/norgram/cfg/grammar"
)

func traceOn(t *testing.T) func() {
	gtrace.SyntaxTracer = gotestingadapter.New()
	gtrace.SyntaxTracer.SetTraceLevel(tracing.LevelDebug)
	return gotestingadapter.RedirectTracing(t)
}

// fixedSource always returns its n (clamped to the draw's upper bound), the
// simplest deterministic Source. With n == 0 it always takes the first
// positive-weight candidate, or the first candidate when all weigh zero.
type fixedSource struct{ n int }

func (f *fixedSource) Intn(n int) int {
	if f.n >= n {
		return n - 1
	}
	return f.n
}

func buildGeometricGrammar(t *testing.T) (*grammar.Grammar, grammar.Symbol) {
	g := grammar.New("G")
	S := g.NewSymbol("S")
	a := g.NewSymbol("a")
	g.Rule(S).Weighted(0.5, a, S)
	g.Rule(S).Weighted(0.5)
	g.SetRoots(S)
	return g, S
}

func TestWeightedGeneratorGeometricLength(t *testing.T) {
	defer traceOn(t)()
	g, S := buildGeometricGrammar(t)
	an := grammar.NewAnalysis(g)
	source := NewSeededSource(0)
	s := NewSampler(g, an, source, 10)

	const trials = 500
	total := 0
	for i := 0; i < trials; i++ {
		out, err := s.Generate(S)
		if err != nil {
			t.Fatalf("trial %d: unexpected error %v", i, err)
		}
		if len(out) > 10 {
			t.Fatalf("trial %d: output length %d exceeds L_max", i, len(out))
		}
		total += len(out)
	}
	mean := float64(total) / float64(trials)
	if mean < 0.5 || mean > 2.0 {
		t.Fatalf("expected geometric mean length near 1, got %f", mean)
	}
}

func TestWeightedGeneratorDeterministicForFixedSeed(t *testing.T) {
	defer traceOn(t)()
	g, S := buildGeometricGrammar(t)
	an := grammar.NewAnalysis(g)

	run := func() []grammar.Symbol {
		s := NewSampler(g, an, NewSeededSource(0), 10)
		out, err := s.Generate(S)
		if err != nil {
			t.Fatal(err)
		}
		return out
	}
	first := run()
	second := run()
	if len(first) != len(second) {
		t.Fatalf("expected deterministic output for a fixed seed, got lengths %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("expected identical output for a fixed seed, diverged at index %d", i)
		}
	}
}

func TestBudgetExceededWhenNoFeasibleProduction(t *testing.T) {
	defer traceOn(t)()
	// S must always expand to at least two terminals (S -> a a), so a
	// budget of 0 can never be satisfied.
	g := grammar.New("G")
	S := g.NewSymbol("S")
	a := g.NewSymbol("a")
	g.Rule(S).RHS(a, a)
	g.SetRoots(S)
	an := grammar.NewAnalysis(g)
	s := NewSampler(g, an, &fixedSource{}, 0)
	if _, err := s.Generate(S); !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("expected ErrBudgetExceeded, got %v", err)
	}
}

func TestGuardForcesAlternateProduction(t *testing.T) {
	defer traceOn(t)()
	// S -> A x | A y ; A -> a.  A Guard forbidding 'x' right after A
	// should force the sampler toward "a y" even though "a x" is listed
	// (and weighted) first.
	g := grammar.New("G")
	S := g.NewSymbol("S")
	A := g.NewSymbol("A")
	a := g.NewSymbol("a")
	x := g.NewSymbol("x")
	y := g.NewSymbol("y")
	g.Rule(S).Weighted(1, A, x)
	g.Rule(S).Weighted(1, A, y)
	g.Rule(A).RHS(a)
	g.SetRoots(S)
	an := grammar.NewAnalysis(g)
	guard := NewGuard(x)
	s := NewSampler(g, an, &fixedSource{n: 0}, 10, WithGuard(S, guard))

	out, err := s.Generate(S)
	if err != nil {
		t.Fatal(err)
	}
	for _, sym := range out {
		if sym.ID == x.ID {
			t.Fatalf("expected guard to forbid x, got output %v", out)
		}
	}
}

func TestLookaheadUnsatisfiableWhenEveryAlternativeForbidden(t *testing.T) {
	defer traceOn(t)()
	g := grammar.New("G")
	S := g.NewSymbol("S")
	x := g.NewSymbol("x")
	g.Rule(S).RHS(x)
	g.SetRoots(S)
	an := grammar.NewAnalysis(g)
	guard := NewGuard(x)
	s := NewSampler(g, an, &fixedSource{}, 10, WithGuard(S, guard), WithMaxBacktrack(4))
	if _, err := s.Generate(S); !errors.Is(err, ErrLookaheadUnsatisfiable) {
		t.Fatalf("expected ErrLookaheadUnsatisfiable, got %v", err)
	}
}
