package grammar

import (
	"bytes"
	"errors"
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func traceOn(t *testing.T) func() {
	gtrace.SyntaxTracer = gotestingadapter.New()
	gtrace.SyntaxTracer.SetTraceLevel(tracing.LevelDebug)
	return gotestingadapter.RedirectTracing(t)
}

func buildABCD(t *testing.T) (*Grammar, Symbol, Symbol, Symbol, Symbol) {
	g := New("G")
	S := g.NewSymbol("S")
	A := g.NewSymbol("A")
	B := g.NewSymbol("B")
	a := g.NewSymbol("a")
	b := g.NewSymbol("b")
	g.Rule(S).RHS(A, B)
	g.Rule(A).Epsilon()
	g.Rule(A).RHS(a)
	g.Rule(B).RHS(b)
	g.SetRoots(S)
	return g, S, A, B, a
}

func TestAddRuleAndIter(t *testing.T) {
	defer traceOn(t)()
	g, S, A, B, _ := buildABCD(t)
	if g.Len() != 4 {
		t.Fatalf("expected 4 rules, got %d", g.Len())
	}
	rules := g.Iter()
	if rules[0].LHS.ID != S.ID {
		t.Errorf("expected rule 0 lhs = S, got %v", rules[0].LHS)
	}
	if !g.IsNonTerminal(A) || !g.IsNonTerminal(B) {
		t.Errorf("A and B should be nonterminal")
	}
}

func TestIsTerminalDerived(t *testing.T) {
	defer traceOn(t)()
	g, _, _, _, a := buildABCD(t)
	if !g.IsTerminal(a) {
		t.Errorf("expected %v to be terminal (never appears as LHS)", a)
	}
}

func TestForeignSymbolRejected(t *testing.T) {
	defer traceOn(t)()
	g1 := New("G1")
	g2 := New("G2")
	foreign := g2.NewSymbol("X")
	lhs := g1.NewSymbol("S")
	if _, err := g1.AddRule(lhs, []Symbol{foreign}); !errors.Is(err, ErrForeignSymbol) {
		t.Fatalf("expected ErrForeignSymbol, got %v", err)
	}
}

func TestRetainPreservesOrder(t *testing.T) {
	defer traceOn(t)()
	g, S, A, B, _ := buildABCD(t)
	g.Retain(func(p *Production) bool { return p.LHS.ID != A.ID })
	for _, p := range g.Iter() {
		if p.LHS.ID == A.ID {
			t.Fatalf("expected A's rules to be retained out")
		}
	}
	rules := g.Iter()
	if len(rules) != 2 || rules[0].LHS.ID != S.ID || rules[1].LHS.ID != B.ID {
		t.Fatalf("expected [S -> A B, B -> b] in original order, got %v", rules)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	defer traceOn(t)()
	g, _, _, _, _ := buildABCD(t)
	clone := g.Clone()
	clone.Retain(func(p *Production) bool { return false })
	if clone.Len() != 0 {
		t.Fatalf("expected clone to be emptied, got %d", clone.Len())
	}
	if g.Len() != 4 {
		t.Fatalf("expected original grammar untouched, got %d rules", g.Len())
	}
}

func TestDumpIsDeterministic(t *testing.T) {
	defer traceOn(t)()
	g, _, _, _, _ := buildABCD(t)
	var b1, b2 bytes.Buffer
	g.Dump(&b1)
	g.Dump(&b2)
	if b1.String() != b2.String() {
		t.Fatalf("expected deterministic dump output")
	}
}

func TestFingerprintStableAcrossEquivalentBuild(t *testing.T) {
	defer traceOn(t)()
	g1, _, _, _, _ := buildABCD(t)
	g2, _, _, _, _ := buildABCD(t)
	if g1.Fingerprint() != g2.Fingerprint() {
		t.Fatalf("expected equal grammars to have equal fingerprints")
	}
}

func TestPrettyDumpMentionsEverySymbol(t *testing.T) {
	defer traceOn(t)()
	g, S, A, B, a := buildABCD(t)
	var buf bytes.Buffer
	if err := g.PrettyDump(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, sym := range []Symbol{S, A, B, a} {
		if !bytes.Contains(buf.Bytes(), []byte(sym.Name)) {
			t.Fatalf("expected pretty dump to mention %q, got:\n%s", sym.Name, out)
		}
	}
}
