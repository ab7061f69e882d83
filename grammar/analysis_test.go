package grammar

import (
	"testing"

	cfg "github.com/norgram/cfg"
)

func TestNullabilityAndFirstSets(t *testing.T) {
	defer traceOn(t)()
	g, S, A, B, a := buildABCD(t)
	an := NewAnalysis(g)

	if !an.DerivesEpsilon(A) {
		t.Errorf("expected A to be nullable (A -> ε | a)")
	}
	if an.DerivesEpsilon(B) {
		t.Errorf("B should not be nullable")
	}
	if an.DerivesEpsilon(S) {
		t.Errorf("S should not be nullable: S -> A B and B is not nullable")
	}

	firstS := an.First(S)
	if len(firstS) != 2 {
		t.Fatalf("expected FIRST(S) = {a, b}, got %v", firstS)
	}
	foundA, foundB := false, false
	for _, s := range firstS {
		if s.ID == a.ID {
			foundA = true
		}
		if s.Name == "b" {
			foundB = true
		}
	}
	if !foundA || !foundB {
		t.Errorf("expected FIRST(S) to contain both a and b, got %v", firstS)
	}
}

func TestFollowIncludesEOFAtStart(t *testing.T) {
	defer traceOn(t)()
	g, S, _, B, _ := buildABCD(t)
	an := NewAnalysis(g)
	followS, err := an.Follow(S)
	if err != nil {
		t.Fatal(err)
	}
	if len(followS) != 1 || !isEOF(followS[0]) {
		t.Fatalf("expected FOLLOW(S) = {EOF}, got %v", followS)
	}
	followA, err := an.Follow(B)
	if err != nil {
		t.Fatal(err)
	}
	if len(followA) != 1 || !isEOF(followA[0]) {
		t.Fatalf("expected FOLLOW(B) = {EOF} (B is rightmost in S -> A B), got %v", followA)
	}
}

func TestFollowRequiresStart(t *testing.T) {
	defer traceOn(t)()
	g := New("G")
	S := g.NewSymbol("S")
	g.Rule(S).Epsilon()
	an := NewAnalysis(g)
	if _, err := an.Follow(S); err == nil {
		t.Fatalf("expected ErrNoStart when no roots are set")
	}
}

func TestMinDistanceLeftRecursive(t *testing.T) {
	defer traceOn(t)()
	// E -> E + num | num   (left recursive, classic minimal-distance case)
	g := New("G")
	E := g.NewSymbol("E")
	plus := g.NewSymbol("+")
	num := g.NewSymbol("num")
	g.Rule(E).RHS(E, plus, num)
	g.Rule(E).RHS(num)
	g.SetRoots(E)
	an := NewAnalysis(g)

	if d := an.MinDistance(num); d != 1 {
		t.Fatalf("expected MinDistance(num) = 1, got %d", d)
	}
	if d := an.MinDistance(E); d != 1 {
		t.Fatalf("expected MinDistance(E) = 1 (via E -> num), got %d", d)
	}
}

func TestMinDistanceUnproductiveIsInfinite(t *testing.T) {
	defer traceOn(t)()
	g := New("G")
	S := g.NewSymbol("S")
	Bad := g.NewSymbol("Bad")
	g.Rule(S).RHS(Bad)
	g.Rule(Bad).RHS(Bad) // only ever derives itself, never a terminal string
	g.SetRoots(S)
	an := NewAnalysis(g)
	if d := an.MinDistance(S); d != cfg.Infinite {
		t.Fatalf("expected MinDistance(S) = Infinite, got %d", d)
	}
	if an.IsProductive(S) {
		t.Errorf("S should not be productive")
	}
}

func TestReachableAndUseless(t *testing.T) {
	defer traceOn(t)()
	g, S, A, _, _ := buildABCD(t)
	Orphan := g.NewSymbol("Orphan")
	g.Rule(Orphan).RHS(A)
	an := NewAnalysis(g)
	if !an.IsReachable(S) {
		t.Errorf("S (the root) should be reachable")
	}
	if an.IsReachable(Orphan) {
		t.Errorf("Orphan should not be reachable from S")
	}
	foundOrphan := false
	for _, u := range an.Useless() {
		if u.ID == Orphan.ID {
			foundOrphan = true
		}
	}
	if !foundOrphan {
		t.Errorf("expected Orphan to be reported useless")
	}
}

func TestLL1FirstFirstConflict(t *testing.T) {
	defer traceOn(t)()
	// S -> a A | a B    (both alternatives start with 'a': FIRST/FIRST conflict)
	g := New("G")
	S := g.NewSymbol("S")
	A := g.NewSymbol("A")
	B := g.NewSymbol("B")
	a := g.NewSymbol("a")
	x := g.NewSymbol("x")
	y := g.NewSymbol("y")
	g.Rule(S).RHS(a, A)
	g.Rule(S).RHS(a, B)
	g.Rule(A).RHS(x)
	g.Rule(B).RHS(y)
	g.SetRoots(S)
	an := NewAnalysis(g)
	conflicts, err := ClassifyLL1(an)
	if err != nil {
		t.Fatal(err)
	}
	if len(conflicts) == 0 {
		t.Fatalf("expected at least one FIRST/FIRST conflict for S")
	}
	for _, c := range conflicts {
		if c.NonTerminal.ID != S.ID || c.Kind != FirstFirst || c.Terminal.ID != a.ID {
			t.Errorf("unexpected conflict shape: %s", c)
		}
	}
}

func TestLL1NoConflictForDisjointAlternatives(t *testing.T) {
	defer traceOn(t)()
	g, S, _, _, _ := buildABCD(t)
	an := NewAnalysis(g)
	conflicts, err := ClassifyLL1(an)
	if err != nil {
		t.Fatal(err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("expected no LL(1) conflicts, got %v", conflicts)
	}
	_ = S
}

func TestLL1NullableAmbiguity(t *testing.T) {
	defer traceOn(t)()
	// A -> ε | ε-deriving-B : two distinct nullable alternatives for the same LHS.
	g := New("G")
	S := g.NewSymbol("S")
	A := g.NewSymbol("A")
	C := g.NewSymbol("C")
	g.Rule(S).RHS(A)
	g.Rule(A).Epsilon()
	g.Rule(A).RHS(C)
	g.Rule(C).Epsilon()
	g.SetRoots(S)
	an := NewAnalysis(g)
	conflicts, err := ClassifyLL1(an)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, c := range conflicts {
		if c.Kind == NullableAmbiguity && c.NonTerminal.ID == A.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a NullableAmbiguity conflict for A, got %v", conflicts)
	}
}

func TestDetectCyclesFindsUnitCycle(t *testing.T) {
	defer traceOn(t)()
	// A -> B, B -> A : direct unit cycle.
	g := New("G")
	A := g.NewSymbol("A")
	B := g.NewSymbol("B")
	g.Rule(A).RHS(B)
	g.Rule(B).RHS(A)
	g.SetRoots(A)
	report, err := DetectCycles(g)
	if err != nil {
		t.Fatal(err)
	}
	if !report.HasCycles() {
		t.Fatalf("expected a cycle between A and B")
	}
}

func TestDetectCyclesNoneForAcyclicGrammar(t *testing.T) {
	defer traceOn(t)()
	g, _, _, _, _ := buildABCD(t)
	report, err := DetectCycles(g)
	if err != nil {
		t.Fatal(err)
	}
	if report.HasCycles() {
		t.Fatalf("expected no cycles, got %v", report.SCCs)
	}
}

func TestDetectCyclesThroughNullableNeighbor(t *testing.T) {
	defer traceOn(t)()
	// A -> N B, B -> A, N -> ε : A and B cycle because N is nullable.
	g := New("G")
	A := g.NewSymbol("A")
	B := g.NewSymbol("B")
	N := g.NewSymbol("N")
	g.Rule(A).RHS(N, B)
	g.Rule(B).RHS(A)
	g.Rule(N).Epsilon()
	g.SetRoots(A)
	report, err := DetectCycles(g)
	if err != nil {
		t.Fatal(err)
	}
	if !report.HasCycles() {
		t.Fatalf("expected a cycle between A and B mediated by nullable N")
	}
}
