package serialize

import (
	"encoding/json"
	"testing"

	"github.com/norgram/cfg/grammar"
)

func buildRoundTripGrammar(t *testing.T) *grammar.Grammar {
	g := grammar.New("R")
	S := g.NewSymbol("S")
	a := g.NewSymbol("a")
	b := g.NewSymbol("b")
	if _, err := g.AddRule(S, []grammar.Symbol{a, S, b}); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddRule(S, nil); err != nil {
		t.Fatal(err)
	}
	g.SetRoots(S)
	return g
}

func TestEncodeDecodeRoundTripPreservesLanguage(t *testing.T) {
	g := buildRoundTripGrammar(t)
	snap, err := Encode(g)
	if err != nil {
		t.Fatal(err)
	}

	back, remap, err := Decode(snap)
	if err != nil {
		t.Fatal(err)
	}
	if back.Name() != "R" {
		t.Fatalf("expected name %q, got %q", "R", back.Name())
	}
	if back.Len() != g.Len() {
		t.Fatalf("expected %d productions, got %d", g.Len(), back.Len())
	}

	roots := back.Roots()
	if len(roots) != 1 {
		t.Fatalf("expected one root, got %d", len(roots))
	}
	origStart, err := g.Start()
	if err != nil {
		t.Fatal(err)
	}
	newID, ok := remap.Map(origStart.ID)
	if !ok || newID != roots[0].ID {
		t.Fatalf("expected remapped root to match decoded root")
	}

	for i, p := range g.Iter() {
		q := back.RuleAt(i)
		if id, ok := remap.Map(p.LHS.ID); !ok || id != q.LHS.ID || len(q.RHS) != len(p.RHS) {
			t.Fatalf("production %d: expected %s after round trip, got %s", i, p, q)
		}
		for j, s := range p.RHS {
			if id, ok := remap.Map(s.ID); !ok || id != q.RHS[j].ID {
				t.Fatalf("production %d: expected %s after round trip, got %s", i, p, q)
			}
		}
	}

	for _, p := range back.Iter() {
		found := false
		for _, s := range append([]grammar.Symbol{p.LHS}, p.RHS...) {
			if s.Name != "" {
				found = true
			}
		}
		_ = found // names are optional; just confirm no panic walking symbols
	}
}

func TestEncodeDecodePreservesHistoryTags(t *testing.T) {
	g := grammar.New("H")
	S := g.NewSymbol("S")
	a := g.NewSymbol("a")
	p, err := g.AddRule(S, []grammar.Symbol{a})
	if err != nil {
		t.Fatal(err)
	}
	p.Hist = grammar.Derive(grammar.Binarized, "test")
	g.SetRoots(S)

	snap, err := Encode(g)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Productions[0].History != "binarized" {
		t.Fatalf("expected history tag %q, got %q", "binarized", snap.Productions[0].History)
	}

	back, _, err := Decode(snap)
	if err != nil {
		t.Fatal(err)
	}
	if got := back.RuleAt(0).Hist.Tag(); got != grammar.Binarized {
		t.Fatalf("expected decoded tag %v, got %v", grammar.Binarized, got)
	}
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	g := buildRoundTripGrammar(t)
	data, err := Marshal(g)
	if err != nil {
		t.Fatal(err)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		t.Fatalf("expected valid JSON: %v", err)
	}

	back, _, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if back.Len() != g.Len() {
		t.Fatalf("expected %d productions after unmarshal, got %d", g.Len(), back.Len())
	}
}

func TestDecodeRejectsUnknownSymbolReference(t *testing.T) {
	snap := Snapshot{
		Name:        "bad",
		Symbols:     []SymbolSnapshot{{ID: 0, Name: "S"}},
		Productions: []ProductionSnapshot{{LHS: 0, RHS: []int32{7}, History: "original"}},
		Roots:       []int32{0},
	}
	if _, _, err := Decode(snap); err == nil {
		t.Fatal("expected error for production referencing unknown symbol id")
	}
}

func TestWithNameOverridesSnapshotName(t *testing.T) {
	g := buildRoundTripGrammar(t)
	snap, err := Encode(g)
	if err != nil {
		t.Fatal(err)
	}
	back, _, err := Decode(snap, WithName("renamed"))
	if err != nil {
		t.Fatal(err)
	}
	if back.Name() != "renamed" {
		t.Fatalf("expected name %q, got %q", "renamed", back.Name())
	}
}
