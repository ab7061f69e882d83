// Package serialize gives grammar.Grammar a reversible encoding: a plain,
// JSON-tagged Snapshot that round-trips through Encode/Decode. Decoding
// mints a fresh SymbolSource, so symbol ids are not guaranteed to survive
// a round trip unchanged; Decode returns a RemapTable recording the old id
// each decoded symbol came from, the same contract Compact uses.
package serialize

import (
	"encoding/json"
	"fmt"

	cfg "github.com/norgram/cfg"
	"github.com/norgram/cfg/grammar"
)

// SymbolSnapshot is one entry of Snapshot.Symbols.
type SymbolSnapshot struct {
	ID   int32  `json:"id"`
	Name string `json:"name,omitempty"`
}

// ProductionSnapshot is one entry of Snapshot.Productions. History is
// recorded as its tag string only: the provenance chain (parents, detail
// strings) is not reconstructable from a snapshot, only the step that
// most recently produced the rule.
type ProductionSnapshot struct {
	LHS     int32   `json:"lhs"`
	RHS     []int32 `json:"rhs"`
	History string  `json:"history"`
	Weight  float64 `json:"weight,omitempty"`
}

// Snapshot is the wire form of a Grammar: symbols, productions and roots,
// named by symbol id. It marshals with encoding/json.
type Snapshot struct {
	Name        string               `json:"name"`
	Symbols     []SymbolSnapshot     `json:"symbols"`
	Productions []ProductionSnapshot `json:"productions"`
	Roots       []int32              `json:"roots"`
}

// Encode captures g's current symbols, productions and roots into a
// Snapshot. Symbol ids in the snapshot are g's own ids, not renumbered.
func Encode(g *grammar.Grammar) (Snapshot, error) {
	snap := Snapshot{Name: g.Name()}

	all := g.AllSymbols()
	snap.Symbols = make([]SymbolSnapshot, len(all))
	for i, s := range all {
		snap.Symbols[i] = SymbolSnapshot{ID: int32(s.ID), Name: s.Name}
	}

	for _, p := range g.Iter() {
		rhs := make([]int32, len(p.RHS))
		for i, s := range p.RHS {
			rhs[i] = int32(s.ID)
		}
		snap.Productions = append(snap.Productions, ProductionSnapshot{
			LHS:     int32(p.LHS.ID),
			RHS:     rhs,
			History: p.Hist.Tag().String(),
			Weight:  float64(p.Weight),
		})
	}

	roots := g.Roots()
	snap.Roots = make([]int32, len(roots))
	for i, r := range roots {
		snap.Roots[i] = int32(r.ID)
	}
	return snap, nil
}

// Marshal is a convenience wrapper around Encode and json.Marshal.
func Marshal(g *grammar.Grammar) ([]byte, error) {
	snap, err := Encode(g)
	if err != nil {
		return nil, err
	}
	return json.Marshal(snap)
}

// Unmarshal is a convenience wrapper around json.Unmarshal and Decode.
func Unmarshal(data []byte, opts ...Option) (*grammar.Grammar, RemapTable, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, RemapTable{}, fmt.Errorf("serialize: %w", err)
	}
	return Decode(snap, opts...)
}

// RemapTable records the snapshot-id -> decoded-id mapping Decode applied.
type RemapTable struct {
	oldToNew map[grammar.SymbolID]grammar.SymbolID
}

// Map returns the id a snapshot symbol id was decoded to, and whether the
// snapshot mentioned that id at all.
func (r RemapTable) Map(old grammar.SymbolID) (grammar.SymbolID, bool) {
	newID, ok := r.oldToNew[old]
	return newID, ok
}

// Option configures Decode.
type Option func(*decodeConfig)

type decodeConfig struct {
	name string
}

// WithName overrides the decoded grammar's name (Snapshot.Name by default).
func WithName(name string) Option {
	return func(c *decodeConfig) { c.name = name }
}

// Decode rebuilds a Grammar from snap. Symbols are minted in ascending
// snapshot-id order into a fresh SymbolSource, so decoded ids are dense
// from 0 regardless of gaps in the snapshot's own ids (Encode itself
// writes every symbol of the source, so its snapshots have none); the returned RemapTable
// lets a caller translate snapshot ids (e.g. from a separately-stored
// analysis result) into the decoded grammar's own ids.
func Decode(snap Snapshot, opts ...Option) (*grammar.Grammar, RemapTable, error) {
	conf := &decodeConfig{name: snap.Name}
	for _, opt := range opts {
		opt(conf)
	}

	symbols := append([]SymbolSnapshot(nil), snap.Symbols...)
	sortSymbolSnapshotsByID(symbols)

	g := grammar.New(conf.name)
	remap := RemapTable{oldToNew: make(map[grammar.SymbolID]grammar.SymbolID, len(symbols))}
	decoded := make(map[int32]grammar.Symbol, len(symbols))
	for _, ss := range symbols {
		ns := g.NewSymbol(ss.Name)
		remap.oldToNew[grammar.SymbolID(ss.ID)] = ns.ID
		decoded[ss.ID] = ns
	}

	resolve := func(id int32) (grammar.Symbol, error) {
		s, ok := decoded[id]
		if !ok {
			return grammar.Symbol{}, fmt.Errorf("serialize: snapshot references unknown symbol id %d", id)
		}
		return s, nil
	}

	for _, ps := range snap.Productions {
		lhs, err := resolve(ps.LHS)
		if err != nil {
			return nil, RemapTable{}, err
		}
		rhs := make([]grammar.Symbol, len(ps.RHS))
		for i, id := range ps.RHS {
			s, err := resolve(id)
			if err != nil {
				return nil, RemapTable{}, err
			}
			rhs[i] = s
		}
		tag, _ := grammar.ParseRewriteTag(ps.History)
		hist := grammar.Derive(tag, "decoded")
		p, err := g.AddRuleWithHistory(lhs, rhs, hist)
		if err != nil {
			return nil, RemapTable{}, err
		}
		p.Weight = cfg.Weight(ps.Weight)
	}

	roots := make([]grammar.Symbol, len(snap.Roots))
	for i, id := range snap.Roots {
		r, err := resolve(id)
		if err != nil {
			return nil, RemapTable{}, err
		}
		roots[i] = r
	}
	g.SetRoots(roots...)

	return g, remap, nil
}

func sortSymbolSnapshotsByID(syms []SymbolSnapshot) {
	for i := 1; i < len(syms); i++ {
		for j := i; j > 0 && syms[j].ID < syms[j-1].ID; j-- {
			syms[j], syms[j-1] = syms[j-1], syms[j]
		}
	}
}
