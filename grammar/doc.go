/*
Package grammar implements the core of a context-free grammar (CFG)
manipulation toolkit: symbol allocation, a mutable grammar store, the
three rule-building surfaces (flat rules, sequence rules, precedenced
rules), a suite of fixed-point analyses (FIRST, FOLLOW, nullability,
productivity, reachability, minimal distance, LL(1) classification), and
the invariant-preserving rewrites that shape an arbitrary grammar into a
form a parser can consume (binarization, nulling elimination, cycle
elimination, useless-rule removal, symbol compaction).

Building a Grammar

Grammars are built with a grammar builder object. Clients allocate
symbols, then add rules over them:

	g := grammar.New("G")
	S, A, B, D := g.NewSymbol("S"), g.NewSymbol("A"), g.NewSymbol("B"), g.NewSymbol("D")
	a, d := g.NewSymbol("a"), g.NewSymbol("d")
	g.Rule(S).RHS(A, D)
	g.Rule(A).RHS(B)
	g.Rule(B).RHS(a)
	g.Rule(B).Epsilon()
	g.Rule(D).RHS(d)
	g.SetRoots(S)

Static Grammar Analysis

Once a grammar is complete it can be subjected to analysis:

	an := grammar.NewAnalysis(g)
	first := an.First(A)
	follow, err := an.Follow(A)

Rewrites

Rewrites consume a grammar and produce a new one, never mutating their
input:

	g2, err := grammar.Binarize(g)
	g3, err := grammar.EliminateNulling(g2)

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammar
