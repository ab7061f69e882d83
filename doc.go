/*
Package cfg is a toolkit for building, analyzing and rewriting
context-free grammars.

It is intended as a preprocessing layer in front of a parser: clients
build a grammar with a fluent builder, subject it to structural analysis
(FIRST/FOLLOW, nullability, reachability, minimal distance, LL(1)
classification), and rewrite it into a shape a particular parsing
strategy requires (binarized for Earley-style chart parsers, cycle-free,
free of useless symbols). A separate weighted generator can then sample
terminal strings from the resulting grammar, treating per-production
weights as a PCFG.

Package structure:

■ grammar: the core package. Symbol allocation, the mutable Grammar
store, the three rule-building surfaces (flat, sequence, precedenced),
and every analysis and rewrite.

■ grammar/iteratable: a small destructive, iteratable Set type used by
the fixed-point computations in grammar.

■ sample: a weighted random sentence generator for PCFGs, built on top
of grammar's minimal-distance analysis.

■ serialize: a reversible encoding for grammar.Grammar.

The base package contains data types used throughout the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cfg
