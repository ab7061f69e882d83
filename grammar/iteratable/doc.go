/*
Package iteratable implements iteratable container data structures.

Set is a special purpose set type, suitable mainly for implementing
fixed-point algorithms over grammar symbols and productions: nullability,
productivity, reachability, FIRST/FOLLOW, and minimal distance all need a
worklist that can be mutated while being walked. Plain range-over-map does
not support that safely.

Add, Remove and Union are destructive: they mutate the receiver. Subset
and Difference leave the receiver unchanged and return a fresh set.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package iteratable
