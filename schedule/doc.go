// Package schedule tracks, per stratum, which rules are worth enumerating
// this iteration: a rule only needs re-enumeration once one of the
// predicates its body actually reads has received a new fact. The listener
// map is "predicate -> listening rule indices", recomputed into an active
// set from whatever predicates the previous bucket advanced.
package schedule
