// Package engine is the bottom-up stratified evaluation driver: per
// stratum, repeatedly enumerate new variable bindings via package kpkc,
// verify each one exactly via the applicability check, fold accepted
// ground heads into the fact sets and annotation table, and reschedule
// only the rules a changed predicate actually affects, until the stratum
// reaches a fixed point.
//
// The shape is a phase loop: rebuild the per-rule delta state from the
// facts the last bucket advanced, walk the consistency graphs for new
// cliques, merge sequentially, repeat. Enumeration fans out across rules;
// the merge that interns heads and updates annotations stays sequential.
package engine
