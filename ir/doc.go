// Package ir provides the interned, arena-backed intermediate representation
// shared by every other package in this module: symbols, objects, variables,
// predicates, functions, terms, atoms, literals, function terms, numeric
// expressions, rules and conjunctive conditions.
//
// Every interned node type implements Data: a canonical, comparable
// projection (Key) used for structural deduplication (hash-consing) at
// insertion time. Repository is the single-owner arena for one node type;
// Overlay lets a worker extend a read-only parent's index space without
// copying it, forwarding lookups to the parent before writing locally.
// GroupedOverlay layers that same parent/local split per predicate or
// function, matching the group-indexed numbering ground atoms and ground
// function terms require.
//
// Indices never change their meaning or their repository once assigned:
// the arena is append-only for the lifetime of a run. Fresh root Programs
// are created by package plan when it translates a task and by
// EliminateDanglingExistentials, which re-interns into a new Program.
package ir
