// Package plan is the planning glue layer: it
// translates an opaque parsed task (predicates, functions, action schemas,
// axioms, objects, initial state, goal) into the core's ir.Program plus one
// Datalog rule per action schema and per axiom, and one effect-reachability
// rule per add atom of each action's effects, then wraps package engine's
// Driver as a SuccessorGenerator and as the three lifted heuristics
// (h_max, h_add, h_ff).
//
// Deliberately out of this package's scope: parsing a concrete
// planning-domain syntax into the Task/Domain interfaces below, search
// algorithms that call SuccessorGenerator and Heuristic, plan
// serialization callers (see package planio for the one piece of
// serialization the core itself owns), CLI argument parsing, and
// telemetry.
package plan
