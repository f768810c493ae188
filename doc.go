// Package kpkc is the core of a lifted classical-planning grounder: given a
// first-order planning task (typed parameters, predicates, functions, action
// schemas, axioms) it produces the reachable ground facts by running a
// stratified, semi-naive, parallel bottom-up Datalog evaluation in which
// every rule's body-matching step is solved as a k-partite k-clique (kPKC)
// enumeration problem over a dynamically maintained consistency graph.
//
// Subpackages, leaves first:
//
//	ir/          interned, arena-backed IR for terms, atoms, rules, expressions
//	stratify/    predicate- and rule-stratification of a program
//	assign/      per-predicate/per-function assignment-set summaries
//	consistency/ static k-partite consistency graph construction, per rule
//	kpkc/        delta-kPKC clique enumeration, the hot path
//	schedule/    per-stratum active-rule tracking via listener maps
//	annotate/    OR/AND-node cost annotations (Sum/Max) and witness DAGs
//	costbucket/  monotone cost-bucket queue driving optimal-cost derivation
//	terminate/   goal-driven termination policy
//	facts/       dense per-predicate/per-function fact sets
//	domain/      variable-domain fixed-point analysis
//	engine/      the bottom-up driver tying the above together
//	plan/        lifted-task glue: successor generation and h_max/h_add/h_ff
//	planio/      plan serialization to the newline-delimited S-expression format
//
// Control flow: a parsed task is translated into an ir.Program, stratified
// and domain-analyzed, a consistency.Graph is built per rule, and the
// engine's Driver runs the bottom-up fixed point to closure one stratum at
// a time. Package plan wraps this as SuccessorGenerator.LabeledSuccessors
// and Heuristic.Evaluate for external search algorithms to consume.
package kpkc
