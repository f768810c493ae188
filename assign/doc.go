// Package assign provides dense O(1) satisfiability overapproximations for
// the static facts of a planning task: which (position, object) singletons
// and (position1, object1, position2, object2) pairs ever appear for a given
// predicate, and which numeric interval a function's value may fall in at a
// given argument position.
package assign
