// File: state.go
// Role: State is one search node: a Built task's facts at some point along
// a candidate plan, independent of every other node so a search algorithm
// (out of this package's scope) can hold many at once.
package plan

import "github.com/liftedplan/kpkc/facts"

// State is one planning search node's fact snapshot.
type State struct {
	built *Built
	Facts *facts.FactSets
}

// InitialState returns the search node for built's initial state.
func InitialState(built *Built) *State {
	return &State{built: built, Facts: built.InitialFacts.CloneForSearchNode()}
}

// Clone returns an independent copy of s, safe to mutate without affecting
// s (or any other clone descended from the same ancestor).
func (s *State) Clone() *State {
	return &State{built: s.built, Facts: s.Facts.CloneForSearchNode()}
}

// IsGoal reports whether every goal atom built.Goal names currently holds in
// s ("task.goal as a conjunctive ground condition").
func (s *State) IsGoal() bool {
	for _, g := range s.built.Goal {
		role := s.built.Program.Predicates.Get(g.Group).Role
		if !s.Facts.ForRole(role).Contains(g) {
			return false
		}
	}
	return true
}
