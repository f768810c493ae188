// File: function.go
// Role: FunctionFactSet — ground function-term values, keyed by GroupIndex
// exactly like PredicateFactSet keys ground atoms.
package facts

import (
	"sync"

	"github.com/liftedplan/kpkc/ir"
)

// FunctionFactSet holds the current ground value of every function term the
// program has ever computed, and implements ir.FunctionValues so expression
// evaluation can read through it directly.
type FunctionFactSet struct {
	mu     sync.RWMutex
	values map[ir.GroupIndex]float64
	delta  map[ir.GroupIndex]struct{}
}

// NewFunctionFactSet returns an empty function fact set.
func NewFunctionFactSet() *FunctionFactSet {
	return &FunctionFactSet{
		values: make(map[ir.GroupIndex]float64),
		delta:  make(map[ir.GroupIndex]struct{}),
	}
}

// Set records ft's current value, overwriting any previous one (fluent
// functions may be reassigned by a later, cheaper witness).
func (s *FunctionFactSet) Set(ft ir.GroupIndex, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[ft] = value
	s.delta[ft] = struct{}{}
}

// Value implements ir.FunctionValues.
func (s *FunctionFactSet) Value(ft ir.GroupIndex) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[ft]
	return v, ok
}

// Clone returns an independent deep copy of s. See
// PredicateFactSet.Clone for why package plan needs this.
func (s *FunctionFactSet) Clone() *FunctionFactSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := NewFunctionFactSet()
	for ft, v := range s.values {
		out.values[ft] = v
	}
	for ft := range s.delta {
		out.delta[ft] = struct{}{}
	}
	return out
}

// AdvanceDelta clears the set of function terms changed since the last call.
func (s *FunctionFactSet) AdvanceDelta() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delta = make(map[ir.GroupIndex]struct{}, len(s.delta))
}

// DeltaTerms returns every function term whose value changed since the last
// AdvanceDelta.
func (s *FunctionFactSet) DeltaTerms() []ir.GroupIndex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ir.GroupIndex, 0, len(s.delta))
	for ft := range s.delta {
		out = append(out, ft)
	}
	return out
}
