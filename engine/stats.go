package engine

import "sync"

// Stats accumulates run-wide diagnostic counters, read after (or during, via
// Snapshot) a Driver.Run call. All updates happen on the sequential
// merge/apply path, never from enumeration workers, so the mutex sees
// negligible contention.
type Stats struct {
	mu sync.Mutex

	Strata               int
	Iterations           int
	CliquesEnumerated    int
	ApplicabilityChecks  int
	NewHeads             int
}

func (s *Stats) bumpStrata()               { s.mu.Lock(); s.Strata++; s.mu.Unlock() }
func (s *Stats) bumpIterations()           { s.mu.Lock(); s.Iterations++; s.mu.Unlock() }
func (s *Stats) bumpCliques()              { s.mu.Lock(); s.CliquesEnumerated++; s.mu.Unlock() }
func (s *Stats) bumpApplicabilityChecks()  { s.mu.Lock(); s.ApplicabilityChecks++; s.mu.Unlock() }
func (s *Stats) bumpNewHeads()             { s.mu.Lock(); s.NewHeads++; s.mu.Unlock() }

// Snapshot returns a copy of the counters safe to read concurrently with
// further updates.
func (s *Stats) Snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Strata:              s.Strata,
		Iterations:          s.Iterations,
		CliquesEnumerated:   s.CliquesEnumerated,
		ApplicabilityChecks: s.ApplicabilityChecks,
		NewHeads:            s.NewHeads,
	}
}
