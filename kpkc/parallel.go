// File: parallel.go
// Role: fan the per-rule clique walk out across rules for one stratum
// iteration, using golang.org/x/sync/errgroup to fan work across a
// worker pool the same way a phased augmenting-path search would.
package kpkc

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParallelThreshold is the total affected-vertex count across a rule's
// partitions that at least one rule must reach before EnumerateAll
// dispatches the iteration's rules to worker goroutines rather than running
// them all inline; below it, goroutine scheduling overhead dominates the
// walk itself.
const ParallelThreshold = 1024

// RuleResult is one rule's enumeration output for a single iteration.
type RuleResult struct {
	RuleIdx int
	State   *RuleState
	Bindings []Binding
}

// affectedWeight sums each partition's affected-vertex count, the rough
// proxy for how much work this rule's walk is about to do.
func affectedWeight(s *RuleState) int {
	total := 0
	for p := 0; p < s.Arity(); p++ {
		total += int(s.Affected(p).Count())
	}
	return total
}

// EnumerateAll runs Enumerate for every rule state in states. With workers
// > 1, at least two hardware threads, and at least one rule crossing
// ParallelThreshold, the rules are dispatched across an errgroup capped at
// workers goroutines; otherwise every rule walks inline on the calling
// goroutine, since below the threshold goroutine scheduling overhead
// dominates the walk itself.
func EnumerateAll(ctx context.Context, states []*RuleState, workers int) ([]RuleResult, error) {
	results := make([]RuleResult, len(states))
	for i, s := range states {
		results[i] = RuleResult{RuleIdx: i, State: s}
	}

	if workers < 2 || runtime.GOMAXPROCS(0) < 2 || !anyAboveThreshold(states) {
		for i, s := range states {
			if err := enumerateInto(s, &results[i]); err != nil {
				return nil, err
			}
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, s := range states {
		i, s := i, s
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			return enumerateInto(s, &results[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func anyAboveThreshold(states []*RuleState) bool {
	for _, s := range states {
		if affectedWeight(s) >= ParallelThreshold {
			return true
		}
	}
	return false
}

func enumerateInto(s *RuleState, out *RuleResult) error {
	return Enumerate(s, func(b Binding) error {
		cp := make(Binding, len(b))
		copy(cp, b)
		out.Bindings = append(out.Bindings, cp)
		return nil
	})
}
