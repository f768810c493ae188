// File: stratify.go
// Role: Thiébaux-style predicate stratification.
//
// The transitive closure is a Floyd-Warshall variant over relation weights
// rather than path lengths: edge weights are StrictlyLower=0, LowerEq=1,
// Unconstrained=+Inf, so the stronger relation is the smaller finite weight
// and +Inf still means "no relation". The per-hop combine is
// min(hop1, hop2) instead of hop1+hop2 (a path is only as strict as its
// strictest link), while the outer relax stays min(existing, candidate):
// the strongest relation found so far wins.
package stratify

import (
	"fmt"
	"math"

	"github.com/hashicorp/go-multierror"

	"github.com/liftedplan/kpkc/ir"
)

// Relation classifies the stratification ordering between two predicates.
type Relation uint8

const (
	Unconstrained Relation = iota
	LowerEq
	StrictlyLower
)

func (r Relation) String() string {
	switch r {
	case LowerEq:
		return "<="
	case StrictlyLower:
		return "<"
	default:
		return "?"
	}
}

const (
	weightStrict = 0.0
	weightLowerEq = 1.0
)

func relationWeight(strict bool) float64 {
	if strict {
		return weightStrict
	}
	return weightLowerEq
}

func weightToRelation(w float64) Relation {
	switch {
	case math.IsInf(w, 1):
		return Unconstrained
	case w <= weightStrict:
		return StrictlyLower
	default:
		return LowerEq
	}
}

// Result is the stratification of one program: which stratum each predicate
// and each rule belongs to.
type Result struct {
	weight [][]float64 // closed relation matrix, indexed by predicate Index

	// Stratum[pred] is the stratum number assigned to predicate pred.
	Stratum []int
	// RuleStratum[rule] is the stratum of rule's head predicate.
	RuleStratum []int
	// NumStrata is the total number of strata, so callers can iterate
	// 0..NumStrata-1 in order.
	NumStrata int
}

// Relation reports the closed relation between predicates b and h:
// StrictlyLower if b must be computed in a stratum strictly before h's,
// LowerEq if b may share h's stratum, Unconstrained if the program never
// related them.
func (r *Result) Relation(b, h ir.Index) Relation {
	return weightToRelation(r.weight[b][h])
}

// Stratify classifies every predicate in p into strata. It returns an
// error wrapping ErrNotStratifiable, naming every self-strictly-lower
// predicate found, if the program's negation structure is cyclic.
func Stratify(p *ir.Program) (*Result, error) {
	n := int(p.Predicates.Size())
	weight := newInfMatrix(n)

	for i := ir.Index(0); i < p.Rules.Size(); i++ {
		rule := p.Rules.Get(i)
		head := rule.Head.Predicate

		recordLiteral := func(l ir.Literal) {
			body := p.Atoms.Get(l.Atom).Predicate
			relax(weight, int(body), int(head), relationWeight(!l.Positive))
		}
		for _, l := range rule.Body.Fluent {
			recordLiteral(l)
		}
		for _, l := range rule.Body.Derived {
			recordLiteral(l)
		}
	}

	closeTransitively(weight)

	var errs *multierror.Error
	for i := 0; i < n; i++ {
		if weightToRelation(weight[i][i]) == StrictlyLower {
			name := p.Predicates.Get(ir.Index(i)).Name
			errs = multierror.Append(errs, fmt.Errorf("predicate %q is strictly lower than itself", name))
		}
	}
	if errs != nil && errs.Len() > 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotStratifiable, errs.Error())
	}

	stratumOf, numStrata := peel(weight, n)

	ruleStratum := make([]int, p.Rules.Size())
	for i := ir.Index(0); i < p.Rules.Size(); i++ {
		ruleStratum[i] = stratumOf[p.Rules.Get(i).Head.Predicate]
	}

	return &Result{
		weight:      weight,
		Stratum:     stratumOf,
		RuleStratum: ruleStratum,
		NumStrata:   numStrata,
	}, nil
}

func newInfMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			m[i][j] = math.Inf(1)
		}
	}
	return m
}

// relax records a candidate weight between i and j, keeping the stronger
// (smaller) of the existing and candidate weight. A weight of math.Inf(1)
// for head==head (a rule with no negated self-dependency, the common case)
// is a no-op relax and leaves the diagonal at "no relation yet".
func relax(weight [][]float64, i, j int, candidate float64) {
	if math.IsInf(candidate, 1) {
		return
	}
	if candidate < weight[i][j] {
		weight[i][j] = candidate
	}
}

// closeTransitively runs the Floyd-Warshall k->i->j triple loop in place,
// substituting min for + in the inner combine.
func closeTransitively(weight [][]float64) {
	n := len(weight)
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			ik := weight[i][k]
			if math.IsInf(ik, 1) {
				continue
			}
			for j := 0; j < n; j++ {
				kj := weight[k][j]
				if math.IsInf(kj, 1) {
					continue
				}
				cand := ik
				if kj < cand {
					cand = kj
				}
				if cand < weight[i][j] {
					weight[i][j] = cand
				}
			}
		}
	}
}

// peel repeatedly extracts predicates that no not-yet-extracted predicate
// must precede: p is extractable once every q with q < p (weight[q][p]
// strict) has already been assigned to an earlier stratum.
func peel(weight [][]float64, n int) ([]int, int) {
	stratumOf := make([]int, n)
	assigned := make([]bool, n)
	remaining := n
	stratum := 0

	for remaining > 0 {
		var round []int
		for p := 0; p < n; p++ {
			if assigned[p] {
				continue
			}
			blocked := false
			for q := 0; q < n; q++ {
				if assigned[q] || q == p {
					continue
				}
				if weightToRelation(weight[q][p]) == StrictlyLower {
					blocked = true
					break
				}
			}
			if !blocked {
				round = append(round, p)
			}
		}
		if len(round) == 0 {
			// Stratify already rejected self-strict predicates, and the
			// closure turns any cycle of strict relations (p < q < p) into a
			// self-strict one, so no blocked round reaches this point. As a
			// guard against looping forever, every remaining predicate is
			// put into the current stratum.
			for p := 0; p < n; p++ {
				if !assigned[p] {
					round = append(round, p)
				}
			}
		}
		for _, p := range round {
			stratumOf[p] = stratum
			assigned[p] = true
		}
		remaining -= len(round)
		stratum++
	}
	return stratumOf, stratum
}
