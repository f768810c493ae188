// File: anchor.go
// Role: the rule's "indexed-anchors map predicate -> literal anchors",
// used to turn a newly-inserted fluent ground atom into the set of
// rule-parameter vertices it makes eligible.
package kpkc

import "github.com/liftedplan/kpkc/ir"

// Anchor records that argument position ArgPos of some positive Fluent
// literal is bound to rule parameter Param.
type Anchor struct {
	ArgPos int
	Param  int
}

// AnchorMap maps a Fluent predicate to every (argument position, rule
// parameter) pair any positive body literal over that predicate declares.
type AnchorMap map[ir.Index][]Anchor

// DynamicLiterals returns rule's Fluent and Derived body literals together:
// every literal kind whose truth can change during a run, as opposed to
// Static literals, which are fixed for the whole run and are handled
// entirely by package consistency's static graph.
func DynamicLiterals(rule ir.RuleData) []ir.Literal {
	out := make([]ir.Literal, 0, len(rule.Body.Fluent)+len(rule.Body.Derived))
	out = append(out, rule.Body.Fluent...)
	out = append(out, rule.Body.Derived...)
	return out
}

// BuildAnchors scans rule's positive Fluent and Derived literals, recording
// one Anchor per variable argument. Negated literals
// never anchor a vertex: their absence cannot introduce a new binding
// candidate.
func BuildAnchors(p *ir.Program, rule ir.RuleData) AnchorMap {
	anchors := AnchorMap{}
	for _, l := range DynamicLiterals(rule) {
		if !l.Positive {
			continue
		}
		atom := p.Atoms.Get(l.Atom)
		for argPos, t := range atom.Args {
			if t.Kind == ir.TermVariable {
				anchors[atom.Predicate] = append(anchors[atom.Predicate], Anchor{ArgPos: argPos, Param: t.Variable})
			}
		}
	}
	return anchors
}

// AnchoredParams reports, for a rule of the given arity, which parameter
// positions are anchored by at least one positive Fluent literal. A
// parameter with no anchor is never restricted by fluent facts at the
// vertex level, so its entire static partition is unconditionally affected.
func (a AnchorMap) AnchoredParams(arity int) []bool {
	out := make([]bool, arity)
	for _, anchors := range a {
		for _, anc := range anchors {
			if anc.Param >= 0 && anc.Param < arity {
				out[anc.Param] = true
			}
		}
	}
	return out
}
