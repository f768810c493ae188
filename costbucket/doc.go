// Package costbucket implements the monotone cost-bucket driver: a
// priority queue of ground atoms keyed by current annotated cost, popped
// one whole tied-cost bucket at a time rather than one atom at a time
// (cost-bucket discipline, the engine's outer iteration order).
//
// Decrease-key is lazy: a cheaper push leaves the superseded entry in the
// heap, and NextBucket discards any popped entry whose recorded cost no
// longer matches the annotation table's authoritative value.
package costbucket
