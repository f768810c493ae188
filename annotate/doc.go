// Package annotate implements the OR/AND annotation tables that turn a
// bare ground-atom fact set into a cost-and-witness structure suitable for
// relaxed-plan extraction and heuristic estimation.
//
// An OR node (one ground atom) keeps its cheapest known cost and the
// witness that produced it, updated by Dijkstra-style relaxation: a
// candidate only applies when it strictly improves the current value. An
// AND node (one rule body under one binding) combines its supporting
// literals' costs through a Policy — Sum for h_add-style additive cost,
// Max for h_max-style bottleneck cost.
package annotate
