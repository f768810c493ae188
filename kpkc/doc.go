// Package kpkc implements the delta-kPKC clique enumerator: the hot path
// that turns "which new valid variable bindings did the latest fact layer
// introduce" into "which new k-cliques appeared in a k-partite undirected
// graph".
//
// The walk is a depth-first search with one candidate bitset per remaining
// partition, refined by intersection with the chosen vertex's adjacency
// row at each depth, and a touched-by-delta flag carried along the path so
// cliques made entirely of old vertices and old edges are never re-emitted.
package kpkc
