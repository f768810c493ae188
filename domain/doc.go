// Package domain computes a conservative fixed-point over-approximation of
// which objects may bind to each predicate/function argument position and to
// each rule's parameters. The engine's consistency-graph builder (package
// consistency) uses these domains to size vertex partitions without ever
// scanning the full object universe per rule.
package domain
