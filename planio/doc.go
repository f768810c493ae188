// Package planio serializes a package plan solution plan: one
// ground action per line in the conventional "(name arg1 arg2 ...)" form,
// followed by a trailing comment line giving the plan's total cost. It is
// a pure adapter between the in-memory representation and the textual
// form; the writer streams through bufio rather than building one giant
// string.
package planio
