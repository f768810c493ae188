// Package consistency builds, once per rule, the static k-partite
// consistency graph that the delta-kPKC enumerator (package kpkc) augments
// and searches at runtime. Only Static-role literals and numeric
// constraints over Static function terms feed the graph: Fluent and
// Derived literals change during the run and are instead checked by the
// applicability check after a candidate clique is found.
package consistency
