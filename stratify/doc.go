// Package stratify classifies fluent/derived predicates into strata so the
// bottom-up engine can evaluate negation-free within a stratum and never
// need a predicate's final value before it is fully computed.
package stratify
