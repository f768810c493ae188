// Package facts holds the engine's current ground fact sets: dense
// per-predicate membership for static/fluent/derived atoms, and per-function
// ground values, plus the "what's new this iteration" delta the scheduler
// and the kPKC enumerator both consult.
package facts
