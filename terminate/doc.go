// Package terminate implements the stratum-level termination policy: a
// stratum keeps iterating only while some goal atom's annotation can still
// improve. Once every goal atom is settled — derived, with the current
// cost bucket already past its cost, so no future bucket can improve it —
// the stratum loop may stop early.
package terminate
