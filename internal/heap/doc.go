// Package heap provides the memory model the collectors operate on: the object
// graph store, the generational partitions, the per-thread root set and the
// shared reachability tracer.
//
// Core invariants:
//   - Every live object sits in exactly one partition; its Location names it.
//   - Object ids come from a per-store counter and are never reused until Reset.
//   - Reachability is always recomputed from the current roots; nothing is cached.
//
// The package is single-threaded by contract. Callers must not interleave a
// reachability query with an in-flight collector phase.
package heap
