// Package gc provides the garbage-collection engines that mutate a heap.Model.
//
// Every engine replays an ordered phase sequence, one phase per Step call.
// Start entry points (StartMinor, StartMajor, StartYoung, StartMixed, Start)
// select the sequence; Step runs the next phase to completion and reports
// whether phases remain; Reset abandons the cycle without touching the heap.
//
// Engines are not safe for concurrent use and assume they are the only active
// collector on their model. "Parallel" and "concurrent" phases are labels:
// nothing runs on another goroutine.
package gc
