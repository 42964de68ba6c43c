// Package incumbent implements the shared best-known-solution registry
// described in spec §4.3: a mutex-guarded best makespan + schedule pair that
// many search workers read and write concurrently, plus a one-way interrupt
// flag that every branch polls.
//
// Discipline (spec §4.3, §5):
//   - Writes (TryImprove) are serialized by a single mutex.
//   - Reads of the scalar bound (Best) may happen without the mutex: a
//     stale-high value only prunes less, never more, so correctness is
//     preserved. Reads of the schedule itself always take the mutex,
//     because the schedule update is not atomic with the makespan update.
package incumbent

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/ratone-labs/jobshop/schedule"
)

// Registry is a shared best-known-solution record for one optimization run.
// The zero value is not ready for use; construct with New.
type Registry struct {
	mu          sync.Mutex
	bestMakespan int
	bestSchedule schedule.Table
	found        bool

	// bound is an atomic mirror of bestMakespan for the lock-free prune-test
	// fast path (Best). It is only ever written while mu is held, but read
	// freely without it.
	bound atomic.Int64

	interrupted atomic.Bool
}

// New returns a Registry reset to its initial state: no incumbent found,
// best makespan +∞, not interrupted.
func New() *Registry {
	r := &Registry{}
	r.Reset()

	return r
}

// Reset restores the registry to +∞/not-found/not-interrupted, for reuse
// across repeated runs (spec §4.5 orchestrator repeats).
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bestMakespan = math.MaxInt
	r.bestSchedule = nil
	r.found = false
	r.bound.Store(math.MaxInt64)
	r.interrupted.Store(false)
}

// Best returns the current best makespan without taking the mutex. Safe to
// call from any goroutine on the hot path of the branch-and-bound prune
// test: the value returned is either current or stale-high, and a
// stale-high bound only prunes less, never more.
func (r *Registry) Best() int {
	return int(r.bound.Load())
}

// TryImprove atomically records (makespan, table) as the new incumbent iff
// makespan is strictly less than the current best, double-checking under
// the lock to avoid a racing leaf overwriting a better solution found by
// another worker between the caller's own pre-check and this call. Returns
// true iff the incumbent was updated. table is copied; the caller's copy
// remains theirs to mutate.
func (r *Registry) TryImprove(makespan int, table schedule.Table) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if makespan >= r.bestMakespan {
		return false
	}

	r.bestMakespan = makespan
	r.bestSchedule = table.Clone()
	r.found = true
	r.bound.Store(int64(makespan))

	return true
}

// Snapshot returns a consistent read of (best makespan, a copy of the best
// schedule, whether any incumbent has been found yet).
func (r *Registry) Snapshot() (makespan int, table schedule.Table, found bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.found {
		return 0, nil, false
	}

	return r.bestMakespan, r.bestSchedule.Clone(), true
}

// Interrupt sets the one-way interrupt flag. Idempotent; safe to call from a
// signal handler goroutine.
func (r *Registry) Interrupt() {
	r.interrupted.Store(true)
}

// Interrupted reports whether Interrupt has been called. Every search
// branch polls this at entry (spec §5 Cancellation) and returns immediately
// without attempting an incumbent update if it is set.
func (r *Registry) Interrupted() bool {
	return r.interrupted.Load()
}
