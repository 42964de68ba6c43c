// Package schedule holds the data types shared by every scheduler in this
// module: the placed Op, the J×M Table of placed operations, and the
// per-branch search State that the branch-and-bound engine pushes and pops
// as it recurses. Nothing here performs search — it is pure data plus the
// feasibility checks used by the tests.
package schedule

import (
	"errors"

	"github.com/ratone-labs/jobshop/instance"
)

// Sentinel errors for Table feasibility checks (§8 testable properties).
var (
	// ErrPrecedenceViolated indicates op i of some job starts before op i-1 ends.
	ErrPrecedenceViolated = errors.New("schedule: precedence violated")

	// ErrMachineOverlap indicates two operations on the same machine overlap in time.
	ErrMachineOverlap = errors.New("schedule: machine mutex violated")

	// ErrOperationMismatch indicates a scheduled op's (machine, duration) does
	// not match the instance declaration.
	ErrOperationMismatch = errors.New("schedule: scheduled operation does not match instance")

	// ErrIncompleteSchedule indicates not every (job, op) slot has been placed.
	ErrIncompleteSchedule = errors.New("schedule: incomplete schedule")
)

// Op is a scheduled operation: (machine, duration) from the instance plus
// the start/end time assigned by a scheduler. End is always Start+Duration.
type Op struct {
	Machine  int
	Duration int
	Start    int
	End      int
}

// unplaced is the sentinel Start/End value for a Table slot that has not
// been assigned yet.
const unplaced = -1

// Table is a J×M grid of scheduled operations, row-major by job.
type Table [][]Op

// NewTable allocates a Table of the given shape with every slot unplaced.
func NewTable(jobs, machines int) Table {
	t := make(Table, jobs)
	for j := range t {
		t[j] = make([]Op, machines)
		for i := range t[j] {
			t[j][i].Start, t[j][i].End = unplaced, unplaced
		}
	}

	return t
}

// Clone returns a deep, independent copy of the table.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for j, row := range t {
		out[j] = append([]Op(nil), row...)
	}

	return out
}

// Makespan returns the maximum End across all placed operations in t.
func (t Table) Makespan() int {
	var ms int
	for _, row := range t {
		for _, op := range row {
			if op.End > ms {
				ms = op.End
			}
		}
	}

	return ms
}

// StartTimes extracts the J×M grid of start times, in the shape the result
// writer (§6) emits: one row per job, M space-separated start times.
func (t Table) StartTimes() [][]int {
	out := make([][]int, len(t))
	for j, row := range t {
		out[j] = make([]int, len(row))
		for i, op := range row {
			out[j][i] = op.Start
		}
	}

	return out
}

// Validate checks feasibility of a complete table against inst (§3):
// precedence within each job, mutual exclusion on each machine, and that
// every (machine, duration) matches the instance declaration. It does not
// require optimality, only feasibility.
func Validate(inst instance.Instance, t Table) error {
	if len(t) != inst.Jobs() {
		return ErrIncompleteSchedule
	}

	for j, row := range t {
		if len(row) != inst.Machines() {
			return ErrIncompleteSchedule
		}
		for i, op := range row {
			if op.Start == unplaced {
				return ErrIncompleteSchedule
			}
			want := inst.Op(j, i)
			if op.Machine != want.Machine || op.Duration != want.Duration {
				return ErrOperationMismatch
			}
			if op.End != op.Start+op.Duration {
				return ErrOperationMismatch
			}
			if i > 0 && op.Start < row[i-1].End {
				return ErrPrecedenceViolated
			}
		}
	}

	// Machine mutex: group all ops by machine and check pairwise disjointness.
	byMachine := make(map[int][]Op)
	for _, row := range t {
		for _, op := range row {
			byMachine[op.Machine] = append(byMachine[op.Machine], op)
		}
	}
	for _, ops := range byMachine {
		for a := 0; a < len(ops); a++ {
			for b := a + 1; b < len(ops); b++ {
				if ops[a].Start < ops[b].End && ops[b].Start < ops[a].End {
					return ErrMachineOverlap
				}
			}
		}
	}

	return nil
}

// State is the mutable per-branch search state described in spec §3: how
// far each job has progressed, when each job/machine next becomes free, the
// partial table, and the running makespan. A State is stack-scoped — created
// on recursion entry, discarded on return.
type State struct {
	// ScheduledOps counts placed operations, 0..J*M.
	ScheduledOps int

	// JobProgress[j] is the next operation index for job j, 0..M.
	JobProgress []int

	// JobReady[j] is the earliest time job j's next operation may start.
	JobReady []int

	// MachineReady[m] is the earliest time machine m becomes free.
	MachineReady []int

	// Table holds the partial placement; slots with index >= JobProgress[j]
	// are still unplaced.
	Table Table

	// Makespan is max(End) over all placed operations so far.
	Makespan int
}

// NewRootState builds the empty search state for inst: no operations
// placed, every job/machine ready at time 0.
func NewRootState(inst instance.Instance) *State {
	return &State{
		ScheduledOps: 0,
		JobProgress:  make([]int, inst.Jobs()),
		JobReady:     make([]int, inst.Jobs()),
		MachineReady: make([]int, inst.Machines()),
		Table:        NewTable(inst.Jobs(), inst.Machines()),
		Makespan:     0,
	}
}

// Clone deep-copies s into freshly allocated storage, per spec §4.2 "State
// propagation": every recursive call gets its own copy of the three mutable
// slices (progress, job readiness, machine readiness) plus the table, so the caller can keep iterating sibling branches
// unaffected by what the callee does.
func (s *State) Clone() *State {
	return &State{
		ScheduledOps: s.ScheduledOps,
		JobProgress:  append([]int(nil), s.JobProgress...),
		JobReady:     append([]int(nil), s.JobReady...),
		MachineReady: append([]int(nil), s.MachineReady...),
		Table:        s.Table.Clone(),
		Makespan:     s.Makespan,
	}
}

// Place records operation (j, op) at [start, start+op.Duration) on the
// cloned state, updating progress, readiness, and makespan. Callers are
// expected to have already computed start = max(MachineReady[m], JobReady[j]).
func (s *State) Place(j, i int, op instance.Operation, start int) {
	end := start + op.Duration
	s.Table[j][i] = Op{Machine: op.Machine, Duration: op.Duration, Start: start, End: end}
	s.MachineReady[op.Machine] = end
	s.JobReady[j] = end
	s.JobProgress[j]++
	s.ScheduledOps++
	if end > s.Makespan {
		s.Makespan = end
	}
}

// Complete reports whether every operation of every job has been placed.
func (s *State) Complete(inst instance.Instance) bool {
	return s.ScheduledOps == inst.Jobs()*inst.Machines()
}
