// Package construct implements the constructive list scheduler (spec §4.1):
// given an instance and an implicit job order, it produces a feasible,
// semi-active schedule by dispatching each job's operations in order, each
// one starting as soon as both its job and its machine are free.
//
// This is the shared baseline: the branch-and-bound engine places each
// operation with the same start rule, but interleaves operations of
// different jobs, whereas this scheduler dispatches each job's whole chain
// before the next job's. The heuristic improver (heuristic package)
// repeatedly re-runs this scheduler against perturbed instances.
package construct

import (
	"github.com/ratone-labs/jobshop/instance"
	"github.com/ratone-labs/jobshop/schedule"
)

// Order is the implicit job order: job Order[k] contributes its next
// operation at dispatch step k (wrapping: each job contributes exactly M
// operations in its own internal order, but jobs are visited by this outer
// sequence repeatedly). List returns an error if Order is not a permutation
// of [0, inst.Jobs()).
//
// Build produces the natural greedy baseline described in spec §4.1: for
// each job in Order, for each of its operations in declared order, compute
// start = max(machine_ready[m], job_ready[j]).
func Build(inst instance.Instance, order []int) (schedule.Table, error) {
	if err := validateOrder(inst, order); err != nil {
		return nil, err
	}

	jobReady := make([]int, inst.Jobs())
	machineReady := make([]int, inst.Machines())
	table := schedule.NewTable(inst.Jobs(), inst.Machines())

	for _, j := range order {
		for i := 0; i < inst.Machines(); i++ {
			op := inst.Op(j, i)
			start := machineReady[op.Machine]
			if jobReady[j] > start {
				start = jobReady[j]
			}
			end := start + op.Duration
			table[j][i] = schedule.Op{Machine: op.Machine, Duration: op.Duration, Start: start, End: end}
			machineReady[op.Machine] = end
			jobReady[j] = end
		}
	}

	return table, nil
}

// BuildDefault runs Build with the natural ascending job order 0..J-1, the
// baseline used whenever no particular dispatch order is requested.
func BuildDefault(inst instance.Instance) (schedule.Table, error) {
	order := make([]int, inst.Jobs())
	for j := range order {
		order[j] = j
	}

	return Build(inst, order)
}

func validateOrder(inst instance.Instance, order []int) error {
	if len(order) != inst.Jobs() {
		return errInvalidOrder
	}
	seen := make([]bool, inst.Jobs())
	for _, j := range order {
		if j < 0 || j >= inst.Jobs() || seen[j] {
			return errInvalidOrder
		}
		seen[j] = true
	}

	return nil
}
