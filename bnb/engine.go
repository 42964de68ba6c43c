// Package bnb implements the Branch-and-Bound Engine (spec §4.2): a
// recursive, deterministic-per-subtree exhaustive search over active
// schedules, pruned against a shared incumbent.Registry, fanned out across a
// worker pool at the root (one seed per job, spec "Root fan-out for
// parallelism"). It also implements the unpruned Exhaustive/full-search mode
// used for audit and validation.
//
// Branching rule, bound, and state propagation follow spec §4.2 exactly:
// children are generated in ascending job index, a child is pruned iff
// end >= incumbent.Best() (strict; first-found wins — see spec §9), and
// every recursive call receives its own freshly cloned State so sibling
// iteration is unaffected by what a callee does.
package bnb

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ratone-labs/jobshop/incumbent"
	"github.com/ratone-labs/jobshop/instance"
	"github.com/ratone-labs/jobshop/schedule"
)

// ErrNoJobs is returned by NewEngine when the instance has no jobs to seed
// the root fan-out with.
var ErrNoJobs = errors.New("bnb: instance has no jobs")

// heartbeatInterval mirrors the original source's progress heartbeat
// cadence (spec SPEC_FULL §Supplemented features #1): one structured log
// line every this-many visited branches, sparse enough to be free in
// practice.
const heartbeatInterval = 100_000_000

// Options configures one Engine run.
type Options struct {
	// Threads bounds the number of worker goroutines draining the root
	// seed queue. Values < 1 are treated as 1. Values above the number of
	// jobs are clamped to the number of jobs (no seed to hand them).
	Threads int

	// Exhaustive disables pruning and emits every generated branch to
	// Audit (spec §4.2 "Full-search (unpruned) mode").
	Exhaustive bool

	// Audit receives one BranchRecord per generated branch when Exhaustive
	// is true. Nil is treated as a no-op sink.
	Audit AuditSink

	// Logger receives the sparse progress heartbeat and incumbent-update
	// notices. Nil is treated as a no-op logger.
	Logger *zap.Logger
}

// Engine runs the branch-and-bound search for one instance against one
// shared incumbent registry.
type Engine struct {
	inst instance.Instance
	reg  *incumbent.Registry
	opts Options

	steps        atomic.Uint64
	branchSerial atomic.Uint64
}

// NewEngine builds an Engine for inst, recording improvements into reg.
func NewEngine(inst instance.Instance, reg *incumbent.Registry, opts Options) (*Engine, error) {
	if inst.Jobs() == 0 {
		return nil, ErrNoJobs
	}
	if opts.Audit == nil {
		opts.Audit = noopAudit{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Threads < 1 {
		opts.Threads = 1
	}
	if opts.Threads > inst.Jobs() {
		opts.Threads = inst.Jobs()
	}

	return &Engine{inst: inst, reg: reg, opts: opts}, nil
}

// Run explores the full search tree (or until ctx is cancelled / the
// registry's interrupt flag is set), recording every improving leaf into the
// engine's incumbent registry. Run always returns nil: per spec §5 the
// engine never fails intrinsically, and cancellation (ctx or an external
// signal setting the registry's interrupt flag) is reflected in the
// incumbent, not in an error return. Callers distinguish a cancelled run by
// checking the registry's Interrupted() after Run returns.
func (e *Engine) Run(ctx context.Context) error {
	if ctx.Err() != nil {
		e.reg.Interrupt()

		return nil
	}

	// Bridge ctx cancellation into the registry's polled interrupt flag, so
	// every recursive call only ever needs to check one thing.
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go func() {
		<-watchCtx.Done()
		if ctx.Err() != nil {
			e.reg.Interrupt()
		}
	}()

	seeds := make(chan int, e.inst.Jobs())
	for j := 0; j < e.inst.Jobs(); j++ {
		seeds <- j
	}
	close(seeds)

	g, _ := errgroup.WithContext(ctx)
	for w := 0; w < e.opts.Threads; w++ {
		g.Go(func() error {
			for seedJob := range seeds {
				if e.reg.Interrupted() {
					return nil
				}
				e.exploreSeed(seedJob)
			}

			return nil
		})
	}

	return g.Wait()
}

// exploreSeed installs job seedJob's first operation at time 0 (spec §4.2
// "Root fan-out for parallelism") and recurses.
func (e *Engine) exploreSeed(seedJob int) {
	s := schedule.NewRootState(e.inst)
	op := e.inst.Op(seedJob, 0)
	s.Place(seedJob, 0, op, 0)
	e.dfs(s)
}

// dfs is the recursive branch-and-bound core (spec §4.2 "State machine of a
// branch"): Active -> Active (extend), Active -> Pruned (bound fails),
// Active -> Complete (leaf, triggers an incumbent update attempt).
func (e *Engine) dfs(s *schedule.State) {
	if e.reg.Interrupted() {
		return
	}

	if s.Complete(e.inst) {
		e.tryCommit(s)

		return
	}

	for j := 0; j < e.inst.Jobs(); j++ {
		next := s.JobProgress[j]
		if next >= e.inst.Machines() {
			continue
		}

		op := e.inst.Op(j, next)
		start := s.MachineReady[op.Machine]
		if s.JobReady[j] > start {
			start = s.JobReady[j]
		}
		end := start + op.Duration

		makespanAtNode := s.Makespan
		if end > makespanAtNode {
			makespanAtNode = end
		}

		pruned := !e.opts.Exhaustive && end >= e.reg.Best()

		if e.opts.Exhaustive {
			e.opts.Audit.LogBranch(BranchRecord{
				Serial:   e.branchSerial.Add(1),
				Depth:    s.ScheduledOps,
				Job:      j,
				Op:       next,
				Machine:  op.Machine,
				Start:    start,
				End:      end,
				Makespan: makespanAtNode,
			})
		}

		if pruned {
			continue
		}

		child := s.Clone()
		child.Place(j, next, op, start)
		e.heartbeat(child)
		e.dfs(child)
	}
}

// tryCommit attempts to record a completed schedule as the new incumbent.
func (e *Engine) tryCommit(s *schedule.State) {
	if e.reg.Interrupted() {
		return
	}
	if e.reg.TryImprove(s.Makespan, s.Table) {
		e.opts.Logger.Info("new incumbent", zap.Int("makespan", s.Makespan))
	}
}

// heartbeat mirrors the original source's sparse progress log (spec
// SPEC_FULL §Supplemented features #1): emitted every heartbeatInterval
// visited branches, independent of which worker crosses the threshold.
func (e *Engine) heartbeat(s *schedule.State) {
	steps := e.steps.Add(1)
	if steps%heartbeatInterval != 0 {
		return
	}
	e.opts.Logger.Info("search progress",
		zap.Uint64("branches_visited", steps),
		zap.Int("current_makespan", s.Makespan),
		zap.Int("incumbent_makespan", e.reg.Best()),
	)
}
