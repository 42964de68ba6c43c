// Package orchestrator implements spec §4.5: it selects one of the three
// search modes, drives the corresponding engine, resets the incumbent
// between repeats, and reports timing averages alongside the final
// schedule. It is the seam between the CLI packages (cmd/jobshop,
// cmd/jobshop-exhaustive) and the core search packages (bnb, heuristic,
// incumbent) — nothing in here parses files or formats output, that is
// resultio's job.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ratone-labs/jobshop/bnb"
	"github.com/ratone-labs/jobshop/heuristic"
	"github.com/ratone-labs/jobshop/incumbent"
	"github.com/ratone-labs/jobshop/instance"
	"github.com/ratone-labs/jobshop/schedule"
)

// Mode selects one of the three search strategies named in spec §4.5.
type Mode string

const (
	// ModeExactBnB runs the pruned branch-and-bound search (spec §4.2).
	ModeExactBnB Mode = "exact-bnb"

	// ModeExactExhaustive runs the unpruned, audited full-search variant.
	ModeExactExhaustive Mode = "exact-exhaustive"

	// ModeHeuristic runs the shifting-bottleneck-like improver (spec §4.4).
	ModeHeuristic Mode = "heuristic"
)

// Sentinel errors for malformed orchestrator input.
var (
	// ErrUnknownMode indicates an Options.Mode outside the three named modes.
	ErrUnknownMode = errors.New("orchestrator: unknown mode")

	// ErrNonPositiveRepeats indicates Options.Repeats < 1.
	ErrNonPositiveRepeats = errors.New("orchestrator: repeats must be >= 1")
)

// Options configures one orchestrated run, possibly repeated R times for
// timing averages (spec §4.5).
type Options struct {
	// Mode selects the search strategy.
	Mode Mode

	// Threads bounds the bnb root-fan-out worker pool. Ignored in
	// ModeHeuristic, which is single-threaded by construction.
	Threads int

	// Repeats is R, the number of times the whole pipeline is re-run for
	// timing averages (spec §4.5). Must be >= 1.
	Repeats int

	// Audit receives branch records in ModeExactExhaustive. Nil is treated
	// as a no-op sink (bnb's default).
	Audit bnb.AuditSink

	// Logger receives structured progress/incumbent-update logs from the
	// underlying engine. Nil is treated as a no-op logger.
	Logger *zap.Logger
}

// Result is the outcome of Run: the incumbent of the last repeat run (all
// repeats search the same instance from a reset incumbent, so in the exact
// modes every repeat converges on the same optimum; spec §8 "Idempotent")
// plus timing and interruption metadata for the external writer (resultio).
type Result struct {
	// RunID identifies this orchestrator run. The commands echo it into the
	// result file header and the interrupt snapshot; it is not written to
	// the branch-audit log or attached to the structured logs.
	RunID uuid.UUID

	// Mode is the Options.Mode this result was produced under.
	Mode Mode

	// BestMakespan is the incumbent's makespan at the end of the run (or at
	// the point of interruption).
	BestMakespan int

	// BestSchedule is the incumbent's schedule at the end of the run.
	BestSchedule schedule.Table

	// Found reports whether any feasible schedule was recorded. False only
	// if Repeats completed with zero jobs (instance.NewInstance already
	// rejects that) or the very first repeat was interrupted before
	// reaching a leaf.
	Found bool

	// Interrupted reports whether the run ended early because ctx was
	// cancelled (spec §5 cancellation).
	Interrupted bool

	// RepeatsCompleted is how many of Options.Repeats were run, including
	// the repeat during which an interruption was detected, if any.
	RepeatsCompleted int

	// TotalElapsed sums wall-clock time across RepeatsCompleted runs.
	TotalElapsed time.Duration

	// AverageElapsed is TotalElapsed / RepeatsCompleted (zero if none
	// completed).
	AverageElapsed time.Duration
}

// Run selects the engine named by opts.Mode, executes it against inst,
// repeating opts.Repeats times with the incumbent reset before each
// repeat (spec §4.5), and returns the final incumbent plus timing
// metadata. Run stops re-running early if ctx is cancelled mid-repeat; the
// partial incumbent from that repeat is still returned, with
// Result.Interrupted set.
func Run(ctx context.Context, inst instance.Instance, opts Options) (Result, error) {
	if opts.Repeats < 1 {
		return Result{}, ErrNonPositiveRepeats
	}
	switch opts.Mode {
	case ModeExactBnB, ModeExactExhaustive, ModeHeuristic:
	default:
		return Result{}, ErrUnknownMode
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	result := Result{RunID: uuid.New(), Mode: opts.Mode}

	reg := incumbent.New()
	for repeat := 0; repeat < opts.Repeats; repeat++ {
		reg.Reset()

		start := time.Now()
		if err := runOnce(ctx, inst, opts, reg); err != nil {
			return Result{}, err
		}
		result.TotalElapsed += time.Since(start)
		result.RepeatsCompleted++

		if reg.Interrupted() {
			result.Interrupted = true

			break
		}
	}

	result.BestMakespan, result.BestSchedule, result.Found = reg.Snapshot()
	if result.RepeatsCompleted > 0 {
		result.AverageElapsed = result.TotalElapsed / time.Duration(result.RepeatsCompleted)
	}

	return result, nil
}

// runOnce drives a single pass of the selected mode against a freshly reset
// incumbent registry.
func runOnce(ctx context.Context, inst instance.Instance, opts Options, reg *incumbent.Registry) error {
	switch opts.Mode {
	case ModeExactBnB:
		eng, err := bnb.NewEngine(inst, reg, bnb.Options{Threads: opts.Threads, Logger: opts.Logger})
		if err != nil {
			return err
		}

		return eng.Run(ctx)

	case ModeExactExhaustive:
		eng, err := bnb.NewEngine(inst, reg, bnb.Options{
			Threads:    opts.Threads,
			Exhaustive: true,
			Audit:      opts.Audit,
			Logger:     opts.Logger,
		})
		if err != nil {
			return err
		}

		return eng.Run(ctx)

	case ModeHeuristic:
		tbl, err := heuristic.Improve(inst, heuristic.Options{Logger: opts.Logger})
		if err != nil {
			return err
		}
		reg.TryImprove(tbl.Makespan(), tbl)
		if ctx.Err() != nil {
			reg.Interrupt()
		}

		return nil
	}

	return ErrUnknownMode
}
