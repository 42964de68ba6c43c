// Command jobshop-exhaustive is the exhaustive-only CLI variant named in
// spec §6: its surface omits the thread count the full jobshop command
// exposes, always running the unpruned, audited full-search mode
// single-threaded.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	"github.com/ratone-labs/jobshop/jssio"
	"github.com/ratone-labs/jobshop/orchestrator"
	"github.com/ratone-labs/jobshop/resultio"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("jobshop-exhaustive: usage: jobshop-exhaustive <input> <output> <repeats>")
	}

	inputPath, outputPath := args[0], args[1]
	repeats, err := strconv.Atoi(args[2])
	if err != nil || repeats < 1 || repeats > 100 {
		return fmt.Errorf("jobshop-exhaustive: repeats must be an integer in [1, 100]")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync() //nolint:errcheck

	inst, err := jssio.ParseFile(inputPath)
	if err != nil {
		return fmt.Errorf("jobshop-exhaustive: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	audit, err := resultio.OpenAuditLog(resultio.DefaultBranchAuditPath)
	if err != nil {
		return fmt.Errorf("jobshop-exhaustive: %w", err)
	}
	defer audit.Close()

	result, err := orchestrator.Run(ctx, inst, orchestrator.Options{
		Mode:    orchestrator.ModeExactExhaustive,
		Threads: 1,
		Repeats: repeats,
		Audit:   audit,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("jobshop-exhaustive: %w", err)
	}

	if result.Interrupted {
		snapErr := resultio.WriteInterruptSnapshot(resultio.DefaultInterruptSnapshotPath, resultio.InterruptSnapshot{
			RunID:        result.RunID,
			BestMakespan: result.BestMakespan,
			Elapsed:      result.TotalElapsed,
			Schedule:     result.BestSchedule,
		})
		if snapErr != nil {
			logger.Error("failed to write interrupt snapshot", zap.Error(snapErr))
		}

		return fmt.Errorf("jobshop-exhaustive: interrupted")
	}

	hdr := resultio.ResultHeader{
		RunID:          result.RunID,
		InputPath:      inputPath,
		Repeats:        result.RepeatsCompleted,
		AverageElapsed: result.AverageElapsed,
	}

	return resultio.WriteResultFile(outputPath, inst, result.BestSchedule, hdr)
}
