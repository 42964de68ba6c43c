// Command jobshop is the full CLI surface named in spec §6: it loads an
// instance file, runs one of the three search modes against it, and writes
// a result file, optionally backed by a --config YAML file of defaults.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ratone-labs/jobshop/jssio"
	"github.com/ratone-labs/jobshop/orchestrator"
	"github.com/ratone-labs/jobshop/resultio"
	"github.com/ratone-labs/jobshop/runconfig"
)

// ErrRepeatsOutOfRange is an ArgumentError (spec §7): repeats must be in
// [1, 100].
var ErrRepeatsOutOfRange = errors.New("jobshop: repeats must be in [1, 100]")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "jobshop",
		Short: "Exact and heuristic job-shop scheduling",
	}
	root.AddCommand(newRunCmd())

	return root
}

func newRunCmd() *cobra.Command {
	var (
		mode       string
		threads    int
		repeats    int
		blockSize  int
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "run <input.jss> <output.txt>",
		Short: "Run a search mode against an instance file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				cfg, err := runconfig.Load(configPath)
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("mode") && cfg.Mode != "" {
					mode = cfg.Mode
				}
				if !cmd.Flags().Changed("threads") && cfg.Threads > 0 {
					threads = cfg.Threads
				}
				if !cmd.Flags().Changed("repeats") && cfg.Repeats > 0 {
					repeats = cfg.Repeats
				}
				if !cmd.Flags().Changed("block-size") && cfg.BlockSize > 0 {
					blockSize = cfg.BlockSize
				}
			}

			if repeats < 1 || repeats > 100 {
				return ErrRepeatsOutOfRange
			}

			return runJobshop(args[0], args[1], mode, threads, repeats, blockSize)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(orchestrator.ModeExactBnB),
		"search mode: exact-bnb, exact-exhaustive, or heuristic")
	cmd.Flags().IntVar(&threads, "threads", 1, "root-fanout worker count (exact modes)")
	cmd.Flags().IntVar(&repeats, "repeats", 1, "number of timed repeats, in [1, 100]")
	cmd.Flags().IntVar(&blockSize, "block-size", resultio.DefaultBlockSize, "Gantt chart time units per character")
	cmd.Flags().StringVar(&configPath, "config", "", "optional YAML file of defaults")

	return cmd
}

func runJobshop(inputPath, outputPath, mode string, threads, repeats, blockSize int) error {
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync() //nolint:errcheck

	inst, err := jssio.ParseFile(inputPath)
	if err != nil {
		return fmt.Errorf("jobshop: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var audit *resultio.AuditLog
	opts := orchestrator.Options{
		Mode:    orchestrator.Mode(mode),
		Threads: threads,
		Repeats: repeats,
		Logger:  logger,
	}
	if opts.Mode == orchestrator.ModeExactExhaustive {
		audit, err = resultio.OpenAuditLog(resultio.DefaultBranchAuditPath)
		if err != nil {
			return fmt.Errorf("jobshop: %w", err)
		}
		defer audit.Close()
		opts.Audit = audit
	}

	result, err := orchestrator.Run(ctx, inst, opts)
	if err != nil {
		return fmt.Errorf("jobshop: %w", err)
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

		return fmt.Errorf("jobshop: interrupted")
	}

	hdr := resultio.ResultHeader{
		RunID:          result.RunID,
		InputPath:      inputPath,
		Repeats:        result.RepeatsCompleted,
		AverageElapsed: result.AverageElapsed,
		BlockSize:      blockSize,
	}
	if err := resultio.WriteResultFile(outputPath, inst, result.BestSchedule, hdr); err != nil {
		return fmt.Errorf("jobshop: %w", err)
	}

	return nil
}
