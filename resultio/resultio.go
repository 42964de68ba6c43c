// Package resultio implements the external collaborators named in spec §6:
// formatting and writing the result file, the interrupt snapshot file, and
// the branch-audit log. Nothing in this package searches or schedules —
// it only knows how to render a schedule.Table plus a ResultHeader or
// InterruptSnapshot to text, mirroring the original source's write_output/print_gantt_chart/
// handle_interrupt functions (see original_source/mainV4.c,
// mainV6BranchSave.c).
package resultio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/ratone-labs/jobshop/instance"
	"github.com/ratone-labs/jobshop/schedule"
)

// DefaultBlockSize is the Gantt chart compression factor used when the
// caller does not override it: one character of chart represents this many
// time units, matching the original source's constant.
const DefaultBlockSize = 5

// DefaultInterruptSnapshotPath is the fixed sink spec §6 describes for the
// interrupt snapshot ("Sink is a fixed filename").
const DefaultInterruptSnapshotPath = "interrupted_output.txt"

// DefaultBranchAuditPath is the fixed sink for the branch-audit log (spec §6
// "Sink is a fixed filename").
const DefaultBranchAuditPath = "branch_audit.log"

// ResultHeader carries everything WriteResult needs beyond the schedule
// itself: identifying metadata for the comment header and the performance
// footer.
type ResultHeader struct {
	// RunID identifies the orchestrator run, echoed into the comment header.
	RunID uuid.UUID

	// InputPath names the instance file, echoed into the comment header.
	InputPath string

	// Repeats is R, the repeat count the average below was computed over.
	Repeats int

	// AverageElapsed is the averaged wall-clock time over Repeats runs.
	AverageElapsed time.Duration

	// BlockSize is the Gantt chart's time-units-per-character compression
	// factor. Zero means DefaultBlockSize.
	BlockSize int
}

// WriteResultFile creates (or truncates) path and writes the full result
// file described in spec §6: comment header, best_makespan, one start-time
// line per job, a Gantt chart, and a performance footer.
func WriteResultFile(path string, inst instance.Instance, tbl schedule.Table, hdr ResultHeader) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("resultio: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := WriteResult(w, inst, tbl, hdr); err != nil {
		return fmt.Errorf("resultio: %w", err)
	}

	return w.Flush()
}

// WriteResult renders the result file body (spec §6) to w. Split out from
// WriteResultFile so tests can assert against an in-memory buffer instead of
// round-tripping through the filesystem.
func WriteResult(w io.Writer, inst instance.Instance, tbl schedule.Table, hdr ResultHeader) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# job-shop result for %s (run %s)\n", hdr.InputPath, hdr.RunID)
	fmt.Fprintln(bw, tbl.Makespan())

	for _, row := range tbl.StartTimes() {
		for i, start := range row {
			if i > 0 {
				fmt.Fprint(bw, " ")
			}
			fmt.Fprint(bw, start)
		}
		fmt.Fprintln(bw)
	}

	writeGanttChart(bw, inst, tbl, blockSizeOrDefault(hdr.BlockSize))

	fmt.Fprintf(bw, "\n# Performance: average %.6f s over %d repetition(s)\n",
		hdr.AverageElapsed.Seconds(), hdr.Repeats)

	return bw.Flush()
}

// InterruptSnapshot is the minimal payload spec §6's interrupt snapshot
// needs: whatever the incumbent looked like at the moment of interruption.
type InterruptSnapshot struct {
	RunID        uuid.UUID
	BestMakespan int
	Elapsed      time.Duration
	Schedule     schedule.Table
}

// WriteInterruptSnapshot writes the fixed-format interrupt snapshot (spec §6
// "Interrupt snapshot file") to path: header, current best makespan, elapsed
// time, then the start-times table.
func WriteInterruptSnapshot(path string, snap InterruptSnapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("resultio: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "# INTERRUPTED EXECUTION (run %s)\n", snap.RunID)
	fmt.Fprintf(bw, "Best makespan: %d\n", snap.BestMakespan)
	fmt.Fprintf(bw, "Elapsed: %.6f s\n", snap.Elapsed.Seconds())

	for _, row := range snap.Schedule.StartTimes() {
		for i, start := range row {
			if i > 0 {
				fmt.Fprint(bw, " ")
			}
			fmt.Fprint(bw, start)
		}
		fmt.Fprintln(bw)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("resultio: %w", err)
	}

	return nil
}

func blockSizeOrDefault(n int) int {
	if n <= 0 {
		return DefaultBlockSize
	}

	return n
}

// writeGanttChart renders one row per machine, a block-size-character
// compression of the timeline, and a job label (J<idx>) wherever that
// machine is busy during the block (spec §6; grounded on the original
// source's print_gantt_chart). Ties (two jobs overlapping the same block on
// the same machine, which cannot happen in a feasible schedule but could in
// a partial one) resolve to the lowest job index, mirroring the source's
// first-match-wins scan order.
func writeGanttChart(w io.Writer, inst instance.Instance, tbl schedule.Table, blockSize int) {
	makespan := tbl.Makespan()
	blocks := (makespan + blockSize - 1) / blockSize

	fmt.Fprintf(w, "\n# Gantt Chart (Compressed: 1 char = %d time units)\n", blockSize)

	for m := 0; m < inst.Machines(); m++ {
		fmt.Fprintf(w, "Machine %2d |", m)
		for b := 0; b < blocks; b++ {
			tStart := b * blockSize
			tEnd := tStart + blockSize

			label := "  "
			for j, row := range tbl {
				found := false
				for _, op := range row {
					if op.Machine == m && op.Start < tEnd && op.End > tStart {
						label = fmt.Sprintf("J%d", j)
						found = true

						break
					}
				}
				if found {
					break
				}
			}
			fmt.Fprint(w, label)
		}
		fmt.Fprintln(w, "|")
	}

	fmt.Fprint(w, "\nTime       ")
	for b := 0; b < blocks; b++ {
		label := b * blockSize
		switch {
		case label < 10:
			fmt.Fprintf(w, "  %d", label)
		case label < 100:
			fmt.Fprintf(w, " %d", label)
		default:
			fmt.Fprintf(w, "%d", label)
		}
	}
	fmt.Fprintf(w, " %d\n", makespan)
}
