package resultio

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/ratone-labs/jobshop/bnb"
)

// AuditLog is a bnb.AuditSink that appends one line per branch to an
// underlying file: serial, depth, job, operation, machine, start, end,
// running makespan (spec §6 "Branch-audit log"). The bnb engine calls
// LogBranch concurrently from every root-seed worker in Exhaustive mode, so
// writes are serialized behind a mutex.
type AuditLog struct {
	mu sync.Mutex
	w  *bufio.Writer
	f  *os.File
}

var _ bnb.AuditSink = (*AuditLog)(nil)

// OpenAuditLog creates (or truncates) path and returns an AuditLog writing
// to it. Callers must Close it once the search finishes.
func OpenAuditLog(path string) (*AuditLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("resultio: %w", err)
	}

	return &AuditLog{w: bufio.NewWriter(f), f: f}, nil
}

// LogBranch implements bnb.AuditSink.
func (a *AuditLog) LogBranch(rec bnb.BranchRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()

	fmt.Fprintf(a.w, "%d %d %d %d %d %d %d %d\n",
		rec.Serial, rec.Depth, rec.Job, rec.Op, rec.Machine, rec.Start, rec.End, rec.Makespan)
}

// Close flushes buffered output and closes the underlying file.
func (a *AuditLog) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.w.Flush(); err != nil {
		a.f.Close()

		return fmt.Errorf("resultio: %w", err)
	}

	return a.f.Close()
}
