// Package jssio reads job-shop instance files (".jss") and decodes them into
// an instance.Instance. It is an external collaborator with a narrow
// contract: io.Reader in, instance.Instance out. It never touches the search
// engine.
//
// File format (plain text, whitespace-delimited integers):
//
//	J M
//	m_0,0 d_0,0  m_0,1 d_0,1  ...  m_0,M-1 d_0,M-1
//	...
//	m_J-1,0 d_J-1,0 ... m_J-1,M-1 d_J-1,M-1
//
// J rows follow the header, each with M (machine, duration) pairs in
// declared operation order for that job.
package jssio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ratone-labs/jobshop/instance"
)

// Sentinel errors surfaced at load time, per spec §7 InputError. Wrapped with
// fmt.Errorf only to attach position context; callers should still use
// errors.Is against these sentinels.
var (
	ErrMissingHeader    = errors.New("jssio: missing or malformed J M header")
	ErrTruncatedData    = errors.New("jssio: truncated operation data")
	ErrNonPositiveCount = errors.New("jssio: job and machine counts must be positive")
)

// ParseFile opens filename and decodes it as a job-shop instance.
func ParseFile(filename string) (instance.Instance, error) {
	f, err := os.Open(filename)
	if err != nil {
		return instance.Instance{}, fmt.Errorf("jssio: opening %s: %w", filename, err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes a job-shop instance from r.
func Parse(r io.Reader) (instance.Instance, error) {
	sc := newTokenScanner(r)

	j, ok := sc.nextInt()
	if !ok {
		return instance.Instance{}, ErrMissingHeader
	}
	m, ok := sc.nextInt()
	if !ok {
		return instance.Instance{}, ErrMissingHeader
	}
	if j <= 0 || m <= 0 {
		return instance.Instance{}, ErrNonPositiveCount
	}

	ops := make([][]instance.Operation, j)
	for job := 0; job < j; job++ {
		row := make([]instance.Operation, m)
		for op := 0; op < m; op++ {
			machine, ok := sc.nextInt()
			if !ok {
				return instance.Instance{}, fmt.Errorf("%w: job %d op %d machine", ErrTruncatedData, job, op)
			}
			duration, ok := sc.nextInt()
			if !ok {
				return instance.Instance{}, fmt.Errorf("%w: job %d op %d duration", ErrTruncatedData, job, op)
			}
			row[op] = instance.Operation{Machine: machine, Duration: duration}
		}
		ops[job] = row
	}

	in, err := instance.NewInstance(m, ops)
	if err != nil {
		return instance.Instance{}, fmt.Errorf("jssio: %w", err)
	}

	return in, nil
}

// tokenScanner pulls whitespace-delimited integer tokens off r, independent
// of line breaks (the format does not require one pair per line).
type tokenScanner struct {
	sc *bufio.Scanner
}

func newTokenScanner(r io.Reader) *tokenScanner {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	return &tokenScanner{sc: sc}
}

func (t *tokenScanner) nextInt() (int, bool) {
	if !t.sc.Scan() {
		return 0, false
	}
	var v int
	_, err := fmt.Sscanf(t.sc.Text(), "%d", &v)
	if err != nil {
		return 0, false
	}

	return v, true
}
