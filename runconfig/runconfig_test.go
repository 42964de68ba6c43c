package runconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratone-labs/jobshop/runconfig"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: heuristic\nthreads: 4\nrepeats: 10\nblock_size: 2\n"), 0o644))

	f, err := runconfig.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "heuristic", f.Mode)
	assert.Equal(t, 4, f.Threads)
	assert.Equal(t, 10, f.Repeats)
	assert.Equal(t, 2, f.BlockSize)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := runconfig.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
