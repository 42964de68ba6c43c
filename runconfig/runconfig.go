// Package runconfig decodes the optional --config YAML file cmd/jobshop
// accepts (spec SPEC_FULL "Configuration"): defaults for thread count,
// repeat count, search mode, and Gantt block size that CLI flags may
// override.
package runconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the decoded shape of a --config YAML document. Every field is a
// default; an explicit CLI flag always takes precedence over it.
type File struct {
	Mode      string `yaml:"mode"`
	Threads   int    `yaml:"threads"`
	Repeats   int    `yaml:"repeats"`
	BlockSize int    `yaml:"block_size"`
}

// Load reads and decodes path as a runconfig.File.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("runconfig: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("runconfig: %w", err)
	}

	return f, nil
}
