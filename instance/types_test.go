package instance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratone-labs/jobshop/instance"
)

func twoByTwo() [][]instance.Operation {
	return [][]instance.Operation{
		{{Machine: 0, Duration: 3}, {Machine: 1, Duration: 2}},
		{{Machine: 0, Duration: 2}, {Machine: 1, Duration: 4}},
	}
}

func TestNewInstance_Valid(t *testing.T) {
	in, err := instance.NewInstance(2, twoByTwo())
	require.NoError(t, err)
	assert.Equal(t, 2, in.Jobs())
	assert.Equal(t, 2, in.Machines())
	assert.Equal(t, instance.Operation{Machine: 0, Duration: 3}, in.Op(0, 0))
	assert.Equal(t, instance.Operation{Machine: 1, Duration: 4}, in.Op(1, 1))
}

func TestNewInstance_Errors(t *testing.T) {
	cases := map[string]struct {
		machines int
		ops      [][]instance.Operation
		wantErr  error
	}{
		"no jobs": {
			machines: 2,
			ops:      nil,
			wantErr:  instance.ErrNoJobs,
		},
		"no machines": {
			machines: 0,
			ops:      twoByTwo(),
			wantErr:  instance.ErrNoMachines,
		},
		"op count mismatch": {
			machines: 2,
			ops: [][]instance.Operation{
				{{Machine: 0, Duration: 1}},
			},
			wantErr: instance.ErrOperationCountMismatch,
		},
		"machine out of range": {
			machines: 2,
			ops: [][]instance.Operation{
				{{Machine: 5, Duration: 1}, {Machine: 0, Duration: 1}},
			},
			wantErr: instance.ErrMachineOutOfRange,
		},
		"non positive duration": {
			machines: 2,
			ops: [][]instance.Operation{
				{{Machine: 0, Duration: 0}, {Machine: 1, Duration: 1}},
			},
			wantErr: instance.ErrNonPositiveDuration,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := instance.NewInstance(tc.machines, tc.ops)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestInstance_CloneIsIndependent(t *testing.T) {
	in, err := instance.NewInstance(2, twoByTwo())
	require.NoError(t, err)

	clone := in.Clone()
	swapped := clone.WithSwappedOperation(0, 1, 0)

	assert.Equal(t, instance.Operation{Machine: 0, Duration: 3}, in.Op(0, 0), "original must be unaffected")
	assert.Equal(t, instance.Operation{Machine: 0, Duration: 2}, swapped.Op(0, 0))
	assert.Equal(t, instance.Operation{Machine: 0, Duration: 3}, swapped.Op(1, 0))
}
