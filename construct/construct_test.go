package construct_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratone-labs/jobshop/construct"
	"github.com/ratone-labs/jobshop/instance"
	"github.com/ratone-labs/jobshop/schedule"
)

func machineContention(t *testing.T) instance.Instance {
	t.Helper()
	in, err := instance.NewInstance(1, [][]instance.Operation{
		{{Machine: 0, Duration: 4}},
		{{Machine: 0, Duration: 3}},
		{{Machine: 0, Duration: 2}},
	})
	require.NoError(t, err)

	return in
}

func TestBuildDefault_MachineContention(t *testing.T) {
	in := machineContention(t)

	tbl, err := construct.BuildDefault(in)
	require.NoError(t, err)
	require.NoError(t, schedule.Validate(in, tbl))

	assert.Equal(t, 0, tbl[0][0].Start)
	assert.Equal(t, 4, tbl[1][0].Start)
	assert.Equal(t, 7, tbl[2][0].Start)
	assert.Equal(t, 9, tbl.Makespan())
}

func TestBuild_OrderChangesOutcome(t *testing.T) {
	in := machineContention(t)

	// Reversed order: job 2 first, then 1, then 0.
	tbl, err := construct.Build(in, []int{2, 1, 0})
	require.NoError(t, err)
	require.NoError(t, schedule.Validate(in, tbl))

	assert.Equal(t, 0, tbl[2][0].Start)
	assert.Equal(t, 2, tbl[1][0].Start)
	assert.Equal(t, 5, tbl[0][0].Start)
	assert.Equal(t, 9, tbl.Makespan())
}

func TestBuild_RejectsNonPermutation(t *testing.T) {
	in := machineContention(t)

	_, err := construct.Build(in, []int{0, 0, 2})
	assert.Error(t, err)

	_, err = construct.Build(in, []int{0, 1})
	assert.Error(t, err)
}

func TestBuildDefault_Precedence(t *testing.T) {
	in, err := instance.NewInstance(3, [][]instance.Operation{
		{{Machine: 0, Duration: 5}, {Machine: 1, Duration: 5}, {Machine: 2, Duration: 5}},
	})
	require.NoError(t, err)

	tbl, err := construct.BuildDefault(in)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 5, 10}, tbl.StartTimes()[0])
	assert.Equal(t, 15, tbl.Makespan())
}
