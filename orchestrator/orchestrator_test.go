package orchestrator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratone-labs/jobshop/instance"
	"github.com/ratone-labs/jobshop/orchestrator"
	"github.com/ratone-labs/jobshop/schedule"
)

func twoByTwo(t *testing.T) instance.Instance {
	t.Helper()
	in, err := instance.NewInstance(2, [][]instance.Operation{
		{{Machine: 0, Duration: 3}, {Machine: 1, Duration: 2}},
		{{Machine: 0, Duration: 2}, {Machine: 1, Duration: 4}},
	})
	require.NoError(t, err)

	return in
}

func TestRun_ExactBnB(t *testing.T) {
	in := twoByTwo(t)

	result, err := orchestrator.Run(context.Background(), in, orchestrator.Options{
		Mode: orchestrator.ModeExactBnB, Threads: 2, Repeats: 1,
	})
	require.NoError(t, err)
	require.True(t, result.Found)
	require.NoError(t, schedule.Validate(in, result.BestSchedule))

	assert.Equal(t, 7, result.BestMakespan)
	assert.False(t, result.Interrupted)
	assert.Equal(t, 1, result.RepeatsCompleted)
	assert.NotEqual(t, [16]byte{}, result.RunID)
}

func TestRun_ExactExhaustive(t *testing.T) {
	in := twoByTwo(t)

	result, err := orchestrator.Run(context.Background(), in, orchestrator.Options{
		Mode: orchestrator.ModeExactExhaustive, Threads: 1, Repeats: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, result.BestMakespan)
}

func TestRun_Heuristic(t *testing.T) {
	in := twoByTwo(t)

	result, err := orchestrator.Run(context.Background(), in, orchestrator.Options{
		Mode: orchestrator.ModeHeuristic, Repeats: 1,
	})
	require.NoError(t, err)
	require.True(t, result.Found)
	require.NoError(t, schedule.Validate(in, result.BestSchedule))
	assert.GreaterOrEqual(t, result.BestMakespan, 8, "heuristic need not reach the exact optimum")
}

// TestRun_RepeatsAreIdempotent exercises spec §8 "Idempotent" across the
// orchestrator's repeat loop: every repeat resets the incumbent and must
// converge on the same result for an exact mode.
func TestRun_RepeatsAreIdempotent(t *testing.T) {
	in := twoByTwo(t)

	result, err := orchestrator.Run(context.Background(), in, orchestrator.Options{
		Mode: orchestrator.ModeExactBnB, Threads: 1, Repeats: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.RepeatsCompleted)
	assert.Equal(t, 7, result.BestMakespan)
	assert.Greater(t, result.AverageElapsed.Nanoseconds(), int64(-1))
}

func TestRun_RejectsUnknownMode(t *testing.T) {
	in := twoByTwo(t)

	_, err := orchestrator.Run(context.Background(), in, orchestrator.Options{
		Mode: "bogus", Repeats: 1,
	})
	assert.ErrorIs(t, err, orchestrator.ErrUnknownMode)
}

func TestRun_RejectsNonPositiveRepeats(t *testing.T) {
	in := twoByTwo(t)

	_, err := orchestrator.Run(context.Background(), in, orchestrator.Options{
		Mode: orchestrator.ModeExactBnB, Repeats: 0,
	})
	assert.ErrorIs(t, err, orchestrator.ErrNonPositiveRepeats)
}

func TestRun_Interrupted(t *testing.T) {
	in := twoByTwo(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := orchestrator.Run(ctx, in, orchestrator.Options{
		Mode: orchestrator.ModeExactBnB, Threads: 1, Repeats: 5,
	})
	require.NoError(t, err)
	assert.True(t, result.Interrupted)
	assert.Equal(t, 1, result.RepeatsCompleted, "must not keep repeating after an interrupt")
}
