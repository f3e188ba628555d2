package procpool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunProcessCollectsExitCodeAndOutput(t *testing.T) {
	pool := New(2)
	pool.RunProcess(1, "", "sh", []string{"-c", "echo hello; exit 0"})
	results := pool.WaitForAllClosed()

	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].ExitCode)
	assert.Contains(t, string(results[0].Stdout), "hello")
}

func TestRunProcessPropagatesNonZeroExit(t *testing.T) {
	pool := New(2)
	pool.RunProcess(7, "", "sh", []string{"-c", "exit 3"})
	results := pool.WaitForAllClosed()

	require.Len(t, results, 1)
	assert.Equal(t, 7, results[0].ID)
	assert.Equal(t, 3, results[0].ExitCode)
}

func TestRunProcessSpawnFailureSetsErr(t *testing.T) {
	pool := New(1)
	pool.RunProcess(1, "", "/no/such/binary-cakebuild-test", nil)
	results := pool.WaitForAllClosed()

	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
	assert.Equal(t, -1, results[0].ExitCode)
}

func TestWaitForAllClosedBarriersWholeWave(t *testing.T) {
	pool := New(4)
	for i := 0; i < 4; i++ {
		pool.RunProcess(i, "", "sh", []string{"-c", "sleep 0.05; exit 0"})
	}
	results := pool.WaitForAllClosed()
	assert.Len(t, results, 4)
}

func TestWaitForAllClosedResetsForNextWave(t *testing.T) {
	pool := New(2)
	pool.RunProcess(1, "", "sh", []string{"-c", "exit 0"})
	first := pool.WaitForAllClosed()
	require.Len(t, first, 1)

	second := pool.WaitForAllClosed()
	assert.Len(t, second, 0, "a barrier with nothing new spawned since should return no results")
}

func TestLimitBoundsConcurrency(t *testing.T) {
	pool := New(1)

	start := time.Now()
	pool.RunProcess(1, "", "sh", []string{"-c", "sleep 0.1; exit 0"})
	pool.RunProcess(2, "", "sh", []string{"-c", "sleep 0.1; exit 0"})
	results := pool.WaitForAllClosed()
	elapsed := time.Since(start)

	assert.Len(t, results, 2)
	assert.GreaterOrEqual(t, elapsed.Milliseconds(), int64(180), "limit=1 should serialize the two sleeps")
}

func TestInterruptAllDoesNotPanicWithNoLiveProcesses(t *testing.T) {
	pool := New(1)
	assert.NotPanics(t, func() { pool.InterruptAll() })
}
