package systems

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/softraster/engine/core"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
)

// blockWorkers occupies every worker until the returned function is called.
func blockWorkers(t *testing.T, js *JobSystem, n int) func() {
	t.Helper()
	release := make(chan struct{})
	var started sync.WaitGroup
	started.Add(n)
	for i := 0; i < n; i++ {
		require.NoError(t, js.Submit(metadata.NewTask("blocker", metadata.PriorityFrameUpdate, func() error {
			started.Done()
			<-release
			return nil
		})))
	}
	started.Wait()
	return func() { close(release) }
}

func TestPriorityOrdering(t *testing.T) {
	submissions := [][]metadata.TaskPriority{
		{2, 0, 1},
		{0, 1, 2},
		{1, 2, 0},
	}
	for _, order := range submissions {
		js, err := NewJobSystem(1, metadata.PriorityAscending)
		require.NoError(t, err)

		release := blockWorkers(t, js, 1)
		var mu sync.Mutex
		var completed []metadata.TaskPriority
		for _, p := range order {
			task := metadata.NewTask("p", p, nil)
			task.OnComplete(func(tk *metadata.Task, _ error) {
				mu.Lock()
				completed = append(completed, tk.Priority())
				mu.Unlock()
			})
			require.NoError(t, js.Submit(task))
		}
		release()
		js.WaitForIdle()
		js.Shutdown()

		assert.Equal(t, []metadata.TaskPriority{0, 1, 2}, completed, "submitted %v", order)
	}
}

func TestDescendingPriorityOrder(t *testing.T) {
	js, err := NewJobSystem(1, metadata.PriorityAscending)
	require.NoError(t, err)
	defer js.Shutdown()

	release := blockWorkers(t, js, 1)
	var completed []metadata.TaskPriority
	for _, p := range []metadata.TaskPriority{0, 2, 1} {
		task := metadata.NewTask("p", p, nil)
		task.OnComplete(func(tk *metadata.Task, _ error) { completed = append(completed, tk.Priority()) })
		require.NoError(t, js.Submit(task))
	}
	js.SetPriorityOrder(metadata.PriorityDescending)
	release()
	js.WaitForIdle()

	assert.Equal(t, []metadata.TaskPriority{2, 1, 0}, completed)
}

func TestChainedSubmissionsFinishBeforeIdle(t *testing.T) {
	js, err := NewJobSystem(4, metadata.PriorityAscending)
	require.NoError(t, err)
	defer js.Shutdown()

	var stages atomic.Int32
	first := metadata.NewTask("first", metadata.PriorityGeometryUpdate, func() error {
		stages.Add(1)
		return nil
	})
	first.OnComplete(func(*metadata.Task, error) {
		second := metadata.NewTask("second", metadata.PriorityRender, func() error {
			stages.Add(1)
			return nil
		})
		assert.NoError(t, js.Submit(second))
	})
	require.NoError(t, js.Submit(first))
	js.WaitForIdle()
	assert.Equal(t, int32(2), stages.Load())
}

func TestSubmitRejectsResubmission(t *testing.T) {
	js, err := NewJobSystem(2, metadata.PriorityAscending)
	require.NoError(t, err)

	task := metadata.NewTask("once", metadata.PriorityRender, nil)
	require.NoError(t, js.Submit(task))
	js.WaitForIdle()
	assert.ErrorIs(t, js.Submit(task), core.ErrTaskAlreadyQueued)

	js.Shutdown()
	assert.ErrorIs(t, js.Submit(metadata.NewTask("late", metadata.PriorityRender, nil)), core.ErrJobSystemClosed)
}

func TestFailingTasksStillComplete(t *testing.T) {
	js, err := NewJobSystem(1, metadata.PriorityAscending)
	require.NoError(t, err)
	defer js.Shutdown()

	boom := errors.New("boom")
	var got error
	task := metadata.NewTask("fails", metadata.PriorityRender, func() error { return boom })
	task.OnComplete(func(_ *metadata.Task, err error) { got = err })
	require.NoError(t, js.Submit(task))
	js.WaitForIdle()
	assert.ErrorIs(t, got, boom)
	assert.Equal(t, metadata.TaskCompleted, task.State())
}

func TestPurgeAll(t *testing.T) {
	js, err := NewJobSystem(1, metadata.PriorityAscending)
	require.NoError(t, err)
	defer js.Shutdown()

	release := blockWorkers(t, js, 1)
	var ran atomic.Int32
	tasks := make([]*metadata.Task, 5)
	for i := range tasks {
		tasks[i] = metadata.NewTask("stale", metadata.PriorityRender, func() error {
			ran.Add(1)
			return nil
		})
		require.NoError(t, js.Submit(tasks[i]))
	}
	assert.Equal(t, 5, js.Pending())
	assert.Equal(t, 5, js.PurgeAll())
	release()
	js.WaitForIdle()

	assert.Equal(t, int32(0), ran.Load())
	for _, task := range tasks {
		assert.Equal(t, metadata.TaskDiscarded, task.State())
	}
}

func TestSetWorkerCount(t *testing.T) {
	js, err := NewJobSystem(2, metadata.PriorityAscending)
	require.NoError(t, err)
	defer js.Shutdown()

	assert.ErrorIs(t, js.SetWorkerCount(0), core.ErrInvalidWorkerCount)
	require.NoError(t, js.SetWorkerCount(4))
	assert.Equal(t, 4, js.Workers())

	// all four workers can run at once
	release := blockWorkers(t, js, 4)
	release()
	js.WaitForIdle()

	require.NoError(t, js.SetWorkerCount(1))
	assert.Equal(t, 1, js.Workers())

	var ran atomic.Int32
	for i := 0; i < 10; i++ {
		require.NoError(t, js.Submit(metadata.NewTask("after", metadata.PriorityRender, func() error {
			ran.Add(1)
			return nil
		})))
	}
	js.WaitForIdle()
	assert.Equal(t, int32(10), ran.Load())
}

func TestDefaultWorkerCount(t *testing.T) {
	js, err := NewJobSystem(0, metadata.PriorityAscending)
	require.NoError(t, err)
	defer js.Shutdown()
	assert.GreaterOrEqual(t, js.Workers(), 1)

	_, err = NewJobSystem(-1, metadata.PriorityAscending)
	assert.ErrorIs(t, err, core.ErrInvalidWorkerCount)
}
