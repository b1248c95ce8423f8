package systems

import (
	"runtime"
	"sync"

	"github.com/spaghettifunk/softraster/engine/containers"
	"github.com/spaghettifunk/softraster/engine/core"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
)

/**
 * @brief A fixed-size pool of workers pulling tasks from a priority queue.
 * Tasks never wait on each other: dependent work is submitted from the
 * completion listener of its prerequisite.
 */
type JobSystem struct {
	mu    sync.Mutex
	cond  *sync.Cond
	queue *containers.PriorityQueue[*metadata.Task]
	order metadata.PriorityOrder

	workers int
	retire  int
	active  int
	closed  bool
	wg      sync.WaitGroup
}

// NewJobSystem starts numWorkers workers, or one per CPU when numWorkers is 0.
func NewJobSystem(numWorkers int, order metadata.PriorityOrder) (*JobSystem, error) {
	if numWorkers < 0 {
		return nil, core.ErrInvalidWorkerCount
	}
	if numWorkers == 0 {
		numWorkers = runtime.NumCPU()
	}

	js := &JobSystem{order: order}
	js.cond = sync.NewCond(&js.mu)
	js.queue = js.newQueue(order)

	js.mu.Lock()
	js.spawn(numWorkers)
	js.mu.Unlock()

	core.LogInfo("job system started with %d workers, %s priority order", numWorkers, order)
	return js, nil
}

func (js *JobSystem) newQueue(order metadata.PriorityOrder) *containers.PriorityQueue[*metadata.Task] {
	return containers.NewPriorityQueue(func(a, b *metadata.Task) bool {
		return order.Before(a.Priority(), b.Priority())
	})
}

// spawn must be called with mu held.
func (js *JobSystem) spawn(n int) {
	for i := 0; i < n; i++ {
		js.wg.Add(1)
		js.workers++
		go js.work()
	}
}

func (js *JobSystem) work() {
	defer js.wg.Done()

	js.mu.Lock()
	defer js.mu.Unlock()
	for {
		for js.queue.Len() == 0 && !js.closed && js.retire == 0 {
			js.cond.Wait()
		}
		if js.retire > 0 {
			js.retire--
			js.workers--
			js.cond.Broadcast()
			return
		}
		task, ok := js.queue.Pop()
		if !ok {
			// closed and drained
			js.workers--
			return
		}
		js.active++
		js.mu.Unlock()

		if err := task.Execute(); err != nil {
			core.LogError("task '%s' (%s) failed: %s", task.Name, task.ID, err)
		}

		js.mu.Lock()
		js.active--
		if js.active == 0 && js.queue.Len() == 0 {
			js.cond.Broadcast()
		}
	}
}

/**
 * @brief Submits the provided task to be queued for execution.
 * A task can only be submitted once.
 */
func (js *JobSystem) Submit(task *metadata.Task) error {
	js.mu.Lock()
	defer js.mu.Unlock()
	if js.closed {
		return core.ErrJobSystemClosed
	}
	if err := task.MarkQueued(); err != nil {
		return err
	}
	js.queue.Push(task)
	js.cond.Broadcast()
	return nil
}

// PurgeAll drops every task that has not started yet and returns how many
// were dropped. Running tasks finish normally.
func (js *JobSystem) PurgeAll() int {
	js.mu.Lock()
	defer js.mu.Unlock()
	purged := 0
	for _, task := range js.queue.Drain() {
		if task.Discard() {
			purged++
		}
	}
	js.cond.Broadcast()
	if purged > 0 {
		core.LogDebug("purged %d pending tasks", purged)
	}
	return purged
}

// WaitForIdle blocks until the queue is empty and no task is running.
func (js *JobSystem) WaitForIdle() {
	js.mu.Lock()
	defer js.mu.Unlock()
	for js.queue.Len() > 0 || js.active > 0 {
		js.cond.Wait()
	}
}

// SetWorkerCount grows or shrinks the pool. Shrinking lets running tasks finish.
func (js *JobSystem) SetWorkerCount(n int) error {
	if n < 1 {
		return core.ErrInvalidWorkerCount
	}
	js.mu.Lock()
	defer js.mu.Unlock()
	if js.closed {
		return core.ErrJobSystemClosed
	}
	target := js.workers - js.retire
	switch {
	case n > target:
		grow := n - target
		// cancel pending retirements first
		cancel := min(grow, js.retire)
		js.retire -= cancel
		js.spawn(grow - cancel)
	case n < target:
		js.retire += target - n
		js.cond.Broadcast()
	}
	core.LogDebug("job system resized to %d workers", n)
	return nil
}

// SetPriorityOrder changes which end of the priority range runs first.
// Already queued tasks are reordered.
func (js *JobSystem) SetPriorityOrder(order metadata.PriorityOrder) {
	js.mu.Lock()
	defer js.mu.Unlock()
	if order == js.order {
		return
	}
	pending := js.queue.Drain()
	js.order = order
	js.queue = js.newQueue(order)
	for _, task := range pending {
		js.queue.Push(task)
	}
}

func (js *JobSystem) Workers() int {
	js.mu.Lock()
	defer js.mu.Unlock()
	return js.workers - js.retire
}

func (js *JobSystem) Pending() int {
	js.mu.Lock()
	defer js.mu.Unlock()
	return js.queue.Len()
}

/**
 * @brief Shuts the job system down. Queued tasks are still executed;
 * new submissions are rejected.
 */
func (js *JobSystem) Shutdown() {
	js.mu.Lock()
	if js.closed {
		js.mu.Unlock()
		return
	}
	js.closed = true
	js.cond.Broadcast()
	js.mu.Unlock()

	js.wg.Wait()
	core.LogInfo("job system shut down")
}
