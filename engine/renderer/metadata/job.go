package metadata

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/spaghettifunk/softraster/engine/core"
)

/**
 * @brief Determines the order in which queued tasks are picked up by the
 * workers. With the default ascending order the lowest value runs first, so
 * post-processing work queued for a frame is flushed before new geometry
 * updates, which are in turn finished before any render task of the same
 * frame touches the framebuffer.
 */
type TaskPriority int

const (
	/** @brief Whole-image filters and overlays. */
	PriorityPostProcess TaskPriority = iota
	/** @brief World matrix recomputation for one scene subtree. */
	PriorityGeometryUpdate
	/** @brief Drawing a single object into the framebuffer. */
	PriorityRender
	/** @brief Frame level bookkeeping. */
	PriorityFrameUpdate
)

func (p TaskPriority) String() string {
	switch p {
	case PriorityPostProcess:
		return "post-process"
	case PriorityGeometryUpdate:
		return "geometry-update"
	case PriorityRender:
		return "render"
	case PriorityFrameUpdate:
		return "frame-update"
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// PriorityOrder selects whether lower or higher priorities run first.
type PriorityOrder uint8

const (
	PriorityAscending PriorityOrder = iota
	PriorityDescending
)

var priorityOrderNames = []string{"ascending", "descending"}

func (o PriorityOrder) String() string { return enumName(o, priorityOrderNames) }

func ParsePriorityOrder(s string) (PriorityOrder, error) {
	return parseEnum[PriorityOrder](strings.ToLower(s), priorityOrderNames, core.ErrUnknownPriorityOrder)
}

// Before reports whether a task of priority a must run before one of priority b.
func (o PriorityOrder) Before(a, b TaskPriority) bool {
	if o == PriorityDescending {
		return a > b
	}
	return a < b
}

/** @brief The lifecycle state of a task. Tasks only move forward. */
type TaskState int32

const (
	TaskCreated TaskState = iota
	TaskQueued
	TaskRunning
	TaskCompleted
	/** @brief Removed from the queue before it ran. Listeners are not invoked. */
	TaskDiscarded
)

func (s TaskState) String() string {
	switch s {
	case TaskCreated:
		return "created"
	case TaskQueued:
		return "queued"
	case TaskRunning:
		return "running"
	case TaskCompleted:
		return "completed"
	case TaskDiscarded:
		return "discarded"
	}
	return "unknown"
}

/** @brief The work performed by a task. */
type TaskFunc func() error

/** @brief Invoked once when a task completes. err is the result of the task's work. */
type TaskListener func(task *Task, err error)

/**
 * @brief A unit of prioritised pipeline work. A task runs at most once and
 * is never re-queued after it has completed.
 */
type Task struct {
	/** @brief Unique identifier, used in logs. */
	ID uuid.UUID
	/** @brief A human readable label. */
	Name string

	priority  TaskPriority
	run       TaskFunc
	state     atomic.Int32
	mu        sync.Mutex
	listeners []TaskListener
	err       error
}

func NewTask(name string, priority TaskPriority, run TaskFunc) *Task {
	return &Task{
		ID:       uuid.New(),
		Name:     name,
		priority: priority,
		run:      run,
	}
}

func (t *Task) Priority() TaskPriority { return t.priority }

func (t *Task) State() TaskState { return TaskState(t.state.Load()) }

// Err returns the result of the task once it has completed.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// OnComplete registers a listener. Registering on a completed task invokes
// the listener immediately on the caller's goroutine.
func (t *Task) OnComplete(listener TaskListener) {
	if listener == nil {
		return
	}
	t.mu.Lock()
	if t.State() == TaskCompleted {
		err := t.err
		t.mu.Unlock()
		listener(t, err)
		return
	}
	t.listeners = append(t.listeners, listener)
	t.mu.Unlock()
}

// MarkQueued moves a freshly created task to the queued state.
func (t *Task) MarkQueued() error {
	if !t.state.CompareAndSwap(int32(TaskCreated), int32(TaskQueued)) {
		return fmt.Errorf("%w: task %s is %s", core.ErrTaskAlreadyQueued, t.Name, t.State())
	}
	return nil
}

// Discard drops a queued task that has not started. Returns false otherwise.
func (t *Task) Discard() bool {
	return t.state.CompareAndSwap(int32(TaskQueued), int32(TaskDiscarded))
}

// Execute runs the task's work exactly once and notifies the listeners.
// Calls on a task that is not queued (or freshly created) do nothing.
func (t *Task) Execute() error {
	if !t.state.CompareAndSwap(int32(TaskQueued), int32(TaskRunning)) &&
		!t.state.CompareAndSwap(int32(TaskCreated), int32(TaskRunning)) {
		return nil
	}

	err := t.safeRun()

	t.mu.Lock()
	t.err = err
	t.state.Store(int32(TaskCompleted))
	listeners := t.listeners
	t.listeners = nil
	t.mu.Unlock()

	for _, l := range listeners {
		l(t, err)
	}
	return err
}

func (t *Task) safeRun() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", core.ErrTaskPanicked, t.Name, r)
		}
	}()
	if t.run == nil {
		return nil
	}
	return t.run()
}
