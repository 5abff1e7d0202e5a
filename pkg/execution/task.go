// Package execution runs single-cell queries with cooperative
// cancellation and classifies failures into a stable error taxonomy.
package execution

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TaskState is the terminal state of an execution task.
type TaskState string

// Task states. A task transitions exactly once from running to one of
// the terminal states and is then discarded, never reused.
const (
	TaskRunning   TaskState = "running"
	TaskSucceeded TaskState = "success"
	TaskCancelled TaskState = "cancelled"
	TaskFailed    TaskState = "error"
)

// Task tracks one in-flight cell execution. Its context is the task's
// cancellation token: the sole cancellation mechanism.
type Task struct {
	ID        string
	StartedAt time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	once    sync.Once
	state   TaskState
	endedAt time.Time
}

// NewTask starts a task. Cancelling parent fires the task's token.
func NewTask(parent context.Context) *Task {
	ctx, cancel := context.WithCancel(parent)
	return &Task{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		ctx:       ctx,
		cancel:    cancel,
		state:     TaskRunning,
	}
}

// Context returns the task's cancellation token.
func (t *Task) Context() context.Context { return t.ctx }

// Cancel fires the task's cancellation token.
func (t *Task) Cancel() { t.cancel() }

// End records the terminal state and end timestamp. Only the first call
// takes effect; later calls are ignored, so a deferred End is a safe
// backstop behind the explicit per-branch calls.
func (t *Task) End(state TaskState) {
	t.once.Do(func() {
		t.mu.Lock()
		t.state = state
		t.endedAt = time.Now()
		t.mu.Unlock()
		t.cancel()
	})
}

// State returns the task's current state.
func (t *Task) State() TaskState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// EndedAt returns the end timestamp, zero while running.
func (t *Task) EndedAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.endedAt
}

// Succeeded reports whether the task ended successfully.
func (t *Task) Succeeded() bool { return t.State() == TaskSucceeded }
