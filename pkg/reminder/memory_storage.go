package reminder

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage is an in-memory Storage for tests and local development.
// Tasks do not survive a restart; production deployments use RedisStorage.
type MemoryStorage struct {
	mu     sync.Mutex
	tasks  map[uuid.UUID]*Task
	byAppt map[string][]uuid.UUID
}

// NewMemoryStorage creates an empty in-memory task store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		tasks:  make(map[uuid.UUID]*Task),
		byAppt: make(map[string][]uuid.UUID),
	}
}

// CreateTask implements Storage.
func (ms *MemoryStorage) CreateTask(ctx context.Context, task *Task) error {
	if task == nil {
		return errors.New("task cannot be nil")
	}
	if task.ID == uuid.Nil {
		return errors.New("task ID cannot be empty")
	}
	if task.AppointmentID == "" {
		return errors.New("task appointment ID cannot be empty")
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.tasks[task.ID]; exists {
		return fmt.Errorf("task %s already exists", task.ID)
	}

	taskCopy := *task
	if taskCopy.Status == "" {
		taskCopy.Status = TaskStatusPending
	}
	if taskCopy.CreatedAt.IsZero() {
		taskCopy.CreatedAt = time.Now()
	}

	ms.tasks[task.ID] = &taskCopy
	ms.byAppt[task.AppointmentID] = append(ms.byAppt[task.AppointmentID], task.ID)

	return nil
}

// ClaimDue implements Storage. The earliest due pending task wins.
func (ms *MemoryStorage) ClaimDue(ctx context.Context, now time.Time) (*Task, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var due *Task
	for _, task := range ms.tasks {
		if task.Status != TaskStatusPending || task.DueAt.After(now) {
			continue
		}
		if due == nil || task.DueAt.Before(due.DueAt) {
			due = task
		}
	}
	if due == nil {
		return nil, ErrNoTaskToClaim
	}

	due.Status = TaskStatusProcessing

	taskCopy := *due
	return &taskCopy, nil
}

// CompleteTask implements Storage.
func (ms *MemoryStorage) CompleteTask(ctx context.Context, taskID uuid.UUID) error {
	return ms.finish(taskID, TaskStatusSent, "")
}

// FailTask implements Storage.
func (ms *MemoryStorage) FailTask(ctx context.Context, taskID uuid.UUID, errorMsg string) error {
	return ms.finish(taskID, TaskStatusFailed, errorMsg)
}

func (ms *MemoryStorage) finish(taskID uuid.UUID, status TaskStatus, errorMsg string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	task, exists := ms.tasks[taskID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if task.Status != TaskStatusProcessing {
		return fmt.Errorf("%w: %s is %s", ErrTaskNotClaimed, taskID, task.Status)
	}

	now := time.Now()
	task.Status = status
	task.ProcessedAt = &now
	if errorMsg != "" {
		task.Error = &errorMsg
	}

	return nil
}

// CancelByAppointment implements Storage. Only pending tasks are dropped.
func (ms *MemoryStorage) CancelByAppointment(ctx context.Context, appointmentID string) (int, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	cancelled := 0
	for _, taskID := range ms.byAppt[appointmentID] {
		task, exists := ms.tasks[taskID]
		if !exists || task.Status != TaskStatusPending {
			continue
		}
		delete(ms.tasks, taskID)
		cancelled++
	}

	ms.byAppt[appointmentID] = slices.DeleteFunc(ms.byAppt[appointmentID], func(id uuid.UUID) bool {
		_, exists := ms.tasks[id]
		return !exists
	})
	if len(ms.byAppt[appointmentID]) == 0 {
		delete(ms.byAppt, appointmentID)
	}

	return cancelled, nil
}

// Task returns a copy of the stored task, mainly for tests and inspection.
func (ms *MemoryStorage) Task(taskID uuid.UUID) (*Task, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	task, exists := ms.tasks[taskID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}

	taskCopy := *task
	return &taskCopy, nil
}
