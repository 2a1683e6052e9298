package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Storage persists reminder tasks and hands due ones to the worker.
type Storage interface {
	// CreateTask stores a new pending task.
	CreateTask(ctx context.Context, task *Task) error

	// ClaimDue atomically claims the earliest task whose due time is at or
	// before now and marks it processing. It returns ErrNoTaskToClaim when
	// nothing is due.
	ClaimDue(ctx context.Context, now time.Time) (*Task, error)

	// CompleteTask marks a claimed task as sent.
	CompleteTask(ctx context.Context, taskID uuid.UUID) error

	// FailTask marks a claimed task as failed and records the error message.
	FailTask(ctx context.Context, taskID uuid.UUID, errorMsg string) error

	// CancelByAppointment drops the pending tasks of an appointment and
	// reports how many were dropped. Claimed and finished tasks are left
	// untouched.
	CancelByAppointment(ctx context.Context, appointmentID string) (int, error)
}
