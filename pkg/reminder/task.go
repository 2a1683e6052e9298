package reminder

import (
	"time"

	"github.com/google/uuid"

	"github.com/medflowhq/apptkit/pkg/appointment"
)

// TaskStatus represents the lifecycle state of a reminder task.
type TaskStatus string

const (
	// TaskStatusPending means the task waits for its due time.
	TaskStatusPending TaskStatus = "pending"

	// TaskStatusProcessing means a worker has claimed the task.
	TaskStatusProcessing TaskStatus = "processing"

	// TaskStatusSent means the reminder was delivered.
	TaskStatusSent TaskStatus = "sent"

	// TaskStatusFailed means the single delivery attempt failed.
	TaskStatusFailed TaskStatus = "failed"
)

// Valid reports whether s is one of the known task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusProcessing, TaskStatusSent, TaskStatusFailed:
		return true
	}
	return false
}

func (s TaskStatus) String() string {
	return string(s)
}

// Task is a one-shot reminder bound to a single appointment. Payload holds
// the JSON-encoded appointment record the reminder message is built from.
//
// A task is attempted exactly once: a claimed task ends up sent or failed,
// never back in pending.
type Task struct {
	ID            uuid.UUID  `json:"id"`
	AppointmentID string     `json:"appointment_id"`
	Payload       []byte     `json:"payload"`
	Status        TaskStatus `json:"status"`
	DueAt         time.Time  `json:"due_at"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	Error         *string    `json:"error,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// DefaultLead is how long before the appointment starts the reminder fires.
const DefaultLead = time.Hour + 15*time.Minute

// ReminderAt returns the moment a reminder for appt should fire: the start
// of the visit minus lead.
func ReminderAt(appt appointment.Appointment, lead time.Duration) time.Time {
	return appt.StartsAt.Add(-lead)
}
