package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medflowhq/apptkit/pkg/appointment"
)

// EnqueuerOption configures an Enqueuer.
type EnqueuerOption func(*Enqueuer)

// WithLead overrides how long before the appointment start the reminder
// fires.
func WithLead(d time.Duration) EnqueuerOption {
	return func(e *Enqueuer) {
		if d > 0 {
			e.lead = d
		}
	}
}

// Enqueuer schedules one-shot reminder tasks for appointments.
type Enqueuer struct {
	store Storage
	lead  time.Duration
	now   func() time.Time
}

// NewEnqueuer creates an Enqueuer writing to store. The default lead is
// DefaultLead.
func NewEnqueuer(store Storage, opts ...EnqueuerOption) (*Enqueuer, error) {
	if store == nil {
		return nil, ErrStorageNil
	}

	e := &Enqueuer{
		store: store,
		lead:  DefaultLead,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Schedule stores a reminder task due at ReminderAt(rec.Appointment, lead).
// The record is validated and embedded in the task payload, so the worker
// composes the message later without reaching back to the clinic backend.
// A due time that has already passed is rejected with ErrReminderInPast and
// nothing is stored.
func (e *Enqueuer) Schedule(ctx context.Context, rec appointment.Record) (*Task, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	dueAt := ReminderAt(rec.Appointment, e.lead)
	if !dueAt.After(e.now()) {
		return nil, fmt.Errorf("%w: appointment %s starts at %s",
			ErrReminderInPast, rec.Appointment.ID, rec.Appointment.StartsAt.Format(time.RFC3339))
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal appointment record: %w", err)
	}

	task := &Task{
		ID:            uuid.New(),
		AppointmentID: rec.Appointment.ID,
		Payload:       payload,
		Status:        TaskStatusPending,
		DueAt:         dueAt,
		CreatedAt:     e.now(),
	}

	if err := e.store.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create reminder task for appointment %s: %w", rec.Appointment.ID, err)
	}

	return task, nil
}

// Cancel drops the pending reminder tasks of an appointment, for example
// after a cancellation or reschedule. It returns how many tasks were
// dropped; zero with a nil error means there was nothing to cancel.
func (e *Enqueuer) Cancel(ctx context.Context, appointmentID string) (int, error) {
	return e.store.CancelByAppointment(ctx, appointmentID)
}
