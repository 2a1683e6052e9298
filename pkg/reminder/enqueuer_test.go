package reminder_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medflowhq/apptkit/pkg/appointment"
	"github.com/medflowhq/apptkit/pkg/reminder"
)

// futureRecord returns a valid record for an appointment starting startsIn
// from now.
func futureRecord(startsIn time.Duration) appointment.Record {
	start := time.Now().Add(startsIn).Truncate(time.Second)
	return appointment.Record{
		Patient: appointment.Patient{
			ID:           "pat-1",
			Name:         "Jane Doe",
			Email:        "jane.doe@example.com",
			MobileNumber: "9876543210",
		},
		Doctor: appointment.Doctor{
			ID:    "doc-1",
			Name:  "Smith",
			Email: "dr.smith@example.com",
			Phone: "555-1234",
		},
		Appointment: appointment.Appointment{
			ID:           "apt-1",
			Status:       appointment.StatusConfirmed,
			Notes:        "Please arrive 10 minutes early.",
			Date:         start,
			StartsAt:     start,
			EndsAt:       start.Add(30 * time.Minute),
			ShareOnEmail: true,
		},
	}
}

func TestNewEnqueuer(t *testing.T) {
	t.Parallel()

	t.Run("nil storage", func(t *testing.T) {
		t.Parallel()

		enq, err := reminder.NewEnqueuer(nil)
		assert.ErrorIs(t, err, reminder.ErrStorageNil)
		assert.Nil(t, enq)
	})
}

func TestEnqueuerSchedule(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("stores pending task", func(t *testing.T) {
		t.Parallel()

		store := reminder.NewMemoryStorage()
		enq, err := reminder.NewEnqueuer(store)
		require.NoError(t, err)

		rec := futureRecord(2 * time.Hour)
		task, err := enq.Schedule(ctx, rec)
		require.NoError(t, err)
		require.NotNil(t, task)

		assert.Equal(t, "apt-1", task.AppointmentID)
		assert.Equal(t, reminder.TaskStatusPending, task.Status)
		assert.True(t, task.DueAt.Equal(rec.Appointment.StartsAt.Add(-reminder.DefaultLead)),
			"due time must be the start minus the default lead")

		var stored appointment.Record
		require.NoError(t, json.Unmarshal(task.Payload, &stored))
		assert.Equal(t, rec.Patient.Name, stored.Patient.Name)
		assert.True(t, stored.Appointment.StartsAt.Equal(rec.Appointment.StartsAt))

		kept, err := store.Task(task.ID)
		require.NoError(t, err)
		assert.Equal(t, reminder.TaskStatusPending, kept.Status)
	})

	t.Run("custom lead", func(t *testing.T) {
		t.Parallel()

		store := reminder.NewMemoryStorage()
		enq, err := reminder.NewEnqueuer(store, reminder.WithLead(24*time.Hour))
		require.NoError(t, err)

		rec := futureRecord(48 * time.Hour)
		task, err := enq.Schedule(ctx, rec)
		require.NoError(t, err)
		assert.True(t, task.DueAt.Equal(rec.Appointment.StartsAt.Add(-24*time.Hour)))
	})

	t.Run("reminder already in the past", func(t *testing.T) {
		t.Parallel()

		store := reminder.NewMemoryStorage()
		enq, err := reminder.NewEnqueuer(store)
		require.NoError(t, err)

		// Starts in 30m, default lead is 1h15m: the reminder slot is gone.
		task, err := enq.Schedule(ctx, futureRecord(30*time.Minute))
		assert.ErrorIs(t, err, reminder.ErrReminderInPast)
		assert.Nil(t, task)

		_, err = store.ClaimDue(ctx, time.Now().Add(time.Hour))
		assert.ErrorIs(t, err, reminder.ErrNoTaskToClaim, "nothing may be stored")
	})

	t.Run("invalid record", func(t *testing.T) {
		t.Parallel()

		store := reminder.NewMemoryStorage()
		enq, err := reminder.NewEnqueuer(store)
		require.NoError(t, err)

		rec := futureRecord(2 * time.Hour)
		rec.Patient.Name = ""

		task, err := enq.Schedule(ctx, rec)
		assert.ErrorIs(t, err, appointment.ErrMissingField)
		assert.Nil(t, task)
	})
}

func TestEnqueuerCancel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("drops pending tasks", func(t *testing.T) {
		t.Parallel()

		store := reminder.NewMemoryStorage()
		enq, err := reminder.NewEnqueuer(store)
		require.NoError(t, err)

		_, err = enq.Schedule(ctx, futureRecord(2*time.Hour))
		require.NoError(t, err)
		_, err = enq.Schedule(ctx, futureRecord(3*time.Hour))
		require.NoError(t, err)

		cancelled, err := enq.Cancel(ctx, "apt-1")
		require.NoError(t, err)
		assert.Equal(t, 2, cancelled)

		_, err = store.ClaimDue(ctx, time.Now().Add(4*time.Hour))
		assert.ErrorIs(t, err, reminder.ErrNoTaskToClaim)
	})

	t.Run("unknown appointment", func(t *testing.T) {
		t.Parallel()

		store := reminder.NewMemoryStorage()
		enq, err := reminder.NewEnqueuer(store)
		require.NoError(t, err)

		cancelled, err := enq.Cancel(ctx, "apt-unknown")
		require.NoError(t, err)
		assert.Zero(t, cancelled)
	})
}
