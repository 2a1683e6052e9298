package appointment_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medflowhq/apptkit/pkg/appointment"
)

func validRecord() appointment.Record {
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
			Date:         time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC),
			StartsAt:     time.Date(2025, time.April, 10, 15, 0, 0, 0, time.UTC),
			EndsAt:       time.Date(2025, time.April, 10, 15, 30, 0, 0, time.UTC),
			ShareOnEmail: true,
		},
	}
}

func TestRecordValidate(t *testing.T) {
	t.Parallel()

	t.Run("complete record passes", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, validRecord().Validate())
	})

	t.Run("doctor phone is optional", func(t *testing.T) {
		t.Parallel()

		rec := validRecord()
		rec.Doctor.Phone = ""
		assert.NoError(t, rec.Validate())
	})

	t.Run("missing fields are reported with their path", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name   string
			mutate func(*appointment.Record)
			path   string
		}{
			{
				name:   "patient name",
				mutate: func(r *appointment.Record) { r.Patient.Name = "" },
				path:   "patient.name",
			},
			{
				name:   "whitespace patient name",
				mutate: func(r *appointment.Record) { r.Patient.Name = "   " },
				path:   "patient.name",
			},
			{
				name:   "doctor name",
				mutate: func(r *appointment.Record) { r.Doctor.Name = "" },
				path:   "doctor.name",
			},
			{
				name:   "doctor email",
				mutate: func(r *appointment.Record) { r.Doctor.Email = "" },
				path:   "doctor.email",
			},
			{
				name:   "status",
				mutate: func(r *appointment.Record) { r.Appointment.Status = "" },
				path:   "appointment.status",
			},
			{
				name:   "notes",
				mutate: func(r *appointment.Record) { r.Appointment.Notes = "" },
				path:   "appointment.notes",
			},
			{
				name:   "date",
				mutate: func(r *appointment.Record) { r.Appointment.Date = time.Time{} },
				path:   "appointment.appointment_date",
			},
			{
				name:   "start time",
				mutate: func(r *appointment.Record) { r.Appointment.StartsAt = time.Time{} },
				path:   "appointment.start_time",
			},
			{
				name:   "end time",
				mutate: func(r *appointment.Record) { r.Appointment.EndsAt = time.Time{} },
				path:   "appointment.end_time",
			},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				rec := validRecord()
				tt.mutate(&rec)

				err := rec.Validate()
				require.ErrorIs(t, err, appointment.ErrMissingField)
				assert.Contains(t, err.Error(), tt.path)
			})
		}
	})

	t.Run("unknown status is invalid, not missing", func(t *testing.T) {
		t.Parallel()

		rec := validRecord()
		rec.Appointment.Status = "postponed"

		err := rec.Validate()
		require.ErrorIs(t, err, appointment.ErrInvalidStatus)
		assert.NotErrorIs(t, err, appointment.ErrMissingField)
		assert.Contains(t, err.Error(), "postponed")
	})
}

func TestStatusValid(t *testing.T) {
	t.Parallel()

	for _, s := range []appointment.Status{
		appointment.StatusScheduled,
		appointment.StatusPending,
		appointment.StatusConfirmed,
		appointment.StatusCancelled,
		appointment.StatusCompleted,
	} {
		assert.True(t, s.Valid(), s.String())
	}

	assert.False(t, appointment.Status("").Valid())
	assert.False(t, appointment.Status("postponed").Valid())
	assert.False(t, appointment.Status("Confirmed").Valid())
}
