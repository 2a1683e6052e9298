// Package appointment defines the records exchanged between a clinic backend
// and the messaging components: the patient, the treating doctor and the
// appointment itself. Records are plain values; the messaging side never
// mutates or retains them.
package appointment

import (
	"fmt"
	"strings"
	"time"
)

// Status enumerates the lifecycle states an appointment can be in.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Patient is the recipient of appointment messages.
type Patient struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobile_number"`
}

// Doctor is the treating physician an appointment is booked with.
// Phone is optional; an empty value means the doctor has no listed number.
type Doctor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Appointment carries the booking details shown to the patient. Date is the
// calendar day of the visit, StartsAt and EndsAt the visit window. The share
// flags record which channels the patient agreed to be contacted on.
type Appointment struct {
	ID           string    `json:"id"`
	Status       Status    `json:"status"`
	Notes        string    `json:"notes"`
	Date         time.Time `json:"date"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	ShareOnEmail bool      `json:"share_on_email"`
	ShareOnSMS   bool      `json:"share_on_sms"`
}

// Record bundles everything a single appointment message is built from. The
// JSON encoding is the wire format used by both the reminder task payload and
// the HTTP API.
type Record struct {
	Patient     Patient     `json:"patient"`
	Doctor      Doctor      `json:"doctor"`
	Appointment Appointment `json:"appointment"`
}

// Validate checks that every field the appointment message needs is present.
// All fields are required except Doctor.Phone. A missing field is reported as
// ErrMissingField wrapped with the field's dotted path; an unknown non-empty
// status as ErrInvalidStatus.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Patient.Name) == "" {
		return fmt.Errorf("%w: patient.name", ErrMissingField)
	}
	if strings.TrimSpace(r.Doctor.Name) == "" {
		return fmt.Errorf("%w: doctor.name", ErrMissingField)
	}
	if strings.TrimSpace(r.Doctor.Email) == "" {
		return fmt.Errorf("%w: doctor.email", ErrMissingField)
	}
	if r.Appointment.Status == "" {
		return fmt.Errorf("%w: appointment.status", ErrMissingField)
	}
	if !r.Appointment.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, r.Appointment.Status)
	}
	if strings.TrimSpace(r.Appointment.Notes) == "" {
		return fmt.Errorf("%w: appointment.notes", ErrMissingField)
	}
	if r.Appointment.Date.IsZero() {
		return fmt.Errorf("%w: appointment.appointment_date", ErrMissingField)
	}
	if r.Appointment.StartsAt.IsZero() {
		return fmt.Errorf("%w: appointment.start_time", ErrMissingField)
	}
	if r.Appointment.EndsAt.IsZero() {
		return fmt.Errorf("%w: appointment.end_time", ErrMissingField)
	}
	return nil
}
