package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medflowhq/apptkit/pkg/appointment"
	"github.com/medflowhq/apptkit/pkg/httpserver"
	"github.com/medflowhq/apptkit/pkg/logger"
	"github.com/medflowhq/apptkit/pkg/notify"
	"github.com/medflowhq/apptkit/pkg/reminder"
)

// api is the HTTP surface the clinic backend talks to.
type api struct {
	enqueuer *reminder.Enqueuer
	notifier *notify.Notifier
	log      *slog.Logger
}

func (a *api) handler(ctx context.Context, checks ...func(context.Context) error) http.Handler {
	r := chi.NewRouter()
	r.Post("/notifications", a.dispatchStatus)
	r.Post("/reminders", a.scheduleReminder)
	r.Delete("/reminders/{appointmentID}", a.cancelReminders)
	r.Get("/appointments/{appointmentID}/deliveries", a.listDeliveries)
	r.Get("/healthz", httpserver.HealthCheckHandler(ctx, a.log, checks...))
	return r
}

// taskResponse is the scheduled-reminder confirmation. The task payload stays
// server-side; callers only need the identity and the due time.
type taskResponse struct {
	ID            uuid.UUID           `json:"id"`
	AppointmentID string              `json:"appointment_id"`
	Status        reminder.TaskStatus `json:"status"`
	DueAt         time.Time           `json:"due_at"`
}

// dispatchStatus sends the appointment status message on every enabled
// channel right away. Channel failures are not transport errors here: they
// come back as failed entries among the per-channel outcomes.
func (a *api) dispatchStatus(w http.ResponseWriter, r *http.Request) {
	rec, ok := a.decodeRecord(w, r)
	if !ok {
		return
	}

	deliveries, err := a.notifier.StatusChanged(r.Context(), rec)
	if err != nil && len(deliveries) == 0 {
		// Nothing was attempted, so the record itself is at fault.
		a.respondError(w, http.StatusBadRequest, err)
		return
	}
	if deliveries == nil {
		deliveries = []notify.Delivery{}
	}

	a.respond(w, http.StatusOK, deliveries)
}

func (a *api) scheduleReminder(w http.ResponseWriter, r *http.Request) {
	rec, ok := a.decodeRecord(w, r)
	if !ok {
		return
	}

	task, err := a.enqueuer.Schedule(r.Context(), rec)
	switch {
	case errors.Is(err, appointment.ErrMissingField), errors.Is(err, appointment.ErrInvalidStatus):
		a.respondError(w, http.StatusBadRequest, err)
		return
	case errors.Is(err, reminder.ErrReminderInPast):
		a.respondError(w, http.StatusUnprocessableEntity, err)
		return
	case err != nil:
		a.log.ErrorContext(r.Context(), "failed to schedule reminder",
			logger.AppointmentID(rec.Appointment.ID),
			logger.Error(err),
		)
		a.respondError(w, http.StatusInternalServerError, err)
		return
	}

	a.respond(w, http.StatusCreated, taskResponse{
		ID:            task.ID,
		AppointmentID: task.AppointmentID,
		Status:        task.Status,
		DueAt:         task.DueAt,
	})
}

func (a *api) cancelReminders(w http.ResponseWriter, r *http.Request) {
	appointmentID := chi.URLParam(r, "appointmentID")

	cancelled, err := a.enqueuer.Cancel(r.Context(), appointmentID)
	if err != nil {
		a.log.ErrorContext(r.Context(), "failed to cancel reminders",
			logger.AppointmentID(appointmentID),
			logger.Error(err),
		)
		a.respondError(w, http.StatusInternalServerError, err)
		return
	}

	a.respond(w, http.StatusOK, map[string]int{"cancelled": cancelled})
}

func (a *api) listDeliveries(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptionsFromQuery(r.URL.Query())
	if err != nil {
		a.respondError(w, http.StatusBadRequest, err)
		return
	}

	deliveries, err := a.notifier.Deliveries(r.Context(), chi.URLParam(r, "appointmentID"), opts)
	if err != nil {
		a.respondError(w, http.StatusInternalServerError, err)
		return
	}
	if deliveries == nil {
		deliveries = []notify.Delivery{}
	}

	a.respond(w, http.StatusOK, deliveries)
}

func listOptionsFromQuery(q url.Values) (notify.ListOptions, error) {
	var opts notify.ListOptions

	if raw := q.Get("channel"); raw != "" {
		ch := notify.Channel(raw)
		if !ch.Valid() {
			return opts, fmt.Errorf("unknown channel %q", raw)
		}
		opts.Channel = ch
	}
	if raw := q.Get("status"); raw != "" {
		st := notify.DeliveryStatus(raw)
		if !st.Valid() {
			return opts, fmt.Errorf("unknown status %q", raw)
		}
		opts.Status = st
	}

	var err error
	if raw := q.Get("limit"); raw != "" {
		if opts.Limit, err = strconv.Atoi(raw); err != nil || opts.Limit < 0 {
			return opts, fmt.Errorf("invalid limit %q", raw)
		}
	}
	if raw := q.Get("offset"); raw != "" {
		if opts.Offset, err = strconv.Atoi(raw); err != nil || opts.Offset < 0 {
			return opts, fmt.Errorf("invalid offset %q", raw)
		}
	}

	return opts, nil
}

func (a *api) decodeRecord(w http.ResponseWriter, r *http.Request) (appointment.Record, bool) {
	var rec appointment.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		a.respondError(w, http.StatusBadRequest, fmt.Errorf("decode appointment record: %w", err))
		return appointment.Record{}, false
	}
	return rec, true
}

func (a *api) respond(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.log.Error("failed to encode response", logger.Error(err))
	}
}

func (a *api) respondError(w http.ResponseWriter, status int, err error) {
	a.respond(w, status, map[string]string{"error": err.Error()})
}
