package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/medflowhq/apptkit/pkg/appointment"
	"github.com/medflowhq/apptkit/pkg/email"
	"github.com/medflowhq/apptkit/pkg/logger"
	"github.com/medflowhq/apptkit/pkg/sms"
)

// NotifierOption configures a Notifier.
type NotifierOption func(*Notifier)

// WithEmailSender sets the sender used for the email channel.
func WithEmailSender(s email.Sender) NotifierOption {
	return func(n *Notifier) { n.mailer = s }
}

// WithSMSSender sets the sender used for the SMS channel.
func WithSMSSender(s sms.Sender) NotifierOption {
	return func(n *Notifier) { n.texter = s }
}

// WithStorage replaces the default in-memory delivery log.
func WithStorage(store Storage) NotifierOption {
	return func(n *Notifier) {
		if store != nil {
			n.store = store
		}
	}
}

// WithNotifierLogger sets the logger for the Notifier.
func WithNotifierLogger(log *slog.Logger) NotifierOption {
	return func(n *Notifier) {
		if log != nil {
			n.log = log
		}
	}
}

// Notifier fans an appointment record out to the channels the patient agreed
// to, then records the outcome of every attempt in the delivery log.
//
// Send failures never interrupt the remaining channels; they are recorded and
// joined into the returned error. Failures of the log itself are logged and
// tolerated, so bookkeeping cannot block patient-facing messages.
type Notifier struct {
	composer *Composer
	mailer   email.Sender
	texter   sms.Sender
	store    Storage
	log      *slog.Logger
	now      func() time.Time
}

// NewNotifier creates a Notifier around the given composer. Without options
// it records deliveries in memory and has no senders configured.
func NewNotifier(composer *Composer, opts ...NotifierOption) *Notifier {
	n := &Notifier{
		composer: composer,
		store:    NewMemoryStorage(),
		log:      slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// StatusChanged dispatches the appointment status message on every enabled
// channel. It returns one Delivery per attempted channel and the joined send
// errors, if any. An invalid record fails before any channel is attempted.
func (n *Notifier) StatusChanged(ctx context.Context, rec appointment.Record) ([]Delivery, error) {
	return n.dispatch(ctx, rec, TagStatus)
}

// Reminder dispatches the reminder variant of the appointment message on
// every enabled channel.
func (n *Notifier) Reminder(ctx context.Context, rec appointment.Record) ([]Delivery, error) {
	return n.dispatch(ctx, rec, TagReminder)
}

// Deliveries lists the recorded delivery attempts for an appointment,
// newest first.
func (n *Notifier) Deliveries(ctx context.Context, appointmentID string, opts ListOptions) ([]Delivery, error) {
	return n.store.List(ctx, appointmentID, opts)
}

func (n *Notifier) dispatch(ctx context.Context, rec appointment.Record, tag string) ([]Delivery, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	var (
		deliveries []Delivery
		errs       []error
	)

	if rec.Appointment.ShareOnEmail {
		d, err := n.sendEmail(ctx, rec, tag)
		deliveries = append(deliveries, d)
		if err != nil {
			errs = append(errs, fmt.Errorf("email: %w", err))
		}
		n.record(ctx, d)
	}

	if rec.Appointment.ShareOnSMS {
		d, err := n.sendSMS(ctx, rec, tag)
		deliveries = append(deliveries, d)
		if err != nil {
			errs = append(errs, fmt.Errorf("sms: %w", err))
		}
		n.record(ctx, d)
	}

	if len(deliveries) == 0 {
		n.log.LogAttrs(ctx, slog.LevelDebug, "no channels enabled for appointment",
			logger.AppointmentID(rec.Appointment.ID),
		)
	}

	return deliveries, errors.Join(errs...)
}

func (n *Notifier) sendEmail(ctx context.Context, rec appointment.Record, tag string) (Delivery, error) {
	d := Delivery{
		ID:            uuid.New(),
		AppointmentID: rec.Appointment.ID,
		Channel:       ChannelEmail,
		Recipient:     rec.Patient.Email,
		Subject:       Subject(rec),
		Tag:           tag,
		Status:        DeliverySent,
		CreatedAt:     n.now(),
	}

	var msg email.Message
	var err error
	switch tag {
	case TagReminder:
		msg, err = n.composer.ReminderEmail(rec)
	default:
		msg, err = n.composer.StatusEmail(rec)
	}
	if err == nil {
		if n.mailer == nil {
			err = ErrNoSender
		} else {
			err = n.mailer.Send(ctx, msg)
		}
	}

	if err != nil {
		d.Status = DeliveryFailed
		d.Error = err.Error()
		n.log.LogAttrs(ctx, slog.LevelWarn, "appointment email failed",
			logger.AppointmentID(rec.Appointment.ID),
			logger.Recipient(rec.Patient.Email),
			logger.Error(err),
		)
		return d, err
	}

	n.log.LogAttrs(ctx, slog.LevelInfo, "appointment email sent",
		logger.AppointmentID(rec.Appointment.ID),
		logger.Recipient(rec.Patient.Email),
		slog.String("tag", tag),
	)
	return d, nil
}

func (n *Notifier) sendSMS(ctx context.Context, rec appointment.Record, tag string) (Delivery, error) {
	d := Delivery{
		ID:            uuid.New(),
		AppointmentID: rec.Appointment.ID,
		Channel:       ChannelSMS,
		Recipient:     rec.Patient.MobileNumber,
		Subject:       Subject(rec),
		Tag:           tag,
		Status:        DeliverySent,
		CreatedAt:     n.now(),
	}

	msg, err := n.composer.StatusSMS(rec)
	if err == nil {
		if n.texter == nil {
			err = ErrNoSender
		} else {
			err = n.texter.Send(ctx, msg)
		}
	}

	if err != nil {
		d.Status = DeliveryFailed
		d.Error = err.Error()
		n.log.LogAttrs(ctx, slog.LevelWarn, "appointment sms failed",
			logger.AppointmentID(rec.Appointment.ID),
			logger.Recipient(rec.Patient.MobileNumber),
			logger.Error(err),
		)
		return d, err
	}

	n.log.LogAttrs(ctx, slog.LevelInfo, "appointment sms sent",
		logger.AppointmentID(rec.Appointment.ID),
		logger.Recipient(rec.Patient.MobileNumber),
		slog.String("tag", tag),
	)
	return d, nil
}

// record stores the delivery outcome. Storage failures are logged, not
// returned: the message already left (or failed) and the log must not change
// that outcome.
func (n *Notifier) record(ctx context.Context, d Delivery) {
	if err := n.store.Create(ctx, d); err != nil {
		n.log.LogAttrs(ctx, slog.LevelWarn, "failed to record delivery",
			logger.DeliveryID(d.ID),
			logger.AppointmentID(d.AppointmentID),
			logger.Error(err),
		)
	}
}
