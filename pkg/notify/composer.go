package notify

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/medflowhq/apptkit/pkg/appointment"
	"github.com/medflowhq/apptkit/pkg/email"
	"github.com/medflowhq/apptkit/pkg/render"
	"github.com/medflowhq/apptkit/pkg/sms"
)

// Message tags, also used by DevSender filenames.
const (
	TagStatus   = "appointment-status"
	TagReminder = "appointment-reminder"
)

// subjectDateLayout renders the visit start for subject lines,
// e.g. "April 10, 2025".
const subjectDateLayout = "January 02, 2006"

// notProvided substitutes optional fields the record does not carry.
const notProvided = "Not provided"

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithEngine replaces the default engine built over the embedded templates.
// Useful for previewing template changes from disk.
func WithEngine(engine *render.Engine) ComposerOption {
	return func(c *Composer) {
		if engine != nil {
			c.engine = engine
		}
	}
}

// WithSMSTemplate sets the provider template ID used for appointment SMS.
func WithSMSTemplate(id string) ComposerOption {
	return func(c *Composer) {
		c.smsTemplateID = strings.TrimSpace(id)
	}
}

// WithCountryPrefix overrides the default "91" country prefix applied to
// patient mobile numbers.
func WithCountryPrefix(prefix string) ComposerOption {
	return func(c *Composer) {
		trimmed := strings.TrimSpace(prefix)
		if trimmed != "" {
			c.countryPrefix = trimmed
		}
	}
}

// Composer turns appointment records into outbound messages: the HTML status
// email and the template SMS. It owns the template context shape, display
// formatting and the sanitization of free-text notes.
type Composer struct {
	engine        *render.Engine
	sanitizer     *bluemonday.Policy
	smsTemplateID string
	countryPrefix string
}

// NewComposer builds a Composer rendering the embedded appointment templates.
func NewComposer(opts ...ComposerOption) (*Composer, error) {
	c := &Composer{
		sanitizer:     bluemonday.StrictPolicy(),
		countryPrefix: "91",
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.engine == nil {
		engine, err := render.New(render.WithFS(TemplatesFS()))
		if err != nil {
			return nil, fmt.Errorf("notify: build template engine: %w", err)
		}
		c.engine = engine
	}

	return c, nil
}

// StatusEmail composes the appointment status email for the record. The
// record is validated first; a missing required field aborts composition with
// appointment.ErrMissingField and no output. The resulting HTML is fully
// substituted - it never contains template markers.
func (c *Composer) StatusEmail(rec appointment.Record) (email.Message, error) {
	return c.email(rec, TagStatus)
}

// ReminderEmail composes the same appointment email tagged as a reminder.
func (c *Composer) ReminderEmail(rec appointment.Record) (email.Message, error) {
	return c.email(rec, TagReminder)
}

func (c *Composer) email(rec appointment.Record, tag string) (email.Message, error) {
	if err := rec.Validate(); err != nil {
		return email.Message{}, err
	}

	html, err := c.engine.Render(EmailTemplate, c.templateContext(rec))
	if err != nil {
		return email.Message{}, err
	}

	return email.Message{
		To:      rec.Patient.Email,
		Subject: Subject(rec),
		HTML:    html,
		Tag:     tag,
	}, nil
}

// StatusSMS composes the appointment template SMS for the record. A template
// ID must have been configured with WithSMSTemplate.
func (c *Composer) StatusSMS(rec appointment.Record) (sms.Message, error) {
	if err := rec.Validate(); err != nil {
		return sms.Message{}, err
	}
	if c.smsTemplateID == "" {
		return sms.Message{}, ErrNoSMSTemplate
	}

	return sms.Message{
		TemplateID: c.smsTemplateID,
		To:         c.countryPrefix + rec.Patient.MobileNumber,
		Variables: map[string]string{
			"name":   rec.Patient.Name,
			"doctor": "Dr. " + rec.Doctor.Name,
			"date":   appointment.FormatDate(rec.Appointment.Date),
			"time":   appointment.FormatTime(rec.Appointment.StartsAt),
			"status": rec.Appointment.Status.Label(),
		},
	}, nil
}

// Subject builds the email subject line for a record,
// e.g. "Appointment Confirmed - April 10, 2025".
func Subject(rec appointment.Record) string {
	return fmt.Sprintf("Appointment %s - %s",
		rec.Appointment.Status.Label(),
		rec.Appointment.StartsAt.Format(subjectDateLayout),
	)
}

// templateContext lowers a record into the nested map shape the email
// template addresses. Dates and times arrive pre-formatted, notes sanitized,
// and the optional doctor phone already defaulted.
func (c *Composer) templateContext(rec appointment.Record) map[string]any {
	return map[string]any{
		"patient": map[string]any{
			"name": rec.Patient.Name,
		},
		"appointment": map[string]any{
			"status": map[string]any{
				"value": rec.Appointment.Status.String(),
			},
			"notes":            c.sanitizer.Sanitize(rec.Appointment.Notes),
			"appointment_date": appointment.FormatDate(rec.Appointment.Date),
			"start_time":       appointment.FormatTime(rec.Appointment.StartsAt),
			"end_time":         appointment.FormatTime(rec.Appointment.EndsAt),
		},
		"doctor": map[string]any{
			"name":  rec.Doctor.Name,
			"email": rec.Doctor.Email,
			"phone": orDefault(rec.Doctor.Phone, notProvided),
		},
	}
}

// orDefault returns value unless it is blank.
func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
