// Package notify composes and dispatches appointment messages to patients.
//
// The package has two halves. The Composer turns an appointment.Record into
// concrete outbound messages: the HTML status email rendered from the
// embedded template, and the provider template SMS. The Notifier fans a
// record out to the channels the patient opted into and records every attempt
// in a delivery log.
//
// # Composition
//
// The email template addresses fields by dotted paths (patient.name,
// appointment.status.value, doctor.phone, ...). The Composer validates the
// record first: every field except the doctor's phone is required, and a
// missing one aborts with appointment.ErrMissingField before anything is
// rendered. The doctor's phone falls back to "Not provided". Dates render as
// "10 April 2025", times as "03:00 PM", and the subject line takes the form
// "Appointment Confirmed - April 10, 2025".
//
// Free-text notes are sanitized with bluemonday's strict policy during
// context building; the template marks the sanitized value safe, so it is not
// escaped a second time. Composition is deterministic: the same record always
// yields the same HTML.
//
//	composer, err := notify.NewComposer()
//	if err != nil {
//		return err
//	}
//	msg, err := composer.StatusEmail(rec)
//
// # Dispatch
//
// The Notifier consults the record's ShareOnEmail and ShareOnSMS flags,
// composes the message for each enabled channel and hands it to the
// configured sender. One Delivery per attempt lands in the Storage, carrying
// the outcome and the failure reason, if any. A failing channel does not stop
// the others; failures come back joined in the returned error.
//
//	notifier := notify.NewNotifier(composer,
//		notify.WithEmailSender(email.NewDevSender("./email-out")),
//		notify.WithStorage(notify.NewPGStorage(pool)),
//	)
//	deliveries, err := notifier.StatusChanged(ctx, rec)
//
// Storage ships in two flavors: MemoryStorage for development and tests, and
// PGStorage on pgx with goose migrations exposed via Migrations.
package notify
