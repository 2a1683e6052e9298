// Package email defines the outbound email seam used by the notification
// components: a Message value, validation, and the Sender interface a
// delivery integration implements.
//
// Messages only carry the envelope and bodies. Transport concerns - SMTP or
// provider APIs, authentication, retries - stay behind the Sender interface
// and are supplied by the application:
//
//	type Sender interface {
//		Send(ctx context.Context, msg Message) error
//	}
//
// The package ships one implementation, DevSender, which writes messages to a
// local directory for inspection during development:
//
//	sender := email.NewDevSender("./email-out")
//	err := sender.Send(ctx, email.Message{
//		To:      "jane.doe@example.com",
//		Subject: "Appointment Confirmed - April 10, 2025",
//		HTML:    html,
//		Tag:     "appointment-status",
//	})
//
// Validation errors wrap ErrInvalidMessage and can be matched with errors.Is.
package email
