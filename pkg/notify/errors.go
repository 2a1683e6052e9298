package notify

import "errors"

var (
	// ErrDeliveryNotFound is returned by Storage.Get for unknown IDs.
	ErrDeliveryNotFound = errors.New("notify.errors.delivery_not_found")

	// ErrNoSMSTemplate is returned when composing an SMS without a
	// configured provider template ID.
	ErrNoSMSTemplate = errors.New("notify.errors.sms_template_not_configured")

	// ErrNoSender is recorded when a channel is enabled on the record but
	// no sender for it was configured on the Notifier.
	ErrNoSender = errors.New("notify.errors.sender_not_configured")

	// ErrInvalidDelivery is returned by storages for records missing an ID,
	// channel or status.
	ErrInvalidDelivery = errors.New("notify.errors.invalid_delivery")
)
