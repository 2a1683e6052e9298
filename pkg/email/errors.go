package email

import "errors"

var (
	ErrInvalidMessage = errors.New("email.errors.invalid_message")
	ErrSendFailed     = errors.New("email.errors.send_failed")
)
