package sms

import "errors"

var (
	ErrInvalidMessage = errors.New("sms.errors.invalid_message")
	ErrSendFailed     = errors.New("sms.errors.send_failed")
)
