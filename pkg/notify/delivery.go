package notify

import (
	"time"

	"github.com/google/uuid"
)

// Channel identifies how a message left the system.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelSMS:
		return true
	}
	return false
}

func (c Channel) String() string {
	return string(c)
}

// DeliveryStatus is the terminal outcome of one delivery attempt.
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

// Valid reports whether s is a known delivery status.
func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliverySent, DeliveryFailed:
		return true
	}
	return false
}

func (s DeliveryStatus) String() string {
	return string(s)
}

// Delivery is one attempt to reach a patient about an appointment. Error
// holds the failure reason when Status is DeliveryFailed. Tag carries the
// message tag, so status messages and reminders can be told apart.
type Delivery struct {
	ID            uuid.UUID      `json:"id"`
	AppointmentID string         `json:"appointment_id"`
	Channel       Channel        `json:"channel"`
	Recipient     string         `json:"recipient"`
	Subject       string         `json:"subject"`
	Tag           string         `json:"tag"`
	Status        DeliveryStatus `json:"status"`
	Error         string         `json:"error,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}
