package logger

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Channel records the delivery channel under the key "channel".
func Channel(name string) slog.Attr {
	return slog.String("channel", name)
}

// AppointmentID records the appointment identifier under the key
// "appointment_id". If id is nil, it returns an empty Attr.
func AppointmentID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("appointment_id", id)
}

// PatientID records the patient identifier under the key "patient_id".
// If id is nil, it returns an empty Attr.
func PatientID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("patient_id", id)
}

// DeliveryID records the delivery-log identifier under the key "delivery_id".
// If id is nil, it returns an empty Attr.
func DeliveryID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("delivery_id", id)
}

// TaskID records the reminder task identifier under the key "task_id".
// If id is nil, it returns an empty Attr.
func TaskID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("task_id", id)
}

// Recipient records the message recipient under the key "recipient".
func Recipient(to string) slog.Attr {
	return slog.String("recipient", to)
}

// Template records a template name under the key "template".
func Template(name string) slog.Attr {
	return slog.String("template", name)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
