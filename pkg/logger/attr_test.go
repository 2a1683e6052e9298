package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/medflowhq/apptkit/pkg/logger"
)

func TestAttrs(t *testing.T) {
	t.Parallel()

	t.Run("error attr", func(t *testing.T) {
		t.Parallel()

		err := errors.New("send failed")
		attr := logger.Error(err)
		assert.Equal(t, "error", attr.Key)
		assert.Equal(t, err, attr.Value.Any())

		assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
	})

	t.Run("identifier attrs ignore nil", func(t *testing.T) {
		t.Parallel()

		assert.True(t, logger.AppointmentID(nil).Equal(slog.Attr{}))
		assert.True(t, logger.PatientID(nil).Equal(slog.Attr{}))
		assert.True(t, logger.DeliveryID(nil).Equal(slog.Attr{}))
		assert.True(t, logger.TaskID(nil).Equal(slog.Attr{}))

		attr := logger.AppointmentID("apt-1")
		assert.Equal(t, "appointment_id", attr.Key)
		assert.Equal(t, "apt-1", attr.Value.Any())
	})

	t.Run("string attrs", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "component", logger.Component("notifier").Key)
		assert.Equal(t, "notifier", logger.Component("notifier").Value.String())

		assert.Equal(t, "channel", logger.Channel("sms").Key)
		assert.Equal(t, "recipient", logger.Recipient("jane@example.com").Key)
		assert.Equal(t, "template", logger.Template("appointment_email").Key)
	})

	t.Run("duration attr", func(t *testing.T) {
		t.Parallel()

		attr := logger.Duration(75 * time.Minute)
		assert.Equal(t, "duration", attr.Key)
		assert.Equal(t, 75*time.Minute, attr.Value.Duration())
	})
}
