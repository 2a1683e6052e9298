package notify_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medflowhq/apptkit/pkg/appointment"
	"github.com/medflowhq/apptkit/pkg/email"
	"github.com/medflowhq/apptkit/pkg/notify"
	"github.com/medflowhq/apptkit/pkg/sms"
)

type mockEmailSender struct {
	mock.Mock
}

func (m *mockEmailSender) Send(ctx context.Context, msg email.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type mockSMSSender struct {
	mock.Mock
}

func (m *mockSMSSender) Send(ctx context.Context, msg sms.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// failingStorage simulates a broken delivery log.
type failingStorage struct{}

func (failingStorage) Create(context.Context, notify.Delivery) error {
	return errors.New("log unavailable")
}

func (failingStorage) Get(context.Context, uuid.UUID) (notify.Delivery, error) {
	return notify.Delivery{}, notify.ErrDeliveryNotFound
}

func (failingStorage) List(context.Context, string, notify.ListOptions) ([]notify.Delivery, error) {
	return nil, errors.New("log unavailable")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifierStatusChanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("email flag dispatches email only", func(t *testing.T) {
		t.Parallel()

		mailer := new(mockEmailSender)
		mailer.On("Send", mock.Anything, mock.MatchedBy(func(msg email.Message) bool {
			return msg.To == "jane.doe@example.com" &&
				msg.Subject == "Appointment Confirmed - April 10, 2025" &&
				msg.Tag == notify.TagStatus
		})).Return(nil).Once()

		notifier := notify.NewNotifier(newComposer(t),
			notify.WithEmailSender(mailer),
			notify.WithNotifierLogger(quietLogger()),
		)

		rec := confirmedRecord()
		rec.Appointment.ShareOnSMS = false

		deliveries, err := notifier.StatusChanged(ctx, rec)
		require.NoError(t, err)
		require.Len(t, deliveries, 1)

		d := deliveries[0]
		assert.Equal(t, notify.ChannelEmail, d.Channel)
		assert.Equal(t, notify.DeliverySent, d.Status)
		assert.Equal(t, "jane.doe@example.com", d.Recipient)
		assert.Equal(t, "apt-1", d.AppointmentID)
		assert.Equal(t, notify.TagStatus, d.Tag)
		assert.Empty(t, d.Error)
		assert.NotEqual(t, uuid.Nil, d.ID)

		mailer.AssertExpectations(t)
	})

	t.Run("both flags dispatch both channels", func(t *testing.T) {
		t.Parallel()

		mailer := new(mockEmailSender)
		mailer.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

		texter := new(mockSMSSender)
		texter.On("Send", mock.Anything, mock.MatchedBy(func(msg sms.Message) bool {
			return msg.To == "919876543210" && msg.TemplateID == "tmpl-appointment"
		})).Return(nil).Once()

		notifier := notify.NewNotifier(
			newComposer(t, notify.WithSMSTemplate("tmpl-appointment")),
			notify.WithEmailSender(mailer),
			notify.WithSMSSender(texter),
			notify.WithNotifierLogger(quietLogger()),
		)

		deliveries, err := notifier.StatusChanged(ctx, confirmedRecord())
		require.NoError(t, err)
		require.Len(t, deliveries, 2)

		assert.Equal(t, notify.ChannelEmail, deliveries[0].Channel)
		assert.Equal(t, notify.ChannelSMS, deliveries[1].Channel)

		mailer.AssertExpectations(t)
		texter.AssertExpectations(t)
	})

	t.Run("no flags means nothing to do", func(t *testing.T) {
		t.Parallel()

		notifier := notify.NewNotifier(newComposer(t),
			notify.WithNotifierLogger(quietLogger()),
		)

		rec := confirmedRecord()
		rec.Appointment.ShareOnEmail = false
		rec.Appointment.ShareOnSMS = false

		deliveries, err := notifier.StatusChanged(ctx, rec)
		assert.NoError(t, err)
		assert.Empty(t, deliveries)
	})

	t.Run("send failure is recorded and returned", func(t *testing.T) {
		t.Parallel()

		mailer := new(mockEmailSender)
		mailer.On("Send", mock.Anything, mock.Anything).
			Return(errors.New("provider unavailable")).Once()

		store := notify.NewMemoryStorage()
		notifier := notify.NewNotifier(newComposer(t),
			notify.WithEmailSender(mailer),
			notify.WithStorage(store),
			notify.WithNotifierLogger(quietLogger()),
		)

		rec := confirmedRecord()
		rec.Appointment.ShareOnSMS = false

		deliveries, err := notifier.StatusChanged(ctx, rec)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "provider unavailable")
		require.Len(t, deliveries, 1)
		assert.Equal(t, notify.DeliveryFailed, deliveries[0].Status)
		assert.Contains(t, deliveries[0].Error, "provider unavailable")

		logged, err := store.List(ctx, "apt-1", notify.ListOptions{})
		require.NoError(t, err)
		require.Len(t, logged, 1)
		assert.Equal(t, notify.DeliveryFailed, logged[0].Status)
	})

	t.Run("one failing channel does not stop the other", func(t *testing.T) {
		t.Parallel()

		mailer := new(mockEmailSender)
		mailer.On("Send", mock.Anything, mock.Anything).
			Return(errors.New("provider unavailable")).Once()

		texter := new(mockSMSSender)
		texter.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

		notifier := notify.NewNotifier(
			newComposer(t, notify.WithSMSTemplate("tmpl-appointment")),
			notify.WithEmailSender(mailer),
			notify.WithSMSSender(texter),
			notify.WithNotifierLogger(quietLogger()),
		)

		deliveries, err := notifier.StatusChanged(ctx, confirmedRecord())
		require.Error(t, err)
		require.Len(t, deliveries, 2)
		assert.Equal(t, notify.DeliveryFailed, deliveries[0].Status)
		assert.Equal(t, notify.DeliverySent, deliveries[1].Status)

		texter.AssertExpectations(t)
	})

	t.Run("missing sender is a failed delivery", func(t *testing.T) {
		t.Parallel()

		store := notify.NewMemoryStorage()
		notifier := notify.NewNotifier(newComposer(t),
			notify.WithStorage(store),
			notify.WithNotifierLogger(quietLogger()),
		)

		rec := confirmedRecord()
		rec.Appointment.ShareOnSMS = false

		deliveries, err := notifier.StatusChanged(ctx, rec)
		require.ErrorIs(t, err, notify.ErrNoSender)
		require.Len(t, deliveries, 1)
		assert.Equal(t, notify.DeliveryFailed, deliveries[0].Status)
	})

	t.Run("invalid record fails before any channel", func(t *testing.T) {
		t.Parallel()

		mailer := new(mockEmailSender)

		notifier := notify.NewNotifier(newComposer(t),
			notify.WithEmailSender(mailer),
			notify.WithNotifierLogger(quietLogger()),
		)

		rec := confirmedRecord()
		rec.Appointment.Status = ""

		deliveries, err := notifier.StatusChanged(ctx, rec)
		require.ErrorIs(t, err, appointment.ErrMissingField)
		assert.Empty(t, deliveries)
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("broken delivery log does not block sending", func(t *testing.T) {
		t.Parallel()

		mailer := new(mockEmailSender)
		mailer.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

		notifier := notify.NewNotifier(newComposer(t),
			notify.WithEmailSender(mailer),
			notify.WithStorage(failingStorage{}),
			notify.WithNotifierLogger(quietLogger()),
		)

		rec := confirmedRecord()
		rec.Appointment.ShareOnSMS = false

		deliveries, err := notifier.StatusChanged(ctx, rec)
		require.NoError(t, err)
		require.Len(t, deliveries, 1)
		assert.Equal(t, notify.DeliverySent, deliveries[0].Status)

		mailer.AssertExpectations(t)
	})
}

func TestNotifierReminder(t *testing.T) {
	t.Parallel()

	mailer := new(mockEmailSender)
	mailer.On("Send", mock.Anything, mock.MatchedBy(func(msg email.Message) bool {
		return msg.Tag == notify.TagReminder
	})).Return(nil).Once()

	store := notify.NewMemoryStorage()
	notifier := notify.NewNotifier(newComposer(t),
		notify.WithEmailSender(mailer),
		notify.WithStorage(store),
		notify.WithNotifierLogger(quietLogger()),
	)

	rec := confirmedRecord()
	rec.Appointment.ShareOnSMS = false

	deliveries, err := notifier.Reminder(context.Background(), rec)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	assert.Equal(t, notify.TagReminder, deliveries[0].Tag)

	logged, err := notifier.Deliveries(context.Background(), "apt-1", notify.ListOptions{})
	require.NoError(t, err)
	require.Len(t, logged, 1)
	assert.Equal(t, notify.TagReminder, logged[0].Tag)

	mailer.AssertExpectations(t)
}
