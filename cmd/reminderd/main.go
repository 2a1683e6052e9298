// Command reminderd runs the appointment messaging service: an HTTP API the
// clinic backend calls to dispatch status messages and schedule reminders,
// and a worker that delivers reminders when they fall due. Pending reminders
// live in Redis; delivery outcomes land in the Postgres delivery log.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/medflowhq/apptkit/pkg/appointment"
	"github.com/medflowhq/apptkit/pkg/config"
	"github.com/medflowhq/apptkit/pkg/email"
	"github.com/medflowhq/apptkit/pkg/httpserver"
	"github.com/medflowhq/apptkit/pkg/logger"
	"github.com/medflowhq/apptkit/pkg/notify"
	"github.com/medflowhq/apptkit/pkg/pg"
	"github.com/medflowhq/apptkit/pkg/redis"
	"github.com/medflowhq/apptkit/pkg/reminder"
	"github.com/medflowhq/apptkit/pkg/sms"
)

// appConfig aggregates the component configurations under one env parse.
type appConfig struct {
	LogFormat logger.Format `env:"LOG_FORMAT" envDefault:"json"`
	LogLevel  slog.Level    `env:"LOG_LEVEL" envDefault:"info"`

	// Dev senders write here until a real transport is plugged in.
	EmailOutDir string `env:"EMAIL_OUT_DIR" envDefault:"./outbox/email"`
	SMSOutDir   string `env:"SMS_OUT_DIR" envDefault:"./outbox/sms"`

	SMSTemplateID    string `env:"SMS_TEMPLATE_ID"`
	SMSCountryPrefix string `env:"SMS_COUNTRY_PREFIX" envDefault:"91"`

	PG       pg.Config
	Redis    redis.Config
	HTTP     httpserver.Config
	Reminder reminder.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithFormat(cfg.LogFormat),
		logger.WithLevel(cfg.LogLevel),
		logger.WithAttr(slog.String("service", "reminderd")),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, cfg); err != nil {
		log.Error("reminderd stopped", logger.Error(err))
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

func run(ctx context.Context, log *slog.Logger, cfg appConfig) error {
	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, notify.Migrations(), cfg.PG, log); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	composerOpts := []notify.ComposerOption{
		notify.WithCountryPrefix(cfg.SMSCountryPrefix),
	}
	if cfg.SMSTemplateID != "" {
		composerOpts = append(composerOpts, notify.WithSMSTemplate(cfg.SMSTemplateID))
	}
	composer, err := notify.NewComposer(composerOpts...)
	if err != nil {
		return err
	}

	notifier := notify.NewNotifier(composer,
		notify.WithEmailSender(email.NewDevSender(cfg.EmailOutDir)),
		notify.WithSMSSender(sms.NewDevSender(cfg.SMSOutDir)),
		notify.WithStorage(notify.NewPGStorage(pool)),
		notify.WithNotifierLogger(log),
	)

	store := reminder.NewRedisStorage(rdb)

	enqueuer, err := reminder.NewEnqueuer(store, reminder.WithLead(cfg.Reminder.Lead))
	if err != nil {
		return err
	}

	worker, err := reminder.NewWorker(store, deliverReminder(notifier),
		reminder.WithPollInterval(cfg.Reminder.PollInterval),
		reminder.WithSendTimeout(cfg.Reminder.SendTimeout),
		reminder.WithMaxConcurrent(cfg.Reminder.MaxConcurrent),
		reminder.WithWorkerLogger(log),
	)
	if err != nil {
		return err
	}

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("reminderd listening", slog.String("addr", cfg.HTTP.Addr))
		}),
	)

	a := &api{
		enqueuer: enqueuer,
		notifier: notifier,
		log:      log,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(worker.Run(ctx))
	g.Go(func() error {
		return srv.Run(ctx, a.handler(ctx, pg.Healthcheck(pool), redis.Healthcheck(rdb)))
	})
	return g.Wait()
}

// deliverReminder adapts the notifier to the worker callback. Per-channel
// outcomes are already in the delivery log; the returned error only decides
// the task status.
func deliverReminder(notifier *notify.Notifier) reminder.Handler {
	return func(ctx context.Context, rec appointment.Record) error {
		_, err := notifier.Reminder(ctx, rec)
		return err
	}
}
