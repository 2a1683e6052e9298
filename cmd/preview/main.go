// Command preview serves the appointment email template over HTTP so changes
// can be checked in a browser against the sample records shipped with the
// binary. With -export it renders every scenario to disk and exits instead.
//
// Usage:
//
//	preview                        serve on HTTP_ADDR (default :8080)
//	preview -templates ./drafts    render templates from disk, not the embedded copies
//	preview -export ./out          write every scenario through the dev sender
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/medflowhq/apptkit/pkg/config"
	"github.com/medflowhq/apptkit/pkg/email"
	"github.com/medflowhq/apptkit/pkg/httpserver"
	"github.com/medflowhq/apptkit/pkg/logger"
	"github.com/medflowhq/apptkit/pkg/notify"
	"github.com/medflowhq/apptkit/pkg/render"
)

func main() {
	exportDir := flag.String("export", "", "render every scenario into this directory and exit")
	templatesDir := flag.String("templates", "", "load templates from this directory instead of the embedded copies")
	flag.Parse()

	log := logger.New(logger.WithDevelopment("preview"))
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, *exportDir, *templatesDir); err != nil {
		log.Error("preview failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, exportDir, templatesDir string) error {
	engine, err := newEngine(templatesDir)
	if err != nil {
		return err
	}

	composer, err := notify.NewComposer(notify.WithEngine(engine))
	if err != nil {
		return err
	}

	scenarios, err := loadScenarios()
	if err != nil {
		return err
	}

	if exportDir != "" {
		return exportScenarios(ctx, log, composer, scenarios, exportDir)
	}

	var cfg httpserver.Config
	config.MustLoad(&cfg)

	srv := httpserver.NewFromConfig(cfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("preview listening", slog.String("addr", cfg.Addr))
		}),
	)

	p := &previewServer{
		engine:    engine,
		composer:  composer,
		scenarios: scenarios,
		log:       log,
	}
	return srv.Run(ctx, p.handler(ctx))
}

func newEngine(templatesDir string) (*render.Engine, error) {
	if templatesDir != "" {
		return render.New(render.WithBaseDir(templatesDir))
	}
	return render.New(render.WithFS(notify.TemplatesFS()))
}

// exportScenarios renders every scenario through the development sender, one
// HTML/JSON pair per scenario.
func exportScenarios(ctx context.Context, log *slog.Logger, composer *notify.Composer, scenarios []Scenario, dir string) error {
	sender := email.NewDevSender(dir)
	for _, sc := range scenarios {
		msg, err := composer.StatusEmail(sc.Record)
		if err != nil {
			return fmt.Errorf("compose scenario %q: %w", sc.Name, err)
		}

		// The dev sender names files after the tag; one tag per scenario
		// keeps the exports from overwriting each other.
		msg.Tag = "preview-" + sc.Name
		if err := sender.Send(ctx, msg); err != nil {
			return fmt.Errorf("export scenario %q: %w", sc.Name, err)
		}

		log.Info("scenario exported",
			slog.String("scenario", sc.Name),
			slog.String("dir", dir),
		)
	}
	return nil
}
