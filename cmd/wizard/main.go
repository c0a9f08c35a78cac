// Command wizard runs the questionnaire in the terminal, one question per
// screen, and submits the answers to the configured sink.
package main

import (
	"bemestar/internal/app"
	"bemestar/internal/config"
	"bemestar/internal/model"
	"bemestar/internal/platform/logger"
	"bemestar/internal/presenter/terminal"
	"bemestar/internal/wizard"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	catalogPath := flag.String("catalog", "", "questionnaire YAML file (defaults to CATALOG_PATH or the built-in one)")
	dryRun := flag.Bool("dry-run", false, "print the payload instead of storing it")
	flag.Parse()

	cfg := config.Load()
	if *catalogPath != "" {
		cfg.CatalogPath = *catalogPath
	}
	if err := run(cfg, *dryRun); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, dryRun bool) error {
	base, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	log := base.WithSalt(cfg.LogHashSalt)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg, log, app.Needs{Responses: !dryRun})
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	var sink wizard.Sink = a.Responses
	if dryRun {
		sink = wizard.SinkFunc(func(_ context.Context, p *model.Payload) error {
			return printPayload(os.Stdout, p)
		})
	}

	ctrl := wizard.New(a.Catalog, sink,
		wizard.WithSchemaVersion(a.SchemaVersion()),
		wizard.WithLogger(log),
	)
	p := terminal.New(terminal.NewSurveyDriver(os.Stdout), log)

	payload, err := p.Run(ctx, ctrl)
	switch {
	case errors.Is(err, terminal.ErrAborted):
		fmt.Fprintln(os.Stdout, "Questionário interrompido.")
		return nil
	case err != nil:
		return err
	case payload == nil:
		// Declined consent; the presenter already showed the closing message.
		return nil
	}
	log.Info("responses submitted", "fields", len(payload.Answers), "entities", len(payload.SelectedEntities))
	return nil
}

func printPayload(w io.Writer, p *model.Payload) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
