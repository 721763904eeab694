// Command snapshot gathers the environmental context for Ipswich once and
// prints it.
//
// Usage:
//
//	go run ./cmd/snapshot -date 2025-12-13 -format text -additional
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/env-context-service/internal/aggregator"
	"github.com/couchcryptid/env-context-service/internal/config"
	"github.com/couchcryptid/env-context-service/internal/domain"
	"github.com/couchcryptid/env-context-service/internal/observability"
	"github.com/couchcryptid/env-context-service/internal/schema"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "snapshot:", err)
		os.Exit(1)
	}
}

type output struct {
	Environment schema.EnvironmentResponse `json:"environment"`
	Additional  *schema.AdditionalResponse `json:"additional,omitempty"`
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	dateFlag := fs.String("date", "", "target date as YYYY-MM-DD (default: today in Ipswich)")
	format := fs.String("format", "text", "output format: text or json")
	additional := fs.Bool("additional", false, "also gather birds, coastal forecast, and river conditions")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *format != "text" && *format != "json" {
		return fmt.Errorf("unknown -format %q: want text or json", *format)
	}
	var date time.Time
	if *dateFlag != "" {
		d, err := time.Parse(schema.DateLayout, *dateFlag)
		if err != nil {
			return fmt.Errorf("invalid -date %q: expected YYYY-MM-DD", *dateFlag)
		}
		date = d
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// Logs go to stderr so stdout stays clean for the snapshot.
	level := slog.LevelWarn
	if cfg.LogLevel == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	agg := aggregator.New(aggregator.NewSources(cfg, logger), logger, observability.NewMetrics())
	keys := aggregator.APIKeys{AirNow: cfg.AirNowAPIKey, EBird: cfg.EBirdAPIKey}

	snapshot := agg.Gather(ctx, keys, date)
	var extra *domain.Additional
	if *additional {
		extra = agg.GatherAdditional(ctx, keys)
	}

	return render(stdout, *format, snapshot, extra)
}

func render(w io.Writer, format string, s *domain.Snapshot, extra *domain.Additional) error {
	if format == "json" {
		out := output{Environment: schema.ToResponse(s)}
		if extra != nil {
			a := schema.ToAdditionalResponse(extra)
			out.Additional = &a
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	text := domain.FormatSnapshot(s)
	if more := domain.FormatAdditional(extra); more != "" {
		if text != "" {
			text += "\n\n"
		}
		text += more
	}
	if text == "" {
		text = "No environmental context available."
	}
	_, err := fmt.Fprintln(w, text)
	return err
}
