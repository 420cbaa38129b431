package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookvenue/client/internal/infrastructure/observability"
	"github.com/bookvenue/client/pkg/config"
	apperrors "github.com/bookvenue/client/pkg/errors"
)

const usage = `Usage: bookvenue [flags] <command> [args]

Commands:
  otp [-email] [-register] <identifier>        send a login or registration OTP
  verify [-email] [-register] [-name N] <identifier> [otp]
                                              verify an OTP and sign in
  profile [-name N] [-email E] [-phone P] [-address A]
                                              show or update the signed-in user
  bookings                                    list your bookings
  booking <id>                                show one booking
  availability <facilityId> <courtId> <date>  show court availability
  book [json]                                 create one booking (object) or many (array); reads stdin when omitted
  cancel <id>                                 cancel a booking
  checkout -amount A -venue V -court C -date D [-slots N] [-booking-id ID]
                                              pay for a booking
  logout                                      sign out

Flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", apperrors.MessageOf(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fs := flag.NewFlagSet("bookvenue", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.API.BaseURL, "api", cfg.API.BaseURL, "BookVenue API base URL")
	fs.StringVar(&cfg.Storage.Driver, "store", cfg.Storage.Driver, "credential store driver (sqlite, redis, memory)")
	fs.StringVar(&cfg.Storage.SQLitePath, "db", cfg.Storage.SQLitePath, "SQLite credential store path")
	fs.StringVar(&cfg.Checkout.Provider, "checkout", cfg.Checkout.Provider, "checkout provider (mock, bridge)")
	verbose := fs.Bool("v", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	env := cfg.App.Env
	if *verbose {
		env = "development"
	} else if env == "development" {
		env = "cli"
	}
	observability.InitLogger(cfg.App.Name, env, stderr)

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			observability.GetLogger().Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					observability.GetLogger().Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	a, err := newApp(ctx, cfg, metrics, stdin, stdout)
	if err != nil {
		return err
	}
	defer a.Close()

	command, rest := fs.Arg(0), fs.Args()[1:]
	handler, ok := a.commands()[command]
	if !ok {
		fs.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
	return handler(ctx, rest)
}
