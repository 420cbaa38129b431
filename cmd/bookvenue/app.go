package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bookvenue/client/internal/adapters/providers/checkout"
	"github.com/bookvenue/client/internal/adapters/storage"
	"github.com/bookvenue/client/internal/application/services"
	"github.com/bookvenue/client/internal/domain/entities"
	"github.com/bookvenue/client/internal/domain/providers"
	"github.com/bookvenue/client/internal/infrastructure/clients/bookvenue"
	"github.com/bookvenue/client/internal/infrastructure/observability"
	"github.com/bookvenue/client/pkg/config"
	apperrors "github.com/bookvenue/client/pkg/errors"
	"golang.org/x/term"
)

type app struct {
	store    providers.KeyValueStore
	creds    *services.CredentialStore
	auth     *services.AuthService
	bookings *services.BookingService
	session  *services.SessionService
	checkout *services.CheckoutService

	stdin  *bufio.Reader
	rawIn  io.Reader
	stdout io.Writer
}

type commandFunc func(ctx context.Context, args []string) error

func newApp(ctx context.Context, cfg *config.Config, metrics *observability.Metrics, stdin io.Reader, stdout io.Writer) (*app, error) {
	store, err := storage.NewKeyValueStore(ctx, cfg, metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	sheet, err := checkout.NewCheckoutSheet(&cfg.Checkout, stdin, stdout)
	if err != nil {
		store.Close()
		return nil, err
	}

	creds := services.NewCredentialStore(store, metrics)
	api := bookvenue.NewClient(&cfg.API, creds, metrics)
	auth := services.NewAuthService(api, creds)

	return &app{
		store:    store,
		creds:    creds,
		auth:     auth,
		bookings: services.NewBookingService(api, cfg.API.AssetURL),
		session:  services.NewSessionService(auth, creds),
		checkout: services.NewCheckoutService(sheet, &cfg.Checkout),
		stdin:    bufio.NewReader(stdin),
		rawIn:    stdin,
		stdout:   stdout,
	}, nil
}

func (a *app) Close() {
	a.session.Close()
	if err := a.store.Close(); err != nil {
		observability.GetLogger().Error().Err(err).Msg("Failed to close credential store")
	}
}

func (a *app) commands() map[string]commandFunc {
	return map[string]commandFunc{
		"otp":          a.requestOTP,
		"verify":       a.verifyOTP,
		"profile":      a.profile,
		"bookings":     a.listBookings,
		"booking":      a.showBooking,
		"availability": a.availability,
		"book":         a.book,
		"cancel":       a.cancel,
		"checkout":     a.pay,
		"logout":       a.logout,
	}
}

func (a *app) requestOTP(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("otp", flag.ContinueOnError)
	email := fs.Bool("email", false, "identifier is an email address")
	register := fs.Bool("register", false, "request a registration OTP")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: otp [-email] [-register] <identifier>")
	}
	identifier := fs.Arg(0)

	var raw json.RawMessage
	var err error
	switch {
	case *register:
		raw, err = a.auth.RequestRegistrationOTP(ctx, identifier)
	case *email:
		raw, err = a.auth.RequestLoginOTPByEmail(ctx, identifier)
	default:
		raw, err = a.auth.RequestLoginOTP(ctx, identifier)
	}
	if err != nil {
		return err
	}
	return a.printRaw(raw)
}

func (a *app) verifyOTP(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	email := fs.Bool("email", false, "identifier is an email address")
	register := fs.Bool("register", false, "verify a registration OTP")
	name := fs.String("name", "", "name for a new account")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		return errors.New("usage: verify [-email] [-register] [-name N] <identifier> [otp]")
	}
	identifier := fs.Arg(0)

	otp := fs.Arg(1)
	if otp == "" {
		fmt.Fprint(a.stdout, "OTP: ")
		var err error
		otp, err = a.readSecret()
		if err != nil {
			return fmt.Errorf("failed to read OTP: %w", err)
		}
		fmt.Fprintln(a.stdout)
	}
	otp = strings.TrimSpace(otp)
	if otp == "" {
		return errors.New("OTP cannot be empty")
	}

	var err error
	switch {
	case *register:
		_, err = a.auth.VerifyRegistrationOTP(ctx, identifier, otp, *name)
		if err == nil {
			err = a.session.Register(ctx)
		}
	case *email:
		_, err = a.auth.VerifyLoginOTPByEmail(ctx, identifier, otp)
		if err == nil {
			err = a.session.Login(ctx)
		}
	default:
		_, err = a.auth.VerifyLoginOTP(ctx, identifier, otp)
		if err == nil {
			err = a.session.Login(ctx)
		}
	}
	if err != nil {
		return err
	}
	return a.printJSON(a.session.State().User)
}

func (a *app) profile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	var patch entities.UserPatch
	optionalString(fs, &patch.Name, "name", "new name")
	optionalString(fs, &patch.Email, "email", "new email")
	optionalString(fs, &patch.Phone, "phone", "new phone")
	optionalString(fs, &patch.Address, "address", "new address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.restoreSession(ctx); err != nil {
		return err
	}

	if patch == (entities.UserPatch{}) {
		return a.printJSON(a.session.State().User)
	}
	updated, err := a.session.UpdateProfile(ctx, patch)
	if err != nil {
		return err
	}
	return a.printJSON(updated)
}

func (a *app) listBookings(ctx context.Context, args []string) error {
	bookings, err := a.bookings.ListBookings(ctx)
	if err != nil {
		return err
	}
	return a.printJSON(bookings)
}

func (a *app) showBooking(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: booking <id>")
	}
	booking, err := a.bookings.GetBooking(ctx, args[0])
	if err != nil {
		return err
	}
	return a.printJSON(booking)
}

func (a *app) availability(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errors.New("usage: availability <facilityId> <courtId> <date>")
	}
	raw, err := a.bookings.GetCourtAvailability(ctx, args[0], args[1], args[2])
	if err != nil {
		return err
	}
	return a.printRaw(raw)
}

func (a *app) book(ctx context.Context, args []string) error {
	var payload []byte
	switch len(args) {
	case 0:
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return fmt.Errorf("failed to read booking: %w", err)
		}
		payload = data
	case 1:
		payload = []byte(args[0])
	default:
		return errors.New("usage: book [json]")
	}

	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return apperrors.NewValidationError("booking must be a JSON object or array")
	}

	switch v := decoded.(type) {
	case map[string]any:
		raw, err := a.bookings.CreateBooking(ctx, v)
		if err != nil {
			return err
		}
		return a.printRaw(raw)
	case []any:
		list := make([]map[string]any, len(v))
		for i, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				return apperrors.NewValidationError(fmt.Sprintf("booking %d is not a JSON object", i))
			}
			list[i] = obj
		}
		responses, err := a.bookings.CreateManyBookings(ctx, list)
		if err != nil {
			if batch, ok := services.AsBatchError(err); ok {
				fmt.Fprintf(a.stdout, "created: %v\n", batch.Succeeded())
			}
			return err
		}
		return a.printJSON(responses)
	default:
		return apperrors.NewValidationError("booking must be a JSON object or array")
	}
}

func (a *app) cancel(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: cancel <id>")
	}
	raw, err := a.bookings.CancelBooking(ctx, args[0])
	if err != nil {
		return err
	}
	return a.printRaw(raw)
}

func (a *app) pay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	amount := fs.Float64("amount", 0, "amount in rupees")
	venue := fs.String("venue", "", "venue name")
	court := fs.String("court", "", "court name")
	date := fs.String("date", "", "booking date")
	slots := fs.Int("slots", 1, "number of slots")
	bookingID := fs.String("booking-id", "", "booking to report the payment against")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *amount <= 0 {
		return apperrors.NewValidationError("amount must be positive")
	}

	if err := a.restoreSession(ctx); err != nil {
		return err
	}
	var payer entities.Payer
	if user := a.session.State().User; user != nil {
		payer = entities.Payer{Name: user.Name, Email: user.Email, Contact: user.Phone}
	}

	result, err := a.checkout.Open(ctx, entities.CheckoutRequest{
		Amount: *amount,
		User:   payer,
		Booking: entities.BookingSummary{
			VenueName: *venue,
			CourtName: *court,
			Date:      *date,
			Slots:     *slots,
		},
	})
	if err != nil {
		if *bookingID != "" && !apperrors.IsType(err, apperrors.ErrorTypePaymentCancelled) {
			report := map[string]any{"booking_id": *bookingID, "error": err.Error()}
			if _, reportErr := a.bookings.ReportPaymentFailure(ctx, report); reportErr != nil {
				observability.GetLogger().Error().Err(reportErr).Msg("Failed to report payment failure")
			}
		}
		return err
	}

	if *bookingID != "" {
		report := map[string]any{
			"booking_id":          *bookingID,
			"razorpay_payment_id": result.PaymentID,
			"razorpay_order_id":   result.OrderID,
			"razorpay_signature":  result.Signature,
		}
		if _, err := a.bookings.ReportPaymentSuccess(ctx, report); err != nil {
			return err
		}
	}
	return a.printJSON(result)
}

func (a *app) logout(ctx context.Context, args []string) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Logged out")
	return nil
}

// restoreSession loads the stored session and fails when nobody is signed in
func (a *app) restoreSession(ctx context.Context) error {
	a.session.Init(ctx)
	if a.session.State().User == nil {
		return apperrors.NewNotAuthenticatedError("User not logged in")
	}
	return nil
}

// readSecret reads without echo from a terminal, or a plain line otherwise
func (a *app) readSecret() (string, error) {
	if f, ok := a.rawIn.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(secret), nil
	}

	line, err := a.stdin.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return line, nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) printRaw(raw json.RawMessage) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		_, err := fmt.Fprintln(a.stdout, string(raw))
		return err
	}
	return a.printJSON(v)
}

// optionalString registers a flag that leaves *target nil unless it is set
func optionalString(fs *flag.FlagSet, target **string, name, usage string) {
	fs.Func(name, usage, func(s string) error {
		*target = &s
		return nil
	})
}
