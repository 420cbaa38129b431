package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/bookvenue/client/internal/domain/entities"
	"github.com/bookvenue/client/internal/domain/providers"
	"github.com/bookvenue/client/internal/infrastructure/observability"
	"github.com/bookvenue/client/pkg/config"
	apperrors "github.com/bookvenue/client/pkg/errors"
	"github.com/google/uuid"
)

// CheckoutService builds payment intents and runs them through a checkout sheet
type CheckoutService struct {
	sheet providers.CheckoutSheet
	cfg   config.CheckoutConfig
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(sheet providers.CheckoutSheet, cfg *config.CheckoutConfig) *CheckoutService {
	return &CheckoutService{
		sheet: sheet,
		cfg:   *cfg,
	}
}

// Options builds the sheet options for req. Amount is converted to paise.
func (s *CheckoutService) Options(req entities.CheckoutRequest) entities.CheckoutOptions {
	return entities.CheckoutOptions{
		Key:         s.cfg.KeyID,
		Amount:      int64(math.Round(req.Amount * 100)),
		Currency:    s.cfg.Currency,
		Name:        s.cfg.Brand,
		Description: fmt.Sprintf("Booking for %s - %s", req.Booking.VenueName, req.Booking.CourtName),
		Image:       s.cfg.ImageURL,
		Receipt:     "rcpt_" + uuid.NewString(),
		Prefill:     req.User,
		Notes: map[string]any{
			"venue_name":   req.Booking.VenueName,
			"court_name":   req.Booking.CourtName,
			"booking_date": req.Booking.Date,
			"total_slots":  req.Booking.Slots,
		},
		Theme: entities.CheckoutTheme{Color: s.cfg.ThemeHex},
	}
}

// Open shows the checkout sheet and waits for it to settle. A user dismissal
// becomes PAYMENT_CANCELLED; other sheet errors are returned unchanged.
func (s *CheckoutService) Open(ctx context.Context, req entities.CheckoutRequest) (*entities.PaymentResult, error) {
	opts := s.Options(req)

	ctx, span := observability.StartSpan(ctx, "checkout.open")
	defer span.End()

	logger := observability.LoggerFromContext(ctx)
	logger.Debug().Int64("amount", opts.Amount).Str("receipt", opts.Receipt).Msg("Opening checkout")

	result, err := s.sheet.Open(ctx, opts)
	if err != nil {
		var sheetErr *providers.SheetError
		if errors.As(err, &sheetErr) && sheetErr.Code == providers.SheetErrorCodeCancelled {
			logger.Info().Str("receipt", opts.Receipt).Msg("Payment cancelled by user")
			return nil, apperrors.NewPaymentCancelledError(err)
		}
		observability.RecordError(span, err)
		logger.Error().Err(err).Str("receipt", opts.Receipt).Msg("Checkout failed")
		return nil, err
	}

	logger.Info().Str("payment_id", result.PaymentID).Msg("Payment completed")
	return result, nil
}
