package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bookvenue/client/internal/domain/entities"
	"github.com/bookvenue/client/internal/domain/providers"
	"github.com/bookvenue/client/internal/infrastructure/observability"
	apperrors "github.com/bookvenue/client/pkg/errors"
	"github.com/bookvenue/client/pkg/utils"
	"golang.org/x/sync/errgroup"
)

// BookingService wraps the booking and payment-status endpoints
type BookingService struct {
	api        providers.APIClient
	normalizer *utils.BookingNormalizer
}

// NewBookingService creates a new booking service. Relative venue images resolve against assetBaseURL.
func NewBookingService(api providers.APIClient, assetBaseURL string) *BookingService {
	return &BookingService{
		api:        api,
		normalizer: utils.NewBookingNormalizer(assetBaseURL),
	}
}

// BatchError reports a partially failed CreateManyBookings call.
// Requests that succeeded are not rolled back.
type BatchError struct {
	Responses []json.RawMessage
	Errors    []error
}

func (e *BatchError) Error() string {
	failed := 0
	for _, err := range e.Errors {
		if err != nil {
			failed++
		}
	}
	return fmt.Sprintf("%d of %d bookings failed", failed, len(e.Errors))
}

// Unwrap exposes every individual failure to errors.Is/As
func (e *BatchError) Unwrap() []error {
	var errs []error
	for _, err := range e.Errors {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Succeeded returns the input indexes whose booking was created
func (e *BatchError) Succeeded() []int {
	var idx []int
	for i, err := range e.Errors {
		if err == nil {
			idx = append(idx, i)
		}
	}
	return idx
}

// ListBookings fetches the caller's bookings in normalized form
func (s *BookingService) ListBookings(ctx context.Context) ([]entities.Booking, error) {
	resp, err := call(ctx, s.api, get("/my-bookings"), "Failed to fetch bookings")
	if err != nil {
		return nil, err
	}

	records := utils.BookingRecords(decodeBody(resp))
	bookings := make([]entities.Booking, len(records))
	for i, raw := range records {
		bookings[i] = s.normalizer.Normalize(raw, i)
	}

	observability.LoggerFromContext(ctx).Debug().Int("count", len(bookings)).Msg("Bookings fetched")
	return bookings, nil
}

// GetBooking fetches one booking. The response may wrap it in "booking" or be the booking itself.
func (s *BookingService) GetBooking(ctx context.Context, id string) (*entities.Booking, error) {
	req := get("/booking/" + url.PathEscape(id))
	req.Route = "/booking/{id}"

	resp, err := call(ctx, s.api, req, "Failed to fetch booking")
	if err != nil {
		return nil, err
	}

	payload, _ := decodeBody(resp).(map[string]any)
	if payload == nil {
		return nil, apperrors.NewNotFoundError("Booking not found")
	}
	raw := payload
	if nested, ok := payload["booking"].(map[string]any); ok {
		raw = nested
	}

	booking := s.normalizer.NormalizeWithID(raw, id)
	return &booking, nil
}

// GetCourtAvailability returns the raw availability payload for a court on a date
func (s *BookingService) GetCourtAvailability(ctx context.Context, facilityID, courtID, date string) (json.RawMessage, error) {
	req := post(fmt.Sprintf("/court-availability/%s/%s", url.PathEscape(facilityID), url.PathEscape(courtID)), map[string]string{"date": date})
	req.Route = "/court-availability/{facilityId}/{courtId}"

	resp, err := call(ctx, s.api, req, "Failed to fetch availability")
	if err != nil {
		return nil, err
	}
	return rawBody(resp), nil
}

// CreateBooking submits one booking and returns the server response
func (s *BookingService) CreateBooking(ctx context.Context, data map[string]any) (json.RawMessage, error) {
	resp, err := call(ctx, s.api, post("/booking", data), "Failed to create booking")
	if err != nil {
		return nil, err
	}
	return rawBody(resp), nil
}

// CreateManyBookings submits every booking concurrently. All requests are sent even
// when some fail; any failure fails the call with a *BatchError as its cause.
func (s *BookingService) CreateManyBookings(ctx context.Context, list []map[string]any) ([]json.RawMessage, error) {
	const fallback = "Failed to create bookings"

	responses := make([]json.RawMessage, len(list))
	errs := make([]error, len(list))

	var g errgroup.Group
	for i, data := range list {
		g.Go(func() error {
			resp, err := s.api.Do(ctx, post("/booking", data))
			if err != nil {
				errs[i] = err
				return err
			}
			responses[i] = rawBody(resp)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		batch := &BatchError{Responses: responses, Errors: errs}
		message := fallback
		for _, e := range errs {
			if e != nil {
				message = failureMessage(e, fallback)
				break
			}
		}
		observability.LoggerFromContext(ctx).Error().
			Err(batch).
			Ints("succeeded", batch.Succeeded()).
			Msg(fallback)
		return nil, apperrors.NewTransportError(message, batch)
	}

	return responses, nil
}

// CancelBooking cancels a booking by id
func (s *BookingService) CancelBooking(ctx context.Context, id string) (json.RawMessage, error) {
	req := post("/cancel-booking/"+url.PathEscape(id), nil)
	req.Route = "/cancel-booking/{id}"

	resp, err := call(ctx, s.api, req, "Failed to cancel booking")
	if err != nil {
		return nil, err
	}
	return rawBody(resp), nil
}

// ReportPaymentSuccess tells the server a payment went through
func (s *BookingService) ReportPaymentSuccess(ctx context.Context, data map[string]any) (json.RawMessage, error) {
	resp, err := call(ctx, s.api, post("/payment-success", data), "Failed to update payment status")
	if err != nil {
		return nil, err
	}
	return rawBody(resp), nil
}

// ReportPaymentFailure tells the server a payment failed. The data travels as query parameters.
func (s *BookingService) ReportPaymentFailure(ctx context.Context, data map[string]any) (json.RawMessage, error) {
	query := url.Values{}
	for k, v := range data {
		if v == nil {
			continue
		}
		query.Set(k, utils.StringOf(v))
	}

	req := providers.APIRequest{Method: http.MethodGet, Path: "/payment-failure", Query: query}
	resp, err := call(ctx, s.api, req, "Failed to update payment status")
	if err != nil {
		return nil, err
	}
	return rawBody(resp), nil
}

// AsBatchError extracts the *BatchError behind a CreateManyBookings failure
func AsBatchError(err error) (*BatchError, bool) {
	var batch *BatchError
	ok := errors.As(err, &batch)
	return batch, ok
}
