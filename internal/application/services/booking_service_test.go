package services_test

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/bookvenue/client/internal/application/services"
	"github.com/bookvenue/client/internal/domain/entities"
	"github.com/bookvenue/client/internal/domain/providers"
	apperrors "github.com/bookvenue/client/pkg/errors"
	"github.com/bookvenue/client/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBookingService(api providers.APIClient) *services.BookingService {
	return services.NewBookingService(api, utils.DefaultAssetBaseURL)
}

func TestBookingService_ListBookings(t *testing.T) {
	t.Run("normalizes each booking", func(t *testing.T) {
		api := new(MockAPIClient)
		api.On("Do", mock.Anything, request(http.MethodGet, "/my-bookings")).Return(ok(`{"bookings":[
			{"id": 101, "facility_name": "Ace Arena", "court_name": "Court 1", "date": "2025-03-01",
			 "slots": [{"start_time":"06:00","end_time":"07:00"}], "total_price": "800.00", "status": "Confirmed"},
			{"time_slot": "Evening"}
		]}`), nil)

		bookings, err := newBookingService(api).ListBookings(context.Background())

		require.NoError(t, err)
		require.Len(t, bookings, 2)

		assert.Equal(t, "101", bookings[0].ID)
		assert.Equal(t, "Ace Arena", bookings[0].Venue.Name)
		assert.Equal(t, "Court 1", bookings[0].Venue.Type)
		assert.Equal(t, "06:00", bookings[0].StartTime)
		assert.Equal(t, 800.0, bookings[0].TotalAmount)
		assert.Equal(t, entities.BookingStatusConfirmed, bookings[0].Status)

		assert.Equal(t, "1", bookings[1].ID)
		assert.Equal(t, "Evening", bookings[1].StartTime)
		assert.Equal(t, "Unknown Venue", bookings[1].Venue.Name)
	})

	t.Run("unrecognized shapes are empty", func(t *testing.T) {
		for _, body := range []string{`{"bookings":"none"}`, `{"message":"no bookings"}`, ``, `null`} {
			api := new(MockAPIClient)
			api.On("Do", mock.Anything, request(http.MethodGet, "/my-bookings")).Return(ok(body), nil)

			bookings, err := newBookingService(api).ListBookings(context.Background())
			require.NoError(t, err, body)
			assert.Empty(t, bookings, body)
		}
	})

	t.Run("failure", func(t *testing.T) {
		api := new(MockAPIClient)
		api.On("Do", mock.Anything, request(http.MethodGet, "/my-bookings")).Return(nil, errors.New("offline"))

		_, err := newBookingService(api).ListBookings(context.Background())
		assert.Equal(t, "Failed to fetch bookings", apperrors.MessageOf(err))
	})
}

func TestBookingService_GetBooking(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantID   string
		wantName string
	}{
		{"wrapped", `{"booking":{"id":55,"facility_name":"Turf Town"}}`, "55", "Turf Town"},
		{"bare", `{"facility":{"official_name":"Bare Hall"}}`, "abc", "Bare Hall"},
		{"wrapper not an object", `{"booking":null,"venue_name":"Fallback Venue"}`, "abc", "Fallback Venue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(MockAPIClient)
			api.On("Do", mock.Anything, mock.MatchedBy(func(r providers.APIRequest) bool {
				return r.Path == "/booking/abc" && r.Route == "/booking/{id}"
			})).Return(ok(tt.body), nil)

			booking, err := newBookingService(api).GetBooking(context.Background(), "abc")

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, booking.ID)
			assert.Equal(t, tt.wantName, booking.Venue.Name)
		})
	}

	t.Run("not an object", func(t *testing.T) {
		api := new(MockAPIClient)
		api.On("Do", mock.Anything, request(http.MethodGet, "/booking/9")).Return(ok(`[]`), nil)

		_, err := newBookingService(api).GetBooking(context.Background(), "9")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
		assert.Equal(t, "Booking not found", apperrors.MessageOf(err))
	})

	t.Run("failure", func(t *testing.T) {
		api := new(MockAPIClient)
		api.On("Do", mock.Anything, request(http.MethodGet, "/booking/9")).Return(nil, apiError(http.StatusNotFound, ""))

		_, err := newBookingService(api).GetBooking(context.Background(), "9")
		assert.Equal(t, "Failed to fetch booking", apperrors.MessageOf(err))
	})
}

func TestBookingService_GetCourtAvailability(t *testing.T) {
	api := new(MockAPIClient)
	api.On("Do", mock.Anything, mock.MatchedBy(func(r providers.APIRequest) bool {
		return r.Method == http.MethodPost &&
			r.Path == "/court-availability/4/11" &&
			assert.ObjectsAreEqual(map[string]string{"date": "2025-05-10"}, r.Body)
	})).Return(ok(`{"slots":[{"start_time":"06:00","available":true}]}`), nil)

	raw, err := newBookingService(api).GetCourtAvailability(context.Background(), "4", "11", "2025-05-10")

	require.NoError(t, err)
	assert.JSONEq(t, `{"slots":[{"start_time":"06:00","available":true}]}`, string(raw))
}

func TestBookingService_CreateBooking(t *testing.T) {
	api := new(MockAPIClient)
	api.On("Do", mock.Anything, request(http.MethodPost, "/booking")).
		Return(nil, apiError(http.StatusConflict, "Slot already booked"))

	_, err := newBookingService(api).CreateBooking(context.Background(), map[string]any{"court_id": 1})

	assert.Equal(t, "Slot already booked", apperrors.MessageOf(err))
}

func TestBookingService_CreateManyBookings_AllSucceed(t *testing.T) {
	api := new(MockAPIClient)
	for _, slot := range []string{"a", "b", "c"} {
		api.On("Do", mock.Anything, mock.MatchedBy(func(r providers.APIRequest) bool {
			body, _ := r.Body.(map[string]any)
			return r.Path == "/booking" && body["slot"] == slot
		})).Return(ok(`{"id":"`+slot+`"}`), nil).Once()
	}

	responses, err := newBookingService(api).CreateManyBookings(context.Background(), []map[string]any{
		{"slot": "a"}, {"slot": "b"}, {"slot": "c"},
	})

	require.NoError(t, err)
	require.Len(t, responses, 3)
	assert.JSONEq(t, `{"id":"a"}`, string(responses[0]))
	assert.JSONEq(t, `{"id":"b"}`, string(responses[1]))
	assert.JSONEq(t, `{"id":"c"}`, string(responses[2]))
	api.AssertExpectations(t)
}

func TestBookingService_CreateManyBookings_OneFails(t *testing.T) {
	var dispatched atomic.Int32
	api := new(MockAPIClient)
	api.On("Do", mock.Anything, mock.MatchedBy(func(r providers.APIRequest) bool {
		body, _ := r.Body.(map[string]any)
		return body["slot"] != "b"
	})).Run(func(mock.Arguments) { dispatched.Add(1) }).Return(ok(`{"status":"ok"}`), nil)
	api.On("Do", mock.Anything, mock.MatchedBy(func(r providers.APIRequest) bool {
		body, _ := r.Body.(map[string]any)
		return body["slot"] == "b"
	})).Run(func(mock.Arguments) { dispatched.Add(1) }).Return(nil, apiError(http.StatusConflict, "Slot b taken"))

	responses, err := newBookingService(api).CreateManyBookings(context.Background(), []map[string]any{
		{"slot": "a"}, {"slot": "b"}, {"slot": "c"},
	})

	require.Error(t, err)
	assert.Nil(t, responses)
	assert.Equal(t, int32(3), dispatched.Load())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeTransport))
	assert.Equal(t, "Slot b taken", apperrors.MessageOf(err))

	batch, isBatch := services.AsBatchError(err)
	require.True(t, isBatch)
	assert.Equal(t, []int{0, 2}, batch.Succeeded())
	assert.Equal(t, "1 of 3 bookings failed", batch.Error())

	var apiErr *providers.APIError
	assert.True(t, errors.As(err, &apiErr))
}

func TestBookingService_CreateManyBookings_Empty(t *testing.T) {
	api := new(MockAPIClient)

	responses, err := newBookingService(api).CreateManyBookings(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, responses)
	api.AssertNotCalled(t, "Do", mock.Anything, mock.Anything)
}

func TestBookingService_CancelBooking(t *testing.T) {
	api := new(MockAPIClient)
	api.On("Do", mock.Anything, mock.MatchedBy(func(r providers.APIRequest) bool {
		return r.Method == http.MethodPost && r.Path == "/cancel-booking/77" && r.Body == nil
	})).Return(ok(`{"message":"Booking cancelled"}`), nil)

	raw, err := newBookingService(api).CancelBooking(context.Background(), "77")

	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"Booking cancelled"}`, string(raw))
}

func TestBookingService_ReportPayment(t *testing.T) {
	t.Run("success posts body", func(t *testing.T) {
		api := new(MockAPIClient)
		data := map[string]any{"booking_id": "5", "razorpay_payment_id": "pay_1"}
		api.On("Do", mock.Anything, mock.MatchedBy(func(r providers.APIRequest) bool {
			return r.Method == http.MethodPost && r.Path == "/payment-success" && assert.ObjectsAreEqual(data, r.Body)
		})).Return(ok(`{}`), nil)

		_, err := newBookingService(api).ReportPaymentSuccess(context.Background(), data)
		require.NoError(t, err)
	})

	t.Run("failure sends query", func(t *testing.T) {
		api := new(MockAPIClient)
		api.On("Do", mock.Anything, mock.MatchedBy(func(r providers.APIRequest) bool {
			return r.Method == http.MethodGet &&
				r.Path == "/payment-failure" &&
				r.Body == nil &&
				r.Query.Get("booking_id") == "5" &&
				r.Query.Get("amount") == "499.5" &&
				!r.Query.Has("note")
		})).Return(ok(`{}`), nil)

		_, err := newBookingService(api).ReportPaymentFailure(context.Background(), map[string]any{
			"booking_id": "5", "amount": 499.5, "note": nil,
		})
		require.NoError(t, err)
	})

	t.Run("failure message", func(t *testing.T) {
		api := new(MockAPIClient)
		api.On("Do", mock.Anything, request(http.MethodPost, "/payment-success")).Return(nil, errors.New("reset"))

		_, err := newBookingService(api).ReportPaymentSuccess(context.Background(), nil)
		assert.Equal(t, "Failed to update payment status", apperrors.MessageOf(err))
	})
}
