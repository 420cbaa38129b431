package utils

import (
	"encoding/json"
	"testing"

	"github.com/bookvenue/client/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, payload string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(payload), &out))
	return out
}

// TestNormalizeBooking_AllDefaults checks an empty payload yields every fallback
func TestNormalizeBooking_AllDefaults(t *testing.T) {
	b := NormalizeBooking(map[string]any{}, 3)

	assert.Equal(t, "3", b.ID)
	assert.Equal(t, "Unknown Venue", b.Venue.Name)
	assert.Equal(t, "Court", b.Venue.Type)
	assert.Equal(t, "venue-1", b.Venue.ID)
	assert.Equal(t, "venue-1", b.Venue.Slug)
	assert.Equal(t, "Location not available", b.Venue.Location)
	assert.Equal(t, []string{PlaceholderVenueImage}, b.Venue.Images)
	assert.Equal(t, FallbackCoordinates, b.Venue.Coordinates)
	assert.Equal(t, "", b.Date)
	assert.Equal(t, "", b.StartTime)
	assert.Equal(t, "", b.EndTime)
	assert.Equal(t, 0.0, b.TotalAmount)
	assert.Equal(t, entities.BookingStatusPending, b.Status)
	assert.Equal(t, 1, b.Slots)
}

func TestNormalizeBooking_NilIsTotal(t *testing.T) {
	assert.NotPanics(t, func() {
		b := NormalizeBooking(nil, 0)
		assert.Equal(t, "Unknown Venue", b.Venue.Name)
	})
}

func TestNormalizeBooking_SlotsJoined(t *testing.T) {
	raw := decode(t, `{"slots":[{"start_time":"10:00","end_time":"11:00"},{"start_time":"11:00","end_time":"12:00"}]}`)

	b := NormalizeBooking(raw, 0)

	assert.Equal(t, "10:00, 11:00", b.StartTime)
	assert.Equal(t, "11:00, 12:00", b.EndTime)
	assert.Equal(t, 2, b.Slots)
}

func TestNormalizeBooking_SlotsSkipMissingAndCamelCase(t *testing.T) {
	raw := decode(t, `{"slots":[{"startTime":"08:00","endTime":"09:00"},{"start_time":"09:00"},null],"start_time":"ignored","end_time":"ignored"}`)

	b := NormalizeBooking(raw, 0)

	assert.Equal(t, "08:00, 09:00", b.StartTime)
	assert.Equal(t, "09:00", b.EndTime)
	assert.Equal(t, 3, b.Slots)
}

func TestNormalizeBooking_TimeRangePriority(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantStart string
		wantEnd   string
		wantSlots int
	}{
		{
			name:      "scalar start and end",
			payload:   `{"start_time":"18:00","end_time":"19:00","time_slot":"Evening"}`,
			wantStart: "18:00",
			wantEnd:   "19:00",
			wantSlots: 1,
		},
		{
			name:      "time slot only",
			payload:   `{"time_slot":"Evening"}`,
			wantStart: "Evening",
			wantEnd:   "Evening",
			wantSlots: 1,
		},
		{
			name:      "empty slots fall through",
			payload:   `{"slots":[],"time_slot":"Morning"}`,
			wantStart: "Morning",
			wantEnd:   "Morning",
			wantSlots: 1,
		},
		{
			name:      "start without end falls through to time slot",
			payload:   `{"start_time":"07:00","time_slot":"Morning"}`,
			wantStart: "Morning",
			wantEnd:   "Morning",
			wantSlots: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NormalizeBooking(decode(t, tt.payload), 0)
			assert.Equal(t, tt.wantStart, b.StartTime)
			assert.Equal(t, tt.wantEnd, b.EndTime)
			assert.Equal(t, tt.wantSlots, b.Slots)
		})
	}
}

func TestNormalizeBooking_Amount(t *testing.T) {
	tests := []struct {
		payload string
		want    float64
	}{
		{`{"total_price":"abc"}`, 0},
		{`{"total_price":"150.5"}`, 150.5},
		{`{"total_price":"","price":"99"}`, 99},
		{`{"amount":250}`, 250},
		{`{"price":"120 INR"}`, 120},
		{`{"total_price":0,"amount":"40"}`, 40},
	}

	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBooking(decode(t, tt.payload), 0).TotalAmount)
		})
	}
}

func TestNormalizeBooking_StatusLowerCasedNotValidated(t *testing.T) {
	b := NormalizeBooking(decode(t, `{"status":"CONFIRMED"}`), 0)
	assert.Equal(t, entities.BookingStatusConfirmed, b.Status)
	assert.True(t, b.IsKnownStatus())

	b = NormalizeBooking(decode(t, `{"status":"Refunded"}`), 0)
	assert.Equal(t, entities.BookingStatus("refunded"), b.Status)
	assert.False(t, b.IsKnownStatus())
}

func TestNormalizeBooking_VenueFieldPriority(t *testing.T) {
	raw := decode(t, `{
		"id": 42,
		"facility_id": 7,
		"facility": {"official_name": "Smash Arena", "address": "Sector 18", "slug": "smash-arena", "featured_image": "uploads\\facilities\\smash.jpg", "lat": "12.97", "lng": "77.59"},
		"court": {"court_name": "Badminton Court 2"},
		"booking_date": "2025-06-01"
	}`)

	b := NormalizeBooking(raw, 0)

	assert.Equal(t, "42", b.ID)
	assert.Equal(t, "7", b.Venue.ID)
	assert.Equal(t, "Smash Arena", b.Venue.Name)
	assert.Equal(t, "Badminton Court 2", b.Venue.Type)
	assert.Equal(t, "Sector 18", b.Venue.Location)
	assert.Equal(t, "smash-arena", b.Venue.Slug)
	assert.Equal(t, "2025-06-01", b.Date)
	assert.Equal(t, []string{"https://admin.bookvenue.app/uploads/facilities/smash.jpg"}, b.Venue.Images)
	assert.Equal(t, entities.Coordinates{Latitude: 12.97, Longitude: 77.59}, b.Venue.Coordinates)
}

func TestNormalizeBooking_TopLevelFieldsWin(t *testing.T) {
	raw := decode(t, `{
		"facility_name": "Top Name",
		"venue_name": "Venue Name",
		"facility": {"official_name": "Nested", "featured_image": "a.jpg", "lat": "1", "lng": "2"},
		"court_name": "Court A",
		"court_type": "Turf",
		"venue_image": "https://cdn.example.com/v.jpg",
		"venue_lat": "10.5",
		"venue_lng": "not-a-number",
		"date": "2025-01-01",
		"booking_date": "2024-12-31"
	}`)

	b := NormalizeBooking(raw, 0)

	assert.Equal(t, "Top Name", b.Venue.Name)
	assert.Equal(t, "Court A", b.Venue.Type)
	assert.Equal(t, []string{"https://cdn.example.com/v.jpg"}, b.Venue.Images)
	assert.Equal(t, "2025-01-01", b.Date)
	assert.Equal(t, 10.5, b.Venue.Coordinates.Latitude)
	assert.Equal(t, FallbackCoordinates.Longitude, b.Venue.Coordinates.Longitude)
}

func TestBookingNormalizer_CustomAssetBase(t *testing.T) {
	n := NewBookingNormalizer("http://assets.local/")
	b := n.NormalizeWithID(decode(t, `{"facility":{"featured_image":"img\\x.png"}}`), "abc")

	assert.Equal(t, "abc", b.ID)
	assert.Equal(t, []string{"http://assets.local/img/x.png"}, b.Venue.Images)
}

func TestNormalizeBooking_Deterministic(t *testing.T) {
	raw := decode(t, `{"slots":[{"start_time":"1","end_time":"2"}],"price":"5","status":"Pending"}`)
	assert.Equal(t, NormalizeBooking(raw, 1), NormalizeBooking(raw, 1))
}

func TestBookingRecords_Shapes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    int
	}{
		{"bookings key", `{"bookings":[{"id":1},{"id":2}]}`, 2},
		{"data key", `{"data":[{"id":1}]}`, 1},
		{"bare array", `[{"id":1},{"id":2},{"id":3}]`, 3},
		{"bookings not an array", `{"bookings":{"id":1}}`, 0},
		{"unrelated object", `{"message":"ok"}`, 0},
		{"scalar", `"nope"`, 0},
		{"null", `null`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload any
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &payload))
			assert.Len(t, BookingRecords(payload), tt.want)
		})
	}
}

func TestBookingRecords_NonObjectElementsBecomeEmpty(t *testing.T) {
	var payload any
	require.NoError(t, json.Unmarshal([]byte(`[1, {"id": 9}]`), &payload))

	records := BookingRecords(payload)
	require.Len(t, records, 2)
	assert.Empty(t, records[0])
	assert.Equal(t, "0", NormalizeBooking(records[0], 0).ID)
}
