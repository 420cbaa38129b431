package utils

import (
	"strconv"
	"strings"

	"github.com/bookvenue/client/internal/domain/entities"
)

const (
	// DefaultAssetBaseURL prefixes relative facility image paths
	DefaultAssetBaseURL = "https://admin.bookvenue.app"

	// PlaceholderVenueImage is used when a booking carries no image at all
	PlaceholderVenueImage = "https://images.pexels.com/photos/1263426/pexels-photo-1263426.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2"

	DefaultVenueName     = "Unknown Venue"
	DefaultCourtType     = "Court"
	DefaultVenueID       = "venue-1"
	DefaultVenueSlug     = "venue-1"
	DefaultVenueLocation = "Location not available"
)

// FallbackCoordinates is used when a booking has no parsable location (New Delhi)
var FallbackCoordinates = entities.Coordinates{Latitude: 28.6139, Longitude: 77.2090}

// BookingNormalizer maps heterogeneous booking payloads into entities.Booking.
// Each target field has an ordered list of source paths; the first present one wins.
type BookingNormalizer struct {
	assetBaseURL string
}

// NewBookingNormalizer creates a normalizer resolving facility images against assetBaseURL
func NewBookingNormalizer(assetBaseURL string) *BookingNormalizer {
	base := strings.TrimRight(assetBaseURL, "/")
	if base == "" {
		base = DefaultAssetBaseURL
	}
	return &BookingNormalizer{assetBaseURL: base}
}

var defaultNormalizer = NewBookingNormalizer(DefaultAssetBaseURL)

// NormalizeBooking normalizes a list element with the default asset base URL
func NormalizeBooking(raw map[string]any, index int) entities.Booking {
	return defaultNormalizer.Normalize(raw, index)
}

// Normalize maps a list element; the element index stands in for a missing id
func (n *BookingNormalizer) Normalize(raw map[string]any, index int) entities.Booking {
	return n.NormalizeWithID(raw, strconv.Itoa(index))
}

// NormalizeWithID maps a single booking; fallbackID stands in for a missing id.
// It never fails: absent or malformed fields take their documented defaults.
func (n *BookingNormalizer) NormalizeWithID(raw map[string]any, fallbackID string) entities.Booking {
	if raw == nil {
		raw = map[string]any{}
	}

	startTime, endTime, slots := resolveTimeRange(raw)

	return entities.Booking{
		ID: stringOrFallback(raw["id"], fallbackID),
		Venue: entities.Venue{
			ID:          stringOrFallback(raw["facility_id"], DefaultVenueID),
			Name:        FirstString(raw, DefaultVenueName, "facility_name", "facility.official_name", "venue_name"),
			Location:    FirstString(raw, DefaultVenueLocation, "venue_location", "facility.address", "address"),
			Type:        FirstString(raw, DefaultCourtType, "court_name", "court.court_name", "court_type"),
			Slug:        FirstString(raw, DefaultVenueSlug, "facility_slug", "facility.slug"),
			Images:      []string{n.resolveImage(raw)},
			Coordinates: resolveCoordinates(raw),
		},
		Date:        FirstString(raw, "", "date", "booking_date"),
		StartTime:   startTime,
		EndTime:     endTime,
		TotalAmount: resolveAmount(raw),
		Status:      entities.BookingStatus(strings.ToLower(FirstString(raw, string(entities.BookingStatusPending), "status"))),
		Slots:       slots,
	}
}

// BookingRecords extracts the booking list from any of the accepted payload shapes:
// {"bookings": [...]}, {"data": [...]} or a bare array. Anything else is empty.
func BookingRecords(payload any) []map[string]any {
	var items []any
	switch val := payload.(type) {
	case map[string]any:
		if b := val["bookings"]; Truthy(b) {
			items, _ = b.([]any)
		} else if d := val["data"]; Truthy(d) {
			items, _ = d.([]any)
		}
	case []any:
		items = val
	}

	records := make([]map[string]any, 0, len(items))
	for _, item := range items {
		obj, _ := item.(map[string]any)
		if obj == nil {
			obj = map[string]any{}
		}
		records = append(records, obj)
	}
	return records
}

func stringOrFallback(v any, fallback string) string {
	if v == nil {
		return fallback
	}
	if s := StringOf(v); s != "" {
		return s
	}
	return fallback
}

func resolveAmount(raw map[string]any) float64 {
	v, ok := FirstTruthy(raw, "total_price", "price", "amount")
	if !ok {
		return 0
	}
	amount, ok := FloatOf(v)
	if !ok {
		return 0
	}
	return amount
}

// resolveTimeRange applies slots, then start_time/end_time, then time_slot
func resolveTimeRange(raw map[string]any) (string, string, int) {
	if slots, ok := raw["slots"].([]any); ok && len(slots) > 0 {
		var starts, ends []string
		for _, s := range slots {
			slot, ok := s.(map[string]any)
			if !ok {
				continue
			}
			if v, ok := FirstTruthy(slot, "start_time", "startTime"); ok {
				starts = append(starts, StringOf(v))
			}
			if v, ok := FirstTruthy(slot, "end_time", "endTime"); ok {
				ends = append(ends, StringOf(v))
			}
		}
		return strings.Join(starts, ", "), strings.Join(ends, ", "), len(slots)
	}

	if Truthy(raw["start_time"]) && Truthy(raw["end_time"]) {
		return StringOf(raw["start_time"]), StringOf(raw["end_time"]), 1
	}

	if Truthy(raw["time_slot"]) {
		slot := StringOf(raw["time_slot"])
		return slot, slot, 1
	}

	return "", "", 1
}

func (n *BookingNormalizer) resolveImage(raw map[string]any) string {
	if v := raw["venue_image"]; Truthy(v) {
		return StringOf(v)
	}
	if v := Lookup(raw, "facility.featured_image"); Truthy(v) {
		path := strings.ReplaceAll(StringOf(v), `\`, "/")
		return n.assetBaseURL + "/" + path
	}
	return PlaceholderVenueImage
}

func resolveCoordinates(raw map[string]any) entities.Coordinates {
	coords := FallbackCoordinates
	if v, ok := FirstTruthy(raw, "venue_lat", "facility.lat"); ok {
		if lat, ok := FloatOf(v); ok {
			coords.Latitude = lat
		}
	}
	if v, ok := FirstTruthy(raw, "venue_lng", "facility.lng"); ok {
		if lng, ok := FloatOf(v); ok {
			coords.Longitude = lng
		}
	}
	return coords
}
