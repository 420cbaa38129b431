package entities

// BookingStatus represents the status of a booking.
// Values outside the constants below are passed through from the server unchanged.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Coordinates is a latitude/longitude pair
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Venue is the facility a booking was made at
type Venue struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Location    string      `json:"location"`
	Type        string      `json:"type"`
	Slug        string      `json:"slug"`
	Images      []string    `json:"images"`
	Coordinates Coordinates `json:"coordinates"`
}

// Booking is the normalized booking shape every API response is mapped into
type Booking struct {
	ID          string        `json:"id"`
	Venue       Venue         `json:"venue"`
	Date        string        `json:"date"`
	StartTime   string        `json:"startTime"`
	EndTime     string        `json:"endTime"`
	TotalAmount float64       `json:"totalAmount"`
	Status      BookingStatus `json:"status"`
	Slots       int           `json:"slots"`
}

// IsKnownStatus reports whether the status is one of the documented values
func (b Booking) IsKnownStatus() bool {
	switch b.Status {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}
