package entities

// Payer is the identity prefilled on the checkout sheet
type Payer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

// BookingSummary describes what is being paid for
type BookingSummary struct {
	VenueName string `json:"venueName"`
	CourtName string `json:"courtName"`
	Date      string `json:"date"`
	Slots     int    `json:"slots"`
}

// CheckoutRequest is the input for opening a checkout sheet. Amount is in major units.
type CheckoutRequest struct {
	Amount  float64        `json:"amount"`
	User    Payer          `json:"user"`
	Booking BookingSummary `json:"booking"`
}

// CheckoutTheme holds sheet branding
type CheckoutTheme struct {
	Color string `json:"color"`
}

// CheckoutOptions is the payment-intent description handed to the checkout SDK.
// Amount is in minor currency units.
type CheckoutOptions struct {
	Key         string         `json:"key"`
	Amount      int64          `json:"amount"`
	Currency    string         `json:"currency"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
	Receipt     string         `json:"receipt,omitempty"`
	Prefill     Payer          `json:"prefill"`
	Notes       map[string]any `json:"notes"`
	Theme       CheckoutTheme  `json:"theme"`
}

// PaymentResult is the SDK success payload
type PaymentResult struct {
	PaymentID string `json:"razorpay_payment_id"`
	OrderID   string `json:"razorpay_order_id,omitempty"`
	Signature string `json:"razorpay_signature,omitempty"`
}
