package providers

import (
	"context"
	"fmt"

	"github.com/bookvenue/client/internal/domain/entities"
)

// SheetErrorCodeCancelled is reported when the user dismisses the sheet
const SheetErrorCodeCancelled = "Cancelled"

// CheckoutSheet opens a third-party payment sheet and blocks until it settles
type CheckoutSheet interface {
	Open(ctx context.Context, opts entities.CheckoutOptions) (*entities.PaymentResult, error)
}

// SheetError is the raw error reported by a checkout SDK
type SheetError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("checkout error %s: %s", e.Code, e.Description)
}
