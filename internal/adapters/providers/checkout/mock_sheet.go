package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/bookvenue/client/internal/domain/entities"
	"github.com/bookvenue/client/internal/domain/providers"
	"github.com/google/uuid"
)

// Mock sheet outcomes
const (
	OutcomeSuccess = "success"
	OutcomeCancel  = "cancel"
	OutcomeFail    = "fail"
)

// MockSheet settles every checkout with a fixed outcome for local development.
type MockSheet struct {
	outcome string
}

// NewMockSheet creates a mock checkout sheet. Unknown outcomes behave as success.
func NewMockSheet(outcome string) *MockSheet {
	return &MockSheet{outcome: strings.ToLower(outcome)}
}

// Open returns a fake payment reference or the configured failure.
func (m *MockSheet) Open(ctx context.Context, opts entities.CheckoutOptions) (*entities.PaymentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch m.outcome {
	case OutcomeCancel:
		return nil, &providers.SheetError{
			Code:        providers.SheetErrorCodeCancelled,
			Description: "Payment processing cancelled by user",
		}
	case OutcomeFail:
		return nil, &providers.SheetError{
			Code:        "BAD_REQUEST_ERROR",
			Description: fmt.Sprintf("Payment of %d %s declined", opts.Amount, opts.Currency),
		}
	}

	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:14]
	return &entities.PaymentResult{
		PaymentID: "pay_mock" + id,
		OrderID:   "order_mock" + id,
		Signature: "mock-signature",
	}, nil
}
