package checkout

import (
	"context"

	"github.com/bookvenue/client/internal/domain/entities"
)

// FuncSheet adapts a host-provided callback, such as a native SDK binding, to a CheckoutSheet
type FuncSheet func(ctx context.Context, opts entities.CheckoutOptions) (*entities.PaymentResult, error)

// Open calls f
func (f FuncSheet) Open(ctx context.Context, opts entities.CheckoutOptions) (*entities.PaymentResult, error) {
	return f(ctx, opts)
}
