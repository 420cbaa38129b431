package checkout

import (
	"fmt"
	"io"

	"github.com/bookvenue/client/internal/domain/providers"
	"github.com/bookvenue/client/pkg/config"
)

// Checkout providers
const (
	ProviderMock   = "mock"
	ProviderBridge = "bridge"
)

// NewCheckoutSheet picks the sheet named by cfg.Provider. in and out are only used by the bridge.
func NewCheckoutSheet(cfg *config.CheckoutConfig, in io.Reader, out io.Writer) (providers.CheckoutSheet, error) {
	switch cfg.Provider {
	case "", ProviderMock:
		// No real provider configured; use mock sheet for dev.
		return NewMockSheet(cfg.MockOutcome), nil
	case ProviderBridge:
		return NewBridgeSheet(in, out), nil
	default:
		return nil, fmt.Errorf("unsupported checkout provider %q", cfg.Provider)
	}
}
