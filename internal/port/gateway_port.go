package port

import (
	"context"

	"github.com/abellastitches/storefront/internal/domain"
)

// PaymentGateway is the outbound contract to the payment provider. It holds
// no state; both calls are plain request/response over HTTP.
type PaymentGateway interface {
	// Initialize requests a hosted checkout session for the amount,
	// attaching the product id and name as metadata for later retrieval
	// during verification.
	Initialize(ctx context.Context, email string, amount domain.Money, productID, productName string) (domain.Authorization, error)

	// Verify polls the provider for the final state of a transaction.
	// A provider-reported non-success status yields Success=false and a
	// nil error; only transport-level failures are errors.
	Verify(ctx context.Context, reference string) (domain.VerifiedTransaction, error)
}

// Mailer dispatches customer notifications. Callers on order-mutating paths
// must treat failures as log-and-continue; no mailer error may roll back
// persisted state.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, order domain.Order) error
	SendOrderStatusChange(ctx context.Context, order domain.Order, newStatus domain.OrderStatus) error
}
