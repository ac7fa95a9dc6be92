package port

import (
	"context"

	"github.com/abellastitches/storefront/internal/domain"
	"github.com/google/uuid"
)

type OrderRepository interface {
	// InsertOrder persists an order and its items atomically. A second
	// insert for the same payment reference fails with
	// domain.ErrDuplicateReference.
	InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error)

	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	GetOrderByReference(ctx context.Context, reference string) (domain.Order, error)

	SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)

	UpdateOrder(ctx context.Context, orderID uuid.UUID, update domain.OrderUpdate) (domain.Order, error)

	OrderStats(ctx context.Context) (domain.OrderStats, error)
}
