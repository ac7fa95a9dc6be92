package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Order is one completed or pending purchase. Created exactly once by the
// reconciler upon first successful verification of a payment reference,
// mutated afterwards only by admin status updates, never deleted.
type Order struct {
	ID            uuid.UUID
	CustomerEmail string
	Items         []OrderItem
	TotalAmount   Money

	// PaymentReference is the gateway-assigned transaction identifier.
	// At most one order exists per reference, enforced by a unique
	// constraint in the store.
	PaymentReference string
	PaymentStatus    PaymentStatus
	PaymentGateway   string

	Status         OrderStatus
	OrderNotes     string
	TrackingNumber string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem is a snapshot of a product at purchase time, so later catalog
// edits or deletions do not retroactively alter historical orders.
// ProductID is nil for synthetic lines such as multi-item cart checkouts.
type OrderItem struct {
	ProductID   *string
	ProductName string
	Category    string
	Price       Money
	Quantity    int
	ImageURL    string

	CreatedAt time.Time
}

// OrderNumber is the human-readable order identifier shown to customers,
// derived from the last 8 hex characters of the order ID.
func (o Order) OrderNumber() string {
	hex := strings.ReplaceAll(o.ID.String(), "-", "")
	return "ORD-" + strings.ToUpper(hex[len(hex)-8:])
}

// OrderUpdate carries the admin-editable fields of an order.
// Nil fields are left untouched.
type OrderUpdate struct {
	Status         *OrderStatus
	OrderNotes     *string
	TrackingNumber *string
}

// OrderStats aggregates order counts per status and total revenue over
// successfully paid orders.
type OrderStats struct {
	TotalOrders      int64
	PendingOrders    int64
	ProcessingOrders int64
	ShippedOrders    int64
	DeliveredOrders  int64
	TotalRevenue     Money
}
