package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry, owned and mutated solely by the catalog
// service. Order items copy its fields at purchase time instead of
// referencing it.
type Product struct {
	ID          uuid.UUID
	ProductName string
	Category    string
	Price       Money
	ImageURL    string
	Description string

	CreatedAt time.Time
}
