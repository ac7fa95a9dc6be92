package port

import (
	"context"

	"github.com/abellastitches/storefront/internal/domain"
	"github.com/google/uuid"
)

type ProductRepository interface {
	InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error)

	// ListProducts returns the catalog newest-first, optionally filtered
	// by category. An empty category matches everything.
	ListProducts(ctx context.Context, category string) ([]domain.Product, error)
	Categories(ctx context.Context) ([]string, error)

	UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
}

type AdminUserRepository interface {
	// InsertAdminUser fails with domain.ErrDuplicateEmail if the email is
	// already registered.
	InsertAdminUser(ctx context.Context, admin domain.AdminUser) (uuid.UUID, error)
	GetAdminUserByEmail(ctx context.Context, email string) (domain.AdminUser, error)
	GetAdminUser(ctx context.Context, adminID uuid.UUID) (domain.AdminUser, error)
}

type SubscriberRepository interface {
	// Subscribe inserts a new subscriber or reactivates a previously
	// deactivated one. It reports whether the email was already actively
	// subscribed.
	Subscribe(ctx context.Context, email string) (alreadyActive bool, err error)
	ListActive(ctx context.Context) ([]domain.Subscriber, error)
	Deactivate(ctx context.Context, email string) error
}
