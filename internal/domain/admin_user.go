package domain

import (
	"time"

	"github.com/google/uuid"
)

const RoleAdmin = "admin"

// AdminUser is a console account. PasswordHash is a bcrypt digest and never
// leaves the repository layer in API responses.
type AdminUser struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         string

	CreatedAt time.Time
}
