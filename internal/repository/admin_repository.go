package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abellastitches/storefront/internal/domain"
	"github.com/abellastitches/storefront/internal/port"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type adminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminUser(pool *pgxpool.Pool) port.AdminUserRepository {
	return &adminRepository{pool: pool}
}

const adminColumns = `id, name, email, password_hash, role, created_at`

func (r *adminRepository) InsertAdminUser(ctx context.Context, admin domain.AdminUser) (uuid.UUID, error) {
	if admin.Email == "" {
		return uuid.Nil, errors.New("email is empty")
	}
	if admin.PasswordHash == "" {
		return uuid.Nil, errors.New("password hash is empty")
	}

	role := admin.Role
	if role == "" {
		role = domain.RoleAdmin
	}

	var adminID uuid.UUID

	err := r.pool.QueryRow(ctx,
		`INSERT INTO admin_users (name, email, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		admin.Name,
		strings.ToLower(admin.Email),
		admin.PasswordHash,
		role,
	).Scan(&adminID)
	if err != nil {
		if isUniqueViolation(err, "admin_users_email_key") {
			return uuid.Nil, fmt.Errorf("insert admin user: %w", domain.ErrDuplicateEmail)
		}
		return uuid.Nil, fmt.Errorf("insert admin user: %w", err)
	}

	return adminID, nil
}

func (r *adminRepository) GetAdminUserByEmail(ctx context.Context, email string) (domain.AdminUser, error) {
	var a domain.AdminUser

	if email == "" {
		return a, errors.New("email is empty")
	}

	err := r.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admin_users WHERE email = $1`,
		strings.ToLower(email),
	).Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return a, fmt.Errorf("get admin user: %w", domain.ErrNotFound)
		}
		return a, fmt.Errorf("pool.QueryRow: %w", err)
	}

	return a, nil
}

func (r *adminRepository) GetAdminUser(ctx context.Context, adminID uuid.UUID) (domain.AdminUser, error) {
	var a domain.AdminUser

	if adminID == uuid.Nil {
		return a, errors.New("adminID is empty")
	}

	err := r.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admin_users WHERE id = $1`, adminID,
	).Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return a, fmt.Errorf("get admin user: %w", domain.ErrNotFound)
		}
		return a, fmt.Errorf("pool.QueryRow: %w", err)
	}

	return a, nil
}
