package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abellastitches/storefront/internal/domain"
	"github.com/abellastitches/storefront/internal/port"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 7 * 24 * time.Hour

// ErrInvalidCredentials is returned for both unknown emails and wrong
// passwords, so login failures do not reveal which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidSession covers missing, malformed, expired and wrongly signed
// session tokens.
var ErrInvalidSession = errors.New("invalid session")

type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Auth registers and authenticates admin console users. Sessions are HS256
// JWTs carried in an httpOnly cookie by the HTTP layer.
type Auth struct {
	admins    port.AdminUserRepository
	jwtSecret []byte
}

func NewAuth(admins port.AdminUserRepository, jwtSecret []byte) (*Auth, error) {
	if admins == nil {
		return nil, errors.New("admin repository is nil")
	}
	if len(jwtSecret) == 0 {
		return nil, errors.New("jwt secret is empty")
	}

	return &Auth{admins: admins, jwtSecret: jwtSecret}, nil
}

// SessionTTL is the lifetime of issued tokens, exposed so the HTTP layer
// can align the cookie max-age.
func (a *Auth) SessionTTL() time.Duration { return sessionTTL }

func (a *Auth) Register(ctx context.Context, name, email, password string) (domain.AdminUser, string, error) {
	var zero domain.AdminUser

	if name == "" || email == "" || password == "" {
		return zero, "", errors.New("name, email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return zero, "", fmt.Errorf("bcrypt.GenerateFromPassword: %w", err)
	}

	admin := domain.AdminUser{
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}

	adminID, err := a.admins.InsertAdminUser(ctx, admin)
	if err != nil {
		return zero, "", fmt.Errorf("admins.InsertAdminUser: %w", err)
	}

	created, err := a.admins.GetAdminUser(ctx, adminID)
	if err != nil {
		return zero, "", fmt.Errorf("admins.GetAdminUser: %w", err)
	}

	token, err := a.issueToken(created)
	if err != nil {
		return zero, "", fmt.Errorf("a.issueToken: %w", err)
	}

	return created, token, nil
}

func (a *Auth) Login(ctx context.Context, email, password string) (domain.AdminUser, string, error) {
	var zero domain.AdminUser

	admin, err := a.admins.GetAdminUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return zero, "", ErrInvalidCredentials
		}
		return zero, "", fmt.Errorf("admins.GetAdminUserByEmail: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return zero, "", ErrInvalidCredentials
	}

	token, err := a.issueToken(admin)
	if err != nil {
		return zero, "", fmt.Errorf("a.issueToken: %w", err)
	}

	return admin, token, nil
}

// VerifySession validates a session token and loads the admin it belongs
// to, so revoked accounts are rejected even with a valid token.
func (a *Auth) VerifySession(ctx context.Context, token string) (domain.AdminUser, error) {
	var zero domain.AdminUser

	if token == "" {
		return zero, ErrInvalidSession
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return zero, ErrInvalidSession
	}

	adminID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return zero, ErrInvalidSession
	}

	admin, err := a.admins.GetAdminUser(ctx, adminID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return zero, ErrInvalidSession
		}
		return zero, fmt.Errorf("admins.GetAdminUser: %w", err)
	}

	return admin, nil
}

func (a *Auth) issueToken(admin domain.AdminUser) (string, error) {
	now := time.Now()

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
		Email: admin.Email,
		Role:  admin.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(a.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("token.SignedString: %w", err)
	}

	return signed, nil
}
