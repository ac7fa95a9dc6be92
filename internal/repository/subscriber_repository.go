package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abellastitches/storefront/internal/domain"
	"github.com/abellastitches/storefront/internal/port"
	"github.com/jackc/pgx/v5/pgxpool"
)

type subscriberRepository struct {
	pool *pgxpool.Pool
}

func NewSubscriber(pool *pgxpool.Pool) port.SubscriberRepository {
	return &subscriberRepository{pool: pool}
}

// Subscribe inserts the email, reactivating a previously deactivated row
// instead of duplicating it. The email's uniqueness is carried by the
// primary key, so concurrent signups collapse onto one row.
func (r *subscriberRepository) Subscribe(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, errors.New("email is empty")
	}
	email = strings.ToLower(email)

	// Reactivation first: flips an inactive row back on.
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE newsletter_subscribers
		 SET active = TRUE, subscribed_at = now()
		 WHERE email = $1 AND NOT active`,
		email,
	)
	if err != nil {
		return false, fmt.Errorf("pool.Exec reactivate: %w", err)
	}
	if cmdTag.RowsAffected() > 0 {
		return false, nil
	}

	cmdTag, err = r.pool.Exec(ctx,
		`INSERT INTO newsletter_subscribers (email)
		 VALUES ($1)
		 ON CONFLICT (email) DO NOTHING`,
		email,
	)
	if err != nil {
		return false, fmt.Errorf("pool.Exec insert: %w", err)
	}

	// Zero rows inserted means the email is already actively subscribed.
	return cmdTag.RowsAffected() == 0, nil
}

func (r *subscriberRepository) ListActive(ctx context.Context) ([]domain.Subscriber, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT email, active, subscribed_at
		 FROM newsletter_subscribers
		 WHERE active
		 ORDER BY subscribed_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var subscribers []domain.Subscriber
	for rows.Next() {
		var s domain.Subscriber
		if err := rows.Scan(&s.Email, &s.Active, &s.SubscribedAt); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		subscribers = append(subscribers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return subscribers, nil
}

func (r *subscriberRepository) Deactivate(ctx context.Context, email string) error {
	if email == "" {
		return errors.New("email is empty")
	}

	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE newsletter_subscribers SET active = FALSE WHERE email = $1`,
		strings.ToLower(email),
	)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("deactivate subscriber: %w", domain.ErrNotFound)
	}

	return nil
}
