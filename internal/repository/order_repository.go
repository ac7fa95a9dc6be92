package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abellastitches/storefront/internal/domain"
	"github.com/abellastitches/storefront/internal/port"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const uniqueViolationCode = "23505"

type orderRepository struct {
	pool *pgxpool.Pool
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{pool: pool}
}

const orderColumns = `id, customer_email, total_amount, total_currency,
	payment_reference, payment_status, payment_gateway,
	order_status, order_notes, tracking_number, created_at, updated_at`

func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error) {
	if len(order.Items) == 0 {
		return uuid.Nil, errors.New("no items in order")
	}
	if order.PaymentReference == "" {
		return uuid.Nil, errors.New("payment reference is empty")
	}

	orderID, err := withTx(ctx, r.pool, func(tx pgx.Tx) (uuid.UUID, error) {
		var orderID uuid.UUID

		err := tx.QueryRow(ctx,
			`INSERT INTO orders (customer_email, total_amount, total_currency,
				payment_reference, payment_status, payment_gateway,
				order_status, order_notes, tracking_number)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 RETURNING id`,
			strings.ToLower(order.CustomerEmail),
			order.TotalAmount.Amount,
			order.TotalAmount.Currency.String(),
			order.PaymentReference,
			string(order.PaymentStatus),
			order.PaymentGateway,
			string(order.Status),
			order.OrderNotes,
			order.TrackingNumber,
		).Scan(&orderID)
		if err != nil {
			if isUniqueViolation(err, "orders_payment_reference_key") {
				return uuid.Nil, fmt.Errorf("insert order: %w", domain.ErrDuplicateReference)
			}
			return uuid.Nil, fmt.Errorf("insert order: %w", err)
		}

		for _, item := range order.Items {
			_, err := tx.Exec(ctx,
				`INSERT INTO order_items (order_id, product_id, product_name,
					category, price_amount, price_currency, quantity, image_url)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				orderID,
				item.ProductID,
				item.ProductName,
				item.Category,
				item.Price.Amount,
				item.Price.Currency.String(),
				item.Quantity,
				item.ImageURL,
			)
			if err != nil {
				return uuid.Nil, fmt.Errorf("insert order item: %w", err)
			}
		}

		return orderID, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("withTx: %w", err)
	}

	return orderID, nil
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	if orderID == uuid.Nil {
		return o, errors.New("orderID is empty")
	}

	row := r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return o, fmt.Errorf("scanOrder: %w", domain.ErrNotFound)
		}
		return o, fmt.Errorf("scanOrder: %w", err)
	}

	order.Items, err = r.orderItems(ctx, order.ID)
	if err != nil {
		return o, fmt.Errorf("r.orderItems: %w", err)
	}

	return order, nil
}

func (r *orderRepository) GetOrderByReference(ctx context.Context, reference string) (domain.Order, error) {
	var o domain.Order

	if reference == "" {
		return o, errors.New("reference is empty")
	}

	row := r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE payment_reference = $1`, reference)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return o, fmt.Errorf("scanOrder: %w", domain.ErrNotFound)
		}
		return o, fmt.Errorf("scanOrder: %w", err)
	}

	order.Items, err = r.orderItems(ctx, order.ID)
	if err != nil {
		return o, fmt.Errorf("r.orderItems: %w", err)
	}

	return order, nil
}

func (r *orderRepository) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}
	filter = filter.Normalized()

	var statuses []string
	for _, status := range filter.Statuses {
		statuses = append(statuses, string(status))
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE ($1::text[] IS NULL OR order_status = ANY($1))
		   AND ($2::text[] IS NULL OR customer_email = ANY($2))
		 ORDER BY created_at DESC
		 LIMIT $3`,
		nilSliceIfEmpty(statuses),
		nilSliceIfEmpty(filter.CustomerEmails),
		filter.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var (
		orders  []domain.Order
		indexOf = make(map[uuid.UUID]int)
	)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanOrder: %w", err)
		}
		indexOf[order.ID] = len(orders)
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	if len(orders) == 0 {
		return nil, nil
	}

	orderIDs := make([]uuid.UUID, 0, len(orders))
	for _, order := range orders {
		orderIDs = append(orderIDs, order.ID)
	}

	itemRows, err := r.pool.Query(ctx,
		`SELECT order_id, product_id, product_name, category,
			price_amount, price_currency, quantity, image_url, created_at
		 FROM order_items
		 WHERE order_id = ANY($1)
		 ORDER BY id`,
		orderIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("pool.Query items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var orderID uuid.UUID
		item, err := scanOrderItem(itemRows, &orderID)
		if err != nil {
			return nil, fmt.Errorf("scanOrderItem: %w", err)
		}

		idx, ok := indexOf[orderID]
		if !ok {
			continue
		}
		orders[idx].Items = append(orders[idx].Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("itemRows.Err: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) UpdateOrder(ctx context.Context, orderID uuid.UUID, update domain.OrderUpdate) (domain.Order, error) {
	var o domain.Order

	if orderID == uuid.Nil {
		return o, errors.New("orderID is empty")
	}

	if update.Status != nil {
		if _, err := domain.ToOrderStatus(string(*update.Status)); err != nil {
			return o, fmt.Errorf("domain.ToOrderStatus[%s]: %w", *update.Status, err)
		}
	}

	var status *string
	if update.Status != nil {
		s := string(*update.Status)
		status = &s
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE orders SET
			order_status    = COALESCE($2, order_status),
			order_notes     = COALESCE($3, order_notes),
			tracking_number = COALESCE($4, tracking_number),
			updated_at      = now()
		 WHERE id = $1
		 RETURNING `+orderColumns,
		orderID, status, update.OrderNotes, update.TrackingNumber,
	)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return o, fmt.Errorf("scanOrder: %w", domain.ErrNotFound)
		}
		return o, fmt.Errorf("scanOrder: %w", err)
	}

	order.Items, err = r.orderItems(ctx, order.ID)
	if err != nil {
		return o, fmt.Errorf("r.orderItems: %w", err)
	}

	return order, nil
}

func (r *orderRepository) OrderStats(ctx context.Context) (domain.OrderStats, error) {
	var (
		stats   domain.OrderStats
		revenue decimal.Decimal
	)

	err := r.pool.QueryRow(ctx,
		`SELECT
			count(*),
			count(*) FILTER (WHERE order_status = 'pending'),
			count(*) FILTER (WHERE order_status = 'processing'),
			count(*) FILTER (WHERE order_status = 'shipped'),
			count(*) FILTER (WHERE order_status = 'delivered'),
			COALESCE(sum(total_amount) FILTER (WHERE payment_status = 'successful'), 0)
		 FROM orders`,
	).Scan(
		&stats.TotalOrders,
		&stats.PendingOrders,
		&stats.ProcessingOrders,
		&stats.ShippedOrders,
		&stats.DeliveredOrders,
		&revenue,
	)
	if err != nil {
		return domain.OrderStats{}, fmt.Errorf("pool.QueryRow: %w", err)
	}

	stats.TotalRevenue = domain.NGN(revenue)
	return stats, nil
}

func (r *orderRepository) orderItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT order_id, product_id, product_name, category,
			price_amount, price_currency, quantity, image_url, created_at
		 FROM order_items
		 WHERE order_id = $1
		 ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var id uuid.UUID
		item, err := scanOrderItem(rows, &id)
		if err != nil {
			return nil, fmt.Errorf("scanOrderItem: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return items, nil
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o                          domain.Order
		totalAmount                decimal.Decimal
		totalCurrency              string
		paymentStatus, orderStatus string
		createdAt, updatedAt       time.Time
	)

	err := row.Scan(
		&o.ID, &o.CustomerEmail, &totalAmount, &totalCurrency,
		&o.PaymentReference, &paymentStatus, &o.PaymentGateway,
		&orderStatus, &o.OrderNotes, &o.TrackingNumber,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return o, err
	}

	total, err := mapMoney(totalAmount, totalCurrency)
	if err != nil {
		return o, fmt.Errorf("mapMoney: %w", err)
	}
	o.TotalAmount = total

	o.PaymentStatus, err = domain.ToPaymentStatus(paymentStatus)
	if err != nil {
		return o, fmt.Errorf("domain.ToPaymentStatus[%s]: %w", paymentStatus, err)
	}

	o.Status, err = domain.ToOrderStatus(orderStatus)
	if err != nil {
		return o, fmt.Errorf("domain.ToOrderStatus[%s]: %w", orderStatus, err)
	}

	o.CreatedAt = createdAt
	o.UpdatedAt = updatedAt

	return o, nil
}

func scanOrderItem(row pgx.Row, orderID *uuid.UUID) (domain.OrderItem, error) {
	var (
		item          domain.OrderItem
		priceAmount   decimal.Decimal
		priceCurrency string
	)

	err := row.Scan(
		orderID, &item.ProductID, &item.ProductName, &item.Category,
		&priceAmount, &priceCurrency, &item.Quantity, &item.ImageURL,
		&item.CreatedAt,
	)
	if err != nil {
		return item, err
	}

	item.Price, err = mapMoney(priceAmount, priceCurrency)
	if err != nil {
		return item, fmt.Errorf("mapMoney: %w", err)
	}

	return item, nil
}

func mapMoney(amount decimal.Decimal, currencyCode string) (domain.Money, error) {
	parsedCurrency, err := currency.ParseISO(currencyCode)
	if err != nil {
		return domain.Money{}, fmt.Errorf("currency[%s] is not valid: %w", currencyCode, err)
	}

	return domain.Money{Amount: amount, Currency: parsedCurrency}, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == uniqueViolationCode &&
		pgErr.ConstraintName == constraint
}

func nilSliceIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
