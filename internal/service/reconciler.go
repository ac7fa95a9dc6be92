// Package service holds the storefront's application services: payment
// reconciliation and admin authentication.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abellastitches/storefront/internal/domain"
	"github.com/abellastitches/storefront/internal/port"
)

const (
	defaultGatewayName = "paystack"

	// genericItemName labels the fallback line when the gateway reports
	// no usable product metadata.
	genericItemName = "Order"

	notifyTimeout = 30 * time.Second
)

// ReconcileResult is the public summary of one verification attempt.
type ReconcileResult struct {
	Verified     bool
	OrderCreated bool
	RawStatus    string
	Order        domain.Order
}

// Reconciler turns a verified gateway transaction into at most one
// persisted order, regardless of how many times verification is triggered.
// User redirects, webhook retries and manual re-checks all race on the same
// reference; the store's unique constraint arbitrates.
type Reconciler struct {
	gateway port.PaymentGateway
	orders  port.OrderRepository
	mailer  port.Mailer
	logger  *slog.Logger
}

func NewReconciler(gateway port.PaymentGateway, orders port.OrderRepository, mailer port.Mailer, logger *slog.Logger) (*Reconciler, error) {
	if gateway == nil {
		return nil, errors.New("gateway is nil")
	}
	if orders == nil {
		return nil, errors.New("order repository is nil")
	}
	if mailer == nil {
		return nil, errors.New("mailer is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		gateway: gateway,
		orders:  orders,
		mailer:  mailer,
		logger:  logger,
	}, nil
}

// Reconcile verifies the reference with the gateway and guarantees exactly
// one order exists for it afterwards. Safe to call any number of times:
// repeat calls return the existing order with OrderCreated=false.
func (r *Reconciler) Reconcile(ctx context.Context, reference string) (ReconcileResult, error) {
	var res ReconcileResult

	if reference == "" {
		return res, errors.New("reference is empty")
	}

	tx, err := r.gateway.Verify(ctx, reference)
	if err != nil {
		return res, fmt.Errorf("gateway.Verify: %w", err)
	}

	res.RawStatus = tx.RawStatus

	if !tx.Success {
		return res, nil
	}
	res.Verified = true

	existing, err := r.orders.GetOrderByReference(ctx, reference)
	if err == nil {
		res.Order = existing
		return res, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return res, fmt.Errorf("orders.GetOrderByReference: %w", err)
	}

	order := buildOrder(tx)

	orderID, err := r.orders.InsertOrder(ctx, order)
	if err != nil {
		// Lost the creation race: another verification call inserted the
		// order between our lookup and our write. Same semantics as
		// "already existed".
		if errors.Is(err, domain.ErrDuplicateReference) {
			winner, getErr := r.orders.GetOrderByReference(ctx, reference)
			if getErr != nil {
				return res, fmt.Errorf("orders.GetOrderByReference after duplicate: %w", getErr)
			}
			res.Order = winner
			return res, nil
		}
		return res, fmt.Errorf("orders.InsertOrder: %w", err)
	}

	created, err := r.orders.GetOrder(ctx, orderID)
	if err != nil {
		return res, fmt.Errorf("orders.GetOrder: %w", err)
	}

	res.OrderCreated = true
	res.Order = created

	// Best-effort confirmation mail; the HTTP-visible outcome never waits
	// on the mail transport and never changes if it fails.
	r.notifyConfirmation(ctx, created)

	return res, nil
}

func (r *Reconciler) notifyConfirmation(ctx context.Context, order domain.Order) {
	// Detached from the request context so an early client disconnect
	// does not cancel the send.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)

	go func() {
		defer cancel()
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("order confirmation panicked",
					"reference", order.PaymentReference, "panic", rec)
			}
		}()

		if err := r.mailer.SendOrderConfirmation(sendCtx, order); err != nil {
			r.logger.Error("order confirmation failed",
				"reference", order.PaymentReference,
				"order", order.OrderNumber(),
				"error", err)
			return
		}

		r.logger.Info("order confirmation sent",
			"reference", order.PaymentReference,
			"order", order.OrderNumber())
	}()
}

// buildOrder derives the persisted order from the verified transaction.
// The gateway settles one aggregate amount per transaction, not itemized
// pricing, so the line's unit price is the verified total.
func buildOrder(tx domain.VerifiedTransaction) domain.Order {
	item := domain.OrderItem{
		ProductName: genericItemName,
		Price:       tx.Amount,
		Quantity:    1,
	}

	if tx.Metadata.Kind == domain.MetadataProduct {
		item.ProductName = tx.Metadata.ProductName
		if tx.Metadata.ProductID != domain.CartCheckoutProductID {
			productID := tx.Metadata.ProductID
			item.ProductID = &productID
		}
	}

	return domain.Order{
		CustomerEmail:    tx.CustomerEmail,
		Items:            []domain.OrderItem{item},
		TotalAmount:      tx.Amount,
		PaymentReference: tx.Reference,
		PaymentStatus:    domain.PaymentStatusSuccessful,
		PaymentGateway:   defaultGatewayName,
		Status:           domain.OrderStatusPending,
	}
}
