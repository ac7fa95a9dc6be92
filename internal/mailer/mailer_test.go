package mailer

import (
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/abellastitches/storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedMail struct {
	addr string
	from string
	to   []string
	msg  []byte
}

func newTestMailer(t *testing.T, sendErr error) (*smtpMailer, *capturedMail) {
	t.Helper()

	m, err := New(Config{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "shop@example.com",
		Password: "app-password",
		From:     "Abella Stitches <shop@example.com>",
	})
	require.NoError(t, err)

	mailer := m.(*smtpMailer)

	captured := &capturedMail{}
	mailer.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		captured.addr = addr
		captured.from = from
		captured.to = to
		captured.msg = msg
		return sendErr
	}

	return mailer, captured
}

func testOrder() domain.Order {
	productID := "p1"

	return domain.Order{
		ID:            uuid.MustParse("70e2f1f4-842f-4fab-9f8e-3f42c1b2a9de"),
		CustomerEmail: "buyer@example.com",
		Items: []domain.OrderItem{
			{
				ProductID:   &productID,
				ProductName: "Classic Adire Indigo Dress",
				Price:       domain.NGN(decimal.NewFromInt(45000)),
				Quantity:    1,
			},
		},
		TotalAmount:      domain.NGN(decimal.NewFromInt(45000)),
		PaymentReference: "ref-1",
		CreatedAt:        time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC),
	}
}

func TestSendOrderConfirmation(t *testing.T) {
	mailer, captured := newTestMailer(t, nil)

	order := testOrder()

	require.NoError(t, mailer.SendOrderConfirmation(t.Context(), order))

	assert.Equal(t, "smtp.example.com:587", captured.addr)
	assert.Equal(t, "shop@example.com", captured.from)
	assert.Equal(t, []string{"buyer@example.com"}, captured.to)

	msg := string(captured.msg)
	assert.Contains(t, msg, "Subject: Order Confirmation - ORD-C1B2A9DE")
	assert.Contains(t, msg, "Content-Type: text/html")
	assert.Contains(t, msg, "Classic Adire Indigo Dress")
	assert.Contains(t, msg, "45000.00")
	assert.Contains(t, msg, "ref-1")
	assert.Contains(t, msg, "March 14, 2026")
	// The greeting uses the email's local part.
	assert.Contains(t, msg, "buyer")
}

func TestSendOrderStatusChange(t *testing.T) {
	mailer, captured := newTestMailer(t, nil)

	order := testOrder()

	require.NoError(t, mailer.SendOrderStatusChange(t.Context(), order, domain.OrderStatusShipped))

	msg := string(captured.msg)
	assert.Contains(t, msg, "Subject: Order Update - ORD-C1B2A9DE")
	assert.Contains(t, msg, "Your order has been shipped and is on its way to you!")
	assert.Contains(t, msg, "shipped")
}

func TestSendOrderConfirmation_TransportError(t *testing.T) {
	mailer, _ := newTestMailer(t, errors.New("connection refused"))

	err := mailer.SendOrderConfirmation(t.Context(), testOrder())
	require.ErrorContains(t, err, "connection refused")
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{From: "shop@example.com"})
	require.ErrorContains(t, err, "smtp host is empty")

	_, err = New(Config{Host: "smtp.example.com"})
	require.ErrorContains(t, err, "from address is empty")
}

func TestEnvelopeFrom(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "username wins",
			cfg:  Config{Username: "shop@example.com", From: "Abella <other@example.com>"},
			want: "shop@example.com",
		},
		{
			name: "display name stripped",
			cfg:  Config{From: "Abella Stitches <shop@example.com>"},
			want: "shop@example.com",
		},
		{
			name: "bare address",
			cfg:  Config{From: "shop@example.com"},
			want: "shop@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, envelopeFrom(tt.cfg))
		})
	}
}
