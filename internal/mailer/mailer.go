// Package mailer renders and sends customer notification emails over SMTP.
// All callers treat send failures as log-and-continue: a lost email never
// rolls back an order.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/abellastitches/storefront/internal/domain"
	"github.com/abellastitches/storefront/internal/port"
)

//go:embed templates/*.html
var templateFS embed.FS

var statusMessages = map[domain.OrderStatus]string{
	domain.OrderStatusProcessing: "Your order is being processed and will be shipped soon.",
	domain.OrderStatusShipped:    "Your order has been shipped and is on its way to you!",
	domain.OrderStatusDelivered:  "Your order has been successfully delivered. Enjoy your purchase!",
	domain.OrderStatusCancelled:  "Your order has been cancelled. If you have any questions, please contact us.",
}

// Config is the SMTP transport configuration.
type Config struct {
	Host     string // e.g. smtp.gmail.com
	Port     int    // e.g. 587 (STARTTLS)
	Username string
	Password string
	From     string // e.g. "Abella Stitches <shop@example.com>"
}

// sendFunc matches smtp.SendMail, injectable for tests.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpMailer struct {
	cfg       Config
	templates *template.Template
	send      sendFunc
}

func New(cfg Config) (port.Mailer, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is empty")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		return nil, errors.New("from address is empty")
	}

	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("template.ParseFS: %w", err)
	}

	return &smtpMailer{
		cfg:       cfg,
		templates: templates,
		send:      smtp.SendMail,
	}, nil
}

type itemView struct {
	ProductName string
	Quantity    int
	Price       string
}

type confirmationView struct {
	Name             string
	OrderNumber      string
	OrderDate        string
	Items            []itemView
	TotalAmount      string
	PaymentReference string
}

func (m *smtpMailer) SendOrderConfirmation(ctx context.Context, order domain.Order) error {
	view := confirmationView{
		Name:             recipientName(order.CustomerEmail),
		OrderNumber:      order.OrderNumber(),
		OrderDate:        order.CreatedAt.Format("January 2, 2006"),
		TotalAmount:      order.TotalAmount.Amount.StringFixed(2),
		PaymentReference: order.PaymentReference,
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, itemView{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price.Amount.StringFixed(2),
		})
	}

	subject := "Order Confirmation - " + order.OrderNumber()

	return m.render(ctx, order.CustomerEmail, subject, "order_confirmation.html", view)
}

type statusView struct {
	Name          string
	OrderNumber   string
	StatusMessage string
	NewStatus     string
}

func (m *smtpMailer) SendOrderStatusChange(ctx context.Context, order domain.Order, newStatus domain.OrderStatus) error {
	message, ok := statusMessages[newStatus]
	if !ok {
		message = fmt.Sprintf("Order status updated to %s", newStatus)
	}

	view := statusView{
		Name:          recipientName(order.CustomerEmail),
		OrderNumber:   order.OrderNumber(),
		StatusMessage: message,
		NewStatus:     string(newStatus),
	}

	subject := "Order Update - " + order.OrderNumber()

	return m.render(ctx, order.CustomerEmail, subject, "order_status.html", view)
}

func (m *smtpMailer) render(ctx context.Context, to, subject, templateName string, view any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := m.templates.ExecuteTemplate(&body, templateName, view); err != nil {
		return fmt.Errorf("templates.ExecuteTemplate[%s]: %w", templateName, err)
	}

	msg := buildMessage(m.cfg.From, to, subject, body.Bytes())

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := m.send(addr, auth, envelopeFrom(m.cfg), []string{to}, msg); err != nil {
		return fmt.Errorf("smtp.SendMail: %w", err)
	}

	return nil
}

// envelopeFrom extracts the bare sender address for the SMTP envelope;
// the From header may carry a display name.
func envelopeFrom(cfg Config) string {
	if cfg.Username != "" {
		return cfg.Username
	}

	from := cfg.From
	if start := strings.Index(from, "<"); start >= 0 {
		if end := strings.Index(from[start:], ">"); end > 0 {
			return from[start+1 : start+end]
		}
	}
	return from
}

func buildMessage(from, to, subject string, body []byte) []byte {
	var msg bytes.Buffer

	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.Write(body)

	return msg.Bytes()
}

// recipientName falls back to the local part of the email, matching what
// customers see on the storefront.
func recipientName(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
