package httpapi

import (
	"io"
	"net/http"
	"regexp"

	"github.com/abellastitches/storefront/internal/domain"
	"github.com/abellastitches/storefront/internal/paystack"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

const maxWebhookBody = 1 << 20

type initializePaymentRequest struct {
	Email       string  `json:"email"`
	Amount      float64 `json:"amount"` // major units
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
}

func (s *Server) handleInitializePayment(c *gin.Context) {
	var req initializePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	if !emailPattern.MatchString(req.Email) {
		badRequest(c, "A valid email is required")
		return
	}
	if req.Amount <= 0 {
		badRequest(c, "Amount must be positive")
		return
	}
	if req.ProductID == "" || req.ProductName == "" {
		badRequest(c, "Missing required fields")
		return
	}

	amount := domain.NGN(decimal.NewFromFloat(req.Amount))
	if _, err := amount.MinorUnits(); err != nil {
		badRequest(c, "Amount cannot be more precise than kobo")
		return
	}

	auth, err := s.gateway.Initialize(c.Request.Context(), req.Email, amount, req.ProductID, req.ProductName)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": true,
		"data": gin.H{
			"authorizationUrl": auth.AuthorizationURL,
			"accessCode":       auth.AccessCode,
			"reference":        auth.Reference,
		},
	})
}

func (s *Server) handleVerifyPayment(c *gin.Context) {
	reference := c.Param("reference")
	if reference == "" {
		badRequest(c, "Reference is required")
		return
	}

	result, err := s.reconciler.Reconcile(c.Request.Context(), reference)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if !result.Verified {
		c.JSON(http.StatusOK, gin.H{
			"status":  false,
			"message": "Payment not successful",
			"data": gin.H{
				"reference": reference,
				"status":    result.RawStatus,
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": true,
		"data": gin.H{
			"reference":    result.Order.PaymentReference,
			"amount":       result.Order.TotalAmount.Amount.InexactFloat64(),
			"status":       result.RawStatus,
			"orderCreated": result.OrderCreated,
			"order":        toOrderDTO(result.Order),
		},
	})
}

// handleWebhook is the provider-initiated reconciliation trigger. The
// signature check is a security boundary: a mismatch rejects the request
// before any payload inspection or state change.
func (s *Server) handleWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		badRequest(c, "Unreadable body")
		return
	}

	signature := c.GetHeader(paystack.SignatureHeader)
	if !paystack.VerifySignature(s.webhookSecret, body, signature) {
		s.logger.Warn("webhook signature mismatch")
		badRequest(c, "Invalid signature")
		return
	}

	event, err := paystack.ParseWebhookEvent(body)
	if err != nil {
		badRequest(c, "Malformed event")
		return
	}

	if event.Event != paystack.EventChargeSuccess {
		// Unrecognized event types are acknowledged and ignored.
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if event.Data.Reference == "" {
		badRequest(c, "Missing reference")
		return
	}

	// Duplicate deliveries are harmless: reconciliation is idempotent
	// by reference.
	result, err := s.reconciler.Reconcile(c.Request.Context(), event.Data.Reference)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"received":     true,
		"orderCreated": result.OrderCreated,
	})
}
