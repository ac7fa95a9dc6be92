package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/abellastitches/storefront/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const statusNotifyTimeout = 30 * time.Second

func (s *Server) handleListOrders(c *gin.Context) {
	filter := domain.OrderFilter{}

	if status := c.Query("status"); status != "" && status != "all" {
		parsed, err := domain.ToOrderStatus(status)
		if err != nil {
			badRequest(c, "Invalid order status")
			return
		}
		filter.Statuses = []domain.OrderStatus{parsed}
	}

	if email := c.Query("email"); email != "" {
		filter.CustomerEmails = []string{email}
	}

	if limit := c.Query("limit"); limit != "" {
		parsed, err := strconv.Atoi(limit)
		if err != nil || parsed < 0 {
			badRequest(c, "Invalid limit")
			return
		}
		filter.Limit = parsed
	}

	orders, err := s.orders.SearchOrders(c.Request.Context(), filter)
	if err != nil {
		s.respondError(c, err)
		return
	}

	dtos := make([]orderDTO, 0, len(orders))
	for _, order := range orders {
		dtos = append(dtos, toOrderDTO(order))
	}

	c.JSON(http.StatusOK, dtos)
}

func (s *Server) handleOrderStats(c *gin.Context) {
	stats, err := s.orders.OrderStats(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalOrders":      stats.TotalOrders,
		"pendingOrders":    stats.PendingOrders,
		"processingOrders": stats.ProcessingOrders,
		"shippedOrders":    stats.ShippedOrders,
		"deliveredOrders":  stats.DeliveredOrders,
		"totalRevenue":     stats.TotalRevenue.Amount.InexactFloat64(),
	})
}

func (s *Server) handleGetOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid order id")
		return
	}

	order, err := s.orders.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderDTO(order))
}

type orderUpdateRequest struct {
	Status         *string `json:"status"`
	OrderNotes     *string `json:"orderNotes"`
	TrackingNumber *string `json:"trackingNumber"`
}

func (s *Server) handleUpdateOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid order id")
		return
	}

	var req orderUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if req.Status == nil && req.OrderNotes == nil && req.TrackingNumber == nil {
		badRequest(c, "Nothing to update")
		return
	}

	update := domain.OrderUpdate{
		OrderNotes:     req.OrderNotes,
		TrackingNumber: req.TrackingNumber,
	}

	var previousStatus domain.OrderStatus
	if req.Status != nil {
		parsed, err := domain.ToOrderStatus(strings.ToLower(*req.Status))
		if err != nil {
			badRequest(c, "Invalid order status")
			return
		}
		update.Status = &parsed

		existing, err := s.orders.GetOrder(c.Request.Context(), orderID)
		if err != nil {
			s.respondError(c, err)
			return
		}
		previousStatus = existing.Status
	}

	updated, err := s.orders.UpdateOrder(c.Request.Context(), orderID, update)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if update.Status != nil && *update.Status != previousStatus {
		s.notifyStatusChange(c.Request.Context(), updated, *update.Status)
	}

	c.JSON(http.StatusOK, toOrderDTO(updated))
}

// notifyStatusChange emails the customer about the new status without
// blocking or failing the update. Detached from the request context so the
// send survives the response being written.
func (s *Server) notifyStatusChange(ctx context.Context, order domain.Order, newStatus domain.OrderStatus) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statusNotifyTimeout)

	go func() {
		defer cancel()
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("status change email panicked",
					"order", order.OrderNumber(), "panic", rec)
			}
		}()

		if err := s.mailer.SendOrderStatusChange(sendCtx, order, newStatus); err != nil {
			s.logger.Error("status change email failed",
				"order", order.OrderNumber(),
				"status", newStatus,
				"error", err)
		}
	}()
}
