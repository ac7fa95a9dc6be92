package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type subscribeRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleSubscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailPattern.MatchString(email) {
		badRequest(c, "Please provide a valid email address")
		return
	}

	alreadyActive, err := s.subscribers.Subscribe(c.Request.Context(), email)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if alreadyActive {
		badRequest(c, "Email is already subscribed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Successfully subscribed to the newsletter"})
}

func (s *Server) handleListSubscribers(c *gin.Context) {
	subscribers, err := s.subscribers.ListActive(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	dtos := make([]subscriberDTO, 0, len(subscribers))
	for _, subscriber := range subscribers {
		dtos = append(dtos, toSubscriberDTO(subscriber))
	}

	c.JSON(http.StatusOK, dtos)
}

func (s *Server) handleUnsubscribe(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.Param("email")))
	if email == "" {
		badRequest(c, "Email is required")
		return
	}

	if err := s.subscribers.Deactivate(c.Request.Context(), email); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unsubscribed"})
}
