package httpapi

import (
	"errors"
	"net/http"

	"github.com/abellastitches/storefront/internal/domain"
	"github.com/abellastitches/storefront/internal/paystack"
	"github.com/gin-gonic/gin"
)

// respondError maps domain and gateway errors onto the API's error
// taxonomy. Unexpected errors are logged with detail and surfaced as a
// generic 500.
func (s *Server) respondError(c *gin.Context, err error) {
	var gatewayErr *paystack.GatewayError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	case errors.As(err, &gatewayErr):
		s.logger.Error("payment gateway failure",
			"path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"message": "Payment gateway unavailable"})
	default:
		s.logger.Error("internal error",
			"path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message})
}
