package httpapi

import (
	"errors"
	"net/http"

	"github.com/abellastitches/storefront/internal/domain"
	"github.com/abellastitches/storefront/internal/service"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleAdminRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		badRequest(c, "Name, email and password are required")
		return
	}
	if !emailPattern.MatchString(req.Email) {
		badRequest(c, "Invalid email address")
		return
	}
	if len(req.Password) < 6 {
		badRequest(c, "Password must be at least 6 characters")
		return
	}

	admin, token, err := s.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			badRequest(c, "Email already registered")
			return
		}
		s.respondError(c, err)
		return
	}

	s.setSessionCookie(c, token)
	c.JSON(http.StatusCreated, toAdminDTO(admin))
}

func (s *Server) handleAdminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		badRequest(c, "Email and password are required")
		return
	}

	admin, token, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}
		s.respondError(c, err)
		return
	}

	s.setSessionCookie(c, token)
	c.JSON(http.StatusOK, toAdminDTO(admin))
}

func (s *Server) handleAdminLogout(c *gin.Context) {
	s.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (s *Server) handleAdminMe(c *gin.Context) {
	admin, ok := c.Get(adminContextKey)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
		return
	}

	c.JSON(http.StatusOK, toAdminDTO(admin.(domain.AdminUser)))
}

func (s *Server) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(sessionCookie, token, int(s.auth.SessionTTL().Seconds()), "/", "", s.production, true)
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", s.production, true)
}
