// Package httpapi exposes the storefront REST API.
package httpapi

import (
	"errors"
	"log/slog"

	"github.com/abellastitches/storefront/internal/port"
	"github.com/abellastitches/storefront/internal/service"
	"github.com/gin-gonic/gin"
)

// Server wires handlers to the application services and repositories.
type Server struct {
	gateway     port.PaymentGateway
	reconciler  *service.Reconciler
	auth        *service.Auth
	orders      port.OrderRepository
	products    port.ProductRepository
	subscribers port.SubscriberRepository
	mailer      port.Mailer

	webhookSecret string
	production    bool
	corsOrigins   []string
	logger        *slog.Logger
}

type Options struct {
	Gateway     port.PaymentGateway
	Reconciler  *service.Reconciler
	Auth        *service.Auth
	Orders      port.OrderRepository
	Products    port.ProductRepository
	Subscribers port.SubscriberRepository
	Mailer      port.Mailer

	WebhookSecret string
	Production    bool
	CORSOrigins   []string
	Logger        *slog.Logger
}

func NewServer(opts Options) (*Server, error) {
	if opts.Gateway == nil {
		return nil, errors.New("gateway is nil")
	}
	if opts.Reconciler == nil {
		return nil, errors.New("reconciler is nil")
	}
	if opts.Auth == nil {
		return nil, errors.New("auth service is nil")
	}
	if opts.Orders == nil || opts.Products == nil || opts.Subscribers == nil {
		return nil, errors.New("repository is nil")
	}
	if opts.Mailer == nil {
		return nil, errors.New("mailer is nil")
	}
	if opts.WebhookSecret == "" {
		return nil, errors.New("webhook secret is empty")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Server{
		gateway:       opts.Gateway,
		reconciler:    opts.Reconciler,
		auth:          opts.Auth,
		orders:        opts.Orders,
		products:      opts.Products,
		subscribers:   opts.Subscribers,
		mailer:        opts.Mailer,
		webhookSecret: opts.WebhookSecret,
		production:    opts.Production,
		corsOrigins:   opts.CORSOrigins,
		logger:        opts.Logger,
	}, nil
}

// Router builds the Gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	if s.production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger(), s.corsMiddleware())

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Abella Stitches API"})
	})

	payment := router.Group("/payment")
	{
		payment.POST("/initialize", s.handleInitializePayment)
		payment.GET("/verify/:reference", s.handleVerifyPayment)
		payment.POST("/webhook", s.handleWebhook)
	}

	api := router.Group("/api")

	products := api.Group("/products")
	{
		products.GET("", s.handleListProducts)
		products.GET("/categories/unique", s.handleProductCategories)
		products.GET("/:id", s.handleGetProduct)
		products.POST("", s.requireAdmin(), s.handleCreateProduct)
		products.PUT("/:id", s.requireAdmin(), s.handleUpdateProduct)
		products.DELETE("/:id", s.requireAdmin(), s.handleDeleteProduct)
	}

	orders := api.Group("/orders")
	{
		orders.GET("", s.requireAdmin(), s.handleListOrders)
		orders.GET("/stats", s.requireAdmin(), s.handleOrderStats)
		// Customers can view their own order from the post-payment page.
		orders.GET("/:id", s.handleGetOrder)
		orders.PUT("/:id", s.requireAdmin(), s.handleUpdateOrder)
	}

	admin := api.Group("/admin")
	{
		admin.POST("/register", s.handleAdminRegister)
		admin.POST("/login", s.handleAdminLogin)
		admin.POST("/logout", s.handleAdminLogout)
		admin.GET("/me", s.requireAdmin(), s.handleAdminMe)
	}

	newsletter := api.Group("/newsletter")
	{
		newsletter.POST("/subscribe", s.handleSubscribe)
		newsletter.GET("", s.requireAdmin(), s.handleListSubscribers)
		newsletter.DELETE("/:email", s.requireAdmin(), s.handleUnsubscribe)
	}

	return router
}
