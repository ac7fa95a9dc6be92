package httpapi

import (
	"net/http"

	"github.com/abellastitches/storefront/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (s *Server) handleListProducts(c *gin.Context) {
	category := c.Query("category")
	if category == "All" {
		category = ""
	}

	products, err := s.products.ListProducts(c.Request.Context(), category)
	if err != nil {
		s.respondError(c, err)
		return
	}

	dtos := make([]productDTO, 0, len(products))
	for _, product := range products {
		dtos = append(dtos, toProductDTO(product))
	}

	c.JSON(http.StatusOK, dtos)
}

func (s *Server) handleProductCategories(c *gin.Context) {
	categories, err := s.products.Categories(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	if categories == nil {
		categories = []string{}
	}
	c.JSON(http.StatusOK, categories)
}

func (s *Server) handleGetProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid product id")
		return
	}

	product, err := s.products.GetProduct(c.Request.Context(), productID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProductDTO(product))
}

type productRequest struct {
	ProductName string  `json:"productName"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
	Description string  `json:"description"`
}

func (s *Server) handleCreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	if req.ProductName == "" || req.Category == "" {
		badRequest(c, "Product name and category are required")
		return
	}
	if req.Price < 0 {
		badRequest(c, "Price cannot be negative")
		return
	}

	product := domain.Product{
		ProductName: req.ProductName,
		Category:    req.Category,
		Price:       domain.NGN(decimal.NewFromFloat(req.Price)),
		ImageURL:    req.ImageURL,
		Description: req.Description,
	}

	productID, err := s.products.InsertProduct(c.Request.Context(), product)
	if err != nil {
		s.respondError(c, err)
		return
	}

	created, err := s.products.GetProduct(c.Request.Context(), productID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toProductDTO(created))
}

func (s *Server) handleUpdateProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid product id")
		return
	}

	existing, err := s.products.GetProduct(c.Request.Context(), productID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	// Absent fields keep their current values, so partial updates from
	// the admin console are safe.
	req := productRequest{
		ProductName: existing.ProductName,
		Category:    existing.Category,
		Price:       existing.Price.Amount.InexactFloat64(),
		ImageURL:    existing.ImageURL,
		Description: existing.Description,
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if req.Price < 0 {
		badRequest(c, "Price cannot be negative")
		return
	}

	existing.ProductName = req.ProductName
	existing.Category = req.Category
	existing.Price = domain.NGN(decimal.NewFromFloat(req.Price))
	existing.ImageURL = req.ImageURL
	existing.Description = req.Description

	updated, err := s.products.UpdateProduct(c.Request.Context(), existing)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProductDTO(updated))
}

func (s *Server) handleDeleteProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid product id")
		return
	}

	if err := s.products.DeleteProduct(c.Request.Context(), productID); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product removed"})
}
