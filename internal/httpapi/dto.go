package httpapi

import (
	"time"

	"github.com/abellastitches/storefront/internal/domain"
)

// Amounts are serialized as major-unit numbers, matching what the
// storefront frontend displays.

type orderItemDTO struct {
	ProductID   *string `json:"productId"`
	ProductName string  `json:"productName"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

type orderDTO struct {
	ID               string         `json:"id"`
	OrderNumber      string         `json:"orderNumber"`
	CustomerEmail    string         `json:"customerEmail"`
	Items            []orderItemDTO `json:"items"`
	TotalAmount      float64        `json:"totalAmount"`
	PaymentReference string         `json:"paymentReference"`
	PaymentStatus    string         `json:"paymentStatus"`
	PaymentGateway   string         `json:"paymentGateway"`
	OrderStatus      string         `json:"orderStatus"`
	OrderNotes       string         `json:"orderNotes,omitempty"`
	TrackingNumber   string         `json:"trackingNumber,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

func toOrderDTO(order domain.Order) orderDTO {
	dto := orderDTO{
		ID:               order.ID.String(),
		OrderNumber:      order.OrderNumber(),
		CustomerEmail:    order.CustomerEmail,
		Items:            []orderItemDTO{},
		TotalAmount:      order.TotalAmount.Amount.InexactFloat64(),
		PaymentReference: order.PaymentReference,
		PaymentStatus:    string(order.PaymentStatus),
		PaymentGateway:   order.PaymentGateway,
		OrderStatus:      string(order.Status),
		OrderNotes:       order.OrderNotes,
		TrackingNumber:   order.TrackingNumber,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}

	for _, item := range order.Items {
		dto.Items = append(dto.Items, orderItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Category:    item.Category,
			Price:       item.Price.Amount.InexactFloat64(),
			Quantity:    item.Quantity,
			ImageURL:    item.ImageURL,
		})
	}

	return dto
}

type productDTO struct {
	ID          string    `json:"id"`
	ProductName string    `json:"productName"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"imageUrl"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toProductDTO(product domain.Product) productDTO {
	return productDTO{
		ID:          product.ID.String(),
		ProductName: product.ProductName,
		Category:    product.Category,
		Price:       product.Price.Amount.InexactFloat64(),
		ImageURL:    product.ImageURL,
		Description: product.Description,
		CreatedAt:   product.CreatedAt,
	}
}

type adminDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toAdminDTO(admin domain.AdminUser) adminDTO {
	return adminDTO{
		ID:    admin.ID.String(),
		Name:  admin.Name,
		Email: admin.Email,
		Role:  admin.Role,
	}
}

type subscriberDTO struct {
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

func toSubscriberDTO(subscriber domain.Subscriber) subscriberDTO {
	return subscriberDTO{
		Email:        subscriber.Email,
		SubscribedAt: subscriber.SubscribedAt,
	}
}
