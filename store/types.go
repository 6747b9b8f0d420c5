package store

import (
	"time"
)

// User is a registered account.
//
// @DtoSpec {dtoName: UserSummary, exclude: [PasswordHash]}
// @DtoSpec {dtoName: UserName, include: [Name, Surname], includeAnnotations: false}
// @Audited
type User struct {
	ID      int64  `json:"id" db:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	// @field:Sensitive
	Email        *string   `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Product represents an individual item available for sale.
// Price is stored in cents.
//
// @dto.Spec {dtoName: ProductCard, include: [SKU, Name, PriceCents]}
type Product struct {
	ID          int64     `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	Inventory   int       `json:"inventory_count"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

// Order represents a transaction made by a customer.
type Order struct {
	ID         int64       `json:"id"`
	CustomerID int64       `json:"customer_id"`
	Status     OrderStatus `json:"status"`
	TotalCents int64       `json:"total_cents"`
	Items      []OrderItem `json:"items"`
	OrderedAt  time.Time   `json:"ordered_at"`
	note       string      // unexported, never projected
}

// OrderItem is a product line within an order.
type OrderItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// OrderStatus is a custom type for type-safe status handling.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)
