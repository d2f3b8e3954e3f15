/*
Package model holds the wire and client-state data models shared by the
stores, the REST service layer, and the dev server.
*/
package model

import (
	"time"
)

// Envelope is the response envelope used by the backend: the payload always
// travels under "data", failures under "message".
type Envelope[T any] struct {
	Success bool   `json:"success,omitempty"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// Page is the page object returned by list endpoints.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Last          bool  `json:"last"`
}

// Pagination is the client-side pagination slice derived from a Page.
type Pagination struct {
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	IsLast        bool  `json:"isLast"`
}

// Sort field/direction pair.
type Sort struct {
	By        string `json:"by"`        // name, price, id
	Direction string `json:"direction"` // asc, desc
}

// Category Product category
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProductImage Product image
type ProductImage struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
}

// Product Catalog product
type Product struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Price         float64        `json:"price"`
	ImageURL      string         `json:"imageUrl"`
	Category      *Category      `json:"category,omitempty"`
	InStock       bool           `json:"inStock"`
	StockQuantity int            `json:"stockQuantity"`
	Rating        float64        `json:"rating"`
	Images        []ProductImage `json:"images,omitempty"`
	CreatedAt     time.Time      `json:"createdAt,omitempty"`
	UpdatedAt     time.Time      `json:"updatedAt,omitempty"`
}

// CartEntry is the cart line item as the backend serializes it.
type CartEntry struct {
	ID           string  `json:"id"`
	ProductID    string  `json:"productId"`
	ProductName  string  `json:"productName"`
	ProductImage string  `json:"productImage,omitempty"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
}

// CartSnapshot is the backend's authoritative cart representation.
type CartSnapshot struct {
	Items      []CartEntry `json:"items"`
	TotalItems int         `json:"totalItems"`
	TotalPrice float64     `json:"totalPrice"`
}

// CartItem is the client-facing cart line item. The wire names
// (productName/productImage) are normalized into Name/Image.
type CartItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// User is the persisted identity slice: what the storefront remembers
// about the signed-in user between sessions.
type User struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// Profile is the full account record behind /users/me.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"phone,omitempty"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Address Shipping or billing address
type Address struct {
	ID         string `json:"id,omitempty"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
	IsDefault  bool   `json:"isDefault,omitempty"`
}

// PaymentMethod Checkout payment selection. Card data is display-only
// (masked); no real payment processing happens here.
type PaymentMethod struct {
	Type           string `json:"type"` // card, paypal
	CardholderName string `json:"cardholderName,omitempty"`
	MaskedNumber   string `json:"maskedNumber,omitempty"`
	ExpiryMonth    int    `json:"expiryMonth,omitempty"`
	ExpiryYear     int    `json:"expiryYear,omitempty"`
}

// OrderStatus Order lifecycle status
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// CanCancel reports whether cancellation is permitted. Cancellation is
// allowed from any non-terminal state.
func (s OrderStatus) CanCancel() bool {
	return !s.IsTerminal()
}

// OrderLine One purchased product within an order
type OrderLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order Placed order
type Order struct {
	ID              string         `json:"id"`
	Items           []OrderLine    `json:"items"`
	Total           float64        `json:"total"`
	Status          OrderStatus    `json:"status"`
	ShippingAddress *Address       `json:"shippingAddress,omitempty"`
	BillingAddress  *Address       `json:"billingAddress,omitempty"`
	PaymentMethod   *PaymentMethod `json:"paymentMethod,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// Request/response DTOs

// LoginRequest Credentials submitted on login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest New-account submission
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// AuthResponse Login/register response body
type AuthResponse struct {
	AccessToken string   `json:"accessToken"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Message     string   `json:"message,omitempty"`
}

// AddItemRequest Cart add-item body
type AddItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest Checkout submission
type CreateOrderRequest struct {
	Items           []OrderLine    `json:"items"`
	Total           float64        `json:"total"`
	ShippingAddress *Address       `json:"shippingAddress"`
	BillingAddress  *Address       `json:"billingAddress"`
	PaymentMethod   *PaymentMethod `json:"paymentMethod"`
}
