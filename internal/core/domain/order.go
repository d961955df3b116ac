package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is free-form on update; these are the values the storefront itself emits.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// Order reserves Quantity units of a single product for a user. While the order
// exists, those units are already subtracted from the product's stock.
type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"userId"`
	ProductID       string      `json:"productId"`
	Quantity        int         `json:"quantity"`
	Status          OrderStatus `json:"status"`
	ShippingAddress string      `json:"shippingAddress"`
	BillingAddress  string      `json:"billingAddress"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// OrderPatch carries the admin-editable fields. Nil means "leave unchanged".
type OrderPatch struct {
	Status          *OrderStatus
	Quantity        *int
	ShippingAddress *string
	BillingAddress  *string
}

// OrderView is an order joined with the product and customer it references,
// as order lists display it. Product or Customer is nil when the referenced
// record is gone or was not requested.
type OrderView struct {
	*Order
	Product  *ProductSummary  `json:"product"`
	Customer *CustomerSummary `json:"customer,omitempty"`
}

type ProductSummary struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl"`
}

type CustomerSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func (p *Product) Summary() *ProductSummary {
	return &ProductSummary{ID: p.ID, Name: p.Name, Price: p.Price, ImageURL: p.ImageURL}
}

func (u *User) Summary() *CustomerSummary {
	return &CustomerSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}
