package handler

import (
	"github.com/shopspring/decimal"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- auth ---

type registerRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token          string       `json:"token"`
	ExpiresAt      string       `json:"expiresAt"`
	User           *domain.User `json:"user"`
	ImpersonatedBy string       `json:"impersonatedBy,omitempty"`
}

// --- orders ---

type placeOrderRequest struct {
	ProductID       string `json:"productId"       validate:"required"`
	Quantity        int    `json:"quantity"`
	ShippingAddress string `json:"shippingAddress"`
	BillingAddress  string `json:"billingAddress"`
}

type updateOrderRequest struct {
	Status          *string `json:"status"`
	Quantity        *int    `json:"quantity"`
	ShippingAddress *string `json:"shippingAddress"`
	BillingAddress  *string `json:"billingAddress"`
}

type listOrdersQuery struct {
	Status     string `query:"status"`
	CustomerID string `query:"customerId"`
	ProductID  string `query:"productId"`
	StartDate  string `query:"startDate"`
	EndDate    string `query:"endDate"`
	Page       int    `query:"page"  validate:"gte=0"`
	Limit      int    `query:"limit" validate:"gte=0"`
}

type listOrdersResponse struct {
	Total  int64               `json:"total"`
	Page   int                 `json:"page"`
	Limit  int                 `json:"limit"`
	Orders []*domain.OrderView `json:"orders"`
}

type deleteOrderResponse struct {
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

// --- products ---

type createProductRequest struct {
	Name        string          `json:"name"        validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"       validate:"money"`
	Stock       *int            `json:"stock"       validate:"required,gte=0"`
	ImageURL    string          `json:"imageUrl"`
}

type updateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"       validate:"omitempty,money"`
	Stock       *int             `json:"stock"       validate:"omitempty,gte=0"`
	ImageURL    *string          `json:"imageUrl"`
}

type listProductsQuery struct {
	Search string `query:"search"`
	SortBy string `query:"sortBy" validate:"omitempty,oneof=name price stock createdAt"`
	Order  string `query:"order"  validate:"omitempty,oneof=asc desc"`
	Page   int    `query:"page"   validate:"gte=0"`
	Limit  int    `query:"limit"  validate:"gte=0"`
}

type listProductsResponse struct {
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
	Products []*domain.Product `json:"products"`
}

// --- customers ---

type createCustomerRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required"`
}

type updateCustomerRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Blocked   *bool   `json:"isBlocked"`
}

type listCustomersQuery struct {
	Search string `query:"search"`
	Status string `query:"status" validate:"omitempty,oneof=active blocked"`
	Page   int    `query:"page"   validate:"gte=0"`
	Limit  int    `query:"limit"  validate:"gte=0"`
}

type listCustomersResponse struct {
	Total     int64          `json:"total"`
	Page      int            `json:"page"`
	Limit     int            `json:"limit"`
	Customers []*domain.User `json:"customers"`
}

type resetPasswordResponse struct {
	Message      string `json:"message"`
	TempPassword string `json:"tempPassword,omitempty"`
}

// --- settings ---

type brandingRequest struct {
	LogoURL        string `json:"logoUrl"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	FontFamily     string `json:"fontFamily"`
	CustomHTML     string `json:"customHtml"`
}

type brandingResponse struct {
	Message          string          `json:"message"`
	BrandingSettings domain.Branding `json:"brandingSettings"`
}
