package checkout

import "time"

// Payment methods accepted at checkout, as listed on the order schema.
const (
	PaymentBankTransfer   = "bank_transfer"
	PaymentCashOnDelivery = "cash_on_delivery"
)

// Order status values. Orders are created pending; later transitions are
// made by back-office staff in the CMS, never by the storefront.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// BillingDetails is the checkout form payload. Validation tags mirror the
// required fields of the billing form; the json names double as the keys
// of the field-level error map.
type BillingDetails struct {
	FirstName      string `json:"firstName" validate:"required"`
	LastName       string `json:"lastName"`
	CompanyName    string `json:"companyName"`
	Region         string `json:"region"`
	Address        string `json:"address" validate:"required"`
	City           string `json:"city" validate:"required"`
	Province       string `json:"province" validate:"required"`
	ZipCode        string `json:"zipCode" validate:"required"`
	Contact        string `json:"contact" validate:"required"`
	Email          string `json:"email" validate:"required"`
	AdditionalInfo string `json:"additionalInfo"`
	PaymentMethod  string `json:"paymentMethod" validate:"required,oneof=bank_transfer cash_on_delivery"`
}

// Reference points an order at a product document.
type Reference struct {
	Type string `json:"_type"`
	Ref  string `json:"_ref"`
}

// Order is the document created in the CMS at checkout. It is a snapshot:
// the storefront never mutates it after creation.
type Order struct {
	Type           string      `json:"_type"`
	FirstName      string      `json:"firstName"`
	LastName       string      `json:"lastName,omitempty"`
	CompanyName    string      `json:"companyName,omitempty"`
	Region         string      `json:"region,omitempty"`
	Address        string      `json:"address"`
	City           string      `json:"city"`
	Province       string      `json:"province"`
	ZipCode        string      `json:"zipCode"`
	Contact        string      `json:"contact"`
	Email          string      `json:"email"`
	AdditionalInfo string      `json:"additionalInfo,omitempty"`
	CartItems      []Reference `json:"cartItems"`
	SubTotal       float64     `json:"subTotal"`
	Discount       float64     `json:"discount"`
	Total          float64     `json:"total"`
	PaymentMethod  string      `json:"paymentMethod"`
	OrderStatus    string      `json:"orderStatus"`
	CreatedAt      time.Time   `json:"createdAt"`
}
