package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a sellable product registered with a business.
type Product struct {
	ID          int64      `json:"id"`
	BusinessID  int64      `json:"business_id"`
	Name        string     `json:"name"`
	SKU         string     `json:"sku"`
	Description string     `json:"description,omitempty"`
	ImageMime   string     `json:"image_mime,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// ProductBatch is a quantity of one product received at one outlet,
// tracked with cost, expiry and status.
type ProductBatch struct {
	ID           int64           `json:"id"`
	BusinessID   int64           `json:"business_id"`
	OutletID     int64           `json:"outlet_id"`
	ProductID    int64           `json:"product_id"`
	SupplierID   *int64          `json:"supplier_id,omitempty"`
	BatchRef     string          `json:"batch_ref"`
	DateReceived time.Time       `json:"date_received"`
	ExpiryDate   time.Time       `json:"expiry_date"`
	Quantity     int             `json:"quantity"`
	Status       string          `json:"status"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// Joined fields (not always populated).
	ProductName string `json:"product_name,omitempty"`
	ProductSKU  string `json:"product_sku,omitempty"`
	OutletName  string `json:"outlet_name,omitempty"`
}

// Product batch statuses.
const (
	BatchStatusPendingOrder    = "PENDING_ORDER"
	BatchStatusPendingDelivery = "PENDING_DELIVERY"
	BatchStatusNotAccepted     = "NOT_ACCEPTED"
	BatchStatusNotReceived     = "NOT_RECEIVED"
	BatchStatusReturned        = "RETURNED"
	BatchStatusInStock         = "IN_STOCK"
	BatchStatusOutOfStock      = "OUT_OF_STOCK"
	BatchStatusExpired         = "EXPIRED"
)
