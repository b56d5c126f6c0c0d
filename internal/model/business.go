package model

import "time"

// Business is the tenancy root. Outlets, users, products and stock
// transfers all belong to exactly one business.
type Business struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Outlet is a physical location of a business that holds its own stock.
type Outlet struct {
	ID         int64      `json:"id"`
	BusinessID int64      `json:"business_id"`
	Name       string     `json:"name"`
	Kind       string     `json:"kind"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`

	// Joined fields (not always populated).
	BusinessName string `json:"business_name,omitempty"`
}

// Outlet kinds.
const (
	OutletKindStore     = "store"
	OutletKindWarehouse = "warehouse"
)
