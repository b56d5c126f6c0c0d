package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockTransfer represents an intended movement of stock from a source
// outlet to a destination outlet within one business. It owns its
// transfer batch lines and the STARTED → IN_TRANSIT → RECEIVED state
// machine; a queried (disputed) transfer loops back to STARTED.
type StockTransfer struct {
	ID                  int64      `json:"id"`
	BusinessID          int64      `json:"business_id"`
	SourceOutletID      int64      `json:"source_outlet_id"`
	DestinationOutletID int64      `json:"destination_outlet_id"`
	InitiatedBy         *int64     `json:"initiated_by,omitempty"`
	ReceivedBy          *int64     `json:"received_by,omitempty"`
	Status              string     `json:"status"`
	DateDispatched      time.Time  `json:"date_dispatched"`
	DateReceived        *time.Time `json:"date_received,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	DeletedAt           *time.Time `json:"deleted_at,omitempty"`

	// Joined fields (not always populated).
	SourceName      string `json:"source_name,omitempty"`
	DestinationName string `json:"destination_name,omitempty"`

	// Lines are loaded by GetTransfer, nil elsewhere.
	TransferBatches []TransferBatch `json:"transfer_batches,omitempty"`
}

// Stock transfer statuses.
const (
	TransferStarted   = "STARTED"
	TransferInTransit = "IN_TRANSIT"
	TransferReceived  = "RECEIVED"
)

// Transfer actions for the send-or-query transition.
const (
	ActionSend  = "SEND"
	ActionQuery = "QUERY"
)

// TransferBatch is one product batch's committed quantity within a
// stock transfer. Unit cost and expiry are snapshotted from the source
// batch when the line is added. QuantityReceived stays 0 until the
// transfer is approved; unreceived lines reserve quantity on the source
// batch.
type TransferBatch struct {
	ID               int64           `json:"id"`
	StockTransferID  int64           `json:"stock_transfer_id"`
	ProductID        int64           `json:"product_id"`
	ProductBatchID   int64           `json:"product_batch_id"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	QuantitySent     int             `json:"quantity_sent"`
	QuantityReceived int             `json:"quantity_received"`
	ExpiryDate       time.Time       `json:"expiry_date"`
	Comments         string          `json:"comments,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`

	// Joined fields (not always populated).
	ProductName   string `json:"product_name,omitempty"`
	ProductSKU    string `json:"product_sku,omitempty"`
	BatchQuantity int    `json:"batch_quantity,omitempty"`
}
