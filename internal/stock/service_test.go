package stock

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/anovak/pharmstock/internal/model"
)

func TestBatchStatus(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	future := today.AddDate(0, 6, 0)
	past := today.AddDate(0, -1, 0)

	tests := []struct {
		name     string
		quantity int
		expiry   time.Time
		want     string
	}{
		{"in stock", 5, future, model.BatchStatusInStock},
		{"expired", 5, past, model.BatchStatusExpired},
		{"expires today", 5, today, model.BatchStatusExpired},
		{"out of stock", 0, future, model.BatchStatusOutOfStock},
		// An empty batch is OUT_OF_STOCK even past its expiry date.
		{"empty and expired", 0, past, model.BatchStatusOutOfStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BatchStatus(tt.quantity, tt.expiry, today); got != tt.want {
				t.Errorf("BatchStatus(%d, %v) = %s, want %s", tt.quantity, tt.expiry, got, tt.want)
			}
		})
	}
}

func TestDestinationBatch(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	supplierID := int64(9)

	src := model.ProductBatch{
		ID:         1,
		BusinessID: 2,
		OutletID:   3,
		ProductID:  4,
		SupplierID: &supplierID,
		BatchRef:   "BN-1001",
		ExpiryDate: today.AddDate(1, 0, 0),
		Quantity:   10,
		UnitCost:   decimal.NewFromFloat(1.25),
	}
	transfer := model.StockTransfer{
		BusinessID:          2,
		SourceOutletID:      3,
		DestinationOutletID: 7,
	}
	line := model.TransferBatch{ProductBatchID: 1, QuantitySent: 6}

	dest := DestinationBatch(src, transfer, line, today)

	if dest.OutletID != 7 {
		t.Errorf("expected destination outlet 7, got %d", dest.OutletID)
	}
	if dest.Quantity != 6 {
		t.Errorf("expected transferred quantity 6, got %d", dest.Quantity)
	}
	if dest.BatchRef != src.BatchRef {
		t.Errorf("expected inherited batch ref %s, got %s", src.BatchRef, dest.BatchRef)
	}
	if dest.SupplierID == nil || *dest.SupplierID != supplierID {
		t.Errorf("expected inherited supplier %d, got %v", supplierID, dest.SupplierID)
	}
	if !dest.UnitCost.Equal(src.UnitCost) {
		t.Errorf("expected inherited unit cost %s, got %s", src.UnitCost, dest.UnitCost)
	}
	if !dest.ExpiryDate.Equal(src.ExpiryDate) {
		t.Errorf("expected inherited expiry %v, got %v", src.ExpiryDate, dest.ExpiryDate)
	}
	if !dest.DateReceived.Equal(today) {
		t.Errorf("expected date received %v, got %v", today, dest.DateReceived)
	}
	if dest.Status != model.BatchStatusInStock {
		t.Errorf("expected IN_STOCK, got %s", dest.Status)
	}
}

func TestDestinationBatchExpired(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	src := model.ProductBatch{ExpiryDate: today.AddDate(0, -1, 0), Quantity: 10}
	line := model.TransferBatch{QuantitySent: 6}

	dest := DestinationBatch(src, model.StockTransfer{}, line, today)
	if dest.Status != model.BatchStatusExpired {
		t.Errorf("expected EXPIRED for past-expiry batch, got %s", dest.Status)
	}
}

func TestAggregateLines(t *testing.T) {
	lines := []model.TransferBatch{
		{ProductBatchID: 1, ProductName: "Paracetamol", ProductSKU: "PARA-500", QuantitySent: 3, BatchQuantity: 10},
		{ProductBatchID: 1, ProductName: "Paracetamol", ProductSKU: "PARA-500", QuantitySent: 4, BatchQuantity: 10},
		{ProductBatchID: 2, ProductName: "Paracetamol", ProductSKU: "PARA-500", QuantitySent: 2, BatchQuantity: 5},
		{ProductBatchID: 3, ProductName: "Amoxicillin", ProductSKU: "AMOX-250", QuantitySent: 5, BatchQuantity: 30},
	}

	got := AggregateLines(lines)
	if len(got) != 2 {
		t.Fatalf("expected 2 aggregates, got %d", len(got))
	}

	// Sorted by SKU.
	if got[0].ProductSKU != "AMOX-250" || got[1].ProductSKU != "PARA-500" {
		t.Fatalf("expected SKU-sorted output, got %+v", got)
	}

	para := got[1]
	if para.QuantitySent != 9 {
		t.Errorf("expected total sent 9, got %d", para.QuantitySent)
	}
	if para.Batches != 3 {
		t.Errorf("expected 3 lines counted, got %d", para.Batches)
	}
	// Batch 1 appears in two lines but its quantity counts once.
	if para.QuantityInBatches != 15 {
		t.Errorf("expected distinct batch quantities 15, got %d", para.QuantityInBatches)
	}

	amox := got[0]
	if amox.QuantitySent != 5 || amox.Batches != 1 || amox.QuantityInBatches != 30 {
		t.Errorf("unexpected aggregate: %+v", amox)
	}
}

func TestAggregateLinesEmpty(t *testing.T) {
	if got := AggregateLines(nil); len(got) != 0 {
		t.Errorf("expected no aggregates for no lines, got %+v", got)
	}
}
