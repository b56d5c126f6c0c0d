package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/anovak/pharmstock/internal/db"
	"github.com/anovak/pharmstock/internal/model"
	"github.com/anovak/pharmstock/internal/stock"
)

func batchTestSetup(t *testing.T, database *sql.DB) (int64, int64, int64) {
	t.Helper()
	ctx := context.Background()

	business, err := CreateBusiness(ctx, database, "Calm Pharma")
	if err != nil {
		t.Fatalf("CreateBusiness: %v", err)
	}
	outlet, err := CreateOutlet(ctx, database, business.ID, "Central Warehouse", model.OutletKindWarehouse)
	if err != nil {
		t.Fatalf("CreateOutlet: %v", err)
	}
	product, err := CreateProduct(ctx, database, business.ID, "Paracetamol 500mg", "PARA-500", "")
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	return business.ID, outlet.ID, product.ID
}

func TestCreateProductBatch(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	businessID, outletID, productID := batchTestSetup(t, database)

	expiry := time.Now().AddDate(1, 0, 0)
	batch, err := CreateProductBatch(ctx, database, businessID, outletID, productID, nil,
		"BN-1001", 50, decimal.NewFromFloat(0.85), expiry)
	if err != nil {
		t.Fatalf("CreateProductBatch: %v", err)
	}
	if batch.Quantity != 50 {
		t.Errorf("expected quantity 50, got %d", batch.Quantity)
	}
	if batch.Status != model.BatchStatusInStock {
		t.Errorf("expected IN_STOCK, got %s", batch.Status)
	}
	if !batch.UnitCost.Equal(decimal.NewFromFloat(0.85)) {
		t.Errorf("expected unit cost 0.85, got %s", batch.UnitCost)
	}
	if batch.ProductSKU != "PARA-500" || batch.OutletName != "Central Warehouse" {
		t.Errorf("expected joined product/outlet fields, got %+v", batch)
	}

	if _, err := CreateProductBatch(ctx, database, businessID, outletID, productID, nil,
		"BN-1002", -1, decimal.Zero, expiry); !errors.Is(err, stock.ErrValidation) {
		t.Errorf("expected validation error for negative quantity, got %v", err)
	}
}

func TestCreateProductBatchGeneratesRef(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	businessID, outletID, productID := batchTestSetup(t, database)

	batch, err := CreateProductBatch(ctx, database, businessID, outletID, productID, nil,
		"", 10, decimal.Zero, time.Now().AddDate(1, 0, 0))
	if err != nil {
		t.Fatalf("CreateProductBatch: %v", err)
	}
	if batch.BatchRef == "" {
		t.Error("expected generated batch ref for empty input")
	}
}

func TestCreateProductBatchEmpty(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	businessID, outletID, productID := batchTestSetup(t, database)

	batch, err := CreateProductBatch(ctx, database, businessID, outletID, productID, nil,
		"BN-1001", 0, decimal.Zero, time.Now().AddDate(1, 0, 0))
	if err != nil {
		t.Fatalf("CreateProductBatch: %v", err)
	}
	if batch.Status != model.BatchStatusOutOfStock {
		t.Errorf("expected OUT_OF_STOCK for zero quantity, got %s", batch.Status)
	}
}

func TestAdjustProductBatch(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	businessID, outletID, productID := batchTestSetup(t, database)

	batch, _ := CreateProductBatch(ctx, database, businessID, outletID, productID, nil,
		"BN-1001", 10, decimal.Zero, time.Now().AddDate(1, 0, 0))

	got, err := AdjustProductBatch(ctx, database, batch.ID, -4)
	if err != nil {
		t.Fatalf("AdjustProductBatch: %v", err)
	}
	if got.Quantity != 6 {
		t.Errorf("expected quantity 6, got %d", got.Quantity)
	}

	// Draining to zero flips the status; topping up flips it back.
	got, err = AdjustProductBatch(ctx, database, batch.ID, -6)
	if err != nil {
		t.Fatalf("AdjustProductBatch: %v", err)
	}
	if got.Quantity != 0 || got.Status != model.BatchStatusOutOfStock {
		t.Errorf("expected empty OUT_OF_STOCK batch, got %d %s", got.Quantity, got.Status)
	}

	got, err = AdjustProductBatch(ctx, database, batch.ID, 3)
	if err != nil {
		t.Fatalf("AdjustProductBatch: %v", err)
	}
	if got.Quantity != 3 || got.Status != model.BatchStatusInStock {
		t.Errorf("expected restocked IN_STOCK batch, got %d %s", got.Quantity, got.Status)
	}
}

func TestAdjustProductBatchNeverNegative(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	businessID, outletID, productID := batchTestSetup(t, database)

	batch, _ := CreateProductBatch(ctx, database, businessID, outletID, productID, nil,
		"BN-1001", 5, decimal.Zero, time.Now().AddDate(1, 0, 0))

	_, err := AdjustProductBatch(ctx, database, batch.ID, -6)
	if !errors.Is(err, stock.ErrCapacity) {
		t.Errorf("expected capacity error, got %v", err)
	}

	got, _ := GetProductBatch(ctx, database, batch.ID)
	if got.Quantity != 5 {
		t.Errorf("expected quantity unchanged at 5, got %d", got.Quantity)
	}

	if _, err := AdjustProductBatch(ctx, database, batch.ID, 0); !errors.Is(err, stock.ErrValidation) {
		t.Errorf("expected validation error for zero delta, got %v", err)
	}
}

func TestListProductBatchesOrderedByExpiry(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	businessID, outletID, productID := batchTestSetup(t, database)

	later := time.Now().AddDate(2, 0, 0)
	sooner := time.Now().AddDate(0, 3, 0)

	CreateProductBatch(ctx, database, businessID, outletID, productID, nil, "BN-LATER", 5, decimal.Zero, later)
	CreateProductBatch(ctx, database, businessID, outletID, productID, nil, "BN-SOONER", 5, decimal.Zero, sooner)

	batches, err := ListProductBatches(ctx, database, outletID, productID)
	if err != nil {
		t.Fatalf("ListProductBatches: %v", err)
	}
	if len(batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(batches))
	}
	// Soonest expiry first, for first-expired-first-out picking.
	if batches[0].BatchRef != "BN-SOONER" {
		t.Errorf("expected soonest expiry first, got %s", batches[0].BatchRef)
	}
}
