package store

import (
	"context"
	"testing"

	"github.com/anovak/pharmstock/internal/db"
	"github.com/anovak/pharmstock/internal/model"
)

func TestCreateAndGetBusiness(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	business, err := CreateBusiness(ctx, database, "Calm Pharma")
	if err != nil {
		t.Fatalf("CreateBusiness: %v", err)
	}
	if business.Name != "Calm Pharma" {
		t.Errorf("expected name 'Calm Pharma', got %q", business.Name)
	}

	got, err := GetBusiness(ctx, database, business.ID)
	if err != nil {
		t.Fatalf("GetBusiness: %v", err)
	}
	if got == nil || got.Name != "Calm Pharma" {
		t.Errorf("expected business back, got %+v", got)
	}

	missing, err := GetBusiness(ctx, database, 9999)
	if err != nil {
		t.Fatalf("GetBusiness: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing business")
	}
}

func TestDeleteBusiness(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	business, _ := CreateBusiness(ctx, database, "Calm Pharma")
	if err := DeleteBusiness(ctx, database, business.ID); err != nil {
		t.Fatalf("DeleteBusiness: %v", err)
	}

	businesses, _ := ListBusinesses(ctx, database)
	if len(businesses) != 0 {
		t.Errorf("expected 0 businesses after delete, got %d", len(businesses))
	}
}

func TestOutletLifecycle(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	business, _ := CreateBusiness(ctx, database, "Calm Pharma")

	outlet, err := CreateOutlet(ctx, database, business.ID, "Central Warehouse", model.OutletKindWarehouse)
	if err != nil {
		t.Fatalf("CreateOutlet: %v", err)
	}
	if outlet.Kind != model.OutletKindWarehouse {
		t.Errorf("expected kind warehouse, got %q", outlet.Kind)
	}
	if outlet.BusinessName != "Calm Pharma" {
		t.Errorf("expected joined business name, got %q", outlet.BusinessName)
	}

	if err := UpdateOutlet(ctx, database, outlet.ID, "North Warehouse", model.OutletKindWarehouse); err != nil {
		t.Fatalf("UpdateOutlet: %v", err)
	}
	got, _ := GetOutlet(ctx, database, outlet.ID)
	if got.Name != "North Warehouse" {
		t.Errorf("expected renamed outlet, got %q", got.Name)
	}

	CreateOutlet(ctx, database, business.ID, "High Street", model.OutletKindStore)

	outlets, err := ListOutlets(ctx, database, business.ID)
	if err != nil {
		t.Fatalf("ListOutlets: %v", err)
	}
	if len(outlets) != 2 {
		t.Errorf("expected 2 outlets, got %d", len(outlets))
	}

	if err := DeleteOutlet(ctx, database, outlet.ID); err != nil {
		t.Fatalf("DeleteOutlet: %v", err)
	}
	outlets, _ = ListOutlets(ctx, database, business.ID)
	if len(outlets) != 1 {
		t.Errorf("expected 1 outlet after delete, got %d", len(outlets))
	}
}

func TestListOutletsScopedToBusiness(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, _ := CreateBusiness(ctx, database, "Calm Pharma")
	second, _ := CreateBusiness(ctx, database, "Other Pharma")

	CreateOutlet(ctx, database, first.ID, "High Street", model.OutletKindStore)
	CreateOutlet(ctx, database, second.ID, "Elsewhere", model.OutletKindStore)

	outlets, _ := ListOutlets(ctx, database, first.ID)
	if len(outlets) != 1 || outlets[0].Name != "High Street" {
		t.Errorf("expected only the first business's outlet, got %+v", outlets)
	}
}
