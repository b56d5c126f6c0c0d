package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anovak/pharmstock/internal/model"
	"github.com/anovak/pharmstock/internal/stock"
)

// CreateProductBatch records stock received at an outlet. If batchRef
// is empty a reference is generated.
func CreateProductBatch(ctx context.Context, db *sql.DB, businessID, outletID, productID int64, supplierID *int64,
	batchRef string, quantity int, unitCost decimal.Decimal, expiryDate time.Time) (*model.ProductBatch, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", stock.ErrValidation)
	}
	if batchRef == "" {
		batchRef = uuid.NewString()
	}

	status := model.BatchStatusInStock
	if quantity == 0 {
		status = model.BatchStatusOutOfStock
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO product_batches
		     (business_id, outlet_id, product_id, supplier_id, batch_ref, date_received, expiry_date, quantity, status, unit_cost)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, ?, ?, ?, ?)`,
		businessID, outletID, productID, supplierID, batchRef, expiryDate, quantity, status, unitCost.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating product batch: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting product batch id: %w", err)
	}

	return GetProductBatch(ctx, db, id)
}

const productBatchColumns = `pb.id, pb.business_id, pb.outlet_id, pb.product_id, pb.supplier_id,
	        pb.batch_ref, pb.date_received, pb.expiry_date, pb.quantity, pb.status, pb.unit_cost,
	        pb.created_at, pb.updated_at, p.name, p.sku, o.name`

func scanProductBatch(row interface{ Scan(...any) error }) (*model.ProductBatch, error) {
	b := &model.ProductBatch{}
	var unitCost string
	var dateReceived sql.NullTime
	if err := row.Scan(&b.ID, &b.BusinessID, &b.OutletID, &b.ProductID, &b.SupplierID,
		&b.BatchRef, &dateReceived, &b.ExpiryDate, &b.Quantity, &b.Status, &unitCost,
		&b.CreatedAt, &b.UpdatedAt, &b.ProductName, &b.ProductSKU, &b.OutletName); err != nil {
		return nil, err
	}
	b.DateReceived = dateReceived.Time
	cost, err := decimal.NewFromString(unitCost)
	if err != nil {
		return nil, fmt.Errorf("parsing unit cost %q: %w", unitCost, err)
	}
	b.UnitCost = cost
	return b, nil
}

// GetProductBatch returns a product batch by ID.
func GetProductBatch(ctx context.Context, db *sql.DB, id int64) (*model.ProductBatch, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+productBatchColumns+`
		 FROM product_batches pb
		 JOIN products p ON p.id = pb.product_id
		 JOIN outlets o ON o.id = pb.outlet_id
		 WHERE pb.id = ?`, id,
	)
	b, err := scanProductBatch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting product batch: %w", err)
	}
	return b, nil
}

// ListProductBatches returns batches at an outlet, optionally filtered
// by product.
func ListProductBatches(ctx context.Context, db *sql.DB, outletID, productID int64) ([]model.ProductBatch, error) {
	query := `SELECT ` + productBatchColumns + `
	          FROM product_batches pb
	          JOIN products p ON p.id = pb.product_id
	          JOIN outlets o ON o.id = pb.outlet_id
	          WHERE pb.outlet_id = ?`
	args := []any{outletID}

	if productID > 0 {
		query += ` AND pb.product_id = ?`
		args = append(args, productID)
	}

	query += ` ORDER BY pb.expiry_date, pb.id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing product batches: %w", err)
	}
	defer rows.Close()

	var batches []model.ProductBatch
	for rows.Next() {
		b, err := scanProductBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product batch: %w", err)
		}
		batches = append(batches, *b)
	}
	return batches, rows.Err()
}

// AdjustProductBatch changes a batch's quantity by delta (negative for
// corrections/losses) and keeps the zero-quantity status in sync. The
// decrement is a conditional update so the quantity can never go
// negative, even under concurrent adjustments.
func AdjustProductBatch(ctx context.Context, db *sql.DB, id int64, delta int) (*model.ProductBatch, error) {
	if delta == 0 {
		return nil, fmt.Errorf("%w: delta must be non-zero", stock.ErrValidation)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE product_batches
		 SET quantity = quantity + ?,
		     status = CASE
		         WHEN quantity + ? = 0 THEN 'OUT_OF_STOCK'
		         WHEN status = 'OUT_OF_STOCK' THEN 'IN_STOCK'
		         ELSE status
		     END,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND quantity + ? >= 0`,
		delta, delta, id, delta,
	)
	if err != nil {
		return nil, fmt.Errorf("adjusting product batch: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking adjustment: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: adjustment would make batch quantity negative", stock.ErrCapacity)
	}

	return GetProductBatch(ctx, db, id)
}
