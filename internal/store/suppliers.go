package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anovak/pharmstock/internal/model"
)

// CreateSupplier registers a supplier with a business.
func CreateSupplier(ctx context.Context, db *sql.DB, businessID int64, name, email string) (*model.Supplier, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO suppliers (business_id, name, email) VALUES (?, ?, ?)`,
		businessID, name, email,
	)
	if err != nil {
		return nil, fmt.Errorf("creating supplier: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting supplier id: %w", err)
	}

	return GetSupplier(ctx, db, id)
}

// GetSupplier returns a supplier by ID.
func GetSupplier(ctx context.Context, db *sql.DB, id int64) (*model.Supplier, error) {
	s := &model.Supplier{}
	var email sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, business_id, name, email, created_at, deleted_at
		 FROM suppliers WHERE id = ? AND deleted_at IS NULL`, id,
	).Scan(&s.ID, &s.BusinessID, &s.Name, &email, &s.CreatedAt, &s.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting supplier: %w", err)
	}
	s.Email = email.String
	return s, nil
}

// ListSuppliers returns a business's non-deleted suppliers.
func ListSuppliers(ctx context.Context, db *sql.DB, businessID int64) ([]model.Supplier, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, business_id, name, email, created_at, deleted_at
		 FROM suppliers WHERE business_id = ? AND deleted_at IS NULL ORDER BY name`,
		businessID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []model.Supplier
	for rows.Next() {
		var s model.Supplier
		var email sql.NullString
		if err := rows.Scan(&s.ID, &s.BusinessID, &s.Name, &email, &s.CreatedAt, &s.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning supplier: %w", err)
		}
		s.Email = email.String
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

// UpdateSupplier updates a supplier's name and email.
func UpdateSupplier(ctx context.Context, db *sql.DB, id int64, name, email string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE suppliers SET name = ?, email = ? WHERE id = ? AND deleted_at IS NULL`,
		name, email, id,
	)
	if err != nil {
		return fmt.Errorf("updating supplier: %w", err)
	}
	return nil
}

// DeleteSupplier soft-deletes a supplier.
func DeleteSupplier(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE suppliers SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id,
	)
	if err != nil {
		return fmt.Errorf("deleting supplier: %w", err)
	}
	return nil
}
