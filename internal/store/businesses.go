package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anovak/pharmstock/internal/model"
)

// CreateBusiness creates a new business.
func CreateBusiness(ctx context.Context, db *sql.DB, name string) (*model.Business, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO businesses (name) VALUES (?)`, name,
	)
	if err != nil {
		return nil, fmt.Errorf("creating business: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting business id: %w", err)
	}

	return GetBusiness(ctx, db, id)
}

// GetBusiness returns a business by ID.
func GetBusiness(ctx context.Context, db *sql.DB, id int64) (*model.Business, error) {
	b := &model.Business{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, created_at, deleted_at FROM businesses WHERE id = ? AND deleted_at IS NULL`, id,
	).Scan(&b.ID, &b.Name, &b.CreatedAt, &b.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting business: %w", err)
	}
	return b, nil
}

// ListBusinesses returns all non-deleted businesses.
func ListBusinesses(ctx context.Context, db *sql.DB) ([]model.Business, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, created_at, deleted_at FROM businesses WHERE deleted_at IS NULL ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing businesses: %w", err)
	}
	defer rows.Close()

	var businesses []model.Business
	for rows.Next() {
		var b model.Business
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt, &b.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning business: %w", err)
		}
		businesses = append(businesses, b)
	}
	return businesses, rows.Err()
}

// DeleteBusiness soft-deletes a business.
func DeleteBusiness(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE businesses SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id,
	)
	if err != nil {
		return fmt.Errorf("deleting business: %w", err)
	}
	return nil
}

// CreateOutlet creates a new outlet within a business.
func CreateOutlet(ctx context.Context, db *sql.DB, businessID int64, name, kind string) (*model.Outlet, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO outlets (business_id, name, kind) VALUES (?, ?, ?)`,
		businessID, name, kind,
	)
	if err != nil {
		return nil, fmt.Errorf("creating outlet: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting outlet id: %w", err)
	}

	return GetOutlet(ctx, db, id)
}

// GetOutlet returns an outlet by ID.
func GetOutlet(ctx context.Context, db *sql.DB, id int64) (*model.Outlet, error) {
	o := &model.Outlet{}
	err := db.QueryRowContext(ctx,
		`SELECT o.id, o.business_id, o.name, o.kind, o.created_at, o.deleted_at, b.name
		 FROM outlets o
		 JOIN businesses b ON b.id = o.business_id
		 WHERE o.id = ? AND o.deleted_at IS NULL`, id,
	).Scan(&o.ID, &o.BusinessID, &o.Name, &o.Kind, &o.CreatedAt, &o.DeletedAt, &o.BusinessName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting outlet: %w", err)
	}
	return o, nil
}

// ListOutlets returns all non-deleted outlets, optionally for one business.
func ListOutlets(ctx context.Context, db *sql.DB, businessID int64) ([]model.Outlet, error) {
	query := `SELECT o.id, o.business_id, o.name, o.kind, o.created_at, o.deleted_at, b.name
	          FROM outlets o
	          JOIN businesses b ON b.id = o.business_id
	          WHERE o.deleted_at IS NULL`
	var args []any

	if businessID > 0 {
		query += ` AND o.business_id = ?`
		args = append(args, businessID)
	}

	query += ` ORDER BY o.name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing outlets: %w", err)
	}
	defer rows.Close()

	var outlets []model.Outlet
	for rows.Next() {
		var o model.Outlet
		if err := rows.Scan(&o.ID, &o.BusinessID, &o.Name, &o.Kind, &o.CreatedAt, &o.DeletedAt, &o.BusinessName); err != nil {
			return nil, fmt.Errorf("scanning outlet: %w", err)
		}
		outlets = append(outlets, o)
	}
	return outlets, rows.Err()
}

// UpdateOutlet updates an outlet's name and kind.
func UpdateOutlet(ctx context.Context, db *sql.DB, id int64, name, kind string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE outlets SET name = ?, kind = ? WHERE id = ? AND deleted_at IS NULL`,
		name, kind, id,
	)
	if err != nil {
		return fmt.Errorf("updating outlet: %w", err)
	}
	return nil
}

// DeleteOutlet soft-deletes an outlet.
func DeleteOutlet(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE outlets SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id,
	)
	if err != nil {
		return fmt.Errorf("deleting outlet: %w", err)
	}
	return nil
}
