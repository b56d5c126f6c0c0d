package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anovak/pharmstock/internal/model"
)

// CreateProduct registers a product with a business.
func CreateProduct(ctx context.Context, db *sql.DB, businessID int64, name, sku, description string) (*model.Product, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO products (business_id, name, sku, description) VALUES (?, ?, ?, ?)`,
		businessID, name, sku, description,
	)
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting product id: %w", err)
	}

	return GetProduct(ctx, db, id)
}

// GetProduct returns a product by ID.
func GetProduct(ctx context.Context, db *sql.DB, id int64) (*model.Product, error) {
	p := &model.Product{}
	var description, imageMime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, business_id, name, sku, description, image_mime, created_at, updated_at, deleted_at
		 FROM products WHERE id = ? AND deleted_at IS NULL`, id,
	).Scan(&p.ID, &p.BusinessID, &p.Name, &p.SKU, &description, &imageMime, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}
	p.Description = description.String
	p.ImageMime = imageMime.String
	return p, nil
}

// ListProducts returns a business's non-deleted products.
func ListProducts(ctx context.Context, db *sql.DB, businessID int64) ([]model.Product, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, business_id, name, sku, description, image_mime, created_at, updated_at, deleted_at
		 FROM products WHERE business_id = ? AND deleted_at IS NULL ORDER BY name`,
		businessID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		var description, imageMime sql.NullString
		if err := rows.Scan(&p.ID, &p.BusinessID, &p.Name, &p.SKU, &description, &imageMime, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		p.Description = description.String
		p.ImageMime = imageMime.String
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpdateProduct updates a product's name, SKU and description.
func UpdateProduct(ctx context.Context, db *sql.DB, id int64, name, sku, description string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE products SET name = ?, sku = ?, description = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		name, sku, description, id,
	)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}
	return nil
}

// DeleteProduct soft-deletes a product.
func DeleteProduct(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE products SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id,
	)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return nil
}

// SetProductImage stores a product's photo.
func SetProductImage(ctx context.Context, db *sql.DB, id int64, data []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE products SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		data, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting product image: %w", err)
	}
	return nil
}

// GetProductImage returns a product's photo data and MIME type, or nil
// if no photo is set.
func GetProductImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var data []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM products WHERE id = ? AND deleted_at IS NULL`, id,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting product image: %w", err)
	}
	return data, mime.String, nil
}
