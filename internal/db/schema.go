package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS businesses (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at DATETIME
);

CREATE TABLE IF NOT EXISTS outlets (
    id          INTEGER PRIMARY KEY,
    business_id INTEGER NOT NULL REFERENCES businesses(id),
    name        TEXT NOT NULL,
    kind        TEXT NOT NULL DEFAULT 'store' CHECK (kind IN ('store', 'warehouse')),
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at  DATETIME
);

CREATE TABLE IF NOT EXISTS users (
    id                INTEGER PRIMARY KEY,
    username          TEXT NOT NULL,
    password_hash     TEXT NOT NULL,
    role              TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'manager', 'user')),
    business_id       INTEGER REFERENCES businesses(id),
    default_outlet_id INTEGER REFERENCES outlets(id),
    created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at        DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS suppliers (
    id          INTEGER PRIMARY KEY,
    business_id INTEGER NOT NULL REFERENCES businesses(id),
    name        TEXT NOT NULL,
    email       TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at  DATETIME
);

CREATE TABLE IF NOT EXISTS products (
    id          INTEGER PRIMARY KEY,
    business_id INTEGER NOT NULL REFERENCES businesses(id),
    name        TEXT NOT NULL,
    sku         TEXT NOT NULL,
    description TEXT,
    image       BLOB,
    image_mime  TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at  DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_products_sku_active
    ON products(business_id, sku) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS product_batches (
    id            INTEGER PRIMARY KEY,
    business_id   INTEGER NOT NULL REFERENCES businesses(id),
    outlet_id     INTEGER NOT NULL REFERENCES outlets(id),
    product_id    INTEGER NOT NULL REFERENCES products(id),
    supplier_id   INTEGER REFERENCES suppliers(id),
    batch_ref     TEXT NOT NULL,
    date_received DATETIME,
    expiry_date   DATETIME NOT NULL,
    quantity      INTEGER NOT NULL CHECK (quantity >= 0),
    status        TEXT NOT NULL DEFAULT 'PENDING_ORDER' CHECK (status IN (
        'PENDING_ORDER', 'PENDING_DELIVERY', 'NOT_ACCEPTED', 'NOT_RECEIVED',
        'RETURNED', 'IN_STOCK', 'OUT_OF_STOCK', 'EXPIRED')),
    unit_cost     TEXT NOT NULL DEFAULT '0',
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_product_batches_outlet
    ON product_batches(outlet_id, product_id);

CREATE TABLE IF NOT EXISTS stock_transfers (
    id                    INTEGER PRIMARY KEY,
    business_id           INTEGER NOT NULL REFERENCES businesses(id),
    source_outlet_id      INTEGER NOT NULL REFERENCES outlets(id),
    destination_outlet_id INTEGER NOT NULL REFERENCES outlets(id),
    initiated_by          INTEGER REFERENCES users(id),
    received_by           INTEGER REFERENCES users(id),
    status                TEXT NOT NULL DEFAULT 'STARTED' CHECK (status IN ('STARTED', 'IN_TRANSIT', 'RECEIVED')),
    date_dispatched       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    date_received         DATETIME,
    created_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at            DATETIME,
    CHECK (source_outlet_id <> destination_outlet_id)
);

CREATE TABLE IF NOT EXISTS transfer_batches (
    id                INTEGER PRIMARY KEY,
    stock_transfer_id INTEGER NOT NULL REFERENCES stock_transfers(id) ON DELETE CASCADE,
    product_id        INTEGER NOT NULL REFERENCES products(id),
    product_batch_id  INTEGER NOT NULL REFERENCES product_batches(id),
    unit_cost         TEXT NOT NULL DEFAULT '0',
    quantity_sent     INTEGER NOT NULL CHECK (quantity_sent > 0),
    quantity_received INTEGER NOT NULL DEFAULT 0 CHECK (quantity_received >= 0),
    expiry_date       DATETIME NOT NULL,
    comments          TEXT,
    created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_transfer_batches_batch
    ON transfer_batches(product_batch_id) WHERE quantity_received = 0;

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
