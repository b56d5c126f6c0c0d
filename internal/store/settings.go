package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
)

const jwtSecretKey = "jwt_secret"

// GetJWTSecret returns the persisted token signing secret, minting one on
// first use. The insert-then-select order makes concurrent first starts
// converge on a single secret instead of racing a check-then-write.
func GetJWTSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}

	if _, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		jwtSecretKey, hex.EncodeToString(buf),
	); err != nil {
		return "", fmt.Errorf("storing jwt secret: %w", err)
	}

	var secret string
	if err := db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, jwtSecretKey,
	).Scan(&secret); err != nil {
		return "", fmt.Errorf("reading jwt secret: %w", err)
	}
	return secret, nil
}
