package store

import (
	"context"
	"testing"
	"time"

	"github.com/anovak/pharmstock/internal/db"
)

func TestRevokeAndCheckToken(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	revoked, err := IsTokenRevoked(ctx, database, "jti-logout-1")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if revoked {
		t.Error("expected token not to be revoked initially")
	}

	if err := RevokeToken(ctx, database, "jti-logout-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}

	revoked, err = IsTokenRevoked(ctx, database, "jti-logout-1")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if !revoked {
		t.Error("expected token to be revoked")
	}

	// An unrelated JTI stays valid.
	revoked, _ = IsTokenRevoked(ctx, database, "jti-logout-2")
	if revoked {
		t.Error("expected different token not to be revoked")
	}
}

func TestRevokeTokenIdempotent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// Revoking the same token twice should not error (INSERT OR IGNORE).
	if err := RevokeToken(ctx, database, "jti-twice", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("first RevokeToken: %v", err)
	}
	if err := RevokeToken(ctx, database, "jti-twice", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("second RevokeToken: %v", err)
	}
}
