package store

import (
	"context"
	"testing"

	"github.com/anovak/pharmstock/internal/db"
	"github.com/anovak/pharmstock/internal/model"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "testuser", "hash123", model.RoleUser, nil, nil)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Username != "testuser" {
		t.Errorf("expected username 'testuser', got %q", user.Username)
	}
	if user.Role != model.RoleUser {
		t.Errorf("expected role 'user', got %q", user.Role)
	}
	if user.BusinessID != nil || user.DefaultOutletID != nil {
		t.Errorf("expected no assignment, got %v/%v", user.BusinessID, user.DefaultOutletID)
	}

	got, err := GetUser(ctx, database, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Username != "testuser" {
		t.Errorf("expected username 'testuser', got %q", got.Username)
	}
}

func TestCreateUserWithAssignment(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	business, _ := CreateBusiness(ctx, database, "Calm Pharma")
	outlet, _ := CreateOutlet(ctx, database, business.ID, "High Street", model.OutletKindStore)

	user, err := CreateUser(ctx, database, "clerk", "hash", model.RoleUser, &business.ID, &outlet.ID)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.BusinessID == nil || *user.BusinessID != business.ID {
		t.Errorf("expected business %d, got %v", business.ID, user.BusinessID)
	}
	if user.DefaultOutletID == nil || *user.DefaultOutletID != outlet.ID {
		t.Errorf("expected outlet %d, got %v", outlet.ID, user.DefaultOutletID)
	}
}

func TestGetUserByUsername(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateUser(ctx, database, "alice", "hash", model.RoleAdmin, nil, nil)

	user, err := GetUserByUsername(ctx, database, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.Username != "alice" {
		t.Errorf("expected 'alice', got %q", user.Username)
	}

	missing, err := GetUserByUsername(ctx, database, "bob")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing user")
	}
}

func TestListUsers(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateUser(ctx, database, "a", "hash", model.RoleUser, nil, nil)
	CreateUser(ctx, database, "b", "hash", model.RoleManager, nil, nil)

	users, err := ListUsers(ctx, database)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("expected 2 users, got %d", len(users))
	}
}

func TestUpdateUserAssignment(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	business, _ := CreateBusiness(ctx, database, "Calm Pharma")
	outlet, _ := CreateOutlet(ctx, database, business.ID, "High Street", model.OutletKindStore)

	user, _ := CreateUser(ctx, database, "clerk", "hash", model.RoleUser, nil, nil)

	if err := UpdateUser(ctx, database, user.ID, model.RoleManager, &business.ID, &outlet.ID); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	got, _ := GetUser(ctx, database, user.ID)
	if got.Role != model.RoleManager {
		t.Errorf("expected role manager, got %q", got.Role)
	}
	if got.DefaultOutletID == nil || *got.DefaultOutletID != outlet.ID {
		t.Errorf("expected outlet %d, got %v", outlet.ID, got.DefaultOutletID)
	}
}

func TestDeleteUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "deleteme", "hash", model.RoleUser, nil, nil)
	DeleteUser(ctx, database, user.ID)

	users, _ := ListUsers(ctx, database)
	if len(users) != 0 {
		t.Errorf("expected 0 users after delete, got %d", len(users))
	}
}

func TestUpdateUserPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "pwuser", "oldhash", model.RoleUser, nil, nil)
	UpdateUserPassword(ctx, database, user.ID, "newhash")

	got, _ := GetUser(ctx, database, user.ID)
	if got.PasswordHash != "newhash" {
		t.Errorf("expected password hash 'newhash', got %q", got.PasswordHash)
	}
}
