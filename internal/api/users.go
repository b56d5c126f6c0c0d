package api

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/anovak/pharmstock/internal/model"
	"github.com/anovak/pharmstock/internal/store"
)

// UsersHandler serves the admin-only account management endpoints.
type UsersHandler struct {
	DB *sql.DB
}

type createUserRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	Role            string `json:"role"`
	BusinessID      *int64 `json:"business_id"`
	DefaultOutletID *int64 `json:"default_outlet_id"`
}

type updateUserRequest struct {
	Role            string `json:"role"`
	BusinessID      *int64 `json:"business_id"`
	DefaultOutletID *int64 `json:"default_outlet_id"`
}

func validRole(role string) bool {
	return role == model.RoleAdmin || role == model.RoleManager || role == model.RoleUser
}

// userID parses the {id} path segment, writing a 400 on failure.
func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return id, true
}

// validateAssignment checks that a default outlet, when given, belongs to
// the business the user is being assigned to.
func validateAssignment(r *http.Request, db *sql.DB, businessID, outletID *int64) error {
	if outletID == nil {
		return nil
	}
	if businessID == nil {
		return fmt.Errorf("default outlet requires a business")
	}
	outlet, err := store.GetOutlet(r.Context(), db, *outletID)
	if err != nil {
		return fmt.Errorf("looking up outlet: %w", err)
	}
	if outlet == nil || outlet.BusinessID != *businessID {
		return fmt.Errorf("outlet does not belong to the business")
	}
	return nil
}

// List handles GET /api/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := store.ListUsers(r.Context(), h.DB)
	if err != nil {
		slog.Error("listing users", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if users == nil {
		users = []model.User{}
	}
	jsonResponse(w, http.StatusOK, users)
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch {
	case req.Username == "" || req.Password == "" || req.Role == "":
		jsonError(w, http.StatusBadRequest, "username, password, and role required")
		return
	case !validRole(req.Role):
		jsonError(w, http.StatusBadRequest, "invalid role")
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateAssignment(r, h.DB, req.BusinessID, req.DefaultOutletID); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user, err := store.CreateUser(r.Context(), h.DB, req.Username, string(hash), req.Role, req.BusinessID, req.DefaultOutletID)
	if err != nil {
		jsonError(w, http.StatusConflict, "username already exists")
		return
	}

	slog.Info("user created", "by", GetClaims(r.Context()).Username, "new_user", req.Username, "role", req.Role)
	jsonResponse(w, http.StatusCreated, user)
}

// Get handles GET /api/users/{id}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("loading user", "id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	if user == nil {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// Update handles PUT /api/users/{id}: role and business/outlet assignment.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validRole(req.Role) {
		jsonError(w, http.StatusBadRequest, "invalid role")
		return
	}
	if err := validateAssignment(r, h.DB, req.BusinessID, req.DefaultOutletID); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.UpdateUser(r.Context(), h.DB, id, req.Role, req.BusinessID, req.DefaultOutletID); err != nil {
		slog.Error("updating user", "id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	user, _ := store.GetUser(r.Context(), h.DB, id)
	if user != nil {
		slog.Info("user updated", "by", GetClaims(r.Context()).Username, "target", user.Username, "role", req.Role)
	}
	jsonResponse(w, http.StatusOK, user)
}

// ResetPassword handles PUT /api/users/{id}/password.
func (h *UsersHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}
	if err := store.UpdateUserPassword(r.Context(), h.DB, id, string(hash)); err != nil {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}

	slog.Info("password reset", "by", GetClaims(r.Context()).Username, "target", targetName(r, h.DB, id))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "password reset"})
}

// Delete handles DELETE /api/users/{id}. Admins cannot delete themselves,
// which keeps at least one working admin account around.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	claims := GetClaims(r.Context())
	if claims != nil && claims.UserID == id {
		jsonError(w, http.StatusBadRequest, "cannot delete yourself")
		return
	}

	name := targetName(r, h.DB, id)
	if err := store.DeleteUser(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}

	slog.Info("user deleted", "by", claims.Username, "target", name)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

// targetName resolves a user id to a username for log lines, falling back
// to the raw id when the row is already gone.
func targetName(r *http.Request, db *sql.DB, id int64) string {
	if u, _ := store.GetUser(r.Context(), db, id); u != nil {
		return u.Username
	}
	return fmt.Sprintf("id:%d", id)
}
