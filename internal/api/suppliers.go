package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/anovak/pharmstock/internal/model"
	"github.com/anovak/pharmstock/internal/store"
)

// SuppliersHandler handles supplier endpoints, scoped to the caller's business.
type SuppliersHandler struct {
	DB *sql.DB
}

type supplierRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// List handles GET /api/suppliers.
func (h *SuppliersHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := GetCaller(r.Context())

	suppliers, err := store.ListSuppliers(r.Context(), h.DB, caller.BusinessID)
	if err != nil {
		slog.Error("failed to list suppliers", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list suppliers")
		return
	}
	if suppliers == nil {
		suppliers = []model.Supplier{}
	}
	jsonResponse(w, http.StatusOK, suppliers)
}

// Create handles POST /api/suppliers.
func (h *SuppliersHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := GetCaller(r.Context())

	var req supplierRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}
	if req.Email != "" && !strings.Contains(req.Email, "@") {
		jsonError(w, http.StatusBadRequest, "invalid email")
		return
	}

	supplier, err := store.CreateSupplier(r.Context(), h.DB, caller.BusinessID, req.Name, req.Email)
	if err != nil {
		slog.Error("failed to create supplier", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create supplier")
		return
	}

	slog.Info("supplier created", "user", caller.Username, "supplier", req.Name)
	jsonResponse(w, http.StatusCreated, supplier)
}

// Get handles GET /api/suppliers/{id}.
func (h *SuppliersHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller := GetCaller(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid supplier id")
		return
	}

	supplier, err := store.GetSupplier(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get supplier")
		return
	}
	if supplier == nil || supplier.BusinessID != caller.BusinessID {
		jsonError(w, http.StatusNotFound, "supplier not found")
		return
	}

	jsonResponse(w, http.StatusOK, supplier)
}

// Update handles PUT /api/suppliers/{id}.
func (h *SuppliersHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller := GetCaller(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid supplier id")
		return
	}

	var req supplierRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	existing, err := store.GetSupplier(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get supplier")
		return
	}
	if existing == nil || existing.BusinessID != caller.BusinessID {
		jsonError(w, http.StatusNotFound, "supplier not found")
		return
	}

	if err := store.UpdateSupplier(r.Context(), h.DB, id, req.Name, req.Email); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update supplier")
		return
	}

	supplier, _ := store.GetSupplier(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, supplier)
}

// Delete handles DELETE /api/suppliers/{id}.
func (h *SuppliersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := GetCaller(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid supplier id")
		return
	}

	existing, err := store.GetSupplier(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get supplier")
		return
	}
	if existing == nil || existing.BusinessID != caller.BusinessID {
		jsonError(w, http.StatusNotFound, "supplier not found")
		return
	}

	if err := store.DeleteSupplier(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete supplier")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "supplier deleted"})
}
