package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/anovak/pharmstock/internal/model"
	"github.com/anovak/pharmstock/internal/store"
)

// BusinessesHandler handles business and outlet endpoints.
type BusinessesHandler struct {
	DB *sql.DB
}

type createBusinessRequest struct {
	Name string `json:"name"`
}

type outletRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// List handles GET /api/businesses.
func (h *BusinessesHandler) List(w http.ResponseWriter, r *http.Request) {
	businesses, err := store.ListBusinesses(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list businesses", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list businesses")
		return
	}
	if businesses == nil {
		businesses = []model.Business{}
	}
	jsonResponse(w, http.StatusOK, businesses)
}

// Create handles POST /api/businesses.
func (h *BusinessesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBusinessRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	business, err := store.CreateBusiness(r.Context(), h.DB, req.Name)
	if err != nil {
		slog.Error("failed to create business", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create business")
		return
	}

	caller := GetCaller(r.Context())
	slog.Info("business created", "user", caller.Username, "business", req.Name)
	jsonResponse(w, http.StatusCreated, business)
}

// Get handles GET /api/businesses/{id}.
func (h *BusinessesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid business id")
		return
	}

	business, err := store.GetBusiness(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get business")
		return
	}
	if business == nil {
		jsonError(w, http.StatusNotFound, "business not found")
		return
	}

	jsonResponse(w, http.StatusOK, business)
}

// Delete handles DELETE /api/businesses/{id}.
func (h *BusinessesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid business id")
		return
	}

	if err := store.DeleteBusiness(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete business")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "business deleted"})
}

// ListOutlets handles GET /api/businesses/{id}/outlets.
func (h *BusinessesHandler) ListOutlets(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid business id")
		return
	}

	outlets, err := store.ListOutlets(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to list outlets", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list outlets")
		return
	}
	if outlets == nil {
		outlets = []model.Outlet{}
	}
	jsonResponse(w, http.StatusOK, outlets)
}

// CreateOutlet handles POST /api/businesses/{id}/outlets.
func (h *BusinessesHandler) CreateOutlet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid business id")
		return
	}

	var req outletRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}
	if req.Kind != model.OutletKindStore && req.Kind != model.OutletKindWarehouse {
		jsonError(w, http.StatusBadRequest, "kind must be store or warehouse")
		return
	}

	business, err := store.GetBusiness(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get business")
		return
	}
	if business == nil {
		jsonError(w, http.StatusNotFound, "business not found")
		return
	}

	outlet, err := store.CreateOutlet(r.Context(), h.DB, id, req.Name, req.Kind)
	if err != nil {
		slog.Error("failed to create outlet", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create outlet")
		return
	}

	caller := GetCaller(r.Context())
	slog.Info("outlet created", "user", caller.Username, "business", business.Name, "outlet", req.Name)
	jsonResponse(w, http.StatusCreated, outlet)
}

// GetOutlet handles GET /api/outlets/{id}.
func (h *BusinessesHandler) GetOutlet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid outlet id")
		return
	}

	outlet, err := store.GetOutlet(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get outlet")
		return
	}
	if outlet == nil {
		jsonError(w, http.StatusNotFound, "outlet not found")
		return
	}

	jsonResponse(w, http.StatusOK, outlet)
}

// UpdateOutlet handles PUT /api/outlets/{id}.
func (h *BusinessesHandler) UpdateOutlet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid outlet id")
		return
	}

	var req outletRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}
	if req.Kind != model.OutletKindStore && req.Kind != model.OutletKindWarehouse {
		jsonError(w, http.StatusBadRequest, "kind must be store or warehouse")
		return
	}

	if err := store.UpdateOutlet(r.Context(), h.DB, id, req.Name, req.Kind); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update outlet")
		return
	}

	outlet, _ := store.GetOutlet(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, outlet)
}

// DeleteOutlet handles DELETE /api/outlets/{id}.
func (h *BusinessesHandler) DeleteOutlet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid outlet id")
		return
	}

	if err := store.DeleteOutlet(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete outlet")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "outlet deleted"})
}
