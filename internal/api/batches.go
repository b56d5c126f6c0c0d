package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/anovak/pharmstock/internal/model"
	"github.com/anovak/pharmstock/internal/store"
)

// BatchesHandler handles product batch endpoints.
type BatchesHandler struct {
	DB *sql.DB
}

type createBatchRequest struct {
	OutletID   int64  `json:"outlet_id"`
	ProductID  int64  `json:"product_id"`
	SupplierID *int64 `json:"supplier_id"`
	BatchRef   string `json:"batch_ref"`
	Quantity   int    `json:"quantity"`
	UnitCost   string `json:"unit_cost"`
	ExpiryDate string `json:"expiry_date"`
}

type adjustBatchRequest struct {
	Delta int `json:"delta"`
}

// Create handles POST /api/batches.
func (h *BatchesHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := GetCaller(r.Context())

	var req createBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.OutletID == 0 || req.ProductID == 0 {
		jsonError(w, http.StatusBadRequest, "outlet_id and product_id required")
		return
	}
	if req.Quantity < 0 {
		jsonError(w, http.StatusBadRequest, "quantity must not be negative")
		return
	}

	outlet, err := store.GetOutlet(r.Context(), h.DB, req.OutletID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get outlet")
		return
	}
	if outlet == nil || outlet.BusinessID != caller.BusinessID {
		jsonError(w, http.StatusNotFound, "outlet not found")
		return
	}

	product, err := store.GetProduct(r.Context(), h.DB, req.ProductID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get product")
		return
	}
	if product == nil || product.BusinessID != caller.BusinessID {
		jsonError(w, http.StatusNotFound, "product not found")
		return
	}

	unitCost := decimal.Zero
	if req.UnitCost != "" {
		unitCost, err = decimal.NewFromString(req.UnitCost)
		if err != nil || unitCost.IsNegative() {
			jsonError(w, http.StatusBadRequest, "invalid unit cost")
			return
		}
	}

	expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "expiry_date must be YYYY-MM-DD")
		return
	}

	batch, err := store.CreateProductBatch(r.Context(), h.DB, caller.BusinessID, req.OutletID,
		req.ProductID, req.SupplierID, req.BatchRef, req.Quantity, unitCost, expiry)
	if err != nil {
		slog.Error("failed to create batch", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create batch")
		return
	}

	slog.Info("batch created", "user", caller.Username, "product", product.Name,
		"outlet", outlet.Name, "quantity", req.Quantity)
	jsonResponse(w, http.StatusCreated, batch)
}

// List handles GET /api/outlets/{id}/batches?product=N.
func (h *BatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := GetCaller(r.Context())

	outletID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid outlet id")
		return
	}

	outlet, err := store.GetOutlet(r.Context(), h.DB, outletID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get outlet")
		return
	}
	if outlet == nil || outlet.BusinessID != caller.BusinessID {
		jsonError(w, http.StatusNotFound, "outlet not found")
		return
	}

	var productID int64
	if p := r.URL.Query().Get("product"); p != "" {
		productID, err = strconv.ParseInt(p, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid product filter")
			return
		}
	}

	batches, err := store.ListProductBatches(r.Context(), h.DB, outletID, productID)
	if err != nil {
		slog.Error("failed to list batches", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list batches")
		return
	}
	if batches == nil {
		batches = []model.ProductBatch{}
	}
	jsonResponse(w, http.StatusOK, batches)
}

// Get handles GET /api/batches/{id}.
func (h *BatchesHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller := GetCaller(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid batch id")
		return
	}

	batch, err := store.GetProductBatch(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get batch")
		return
	}
	if batch == nil || batch.BusinessID != caller.BusinessID {
		jsonError(w, http.StatusNotFound, "batch not found")
		return
	}

	jsonResponse(w, http.StatusOK, batch)
}

// Adjust handles POST /api/batches/{id}/adjust. Applies a signed quantity
// delta for receipts, spoilage, and count corrections.
func (h *BatchesHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	caller := GetCaller(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid batch id")
		return
	}

	var req adjustBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Delta == 0 {
		jsonError(w, http.StatusBadRequest, "delta must be non-zero")
		return
	}

	existing, err := store.GetProductBatch(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get batch")
		return
	}
	if existing == nil || existing.BusinessID != caller.BusinessID {
		jsonError(w, http.StatusNotFound, "batch not found")
		return
	}

	batch, err := store.AdjustProductBatch(r.Context(), h.DB, id, req.Delta)
	if err != nil {
		domainError(w, err)
		return
	}

	slog.Info("batch adjusted", "user", caller.Username, "batch", id, "delta", req.Delta)
	jsonResponse(w, http.StatusOK, batch)
}
