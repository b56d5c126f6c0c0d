package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/anovak/pharmstock/internal/model"
	"github.com/anovak/pharmstock/internal/store"
)

// TransfersHandler handles stock transfer endpoints.
type TransfersHandler struct {
	DB *sql.DB
}

type createTransferRequest struct {
	DestinationOutletID int64 `json:"destination_outlet_id"`
}

type editTransferRequest struct {
	DestinationOutletID int64 `json:"destination_outlet_id"`
}

type addTransferBatchRequest struct {
	ProductBatchID int64  `json:"product_batch_id"`
	QuantitySent   int    `json:"quantity_sent"`
	Comments       string `json:"comments"`
}

type editTransferBatchRequest struct {
	QuantitySent int    `json:"quantity_sent"`
	Comments     string `json:"comments"`
}

type deleteTransferBatchesRequest struct {
	ProductIDs []int64 `json:"product_ids"`
}

// Create handles POST /api/transfers. The caller's outlet is the source.
func (h *TransfersHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := GetCaller(r.Context())

	var req createTransferRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.DestinationOutletID == 0 {
		jsonError(w, http.StatusBadRequest, "destination_outlet_id required")
		return
	}

	transfer, err := store.CreateTransfer(r.Context(), h.DB, *caller, caller.BusinessID,
		caller.OutletID, req.DestinationOutletID)
	if err != nil {
		domainError(w, err)
		return
	}

	slog.Info("transfer created", "user", caller.Username, "transfer", transfer.ID,
		"source", transfer.SourceName, "destination", transfer.DestinationName)
	jsonResponse(w, http.StatusCreated, transfer)
}

// List handles GET /api/transfers. Returns transfers where the caller's
// outlet is either end.
func (h *TransfersHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := GetCaller(r.Context())

	transfers, err := store.ListTransfers(r.Context(), h.DB, *caller)
	if err != nil {
		slog.Error("failed to list transfers", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list transfers")
		return
	}
	if transfers == nil {
		transfers = []model.StockTransfer{}
	}
	jsonResponse(w, http.StatusOK, transfers)
}

// Get handles GET /api/transfers/{id}.
func (h *TransfersHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller := GetCaller(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid transfer id")
		return
	}

	transfer, err := store.GetTransfer(r.Context(), h.DB, *caller, id)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, transfer)
}

// Edit handles PUT /api/transfers/{id}. Only the destination can change,
// and only before the transfer is sent.
func (h *TransfersHandler) Edit(w http.ResponseWriter, r *http.Request) {
	caller := GetCaller(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid transfer id")
		return
	}

	var req editTransferRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.DestinationOutletID == 0 {
		jsonError(w, http.StatusBadRequest, "destination_outlet_id required")
		return
	}

	transfer, err := store.EditTransfer(r.Context(), h.DB, *caller, id, req.DestinationOutletID)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, transfer)
}

// Delete handles DELETE /api/transfers/{id}.
func (h *TransfersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := GetCaller(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid transfer id")
		return
	}

	if err := store.DeleteTransfer(r.Context(), h.DB, *caller, id); err != nil {
		domainError(w, err)
		return
	}

	slog.Info("transfer deleted", "user", caller.Username, "transfer", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "transfer deleted"})
}

// Send handles POST /api/transfers/{id}/send. Dispatches the transfer and
// decrements source stock.
func (h *TransfersHandler) Send(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, model.ActionSend)
}

// Query handles POST /api/transfers/{id}/query. Disputes an in-transit
// transfer and returns the stock to the source.
func (h *TransfersHandler) Query(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, model.ActionQuery)
}

func (h *TransfersHandler) act(w http.ResponseWriter, r *http.Request, action string) {
	caller := GetCaller(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid transfer id")
		return
	}

	transfer, err := store.SendOrQueryTransfer(r.Context(), h.DB, *caller, id, action)
	if err != nil {
		domainError(w, err)
		return
	}

	slog.Info("transfer status changed", "user", caller.Username, "transfer", id,
		"action", action, "status", transfer.Status)
	jsonResponse(w, http.StatusOK, transfer)
}

// Approve handles POST /api/transfers/{id}/approve. Receives the transfer
// into the destination outlet.
func (h *TransfersHandler) Approve(w http.ResponseWriter, r *http.Request) {
	caller := GetCaller(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid transfer id")
		return
	}

	transfer, err := store.ApproveTransfer(r.Context(), h.DB, *caller, id)
	if err != nil {
		domainError(w, err)
		return
	}

	slog.Info("transfer approved", "user", caller.Username, "transfer", id)
	jsonResponse(w, http.StatusOK, transfer)
}

// Aggregate handles GET /api/transfers/{id}/aggregate. Returns per-product
// totals across the transfer's lines.
func (h *TransfersHandler) Aggregate(w http.ResponseWriter, r *http.Request) {
	caller := GetCaller(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid transfer id")
		return
	}

	aggregates, err := store.AggregateTransfer(r.Context(), h.DB, *caller, id)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, aggregates)
}

// AddBatch handles POST /api/transfers/{id}/batches.
func (h *TransfersHandler) AddBatch(w http.ResponseWriter, r *http.Request) {
	caller := GetCaller(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid transfer id")
		return
	}

	var req addTransferBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ProductBatchID == 0 {
		jsonError(w, http.StatusBadRequest, "product_batch_id required")
		return
	}

	line, err := store.AddTransferBatch(r.Context(), h.DB, *caller, id, req.ProductBatchID,
		req.QuantitySent, req.Comments)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, line)
}

// EditBatch handles PUT /api/transfer-batches/{id}.
func (h *TransfersHandler) EditBatch(w http.ResponseWriter, r *http.Request) {
	caller := GetCaller(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid transfer batch id")
		return
	}

	var req editTransferBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	line, err := store.EditTransferBatch(r.Context(), h.DB, *caller, id, req.QuantitySent, req.Comments)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, line)
}

// DeleteBatch handles DELETE /api/transfer-batches/{id}.
func (h *TransfersHandler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	caller := GetCaller(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid transfer batch id")
		return
	}

	if err := store.DeleteTransferBatch(r.Context(), h.DB, *caller, id); err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "transfer batch deleted"})
}

// DeleteBatches handles DELETE /api/transfers/{id}/batches. Removes all
// lines for the given products in one call.
func (h *TransfersHandler) DeleteBatches(w http.ResponseWriter, r *http.Request) {
	caller := GetCaller(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid transfer id")
		return
	}

	var req deleteTransferBatchesRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.ProductIDs) == 0 {
		jsonError(w, http.StatusBadRequest, "product_ids required")
		return
	}

	removed, err := store.DeleteTransferBatches(r.Context(), h.DB, *caller, id, req.ProductIDs)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]int64{"removed": removed})
}
