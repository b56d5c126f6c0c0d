package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/anovak/pharmstock/internal/imaging"
	"github.com/anovak/pharmstock/internal/model"
	"github.com/anovak/pharmstock/internal/store"
)

// ProductsHandler handles product catalog endpoints, scoped to the
// caller's business.
type ProductsHandler struct {
	DB *sql.DB
}

type productRequest struct {
	Name        string `json:"name"`
	SKU         string `json:"sku"`
	Description string `json:"description"`
}

// getScopedProduct loads a product and verifies it belongs to the caller's
// business. Writes the error response itself and returns nil on failure.
func (h *ProductsHandler) getScopedProduct(w http.ResponseWriter, r *http.Request) *model.Product {
	caller := GetCaller(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return nil
	}

	product, err := store.GetProduct(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get product", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get product")
		return nil
	}
	if product == nil || product.BusinessID != caller.BusinessID {
		jsonError(w, http.StatusNotFound, "product not found")
		return nil
	}
	return product
}

// List handles GET /api/products.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := GetCaller(r.Context())

	products, err := store.ListProducts(r.Context(), h.DB, caller.BusinessID)
	if err != nil {
		slog.Error("failed to list products", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	jsonResponse(w, http.StatusOK, products)
}

// Create handles POST /api/products.
func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := GetCaller(r.Context())

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.SKU == "" {
		jsonError(w, http.StatusBadRequest, "name and sku required")
		return
	}

	product, err := store.CreateProduct(r.Context(), h.DB, caller.BusinessID, req.Name, req.SKU, req.Description)
	if err != nil {
		jsonError(w, http.StatusConflict, "sku already exists")
		return
	}

	slog.Info("product created", "user", caller.Username, "product", req.Name, "sku", req.SKU)
	jsonResponse(w, http.StatusCreated, product)
}

// Get handles GET /api/products/{id}.
func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	product := h.getScopedProduct(w, r)
	if product == nil {
		return
	}
	jsonResponse(w, http.StatusOK, product)
}

// Update handles PUT /api/products/{id}.
func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	product := h.getScopedProduct(w, r)
	if product == nil {
		return
	}

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.SKU == "" {
		jsonError(w, http.StatusBadRequest, "name and sku required")
		return
	}

	if err := store.UpdateProduct(r.Context(), h.DB, product.ID, req.Name, req.SKU, req.Description); err != nil {
		jsonError(w, http.StatusConflict, "sku already exists")
		return
	}

	updated, _ := store.GetProduct(r.Context(), h.DB, product.ID)
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	product := h.getScopedProduct(w, r)
	if product == nil {
		return
	}

	if err := store.DeleteProduct(r.Context(), h.DB, product.ID); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// UploadImage handles PUT /api/products/{id}/image.
func (h *ProductsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	product := h.getScopedProduct(w, r)
	if product == nil {
		return
	}

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	result, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetProductImage(r.Context(), h.DB, product.ID, result.Data, result.MIME); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/products/{id}/image.
func (h *ProductsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	product := h.getScopedProduct(w, r)
	if product == nil {
		return
	}

	data, mime, err := store.GetProductImage(r.Context(), h.DB, product.ID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
