package handler

import (
	"net/http"
	"strconv"

	"larder/internal/events"
	"larder/internal/expiry"
	"larder/internal/model"
	"larder/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.InventoryService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.InventoryService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// ProductIDResponse acknowledges a created product.
type ProductIDResponse struct {
	Response
	ProductID string `json:"product_id"`
}

// ProductsResponse lists products.
type ProductsResponse struct {
	Response
	Count    int                 `json:"count"`
	Products []model.ProductView `json:"products"`
}

// ScanResponse reports the product created by a scan.
type ScanResponse struct {
	Response
	*model.ScanResult
}

// LookupResponse reports a lookup without side effects.
type LookupResponse struct {
	Response
	Found   bool               `json:"found"`
	Product *model.ProductInfo `json:"product"`
}

// CountResponse reports how many products an operation affected.
type CountResponse struct {
	Response
	Count int `json:"count"`
}

// ResetResponse reports what a full reset discarded.
type ResetResponse struct {
	Response
	model.ResetResult
}

// SummaryResponse is the read-only inventory overview.
type SummaryResponse struct {
	Response
	expiry.Summary
}

// EventsResponse carries drained events.
type EventsResponse struct {
	Response
	Events []events.Event `json:"events"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

// Add handles POST /api/products.
func (h *ProductHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req model.NewProduct
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, err.Error(), h.logger)
		return
	}

	id, err := h.service.AddProduct(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, ProductIDResponse{Response: ok(), ProductID: id})
}

// List handles GET /api/products?location=.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	loc := model.Location(r.URL.Query().Get("location"))

	products, err := h.service.ListProducts(r.Context(), loc)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, ProductsResponse{Response: ok(), Count: len(products), Products: products})
}

// Update handles PATCH /api/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req model.ProductUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, err.Error(), h.logger)
		return
	}

	updated, err := h.service.UpdateProduct(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if !updated {
		notFound(w, id, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, ok())
}

// Remove handles DELETE /api/products/{id}.
func (h *ProductHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	removed, err := h.service.RemoveProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if !removed {
		notFound(w, id, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, ok())
}

// UpdateQuantity handles PUT /api/products/{id}/quantity.
func (h *ProductHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req quantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, err.Error(), h.logger)
		return
	}
	if req.Quantity == nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "quantity is required", h.logger)
		return
	}

	updated, err := h.service.UpdateQuantity(r.Context(), id, *req.Quantity)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if !updated {
		notFound(w, id, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, ok())
}

// Scan handles POST /api/scan.
func (h *ProductHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var req model.ScanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, err.Error(), h.logger)
		return
	}

	result, err := h.service.ScanAndAdd(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, ScanResponse{Response: ok(), ScanResult: result})
}

// Lookup handles GET /api/lookup/{barcode}.
func (h *ProductHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	info, found, err := h.service.LookupProduct(r.Context(), r.PathValue("barcode"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, LookupResponse{Response: ok(), Found: found, Product: info})
}

// Expiring handles GET /api/expiring?days=.
func (h *ProductHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	days := expiry.DefaultSoonDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		var err error
		days, err = strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid days parameter", h.logger)
			return
		}
	}

	products := h.service.ExpiringWithin(r.Context(), days)
	writeJSON(w, http.StatusOK, ProductsResponse{Response: ok(), Count: len(products), Products: products})
}

// ClearLocation handles DELETE /api/locations/{location}/products.
func (h *ProductHandler) ClearLocation(w http.ResponseWriter, r *http.Request) {
	loc, err := pathLocation(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	count, err := h.service.ClearLocation(r.Context(), loc)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, CountResponse{Response: ok(), Count: count})
}

// Reset handles POST /api/reset.
func (h *ProductHandler) Reset(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ResetAll(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, ResetResponse{Response: ok(), ResetResult: result})
}

// Summary handles GET /api/summary.
func (h *ProductHandler) Summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SummaryResponse{Response: ok(), Summary: h.service.Summary(r.Context())})
}

// History handles GET /api/history.
func (h *ProductHandler) History(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Response
		History []model.HistoryEntry `json:"history"`
	}{Response: ok(), History: h.service.History(r.Context())})
}

// Events handles GET /api/events.
func (h *ProductHandler) Events(w http.ResponseWriter, r *http.Request) {
	drained := h.service.DrainEvents(r.Context())
	if drained == nil {
		drained = []events.Event{}
	}
	writeJSON(w, http.StatusOK, EventsResponse{Response: ok(), Events: drained})
}
