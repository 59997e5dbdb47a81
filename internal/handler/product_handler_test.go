package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"larder/internal/events"
	"larder/internal/expiry"
	"larder/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestProductHandler_Add(t *testing.T) {
	logger := zerolog.Nop()

	valid := model.NewProduct{Name: "Lait", ExpiryDate: "2026-10-20", Location: model.LocationFridge}

	tests := []struct {
		name           string
		body           string
		mockID         string
		mockError      error
		expectedStatus int
		expectedCode   string
		expectService  bool
	}{
		{
			name:           "Success",
			body:           `{"name":"Lait","expiry_date":"2026-10-20","location":"fridge"}`,
			mockID:         "a1b2c3d4",
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name:           "Invalid JSON",
			body:           `{"name":`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidJSON,
		},
		{
			name:           "Empty body",
			body:           ``,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidJSON,
		},
		{
			name:           "Invalid date",
			body:           `{"name":"Lait","expiry_date":"2026-10-20","location":"fridge"}`,
			mockError:      &model.DateError{Value: "2026-10-20"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidDate,
			expectService:  true,
		},
		{
			name:           "Domain error",
			body:           `{"name":"Lait","expiry_date":"2026-10-20","location":"fridge"}`,
			mockError:      model.ErrMissingName,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeMissingField,
			expectService:  true,
		},
		{
			name:           "Storage failure",
			body:           `{"name":"Lait","expiry_date":"2026-10-20","location":"fridge"}`,
			mockError:      errors.New("disk full"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   model.ErrCodeInternalError,
			expectService:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockInventoryService)
			handler := NewProductHandler(mockService, logger)

			if tt.expectService {
				mockService.On("AddProduct", mock.Anything, valid).Return(tt.mockID, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.Add(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, tt.expectedCode == "", body["success"])
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, body["error"])
				assert.NotContains(t, body["message"], "disk full", "internal errors are not exposed")
			} else {
				assert.Equal(t, tt.mockID, body["product_id"])
			}

			mockService.AssertExpectations(t)
		})
	}
}

func TestProductHandler_List(t *testing.T) {
	logger := zerolog.Nop()
	days := 5

	mockService := new(MockInventoryService)
	mockService.On("ListProducts", mock.Anything, model.LocationFridge).Return([]model.ProductView{
		{ID: "a1b2c3d4", Product: model.Product{Name: "Lait", Location: model.LocationFridge, ExpiryDate: "2026-10-20", Quantity: 1}, DaysUntilExpiry: &days},
	}, nil)
	mockService.On("ListProducts", mock.Anything, model.Location("cellar")).
		Return(nil, model.NewDomainError(model.ErrCodeInvalidLocation, "unknown location"))

	handler := NewProductHandler(mockService, logger)

	w := httptest.NewRecorder()
	handler.List(w, httptest.NewRequest(http.MethodGet, "/api/products?location=fridge", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["count"])
	products := body["products"].([]any)
	first := products[0].(map[string]any)
	assert.Equal(t, "a1b2c3d4", first["id"])
	assert.Equal(t, float64(5), first["days_until_expiry"])

	w = httptest.NewRecorder()
	handler.List(w, httptest.NewRequest(http.MethodGet, "/api/products?location=cellar", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, model.ErrCodeInvalidLocation, decodeBody(t, w)["error"])
}

func TestProductHandler_RemoveAndUpdate(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		call           func(h *ProductHandler, w http.ResponseWriter, r *http.Request)
		method         string
		body           string
		setup          func(m *MockInventoryService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:   "Remove existing",
			call:   (*ProductHandler).Remove,
			method: http.MethodDelete,
			setup: func(m *MockInventoryService) {
				m.On("RemoveProduct", mock.Anything, "a1b2c3d4").Return(true, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Remove unknown",
			call:   (*ProductHandler).Remove,
			method: http.MethodDelete,
			setup: func(m *MockInventoryService) {
				m.On("RemoveProduct", mock.Anything, "a1b2c3d4").Return(false, nil)
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   model.ErrCodeProductNotFound,
		},
		{
			name:   "Update quantity",
			call:   (*ProductHandler).UpdateQuantity,
			method: http.MethodPut,
			body:   `{"quantity": 0}`,
			setup: func(m *MockInventoryService) {
				m.On("UpdateQuantity", mock.Anything, "a1b2c3d4", 0).Return(true, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Update quantity without value",
			call:           (*ProductHandler).UpdateQuantity,
			method:         http.MethodPut,
			body:           `{}`,
			setup:          func(m *MockInventoryService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeMissingField,
		},
		{
			name:   "Update quantity of unknown product",
			call:   (*ProductHandler).UpdateQuantity,
			method: http.MethodPut,
			body:   `{"quantity": 3}`,
			setup: func(m *MockInventoryService) {
				m.On("UpdateQuantity", mock.Anything, "a1b2c3d4", 3).Return(false, nil)
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   model.ErrCodeProductNotFound,
		},
		{
			name:   "Patch fields",
			call:   (*ProductHandler).Update,
			method: http.MethodPatch,
			body:   `{"zone": "Zone 2"}`,
			setup: func(m *MockInventoryService) {
				m.On("UpdateProduct", mock.Anything, "a1b2c3d4", mock.MatchedBy(func(u model.ProductUpdate) bool {
					return u.Zone != nil && *u.Zone == "Zone 2" && u.Name == nil && u.Quantity == nil
				})).Return(true, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Patch with bad date",
			call:   (*ProductHandler).Update,
			method: http.MethodPatch,
			body:   `{"expiry_date": "soon"}`,
			setup: func(m *MockInventoryService) {
				m.On("UpdateProduct", mock.Anything, "a1b2c3d4", mock.Anything).Return(false, &model.DateError{Value: "soon"})
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockInventoryService)
			tt.setup(mockService)
			handler := NewProductHandler(mockService, logger)

			req := httptest.NewRequest(tt.method, "/api/products/a1b2c3d4", bytes.NewBufferString(tt.body))
			req.SetPathValue("id", "a1b2c3d4")
			w := httptest.NewRecorder()

			tt.call(handler, w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, tt.expectedCode == "", body["success"])
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, body["error"])
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestProductHandler_Scan(t *testing.T) {
	logger := zerolog.Nop()

	mockService := new(MockInventoryService)
	mockService.On("ScanAndAdd", mock.Anything, model.ScanRequest{
		Barcode:    "0000000000017",
		ExpiryDate: "2026-11-01",
		Location:   model.LocationPantry,
	}).Return(&model.ScanResult{
		ProductID:   "a1b2c3d4",
		Name:        "Produit 0000000000017",
		Category:    "Autre",
		Source:      "Manual",
		Placeholder: true,
		Warning:     "Produit non trouvé dans les bases de données",
	}, nil)

	handler := NewProductHandler(mockService, logger)

	req := httptest.NewRequest(http.MethodPost, "/api/scan", bytes.NewBufferString(`{"barcode":"0000000000017","expiry_date":"2026-11-01","location":"pantry"}`))
	w := httptest.NewRecorder()
	handler.Scan(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "a1b2c3d4", body["product_id"])
	assert.Equal(t, true, body["placeholder"])
	assert.Equal(t, "Manual", body["source"])
	assert.Equal(t, "Produit non trouvé dans les bases de données", body["warning"])
	mockService.AssertExpectations(t)
}

func TestProductHandler_Lookup(t *testing.T) {
	logger := zerolog.Nop()

	mockService := new(MockInventoryService)
	mockService.On("LookupProduct", mock.Anything, "3017620422003").
		Return(&model.ProductInfo{Barcode: "3017620422003", Name: "Nutella", Source: "Open Food Facts"}, true, nil)
	mockService.On("LookupProduct", mock.Anything, "1").Return(nil, false, nil)

	handler := NewProductHandler(mockService, logger)

	req := httptest.NewRequest(http.MethodGet, "/api/lookup/3017620422003", nil)
	req.SetPathValue("barcode", "3017620422003")
	w := httptest.NewRecorder()
	handler.Lookup(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["found"])
	assert.Equal(t, "Nutella", body["product"].(map[string]any)["name"])

	req = httptest.NewRequest(http.MethodGet, "/api/lookup/1", nil)
	req.SetPathValue("barcode", "1")
	w = httptest.NewRecorder()
	handler.Lookup(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, false, body["found"])
	assert.Nil(t, body["product"])
}

func TestProductHandler_Expiring(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		query          string
		days           int
		expectService  bool
		expectedStatus int
	}{
		{name: "Default window", query: "", days: 3, expectService: true, expectedStatus: http.StatusOK},
		{name: "Custom window", query: "?days=7", days: 7, expectService: true, expectedStatus: http.StatusOK},
		{name: "Invalid days", query: "?days=week", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockInventoryService)
			if tt.expectService {
				mockService.On("ExpiringWithin", mock.Anything, tt.days).Return([]model.ProductView{})
			}
			handler := NewProductHandler(mockService, logger)

			w := httptest.NewRecorder()
			handler.Expiring(w, httptest.NewRequest(http.MethodGet, "/api/expiring"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestProductHandler_ClearLocationAndReset(t *testing.T) {
	logger := zerolog.Nop()

	mockService := new(MockInventoryService)
	mockService.On("ClearLocation", mock.Anything, model.LocationFreezer).Return(4, nil)
	mockService.On("ResetAll", mock.Anything).Return(model.ResetResult{Products: 7, History: 12}, nil)
	handler := NewProductHandler(mockService, logger)

	req := httptest.NewRequest(http.MethodDelete, "/api/locations/freezer/products", nil)
	req.SetPathValue("location", "freezer")
	w := httptest.NewRecorder()
	handler.ClearLocation(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(4), decodeBody(t, w)["count"])

	req = httptest.NewRequest(http.MethodDelete, "/api/locations/garage/products", nil)
	req.SetPathValue("location", "garage")
	w = httptest.NewRecorder()
	handler.ClearLocation(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, model.ErrCodeInvalidLocation, decodeBody(t, w)["error"])

	w = httptest.NewRecorder()
	handler.Reset(w, httptest.NewRequest(http.MethodPost, "/api/reset", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(7), body["products"])
	assert.Equal(t, float64(12), body["history"])

	mockService.AssertExpectations(t)
}

func TestProductHandler_SummaryAndEvents(t *testing.T) {
	logger := zerolog.Nop()

	mockService := new(MockInventoryService)
	mockService.On("Summary", mock.Anything).Return(expiry.Summary{
		TotalProducts: 2,
		Locations:     map[model.Location]expiry.LocationSummary{},
		Expired:       []expiry.Item{},
		ExpiringToday: []expiry.Item{{ProductID: "a1b2c3d4", Name: "Salade"}},
		ExpiringSoon:  []expiry.Item{},
	})
	mockService.On("DrainEvents", mock.Anything).Return(nil).Once()
	handler := NewProductHandler(mockService, logger)

	w := httptest.NewRecorder()
	handler.Summary(w, httptest.NewRequest(http.MethodGet, "/api/summary", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["total_products"])
	assert.Len(t, body["expiring_today"], 1)

	w = httptest.NewRecorder()
	handler.Events(w, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, decodeBody(t, w)["events"])

	mockService.On("DrainEvents", mock.Anything).Return([]events.Event{
		{Seq: 1, Type: events.TopicProductRemoved, Data: events.ProductRemoved{ProductID: "a1b2c3d4", Name: "Lait"}},
	}).Once()

	w = httptest.NewRecorder()
	handler.Events(w, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	drained := decodeBody(t, w)["events"].([]any)
	require.Len(t, drained, 1)
	ev := drained[0].(map[string]any)
	assert.Equal(t, events.TopicProductRemoved, ev["event_type"])
	assert.Equal(t, "Lait", ev["data"].(map[string]any)["name"])
}
