package router

import (
	"net/http"

	"larder/internal/handler"
	"larder/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Products   *handler.ProductHandler
	Categories *handler.TaxonomyHandler
	Zones      *handler.TaxonomyHandler
	Transfer   *handler.TransferHandler
	Metrics    http.Handler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, apiKey string, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success": true, "status": "healthy"}`))
	})
	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}

	mux.HandleFunc("POST /api/products", h.Products.Add)
	mux.HandleFunc("GET /api/products", h.Products.List)
	mux.HandleFunc("PATCH /api/products/{id}", h.Products.Update)
	mux.HandleFunc("DELETE /api/products/{id}", h.Products.Remove)
	mux.HandleFunc("PUT /api/products/{id}/quantity", h.Products.UpdateQuantity)
	mux.HandleFunc("POST /api/scan", h.Products.Scan)
	mux.HandleFunc("GET /api/lookup/{barcode}", h.Products.Lookup)
	mux.HandleFunc("GET /api/expiring", h.Products.Expiring)
	mux.HandleFunc("GET /api/summary", h.Products.Summary)
	mux.HandleFunc("GET /api/history", h.Products.History)
	mux.HandleFunc("GET /api/events", h.Products.Events)
	mux.HandleFunc("DELETE /api/locations/{location}/products", h.Products.ClearLocation)
	mux.HandleFunc("POST /api/reset", h.Products.Reset)

	// Categories and zones share one set of routes
	for prefix, th := range map[string]*handler.TaxonomyHandler{
		"/api/categories": h.Categories,
		"/api/zones":      h.Zones,
	} {
		mux.HandleFunc("GET "+prefix+"/{location}", th.List)
		mux.HandleFunc("POST "+prefix+"/{location}", th.Add)
		mux.HandleFunc("DELETE "+prefix+"/{location}/{name}", th.Remove)
		mux.HandleFunc("POST "+prefix+"/{location}/rename", th.Rename)
		mux.HandleFunc("POST "+prefix+"/{location}/reset", th.Reset)
	}

	mux.HandleFunc("GET /api/export", h.Transfer.Export)
	mux.HandleFunc("POST /api/import", h.Transfer.Import)

	// Apply middleware in order: RequestID -> Recovery -> Logging -> CORS -> APIKeyAuth
	var handler http.Handler = mux
	handler = middleware.APIKeyAuth(apiKey, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.RequestID(handler)

	return handler
}
