package handler

import (
	"net/http"

	"larder/internal/model"
	"larder/internal/service"
	"larder/internal/taxonomy"

	"github.com/rs/zerolog"
)

// TaxonomyHandler serves the category or zone lists of each location.
type TaxonomyHandler struct {
	service service.InventoryService
	kind    taxonomy.Kind
	logger  zerolog.Logger
}

// NewTaxonomyHandler creates a handler for one taxonomy kind.
func NewTaxonomyHandler(service service.InventoryService, kind taxonomy.Kind, logger zerolog.Logger) *TaxonomyHandler {
	return &TaxonomyHandler{
		service: service,
		kind:    kind,
		logger:  logger.With().Str("handler", string(kind)).Logger(),
	}
}

// EntriesResponse lists the entries of a location.
type EntriesResponse struct {
	Response
	Kind     taxonomy.Kind  `json:"kind"`
	Location model.Location `json:"location"`
	Entries  []string       `json:"entries"`
}

// ChangedResponse reports whether a taxonomy command changed anything.
type ChangedResponse struct {
	Response
	Changed bool `json:"changed"`
}

type entryRequest struct {
	Name string `json:"name"`
}

type renameRequest struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// List handles GET /api/{kind}/{location}.
func (h *TaxonomyHandler) List(w http.ResponseWriter, r *http.Request) {
	loc, err := pathLocation(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	entries, err := h.service.ListTaxonomy(r.Context(), h.kind, loc)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	h.writeEntries(w, loc, entries)
}

// Add handles POST /api/{kind}/{location}.
func (h *TaxonomyHandler) Add(w http.ResponseWriter, r *http.Request) {
	loc, err := pathLocation(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	var req entryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, err.Error(), h.logger)
		return
	}

	added, err := h.service.AddTaxonomy(r.Context(), h.kind, req.Name, loc)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, ChangedResponse{Response: ok(), Changed: added})
}

// Remove handles DELETE /api/{kind}/{location}/{name}.
func (h *TaxonomyHandler) Remove(w http.ResponseWriter, r *http.Request) {
	loc, err := pathLocation(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	removed, err := h.service.RemoveTaxonomy(r.Context(), h.kind, r.PathValue("name"), loc)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, ChangedResponse{Response: ok(), Changed: removed})
}

// Rename handles POST /api/{kind}/{location}/rename.
func (h *TaxonomyHandler) Rename(w http.ResponseWriter, r *http.Request) {
	loc, err := pathLocation(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	var req renameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, err.Error(), h.logger)
		return
	}

	renamed, err := h.service.RenameTaxonomy(r.Context(), h.kind, req.OldName, req.NewName, loc)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, ChangedResponse{Response: ok(), Changed: renamed})
}

// Reset handles POST /api/{kind}/{location}/reset.
func (h *TaxonomyHandler) Reset(w http.ResponseWriter, r *http.Request) {
	loc, err := pathLocation(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	entries, err := h.service.ResetTaxonomy(r.Context(), h.kind, loc)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	h.writeEntries(w, loc, entries)
}

func (h *TaxonomyHandler) writeEntries(w http.ResponseWriter, loc model.Location, entries []string) {
	if entries == nil {
		entries = []string{}
	}
	writeJSON(w, http.StatusOK, EntriesResponse{Response: ok(), Kind: h.kind, Location: loc, Entries: entries})
}
