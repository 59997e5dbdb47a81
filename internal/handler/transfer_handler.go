package handler

import (
	"errors"
	"io"
	"net/http"

	"larder/internal/model"
	"larder/internal/service"
	"larder/internal/transfer"

	"github.com/rs/zerolog"
)

// TransferHandler serves exports and imports.
type TransferHandler struct {
	service service.InventoryService
	logger  zerolog.Logger
}

// NewTransferHandler creates a new transfer handler.
func NewTransferHandler(service service.InventoryService, logger zerolog.Logger) *TransferHandler {
	return &TransferHandler{
		service: service,
		logger:  logger.With().Str("handler", "transfer").Logger(),
	}
}

// ExportResponse is an export document with the success flag. The extra key
// is ignored when the document is imported again.
type ExportResponse struct {
	Response
	transfer.Document
}

// BackupResponse names a stored export archive.
type BackupResponse struct {
	Response
	Key string `json:"key"`
}

// ImportResponse counts what an import installed.
type ImportResponse struct {
	Response
	Imported model.ImportResult `json:"imported"`
}

// Export handles GET /api/export?shape=&destination=backup.
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	shape, err := transfer.ParseShape(query.Get("shape"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	switch query.Get("destination") {
	case "":
		doc, err := h.service.Export(r.Context(), shape)
		if err != nil {
			writeServiceError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusOK, ExportResponse{Response: ok(), Document: doc})
	case "backup":
		key, err := h.service.ExportToBackup(r.Context(), shape)
		if err != nil {
			writeServiceError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusCreated, BackupResponse{Response: ok(), Key: key})
	default:
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidParameter, "destination must be empty or backup", h.logger)
	}
}

// Import handles POST /api/import with the document as body, or
// POST /api/import?backup_key= to restore a stored archive.
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	var (
		result *model.ImportResult
		err    error
	)

	if key := r.URL.Query().Get("backup_key"); key != "" {
		result, err = h.service.ImportFromBackup(r.Context(), key)
	} else {
		raw, readErr := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportSize))
		if readErr != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(readErr, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, model.ErrCodeInvalidDocument, "import document too large", h.logger)
				return
			}
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidDocument, "failed to read import document", h.logger)
			return
		}
		result, err = h.service.Import(r.Context(), raw)
	}

	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, ImportResponse{Response: ok(), Imported: *result})
}
