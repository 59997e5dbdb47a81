package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"larder/internal/model"

	"github.com/rs/zerolog"
)

// maxBodySize bounds JSON command bodies. Imports use maxImportSize.
const (
	maxBodySize   = 1 << 20
	maxImportSize = 16 << 20
)

// Response is the envelope of every successful reply.
type Response struct {
	Success bool `json:"success"`
}

func ok() Response {
	return Response{Success: true}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("error", code).Str("message", message).Int("status", status).Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{Success: false, Error: code, Message: message})
}

// writeServiceError maps an error returned by the inventory service to a
// response.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var (
		domainErr    *model.DomainError
		dateErr      *model.DateError
		documentErr  *model.DocumentError
		lastEntryErr *model.LastEntryError
		protectedErr *model.ProtectedEntryError
	)

	switch {
	case errors.As(err, &lastEntryErr):
		writeError(w, http.StatusConflict, model.ErrCodeLastEntry, err.Error(), logger)
	case errors.As(err, &protectedErr):
		writeError(w, http.StatusConflict, model.ErrCodeProtectedEntry, err.Error(), logger)
	case errors.As(err, &dateErr):
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidDate, err.Error(), logger)
	case errors.As(err, &documentErr):
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidDocument, err.Error(), logger)
	case errors.As(err, &domainErr):
		writeError(w, domainStatus(domainErr.Code), domainErr.Code, domainErr.Message, logger)
	default:
		logger.Error().Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal error", logger)
	}
}

func domainStatus(code string) int {
	switch code {
	case model.ErrCodeProductNotFound, model.ErrCodeBackupNotFound:
		return http.StatusNotFound
	case model.ErrCodeBackupDisabled:
		return http.StatusServiceUnavailable
	case model.ErrCodeLastEntry, model.ErrCodeProtectedEntry:
		return http.StatusConflict
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// pathLocation extracts and validates the {location} path segment.
func pathLocation(r *http.Request) (model.Location, error) {
	return model.ParseLocation(r.PathValue("location"))
}

func notFound(w http.ResponseWriter, id string, logger zerolog.Logger) {
	writeError(w, http.StatusNotFound, model.ErrCodeProductNotFound, fmt.Sprintf("product %q not found", id), logger)
}
