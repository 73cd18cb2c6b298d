package handlers

import (
	"errors"
	"net/http"

	"github.com/username/magifolio/backend/src/config"
	"github.com/username/magifolio/backend/src/logger"
	"github.com/username/magifolio/backend/src/parsers"
	"github.com/username/magifolio/backend/src/security/validation"
	"github.com/username/magifolio/backend/src/services"
	"github.com/username/magifolio/backend/src/utils"
)

// UploadHandler accepts brokerage CSV exports and hands them to the service.
type UploadHandler struct {
	service services.EstimateService
}

func NewUploadHandler(service services.EstimateService) *UploadHandler {
	return &UploadHandler{service: service}
}

func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	sessionID, ok := GetSessionIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Missing session", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.Cfg.MaxUploadSizeBytes)
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		utils.SendJSONError(w, "Uploaded file is too large or the form is malformed", http.StatusRequestEntityTooLarge)
		return
	}

	kind := services.UploadKind(r.FormValue("kind"))
	if kind != services.KindGains && kind != services.KindTransactions {
		utils.SendJSONError(w, "Form field 'kind' must be 'gains' or 'transactions'", http.StatusBadRequest)
		return
	}

	source := r.FormValue("source")
	if source == "" {
		source = "schwab"
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		utils.SendJSONError(w, "Error retrieving uploaded file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		utils.SendJSONError(w, "Uploaded file is too large", http.StatusRequestEntityTooLarge)
		return
	}

	if err := validation.ValidateClientContentType(fileHeader.Header.Get("Content-Type")); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	}
	if _, err := validation.ValidateFileContentByMagicBytes(file); err != nil {
		ctxLogger.Warn("Upload rejected by content sniffing", "sessionID", sessionID, "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, "File content does not look like a CSV export", http.StatusUnsupportedMediaType)
		return
	}

	summary, err := h.service.ProcessUpload(file, sessionID, source, kind)
	if err != nil {
		switch {
		case errors.Is(err, parsers.ErrUnknownSource):
			utils.SendJSONError(w, "Unknown brokerage source", http.StatusBadRequest)
		case errors.Is(err, services.ErrParsingFailed):
			utils.SendJSONError(w, "Could not parse the uploaded CSV", http.StatusBadRequest)
		default:
			ctxLogger.Error("Upload processing failed", "sessionID", sessionID, "error", err)
			utils.SendJSONError(w, "Failed to process upload", http.StatusInternalServerError)
		}
		return
	}

	ctxLogger.Info("Upload processed", "sessionID", sessionID, "kind", kind, "records", summary.Records)
	utils.SendJSON(w, summary, http.StatusOK)
}
