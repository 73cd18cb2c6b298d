package handlers

import (
	"net/http"

	"github.com/username/magifolio/backend/src/logger"
	"github.com/username/magifolio/backend/src/services"
	"github.com/username/magifolio/backend/src/utils"
)

// DataHandler exposes the records a session has uploaded.
type DataHandler struct {
	service services.EstimateService
}

func NewDataHandler(service services.EstimateService) *DataHandler {
	return &DataHandler{service: service}
}

func (h *DataHandler) HandleGetDataSummary(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	sessionID, ok := GetSessionIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Missing session", http.StatusUnauthorized)
		return
	}

	summary, err := h.service.GetDataSummary(sessionID)
	if err != nil {
		ctxLogger.Error("Failed to build data summary", "sessionID", sessionID, "error", err)
		utils.SendJSONError(w, "Failed to load data summary", http.StatusInternalServerError)
		return
	}

	etag, err := utils.GenerateETag(summary)
	if err == nil {
		w.Header().Set("ETag", etag)
		if match := r.Header.Get("If-None-Match"); match == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	utils.SendJSON(w, summary, http.StatusOK)
}

func (h *DataHandler) HandleGetRecords(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	sessionID, ok := GetSessionIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Missing session", http.StatusUnauthorized)
		return
	}

	records, err := h.service.GetRecords(sessionID)
	if err != nil {
		ctxLogger.Error("Failed to load session records", "sessionID", sessionID, "error", err)
		utils.SendJSONError(w, "Failed to load records", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, records, http.StatusOK)
}

func (h *DataHandler) HandleClearSession(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	sessionID, ok := GetSessionIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Missing session", http.StatusUnauthorized)
		return
	}

	if err := h.service.ClearSession(sessionID); err != nil {
		ctxLogger.Error("Failed to clear session data", "sessionID", sessionID, "error", err)
		utils.SendJSONError(w, "Failed to clear session", http.StatusInternalServerError)
		return
	}

	ctxLogger.Info("Session data cleared", "sessionID", sessionID)
	utils.SendJSON(w, map[string]string{"message": "Session data cleared"}, http.StatusOK)
}
