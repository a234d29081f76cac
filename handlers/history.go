package handlers

import (
	"net/http"
	"strconv"

	"github.com/vicradon/ytdl-web/models"
	"github.com/vicradon/ytdl-web/services"
)

type HistoryHandler struct {
	historyService *services.HistoryService
}

func NewHistoryHandler(historyService *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	limit := services.DefaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	downloads := h.historyService.Recent(limit)
	if downloads == nil {
		downloads = []models.DownloadRecord{}
	}
	writeJSON(w, http.StatusOK, models.HistoryResponse{Downloads: downloads})
}
