package handlers

import (
	"log"
	"net/http"

	"github.com/vicradon/ytdl-web/models"
	"github.com/vicradon/ytdl-web/services"
)

type DownloadHandler struct {
	videoService   VideoService
	historyService *services.HistoryService
	policy         URLPolicy
}

func NewDownloadHandler(videoService VideoService, historyService *services.HistoryService, policy URLPolicy) *DownloadHandler {
	return &DownloadHandler{
		videoService:   videoService,
		historyService: historyService,
		policy:         policy,
	}
}

func (h *DownloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req models.DownloadRequest
	if !decodeJSON(w, r, &req) || !h.policy.check(w, req.URL) {
		return
	}

	req, err := services.NormalizeRequest(req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	path, err := h.videoService.Download(r.Context(), req)
	if h.historyService != nil {
		h.historyService.Record(req, path, err)
	}
	if err != nil {
		log.Printf("Download of %s (%s) failed: %v", req.URL, req.Type, err)
		writeServiceError(w, err)
		return
	}

	log.Printf("Downloaded %s (%s) to %s", req.URL, req.Type, path)
	writeJSON(w, http.StatusOK, models.DownloadResponse{Success: true, Filename: path})
}
