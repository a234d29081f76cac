package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/vicradon/ytdl-web/models"
	"github.com/vicradon/ytdl-web/services"
)

// VideoService is the part of the yt-dlp adapter the HTTP layer uses.
type VideoService interface {
	CheckInstallation(ctx context.Context) bool
	GetVideoInfo(ctx context.Context, url string) (*models.VideoInfo, error)
	GetAvailableQualities(ctx context.Context, url string) (models.QualitySet, error)
	Download(ctx context.Context, req models.DownloadRequest) (string, error)
}

// URLPolicy decides which links are accepted.
type URLPolicy struct {
	Validate bool
}

func (p URLPolicy) check(w http.ResponseWriter, url string) bool {
	if strings.TrimSpace(url) == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return false
	}
	if p.Validate && !services.ValidateYouTubeURL(url) {
		writeError(w, http.StatusBadRequest, services.ErrInvalidURL.Error())
		return false
	}
	return true
}

type CheckHandler struct {
	videoService VideoService
}

func NewCheckHandler(videoService VideoService) *CheckHandler {
	return &CheckHandler{videoService: videoService}
}

func (h *CheckHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("Installation check panicked: %v", rec)
			writeError(w, http.StatusInternalServerError, "Installation check failed")
		}
	}()

	writeJSON(w, http.StatusOK, models.CheckResponse{
		IsWorking: h.videoService.CheckInstallation(r.Context()),
	})
}

type InfoHandler struct {
	videoService VideoService
	policy       URLPolicy
}

func NewInfoHandler(videoService VideoService, policy URLPolicy) *InfoHandler {
	return &InfoHandler{videoService: videoService, policy: policy}
}

func (h *InfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req models.URLRequest
	if !decodeJSON(w, r, &req) || !h.policy.check(w, req.URL) {
		return
	}

	info, err := h.videoService.GetVideoInfo(r.Context(), strings.TrimSpace(req.URL))
	if err != nil {
		log.Printf("Error fetching video info: %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.InfoResponse{Info: info})
}

type QualitiesHandler struct {
	videoService VideoService
	policy       URLPolicy
}

func NewQualitiesHandler(videoService VideoService, policy URLPolicy) *QualitiesHandler {
	return &QualitiesHandler{videoService: videoService, policy: policy}
}

func (h *QualitiesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req models.URLRequest
	if !decodeJSON(w, r, &req) || !h.policy.check(w, req.URL) {
		return
	}

	qualities, err := h.videoService.GetAvailableQualities(r.Context(), strings.TrimSpace(req.URL))
	if err != nil {
		log.Printf("Error fetching qualities: %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, qualities)
}
