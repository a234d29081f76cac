package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vicradon/ytdl-web/config"
	"github.com/vicradon/ytdl-web/handlers"
	"github.com/vicradon/ytdl-web/models"
	"github.com/vicradon/ytdl-web/services"
)

type stubVideoService struct{}

func (stubVideoService) CheckInstallation(ctx context.Context) bool { return true }

func (stubVideoService) GetVideoInfo(ctx context.Context, url string) (*models.VideoInfo, error) {
	return &models.VideoInfo{Title: "stub"}, nil
}

func (stubVideoService) GetAvailableQualities(ctx context.Context, url string) (models.QualitySet, error) {
	return services.DefaultQualities(), nil
}

func (stubVideoService) Download(ctx context.Context, req models.DownloadRequest) (string, error) {
	return "/tmp/stub.mp4", nil
}

func newTestApp(t *testing.T, rateLimit float64, burst int) http.Handler {
	t.Helper()
	execDir := t.TempDir()
	for _, dir := range []string{"templates", "static"} {
		if err := os.MkdirAll(filepath.Join(execDir, dir), 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(execDir, "templates", "index.html"), []byte("<html>ytdl</html>"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(execDir, "static", "app.js"), []byte("// app"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		ExecDir:      execDir,
		DownloadDir:  t.TempDir(),
		RateLimit:    rateLimit,
		RateBurst:    burst,
		ValidateURLs: true,
	}
	storage := services.NewStorageService(cfg.DownloadDir)
	return newRouter(&app{
		cfg:     cfg,
		video:   stubVideoService{},
		storage: storage,
		history: services.NewHistoryService(nil, storage),
	})
}

func TestRoutes(t *testing.T) {
	router := newTestApp(t, 0, 0)

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantText   string
	}{
		{"Index page", http.MethodGet, "/", "", http.StatusOK, "ytdl"},
		{"Unknown page", http.MethodGet, "/nope", "", http.StatusNotFound, ""},
		{"Static asset", http.MethodGet, "/static/app.js", "", http.StatusOK, "// app"},
		{"Check", http.MethodGet, "/api/video/check", "", http.StatusOK, `"isWorking":true`},
		{"Info", http.MethodPost, "/api/video/info", `{"url":"https://youtu.be/abc123"}`, http.StatusOK, `"title":"stub"`},
		{"Qualities", http.MethodPost, "/api/video/qualities", `{"url":"https://youtu.be/abc123"}`, http.StatusOK, `"2160"`},
		{"Download", http.MethodPost, "/api/video/download", `{"url":"https://youtu.be/abc123","type":"video"}`, http.StatusOK, `"filename":"/tmp/stub.mp4"`},
		{"Download without url", http.MethodPost, "/api/video/download", `{}`, http.StatusBadRequest, `"error"`},
		{"History", http.MethodGet, "/api/video/history", "", http.StatusOK, `"downloads"`},
		{"Missing file", http.MethodGet, "/api/video/file/none.mp4", "", http.StatusNotFound, "File not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.wantText) {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantText)
			}
			if rec.Header().Get(handlers.RequestIDHeader) == "" {
				t.Error("missing request id header")
			}
		})
	}
}

func TestRateLimitedRoutes(t *testing.T) {
	router := newTestApp(t, 0.001, 1)

	post := func(target string) int {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(`{"url":"https://youtu.be/abc123"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	if got := post("/api/video/info"); got != http.StatusOK {
		t.Fatalf("first request status = %d", got)
	}
	if got := post("/api/video/qualities"); got != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/video/check", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("check should not be rate limited, got %d", rec.Code)
	}
}
