package main

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"

	"github.com/mattn/go-colorable"

	"github.com/vicradon/ytdl-web/config"
	"github.com/vicradon/ytdl-web/database"
	"github.com/vicradon/ytdl-web/handlers"
	"github.com/vicradon/ytdl-web/services"
)

// app holds the services the HTTP routes are built from.
type app struct {
	cfg     *config.Config
	video   handlers.VideoService
	storage *services.StorageService
	history *services.HistoryService
}

func newRouter(a *app) http.Handler {
	policy := handlers.URLPolicy{Validate: a.cfg.ValidateURLs}
	limiter := handlers.NewLimiter(a.cfg.RateLimit, a.cfg.RateBurst)

	mux := http.NewServeMux()

	// Static files and the page
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(filepath.Join(a.cfg.ExecDir, "static")))))
	mux.Handle("/", handlers.NewIndexHandler(a.cfg.ExecDir))

	// API routes
	mux.Handle("/api/video/check", handlers.NewCheckHandler(a.video))
	mux.Handle("/api/video/info", handlers.RateLimit(limiter, handlers.NewInfoHandler(a.video, policy)))
	mux.Handle("/api/video/qualities", handlers.RateLimit(limiter, handlers.NewQualitiesHandler(a.video, policy)))
	mux.Handle("/api/video/download", handlers.RateLimit(limiter, handlers.NewDownloadHandler(a.video, a.history, policy)))
	mux.Handle("/api/video/history", handlers.NewHistoryHandler(a.history))
	mux.Handle(handlers.FilePrefix, handlers.NewFileHandler(a.storage))

	return handlers.Logging(mux)
}

func main() {
	log.SetOutput(colorable.NewColorableStderr())

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	storageService := services.NewStorageService(cfg.DownloadDir)
	ytDlpService := services.NewYtDlpService(cfg.YtDlpPath, storageService,
		services.WithCommandTimeout(cfg.CommandTimeout),
	)

	// History is kept in postgres only when a database is configured
	var store services.HistoryStore
	if cfg.DatabaseURL != "" {
		db, err := database.Init(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to initialize database:", err)
		}
		defer db.Close()
		store = db
	} else {
		log.Println("DATABASE_URL not set, keeping download history in memory")
	}
	historyService := services.NewHistoryService(store, storageService)

	router := newRouter(&app{
		cfg:     cfg,
		video:   ytDlpService,
		storage: storageService,
		history: historyService,
	})

	log.Printf("Using yt-dlp at %s, saving to %s", cfg.YtDlpPath, cfg.DownloadDir)
	fmt.Printf("Server starting on http://%s\n", cfg.Addr())
	log.Fatal(http.ListenAndServe(cfg.Addr(), router))
}
