package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/mattn/go-colorable"

	"github.com/vicradon/ytdl-web/config"
	"github.com/vicradon/ytdl-web/database"
	"github.com/vicradon/ytdl-web/models"
	"github.com/vicradon/ytdl-web/services"
)

var (
	storageService *services.StorageService
	ytDlpService   *services.YtDlpService
	historyService *services.HistoryService
)

func main() {
	log.SetOutput(colorable.NewColorableStderr())

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize services
	storageService = services.NewStorageService(cfg.DownloadDir)
	ytDlpService = services.NewYtDlpService(cfg.YtDlpPath, storageService,
		services.WithCommandTimeout(cfg.CommandTimeout),
	)

	var store services.HistoryStore
	if cfg.DatabaseURL != "" {
		db, err := database.Init(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to initialize database:", err)
		}
		defer db.Close()
		store = db
	}
	historyService = services.NewHistoryService(store, storageService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== yt-dlp Downloader CLI ===")
	fmt.Printf("Downloads are saved to %s\n", cfg.DownloadDir)

	for {
		fmt.Println("\nCommands:")
		fmt.Println("  1. check - Check the yt-dlp installation")
		fmt.Println("  2. info - Show video information")
		fmt.Println("  3. qualities - List available qualities")
		fmt.Println("  4. video - Download a video")
		fmt.Println("  5. audio - Download the audio track")
		fmt.Println("  6. thumbnail - Download the thumbnail")
		fmt.Println("  7. history - Show recent downloads")
		fmt.Println("  8. quit - Exit")
		fmt.Print("\nEnter command: ")

		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return
		}

		switch strings.TrimSpace(input) {
		case "1", "check":
			checkInstallation(ctx)
		case "2", "info":
			showInfo(ctx, reader)
		case "3", "qualities":
			showQualities(ctx, reader)
		case "4", "video":
			download(ctx, reader, models.MediaVideo)
		case "5", "audio":
			download(ctx, reader, models.MediaAudio)
		case "6", "thumbnail":
			download(ctx, reader, models.MediaThumbnail)
		case "7", "history":
			showHistory()
		case "8", "quit", "exit":
			fmt.Println("Goodbye!")
			return
		default:
			fmt.Println("Unknown command. Try again.")
		}
	}
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func promptURL(reader *bufio.Reader) (string, bool) {
	url := prompt(reader, "Enter YouTube URL: ")
	if !services.ValidateYouTubeURL(url) {
		fmt.Println("Invalid YouTube URL.")
		return "", false
	}
	return url, true
}

func checkInstallation(ctx context.Context) {
	version, err := ytDlpService.Version(ctx)
	if err != nil {
		fmt.Printf("yt-dlp is not working: %v\n", err)
		return
	}
	fmt.Printf("yt-dlp %s is installed.\n", version)
}

func showInfo(ctx context.Context, reader *bufio.Reader) {
	url, ok := promptURL(reader)
	if !ok {
		return
	}

	fmt.Println("Fetching video information...")
	info, err := ytDlpService.GetVideoInfo(ctx, url)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("\nTitle:    %s\n", info.Title)
	if info.Uploader != "" {
		fmt.Printf("Uploader: %s\n", info.Uploader)
	}
	fmt.Printf("Duration: %d seconds\n", info.Duration)
	fmt.Printf("Views:    %d\n", info.ViewCount)
	fmt.Printf("Likes:    %d\n", info.LikeCount)
	fmt.Printf("Formats:  %d\n", len(info.Formats))
	fmt.Printf("Thumbnail: %s\n", info.Thumbnail)
}

func showQualities(ctx context.Context, reader *bufio.Reader) {
	url, ok := promptURL(reader)
	if !ok {
		return
	}

	fmt.Println("Probing formats...")
	set, err := ytDlpService.GetAvailableQualities(ctx, url)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	printQualities(set)
}

func printQualities(set models.QualitySet) {
	fmt.Println("\nVideo:")
	for _, token := range set.Video {
		fmt.Printf("  %-5s %s\n", token, services.QualityLabel(token))
	}
	fmt.Println("Audio:")
	for _, token := range set.Audio {
		fmt.Printf("  %-5s %s\n", token, services.QualityLabel(token))
	}
}

func download(ctx context.Context, reader *bufio.Reader, mediaType models.MediaType) {
	url, ok := promptURL(reader)
	if !ok {
		return
	}

	var quality, format string
	switch mediaType {
	case models.MediaVideo:
		quality = prompt(reader, fmt.Sprintf("Quality [%s]: ", services.DefaultVideoQuality))
		format = prompt(reader, fmt.Sprintf("Format [%s]: ", services.DefaultVideoFormat))
	case models.MediaAudio:
		quality = prompt(reader, fmt.Sprintf("Bitrate [%s]: ", services.DefaultAudioQuality))
		format = prompt(reader, fmt.Sprintf("Format [%s]: ", services.DefaultAudioFormat))
	}

	req, err := newDownloadRequest(url, mediaType, quality, format)
	if err != nil {
		fmt.Printf("Invalid request: %v\n", err)
		return
	}

	fmt.Printf("Downloading %s...\n", mediaType)
	path, err := ytDlpService.Download(ctx, req)
	historyService.Record(req, path, err)
	if err != nil {
		fmt.Printf("Download failed: %v\n", err)
		return
	}

	fmt.Printf("Saved to %s (%s)\n", path, storageService.FormatFileSize(storageService.FileSize(path)))
}

// newDownloadRequest fills in defaults so history rows carry the format and
// quality actually used.
func newDownloadRequest(url string, mediaType models.MediaType, quality, format string) (models.DownloadRequest, error) {
	return services.NormalizeRequest(models.DownloadRequest{
		URL:     url,
		Type:    mediaType,
		Quality: quality,
		Format:  format,
	})
}

func showHistory() {
	records := historyService.Recent(20)
	if len(records) == 0 {
		fmt.Println("No downloads yet.")
		return
	}

	fmt.Println("\n=== Recent downloads ===")
	for i, record := range records {
		status := "failed: " + derefOr(record.Error, "")
		if record.Succeeded() {
			status = derefOr(record.Filename, "")
		}
		fmt.Printf("  %d. [%s] %s %s - %s\n", i+1, record.CreatedAt.Format("2006-01-02 15:04"), record.Type, record.URL, status)
	}
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
