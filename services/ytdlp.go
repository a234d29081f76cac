package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/vicradon/ytdl-web/models"
	"github.com/vicradon/ytdl-web/utils"
)

var (
	destinationPattern       = regexp.MustCompile(`\[download\] Destination: (.+?)[\r\n]`)
	alreadyDownloadedPattern = regexp.MustCompile(`\[download\] (.+?) has already been downloaded[\r\n]`)

	// Post-processors that replace the downloaded file with a new one.
	mergerPattern       = regexp.MustCompile(`\[Merger\] Merging formats into "(.+?)"[\r\n]`)
	extractAudioPattern = regexp.MustCompile(`\[ExtractAudio\] Destination: (.+?)[\r\n]`)
)

var (
	videoContainers = map[string]bool{"mp4": true, "mkv": true, "webm": true, "mov": true, "flv": true, "avi": true}
	audioContainers = map[string]bool{
		"mp3": true, "m4a": true, "aac": true, "opus": true, "vorbis": true,
		"flac": true, "alac": true, "wav": true, "best": true,
	}
)

const (
	DefaultVideoFormat = "mp4"
	DefaultAudioFormat = "mp3"
)

// ytDlpJSON mirrors the fields of `yt-dlp -j` that the UI needs.
type ytDlpJSON struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Uploader    string  `json:"uploader"`
	WebpageURL  string  `json:"webpage_url"`
	Duration    float64 `json:"duration"`
	ViewCount   int64   `json:"view_count"`
	LikeCount   int64   `json:"like_count"`
	Thumbnail   string  `json:"thumbnail"`
	Formats     []struct {
		FormatID       string  `json:"format_id"`
		Ext            string  `json:"ext"`
		Resolution     string  `json:"resolution"`
		Filesize       float64 `json:"filesize"`
		FilesizeApprox float64 `json:"filesize_approx"`
	} `json:"formats"`
}

// YtDlpService drives the yt-dlp executable.
type YtDlpService struct {
	binPath    string
	storage    *StorageService
	runner     Runner
	httpClient *http.Client
	timeout    time.Duration
}

type YtDlpOption func(*YtDlpService)

// WithRunner replaces the subprocess runner.
func WithRunner(r Runner) YtDlpOption {
	return func(s *YtDlpService) { s.runner = r }
}

func WithHTTPClient(c *http.Client) YtDlpOption {
	return func(s *YtDlpService) { s.httpClient = c }
}

// WithCommandTimeout bounds every yt-dlp invocation. Zero means no limit.
func WithCommandTimeout(d time.Duration) YtDlpOption {
	return func(s *YtDlpService) { s.timeout = d }
}

func NewYtDlpService(binPath string, storage *StorageService, opts ...YtDlpOption) *YtDlpService {
	s := &YtDlpService{
		binPath:    binPath,
		storage:    storage,
		runner:     NewExecRunner(),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *YtDlpService) run(ctx context.Context, args []string) ([]byte, []byte, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	log.Printf("Running %s", utils.QuoteCommand(s.binPath, args))
	return s.runner.Run(ctx, s.binPath, args...)
}

// Version returns the output of `yt-dlp --version`.
func (s *YtDlpService) Version(ctx context.Context) (string, error) {
	if _, err := os.Stat(s.binPath); err != nil {
		return "", fmt.Errorf("yt-dlp not found at %s: %w", s.binPath, err)
	}
	stdout, _, err := s.run(ctx, utils.VersionArgs())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(stdout)), nil
}

// CheckInstallation reports whether the executable exists and answers a
// version query. Failures are logged, never returned.
func (s *YtDlpService) CheckInstallation(ctx context.Context) bool {
	version, err := s.Version(ctx)
	if err != nil {
		log.Printf("yt-dlp installation check failed: %v", err)
		return false
	}
	log.Printf("yt-dlp version %s", version)
	return true
}

// GetVideoInfo fetches the metadata of a single video.
func (s *YtDlpService) GetVideoInfo(ctx context.Context, url string) (*models.VideoInfo, error) {
	stdout, _, err := s.run(ctx, utils.InfoArgs(url))
	if err != nil {
		return nil, err
	}
	return parseVideoInfo(stdout)
}

func parseVideoInfo(output []byte) (*models.VideoInfo, error) {
	var data ytDlpJSON
	if err := json.Unmarshal(output, &data); err != nil {
		return nil, &ParseError{What: "yt-dlp metadata", Err: err}
	}

	info := &models.VideoInfo{
		ID:          data.ID,
		Title:       data.Title,
		Description: data.Description,
		Uploader:    data.Uploader,
		WebpageURL:  data.WebpageURL,
		Duration:    nonNegative(int64(data.Duration)),
		ViewCount:   nonNegative(data.ViewCount),
		LikeCount:   nonNegative(data.LikeCount),
		Thumbnail:   data.Thumbnail,
		Formats:     make([]models.Format, 0, len(data.Formats)),
	}

	for _, f := range data.Formats {
		size := f.Filesize
		if size == 0 {
			size = f.FilesizeApprox
		}
		info.Formats = append(info.Formats, models.Format{
			FormatID:   f.FormatID,
			Ext:        f.Ext,
			Resolution: f.Resolution,
			Filesize:   nonNegative(int64(size)),
		})
	}

	return info, nil
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// GetAvailableQualities probes the format list and keeps the tiers the video
// can actually serve.
func (s *YtDlpService) GetAvailableQualities(ctx context.Context, url string) (models.QualitySet, error) {
	stdout, _, err := s.run(ctx, utils.FormatsArgs(url))
	if err != nil {
		return models.QualitySet{}, err
	}

	maxHeight, maxABR := ParseFormatListing(string(stdout))
	if maxHeight == 0 && maxABR == 0 {
		log.Printf("No formats parsed for %s, offering all quality tiers", url)
	}
	return QualitiesFor(maxHeight, maxABR), nil
}

// NormalizeRequest fills defaults and checks the request fields.
func NormalizeRequest(req models.DownloadRequest) (models.DownloadRequest, error) {
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		return req, newValidationError("url", "URL is required")
	}

	if req.Type == "" {
		req.Type = models.MediaVideo
	}
	if !req.Type.Valid() {
		return req, newValidationError("type", "unsupported download type %q", req.Type)
	}
	req.Format = strings.ToLower(strings.TrimSpace(req.Format))

	switch req.Type {
	case models.MediaVideo:
		if req.Format == "" {
			req.Format = DefaultVideoFormat
		}
		if !videoContainers[req.Format] {
			return req, newValidationError("format", "unsupported video format %q", req.Format)
		}
		req.Quality = NormalizeVideoQuality(req.Quality)
	case models.MediaAudio:
		if req.Format == "" {
			req.Format = DefaultAudioFormat
		}
		if !audioContainers[req.Format] {
			return req, newValidationError("format", "unsupported audio format %q", req.Format)
		}
		req.Quality = NormalizeAudioQuality(req.Quality)
	case models.MediaThumbnail:
		req.Format = "jpg"
		req.Quality = ""
	}

	return req, nil
}

// Download fetches the requested media into the download directory and
// returns the path of the written file.
func (s *YtDlpService) Download(ctx context.Context, req models.DownloadRequest) (string, error) {
	req, err := NormalizeRequest(req)
	if err != nil {
		return "", err
	}

	if err := s.storage.EnsureDir(); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	if req.Type == models.MediaThumbnail {
		return s.downloadThumbnail(ctx, req.URL)
	}

	opts := utils.DownloadOptions{
		URL:       req.URL,
		OutputDir: s.storage.DownloadDir,
		Format:    req.Format,
	}
	if req.Type == models.MediaAudio {
		opts.AudioOnly = true
		opts.Selector = AudioExpression(req.Quality)
		opts.AudioBitrate = req.Quality
	} else {
		opts.Selector = VideoExpression(req.Quality)
	}

	stdout, stderr, err := s.run(ctx, utils.BuildDownloadArgs(opts))
	if err != nil {
		return "", err
	}

	path, err := ExtractDestination(string(stderr))
	if errors.Is(err, ErrFilenameNotFound) {
		path, err = ExtractDestination(string(stdout))
	}
	if err != nil {
		return "", err
	}
	if final := FinalDestination(string(stdout) + "\n" + string(stderr)); final != "" {
		path = final
	}

	if !s.storage.Contains(path) {
		log.Printf("Warning: yt-dlp wrote %s outside %s", path, s.storage.DownloadDir)
	}
	return path, nil
}

// ExtractDestination finds the file yt-dlp reported writing.
func ExtractDestination(output string) (string, error) {
	// A final line may lack its newline.
	output += "\n"
	if m := destinationPattern.FindStringSubmatch(output); m != nil {
		return strings.TrimSpace(m[1]), nil
	}
	if m := alreadyDownloadedPattern.FindStringSubmatch(output); m != nil {
		return strings.TrimSpace(m[1]), nil
	}
	return "", ErrFilenameNotFound
}

// FinalDestination returns the file left behind by a merge or audio
// extraction step, or "" when the download was not post-processed.
func FinalDestination(output string) string {
	output += "\n"
	var final string
	for _, pattern := range []*regexp.Regexp{mergerPattern, extractAudioPattern} {
		if m := pattern.FindAllStringSubmatch(output, -1); m != nil {
			final = strings.TrimSpace(m[len(m)-1][1])
		}
	}
	return final
}

func (s *YtDlpService) downloadThumbnail(ctx context.Context, url string) (string, error) {
	info, err := s.GetVideoInfo(ctx, url)
	if err != nil {
		return "", err
	}
	if info.Thumbnail == "" {
		return "", &NetworkError{URL: url, Err: errors.New("video has no thumbnail")}
	}

	path := s.storage.ThumbnailPath(info.Title)
	if err := s.downloadFile(ctx, info.Thumbnail, path); err != nil {
		return "", err
	}
	return path, nil
}

// downloadFile streams url to dest. Nothing is left on disk on failure.
func (s *YtDlpService) downloadFile(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &NetworkError{URL: url, Err: err}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &NetworkError{URL: url, StatusCode: resp.StatusCode}
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	size, err := io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dest)
		return &NetworkError{URL: url, Err: err}
	}

	log.Printf("Downloaded %s to %s", s.storage.FormatFileSize(size), dest)
	return nil
}
