package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ScriptsDir      = "scripts"
	DownloadsFolder = "Downloads"

	DefaultHost      = "0.0.0.0"
	DefaultPort      = "8080"
	DefaultRateLimit = 2.0
	DefaultRateBurst = 5
)

type Config struct {
	Host        string
	Port        string
	ExecDir     string
	YtDlpPath   string
	DownloadDir string
	DatabaseURL string

	RateLimit      float64
	RateBurst      int
	CommandTimeout time.Duration
	ValidateURLs   bool
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// Load reads .env (if any) and the process environment. Nothing is fatal here;
// callers decide what to do with the error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	execDir := getExecutableDir()

	cfg := &Config{
		Host:         getEnv("HOST", DefaultHost),
		Port:         getEnv("PORT", DefaultPort),
		ExecDir:      execDir,
		YtDlpPath:    os.Getenv("YTDLP_PATH"),
		DownloadDir:  os.Getenv("DOWNLOAD_DIR"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RateLimit:    DefaultRateLimit,
		RateBurst:    DefaultRateBurst,
		ValidateURLs: true,
	}

	if cfg.YtDlpPath == "" {
		cfg.YtDlpPath = DefaultYtDlpPath(execDir)
	}

	if cfg.DownloadDir == "" {
		dir, err := DefaultDownloadDir()
		if err != nil {
			return nil, err
		}
		cfg.DownloadDir = dir
	}

	if v := os.Getenv("RATE_LIMIT"); v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil || limit < 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT %q", v)
		}
		cfg.RateLimit = limit
	}

	if v := os.Getenv("RATE_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil || burst < 1 {
			return nil, fmt.Errorf("invalid RATE_BURST %q", v)
		}
		cfg.RateBurst = burst
	}

	if v := os.Getenv("COMMAND_TIMEOUT"); v != "" && v != "0" {
		timeout, err := time.ParseDuration(v)
		if err != nil || timeout < 0 {
			return nil, fmt.Errorf("invalid COMMAND_TIMEOUT %q", v)
		}
		cfg.CommandTimeout = timeout
	}

	if v := os.Getenv("VALIDATE_URLS"); v != "" {
		validate, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid VALIDATE_URLS %q", v)
		}
		cfg.ValidateURLs = validate
	}

	return cfg, nil
}

// DefaultYtDlpPath points at the binary shipped in the scripts directory.
func DefaultYtDlpPath(execDir string) string {
	name := "yt-dlp"
	if runtime.GOOS == "windows" {
		name = "yt-dlp.exe"
	}
	return filepath.Join(execDir, ScriptsDir, name)
}

// DefaultDownloadDir returns the user's Downloads folder.
func DefaultDownloadDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, DownloadsFolder), nil
}

func getExecutableDir() string {
	if dir := os.Getenv("EXEC_DIR"); dir != "" {
		return dir
	}
	return "."
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
