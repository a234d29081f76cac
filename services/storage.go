package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	DefaultDirPermissions = 0755
	ThumbnailSuffix       = "_thumbnail.jpg"
	maxFilenameLength     = 200
)

type StorageService struct {
	DownloadDir string
}

func NewStorageService(downloadDir string) *StorageService {
	return &StorageService{
		DownloadDir: downloadDir,
	}
}

// EnsureDir creates the download directory if it is missing.
func (s *StorageService) EnsureDir() error {
	if _, err := os.Stat(s.DownloadDir); os.IsNotExist(err) {
		return os.MkdirAll(s.DownloadDir, DefaultDirPermissions)
	}
	return nil
}

// ThumbnailPath is where the thumbnail of a video titled title is written.
func (s *StorageService) ThumbnailPath(title string) string {
	name := SanitizeFilename(title)
	if name == "" {
		name = "video"
	}
	return filepath.Join(s.DownloadDir, name+ThumbnailSuffix)
}

// Contains reports whether path resolves inside the download directory.
func (s *StorageService) Contains(path string) bool {
	absDir, err := filepath.Abs(s.DownloadDir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	absDirNormalized := strings.TrimSuffix(absDir, string(filepath.Separator)) + string(filepath.Separator)
	return strings.HasPrefix(absPath, absDirNormalized)
}

// FileSize returns the size of path, or 0 when it cannot be read.
func (s *StorageService) FileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func (s *StorageService) FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	const k = 1024
	sizes := []string{"Bytes", "KB", "MB", "GB", "TB"}
	size := float64(bytes)
	i := 0
	for size >= k && i < len(sizes)-1 {
		size /= k
		i++
	}
	return fmt.Sprintf("%.1f %s", size, sizes[i])
}

// SanitizeFilename strips characters that are not allowed in file names.
func SanitizeFilename(filename string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", "\x00"}
	result := filename
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "")
	}
	for len(result) > maxFilenameLength {
		_, size := utf8.DecodeLastRuneInString(result)
		result = result[:len(result)-size]
	}
	return strings.TrimSpace(result)
}

// ResolveFile maps a name relative to the download directory to a path,
// rejecting names that escape it.
func (s *StorageService) ResolveFile(name string) (string, error) {
	path := filepath.Join(s.DownloadDir, filepath.Clean(name))
	if name == "" || !s.Contains(path) {
		return "", newValidationError("filename", "invalid file path")
	}
	return path, nil
}

// DeleteFile removes a downloaded file.
func (s *StorageService) DeleteFile(name string) error {
	path, err := s.ResolveFile(name)
	if err != nil {
		return err
	}
	return os.Remove(path)
}
