package models

import "time"

type MediaType string

const (
	MediaVideo     MediaType = "video"
	MediaAudio     MediaType = "audio"
	MediaThumbnail MediaType = "thumbnail"
)

func (t MediaType) Valid() bool {
	return t == MediaVideo || t == MediaAudio || t == MediaThumbnail
}

type DownloadRequest struct {
	URL     string    `json:"url"`
	Format  string    `json:"format"`
	Quality string    `json:"quality"`
	Type    MediaType `json:"type"`
}

type URLRequest struct {
	URL string `json:"url"`
}

// DownloadRecord is one entry of the download history.
type DownloadRecord struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	URL       string    `json:"url"`
	Type      MediaType `json:"type"`
	Format    string    `json:"format"`
	Quality   string    `json:"quality"`
	Filename  *string   `json:"filename,omitempty"`
	Size      int64     `json:"size"`
	Error     *string   `json:"error,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (r *DownloadRecord) Succeeded() bool {
	return r.Error == nil && r.Filename != nil
}
