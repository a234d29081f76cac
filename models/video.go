package models

// VideoInfo is the metadata returned to the UI for a single video.
type VideoInfo struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Uploader    string   `json:"uploader,omitempty"`
	WebpageURL  string   `json:"webpage_url,omitempty"`
	Duration    int64    `json:"duration"`
	ViewCount   int64    `json:"view_count"`
	LikeCount   int64    `json:"like_count"`
	Thumbnail   string   `json:"thumbnail"`
	Formats     []Format `json:"formats"`
}

type Format struct {
	FormatID   string `json:"format_id"`
	Ext        string `json:"ext"`
	Resolution string `json:"resolution"`
	Filesize   int64  `json:"filesize"`
}

// QualitySet lists the selectable quality tokens, best first.
type QualitySet struct {
	Video  []string          `json:"video"`
	Audio  []string          `json:"audio"`
	Labels map[string]string `json:"labels,omitempty"`
}
