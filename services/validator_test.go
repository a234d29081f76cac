package services

import (
	"errors"
	"testing"
)

func TestValidateYouTubeURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"Standard YouTube URL", "https://www.youtube.com/watch?v=abc123", true},
		{"Bare host", "https://youtube.com/watch?v=abc123", true},
		{"Uppercase host", "https://WWW.YOUTUBE.COM/watch?v=abc123", true},
		{"Short YouTube URL", "https://youtu.be/abc123", true},
		{"Short URL with parameters", "https://youtu.be/abc123?t=10", true},
		{"YouTube URL with parameters", "https://www.youtube.com/watch?v=dEXPMQXoiLc&t=10s", true},
		{"Other site", "https://vimeo.com/123", false},
		{"Missing video parameter", "https://www.youtube.com/watch", false},
		{"Empty video parameter", "https://www.youtube.com/watch?v=", false},
		{"Short URL without id", "https://youtu.be/", false},
		{"Mobile host not allowed", "https://m.youtube.com/watch?v=abc123", false},
		{"Look-alike host", "https://youtube.com.evil.example/watch?v=abc123", false},
		{"No scheme", "youtube.com/watch?v=abc123", false},
		{"Garbage", "%%not a url", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateYouTubeURL(tt.url); got != tt.want {
				t.Errorf("ValidateYouTubeURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "Standard YouTube URL",
			url:  "https://www.youtube.com/watch?v=dEXPMQXoiLc",
			want: "dEXPMQXoiLc",
		},
		{
			name: "Short YouTube URL",
			url:  "https://youtu.be/dEXPMQXoiLc",
			want: "dEXPMQXoiLc",
		},
		{
			name: "YouTube URL with parameters",
			url:  "https://www.youtube.com/watch?list=PL1&v=dEXPMQXoiLc&t=10s",
			want: "dEXPMQXoiLc",
		},
		{
			name:    "Invalid URL",
			url:     "https://example.com/video",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVideoID(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ExtractVideoID() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil && !errors.Is(err, ErrInvalidURL) {
				t.Errorf("ExtractVideoID() error = %v, want ErrInvalidURL", err)
			}
			if got != tt.want {
				t.Errorf("ExtractVideoID() = %v, want %v", got, tt.want)
			}
		})
	}
}
