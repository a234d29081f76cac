package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "Process error with stderr",
			err:  &ProcessError{Command: "yt-dlp -j", ExitCode: 1, Stderr: "WARNING: x\nERROR: Video unavailable\n\n"},
			want: "Command failed: yt-dlp -j (exit status 1): ERROR: Video unavailable",
		},
		{
			name: "Process error from context",
			err:  &ProcessError{Command: "yt-dlp -F", ExitCode: -1, Err: context.DeadlineExceeded},
			want: "Command failed: yt-dlp -F: context deadline exceeded",
		},
		{
			name: "Network status",
			err:  &NetworkError{URL: "https://i.ytimg.com/x.jpg", StatusCode: 404},
			want: "Failed to download: 404",
		},
		{
			name: "Network transport",
			err:  &NetworkError{URL: "https://i.ytimg.com/x.jpg", Err: errors.New("connection reset")},
			want: "Failed to download: connection reset",
		},
		{
			name: "Validation",
			err:  newValidationError("url", "URL is required"),
			want: "URL is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorMatching(t *testing.T) {
	wrapped := fmt.Errorf("download: %w", newValidationError("type", "bad type"))
	if !errors.Is(wrapped, ErrValidation) {
		t.Error("wrapped ValidationError should match ErrValidation")
	}

	var validationErr *ValidationError
	if !errors.As(wrapped, &validationErr) || validationErr.Field != "type" {
		t.Errorf("errors.As() = %+v", validationErr)
	}

	procErr := &ProcessError{Command: "yt-dlp", Err: context.Canceled}
	if !errors.Is(procErr, context.Canceled) {
		t.Error("ProcessError should unwrap to its cause")
	}
	if errors.Is(procErr, ErrValidation) {
		t.Error("ProcessError must not match ErrValidation")
	}
}
