package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks a missing or malformed request field.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidURL is returned when a URL is not a supported video link.
	ErrInvalidURL = errors.New("invalid YouTube URL")
	// ErrFilenameNotFound means yt-dlp did not report where it wrote the file.
	ErrFilenameNotFound = errors.New("could not determine output filename")
	// ErrOutputTooLarge means a subprocess wrote more than the capture limit.
	ErrOutputTooLarge = errors.New("command output exceeds buffer limit")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ProcessError is a failed or aborted yt-dlp invocation.
type ProcessError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("Command failed: %s", e.Command)
	if e.ExitCode > 0 {
		msg += fmt.Sprintf(" (exit status %d)", e.ExitCode)
	}
	if tail := lastLine(e.Stderr); tail != "" {
		return msg + ": " + tail
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// ParseError wraps output that could not be decoded.
type ParseError struct {
	What string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.What, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NetworkError is a failed direct HTTP transfer.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("Failed to download: %d", e.StatusCode)
	}
	return fmt.Sprintf("Failed to download: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
