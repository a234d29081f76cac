package utils

import (
	"path/filepath"

	"github.com/alessio/shellescape"
)

// OutputTemplate is yt-dlp's own filename template, expanded by the tool.
const OutputTemplate = "%(title)s.%(ext)s"

// DownloadOptions describes one yt-dlp media download.
type DownloadOptions struct {
	URL          string
	OutputDir    string
	Selector     string
	AudioOnly    bool
	Format       string
	AudioBitrate string
}

func VersionArgs() []string {
	return []string{"--version"}
}

func InfoArgs(url string) []string {
	return []string{"-j", "--no-playlist", "--", url}
}

func FormatsArgs(url string) []string {
	return []string{"-F", "--no-playlist", "--", url}
}

// BuildDownloadArgs returns the argument vector for a download. The URL always
// follows "--" so it can never be read as an option.
func BuildDownloadArgs(opts DownloadOptions) []string {
	args := []string{"-f", opts.Selector}

	if opts.AudioOnly {
		args = append(args, "-x", "--audio-format", opts.Format)
		if opts.AudioBitrate != "" {
			args = append(args, "--audio-quality", opts.AudioBitrate+"K")
		}
	} else {
		args = append(args, "--merge-output-format", opts.Format)
	}

	args = append(args,
		"--no-playlist",
		"--output", filepath.Join(opts.OutputDir, OutputTemplate),
		"--", opts.URL,
	)
	return args
}

// QuoteCommand renders a command line for logs.
func QuoteCommand(name string, args []string) string {
	return shellescape.QuoteCommand(append([]string{name}, args...))
}
