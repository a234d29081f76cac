package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vicradon/ytdl-web/models"
)

const (
	DefaultVideoQuality = "1080"
	DefaultAudioQuality = "128"
)

type qualityTier struct {
	Token string
	Label string
	Value int
}

// Ordered best first.
var (
	videoTiers = []qualityTier{
		{"2160", "4K (2160p)", 2160},
		{"1440", "2K (1440p)", 1440},
		{"1080", "1080p", 1080},
		{"720", "720p", 720},
		{"480", "480p", 480},
		{"360", "360p", 360},
	}
	audioTiers = []qualityTier{
		{"320", "320 kbps", 320},
		{"256", "256 kbps", 256},
		{"192", "192 kbps", 192},
		{"128", "128 kbps", 128},
		{"96", "96 kbps", 96},
	}
)

var (
	resolutionPattern = regexp.MustCompile(`^(\d+)x(\d+)$`)
	bitratePattern    = regexp.MustCompile(`^(\d+(?:\.\d+)?)k$`)
)

func findTier(tiers []qualityTier, token string) (qualityTier, bool) {
	for _, tier := range tiers {
		if tier.Token == token {
			return tier, true
		}
	}
	return qualityTier{}, false
}

// NormalizeVideoQuality maps unknown tokens to the default video tier.
func NormalizeVideoQuality(token string) string {
	if _, ok := findTier(videoTiers, strings.TrimSuffix(token, "p")); ok {
		return strings.TrimSuffix(token, "p")
	}
	return DefaultVideoQuality
}

// NormalizeAudioQuality maps unknown tokens to the default audio tier.
func NormalizeAudioQuality(token string) string {
	if _, ok := findTier(audioTiers, strings.TrimSuffix(token, "k")); ok {
		return strings.TrimSuffix(token, "k")
	}
	return DefaultAudioQuality
}

// VideoExpression returns the yt-dlp format selector for a video tier.
func VideoExpression(token string) string {
	h := NormalizeVideoQuality(token)
	return fmt.Sprintf("bestvideo[height<=%s]+bestaudio/best[height<=%s]", h, h)
}

// AudioExpression returns the yt-dlp format selector for an audio tier.
func AudioExpression(token string) string {
	return fmt.Sprintf("bestaudio[abr<=%s]", NormalizeAudioQuality(token))
}

// QualityLabel returns the human label for a token, or the token itself.
func QualityLabel(token string) string {
	if tier, ok := findTier(videoTiers, token); ok {
		return tier.Label
	}
	if tier, ok := findTier(audioTiers, token); ok {
		return tier.Label
	}
	return token
}

// DefaultQualities returns every known tier.
func DefaultQualities() models.QualitySet {
	return QualitiesFor(0, 0)
}

// QualitiesFor keeps the tiers at or below the probed maxima. A zero maximum
// means nothing was probed and the full list is returned. The lowest tier is
// always kept since the selectors fall back to "best" anyway.
func QualitiesFor(maxHeight, maxABR int) models.QualitySet {
	set := models.QualitySet{
		Video:  filterTiers(videoTiers, maxHeight),
		Audio:  filterTiers(audioTiers, maxABR),
		Labels: make(map[string]string, len(videoTiers)+len(audioTiers)),
	}
	for _, token := range append(append([]string{}, set.Video...), set.Audio...) {
		set.Labels[token] = QualityLabel(token)
	}
	return set
}

func filterTiers(tiers []qualityTier, max int) []string {
	tokens := make([]string, 0, len(tiers))
	for _, tier := range tiers {
		if max <= 0 || tier.Value <= max {
			tokens = append(tokens, tier.Token)
		}
	}
	if len(tokens) == 0 {
		tokens = append(tokens, tiers[len(tiers)-1].Token)
	}
	return tokens
}

// ParseFormatListing reads the table printed by `yt-dlp -F` and returns the
// largest video height and audio bitrate (kbps) it lists. Zero values mean
// nothing usable was found.
func ParseFormatListing(output string) (maxHeight, maxABR int) {
	inTable := false
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(strings.ReplaceAll(line, "│", "|"))
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "---") || strings.HasPrefix(line, "─") {
			inTable = true
			continue
		}
		if !inTable || strings.HasPrefix(line, "[") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}

		if fields[2] == "audio" && len(fields) > 3 && fields[3] == "only" {
			if abr := audioBitrate(line); abr > maxABR {
				maxABR = abr
			}
			continue
		}

		if m := resolutionPattern.FindStringSubmatch(fields[2]); m != nil {
			if h, err := strconv.Atoi(m[2]); err == nil && h > maxHeight && !strings.Contains(line, "images") {
				maxHeight = h
			}
		}
	}
	return maxHeight, maxABR
}

// audioBitrate picks the ABR column: the first "<n>k" value after the codec
// section of an audio-only row.
func audioBitrate(line string) int {
	parts := strings.Split(line, "|")
	if len(parts) < 3 {
		return 0
	}
	for _, field := range strings.Fields(parts[2]) {
		if m := bitratePattern.FindStringSubmatch(field); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return int(v)
			}
		}
	}
	return 0
}
