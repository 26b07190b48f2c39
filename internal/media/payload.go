package media

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Wire keys understood in the backend's data mapping.
const (
	keyType          = "type"
	keyVideoTitle    = "video_title"
	keyFilename      = "filename"
	keyDownloadURL   = "download_url"
	keyPlatform      = "platform"
	keyPlaylistTitle = "playlist_title"
	keyVideoCount    = "video_count"
	keyTitles        = "titles"
	keyFilenames     = "filenames"
	keyDownloadURLs  = "download_urls"

	typePlaylist = "playlist"

	// DefaultFilename is used when a single-video payload omits filename.
	DefaultFilename = "video.mp4"
	// DefaultPlaylistTitle is used when a playlist payload omits playlist_title.
	DefaultPlaylistTitle = "Playlist"
)

// Payload is the decoded form of the backend's data mapping. It is one of
// SingleVideo or Playlist.
type Payload interface {
	isPayload()
}

// SingleVideo describes a response carrying exactly one item.
type SingleVideo struct {
	Title    string
	Filename string
	Locator  string
	Platform string
}

// Playlist describes a response carrying an ordered collection. Titles,
// Filenames, and Locators are parallel sequences; Titles may be shorter or
// absent.
type Playlist struct {
	Title         string
	DeclaredCount int
	Titles        []string
	Filenames     []string
	Locators      []string
}

func (SingleVideo) isPayload() {}
func (Playlist) isPayload()    {}

// DecodePayload classifies data by its "type" field. Only the literal
// "playlist" selects the collection shape; anything else, including a missing
// or non-string discriminator, is treated as a single video. Missing keys take
// defaults and never fail.
func DecodePayload(data map[string]any) Payload {
	if stringField(data, keyType) == typePlaylist {
		title := DefaultPlaylistTitle
		if s, ok := data[keyPlaylistTitle].(string); ok {
			title = s
		}
		return Playlist{
			Title:         title,
			DeclaredCount: intField(data, keyVideoCount),
			Titles:        stringsField(data, keyTitles),
			Filenames:     stringsField(data, keyFilenames),
			Locators:      stringsField(data, keyDownloadURLs),
		}
	}

	filename := DefaultFilename
	if s, ok := data[keyFilename].(string); ok {
		filename = s
	}
	return SingleVideo{
		Title:    stringField(data, keyVideoTitle),
		Filename: filename,
		Locator:  stringField(data, keyDownloadURL),
		Platform: stringField(data, keyPlatform),
	}
}

func stringField(data map[string]any, key string) string {
	if s, ok := data[key].(string); ok {
		return s
	}
	return ""
}

func stringsField(data map[string]any, key string) []string {
	switch v := data[key].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, len(v))
		for i, entry := range v {
			if s, ok := entry.(string); ok {
				out[i] = s
			}
		}
		return out
	default:
		return nil
	}
}

func intField(data map[string]any, key string) int {
	switch v := data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
		if f, err := v.Float64(); err == nil {
			return int(f)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}
