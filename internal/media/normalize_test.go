package media_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"anydl/internal/media"
)

func decodeData(t *testing.T, raw string) map[string]any {
	t.Helper()
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	return data
}

func TestNormalizeSingleVideo(t *testing.T) {
	data := decodeData(t, `{
		"type": "video",
		"video_title": "Never Gonna Give You Up",
		"filename": "rick.mp4",
		"download_url": "/files/rick.mp4",
		"platform": "youtube"
	}`)

	items := media.Normalize(data)
	want := []media.Item{{
		Title:    "Never Gonna Give You Up",
		Filename: "rick.mp4",
		Locator:  "/files/rick.mp4",
		Ordinal:  0,
	}}
	if !reflect.DeepEqual(items, want) {
		t.Fatalf("unexpected items:\n got %+v\nwant %+v", items, want)
	}
}

func TestNormalizeSingleVideoDefaults(t *testing.T) {
	for name, data := range map[string]map[string]any{
		"empty":           {},
		"nil map":         nil,
		"unknown type":    {"type": "reel"},
		"non-string type": {"type": 7},
		"null fields":     {"filename": nil, "video_title": nil},
	} {
		t.Run(name, func(t *testing.T) {
			items := media.Normalize(data)
			if len(items) != 1 {
				t.Fatalf("expected exactly one item, got %d", len(items))
			}
			item := items[0]
			if item.Ordinal != 0 {
				t.Fatalf("expected ordinal 0, got %d", item.Ordinal)
			}
			if item.Title != "" || item.Locator != "" {
				t.Fatalf("expected empty title and locator, got %+v", item)
			}
			if item.Filename != media.DefaultFilename {
				t.Fatalf("expected default filename, got %q", item.Filename)
			}
			if item.DisplayTitle() != media.DefaultFilename {
				t.Fatalf("expected display title to fall back to filename, got %q", item.DisplayTitle())
			}
		})
	}
}

func TestNormalizePlaylistPreservesOrder(t *testing.T) {
	data := decodeData(t, `{
		"type": "playlist",
		"playlist_title": "My List",
		"video_count": 3,
		"filenames": ["a.mp4", "b.mp4", "c.mp4"],
		"download_urls": ["/f/a", "/f/b", "/f/c"]
	}`)

	items := media.Normalize(data)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, name := range []string{"a.mp4", "b.mp4", "c.mp4"} {
		if items[i].Ordinal != i {
			t.Fatalf("item %d has ordinal %d", i, items[i].Ordinal)
		}
		if items[i].Filename != name || items[i].Title != name {
			t.Fatalf("item %d: expected %q for filename and title, got %+v", i, name, items[i])
		}
	}
	if items[2].Locator != "/f/c" {
		t.Fatalf("unexpected locator for last item: %q", items[2].Locator)
	}
}

func TestNormalizePlaylistTruncatesToShorterSequence(t *testing.T) {
	data := decodeData(t, `{
		"type": "playlist",
		"video_count": 3,
		"filenames": ["a.mp4", "b.mp4", "c.mp4"],
		"download_urls": ["/f/a", "/f/b"]
	}`)

	payload := media.DecodePayload(data)
	playlist, ok := payload.(media.Playlist)
	if !ok {
		t.Fatalf("expected playlist payload, got %T", payload)
	}
	if !playlist.Truncated() {
		t.Fatal("expected mismatch to be reported")
	}
	if playlist.Title != media.DefaultPlaylistTitle {
		t.Fatalf("expected default playlist title, got %q", playlist.Title)
	}

	items := media.Items(payload)
	if len(items) != 2 {
		t.Fatalf("expected truncation to 2 items, got %d", len(items))
	}
	if items[1].Filename != "b.mp4" || items[1].Ordinal != 1 {
		t.Fatalf("unexpected second item: %+v", items[1])
	}
}

func TestNormalizePlaylistTitlesFallBackToFilename(t *testing.T) {
	data := map[string]any{
		"type":          "playlist",
		"video_count":   "2",
		"titles":        []any{"First", nil},
		"filenames":     []any{"one.mp4", "two.mp4"},
		"download_urls": []any{"/f/1", 42},
	}

	playlist := media.DecodePayload(data).(media.Playlist)
	if playlist.DeclaredCount != 2 {
		t.Fatalf("expected numeric string count to decode, got %d", playlist.DeclaredCount)
	}
	if playlist.Truncated() {
		t.Fatal("did not expect truncation")
	}

	items := media.Items(playlist)
	if items[0].Title != "First" {
		t.Fatalf("expected explicit title, got %q", items[0].Title)
	}
	if items[1].Title != "two.mp4" {
		t.Fatalf("expected filename fallback, got %q", items[1].Title)
	}
	if items[1].Locator != "" {
		t.Fatalf("expected non-string locator to decode as empty, got %q", items[1].Locator)
	}
}

func TestNormalizePlaylistWithoutSequences(t *testing.T) {
	items := media.Normalize(map[string]any{"type": "playlist", "video_count": 4, "filenames": "oops"})
	if len(items) != 0 {
		t.Fatalf("expected no items, got %+v", items)
	}
}
