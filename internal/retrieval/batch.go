package retrieval

import (
	"context"
	"fmt"

	"anydl/internal/media"
	"anydl/internal/services"
)

// Handle is a lazily fetchable batch item. Bytes are never cached; every
// Fetch call goes back to the backend.
type Handle struct {
	Item      media.Item
	requestID string
	fetcher   MediaFetcher
}

// DirectURL is the backend link for the item, used when bytes are absent.
func (h Handle) DirectURL() string {
	if h.fetcher == nil {
		return h.Item.Locator
	}
	return h.fetcher.URLFor(h.Item.Locator)
}

// Fetch retrieves the item's bytes. It reports false on any failure.
func (h Handle) Fetch(ctx context.Context) ([]byte, bool) {
	if h.fetcher == nil {
		return nil, false
	}
	if h.requestID != "" {
		ctx = services.WithRequestID(ctx, h.requestID)
	}
	ctx = services.WithOrdinal(ctx, h.Item.Ordinal)
	return h.fetcher.Fetch(ctx, h.Item.Locator)
}

// Batch is the normalized result of one successful submission.
type Batch struct {
	Items           []Handle
	CollectionTitle string
	IsCollection    bool
	DeclaredCount   int
	Platform        string
	Message         string
	RequestID       string
}

// Title is the collection title, or the single item's display title.
func (b *Batch) Title() string {
	if b.IsCollection {
		return b.CollectionTitle
	}
	if len(b.Items) == 0 {
		return ""
	}
	return b.Items[0].Item.DisplayTitle()
}

// Select returns a batch narrowed to the given ordinals. Output keeps ordinal
// order regardless of argument order; duplicates collapse. An ordinal outside
// the batch is an error.
func (b *Batch) Select(ordinals ...int) (*Batch, error) {
	if len(ordinals) == 0 {
		return b, nil
	}
	present := make(map[int]bool, len(b.Items))
	for _, handle := range b.Items {
		present[handle.Item.Ordinal] = true
	}
	wanted := make(map[int]bool, len(ordinals))
	for _, ordinal := range ordinals {
		if !present[ordinal] {
			return nil, fmt.Errorf("item %d not in batch (batch has %d items)", ordinal+1, len(b.Items))
		}
		wanted[ordinal] = true
	}

	narrowed := *b
	narrowed.Items = make([]Handle, 0, len(wanted))
	for _, handle := range b.Items {
		if wanted[handle.Item.Ordinal] {
			narrowed.Items = append(narrowed.Items, handle)
		}
	}
	return &narrowed, nil
}
