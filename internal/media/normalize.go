package media

import "fmt"

// Item is one entry of a presentation batch. It is created fresh for every
// submission and never mutated afterwards.
type Item struct {
	Title    string `json:"title"`
	Filename string `json:"filename"`
	Locator  string `json:"resource_locator"`
	Ordinal  int    `json:"ordinal"`
}

// DisplayTitle returns the title, falling back to the filename.
func (i Item) DisplayTitle() string {
	if i.Title != "" {
		return i.Title
	}
	return i.Filename
}

// Normalize converts the backend's data mapping into ordered items.
func Normalize(data map[string]any) []Item {
	return Items(DecodePayload(data))
}

// Items flattens a decoded payload. Playlist sequences are zipped
// positionally and truncated to the shorter of Filenames and Locators.
func Items(p Payload) []Item {
	switch v := p.(type) {
	case SingleVideo:
		return []Item{{
			Title:    v.Title,
			Filename: v.Filename,
			Locator:  v.Locator,
			Ordinal:  0,
		}}
	case Playlist:
		n := min(len(v.Filenames), len(v.Locators))
		items := make([]Item, n)
		for i := range n {
			title := ""
			if i < len(v.Titles) {
				title = v.Titles[i]
			}
			if title == "" {
				title = v.Filenames[i]
			}
			items[i] = Item{
				Title:    title,
				Filename: v.Filenames[i],
				Locator:  v.Locators[i],
				Ordinal:  i,
			}
		}
		return items
	case nil:
		return Items(SingleVideo{Filename: DefaultFilename})
	default:
		panic(fmt.Sprintf("media: unhandled payload type %T", p))
	}
}

// Truncated reports whether zipping a playlist dropped entries, or whether
// the declared count disagrees with what was produced.
func (p Playlist) Truncated() bool {
	n := min(len(p.Filenames), len(p.Locators))
	return len(p.Filenames) != len(p.Locators) || (p.DeclaredCount != 0 && p.DeclaredCount != n)
}
