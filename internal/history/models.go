package history

import "time"

// Entry is one submission attempt. Only metadata is kept; media bytes are
// never written here.
type Entry struct {
	ID            int64     `json:"id"`
	RequestID     string    `json:"request_id"`
	URL           string    `json:"url"`
	Outcome       string    `json:"outcome"`
	StatusCode    int       `json:"status_code,omitempty"`
	Detail        string    `json:"detail,omitempty"`
	IsCollection  bool      `json:"is_collection"`
	Title         string    `json:"title,omitempty"`
	ItemCount     int       `json:"item_count"`
	DeclaredCount int       `json:"declared_count,omitempty"`
	Platform      string    `json:"platform,omitempty"`
	SavedCount    int       `json:"saved_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// Succeeded reports whether the submission produced a batch.
func (e Entry) Succeeded() bool {
	return e.Outcome == OutcomeOK
}

// OutcomeOK is recorded for successful submissions. Failed submissions store
// the error kind name.
const OutcomeOK = "ok"
