package backend

import (
	"encoding/json"
	"strings"
)

// DownloadRequest is the body of POST /download.
type DownloadRequest struct {
	URL string `json:"url"`
}

// DownloadResponse is the 200 body of POST /download. Data is interpreted by
// the media package; its shape depends on the "type" key.
type DownloadResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

// HealthStatus is the advisory state reported by GET /health.
type HealthStatus struct {
	CookiesState   string `json:"cookies_status"`
	CookiesMessage string `json:"cookies_message"`
}

type healthBody struct {
	Cookies struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"cookies"`
}

// errorDetail extracts the "detail" field of an error body. FastAPI-style
// validation bodies carry a list of {"msg": ...} objects; those messages are
// joined. fallback is returned when the body is not JSON or has no detail.
func errorDetail(body []byte, fallback string) string {
	var parsed struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Detail) == 0 {
		return fallback
	}

	var text string
	if err := json.Unmarshal(parsed.Detail, &text); err == nil {
		return text
	}

	var entries []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(parsed.Detail, &entries); err == nil {
		msgs := make([]string, 0, len(entries))
		for _, entry := range entries {
			if m := strings.TrimSpace(entry.Msg); m != "" {
				msgs = append(msgs, m)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	if string(parsed.Detail) == "null" {
		return fallback
	}
	return string(parsed.Detail)
}
