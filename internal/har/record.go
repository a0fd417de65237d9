package har

import (
	"net/url"
	"strings"

	"harlens/internal/classify"
)

// RequestRecord is the canonical per-entry view every analysis consumes.
// Records are built once per capture in entry order and never modified;
// Index preserves capture order through every derived ranking.
type RequestRecord struct {
	Index           int
	URL             string
	Method          string
	Status          int
	StatusText      string
	Size            int64 // raw reported size, may be 0 or negative
	MimeType        string
	ResourceType    classify.ResourceType
	Time            float64 // total duration in ms
	Timings         Timings
	ResponseHeaders []Header
	StartedDateTime string
}

// Records derives one immutable record per entry, classifying each through
// the canonical resource classifier.
func (h *HAR) Records() []RequestRecord {
	records := make([]RequestRecord, len(h.Log.Entries))
	for i, e := range h.Log.Entries {
		records[i] = RequestRecord{
			Index:           i,
			URL:             e.Request.URL,
			Method:          e.Request.Method,
			Status:          e.Response.Status,
			StatusText:      e.Response.StatusText,
			Size:            e.Response.Content.Size,
			MimeType:        e.Response.Content.MimeType,
			ResourceType:    classify.Resource(e.Request.URL, e.Response.Content.MimeType, e.ResourceHint),
			Time:            e.Time,
			Timings:         e.Timings,
			ResponseHeaders: e.Response.Headers,
			StartedDateTime: e.StartedDateTime,
		}
	}
	return records
}

// BodySize returns the response size clamped to >= 0. Buggy captures report
// negative sizes; aggregation must never go negative because of them.
func (r *RequestRecord) BodySize() int64 {
	if r.Size < 0 {
		return 0
	}
	return r.Size
}

// Header looks up a response header case-insensitively. The second return
// distinguishes an empty value from an absent header.
func (r *RequestRecord) Header(name string) (string, bool) {
	for _, h := range r.ResponseHeaders {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// Domain returns the lowercased request authority, or "unknown" when the
// URL does not parse.
func (r *RequestRecord) Domain() string {
	u, err := url.Parse(r.URL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return strings.ToLower(u.Host)
}

// Failed reports whether the request completed with an error status.
func (r *RequestRecord) Failed() bool { return r.Status >= 400 }
