// Package har provides a typed model of HTTP Archive (HAR 1.2) captures and
// the request records every analysis runs on. The capture is parsed once at
// load time; all absent-field handling happens here, not downstream.
package har

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrNoEntries is returned when a capture parses but carries no
// log.entries; an empty capture can never produce a meaningful summary.
var ErrNoEntries = errors.New("har: log.entries is missing or empty")

// HAR is the root of a capture document.
type HAR struct {
	Log Log `json:"log"`
}

// Log holds the capture metadata, page timings, and all entries.
type Log struct {
	Version string  `json:"version"`
	Creator Creator `json:"creator"`
	Pages   []Page  `json:"pages,omitempty"`
	Entries []Entry `json:"entries"`
}

// Creator identifies the application that produced the capture.
type Creator struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Page is one captured page with its load timings.
type Page struct {
	StartedDateTime string      `json:"startedDateTime,omitempty"`
	ID              string      `json:"id,omitempty"`
	Title           string      `json:"title,omitempty"`
	PageTimings     PageTimings `json:"pageTimings"`
}

// PageTimings are page-level milestones in milliseconds. Nil means the
// milestone was not captured; browsers also emit -1 for "not measured",
// which OnContentLoadMs/OnLoadMs normalize to nil.
type PageTimings struct {
	OnContentLoad *float64 `json:"onContentLoad,omitempty"`
	OnLoad        *float64 `json:"onLoad,omitempty"`
}

// OnContentLoadMs returns the DOM-ready milestone, nil when unavailable.
func (pt PageTimings) OnContentLoadMs() *float64 { return normalizeMilestone(pt.OnContentLoad) }

// OnLoadMs returns the load milestone, nil when unavailable.
func (pt PageTimings) OnLoadMs() *float64 { return normalizeMilestone(pt.OnLoad) }

func normalizeMilestone(v *float64) *float64 {
	if v == nil || *v < 0 {
		return nil
	}
	return v
}

// Entry is one request/response pair. Raw preserves the original entry
// bytes so the chunker can write full-fidelity detail files without the
// model having to mirror every HAR field.
type Entry struct {
	StartedDateTime string   `json:"startedDateTime"`
	Time            float64  `json:"time"`
	Request         Request  `json:"request"`
	Response        Response `json:"response"`
	Timings         Timings  `json:"timings"`
	ResourceHint    string   `json:"_resourceType,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the typed fields and retains the original bytes.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type plain Entry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = Entry(p)
	e.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON writes the retained original bytes when present.
func (e Entry) MarshalJSON() ([]byte, error) {
	if len(e.Raw) > 0 {
		return e.Raw, nil
	}
	type plain Entry
	return json.Marshal(plain(e))
}

// Request is the request half of an entry.
type Request struct {
	Method  string   `json:"method"`
	URL     string   `json:"url"`
	Headers []Header `json:"headers,omitempty"`
}

// Response is the response half of an entry.
type Response struct {
	Status     int      `json:"status"`
	StatusText string   `json:"statusText,omitempty"`
	Headers    []Header `json:"headers,omitempty"`
	Content    Content  `json:"content"`
}

// Content describes the response body.
type Content struct {
	MimeType string `json:"mimeType,omitempty"`
	Size     int64  `json:"size,omitempty"`
	Text     string `json:"text,omitempty"`
	Encoding string `json:"encoding,omitempty"`
}

// Header is one name/value pair; lookups are case-insensitive.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SentinelTiming marks a timing phase that was not measured. It must be
// excluded from averages, never treated as a zero measurement.
const SentinelTiming = -1

// Timings is the sub-phase breakdown of one entry in milliseconds. Missing
// phases decode as the sentinel.
type Timings struct {
	Blocked float64 `json:"blocked"`
	DNS     float64 `json:"dns"`
	Connect float64 `json:"connect"`
	Send    float64 `json:"send"`
	Wait    float64 `json:"wait"`
	Receive float64 `json:"receive"`
	SSL     float64 `json:"ssl"`
}

// UnmarshalJSON defaults absent phases to the sentinel rather than 0.
func (t *Timings) UnmarshalJSON(data []byte) error {
	raw := struct {
		Blocked *float64 `json:"blocked"`
		DNS     *float64 `json:"dns"`
		Connect *float64 `json:"connect"`
		Send    *float64 `json:"send"`
		Wait    *float64 `json:"wait"`
		Receive *float64 `json:"receive"`
		SSL     *float64 `json:"ssl"`
	}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.Blocked = phaseOrSentinel(raw.Blocked)
	t.DNS = phaseOrSentinel(raw.DNS)
	t.Connect = phaseOrSentinel(raw.Connect)
	t.Send = phaseOrSentinel(raw.Send)
	t.Wait = phaseOrSentinel(raw.Wait)
	t.Receive = phaseOrSentinel(raw.Receive)
	t.SSL = phaseOrSentinel(raw.SSL)
	return nil
}

func phaseOrSentinel(v *float64) float64 {
	if v == nil {
		return SentinelTiming
	}
	return *v
}

// ValidPhase reports whether a timing phase carries a real measurement.
func ValidPhase(v float64) bool { return v >= 0 }

// Load reads and validates a capture. Distinct failures: the file does not
// exist, the file is not valid JSON, or the document has no entries.
func Load(path string) (*HAR, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("har: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a capture document.
func Parse(data []byte) (*HAR, error) {
	var h HAR
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("har: invalid JSON: %w", err)
	}
	if len(h.Log.Entries) == 0 {
		return nil, ErrNoEntries
	}
	return &h, nil
}

// MainPage returns the first captured page, or nil when the capture has no
// page records.
func (h *HAR) MainPage() *Page {
	if len(h.Log.Pages) == 0 {
		return nil
	}
	return &h.Log.Pages[0]
}
