package criticalpath

import (
	"strings"

	"harlens/internal/har"
	"harlens/pkg/types"
)

// correlateAll matches every extracted head resource to a request record.
// Nothing is dropped: a resource without any match becomes a placeholder
// with found_in_har=false and zero timing, so it still counts in the
// blocking tally without fabricating data.
func correlateAll(extracted []HeadResource, records []har.RequestRecord) []types.BlockingResource {
	byURL := make(map[string]*har.RequestRecord, len(records))
	for i := range records {
		byURL[records[i].URL] = &records[i]
	}

	out := make([]types.BlockingResource, 0, len(extracted))
	for _, res := range extracted {
		out = append(out, correlate(res, byURL, records))
	}
	return out
}

// correlate tries an exact URL match first, then a suffix/substring match
// in capture order (covers relative hrefs against absolute request URLs).
func correlate(res HeadResource, byURL map[string]*har.RequestRecord, records []har.RequestRecord) types.BlockingResource {
	if r, ok := byURL[res.URL]; ok {
		return fromRecord(r, res.Kind)
	}
	for i := range records {
		r := &records[i]
		if strings.HasSuffix(r.URL, res.URL) || strings.Contains(r.URL, res.URL) {
			return fromRecord(r, res.Kind)
		}
	}
	return types.BlockingResource{
		URL:        res.URL,
		Type:       string(res.Kind),
		FoundInHAR: false,
	}
}

func fromRecord(r *har.RequestRecord, kind ResourceKind) types.BlockingResource {
	return types.BlockingResource{
		URL:        r.URL,
		Type:       string(kind),
		Size:       r.BodySize(),
		Time:       r.Time,
		Status:     r.Status,
		FoundInHAR: true,
	}
}
