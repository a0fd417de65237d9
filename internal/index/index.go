// Package index maintains roaring-bitmap postings over the request records
// of one capture. Analyzers pull candidate sets (per resource type, per
// domain, per status class, per latency bucket) from here instead of
// rescanning the record slice.
package index

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"harlens/internal/classify"
	"harlens/internal/har"
)

// Bucket is a latency bucket. The four buckets partition all records:
// every record lands in exactly one.
type Bucket string

// Latency buckets with their fixed thresholds.
const (
	BucketFast     Bucket = "fast"      // < 200ms
	BucketMedium   Bucket = "medium"    // 200–500ms
	BucketSlow     Bucket = "slow"      // 500–1000ms
	BucketVerySlow Bucket = "very_slow" // >= 1000ms
)

// Buckets lists the latency buckets in ascending order.
func Buckets() []Bucket {
	return []Bucket{BucketFast, BucketMedium, BucketSlow, BucketVerySlow}
}

// BucketFor places a duration into its latency bucket.
func BucketFor(timeMs float64) Bucket {
	switch {
	case timeMs < 200:
		return BucketFast
	case timeMs < 500:
		return BucketMedium
	case timeMs < 1000:
		return BucketSlow
	default:
		return BucketVerySlow
	}
}

// Index holds the postings for one capture. It is built once and read-only
// afterwards.
type Index struct {
	records []har.RequestRecord

	all      *roaring.Bitmap
	byType   map[classify.ResourceType]*roaring.Bitmap
	byDomain map[string]*roaring.Bitmap
	byClass  map[int]*roaring.Bitmap // status/100: 2, 3, 4, 5
	byBucket map[Bucket]*roaring.Bitmap
}

// Build indexes the records. Record index doubles as the bitmap document ID.
func Build(records []har.RequestRecord) *Index {
	x := &Index{
		records:  records,
		all:      roaring.New(),
		byType:   make(map[classify.ResourceType]*roaring.Bitmap),
		byDomain: make(map[string]*roaring.Bitmap),
		byClass:  make(map[int]*roaring.Bitmap),
		byBucket: make(map[Bucket]*roaring.Bitmap),
	}
	for i := range records {
		r := &records[i]
		id := uint32(r.Index)
		x.all.Add(id)
		posting(x.byType, r.ResourceType).Add(id)
		posting(x.byDomain, r.Domain()).Add(id)
		posting(x.byClass, r.Status/100).Add(id)
		posting(x.byBucket, BucketFor(r.Time)).Add(id)
	}
	return x
}

func posting[K comparable](m map[K]*roaring.Bitmap, key K) *roaring.Bitmap {
	bm, ok := m[key]
	if !ok {
		bm = roaring.New()
		m[key] = bm
	}
	return bm
}

// Len returns the number of indexed records.
func (x *Index) Len() int { return len(x.records) }

// All returns a copy of the full document set.
func (x *Index) All() *roaring.Bitmap { return x.all.Clone() }

// Records returns the indexed record slice in capture order.
func (x *Index) Records() []har.RequestRecord { return x.records }

// Type returns the posting for one resource type (empty when unseen).
func (x *Index) Type(t classify.ResourceType) *roaring.Bitmap {
	return cloneOrEmpty(x.byType[t])
}

// Types returns the resource types present, sorted for determinism.
func (x *Index) Types() []classify.ResourceType {
	out := make([]classify.ResourceType, 0, len(x.byType))
	for t := range x.byType {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Domain returns the posting for one lowercased domain.
func (x *Index) Domain(domain string) *roaring.Bitmap {
	return cloneOrEmpty(x.byDomain[domain])
}

// Domains returns the domains present, sorted for determinism.
func (x *Index) Domains() []string {
	out := make([]string, 0, len(x.byDomain))
	for d := range x.byDomain {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Bucket returns the posting for one latency bucket.
func (x *Index) Bucket(b Bucket) *roaring.Bitmap {
	return cloneOrEmpty(x.byBucket[b])
}

// Failed returns the union of the 4xx and 5xx status classes.
func (x *Index) Failed() *roaring.Bitmap {
	return roaring.Or(cloneOrEmpty(x.byClass[4]), cloneOrEmpty(x.byClass[5]))
}

// Select materializes the records of a posting in capture order.
func (x *Index) Select(bm *roaring.Bitmap) []har.RequestRecord {
	out := make([]har.RequestRecord, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, x.records[it.Next()])
	}
	return out
}

func cloneOrEmpty(bm *roaring.Bitmap) *roaring.Bitmap {
	if bm == nil {
		return roaring.New()
	}
	return bm.Clone()
}
