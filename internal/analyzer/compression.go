package analyzer

import (
	"strings"

	"harlens/internal/har"
	"harlens/pkg/types"
)

// compressibleTypes is the text-like MIME allowlist checked against the
// response content-type header.
var compressibleTypes = []string{
	"text/",
	"application/javascript",
	"application/json",
	"application/xml",
	"application/css",
	"image/svg",
}

// Compression audit constants. The 70% savings estimate is a fixed
// heuristic downstream reports depend on, not a measurement.
const (
	compressibleMinBytes    = 1024
	compressionSavingsRatio = 0.7
)

// AnalyzeCompression flags compressible responses served without a
// content-encoding header and estimates the byte savings.
func AnalyzeCompression(records []har.RequestRecord) types.CompressionAnalysis {
	analysis := types.CompressionAnalysis{
		UncompressedResources: make([]types.UncompressedResource, 0),
	}
	var totalCompressible, totalSavings int64
	for i := range records {
		r := &records[i]
		contentType, _ := r.Header("content-type")
		if !isCompressible(contentType) || r.BodySize() <= compressibleMinBytes {
			continue
		}
		totalCompressible += r.BodySize()
		if _, encoded := r.Header("content-encoding"); encoded {
			continue
		}
		savings := int64(float64(r.BodySize()) * compressionSavingsRatio)
		analysis.UncompressedResources = append(analysis.UncompressedResources, types.UncompressedResource{
			URL:              r.URL,
			Size:             r.BodySize(),
			ContentType:      contentType,
			PotentialSavings: savings,
		})
		totalSavings += savings
	}
	analysis.TotalPotentialSavingsKB = round1(float64(totalSavings) / 1024)
	analysis.TotalCompressibleKB = round1(float64(totalCompressible) / 1024)
	analysis.CompressionOpportunities = len(analysis.UncompressedResources)
	return analysis
}

func isCompressible(contentType string) bool {
	lower := strings.ToLower(contentType)
	for _, t := range compressibleTypes {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
