// Package classify maps network requests to canonical resource categories.
package classify

import "strings"

// ResourceType is the canonical resource category of a request.
type ResourceType string

// The seven canonical categories. Classification is total: anything that
// matches nothing falls through to TypeOther.
const (
	TypeScript     ResourceType = "script"
	TypeStylesheet ResourceType = "stylesheet"
	TypeImage      ResourceType = "image"
	TypeFont       ResourceType = "font"
	TypeDocument   ResourceType = "document"
	TypeMedia      ResourceType = "media"
	TypeOther      ResourceType = "other"
)

// All lists every canonical resource type.
func All() []ResourceType {
	return []ResourceType{
		TypeScript, TypeStylesheet, TypeImage, TypeFont,
		TypeDocument, TypeMedia, TypeOther,
	}
}

// extension groups, checked against the lowercased URL.
var (
	scriptExts     = []string{".js", ".jsx", ".ts", ".tsx"}
	stylesheetExts = []string{".css", ".scss", ".sass"}
	imageExts      = []string{".jpg", ".jpeg", ".png", ".gif", ".svg", ".webp", ".ico"}
	fontExts       = []string{".woff", ".woff2", ".ttf", ".eot", ".otf"}
	documentExts   = []string{".html", ".htm"}
	mediaExts      = []string{".mp4", ".avi", ".mov", ".wmv", ".mp3", ".wav"}
)

// Resource determines the canonical resource type of a request.
// Priority: the capture's own hint (when present and not the generic
// "other"), then the MIME type, then the URL extension.
func Resource(url, mimeType, harHint string) ResourceType {
	if hinted := normalizeHint(harHint); hinted != "" {
		return hinted
	}
	if t := fromMIME(strings.ToLower(mimeType)); t != "" {
		return t
	}
	if t := fromExtension(strings.ToLower(url)); t != "" {
		return t
	}
	return TypeOther
}

// normalizeHint accepts a HAR-provided _resourceType when it maps to a
// canonical category. The generic "other" hint is ignored so MIME and
// extension checks still get a chance.
func normalizeHint(hint string) ResourceType {
	if hint == "" {
		return ""
	}
	switch ResourceType(strings.ToLower(hint)) {
	case TypeScript, TypeStylesheet, TypeImage, TypeFont, TypeDocument, TypeMedia:
		return ResourceType(strings.ToLower(hint))
	}
	return ""
}

func fromMIME(mime string) ResourceType {
	switch {
	case mime == "":
		return ""
	case strings.Contains(mime, "javascript") || strings.Contains(mime, "application/json"):
		return TypeScript
	case strings.Contains(mime, "text/css"):
		return TypeStylesheet
	case strings.Contains(mime, "image/"):
		return TypeImage
	case strings.Contains(mime, "font/") || strings.Contains(mime, "application/font"):
		return TypeFont
	case strings.Contains(mime, "text/html"):
		return TypeDocument
	case strings.Contains(mime, "video/") || strings.Contains(mime, "audio/"):
		return TypeMedia
	}
	return ""
}

func fromExtension(url string) ResourceType {
	switch {
	case containsAny(url, scriptExts):
		return TypeScript
	case containsAny(url, stylesheetExts):
		return TypeStylesheet
	case containsAny(url, imageExts):
		return TypeImage
	case containsAny(url, fontExts):
		return TypeFont
	case containsAny(url, documentExts):
		return TypeDocument
	case containsAny(url, mediaExts):
		return TypeMedia
	}
	return ""
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
