package criticalpath

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ResourceKind tags an extracted head resource.
type ResourceKind string

// The two render-blocking resource kinds.
const (
	KindStylesheet ResourceKind = "stylesheet"
	KindScript     ResourceKind = "script"
)

// HeadResource is one render-blocking reference extracted from the
// document head, before correlation with the capture.
type HeadResource struct {
	URL  string
	Kind ResourceKind
}

// HeadParser extracts render-blocking resources from an HTML document.
// Both implementations honor the same contract: inspect at most maxBytes
// of content, restrict to the <head> section, treat every
// link rel=stylesheet as blocking, and treat head scripts with a src and
// neither async nor defer as blocking.
type HeadParser interface {
	ParseHead(content string) ([]HeadResource, error)
}

// StructuralParser parses the document with a real HTML parser. On parse
// failure it falls back to the regex parser, so malformed markup degrades
// instead of failing.
type StructuralParser struct {
	maxBytes int
	fallback *RegexParser
}

// NewStructuralParser creates a StructuralParser bounding content to
// maxBytes (<=0 means the 1MB default).
func NewStructuralParser(maxBytes int) *StructuralParser {
	return &StructuralParser{maxBytes: normalizeMax(maxBytes), fallback: NewRegexParser(maxBytes)}
}

// ParseHead implements HeadParser.
func (p *StructuralParser) ParseHead(content string) ([]HeadResource, error) {
	content = truncate(content, p.maxBytes)
	node, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return p.fallback.ParseHead(content)
	}
	doc := goquery.NewDocumentFromNode(node)

	resources := make([]HeadResource, 0)
	doc.Find("head link").Each(func(_ int, s *goquery.Selection) {
		rel, _ := s.Attr("rel")
		href, ok := s.Attr("href")
		if !ok || href == "" || !strings.EqualFold(strings.TrimSpace(rel), "stylesheet") {
			return
		}
		resources = append(resources, HeadResource{URL: href, Kind: KindStylesheet})
	})
	doc.Find("head script").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok || src == "" {
			return
		}
		if _, async := s.Attr("async"); async {
			return
		}
		if _, deferred := s.Attr("defer"); deferred {
			return
		}
		resources = append(resources, HeadResource{URL: src, Kind: KindScript})
	})
	return resources, nil
}

// RegexParser extracts head resources with regular expressions. It exists
// for environments where markup breaks the structural parser; for
// well-formed heads both parsers produce the same result.
type RegexParser struct {
	maxBytes int
}

// NewRegexParser creates a RegexParser bounding content to maxBytes.
func NewRegexParser(maxBytes int) *RegexParser {
	return &RegexParser{maxBytes: normalizeMax(maxBytes)}
}

var (
	headPattern       = regexp.MustCompile(`(?is)<head[^>]*>(.*?)</head>`)
	stylesheetPattern = regexp.MustCompile(`(?i)<link[^>]*rel=["']stylesheet["'][^>]*href=["']([^"']+)["'][^>]*>`)
	scriptPattern     = regexp.MustCompile(`(?i)<script[^>]*src=["']([^"']+)["'][^>]*>`)
	asyncPattern      = regexp.MustCompile(`(?i)\basync\b`)
	deferPattern      = regexp.MustCompile(`(?i)\bdefer\b`)
)

// ParseHead implements HeadParser.
func (p *RegexParser) ParseHead(content string) ([]HeadResource, error) {
	content = truncate(content, p.maxBytes)
	headMatch := headPattern.FindStringSubmatch(content)
	if headMatch == nil {
		return []HeadResource{}, nil
	}
	head := headMatch[1]

	resources := make([]HeadResource, 0)
	for _, m := range stylesheetPattern.FindAllStringSubmatch(head, -1) {
		resources = append(resources, HeadResource{URL: m[1], Kind: KindStylesheet})
	}
	for _, m := range scriptPattern.FindAllStringSubmatch(head, -1) {
		tag := m[0]
		if asyncPattern.MatchString(tag) || deferPattern.MatchString(tag) {
			continue
		}
		resources = append(resources, HeadResource{URL: m[1], Kind: KindScript})
	}
	return resources, nil
}

// NewParser selects a HeadParser implementation by name ("structural" or
// "regex").
func NewParser(name string, maxBytes int) (HeadParser, error) {
	switch name {
	case "structural", "":
		return NewStructuralParser(maxBytes), nil
	case "regex":
		return NewRegexParser(maxBytes), nil
	default:
		return nil, fmt.Errorf("criticalpath: unknown head parser %q", name)
	}
}

func normalizeMax(maxBytes int) int {
	if maxBytes <= 0 {
		return 1 << 20
	}
	return maxBytes
}

func truncate(s string, maxBytes int) string {
	if len(s) > maxBytes {
		return s[:maxBytes]
	}
	return s
}
