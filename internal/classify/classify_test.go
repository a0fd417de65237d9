package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResource_HintTakesPriority(t *testing.T) {
	got := Resource("https://cdn.example.com/app.css", "text/css", "script")
	assert.Equal(t, TypeScript, got)
}

func TestResource_OtherHintIgnored(t *testing.T) {
	// The generic "other" hint must not shadow a usable MIME type.
	got := Resource("https://example.com/app.js", "application/javascript", "other")
	assert.Equal(t, TypeScript, got)
}

func TestResource_FromMIME(t *testing.T) {
	tests := []struct {
		mime string
		want ResourceType
	}{
		{"application/javascript", TypeScript},
		{"application/json", TypeScript},
		{"text/css", TypeStylesheet},
		{"image/png", TypeImage},
		{"font/woff2", TypeFont},
		{"application/font-woff", TypeFont},
		{"text/html; charset=utf-8", TypeDocument},
		{"video/mp4", TypeMedia},
		{"audio/mpeg", TypeMedia},
	}
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			assert.Equal(t, tt.want, Resource("https://example.com/resource", tt.mime, ""))
		})
	}
}

func TestResource_FromExtension(t *testing.T) {
	tests := []struct {
		url  string
		want ResourceType
	}{
		{"https://example.com/bundle.js", TypeScript},
		{"https://example.com/app.tsx", TypeScript},
		{"https://example.com/theme.css", TypeStylesheet},
		{"https://example.com/logo.svg", TypeImage},
		{"https://example.com/favicon.ico", TypeImage},
		{"https://example.com/font.woff2", TypeFont},
		{"https://example.com/index.html", TypeDocument},
		{"https://example.com/intro.mp4", TypeMedia},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, Resource(tt.url, "", ""))
		})
	}
}

func TestResource_FallsThroughToOther(t *testing.T) {
	assert.Equal(t, TypeOther, Resource("https://api.example.com/v1/users", "", ""))
	assert.Equal(t, TypeOther, Resource("", "", ""))
	assert.Equal(t, TypeOther, Resource("https://example.com/data", "application/octet-stream", ""))
}

func TestResource_URLCaseInsensitive(t *testing.T) {
	assert.Equal(t, TypeImage, Resource("https://EXAMPLE.com/LOGO.PNG", "", ""))
}

func TestAll_CoversEveryType(t *testing.T) {
	assert.Len(t, All(), 7)
	assert.Contains(t, All(), TypeOther)
}
