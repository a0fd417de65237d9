// Package config provides configuration from environment variables with an
// optional YAML overlay file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Head parser selection values.
const (
	ParserStructural = "structural"
	ParserRegex      = "regex"
)

// Config holds all analyzer configuration.
type Config struct {
	ChunkSize  int // HARLENS_CHUNK_SIZE, entries per chunk file, default 10
	TopLargest int // HARLENS_TOP_LARGEST, default 10
	TopSlowest int // HARLENS_TOP_SLOWEST, default 10
	SummaryTop int // HARLENS_SUMMARY_TOP, entries kept in the summary lists, default 5

	// FirstPartyDomains mark requests as first-party; a request is
	// third-party when its domain neither equals nor contains any of them.
	// Empty means "derive from the analyzed document's domain".
	FirstPartyDomains []string // HARLENS_FIRST_PARTY, comma separated

	HeadParser        string // HARLENS_HEAD_PARSER: structural or regex, default structural
	MaxDocumentBytes  int    // HARLENS_MAX_DOCUMENT_BYTES, head parsing cap, default 1MB
	BodyCacheMaxItems int    // HARLENS_BODY_CACHE_MAX_ITEMS, default 256

	LogLevel      string // LOG_LEVEL, default "info"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 3
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		ChunkSize:         getEnvInt("HARLENS_CHUNK_SIZE", 10),
		TopLargest:        getEnvInt("HARLENS_TOP_LARGEST", 10),
		TopSlowest:        getEnvInt("HARLENS_TOP_SLOWEST", 10),
		SummaryTop:        getEnvInt("HARLENS_SUMMARY_TOP", 5),
		FirstPartyDomains: getEnvList("HARLENS_FIRST_PARTY"),
		HeadParser:        getEnvString("HARLENS_HEAD_PARSER", ParserStructural),
		MaxDocumentBytes:  getEnvInt("HARLENS_MAX_DOCUMENT_BYTES", 1<<20),
		BodyCacheMaxItems: getEnvInt("HARLENS_BODY_CACHE_MAX_ITEMS", 256),
		LogLevel:          getEnvString("LOG_LEVEL", "info"),
		LogFile:           getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:      getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups:     getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays:     getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:       getEnvBool("LOG_COMPRESS", true),
	}
}

// fileConfig is the YAML overlay shape; only set fields override.
type fileConfig struct {
	ChunkSize         *int     `yaml:"chunk_size"`
	TopLargest        *int     `yaml:"top_largest"`
	TopSlowest        *int     `yaml:"top_slowest"`
	SummaryTop        *int     `yaml:"summary_top"`
	FirstPartyDomains []string `yaml:"first_party_domains"`
	HeadParser        *string  `yaml:"head_parser"`
	MaxDocumentBytes  *int     `yaml:"max_document_bytes"`
	BodyCacheMaxItems *int     `yaml:"body_cache_max_items"`
	LogLevel          *string  `yaml:"log_level"`
	LogFile           *string  `yaml:"log_file"`
}

// LoadFile loads the environment defaults and overlays a YAML file on top.
func LoadFile(path string) (*Config, error) {
	cfg := Load()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	overlayInt(&cfg.ChunkSize, fc.ChunkSize)
	overlayInt(&cfg.TopLargest, fc.TopLargest)
	overlayInt(&cfg.TopSlowest, fc.TopSlowest)
	overlayInt(&cfg.SummaryTop, fc.SummaryTop)
	if len(fc.FirstPartyDomains) > 0 {
		cfg.FirstPartyDomains = fc.FirstPartyDomains
	}
	overlayString(&cfg.HeadParser, fc.HeadParser)
	overlayInt(&cfg.MaxDocumentBytes, fc.MaxDocumentBytes)
	overlayInt(&cfg.BodyCacheMaxItems, fc.BodyCacheMaxItems)
	overlayString(&cfg.LogLevel, fc.LogLevel)
	overlayString(&cfg.LogFile, fc.LogFile)
	return cfg, cfg.Validate()
}

// Validate rejects values no analyzer can run with.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("config: chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.HeadParser != ParserStructural && c.HeadParser != ParserRegex {
		return fmt.Errorf("config: unknown head parser %q", c.HeadParser)
	}
	return nil
}

func overlayInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func overlayString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}
