package model

// Source type identifiers understood by the collector.
const (
	SourceTypeRSS    = "rss"
	SourceTypeEDINET = "edinet"
)

// DefaultImportance is the baseline for feed sources that don't set one.
const DefaultImportance = 3

// TopicPack is a named, independently togglable bundle of sources and
// filtering rules covering one subject area. Read-only to the pipeline.
type TopicPack struct {
	Name    string         `yaml:"-"`
	Enabled bool           `yaml:"enabled"`
	Sources []SourceConfig `yaml:"sources"`
	Rules   Rules          `yaml:"rules"`
}

// SourceConfig describes one configured source inside a topic pack.
type SourceConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	// URL is the feed URL for rss sources; Endpoint is the API base for
	// edinet sources.
	URL      string `yaml:"url"`
	Endpoint string `yaml:"endpoint"`

	// BaseImportance overrides the default importance for feed items.
	// Zero means unset.
	BaseImportance int `yaml:"base_importance"`

	// IncludeDocTypeCodes restricts edinet filings to the listed document
	// type codes. Empty means no restriction.
	IncludeDocTypeCodes []string `yaml:"include_doc_type_codes"`
}

// Importance returns the configured baseline, or the default.
func (s SourceConfig) Importance() int {
	if s.BaseImportance > 0 {
		return s.BaseImportance
	}
	return DefaultImportance
}

// Rules holds the keyword dictionaries for one topic pack. All fields are
// optional; empty lists mean no filtering and no tagging.
type Rules struct {
	AllowKeywords []string            `yaml:"allow_keywords"`
	DenyKeywords  []string            `yaml:"deny_keywords"`
	TagKeywords   map[string][]string `yaml:"tag_keywords"`
}
