// Package model defines the canonical types that flow through the NewsHub
// pipeline: normalized news items, per-source run statuses, and the parsed
// topic-pack configuration the pipeline consumes.
package model

import "fmt"

// Impact classification placeholder. Items carry a fixed value until a
// real classifier exists downstream.
const ImpactUnclear = "unclear"

// Item is a single normalized news or disclosure record.
// Items are immutable once constructed - the pipeline filters, reorders
// and groups them but never mutates a produced Item.
type Item struct {
	ID           string   // pack:sourceID:dedupKey
	TopicPack    string
	Source       string   // display name
	Title        string
	URL          string
	PublishedRaw string   // original textual timestamp, preserved for display
	PublishedTS  int64    // epoch seconds; 0 = unresolved, sorts as oldest
	SummaryShort string
	Tags         []string
	Importance   int      // higher = more significant
	Impact       string

	// Provenance flags marking whether the item still needs review
	// downstream rather than being already vetted.
	LLMMode       string
	LLMDraft      bool
	LLMConfidence string
}

// ItemID builds the stable item identity from its parts. dedupKey is the
// per-source document id, or the resolved URL when no document id exists.
func ItemID(pack, sourceID, dedupKey string) string {
	return fmt.Sprintf("%s:%s:%s", pack, sourceID, dedupKey)
}

// DedupKey returns the key the aggregator dedups on: the URL. The log
// writer dedups on ID instead, so a URL-less item keeps a stable identity.
func (it *Item) DedupKey() string {
	return it.URL
}

// SourceStatus records the outcome of one source fetch within a run.
// Exactly one is produced per configured source per run; sources are
// never retried within a run.
type SourceStatus struct {
	Name  string
	Type  string
	OK    bool
	Error string
}
