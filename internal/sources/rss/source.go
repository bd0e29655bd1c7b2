// Package rss adapts RSS/Atom feeds into normalized pipeline items.
package rss

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/abelbrown/newshub/internal/model"
	"github.com/abelbrown/newshub/internal/rules"
	"github.com/abelbrown/newshub/internal/timeparse"
	"github.com/mmcdole/gofeed"
)

const (
	// maxEntries caps how much one feed can contribute per run, so a
	// misbehaving feed can't flood memory or the history log.
	maxEntries = 50

	// summaryLen is the display truncation for item summaries.
	summaryLen = 180

	fetchTimeout = 20 * time.Second
	userAgent    = "NewsHub/1.0 (+https://github.com/abelbrown/newshub)"
)

// Source fetches one configured feed and normalizes its entries.
type Source struct {
	pack     string
	cfg      model.SourceConfig
	engine   *rules.Engine
	resolver *timeparse.Resolver
	llmMode  string
	client   *http.Client
}

// New creates a feed adapter for one source descriptor.
func New(pack string, cfg model.SourceConfig, engine *rules.Engine, resolver *timeparse.Resolver, llmMode string) *Source {
	return &Source{
		pack:     pack,
		cfg:      cfg,
		engine:   engine,
		resolver: resolver,
		llmMode:  llmMode,
		client:   &http.Client{Timeout: fetchTimeout},
	}
}

// Fetch retrieves and parses the feed, returning up to maxEntries
// normalized items that survive the pack's allow/deny rules.
func (s *Source) Fetch(ctx context.Context) ([]model.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	entries := feed.Items
	if len(entries) > maxEntries {
		entries = entries[:maxEntries]
	}

	items := make([]model.Item, 0, len(entries))
	for _, entry := range entries {
		if item, ok := s.normalize(entry); ok {
			items = append(items, item)
		}
	}
	return items, nil
}

// normalize converts one feed entry, applying rule filtering. Absent
// fields degrade to empty strings, never errors.
func (s *Source) normalize(entry *gofeed.Item) (model.Item, bool) {
	title := safeText(entry.Title)
	url := safeText(entry.Link)
	summary := safeText(entry.Description)

	if !s.engine.Keep(title, summary) {
		return model.Item{}, false
	}

	publishedRaw := safeText(entry.Published)
	if publishedRaw == "" {
		publishedRaw = safeText(entry.Updated)
	}
	parsed := entry.PublishedParsed
	if parsed == nil {
		parsed = entry.UpdatedParsed
	}

	summaryShort := truncateRunes(summary, summaryLen)
	if summaryShort == "" {
		summaryShort = title
	}

	return model.Item{
		ID:            model.ItemID(s.pack, s.cfg.ID, url),
		TopicPack:     s.pack,
		Source:        s.cfg.Name,
		Title:         title,
		URL:           url,
		PublishedRaw:  publishedRaw,
		PublishedTS:   s.resolver.Resolve(parsed, publishedRaw),
		SummaryShort:  summaryShort,
		Tags:          s.engine.Tags(title, summary),
		Importance:    s.cfg.Importance(),
		Impact:        model.ImpactUnclear,
		LLMMode:       s.llmMode,
		LLMDraft:      false,
		LLMConfidence: "low",
	}, true
}

// safeText flattens newlines and trims, matching how titles and summaries
// are displayed downstream.
func safeText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.TrimSpace(s)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
