package pipeline

import (
	"regexp"
	"sort"
	"strings"

	"github.com/abelbrown/newshub/internal/model"
)

// DefaultDigestCap bounds headlines per topic digest.
const DefaultDigestCap = 6

// digestTitleLen is the display truncation for digest headlines.
const digestTitleLen = 80

// placeholderTitle fills an otherwise empty digest so every topic renders
// a section.
const placeholderTitle = "本日の新着はありません"

// DigestEntry is one headline in a topic digest.
type DigestEntry struct {
	Title       string
	URL         string
	Source      string
	PublishedTS int64
}

var (
	leadingBracket = regexp.MustCompile(`^\[[^\]]*\]\s*`)
	spaceRuns      = regexp.MustCompile(`\s+`)
)

// BuildDigest selects up to max representative headlines for one topic.
// Unlike the ranked item lists, the digest favors recency: items are
// ordered by published timestamp descending only. Titles are cleaned and
// exact post-cleaning duplicates are suppressed. An empty candidate set
// yields a single placeholder entry, never an empty digest.
func BuildDigest(items []model.Item, max int) []DigestEntry {
	if max <= 0 {
		max = DefaultDigestCap
	}

	byRecency := make([]model.Item, len(items))
	copy(byRecency, items)
	sort.SliceStable(byRecency, func(i, j int) bool {
		return byRecency[i].PublishedTS > byRecency[j].PublishedTS
	})

	entries := make([]DigestEntry, 0, max)
	seen := make(map[string]bool, max)
	for _, it := range byRecency {
		if len(entries) == max {
			break
		}
		title := cleanTitle(it.Title)
		if title == "" || seen[title] {
			continue
		}
		seen[title] = true
		entries = append(entries, DigestEntry{
			Title:       title,
			URL:         it.URL,
			Source:      it.Source,
			PublishedTS: it.PublishedTS,
		})
	}

	if len(entries) == 0 {
		entries = append(entries, DigestEntry{Title: placeholderTitle})
	}
	return entries
}

// cleanTitle strips a leading bracketed tag token, collapses whitespace
// runs and truncates long titles with an ellipsis.
func cleanTitle(title string) string {
	title = leadingBracket.ReplaceAllString(title, "")
	title = spaceRuns.ReplaceAllString(title, " ")
	title = strings.TrimSpace(title)

	runes := []rune(title)
	if len(runes) > digestTitleLen {
		title = string(runes[:digestTitleLen]) + "…"
	}
	return title
}
