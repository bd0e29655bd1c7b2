// Package rules applies a topic pack's keyword dictionaries to items:
// allow/deny retention decisions and tag assignment.
package rules

import (
	"sort"
	"strings"

	"github.com/abelbrown/newshub/internal/model"
)

// Engine evaluates one topic pack's rule set. A zero Engine (no keywords
// configured) retains everything and assigns no tags.
type Engine struct {
	rules model.Rules
}

// New creates an Engine for the pack's rule set.
func New(r model.Rules) *Engine {
	return &Engine{rules: r}
}

// Keep reports whether an item with this title and summary survives the
// allow/deny rules. An item is dropped only when it matches a deny keyword
// and no allow keyword - allow overrides deny.
//
// Matching is literal substring containment with no case folding. The
// keyword lists are Japanese-first; folding would corrupt matches like
// "NISA" vs "nisa" that the source rules distinguish on purpose.
func (e *Engine) Keep(title, summary string) bool {
	if len(e.rules.DenyKeywords) == 0 {
		return true
	}

	text := title + " " + summary
	denied := false
	for _, kw := range e.rules.DenyKeywords {
		if kw != "" && strings.Contains(text, kw) {
			denied = true
			break
		}
	}
	if !denied {
		return true
	}

	for _, kw := range e.rules.AllowKeywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Tags returns the tags whose keyword lists match the title+summary text,
// sorted for stable output. Each tag is assigned at most once; multiple
// tags may apply.
func (e *Engine) Tags(title, summary string) []string {
	if len(e.rules.TagKeywords) == 0 {
		return nil
	}

	text := title + " " + summary
	var tags []string
	for tag, kws := range e.rules.TagKeywords {
		for _, kw := range kws {
			if kw != "" && strings.Contains(text, kw) {
				tags = append(tags, tag)
				break
			}
		}
	}
	sort.Strings(tags)
	return tags
}
