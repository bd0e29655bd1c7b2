// Package pipeline merges, deduplicates, ranks and digests the items the
// source adapters collected, producing the per-run result handed to the
// rendering and persistence collaborators.
package pipeline

import (
	"sort"

	"github.com/abelbrown/newshub/internal/model"
)

// GroupByTopic partitions items by topic pack, preserving the collection
// order inside each group. The returned slice lists topics in order of
// first appearance so callers iterate deterministically.
func GroupByTopic(items []model.Item) (map[string][]model.Item, []string) {
	groups := make(map[string][]model.Item)
	var order []string
	for _, it := range items {
		if _, ok := groups[it.TopicPack]; !ok {
			order = append(order, it.TopicPack)
		}
		groups[it.TopicPack] = append(groups[it.TopicPack], it)
	}
	return groups, order
}

// Dedupe drops items without a URL (no usable identity for cross-source
// dedup) and keeps the first-seen item per URL. Input order decides
// first-seen; callers dedupe before ranking.
func Dedupe(items []model.Item) []model.Item {
	seen := make(map[string]bool, len(items))
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if it.URL == "" || seen[it.URL] {
			continue
		}
		seen[it.URL] = true
		out = append(out, it)
	}
	return out
}

// Rank orders items by importance descending, then published timestamp
// descending. The sort is stable: items equal on both keys keep their
// input order, so re-ranking never silently reshuffles them.
func Rank(items []model.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Importance != items[j].Importance {
			return items[i].Importance > items[j].Importance
		}
		return items[i].PublishedTS > items[j].PublishedTS
	})
}
