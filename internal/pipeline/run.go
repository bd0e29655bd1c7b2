package pipeline

import (
	"context"

	"github.com/abelbrown/newshub/internal/logging"
	"github.com/abelbrown/newshub/internal/model"
	"github.com/abelbrown/newshub/internal/sources"
)

// Result is everything one pipeline run produces for the rendering and
// persistence collaborators.
type Result struct {
	// Items is the cross-topic deduplicated list in ranked order; the
	// history log reads its top slice.
	Items []model.Item

	// ByTopic holds each topic's deduplicated items in ranked order.
	// Topics preserves first-appearance order for deterministic output.
	ByTopic map[string][]model.Item
	Topics  []string

	// Digests holds the recency-ordered headline list per topic.
	Digests map[string][]DigestEntry

	Statuses []model.SourceStatus
}

// Run collects from all enabled packs, then dedups, ranks and digests per
// topic. Source failures degrade to statuses; Run itself cannot fail.
func Run(ctx context.Context, packs []model.TopicPack, collector *sources.Collector) *Result {
	collected, statuses := collector.Collect(ctx, packs)

	groups, topics := GroupByTopic(collected)

	res := &Result{
		ByTopic:  make(map[string][]model.Item, len(groups)),
		Topics:   topics,
		Digests:  make(map[string][]DigestEntry, len(groups)),
		Statuses: statuses,
	}

	for _, topic := range topics {
		deduped := Dedupe(groups[topic])
		Rank(deduped)
		res.ByTopic[topic] = deduped
		res.Digests[topic] = BuildDigest(deduped, DefaultDigestCap)
		res.Items = append(res.Items, deduped...)
	}
	Rank(res.Items)

	logging.Info("pipeline run complete",
		"collected", len(collected),
		"ranked", len(res.Items),
		"topics", len(topics),
		"sources", len(statuses))
	return res
}
