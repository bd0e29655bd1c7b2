// Package sources walks the configured topic packs and collects normalized
// items from each source in turn.
//
// Failure isolation is the contract here: one source returning garbage, an
// HTTP error, or nothing at all affects only its own SourceStatus. The run
// always continues to the next source.
package sources

import (
	"context"
	"fmt"

	"github.com/abelbrown/newshub/internal/logging"
	"github.com/abelbrown/newshub/internal/model"
	"github.com/abelbrown/newshub/internal/rules"
	"github.com/abelbrown/newshub/internal/sources/edinet"
	"github.com/abelbrown/newshub/internal/sources/rss"
	"github.com/abelbrown/newshub/internal/timeparse"
)

// Adapter fetches and normalizes the items of one configured source.
// Adapters return items and an error; they never panic outward, and the
// collector converts errors into SourceStatus entries.
type Adapter interface {
	Fetch(ctx context.Context) ([]model.Item, error)
}

// Collector runs every source of every enabled topic pack, sequentially and
// in configured order, accumulating items and one status per source.
type Collector struct {
	Resolver *timeparse.Resolver

	// EDINETKey is the disclosure-API credential. Empty is a recoverable
	// condition: edinet sources are skipped with an explanatory status.
	EDINETKey string

	// LLMMode is stamped onto every item as provenance for downstream
	// review tooling.
	LLMMode string
}

// Collect fetches all enabled packs. It never returns an error: per-source
// failures are recorded in the returned statuses.
func (c *Collector) Collect(ctx context.Context, packs []model.TopicPack) ([]model.Item, []model.SourceStatus) {
	var items []model.Item
	var statuses []model.SourceStatus

	for _, pack := range packs {
		if !pack.Enabled {
			continue
		}
		engine := rules.New(pack.Rules)

		for _, src := range pack.Sources {
			st := model.SourceStatus{Name: src.Name, Type: src.Type, OK: true}

			adapter, skip := c.adapterFor(pack.Name, src, engine, &st)
			if adapter != nil {
				fetched, err := adapter.Fetch(ctx)
				if err != nil {
					st.OK = false
					st.Error = err.Error()
					logging.Warn("source fetch failed", "pack", pack.Name, "source", src.Name, "error", err)
				} else {
					items = append(items, fetched...)
					logging.Debug("source fetched", "pack", pack.Name, "source", src.Name, "items", len(fetched))
				}
			} else if skip {
				logging.Info("source skipped", "pack", pack.Name, "source", src.Name, "reason", st.Error)
			} else {
				logging.Warn("source skipped", "pack", pack.Name, "source", src.Name, "reason", st.Error)
			}

			statuses = append(statuses, st)
		}
	}

	return items, statuses
}

// adapterFor builds the adapter for a source descriptor. A nil adapter
// means nothing to fetch; st carries the explanation. skip reports the
// expected-skip case (missing credential) as opposed to a config error.
func (c *Collector) adapterFor(pack string, src model.SourceConfig, engine *rules.Engine, st *model.SourceStatus) (Adapter, bool) {
	switch src.Type {
	case model.SourceTypeRSS:
		return rss.New(pack, src, engine, c.Resolver, c.LLMMode), false
	case model.SourceTypeEDINET:
		if c.EDINETKey == "" {
			st.OK = false
			st.Error = "EDINET_API_KEY not set (skipped)"
			return nil, true
		}
		return edinet.New(pack, src, c.EDINETKey, c.Resolver, c.LLMMode), false
	default:
		st.OK = false
		st.Error = fmt.Sprintf("unknown source type: %s", src.Type)
		return nil, false
	}
}
