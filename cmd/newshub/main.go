// Command newshub runs the news aggregation pipeline once: collect from all
// configured sources, filter and rank, then hand structured results to the
// renderer via JSON and append new items to the history log and archive.
//
// Usage:
//
//	newshub [-config config/news.yaml] [-data data] [-out outputs/site]
//
// Environment:
//
//	EDINET_API_KEY   Disclosure-API credential. Optional; edinet sources
//	                 are skipped with a status entry when unset.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/abelbrown/newshub/internal/archive"
	"github.com/abelbrown/newshub/internal/config"
	"github.com/abelbrown/newshub/internal/logging"
	"github.com/abelbrown/newshub/internal/model"
	"github.com/abelbrown/newshub/internal/newslog"
	"github.com/abelbrown/newshub/internal/pipeline"
	"github.com/abelbrown/newshub/internal/sources"
	"github.com/abelbrown/newshub/internal/state"
	"github.com/abelbrown/newshub/internal/timeparse"
)

// runDocument is the structured handoff to the external renderer.
type runDocument struct {
	GeneratedAt string               `json:"generated_at"`
	LastRun     string               `json:"last_run"`
	LastSuccess string               `json:"last_success"`
	Topics      []topicDocument      `json:"topics"`
	Statuses    []model.SourceStatus `json:"sources_status"`
}

type topicDocument struct {
	Name   string                 `json:"name"`
	Items  []model.Item           `json:"items"`
	Digest []pipeline.DigestEntry `json:"digest"`
}

func main() {
	configPath := flag.String("config", filepath.Join("config", "news.yaml"), "topic pack configuration file")
	dataDir := flag.String("data", "data", "directory for the history log, archive and state")
	outDir := flag.String("out", filepath.Join("outputs", "site"), "directory for renderer JSON output")
	flag.Parse()

	if err := logging.Init(filepath.Join(*dataDir, "logs")); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to initialize logging: %v\n", err)
	}
	defer logging.Close()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		fatal("failed to create data directory: %v", err)
	}
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fatal("failed to create output directory: %v", err)
	}

	now := time.Now().In(cfg.Location())
	st, err := state.Load(filepath.Join(*dataDir, "state.json"))
	if err != nil {
		logging.Warn("failed to load state, starting fresh", "error", err)
	}

	collector := &sources.Collector{
		Resolver:  timeparse.New(now),
		EDINETKey: config.EDINETKey(),
		LLMMode:   cfg.LLM.Mode,
	}
	res := pipeline.Run(context.Background(), cfg.EnabledPacks(), collector)

	doc := runDocument{
		GeneratedAt: now.Format(state.TimeFormat),
		Statuses:    res.Statuses,
	}
	for _, topic := range res.Topics {
		doc.Topics = append(doc.Topics, topicDocument{
			Name:   topic,
			Items:  res.ByTopic[topic],
			Digest: res.Digests[topic],
		})
	}

	appended, err := newslog.New(filepath.Join(*dataDir, "news_log.csv")).Append(res.Items, newslog.DefaultAppendCap)
	if err != nil {
		fatal("failed to append history log: %v", err)
	}
	logging.Info("history log updated", "appended", appended)

	store, err := archive.Open(filepath.Join(*dataDir, "archive.db"))
	if err != nil {
		fatal("failed to open archive: %v", err)
	}
	defer store.Close()
	archived, err := store.SaveItems(res.Items, now)
	if err != nil {
		fatal("failed to archive items: %v", err)
	}
	logging.Info("archive updated", "new", archived)

	st.MarkRun(now, true)
	if err := state.Save(filepath.Join(*dataDir, "state.json"), st); err != nil {
		fatal("failed to save state: %v", err)
	}
	doc.LastRun = st.LastRun
	doc.LastSuccess = st.LastSuccess

	if err := writeJSON(filepath.Join(*outDir, "run.json"), doc); err != nil {
		fatal("failed to write run output: %v", err)
	}

	fmt.Printf("newshub: %d items across %d topics, %d sources, %d new log rows\n",
		len(res.Items), len(res.Topics), len(res.Statuses), appended)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func fatal(format string, args ...interface{}) {
	logging.Error(fmt.Sprintf(format, args...))
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
