// Package newslog maintains the append-only CSV history of items the
// pipeline has seen. Rows, once written, are never rewritten or deleted;
// re-running the pipeline over unchanged sources appends nothing.
package newslog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/abelbrown/newshub/internal/model"
)

// DefaultAppendCap bounds how many ranked items one run may append,
// limiting log growth from a single run while keeping every materially
// ranked item.
const DefaultAppendCap = 80

var header = []string{
	"id", "topic_pack", "source", "title", "url",
	"published_at_raw", "summary_short", "tags",
	"importance", "impact", "llm_mode", "llm_draft", "llm_confidence",
}

// Writer appends items to one CSV log file, deduplicating by item
// identity across runs.
type Writer struct {
	path string
}

// New creates a Writer for the log at path. The file is created on first
// append.
func New(path string) *Writer {
	return &Writer{path: path}
}

// Append writes the top max ranked items whose identities are not already
// logged, in ranked order. Returns the number of rows appended.
func (w *Writer) Append(ranked []model.Item, max int) (int, error) {
	if max <= 0 {
		max = DefaultAppendCap
	}
	if len(ranked) > max {
		ranked = ranked[:max]
	}

	existing, hadRows, err := w.existingIDs()
	if err != nil {
		return 0, err
	}

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return 0, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if !hadRows {
		if err := cw.Write(header); err != nil {
			return 0, fmt.Errorf("write header: %w", err)
		}
	}

	appended := 0
	for _, it := range ranked {
		if existing[it.ID] {
			continue
		}
		if err := cw.Write(row(it)); err != nil {
			return appended, fmt.Errorf("write row: %w", err)
		}
		existing[it.ID] = true
		appended++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return appended, fmt.Errorf("flush log: %w", err)
	}
	return appended, nil
}

// existingIDs loads every logged identity into a lookup set. hadRows
// reports whether the file already holds any rows (including the header),
// so Append knows whether to write one.
func (w *Writer) existingIDs() (map[string]bool, bool, error) {
	ids := make(map[string]bool)

	f, err := os.Open(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ids, false, nil
		}
		return nil, false, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Source rows carry free text; don't enforce a uniform field count.
	r.FieldsPerRecord = -1

	hadRows := false
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, false, fmt.Errorf("read log: %w", err)
		}
		hadRows = true
		if len(rec) == 0 || rec[0] == "id" {
			continue
		}
		ids[rec[0]] = true
	}
	return ids, hadRows, nil
}

func row(it model.Item) []string {
	return []string{
		it.ID,
		it.TopicPack,
		it.Source,
		it.Title,
		it.URL,
		it.PublishedRaw,
		it.SummaryShort,
		strings.Join(it.Tags, " "),
		strconv.Itoa(it.Importance),
		it.Impact,
		it.LLMMode,
		strconv.FormatBool(it.LLMDraft),
		it.LLMConfidence,
	}
}
