// Package edinet adapts the EDINET disclosure API (the FSA's corporate
// filing service) into normalized pipeline items.
//
// Filings get a fixed importance reflecting regulatory significance and are
// flagged as review drafts, because their titles are synthesized from raw
// filer/description fields rather than editorially written.
package edinet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abelbrown/newshub/internal/model"
	"github.com/abelbrown/newshub/internal/timeparse"
	"golang.org/x/time/rate"
)

const (
	// maxRecords caps filings processed per run. EDINET can return several
	// thousand rows on a busy disclosure day.
	maxRecords = 400

	// filingImportance is fixed for all regulatory filings.
	filingImportance = 4

	// filingTag marks statutory disclosures.
	filingTag = "法定開示"

	fetchTimeout = 30 * time.Second
	docURLFormat = "https://disclosure.edinet-fsa.go.jp/api/v2/documents/%s?type=2"
)

// Source fetches the current day's filings from the EDINET document list
// endpoint.
type Source struct {
	pack     string
	cfg      model.SourceConfig
	apiKey   string
	resolver *timeparse.Resolver
	llmMode  string
	client   *http.Client
	limiter  *rate.Limiter
}

// New creates a disclosure adapter. The API key must be non-empty; the
// collector handles the missing-key case before constructing an adapter.
func New(pack string, cfg model.SourceConfig, apiKey string, resolver *timeparse.Resolver, llmMode string) *Source {
	return &Source{
		pack:     pack,
		cfg:      cfg,
		apiKey:   apiKey,
		resolver: resolver,
		llmMode:  llmMode,
		client:   &http.Client{Timeout: fetchTimeout},
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1), // EDINET asks for <=1 req/sec
	}
}

// documentList is the subset of the EDINET list response the pipeline uses.
type documentList struct {
	Results []documentResult `json:"results"`
}

type documentResult struct {
	DocID          string `json:"docID"`
	DocTypeCode    string `json:"docTypeCode"`
	DocDescription string `json:"docDescription"`
	FilerName      string `json:"filerName"`
	SecCode        string `json:"secCode"`
	SubmitDateTime string `json:"submitDateTime"`
}

// Fetch retrieves the filings submitted on the run's date.
func (s *Source) Fetch(ctx context.Context) ([]model.Item, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint, err := url.Parse(s.cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	q := endpoint.Query()
	q.Set("date", s.resolver.Now.Format("2006-01-02"))
	q.Set("type", "2")
	q.Set("Subscription-Key", s.apiKey)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch filings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	var list documentList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode filings: %w", err)
	}

	results := list.Results
	if len(results) > maxRecords {
		results = results[:maxRecords]
	}

	include := make(map[string]bool, len(s.cfg.IncludeDocTypeCodes))
	for _, code := range s.cfg.IncludeDocTypeCodes {
		include[code] = true
	}

	items := make([]model.Item, 0, len(results))
	for _, r := range results {
		// A non-empty allow-list restricts filings to the listed codes.
		if len(include) > 0 && r.DocTypeCode != "" && !include[r.DocTypeCode] {
			continue
		}
		items = append(items, s.normalize(r))
	}
	return items, nil
}

func (s *Source) normalize(r documentResult) model.Item {
	desc := safeText(r.DocDescription)
	filer := safeText(r.FilerName)
	sec := safeText(r.SecCode)
	docID := safeText(r.DocID)
	submitted := safeText(r.SubmitDateTime)

	title := desc
	if filer != "" {
		title = filer + " " + desc
	}

	docURL := ""
	if docID != "" {
		docURL = fmt.Sprintf(docURLFormat, docID)
	}

	summary := fmt.Sprintf("EDINET提出: %s", desc)
	if sec != "" {
		summary = fmt.Sprintf("EDINET提出: %s / 証券コード: %s", desc, sec)
	}

	return model.Item{
		ID:            model.ItemID(s.pack, s.cfg.ID, docID),
		TopicPack:     s.pack,
		Source:        s.cfg.Name,
		Title:         title,
		URL:           docURL,
		PublishedRaw:  submitted,
		PublishedTS:   s.resolver.ResolveString(submitted),
		SummaryShort:  summary,
		Tags:          []string{filingTag},
		Importance:    filingImportance,
		Impact:        model.ImpactUnclear,
		LLMMode:       s.llmMode,
		LLMDraft:      true,
		LLMConfidence: "low",
	}
}

func safeText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.TrimSpace(s)
}
