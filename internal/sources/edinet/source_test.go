package edinet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/newshub/internal/model"
	"github.com/abelbrown/newshub/internal/timeparse"
)

func testResolver(t *testing.T) *timeparse.Resolver {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("load timezone: %v", err)
	}
	return timeparse.New(time.Date(2024, 6, 1, 12, 0, 0, 0, loc))
}

const testFilings = `{
  "results": [
    {
      "docID": "S100TEST",
      "docTypeCode": "120",
      "docDescription": "有価証券報告書",
      "filerName": "テスト株式会社",
      "secCode": "99990",
      "submitDateTime": "2024-06-01 09:30"
    },
    {
      "docID": "S100SKIP",
      "docTypeCode": "170",
      "docDescription": "四半期報告書",
      "filerName": "別の会社",
      "secCode": "",
      "submitDateTime": "2024-06-01 10:00"
    }
  ]
}`

func newTestSource(t *testing.T, url string, codes []string) *Source {
	cfg := model.SourceConfig{
		ID:                  "edinet",
		Name:                "EDINET",
		Type:                model.SourceTypeEDINET,
		Endpoint:            url,
		IncludeDocTypeCodes: codes,
	}
	return New("investing", cfg, "test-key", testResolver(t), "manual_preferred")
}

func TestFetchNormalizesFilings(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"date":             r.URL.Query().Get("date"),
			"type":             r.URL.Query().Get("type"),
			"Subscription-Key": r.URL.Query().Get("Subscription-Key"),
		}
		fmt.Fprint(w, testFilings)
	}))
	defer srv.Close()

	s := newTestSource(t, srv.URL, nil)
	items, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if gotQuery["date"] != "2024-06-01" || gotQuery["type"] != "2" || gotQuery["Subscription-Key"] != "test-key" {
		t.Errorf("unexpected request query: %v", gotQuery)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	it := items[0]
	if it.ID != "investing:edinet:S100TEST" {
		t.Errorf("identity should use the document id, got %s", it.ID)
	}
	if it.Title != "テスト株式会社 有価証券報告書" {
		t.Errorf("title should combine filer and description, got %q", it.Title)
	}
	if !strings.Contains(it.URL, "S100TEST") {
		t.Errorf("document URL should reference the doc id, got %q", it.URL)
	}
	if !strings.Contains(it.SummaryShort, "証券コード: 99990") {
		t.Errorf("summary should carry the securities code, got %q", it.SummaryShort)
	}
	if it.Importance != filingImportance {
		t.Errorf("filings carry fixed importance %d, got %d", filingImportance, it.Importance)
	}
	if !it.LLMDraft {
		t.Error("filings must be flagged as review drafts")
	}
	if len(it.Tags) != 1 || it.Tags[0] != filingTag {
		t.Errorf("expected tag %q, got %v", filingTag, it.Tags)
	}
	if it.PublishedTS == 0 {
		t.Error("submit time should resolve to a timestamp")
	}

	// Filing without a securities code: shorter summary form.
	if strings.Contains(items[1].SummaryShort, "証券コード") {
		t.Errorf("summary without code should omit the code clause, got %q", items[1].SummaryShort)
	}
}

func TestFetchDocTypeAllowList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testFilings)
	}))
	defer srv.Close()

	s := newTestSource(t, srv.URL, []string{"120"})
	items, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("allow-list should keep only matching codes, got %d items", len(items))
	}
	if items[0].ID != "investing:edinet:S100TEST" {
		t.Errorf("wrong filing survived the allow-list: %s", items[0].ID)
	}
}

func TestFetchCapsRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var list documentList
		for i := 0; i < maxRecords+25; i++ {
			list.Results = append(list.Results, documentResult{
				DocID:          fmt.Sprintf("S%06d", i),
				DocDescription: "臨時報告書",
				SubmitDateTime: "2024-06-01 09:00",
			})
		}
		json.NewEncoder(w).Encode(list)
	}))
	defer srv.Close()

	s := newTestSource(t, srv.URL, nil)
	items, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(items) != maxRecords {
		t.Errorf("expected cap of %d records, got %d", maxRecords, len(items))
	}
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := newTestSource(t, srv.URL, nil)
	if _, err := s.Fetch(context.Background()); err == nil {
		t.Error("expected error for HTTP 401")
	}
}
