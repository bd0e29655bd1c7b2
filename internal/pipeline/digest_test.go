package pipeline

import (
	"fmt"
	"strings"
	"testing"

	"github.com/abelbrown/newshub/internal/model"
)

func TestBuildDigestBounded(t *testing.T) {
	var items []model.Item
	for i := 0; i < 20; i++ {
		items = append(items, model.Item{
			Title:       fmt.Sprintf("headline %d", i),
			PublishedTS: int64(1000 + i),
		})
	}

	entries := BuildDigest(items, 6)
	if len(entries) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(entries))
	}
	// Newest first.
	if entries[0].Title != "headline 19" {
		t.Errorf("expected newest headline first, got %q", entries[0].Title)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].PublishedTS > entries[i-1].PublishedTS {
			t.Errorf("digest not ordered by recency at %d", i)
		}
	}
}

func TestBuildDigestSuppressesDuplicateTitles(t *testing.T) {
	items := []model.Item{
		{Title: "[速報] 日銀が金利を維持", PublishedTS: 200},
		{Title: "日銀が金利を維持", PublishedTS: 100},
		{Title: "別のニュース", PublishedTS: 50},
	}

	entries := BuildDigest(items, 6)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries after duplicate suppression, got %d", len(entries))
	}
	if entries[0].Title != "日銀が金利を維持" {
		t.Errorf("leading bracket token should be stripped, got %q", entries[0].Title)
	}
}

func TestBuildDigestCleansWhitespace(t *testing.T) {
	items := []model.Item{
		{Title: "[market]   too   many\t spaces ", PublishedTS: 1},
	}

	entries := BuildDigest(items, 6)
	if entries[0].Title != "too many spaces" {
		t.Errorf("whitespace runs should collapse, got %q", entries[0].Title)
	}
}

func TestBuildDigestTruncatesLongTitles(t *testing.T) {
	long := strings.Repeat("あ", 120)
	items := []model.Item{{Title: long, PublishedTS: 1}}

	entries := BuildDigest(items, 6)
	got := []rune(entries[0].Title)
	if len(got) != 81 {
		t.Fatalf("expected 80 runes plus ellipsis, got %d runes", len(got))
	}
	if got[80] != '…' {
		t.Errorf("expected ellipsis marker, got %q", string(got[80]))
	}
}

func TestBuildDigestPlaceholderWhenEmpty(t *testing.T) {
	entries := BuildDigest(nil, 6)
	if len(entries) != 1 {
		t.Fatalf("expected single placeholder entry, got %d", len(entries))
	}
	if entries[0].Title == "" || entries[0].URL != "" {
		t.Errorf("placeholder should have a title and no URL, got %+v", entries[0])
	}
}

func TestBuildDigestDoesNotMutateInput(t *testing.T) {
	items := []model.Item{
		{Title: "older", PublishedTS: 1},
		{Title: "newer", PublishedTS: 2},
	}

	BuildDigest(items, 6)
	if items[0].Title != "older" {
		t.Error("digest must not reorder the caller's slice")
	}
}
