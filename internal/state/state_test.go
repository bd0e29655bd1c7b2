package state

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFile(t *testing.T) {
	st, err := Load(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if st.LastRun != "" || st.LastSuccess != "" {
		t.Errorf("expected zero state, got %+v", st)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("load timezone: %v", err)
	}
	at := time.Date(2024, 6, 1, 12, 30, 0, 0, loc)

	var st State
	st.MarkRun(at, true)
	if err := Save(path, st); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.LastRun != at.Format(TimeFormat) {
		t.Errorf("unexpected last_run: %q", got.LastRun)
	}
	if got.LastSuccess != got.LastRun {
		t.Errorf("successful run should advance both stamps, got %+v", got)
	}
}

func TestMarkRunFailureKeepsLastSuccess(t *testing.T) {
	loc := time.UTC
	first := time.Date(2024, 6, 1, 12, 0, 0, 0, loc)
	second := time.Date(2024, 6, 2, 12, 0, 0, 0, loc)

	var st State
	st.MarkRun(first, true)
	st.MarkRun(second, false)

	if st.LastRun != second.Format(TimeFormat) {
		t.Errorf("last_run should always advance, got %q", st.LastRun)
	}
	if st.LastSuccess != first.Format(TimeFormat) {
		t.Errorf("last_success should stay on the last good run, got %q", st.LastSuccess)
	}
}
