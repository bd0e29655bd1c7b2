// Package timeparse converts the date representations the sources produce
// into a single comparable epoch-seconds value.
//
// Sources disagree about dates: feed libraries hand back parsed times,
// EDINET returns "2006-01-02 15:04" strings, and some feeds emit year-less
// "MM/DD HH:MM" timestamps. Resolution tries each form in order and
// degrades to 0 ("unknown", sorts as oldest) instead of failing the run.
package timeparse

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// shortLayout is the year-less form some Japanese market feeds use.
const shortLayout = "01/02 15:04"

// Resolver resolves heterogeneous dates against a fixed run time. The run
// time is injected so resolution is deterministic in (input, now); the
// resolver never reads the wall clock.
type Resolver struct {
	Now time.Time
	Loc *time.Location
}

// New returns a Resolver pinned to the given run time. The run time's
// location is used for strings that carry no timezone of their own.
func New(now time.Time) *Resolver {
	return &Resolver{Now: now, Loc: now.Location()}
}

// Resolve returns epoch seconds for a source date, preferring the
// feed-library parsed form when present, then the raw string. Returns 0
// when nothing resolves; it never returns an error.
func (r *Resolver) Resolve(parsed *time.Time, raw string) int64 {
	if parsed != nil {
		return parsed.Unix()
	}
	return r.ResolveString(raw)
}

// ResolveString resolves a textual date. Attempts, in order: the year-less
// MM/DD HH:MM form, then a general free-text parse in the run timezone.
func (r *Resolver) ResolveString(raw string) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	if ts, ok := r.resolveShort(raw); ok {
		return ts
	}

	t, err := dateparse.ParseIn(raw, r.Loc)
	if err != nil {
		return 0
	}
	return t.Unix()
}

// resolveShort handles "MM/DD HH:MM" by assuming the run's year. A result
// more than one day in the future rolls back a year, so a December
// timestamp read in early January lands in the year that just ended.
func (r *Resolver) resolveShort(raw string) (int64, bool) {
	t, err := time.ParseInLocation(shortLayout, raw, r.Loc)
	if err != nil {
		return 0, false
	}

	t = time.Date(r.Now.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, r.Loc)
	if t.After(r.Now.Add(24 * time.Hour)) {
		t = t.AddDate(-1, 0, 0)
	}
	return t.Unix(), true
}
