// Package state persists small run metadata between pipeline runs.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// TimeFormat is the display form for run timestamps.
const TimeFormat = "2006-01-02 15:04:05 MST"

// State is the persisted run metadata. Unknown fields written by older
// versions survive a round trip only if listed here, so keep this struct
// additive.
type State struct {
	LastRun     string `json:"last_run"`
	LastSuccess string `json:"last_success"`
}

// Load reads state from path. A missing file yields a zero State.
func Load(path string) (State, error) {
	var st State
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return st, fmt.Errorf("read state: %w", err)
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("parse state: %w", err)
	}
	return st, nil
}

// Save writes state to path.
func Save(path string, st State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// MarkRun records a completed run. success also advances LastSuccess.
func (s *State) MarkRun(at time.Time, success bool) {
	stamp := at.Format(TimeFormat)
	s.LastRun = stamp
	if success {
		s.LastSuccess = stamp
	}
}
