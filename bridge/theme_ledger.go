package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/theimaginaryfoundation/signal-bridge/bridge/fileutils"
)

// Theme kinds recorded in a ThemeLedger.
const (
	ThemeBelief = "belief"
	ThemeThread = "thread"
)

// ThemeLedger tracks beliefs and narrative themes that recur across runs.
type ThemeLedger struct {
	Version int           `json:"version"`
	Entries []ThemeRecord `json:"entries"`
}

type ThemeRecord struct {
	Key       string    `json:"key"`
	Kind      string    `json:"kind"`
	Statement string    `json:"statement"`
	Detail    string    `json:"detail,omitempty"`
	Count     int       `json:"count"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
	// Confidence is the most recent inferred confidence for beliefs.
	Confidence float64 `json:"confidence,omitempty"`
}

// LoadThemeLedger reads a ledger. A missing file yields an empty ledger.
func LoadThemeLedger(path string) (ThemeLedger, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ThemeLedger{Version: 1}, nil
		}
		return ThemeLedger{}, err
	}
	var l ThemeLedger
	if err := json.Unmarshal(b, &l); err != nil {
		return ThemeLedger{}, fmt.Errorf("LoadThemeLedger: %w", err)
	}
	if l.Version == 0 {
		l.Version = 1
	}
	return l, nil
}

func SaveThemeLedger(path string, l ThemeLedger) error {
	if path == "" {
		return errors.New("SaveThemeLedger: path is empty")
	}
	if l.Version == 0 {
		l.Version = 1
	}
	return fileutils.WriteJSONFileAtomic(path, l, true)
}

// Merge records every belief statement and narrative thread of analyses as seen
// at the given time. It returns the touched keys, sorted.
func (l *ThemeLedger) Merge(analyses []JournalAnalysis, at time.Time) []string {
	idx := make(map[string]int, len(l.Entries))
	for i, e := range l.Entries {
		idx[e.Kind+":"+e.Key] = i
	}
	touched := make(map[string]struct{})

	observe := func(kind, statement, detail string, confidence float64) {
		key := normalizeThemeKey(statement)
		if key == "" {
			return
		}
		statement = strings.TrimSpace(statement)
		detail = strings.TrimSpace(detail)
		if i, ok := idx[kind+":"+key]; ok {
			e := &l.Entries[i]
			e.Count++
			if at.Before(e.FirstSeen) {
				e.FirstSeen = at
			}
			if at.After(e.LastSeen) {
				e.LastSeen = at
			}
			if len(statement) > len(e.Statement) {
				e.Statement = statement
			}
			if len(detail) > len(e.Detail) {
				e.Detail = detail
			}
			if kind == ThemeBelief {
				e.Confidence = confidence
			}
		} else {
			l.Entries = append(l.Entries, ThemeRecord{
				Key:        key,
				Kind:       kind,
				Statement:  statement,
				Detail:     detail,
				Count:      1,
				FirstSeen:  at,
				LastSeen:   at,
				Confidence: confidence,
			})
			idx[kind+":"+key] = len(l.Entries) - 1
		}
		touched[key] = struct{}{}
	}

	for _, a := range analyses {
		for _, b := range a.BeliefStatements {
			observe(ThemeBelief, b.Statement, string(b.BeliefType), b.ActualConfidence)
		}
		for _, t := range a.NarrativeThreads {
			observe(ThemeThread, t.Theme, t.Resolution, 0)
		}
	}

	sort.SliceStable(l.Entries, func(i, j int) bool {
		if l.Entries[i].Count != l.Entries[j].Count {
			return l.Entries[i].Count > l.Entries[j].Count
		}
		return l.Entries[i].Key < l.Entries[j].Key
	})

	keys := make([]string, 0, len(touched))
	for k := range touched {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Cull drops records seen fewer than minCount times.
func (l *ThemeLedger) Cull(minCount int) int {
	if minCount <= 1 {
		return 0
	}
	kept := l.Entries[:0]
	dropped := 0
	for _, e := range l.Entries {
		if e.Count < minCount {
			dropped++
			continue
		}
		kept = append(kept, e)
	}
	l.Entries = kept
	return dropped
}

// Beliefs returns up to n belief statements, most recurrent first, for
// ProcessContext.KnownBeliefs.
func (l ThemeLedger) Beliefs(n int) []string {
	var out []string
	for _, e := range l.Entries {
		if e.Kind != ThemeBelief {
			continue
		}
		if n > 0 && len(out) >= n {
			break
		}
		out = append(out, e.Statement)
	}
	return out
}

func normalizeThemeKey(s string) string {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	return strings.TrimRight(s, ".!?;:,")
}
