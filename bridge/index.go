package bridge

import (
	"errors"
	"time"

	"github.com/theimaginaryfoundation/signal-bridge/bridge/fileutils"
)

// HistoryIndexRecord is a stable one-line summary of a bridge.
type HistoryIndexRecord struct {
	BridgeID   string    `json:"bridge_id"`
	Timestamp  time.Time `json:"timestamp"`
	EntryIDs   []string  `json:"entry_ids"`
	MarketIDs  []string  `json:"market_ids,omitempty"`
	CoreBelief string    `json:"core_belief"`
	Conviction float64   `json:"conviction"`
	Briefs     int       `json:"briefs"`
	Positions  int       `json:"positions"`
	Errors     int       `json:"errors"`
	Path       string    `json:"path,omitempty"`
}

// BuildHistoryIndexRecord summarises b. path is where the full bridge JSON was
// written, if anywhere.
func BuildHistoryIndexRecord(b SignalBridge, path string) HistoryIndexRecord {
	var markets []string
	seen := make(map[string]struct{}, len(b.MarketPositions))
	for _, p := range b.MarketPositions {
		if _, ok := seen[p.MarketID]; ok || p.MarketID == "" {
			continue
		}
		seen[p.MarketID] = struct{}{}
		markets = append(markets, p.MarketID)
	}
	return HistoryIndexRecord{
		BridgeID:   b.ID,
		Timestamp:  b.Timestamp,
		EntryIDs:   bridgeEntryIDs(b),
		MarketIDs:  markets,
		CoreBelief: inlineMarkdown(b.UnifiedThesis.CoreBelief),
		Conviction: b.UnifiedThesis.ConvictionScore,
		Briefs:     len(b.ContentBriefs),
		Positions:  len(b.MarketPositions),
		Errors:     len(b.Errors),
		Path:       path,
	}
}

// AppendHistoryIndex appends records to a JSONL file, creating it if needed.
func AppendHistoryIndex(path string, records ...HistoryIndexRecord) error {
	if path == "" {
		return errors.New("AppendHistoryIndex: path is empty")
	}
	return fileutils.AppendJSONL(path, records)
}
