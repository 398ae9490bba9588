package bridge

import (
	"slices"
	"sync"
)

// History is the caller-held record of bridges produced in one session. It is
// safe for concurrent use; nothing in the pipeline writes to it implicitly.
type History struct {
	mu      sync.Mutex
	bridges []SignalBridge
}

func (h *History) Append(b SignalBridge) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bridges = append(h.bridges, b)
}

// Snapshot returns a copy of the recorded bridges, oldest first.
func (h *History) Snapshot() []SignalBridge {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.bridges)
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.bridges)
}

func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bridges = nil
}

// PreviousAnalyses flattens every recorded analysis, oldest first, for use as
// ProcessContext.PreviousAnalyses.
func (h *History) PreviousAnalyses() []JournalAnalysis {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []JournalAnalysis
	for _, b := range h.bridges {
		out = append(out, b.JournalAnalysis...)
	}
	return out
}
