package bridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/theimaginaryfoundation/signal-bridge/bridge/fileutils"
)

// DigestOptions controls how markdown digest shards are created.
type DigestOptions struct {
	OutDir    string
	MaxBytes  int // default ~100KB
	Overwrite bool

	// IncludeConnections adds the journal→market and market→content lists under each bridge.
	IncludeConnections bool
}

// DigestIndexRecord maps one bridge to a markdown shard file and anchor.
type DigestIndexRecord struct {
	BridgeID  string    `json:"bridge_id"`
	Timestamp time.Time `json:"timestamp"`
	EntryIDs  []string  `json:"entry_ids"`

	ShardFile string `json:"shard_file"`
	Anchor    string `json:"anchor"`

	CoreBelief string  `json:"core_belief"`
	Conviction float64 `json:"conviction"`
}

// WriteDigestShards renders bridges as markdown and packs them, oldest first,
// into shard files of at most MaxBytes (a single oversize bridge gets its own shard).
func WriteDigestShards(bridges []SignalBridge, opts DigestOptions) ([]DigestIndexRecord, error) {
	if opts.OutDir == "" {
		return nil, errors.New("WriteDigestShards: OutDir is empty")
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 100 * 1024
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("WriteDigestShards: mkdir OutDir: %w", err)
	}

	sorted := append([]SignalBridge(nil), bridges...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		}
		return sorted[i].ID < sorted[j].ID
	})

	var (
		shardNum = 1
		curr     bytes.Buffer
		currFile string
		index    []DigestIndexRecord
	)

	flush := func() error {
		if curr.Len() == 0 {
			return nil
		}
		path := filepath.Join(opts.OutDir, currFile)
		if err := fileutils.WriteNewFileAtomic(path, curr.Bytes(), opts.Overwrite); err != nil {
			return fmt.Errorf("WriteDigestShards: write shard: %w", err)
		}
		shardNum++
		curr.Reset()
		currFile = ""
		return nil
	}

	for _, b := range sorted {
		if b.ID == "" {
			continue
		}
		section, anchor := renderBridgeMarkdown(b, opts.IncludeConnections)
		if curr.Len() > 0 && curr.Len()+len(section) > opts.MaxBytes {
			if err := flush(); err != nil {
				return nil, err
			}
		}
		if curr.Len() == 0 {
			currFile = digestShardName(shardNum)
			fmt.Fprintf(&curr, "# Signal Digest %04d\n\n", shardNum)
		}
		curr.WriteString(section)

		index = append(index, DigestIndexRecord{
			BridgeID:   b.ID,
			Timestamp:  b.Timestamp,
			EntryIDs:   bridgeEntryIDs(b),
			ShardFile:  currFile,
			Anchor:     anchor,
			CoreBelief: fileutils.Truncate(b.UnifiedThesis.CoreBelief, 400),
			Conviction: b.UnifiedThesis.ConvictionScore,
		})
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return index, nil
}

func digestShardName(n int) string {
	return fmt.Sprintf("digest_%04d.md", n)
}

func renderBridgeMarkdown(b SignalBridge, includeConnections bool) (section string, anchor string) {
	anchor = "bridge-" + sanitizeAnchor(b.ID)
	th := b.UnifiedThesis

	var s strings.Builder
	fmt.Fprintf(&s, "<a id=\"%s\"></a>\n", anchor)
	fmt.Fprintf(&s, "## %s\n\n", inlineMarkdown(th.CoreBelief))
	fmt.Fprintf(&s, "- bridge_id: `%s`\n", b.ID)
	if !b.Timestamp.IsZero() {
		fmt.Fprintf(&s, "- timestamp: `%s`\n", b.Timestamp.UTC().Format(time.RFC3339))
	}
	if ids := bridgeEntryIDs(b); len(ids) > 0 {
		fmt.Fprintf(&s, "- entries: `%s`\n", strings.Join(ids, "`, `"))
	}
	fmt.Fprintf(&s, "- conviction: %d%% (%s)\n\n", percent(th.ConvictionScore), inlineMarkdown(th.TimeHorizon))

	if ce := strings.TrimSpace(th.ContentExpression); ce != "" {
		s.WriteString(ce)
		s.WriteString("\n\n")
	}

	if len(b.ContentBriefs) > 0 {
		s.WriteString("### Content\n")
		for _, c := range b.ContentBriefs {
			fmt.Fprintf(&s, "- [%s] %s\n", c.TargetArchetype, fileutils.SanitizeNewlines(strings.TrimSpace(c.Script.HookSegment)))
		}
		s.WriteString("\n")
	}

	if len(b.MarketPositions) > 0 {
		s.WriteString("### Positions\n")
		for _, p := range b.MarketPositions {
			fmt.Fprintf(&s, "- %s %s @ %d%%: %s\n", p.MarketID, p.Direction, percent(p.Conviction), fileutils.SanitizeNewlines(strings.TrimSpace(p.Thesis)))
		}
		s.WriteString("\n")
	}

	if includeConnections {
		for _, c := range b.JournalToMarket {
			fmt.Fprintf(&s, "- journal→market (%d%%): %s → %s\n", percent(c.ConnectionStrength), inlineMarkdown(c.JournalInsight), inlineMarkdown(c.MarketApplication))
		}
		for _, c := range b.MarketToContent {
			fmt.Fprintf(&s, "- market→content: %s → %s\n", inlineMarkdown(c.MarketPosition), inlineMarkdown(c.ContentAngle))
		}
		if len(b.JournalToMarket)+len(b.MarketToContent) > 0 {
			s.WriteString("\n")
		}
	}

	if len(b.Errors) > 0 {
		s.WriteString("### Stage errors\n")
		for _, e := range b.Errors {
			if e.MarketID != "" {
				fmt.Fprintf(&s, "- %s (%s): %s\n", e.Stage, e.MarketID, inlineMarkdown(e.Err))
				continue
			}
			fmt.Fprintf(&s, "- %s: %s\n", e.Stage, inlineMarkdown(e.Err))
		}
		s.WriteString("\n")
	}

	s.WriteString("\n---\n\n")
	return s.String(), anchor
}

func bridgeEntryIDs(b SignalBridge) []string {
	ids := make([]string, 0, len(b.JournalEntries))
	for _, e := range b.JournalEntries {
		ids = append(ids, e.ID)
	}
	return ids
}

func sanitizeAnchor(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	var out strings.Builder
	out.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			out.WriteRune(r)
		} else {
			out.WriteByte('-')
		}
	}
	if a := strings.Trim(out.String(), "-"); a != "" {
		return a
	}
	return "bridge"
}

func inlineMarkdown(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

// WriteDigestIndex writes index records as JSONL.
func WriteDigestIndex(path string, records []DigestIndexRecord, overwrite bool) error {
	if path == "" {
		return errors.New("WriteDigestIndex: path is empty")
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return fileutils.WriteNewFileAtomic(path, buf.Bytes(), overwrite)
}
