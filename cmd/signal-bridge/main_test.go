package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theimaginaryfoundation/signal-bridge/bridge"
)

func fixedNow() time.Time { return time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC) }

func TestParseFlags_Overrides(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("signal-bridge", flag.ContinueOnError)
	cfg, err := parseFlags(fs, []string{
		"-in", "journal/./export.json",
		"-mode", "journal_to_content",
		"-out", "out/",
		"-max-shard-bytes", "2048",
		"-model", "gpt-5-mini",
	})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.InputPath != "journal/export.json" || cfg.Mode != "JOURNAL_TO_CONTENT" || cfg.MaxShardBytes != 2048 {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.ledgerPath() != filepath.Join("out", "theme_ledger.json") {
		t.Fatalf("ledgerPath=%q", cfg.ledgerPath())
	}
	if cfg.Gateway.Model != "gpt-5-mini" {
		t.Fatalf("model=%q", cfg.Gateway.Model)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		edit func(*Config)
	}{
		{"no input", func(c *Config) {}},
		{"both inputs", func(c *Config) { c.Text = "x"; c.InputPath = "y" }},
		{"bad mode", func(c *Config) { c.Text = "x"; c.Mode = "DAYDREAM" }},
		{"quick without text", func(c *Config) { c.InputPath = "y"; c.Quick = "BOTH" }},
		{"bad quick", func(c *Config) { c.Text = "x"; c.Quick = "ALL" }},
		{"zero shard", func(c *Config) { c.Text = "x"; c.MaxShardBytes = 0 }},
	}
	for _, tc := range cases {
		cfg := defaultConfig()
		tc.edit(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestLoadEntries(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	cfg := defaultConfig()
	cfg.Text = "  I keep saying rates will fall.  "
	got, err := loadEntries(ctx, cfg, fixedNow)
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if len(got) != 1 || got[0].SpokenContent != "I keep saying rates will fall." || !got[0].Timestamp.Equal(fixedNow()) {
		t.Fatalf("text entries=%+v", got)
	}

	txt := filepath.Join(dir, "entry.md")
	if err := os.WriteFile(txt, []byte("Morning walk thoughts."), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg = defaultConfig()
	cfg.InputPath = txt
	got, err = loadEntries(ctx, cfg, fixedNow)
	if err != nil || len(got) != 1 || got[0].SpokenContent != "Morning walk thoughts." {
		t.Fatalf("md entries=%+v err=%v", got, err)
	}

	export := filepath.Join(dir, "export.json")
	body := `{"meta":{"v":1},"entries":[{"id":"a","text":"First"},{"id":"a","content":"Second"},{"id":"c"}]}`
	if err := os.WriteFile(export, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg.InputPath = export
	cfg.ArrayField = "entries"
	got, err = loadEntries(ctx, cfg, fixedNow)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(got) != 2 || got[0].ID == got[1].ID {
		t.Fatalf("json entries=%+v", got)
	}

	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte(`[{"id":"x"}]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg.InputPath = empty
	cfg.ArrayField = ""
	if _, err := loadEntries(ctx, cfg, fixedNow); err == nil || !strings.Contains(err.Error(), "skipped=1") {
		t.Fatalf("err=%v", err)
	}
}

func sampleBridge(id string, at time.Time, belief string) bridge.SignalBridge {
	return bridge.SignalBridge{
		ID:             id,
		Timestamp:      at,
		JournalEntries: []bridge.JournalEntry{{ID: "entry-" + id, SpokenContent: "text"}},
		JournalAnalysis: []bridge.JournalAnalysis{{
			EntryID:          "entry-" + id,
			BeliefStatements: []bridge.BeliefStatement{{Statement: belief, ActualConfidence: 0.7}},
		}},
		UnifiedThesis: bridge.UnifiedThesis{CoreBelief: belief, ConvictionScore: 0.6},
	}
}

func TestWriteOutputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := defaultConfig()
	cfg.Text = "x"
	cfg.OutputDir = dir
	ledger, err := bridge.LoadThemeLedger(cfg.ledgerPath())
	if err != nil {
		t.Fatalf("LoadThemeLedger: %v", err)
	}

	bridges := []bridge.SignalBridge{
		sampleBridge("b1", fixedNow(), "Markets punish the patient"),
		sampleBridge("b2", fixedNow().Add(time.Hour), "Markets punish the patient"),
	}
	batch := &bridge.BatchResult{Bridges: bridges}
	out, err := writeOutputs(cfg, bridges, batch, &ledger, fixedNow())
	if err != nil {
		t.Fatalf("writeOutputs: %v", err)
	}
	if len(out.bridgeFiles) != 2 {
		t.Fatalf("bridgeFiles=%v", out.bridgeFiles)
	}
	for _, p := range []string{
		filepath.Join(dir, "bridges", "b1.json"),
		filepath.Join(dir, "history.jsonl"),
		filepath.Join(dir, "batch-20250301-093000.json"),
		filepath.Join(dir, "digest", "20250301-093000", "index.jsonl"),
		filepath.Join(dir, "theme_ledger.json"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("missing %s: %v", p, err)
		}
	}

	reloaded, err := bridge.LoadThemeLedger(cfg.ledgerPath())
	if err != nil {
		t.Fatalf("reload ledger: %v", err)
	}
	if got := reloaded.Beliefs(1); len(got) != 1 || got[0] != "Markets punish the patient" {
		t.Fatalf("beliefs=%v", got)
	}
	if reloaded.Entries[0].Count != 2 {
		t.Fatalf("count=%d", reloaded.Entries[0].Count)
	}

	if _, err := writeOutputs(cfg, bridges[:1], nil, &ledger, fixedNow().Add(time.Minute)); err == nil {
		t.Fatalf("expected refusal to overwrite an existing bridge file")
	}
}
