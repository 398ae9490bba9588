package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/theimaginaryfoundation/signal-bridge/bridge"
	"github.com/theimaginaryfoundation/signal-bridge/bridge/fileutils"
	"github.com/theimaginaryfoundation/signal-bridge/internal/cliutil"
)

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	log, err := cliutil.NewLogger(cfg.Gateway.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if code := run(ctx, cfg, log); code != 0 {
		stop()
		_ = log.Sync()
		os.Exit(code)
	}
}

func run(ctx context.Context, cfg Config, log *zap.Logger) int {
	sysCfg, pctx, err := loadContext(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 2
	}
	ledger, err := bridge.LoadThemeLedger(cfg.ledgerPath())
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 2
	}
	pctx.KnownBeliefs = ledger.Beliefs(cfg.KnownBeliefs)

	reg := cliutil.NewRegistry()
	if cfg.Gateway.MetricsAddr != "" {
		m, err := cliutil.ServeMetrics(cfg.Gateway.MetricsAddr, reg, log)
		if err != nil {
			log.Error("metrics", zap.Error(err))
			return 1
		}
		defer func() { _ = m.Shutdown(context.Background()) }()
	}
	gw, settings, err := cliutil.NewGateway(ctx, cfg.Gateway, log, reg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 2
	}

	start := time.Now()
	orch := bridge.NewOrchestrator(gw, bridge.Options{
		Logger:      log,
		Concurrency: cfg.Concurrency,
		Progress: func(done, total int, last string) {
			cliutil.Progress(log, "signal-bridge", "%d/%d entries bridged (last=%s elapsed=%s)",
				done, total, last, time.Since(start).Round(time.Second))
		},
	})

	if cfg.Quick != "" {
		res, err := orch.QuickBridge(ctx, cfg.Text, bridge.QuickBridgeMode(cfg.Quick))
		if err != nil {
			log.Error("quick bridge", zap.Error(err))
			return 1
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(res)
		return 0
	}

	entries, err := loadEntries(ctx, cfg, time.Now)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 2
	}
	log.Info("bridging entries",
		zap.Int("entries", len(entries)),
		zap.String("mode", string(sysCfg.Mode)),
		zap.Int("markets", len(pctx.Markets)),
		zap.String("provider", settings.Provider),
		zap.String("model", settings.ModelOrDefault()),
	)

	var (
		history bridge.History
		batch   *bridge.BatchResult
	)
	if len(entries) == 1 {
		b, err := orch.Process(ctx, bridge.EntryInput(entries[0]), sysCfg, pctx)
		if err != nil {
			log.Error("process", zap.Error(err))
			return 1
		}
		history.Append(b)
	} else {
		res, err := orch.ProcessBatch(ctx, entries, sysCfg, pctx)
		for _, b := range res.Bridges {
			history.Append(b)
		}
		if err != nil && history.Len() == 0 {
			log.Error("process batch", zap.Error(err))
			return 1
		}
		if err != nil {
			log.Warn("process batch", zap.Error(err))
		}
		batch = &res
	}

	out, err := writeOutputs(cfg, history.Snapshot(), batch, &ledger, time.Now())
	if err != nil {
		log.Error("write outputs", zap.Error(err))
		return 1
	}
	fmt.Fprintf(os.Stdout, "entries=%d bridges_written=%d stage_errors=%d out_dir=%s\n",
		len(entries), len(out.bridgeFiles), out.stageErrors, cfg.OutputDir)
	for _, p := range out.bridgeFiles {
		fmt.Fprintln(os.Stdout, p)
	}
	if batch != nil && len(batch.Failed) > 0 {
		return 1
	}
	return 0
}

func loadContext(cfg Config) (bridge.SystemConfig, bridge.ProcessContext, error) {
	sysCfg := bridge.DefaultConfig(bridge.ModeBridgeMode)
	if cfg.ConfigPath != "" {
		c, err := bridge.LoadSystemConfig(cfg.ConfigPath)
		if err != nil {
			return bridge.SystemConfig{}, bridge.ProcessContext{}, err
		}
		sysCfg = c
	}
	if cfg.Mode != "" {
		sysCfg.Mode = bridge.Mode(cfg.Mode)
	}
	if err := sysCfg.Validate(); err != nil {
		return bridge.SystemConfig{}, bridge.ProcessContext{}, err
	}

	var pctx bridge.ProcessContext
	if cfg.MarketsPath != "" {
		mf, err := bridge.LoadMarkets(cfg.MarketsPath)
		if err != nil {
			return bridge.SystemConfig{}, bridge.ProcessContext{}, err
		}
		pctx.Markets = mf.Markets
		pctx.Persona = mf.Persona
	}
	return sysCfg, pctx, nil
}

// loadEntries turns -text or -in into journal entries. A .json input is read as
// a journal export; anything else is one entry.
func loadEntries(ctx context.Context, cfg Config, now func() time.Time) ([]bridge.JournalEntry, error) {
	if cfg.Text != "" {
		e, err := bridge.NewJournalEntry(cfg.Text, bridge.EntryOptions{At: now()})
		if err != nil {
			return nil, err
		}
		return []bridge.JournalEntry{e}, nil
	}

	if strings.EqualFold(filepath.Ext(cfg.InputPath), ".json") {
		f, err := os.Open(cfg.InputPath)
		if err != nil {
			return nil, fmt.Errorf("open -in: %w", err)
		}
		defer f.Close()
		res, err := bridge.ImportJournal(ctx, f, bridge.ImportOptions{ArrayField: cfg.ArrayField, Now: now})
		if err != nil {
			return nil, err
		}
		if len(res.Entries) == 0 {
			return nil, fmt.Errorf("no usable entries in %s (skipped=%d)", cfg.InputPath, res.Skipped)
		}
		return res.Entries, nil
	}

	raw, err := os.ReadFile(cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("read -in: %w", err)
	}
	at := now()
	if fi, err := os.Stat(cfg.InputPath); err == nil {
		at = fi.ModTime()
	}
	e, err := bridge.NewJournalEntry(string(raw), bridge.EntryOptions{At: at})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.InputPath, err)
	}
	return []bridge.JournalEntry{e}, nil
}

type outputs struct {
	bridgeFiles []string
	stageErrors int
}

// writeOutputs writes one JSON file per bridge, appends the history index,
// packs a markdown digest for this run and folds the analyses into the ledger.
func writeOutputs(cfg Config, bridges []bridge.SignalBridge, batch *bridge.BatchResult, ledger *bridge.ThemeLedger, now time.Time) (outputs, error) {
	var out outputs
	bridgesDir := filepath.Join(cfg.OutputDir, "bridges")
	records := make([]bridge.HistoryIndexRecord, 0, len(bridges))
	var analyses []bridge.JournalAnalysis
	for _, b := range bridges {
		path := filepath.Join(bridgesDir, b.ID+".json")
		if !cfg.Overwrite && fileutils.FileExists(path) {
			return out, fmt.Errorf("output exists (use -overwrite): %s", path)
		}
		if err := fileutils.WriteJSONFileAtomic(path, b, cfg.Pretty); err != nil {
			return out, err
		}
		out.bridgeFiles = append(out.bridgeFiles, path)
		out.stageErrors += len(b.Errors)
		records = append(records, bridge.BuildHistoryIndexRecord(b, path))
		analyses = append(analyses, b.JournalAnalysis...)
	}
	if err := bridge.AppendHistoryIndex(filepath.Join(cfg.OutputDir, "history.jsonl"), records...); err != nil {
		return out, err
	}

	if batch != nil {
		path := filepath.Join(cfg.OutputDir, "batch-"+now.UTC().Format("20060102-150405")+".json")
		if err := fileutils.WriteJSONFileAtomic(path, batch, cfg.Pretty); err != nil {
			return out, err
		}
	}

	digestDir := filepath.Join(cfg.OutputDir, "digest", now.UTC().Format("20060102-150405"))
	index, err := bridge.WriteDigestShards(bridges, bridge.DigestOptions{
		OutDir:             digestDir,
		MaxBytes:           cfg.MaxShardBytes,
		Overwrite:          cfg.Overwrite,
		IncludeConnections: true,
	})
	if err != nil {
		return out, err
	}
	if err := bridge.WriteDigestIndex(filepath.Join(digestDir, "index.jsonl"), index, cfg.Overwrite); err != nil {
		return out, err
	}

	ledger.Merge(analyses, now)
	if err := bridge.SaveThemeLedger(cfg.ledgerPath(), *ledger); err != nil {
		return out, err
	}
	return out, nil
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.Text, "text", "", "A single journal thought to bridge")
	fs.StringVar(&cfg.InputPath, "in", "", "Journal entry file (.txt/.md) or journal export (.json)")
	fs.StringVar(&cfg.ArrayField, "array-field", "", "Field holding the entries array when the export is an object")
	fs.StringVar(&cfg.Mode, "mode", "", "Override the config mode: JOURNAL_TO_CONTENT|JOURNAL_TO_PREDICTION|BRIDGE_MODE|NARRATIVE_MODE")
	fs.StringVar(&cfg.ConfigPath, "config", "", "YAML system config (defaults to BRIDGE_MODE defaults)")
	fs.StringVar(&cfg.MarketsPath, "markets", "", "YAML file with prediction markets and an optional persona")
	fs.StringVar(&cfg.Quick, "quick", "", "Quick bridge only (CONTENT|PREDICTION|BOTH); prints JSON and writes nothing")
	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "Output directory for bridges, history index, digest and ledger")
	fs.StringVar(&cfg.LedgerPath, "ledger", "", "Theme ledger path (defaults to <out>/theme_ledger.json)")
	fs.IntVar(&cfg.KnownBeliefs, "known-beliefs", cfg.KnownBeliefs, "Recurring ledger beliefs passed into analysis (0 disables)")
	fs.IntVar(&cfg.MaxShardBytes, "max-shard-bytes", cfg.MaxShardBytes, "Max UTF-8 bytes per markdown digest shard")
	fs.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "Concurrent model calls within one bridge")
	fs.BoolVar(&cfg.Pretty, "pretty", false, "Pretty-print JSON outputs")
	fs.BoolVar(&cfg.Overwrite, "overwrite", false, "Overwrite existing outputs")
	cfg.Gateway.Register(fs)

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags]\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExample:")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/signal-bridge -in journal-export.json -markets markets.yaml -pretty")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Mode = strings.ToUpper(strings.TrimSpace(cfg.Mode))
	cfg.Quick = strings.ToUpper(strings.TrimSpace(cfg.Quick))
	if cfg.InputPath != "" {
		cfg.InputPath = filepath.Clean(cfg.InputPath)
	}
	cfg.OutputDir = filepath.Clean(cfg.OutputDir)
	return cfg, nil
}
