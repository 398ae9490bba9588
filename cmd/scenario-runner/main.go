package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/theimaginaryfoundation/signal-bridge/dialogue"
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

	scenarios, err := loadScenarios(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if cfg.List {
		for _, sc := range scenarios {
			fmt.Fprintf(os.Stdout, "%-20s %-12s turns=%d %s\n", sc.ID, sc.Category, sc.Turns, sc.Name)
		}
		return
	}
	if len(scenarios) == 0 {
		fmt.Fprintln(os.Stderr, "no scenarios match -scenario/-category")
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

	if code := run(ctx, cfg, scenarios, log); code != 0 {
		stop()
		_ = log.Sync()
		os.Exit(code)
	}
}

func run(ctx context.Context, cfg Config, scenarios []dialogue.Scenario, log *zap.Logger) int {
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
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Error("create output dir", zap.Error(err))
		return 1
	}
	log.Info("running scenarios",
		zap.Int("scenarios", len(scenarios)),
		zap.String("provider", settings.Provider),
		zap.String("model", settings.ModelOrDefault()),
		zap.String("out_dir", cfg.OutputDir),
	)

	start := time.Now()
	runner := dialogue.NewRunner(gw, dialogue.RunnerOptions{
		TurnDelay:     cfg.TurnDelay,
		ScenarioDelay: cfg.ScenarioDelay,
		Logger:        log,
		Progress: func(id string, done, total int, last string) {
			cliutil.Progress(log, "scenario-runner", "%s %d/%d turns (last=%s elapsed=%s)",
				id, done, total, last, time.Since(start).Round(time.Second))
		},
	})
	results, runErr := runner.Run(ctx, scenarios, func(res dialogue.ScenarioResult) error {
		return dialogue.WriteScenarioReport(cfg.OutputDir, res, cfg.Overwrite)
	})
	if len(results) > 0 {
		if err := dialogue.WriteSummary(cfg.OutputDir, results, time.Now(), cfg.Overwrite); err != nil {
			log.Error("write summary", zap.Error(err))
			return 1
		}
	}

	ok := 0
	for _, r := range results {
		if r.Success {
			ok++
		}
	}
	fmt.Fprintf(os.Stdout, "scenarios_run=%d successful=%d out_dir=%s\n", len(results), ok, cfg.OutputDir)
	if runErr != nil {
		log.Error("run stopped", zap.Error(runErr))
		return 1
	}
	if ok < len(results) {
		return 1
	}
	return 0
}

func loadScenarios(cfg Config) ([]dialogue.Scenario, error) {
	var (
		scs []dialogue.Scenario
		err error
	)
	if cfg.ScenariosPath != "" {
		scs, err = dialogue.LoadScenarios(cfg.ScenariosPath)
	} else {
		scs, err = dialogue.DefaultScenarios()
	}
	if err != nil {
		return nil, err
	}
	return dialogue.FilterScenarios(scs, cfg.ScenarioID, cfg.Category), nil
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.ScenarioID, "scenario", "", "Run only the scenario with this id")
	fs.StringVar(&cfg.Category, "category", "", "Run only scenarios in this category (negotiation, deception, cooperation, persuasion, conflict)")
	fs.StringVar(&cfg.ScenariosPath, "scenarios", "", "YAML scenario catalogue (defaults to the built-in catalogue)")
	fs.BoolVar(&cfg.List, "list", false, "List matching scenarios and exit")
	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "Directory for per-scenario JSON/markdown reports and SUMMARY.md")
	fs.DurationVar(&cfg.TurnDelay, "turn-delay", cfg.TurnDelay, "Minimum spacing between turns within a scenario")
	fs.DurationVar(&cfg.ScenarioDelay, "scenario-delay", cfg.ScenarioDelay, "Minimum spacing between scenarios")
	fs.BoolVar(&cfg.Overwrite, "overwrite", false, "Overwrite existing report files")
	cfg.Gateway.Register(fs)

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags]\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExample:")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/scenario-runner -category negotiation -out results/scenarios -overwrite")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.ScenariosPath != "" {
		cfg.ScenariosPath = filepath.Clean(cfg.ScenariosPath)
	}
	cfg.OutputDir = filepath.Clean(cfg.OutputDir)
	return cfg, nil
}
