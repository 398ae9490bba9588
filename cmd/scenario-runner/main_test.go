package main

import (
	"flag"
	"testing"
	"time"
)

func TestParseFlags_Defaults(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("scenario-runner", flag.ContinueOnError)
	cfg, err := parseFlags(fs, nil)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.TurnDelay != time.Second || cfg.ScenarioDelay != 2*time.Second {
		t.Fatalf("turn-delay=%s scenario-delay=%s", cfg.TurnDelay, cfg.ScenarioDelay)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestParseFlags_Overrides(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("scenario-runner", flag.ContinueOnError)
	cfg, err := parseFlags(fs, []string{
		"-category", "deception",
		"-out", "tmp/out/",
		"-turn-delay", "250ms",
		"-scenario-delay", "0s",
		"-provider", "gemini",
		"-overwrite",
	})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.Category != "deception" || cfg.OutputDir != "tmp/out" || !cfg.Overwrite {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.TurnDelay != 250*time.Millisecond || cfg.ScenarioDelay != 0 {
		t.Fatalf("turn-delay=%s scenario-delay=%s", cfg.TurnDelay, cfg.ScenarioDelay)
	}
	if cfg.Gateway.Provider != "gemini" {
		t.Fatalf("provider=%q", cfg.Gateway.Provider)
	}
}

func TestValidateRejectsNegativeDelay(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.TurnDelay = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoadScenariosFilters(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.ScenarioID = "car-negotiation"
	scs, err := loadScenarios(cfg)
	if err != nil {
		t.Fatalf("loadScenarios: %v", err)
	}
	if len(scs) != 1 || scs[0].Turns != 6 {
		t.Fatalf("scenarios=%+v", scs)
	}
}
