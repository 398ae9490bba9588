package main

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/theimaginaryfoundation/signal-bridge/internal/cliutil"
)

type Config struct {
	ScenarioID    string
	Category      string
	ScenariosPath string
	List          bool

	OutputDir     string
	TurnDelay     time.Duration
	ScenarioDelay time.Duration
	Overwrite     bool

	Gateway cliutil.GatewayFlags
}

func (c Config) Validate() error {
	if c.List {
		return nil
	}
	if c.OutputDir == "" {
		return errors.New("missing -out")
	}
	if c.TurnDelay < 0 || c.ScenarioDelay < 0 {
		return errors.New("turn-delay/scenario-delay must be >= 0")
	}
	return c.Gateway.Validate()
}

func defaultConfig() Config {
	return Config{
		OutputDir:     filepath.FromSlash("results/scenarios"),
		TurnDelay:     time.Second,
		ScenarioDelay: 2 * time.Second,
	}
}
