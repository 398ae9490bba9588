package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/theimaginaryfoundation/signal-bridge/bridge"
	"github.com/theimaginaryfoundation/signal-bridge/internal/cliutil"
)

type Config struct {
	// Text is a single thought given inline. InputPath is a .txt/.md entry or a
	// .json journal export. Exactly one is required.
	Text       string
	InputPath  string
	ArrayField string

	Mode        string
	ConfigPath  string
	MarketsPath string
	Quick       string

	OutputDir     string
	LedgerPath    string
	KnownBeliefs  int
	MaxShardBytes int
	Concurrency   int
	Pretty        bool
	Overwrite     bool

	Gateway cliutil.GatewayFlags
}

func (c Config) Validate() error {
	if (c.Text == "") == (c.InputPath == "") {
		return errors.New("pass exactly one of -text or -in")
	}
	if c.Mode != "" && !bridge.Mode(c.Mode).Valid() {
		return fmt.Errorf("unknown -mode %q", c.Mode)
	}
	if c.Quick != "" {
		if !bridge.QuickBridgeMode(c.Quick).Valid() {
			return fmt.Errorf("unknown -quick %q (want CONTENT, PREDICTION or BOTH)", c.Quick)
		}
		if c.Text == "" {
			return errors.New("-quick needs -text")
		}
	}
	if c.OutputDir == "" {
		return errors.New("missing -out")
	}
	if c.MaxShardBytes <= 0 {
		return errors.New("max-shard-bytes must be > 0")
	}
	if c.Concurrency < 0 || c.KnownBeliefs < 0 {
		return errors.New("concurrency/known-beliefs must be >= 0")
	}
	return c.Gateway.Validate()
}

// ledgerPath defaults to a ledger kept next to the outputs.
func (c Config) ledgerPath() string {
	if c.LedgerPath != "" {
		return c.LedgerPath
	}
	return filepath.Join(c.OutputDir, "theme_ledger.json")
}

func defaultConfig() Config {
	return Config{
		OutputDir:     filepath.FromSlash("results/signal-bridge"),
		KnownBeliefs:  10,
		MaxShardBytes: 100 * 1024,
		Concurrency:   4,
	}
}
