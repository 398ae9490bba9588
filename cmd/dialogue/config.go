package main

import (
	"errors"
	"fmt"

	"github.com/theimaginaryfoundation/signal-bridge/internal/cliutil"
)

type Config struct {
	ScenarioID    string
	ScenariosPath string
	// Start is the agent who speaks first: "a" or "b".
	Start string
	Deep  bool

	TranscriptPath string
	Overwrite      bool

	Gateway cliutil.GatewayFlags
}

func (c Config) Validate() error {
	if c.ScenarioID == "" {
		return errors.New("missing -scenario")
	}
	if c.Start != "a" && c.Start != "b" {
		return fmt.Errorf("start must be a or b (got %q)", c.Start)
	}
	return c.Gateway.Validate()
}

func (c Config) startIndex() int {
	if c.Start == "b" {
		return 1
	}
	return 0
}

func defaultConfig() Config {
	return Config{
		ScenarioID: "car-negotiation",
		Start:      "a",
	}
}
