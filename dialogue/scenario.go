package dialogue

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/theimaginaryfoundation/signal-bridge/bridge/fileutils"
)

//go:embed scenarios.yaml
var defaultScenariosYAML []byte

// Scenario is one scripted conversation: two seeded agents, a shared context
// and a fixed number of turns.
type Scenario struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Category    string  `json:"category" yaml:"category"`
	Description string  `json:"description" yaml:"description"`
	Context     string  `json:"context" yaml:"context"`
	Turns       int     `json:"turns" yaml:"turns"`
	Deep        bool    `json:"deep,omitempty" yaml:"deep,omitempty"`
	Agents      [2]Seed `json:"agents" yaml:"agents"`
}

func (s Scenario) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("scenario has no id")
	}
	if s.Turns < 1 {
		return fmt.Errorf("scenario %q: turns must be >= 1 (got %d)", s.ID, s.Turns)
	}
	if err := s.Config().Validate(); err != nil {
		return fmt.Errorf("scenario %q: %w", s.ID, err)
	}
	for _, a := range s.Agents {
		if _, err := NewCharacterFromSeed(a); err != nil {
			return fmt.Errorf("scenario %q: %w", s.ID, err)
		}
	}
	return nil
}

// Config is the scheduler configuration for the scenario. The first agent speaks first.
func (s Scenario) Config() Config {
	return Config{Agents: s.Agents, Context: s.Context, Deep: s.Deep}
}

type scenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

func validateCatalogue(scs []Scenario) error {
	seen := make(map[string]bool, len(scs))
	for _, s := range scs {
		if err := s.Validate(); err != nil {
			return err
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate scenario id %q", s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

// DefaultScenarios returns the built-in catalogue.
func DefaultScenarios() ([]Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(defaultScenariosYAML))
	dec.KnownFields(true)
	var f scenarioFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("DefaultScenarios: %w", err)
	}
	if err := validateCatalogue(f.Scenarios); err != nil {
		return nil, fmt.Errorf("DefaultScenarios: %w", err)
	}
	return f.Scenarios, nil
}

// LoadScenarios reads a catalogue in the same layout as the built-in one.
func LoadScenarios(path string) ([]Scenario, error) {
	var f scenarioFile
	if err := fileutils.ReadYAMLFile(path, &f); err != nil {
		return nil, err
	}
	if err := validateCatalogue(f.Scenarios); err != nil {
		return nil, fmt.Errorf("LoadScenarios: %s: %w", path, err)
	}
	return f.Scenarios, nil
}

// FilterScenarios keeps scenarios matching id and category; an empty filter
// matches everything.
func FilterScenarios(scs []Scenario, id, category string) []Scenario {
	out := slices.Clone(scs)
	return slices.DeleteFunc(out, func(s Scenario) bool {
		return (id != "" && s.ID != id) || (category != "" && s.Category != category)
	})
}
