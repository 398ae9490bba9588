package bridge

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/theimaginaryfoundation/signal-bridge/bridge/fileutils"
)

// DefaultConfig returns the stock configuration for mode. An invalid mode means BRIDGE_MODE.
func DefaultConfig(mode Mode) SystemConfig {
	if !mode.Valid() {
		mode = ModeBridgeMode
	}
	return SystemConfig{
		Mode:                 mode,
		ContentStyle:         ContentStoryteller,
		PlatformTarget:       PlatformYoutubeShorts,
		MarketStyle:          MarketOracle,
		RiskTolerance:        RiskModerate,
		AnonymizationLevel:   AnonymizeLight,
		MarketDisclosure:     true,
		PsychologicalDepth:   0.7,
		AdversarialIntensity: 0.6,
	}
}

func (c SystemConfig) Validate() error {
	if !c.Mode.Valid() {
		return fmt.Errorf("mode %q is not valid", c.Mode)
	}
	if !c.ContentStyle.Valid() {
		return fmt.Errorf("content_style %q is not valid", c.ContentStyle)
	}
	if !c.PlatformTarget.Valid() {
		return fmt.Errorf("platform_target %q is not valid", c.PlatformTarget)
	}
	if !c.MarketStyle.Valid() {
		return fmt.Errorf("market_style %q is not valid", c.MarketStyle)
	}
	if !c.RiskTolerance.Valid() {
		return fmt.Errorf("risk_tolerance %q is not valid", c.RiskTolerance)
	}
	if !c.AnonymizationLevel.Valid() {
		return fmt.Errorf("anonymization_level %q is not valid", c.AnonymizationLevel)
	}
	if c.PsychologicalDepth < 0 || c.PsychologicalDepth > 1 {
		return fmt.Errorf("psychological_depth must be within [0,1] (got %v)", c.PsychologicalDepth)
	}
	if c.AdversarialIntensity < 0 || c.AdversarialIntensity > 1 {
		return fmt.Errorf("adversarial_intensity must be within [0,1] (got %v)", c.AdversarialIntensity)
	}
	return nil
}

func (c SystemConfig) runsContent() bool {
	return c.Mode == ModeJournalToContent || c.Mode == ModeBridgeMode
}

func (c SystemConfig) runsPrediction() bool {
	return c.Mode == ModeJournalToPrediction || c.Mode == ModeBridgeMode
}

// LoadSystemConfig reads a YAML config over the defaults for BRIDGE_MODE.
func LoadSystemConfig(path string) (SystemConfig, error) {
	cfg := DefaultConfig(ModeBridgeMode)
	if err := fileutils.ReadYAMLFile(path, &cfg); err != nil {
		return SystemConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return SystemConfig{}, fmt.Errorf("LoadSystemConfig: %s: %w", path, err)
	}
	return cfg, nil
}

// MarketFile is the YAML layout for market lists and personas.
type MarketFile struct {
	Persona *UserPersona       `yaml:"persona"`
	Markets []PredictionMarket `yaml:"markets"`
}

// LoadMarkets reads markets and an optional persona. Prices outside [0,1] are rejected.
func LoadMarkets(path string) (MarketFile, error) {
	var f MarketFile
	if err := fileutils.ReadYAMLFile(path, &f); err != nil {
		return MarketFile{}, err
	}
	seen := make(map[string]bool, len(f.Markets))
	for i := range f.Markets {
		m := &f.Markets[i]
		if m.ID == "" {
			return MarketFile{}, fmt.Errorf("LoadMarkets: market %d has no id", i)
		}
		if seen[m.ID] {
			return MarketFile{}, fmt.Errorf("LoadMarkets: duplicate market id %q", m.ID)
		}
		seen[m.ID] = true
		if m.CurrentPrice < 0 || m.CurrentPrice > 1 {
			return MarketFile{}, fmt.Errorf("LoadMarkets: market %q current_price must be within [0,1] (got %v)", m.ID, m.CurrentPrice)
		}
		if !m.Platform.Valid() {
			m.Platform = VenueCustom
		}
	}
	if f.Persona != nil {
		p := NewUserPersona(f.Persona.Name, *f.Persona)
		if f.Persona.ID != "" {
			p.ID = f.Persona.ID
		}
		f.Persona = &p
	}
	return f, nil
}

// NewUserPersona fills every unset field of base with the stock persona.
func NewUserPersona(name string, base UserPersona) UserPersona {
	p := base
	p.ID = "persona-" + uuid.NewString()
	p.Name = name
	if !p.CreatorArchetype.Valid() {
		p.CreatorArchetype = ContentStoryteller
	}
	if !p.MarketArchetype.Valid() {
		p.MarketArchetype = MarketOracle
	}
	if !p.PsychologicalArchetype.Valid() {
		p.PsychologicalArchetype = ArchetypeHero
	}
	p.Tone = text(p.Tone, "Conversational and authentic")
	if !p.VocabularyLevel.Valid() {
		p.VocabularyLevel = VocabularyAccessible
	}
	p.VisualIdentity = text(p.VisualIdentity, "Minimal and clean")
	if len(p.ColorPalette) == 0 {
		p.ColorPalette = []string{"#3B82F6", "#8B5CF6", "#EC4899"}
	}
	if len(p.ContentPillars) == 0 {
		p.ContentPillars = []string{"Personal Growth", "Markets", "Life Lessons"}
	}
	if len(p.DisclosureRequirements) == 0 {
		p.DisclosureRequirements = []string{"Not financial advice", "Personal opinion only"}
	}
	return p
}

// NewSampleMarket builds a placeholder market resolving 90 days from now.
func NewSampleMarket(question string, price float64, platform MarketPlatform) PredictionMarket {
	if !platform.Valid() {
		platform = VenuePolymarket
	}
	return PredictionMarket{
		ID:             "market-" + uuid.NewString(),
		Platform:       platform,
		Question:       question,
		CurrentPrice:   clamp01(price),
		Volume:         10000,
		Liquidity:      5000,
		ResolutionDate: time.Now().Add(90 * 24 * time.Hour).UTC().Format(time.RFC3339),
		Category:       "General",
	}
}
