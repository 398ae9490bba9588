package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/theimaginaryfoundation/signal-bridge/bridge/provider"
)

// AdversarialMind forms and attacks prediction market positions. It never
// modifies a position it is given.
type AdversarialMind struct {
	gw   provider.Gateway
	opts Options
}

func NewAdversarialMind(gw provider.Gateway, opts Options) *AdversarialMind {
	return &AdversarialMind{gw: gw, opts: opts.withDefaults()}
}

type positionWire struct {
	Direction            string   `json:"direction" jsonschema:"enum=YES,enum=NO,enum=ABSTAIN"`
	Conviction           *float64 `json:"conviction" jsonschema:"description=0-1 conviction level"`
	SizeRecommendation   string   `json:"size_recommendation" jsonschema:"enum=SKIP,enum=SMALL,enum=MEDIUM,enum=LARGE,enum=MAX"`
	Thesis               string   `json:"thesis" jsonschema:"description=Core thesis for this position"`
	PrimaryEvidence      []string `json:"primary_evidence"`
	AdversarialChallenge []string `json:"adversarial_challenge" jsonschema:"description=Why we might be wrong"`
	EntryPriceTarget     *float64 `json:"entry_price_target" jsonschema:"description=Ideal entry price (probability)"`
	ExitPriceTarget      *float64 `json:"exit_price_target" jsonschema:"description=Target exit price"`
	StopLoss             *float64 `json:"stop_loss" jsonschema:"description=Cut loss at this price"`
	TimeHorizon          string   `json:"time_horizon" jsonschema:"description=Expected holding period"`
	EdgeSource           string   `json:"edge_source" jsonschema:"enum=INFORMATION,enum=TIMING,enum=PSYCHOLOGY,enum=STRUCTURAL,enum=NARRATIVE"`
	KeyInvalidation      string   `json:"key_invalidation" jsonschema:"description=What would prove us wrong"`
}

var positionSchema = provider.GenerateSchema[positionWire]()

type signalView struct {
	Type            SignalType      `json:"type"`
	Observation     string          `json:"observation"`
	Interpretation  string          `json:"interpretation"`
	StrengthPercent int             `json:"strength_percent"`
	TimeSensitivity TimeSensitivity `json:"time_sensitivity"`
}

type journalContextView struct {
	Beliefs     []BeliefStatement     `json:"beliefs"`
	Signals     []string              `json:"market_signals"`
	Contrarian  []ContrarianIndicator `json:"contrarian_indicators"`
	Emotions    []Emotion             `json:"dominant_emotions"`
	Defenses    []DefenseMechanism    `json:"defense_mechanisms"`
	Distortions []CognitivePattern    `json:"cognitive_patterns"`
}

func viewJournalContext(a *JournalAnalysis) *journalContextView {
	if a == nil {
		return nil
	}
	v := &journalContextView{
		Beliefs:     a.BeliefStatements,
		Signals:     make([]string, 0, len(a.MarketSignals)),
		Contrarian:  a.ContrarianIndicators,
		Emotions:    a.DominantEmotions,
		Defenses:    a.DefenseMechanismsDetected,
		Distortions: a.CognitivePatterns,
	}
	for _, s := range a.MarketSignals {
		v.Signals = append(v.Signals, s.Observation+": "+s.Interpretation)
	}
	return v
}

// positionFraming carries the run-level sliders into the position request.
type positionFraming struct {
	Intensity float64       `json:"adversarial_intensity,omitempty"`
	Risk      RiskTolerance `json:"risk_tolerance,omitempty"`
}

// Position forms a position on one market from journal signals. analysis is optional.
func (m *AdversarialMind) Position(ctx context.Context, market PredictionMarket, signals []MarketSignal, analysis *JournalAnalysis, archetype MarketArchetype) (MarketPosition, error) {
	return m.position(ctx, market, signals, analysis, archetype, positionFraming{})
}

func (m *AdversarialMind) position(ctx context.Context, market PredictionMarket, signals []MarketSignal, analysis *JournalAnalysis, archetype MarketArchetype, framing positionFraming) (MarketPosition, error) {
	if ctx == nil {
		return MarketPosition{}, errors.New("Position: ctx is nil")
	}
	if !archetype.Valid() {
		archetype = MarketOracle
	}
	views := make([]signalView, 0, len(signals))
	for _, s := range signals {
		views = append(views, signalView{s.SignalType, s.Observation, s.Interpretation, percent(s.SignalStrength), s.TimeSensitivity})
	}
	payload, err := json.Marshal(struct {
		Market    PredictionMarket    `json:"market"`
		Signals   []signalView        `json:"signals"`
		Journal   *journalContextView `json:"journal_context,omitempty"`
		Archetype MarketArchetype     `json:"archetype"`
		Framing   positionFraming     `json:"framing"`
	}{market, views, viewJournalContext(analysis), archetype, framing})
	if err != nil {
		return MarketPosition{}, err
	}

	var raw positionWire
	err = provider.Decode(ctx, m.gw, provider.Request{
		Name:         "MarketPosition",
		Instructions: positionPrompt + "\n\nREASONING STYLE:\n" + marketReasoning(archetype),
		Input:        string(payload),
		Schema:       positionSchema,
		Temperature:  0.7,
	}, &raw)
	if err != nil {
		return MarketPosition{}, fmt.Errorf("position on market %s: %w", market.ID, err)
	}

	p := shapePosition(market, raw)
	p.ID = "position-" + uuid.NewString()
	m.opts.Logger.Debug("position formed",
		zap.String("market_id", market.ID),
		zap.String("direction", string(p.Direction)),
		zap.Float64("conviction", p.Conviction),
	)
	return p, nil
}

// shapePosition applies position defaults. ID is left empty.
func shapePosition(market PredictionMarket, raw positionWire) MarketPosition {
	direction := coerce(raw.Direction, DirectionAbstain)
	exitDefault := 0.0
	if direction == DirectionYes {
		exitDefault = 1
	}
	var stop *float64
	if raw.StopLoss != nil {
		stop = ptr(clamp01(*raw.StopLoss))
	}
	return MarketPosition{
		MarketID:              market.ID,
		Direction:             direction,
		Conviction:            score(raw.Conviction, 0),
		SizeRecommendation:    coerce(raw.SizeRecommendation, SizeSkip),
		Thesis:                raw.Thesis,
		PrimaryEvidence:       cleanStrings(raw.PrimaryEvidence),
		AdversarialChallenge:  cleanStrings(raw.AdversarialChallenge),
		EntryPriceTarget:      score(raw.EntryPriceTarget, market.CurrentPrice),
		ExitPriceTarget:       score(raw.ExitPriceTarget, exitDefault),
		StopLoss:              stop,
		TimeHorizon:           text(raw.TimeHorizon, "Unknown"),
		EdgeSource:            coerce(raw.EdgeSource, EdgeNarrative),
		ConfidenceCalibration: neutralScore,
	}
}

type challengeWire struct {
	BestBullCase   string `json:"best_bull_case"`
	BestBearCase   string `json:"best_bear_case"`
	BiasesDetected []struct {
		BiasType    string   `json:"bias_type" jsonschema:"enum=CONFIRMATION,enum=RECENCY,enum=ANCHORING,enum=OVERCONFIDENCE,enum=AVAILABILITY,enum=NARRATIVE_FALLACY,enum=SUNK_COST,enum=BANDWAGON,enum=HINDSIGHT"`
		Description string   `json:"description"`
		Severity    *float64 `json:"severity"`
		Mitigation  string   `json:"mitigation"`
	} `json:"biases_detected"`
	EmotionalInfluence *float64 `json:"emotional_influence"`
	Scenarios          []struct {
		Name           string   `json:"name"`
		Description    string   `json:"description"`
		Probability    *float64 `json:"probability"`
		OutcomeIfTrue  string   `json:"outcome_if_true" jsonschema:"enum=WIN,enum=LOSE,enum=BREAKEVEN"`
		ExpectedReturn *float64 `json:"expected_return"`
	} `json:"scenarios"`
	BaseCaseProbability *float64 `json:"base_case_probability"`
	AdjustedConviction  *float64 `json:"adjusted_conviction"`
	Recommendation      string   `json:"recommendation" jsonschema:"enum=PROCEED,enum=REDUCE_SIZE,enum=WAIT,enum=REVERSE,enum=SKIP"`
	KeyInvalidation     string   `json:"key_invalidation"`
}

var challengeSchema = provider.GenerateSchema[challengeWire]()

// Challenge stress-tests a position. position is read, never written.
func (m *AdversarialMind) Challenge(ctx context.Context, position MarketPosition, market PredictionMarket, extra string) (AdversarialAnalysis, error) {
	if ctx == nil {
		return AdversarialAnalysis{}, errors.New("Challenge: ctx is nil")
	}
	payload, err := json.Marshal(struct {
		Position MarketPosition   `json:"position"`
		Market   PredictionMarket `json:"market"`
		Extra    string           `json:"additional_context,omitempty"`
	}{position, market, extra})
	if err != nil {
		return AdversarialAnalysis{}, err
	}

	var raw challengeWire
	err = provider.Decode(ctx, m.gw, provider.Request{
		Name:         "AdversarialChallenge",
		Instructions: challengePrompt,
		Input:        string(payload),
		Schema:       challengeSchema,
		Temperature:  0.8,
	}, &raw)
	if err != nil {
		return AdversarialAnalysis{}, fmt.Errorf("challenge position %s: %w", position.ID, err)
	}
	return shapeChallenge(position, raw), nil
}

func shapeChallenge(position MarketPosition, raw challengeWire) AdversarialAnalysis {
	out := AdversarialAnalysis{
		PositionID:          position.ID,
		BestBullCase:        raw.BestBullCase,
		BestBearCase:        raw.BestBearCase,
		BiasesDetected:      make([]CognitiveBias, 0, len(raw.BiasesDetected)),
		EmotionalInfluence:  score(raw.EmotionalInfluence, noRisk),
		Scenarios:           make([]Scenario, 0, len(raw.Scenarios)),
		BaseCaseProbability: score(raw.BaseCaseProbability, neutralScore),
		AdjustedConviction:  score(raw.AdjustedConviction, position.Conviction),
		Recommendation:      coerce(raw.Recommendation, RecommendSkip),
		KeyInvalidation:     raw.KeyInvalidation,
	}
	if out.KeyInvalidation == "" && len(position.AdversarialChallenge) > 0 {
		out.KeyInvalidation = position.AdversarialChallenge[0]
	}
	for _, b := range raw.BiasesDetected {
		out.BiasesDetected = append(out.BiasesDetected, CognitiveBias{
			BiasType:    coerce(b.BiasType, BiasConfirmation),
			Description: b.Description,
			Severity:    score(b.Severity, neutralScore),
			Mitigation:  b.Mitigation,
		})
	}
	for _, s := range raw.Scenarios {
		out.Scenarios = append(out.Scenarios, Scenario{
			Name:           s.Name,
			Description:    s.Description,
			Probability:    score(s.Probability, 0),
			OutcomeIfTrue:  coerce(s.OutcomeIfTrue, OutcomeBreakeven),
			ExpectedReturn: number(s.ExpectedReturn, 0),
		})
	}
	return out
}

type beliefBetWire struct {
	MatchedMarketID           string   `json:"matched_market_id"`
	Direction                 string   `json:"direction" jsonschema:"enum=YES,enum=NO,enum=ABSTAIN"`
	AdjustedConviction        *float64 `json:"adjusted_conviction"`
	TransformationExplanation string   `json:"transformation_explanation"`
}

var beliefBetSchema = provider.GenerateSchema[beliefBetWire]()

type marketView struct {
	ID             string `json:"id"`
	Question       string `json:"question"`
	PricePercent   int    `json:"current_price_percent"`
	ResolutionDate string `json:"resolution_date"`
}

// ConvertBeliefToBet matches a belief to one of markets and sizes a position on
// it. A belief that is not both testable and market-relevant is rejected before
// any generation call.
func (m *AdversarialMind) ConvertBeliefToBet(ctx context.Context, belief BeliefStatement, markets []PredictionMarket) (BeliefBet, error) {
	if !belief.Testable || !belief.MarketRelevant {
		return BeliefBet{Transformation: "Belief is not testable or market-relevant"}, nil
	}
	if ctx == nil {
		return BeliefBet{}, errors.New("ConvertBeliefToBet: ctx is nil")
	}
	views := make([]marketView, 0, len(markets))
	for _, mk := range markets {
		views = append(views, marketView{mk.ID, mk.Question, percent(mk.CurrentPrice), mk.ResolutionDate})
	}
	payload, err := json.Marshal(struct {
		Belief  BeliefStatement `json:"belief"`
		Markets []marketView    `json:"markets"`
	}{belief, views})
	if err != nil {
		return BeliefBet{}, err
	}

	var raw beliefBetWire
	err = provider.Decode(ctx, m.gw, provider.Request{
		Name:         "BeliefToBet",
		Instructions: beliefToBetPrompt,
		Input:        string(payload),
		Schema:       beliefBetSchema,
		Temperature:  0.5,
	}, &raw)
	if err != nil {
		return BeliefBet{}, err
	}
	return shapeBeliefBet(belief, markets, raw), nil
}

func shapeBeliefBet(belief BeliefStatement, markets []PredictionMarket, raw beliefBetWire) BeliefBet {
	var matched *PredictionMarket
	for i := range markets {
		if markets[i].ID == raw.MatchedMarketID {
			matched = &markets[i]
			break
		}
	}
	if matched == nil {
		return BeliefBet{Transformation: text(raw.TransformationExplanation, "No matching market found")}
	}
	mk := *matched

	direction := coerce(raw.Direction, DirectionAbstain)
	conviction := score(raw.AdjustedConviction, belief.ActualConfidence)
	size := SizeSkip
	switch {
	case conviction > 0.7:
		size = SizeMedium
	case conviction > 0.5:
		size = SizeSmall
	}
	exit := 0.1
	if direction == DirectionYes {
		exit = 0.9
	}
	return BeliefBet{
		MatchedMarket: &mk,
		Position: &MarketPosition{
			ID:                 "belief-position-" + uuid.NewString(),
			MarketID:           mk.ID,
			Direction:          direction,
			Conviction:         conviction,
			SizeRecommendation: size,
			Thesis:             fmt.Sprintf("Derived from personal belief: %q", belief.Statement),
			PrimaryEvidence:    []string{"Personal conviction: " + belief.Statement},
			AdversarialChallenge: []string{
				fmt.Sprintf("Confidence gap: Expressed %d%% vs Actual %d%%", percent(belief.ConfidenceExpressed), percent(belief.ActualConfidence)),
				"Based on personal belief, not systematic analysis",
			},
			EntryPriceTarget:      mk.CurrentPrice,
			ExitPriceTarget:       exit,
			TimeHorizon:           "Until resolution",
			EdgeSource:            EdgePsychology,
			ConfidenceCalibration: neutralScore,
		},
		Transformation: raw.TransformationExplanation,
	}
}

type predictorMindWire struct {
	MyThesis               string   `json:"my_thesis"`
	MyConfidence           *float64 `json:"my_confidence"`
	MyBlindSpots           []string `json:"my_blind_spots"`
	WhatMarketBelieves     string   `json:"what_market_believes"`
	WhyMarketMightBeWrong  string   `json:"why_market_might_be_wrong"`
	WhatMarketIsMissing    string   `json:"what_market_is_missing"`
	BestArgumentAgainstMe  string   `json:"best_argument_against_me"`
	WhatWouldChangeMyMind  string   `json:"what_would_change_my_mind"`
	AmIBeingRational       *bool    `json:"am_i_being_rational"`
	EmotionalContamination *float64 `json:"emotional_contamination"`
}

var predictorMindSchema = provider.GenerateSchema[predictorMindWire]()

// PredictorMindState reflects on the current positions. analysis is optional.
func (m *AdversarialMind) PredictorMindState(ctx context.Context, positions []MarketPosition, recent []AdversarialAnalysis, analysis *JournalAnalysis) (PredictorMindState, error) {
	if ctx == nil {
		return PredictorMindState{}, errors.New("PredictorMindState: ctx is nil")
	}
	summaries := make([]string, 0, len(positions))
	for _, p := range positions {
		summaries = append(summaries, fmt.Sprintf("%s on %q at %d%% conviction", p.Direction, p.Thesis, percent(p.Conviction)))
	}
	var biases []string
	for _, a := range recent {
		for _, b := range a.BiasesDetected {
			biases = append(biases, fmt.Sprintf("%s: %s", b.BiasType, b.Description))
		}
	}
	emotional := "No emotional context available"
	if analysis != nil {
		emotional = fmt.Sprintf("Current emotional state from journal: %v", analysis.DominantEmotions)
	}
	payload, err := json.Marshal(struct {
		Positions []string `json:"positions"`
		Biases    []string `json:"recent_biases"`
		Emotional string   `json:"emotional_context"`
	}{summaries, nonNil(biases), emotional})
	if err != nil {
		return PredictorMindState{}, err
	}

	var raw predictorMindWire
	err = provider.Decode(ctx, m.gw, provider.Request{
		Name:         "PredictorMindState",
		Instructions: predictorMindStatePrompt,
		Input:        string(payload),
		Schema:       predictorMindSchema,
		Temperature:  0.7,
	}, &raw)
	if err != nil {
		return PredictorMindState{}, err
	}
	return PredictorMindState{
		MyThesis:               text(raw.MyThesis, "No clear thesis formed"),
		MyConfidence:           score(raw.MyConfidence, neutralScore),
		MyBlindSpots:           cleanStrings(raw.MyBlindSpots),
		WhatMarketBelieves:     raw.WhatMarketBelieves,
		WhyMarketMightBeWrong:  raw.WhyMarketMightBeWrong,
		WhatMarketIsMissing:    raw.WhatMarketIsMissing,
		BestArgumentAgainstMe:  raw.BestArgumentAgainstMe,
		WhatWouldChangeMyMind:  raw.WhatWouldChangeMyMind,
		AmIBeingRational:       boolOr(raw.AmIBeingRational, true),
		EmotionalContamination: score(raw.EmotionalContamination, noRisk),
	}, nil
}

type portfolioWire struct {
	TotalExpectedValue    *float64 `json:"total_expected_value"`
	CorrelationRisks      []string `json:"correlation_risks"`
	ConcentrationWarnings []string `json:"concentration_warnings"`
	HedgingOpportunities  []string `json:"hedging_opportunities"`
	OverallConfidence     *float64 `json:"overall_confidence"`
	Recommendation        string   `json:"recommendation"`
}

var portfolioSchema = provider.GenerateSchema[portfolioWire]()

type portfolioRow struct {
	Direction     Direction  `json:"direction"`
	Question      string     `json:"question"`
	PricePercent  *int       `json:"current_price_percent,omitempty"`
	TargetPercent int        `json:"target_percent"`
	Conviction    int        `json:"conviction_percent"`
	Size          SizeTier   `json:"size"`
	Edge          EdgeSource `json:"edge"`
}

// AnalyzePortfolio reviews positions together. markets is keyed by market id;
// positions on unknown markets are still included.
func (m *AdversarialMind) AnalyzePortfolio(ctx context.Context, positions []MarketPosition, markets map[string]PredictionMarket) (PortfolioAnalysis, error) {
	if ctx == nil {
		return PortfolioAnalysis{}, errors.New("AnalyzePortfolio: ctx is nil")
	}
	rows := make([]portfolioRow, 0, len(positions))
	for _, p := range positions {
		target := p.ExitPriceTarget
		if p.Direction != DirectionYes {
			target = 1 - p.ExitPriceTarget
		}
		row := portfolioRow{
			Direction:     p.Direction,
			Question:      "Unknown",
			TargetPercent: percent(target),
			Conviction:    percent(p.Conviction),
			Size:          p.SizeRecommendation,
			Edge:          p.EdgeSource,
		}
		if mk, ok := markets[p.MarketID]; ok {
			row.Question = mk.Question
			row.PricePercent = ptr(percent(mk.CurrentPrice))
		}
		rows = append(rows, row)
	}
	payload, err := json.Marshal(struct {
		Positions []portfolioRow `json:"positions"`
	}{rows})
	if err != nil {
		return PortfolioAnalysis{}, err
	}

	var raw portfolioWire
	err = provider.Decode(ctx, m.gw, provider.Request{
		Name:         "PortfolioAnalysis",
		Instructions: portfolioPrompt,
		Input:        string(payload),
		Schema:       portfolioSchema,
		Temperature:  0.6,
	}, &raw)
	if err != nil {
		return PortfolioAnalysis{}, err
	}
	return PortfolioAnalysis{
		TotalExpectedValue:    number(raw.TotalExpectedValue, 0),
		CorrelationRisks:      cleanStrings(raw.CorrelationRisks),
		ConcentrationWarnings: cleanStrings(raw.ConcentrationWarnings),
		HedgingOpportunities:  cleanStrings(raw.HedgingOpportunities),
		OverallConfidence:     score(raw.OverallConfidence, neutralScore),
		Recommendation:        text(raw.Recommendation, "Review individual positions"),
	}, nil
}

type convictionWire struct {
	AdjustedConfidence *float64 `json:"adjusted_confidence"`
	Reasoning          string   `json:"reasoning"`
	RedFlags           []string `json:"red_flags"`
	GreenFlags         []string `json:"green_flags"`
}

var convictionSchema = provider.GenerateSchema[convictionWire]()

// QuickConvictionCheck sanity-checks a stated confidence.
func (m *AdversarialMind) QuickConvictionCheck(ctx context.Context, belief string, stated float64) (ConvictionCheck, error) {
	if ctx == nil {
		return ConvictionCheck{}, errors.New("QuickConvictionCheck: ctx is nil")
	}
	payload, err := json.Marshal(struct {
		Belief        string `json:"belief"`
		StatedPercent int    `json:"stated_confidence_percent"`
	}{belief, percent(stated)})
	if err != nil {
		return ConvictionCheck{}, err
	}

	var raw convictionWire
	err = provider.Decode(ctx, m.gw, provider.Request{
		Name:         "ConvictionCheck",
		Instructions: convictionCheckPrompt,
		Input:        string(payload),
		Schema:       convictionSchema,
		Temperature:  0.5,
	}, &raw)
	if err != nil {
		return ConvictionCheck{}, err
	}
	return ConvictionCheck{
		AdjustedConfidence: score(raw.AdjustedConfidence, stated),
		Reasoning:          raw.Reasoning,
		RedFlags:           cleanStrings(raw.RedFlags),
		GreenFlags:         cleanStrings(raw.GreenFlags),
	}, nil
}
