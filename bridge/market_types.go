package bridge

// PredictionMarket is a listed binary question. CurrentPrice is the market's
// implied probability.
type PredictionMarket struct {
	ID             string         `json:"id" yaml:"id"`
	Platform       MarketPlatform `json:"platform" yaml:"platform"`
	Question       string         `json:"question" yaml:"question"`
	CurrentPrice   float64        `json:"current_price" yaml:"current_price"`
	Volume         float64        `json:"volume" yaml:"volume"`
	Liquidity      float64        `json:"liquidity" yaml:"liquidity"`
	ResolutionDate string         `json:"resolution_date" yaml:"resolution_date"`
	Category       string         `json:"category" yaml:"category"`
}

// MarketPosition is a recommendation on one market. Conviction is distinct from
// the market's own price.
type MarketPosition struct {
	ID       string `json:"id"`
	MarketID string `json:"market_id"`

	Direction          Direction `json:"direction"`
	Conviction         float64   `json:"conviction"`
	SizeRecommendation SizeTier  `json:"size_recommendation"`

	Thesis               string   `json:"thesis"`
	PrimaryEvidence      []string `json:"primary_evidence"`
	AdversarialChallenge []string `json:"adversarial_challenge"`

	EntryPriceTarget float64  `json:"entry_price_target"`
	ExitPriceTarget  float64  `json:"exit_price_target"`
	StopLoss         *float64 `json:"stop_loss,omitempty"`
	TimeHorizon      string   `json:"time_horizon"`

	EdgeSource            EdgeSource `json:"edge_source"`
	ConfidenceCalibration float64    `json:"confidence_calibration"`
}

// AdversarialAnalysis challenges a position without modifying it. AdjustedConviction
// is the risk-adjusted view.
type AdversarialAnalysis struct {
	PositionID string `json:"position_id"`

	BestBullCase string `json:"best_bull_case"`
	BestBearCase string `json:"best_bear_case"`

	BiasesDetected     []CognitiveBias `json:"biases_detected"`
	EmotionalInfluence float64         `json:"emotional_influence"`

	Scenarios           []Scenario `json:"scenarios"`
	BaseCaseProbability float64    `json:"base_case_probability"`

	AdjustedConviction float64        `json:"adjusted_conviction"`
	Recommendation     Recommendation `json:"recommendation"`
	KeyInvalidation    string         `json:"key_invalidation"`
}

type Scenario struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Probability    float64 `json:"probability"`
	OutcomeIfTrue  Outcome `json:"outcome_if_true"`
	ExpectedReturn float64 `json:"expected_return"`
}

type CognitiveBias struct {
	BiasType    BiasType `json:"bias_type"`
	Description string   `json:"description"`
	Severity    float64  `json:"severity"`
	Mitigation  string   `json:"mitigation"`
}

type PredictorMindState struct {
	MyThesis               string   `json:"my_thesis"`
	MyConfidence           float64  `json:"my_confidence"`
	MyBlindSpots           []string `json:"my_blind_spots"`
	WhatMarketBelieves     string   `json:"what_market_believes"`
	WhyMarketMightBeWrong  string   `json:"why_market_might_be_wrong"`
	WhatMarketIsMissing    string   `json:"what_market_is_missing"`
	BestArgumentAgainstMe  string   `json:"best_argument_against_me"`
	WhatWouldChangeMyMind  string   `json:"what_would_change_my_mind"`
	AmIBeingRational       bool     `json:"am_i_being_rational"`
	EmotionalContamination float64  `json:"emotional_contamination"`
}

// BeliefBet is the outcome of converting a belief into a position. MatchedMarket
// and Position are both nil when no conversion happened.
type BeliefBet struct {
	MatchedMarket  *PredictionMarket `json:"matched_market"`
	Position       *MarketPosition   `json:"position_recommendation"`
	Transformation string            `json:"transformation"`
}

type PortfolioAnalysis struct {
	TotalExpectedValue    float64  `json:"total_expected_value"`
	CorrelationRisks      []string `json:"correlation_risks"`
	ConcentrationWarnings []string `json:"concentration_warnings"`
	HedgingOpportunities  []string `json:"hedging_opportunities"`
	OverallConfidence     float64  `json:"overall_confidence"`
	Recommendation        string   `json:"recommendation"`
}

type ConvictionCheck struct {
	AdjustedConfidence float64  `json:"adjusted_confidence"`
	Reasoning          string   `json:"reasoning"`
	RedFlags           []string `json:"red_flags"`
	GreenFlags         []string `json:"green_flags"`
}
