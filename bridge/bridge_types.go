package bridge

import "time"

// SignalBridge is the aggregate of one processing run.
type SignalBridge struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	JournalEntries []JournalEntry  `json:"journal_entries"`
	MarketContext  []MarketContext `json:"market_context"`

	JournalAnalysis []JournalAnalysis `json:"journal_analysis"`

	ContentBriefs   []ContentBrief   `json:"content_briefs"`
	MarketPositions []MarketPosition `json:"market_positions"`

	JournalToMarket []JournalMarketConnection `json:"journal_to_market"`
	MarketToContent []MarketContentConnection `json:"market_to_content"`
	UnifiedThesis   UnifiedThesis             `json:"unified_thesis"`

	// Errors lists the stages that failed while the rest of the bridge was built.
	Errors []StageError `json:"errors,omitempty"`
}

// Stage names used in StageError.
const (
	StageContent         = "content"
	StagePosition        = "position"
	StageJournalToMarket = "journal_to_market"
	StageMarketToContent = "market_to_content"
	StageThesis          = "unified_thesis"
)

// StageError is a failure isolated to one sub-call of Process.
type StageError struct {
	Stage    string `json:"stage"`
	MarketID string `json:"market_id,omitempty"`
	Err      string `json:"error"`
}

type MarketContext struct {
	MarketID       string           `json:"market_id"`
	Question       string           `json:"question"`
	CurrentState   PredictionMarket `json:"current_state"`
	RecentMovement float64          `json:"recent_movement"`
	KeyDates       []string         `json:"key_dates"`
	RelatedMarkets []string         `json:"related_markets"`
}

type JournalMarketConnection struct {
	JournalInsight     string  `json:"journal_insight"`
	MarketApplication  string  `json:"market_application"`
	ConnectionStrength float64 `json:"connection_strength"`
	Actionable         bool    `json:"actionable"`
	Rationale          string  `json:"rationale"`
}

type MarketContentConnection struct {
	MarketPosition     string  `json:"market_position"`
	ContentAngle       string  `json:"content_angle"`
	DisclosureRequired bool    `json:"disclosure_required"`
	AudienceInterest   float64 `json:"audience_interest"`
	EducationalValue   float64 `json:"educational_value"`
}

type UnifiedThesis struct {
	CoreBelief        string   `json:"core_belief"`
	PersonalEvidence  []string `json:"personal_evidence"`
	MarketEvidence    []string `json:"market_evidence"`
	ContentExpression string   `json:"content_expression"`
	ConvictionScore   float64  `json:"conviction_score"`
	TimeHorizon       string   `json:"time_horizon"`
}

// SystemConfig selects the pipeline branches and framing. The two sliders are
// passed through to generation requests as framing only.
type SystemConfig struct {
	Mode Mode `json:"mode" yaml:"mode"`

	ContentStyle   ContentArchetype `json:"content_style" yaml:"content_style"`
	PlatformTarget Platform         `json:"platform_target" yaml:"platform_target"`

	MarketStyle   MarketArchetype `json:"market_style" yaml:"market_style"`
	RiskTolerance RiskTolerance   `json:"risk_tolerance" yaml:"risk_tolerance"`

	AnonymizationLevel AnonymizationLevel `json:"anonymization_level" yaml:"anonymization_level"`
	MarketDisclosure   bool               `json:"market_disclosure" yaml:"market_disclosure"`

	PsychologicalDepth   float64 `json:"psychological_depth" yaml:"psychological_depth"`
	AdversarialIntensity float64 `json:"adversarial_intensity" yaml:"adversarial_intensity"`
}

type DualMindState struct {
	Creator        CreatorMindState   `json:"creator"`
	Predictor      PredictorMindState `json:"predictor"`
	Harmony        float64            `json:"harmony"`
	TensionPoints  []string           `json:"tension_points"`
	IntegratedView string             `json:"integrated_view"`
}

type CoherenceReport struct {
	CoherenceScore     float64  `json:"coherence_score"`
	Contradictions     []string `json:"contradictions"`
	AlignmentStrengths []string `json:"alignment_strengths"`
	Recommendations    []string `json:"recommendations"`
}

// QuickBridgeMode narrows QuickBridge to one side of the pipeline.
type QuickBridgeMode string

const (
	QuickContent    QuickBridgeMode = "CONTENT"
	QuickPrediction QuickBridgeMode = "PREDICTION"
	QuickBoth       QuickBridgeMode = "BOTH"
)

func (v QuickBridgeMode) Valid() bool {
	switch v {
	case QuickContent, QuickPrediction, QuickBoth:
		return true
	}
	return false
}

type QuickBridgeResult struct {
	Insight      string `json:"insight"`
	ContentHook  string `json:"content_hook,omitempty"`
	MarketSignal string `json:"market_signal,omitempty"`
	Action       string `json:"action"`
}

type BatchResult struct {
	Bridges                  []SignalBridge   `json:"bridges"`
	AggregateThesis          UnifiedThesis    `json:"aggregate_thesis"`
	RecommendedContentSeries []string         `json:"recommended_content_series"`
	RecommendedPositions     []MarketPosition `json:"recommended_positions"`
	// Failed lists entries whose analysis failed; they have no bridge.
	Failed         []EntryError `json:"failed,omitempty"`
	AggregateError string       `json:"aggregate_error,omitempty"`
}
