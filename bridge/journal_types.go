package bridge

import "time"

// JournalEntry is one submitted piece of personal narrative. It is never mutated
// after NewJournalEntry returns.
type JournalEntry struct {
	ID                string            `json:"id"`
	Timestamp         time.Time         `json:"timestamp"`
	InputType         InputType         `json:"input_type"`
	RawTranscript     string            `json:"raw_transcript,omitempty"`
	DurationSeconds   float64           `json:"duration_seconds,omitempty"`
	SpokenContent     string            `json:"spoken_content"`
	VisualContext     string            `json:"visual_context,omitempty"`
	EmotionalMarkers  []EmotionalMarker `json:"emotional_markers"`
	LocationContext   string            `json:"location_context,omitempty"`
	TimeOfDay         TimeOfDay         `json:"time_of_day"`
	EnergyLevel       float64           `json:"energy_level"`
	Tags              []string          `json:"tags,omitempty"`
	PrivateNotes      string            `json:"private_notes,omitempty"`
	ContentPermission ContentPermission `json:"content_permission"`
}

type EmotionalMarker struct {
	TimestampOffset float64 `json:"timestamp_offset"`
	Emotion         Emotion `json:"emotion"`
	Intensity       float64 `json:"intensity"`
	Trigger         string  `json:"trigger,omitempty"`
	Authenticity    float64 `json:"authenticity"`
}

// JournalAnalysis is the typed, fully defaulted analysis of one entry.
type JournalAnalysis struct {
	EntryID string `json:"entry_id"`

	KeyInsights      []Insight         `json:"key_insights"`
	NarrativeThreads []NarrativeThread `json:"narrative_threads"`
	BeliefStatements []BeliefStatement `json:"belief_statements"`

	DominantEmotions          []Emotion          `json:"dominant_emotions"`
	DefenseMechanismsDetected []DefenseMechanism `json:"defense_mechanisms_detected"`
	CognitivePatterns         []CognitivePattern `json:"cognitive_patterns"`

	HookMoments      []HookMoment      `json:"hook_moments"`
	ShareableQuotes  []string          `json:"shareable_quotes"`
	VisualHighlights []VisualHighlight `json:"visual_highlights"`

	MarketSignals        []MarketSignal        `json:"market_signals"`
	ContrarianIndicators []ContrarianIndicator `json:"contrarian_indicators"`
	SentimentShifts      []SentimentShift      `json:"sentiment_shift"`
}

type Insight struct {
	ID               string      `json:"id"`
	Content          string      `json:"content"`
	InsightType      InsightType `json:"insight_type"`
	Confidence       float64     `json:"confidence"`
	Novelty          float64     `json:"novelty"`
	Actionability    float64     `json:"actionability"`
	SourceTimestamps []float64   `json:"source_timestamps"`
}

type NarrativeThread struct {
	ID               string    `json:"id"`
	Theme            string    `json:"theme"`
	StoryArc         StoryArc  `json:"story_arc"`
	KeyMoments       []string  `json:"key_moments"`
	EmotionalJourney []Emotion `json:"emotional_journey"`
	Resolution       string    `json:"resolution,omitempty"`
	ContentPotential float64   `json:"content_potential"`
}

// BeliefStatement separates what the author says about their confidence from the
// confidence the model infers from subtext.
type BeliefStatement struct {
	Statement           string     `json:"statement"`
	BeliefType          BeliefType `json:"belief_type"`
	ConfidenceExpressed float64    `json:"confidence_expressed"`
	ActualConfidence    float64    `json:"actual_confidence"`
	Testable            bool       `json:"testable"`
	MarketRelevant      bool       `json:"market_relevant"`
}

type CognitivePattern struct {
	PatternType CognitivePatternType `json:"pattern_type"`
	Instance    string               `json:"instance"`
	Frequency   float64              `json:"frequency"`
	Impact      float64              `json:"impact"`
}

type HookMoment struct {
	Timestamp       float64        `json:"timestamp"`
	HookType        HookMomentType `json:"hook_type"`
	Content         string         `json:"content"`
	AttentionScore  float64        `json:"attention_score"`
	ControversyRisk float64        `json:"controversy_risk"`
}

type VisualHighlight struct {
	Timestamp      float64 `json:"timestamp"`
	Description    string  `json:"description"`
	VisualInterest float64 `json:"visual_interest"`
	UsableDuration float64 `json:"usable_duration"`
}

// MarketSignal is an observation with trading relevance. NoiseRatio is always
// 1 - SignalStrength.
type MarketSignal struct {
	ID                    string          `json:"id"`
	SignalType            SignalType      `json:"signal_type"`
	Source                SignalSource    `json:"source"`
	Observation           string          `json:"observation"`
	Interpretation        string          `json:"interpretation"`
	SignalStrength        float64         `json:"signal_strength"`
	NoiseRatio            float64         `json:"noise_ratio"`
	TimeSensitivity       TimeSensitivity `json:"time_sensitivity"`
	FirstPersonConfidence float64         `json:"first_person_confidence"`
	MetaConfidence        float64         `json:"meta_confidence"`
}

type ContrarianIndicator struct {
	PopularBelief         string   `json:"popular_belief"`
	ContrarianThesis      string   `json:"contrarian_thesis"`
	EvidenceForContrarian []string `json:"evidence_for_contrarian"`
	CrowdConfidence       float64  `json:"crowd_confidence"`
	ContrarianEdge        float64  `json:"contrarian_edge"`
	RiskIfWrong           string   `json:"risk_if_wrong"`
}

type SentimentShift struct {
	FromSentiment         Emotion `json:"from_sentiment"`
	ToSentiment           Emotion `json:"to_sentiment"`
	ShiftMagnitude        float64 `json:"shift_magnitude"`
	MarketRelevance       string  `json:"market_relevance"`
	HistoricalCorrelation string  `json:"historical_correlation,omitempty"`
}

type CrossEntryPattern struct {
	PatternType      PatternType `json:"pattern_type"`
	Description      string      `json:"description"`
	EntriesInvolved  []string    `json:"entries_involved"`
	Significance     float64     `json:"significance"`
	ContentPotential float64     `json:"content_potential"`
	MarketRelevance  float64     `json:"market_relevance"`
}

type BeliefEvolution struct {
	Belief             string          `json:"belief"`
	StartingConfidence float64         `json:"starting_confidence"`
	CurrentConfidence  float64         `json:"current_confidence"`
	Direction          BeliefDirection `json:"direction"`
	Triggers           []string        `json:"triggers"`
}

// EntryError records a batch member whose analysis failed.
type EntryError struct {
	EntryID string `json:"entry_id"`
	Err     string `json:"error"`
}

type BatchAnalysis struct {
	Individual         []JournalAnalysis   `json:"individual_analyses"`
	CrossEntryPatterns []CrossEntryPattern `json:"cross_entry_patterns"`
	BeliefEvolution    []BeliefEvolution   `json:"belief_evolution"`
	Errors             []EntryError        `json:"errors,omitempty"`
	PatternsError      string              `json:"patterns_error,omitempty"`
}

// Transcript is a cleaned-up rendering of raw spoken text.
type Transcript struct {
	CleanedTranscript string            `json:"cleaned_transcript"`
	DetectedEmotions  []EmotionalMarker `json:"detected_emotions"`
	DetectedSpeakers  []string          `json:"detected_speakers"`
}
