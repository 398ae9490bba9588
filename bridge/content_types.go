package bridge

// ContentBrief is one generated short-form video plan derived from an analysis.
type ContentBrief struct {
	ID            string   `json:"id"`
	SourceEntries []string `json:"source_entries"`

	TargetArchetype    ContentArchetype   `json:"target_archetype"`
	HookStrategy       HookStrategy       `json:"hook_strategy"`
	NarrativeStructure NarrativeStructure `json:"narrative_structure"`

	TargetEmotion        Emotion         `json:"target_emotion"`
	TargetAudience       AudienceProfile `json:"target_audience"`
	PlatformOptimization PlatformSpec    `json:"platform_optimization"`

	Script          ContentScript   `json:"script"`
	VisualDirection VisualDirection `json:"visual_direction"`

	PredictedEngagement EngagementPrediction `json:"predicted_engagement"`
}

type HookStrategy struct {
	PrimaryHook    string   `json:"primary_hook"`
	HookType       HookType `json:"hook_type"`
	RetentionHooks []string `json:"retention_hooks"`
	CTAHook        string   `json:"cta_hook"`
}

// NarrativeStructure beats follow a fixed rule: the first is CONTEXT, the last is
// RESOLUTION and everything in between is ESCALATION.
type NarrativeStructure struct {
	Format         NarrativeFormat `json:"format"`
	Beats          []ContentBeat   `json:"beats"`
	EmotionalArc   []Emotion       `json:"emotional_arc"`
	Pacing         Pacing          `json:"pacing"`
	DurationTarget int             `json:"duration_target"`
}

type ContentBeat struct {
	BeatNumber      int         `json:"beat_number"`
	Content         string      `json:"content"`
	DurationSeconds float64     `json:"duration_seconds"`
	VisualDirection string      `json:"visual_direction"`
	EmotionalTarget Emotion     `json:"emotional_target"`
	Purpose         BeatPurpose `json:"purpose"`
}

type ContentScript struct {
	FullScript         string `json:"full_script"`
	SpokenWordCount    int    `json:"spoken_word_count"`
	ReadingTimeSeconds int    `json:"reading_time_seconds"`

	HookSegment  string   `json:"hook_segment"`
	BodySegments []string `json:"body_segments"`
	CloseSegment string   `json:"close_segment"`

	PatternInterrupts   []string `json:"pattern_interrupts"`
	EngagementQuestions []string `json:"engagement_questions"`
	ShareableQuotes     []string `json:"shareable_quotes"`
}

type VisualDirection struct {
	PrimaryStyle  VisualStyle   `json:"primary_style"`
	Transitions   []string      `json:"transitions"`
	TextOverlays  []TextOverlay `json:"text_overlays"`
	SuggestedCuts []float64     `json:"suggested_cuts"`
	ColorMood     string        `json:"color_mood"`
	EnergyLevel   EnergyLevel   `json:"energy_level"`
}

type TextOverlay struct {
	Timestamp float64         `json:"timestamp"`
	Duration  float64         `json:"duration"`
	Text      string          `json:"text"`
	Style     OverlayStyle    `json:"style"`
	Position  OverlayPosition `json:"position"`
}

type AudienceProfile struct {
	PrimaryDemographic string        `json:"primary_demographic" yaml:"primary_demographic"`
	Interests          []string      `json:"interests" yaml:"interests"`
	PainPoints         []string      `json:"pain_points" yaml:"pain_points"`
	ContentPreferences []string      `json:"content_preferences" yaml:"content_preferences"`
	AttentionSpan      AttentionSpan `json:"attention_span" yaml:"attention_span"`
}

type PlatformSpec struct {
	Platform        Platform    `json:"platform"`
	OptimalDuration int         `json:"optimal_duration"`
	AspectRatio     AspectRatio `json:"aspect_ratio"`
	HashtagStrategy []string    `json:"hashtag_strategy"`
	PostingTime     string      `json:"posting_time,omitempty"`
}

// EngagementPrediction scores are independent 0-1 estimates. ConfidenceInterval is
// a fixed placeholder.
type EngagementPrediction struct {
	PredictedViewRate       float64    `json:"predicted_view_rate"`
	PredictedCompletionRate float64    `json:"predicted_completion_rate"`
	PredictedEngagementRate float64    `json:"predicted_engagement_rate"`
	ViralPotential          float64    `json:"viral_potential"`
	ControversyScore        float64    `json:"controversy_score"`
	ConfidenceInterval      [2]float64 `json:"confidence_interval"`
}

// UserPersona is the creator's voice and brand.
type UserPersona struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	CreatorArchetype       ContentArchetype `json:"creator_archetype" yaml:"creator_archetype"`
	MarketArchetype        MarketArchetype  `json:"market_archetype" yaml:"market_archetype"`
	PsychologicalArchetype PrimaryArchetype `json:"psychological_archetype" yaml:"psychological_archetype"`

	Tone            string          `json:"tone" yaml:"tone"`
	VocabularyLevel VocabularyLevel `json:"vocabulary_level" yaml:"vocabulary_level"`
	HumorStyle      string          `json:"humor_style,omitempty" yaml:"humor_style"`
	Catchphrases    []string        `json:"catchphrases,omitempty" yaml:"catchphrases"`

	VisualIdentity string   `json:"visual_identity" yaml:"visual_identity"`
	ColorPalette   []string `json:"color_palette" yaml:"color_palette"`
	ContentPillars []string `json:"content_pillars" yaml:"content_pillars"`

	NeverSay               []string `json:"never_say,omitempty" yaml:"never_say"`
	AlwaysInclude          []string `json:"always_include,omitempty" yaml:"always_include"`
	DisclosureRequirements []string `json:"disclosure_requirements" yaml:"disclosure_requirements"`
}

type CreatorMindState struct {
	MyAuthenticTruth  string  `json:"my_authentic_truth"`
	MyPerformedTruth  string  `json:"my_performed_truth"`
	GapAwareness      float64 `json:"gap_awareness"`
	WhatAudienceWants string  `json:"what_audience_wants"`
	WhatAudienceNeeds string  `json:"what_audience_needs"`
	WhatWillEngage    string  `json:"what_will_engage"`
	AmIBeingAuthentic bool    `json:"am_i_being_authentic"`
	AuthenticityCost  string  `json:"authenticity_cost"`
	PerformanceCost   string  `json:"performance_cost"`
}

type HookVariant struct {
	Hook           string   `json:"hook"`
	Type           HookType `json:"type"`
	PredictedScore float64  `json:"predicted_score"`
	Rationale      string   `json:"rationale"`
}

type SeriesEpisode struct {
	Title                string           `json:"title"`
	Hook                 string           `json:"hook"`
	SourceInsights       []string         `json:"source_insights"`
	RecommendedArchetype ContentArchetype `json:"recommended_archetype"`
}

type ContentSeries struct {
	SeriesConcept  string          `json:"series_concept"`
	Episodes       []SeriesEpisode `json:"episodes"`
	PostingCadence string          `json:"posting_cadence"`
	GrowthStrategy string          `json:"growth_strategy"`
}

type AuthenticityReport struct {
	AuthenticityScore   float64             `json:"authenticity_score"`
	PreservedElements   []string            `json:"preserved_elements"`
	LostElements        []string            `json:"lost_elements"`
	AddedElements       []string            `json:"added_elements"`
	Recommendation      AuthenticityVerdict `json:"recommendation"`
	RevisionSuggestions []string            `json:"revision_suggestions"`
}
