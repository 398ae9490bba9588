package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/theimaginaryfoundation/signal-bridge/bridge/provider"
)

// DefaultMarketDisclosure is used by MarketContent when the caller supplies none.
const DefaultMarketDisclosure = "This is not financial advice. I may have positions in the markets discussed."

// wordsPerSecond is the spoken pace assumed when sizing a script.
const wordsPerSecond = 2.5

// BriefOptions parameterise one brief. Audience, Persona and MarketPosition are optional.
type BriefOptions struct {
	Archetype      ContentArchetype
	Platform       Platform
	TargetDuration int
	Audience       *AudienceProfile
	Persona        *UserPersona
	MarketPosition *MarketPosition
	// Anonymization tells the writer how much identifying detail to strip.
	Anonymization AnonymizationLevel
}

func (o BriefOptions) withDefaults() BriefOptions {
	if !o.Archetype.Valid() {
		o.Archetype = ContentStoryteller
	}
	if !o.Platform.Valid() {
		o.Platform = PlatformYoutubeShorts
	}
	if o.TargetDuration <= 0 {
		o.TargetDuration = 45
	}
	return o
}

// ContentForge turns analyses into content briefs and related creator material.
type ContentForge struct {
	gw   provider.Gateway
	opts Options
}

func NewContentForge(gw provider.Gateway, opts Options) *ContentForge {
	return &ContentForge{gw: gw, opts: opts.withDefaults()}
}

type overlayWire struct {
	TimestampApprox *float64 `json:"timestamp_approx"`
	Text            string   `json:"text"`
	Style           string   `json:"style" jsonschema:"enum=TITLE,enum=SUBTITLE,enum=CALLOUT,enum=STAT,enum=QUOTE"`
}

type scriptWire struct {
	FullScript         string   `json:"full_script" jsonschema:"description=The complete spoken script"`
	SpokenWordCount    *float64 `json:"spoken_word_count"`
	ReadingTimeSeconds *float64 `json:"reading_time_seconds"`

	HookSegment  string   `json:"hook_segment" jsonschema:"description=The opening hook (first 3 seconds)"`
	BodySegments []string `json:"body_segments"`
	CloseSegment string   `json:"close_segment" jsonschema:"description=The closing call to action"`

	PatternInterrupts   []string `json:"pattern_interrupts" jsonschema:"description=Moments to re-grab attention"`
	EngagementQuestions []string `json:"engagement_questions" jsonschema:"description=Questions for comments"`
	ShareableQuotes     []string `json:"shareable_quotes"`

	VisualStyle      string        `json:"visual_style" jsonschema:"enum=TALKING_HEAD,enum=B_ROLL,enum=SCREEN_SHARE,enum=TEXT_OVERLAY,enum=MIXED"`
	KeyVisualMoments []string      `json:"key_visual_moments"`
	TextOverlays     []overlayWire `json:"text_overlays"`

	HookStrength        *float64 `json:"hook_strength" jsonschema:"description=0-1 how strong the hook is"`
	RetentionPrediction *float64 `json:"retention_prediction" jsonschema:"description=0-1 predicted completion rate"`
	ViralPotential      *float64 `json:"viral_potential" jsonschema:"description=0-1 shareability"`
	ControversyLevel    *float64 `json:"controversy_level" jsonschema:"description=0-1 controversy risk"`
}

var scriptSchema = provider.GenerateSchema[scriptWire]()

type briefSource struct {
	Insights        []string           `json:"insights"`
	BestThread      *NarrativeThread   `json:"best_thread,omitempty"`
	BestHooks       []HookMoment       `json:"best_hooks"`
	ShareableQuotes []string           `json:"shareable_quotes"`
	Emotions        []Emotion          `json:"dominant_emotions"`
	Defenses        []DefenseMechanism `json:"defense_mechanisms"`
}

type briefParams struct {
	Platform       Platform           `json:"platform"`
	TargetDuration int                `json:"target_duration_seconds"`
	TargetWords    int                `json:"target_words"`
	Archetype      ContentArchetype   `json:"archetype"`
	Audience       AudienceProfile    `json:"audience"`
	Anonymization  AnonymizationLevel `json:"anonymization_level,omitempty"`
}

type positionView struct {
	Thesis     string    `json:"thesis"`
	Direction  Direction `json:"direction"`
	Conviction int       `json:"conviction_percent"`
}

// bestThread picks the thread with the highest content potential; ties keep the earliest.
func bestThread(threads []NarrativeThread) (NarrativeThread, bool) {
	if len(threads) == 0 {
		return NarrativeThread{}, false
	}
	best := threads[0]
	for _, t := range threads[1:] {
		if t.ContentPotential > best.ContentPotential {
			best = t
		}
	}
	return best, true
}

// topHooks returns the n most attention-grabbing moments, stable for equal scores.
func topHooks(hooks []HookMoment, n int) []HookMoment {
	sorted := slices.Clone(hooks)
	slices.SortStableFunc(sorted, func(a, b HookMoment) int {
		switch {
		case a.AttentionScore > b.AttentionScore:
			return -1
		case a.AttentionScore < b.AttentionScore:
			return 1
		}
		return 0
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return nonNil(sorted)
}

func percent(v float64) int { return int(math.Round(clamp01(v) * 100)) }

// Brief generates one content brief from an analysis.
func (f *ContentForge) Brief(ctx context.Context, analysis JournalAnalysis, opts BriefOptions) (ContentBrief, error) {
	if ctx == nil {
		return ContentBrief{}, errors.New("Brief: ctx is nil")
	}
	opts = opts.withDefaults()

	thread, hasThread := bestThread(analysis.NarrativeThreads)
	hooks := topHooks(analysis.HookMoments, 3)

	audience := AudienceProfile{PrimaryDemographic: "General audience", AttentionSpan: AttentionShort}
	if opts.Audience != nil {
		audience.PrimaryDemographic = text(opts.Audience.PrimaryDemographic, audience.PrimaryDemographic)
		audience.Interests = opts.Audience.Interests
		audience.PainPoints = opts.Audience.PainPoints
		audience.ContentPreferences = opts.Audience.ContentPreferences
		if opts.Audience.AttentionSpan.Valid() {
			audience.AttentionSpan = opts.Audience.AttentionSpan
		}
	}
	audience.Interests = nonNil(audience.Interests)
	audience.PainPoints = nonNil(audience.PainPoints)
	audience.ContentPreferences = nonNil(audience.ContentPreferences)

	src := briefSource{
		Insights:        make([]string, 0, len(analysis.KeyInsights)),
		BestHooks:       hooks,
		ShareableQuotes: analysis.ShareableQuotes,
		Emotions:        analysis.DominantEmotions,
		Defenses:        analysis.DefenseMechanismsDetected,
	}
	for _, in := range analysis.KeyInsights {
		src.Insights = append(src.Insights, fmt.Sprintf("[%s] %s (confidence: %d%%)", in.InsightType, in.Content, percent(in.Confidence)))
	}
	if hasThread {
		src.BestThread = &thread
	}
	var pos *positionView
	if opts.MarketPosition != nil {
		pos = &positionView{
			Thesis:     opts.MarketPosition.Thesis,
			Direction:  opts.MarketPosition.Direction,
			Conviction: percent(opts.MarketPosition.Conviction),
		}
	}
	payload, err := json.Marshal(struct {
		Source   briefSource   `json:"source"`
		Params   briefParams   `json:"parameters"`
		Persona  *UserPersona  `json:"persona,omitempty"`
		Position *positionView `json:"market_position,omitempty"`
	}{
		Source: src,
		Params: briefParams{
			Platform:       opts.Platform,
			TargetDuration: opts.TargetDuration,
			TargetWords:    int(math.Round(float64(opts.TargetDuration) * wordsPerSecond)),
			Archetype:      opts.Archetype,
			Audience:       audience,
			Anonymization:  opts.Anonymization,
		},
		Persona:  opts.Persona,
		Position: pos,
	})
	if err != nil {
		return ContentBrief{}, err
	}

	var raw scriptWire
	err = provider.Decode(ctx, f.gw, provider.Request{
		Name:         "ContentScript",
		Instructions: contentBriefPrompt + "\n\nARCHETYPE:\n" + contentStrategy(opts.Archetype),
		Input:        string(payload),
		Schema:       scriptSchema,
		Temperature:  0.8,
	}, &raw)
	if err != nil {
		return ContentBrief{}, fmt.Errorf("brief for entry %s: %w", analysis.EntryID, err)
	}

	brief := shapeBrief(analysis, hooks, opts, audience, raw)
	brief.ID = "brief-" + uuid.NewString()
	f.opts.Logger.Debug("content brief generated",
		zap.String("entry_id", analysis.EntryID),
		zap.String("brief_id", brief.ID),
		zap.String("archetype", string(opts.Archetype)),
		zap.Int("beats", len(brief.NarrativeStructure.Beats)),
	)
	return brief, nil
}

// shapeBrief assembles a brief from the generated script. It makes no calls and
// leaves ID empty.
func shapeBrief(analysis JournalAnalysis, hooks []HookMoment, opts BriefOptions, audience AudienceProfile, raw scriptWire) ContentBrief {
	target := opts.TargetDuration
	script := shapeScript(raw, ContentScript{ShareableQuotes: analysis.ShareableQuotes}, target)

	emotion := EmotionAnticipation
	if len(analysis.DominantEmotions) > 0 {
		emotion = analysis.DominantEmotions[0]
	}

	hookType := HookBoldClaim
	if len(hooks) > 0 && hooks[0].HookType == MomentQuestion {
		hookType = HookQuestion
	}
	primary := raw.HookSegment
	if primary == "" && len(hooks) > 0 {
		primary = hooks[0].Content
	}

	pacing := PacingMedium
	if target < 30 {
		pacing = PacingFast
	}

	overlays := make([]TextOverlay, 0, len(raw.TextOverlays))
	for _, o := range raw.TextOverlays {
		overlays = append(overlays, TextOverlay{
			Timestamp: number(o.TimestampApprox, 0),
			Duration:  2,
			Text:      o.Text,
			Style:     coerce(o.Style, OverlayCallout),
			Position:  PositionCenter,
		})
	}
	colorMood := "NEUTRAL"
	if len(analysis.DominantEmotions) > 0 {
		colorMood = string(analysis.DominantEmotions[0])
	}
	energy := EnergyMedium
	if raw.HookStrength != nil && *raw.HookStrength > 0.7 {
		energy = EnergyHigh
	}

	return ContentBrief{
		SourceEntries:   []string{analysis.EntryID},
		TargetArchetype: opts.Archetype,
		HookStrategy: HookStrategy{
			PrimaryHook:    primary,
			HookType:       hookType,
			RetentionHooks: script.PatternInterrupts,
			CTAHook:        script.CloseSegment,
		},
		NarrativeStructure: NarrativeStructure{
			Format:         narrativeFormat(opts.Archetype),
			Beats:          buildBeats(script.BodySegments, target, emotion),
			EmotionalArc:   nonNil(slices.Clone(analysis.DominantEmotions)),
			Pacing:         pacing,
			DurationTarget: target,
		},
		TargetEmotion:  emotion,
		TargetAudience: audience,
		PlatformOptimization: PlatformSpec{
			Platform:        opts.Platform,
			OptimalDuration: target,
			AspectRatio:     AspectVertical,
			HashtagStrategy: []string{},
		},
		Script: script,
		VisualDirection: VisualDirection{
			PrimaryStyle:  coerce(raw.VisualStyle, VisualTalkingHead),
			Transitions:   []string{},
			TextOverlays:  overlays,
			SuggestedCuts: []float64{},
			ColorMood:     colorMood,
			EnergyLevel:   energy,
		},
		PredictedEngagement: predictEngagement(raw.HookStrength, raw.RetentionPrediction, nil, raw.ViralPotential, raw.ControversyLevel),
	}
}

// shapeScript fills a script from the generated fields, using fallback for every
// field the generation left empty.
func shapeScript(raw scriptWire, fallback ContentScript, readingTime int) ContentScript {
	pick := func(generated, prev []string) []string {
		if s := cleanStrings(generated); len(s) > 0 {
			return s
		}
		return nonNil(slices.Clone(prev))
	}
	s := ContentScript{
		FullScript:          text(raw.FullScript, fallback.FullScript),
		HookSegment:         text(raw.HookSegment, fallback.HookSegment),
		BodySegments:        pick(raw.BodySegments, fallback.BodySegments),
		CloseSegment:        text(raw.CloseSegment, fallback.CloseSegment),
		PatternInterrupts:   pick(raw.PatternInterrupts, fallback.PatternInterrupts),
		EngagementQuestions: pick(raw.EngagementQuestions, fallback.EngagementQuestions),
		ShareableQuotes:     pick(raw.ShareableQuotes, fallback.ShareableQuotes),
	}
	switch {
	case raw.SpokenWordCount != nil && *raw.SpokenWordCount > 0:
		s.SpokenWordCount = int(math.Round(*raw.SpokenWordCount))
	case fallback.SpokenWordCount > 0:
		s.SpokenWordCount = fallback.SpokenWordCount
	default:
		s.SpokenWordCount = len(strings.Fields(s.FullScript))
	}
	switch {
	case raw.ReadingTimeSeconds != nil && *raw.ReadingTimeSeconds > 0:
		s.ReadingTimeSeconds = int(math.Round(*raw.ReadingTimeSeconds))
	case fallback.ReadingTimeSeconds > 0:
		s.ReadingTimeSeconds = fallback.ReadingTimeSeconds
	default:
		s.ReadingTimeSeconds = readingTime
	}
	return s
}

// buildBeats turns body segments into beats: the first is CONTEXT, the last is
// RESOLUTION, the rest ESCALATION. Durations split the target evenly.
func buildBeats(segments []string, target int, emotion Emotion) []ContentBeat {
	beats := make([]ContentBeat, 0, len(segments))
	for i, seg := range segments {
		purpose := PurposeEscalation
		switch {
		case i == 0:
			purpose = PurposeContext
		case i == len(segments)-1:
			purpose = PurposeResolution
		}
		beats = append(beats, ContentBeat{
			BeatNumber:      i + 1,
			Content:         seg,
			DurationSeconds: float64(target) / float64(len(segments)),
			EmotionalTarget: emotion,
			Purpose:         purpose,
		})
	}
	return beats
}

// engagementRate averages hook strength and retention when both are known, uses
// whichever one is known otherwise, and falls back to 0.3. A directly supplied
// rate wins over all of them.
func engagementRate(hook, retention, direct *float64) float64 {
	switch {
	case direct != nil:
		return clamp01(*direct)
	case hook != nil && retention != nil:
		return (clamp01(*hook) + clamp01(*retention)) / 2
	case hook != nil:
		return clamp01(*hook)
	case retention != nil:
		return clamp01(*retention)
	}
	return 0.3
}

func predictEngagement(hook, retention, direct, viral, controversy *float64) EngagementPrediction {
	return EngagementPrediction{
		PredictedViewRate:       score(hook, neutralScore),
		PredictedCompletionRate: score(retention, 0.4),
		PredictedEngagementRate: engagementRate(hook, retention, direct),
		ViralPotential:          score(viral, 0.2),
		ControversyScore:        score(controversy, 0.1),
		ConfidenceInterval:      [2]float64{0.2, 0.6},
	}
}

// Refine regenerates a script from feedback. Any field the regeneration leaves
// empty keeps its value from script.
func (f *ContentForge) Refine(ctx context.Context, script ContentScript, feedback string, preserve []string) (ContentScript, error) {
	if ctx == nil {
		return ContentScript{}, errors.New("Refine: ctx is nil")
	}
	payload, err := json.Marshal(struct {
		Script   ContentScript `json:"current_script"`
		Feedback string        `json:"feedback"`
		Preserve []string      `json:"preserve_elements"`
	}{script, feedback, nonNil(preserve)})
	if err != nil {
		return ContentScript{}, err
	}

	var raw scriptWire
	err = provider.Decode(ctx, f.gw, provider.Request{
		Name:         "RefinedScript",
		Instructions: refineScriptPrompt,
		Input:        string(payload),
		Schema:       scriptSchema,
		Temperature:  0.7,
	}, &raw)
	if err != nil {
		return ContentScript{}, err
	}
	return shapeScript(raw, script, script.ReadingTimeSeconds), nil
}

type authenticityWire struct {
	AuthenticityScore   *float64 `json:"authenticity_score"`
	PreservedElements   []string `json:"preserved_elements"`
	LostElements        []string `json:"lost_elements"`
	AddedElements       []string `json:"added_elements"`
	Recommendation      string   `json:"recommendation" jsonschema:"enum=PUBLISH,enum=REVISE,enum=RETHINK"`
	RevisionSuggestions []string `json:"revision_suggestions"`
}

var authenticitySchema = provider.GenerateSchema[authenticityWire]()

// CheckAuthenticity compares generated content against the insight it came from.
func (f *ContentForge) CheckAuthenticity(ctx context.Context, original, generated string) (AuthenticityReport, error) {
	if ctx == nil {
		return AuthenticityReport{}, errors.New("CheckAuthenticity: ctx is nil")
	}
	payload, err := json.Marshal(struct {
		Original  string `json:"original_insight"`
		Generated string `json:"generated_content"`
	}{original, generated})
	if err != nil {
		return AuthenticityReport{}, err
	}

	var raw authenticityWire
	err = provider.Decode(ctx, f.gw, provider.Request{
		Name:         "AuthenticityCheck",
		Instructions: authenticityPrompt,
		Input:        string(payload),
		Schema:       authenticitySchema,
		Temperature:  0.5,
	}, &raw)
	if err != nil {
		return AuthenticityReport{}, err
	}
	return AuthenticityReport{
		AuthenticityScore:   score(raw.AuthenticityScore, neutralScore),
		PreservedElements:   cleanStrings(raw.PreservedElements),
		LostElements:        cleanStrings(raw.LostElements),
		AddedElements:       cleanStrings(raw.AddedElements),
		Recommendation:      coerce(raw.Recommendation, VerdictRevise),
		RevisionSuggestions: cleanStrings(raw.RevisionSuggestions),
	}, nil
}

type hookVariantsWire struct {
	Variants []struct {
		Hook           string   `json:"hook"`
		Type           string   `json:"type" jsonschema:"enum=QUESTION,enum=BOLD_CLAIM,enum=STORY_OPENING,enum=PATTERN_INTERRUPT,enum=EMOTIONAL_HIT"`
		PredictedScore *float64 `json:"predicted_score"`
		Rationale      string   `json:"rationale"`
	} `json:"variants"`
}

var hookVariantsSchema = provider.GenerateSchema[hookVariantsWire]()

// HookVariants proposes alternative opening hooks for one insight. count <= 0 means 5.
func (f *ContentForge) HookVariants(ctx context.Context, insight string, count int) ([]HookVariant, error) {
	if ctx == nil {
		return nil, errors.New("HookVariants: ctx is nil")
	}
	if count <= 0 {
		count = 5
	}
	payload, err := json.Marshal(struct {
		Insight string `json:"insight"`
		Count   int    `json:"count"`
	}{insight, count})
	if err != nil {
		return nil, err
	}

	var raw hookVariantsWire
	err = provider.Decode(ctx, f.gw, provider.Request{
		Name:         "HookVariants",
		Instructions: hookVariantsPrompt,
		Input:        string(payload),
		Schema:       hookVariantsSchema,
		Temperature:  0.9,
	}, &raw)
	if err != nil {
		return nil, err
	}
	out := make([]HookVariant, 0, len(raw.Variants))
	for _, v := range raw.Variants {
		out = append(out, HookVariant{
			Hook:           v.Hook,
			Type:           coerce(v.Type, HookBoldClaim),
			PredictedScore: score(v.PredictedScore, neutralScore),
			Rationale:      v.Rationale,
		})
	}
	return out, nil
}

type creatorMindWire struct {
	MyAuthenticTruth  string   `json:"my_authentic_truth"`
	MyPerformedTruth  string   `json:"my_performed_truth"`
	GapAwareness      *float64 `json:"gap_awareness"`
	WhatAudienceWants string   `json:"what_audience_wants"`
	WhatAudienceNeeds string   `json:"what_audience_needs"`
	WhatWillEngage    string   `json:"what_will_engage"`
	AmIBeingAuthentic *bool    `json:"am_i_being_authentic"`
	AuthenticityCost  string   `json:"authenticity_cost"`
	PerformanceCost   string   `json:"performance_cost"`
}

var creatorMindSchema = provider.GenerateSchema[creatorMindWire]()

// CreatorMindState describes the gap between what the journal says and what the brief performs.
func (f *ContentForge) CreatorMindState(ctx context.Context, analysis JournalAnalysis, brief ContentBrief) (CreatorMindState, error) {
	if ctx == nil {
		return CreatorMindState{}, errors.New("CreatorMindState: ctx is nil")
	}
	beliefs := make([]string, 0, len(analysis.BeliefStatements))
	for _, b := range analysis.BeliefStatements {
		beliefs = append(beliefs, b.Statement)
	}
	core := "Not specified"
	if len(brief.Script.BodySegments) > 0 {
		core = brief.Script.BodySegments[0]
	}
	payload, err := json.Marshal(struct {
		Emotions      []Emotion          `json:"dominant_emotions"`
		Beliefs       []string           `json:"key_beliefs"`
		Defenses      []DefenseMechanism `json:"defense_mechanisms"`
		Hook          string             `json:"hook"`
		CoreMessage   string             `json:"core_message"`
		TargetEmotion Emotion            `json:"target_emotion"`
	}{analysis.DominantEmotions, beliefs, analysis.DefenseMechanismsDetected, brief.Script.HookSegment, core, brief.TargetEmotion})
	if err != nil {
		return CreatorMindState{}, err
	}

	var raw creatorMindWire
	err = provider.Decode(ctx, f.gw, provider.Request{
		Name:         "CreatorMindState",
		Instructions: creatorMindStatePrompt,
		Input:        string(payload),
		Schema:       creatorMindSchema,
		Temperature:  0.7,
	}, &raw)
	if err != nil {
		return CreatorMindState{}, err
	}
	return shapeCreatorMind(raw), nil
}

func shapeCreatorMind(raw creatorMindWire) CreatorMindState {
	return CreatorMindState{
		MyAuthenticTruth:  raw.MyAuthenticTruth,
		MyPerformedTruth:  raw.MyPerformedTruth,
		GapAwareness:      score(raw.GapAwareness, neutralScore),
		WhatAudienceWants: raw.WhatAudienceWants,
		WhatAudienceNeeds: raw.WhatAudienceNeeds,
		WhatWillEngage:    raw.WhatWillEngage,
		AmIBeingAuthentic: boolOr(raw.AmIBeingAuthentic, true),
		AuthenticityCost:  raw.AuthenticityCost,
		PerformanceCost:   raw.PerformanceCost,
	}
}

type seriesWire struct {
	SeriesConcept string `json:"series_concept"`
	Episodes      []struct {
		Title                string   `json:"title"`
		Hook                 string   `json:"hook"`
		SourceInsights       []string `json:"source_insights"`
		RecommendedArchetype string   `json:"recommended_archetype" jsonschema:"enum=STORYTELLER,enum=TEACHER,enum=ENTERTAINER,enum=PROVOCATEUR,enum=CURATOR,enum=CONFESSIONALIST,enum=ANALYST,enum=VISIONARY"`
	} `json:"episodes"`
	PostingCadence string `json:"posting_cadence"`
	GrowthStrategy string `json:"growth_strategy"`
}

var seriesSchema = provider.GenerateSchema[seriesWire]()

// SuggestSeries proposes a content series from several analyses. At most ten
// insights and five threads are considered.
func (f *ContentForge) SuggestSeries(ctx context.Context, analyses []JournalAnalysis, goals []string) (ContentSeries, error) {
	if ctx == nil {
		return ContentSeries{}, errors.New("SuggestSeries: ctx is nil")
	}
	var insights, threads []string
	for _, a := range analyses {
		for _, in := range a.KeyInsights {
			insights = append(insights, fmt.Sprintf("[%s] %s", in.InsightType, in.Content))
		}
		for _, t := range a.NarrativeThreads {
			threads = append(threads, fmt.Sprintf("%s (%s)", t.Theme, t.StoryArc))
		}
	}
	payload, err := json.Marshal(struct {
		Insights []string `json:"insights"`
		Threads  []string `json:"narrative_threads"`
		Goals    []string `json:"content_goals"`
	}{nonNil(limit(insights, 10)), nonNil(limit(threads, 5)), nonNil(goals)})
	if err != nil {
		return ContentSeries{}, err
	}

	var raw seriesWire
	err = provider.Decode(ctx, f.gw, provider.Request{
		Name:         "ContentSeries",
		Instructions: contentSeriesPrompt,
		Input:        string(payload),
		Schema:       seriesSchema,
		Temperature:  0.8,
	}, &raw)
	if err != nil {
		return ContentSeries{}, err
	}
	out := ContentSeries{
		SeriesConcept:  raw.SeriesConcept,
		Episodes:       make([]SeriesEpisode, 0, len(raw.Episodes)),
		PostingCadence: text(raw.PostingCadence, "3x per week"),
		GrowthStrategy: raw.GrowthStrategy,
	}
	for _, e := range raw.Episodes {
		out.Episodes = append(out.Episodes, SeriesEpisode{
			Title:                e.Title,
			Hook:                 e.Hook,
			SourceInsights:       cleanStrings(e.SourceInsights),
			RecommendedArchetype: coerce(e.RecommendedArchetype, ContentStoryteller),
		})
	}
	return out, nil
}

// MarketContent writes a script that shares a position responsibly. An empty
// disclosure means DefaultMarketDisclosure.
func (f *ContentForge) MarketContent(ctx context.Context, position MarketPosition, analysis JournalAnalysis, disclosure string) (ContentScript, error) {
	if ctx == nil {
		return ContentScript{}, errors.New("MarketContent: ctx is nil")
	}
	disclosure = text(disclosure, DefaultMarketDisclosure)
	belief := "N/A"
	if len(analysis.BeliefStatements) > 0 {
		belief = analysis.BeliefStatements[0].Statement
	}
	payload, err := json.Marshal(struct {
		Thesis     string    `json:"thesis"`
		Direction  Direction `json:"direction"`
		Conviction int       `json:"conviction_percent"`
		Evidence   []string  `json:"reasoning"`
		Emotions   []Emotion `json:"emotions"`
		KeyBelief  string    `json:"key_belief"`
		Disclosure string    `json:"required_disclosure"`
	}{position.Thesis, position.Direction, percent(position.Conviction), nonNil(position.PrimaryEvidence), analysis.DominantEmotions, belief, disclosure})
	if err != nil {
		return ContentScript{}, err
	}

	var raw scriptWire
	err = provider.Decode(ctx, f.gw, provider.Request{
		Name:         "MarketContent",
		Instructions: marketContentPrompt,
		Input:        string(payload),
		Schema:       scriptSchema,
		Temperature:  0.7,
	}, &raw)
	if err != nil {
		return ContentScript{}, err
	}
	return shapeScript(raw, ContentScript{}, 50), nil
}

func limit[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
