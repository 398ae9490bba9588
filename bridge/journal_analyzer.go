package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/theimaginaryfoundation/signal-bridge/bridge/provider"
)

// AnalysisContext is optional background handed to the analysis call.
type AnalysisContext struct {
	PreviousBeliefs      []string `json:"previous_beliefs,omitempty"`
	MarketInterests      []string `json:"market_interests,omitempty"`
	ContentGoals         []string `json:"content_goals,omitempty"`
	PsychologicalProfile string   `json:"psychological_profile,omitempty"`
	// PsychologicalDepth is a 0-1 framing hint for how deep the analysis should go.
	PsychologicalDepth float64 `json:"psychological_depth,omitempty"`
}

// JournalAnalyzer turns entries into typed analyses.
type JournalAnalyzer struct {
	gw   provider.Gateway
	opts Options
}

func NewJournalAnalyzer(gw provider.Gateway, opts Options) *JournalAnalyzer {
	return &JournalAnalyzer{gw: gw, opts: opts.withDefaults()}
}

type insightWire struct {
	Content       string   `json:"content"`
	InsightType   string   `json:"insight_type" jsonschema:"enum=PERSONAL_GROWTH,enum=MARKET_OBSERVATION,enum=SOCIAL_TREND,enum=PREDICTION,enum=LESSON_LEARNED,enum=QUESTION"`
	Confidence    *float64 `json:"confidence" jsonschema:"description=0-1 confidence in this insight"`
	Novelty       *float64 `json:"novelty" jsonschema:"description=0-1 how unique or new this insight is"`
	Actionability *float64 `json:"actionability" jsonschema:"description=0-1 how actionable this is"`
}

type threadWire struct {
	Theme            string   `json:"theme"`
	StoryArc         string   `json:"story_arc" jsonschema:"enum=STRUGGLE,enum=VICTORY,enum=LEARNING,enum=QUESTION,enum=TRANSFORMATION,enum=WARNING"`
	KeyMoments       []string `json:"key_moments"`
	EmotionalJourney []string `json:"emotional_journey"`
	Resolution       string   `json:"resolution"`
	ContentPotential *float64 `json:"content_potential" jsonschema:"description=0-1 potential for engaging content"`
}

type beliefWire struct {
	Statement           string   `json:"statement"`
	BeliefType          string   `json:"belief_type" jsonschema:"enum=ABOUT_SELF,enum=ABOUT_WORLD,enum=ABOUT_MARKETS,enum=ABOUT_OTHERS,enum=ABOUT_FUTURE"`
	ConfidenceExpressed *float64 `json:"confidence_expressed" jsonschema:"description=0-1 how confident they sound"`
	ActualConfidence    *float64 `json:"actual_confidence" jsonschema:"description=0-1 detected actual confidence"`
	Testable            *bool    `json:"testable"`
	MarketRelevant      *bool    `json:"market_relevant"`
}

type cognitivePatternWire struct {
	PatternType string   `json:"pattern_type" jsonschema:"enum=ALL_OR_NOTHING,enum=CATASTROPHIZING,enum=MIND_READING,enum=FORTUNE_TELLING,enum=EMOTIONAL_REASONING,enum=SHOULD_STATEMENTS,enum=LABELING,enum=PERSONALIZATION"`
	Instance    string   `json:"instance"`
	Frequency   *float64 `json:"frequency"`
	Impact      *float64 `json:"impact"`
}

type hookMomentWire struct {
	Timestamp       *float64 `json:"timestamp" jsonschema:"description=Approximate timestamp in seconds"`
	HookType        string   `json:"hook_type" jsonschema:"enum=SURPRISING_STATEMENT,enum=EMOTIONAL_PEAK,enum=QUESTION,enum=CONFLICT,enum=REVELATION,enum=HUMOR"`
	Content         string   `json:"content"`
	AttentionScore  *float64 `json:"attention_score" jsonschema:"description=0-1 attention-grabbing potential"`
	ControversyRisk *float64 `json:"controversy_risk" jsonschema:"description=0-1 controversy potential"`
}

type marketSignalWire struct {
	SignalType      string   `json:"signal_type" jsonschema:"enum=SENTIMENT,enum=BEHAVIORAL,enum=NARRATIVE,enum=CONTRARIAN,enum=MOMENTUM,enum=STRUCTURAL"`
	Observation     string   `json:"observation"`
	Interpretation  string   `json:"interpretation"`
	SignalStrength  *float64 `json:"signal_strength"`
	TimeSensitivity string   `json:"time_sensitivity" jsonschema:"enum=IMMEDIATE,enum=DAYS,enum=WEEKS,enum=MONTHS"`
}

type contrarianWire struct {
	PopularBelief         string   `json:"popular_belief"`
	ContrarianThesis      string   `json:"contrarian_thesis"`
	EvidenceForContrarian []string `json:"evidence_for_contrarian"`
	CrowdConfidence       *float64 `json:"crowd_confidence"`
	ContrarianEdge        *float64 `json:"contrarian_edge"`
	RiskIfWrong           string   `json:"risk_if_wrong"`
}

type sentimentShiftWire struct {
	FromSentiment   string   `json:"from_sentiment"`
	ToSentiment     string   `json:"to_sentiment"`
	ShiftMagnitude  *float64 `json:"shift_magnitude"`
	MarketRelevance string   `json:"market_relevance"`
}

// analysisWire is the raw analysis payload before defaults are applied.
type analysisWire struct {
	KeyInsights               []insightWire          `json:"key_insights"`
	NarrativeThreads          []threadWire           `json:"narrative_threads"`
	BeliefStatements          []beliefWire           `json:"belief_statements"`
	DominantEmotions          []string               `json:"dominant_emotions"`
	DefenseMechanismsDetected []string               `json:"defense_mechanisms_detected"`
	CognitivePatterns         []cognitivePatternWire `json:"cognitive_patterns"`
	HookMoments               []hookMomentWire       `json:"hook_moments"`
	ShareableQuotes           []string               `json:"shareable_quotes"`
	MarketSignals             []marketSignalWire     `json:"market_signals"`
	ContrarianIndicators      []contrarianWire       `json:"contrarian_indicators"`
	SentimentShifts           []sentimentShiftWire   `json:"sentiment_shifts"`
}

var analysisSchema = provider.GenerateSchema[analysisWire]()

type entryView struct {
	InputType       InputType `json:"input_type"`
	TimeOfDay       TimeOfDay `json:"time_of_day"`
	DurationSeconds float64   `json:"duration_seconds,omitempty"`
	EnergyPercent   int       `json:"energy_percent"`
	VisualContext   string    `json:"visual_context,omitempty"`
	Transcript      string    `json:"transcript"`
	Tags            []string  `json:"tags,omitempty"`
}

func viewEntry(e JournalEntry) entryView {
	return entryView{
		InputType:       e.InputType,
		TimeOfDay:       e.TimeOfDay,
		DurationSeconds: e.DurationSeconds,
		EnergyPercent:   int(clamp01(e.EnergyLevel)*100 + 0.5),
		VisualContext:   e.VisualContext,
		Transcript:      e.SpokenContent,
		Tags:            e.Tags,
	}
}

// Analyze runs one analysis call. A failed call yields no analysis at all.
func (a *JournalAnalyzer) Analyze(ctx context.Context, entry JournalEntry, actx AnalysisContext) (JournalAnalysis, error) {
	if ctx == nil {
		return JournalAnalysis{}, errors.New("Analyze: ctx is nil")
	}
	if strings.TrimSpace(entry.SpokenContent) == "" {
		return JournalAnalysis{}, errors.New("Analyze: entry has no content")
	}

	payload, err := json.Marshal(struct {
		Entry   entryView       `json:"entry"`
		Context AnalysisContext `json:"user_context"`
	}{viewEntry(entry), actx})
	if err != nil {
		return JournalAnalysis{}, err
	}

	var raw analysisWire
	err = provider.Decode(ctx, a.gw, provider.Request{
		Name:         "JournalAnalysis",
		Instructions: journalAnalysisPrompt,
		Input:        string(payload),
		Schema:       analysisSchema,
		Temperature:  0.7,
	}, &raw)
	if err != nil {
		return JournalAnalysis{}, fmt.Errorf("analyze entry %s: %w", entry.ID, err)
	}

	analysis := shapeAnalysis(entry.ID, raw)
	a.opts.Logger.Debug("journal analyzed",
		zap.String("entry_id", entry.ID),
		zap.Int("insights", len(analysis.KeyInsights)),
		zap.Int("beliefs", len(analysis.BeliefStatements)),
		zap.Int("signals", len(analysis.MarketSignals)),
	)
	return analysis, nil
}

// shapeAnalysis applies every default and clamp. It is a pure function of its inputs.
func shapeAnalysis(entryID string, raw analysisWire) JournalAnalysis {
	out := JournalAnalysis{
		EntryID:                   entryID,
		KeyInsights:               make([]Insight, 0, len(raw.KeyInsights)),
		NarrativeThreads:          make([]NarrativeThread, 0, len(raw.NarrativeThreads)),
		BeliefStatements:          make([]BeliefStatement, 0, len(raw.BeliefStatements)),
		DominantEmotions:          coerceList[Emotion](raw.DominantEmotions),
		DefenseMechanismsDetected: coerceList[DefenseMechanism](raw.DefenseMechanismsDetected),
		CognitivePatterns:         make([]CognitivePattern, 0, len(raw.CognitivePatterns)),
		HookMoments:               make([]HookMoment, 0, len(raw.HookMoments)),
		ShareableQuotes:           cleanStrings(raw.ShareableQuotes),
		VisualHighlights:          []VisualHighlight{},
		MarketSignals:             make([]MarketSignal, 0, len(raw.MarketSignals)),
		ContrarianIndicators:      make([]ContrarianIndicator, 0, len(raw.ContrarianIndicators)),
		SentimentShifts:           make([]SentimentShift, 0, len(raw.SentimentShifts)),
	}

	for i, in := range raw.KeyInsights {
		out.KeyInsights = append(out.KeyInsights, Insight{
			ID:               fmt.Sprintf("insight-%s-%d", entryID, i),
			Content:          in.Content,
			InsightType:      coerce(in.InsightType, InsightPersonalGrowth),
			Confidence:       score(in.Confidence, neutralScore),
			Novelty:          score(in.Novelty, neutralScore),
			Actionability:    score(in.Actionability, neutralScore),
			SourceTimestamps: []float64{},
		})
	}
	for i, t := range raw.NarrativeThreads {
		out.NarrativeThreads = append(out.NarrativeThreads, NarrativeThread{
			ID:               fmt.Sprintf("thread-%s-%d", entryID, i),
			Theme:            t.Theme,
			StoryArc:         coerce(t.StoryArc, ArcLearning),
			KeyMoments:       cleanStrings(t.KeyMoments),
			EmotionalJourney: coerceList[Emotion](t.EmotionalJourney),
			Resolution:       t.Resolution,
			ContentPotential: score(t.ContentPotential, neutralScore),
		})
	}
	for _, b := range raw.BeliefStatements {
		out.BeliefStatements = append(out.BeliefStatements, shapeBelief(b))
	}
	for _, p := range raw.CognitivePatterns {
		out.CognitivePatterns = append(out.CognitivePatterns, CognitivePattern{
			PatternType: coerce(p.PatternType, DistortionEmotionalReasoning),
			Instance:    p.Instance,
			Frequency:   score(p.Frequency, neutralScore),
			Impact:      score(p.Impact, neutralScore),
		})
	}
	for _, h := range raw.HookMoments {
		out.HookMoments = append(out.HookMoments, HookMoment{
			Timestamp:       number(h.Timestamp, 0),
			HookType:        coerce(h.HookType, MomentSurprisingStatement),
			Content:         h.Content,
			AttentionScore:  score(h.AttentionScore, neutralScore),
			ControversyRisk: score(h.ControversyRisk, noRisk),
		})
	}
	for i, s := range raw.MarketSignals {
		out.MarketSignals = append(out.MarketSignals, shapeSignal(fmt.Sprintf("signal-%s-%d", entryID, i), s))
	}
	for _, c := range raw.ContrarianIndicators {
		out.ContrarianIndicators = append(out.ContrarianIndicators, ContrarianIndicator{
			PopularBelief:         c.PopularBelief,
			ContrarianThesis:      c.ContrarianThesis,
			EvidenceForContrarian: cleanStrings(c.EvidenceForContrarian),
			CrowdConfidence:       score(c.CrowdConfidence, neutralScore),
			ContrarianEdge:        score(c.ContrarianEdge, 0.3),
			RiskIfWrong:           text(c.RiskIfWrong, "Unknown"),
		})
	}
	for _, s := range raw.SentimentShifts {
		out.SentimentShifts = append(out.SentimentShifts, SentimentShift{
			FromSentiment:   coerce(s.FromSentiment, EmotionAnticipation),
			ToSentiment:     coerce(s.ToSentiment, EmotionAnticipation),
			ShiftMagnitude:  score(s.ShiftMagnitude, neutralScore),
			MarketRelevance: s.MarketRelevance,
		})
	}
	return out
}

func shapeBelief(b beliefWire) BeliefStatement {
	return BeliefStatement{
		Statement:           b.Statement,
		BeliefType:          coerce(b.BeliefType, BeliefAboutSelf),
		ConfidenceExpressed: score(b.ConfidenceExpressed, neutralScore),
		ActualConfidence:    firstScore(neutralScore, b.ActualConfidence, b.ConfidenceExpressed),
		Testable:            boolOr(b.Testable, false),
		MarketRelevant:      boolOr(b.MarketRelevant, false),
	}
}

func shapeSignal(id string, s marketSignalWire) MarketSignal {
	strength := score(s.SignalStrength, neutralScore)
	return MarketSignal{
		ID:                    id,
		SignalType:            coerce(s.SignalType, SignalSentiment),
		Source:                SourceJournal,
		Observation:           s.Observation,
		Interpretation:        s.Interpretation,
		SignalStrength:        strength,
		NoiseRatio:            1 - strength,
		TimeSensitivity:       coerce(s.TimeSensitivity, SensitivityWeeks),
		FirstPersonConfidence: neutralScore,
		MetaConfidence:        neutralScore,
	}
}

type crossPatternWire struct {
	PatternType      string   `json:"pattern_type" jsonschema:"enum=RECURRING_THEME,enum=EMOTIONAL_CYCLE,enum=BELIEF_SHIFT,enum=NARRATIVE_ARC"`
	Description      string   `json:"description"`
	EntriesInvolved  []string `json:"entries_involved"`
	Significance     *float64 `json:"significance"`
	ContentPotential *float64 `json:"content_potential"`
	MarketRelevance  *float64 `json:"market_relevance"`
}

type beliefEvolutionWire struct {
	Belief             string   `json:"belief"`
	StartingConfidence *float64 `json:"starting_confidence"`
	CurrentConfidence  *float64 `json:"current_confidence"`
	Direction          string   `json:"direction" jsonschema:"enum=STRENGTHENING,enum=WEAKENING,enum=STABLE,enum=VOLATILE"`
	Triggers           []string `json:"triggers"`
}

type crossEntryWire struct {
	CrossEntryPatterns []crossPatternWire    `json:"cross_entry_patterns"`
	BeliefEvolution    []beliefEvolutionWire `json:"belief_evolution"`
}

var crossEntrySchema = provider.GenerateSchema[crossEntryWire]()

type entryDigest struct {
	EntryID          string    `json:"entry_id"`
	TimeOfDay        TimeOfDay `json:"time_of_day"`
	DominantEmotions []Emotion `json:"dominant_emotions"`
	KeyBeliefs       []string  `json:"key_beliefs"`
	MarketSignals    []string  `json:"market_signals"`
}

// AnalyzeBatch analyzes every entry independently, keeping input order. When at
// least two succeed it makes one more call for patterns across them; otherwise
// that call is skipped entirely. It fails only when no entry could be analyzed.
func (a *JournalAnalyzer) AnalyzeBatch(ctx context.Context, entries []JournalEntry) (BatchAnalysis, error) {
	if ctx == nil {
		return BatchAnalysis{}, errors.New("AnalyzeBatch: ctx is nil")
	}
	out := BatchAnalysis{
		Individual:         []JournalAnalysis{},
		CrossEntryPatterns: []CrossEntryPattern{},
		BeliefEvolution:    []BeliefEvolution{},
	}
	if len(entries) == 0 {
		return out, nil
	}

	results := make([]JournalAnalysis, len(entries))
	errs := make([]error, len(entries))
	var g errgroup.Group
	g.SetLimit(a.opts.Concurrency)
	for i := range entries {
		g.Go(func() error {
			results[i], errs[i] = a.Analyze(ctx, entries[i], AnalysisContext{})
			return nil
		})
	}
	_ = g.Wait()

	var ok []JournalEntry
	var failures []error
	for i := range entries {
		if errs[i] != nil {
			out.Errors = append(out.Errors, EntryError{EntryID: entries[i].ID, Err: errs[i].Error()})
			failures = append(failures, errs[i])
			continue
		}
		out.Individual = append(out.Individual, results[i])
		ok = append(ok, entries[i])
	}
	if len(out.Individual) == 0 {
		return out, fmt.Errorf("AnalyzeBatch: all %d entries failed: %w", len(entries), errors.Join(failures...))
	}
	if len(out.Individual) < 2 {
		return out, nil
	}

	patterns, evolution, err := a.crossEntryPatterns(ctx, ok, out.Individual)
	if err != nil {
		a.opts.Logger.Warn("cross-entry patterns failed", zap.Error(err))
		out.PatternsError = err.Error()
		return out, nil
	}
	out.CrossEntryPatterns = patterns
	out.BeliefEvolution = evolution
	return out, nil
}

func (a *JournalAnalyzer) crossEntryPatterns(ctx context.Context, entries []JournalEntry, analyses []JournalAnalysis) ([]CrossEntryPattern, []BeliefEvolution, error) {
	digests := make([]entryDigest, 0, len(analyses))
	for i, an := range analyses {
		d := entryDigest{
			EntryID:          an.EntryID,
			TimeOfDay:        entries[i].TimeOfDay,
			DominantEmotions: an.DominantEmotions,
			KeyBeliefs:       make([]string, 0, len(an.BeliefStatements)),
			MarketSignals:    make([]string, 0, len(an.MarketSignals)),
		}
		for _, b := range an.BeliefStatements {
			d.KeyBeliefs = append(d.KeyBeliefs, b.Statement)
		}
		for _, s := range an.MarketSignals {
			d.MarketSignals = append(d.MarketSignals, s.Observation)
		}
		digests = append(digests, d)
	}
	payload, err := json.Marshal(struct {
		Entries []entryDigest `json:"entries"`
	}{digests})
	if err != nil {
		return nil, nil, err
	}

	var raw crossEntryWire
	err = provider.Decode(ctx, a.gw, provider.Request{
		Name:         "CrossEntryPatterns",
		Instructions: crossEntryPatternsPrompt,
		Input:        string(payload),
		Schema:       crossEntrySchema,
		Temperature:  0.6,
	}, &raw)
	if err != nil {
		return nil, nil, err
	}

	patterns := make([]CrossEntryPattern, 0, len(raw.CrossEntryPatterns))
	for _, p := range raw.CrossEntryPatterns {
		patterns = append(patterns, CrossEntryPattern{
			PatternType:      coerce(p.PatternType, PatternRecurringTheme),
			Description:      p.Description,
			EntriesInvolved:  cleanStrings(p.EntriesInvolved),
			Significance:     score(p.Significance, neutralScore),
			ContentPotential: score(p.ContentPotential, neutralScore),
			MarketRelevance:  score(p.MarketRelevance, neutralScore),
		})
	}
	evolution := make([]BeliefEvolution, 0, len(raw.BeliefEvolution))
	for _, b := range raw.BeliefEvolution {
		evolution = append(evolution, BeliefEvolution{
			Belief:             b.Belief,
			StartingConfidence: score(b.StartingConfidence, neutralScore),
			CurrentConfidence:  score(b.CurrentConfidence, neutralScore),
			Direction:          coerce(b.Direction, TrendStable),
			Triggers:           cleanStrings(b.Triggers),
		})
	}
	return patterns, evolution, nil
}

type transcriptWire struct {
	CleanedTranscript string `json:"cleaned_transcript"`
	EmotionalMarkers  []struct {
		TimestampOffset *float64 `json:"timestamp_offset"`
		Emotion         string   `json:"emotion"`
		Intensity       *float64 `json:"intensity"`
		Trigger         string   `json:"trigger"`
		Authenticity    *float64 `json:"authenticity"`
	} `json:"emotional_markers"`
	Speakers []string `json:"speakers"`
}

var transcriptSchema = provider.GenerateSchema[transcriptWire]()

// CleanTranscript tidies raw speech-to-text output. With cleanUp false the text is
// returned as-is without a generation call.
func (a *JournalAnalyzer) CleanTranscript(ctx context.Context, rawText string, cleanUp bool) (Transcript, error) {
	if !cleanUp {
		return Transcript{
			CleanedTranscript: rawText,
			DetectedEmotions:  []EmotionalMarker{},
			DetectedSpeakers:  []string{"SPEAKER_1"},
		}, nil
	}
	if ctx == nil {
		return Transcript{}, errors.New("CleanTranscript: ctx is nil")
	}

	var raw transcriptWire
	err := provider.Decode(ctx, a.gw, provider.Request{
		Name:         "CleanTranscript",
		Instructions: transcriptCleanupPrompt,
		Input:        rawText,
		Schema:       transcriptSchema,
		Temperature:  0.3,
	}, &raw)
	if err != nil {
		return Transcript{}, err
	}

	out := Transcript{
		CleanedTranscript: text(raw.CleanedTranscript, rawText),
		DetectedEmotions:  make([]EmotionalMarker, 0, len(raw.EmotionalMarkers)),
		DetectedSpeakers:  cleanStrings(raw.Speakers),
	}
	if len(out.DetectedSpeakers) == 0 {
		out.DetectedSpeakers = []string{"SPEAKER_1"}
	}
	for _, m := range raw.EmotionalMarkers {
		e, ok := ParseEnum[Emotion](m.Emotion)
		if !ok {
			continue
		}
		out.DetectedEmotions = append(out.DetectedEmotions, EmotionalMarker{
			TimestampOffset: number(m.TimestampOffset, 0),
			Emotion:         e,
			Intensity:       score(m.Intensity, neutralScore),
			Trigger:         m.Trigger,
			Authenticity:    score(m.Authenticity, neutralScore),
		})
	}
	return out, nil
}

type quickSignalsWire struct {
	Signals []marketSignalWire `json:"signals"`
}

var quickSignalsSchema = provider.GenerateSchema[quickSignalsWire]()

// ExtractSignalsQuick is the signals-only fast path.
func (a *JournalAnalyzer) ExtractSignalsQuick(ctx context.Context, text string, marketContext []string) ([]MarketSignal, error) {
	if ctx == nil {
		return nil, errors.New("ExtractSignalsQuick: ctx is nil")
	}
	payload, err := json.Marshal(struct {
		Text              string   `json:"text"`
		MarketsOfInterest []string `json:"markets_of_interest,omitempty"`
	}{text, marketContext})
	if err != nil {
		return nil, err
	}

	var raw quickSignalsWire
	err = provider.Decode(ctx, a.gw, provider.Request{
		Name:         "QuickSignals",
		Instructions: quickSignalsPrompt,
		Input:        string(payload),
		Schema:       quickSignalsSchema,
		Temperature:  0.5,
	}, &raw)
	if err != nil {
		return nil, err
	}

	stamp := a.opts.Now().UnixMilli()
	out := make([]MarketSignal, 0, len(raw.Signals))
	for i, s := range raw.Signals {
		out = append(out, shapeSignal(fmt.Sprintf("quick-signal-%d-%d", stamp, i), s))
	}
	return out, nil
}
