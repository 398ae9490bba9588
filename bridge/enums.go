package bridge

import "strings"

// PrimaryArchetype is a psychological role template.
type PrimaryArchetype string

const (
	ArchetypeHero              PrimaryArchetype = "HERO"
	ArchetypeShadow            PrimaryArchetype = "SHADOW"
	ArchetypeMentor            PrimaryArchetype = "MENTOR"
	ArchetypeHerald            PrimaryArchetype = "HERALD"
	ArchetypeThresholdGuardian PrimaryArchetype = "THRESHOLD_GUARDIAN"
	ArchetypeShapeshifter      PrimaryArchetype = "SHAPESHIFTER"
	ArchetypeTrickster         PrimaryArchetype = "TRICKSTER"
	ArchetypeAlly              PrimaryArchetype = "ALLY"
	ArchetypeMother            PrimaryArchetype = "MOTHER"
	ArchetypeFather            PrimaryArchetype = "FATHER"
	ArchetypeChild             PrimaryArchetype = "CHILD"
	ArchetypeSelf              PrimaryArchetype = "SELF"
)

func (v PrimaryArchetype) Valid() bool {
	switch v {
	case ArchetypeHero, ArchetypeShadow, ArchetypeMentor, ArchetypeHerald, ArchetypeThresholdGuardian,
		ArchetypeShapeshifter, ArchetypeTrickster, ArchetypeAlly, ArchetypeMother, ArchetypeFather,
		ArchetypeChild, ArchetypeSelf:
		return true
	}
	return false
}

// MarketArchetype frames how a position is reasoned about.
type MarketArchetype string

const (
	MarketOracle      MarketArchetype = "ORACLE"
	MarketContrarian  MarketArchetype = "CONTRARIAN"
	MarketMomentum    MarketArchetype = "MOMENTUM"
	MarketValue       MarketArchetype = "VALUE"
	MarketArbitrageur MarketArchetype = "ARBITRAGEUR"
	MarketNarrative   MarketArchetype = "NARRATIVE"
	MarketQuant       MarketArchetype = "QUANT"
	MarketWhale       MarketArchetype = "WHALE"
	MarketDegen       MarketArchetype = "DEGEN"
	MarketSage        MarketArchetype = "SAGE"
)

func (v MarketArchetype) Valid() bool {
	switch v {
	case MarketOracle, MarketContrarian, MarketMomentum, MarketValue, MarketArbitrageur,
		MarketNarrative, MarketQuant, MarketWhale, MarketDegen, MarketSage:
		return true
	}
	return false
}

// ContentArchetype frames how a brief is written.
type ContentArchetype string

const (
	ContentStoryteller     ContentArchetype = "STORYTELLER"
	ContentTeacher         ContentArchetype = "TEACHER"
	ContentEntertainer     ContentArchetype = "ENTERTAINER"
	ContentProvocateur     ContentArchetype = "PROVOCATEUR"
	ContentCurator         ContentArchetype = "CURATOR"
	ContentConfessionalist ContentArchetype = "CONFESSIONALIST"
	ContentAnalyst         ContentArchetype = "ANALYST"
	ContentVisionary       ContentArchetype = "VISIONARY"
)

func (v ContentArchetype) Valid() bool {
	switch v {
	case ContentStoryteller, ContentTeacher, ContentEntertainer, ContentProvocateur, ContentCurator,
		ContentConfessionalist, ContentAnalyst, ContentVisionary:
		return true
	}
	return false
}

type InputType string

const (
	InputVideo         InputType = "VIDEO"
	InputAudio         InputType = "AUDIO"
	InputText          InputType = "TEXT"
	InputScreenCapture InputType = "SCREEN_CAPTURE"
	InputMixed         InputType = "MIXED"
)

func (v InputType) Valid() bool {
	switch v {
	case InputVideo, InputAudio, InputText, InputScreenCapture, InputMixed:
		return true
	}
	return false
}

type TimeOfDay string

const (
	Morning   TimeOfDay = "MORNING"
	Afternoon TimeOfDay = "AFTERNOON"
	Evening   TimeOfDay = "EVENING"
	Night     TimeOfDay = "NIGHT"
)

func (v TimeOfDay) Valid() bool {
	switch v {
	case Morning, Afternoon, Evening, Night:
		return true
	}
	return false
}

// ContentPermission controls how far an entry may be redistributed.
type ContentPermission string

const (
	PermissionFull         ContentPermission = "FULL"
	PermissionAnonymized   ContentPermission = "ANONYMIZED"
	PermissionInsightsOnly ContentPermission = "INSIGHTS_ONLY"
	PermissionPrivate      ContentPermission = "PRIVATE"
)

func (v ContentPermission) Valid() bool {
	switch v {
	case PermissionFull, PermissionAnonymized, PermissionInsightsOnly, PermissionPrivate:
		return true
	}
	return false
}

type Emotion string

const (
	EmotionJoy          Emotion = "JOY"
	EmotionSadness      Emotion = "SADNESS"
	EmotionAnger        Emotion = "ANGER"
	EmotionFear         Emotion = "FEAR"
	EmotionDisgust      Emotion = "DISGUST"
	EmotionSurprise     Emotion = "SURPRISE"
	EmotionAnticipation Emotion = "ANTICIPATION"
	EmotionTrust        Emotion = "TRUST"
	EmotionShame        Emotion = "SHAME"
	EmotionGuilt        Emotion = "GUILT"
	EmotionEnvy         Emotion = "ENVY"
	EmotionJealousy     Emotion = "JEALOUSY"
	EmotionLove         Emotion = "LOVE"
	EmotionGrief        Emotion = "GRIEF"
	EmotionHope         Emotion = "HOPE"
	EmotionDespair      Emotion = "DESPAIR"
	EmotionContempt     Emotion = "CONTEMPT"
	EmotionAwe          Emotion = "AWE"
	EmotionExcitement   Emotion = "EXCITEMENT"
	EmotionAnxiety      Emotion = "ANXIETY"
	EmotionConfidence   Emotion = "CONFIDENCE"
	EmotionDoubt        Emotion = "DOUBT"
	EmotionFrustration  Emotion = "FRUSTRATION"
)

func (v Emotion) Valid() bool {
	switch v {
	case EmotionJoy, EmotionSadness, EmotionAnger, EmotionFear, EmotionDisgust, EmotionSurprise,
		EmotionAnticipation, EmotionTrust, EmotionShame, EmotionGuilt, EmotionEnvy, EmotionJealousy,
		EmotionLove, EmotionGrief, EmotionHope, EmotionDespair, EmotionContempt, EmotionAwe,
		EmotionExcitement, EmotionAnxiety, EmotionConfidence, EmotionDoubt, EmotionFrustration:
		return true
	}
	return false
}

type DefenseMechanism string

const (
	DefenseProjection          DefenseMechanism = "PROJECTION"
	DefenseDenial              DefenseMechanism = "DENIAL"
	DefenseRationalization     DefenseMechanism = "RATIONALIZATION"
	DefenseDisplacement        DefenseMechanism = "DISPLACEMENT"
	DefenseSublimation         DefenseMechanism = "SUBLIMATION"
	DefenseRepression          DefenseMechanism = "REPRESSION"
	DefenseReactionFormation   DefenseMechanism = "REACTION_FORMATION"
	DefenseRegression          DefenseMechanism = "REGRESSION"
	DefenseIntellectualization DefenseMechanism = "INTELLECTUALIZATION"
)

func (v DefenseMechanism) Valid() bool {
	switch v {
	case DefenseProjection, DefenseDenial, DefenseRationalization, DefenseDisplacement,
		DefenseSublimation, DefenseRepression, DefenseReactionFormation, DefenseRegression,
		DefenseIntellectualization:
		return true
	}
	return false
}

type InsightType string

const (
	InsightPersonalGrowth    InsightType = "PERSONAL_GROWTH"
	InsightMarketObservation InsightType = "MARKET_OBSERVATION"
	InsightSocialTrend       InsightType = "SOCIAL_TREND"
	InsightPrediction        InsightType = "PREDICTION"
	InsightLessonLearned     InsightType = "LESSON_LEARNED"
	InsightQuestion          InsightType = "QUESTION"
)

func (v InsightType) Valid() bool {
	switch v {
	case InsightPersonalGrowth, InsightMarketObservation, InsightSocialTrend, InsightPrediction,
		InsightLessonLearned, InsightQuestion:
		return true
	}
	return false
}

type StoryArc string

const (
	ArcStruggle       StoryArc = "STRUGGLE"
	ArcVictory        StoryArc = "VICTORY"
	ArcLearning       StoryArc = "LEARNING"
	ArcQuestion       StoryArc = "QUESTION"
	ArcTransformation StoryArc = "TRANSFORMATION"
	ArcWarning        StoryArc = "WARNING"
)

func (v StoryArc) Valid() bool {
	switch v {
	case ArcStruggle, ArcVictory, ArcLearning, ArcQuestion, ArcTransformation, ArcWarning:
		return true
	}
	return false
}

type BeliefType string

const (
	BeliefAboutSelf    BeliefType = "ABOUT_SELF"
	BeliefAboutWorld   BeliefType = "ABOUT_WORLD"
	BeliefAboutMarkets BeliefType = "ABOUT_MARKETS"
	BeliefAboutOthers  BeliefType = "ABOUT_OTHERS"
	BeliefAboutFuture  BeliefType = "ABOUT_FUTURE"
)

func (v BeliefType) Valid() bool {
	switch v {
	case BeliefAboutSelf, BeliefAboutWorld, BeliefAboutMarkets, BeliefAboutOthers, BeliefAboutFuture:
		return true
	}
	return false
}

type CognitivePatternType string

const (
	DistortionAllOrNothing       CognitivePatternType = "ALL_OR_NOTHING"
	DistortionCatastrophizing    CognitivePatternType = "CATASTROPHIZING"
	DistortionMindReading        CognitivePatternType = "MIND_READING"
	DistortionFortuneTelling     CognitivePatternType = "FORTUNE_TELLING"
	DistortionEmotionalReasoning CognitivePatternType = "EMOTIONAL_REASONING"
	DistortionShouldStatements   CognitivePatternType = "SHOULD_STATEMENTS"
	DistortionLabeling           CognitivePatternType = "LABELING"
	DistortionPersonalization    CognitivePatternType = "PERSONALIZATION"
)

func (v CognitivePatternType) Valid() bool {
	switch v {
	case DistortionAllOrNothing, DistortionCatastrophizing, DistortionMindReading,
		DistortionFortuneTelling, DistortionEmotionalReasoning, DistortionShouldStatements,
		DistortionLabeling, DistortionPersonalization:
		return true
	}
	return false
}

type HookMomentType string

const (
	MomentSurprisingStatement HookMomentType = "SURPRISING_STATEMENT"
	MomentEmotionalPeak       HookMomentType = "EMOTIONAL_PEAK"
	MomentQuestion            HookMomentType = "QUESTION"
	MomentConflict            HookMomentType = "CONFLICT"
	MomentRevelation          HookMomentType = "REVELATION"
	MomentHumor               HookMomentType = "HUMOR"
)

func (v HookMomentType) Valid() bool {
	switch v {
	case MomentSurprisingStatement, MomentEmotionalPeak, MomentQuestion, MomentConflict,
		MomentRevelation, MomentHumor:
		return true
	}
	return false
}

type HookType string

const (
	HookQuestion         HookType = "QUESTION"
	HookBoldClaim        HookType = "BOLD_CLAIM"
	HookStoryOpening     HookType = "STORY_OPENING"
	HookPatternInterrupt HookType = "PATTERN_INTERRUPT"
	HookEmotionalHit     HookType = "EMOTIONAL_HIT"
)

func (v HookType) Valid() bool {
	switch v {
	case HookQuestion, HookBoldClaim, HookStoryOpening, HookPatternInterrupt, HookEmotionalHit:
		return true
	}
	return false
}

type NarrativeFormat string

const (
	FormatStory      NarrativeFormat = "STORY"
	FormatLesson     NarrativeFormat = "LESSON"
	FormatRant       NarrativeFormat = "RANT"
	FormatBreakdown  NarrativeFormat = "BREAKDOWN"
	FormatReaction   NarrativeFormat = "REACTION"
	FormatConfession NarrativeFormat = "CONFESSION"
	FormatPrediction NarrativeFormat = "PREDICTION"
)

func (v NarrativeFormat) Valid() bool {
	switch v {
	case FormatStory, FormatLesson, FormatRant, FormatBreakdown, FormatReaction, FormatConfession,
		FormatPrediction:
		return true
	}
	return false
}

type Pacing string

const (
	PacingFast     Pacing = "FAST"
	PacingMedium   Pacing = "MEDIUM"
	PacingSlow     Pacing = "SLOW"
	PacingVariable Pacing = "VARIABLE"
)

func (v Pacing) Valid() bool {
	switch v {
	case PacingFast, PacingMedium, PacingSlow, PacingVariable:
		return true
	}
	return false
}

type BeatPurpose string

const (
	PurposeHook       BeatPurpose = "HOOK"
	PurposeContext    BeatPurpose = "CONTEXT"
	PurposeEscalation BeatPurpose = "ESCALATION"
	PurposePeak       BeatPurpose = "PEAK"
	PurposeResolution BeatPurpose = "RESOLUTION"
	PurposeCta        BeatPurpose = "CTA"
)

func (v BeatPurpose) Valid() bool {
	switch v {
	case PurposeHook, PurposeContext, PurposeEscalation, PurposePeak, PurposeResolution, PurposeCta:
		return true
	}
	return false
}

type VisualStyle string

const (
	VisualTalkingHead VisualStyle = "TALKING_HEAD"
	VisualBRoll       VisualStyle = "B_ROLL"
	VisualScreenShare VisualStyle = "SCREEN_SHARE"
	VisualTextOverlay VisualStyle = "TEXT_OVERLAY"
	VisualMixed       VisualStyle = "MIXED"
)

func (v VisualStyle) Valid() bool {
	switch v {
	case VisualTalkingHead, VisualBRoll, VisualScreenShare, VisualTextOverlay, VisualMixed:
		return true
	}
	return false
}

type EnergyLevel string

const (
	EnergyHigh   EnergyLevel = "HIGH"
	EnergyMedium EnergyLevel = "MEDIUM"
	EnergyLow    EnergyLevel = "LOW"
)

func (v EnergyLevel) Valid() bool {
	switch v {
	case EnergyHigh, EnergyMedium, EnergyLow:
		return true
	}
	return false
}

type OverlayStyle string

const (
	OverlayTitle    OverlayStyle = "TITLE"
	OverlaySubtitle OverlayStyle = "SUBTITLE"
	OverlayCallout  OverlayStyle = "CALLOUT"
	OverlayStat     OverlayStyle = "STAT"
	OverlayQuote    OverlayStyle = "QUOTE"
)

func (v OverlayStyle) Valid() bool {
	switch v {
	case OverlayTitle, OverlaySubtitle, OverlayCallout, OverlayStat, OverlayQuote:
		return true
	}
	return false
}

type OverlayPosition string

const (
	PositionTop    OverlayPosition = "TOP"
	PositionCenter OverlayPosition = "CENTER"
	PositionBottom OverlayPosition = "BOTTOM"
)

func (v OverlayPosition) Valid() bool {
	switch v {
	case PositionTop, PositionCenter, PositionBottom:
		return true
	}
	return false
}

type AttentionSpan string

const (
	AttentionShort  AttentionSpan = "SHORT"
	AttentionMedium AttentionSpan = "MEDIUM"
	AttentionLong   AttentionSpan = "LONG"
)

func (v AttentionSpan) Valid() bool {
	switch v {
	case AttentionShort, AttentionMedium, AttentionLong:
		return true
	}
	return false
}

// Platform is a short-form video destination.
type Platform string

const (
	PlatformYoutubeShorts  Platform = "YOUTUBE_SHORTS"
	PlatformTiktok         Platform = "TIKTOK"
	PlatformInstagramReels Platform = "INSTAGRAM_REELS"
	PlatformXVideo         Platform = "X_VIDEO"
)

func (v Platform) Valid() bool {
	switch v {
	case PlatformYoutubeShorts, PlatformTiktok, PlatformInstagramReels, PlatformXVideo:
		return true
	}
	return false
}

type SignalType string

const (
	SignalSentiment  SignalType = "SENTIMENT"
	SignalBehavioral SignalType = "BEHAVIORAL"
	SignalNarrative  SignalType = "NARRATIVE"
	SignalContrarian SignalType = "CONTRARIAN"
	SignalMomentum   SignalType = "MOMENTUM"
	SignalStructural SignalType = "STRUCTURAL"
)

func (v SignalType) Valid() bool {
	switch v {
	case SignalSentiment, SignalBehavioral, SignalNarrative, SignalContrarian, SignalMomentum,
		SignalStructural:
		return true
	}
	return false
}

type SignalSource string

const (
	SourceJournal        SignalSource = "JOURNAL"
	SourceMarketData     SignalSource = "MARKET_DATA"
	SourceSocial         SignalSource = "SOCIAL"
	SourceNews           SignalSource = "NEWS"
	SourceCrossReference SignalSource = "CROSS_REFERENCE"
)

func (v SignalSource) Valid() bool {
	switch v {
	case SourceJournal, SourceMarketData, SourceSocial, SourceNews, SourceCrossReference:
		return true
	}
	return false
}

type TimeSensitivity string

const (
	SensitivityImmediate TimeSensitivity = "IMMEDIATE"
	SensitivityDays      TimeSensitivity = "DAYS"
	SensitivityWeeks     TimeSensitivity = "WEEKS"
	SensitivityMonths    TimeSensitivity = "MONTHS"
)

func (v TimeSensitivity) Valid() bool {
	switch v {
	case SensitivityImmediate, SensitivityDays, SensitivityWeeks, SensitivityMonths:
		return true
	}
	return false
}

// MarketPlatform is where a prediction market is listed.
type MarketPlatform string

const (
	VenuePolymarket MarketPlatform = "POLYMARKET"
	VenueManifold   MarketPlatform = "MANIFOLD"
	VenueMetaculus  MarketPlatform = "METACULUS"
	VenueKalshi     MarketPlatform = "KALSHI"
	VenuePredictit  MarketPlatform = "PREDICTIT"
	VenueCustom     MarketPlatform = "CUSTOM"
)

func (v MarketPlatform) Valid() bool {
	switch v {
	case VenuePolymarket, VenueManifold, VenueMetaculus, VenueKalshi, VenuePredictit, VenueCustom:
		return true
	}
	return false
}

type Direction string

const (
	DirectionYes     Direction = "YES"
	DirectionNo      Direction = "NO"
	DirectionAbstain Direction = "ABSTAIN"
)

func (v Direction) Valid() bool {
	switch v {
	case DirectionYes, DirectionNo, DirectionAbstain:
		return true
	}
	return false
}

type SizeTier string

const (
	SizeSkip   SizeTier = "SKIP"
	SizeSmall  SizeTier = "SMALL"
	SizeMedium SizeTier = "MEDIUM"
	SizeLarge  SizeTier = "LARGE"
	SizeMax    SizeTier = "MAX"
)

func (v SizeTier) Valid() bool {
	switch v {
	case SizeSkip, SizeSmall, SizeMedium, SizeLarge, SizeMax:
		return true
	}
	return false
}

type EdgeSource string

const (
	EdgeInformation EdgeSource = "INFORMATION"
	EdgeTiming      EdgeSource = "TIMING"
	EdgePsychology  EdgeSource = "PSYCHOLOGY"
	EdgeStructural  EdgeSource = "STRUCTURAL"
	EdgeNarrative   EdgeSource = "NARRATIVE"
)

func (v EdgeSource) Valid() bool {
	switch v {
	case EdgeInformation, EdgeTiming, EdgePsychology, EdgeStructural, EdgeNarrative:
		return true
	}
	return false
}

// Recommendation is the verdict of an adversarial challenge.
type Recommendation string

const (
	RecommendProceed    Recommendation = "PROCEED"
	RecommendReduceSize Recommendation = "REDUCE_SIZE"
	RecommendWait       Recommendation = "WAIT"
	RecommendReverse    Recommendation = "REVERSE"
	RecommendSkip       Recommendation = "SKIP"
)

func (v Recommendation) Valid() bool {
	switch v {
	case RecommendProceed, RecommendReduceSize, RecommendWait, RecommendReverse, RecommendSkip:
		return true
	}
	return false
}

type Outcome string

const (
	OutcomeWin       Outcome = "WIN"
	OutcomeLose      Outcome = "LOSE"
	OutcomeBreakeven Outcome = "BREAKEVEN"
)

func (v Outcome) Valid() bool {
	switch v {
	case OutcomeWin, OutcomeLose, OutcomeBreakeven:
		return true
	}
	return false
}

type BiasType string

const (
	BiasConfirmation     BiasType = "CONFIRMATION"
	BiasRecency          BiasType = "RECENCY"
	BiasAnchoring        BiasType = "ANCHORING"
	BiasOverconfidence   BiasType = "OVERCONFIDENCE"
	BiasAvailability     BiasType = "AVAILABILITY"
	BiasNarrativeFallacy BiasType = "NARRATIVE_FALLACY"
	BiasSunkCost         BiasType = "SUNK_COST"
	BiasBandwagon        BiasType = "BANDWAGON"
	BiasHindsight        BiasType = "HINDSIGHT"
)

func (v BiasType) Valid() bool {
	switch v {
	case BiasConfirmation, BiasRecency, BiasAnchoring, BiasOverconfidence, BiasAvailability,
		BiasNarrativeFallacy, BiasSunkCost, BiasBandwagon, BiasHindsight:
		return true
	}
	return false
}

type AuthenticityVerdict string

const (
	VerdictPublish AuthenticityVerdict = "PUBLISH"
	VerdictRevise  AuthenticityVerdict = "REVISE"
	VerdictRethink AuthenticityVerdict = "RETHINK"
)

func (v AuthenticityVerdict) Valid() bool {
	switch v {
	case VerdictPublish, VerdictRevise, VerdictRethink:
		return true
	}
	return false
}

// PatternType classifies a pattern that spans several entries.
type PatternType string

const (
	PatternRecurringTheme PatternType = "RECURRING_THEME"
	PatternEmotionalCycle PatternType = "EMOTIONAL_CYCLE"
	PatternBeliefShift    PatternType = "BELIEF_SHIFT"
	PatternNarrativeArc   PatternType = "NARRATIVE_ARC"
)

func (v PatternType) Valid() bool {
	switch v {
	case PatternRecurringTheme, PatternEmotionalCycle, PatternBeliefShift, PatternNarrativeArc:
		return true
	}
	return false
}

type BeliefDirection string

const (
	TrendStrengthening BeliefDirection = "STRENGTHENING"
	TrendWeakening     BeliefDirection = "WEAKENING"
	TrendStable        BeliefDirection = "STABLE"
	TrendVolatile      BeliefDirection = "VOLATILE"
)

func (v BeliefDirection) Valid() bool {
	switch v {
	case TrendStrengthening, TrendWeakening, TrendStable, TrendVolatile:
		return true
	}
	return false
}

// Mode selects which branches of the pipeline run.
type Mode string

const (
	ModeJournalToContent    Mode = "JOURNAL_TO_CONTENT"
	ModeJournalToPrediction Mode = "JOURNAL_TO_PREDICTION"
	ModeBridgeMode          Mode = "BRIDGE_MODE"
	ModeNarrativeMode       Mode = "NARRATIVE_MODE"
)

func (v Mode) Valid() bool {
	switch v {
	case ModeJournalToContent, ModeJournalToPrediction, ModeBridgeMode, ModeNarrativeMode:
		return true
	}
	return false
}

type RiskTolerance string

const (
	RiskConservative RiskTolerance = "CONSERVATIVE"
	RiskModerate     RiskTolerance = "MODERATE"
	RiskAggressive   RiskTolerance = "AGGRESSIVE"
	RiskDegen        RiskTolerance = "DEGEN"
)

func (v RiskTolerance) Valid() bool {
	switch v {
	case RiskConservative, RiskModerate, RiskAggressive, RiskDegen:
		return true
	}
	return false
}

type AnonymizationLevel string

const (
	AnonymizeNone  AnonymizationLevel = "NONE"
	AnonymizeLight AnonymizationLevel = "LIGHT"
	AnonymizeHeavy AnonymizationLevel = "HEAVY"
	AnonymizeFull  AnonymizationLevel = "FULL"
)

func (v AnonymizationLevel) Valid() bool {
	switch v {
	case AnonymizeNone, AnonymizeLight, AnonymizeHeavy, AnonymizeFull:
		return true
	}
	return false
}

type VocabularyLevel string

const (
	VocabularyCasual        VocabularyLevel = "CASUAL"
	VocabularyAccessible    VocabularyLevel = "ACCESSIBLE"
	VocabularySophisticated VocabularyLevel = "SOPHISTICATED"
	VocabularyTechnical     VocabularyLevel = "TECHNICAL"
)

func (v VocabularyLevel) Valid() bool {
	switch v {
	case VocabularyCasual, VocabularyAccessible, VocabularySophisticated, VocabularyTechnical:
		return true
	}
	return false
}

type AspectRatio string

const (
	AspectVertical   AspectRatio = "9:16"
	AspectHorizontal AspectRatio = "16:9"
	AspectSquare     AspectRatio = "1:1"
)

func (v AspectRatio) Valid() bool {
	switch v {
	case AspectVertical, AspectHorizontal, AspectSquare:
		return true
	}
	return false
}

type enum interface {
	~string
	Valid() bool
}

// coerce normalises a model-supplied tag and falls back to def when it is not a known variant.
func coerce[E enum](raw string, def E) E {
	e := E(strings.ToUpper(strings.TrimSpace(raw)))
	if e.Valid() {
		return e
	}
	return def
}

// coerceList keeps the known variants of raw in order and drops the rest.
func coerceList[E enum](raw []string) []E {
	out := make([]E, 0, len(raw))
	for _, r := range raw {
		e := E(strings.ToUpper(strings.TrimSpace(r)))
		if e.Valid() {
			out = append(out, e)
		}
	}
	return out
}

// ParseEnum is coerce for callers outside the package, such as flag parsing.
func ParseEnum[E enum](raw string) (E, bool) {
	e := E(strings.ToUpper(strings.TrimSpace(raw)))
	return e, e.Valid()
}
