package bridge

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestTimeOfDayForHour(t *testing.T) {
	t.Parallel()

	for h := 0; h < 24; h++ {
		var want TimeOfDay
		switch {
		case h >= 5 && h < 12:
			want = Morning
		case h >= 12 && h < 17:
			want = Afternoon
		case h >= 17 && h < 21:
			want = Evening
		default:
			want = Night
		}
		if got := TimeOfDayForHour(h); got != want {
			t.Fatalf("hour=%d got=%s want=%s", h, got, want)
		}
	}
}

func TestNewJournalEntryRejectsEmpty(t *testing.T) {
	t.Parallel()

	if _, err := NewJournalEntry("  \n ", EntryOptions{}); err == nil {
		t.Fatalf("expected error for blank content")
	}
	e, err := NewJournalEntry(" hello ", EntryOptions{InputType: "NOPE"})
	if err != nil {
		t.Fatalf("NewJournalEntry: %v", err)
	}
	if e.SpokenContent != "hello" || e.InputType != InputText || e.ContentPermission != PermissionFull {
		t.Fatalf("entry=%+v", e)
	}
	if e.EnergyLevel != 0.5 {
		t.Fatalf("energy=%v", e.EnergyLevel)
	}
}

func TestAdmitPosition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		dir  Direction
		conv float64
		want bool
	}{
		{DirectionYes, 0.3, false},
		{DirectionYes, 0.30001, true},
		{DirectionNo, 0.9, true},
		{DirectionAbstain, 0.9, false},
		{DirectionYes, 0, false},
	}
	for _, tc := range cases {
		got := AdmitPosition(MarketPosition{Direction: tc.dir, Conviction: tc.conv}, AdmissionThreshold)
		if got != tc.want {
			t.Fatalf("dir=%s conv=%v got=%v", tc.dir, tc.conv, got)
		}
	}
}

func TestShapeAnalysisDefaults(t *testing.T) {
	t.Parallel()

	raw := analysisWire{
		KeyInsights:      []insightWire{{Content: "x", InsightType: "bogus"}},
		BeliefStatements: []beliefWire{{Statement: "b", ConfidenceExpressed: ptr(0.8)}},
		DominantEmotions: []string{"JOY", "NOT_AN_EMOTION", "FEAR"},
		MarketSignals: []marketSignalWire{
			{Observation: "o", SignalStrength: ptr(0.8)},
			{Observation: "p", SignalStrength: ptr(1.7)},
			{Observation: "q"},
		},
		HookMoments: []hookMomentWire{{Content: "h"}},
	}
	got := shapeAnalysis("e1", raw)

	if got.KeyInsights[0].InsightType != InsightPersonalGrowth || got.KeyInsights[0].Confidence != 0.5 {
		t.Fatalf("insight=%+v", got.KeyInsights[0])
	}
	if got.KeyInsights[0].ID != "insight-e1-0" {
		t.Fatalf("insight id=%q", got.KeyInsights[0].ID)
	}
	if diff := cmp.Diff([]Emotion{EmotionJoy, EmotionFear}, got.DominantEmotions); diff != "" {
		t.Fatalf("emotions (-want +got):\n%s", diff)
	}
	b := got.BeliefStatements[0]
	if b.BeliefType != BeliefAboutSelf || b.ActualConfidence != 0.8 || b.Testable || b.MarketRelevant {
		t.Fatalf("belief=%+v", b)
	}
	for _, s := range got.MarketSignals {
		if math.Abs(s.NoiseRatio-(1-s.SignalStrength)) > 1e-12 {
			t.Fatalf("signal %s strength=%v noise=%v", s.ID, s.SignalStrength, s.NoiseRatio)
		}
		if s.Source != SourceJournal || s.TimeSensitivity != SensitivityWeeks {
			t.Fatalf("signal=%+v", s)
		}
	}
	if got.MarketSignals[1].SignalStrength != 1 || got.MarketSignals[2].SignalStrength != 0.5 {
		t.Fatalf("strengths=%v,%v", got.MarketSignals[1].SignalStrength, got.MarketSignals[2].SignalStrength)
	}
	if got.HookMoments[0].ControversyRisk != 0 || got.HookMoments[0].HookType != MomentSurprisingStatement {
		t.Fatalf("hook=%+v", got.HookMoments[0])
	}
	if got.VisualHighlights == nil || got.ContrarianIndicators == nil || got.SentimentShifts == nil {
		t.Fatalf("expected empty non-nil lists")
	}

	again := shapeAnalysis("e1", raw)
	if diff := cmp.Diff(got, again); diff != "" {
		t.Fatalf("shapeAnalysis not deterministic (-first +second):\n%s", diff)
	}
}

func TestEngagementRate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name                    string
		hook, retention, direct *float64
		want                    float64
	}{
		{"none", nil, nil, nil, 0.3},
		{"both", ptr(0.8), ptr(0.4), nil, 0.6},
		{"hook only", ptr(0.7), nil, nil, 0.7},
		{"retention only", nil, ptr(0.2), nil, 0.2},
		{"direct wins", ptr(0.8), ptr(0.4), ptr(0.05), 0.05},
		{"clamped", ptr(2.0), ptr(-1.0), nil, 0.5},
	}
	for _, tc := range cases {
		if got := engagementRate(tc.hook, tc.retention, tc.direct); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("%s: got=%v want=%v", tc.name, got, tc.want)
		}
	}
}

func TestBuildBeats(t *testing.T) {
	t.Parallel()

	if got := buildBeats(nil, 45, EmotionJoy); len(got) != 0 {
		t.Fatalf("beats=%v", got)
	}
	one := buildBeats([]string{"a"}, 45, EmotionJoy)
	if len(one) != 1 || one[0].Purpose != PurposeContext || one[0].DurationSeconds != 45 {
		t.Fatalf("one=%+v", one)
	}
	four := buildBeats([]string{"a", "b", "c", "d"}, 40, EmotionHope)
	want := []BeatPurpose{PurposeContext, PurposeEscalation, PurposeEscalation, PurposeResolution}
	for i, b := range four {
		if b.Purpose != want[i] || b.BeatNumber != i+1 || b.DurationSeconds != 10 || b.EmotionalTarget != EmotionHope {
			t.Fatalf("beat %d=%+v", i, b)
		}
	}
}

func TestTopHooksIsStable(t *testing.T) {
	t.Parallel()

	hooks := []HookMoment{
		{Content: "a", AttentionScore: 0.5},
		{Content: "b", AttentionScore: 0.9},
		{Content: "c", AttentionScore: 0.5},
		{Content: "d", AttentionScore: 0.5},
	}
	got := topHooks(hooks, 3)
	var order []string
	for _, h := range got {
		order = append(order, h.Content)
	}
	if diff := cmp.Diff([]string{"b", "a", "c"}, order); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
	if hooks[0].Content != "a" || hooks[1].Content != "b" {
		t.Fatalf("input was reordered: %+v", hooks)
	}
}

func TestBestThreadKeepsEarliestOnTie(t *testing.T) {
	t.Parallel()

	th, ok := bestThread([]NarrativeThread{{ID: "1", ContentPotential: 0.7}, {ID: "2", ContentPotential: 0.7}, {ID: "3", ContentPotential: 0.2}})
	if !ok || th.ID != "1" {
		t.Fatalf("thread=%+v ok=%v", th, ok)
	}
	if _, ok := bestThread(nil); ok {
		t.Fatalf("expected no thread")
	}
}

func TestShapeScriptFallsBackPerField(t *testing.T) {
	t.Parallel()

	prev := ContentScript{
		FullScript:          "old full",
		HookSegment:         "old hook",
		BodySegments:        []string{"old body"},
		CloseSegment:        "old close",
		PatternInterrupts:   []string{"pi"},
		EngagementQuestions: []string{"q"},
		ShareableQuotes:     []string{"s"},
		SpokenWordCount:     12,
		ReadingTimeSeconds:  30,
	}
	got := shapeScript(scriptWire{HookSegment: "new hook", BodySegments: []string{" "}}, prev, 45)
	want := prev
	want.HookSegment = "new hook"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("script (-want +got):\n%s", diff)
	}

	fresh := shapeScript(scriptWire{FullScript: "one two three"}, ContentScript{}, 45)
	if fresh.SpokenWordCount != 3 || fresh.ReadingTimeSeconds != 45 {
		t.Fatalf("fresh=%+v", fresh)
	}
}

func TestStrategiesCoverEveryArchetype(t *testing.T) {
	t.Parallel()

	seen := map[string]ContentArchetype{}
	for _, a := range []ContentArchetype{ContentStoryteller, ContentTeacher, ContentEntertainer, ContentProvocateur, ContentCurator, ContentConfessionalist, ContentAnalyst, ContentVisionary} {
		s := contentStrategy(a)
		if s == "" {
			t.Fatalf("%s: empty strategy", a)
		}
		if prev, dup := seen[s]; dup {
			t.Fatalf("%s shares strategy text with %s", a, prev)
		}
		seen[s] = a
	}
	if contentStrategy("UNKNOWN") != contentStrategy(ContentStoryteller) {
		t.Fatalf("unknown content archetype should fall back to STORYTELLER")
	}
	if narrativeFormat(ContentTeacher) != FormatLesson || narrativeFormat(ContentAnalyst) != FormatBreakdown || narrativeFormat(ContentVisionary) != FormatStory {
		t.Fatalf("narrative format mapping wrong")
	}
	if marketReasoning("UNKNOWN") != marketReasoning(MarketOracle) {
		t.Fatalf("unknown market archetype should fall back to ORACLE")
	}
}

func TestRecommendPositions(t *testing.T) {
	t.Parallel()

	all := []MarketPosition{
		{ID: "a", Thesis: "low but named", Conviction: 0.35},
		{ID: "b", Thesis: "strong", Conviction: 0.8},
		{ID: "c", Thesis: "weak", Conviction: 0.4},
		{ID: "d", Thesis: "exact", Conviction: 0.6},
		{ID: "e", Thesis: "also strong", Conviction: 0.8},
	}
	got := recommendPositions(all, []string{"low but named"})
	var ids []string
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	if diff := cmp.Diff([]string{"b", "e", "a"}, ids); diff != "" {
		t.Fatalf("ids (-want +got):\n%s", diff)
	}
}

func TestShapeBeliefBetSizing(t *testing.T) {
	t.Parallel()

	markets := []PredictionMarket{{ID: "m1", CurrentPrice: 0.4}}
	belief := BeliefStatement{Statement: "x", ActualConfidence: 0.9, Testable: true, MarketRelevant: true}

	bet := shapeBeliefBet(belief, markets, beliefBetWire{MatchedMarketID: "m1", Direction: "YES", AdjustedConviction: ptr(0.55)})
	if bet.Position == nil || bet.Position.SizeRecommendation != SizeSmall || bet.Position.ExitPriceTarget != 0.9 {
		t.Fatalf("bet=%+v", bet.Position)
	}
	bet = shapeBeliefBet(belief, markets, beliefBetWire{MatchedMarketID: "m1", Direction: "NO"})
	if bet.Position.Conviction != 0.9 || bet.Position.SizeRecommendation != SizeMedium || bet.Position.ExitPriceTarget != 0.1 {
		t.Fatalf("bet=%+v", bet.Position)
	}
	bet = shapeBeliefBet(belief, markets, beliefBetWire{MatchedMarketID: "nope"})
	if bet.Position != nil || bet.MatchedMarket != nil || bet.Transformation != "No matching market found" {
		t.Fatalf("bet=%+v", bet)
	}
}

func TestShapePositionDefaults(t *testing.T) {
	t.Parallel()

	m := PredictionMarket{ID: "m", CurrentPrice: 0.62}
	p := shapePosition(m, positionWire{})
	if p.Direction != DirectionAbstain || p.Conviction != 0 || p.SizeRecommendation != SizeSkip {
		t.Fatalf("p=%+v", p)
	}
	if p.EntryPriceTarget != 0.62 || p.ExitPriceTarget != 0 || p.TimeHorizon != "Unknown" || p.EdgeSource != EdgeNarrative {
		t.Fatalf("p=%+v", p)
	}
	yes := shapePosition(m, positionWire{Direction: "YES", Conviction: ptr(0.7), StopLoss: ptr(1.4)})
	if yes.ExitPriceTarget != 1 || yes.StopLoss == nil || *yes.StopLoss != 1 {
		t.Fatalf("yes=%+v", yes)
	}
}
