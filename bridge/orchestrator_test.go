package bridge

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/theimaginaryfoundation/signal-bridge/bridge/provider"
	"github.com/theimaginaryfoundation/signal-bridge/bridge/provider/providertest"
)

const remoteWorkAnalysis = `{
  "key_insights": [{"content": "Remote work has become a default expectation", "insight_type": "SOCIAL_TREND", "confidence": 0.7, "novelty": 0.4, "actionability": 0.5}],
  "narrative_threads": [{"theme": "Remote work", "story_arc": "LEARNING", "key_moments": ["saying it out loud"], "emotional_journey": ["CONFIDENCE"], "resolution": "", "content_potential": 0.6}],
  "belief_statements": [{"statement": "Remote work will stay popular", "belief_type": "ABOUT_WORLD", "confidence_expressed": 0.6, "actual_confidence": 0.65, "testable": true, "market_relevant": true}],
  "dominant_emotions": ["CONFIDENCE"],
  "defense_mechanisms_detected": [],
  "cognitive_patterns": [],
  "hook_moments": [{"timestamp": 0, "hook_type": "SURPRISING_STATEMENT", "content": "I think remote work will stay popular", "attention_score": 0.6, "controversy_risk": 0.2}],
  "shareable_quotes": ["Remote work is here to stay"],
  "market_signals": [{"signal_type": "SENTIMENT", "observation": "Confidence in remote work", "interpretation": "Supports continued remote norms", "signal_strength": 0.6, "time_sensitivity": "MONTHS"}],
  "contrarian_indicators": [],
  "sentiment_shifts": []
}`

const remoteWorkScript = `{
  "full_script": "Remote work is not going anywhere. Here is why.",
  "hook_segment": "Remote work is not going anywhere.",
  "body_segments": ["Context", "Evidence", "Takeaway"],
  "close_segment": "What do you think?",
  "pattern_interrupts": [], "engagement_questions": ["Office or home?"], "shareable_quotes": [],
  "visual_style": "TALKING_HEAD", "key_visual_moments": [], "text_overlays": [],
  "hook_strength": 0.8, "retention_prediction": 0.6, "viral_potential": 0.3, "controversy_level": 0.1
}`

const remoteWorkThesis = `{
  "core_belief": "Remote work is a durable norm",
  "personal_evidence": ["I think remote work will stay popular"],
  "market_evidence": ["Market at 62%"],
  "content_expression": "A short on why the office is not coming back",
  "conviction_score": 0.65,
  "time_horizon": "12 months"
}`

func remoteWorkMarket() PredictionMarket {
	return PredictionMarket{
		ID:             "remote-2025",
		Platform:       VenuePolymarket,
		Question:       "Will remote work remain the norm for tech workers in 2025?",
		CurrentPrice:   0.62,
		ResolutionDate: "2025-12-31T00:00:00Z",
		Category:       "Work",
	}
}

func fixedClock() func() time.Time {
	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func scriptedGateway(conviction float64) *providertest.Gateway {
	return providertest.New().
		On("JournalAnalysis", remoteWorkAnalysis).
		On("ContentScript", remoteWorkScript).
		On("MarketPosition", map[string]any{
			"direction":             "YES",
			"conviction":            conviction,
			"size_recommendation":   "SMALL",
			"thesis":                "Remote work stays the default",
			"primary_evidence":      []string{"personal conviction"},
			"adversarial_challenge": []string{"return-to-office mandates"},
			"entry_price_target":    0.62,
			"exit_price_target":     0.8,
			"stop_loss":             nil,
			"time_horizon":          "Until resolution",
			"edge_source":           "NARRATIVE",
			"key_invalidation":      "Big tech mandates",
		}).
		On("JournalMarketConnections", `{"connections":[{"journal_insight":"Remote work has become a default expectation","market_application":"Supports YES","connection_strength":0.7,"actionable":true,"rationale":"direct"}]}`).
		On("MarketContentConnections", `{"connections":[{"market_position":"YES","content_angle":"Why I'm betting on remote","disclosure_required":null,"audience_interest":0.6,"educational_value":null}]}`).
		On("UnifiedThesis", remoteWorkThesis)
}

func TestProcessAdmitsConfidentPosition(t *testing.T) {
	t.Parallel()

	gw := scriptedGateway(0.65)
	o := NewOrchestrator(gw, Options{Now: fixedClock()})
	b, err := o.Process(context.Background(), TextInput("I think remote work will stay popular"), DefaultConfig(ModeBridgeMode), ProcessContext{
		Markets: []PredictionMarket{remoteWorkMarket()},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(b.Errors) != 0 {
		t.Fatalf("errors=%+v", b.Errors)
	}
	if len(b.JournalEntries) != 1 || b.JournalEntries[0].TimeOfDay != Morning {
		t.Fatalf("entries=%+v", b.JournalEntries)
	}
	if len(b.ContentBriefs) != 1 || len(b.MarketPositions) != 1 {
		t.Fatalf("briefs=%d positions=%d", len(b.ContentBriefs), len(b.MarketPositions))
	}
	p := b.MarketPositions[0]
	if p.MarketID != "remote-2025" || p.Direction != DirectionYes || p.Conviction != 0.65 || !strings.HasPrefix(p.ID, "position-") {
		t.Fatalf("position=%+v", p)
	}
	if len(b.JournalToMarket) != 1 || len(b.MarketToContent) != 1 {
		t.Fatalf("j2m=%d m2c=%d", len(b.JournalToMarket), len(b.MarketToContent))
	}
	if c := b.MarketToContent[0]; !c.DisclosureRequired || c.EducationalValue != 0.5 {
		t.Fatalf("m2c=%+v", c)
	}
	if b.UnifiedThesis.CoreBelief != "Remote work is a durable norm" || b.UnifiedThesis.ConvictionScore != 0.65 {
		t.Fatalf("thesis=%+v", b.UnifiedThesis)
	}
	if len(b.MarketContext) != 1 || b.MarketContext[0].KeyDates[0] != "2025-12-31T00:00:00Z" {
		t.Fatalf("market context=%+v", b.MarketContext)
	}
	if n := gw.CallCount(""); n != 6 {
		t.Fatalf("calls=%d", n)
	}
	brief := b.ContentBriefs[0]
	if brief.NarrativeStructure.Format != FormatStory || brief.TargetEmotion != EmotionConfidence {
		t.Fatalf("brief=%+v", brief.NarrativeStructure)
	}
	if got := brief.PredictedEngagement.PredictedEngagementRate; got < 0.699 || got > 0.701 {
		t.Fatalf("engagement=%v", got)
	}
}

func TestProcessDropsWeakPosition(t *testing.T) {
	t.Parallel()

	gw := scriptedGateway(0.2)
	o := NewOrchestrator(gw, Options{Now: fixedClock()})
	b, err := o.Process(context.Background(), TextInput("I think remote work will stay popular"), DefaultConfig(ModeBridgeMode), ProcessContext{
		Markets: []PredictionMarket{remoteWorkMarket()},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(b.MarketPositions) != 0 {
		t.Fatalf("positions=%+v", b.MarketPositions)
	}
	if len(b.JournalToMarket) != 0 || len(b.MarketToContent) != 0 {
		t.Fatalf("j2m=%d m2c=%d", len(b.JournalToMarket), len(b.MarketToContent))
	}
	if gw.CallCount("JournalMarketConnections") != 0 || gw.CallCount("MarketContentConnections") != 0 {
		t.Fatalf("connection finders should not be called without positions")
	}
	if gw.CallCount("UnifiedThesis") != 1 {
		t.Fatalf("thesis calls=%d", gw.CallCount("UnifiedThesis"))
	}
}

func TestProcessCapsMarketsAndHonoursMode(t *testing.T) {
	t.Parallel()

	gw := scriptedGateway(0.65)
	o := NewOrchestrator(gw, Options{})
	var markets []PredictionMarket
	for i := 0; i < 5; i++ {
		m := remoteWorkMarket()
		m.ID = m.ID + "-" + string(rune('a'+i))
		markets = append(markets, m)
	}

	b, err := o.Process(context.Background(), TextInput("x"), DefaultConfig(ModeJournalToPrediction), ProcessContext{Markets: markets})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if gw.CallCount("MarketPosition") != 3 || gw.CallCount("ContentScript") != 0 {
		t.Fatalf("positions=%d content=%d", gw.CallCount("MarketPosition"), gw.CallCount("ContentScript"))
	}
	for i, p := range b.MarketPositions {
		if p.MarketID != markets[i].ID {
			t.Fatalf("position %d market=%s", i, p.MarketID)
		}
	}

	gw2 := scriptedGateway(0.65)
	b, err = NewOrchestrator(gw2, Options{}).Process(context.Background(), TextInput("x"), DefaultConfig(ModeJournalToContent), ProcessContext{Markets: markets})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if gw2.CallCount("MarketPosition") != 0 || len(b.ContentBriefs) != 1 {
		t.Fatalf("positions=%d briefs=%d", gw2.CallCount("MarketPosition"), len(b.ContentBriefs))
	}
}

func TestProcessIsolatesStageFailures(t *testing.T) {
	t.Parallel()

	gw := providertest.New().
		On("JournalAnalysis", remoteWorkAnalysis).
		Fail("ContentScript", errors.New("boom")).
		On("MarketPosition", `{"direction":"NO","conviction":0.9}`).
		On("JournalMarketConnections", `{"connections":[]}`).
		Fail("UnifiedThesis", errors.New("down"))

	b, err := NewOrchestrator(gw, Options{}).Process(context.Background(), TextInput("x"), DefaultConfig(ModeBridgeMode), ProcessContext{
		Markets: []PredictionMarket{remoteWorkMarket()},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	stages := map[string]bool{}
	for _, e := range b.Errors {
		stages[e.Stage] = true
	}
	if !stages[StageContent] || !stages[StageThesis] || len(b.Errors) != 2 {
		t.Fatalf("errors=%+v", b.Errors)
	}
	if len(b.ContentBriefs) != 0 || len(b.MarketPositions) != 1 {
		t.Fatalf("briefs=%d positions=%d", len(b.ContentBriefs), len(b.MarketPositions))
	}
	if gw.CallCount("MarketContentConnections") != 0 {
		t.Fatalf("market to content should be skipped without briefs")
	}
	if b.UnifiedThesis.CoreBelief != DefaultThesis().CoreBelief {
		t.Fatalf("thesis=%+v", b.UnifiedThesis)
	}
}

func TestProcessFailsWhenAnalysisFails(t *testing.T) {
	t.Parallel()

	gw := providertest.New().Fail("JournalAnalysis", errors.New("nope"))
	_, err := NewOrchestrator(gw, Options{}).Process(context.Background(), TextInput("x"), DefaultConfig(ModeBridgeMode), ProcessContext{})
	if !errors.Is(err, provider.ErrGeneration) {
		t.Fatalf("err=%v", err)
	}
	if gw.CallCount("") != 1 {
		t.Fatalf("calls=%d", gw.CallCount(""))
	}

	if _, err := NewOrchestrator(gw, Options{}).Process(context.Background(), Input{}, DefaultConfig(ModeBridgeMode), ProcessContext{}); err == nil {
		t.Fatalf("expected error for empty input")
	}
	bad := DefaultConfig(ModeBridgeMode)
	bad.PsychologicalDepth = 1.5
	if _, err := NewOrchestrator(gw, Options{}).Process(context.Background(), TextInput("x"), bad, ProcessContext{}); err == nil {
		t.Fatalf("expected config error")
	}
}

func TestGuardedCallsMakeNoRequests(t *testing.T) {
	t.Parallel()

	gw := providertest.New()
	o := NewOrchestrator(gw, Options{})
	ctx := context.Background()

	bet, err := o.Mind().ConvertBeliefToBet(ctx, BeliefStatement{Statement: "x", Testable: true}, []PredictionMarket{remoteWorkMarket()})
	if err != nil || bet.Position != nil || bet.Transformation != "Belief is not testable or market-relevant" {
		t.Fatalf("bet=%+v err=%v", bet, err)
	}
	j2m, err := o.FindJournalMarketConnections(ctx, JournalAnalysis{}, nil)
	if err != nil || j2m == nil || len(j2m) != 0 {
		t.Fatalf("j2m=%v err=%v", j2m, err)
	}
	m2c, err := o.FindMarketContentConnections(ctx, []MarketPosition{{}}, nil)
	if err != nil || m2c == nil || len(m2c) != 0 {
		t.Fatalf("m2c=%v err=%v", m2c, err)
	}
	tr, err := o.Analyzer().CleanTranscript(ctx, "raw words", false)
	if err != nil || tr.CleanedTranscript != "raw words" || tr.DetectedSpeakers[0] != "SPEAKER_1" {
		t.Fatalf("transcript=%+v err=%v", tr, err)
	}
	if gw.CallCount("") != 0 {
		t.Fatalf("calls=%d", gw.CallCount(""))
	}
}

func TestAnalyzeBatchSkipsPatternsForSingleEntry(t *testing.T) {
	t.Parallel()

	gw := providertest.New().On("JournalAnalysis", remoteWorkAnalysis).On("CrossEntryPatterns", `{"cross_entry_patterns":[],"belief_evolution":[]}`)
	a := NewJournalAnalyzer(gw, Options{})
	e, _ := NewJournalEntry("one", EntryOptions{ID: "e1"})

	out, err := a.AnalyzeBatch(context.Background(), []JournalEntry{e})
	if err != nil {
		t.Fatalf("AnalyzeBatch: %v", err)
	}
	if len(out.Individual) != 1 || gw.CallCount("") != 1 {
		t.Fatalf("individual=%d calls=%d", len(out.Individual), gw.CallCount(""))
	}

	e2, _ := NewJournalEntry("two", EntryOptions{ID: "e2"})
	out, err = a.AnalyzeBatch(context.Background(), []JournalEntry{e, e2})
	if err != nil {
		t.Fatalf("AnalyzeBatch: %v", err)
	}
	if out.Individual[0].EntryID != "e1" || out.Individual[1].EntryID != "e2" {
		t.Fatalf("order=%s,%s", out.Individual[0].EntryID, out.Individual[1].EntryID)
	}
	if gw.CallCount("CrossEntryPatterns") != 1 {
		t.Fatalf("pattern calls=%d", gw.CallCount("CrossEntryPatterns"))
	}
}

func TestProcessBatchPassesPreviousAnalysesForward(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		inputs []string
	)
	gw := providertest.New().
		OnFunc("JournalAnalysis", func(req provider.Request) (string, error) {
			mu.Lock()
			inputs = append(inputs, req.Input)
			mu.Unlock()
			if strings.Contains(req.Input, "fails") {
				return "", errors.New("bad entry")
			}
			return remoteWorkAnalysis, nil
		}).
		On("ContentScript", remoteWorkScript).
		On("UnifiedThesis", remoteWorkThesis).
		On("AggregateThesis", `{"aggregate_thesis":{"core_belief":"Remote is here","personal_evidence":[],"market_evidence":[],"content_expression":"","conviction_score":0.7,"time_horizon":""},"content_series_recommendations":["Remote diaries"],"top_positions":[]}`)

	var progress []int
	o := NewOrchestrator(gw, Options{Progress: func(done, total int, last string) { progress = append(progress, done) }})

	e1, _ := NewJournalEntry("first thought", EntryOptions{ID: "e1"})
	e2, _ := NewJournalEntry("this one fails", EntryOptions{ID: "e2"})
	e3, _ := NewJournalEntry("third thought", EntryOptions{ID: "e3"})

	res, err := o.ProcessBatch(context.Background(), []JournalEntry{e1, e2, e3}, DefaultConfig(ModeJournalToContent), ProcessContext{})
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if len(res.Bridges) != 2 || len(res.Failed) != 1 || res.Failed[0].EntryID != "e2" {
		t.Fatalf("bridges=%d failed=%+v", len(res.Bridges), res.Failed)
	}
	if strings.Contains(inputs[0], "Remote work will stay popular") {
		t.Fatalf("first entry should see no previous beliefs: %s", inputs[0])
	}
	if !strings.Contains(inputs[2], "Remote work will stay popular") {
		t.Fatalf("third entry should see the first entry's belief: %s", inputs[2])
	}
	if res.AggregateThesis.CoreBelief != "Remote is here" || res.AggregateThesis.TimeHorizon != "Medium-term" {
		t.Fatalf("aggregate=%+v", res.AggregateThesis)
	}
	if len(res.RecommendedContentSeries) != 1 || len(res.RecommendedPositions) != 0 {
		t.Fatalf("series=%v positions=%v", res.RecommendedContentSeries, res.RecommendedPositions)
	}
	if len(progress) != 3 || progress[2] != 3 {
		t.Fatalf("progress=%v", progress)
	}
}

func TestProcessBatchAllFailed(t *testing.T) {
	t.Parallel()

	gw := providertest.New().Fail("JournalAnalysis", errors.New("down"))
	e1, _ := NewJournalEntry("a", EntryOptions{})
	res, err := NewOrchestrator(gw, Options{}).ProcessBatch(context.Background(), []JournalEntry{e1}, DefaultConfig(ModeBridgeMode), ProcessContext{})
	if err == nil || len(res.Failed) != 1 {
		t.Fatalf("res=%+v err=%v", res, err)
	}
	if gw.CallCount("AggregateThesis") != 0 {
		t.Fatalf("aggregate should not run")
	}
}

func TestQuickBridgeClearsUnrequestedSide(t *testing.T) {
	t.Parallel()

	gw := providertest.New().On("QuickBridge", `{"insight":"i","content_hook":"hook","market_signal":"sig","action":"do"}`)
	o := NewOrchestrator(gw, Options{})

	got, err := o.QuickBridge(context.Background(), "t", QuickContent)
	if err != nil || got.ContentHook != "hook" || got.MarketSignal != "" {
		t.Fatalf("content=%+v err=%v", got, err)
	}
	got, err = o.QuickBridge(context.Background(), "t", QuickPrediction)
	if err != nil || got.ContentHook != "" || got.MarketSignal != "sig" {
		t.Fatalf("prediction=%+v err=%v", got, err)
	}
	got, err = o.QuickBridge(context.Background(), "t", "")
	if err != nil || got.ContentHook != "hook" || got.MarketSignal != "sig" {
		t.Fatalf("both=%+v err=%v", got, err)
	}
}

func TestDualMindStateWithoutBrief(t *testing.T) {
	t.Parallel()

	gw := providertest.New().
		On("PredictorMindState", `{}`).
		On("MindHarmony", `{"tension_points":["speed vs care"],"integrated_view":"ok"}`)
	o := NewOrchestrator(gw, Options{})
	b := SignalBridge{JournalAnalysis: []JournalAnalysis{{EntryID: "e"}}}

	got, err := o.DualMindState(context.Background(), b)
	if err != nil {
		t.Fatalf("DualMindState: %v", err)
	}
	if !got.Creator.AmIBeingAuthentic || got.Harmony != 0.5 || len(got.TensionPoints) != 1 {
		t.Fatalf("got=%+v", got)
	}
	if gw.CallCount("CreatorMindState") != 0 {
		t.Fatalf("creator should not be generated without a brief")
	}
}
