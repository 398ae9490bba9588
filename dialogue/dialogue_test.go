package dialogue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/theimaginaryfoundation/signal-bridge/bridge"
	"github.com/theimaginaryfoundation/signal-bridge/bridge/provider"
	"github.com/theimaginaryfoundation/signal-bridge/bridge/provider/providertest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func fixedNow() time.Time { return time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC) }

func negotiationConfig(deep bool) Config {
	return Config{
		Agents: [2]Seed{
			{Name: "Alice", Archetype: bridge.ArchetypeMother, CoreWound: "Losing her father", SecretGoal: "Get at least $32,000"},
			{Name: "Bob", Archetype: bridge.ArchetypeTrickster, CoreWound: "Being laughed at", SecretGoal: "Flip the car at auction"},
		},
		Context: "Selling a 1967 Mustang",
		Deep:    deep,
		Now:     fixedNow,
	}
}

func turnReply(n int) turnWire {
	return turnWire{
		Message:            fmt.Sprintf("message %d", n),
		SelfAnalysis:       fmt.Sprintf("self %d", n),
		ModelOfOther:       fmt.Sprintf("other %d", n),
		ModelOfOthersModel: fmt.Sprintf("other of me %d", n),
	}
}

// countingGateway answers AgentTurn with turnReply(n) for call n, failing the calls listed in fail.
func countingGateway(fail ...int) *providertest.Gateway {
	var mu sync.Mutex
	n := 0
	return providertest.New().OnFunc("AgentTurn", func(provider.Request) (string, error) {
		mu.Lock()
		n++
		call := n
		mu.Unlock()
		for _, f := range fail {
			if f == call {
				return "", errors.New("upstream unavailable")
			}
		}
		r := turnReply(call)
		return fmt.Sprintf(`{"message":%q,"selfAnalysis":%q,"modelOfOther":%q,"modelOfOthersModel":%q}`,
			r.Message, r.SelfAnalysis, r.ModelOfOther, r.ModelOfOthersModel), nil
	})
}

func TestArchetypeDefaultsAreComplete(t *testing.T) {
	t.Parallel()

	all := []bridge.PrimaryArchetype{
		bridge.ArchetypeHero, bridge.ArchetypeShadow, bridge.ArchetypeMentor, bridge.ArchetypeHerald,
		bridge.ArchetypeThresholdGuardian, bridge.ArchetypeShapeshifter, bridge.ArchetypeTrickster, bridge.ArchetypeAlly,
		bridge.ArchetypeMother, bridge.ArchetypeFather, bridge.ArchetypeChild, bridge.ArchetypeSelf,
	}
	for _, a := range all {
		d, ok := ArchetypeDefaultsFor(a)
		if !ok {
			t.Fatalf("ArchetypeDefaultsFor(%s) missing", a)
		}
		if d.DeepestFear == "" || d.LieBelieved == "" || d.TruthToLearn == "" || len(d.DefenseMechanisms) != 2 {
			t.Fatalf("%s defaults incomplete: %+v", a, d)
		}
		for _, def := range d.DefenseMechanisms {
			if DefenseBehavior(def) == "" {
				t.Fatalf("no behavior for %s", def)
			}
		}
		if !strings.Contains(ArchetypeDescription(a), "archetype") {
			t.Fatalf("no description for %s", a)
		}
	}
	if _, ok := ArchetypeDefaultsFor("VILLAIN"); ok {
		t.Fatalf("unknown archetype should have no defaults")
	}
}

func TestResetHeroDefaultsIgnoreOtherSeedFields(t *testing.T) {
	t.Parallel()

	seeds := []Seed{
		{Name: "A", Archetype: bridge.ArchetypeHero},
		{Name: "Someone Else", Archetype: bridge.ArchetypeHero, CoreWound: "x", SecretGoal: "y", Color: "red"},
		{Name: "Empty archetype"},
	}
	s := NewStore()
	for _, seed := range seeds {
		c, err := s.Reset("agent", seed)
		if err != nil {
			t.Fatalf("Reset: %v", err)
		}
		if c.Unconscious.DeepestFear != "Being powerless, failing those who depend on me" {
			t.Fatalf("deepest_fear=%q", c.Unconscious.DeepestFear)
		}
		if c.Preconscious.AttachmentStyle != AttachmentAvoidant {
			t.Fatalf("attachment_style=%q", c.Preconscious.AttachmentStyle)
		}
		if c.ID != "agent" || c.Arc.CurrentStage != StageOrdinaryWorld {
			t.Fatalf("id=%q stage=%q", c.ID, c.Arc.CurrentStage)
		}
		m, err := s.Get("agent")
		if err != nil || m != (MindState{}) {
			t.Fatalf("mind=%+v err=%v", m, err)
		}
	}
	if _, err := s.Reset("agent", Seed{Name: "X", Archetype: "VILLAIN"}); err == nil {
		t.Fatalf("expected error for unknown archetype")
	}
}

func TestStoreNotFoundAndCopies(t *testing.T) {
	t.Parallel()

	s := NewStore()
	if _, err := s.Get("nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get err=%v", err)
	}
	if _, err := s.Character("nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Character err=%v", err)
	}

	c, err := s.Reset("a", Seed{Name: "Alice", Archetype: bridge.ArchetypeAlly})
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	c.Unconscious.ShadowTraits[0] = "mutated"
	c.MindModels["b"] = DeepTheoryOfMind{TrustLevel: 1}

	got, _ := s.Character("a")
	if got.Unconscious.ShadowTraits[0] != "Enabling" {
		t.Fatalf("store shares slices: %q", got.Unconscious.ShadowTraits[0])
	}
	if len(got.MindModels) != 0 {
		t.Fatalf("store shares maps: %v", got.MindModels)
	}

	s.Replace("a", MindState{SelfAnalysis: "new"})
	s.Replace("a", MindState{ModelOfOther: "newer"})
	m, _ := s.Get("a")
	if m != (MindState{ModelOfOther: "newer"}) {
		t.Fatalf("Replace merged instead of replacing: %+v", m)
	}
}

func TestAdvanceAlternatesStrictly(t *testing.T) {
	t.Parallel()

	gw := countingGateway()
	s, err := NewTurnScheduler(gw, nil, negotiationConfig(false))
	if err != nil {
		t.Fatalf("NewTurnScheduler: %v", err)
	}
	ctx := context.Background()
	for n := 0; n < 5; n++ {
		want := AgentA
		if n%2 == 1 {
			want = AgentB
		}
		if got := s.Turn(); got != want {
			t.Fatalf("after %d turns Turn=%s want %s", n, got, want)
		}
		msg, err := s.Advance(ctx)
		if err != nil {
			t.Fatalf("Advance %d: %v", n, err)
		}
		if msg.SenderID != want {
			t.Fatalf("turn %d sender=%s want %s", n, msg.SenderID, want)
		}
	}

	msgs := s.Messages()
	if len(msgs) != 5 || s.TurnCount() != 5 {
		t.Fatalf("messages=%d", len(msgs))
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].Sender == msgs[i-1].Sender {
			t.Fatalf("%s spoke twice in a row at %d", msgs[i].Sender, i)
		}
	}
	if msgs[0].Sender != "Alice" || msgs[0].Text != "message 1" || !msgs[0].Timestamp.Equal(fixedNow()) {
		t.Fatalf("first message=%+v", msgs[0])
	}

	mind, _ := s.Store().Get(AgentB)
	if mind.SelfAnalysis != "self 4" {
		t.Fatalf("Bob mind=%+v", mind)
	}

	calls := gw.Calls()
	first, last := calls[0].Input, calls[4].Input
	if !strings.Contains(first, `"other_agent":"Bob"`) || !strings.Contains(first, `"conversation_history":[]`) {
		t.Fatalf("first request input=%s", first)
	}
	if !strings.Contains(last, "message 4") || strings.Contains(last, "Flip the car at auction") {
		t.Fatalf("fifth request input=%s", last)
	}
	if calls[0].Temperature != 0.7 {
		t.Fatalf("temperature=%v", calls[0].Temperature)
	}
}

func TestAdvanceFailureCommitsNothing(t *testing.T) {
	t.Parallel()

	gw := countingGateway(3)
	s, err := NewTurnScheduler(gw, nil, negotiationConfig(false))
	if err != nil {
		t.Fatalf("NewTurnScheduler: %v", err)
	}
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := s.Advance(ctx); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}

	beforeTurn := s.Turn()
	beforeMsgs := s.Messages()
	beforeMind, _ := s.Store().Get(beforeTurn)
	beforeChar, _ := s.Store().Character(beforeTurn)

	_, err = s.Advance(ctx)
	if !errors.Is(err, provider.ErrGeneration) {
		t.Fatalf("err=%v", err)
	}
	if s.Turn() != beforeTurn {
		t.Fatalf("turn moved to %s", s.Turn())
	}
	if diff := cmp.Diff(beforeMsgs, s.Messages()); diff != "" {
		t.Fatalf("log changed (-want +got):\n%s", diff)
	}
	afterMind, _ := s.Store().Get(beforeTurn)
	if diff := cmp.Diff(beforeMind, afterMind); diff != "" {
		t.Fatalf("mind changed (-want +got):\n%s", diff)
	}
	afterChar, _ := s.Store().Character(beforeTurn)
	if diff := cmp.Diff(beforeChar, afterChar); diff != "" {
		t.Fatalf("character changed (-want +got):\n%s", diff)
	}
	if st, _ := s.State(); st != StateWaiting {
		t.Fatalf("state=%s", st)
	}

	msg, err := s.Advance(ctx)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if msg.SenderID != beforeTurn || msg.Text != "message 4" {
		t.Fatalf("retry message=%+v", msg)
	}
}

func TestAdvanceEmptyMessageIsAFailure(t *testing.T) {
	t.Parallel()

	gw := providertest.New().On("AgentTurn", turnWire{SelfAnalysis: "thinking"})
	s, err := NewTurnScheduler(gw, nil, negotiationConfig(false))
	if err != nil {
		t.Fatalf("NewTurnScheduler: %v", err)
	}
	if _, err := s.Advance(context.Background()); !errors.Is(err, provider.ErrGeneration) {
		t.Fatalf("err=%v", err)
	}
	if s.TurnCount() != 0 || s.Turn() != AgentA {
		t.Fatalf("count=%d turn=%s", s.TurnCount(), s.Turn())
	}
	if m, _ := s.Store().Get(AgentA); m != (MindState{}) {
		t.Fatalf("mind=%+v", m)
	}
}

func TestAdvanceRejectsConcurrentTurn(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})
	gw := providertest.New().OnFunc("AgentTurn", func(provider.Request) (string, error) {
		close(entered)
		<-release
		return `{"message":"hi","selfAnalysis":"","modelOfOther":"","modelOfOthersModel":""}`, nil
	})
	s, err := NewTurnScheduler(gw, nil, negotiationConfig(false))
	if err != nil {
		t.Fatalf("NewTurnScheduler: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := s.Advance(context.Background())
		done <- err
	}()
	<-entered

	if st, agent := s.State(); st != StateGenerating || agent != AgentA {
		t.Fatalf("state=%s agent=%s", st, agent)
	}
	if _, err := s.Advance(context.Background()); !errors.Is(err, ErrTurnInFlight) {
		t.Fatalf("second Advance err=%v", err)
	}
	if err := s.Reset(negotiationConfig(false)); !errors.Is(err, ErrTurnInFlight) {
		t.Fatalf("Reset err=%v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Advance: %v", err)
	}
	if s.TurnCount() != 1 || s.Turn() != AgentB {
		t.Fatalf("count=%d turn=%s", s.TurnCount(), s.Turn())
	}
}

func TestResetRestartsConversation(t *testing.T) {
	t.Parallel()

	s, err := NewTurnScheduler(countingGateway(), nil, negotiationConfig(false))
	if err != nil {
		t.Fatalf("NewTurnScheduler: %v", err)
	}
	if _, err := s.Advance(context.Background()); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	cfg := negotiationConfig(false)
	cfg.Starting = 1
	if err := s.Reset(cfg); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if s.TurnCount() != 0 || s.Turn() != AgentB {
		t.Fatalf("count=%d turn=%s", s.TurnCount(), s.Turn())
	}
	if m, _ := s.Store().Get(AgentA); m != (MindState{}) {
		t.Fatalf("mind survived reset: %+v", m)
	}

	bad := negotiationConfig(false)
	bad.Agents[1].Name = "Alice"
	if err := s.Reset(bad); err == nil {
		t.Fatalf("expected error for duplicate names")
	}
}

func TestDeepTurnUpdatesPsyche(t *testing.T) {
	t.Parallel()

	gw := providertest.New().On("DeepDialogue", `{
		"message": "It runs beautifully, I promise.",
		"tone": "warm",
		"subtext": "Please do not look under the hood.",
		"conscious_intent": "Reassure",
		"unconscious_intent": "Protect her father's memory",
		"defense_mechanism_active": "reaction_formation",
		"projection_present": "Sees her own guilt in his questions",
		"selfAnalysis": "I am hiding the transmission.",
		"modelOfOther": "He wants a bargain.",
		"modelOfOthersModel": "He thinks I am sentimental.",
		"felt_emotion": "FEAR",
		"displayed_emotion": "confidence",
		"emotional_intensity": 1.7,
		"arc_movement": "The lie tightens",
		"lie_reinforced_or_challenged": "reinforced"
	}`)
	s, err := NewTurnScheduler(gw, nil, negotiationConfig(true))
	if err != nil {
		t.Fatalf("NewTurnScheduler: %v", err)
	}
	msg, err := s.Advance(context.Background())
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if msg.Subtext != "Please do not look under the hood." || msg.EmotionalTone != bridge.EmotionFear || msg.DefenseActive != bridge.DefenseReactionFormation {
		t.Fatalf("message=%+v", msg)
	}

	c, _ := s.Store().Character(AgentA)
	es := c.Conscious.EmotionalState
	if es.PrimaryEmotion != bridge.EmotionFear || es.DisplayedEmotion != bridge.EmotionConfidence || es.SuppressedEmotion != bridge.EmotionFear || es.Intensity != 1 {
		t.Fatalf("emotional state=%+v", es)
	}
	model := c.MindModels[AgentB]
	if model.HowTheySeeMe != "He thinks I am sentimental." || model.AmIProjecting == "" {
		t.Fatalf("model of Bob=%+v", model)
	}
	if c.Conscious.Insight != "The lie tightens" || len(c.Conscious.RecentEvents) != 1 {
		t.Fatalf("conscious=%+v", c.Conscious)
	}

	bob, _ := s.Store().Character(AgentB)
	if len(bob.MindModels) != 0 || bob.Conscious.EmotionalState.PrimaryEmotion != bridge.EmotionAnticipation {
		t.Fatalf("counterpart changed: %+v", bob.Conscious)
	}

	in := gw.Calls()[0].Input
	if strings.Contains(in, "Being laughed at") || strings.Contains(in, "Flip the car at auction") {
		t.Fatalf("request leaked the counterpart's hidden layers: %s", in)
	}
	if !strings.Contains(in, `"public_identity":"The fool, the clever one, the rule-breaker"`) {
		t.Fatalf("request missing counterpart persona: %s", in)
	}
}

func TestDeepTurnReplacesPartnerModel(t *testing.T) {
	t.Parallel()

	gw := providertest.New().
		On("DeepTheoryOfMind", `{"their_apparent_goals":"A bargain","trust_level":0.9,"deception_detected":0.7,"leverage_points":"He needs the car today"}`).
		On("DeepDialogue", `{"message":"Fine.","selfAnalysis":"s","modelOfOther":"o","modelOfOthersModel":"m"}`)
	s, err := NewTurnScheduler(gw, nil, negotiationConfig(true))
	if err != nil {
		t.Fatalf("NewTurnScheduler: %v", err)
	}
	before, _ := s.Store().Character(AgentA)
	if _, err := s.Reflect(context.Background()); err != nil {
		t.Fatalf("Reflect: %v", err)
	}
	if _, err := s.Advance(context.Background()); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	c, _ := s.Store().Character(AgentA)
	if c.Arc != before.Arc {
		t.Fatalf("arc moved: %+v -> %+v", before.Arc, c.Arc)
	}
	want := DeepTheoryOfMind{MyConsciousState: "s", TheirApparentGoals: "o", HowTheySeeMe: "m"}
	if diff := cmp.Diff(want, c.MindModels[AgentB]); diff != "" {
		t.Fatalf("model of Bob (-want +got):\n%s", diff)
	}
}

func TestReflectStoresModelWithoutTakingTurn(t *testing.T) {
	t.Parallel()

	gw := providertest.New().On("DeepTheoryOfMind", `{"their_apparent_goals":"A bargain","how_they_see_me":"Naive","trust_level":1.4}`)
	s, err := NewTurnScheduler(gw, nil, negotiationConfig(true))
	if err != nil {
		t.Fatalf("NewTurnScheduler: %v", err)
	}
	tom, err := s.Reflect(context.Background())
	if err != nil {
		t.Fatalf("Reflect: %v", err)
	}
	if tom.TrustLevel != 1 || tom.DeceptionDetected != 0 || tom.TheirApparentGoals != "A bargain" {
		t.Fatalf("tom=%+v", tom)
	}
	c, _ := s.Store().Character(AgentA)
	if diff := cmp.Diff(tom, c.MindModels[AgentB]); diff != "" {
		t.Fatalf("stored model (-want +got):\n%s", diff)
	}
	if s.Turn() != AgentA || s.TurnCount() != 0 {
		t.Fatalf("turn=%s count=%d", s.Turn(), s.TurnCount())
	}
	if gw.Calls()[0].Temperature != 0.8 {
		t.Fatalf("temperature=%v", gw.Calls()[0].Temperature)
	}
}

func TestShapeBeatEvents(t *testing.T) {
	t.Parallel()

	res := shapeBeat(sceneBeatWire{
		ActionType:          "monologue",
		Content:             "You always do this.",
		ProjectionOccurring: true,
		ProjectionDetail:    "Carelessness onto Bob",
		ShadowActivated:     true,
		BeliefChallenged:    true,
		BeliefDetail:        "Love means sacrifice",
	}, "a", "")

	if res.Beat.ActionType != ActionDialogue || res.Beat.CharacterID != "a" {
		t.Fatalf("beat=%+v", res.Beat)
	}
	want := []ProjectionEvent{{
		ProjectorID:     "a",
		RecipientID:     "unknown",
		ProjectedTrait:  "Carelessness onto Bob",
		ActualOwner:     "PROJECTOR",
		NarrativeImpact: "Creating conflict through misattribution",
	}}
	if diff := cmp.Diff(want, res.Projections); diff != "" {
		t.Fatalf("projections (-want +got):\n%s", diff)
	}
	if len(res.Shadows) != 0 {
		t.Fatalf("shadow without detail recorded: %+v", res.Shadows)
	}
	if len(res.Beliefs) != 1 || res.Beliefs[0].Response != "DEFEND" || res.Beliefs[0].ChallengingEvidence != "You always do this." {
		t.Fatalf("beliefs=%+v", res.Beliefs)
	}
}

func TestBeatRecordsProjectionAndPassesTurn(t *testing.T) {
	t.Parallel()

	gw := providertest.New().On("SceneBeat", `{"action_type":"ACTION","content":"She slams the hood shut.","subtext":"","conscious_intent":"","unconscious_driver":"","projection_occurring":true,"projection_detail":"Greed"}`)
	s, err := NewTurnScheduler(gw, nil, negotiationConfig(true))
	if err != nil {
		t.Fatalf("NewTurnScheduler: %v", err)
	}
	scene := Scene{Title: "The driveway", Conflict: "Price"}
	res, err := s.Beat(context.Background(), scene, NarrativeState{Theme: "Letting go", TensionLevel: 0.4})
	if err != nil {
		t.Fatalf("Beat: %v", err)
	}
	if res.Projections[0].RecipientID != AgentB || res.Beat.ActionType != ActionAction {
		t.Fatalf("res=%+v", res)
	}
	c, _ := s.Store().Character(AgentA)
	if len(c.Unconscious.Projections) != 1 || c.Unconscious.Projections[0] != "Greed" {
		t.Fatalf("projections=%v", c.Unconscious.Projections)
	}
	if s.Turn() != AgentB || len(s.Beats()) != 1 || s.TurnCount() != 0 {
		t.Fatalf("turn=%s beats=%d count=%d", s.Turn(), len(s.Beats()), s.TurnCount())
	}
	if gw.Calls()[0].Temperature != 0.85 {
		t.Fatalf("temperature=%v", gw.Calls()[0].Temperature)
	}
}

func TestDefaultScenarios(t *testing.T) {
	t.Parallel()

	scs, err := DefaultScenarios()
	if err != nil {
		t.Fatalf("DefaultScenarios: %v", err)
	}
	car := FilterScenarios(scs, "car-negotiation", "")
	if len(car) != 1 || !strings.Contains(car[0].Context, "Mustang") {
		t.Fatalf("car-negotiation=%+v", car)
	}
	neg := FilterScenarios(scs, "", "negotiation")
	if len(neg) < 2 {
		t.Fatalf("negotiation scenarios=%d", len(neg))
	}
	if len(FilterScenarios(scs, "", "")) != len(scs) {
		t.Fatalf("empty filter dropped scenarios")
	}
}

func TestLoadScenariosRejectsBadCatalogue(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		return p
	}
	unknown := write("unknown.yaml", `scenarios:
  - id: x
    name: X
    category: test
    context: c
    turns: 2
    agents:
      - {name: A, secret_goal: g}
      - {name: B, archetype: SAGE_KING, secret_goal: h}
`)
	if _, err := LoadScenarios(unknown); err == nil || !strings.Contains(err.Error(), "SAGE_KING") {
		t.Fatalf("err=%v", err)
	}
	zero := write("zero.yaml", "scenarios:\n  - {id: y, turns: 0, agents: [{name: A}, {name: B}]}\n")
	if _, err := LoadScenarios(zero); err == nil {
		t.Fatalf("expected error for zero turns")
	}
}

func TestRunnerPlaysScenariosAndWritesReports(t *testing.T) {
	t.Parallel()

	gw := countingGateway(5)
	scs := []Scenario{
		{ID: "one", Name: "One", Category: "test", Context: "c", Turns: 3,
			Agents: [2]Seed{{Name: "Alice", SecretGoal: "a"}, {Name: "Bob", SecretGoal: "b"}}},
		{ID: "two", Name: "Two", Category: "test", Context: "c", Turns: 3,
			Agents: [2]Seed{{Name: "Alice", SecretGoal: "a"}, {Name: "Bob", SecretGoal: "b"}}},
	}
	var progress []string
	r := NewRunner(gw, RunnerOptions{
		TurnDelay: time.Millisecond,
		Now:       fixedNow,
		Progress: func(id string, done, total int, last string) {
			progress = append(progress, fmt.Sprintf("%s %d/%d %s", id, done, total, last))
		},
	})
	dir := t.TempDir()
	results, err := r.Run(context.Background(), scs, func(res ScenarioResult) error {
		return WriteScenarioReport(dir, res, false)
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !results[0].Success || len(results[0].Turns) != 3 {
		t.Fatalf("first=%+v", results[0])
	}
	second := results[1]
	if second.Success || len(second.Turns) != 1 || !strings.Contains(second.Error, "turn 2") {
		t.Fatalf("second success=%v turns=%d err=%q", second.Success, len(second.Turns), second.Error)
	}
	if second.FinalStates[0].Mind.SelfAnalysis != "self 4" || second.FinalStates[1].Mind != (MindState{}) {
		t.Fatalf("final states=%+v", second.FinalStates)
	}
	if second.FinalStates[0].Character != nil {
		t.Fatalf("simple mode should not report characters")
	}
	if len(progress) != 4 || progress[3] != "two 1/3 Alice" {
		t.Fatalf("progress=%v", progress)
	}

	if err := WriteSummary(dir, results, fixedNow(), false); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	summary, err := os.ReadFile(filepath.Join(dir, "SUMMARY.md"))
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	for _, want := range []string{"**Successful:** 1", "| Two | test | 1/3 |", "- **test:** 1/2 successful"} {
		if !strings.Contains(string(summary), want) {
			t.Fatalf("summary missing %q:\n%s", want, summary)
		}
	}
	md, err := os.ReadFile(filepath.Join(dir, "two.md"))
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	if !strings.Contains(string(md), "## Error") || !strings.Contains(string(md), "### Turn 1: Alice") {
		t.Fatalf("transcript:\n%s", md)
	}
	if err := WriteScenarioReport(dir, results[0], false); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
}

func TestRunnerStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(countingGateway(), RunnerOptions{})
	scs := []Scenario{{ID: "x", Turns: 2, Agents: [2]Seed{{Name: "A"}, {Name: "B"}}}}
	results, err := r.Run(ctx, scs, nil)
	if !errors.Is(err, context.Canceled) || len(results) != 0 {
		t.Fatalf("results=%d err=%v", len(results), err)
	}
}
