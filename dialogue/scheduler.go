package dialogue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/theimaginaryfoundation/signal-bridge/bridge"
	"github.com/theimaginaryfoundation/signal-bridge/bridge/provider"
)

// ErrTurnInFlight is returned when a turn is requested while another is generating.
var ErrTurnInFlight = errors.New("turn already in flight")

// State is the scheduler's position in a turn.
type State string

const (
	StateWaiting    State = "WAITING_FOR_TURN"
	StateGenerating State = "GENERATING"
	StateApplying   State = "APPLYING_RESULT"
)

// Agent ids used by the scheduler in its store.
const (
	AgentA = "agent-a"
	AgentB = "agent-b"
)

const recentEventsMax = 10

// Config sets up one conversation.
type Config struct {
	Agents [2]Seed
	// Starting is the index into Agents of the agent that speaks first.
	Starting int
	Context  string
	// Deep turns on the full psyche: characters are prompted with all layers and
	// messages carry subtext, tone and defense.
	Deep   bool
	Now    func() time.Time
	Logger *zap.Logger
}

func (c Config) Validate() error {
	if c.Starting != 0 && c.Starting != 1 {
		return fmt.Errorf("starting agent must be 0 or 1 (got %d)", c.Starting)
	}
	for i, s := range c.Agents {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("agent %d has no name", i)
		}
	}
	if c.Agents[0].Name == c.Agents[1].Name {
		return fmt.Errorf("agents share the name %q", c.Agents[0].Name)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// TurnScheduler alternates two agents strictly. A turn either commits fully
// (mind state, character and message) or not at all.
type TurnScheduler struct {
	gw    provider.Gateway
	store *Store
	ids   [2]string

	mu       sync.Mutex
	cfg      Config
	state    State
	turn     int
	messages []Message
	beats    []SceneBeat
}

// NewTurnScheduler seeds both agents in store (a fresh store when nil) and
// waits for the starting agent.
func NewTurnScheduler(gw provider.Gateway, store *Store, cfg Config) (*TurnScheduler, error) {
	if gw == nil {
		return nil, errors.New("NewTurnScheduler: gateway is nil")
	}
	if store == nil {
		store = NewStore()
	}
	s := &TurnScheduler{gw: gw, store: store, ids: [2]string{AgentA, AgentB}}
	if err := s.Reset(cfg); err != nil {
		return nil, fmt.Errorf("NewTurnScheduler: %w", err)
	}
	return s, nil
}

// Reset restarts the conversation from cfg. It fails with ErrTurnInFlight while
// a turn is generating.
func (s *TurnScheduler) Reset(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg = cfg.withDefaults()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != "" && s.state != StateWaiting {
		return ErrTurnInFlight
	}
	for i, id := range s.ids {
		if _, err := s.store.Reset(id, cfg.Agents[i]); err != nil {
			return err
		}
	}
	s.cfg = cfg
	s.turn = cfg.Starting
	s.messages = nil
	s.beats = nil
	s.state = StateWaiting
	return nil
}

func (s *TurnScheduler) Store() *Store { return s.store }

func (s *TurnScheduler) AgentIDs() [2]string { return s.ids }

// State reports the scheduler state and the id of the agent it concerns.
func (s *TurnScheduler) State() (State, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.ids[s.turn]
}

// Turn is the id of the agent that acts next.
func (s *TurnScheduler) Turn() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids[s.turn]
}

func (s *TurnScheduler) TurnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

func (s *TurnScheduler) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

func (s *TurnScheduler) Beats() []SceneBeat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.beats)
}

// Config returns the configuration of the current conversation.
func (s *TurnScheduler) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// turnSnapshot is everything a generation call reads, copied out under the lock.
type turnSnapshot struct {
	actor     int
	cfg       Config
	mind      MindState
	self      Character
	other     Character
	history   []Message
	prevBeats []SceneBeat
}

// begin claims the turn. The caller must call end exactly once.
func (s *TurnScheduler) begin() (turnSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateWaiting {
		return turnSnapshot{}, ErrTurnInFlight
	}
	actor := s.turn
	mind, err := s.store.Get(s.ids[actor])
	if err != nil {
		return turnSnapshot{}, err
	}
	self, err := s.store.Character(s.ids[actor])
	if err != nil {
		return turnSnapshot{}, err
	}
	other, err := s.store.Character(s.ids[1-actor])
	if err != nil {
		return turnSnapshot{}, err
	}
	s.state = StateGenerating
	return turnSnapshot{
		actor:     actor,
		cfg:       s.cfg,
		mind:      mind,
		self:      self,
		other:     other,
		history:   slices.Clone(s.messages),
		prevBeats: slices.Clone(s.beats),
	}, nil
}

func (s *TurnScheduler) end() {
	s.mu.Lock()
	s.state = StateWaiting
	s.mu.Unlock()
}

type logLine struct {
	Sender  string `json:"sender"`
	Text    string `json:"text"`
	Subtext string `json:"subtext,omitempty"`
}

func conversationLog(msgs []Message, withSubtext bool) []logLine {
	out := make([]logLine, 0, len(msgs))
	for _, m := range msgs {
		l := logLine{Sender: m.Sender, Text: m.Text}
		if withSubtext {
			l.Subtext = m.Subtext
		}
		out = append(out, l)
	}
	return out
}

type turnWire struct {
	Message            string `json:"message" jsonschema:"description=The verbal message sent to the other agent."`
	SelfAnalysis       string `json:"selfAnalysis" jsonschema:"description=Internal monologue about current strategy and goal progress."`
	ModelOfOther       string `json:"modelOfOther" jsonschema:"description=Current belief about the other agent's hidden goals and personality."`
	ModelOfOthersModel string `json:"modelOfOthersModel" jsonschema:"description=Current belief about what the OTHER agent thinks about ME."`
}

var turnSchema = provider.GenerateSchema[turnWire]()

type deepTurnWire struct {
	Message                  string   `json:"message" jsonschema:"description=The actual words spoken"`
	Tone                     string   `json:"tone" jsonschema:"description=How it is delivered"`
	Subtext                  string   `json:"subtext" jsonschema:"description=What is really being communicated"`
	ConsciousIntent          string   `json:"conscious_intent"`
	UnconsciousIntent        string   `json:"unconscious_intent"`
	DefenseMechanismActive   string   `json:"defense_mechanism_active"`
	ProjectionPresent        string   `json:"projection_present"`
	SelfAnalysis             string   `json:"selfAnalysis"`
	ModelOfOther             string   `json:"modelOfOther"`
	ModelOfOthersModel       string   `json:"modelOfOthersModel"`
	FeltEmotion              string   `json:"felt_emotion"`
	DisplayedEmotion         string   `json:"displayed_emotion"`
	EmotionalIntensity       *float64 `json:"emotional_intensity"`
	ArcMovement              string   `json:"arc_movement"`
	LieReinforcedOrChallenge string   `json:"lie_reinforced_or_challenged"`
}

var deepTurnSchema = provider.GenerateSchema[deepTurnWire]()

// Advance generates and commits one turn for the agent whose turn it is. On
// any failure the turn, the log and the store are left as they were.
func (s *TurnScheduler) Advance(ctx context.Context) (Message, error) {
	if ctx == nil {
		return Message{}, errors.New("Advance: ctx is nil")
	}
	snap, err := s.begin()
	if err != nil {
		return Message{}, fmt.Errorf("Advance: %w", err)
	}
	defer s.end()

	var (
		msg  Message
		mind MindState
		char *Character
	)
	if snap.cfg.Deep {
		msg, mind, char, err = s.deepTurn(ctx, snap)
	} else {
		msg, mind, err = s.simpleTurn(ctx, snap)
	}
	if err != nil {
		snap.cfg.Logger.Warn("turn failed", zap.String("agent", snap.self.Name), zap.Error(err))
		return Message{}, fmt.Errorf("Advance: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateApplying
	s.store.commit(s.ids[snap.actor], mind, char)
	s.messages = append(s.messages, msg)
	s.turn = 1 - snap.actor
	snap.cfg.Logger.Debug("turn applied",
		zap.String("agent", snap.self.Name),
		zap.Int("turn", len(s.messages)),
		zap.Bool("deep", snap.cfg.Deep),
	)
	return msg, nil
}

func (s *TurnScheduler) newMessage(snap turnSnapshot, text string, mind MindState) Message {
	return Message{
		ID:        "msg-" + uuid.NewString(),
		Sender:    snap.self.Name,
		SenderID:  s.ids[snap.actor],
		Text:      text,
		Timestamp: snap.cfg.Now().UTC(),
		Mind:      mind,
	}
}

type turnAgent struct {
	Name       string    `json:"name"`
	SecretGoal string    `json:"secret_goal"`
	Mind       MindState `json:"mind_state"`
}

func (s *TurnScheduler) simpleTurn(ctx context.Context, snap turnSnapshot) (Message, MindState, error) {
	payload, err := json.Marshal(struct {
		Agent      turnAgent `json:"agent"`
		OtherAgent string    `json:"other_agent"`
		Context    string    `json:"scenario_context"`
		History    []logLine `json:"conversation_history"`
	}{
		Agent:      turnAgent{snap.self.Name, snap.self.SecretGoal, snap.mind},
		OtherAgent: snap.other.Name,
		Context:    snap.cfg.Context,
		History:    conversationLog(snap.history, false),
	})
	if err != nil {
		return Message{}, MindState{}, err
	}

	var raw turnWire
	err = provider.Decode(ctx, s.gw, provider.Request{
		Name:         "AgentTurn",
		Instructions: agentTurnPrompt,
		Input:        string(payload),
		Schema:       turnSchema,
		Temperature:  0.7,
	}, &raw)
	if err != nil {
		return Message{}, MindState{}, err
	}
	if strings.TrimSpace(raw.Message) == "" {
		return Message{}, MindState{}, &provider.GenerationError{Name: "AgentTurn", Err: errors.New("empty message")}
	}
	mind := MindState{
		SelfAnalysis:       raw.SelfAnalysis,
		ModelOfOther:       raw.ModelOfOther,
		ModelOfOthersModel: raw.ModelOfOthersModel,
	}
	return s.newMessage(snap, raw.Message, mind), mind, nil
}

func defenseBehaviors(ds []bridge.DefenseMechanism) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, fmt.Sprintf("%s: %s", d, DefenseBehavior(d)))
	}
	return out
}

func (s *TurnScheduler) deepTurn(ctx context.Context, snap turnSnapshot) (Message, MindState, *Character, error) {
	payload, err := json.Marshal(struct {
		Character   Character  `json:"character"`
		Description string     `json:"archetype_description"`
		Defenses    []string   `json:"defense_behaviors"`
		Mind        MindState  `json:"mind_state"`
		Counterpart PublicView `json:"counterpart"`
		Context     string     `json:"scenario_context"`
		History     []logLine  `json:"conversation_history"`
	}{
		Character:   snap.self,
		Description: ArchetypeDescription(snap.self.Unconscious.DominantArchetype),
		Defenses:    defenseBehaviors(snap.self.Unconscious.DefenseMechanisms),
		Mind:        snap.mind,
		Counterpart: snap.other.PublicView(),
		Context:     snap.cfg.Context,
		History:     conversationLog(snap.history, true),
	})
	if err != nil {
		return Message{}, MindState{}, nil, err
	}

	var raw deepTurnWire
	err = provider.Decode(ctx, s.gw, provider.Request{
		Name:         "DeepDialogue",
		Instructions: deepDialoguePrompt,
		Input:        string(payload),
		Schema:       deepTurnSchema,
		Temperature:  0.8,
	}, &raw)
	if err != nil {
		return Message{}, MindState{}, nil, err
	}
	if strings.TrimSpace(raw.Message) == "" {
		return Message{}, MindState{}, nil, &provider.GenerationError{Name: "DeepDialogue", Err: errors.New("empty message")}
	}
	mind := MindState{
		SelfAnalysis:       raw.SelfAnalysis,
		ModelOfOther:       raw.ModelOfOther,
		ModelOfOthersModel: raw.ModelOfOthersModel,
	}
	next := applyDeepTurn(snap.self, snap.other.ID, raw, mind)

	msg := s.newMessage(snap, raw.Message, mind)
	msg.Subtext = raw.Subtext
	if e := bridge.Emotion(enumValue(raw.FeltEmotion)); e.Valid() {
		msg.EmotionalTone = e
	}
	if d := bridge.DefenseMechanism(enumValue(raw.DefenseMechanismActive)); d.Valid() {
		msg.DefenseActive = d
	}
	return msg, mind, &next, nil
}

// applyDeepTurn returns self after speaking: the emotional state follows the
// felt and displayed emotions, and the model of the counterpart is replaced
// by one built from this turn alone.
func applyDeepTurn(self Character, otherID string, raw deepTurnWire, mind MindState) Character {
	c := self.Clone()
	es := &c.Conscious.EmotionalState
	felt := bridge.Emotion(enumValue(raw.FeltEmotion))
	shown := bridge.Emotion(enumValue(raw.DisplayedEmotion))
	if felt.Valid() {
		es.PrimaryEmotion = felt
	}
	if shown.Valid() {
		es.DisplayedEmotion = shown
	}
	es.SuppressedEmotion = ""
	if felt.Valid() && shown.Valid() && felt != shown {
		es.SuppressedEmotion = felt
	}
	if raw.EmotionalIntensity != nil {
		es.Intensity = clamp01(*raw.EmotionalIntensity)
	}

	c.Conscious.CurrentInterpretation = mind.ModelOfOther
	if raw.ArcMovement != "" {
		c.Conscious.Insight = raw.ArcMovement
	}
	c.Conscious.RecentEvents = append(c.Conscious.RecentEvents, fmt.Sprintf("%s: %s", c.Name, raw.Message))
	if n := len(c.Conscious.RecentEvents); n > recentEventsMax {
		c.Conscious.RecentEvents = c.Conscious.RecentEvents[n-recentEventsMax:]
	}

	if c.MindModels == nil {
		c.MindModels = map[string]DeepTheoryOfMind{}
	}
	c.MindModels[otherID] = DeepTheoryOfMind{
		MyConsciousState:   mind.SelfAnalysis,
		MyHiddenMotives:    raw.UnconsciousIntent,
		TheirApparentGoals: mind.ModelOfOther,
		HowTheySeeMe:       mind.ModelOfOthersModel,
		AmIProjecting:      raw.ProjectionPresent,
	}
	return c
}

func enumValue(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
