package dialogue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/theimaginaryfoundation/signal-bridge/bridge/provider"
)

type ActionType string

const (
	ActionDialogue ActionType = "DIALOGUE"
	ActionAction   ActionType = "ACTION"
	ActionInternal ActionType = "INTERNAL"
	ActionReaction ActionType = "REACTION"
)

func (v ActionType) Valid() bool {
	switch v {
	case ActionDialogue, ActionAction, ActionInternal, ActionReaction:
		return true
	}
	return false
}

// Scene is the stage a beat is played on.
type Scene struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Setting   string `json:"setting" yaml:"setting"`
	SceneGoal string `json:"scene_goal" yaml:"scene_goal"`
	Conflict  string `json:"conflict" yaml:"conflict"`
	Stakes    string `json:"stakes" yaml:"stakes"`
}

// NarrativeState is the story-level frame around a scene.
type NarrativeState struct {
	Theme            string  `json:"theme" yaml:"theme"`
	CentralConflict  string  `json:"central_conflict" yaml:"central_conflict"`
	TensionLevel     float64 `json:"tension_level" yaml:"tension_level"`
	DramaticQuestion string  `json:"dramatic_question" yaml:"dramatic_question"`
}

type SceneBeat struct {
	CharacterID       string     `json:"character_id"`
	ActionType        ActionType `json:"action_type"`
	Content           string     `json:"content"`
	Subtext           string     `json:"subtext"`
	ConsciousIntent   string     `json:"conscious_intent"`
	UnconsciousDriver string     `json:"unconscious_driver"`
	PerceivedAs       string     `json:"perceived_as"`
	ActualEffect      string     `json:"actual_effect"`
}

type ProjectionEvent struct {
	ProjectorID        string `json:"projector_id"`
	RecipientID        string `json:"recipient_id"`
	ProjectedTrait     string `json:"projected_trait"`
	ActualOwner        string `json:"actual_owner"`
	ConsciousAwareness bool   `json:"conscious_awareness"`
	NarrativeImpact    string `json:"narrative_impact"`
}

type BeliefChallenge struct {
	CharacterID         string `json:"character_id"`
	BeliefChallenged    string `json:"belief_challenged"`
	ChallengingEvidence string `json:"challenging_evidence"`
	Response            string `json:"response"`
	GrowthOpportunity   string `json:"growth_opportunity"`
}

type ShadowTouch struct {
	CharacterID            string `json:"character_id"`
	ShadowAspect           string `json:"shadow_aspect"`
	Trigger                string `json:"trigger"`
	Reaction               string `json:"reaction"`
	IntegrationOpportunity string `json:"integration_opportunity"`
}

// BeatResult is one generated beat and the psychological events it carried.
type BeatResult struct {
	Beat        SceneBeat         `json:"beat"`
	Projections []ProjectionEvent `json:"projections"`
	Beliefs     []BeliefChallenge `json:"beliefs"`
	Shadows     []ShadowTouch     `json:"shadows"`
}

type sceneBeatWire struct {
	ActionType          string   `json:"action_type" jsonschema:"enum=DIALOGUE,enum=ACTION,enum=INTERNAL,enum=REACTION"`
	Content             string   `json:"content" jsonschema:"description=The actual dialogue or action"`
	Subtext             string   `json:"subtext" jsonschema:"description=What is really being communicated beneath the surface"`
	ConsciousIntent     string   `json:"conscious_intent" jsonschema:"description=What the character thinks they are doing"`
	UnconsciousDriver   string   `json:"unconscious_driver" jsonschema:"description=The deeper psychological need being expressed"`
	PerceivedAs         string   `json:"perceived_as" jsonschema:"description=How others in the scene interpret this"`
	ActualEffect        string   `json:"actual_effect" jsonschema:"description=What this actually accomplishes"`
	ProjectionOccurring bool     `json:"projection_occurring"`
	ProjectionDetail    string   `json:"projection_detail" jsonschema:"description=If projecting then what trait and onto whom"`
	DefenseMechanism    string   `json:"defense_mechanism"`
	ShadowActivated     bool     `json:"shadow_activated"`
	ShadowDetail        string   `json:"shadow_detail"`
	BeliefChallenged    bool     `json:"belief_challenged"`
	BeliefDetail        string   `json:"belief_detail"`
	EmotionalShift      string   `json:"emotional_shift"`
	NewPrimaryEmotion   string   `json:"new_primary_emotion"`
	Intensity           *float64 `json:"intensity"`
}

var sceneBeatSchema = provider.GenerateSchema[sceneBeatWire]()

// shapeBeat turns a raw beat into a SceneBeat plus events. An event is only
// recorded when its flag is set and it has a detail.
func shapeBeat(raw sceneBeatWire, characterID, recipientID string) BeatResult {
	action := ActionType(enumValue(raw.ActionType))
	if !action.Valid() {
		action = ActionDialogue
	}
	beat := SceneBeat{
		CharacterID:       characterID,
		ActionType:        action,
		Content:           raw.Content,
		Subtext:           raw.Subtext,
		ConsciousIntent:   raw.ConsciousIntent,
		UnconsciousDriver: raw.UnconsciousDriver,
		PerceivedAs:       raw.PerceivedAs,
		ActualEffect:      raw.ActualEffect,
	}
	if recipientID == "" {
		recipientID = "unknown"
	}
	out := BeatResult{
		Beat:        beat,
		Projections: []ProjectionEvent{},
		Beliefs:     []BeliefChallenge{},
		Shadows:     []ShadowTouch{},
	}
	if raw.ProjectionOccurring && raw.ProjectionDetail != "" {
		out.Projections = append(out.Projections, ProjectionEvent{
			ProjectorID:        characterID,
			RecipientID:        recipientID,
			ProjectedTrait:     raw.ProjectionDetail,
			ActualOwner:        "PROJECTOR",
			ConsciousAwareness: false,
			NarrativeImpact:    "Creating conflict through misattribution",
		})
	}
	if raw.BeliefChallenged && raw.BeliefDetail != "" {
		out.Beliefs = append(out.Beliefs, BeliefChallenge{
			CharacterID:         characterID,
			BeliefChallenged:    raw.BeliefDetail,
			ChallengingEvidence: beat.Content,
			Response:            "DEFEND",
			GrowthOpportunity:   "Potential to update worldview",
		})
	}
	if raw.ShadowActivated && raw.ShadowDetail != "" {
		out.Shadows = append(out.Shadows, ShadowTouch{
			CharacterID:            characterID,
			ShadowAspect:           raw.ShadowDetail,
			Trigger:                beat.Content,
			Reaction:               "Defensive posturing",
			IntegrationOpportunity: "Chance to acknowledge this aspect",
		})
	}
	return out
}

// GenerateSceneBeat produces self's next beat in scene. Only the last five
// previous beats are sent.
func GenerateSceneBeat(ctx context.Context, gw provider.Gateway, self Character, scene Scene, others []PublicView, previous []SceneBeat, narrative NarrativeState) (BeatResult, error) {
	if ctx == nil {
		return BeatResult{}, errors.New("GenerateSceneBeat: ctx is nil")
	}
	payload, err := json.Marshal(struct {
		Character   Character      `json:"character"`
		Description string         `json:"archetype_description"`
		Defenses    []string       `json:"defense_behaviors"`
		Others      []PublicView   `json:"others"`
		Scene       Scene          `json:"scene"`
		Previous    []SceneBeat    `json:"previous_beats"`
		Narrative   NarrativeState `json:"narrative"`
	}{
		Character:   self,
		Description: ArchetypeDescription(self.Unconscious.DominantArchetype),
		Defenses:    defenseBehaviors(self.Unconscious.DefenseMechanisms),
		Others:      nonNil(others),
		Scene:       scene,
		Previous:    nonNil(limitTail(previous, 5)),
		Narrative:   narrative,
	})
	if err != nil {
		return BeatResult{}, err
	}

	var raw sceneBeatWire
	err = provider.Decode(ctx, gw, provider.Request{
		Name:         "SceneBeat",
		Instructions: sceneBeatPrompt,
		Input:        string(payload),
		Schema:       sceneBeatSchema,
		Temperature:  0.85,
	}, &raw)
	if err != nil {
		return BeatResult{}, err
	}
	if strings.TrimSpace(raw.Content) == "" {
		return BeatResult{}, &provider.GenerationError{Name: "SceneBeat", Err: errors.New("empty content")}
	}
	var recipient string
	if len(others) > 0 {
		recipient = others[0].ID
	}
	return shapeBeat(raw, self.ID, recipient), nil
}

// Beat plays the acting agent's next scene beat and hands the turn over.
// Projected traits are added to the agent's unconscious projections. The
// message log and mind states are not touched.
func (s *TurnScheduler) Beat(ctx context.Context, scene Scene, narrative NarrativeState) (BeatResult, error) {
	if ctx == nil {
		return BeatResult{}, errors.New("Beat: ctx is nil")
	}
	snap, err := s.begin()
	if err != nil {
		return BeatResult{}, fmt.Errorf("Beat: %w", err)
	}
	defer s.end()

	res, err := GenerateSceneBeat(ctx, s.gw, snap.self, scene, []PublicView{snap.other.PublicView()}, snap.prevBeats, narrative)
	if err != nil {
		return BeatResult{}, fmt.Errorf("Beat: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateApplying
	if len(res.Projections) > 0 {
		next := snap.self.Clone()
		for _, p := range res.Projections {
			next.Unconscious.Projections = append(next.Unconscious.Projections, p.ProjectedTrait)
		}
		s.store.ReplaceCharacter(s.ids[snap.actor], next)
	}
	s.beats = append(s.beats, res.Beat)
	s.turn = 1 - snap.actor
	snap.cfg.Logger.Debug("beat applied",
		zap.String("agent", snap.self.Name),
		zap.String("action", string(res.Beat.ActionType)),
		zap.Int("projections", len(res.Projections)),
		zap.Int("beliefs", len(res.Beliefs)),
		zap.Int("shadows", len(res.Shadows)),
	)
	return res, nil
}
