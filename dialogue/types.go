// Package dialogue simulates a two-agent conversation in which each agent keeps
// a recursive model of the other: what it is doing, what it thinks the other
// wants, and what it thinks the other thinks of it.
package dialogue

import (
	"maps"
	"slices"
	"time"

	"github.com/theimaginaryfoundation/signal-bridge/bridge"
)

// MindState is an agent's three-level theory of mind after its latest turn.
type MindState struct {
	SelfAnalysis       string `json:"selfAnalysis"`
	ModelOfOther       string `json:"modelOfOther"`
	ModelOfOthersModel string `json:"modelOfOthersModel"`
}

type AttachmentStyle string

const (
	AttachmentSecure       AttachmentStyle = "SECURE"
	AttachmentAnxious      AttachmentStyle = "ANXIOUS"
	AttachmentAvoidant     AttachmentStyle = "AVOIDANT"
	AttachmentDisorganized AttachmentStyle = "DISORGANIZED"
)

type CommunicationStyle string

const (
	CommunicationAssertive         CommunicationStyle = "ASSERTIVE"
	CommunicationPassive           CommunicationStyle = "PASSIVE"
	CommunicationAggressive        CommunicationStyle = "AGGRESSIVE"
	CommunicationPassiveAggressive CommunicationStyle = "PASSIVE_AGGRESSIVE"
)

// ArcStage is a step of the hero's-journey arc.
type ArcStage string

const (
	StageOrdinaryWorld     ArcStage = "ORDINARY_WORLD"
	StageCallToAdventure   ArcStage = "CALL_TO_ADVENTURE"
	StageRefusal           ArcStage = "REFUSAL"
	StageMeetingMentor     ArcStage = "MEETING_MENTOR"
	StageCrossingThreshold ArcStage = "CROSSING_THRESHOLD"
	StageTestsAndAllies    ArcStage = "TESTS_AND_ALLIES"
	StageApproach          ArcStage = "APPROACH"
	StageOrdeal            ArcStage = "ORDEAL"
	StageReward            ArcStage = "REWARD"
	StageRoadBack          ArcStage = "ROAD_BACK"
	StageResurrection      ArcStage = "RESURRECTION"
	StageReturnWithElixir  ArcStage = "RETURN_WITH_ELIXIR"
)

// ArcStages lists the stages in journey order.
var ArcStages = []ArcStage{
	StageOrdinaryWorld, StageCallToAdventure, StageRefusal, StageMeetingMentor,
	StageCrossingThreshold, StageTestsAndAllies, StageApproach, StageOrdeal,
	StageReward, StageRoadBack, StageResurrection, StageReturnWithElixir,
}

func (v ArcStage) Valid() bool { return slices.Contains(ArcStages, v) }

type ArchetypeInfluence struct {
	Archetype    bridge.PrimaryArchetype `json:"archetype"`
	Strength     float64                 `json:"strength"`
	Integrated   bool                    `json:"integrated"`
	ShadowAspect string                  `json:"shadow_aspect"`
}

// UnconsciousLayer is hidden even from the character.
type UnconsciousLayer struct {
	CoreWound              string                    `json:"core_wound"`
	DeepestFear            string                    `json:"deepest_fear"`
	DeepestDesire          string                    `json:"deepest_desire"`
	ShadowTraits           []string                  `json:"shadow_traits"`
	Projections            []string                  `json:"projections"`
	DominantArchetype      bridge.PrimaryArchetype   `json:"dominant_archetype"`
	ArchetypeConstellation []ArchetypeInfluence      `json:"archetype_constellation"`
	RepressedMemories      []string                  `json:"repressed_memories"`
	DefenseMechanisms      []bridge.DefenseMechanism `json:"defense_mechanisms"`
}

// PreconsciousLayer is accessible to the character but not active.
type PreconsciousLayer struct {
	MemoriesInReach       []string          `json:"memories_in_reach"`
	LearnedPatterns       []string          `json:"learned_patterns"`
	EmotionalAssociations map[string]string `json:"emotional_associations"`
	CoreBeliefs           []string          `json:"core_beliefs"`
	CognitiveDistortions  []string          `json:"cognitive_distortions"`
	AttachmentStyle       AttachmentStyle   `json:"attachment_style"`
	InterpersonalScripts  []string          `json:"interpersonal_scripts"`
}

type EmotionalState struct {
	PrimaryEmotion    bridge.Emotion   `json:"primary_emotion"`
	Intensity         float64          `json:"intensity"`
	SecondaryEmotions []bridge.Emotion `json:"secondary_emotions"`
	Valence           float64          `json:"valence"`
	Arousal           float64          `json:"arousal"`
	SuppressedEmotion bridge.Emotion   `json:"suppressed_emotion,omitempty"`
	DisplayedEmotion  bridge.Emotion   `json:"displayed_emotion,omitempty"`
}

// ConsciousLayer is what the character is currently aware of.
type ConsciousLayer struct {
	CurrentFocus          string         `json:"current_focus"`
	EmotionalState        EmotionalState `json:"emotional_state"`
	ConsciousGoals        []string       `json:"conscious_goals"`
	RecentEvents          []string       `json:"recent_events"`
	CurrentInterpretation string         `json:"current_interpretation"`
	SelfAwarenessLevel    float64        `json:"self_awareness_level"`
	Insight               string         `json:"insight"`
}

// Persona is the mask shown to others.
type Persona struct {
	PublicIdentity     string             `json:"public_identity"`
	SocialRole         string             `json:"social_role"`
	PresentationStyle  string             `json:"presentation_style"`
	HiddenFromOthers   []string           `json:"hidden_from_others"`
	PerformedTraits    []string           `json:"performed_traits"`
	SpeechPatterns     []string           `json:"speech_patterns"`
	TypicalPhrases     []string           `json:"typical_phrases"`
	CommunicationStyle CommunicationStyle `json:"communication_style"`
}

// CharacterArc is set from the seed and never advanced by turns or beats.
// CurrentStage and TransformationProgress keep their seeded values.
type CharacterArc struct {
	StartingState          string   `json:"starting_state"`
	WoundToHeal            string   `json:"wound_to_heal"`
	LieBelieved            string   `json:"lie_believed"`
	TruthToLearn           string   `json:"truth_to_learn"`
	CurrentStage           ArcStage `json:"current_stage"`
	TransformationProgress float64  `json:"transformation_progress"`
}

// DeepTheoryOfMind is one character's layered model of another.
type DeepTheoryOfMind struct {
	MyConsciousState           string  `json:"my_conscious_state"`
	MyHiddenMotives            string  `json:"my_hidden_motives"`
	MyBlindSpots               string  `json:"my_blind_spots"`
	TheirApparentGoals         string  `json:"their_apparent_goals"`
	TheirSuspectedSecrets      string  `json:"their_suspected_secrets"`
	TheirPerceivedEmotions     string  `json:"their_perceived_emotions"`
	TheirSuspectedWounds       string  `json:"their_suspected_wounds"`
	HowTheySeeMe               string  `json:"how_they_see_me"`
	WhatTheySuspectAboutMe     string  `json:"what_they_suspect_about_me"`
	TheirEmotionalReactionToMe string  `json:"their_emotional_reaction_to_me"`
	WhatTheyThinkIThinkOfThem  string  `json:"what_they_think_i_think_of_them"`
	AmIProjecting              string  `json:"am_i_projecting"`
	AreTheyProjecting          string  `json:"are_they_projecting"`
	LeveragePoints             string  `json:"leverage_points"`
	VulnerabilitiesExposed     string  `json:"vulnerabilities_exposed"`
	TrustLevel                 float64 `json:"trust_level"`
	DeceptionDetected          float64 `json:"deception_detected"`
}

// Character is the deep-mode psyche of one agent.
type Character struct {
	ID           string                      `json:"id"`
	Name         string                      `json:"name"`
	Age          int                         `json:"age"`
	Background   string                      `json:"background"`
	Color        string                      `json:"color"`
	Avatar       string                      `json:"avatar"`
	Unconscious  UnconsciousLayer            `json:"unconscious"`
	Preconscious PreconsciousLayer           `json:"preconscious"`
	Conscious    ConsciousLayer              `json:"conscious"`
	Persona      Persona                     `json:"persona"`
	StoryRole    bridge.PrimaryArchetype     `json:"story_role"`
	Arc          CharacterArc                `json:"character_arc"`
	MindModels   map[string]DeepTheoryOfMind `json:"mind_models"`
	SecretGoal   string                      `json:"secret_goal"`
}

// Clone returns a copy that shares no slices or maps with c.
func (c Character) Clone() Character {
	out := c
	out.Unconscious.ShadowTraits = slices.Clone(c.Unconscious.ShadowTraits)
	out.Unconscious.Projections = slices.Clone(c.Unconscious.Projections)
	out.Unconscious.ArchetypeConstellation = slices.Clone(c.Unconscious.ArchetypeConstellation)
	out.Unconscious.RepressedMemories = slices.Clone(c.Unconscious.RepressedMemories)
	out.Unconscious.DefenseMechanisms = slices.Clone(c.Unconscious.DefenseMechanisms)

	out.Preconscious.MemoriesInReach = slices.Clone(c.Preconscious.MemoriesInReach)
	out.Preconscious.LearnedPatterns = slices.Clone(c.Preconscious.LearnedPatterns)
	out.Preconscious.EmotionalAssociations = maps.Clone(c.Preconscious.EmotionalAssociations)
	out.Preconscious.CoreBeliefs = slices.Clone(c.Preconscious.CoreBeliefs)
	out.Preconscious.CognitiveDistortions = slices.Clone(c.Preconscious.CognitiveDistortions)
	out.Preconscious.InterpersonalScripts = slices.Clone(c.Preconscious.InterpersonalScripts)

	out.Conscious.EmotionalState.SecondaryEmotions = slices.Clone(c.Conscious.EmotionalState.SecondaryEmotions)
	out.Conscious.ConsciousGoals = slices.Clone(c.Conscious.ConsciousGoals)
	out.Conscious.RecentEvents = slices.Clone(c.Conscious.RecentEvents)

	out.Persona.HiddenFromOthers = slices.Clone(c.Persona.HiddenFromOthers)
	out.Persona.PerformedTraits = slices.Clone(c.Persona.PerformedTraits)
	out.Persona.SpeechPatterns = slices.Clone(c.Persona.SpeechPatterns)
	out.Persona.TypicalPhrases = slices.Clone(c.Persona.TypicalPhrases)

	out.MindModels = maps.Clone(c.MindModels)
	return out
}

// PublicView is what a counterpart can observe of a character. It never carries
// the unconscious layer or the secret goal.
type PublicView struct {
	ID                 string                  `json:"id"`
	Name               string                  `json:"name"`
	Archetype          bridge.PrimaryArchetype `json:"archetype"`
	PublicIdentity     string                  `json:"public_identity"`
	PresentationStyle  string                  `json:"presentation_style"`
	CommunicationStyle CommunicationStyle      `json:"communication_style"`
	DisplayedEmotion   bridge.Emotion          `json:"displayed_emotion"`
	ApparentGoal       string                  `json:"apparent_goal"`
}

func (c Character) PublicView() PublicView {
	shown := c.Conscious.EmotionalState.DisplayedEmotion
	if shown == "" {
		shown = c.Conscious.EmotionalState.PrimaryEmotion
	}
	goal := c.Persona.SocialRole
	if goal == "" {
		goal = "Unknown"
	}
	return PublicView{
		ID:                 c.ID,
		Name:               c.Name,
		Archetype:          c.Unconscious.DominantArchetype,
		PublicIdentity:     c.Persona.PublicIdentity,
		PresentationStyle:  c.Persona.PresentationStyle,
		CommunicationStyle: c.Persona.CommunicationStyle,
		DisplayedEmotion:   shown,
		ApparentGoal:       goal,
	}
}

// Message is one committed turn. Mind is the sender's mind state right after
// the turn, so the evolution of each agent can be rebuilt from the log.
type Message struct {
	ID            string                  `json:"id"`
	Sender        string                  `json:"sender"`
	SenderID      string                  `json:"sender_id"`
	Text          string                  `json:"text"`
	Timestamp     time.Time               `json:"timestamp"`
	Subtext       string                  `json:"subtext,omitempty"`
	EmotionalTone bridge.Emotion          `json:"emotional_tone,omitempty"`
	DefenseActive bridge.DefenseMechanism `json:"defense_active,omitempty"`
	Mind          MindState               `json:"mind_state"`
}

// Seed is the minimal description a character is grown from.
type Seed struct {
	Name       string                  `json:"name" yaml:"name"`
	Archetype  bridge.PrimaryArchetype `json:"archetype" yaml:"archetype"`
	CoreWound  string                  `json:"core_wound" yaml:"core_wound"`
	SecretGoal string                  `json:"secret_goal" yaml:"secret_goal"`
	Color      string                  `json:"color,omitempty" yaml:"color,omitempty"`
}
