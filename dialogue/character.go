package dialogue

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/theimaginaryfoundation/signal-bridge/bridge"
)

const defaultAge = 35

// NewCharacterFromSeed grows a full psyche from a seed using the archetype
// defaults. Only the name, wound, goal and color come from the seed; the same
// archetype always yields the same fear, desire, beliefs and arc. An empty
// archetype means HERO.
func NewCharacterFromSeed(seed Seed) (Character, error) {
	name := strings.TrimSpace(seed.Name)
	if name == "" {
		return Character{}, fmt.Errorf("NewCharacterFromSeed: name is empty")
	}
	archetype := seed.Archetype
	if archetype == "" {
		archetype = bridge.ArchetypeHero
	}
	d, ok := ArchetypeDefaultsFor(archetype)
	if !ok {
		return Character{}, fmt.Errorf("NewCharacterFromSeed: unknown archetype %q", seed.Archetype)
	}
	color := seed.Color
	if color == "" {
		color = d.Color
	}
	avatar, _ := utf8.DecodeRuneInString(name)

	return Character{
		ID:         uuid.NewString(),
		Name:       name,
		Age:        defaultAge,
		Background: fmt.Sprintf("A %s figure carrying the wound of %q", strings.ToLower(string(archetype)), seed.CoreWound),
		Color:      color,
		Avatar:     string(avatar),
		Unconscious: UnconsciousLayer{
			CoreWound:         seed.CoreWound,
			DeepestFear:       d.DeepestFear,
			DeepestDesire:     d.DeepestDesire,
			ShadowTraits:      d.ShadowTraits,
			Projections:       []string{},
			DominantArchetype: archetype,
			ArchetypeConstellation: []ArchetypeInfluence{
				{Archetype: archetype, Strength: 0.8, Integrated: false, ShadowAspect: d.ShadowAspect},
			},
			RepressedMemories: []string{},
			DefenseMechanisms: d.DefenseMechanisms,
		},
		Preconscious: PreconsciousLayer{
			MemoriesInReach:       []string{},
			LearnedPatterns:       d.LearnedPatterns,
			EmotionalAssociations: map[string]string{},
			CoreBeliefs:           d.CoreBeliefs,
			CognitiveDistortions:  []string{},
			AttachmentStyle:       d.AttachmentStyle,
			InterpersonalScripts:  []string{},
		},
		Conscious: ConsciousLayer{
			CurrentFocus: seed.SecretGoal,
			EmotionalState: EmotionalState{
				PrimaryEmotion:    bridge.EmotionAnticipation,
				Intensity:         0.6,
				SecondaryEmotions: []bridge.Emotion{},
				Valence:           0.2,
				Arousal:           0.5,
			},
			ConsciousGoals:     []string{seed.SecretGoal},
			RecentEvents:       []string{},
			SelfAwarenessLevel: 0.5,
		},
		Persona: Persona{
			PublicIdentity:     d.PublicIdentity,
			PresentationStyle:  d.PresentationStyle,
			HiddenFromOthers:   []string{seed.SecretGoal},
			PerformedTraits:    []string{},
			SpeechPatterns:     d.SpeechPatterns,
			TypicalPhrases:     []string{},
			CommunicationStyle: d.CommunicationStyle,
		},
		StoryRole: archetype,
		Arc: CharacterArc{
			StartingState: fmt.Sprintf("Living with the wound of %q", seed.CoreWound),
			WoundToHeal:   seed.CoreWound,
			LieBelieved:   d.LieBelieved,
			TruthToLearn:  d.TruthToLearn,
			CurrentStage:  StageOrdinaryWorld,
		},
		MindModels: map[string]DeepTheoryOfMind{},
		SecretGoal: seed.SecretGoal,
	}, nil
}
