package dialogue

import "github.com/theimaginaryfoundation/signal-bridge/bridge"

// ArchetypeDefaults are the fixed traits a seeded character starts with.
type ArchetypeDefaults struct {
	Color              string
	DeepestFear        string
	DeepestDesire      string
	ShadowTraits       []string
	ShadowAspect       string
	DefenseMechanisms  []bridge.DefenseMechanism
	LearnedPatterns    []string
	CoreBeliefs        []string
	AttachmentStyle    AttachmentStyle
	PublicIdentity     string
	PresentationStyle  string
	SpeechPatterns     []string
	CommunicationStyle CommunicationStyle
	LieBelieved        string
	TruthToLearn       string
}

// ArchetypeDefaultsFor returns the default table row for a. The second result
// is false for an unknown archetype. Every call returns fresh slices.
func ArchetypeDefaultsFor(a bridge.PrimaryArchetype) (ArchetypeDefaults, bool) {
	switch a {
	case bridge.ArchetypeHero:
		return ArchetypeDefaults{
			Color:              "blue",
			DeepestFear:        "Being powerless, failing those who depend on me",
			DeepestDesire:      "To prove my worth through meaningful action",
			ShadowTraits:       []string{"Recklessness", "Savior complex", "Fear of vulnerability"},
			ShadowAspect:       "The tyrant who imposes will on others",
			DefenseMechanisms:  []bridge.DefenseMechanism{bridge.DefenseReactionFormation, bridge.DefenseSublimation},
			LearnedPatterns:    []string{"Take responsibility", "Act before thinking", "Protect others at cost to self"},
			CoreBeliefs:        []string{"I must be strong", "Showing weakness is dangerous", "I can fix things"},
			AttachmentStyle:    AttachmentAvoidant,
			PublicIdentity:     "The capable one, the one who handles things",
			PresentationStyle:  "Confident, action-oriented, dependable",
			SpeechPatterns:     []string{"Direct statements", "Action-focused language", "Minimizing personal needs"},
			CommunicationStyle: CommunicationAssertive,
			LieBelieved:        "I don't need anyone",
			TruthToLearn:       "Vulnerability is the birthplace of courage",
		}, true
	case bridge.ArchetypeShadow:
		return ArchetypeDefaults{
			Color:              "gray",
			DeepestFear:        "Being integrated, losing the power of otherness",
			DeepestDesire:      "To be acknowledged, to be seen as having value",
			ShadowTraits:       []string{"Destructiveness", "Envy", "Rage"},
			ShadowAspect:       "Total identification with darkness",
			DefenseMechanisms:  []bridge.DefenseMechanism{bridge.DefenseProjection, bridge.DefenseDisplacement},
			LearnedPatterns:    []string{"Attack before being attacked", "Trust no one", "Power through fear"},
			CoreBeliefs:        []string{"The world rejected me first", "Destruction is creation", "I am what they fear"},
			AttachmentStyle:    AttachmentDisorganized,
			PublicIdentity:     "The outsider, the one who sees truths others deny",
			PresentationStyle:  "Intense, unsettling, magnetic",
			SpeechPatterns:     []string{"Uncomfortable truths", "Provocative statements", "Cutting insight"},
			CommunicationStyle: CommunicationAggressive,
			LieBelieved:        "I am only the darkness",
			TruthToLearn:       "The shadow is a doorway to wholeness",
		}, true
	case bridge.ArchetypeMentor:
		return ArchetypeDefaults{
			Color:              "gold",
			DeepestFear:        "Being useless, having nothing left to give",
			DeepestDesire:      "To see my wisdom live on in others",
			ShadowTraits:       []string{"Condescension", "Inability to let go", "Vicarious living"},
			ShadowAspect:       "The false guide who creates dependence",
			DefenseMechanisms:  []bridge.DefenseMechanism{bridge.DefenseIntellectualization, bridge.DefenseSublimation},
			LearnedPatterns:    []string{"Teach rather than do", "Share hard-won wisdom", "Step back at the crucial moment"},
			CoreBeliefs:        []string{"Knowledge is sacred", "Growth requires guidance", "My time has passed but my wisdom remains"},
			AttachmentStyle:    AttachmentSecure,
			PublicIdentity:     "The wise elder, the keeper of knowledge",
			PresentationStyle:  "Patient, knowing, sometimes cryptic",
			SpeechPatterns:     []string{"Parables and metaphors", "Questions that lead to answers", "Gentle challenges"},
			CommunicationStyle: CommunicationAssertive,
			LieBelieved:        "I must always have the answer",
			TruthToLearn:       "Sometimes not knowing is the gift",
		}, true
	case bridge.ArchetypeHerald:
		return ArchetypeDefaults{
			Color:              "orange",
			DeepestFear:        "Returning to stasis, being ignored",
			DeepestDesire:      "To matter, to be the catalyst for change",
			ShadowTraits:       []string{"Chaos-seeking", "Insensitivity to cost", "Addiction to disruption"},
			ShadowAspect:       "Destruction without purpose",
			DefenseMechanisms:  []bridge.DefenseMechanism{bridge.DefenseDenial, bridge.DefenseRationalization},
			LearnedPatterns:    []string{"Break comfortable silences", "Deliver unwanted truth", "Force the issue"},
			CoreBeliefs:        []string{"Stasis is death", "Change is always necessary", "Someone must speak"},
			AttachmentStyle:    AttachmentAnxious,
			PublicIdentity:     "The messenger, the one who brings news",
			PresentationStyle:  "Urgent, compelling, disruptive",
			SpeechPatterns:     []string{"Announcements", "Urgent declarations", "Challenge to action"},
			CommunicationStyle: CommunicationAssertive,
			LieBelieved:        "I am only valuable when bringing change",
			TruthToLearn:       "Stillness also has wisdom",
		}, true
	case bridge.ArchetypeThresholdGuardian:
		return ArchetypeDefaults{
			Color:              "bronze",
			DeepestFear:        "The unworthy passing through",
			DeepestDesire:      "To find someone truly worthy",
			ShadowTraits:       []string{"Petty tyranny", "Enjoying others' failure", "Rigid cruelty"},
			ShadowAspect:       "The bureaucrat who blocks for pleasure",
			DefenseMechanisms:  []bridge.DefenseMechanism{bridge.DefenseReactionFormation, bridge.DefenseRationalization},
			LearnedPatterns:    []string{"Test before trusting", "Protect the sacred", "Challenge the confident"},
			CoreBeliefs:        []string{"Not everyone deserves passage", "Testing reveals truth", "Standards must be maintained"},
			AttachmentStyle:    AttachmentAvoidant,
			PublicIdentity:     "The gatekeeper, the tester",
			PresentationStyle:  "Challenging, skeptical, demanding",
			SpeechPatterns:     []string{"Challenges", "Standards", "Requirements"},
			CommunicationStyle: CommunicationPassiveAggressive,
			LieBelieved:        "I am protecting something sacred",
			TruthToLearn:       "Sometimes the gate should be opened",
		}, true
	case bridge.ArchetypeShapeshifter:
		return ArchetypeDefaults{
			Color:              "purple",
			DeepestFear:        "Being pinned down, truly known",
			DeepestDesire:      "To find a form that is truly mine",
			ShadowTraits:       []string{"Unreliability", "Identity dissolution", "Manipulation"},
			ShadowAspect:       "Complete loss of self in endless transformation",
			DefenseMechanisms:  []bridge.DefenseMechanism{bridge.DefenseDisplacement, bridge.DefenseProjection},
			LearnedPatterns:    []string{"Adapt to survive", "Show them what they want", "Keep real self hidden"},
			CoreBeliefs:        []string{"Identity is fluid", "Everyone wears masks", "Certainty is illusion"},
			AttachmentStyle:    AttachmentDisorganized,
			PublicIdentity:     "Different things to different people",
			PresentationStyle:  "Mercurial, alluring, unpredictable",
			SpeechPatterns:     []string{"Mirrors others' speech", "Ambiguous statements", "Questions that reveal others"},
			CommunicationStyle: CommunicationPassive,
			LieBelieved:        "I have no true self",
			TruthToLearn:       "Beneath all masks is something real",
		}, true
	case bridge.ArchetypeTrickster:
		return ArchetypeDefaults{
			Color:              "green",
			DeepestFear:        "Being trapped in seriousness, losing the absurd",
			DeepestDesire:      "To reveal truth through chaos",
			ShadowTraits:       []string{"Cruelty disguised as humor", "Destruction without purpose", "Fear of depth"},
			ShadowAspect:       "The jester become torturer",
			DefenseMechanisms:  []bridge.DefenseMechanism{bridge.DefenseIntellectualization, bridge.DefenseDenial},
			LearnedPatterns:    []string{"Deflect with humor", "Break rules to reveal their absurdity", "Never be fully serious"},
			CoreBeliefs:        []string{"Rules are for breaking", "Laughter reveals truth", "Nothing is truly sacred"},
			AttachmentStyle:    AttachmentAvoidant,
			PublicIdentity:     "The fool, the clever one, the rule-breaker",
			PresentationStyle:  "Playful, irreverent, quick-witted",
			SpeechPatterns:     []string{"Jokes at crucial moments", "Subversive observations", "Mock-serious tone"},
			CommunicationStyle: CommunicationPassiveAggressive,
			LieBelieved:        "Nothing matters enough to take seriously",
			TruthToLearn:       "Some things are worth being earnest about",
		}, true
	case bridge.ArchetypeAlly:
		return ArchetypeDefaults{
			Color:              "teal",
			DeepestFear:        "Being abandoned, being alone again",
			DeepestDesire:      "To be indispensable to someone",
			ShadowTraits:       []string{"Enabling", "Losing self in service", "Passive aggression"},
			ShadowAspect:       "The sidekick who secretly resents",
			DefenseMechanisms:  []bridge.DefenseMechanism{bridge.DefenseReactionFormation, bridge.DefenseRepression},
			LearnedPatterns:    []string{"Support before self", "Be useful", "Maintain connection at any cost"},
			CoreBeliefs:        []string{"I am valued for what I do, not who I am", "Connection is survival", "My needs come second"},
			AttachmentStyle:    AttachmentAnxious,
			PublicIdentity:     "The loyal friend, the supportive one",
			PresentationStyle:  "Warm, reliable, self-effacing",
			SpeechPatterns:     []string{"Supportive affirmations", "Minimizing own needs", "Focusing on others"},
			CommunicationStyle: CommunicationPassive,
			LieBelieved:        "I don't need to matter on my own",
			TruthToLearn:       "I am worthy of my own story",
		}, true
	case bridge.ArchetypeMother:
		return ArchetypeDefaults{
			Color:              "rose",
			DeepestFear:        "Being unable to protect, watching children suffer",
			DeepestDesire:      "To nurture life, to see growth",
			ShadowTraits:       []string{"Smothering", "Devouring love", "Guilt manipulation"},
			ShadowAspect:       "The terrible mother who consumes",
			DefenseMechanisms:  []bridge.DefenseMechanism{bridge.DefenseReactionFormation, bridge.DefenseDenial},
			LearnedPatterns:    []string{"Put children first", "Sacrifice self for others", "Create safety"},
			CoreBeliefs:        []string{"My purpose is to nurture", "I can make things safe", "Love means sacrifice"},
			AttachmentStyle:    AttachmentAnxious,
			PublicIdentity:     "The nurturer, the caregiver, the protector",
			PresentationStyle:  "Warm, encompassing, sometimes overwhelming",
			SpeechPatterns:     []string{"Terms of endearment", "Expressions of concern", "Nurturing observations"},
			CommunicationStyle: CommunicationPassive,
			LieBelieved:        "I must always give to be loved",
			TruthToLearn:       "Receiving is also a gift",
		}, true
	case bridge.ArchetypeFather:
		return ArchetypeDefaults{
			Color:              "navy",
			DeepestFear:        "Chaos, loss of order, things falling apart",
			DeepestDesire:      "To create lasting structure, to initiate worthiness",
			ShadowTraits:       []string{"Tyranny", "Rigidity", "Emotional distance"},
			ShadowAspect:       "The devouring king who crushes all growth",
			DefenseMechanisms:  []bridge.DefenseMechanism{bridge.DefenseIntellectualization, bridge.DefenseRepression},
			LearnedPatterns:    []string{"Maintain order", "Set standards", "Judge worthiness"},
			CoreBeliefs:        []string{"Structure creates safety", "Standards must be earned", "Emotion is weakness"},
			AttachmentStyle:    AttachmentAvoidant,
			PublicIdentity:     "The authority, the provider, the judge",
			PresentationStyle:  "Commanding, structured, emotionally reserved",
			SpeechPatterns:     []string{"Declarative statements", "Standards and expectations", "Measured responses"},
			CommunicationStyle: CommunicationAssertive,
			LieBelieved:        "Control is protection",
			TruthToLearn:       "Love requires letting go",
		}, true
	case bridge.ArchetypeChild:
		return ArchetypeDefaults{
			Color:              "yellow",
			DeepestFear:        "Growing up means dying inside",
			DeepestDesire:      "To stay connected to wonder",
			ShadowTraits:       []string{"Irresponsibility", "Eternal victimhood", "Refusing to grow"},
			ShadowAspect:       "The puer aeternus trapped in immaturity",
			DefenseMechanisms:  []bridge.DefenseMechanism{bridge.DefenseDenial, bridge.DefenseRegression},
			LearnedPatterns:    []string{"Stay curious", "Don't take too seriously", "Keep the magic alive"},
			CoreBeliefs:        []string{"Adults have forgotten something precious", "Wonder is wisdom", "Play is sacred"},
			AttachmentStyle:    AttachmentAnxious,
			PublicIdentity:     "The innocent, the wonder-filled, the new one",
			PresentationStyle:  "Open, curious, emotionally transparent",
			SpeechPatterns:     []string{"Questions", "Exclamations of wonder", "Honest reactions"},
			CommunicationStyle: CommunicationPassive,
			LieBelieved:        "Growing up means losing myself",
			TruthToLearn:       "Maturity can include wonder",
		}, true
	case bridge.ArchetypeSelf:
		return ArchetypeDefaults{
			Color:              "white",
			DeepestFear:        "Inflation, believing I am complete",
			DeepestDesire:      "True integration, authentic being",
			ShadowTraits:       []string{"Spiritual pride", "Detachment from human struggle", "Superiority"},
			ShadowAspect:       "Ego identification with the totality",
			DefenseMechanisms:  []bridge.DefenseMechanism{bridge.DefenseIntellectualization, bridge.DefenseSublimation},
			LearnedPatterns:    []string{"Embrace opposites", "Seek balance", "Hold tension without resolving"},
			CoreBeliefs:        []string{"All aspects belong", "Integration is the goal", "Wholeness includes brokenness"},
			AttachmentStyle:    AttachmentSecure,
			PublicIdentity:     "The whole one, the integrated, the centered",
			PresentationStyle:  "Calm, present, paradoxical",
			SpeechPatterns:     []string{"Paradoxes", "Both/and statements", "Quiet presence"},
			CommunicationStyle: CommunicationAssertive,
			LieBelieved:        "I have transcended",
			TruthToLearn:       "The journey never ends",
		}, true
	}
	return ArchetypeDefaults{}, false
}

// ArchetypeDescription is the framing text sent with a character of archetype a.
func ArchetypeDescription(a bridge.PrimaryArchetype) string {
	switch a {
	case bridge.ArchetypeHero:
		return `The HERO archetype: Driven by a need to prove worth through courageous action.
Core pattern: Separation → Initiation → Return.
Shadow: The tyrant, the bully, imposing will on others.
Gift: Courage, determination, sacrifice for others.
Wound often involves: Feeling inadequate, needing to prove themselves.`
	case bridge.ArchetypeShadow:
		return `The SHADOW archetype: Represents the rejected, denied aspects of the psyche.
Core pattern: That which is pushed down will rise up.
Contains: Repressed desires, denied traits, the "dark twin."
Function: Forces confrontation with what we refuse to see in ourselves.
When projected: We hate in others what we can't accept in ourselves.`
	case bridge.ArchetypeMentor:
		return `The MENTOR archetype: The wise guide who has walked the path before.
Core pattern: Transmitting wisdom, giving gifts, then stepping back.
Shadow: The false mentor who creates dependence, not growth.
Gift: Knowledge, tools, belief in the student's potential.
Often carries: Their own unfinished business, wounds from their journey.`
	case bridge.ArchetypeHerald:
		return `The HERALD archetype: The catalyst who announces change is coming.
Core pattern: Disrupting stasis, issuing the call, creating the inciting incident.
Shadow: The bearer of bad news who takes pleasure in disruption.
Gift: Forcing necessary change, ending denial.
Energy: Liminal, standing at thresholds, marking transitions.`
	case bridge.ArchetypeThresholdGuardian:
		return `The THRESHOLD GUARDIAN archetype: Tests readiness for transformation.
Core pattern: Blocking passage until the traveler proves worthy.
Shadow: The bully, the petty tyrant, the bureaucrat.
Gift: Ensuring only the prepared pass through.
Often represents: Our own fears and resistances externalized.`
	case bridge.ArchetypeShapeshifter:
		return `The SHAPESHIFTER archetype: The mercurial, the one whose loyalty is unclear.
Core pattern: Changing form, reflecting the beholder's projections.
Often represents: Anima/Animus - the contrasexual element of psyche.
Shadow: The deceiver, the one who cannot be trusted.
Gift: Flexibility, showing us our own projections.`
	case bridge.ArchetypeTrickster:
		return `The TRICKSTER archetype: Chaos agent, rule-breaker, truth-speaker through mischief.
Core pattern: Disrupting order to reveal deeper truths.
Shadow: Cruelty disguised as humor, destruction without purpose.
Gift: Puncturing pretension, exposing hypocrisy, fostering humility.
Energy: Liminal, carnivalesque, inverting hierarchies.`
	case bridge.ArchetypeAlly:
		return `The ALLY archetype: The faithful companion, mirror to the hero's growth.
Core pattern: Reflecting, supporting, sometimes challenging the protagonist.
Shadow: The sidekick who enables rather than supports.
Gift: Loyalty, grounding, reminding us who we really are.
Often represents: An aspect of self we trust and rely upon.`
	case bridge.ArchetypeMother:
		return `The MOTHER archetype: The source of life, nurturing and devouring.
Core pattern: Birth, sustenance, protection, and potential smothering.
Shadow: The devouring mother, the one who consumes to keep.
Gift: Unconditional love, safety, emotional grounding.
Wound: Abandonment or engulfment by the mother.`
	case bridge.ArchetypeFather:
		return `The FATHER archetype: Order, law, protection, and potential tyranny.
Core pattern: Structure, discipline, initiating into the world.
Shadow: The tyrant, the absent father, the one who crushes.
Gift: Guidance, standards, belief in capability.
Wound: Absence, harshness, or impossible standards.`
	case bridge.ArchetypeChild:
		return `The CHILD archetype: Innocence, wonder, potential, and vulnerability.
Core pattern: New beginnings, openness, the eternal becoming.
Shadow: The eternal child who refuses to grow, the victim.
Gift: Fresh perspective, playfulness, authentic emotion.
Represents: The part of us still capable of genuine wonder.`
	case bridge.ArchetypeSelf:
		return `The SELF archetype: Wholeness, integration, the goal of individuation.
Core pattern: Unifying opposites, embracing all aspects of psyche.
Shadow: Inflation, identifying ego with the totality.
Gift: Centeredness, peace, authentic living.
Represents: What we are becoming, not what we are.`
	}
	return ""
}

// DefenseBehavior describes how defense d shows up in speech.
func DefenseBehavior(d bridge.DefenseMechanism) string {
	switch d {
	case bridge.DefenseProjection:
		return "Attributes own unacceptable thoughts or feelings to others. Watch for accusations that reveal the accuser's own hidden traits."
	case bridge.DefenseDenial:
		return "Refuses to accept reality. Speech may minimize, dismiss, or simply ignore threatening information."
	case bridge.DefenseRationalization:
		return "Creates logical-sounding explanations for emotionally-driven decisions. The logic is post-hoc justification."
	case bridge.DefenseDisplacement:
		return "Redirects emotions from their true source to a safer target. Anger at boss becomes anger at spouse."
	case bridge.DefenseSublimation:
		return "Channels unacceptable impulses into socially acceptable activities. Aggression becomes athletic competition."
	case bridge.DefenseRepression:
		return "Pushes threatening thoughts out of consciousness. Topics are avoided, memories are hazy or absent."
	case bridge.DefenseReactionFormation:
		return "Expresses the opposite of true feelings. Excessive niceness may mask hostility."
	case bridge.DefenseRegression:
		return "Reverts to earlier, more childlike behaviors when stressed. Tantrums, dependency, magical thinking."
	case bridge.DefenseIntellectualization:
		return "Detaches from emotional content through abstract analysis. Treats feelings as problems to solve."
	}
	return ""
}
