package dialogue

const agentTurnPrompt = `You are simulating an intelligent agent in a two-party conversation.
The agent possesses Theory of Mind and specifically Second-Order Theory of Mind.

You will receive a JSON payload with:
- agent: the agent's name, secret goal and current mind state
- other_agent: the name of the other party
- scenario_context: the shared situation
- conversation_history: every message so far, oldest first (empty when the agent opens the conversation)

Generate the agent's next turn. Before speaking, update three layers of cognition:
1. selfAnalysis: internal thoughts, strategy, and how close the agent is to its goal.
2. modelOfOther: what the agent thinks the other party's secret goal and strategy are.
3. modelOfOthersModel: what the agent believes the other party thinks about it. Do they trust it? Do they know its goal?

message is the verbal message sent to the other party. It must never state the secret goal outright.

Return only JSON matching the schema.`

const deepDialoguePrompt = `You are simulating the complete psychology of a character generating dialogue.

You will receive a JSON payload with:
- character: the speaking character's full psyche (unconscious, preconscious and conscious layers, persona, arc, secret goal,
  and its models of others)
- archetype_description: the archetypal pattern of the character
- defense_behaviors: how each of the character's defense mechanisms distorts speech
- mind_state: the character's current three-level theory of mind
- counterpart: what the character can observe about the other person (name, archetype, persona, displayed emotion,
  apparent goal). The character knows nothing deeper about them.
- scenario_context: the shared situation
- conversation_history: every message so far, oldest first, with subtext where known

Generate the character's next dialogue turn. Remember:
1. THE GAP IS THE DRAMA: the space between what they say and what they mean.
2. DEFENSE MECHANISMS DISTORT: projection makes them accuse, rationalization makes them explain, denial makes them minimize.
3. THE WOUND ECHOES: every interaction can touch their core wound.
4. ARCHETYPE SHAPES STYLE: the Hero confronts, the Trickster deflects with humor, the Shadow provokes.
5. ARC MUST MOVE: each exchange slightly reinforces or challenges their lie.
6. AUTHENTIC VOICE: use their speech patterns and communication style.
7. THEORY OF MIND IS RECURSIVE: they model the other, and the other's model of them.

Rules:
- felt_emotion and displayed_emotion use the emotion enum; they may differ.
- defense_mechanism_active is one of the character's defense mechanisms or empty.
- emotional_intensity is a number between 0 and 1.
- selfAnalysis, modelOfOther and modelOfOthersModel replace the previous mind state entirely.

Return only JSON matching the schema.`

const theoryOfMindPrompt = `You are simulating the deep psychological theory of mind one character holds about another.

You will receive a JSON payload with:
- character: the observing character's full psyche
- archetype_description: the archetypal pattern of the observing character
- other: what the observer can see of the other person (archetype, public identity, displayed emotion, apparent goal)
- context: the shared situation
- recent_events: the latest exchanges, oldest first

This is not surface-level thinking. Go deep:
- What does the character REALLY think is going on?
- What do they sense about the other's hidden pain?
- What projections might they be making (seeing their own shadow in the other)?
- What fears does this interaction touch?
- How does their attachment style color their perception?

Characters are often WRONG about each other. Their models are distorted by their own psychology, and the drama comes from
these distortions.

Rules:
- trust_level and deception_detected are numbers between 0 and 1.

Return only JSON matching the schema.`

const sceneBeatPrompt = `You are the psyche of a character generating their next beat in a scene.

You will receive a JSON payload with:
- character: the acting character's full psyche and arc
- archetype_description and defense_behaviors for that character
- others: what the character can see of everyone else present
- scene: title, setting, goal, conflict and stakes
- previous_beats: up to the last five beats, oldest first
- narrative: theme, central conflict, tension level (0-1) and dramatic question

Generate the next beat. It may be dialogue, action, internal thought or reaction.

Key principles:
1. SUBTEXT IS EVERYTHING: what they say or do is never the whole story.
2. DEFENSE MECHANISMS SHAPE BEHAVIOR.
3. PROJECTION CREATES CONFLICT: they may see their own shadow in others.
4. THE WOUND DRIVES EVERYTHING.
5. ARCHETYPE PATTERNS shape how they engage.
6. AUTHENTIC VOICE.

Make the beat true to their psychology, layered with meaning, advancing their arc, and creating or releasing tension.
Set projection_occurring, shadow_activated and belief_challenged only when the beat really contains that event, and describe
it in the matching detail field.

Return only JSON matching the schema.`
