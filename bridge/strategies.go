package bridge

// contentStrategy is the framing handed to brief generation for each creator archetype.
func contentStrategy(a ContentArchetype) string {
	switch a {
	case ContentStoryteller:
		return `As a STORYTELLER, transform this insight into a narrative journey.
Begin in medias res. Create tension. Use vivid details.
Make the viewer FEEL, not just understand.
Structure: Hook → Conflict → Journey → Revelation → Resolution`
	case ContentTeacher:
		return `As a TEACHER, extract the lesson and make it memorable.
Lead with the value proposition. What will they LEARN?
Use the Feynman technique: explain simply, use analogies.
Structure: Promise → Problem → Process → Payoff`
	case ContentEntertainer:
		return `As an ENTERTAINER, make this content impossible to scroll past.
Energy is everything. Pacing is key. Surprise them.
If it doesn't spark emotion, it doesn't work.
Structure: Pattern Interrupt → Escalation → Peak → Callback`
	case ContentProvocateur:
		return `As a PROVOCATEUR, challenge their assumptions.
Make them uncomfortable (but in a valuable way).
Ask questions they haven't considered.
Structure: Controversial Hook → Evidence → Reframe → Challenge`
	case ContentCurator:
		return `As a CURATOR, select the most valuable moment and frame it perfectly.
Less is more. Context is everything.
What's the ONE thing they should take away?
Structure: Context → Highlight → Significance → Action`
	case ContentConfessionalist:
		return `As a CONFESSIONALIST, lead with radical vulnerability.
Share what others are afraid to admit.
Authenticity > polish. Connection > perfection.
Structure: Admission → Context → Journey → Insight`
	case ContentAnalyst:
		return `As an ANALYST, break down complexity into clarity.
Numbers tell stories. Patterns reveal truth.
Make the abstract concrete.
Structure: Question → Data → Analysis → Conclusion`
	case ContentVisionary:
		return `As a VISIONARY, paint a picture of what could be.
Connect the present moment to a larger future.
Inspire action through possibility.
Structure: Current State → Insight → Vision → Call`
	}
	return contentStrategy(ContentStoryteller)
}

// narrativeFormat maps a creator archetype onto the brief's format.
func narrativeFormat(a ContentArchetype) NarrativeFormat {
	switch a {
	case ContentTeacher:
		return FormatLesson
	case ContentAnalyst:
		return FormatBreakdown
	default:
		return FormatStory
	}
}

// marketReasoning is the framing handed to position generation for each market archetype.
func marketReasoning(a MarketArchetype) string {
	switch a {
	case MarketOracle:
		return `Think like an ORACLE: You see patterns in noise that others miss.
You speak in probabilities, never certainties. You understand that
the future is a probability distribution, not a point. Your edge
comes from calibration and information synthesis.`
	case MarketContrarian:
		return `Think like a CONTRARIAN: You profit from crowd mistakes.
The more confident the crowd, the more you examine the opposite.
"When everyone is thinking alike, no one is thinking."
Look for consensus that has become unexamined.`
	case MarketMomentum:
		return `Think like MOMENTUM: Trends persist longer than expected.
Don't fight the tape. Follow strength, cut weakness.
"The trend is your friend until the end."
But always know where the exits are.`
	case MarketValue:
		return `Think like VALUE: Price is what you pay, value is what you get.
Find mispricings through patient analysis. The market is often
wrong in the short term but right in the long term.
Your edge is patience and conviction.`
	case MarketArbitrageur:
		return `Think like an ARBITRAGEUR: Find inefficiencies and exploit them.
Risk-neutral, emotion-free. If the same outcome is priced
differently in different places, there's an opportunity.
But beware of hidden correlations.`
	case MarketNarrative:
		return `Think like NARRATIVE: Stories move markets more than fundamentals.
What's the story the market believes? What's the story about to change?
Narratives shift slowly, then suddenly. Catch the inflection.`
	case MarketQuant:
		return `Think like a QUANT: Pure signal extraction, emotion-blind.
Backtest everything. If it can't be measured, it doesn't exist.
But remember: past performance ≠ future results.
Always account for regime change.`
	case MarketWhale:
		return `Think like a WHALE: You move markets. Self-aware of your impact.
Position sizing matters as much as direction.
Think about who will take the other side. Liquidity is everything.`
	case MarketDegen:
		return `Think like a DEGEN: High conviction, high risk, YOLO energy.
Sometimes the play is obvious and the crowd is wrong.
But know the difference between conviction and delusion.
Size bets to survive being wrong.`
	case MarketSage:
		return `Think like a SAGE: Long-term, macro thinker.
What will the world look like in 10 years?
Ignore the noise, focus on structural trends.
Compound knowledge, not just capital.`
	}
	return marketReasoning(MarketOracle)
}
