package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/theimaginaryfoundation/signal-bridge/bridge/provider"
)

type journalMarketWire struct {
	Connections []struct {
		JournalInsight     string   `json:"journal_insight"`
		MarketApplication  string   `json:"market_application"`
		ConnectionStrength *float64 `json:"connection_strength"`
		Actionable         *bool    `json:"actionable"`
		Rationale          string   `json:"rationale"`
	} `json:"connections"`
}

var journalMarketSchema = provider.GenerateSchema[journalMarketWire]()

// FindJournalMarketConnections links insights to admitted positions. With no
// positions it returns an empty list without a generation call.
func (o *Orchestrator) FindJournalMarketConnections(ctx context.Context, analysis JournalAnalysis, positions []MarketPosition) ([]JournalMarketConnection, error) {
	if len(positions) == 0 {
		return []JournalMarketConnection{}, nil
	}
	if ctx == nil {
		return nil, errors.New("FindJournalMarketConnections: ctx is nil")
	}
	insights := make([]string, 0, len(analysis.KeyInsights))
	for _, in := range analysis.KeyInsights {
		insights = append(insights, in.Content)
	}
	beliefs := make([]string, 0, len(analysis.BeliefStatements))
	for _, b := range analysis.BeliefStatements {
		beliefs = append(beliefs, b.Statement)
	}
	views := make([]string, 0, len(positions))
	for _, p := range positions {
		views = append(views, fmt.Sprintf("%s on: %s", p.Direction, p.Thesis))
	}
	payload, err := json.Marshal(struct {
		Insights  []string `json:"journal_insights"`
		Beliefs   []string `json:"journal_beliefs"`
		Positions []string `json:"market_positions"`
	}{insights, beliefs, views})
	if err != nil {
		return nil, err
	}

	var raw journalMarketWire
	err = provider.Decode(ctx, o.gw, provider.Request{
		Name:         "JournalMarketConnections",
		Instructions: journalMarketPrompt,
		Input:        string(payload),
		Schema:       journalMarketSchema,
		Temperature:  0.6,
	}, &raw)
	if err != nil {
		return nil, err
	}
	out := make([]JournalMarketConnection, 0, len(raw.Connections))
	for _, c := range raw.Connections {
		out = append(out, JournalMarketConnection{
			JournalInsight:     c.JournalInsight,
			MarketApplication:  c.MarketApplication,
			ConnectionStrength: score(c.ConnectionStrength, neutralScore),
			Actionable:         boolOr(c.Actionable, false),
			Rationale:          c.Rationale,
		})
	}
	return out, nil
}

type marketContentWire struct {
	Connections []struct {
		MarketPosition     string   `json:"market_position"`
		ContentAngle       string   `json:"content_angle"`
		DisclosureRequired *bool    `json:"disclosure_required"`
		AudienceInterest   *float64 `json:"audience_interest"`
		EducationalValue   *float64 `json:"educational_value"`
	} `json:"connections"`
}

var marketContentSchema = provider.GenerateSchema[marketContentWire]()

// FindMarketContentConnections proposes content angles for admitted positions.
// It needs both positions and briefs; otherwise it returns an empty list without
// a generation call. Disclosure defaults to required.
func (o *Orchestrator) FindMarketContentConnections(ctx context.Context, positions []MarketPosition, briefs []ContentBrief) ([]MarketContentConnection, error) {
	if len(positions) == 0 || len(briefs) == 0 {
		return []MarketContentConnection{}, nil
	}
	if ctx == nil {
		return nil, errors.New("FindMarketContentConnections: ctx is nil")
	}
	views := make([]string, 0, len(positions))
	for _, p := range positions {
		views = append(views, fmt.Sprintf("%s on: %s (conviction: %d%%)", p.Direction, p.Thesis, percent(p.Conviction)))
	}
	hooks := make([]string, 0, len(briefs))
	for _, b := range briefs {
		hooks = append(hooks, b.Script.HookSegment)
	}
	payload, err := json.Marshal(struct {
		Positions []string `json:"market_positions"`
		Hooks     []string `json:"content_hooks"`
	}{views, hooks})
	if err != nil {
		return nil, err
	}

	var raw marketContentWire
	err = provider.Decode(ctx, o.gw, provider.Request{
		Name:         "MarketContentConnections",
		Instructions: positionContentPrompt,
		Input:        string(payload),
		Schema:       marketContentSchema,
		Temperature:  0.6,
	}, &raw)
	if err != nil {
		return nil, err
	}
	out := make([]MarketContentConnection, 0, len(raw.Connections))
	for _, c := range raw.Connections {
		out = append(out, MarketContentConnection{
			MarketPosition:     c.MarketPosition,
			ContentAngle:       c.ContentAngle,
			DisclosureRequired: boolOr(c.DisclosureRequired, true),
			AudienceInterest:   score(c.AudienceInterest, neutralScore),
			EducationalValue:   score(c.EducationalValue, neutralScore),
		})
	}
	return out, nil
}

type thesisWire struct {
	CoreBelief        string   `json:"core_belief"`
	PersonalEvidence  []string `json:"personal_evidence"`
	MarketEvidence    []string `json:"market_evidence"`
	ContentExpression string   `json:"content_expression"`
	ConvictionScore   *float64 `json:"conviction_score"`
	TimeHorizon       string   `json:"time_horizon"`
}

var thesisSchema = provider.GenerateSchema[thesisWire]()

// DefaultThesis is what a run reports when no thesis could be synthesised.
func DefaultThesis() UnifiedThesis {
	return shapeThesis(thesisWire{}, "No unified thesis formed")
}

func shapeThesis(raw thesisWire, coreDefault string) UnifiedThesis {
	return UnifiedThesis{
		CoreBelief:        text(raw.CoreBelief, coreDefault),
		PersonalEvidence:  cleanStrings(raw.PersonalEvidence),
		MarketEvidence:    cleanStrings(raw.MarketEvidence),
		ContentExpression: raw.ContentExpression,
		ConvictionScore:   score(raw.ConvictionScore, neutralScore),
		TimeHorizon:       text(raw.TimeHorizon, "Medium-term"),
	}
}

// unifiedThesis synthesises one thesis from a run's accumulated outputs. Only the
// top five insights are sent.
func (o *Orchestrator) unifiedThesis(ctx context.Context, analysis JournalAnalysis, briefs []ContentBrief, positions []MarketPosition) (UnifiedThesis, error) {
	beliefs := make([]string, 0, len(analysis.BeliefStatements))
	for _, b := range analysis.BeliefStatements {
		beliefs = append(beliefs, fmt.Sprintf("%q (%s)", b.Statement, b.BeliefType))
	}
	var insights []string
	for _, in := range limit(analysis.KeyInsights, 5) {
		insights = append(insights, in.Content)
	}
	var hooks, views []string
	for _, b := range briefs {
		hooks = append(hooks, b.Script.HookSegment)
	}
	for _, p := range positions {
		views = append(views, fmt.Sprintf("%s: %s", p.Direction, p.Thesis))
	}
	payload, err := json.Marshal(struct {
		Beliefs   []string `json:"personal_beliefs"`
		Insights  []string `json:"key_insights"`
		Hooks     []string `json:"content_hooks"`
		Positions []string `json:"market_positions"`
	}{beliefs, nonNil(insights), nonNil(hooks), nonNil(views)})
	if err != nil {
		return UnifiedThesis{}, err
	}

	var raw thesisWire
	err = provider.Decode(ctx, o.gw, provider.Request{
		Name:         "UnifiedThesis",
		Instructions: unifiedThesisPrompt,
		Input:        string(payload),
		Schema:       thesisSchema,
		Temperature:  0.7,
	}, &raw)
	if err != nil {
		return UnifiedThesis{}, err
	}
	return shapeThesis(raw, "No unified thesis formed"), nil
}
