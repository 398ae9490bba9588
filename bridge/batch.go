package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/theimaginaryfoundation/signal-bridge/bridge/provider"
)

// recommendedConviction admits a position into batch recommendations even when
// the aggregate call did not name it.
const recommendedConviction = 0.6

type batchWire struct {
	AggregateThesis              thesisWire `json:"aggregate_thesis"`
	ContentSeriesRecommendations []string   `json:"content_series_recommendations"`
	TopPositions                 []string   `json:"top_positions" jsonschema:"description=Theses of the strongest positions quoted verbatim"`
}

var batchSchema = provider.GenerateSchema[batchWire]()

// ProcessBatch processes entries in order. Each entry sees the analyses of the
// entries before it. Failed entries are listed in BatchResult.Failed; the batch
// fails only if none succeed or ctx is done.
func (o *Orchestrator) ProcessBatch(ctx context.Context, entries []JournalEntry, cfg SystemConfig, pctx ProcessContext) (BatchResult, error) {
	if ctx == nil {
		return BatchResult{}, errors.New("ProcessBatch: ctx is nil")
	}
	if len(entries) == 0 {
		return BatchResult{}, errors.New("ProcessBatch: no entries")
	}

	out := BatchResult{Bridges: make([]SignalBridge, 0, len(entries))}
	previous := slices.Clone(pctx.PreviousAnalyses)
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return out, fmt.Errorf("ProcessBatch: %w", err)
		}
		step := pctx
		step.PreviousAnalyses = previous
		b, err := o.Process(ctx, EntryInput(entry), cfg, step)
		if err != nil {
			o.opts.Logger.Warn("batch entry failed", zap.String("entry_id", entry.ID), zap.Error(err))
			out.Failed = append(out.Failed, EntryError{EntryID: entry.ID, Err: err.Error()})
		} else {
			out.Bridges = append(out.Bridges, b)
			previous = append(slices.Clip(previous), b.JournalAnalysis...)
		}
		if o.opts.Progress != nil {
			o.opts.Progress(i+1, len(entries), entry.ID)
		}
	}
	if len(out.Bridges) == 0 {
		return out, fmt.Errorf("ProcessBatch: all %d entries failed", len(entries))
	}

	var all []MarketPosition
	for _, b := range out.Bridges {
		all = append(all, b.MarketPositions...)
	}

	raw, err := o.aggregate(ctx, out.Bridges, all)
	if err != nil {
		o.opts.Logger.Warn("aggregate thesis failed", zap.Error(err))
		out.AggregateError = err.Error()
	}
	out.AggregateThesis = shapeThesis(raw.AggregateThesis, "")
	out.RecommendedContentSeries = cleanStrings(raw.ContentSeriesRecommendations)
	out.RecommendedPositions = recommendPositions(all, raw.TopPositions)
	return out, nil
}

func (o *Orchestrator) aggregate(ctx context.Context, bridges []SignalBridge, positions []MarketPosition) (batchWire, error) {
	var beliefs, insights, views []string
	for _, b := range bridges {
		for _, a := range b.JournalAnalysis {
			for _, s := range a.BeliefStatements {
				beliefs = append(beliefs, s.Statement)
			}
			for _, in := range a.KeyInsights {
				insights = append(insights, in.Content)
			}
		}
	}
	for _, p := range positions {
		views = append(views, fmt.Sprintf("%s: %s", p.Direction, p.Thesis))
	}
	payload, err := json.Marshal(struct {
		Beliefs   []string `json:"beliefs"`
		Insights  []string `json:"key_insights"`
		Positions []string `json:"market_positions"`
	}{nonNil(limit(beliefs, 10)), nonNil(limit(insights, 10)), nonNil(views)})
	if err != nil {
		return batchWire{}, err
	}
	var raw batchWire
	err = provider.Decode(ctx, o.gw, provider.Request{
		Name:         "AggregateThesis",
		Instructions: batchThesisPrompt,
		Input:        string(payload),
		Schema:       batchSchema,
		Temperature:  0.7,
	}, &raw)
	if err != nil {
		return batchWire{}, err
	}
	return raw, nil
}

// recommendPositions keeps positions named in top or above recommendedConviction,
// highest conviction first.
func recommendPositions(all []MarketPosition, top []string) []MarketPosition {
	out := []MarketPosition{}
	for _, p := range all {
		if slices.Contains(top, p.Thesis) || p.Conviction > recommendedConviction {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b MarketPosition) int {
		switch {
		case a.Conviction > b.Conviction:
			return -1
		case a.Conviction < b.Conviction:
			return 1
		}
		return 0
	})
	return out
}
