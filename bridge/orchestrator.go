package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/theimaginaryfoundation/signal-bridge/bridge/provider"
)

const (
	// AdmissionThreshold is the conviction a position must exceed to be kept.
	AdmissionThreshold = 0.3
	// maxMarketsPerRun caps how many configured markets get a position call.
	maxMarketsPerRun = 3
	// defaultTargetDuration is the brief length Process asks for, in seconds.
	defaultTargetDuration = 45
)

// AdmitPosition reports whether a generated position belongs in a bridge:
// conviction strictly above threshold and a direction other than ABSTAIN.
func AdmitPosition(p MarketPosition, threshold float64) bool {
	return p.Conviction > threshold && p.Direction != DirectionAbstain
}

// Input is either raw text or a prepared entry. Entry wins when both are set.
type Input struct {
	Text  string
	Entry *JournalEntry
}

func TextInput(s string) Input { return Input{Text: s} }

func EntryInput(e JournalEntry) Input { return Input{Entry: &e} }

// ProcessContext is optional caller-held context for one run.
type ProcessContext struct {
	Markets          []PredictionMarket
	Persona          *UserPersona
	PreviousAnalyses []JournalAnalysis
	// KnownBeliefs are recurring beliefs from earlier sessions, such as a theme ledger.
	KnownBeliefs []string
}

// Orchestrator runs the journal to content and market pipeline over one gateway.
type Orchestrator struct {
	gw       provider.Gateway
	opts     Options
	analyzer *JournalAnalyzer
	forge    *ContentForge
	mind     *AdversarialMind
}

func NewOrchestrator(gw provider.Gateway, opts Options) *Orchestrator {
	opts = opts.withDefaults()
	return &Orchestrator{
		gw:       gw,
		opts:     opts,
		analyzer: NewJournalAnalyzer(gw, opts),
		forge:    NewContentForge(gw, opts),
		mind:     NewAdversarialMind(gw, opts),
	}
}

func (o *Orchestrator) Analyzer() *JournalAnalyzer { return o.analyzer }

func (o *Orchestrator) Forge() *ContentForge { return o.forge }

func (o *Orchestrator) Mind() *AdversarialMind { return o.mind }

func (o *Orchestrator) normalize(in Input) (JournalEntry, error) {
	if in.Entry != nil {
		return *in.Entry, nil
	}
	if in.Text == "" {
		return JournalEntry{}, errors.New("input has neither text nor entry")
	}
	return NewJournalEntry(in.Text, EntryOptions{At: o.opts.Now(), ContentPermission: PermissionFull})
}

func deriveAnalysisContext(cfg SystemConfig, pctx ProcessContext) AnalysisContext {
	var actx AnalysisContext
	for _, a := range pctx.PreviousAnalyses {
		for _, b := range a.BeliefStatements {
			actx.PreviousBeliefs = append(actx.PreviousBeliefs, b.Statement)
		}
	}
	actx.PreviousBeliefs = append(actx.PreviousBeliefs, pctx.KnownBeliefs...)
	for _, m := range pctx.Markets {
		actx.MarketInterests = append(actx.MarketInterests, m.Category)
	}
	if pctx.Persona != nil {
		actx.ContentGoals = pctx.Persona.ContentPillars
		actx.PsychologicalProfile = fmt.Sprintf("%s with %s tendencies", pctx.Persona.PsychologicalArchetype, pctx.Persona.CreatorArchetype)
	}
	actx.PsychologicalDepth = cfg.PsychologicalDepth
	return actx
}

func marketContexts(markets []PredictionMarket) []MarketContext {
	out := make([]MarketContext, 0, len(markets))
	for _, m := range markets {
		out = append(out, MarketContext{
			MarketID:       m.ID,
			Question:       m.Question,
			CurrentState:   m,
			RecentMovement: 0,
			KeyDates:       []string{m.ResolutionDate},
			RelatedMarkets: []string{},
		})
	}
	return out
}

// Process runs one entry through the pipeline. Analysis failure fails the run;
// every later stage failure is recorded in SignalBridge.Errors and the rest of
// the bridge is still returned.
func (o *Orchestrator) Process(ctx context.Context, in Input, cfg SystemConfig, pctx ProcessContext) (SignalBridge, error) {
	if ctx == nil {
		return SignalBridge{}, errors.New("Process: ctx is nil")
	}
	if err := cfg.Validate(); err != nil {
		return SignalBridge{}, fmt.Errorf("Process: %w", err)
	}
	start := time.Now()

	entry, err := o.normalize(in)
	if err != nil {
		return SignalBridge{}, fmt.Errorf("Process: %w", err)
	}

	analysis, err := o.analyzer.Analyze(ctx, entry, deriveAnalysisContext(cfg, pctx))
	if err != nil {
		return SignalBridge{}, fmt.Errorf("Process: %w", err)
	}

	bridge := SignalBridge{
		ID:              "bridge-" + uuid.NewString(),
		Timestamp:       o.opts.Now(),
		JournalEntries:  []JournalEntry{entry},
		MarketContext:   marketContexts(pctx.Markets),
		JournalAnalysis: []JournalAnalysis{analysis},
		ContentBriefs:   []ContentBrief{},
		MarketPositions: []MarketPosition{},
	}

	briefs, positions, stageErrs := o.generate(ctx, analysis, cfg, pctx)
	bridge.ContentBriefs = briefs
	bridge.MarketPositions = positions
	bridge.Errors = append(bridge.Errors, stageErrs...)

	var (
		j2m     []JournalMarketConnection
		m2c     []MarketContentConnection
		j2mErr  error
		m2cErr  error
		connect errgroup.Group
	)
	connect.Go(func() error {
		j2m, j2mErr = o.FindJournalMarketConnections(ctx, analysis, positions)
		return nil
	})
	connect.Go(func() error {
		m2c, m2cErr = o.FindMarketContentConnections(ctx, positions, briefs)
		return nil
	})
	_ = connect.Wait()
	bridge.JournalToMarket = nonNil(j2m)
	bridge.MarketToContent = nonNil(m2c)
	if j2mErr != nil {
		bridge.Errors = append(bridge.Errors, StageError{Stage: StageJournalToMarket, Err: j2mErr.Error()})
	}
	if m2cErr != nil {
		bridge.Errors = append(bridge.Errors, StageError{Stage: StageMarketToContent, Err: m2cErr.Error()})
	}

	thesis, err := o.unifiedThesis(ctx, analysis, briefs, positions)
	if err != nil {
		bridge.Errors = append(bridge.Errors, StageError{Stage: StageThesis, Err: err.Error()})
		thesis = DefaultThesis()
	}
	bridge.UnifiedThesis = thesis

	for _, se := range bridge.Errors {
		o.opts.Logger.Warn("bridge stage failed",
			zap.String("bridge_id", bridge.ID),
			zap.String("stage", se.Stage),
			zap.String("market_id", se.MarketID),
			zap.String("error", se.Err),
		)
	}
	o.opts.Logger.Info("bridge processed",
		zap.String("bridge_id", bridge.ID),
		zap.String("entry_id", entry.ID),
		zap.String("mode", string(cfg.Mode)),
		zap.Int("briefs", len(bridge.ContentBriefs)),
		zap.Int("positions", len(bridge.MarketPositions)),
		zap.Int("errors", len(bridge.Errors)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return bridge, nil
}

// generate runs the content call and the per-market position calls
// concurrently and waits for all of them. Admitted positions keep market order.
func (o *Orchestrator) generate(ctx context.Context, analysis JournalAnalysis, cfg SystemConfig, pctx ProcessContext) ([]ContentBrief, []MarketPosition, []StageError) {
	var markets []PredictionMarket
	if cfg.runsPrediction() {
		markets = limit(pctx.Markets, maxMarketsPerRun)
	}
	positions := make([]MarketPosition, len(markets))
	posErrs := make([]error, len(markets))

	var (
		brief    ContentBrief
		briefErr error
		g        errgroup.Group
	)
	g.SetLimit(o.opts.Concurrency + 1)
	if cfg.runsContent() {
		g.Go(func() error {
			brief, briefErr = o.forge.Brief(ctx, analysis, BriefOptions{
				Archetype:      cfg.ContentStyle,
				Platform:       cfg.PlatformTarget,
				TargetDuration: defaultTargetDuration,
				Audience:       &AudienceProfile{},
				Persona:        pctx.Persona,
				Anonymization:  cfg.AnonymizationLevel,
			})
			return nil
		})
	}
	framing := positionFraming{Intensity: cfg.AdversarialIntensity, Risk: cfg.RiskTolerance}
	for i := range markets {
		g.Go(func() error {
			positions[i], posErrs[i] = o.mind.position(ctx, markets[i], analysis.MarketSignals, &analysis, cfg.MarketStyle, framing)
			return nil
		})
	}
	_ = g.Wait()

	var stageErrs []StageError
	briefs := []ContentBrief{}
	if cfg.runsContent() {
		if briefErr != nil {
			stageErrs = append(stageErrs, StageError{Stage: StageContent, Err: briefErr.Error()})
		} else {
			briefs = append(briefs, brief)
		}
	}
	admitted := []MarketPosition{}
	for i := range markets {
		if posErrs[i] != nil {
			stageErrs = append(stageErrs, StageError{Stage: StagePosition, MarketID: markets[i].ID, Err: posErrs[i].Error()})
			continue
		}
		if !AdmitPosition(positions[i], AdmissionThreshold) {
			o.opts.Logger.Debug("position not admitted",
				zap.String("market_id", markets[i].ID),
				zap.String("direction", string(positions[i].Direction)),
				zap.Float64("conviction", positions[i].Conviction),
			)
			continue
		}
		admitted = append(admitted, positions[i])
	}
	return briefs, admitted, stageErrs
}

type harmonyWire struct {
	Harmony        *float64 `json:"harmony"`
	TensionPoints  []string `json:"tension_points"`
	IntegratedView string   `json:"integrated_view"`
}

var harmonySchema = provider.GenerateSchema[harmonyWire]()

// DualMindState reads the creator and predictor minds behind a bridge and how well
// they fit. The creator side is only generated when the bridge has a brief.
func (o *Orchestrator) DualMindState(ctx context.Context, b SignalBridge) (DualMindState, error) {
	if ctx == nil {
		return DualMindState{}, errors.New("DualMindState: ctx is nil")
	}
	if len(b.JournalAnalysis) == 0 {
		return DualMindState{}, errors.New("DualMindState: bridge has no analysis")
	}
	analysis := b.JournalAnalysis[0]

	var (
		creator    *CreatorMindState
		predictor  PredictorMindState
		creatorErr error
		g          errgroup.Group
	)
	if len(b.ContentBriefs) > 0 {
		g.Go(func() error {
			c, err := o.forge.CreatorMindState(ctx, analysis, b.ContentBriefs[0])
			if err != nil {
				creatorErr = err
				return nil
			}
			creator = &c
			return nil
		})
	}
	g.Go(func() error {
		var err error
		predictor, err = o.mind.PredictorMindState(ctx, b.MarketPositions, nil, &analysis)
		return err
	})
	if err := g.Wait(); err != nil {
		return DualMindState{}, fmt.Errorf("DualMindState: %w", err)
	}
	if creatorErr != nil {
		return DualMindState{}, fmt.Errorf("DualMindState: %w", creatorErr)
	}

	payload, err := json.Marshal(struct {
		Creator   *CreatorMindState  `json:"creator"`
		Predictor PredictorMindState `json:"predictor"`
	}{creator, predictor})
	if err != nil {
		return DualMindState{}, err
	}
	var raw harmonyWire
	err = provider.Decode(ctx, o.gw, provider.Request{
		Name:         "MindHarmony",
		Instructions: dualMindPrompt,
		Input:        string(payload),
		Schema:       harmonySchema,
		Temperature:  0.6,
	}, &raw)
	if err != nil {
		return DualMindState{}, err
	}

	out := DualMindState{
		Creator:        CreatorMindState{AmIBeingAuthentic: true},
		Predictor:      predictor,
		Harmony:        score(raw.Harmony, neutralScore),
		TensionPoints:  cleanStrings(raw.TensionPoints),
		IntegratedView: raw.IntegratedView,
	}
	if creator != nil {
		out.Creator = *creator
	}
	return out, nil
}

type coherenceWire struct {
	CoherenceScore     *float64 `json:"coherence_score"`
	Contradictions     []string `json:"contradictions"`
	AlignmentStrengths []string `json:"alignment_strengths"`
	Recommendations    []string `json:"recommendations"`
}

var coherenceSchema = provider.GenerateSchema[coherenceWire]()

// CheckCoherence asks whether beliefs, content and positions in a bridge agree.
func (o *Orchestrator) CheckCoherence(ctx context.Context, b SignalBridge) (CoherenceReport, error) {
	if ctx == nil {
		return CoherenceReport{}, errors.New("CheckCoherence: ctx is nil")
	}
	var beliefs, hooks, positions []string
	for _, a := range b.JournalAnalysis {
		for _, s := range a.BeliefStatements {
			beliefs = append(beliefs, s.Statement)
		}
	}
	for _, br := range b.ContentBriefs {
		hooks = append(hooks, br.Script.HookSegment)
	}
	for _, p := range b.MarketPositions {
		positions = append(positions, fmt.Sprintf("%s: %s", p.Direction, p.Thesis))
	}
	payload, err := json.Marshal(struct {
		Thesis    string   `json:"unified_thesis"`
		Beliefs   []string `json:"journal_beliefs"`
		Hooks     []string `json:"content_hooks"`
		Positions []string `json:"market_positions"`
	}{b.UnifiedThesis.CoreBelief, nonNil(beliefs), nonNil(hooks), nonNil(positions)})
	if err != nil {
		return CoherenceReport{}, err
	}

	var raw coherenceWire
	err = provider.Decode(ctx, o.gw, provider.Request{
		Name:         "CoherenceCheck",
		Instructions: coherencePrompt,
		Input:        string(payload),
		Schema:       coherenceSchema,
		Temperature:  0.5,
	}, &raw)
	if err != nil {
		return CoherenceReport{}, err
	}
	return CoherenceReport{
		CoherenceScore:     score(raw.CoherenceScore, neutralScore),
		Contradictions:     cleanStrings(raw.Contradictions),
		AlignmentStrengths: cleanStrings(raw.AlignmentStrengths),
		Recommendations:    cleanStrings(raw.Recommendations),
	}, nil
}

type quickBridgeWire struct {
	Insight      string `json:"insight"`
	ContentHook  string `json:"content_hook"`
	MarketSignal string `json:"market_signal"`
	Action       string `json:"action"`
}

var quickBridgeSchema = provider.GenerateSchema[quickBridgeWire]()

// QuickBridge is the single-call fast path. Fields for the side not requested by
// mode are cleared.
func (o *Orchestrator) QuickBridge(ctx context.Context, thought string, mode QuickBridgeMode) (QuickBridgeResult, error) {
	if ctx == nil {
		return QuickBridgeResult{}, errors.New("QuickBridge: ctx is nil")
	}
	if !mode.Valid() {
		mode = QuickBoth
	}
	payload, err := json.Marshal(struct {
		Thought string          `json:"thought"`
		Mode    QuickBridgeMode `json:"mode"`
	}{thought, mode})
	if err != nil {
		return QuickBridgeResult{}, err
	}

	var raw quickBridgeWire
	err = provider.Decode(ctx, o.gw, provider.Request{
		Name:         "QuickBridge",
		Instructions: quickBridgePrompt,
		Input:        string(payload),
		Schema:       quickBridgeSchema,
		Temperature:  0.7,
	}, &raw)
	if err != nil {
		return QuickBridgeResult{}, err
	}
	out := QuickBridgeResult{Insight: raw.Insight, Action: raw.Action}
	if mode != QuickPrediction {
		out.ContentHook = raw.ContentHook
	}
	if mode != QuickContent {
		out.MarketSignal = raw.MarketSignal
	}
	return out, nil
}
