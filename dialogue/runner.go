package dialogue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/theimaginaryfoundation/signal-bridge/bridge"
	"github.com/theimaginaryfoundation/signal-bridge/bridge/provider"
)

// TurnResult is one committed turn as recorded by the runner.
type TurnResult struct {
	TurnNumber    int                     `json:"turnNumber"`
	Agent         string                  `json:"agent"`
	Message       string                  `json:"message"`
	Subtext       string                  `json:"subtext,omitempty"`
	EmotionalTone bridge.Emotion          `json:"emotional_tone,omitempty"`
	DefenseActive bridge.DefenseMechanism `json:"defense_active,omitempty"`
	Mind          MindState               `json:"mindState"`
	Timestamp     time.Time               `json:"timestamp"`
}

// AgentResult is an agent's state at the end of a scenario.
type AgentResult struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	SecretGoal string     `json:"secretGoal"`
	Mind       MindState  `json:"mindState"`
	Character  *Character `json:"character,omitempty"`
}

type ScenarioResult struct {
	Scenario    Scenario       `json:"scenario"`
	StartTime   time.Time      `json:"startTime"`
	EndTime     time.Time      `json:"endTime"`
	DurationMs  int64          `json:"durationMs"`
	Turns       []TurnResult   `json:"turns"`
	FinalStates [2]AgentResult `json:"finalStates"`
	Success     bool           `json:"success"`
	Error       string         `json:"error,omitempty"`
}

type RunnerOptions struct {
	// TurnDelay spaces generation calls within a scenario.
	TurnDelay time.Duration
	// ScenarioDelay spaces scenarios.
	ScenarioDelay time.Duration
	Logger        *zap.Logger
	Now           func() time.Time
	// Progress, when set, is called after each turn.
	Progress func(scenarioID string, done, total int, last string)
}

func (o RunnerOptions) withDefaults() RunnerOptions {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Runner plays scenarios serially against one gateway.
type Runner struct {
	gw   provider.Gateway
	opts RunnerOptions
}

func NewRunner(gw provider.Gateway, opts RunnerOptions) *Runner {
	return &Runner{gw: gw, opts: opts.withDefaults()}
}

// RunScenario plays sc to its turn count. A failed turn ends the scenario; the
// result keeps every turn committed before it.
func (r *Runner) RunScenario(ctx context.Context, sc Scenario) ScenarioResult {
	res := ScenarioResult{Scenario: sc, StartTime: r.opts.Now().UTC(), Turns: []TurnResult{}}
	var sched *TurnScheduler
	finish := func(err error) ScenarioResult {
		if sched != nil {
			res.FinalStates = finalStates(sched)
		}
		res.EndTime = r.opts.Now().UTC()
		res.DurationMs = res.EndTime.Sub(res.StartTime).Milliseconds()
		res.Success = err == nil
		if err != nil {
			res.Error = err.Error()
		}
		return res
	}

	cfg := sc.Config()
	cfg.Now = r.opts.Now
	cfg.Logger = r.opts.Logger.With(zap.String("scenario", sc.ID))
	sched, err := NewTurnScheduler(r.gw, nil, cfg)
	if err != nil {
		return finish(err)
	}

	limiter := rate.NewLimiter(rate.Every(r.opts.TurnDelay), 1)
	for n := 1; n <= sc.Turns; n++ {
		if err := limiter.Wait(ctx); err != nil {
			return finish(err)
		}
		msg, err := sched.Advance(ctx)
		if err != nil {
			r.opts.Logger.Warn("scenario turn failed", zap.String("scenario", sc.ID), zap.Int("turn", n), zap.Error(err))
			return finish(fmt.Errorf("turn %d: %w", n, err))
		}
		res.Turns = append(res.Turns, TurnResult{
			TurnNumber:    n,
			Agent:         msg.Sender,
			Message:       msg.Text,
			Subtext:       msg.Subtext,
			EmotionalTone: msg.EmotionalTone,
			DefenseActive: msg.DefenseActive,
			Mind:          msg.Mind,
			Timestamp:     msg.Timestamp,
		})
		if r.opts.Progress != nil {
			r.opts.Progress(sc.ID, n, sc.Turns, msg.Sender)
		}
	}
	return finish(nil)
}

func finalStates(s *TurnScheduler) [2]AgentResult {
	var out [2]AgentResult
	deep := s.Config().Deep
	for i, id := range s.AgentIDs() {
		out[i].ID = id
		mind, _ := s.Store().Get(id)
		out[i].Mind = mind
		c, err := s.Store().Character(id)
		if err != nil {
			continue
		}
		out[i].Name = c.Name
		out[i].SecretGoal = c.SecretGoal
		if deep {
			out[i].Character = &c
		}
	}
	return out
}

// Run plays scenarios in order, calling each after every scenario. It stops
// early when ctx is done or each returns an error.
func (r *Runner) Run(ctx context.Context, scs []Scenario, each func(ScenarioResult) error) ([]ScenarioResult, error) {
	if ctx == nil {
		return nil, errors.New("Run: ctx is nil")
	}
	limiter := rate.NewLimiter(rate.Every(r.opts.ScenarioDelay), 1)
	out := make([]ScenarioResult, 0, len(scs))
	for _, sc := range scs {
		if err := limiter.Wait(ctx); err != nil {
			return out, fmt.Errorf("Run: %w", err)
		}
		res := r.RunScenario(ctx, sc)
		out = append(out, res)
		r.opts.Logger.Info("scenario finished",
			zap.String("scenario", sc.ID),
			zap.Bool("success", res.Success),
			zap.Int("turns", len(res.Turns)),
			zap.Int64("duration_ms", res.DurationMs),
		)
		if each != nil {
			if err := each(res); err != nil {
				return out, fmt.Errorf("Run: %w", err)
			}
		}
		if err := ctx.Err(); err != nil {
			return out, fmt.Errorf("Run: %w", err)
		}
	}
	return out, nil
}
