package dialogue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/theimaginaryfoundation/signal-bridge/bridge/provider"
)

type theoryOfMindWire struct {
	MyConsciousState           string   `json:"my_conscious_state" jsonschema:"description=What I am currently aware of thinking and feeling"`
	MyHiddenMotives            string   `json:"my_hidden_motives" jsonschema:"description=What drives me that I do not show others"`
	MyBlindSpots               string   `json:"my_blind_spots" jsonschema:"description=What I cannot see about myself that others might see"`
	TheirApparentGoals         string   `json:"their_apparent_goals" jsonschema:"description=What the other person seems to want on the surface"`
	TheirSuspectedSecrets      string   `json:"their_suspected_secrets" jsonschema:"description=What I intuit they might be hiding"`
	TheirPerceivedEmotions     string   `json:"their_perceived_emotions" jsonschema:"description=What emotions I read in them"`
	TheirSuspectedWounds       string   `json:"their_suspected_wounds" jsonschema:"description=What old pain I sense in them"`
	HowTheySeeMe               string   `json:"how_they_see_me" jsonschema:"description=How I believe they perceive me"`
	WhatTheySuspectAboutMe     string   `json:"what_they_suspect_about_me" jsonschema:"description=What I fear they might guess about me"`
	TheirEmotionalReactionToMe string   `json:"their_emotional_reaction_to_me" jsonschema:"description=What emotions I evoke in them"`
	WhatTheyThinkIThinkOfThem  string   `json:"what_they_think_i_think_of_them" jsonschema:"description=Their model of my model of them"`
	AmIProjecting              string   `json:"am_i_projecting" jsonschema:"description=Am I seeing my own traits in them?"`
	AreTheyProjecting          string   `json:"are_they_projecting" jsonschema:"description=Are they seeing their own issues in me?"`
	LeveragePoints             string   `json:"leverage_points" jsonschema:"description=How could I influence them if I wanted to?"`
	VulnerabilitiesExposed     string   `json:"vulnerabilities_exposed" jsonschema:"description=What weaknesses have I revealed?"`
	TrustLevel                 *float64 `json:"trust_level" jsonschema:"description=0-1 scale of how much I trust them"`
	DeceptionDetected          *float64 `json:"deception_detected" jsonschema:"description=0-1 confidence they are being deceptive"`
}

var theoryOfMindSchema = provider.GenerateSchema[theoryOfMindWire]()

func shapeTheoryOfMind(raw theoryOfMindWire) DeepTheoryOfMind {
	trust, deception := 0.5, 0.0
	if raw.TrustLevel != nil {
		trust = clamp01(*raw.TrustLevel)
	}
	if raw.DeceptionDetected != nil {
		deception = clamp01(*raw.DeceptionDetected)
	}
	return DeepTheoryOfMind{
		MyConsciousState:           raw.MyConsciousState,
		MyHiddenMotives:            raw.MyHiddenMotives,
		MyBlindSpots:               raw.MyBlindSpots,
		TheirApparentGoals:         raw.TheirApparentGoals,
		TheirSuspectedSecrets:      raw.TheirSuspectedSecrets,
		TheirPerceivedEmotions:     raw.TheirPerceivedEmotions,
		TheirSuspectedWounds:       raw.TheirSuspectedWounds,
		HowTheySeeMe:               raw.HowTheySeeMe,
		WhatTheySuspectAboutMe:     raw.WhatTheySuspectAboutMe,
		TheirEmotionalReactionToMe: raw.TheirEmotionalReactionToMe,
		WhatTheyThinkIThinkOfThem:  raw.WhatTheyThinkIThinkOfThem,
		AmIProjecting:              raw.AmIProjecting,
		AreTheyProjecting:          raw.AreTheyProjecting,
		LeveragePoints:             raw.LeveragePoints,
		VulnerabilitiesExposed:     raw.VulnerabilitiesExposed,
		TrustLevel:                 trust,
		DeceptionDetected:          deception,
	}
}

// GenerateDeepTheoryOfMind asks for self's full model of other. self is sent in
// full; other only as far as self can observe it.
func GenerateDeepTheoryOfMind(ctx context.Context, gw provider.Gateway, self Character, other PublicView, situation string, recent []string) (DeepTheoryOfMind, error) {
	if ctx == nil {
		return DeepTheoryOfMind{}, errors.New("GenerateDeepTheoryOfMind: ctx is nil")
	}
	payload, err := json.Marshal(struct {
		Character   Character  `json:"character"`
		Description string     `json:"archetype_description"`
		Other       PublicView `json:"other"`
		Context     string     `json:"context"`
		Recent      []string   `json:"recent_events"`
	}{self, ArchetypeDescription(self.Unconscious.DominantArchetype), other, situation, nonNil(recent)})
	if err != nil {
		return DeepTheoryOfMind{}, err
	}

	var raw theoryOfMindWire
	err = provider.Decode(ctx, gw, provider.Request{
		Name:         "DeepTheoryOfMind",
		Instructions: theoryOfMindPrompt,
		Input:        string(payload),
		Schema:       theoryOfMindSchema,
		Temperature:  0.8,
	}, &raw)
	if err != nil {
		return DeepTheoryOfMind{}, err
	}
	return shapeTheoryOfMind(raw), nil
}

// Reflect refreshes the acting agent's model of its counterpart without taking
// a turn. The model replaces the previous one for that counterpart.
func (s *TurnScheduler) Reflect(ctx context.Context) (DeepTheoryOfMind, error) {
	if ctx == nil {
		return DeepTheoryOfMind{}, errors.New("Reflect: ctx is nil")
	}
	snap, err := s.begin()
	if err != nil {
		return DeepTheoryOfMind{}, fmt.Errorf("Reflect: %w", err)
	}
	defer s.end()

	var recent []string
	for _, m := range limitTail(snap.history, 5) {
		recent = append(recent, fmt.Sprintf("%s: %q", m.Sender, m.Text))
	}
	tom, err := GenerateDeepTheoryOfMind(ctx, s.gw, snap.self, snap.other.PublicView(), snap.cfg.Context, recent)
	if err != nil {
		return DeepTheoryOfMind{}, fmt.Errorf("Reflect: %w", err)
	}

	next := snap.self.Clone()
	if next.MindModels == nil {
		next.MindModels = map[string]DeepTheoryOfMind{}
	}
	next.MindModels[snap.other.ID] = tom
	s.mu.Lock()
	s.state = StateApplying
	s.store.ReplaceCharacter(s.ids[snap.actor], next)
	s.mu.Unlock()
	snap.cfg.Logger.Debug("theory of mind refreshed",
		zap.String("agent", snap.self.Name),
		zap.Float64("trust", tom.TrustLevel),
		zap.Float64("deception", tom.DeceptionDetected),
	)
	return tom, nil
}

func limitTail[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
