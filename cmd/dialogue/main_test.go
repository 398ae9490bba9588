package main

import (
	"bytes"
	"context"
	"flag"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/theimaginaryfoundation/signal-bridge/bridge/provider/providertest"
	"github.com/theimaginaryfoundation/signal-bridge/dialogue"
)

func TestParseFlags_Overrides(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("dialogue", flag.ContinueOnError)
	cfg, err := parseFlags(fs, []string{"-scenario", "job-interview", "-start", "B", "-deep", "-transcript", "out/./t.json"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.startIndex() != 1 || !cfg.Deep || cfg.TranscriptPath != "out/t.json" {
		t.Fatalf("cfg=%+v", cfg)
	}

	cfg.Start = "c"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for -start c")
	}
}

func newSession(t *testing.T, gw *providertest.Gateway, deep bool) (*session, *bytes.Buffer) {
	t.Helper()
	cfg := defaultConfig()
	cfg.Deep = deep
	sc, err := findScenario(cfg)
	if err != nil {
		t.Fatalf("findScenario: %v", err)
	}
	dcfg := schedulerConfig(cfg, sc, zap.NewNop())
	sched, err := dialogue.NewTurnScheduler(gw, nil, dcfg)
	if err != nil {
		t.Fatalf("NewTurnScheduler: %v", err)
	}
	var out bytes.Buffer
	return &session{sched: sched, scenario: sc, cfg: dcfg, out: &out, log: zap.NewNop()}, &out
}

func TestSessionLoop(t *testing.T) {
	t.Parallel()

	gw := providertest.New().
		On("AgentTurn", `{"message":"It's a beauty.","selfAnalysis":"Hold firm.","modelOfOther":"","modelOfOthersModel":""}`).
		On("AgentTurn", `{"message":"It's old.","selfAnalysis":"Push.","modelOfOther":"","modelOfOthersModel":""}`)
	s, out := newSession(t, gw, false)

	in := strings.NewReader("\n\nstate\nreflect\nbogus\nreset\nquit\nnever read\n")
	if err := s.loop(context.Background(), in); err != nil {
		t.Fatalf("loop: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Alice: It's a beauty.",
		"Bob: It's old.",
		"thinks: Push.",
		"reflect needs deep mode",
		`unknown command "bogus"`,
		"scenario reset",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	if gw.CallCount("") != 2 {
		t.Fatalf("calls=%d", gw.CallCount(""))
	}
	if s.sched.TurnCount() != 0 || s.sched.Turn() != dialogue.AgentA {
		t.Fatalf("count=%d turn=%s", s.sched.TurnCount(), s.sched.Turn())
	}
}

func TestSessionReportsFailureAndContinues(t *testing.T) {
	t.Parallel()

	gw := providertest.New().
		On("AgentTurn", `not json at all`).
		On("AgentTurn", `{"message":"Second try.","selfAnalysis":"","modelOfOther":"","modelOfOthersModel":""}`)
	s, out := newSession(t, gw, false)

	if err := s.loop(context.Background(), strings.NewReader("\n\n")); err != nil {
		t.Fatalf("loop: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "error:") || !strings.Contains(got, "Alice: Second try.") {
		t.Fatalf("output:\n%s", got)
	}
}

func TestSessionBeatInDeepMode(t *testing.T) {
	t.Parallel()

	gw := providertest.New().On("SceneBeat", `{"action_type":"reaction","content":"Alice crosses her arms.","belief_challenged":true,"belief_detail":"Nobody values the past"}`)
	s, out := newSession(t, gw, true)

	if err := s.loop(context.Background(), strings.NewReader("beat\n")); err != nil {
		t.Fatalf("loop: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "[REACTION] Alice crosses her arms.") || !strings.Contains(got, "belief challenged: Nobody values the past") {
		t.Fatalf("output:\n%s", got)
	}
	if s.sched.Turn() != dialogue.AgentB {
		t.Fatalf("turn=%s", s.sched.Turn())
	}
	if !strings.Contains(gw.Calls()[0].Input, `"tension_level":0.3`) {
		t.Fatalf("input=%s", gw.Calls()[0].Input)
	}
}
