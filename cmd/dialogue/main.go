package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/theimaginaryfoundation/signal-bridge/bridge/fileutils"
	"github.com/theimaginaryfoundation/signal-bridge/dialogue"
	"github.com/theimaginaryfoundation/signal-bridge/internal/cliutil"
)

const help = `commands:
  <enter>   next turn
  reflect   current agent updates its model of the other (deep mode)
  beat      current agent plays one scene beat (deep mode)
  state     print both mind states
  reset     restart the scenario
  quit      exit`

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	sc, err := findScenario(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	log, err := cliutil.NewLogger(cfg.Gateway.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := cliutil.NewRegistry()
	if cfg.Gateway.MetricsAddr != "" {
		m, err := cliutil.ServeMetrics(cfg.Gateway.MetricsAddr, reg, log)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		defer func() { _ = m.Shutdown(context.Background()) }()
	}

	gw, _, err := cliutil.NewGateway(ctx, cfg.Gateway, log, reg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	sched, err := dialogue.NewTurnScheduler(gw, nil, schedulerConfig(cfg, sc, log))
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	s := &session{sched: sched, scenario: sc, cfg: schedulerConfig(cfg, sc, log), out: os.Stdout, log: log}
	fmt.Fprintf(os.Stdout, "%s\n%s\n\n%s\n\n", sc.Name, sc.Context, help)
	runErr := s.loop(ctx, os.Stdin)

	if cfg.TranscriptPath != "" {
		if err := writeTranscript(cfg.TranscriptPath, sched.Messages(), cfg.Overwrite); err != nil {
			log.Error("write transcript", zap.Error(err))
			os.Exit(1)
		}
		fmt.Fprintln(os.Stdout, "transcript:", cfg.TranscriptPath)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("session ended", zap.Error(runErr))
		os.Exit(1)
	}
}

func schedulerConfig(cfg Config, sc dialogue.Scenario, log *zap.Logger) dialogue.Config {
	c := sc.Config()
	c.Starting = cfg.startIndex()
	c.Deep = c.Deep || cfg.Deep
	c.Logger = log
	return c
}

func findScenario(cfg Config) (dialogue.Scenario, error) {
	var (
		scs []dialogue.Scenario
		err error
	)
	if cfg.ScenariosPath != "" {
		scs, err = dialogue.LoadScenarios(cfg.ScenariosPath)
	} else {
		scs, err = dialogue.DefaultScenarios()
	}
	if err != nil {
		return dialogue.Scenario{}, err
	}
	match := dialogue.FilterScenarios(scs, cfg.ScenarioID, "")
	if len(match) == 0 {
		return dialogue.Scenario{}, fmt.Errorf("unknown scenario %q", cfg.ScenarioID)
	}
	return match[0], nil
}

// session drives one scheduler from line commands.
type session struct {
	sched    *dialogue.TurnScheduler
	scenario dialogue.Scenario
	cfg      dialogue.Config
	out      io.Writer
	log      *zap.Logger
}

// loop reads commands until quit, EOF or ctx is done. Generation failures are
// reported and the loop continues; the same agent retries on the next turn.
func (s *session) loop(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprintf(s.out, "[%s] > ", s.speakerName())
		if !sc.Scan() {
			fmt.Fprintln(s.out)
			return sc.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		cmd := strings.ToLower(strings.TrimSpace(sc.Text()))
		if cmd == "quit" || cmd == "exit" {
			return nil
		}
		if err := s.do(ctx, cmd); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			fmt.Fprintln(s.out, "error:", err.Error())
		}
	}
}

func (s *session) do(ctx context.Context, cmd string) error {
	switch cmd {
	case "", "next":
		msg, err := s.sched.Advance(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s: %s\n", msg.Sender, msg.Text)
		if msg.Subtext != "" {
			fmt.Fprintf(s.out, "  (subtext: %s)\n", msg.Subtext)
		}
		fmt.Fprintf(s.out, "  thinks: %s\n", fileutils.Truncate(fileutils.SanitizeNewlines(msg.Mind.SelfAnalysis), 240))
	case "reflect":
		if !s.cfg.Deep {
			return errors.New("reflect needs deep mode (-deep)")
		}
		tom, err := s.sched.Reflect(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "apparent goals: %s\nhow they see me: %s\ntrust=%.2f deception=%.2f\n",
			tom.TheirApparentGoals, tom.HowTheySeeMe, tom.TrustLevel, tom.DeceptionDetected)
	case "beat":
		if !s.cfg.Deep {
			return errors.New("beat needs deep mode (-deep)")
		}
		res, err := s.sched.Beat(ctx, s.scene(), s.narrative())
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "[%s] %s\n", res.Beat.ActionType, res.Beat.Content)
		for _, p := range res.Projections {
			fmt.Fprintf(s.out, "  projection: %s\n", p.ProjectedTrait)
		}
		for _, b := range res.Beliefs {
			fmt.Fprintf(s.out, "  belief challenged: %s\n", b.BeliefChallenged)
		}
	case "state":
		for _, id := range s.sched.AgentIDs() {
			c, err := s.sched.Store().Character(id)
			if err != nil {
				return err
			}
			m, err := s.sched.Store().Get(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "%s\n  self: %s\n  other: %s\n  other's model of me: %s\n", c.Name,
				m.SelfAnalysis, m.ModelOfOther, m.ModelOfOthersModel)
		}
	case "reset":
		if err := s.sched.Reset(s.cfg); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "scenario reset")
	case "help", "?":
		fmt.Fprintln(s.out, help)
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return nil
}

func (s *session) speakerName() string {
	id := s.sched.Turn()
	c, err := s.sched.Store().Character(id)
	if err != nil {
		return id
	}
	return c.Name
}

func (s *session) scene() dialogue.Scene {
	return dialogue.Scene{
		ID:       s.scenario.ID,
		Title:    s.scenario.Name,
		Setting:  s.scenario.Context,
		Conflict: s.scenario.Description,
	}
}

// narrative raises tension by a tenth per beat played.
func (s *session) narrative() dialogue.NarrativeState {
	tension := 0.3 + 0.1*float64(len(s.sched.Beats()))
	if tension > 1 {
		tension = 1
	}
	return dialogue.NarrativeState{
		Theme:           s.scenario.Category,
		CentralConflict: s.scenario.Description,
		TensionLevel:    tension,
	}
}

func writeTranscript(path string, msgs []dialogue.Message, overwrite bool) error {
	if !overwrite && fileutils.FileExists(path) {
		return fmt.Errorf("output exists (use -overwrite): %s", path)
	}
	return fileutils.WriteJSONFileAtomic(path, msgs, true)
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.ScenarioID, "scenario", cfg.ScenarioID, "Scenario id to play (see scenario-runner -list)")
	fs.StringVar(&cfg.ScenariosPath, "scenarios", "", "YAML scenario catalogue (defaults to the built-in catalogue)")
	fs.StringVar(&cfg.Start, "start", cfg.Start, "Agent who speaks first: a|b")
	fs.BoolVar(&cfg.Deep, "deep", false, "Deep psychological mode (characters, subtext, reflect, beat)")
	fs.StringVar(&cfg.TranscriptPath, "transcript", "", "Write the message log as JSON here on exit")
	fs.BoolVar(&cfg.Overwrite, "overwrite", false, "Overwrite an existing transcript")
	cfg.Gateway.Register(fs)

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags]\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExample:")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/dialogue -scenario mentor-confession -transcript out/mentor.json")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Start = strings.ToLower(strings.TrimSpace(cfg.Start))
	if cfg.TranscriptPath != "" {
		cfg.TranscriptPath = filepath.Clean(cfg.TranscriptPath)
	}
	return cfg, nil
}
