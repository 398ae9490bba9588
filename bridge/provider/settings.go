package provider

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Settings select and tune the concrete gateway. Flags in the cmds override these.
type Settings struct {
	Provider     string        `env:"SIGNAL_BRIDGE_PROVIDER" envDefault:"openai"`
	Model        string        `env:"SIGNAL_BRIDGE_MODEL"`
	OpenAIAPIKey string        `env:"OPENAI_API_KEY"`
	GeminiAPIKey string        `env:"GEMINI_API_KEY"`
	LegacyAPIKey string        `env:"API_KEY"`
	Flex         bool          `env:"SIGNAL_BRIDGE_FLEX" envDefault:"false"`
	RPS          float64       `env:"SIGNAL_BRIDGE_RPS" envDefault:"2"`
	Burst        int           `env:"SIGNAL_BRIDGE_BURST" envDefault:"2"`
	CacheTTL     time.Duration `env:"SIGNAL_BRIDGE_CACHE_TTL" envDefault:"0s"`
}

// LoadSettings reads an optional .env file and then the process environment.
func LoadSettings() (Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Settings{}, fmt.Errorf("load .env: %w", err)
	}
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}

func (s Settings) Validate() error {
	switch s.Provider {
	case ProviderOpenAI:
		if s.OpenAIAPIKey == "" {
			return errors.New("missing OPENAI_API_KEY (or pass -api-key)")
		}
	case ProviderGemini:
		if s.geminiKey() == "" {
			return errors.New("missing GEMINI_API_KEY (or pass -api-key)")
		}
	default:
		return fmt.Errorf("unknown provider %q (want openai or gemini)", s.Provider)
	}
	return nil
}

// ModelOrDefault returns the configured model or the provider's default.
func (s Settings) ModelOrDefault() string {
	if s.Model != "" {
		return s.Model
	}
	if s.Provider == ProviderGemini {
		return "gemini-2.5-flash"
	}
	return "gpt-4.1-mini"
}

func (s Settings) geminiKey() string {
	if s.GeminiAPIKey != "" {
		return s.GeminiAPIKey
	}
	return s.LegacyAPIKey
}

// SetAPIKey applies a key given on the command line to the selected provider.
func (s *Settings) SetAPIKey(key string) {
	if key == "" {
		return
	}
	if s.Provider == ProviderGemini {
		s.GeminiAPIKey = key
		return
	}
	s.OpenAIAPIKey = key
}

// Options carry the process-wide collaborators a gateway stack is built with.
type Options struct {
	Logger     *zap.Logger
	Registerer prometheus.Registerer
}

// New builds the concrete gateway for s and wraps it with caching, instrumentation
// and rate limiting.
func New(ctx context.Context, s Settings, opts Options) (Gateway, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var base Gateway
	switch s.Provider {
	case ProviderGemini:
		g, err := NewGeminiGateway(ctx, s.geminiKey(), s.ModelOrDefault())
		if err != nil {
			return nil, err
		}
		base = g
	default:
		g, err := NewOpenAIGateway(s.OpenAIAPIKey, s.ModelOrDefault(), s.Flex)
		if err != nil {
			return nil, err
		}
		base = g
	}

	var metrics *Metrics
	if opts.Registerer != nil {
		metrics = NewMetrics(opts.Registerer)
	}
	gw := compose(base, s, metrics, log)

	log.Info("gateway ready",
		zap.String("provider", s.Provider),
		zap.String("model", s.ModelOrDefault()),
		zap.Float64("rps", s.RPS),
		zap.Duration("cache_ttl", s.CacheTTL),
	)
	return gw, nil
}

// compose wraps base as Cached(RateLimited(Instrumented(base))). Cache hits
// never reach the limiter.
func compose(base Gateway, s Settings, metrics *Metrics, log *zap.Logger) Gateway {
	gw := Gateway(NewInstrumented(base, metrics, log.Named("gateway")))
	gw = NewRateLimited(gw, s.RPS, s.Burst)
	if s.CacheTTL > 0 {
		gw = NewCached(gw, s.CacheTTL)
	}
	return gw
}
