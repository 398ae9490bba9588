// Package cliutil holds the process setup shared by the signal-bridge commands:
// logger construction, the provider gateway stack and the optional metrics
// endpoint.
package cliutil

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/theimaginaryfoundation/signal-bridge/bridge/provider"
)

// NewLogger builds a production zap logger, at debug level when debug is set.
func NewLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// GatewayFlags are the provider overrides every command accepts. Empty values
// keep what the environment says.
type GatewayFlags struct {
	Provider string
	Model    string
	APIKey   string
	RPS      float64

	Debug       bool
	MetricsAddr string
}

// Register adds the shared flags to fs.
func (f *GatewayFlags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Provider, "provider", f.Provider, "Model provider: openai|gemini (overrides SIGNAL_BRIDGE_PROVIDER)")
	fs.StringVar(&f.Model, "model", f.Model, "Model name (overrides SIGNAL_BRIDGE_MODEL)")
	fs.StringVar(&f.APIKey, "api-key", f.APIKey, "API key for the selected provider (overrides OPENAI_API_KEY / GEMINI_API_KEY)")
	fs.Float64Var(&f.RPS, "rps", f.RPS, "Requests per second sent to the provider (0 keeps SIGNAL_BRIDGE_RPS)")
	fs.BoolVar(&f.Debug, "debug", f.Debug, "Debug logging")
	fs.StringVar(&f.MetricsAddr, "metrics-addr", f.MetricsAddr, "Serve Prometheus metrics on this address (e.g. :9090); empty disables")
}

func (f GatewayFlags) Validate() error {
	switch f.Provider {
	case "", provider.ProviderOpenAI, provider.ProviderGemini:
	default:
		return fmt.Errorf("unknown -provider %q (want openai or gemini)", f.Provider)
	}
	if f.RPS < 0 {
		return errors.New("rps must be >= 0")
	}
	return nil
}

// Apply layers the flags over settings loaded from the environment.
func (f GatewayFlags) Apply(s provider.Settings) provider.Settings {
	if f.Provider != "" {
		s.Provider = f.Provider
	}
	if f.Model != "" {
		s.Model = f.Model
	}
	if f.RPS > 0 {
		s.RPS = f.RPS
	}
	s.SetAPIKey(f.APIKey)
	return s
}

// NewGateway loads provider settings from .env and the environment, applies
// the flags and builds the gateway stack. Metrics land on reg when it is non-nil.
func NewGateway(ctx context.Context, f GatewayFlags, log *zap.Logger, reg prometheus.Registerer) (provider.Gateway, provider.Settings, error) {
	s, err := provider.LoadSettings()
	if err != nil {
		return nil, provider.Settings{}, err
	}
	s = f.Apply(s)
	gw, err := provider.New(ctx, s, provider.Options{Logger: log, Registerer: reg})
	if err != nil {
		return nil, s, err
	}
	return gw, s, nil
}

// NewRegistry returns a registry with the process and Go runtime collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// MetricsServer serves /metrics until Shutdown.
type MetricsServer struct {
	srv  *http.Server
	addr string
	done chan struct{}
}

// ServeMetrics starts serving reg on addr. The listener is bound before it
// returns, so Addr is usable immediately.
func ServeMetrics(addr string, reg *prometheus.Registry, log *zap.Logger) (*MetricsServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listen %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	m := &MetricsServer{
		srv:  &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		addr: ln.Addr().String(),
		done: make(chan struct{}),
	}
	go func() {
		defer close(m.done)
		if err := m.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	log.Info("serving metrics", zap.String("addr", m.addr))
	return m, nil
}

func (m *MetricsServer) Addr() string { return m.addr }

func (m *MetricsServer) Shutdown(ctx context.Context) error {
	if m == nil {
		return nil
	}
	err := m.srv.Shutdown(ctx)
	<-m.done
	return err
}

// Progress logs one "progress <tool>: ..." line.
func Progress(log *zap.Logger, tool, format string, args ...any) {
	log.Info(fmt.Sprintf("progress %s: %s", tool, fmt.Sprintf(format, args...)))
}
