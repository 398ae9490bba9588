package cliutil

import (
	"context"
	"flag"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/theimaginaryfoundation/signal-bridge/bridge/provider"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestGatewayFlagsApply(t *testing.T) {
	t.Parallel()

	var f GatewayFlags
	fs := flag.NewFlagSet("x", flag.ContinueOnError)
	f.Register(fs)
	if err := fs.Parse([]string{"-provider", "gemini", "-api-key", "k", "-rps", "0.5"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	s := f.Apply(provider.Settings{Provider: provider.ProviderOpenAI, Model: "env-model", RPS: 2})
	if s.Provider != provider.ProviderGemini || s.GeminiAPIKey != "k" || s.OpenAIAPIKey != "" {
		t.Fatalf("settings=%+v", s)
	}
	if s.Model != "env-model" || s.RPS != 0.5 {
		t.Fatalf("model=%q rps=%v", s.Model, s.RPS)
	}

	if err := (GatewayFlags{Provider: "claude"}).Validate(); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestServeMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "cliutil_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	m, err := ServeMetrics("127.0.0.1:0", reg, zap.NewNop())
	if err != nil {
		t.Fatalf("ServeMetrics: %v", err)
	}
	defer func() {
		if err := m.Shutdown(context.Background()); err != nil {
			t.Fatalf("Shutdown: %v", err)
		}
	}()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + m.Addr() + "/metrics")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "cliutil_test_total 1") {
		t.Fatalf("body=%s", body)
	}
}
