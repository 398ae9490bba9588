package provider

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type stubGateway struct {
	out   string
	err   error
	calls atomic.Int32
}

func (s *stubGateway) Generate(ctx context.Context, req Request) (string, error) {
	s.calls.Add(1)
	return s.out, s.err
}

type sample struct {
	Name   string   `json:"name"`
	Score  *float64 `json:"score"`
	Tags   []string `json:"tags"`
	Nested struct {
		Flag bool `json:"flag"`
	} `json:"nested"`
}

func TestGenerateSchemaIsStrict(t *testing.T) {
	t.Parallel()

	s := GenerateSchema[sample]()
	if s["additionalProperties"] != false {
		t.Fatalf("additionalProperties=%v", s["additionalProperties"])
	}
	req, ok := s["required"].([]string)
	if !ok {
		t.Fatalf("required type=%T", s["required"])
	}
	if strings.Join(req, ",") != "name,nested,score,tags" {
		t.Fatalf("required=%v", req)
	}
	props := s["properties"].(map[string]any)
	nested := props["nested"].(map[string]any)
	if nested["additionalProperties"] != false {
		t.Fatalf("nested additionalProperties=%v", nested["additionalProperties"])
	}
	for _, key := range []string{"$schema", "$id"} {
		if _, ok := s[key]; ok {
			t.Fatalf("expected %s to be stripped", key)
		}
	}
	if req, _ := nested["required"].([]string); strings.Join(req, ",") != "flag" {
		t.Fatalf("nested required=%v", nested["required"])
	}
}

func TestDecodeWrapsFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var out sample

	err := Decode(ctx, &stubGateway{err: errors.New("boom")}, Request{Name: "Sample"}, &out)
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("err=%v", err)
	}
	var ge *GenerationError
	if !errors.As(err, &ge) || ge.Name != "Sample" {
		t.Fatalf("expected GenerationError for Sample, got %v", err)
	}

	err = Decode(ctx, &stubGateway{out: "not json at all"}, Request{Name: "Sample"}, &out)
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("malformed output err=%v", err)
	}

	if err := Decode(ctx, nil, Request{Name: "Sample"}, &out); !errors.Is(err, ErrGeneration) {
		t.Fatalf("nil gateway err=%v", err)
	}
}

func TestDecodeCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gw := &stubGateway{out: `{"name":"x"}`}
	var out sample
	err := Decode(ctx, gw, Request{Name: "Sample"}, &out)
	if !errors.Is(err, ErrGeneration) || !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v", err)
	}
	if gw.calls.Load() != 0 {
		t.Fatalf("calls=%d", gw.calls.Load())
	}
}

func TestDecodeFencedOutput(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{out: "```json\n{\"name\":\"ok\",\"score\":0.25}\n```"}
	var out sample
	if err := Decode(context.Background(), gw, Request{Name: "Sample"}, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Name != "ok" || out.Score == nil || *out.Score != 0.25 {
		t.Fatalf("out=%+v", out)
	}
}

func TestRetryDelayClassification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err     string
		attempt int
		want    time.Duration
		retry   bool
	}{
		{"POST: 429 Too Many Requests", 0, 65 * time.Second, true},
		{"rate limit reached", 1, 100 * time.Second, true},
		{"500 internal server error", 0, 5 * time.Second, true},
		{"server_error", 1, 30 * time.Second, true},
		{"429", 2, 0, false},
		{"400 bad request", 0, 0, false},
	}
	for _, tc := range cases {
		got, retry := retryDelay(errors.New(tc.err), tc.attempt, 3)
		if got != tc.want || retry != tc.retry {
			t.Fatalf("retryDelay(%q,%d)=(%s,%v) want (%s,%v)", tc.err, tc.attempt, got, retry, tc.want, tc.retry)
		}
	}
}

func TestSleepCtxStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := sleepCtx(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("sleepCtx ignored cancellation")
	}
}

func TestCachedServesRepeatRequests(t *testing.T) {
	t.Parallel()

	stub := &stubGateway{out: `{"name":"a"}`}
	gw := NewCached(stub, time.Minute)
	req := Request{Name: "Sample", Input: "x", Temperature: 0.5}
	for i := 0; i < 3; i++ {
		if _, err := gw.Generate(context.Background(), req); err != nil {
			t.Fatalf("generate: %v", err)
		}
	}
	if stub.calls.Load() != 1 {
		t.Fatalf("calls=%d", stub.calls.Load())
	}
	req.Temperature = 0.7
	if _, err := gw.Generate(context.Background(), req); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if stub.calls.Load() != 2 {
		t.Fatalf("calls after temperature change=%d", stub.calls.Load())
	}
}

func TestCachedDoesNotStoreFailures(t *testing.T) {
	t.Parallel()

	stub := &stubGateway{err: errors.New("nope")}
	gw := NewCached(stub, time.Minute)
	for i := 0; i < 2; i++ {
		if _, err := gw.Generate(context.Background(), Request{Name: "Sample"}); err == nil {
			t.Fatalf("expected error")
		}
	}
	if stub.calls.Load() != 2 {
		t.Fatalf("calls=%d", stub.calls.Load())
	}
}

func TestRateLimitedHonorsContext(t *testing.T) {
	t.Parallel()

	stub := &stubGateway{out: "{}"}
	gw := NewRateLimited(stub, 0.001, 1)
	if _, err := gw.Generate(context.Background(), Request{Name: "Sample"}); err != nil {
		t.Fatalf("first call: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := gw.Generate(ctx, Request{Name: "Sample"}); err == nil {
		t.Fatalf("expected limiter wait to fail")
	}
	if stub.calls.Load() != 1 {
		t.Fatalf("calls=%d", stub.calls.Load())
	}
}

func TestComposeCacheHitsSkipLimiter(t *testing.T) {
	t.Parallel()

	stub := &stubGateway{out: "{}"}
	gw := compose(stub, Settings{RPS: 0.001, Burst: 1, CacheTTL: time.Minute}, nil, zap.NewNop())
	req := Request{Name: "Sample", Input: "x"}
	if _, err := gw.Generate(context.Background(), req); err != nil {
		t.Fatalf("first call: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := gw.Generate(ctx, req); err != nil {
		t.Fatalf("cached call waited on limiter: %v", err)
	}
	if _, err := gw.Generate(ctx, Request{Name: "Sample", Input: "y"}); err == nil {
		t.Fatalf("expected uncached call to wait on limiter")
	}
	if stub.calls.Load() != 1 {
		t.Fatalf("calls=%d", stub.calls.Load())
	}
}

func TestInstrumentedCountsOutcomes(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	ok := NewInstrumented(&stubGateway{out: "{}"}, m, zap.NewNop())
	bad := NewInstrumented(&stubGateway{err: errors.New("x")}, m, zap.NewNop())

	_, _ = ok.Generate(context.Background(), Request{Name: "Sample"})
	_, _ = ok.Generate(context.Background(), Request{Name: "Sample"})
	_, _ = bad.Generate(context.Background(), Request{Name: "Sample"})

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	got := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "signal_bridge_generation_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			var outcome string
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == "outcome" {
					outcome = lp.GetValue()
				}
			}
			got[outcome] = metric.GetCounter().GetValue()
		}
	}
	if got["ok"] != 2 || got["error"] != 1 {
		t.Fatalf("counts=%v", got)
	}
}

func TestSettingsValidate(t *testing.T) {
	t.Parallel()

	if err := (Settings{Provider: ProviderOpenAI}).Validate(); err == nil {
		t.Fatalf("expected missing key error")
	}
	if err := (Settings{Provider: ProviderGemini, LegacyAPIKey: "k"}).Validate(); err != nil {
		t.Fatalf("legacy key should satisfy gemini: %v", err)
	}
	if err := (Settings{Provider: "claude", OpenAIAPIKey: "k"}).Validate(); err == nil {
		t.Fatalf("expected unknown provider error")
	}

	s := Settings{Provider: ProviderGemini}
	s.SetAPIKey("abc")
	if s.GeminiAPIKey != "abc" || s.OpenAIAPIKey != "" {
		t.Fatalf("settings=%+v", s)
	}
	if s.ModelOrDefault() != "gemini-2.5-flash" {
		t.Fatalf("model=%q", s.ModelOrDefault())
	}
}
