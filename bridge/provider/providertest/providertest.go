// Package providertest supplies a scripted Gateway for tests.
package providertest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/theimaginaryfoundation/signal-bridge/bridge/provider"
)

// Responder produces the output for one request.
type Responder func(req provider.Request) (string, error)

// Gateway answers requests by schema name. Scripted responses are consumed in
// order and the last one repeats. It is safe for concurrent use.
type Gateway struct {
	mu      sync.Mutex
	scripts map[string][]Responder
	calls   []provider.Request
}

func New() *Gateway {
	return &Gateway{scripts: make(map[string][]Responder)}
}

// On queues a response for name. body may be a string (sent verbatim) or any
// value, which is marshalled to JSON.
func (g *Gateway) On(name string, body any) *Gateway {
	var out string
	switch b := body.(type) {
	case string:
		out = b
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			panic(fmt.Sprintf("providertest: marshal %s: %v", name, err))
		}
		out = string(raw)
	}
	return g.OnFunc(name, func(provider.Request) (string, error) { return out, nil })
}

// Fail queues a failure for name.
func (g *Gateway) Fail(name string, err error) *Gateway {
	return g.OnFunc(name, func(provider.Request) (string, error) { return "", err })
}

func (g *Gateway) OnFunc(name string, fn Responder) *Gateway {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scripts[name] = append(g.scripts[name], fn)
	return g
}

func (g *Gateway) Generate(ctx context.Context, req provider.Request) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, req)
	queue := g.scripts[req.Name]
	var fn Responder
	if len(queue) > 0 {
		fn = queue[0]
		if len(queue) > 1 {
			g.scripts[req.Name] = queue[1:]
		}
	}
	g.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if fn == nil {
		return "", fmt.Errorf("providertest: no response scripted for %s", req.Name)
	}
	return fn(req)
}

// Calls returns a copy of every request seen so far.
func (g *Gateway) Calls() []provider.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]provider.Request, len(g.calls))
	copy(out, g.calls)
	return out
}

// CallCount counts requests for name, or all requests when name is empty.
func (g *Gateway) CallCount(name string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if name == "" {
		return len(g.calls)
	}
	n := 0
	for _, c := range g.calls {
		if c.Name == name {
			n++
		}
	}
	return n
}
