package provider

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimited holds every request on a token bucket before passing it on.
type RateLimited struct {
	next    Gateway
	limiter *rate.Limiter
}

// NewRateLimited allows rps requests per second with the given burst.
// A non-positive rps disables limiting.
func NewRateLimited(next Gateway, rps float64, burst int) *RateLimited {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &RateLimited{next: next, limiter: rate.NewLimiter(limit, burst)}
}

func (g *RateLimited) Generate(ctx context.Context, req Request) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return g.next.Generate(ctx, req)
}
