package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

// Cached memoizes successful responses for identical requests.
type Cached struct {
	next  Gateway
	store *cache.Cache
}

func NewCached(next Gateway, ttl time.Duration) *Cached {
	return &Cached{next: next, store: cache.New(ttl, 2*ttl)}
}

func (g *Cached) Generate(ctx context.Context, req Request) (string, error) {
	key := cacheKey(req)
	if v, ok := g.store.Get(key); ok {
		return v.(string), nil
	}
	out, err := g.next.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	g.store.SetDefault(key, out)
	return out, nil
}

func cacheKey(req Request) string {
	h := sha256.New()
	for _, part := range []string{
		req.Name,
		req.Instructions,
		req.Input,
		strconv.FormatFloat(req.Temperature, 'f', -1, 64),
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
