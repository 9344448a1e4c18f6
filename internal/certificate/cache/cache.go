// Package cache keeps recent ledger token reads so public verification traffic
// does not hit the node on every request.
package cache

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"academix/internal/certificate/ledger"
)

var (
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "academix_ledger_view_cache_hits_total",
		Help: "Ledger token reads served from cache",
	}, []string{"backend"})
	cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "academix_ledger_view_cache_misses_total",
		Help: "Ledger token reads that missed the cache",
	}, []string{"backend"})
)

// TokenCache stores ledger token records by token id.
type TokenCache interface {
	Get(ctx context.Context, tokenID string) (*ledger.TokenRecord, bool)
	Set(ctx context.Context, tokenID string, record *ledger.TokenRecord)
}

// CachedGateway serves GetToken from the cache and passes every other call
// through. Only successful reads are cached.
type CachedGateway struct {
	ledger.Gateway
	cache TokenCache
}

func NewCachedGateway(gateway ledger.Gateway, cache TokenCache) *CachedGateway {
	return &CachedGateway{Gateway: gateway, cache: cache}
}

func (g *CachedGateway) GetToken(ctx context.Context, tokenID string) (*ledger.TokenRecord, error) {
	if rec, ok := g.cache.Get(ctx, tokenID); ok {
		return rec, nil
	}
	rec, err := g.Gateway.GetToken(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	g.cache.Set(ctx, tokenID, rec)
	return rec, nil
}
