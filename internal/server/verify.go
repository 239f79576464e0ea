package server

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/updogjp/infinichess/internal/engine"
)

// AllowAll принимает любой непустой токен. Для разработки и закрытых стендов.
type AllowAll struct{}

func (AllowAll) Verify(_ context.Context, token string) (bool, error) {
	return token != "", nil
}

// ReplayGuard не дает использовать один токен дважды в течение ttl
type ReplayGuard struct {
	next engine.Verifier
	seen *ristretto.Cache[string, struct{}]
	ttl  time.Duration
}

func NewReplayGuard(next engine.Verifier, ttl time.Duration) (*ReplayGuard, error) {
	seen, err := ristretto.NewCache(&ristretto.Config[string, struct{}]{
		NumCounters: 100_000,
		MaxCost:     10_000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &ReplayGuard{next: next, seen: seen, ttl: ttl}, nil
}

func (g *ReplayGuard) Verify(ctx context.Context, token string) (bool, error) {
	if _, used := g.seen.Get(token); used {
		return false, nil
	}
	ok, err := g.next.Verify(ctx, token)
	if err != nil || !ok {
		return false, err
	}
	g.seen.SetWithTTL(token, struct{}{}, 1, g.ttl)
	g.seen.Wait()
	return true, nil
}

func (g *ReplayGuard) Close() {
	g.seen.Close()
}
