package odin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"pawgrammers/internal/ports/auth"
)

var (
	ErrTokenEmpty = errors.New("token is empty")
)

// DefaultCacheTTL: cuánto se reusa un token ya verificado. El dashboard
// manda ráfagas de mutaciones con el mismo token.
const DefaultCacheTTL = 30 * time.Second

const maxCachedTokens = 1024

// Verifier implementa auth.AuthVerifier usando Odin, con un cache corto
// de tokens aceptados. Los rechazos no se cachean.
type Verifier struct {
	client *Client
	ttl    time.Duration
	now    func() time.Time

	mu    sync.Mutex
	cache map[string]cachedClaims
}

type cachedClaims struct {
	claims  auth.Claims
	expires time.Time
}

type VerifierOption func(*Verifier)

// WithCacheTTL cambia el TTL; <= 0 desactiva el cache.
func WithCacheTTL(ttl time.Duration) VerifierOption {
	return func(v *Verifier) { v.ttl = ttl }
}

func withNow(now func() time.Time) VerifierOption {
	return func(v *Verifier) { v.now = now }
}

func NewVerifier(client *Client, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		client: client,
		ttl:    DefaultCacheTTL,
		now:    time.Now,
		cache:  make(map[string]cachedClaims),
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrOdinNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	if c, ok := v.cached(token); ok {
		return c, nil
	}

	claims, err := v.client.VerifyToken(ctx, token)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("odin verify failed: %w", err)
	}

	v.store(token, claims)
	return claims, nil
}

func (v *Verifier) cached(token string) (auth.Claims, bool) {
	if v.ttl <= 0 {
		return auth.Claims{}, false
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	e, ok := v.cache[token]
	if !ok {
		return auth.Claims{}, false
	}
	if !v.now().Before(e.expires) {
		delete(v.cache, token)
		return auth.Claims{}, false
	}
	return e.claims, true
}

func (v *Verifier) store(token string, claims auth.Claims) {
	if v.ttl <= 0 {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()
	if len(v.cache) >= maxCachedTokens {
		for k, e := range v.cache {
			if !now.Before(e.expires) {
				delete(v.cache, k)
			}
		}
		// todo vigente: se vacía entero
		if len(v.cache) >= maxCachedTokens {
			v.cache = make(map[string]cachedClaims)
		}
	}
	v.cache[token] = cachedClaims{claims: claims, expires: now.Add(v.ttl)}
}
