// Package token owns the insurer access-token lifecycle: acquisition, caching
// and refresh. The cache is an injected store keyed by environment so multiple
// submissions in one process (or several processes sharing Redis) reuse a token.
package token

import (
	"context"
	"time"
)

// Token is one cached credential set. Entries are replaced wholesale on refresh
// or reissue; no field is mutated in place.
type Token struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Store caches tokens per environment. Implementations must be safe for
// concurrent use. Get returns sentinel.ErrNotFound when no entry exists.
type Store interface {
	Get(ctx context.Context, environment string) (Token, error)
	Put(ctx context.Context, environment string, tok Token) error
}
