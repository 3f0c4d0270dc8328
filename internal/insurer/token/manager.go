package token

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"coverflow/internal/insurer/wire"
	"coverflow/internal/platform/config"
	"coverflow/pkg/domainerrors"
)

// expiryBuffer keeps a token from being sent when it would expire mid-flight.
const expiryBuffer = 60 * time.Second

// fallbackLifetime bounds a token whose response carries no expiry at all.
const fallbackLifetime = 15 * time.Minute

// Manager hands out a valid access token for the configured environment,
// refreshing or reacquiring transparently.
type Manager struct {
	cfg    config.Insurer
	http   *http.Client
	store  Store
	logger *slog.Logger
	now    func() time.Time

	// mu serializes acquisition so concurrent callers do not stampede the
	// token endpoint when the cache goes cold.
	mu sync.Mutex
}

// NewManager builds a Manager. A nil httpClient falls back to a client bound to
// the configured timeout; a nil store falls back to an in-process cache.
func NewManager(cfg config.Insurer, httpClient *http.Client, store Store, logger *slog.Logger) *Manager {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		cfg:    cfg,
		http:   httpClient,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// AccessToken returns a token valid for at least expiryBuffer from now.
//
// Cached tokens inside the buffer are returned without any network call. A
// cached refresh token is tried first when the access token is stale; refresh
// failure is non-fatal and falls through to full acquisition. Acquisition
// failure is fatal for the calling operation.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	env := m.cfg.Environment

	if tok, err := m.store.Get(ctx, env); err == nil {
		if tok.ExpiresAt.After(m.now().Add(expiryBuffer)) {
			return tok.AccessToken, nil
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Re-check under the lock: another caller may have replaced the entry.
	cached, cacheErr := m.store.Get(ctx, env)
	if cacheErr == nil && cached.ExpiresAt.After(m.now().Add(expiryBuffer)) {
		return cached.AccessToken, nil
	}

	if cacheErr == nil && cached.RefreshToken != "" {
		if tok, err := m.refresh(ctx, cached.RefreshToken); err == nil {
			m.put(ctx, env, tok)
			return tok.AccessToken, nil
		} else {
			m.logger.WarnContext(ctx, "token refresh failed, reacquiring",
				"environment", env,
				"error", err.Error(),
			)
		}
	}

	tok, err := m.acquire(ctx)
	if err != nil {
		return "", err
	}
	m.put(ctx, env, tok)
	return tok.AccessToken, nil
}

func (m *Manager) put(ctx context.Context, env string, tok Token) {
	if err := m.store.Put(ctx, env, tok); err != nil {
		// A broken cache degrades to per-call acquisition; it must not fail
		// the business operation.
		m.logger.WarnContext(ctx, "token cache write failed",
			"environment", env,
			"error", err.Error(),
		)
	}
}

func (m *Manager) acquire(ctx context.Context) (Token, error) {
	resp, err := m.post(ctx, "/newToken", wire.TokenRequest{
		ClientID:     m.cfg.ClientID,
		ClientSecret: m.cfg.ClientSecret,
	})
	if err != nil {
		return Token{}, domainerrors.Wrap(err, domainerrors.CodeUpstreamUnavailable, "token acquisition failed")
	}
	return m.toToken(resp), nil
}

func (m *Manager) refresh(ctx context.Context, refreshToken string) (Token, error) {
	resp, err := m.post(ctx, "/refreshToken", wire.RefreshTokenRequest{RefreshToken: refreshToken})
	if err != nil {
		return Token{}, err
	}
	tok := m.toToken(resp)
	if tok.RefreshToken == "" {
		// Some environments rotate refresh tokens only on full issuance.
		tok.RefreshToken = refreshToken
	}
	return tok, nil
}

func (m *Manager) post(ctx context.Context, path string, payload any) (wire.TokenResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return wire.TokenResponse{}, fmt.Errorf("encode token request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return wire.TokenResponse{}, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.http.Do(req)
	if err != nil {
		return wire.TokenResponse{}, fmt.Errorf("token endpoint %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return wire.TokenResponse{}, fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return wire.TokenResponse{}, fmt.Errorf("token endpoint %s rejected: status %d: %s", path, resp.StatusCode, string(raw))
	}

	var decoded wire.TokenResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return wire.TokenResponse{}, fmt.Errorf("decode token response: %w", err)
	}
	if decoded.AccessToken == "" {
		return wire.TokenResponse{}, fmt.Errorf("token endpoint %s returned no access token", path)
	}
	return decoded, nil
}

func (m *Manager) toToken(resp wire.TokenResponse) Token {
	return Token{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    m.expiryOf(resp),
	}
}

// expiryOf prefers the explicit expiresIn field, then the access token's own
// exp claim (the insurer issues JWTs), then a conservative fallback.
func (m *Manager) expiryOf(resp wire.TokenResponse) time.Time {
	if resp.ExpiresIn > 0 {
		return m.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(resp.AccessToken, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}

	return m.now().Add(fallbackLifetime)
}
