package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/oauth2"

	"github.com/teemow/mailgate/internal/logging"
)

// DefaultRefreshTimeout bounds a single refresh call against the provider's
// token endpoint. A timed-out refresh is reported exactly like a refused one.
const DefaultRefreshTimeout = 15 * time.Second

// Entry binds one bearer token to a provider credential and its expiry.
// Deleting an entry is the unit of revocation: the bearer token becomes
// unusable immediately, independent of the provider credential's own validity.
type Entry struct {
	Owner     string
	IssuedAt  time.Time
	ExpiresAt time.Time

	cred atomic.Pointer[ProviderCredential]
}

// Credential returns the current provider credential snapshot.
func (e *Entry) Credential() *ProviderCredential {
	return e.cred.Load()
}

// Store maps issued bearer tokens to session entries. It is the single
// authority over bearer-token validity and provider-credential freshness.
// The store is process-lifetime only; there is no persistence across restarts.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*Entry

	signer         *TokenSigner
	ttl            time.Duration
	refreshTimeout time.Duration
	logger         *slog.Logger

	// now is replaceable in tests
	now func() time.Time
}

// NewStore creates a session store. Bearer tokens expire ttl after issuance.
func NewStore(signer *TokenSigner, ttl time.Duration, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		entries:        make(map[string]*Entry),
		signer:         signer,
		ttl:            ttl,
		refreshTimeout: DefaultRefreshTimeout,
		logger:         logger,
		now:            time.Now,
	}
}

// Issue mints a signed bearer token for owner and records a session entry
// binding it to cred. The token is returned exactly once; it cannot be
// recovered from the store afterwards.
func (s *Store) Issue(owner string, cred *ProviderCredential) (string, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	token, err := s.signer.Sign(owner, issuedAt, expiresAt)
	if err != nil {
		return "", err
	}

	entry := &Entry{
		Owner:     owner,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}
	entry.cred.Store(cred)

	s.mu.Lock()
	s.entries[token] = entry
	s.mu.Unlock()

	s.logger.Info("session issued",
		logging.Operation("session.issue"),
		logging.UserHash(owner),
		slog.Time("expires_at", expiresAt))

	return token, nil
}

// Resolve verifies the bearer token and returns its session entry.
// Signature and embedded expiry are checked first, without touching the
// store; only then is the entry looked up. Entries past their TTL are
// evicted lazily here.
func (s *Store) Resolve(token string) (*Entry, error) {
	if _, err := s.signer.Verify(token); err != nil {
		// The embedded expiry and the entry's TTL coincide, so a token
		// rejected as expired means its entry is dead too. Evict it now;
		// otherwise expired entries would stay in the map for the process
		// lifetime, since no later lookup can get past Verify.
		if errors.Is(err, ErrTokenExpired) {
			s.evict(token)
		}
		return nil, err
	}

	s.mu.RLock()
	entry, ok := s.entries[token]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	// Unreachable with a shared clock, but keeps the store self-contained
	// if its clock runs ahead of the signature check.
	if s.now().After(entry.ExpiresAt) {
		s.evict(token)
		return nil, ErrSessionNotFound
	}

	return entry, nil
}

// evict drops the entry for token, if any.
func (s *Store) evict(token string) {
	s.mu.Lock()
	entry, ok := s.entries[token]
	delete(s.entries, token)
	s.mu.Unlock()

	if ok {
		s.logger.Info("session expired",
			logging.Operation("session.evict"),
			logging.UserHash(entry.Owner))
	}
}

// LiveCredential resolves the bearer token and returns a provider credential
// that is fresh enough to use. A stale access token is refreshed against the
// provider's token endpoint and the new credential is swapped into the entry,
// so every subsequent resolver observes it. On refresh failure the entry is
// left untouched and a RefreshError is returned; there is no automatic
// re-authorization.
func (s *Store) LiveCredential(ctx context.Context, token string) (*ProviderCredential, error) {
	entry, err := s.Resolve(token)
	if err != nil {
		return nil, err
	}

	cred := entry.Credential()
	if !cred.Stale(s.now()) || cred.RefreshToken == "" {
		return cred, nil
	}

	refreshed, err := s.refresh(ctx, cred)
	if err != nil {
		s.logger.Warn("credential refresh failed",
			logging.Operation("session.refresh"),
			logging.UserHash(entry.Owner),
			logging.Err(err))
		return nil, &RefreshError{Err: err}
	}

	// Concurrent refreshes of the same entry may race here; the provider
	// hands out independently valid access tokens, so last write wins.
	entry.cred.Store(refreshed)

	s.logger.Debug("credential refreshed",
		logging.Operation("session.refresh"),
		logging.UserHash(entry.Owner),
		slog.Time("provider_expiry", refreshed.Expiry))

	return refreshed, nil
}

// Revoke removes the session entry for token, invalidating it immediately.
// It reports whether an entry existed.
func (s *Store) Revoke(token string) bool {
	s.mu.Lock()
	entry, ok := s.entries[token]
	delete(s.entries, token)
	s.mu.Unlock()

	if ok {
		s.logger.Info("session revoked",
			logging.Operation("session.revoke"),
			logging.UserHash(entry.Owner))
	}
	return ok
}

// Len returns the number of live entries. Intended for observability.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// refresh exchanges the credential's refresh token for a new access token at
// the provider's token endpoint, bounded by the refresh timeout.
func (s *Store) refresh(ctx context.Context, cred *ProviderCredential) (*ProviderCredential, error) {
	ctx, cancel := context.WithTimeout(ctx, s.refreshTimeout)
	defer cancel()

	conf := &oauth2.Config{
		ClientID:     cred.ClientID,
		ClientSecret: cred.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: cred.TokenEndpoint},
		Scopes:       cred.Scopes,
	}

	tok, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken}).Token()
	if err != nil {
		return nil, err
	}

	refreshToken := cred.RefreshToken
	if tok.RefreshToken != "" {
		// Provider rotated the refresh token
		refreshToken = tok.RefreshToken
	}

	return &ProviderCredential{
		AccessToken:   tok.AccessToken,
		RefreshToken:  refreshToken,
		TokenEndpoint: cred.TokenEndpoint,
		ClientID:      cred.ClientID,
		ClientSecret:  cred.ClientSecret,
		Scopes:        cred.Scopes,
		Expiry:        tok.Expiry,
	}, nil
}
