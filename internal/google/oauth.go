package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/teemow/mailgate/internal/config"
	"github.com/teemow/mailgate/internal/logging"
	"github.com/teemow/mailgate/internal/session"
)

// exchangeTimeout bounds the code exchange and identity fetch against Google.
const exchangeTimeout = 15 * time.Second

// ErrNotConfigured is returned when the OAuth client id or secret is unset.
var ErrNotConfigured = errors.New("google oauth client id/secret not configured")

// ExchangeError wraps a rejected authorization-code exchange (expired code,
// already used, mismatched redirect). It must surface to the user, not be
// retried.
type ExchangeError struct {
	Err error
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("authorization code exchange failed: %v", e.Err)
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}

// AuthClient drives the three-legged authorization-code grant against
// Google's identity service.
type AuthClient struct {
	conf    *oauth2.Config
	logger  *slog.Logger
	apiOpts []option.ClientOption
}

// Option configures an AuthClient.
type Option func(*AuthClient)

// WithEndpoint overrides Google's OAuth endpoints. Used by tests to point the
// client at a fake provider.
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(c *AuthClient) {
		c.conf.Endpoint = endpoint
	}
}

// WithAPIOptions adds Google API client options for the identity fetch.
// Used by tests to point the Gmail service at a fake provider.
func WithAPIOptions(opts ...option.ClientOption) Option {
	return func(c *AuthClient) {
		c.apiOpts = append(c.apiOpts, opts...)
	}
}

// NewAuthClient creates an auth client from the configured Google OAuth
// client registration.
func NewAuthClient(cfg config.Google, logger *slog.Logger, opts ...Option) *AuthClient {
	if logger == nil {
		logger = slog.Default()
	}

	c := &AuthClient{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     googleoauth.Endpoint,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       DefaultOAuthScopes,
		},
		logger: logger,
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AuthorizationRequest constructs the consent-screen URL with offline access
// (so a refresh token is issued) and a random anti-forgery state value the
// caller must round-trip through the callback.
func (c *AuthClient) AuthorizationRequest() (authURL, state string, err error) {
	if c.conf.ClientID == "" || c.conf.ClientSecret == "" {
		return "", "", ErrNotConfigured
	}

	state = uuid.New().String()
	authURL = c.conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"))

	return authURL, state, nil
}

// Exchange performs the authorization-code to token exchange and returns the
// resulting provider credential.
func (c *AuthClient) Exchange(ctx context.Context, code string) (*session.ProviderCredential, error) {
	if c.conf.ClientID == "" || c.conf.ClientSecret == "" {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	tok, err := c.conf.Exchange(ctx, code)
	if err != nil {
		c.logger.Warn("code exchange rejected",
			logging.Operation("oauth.exchange"),
			logging.Err(err))
		return nil, &ExchangeError{Err: err}
	}

	return &session.ProviderCredential{
		AccessToken:   tok.AccessToken,
		RefreshToken:  tok.RefreshToken,
		TokenEndpoint: c.conf.Endpoint.TokenURL,
		ClientID:      c.conf.ClientID,
		ClientSecret:  c.conf.ClientSecret,
		Scopes:        c.conf.Scopes,
		Expiry:        tok.Expiry,
	}, nil
}

// FetchIdentity calls the Gmail profile endpoint once to learn the canonical
// address of the mailbox that was granted. The authorization flow does not
// otherwise disclose which mailbox the user picked.
func (c *AuthClient) FetchIdentity(ctx context.Context, cred *session.ProviderCredential) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cred.AccessToken,
		TokenType:   "Bearer",
	}))

	apiOpts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, c.apiOpts...)
	svc, err := gmail.NewService(ctx, apiOpts...)
	if err != nil {
		return "", fmt.Errorf("failed to create Gmail service: %w", err)
	}

	profile, err := svc.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to fetch mailbox profile: %w", err)
	}
	if profile.EmailAddress == "" {
		return "", errors.New("provider profile did not include an email address")
	}

	return profile.EmailAddress, nil
}
