package session

import (
	"time"
)

// staleSkew is subtracted from the provider expiry so a token that is about
// to expire mid-request is refreshed up front.
const staleSkew = 30 * time.Second

// ProviderCredential is Google's own access/refresh token pair together with
// everything needed to refresh it. Values are immutable snapshots: a refresh
// produces a new ProviderCredential that replaces the old one atomically, so
// concurrent readers never observe a half-written credential.
type ProviderCredential struct {
	AccessToken   string
	RefreshToken  string
	TokenEndpoint string
	ClientID      string
	ClientSecret  string
	Scopes        []string
	Expiry        time.Time
}

// Stale reports whether the access token needs a refresh. A zero Expiry means
// the provider did not disclose one and the token is used as-is.
func (c *ProviderCredential) Stale(now time.Time) bool {
	if c.Expiry.IsZero() {
		return false
	}
	return !now.Before(c.Expiry.Add(-staleSkew))
}
