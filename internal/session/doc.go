// Package session implements the credential store at the heart of the gateway.
//
// A successful Google authorization produces a provider credential (Google's
// own access/refresh token pair). The store binds that credential to a signed,
// time-boxed bearer token of our own and hands the bearer token to the caller.
// Every API call then resolves its bearer token back to a live provider
// credential through this package.
//
// A bearer token is only usable while both checks hold: the token's signature
// and embedded expiry must verify, and a matching entry must still exist in
// the store. Removing the entry revokes the token immediately without any
// revocation list or key rotation.
//
// Provider access tokens are short-lived; the store refreshes them
// transparently on lookup so callers never see provider-token staleness. The
// session TTL is the coarse, user-controlled bound on how long a delegated
// agent may act at all.
package session
