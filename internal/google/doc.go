// Package google drives the authorization-code grant against Google's OAuth
// endpoints and resolves the granted mailbox identity.
//
// The package produces session.ProviderCredential values; it never stores
// them. Credential lifetime and refresh are owned by the session store.
package google
