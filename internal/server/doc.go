// Package server exposes the gateway over HTTP.
//
// The surface has three parts: the authorization flow (/auth/*), which turns
// a Google consent into a bearer token shown to the user exactly once; the
// bearer-authenticated mailbox API (/api/*); and unauthenticated metadata
// endpoints (/mcp/tools, /health).
//
// All session and credential errors surface as 401 without distinction;
// clients cannot tell an expired session from a revoked or never-issued one.
package server
