// Package tools declares the fixed tool catalog the gateway advertises to
// tool-calling agents. Each descriptor mirrors one mailbox gateway operation
// one-to-one; the mapping is enforced by tests so the catalog cannot drift
// from the implementation.
package tools
