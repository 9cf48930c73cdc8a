// Package gmail performs mailbox operations against the Gmail API on behalf
// of an authenticated session, translating provider responses into the
// gateway's own result shapes.
//
// Mutating operations (labels, trash) report structured Outcomes instead of
// errors, because provider-level failures such as an unknown label id must
// remain inspectable by the caller rather than abort the request.
package gmail
