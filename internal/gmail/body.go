package gmail

import (
	"encoding/base64"
	"strings"

	gmailapi "google.golang.org/api/gmail/v1"
)

// extractHeaders pulls subject/sender/recipient out of the payload headers.
// Header names are matched case-insensitively.
func extractHeaders(payload *gmailapi.MessagePart) (subject, sender, recipient string) {
	if payload == nil {
		return "", "", ""
	}
	for _, h := range payload.Headers {
		switch strings.ToLower(h.Name) {
		case "subject":
			subject = h.Value
		case "from":
			sender = h.Value
		case "to":
			recipient = h.Value
		}
	}
	return subject, sender, recipient
}

// headerValue returns the value of the named header, matched
// case-insensitively, or "" when absent.
func headerValue(payload *gmailapi.MessagePart, name string) string {
	if payload == nil {
		return ""
	}
	for _, h := range payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// extractBody walks the MIME part tree and decodes the text/plain and
// text/html bodies. When several parts share a MIME type, the last one in
// document order wins; this mirrors sequential assignment over the walk.
// Parts of other MIME types (attachments, binary content) are ignored.
func extractBody(payload *gmailapi.MessagePart) (bodyText, bodyHTML string) {
	if payload == nil {
		return "", ""
	}

	switch payload.MimeType {
	case "text/plain":
		if decoded, ok := decodePartBody(payload); ok {
			bodyText = decoded
		}
		return bodyText, bodyHTML
	case "text/html":
		if decoded, ok := decodePartBody(payload); ok {
			bodyHTML = decoded
		}
		return bodyText, bodyHTML
	}

	walkParts(payload.Parts, func(part *gmailapi.MessagePart) {
		switch part.MimeType {
		case "text/plain":
			if decoded, ok := decodePartBody(part); ok {
				bodyText = decoded
			}
		case "text/html":
			if decoded, ok := decodePartBody(part); ok {
				bodyHTML = decoded
			}
		}
	})

	return bodyText, bodyHTML
}

// walkParts visits parts recursively in document order.
func walkParts(parts []*gmailapi.MessagePart, fn func(*gmailapi.MessagePart)) {
	for _, part := range parts {
		if part == nil {
			continue
		}
		fn(part)
		walkParts(part.Parts, fn)
	}
}

// decodePartBody decodes a part's base64url body data. Gmail uses RFC 4648
// base64url; standard base64 is tried as a fallback.
func decodePartBody(part *gmailapi.MessagePart) (string, bool) {
	if part.Body == nil || part.Body.Data == "" {
		return "", false
	}

	decoded, err := base64.URLEncoding.DecodeString(part.Body.Data)
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(part.Body.Data)
		if err != nil {
			return "", false
		}
	}
	return string(decoded), true
}
