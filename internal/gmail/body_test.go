package gmail

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	gmailapi "google.golang.org/api/gmail/v1"
)

func b64(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func textPart(mimeType, body string) *gmailapi.MessagePart {
	return &gmailapi.MessagePart{
		MimeType: mimeType,
		Body:     &gmailapi.MessagePartBody{Data: b64(body)},
	}
}

func TestExtractBody_TopLevelPlain(t *testing.T) {
	text, html := extractBody(textPart("text/plain", "hello"))
	assert.Equal(t, "hello", text)
	assert.Empty(t, html)
}

func TestExtractBody_TopLevelHTML(t *testing.T) {
	text, html := extractBody(textPart("text/html", "<p>hello</p>"))
	assert.Empty(t, text)
	assert.Equal(t, "<p>hello</p>", html)
}

func TestExtractBody_MultipartAlternative(t *testing.T) {
	payload := &gmailapi.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmailapi.MessagePart{
			textPart("text/plain", "plain body"),
			textPart("text/html", "<p>html body</p>"),
		},
	}

	text, html := extractBody(payload)
	assert.Equal(t, "plain body", text)
	assert.Equal(t, "<p>html body</p>", html)
}

func TestExtractBody_LastMatchingPartWins(t *testing.T) {
	// Two text/plain parts: the second one in document order must win.
	payload := &gmailapi.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmailapi.MessagePart{
			textPart("text/plain", "first part"),
			textPart("text/plain", "second part"),
		},
	}

	text, _ := extractBody(payload)
	assert.Equal(t, "second part", text)
}

func TestExtractBody_NestedParts(t *testing.T) {
	payload := &gmailapi.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmailapi.MessagePart{
			{
				MimeType: "multipart/alternative",
				Parts: []*gmailapi.MessagePart{
					textPart("text/plain", "nested plain"),
					textPart("text/html", "<p>nested html</p>"),
				},
			},
			{
				MimeType: "application/pdf",
				Filename: "invoice.pdf",
				Body:     &gmailapi.MessagePartBody{AttachmentId: "att-1"},
			},
		},
	}

	text, html := extractBody(payload)
	assert.Equal(t, "nested plain", text)
	assert.Equal(t, "<p>nested html</p>", html)
}

func TestExtractBody_BinaryPartsIgnored(t *testing.T) {
	payload := &gmailapi.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmailapi.MessagePart{
			{
				MimeType: "image/png",
				Body:     &gmailapi.MessagePartBody{Data: b64("not-a-body")},
			},
		},
	}

	text, html := extractBody(payload)
	assert.Empty(t, text)
	assert.Empty(t, html)
}

func TestExtractBody_Nil(t *testing.T) {
	text, html := extractBody(nil)
	assert.Empty(t, text)
	assert.Empty(t, html)
}

func TestExtractBody_StandardBase64Fallback(t *testing.T) {
	// Some providers hand back standard base64; the decoder falls back.
	payload := &gmailapi.MessagePart{
		MimeType: "text/plain",
		Body:     &gmailapi.MessagePartBody{Data: base64.StdEncoding.EncodeToString([]byte("fallback>>body"))},
	}

	text, _ := extractBody(payload)
	assert.Equal(t, "fallback>>body", text)
}

func TestExtractHeaders_CaseInsensitive(t *testing.T) {
	payload := &gmailapi.MessagePart{
		Headers: []*gmailapi.MessagePartHeader{
			{Name: "SUBJECT", Value: "Hello"},
			{Name: "from", Value: "sender@example.com"},
			{Name: "To", Value: "recipient@example.com"},
			{Name: "Date", Value: "Mon, 1 Jan 2024 00:00:00 +0000"},
		},
	}

	subject, sender, recipient := extractHeaders(payload)
	assert.Equal(t, "Hello", subject)
	assert.Equal(t, "sender@example.com", sender)
	assert.Equal(t, "recipient@example.com", recipient)
}

func TestHeaderValue(t *testing.T) {
	payload := &gmailapi.MessagePart{
		Headers: []*gmailapi.MessagePartHeader{
			{Name: "Subject", Value: "Hello"},
		},
	}

	assert.Equal(t, "Hello", headerValue(payload, "subject"))
	assert.Equal(t, "", headerValue(payload, "Message-ID"))
	assert.Equal(t, "", headerValue(nil, "Subject"))
}
