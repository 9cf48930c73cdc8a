package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/teemow/mailgate/internal/logging"
	"github.com/teemow/mailgate/internal/session"
)

type contextKey string

const (
	mailboxContextKey contextKey = "mailbox"
	ownerContextKey   contextKey = "owner"
)

// requireSession authenticates the bearer token, obtains a live provider
// credential and attaches a ready Mailbox to the request context. Every
// failure mode maps to 401 so callers cannot distinguish a forged token
// from an expired session.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			s.unauthorized(w, r, "missing bearer token")
			return
		}

		entry, err := s.store.Resolve(token)
		if err != nil {
			s.unauthorized(w, r, err.Error())
			return
		}

		cred, err := s.store.LiveCredential(r.Context(), token)
		if err != nil {
			if session.IsAuthError(err) {
				s.unauthorized(w, r, err.Error())
				return
			}
			s.logger.Error("credential refresh failed",
				logging.Route(r.URL.Path),
				logging.UserHash(entry.Owner),
				logging.Err(err))
			writeError(w, http.StatusUnauthorized, "could not obtain valid credentials")
			return
		}

		mailbox, err := s.mailbox(r.Context(), cred, entry.Owner)
		if err != nil {
			s.logger.Error("mailbox client init failed",
				logging.Route(r.URL.Path),
				logging.UserHash(entry.Owner),
				logging.Err(err))
			writeError(w, http.StatusInternalServerError, "mailbox unavailable")
			return
		}

		ctx := context.WithValue(r.Context(), mailboxContextKey, mailbox)
		ctx = context.WithValue(ctx, ownerContextKey, entry.Owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) unauthorized(w http.ResponseWriter, r *http.Request, reason string) {
	s.logger.Warn("unauthorized request",
		logging.Route(r.URL.Path),
		logging.Status(logging.StatusError),
		"reason", reason)
	writeError(w, http.StatusUnauthorized, "invalid or expired token")
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func mailboxFrom(ctx context.Context) Mailbox {
	mailbox, _ := ctx.Value(mailboxContextKey).(Mailbox)
	return mailbox
}

func ownerFrom(ctx context.Context) string {
	owner, _ := ctx.Value(ownerContextKey).(string)
	return owner
}
