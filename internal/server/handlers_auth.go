package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/teemow/mailgate/internal/google"
	"github.com/teemow/mailgate/internal/logging"
)

const (
	stateCookieName   = "oauth_state"
	stateCookieMaxAge = 10 * time.Minute
)

// handleLogin starts the delegated authorization flow: it generates a fresh
// state value, stores it in a short-lived cookie and redirects the browser
// to the provider's consent screen.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	authURL, state, err := s.auth.AuthorizationRequest()
	if err != nil {
		if errors.Is(err, google.ErrNotConfigured) {
			s.renderErrorPage(w, http.StatusInternalServerError, "OAuth client is not configured")
			return
		}
		s.logger.Error("authorization request failed", logging.Operation("login"), logging.Err(err))
		s.renderErrorPage(w, http.StatusInternalServerError, "could not start authorization")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/auth",
		MaxAge:   int(stateCookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	s.logger.Info("redirecting to consent screen", logging.Operation("login"))
	http.Redirect(w, r, authURL, http.StatusFound)
}

// handleCallback completes the flow: it validates the state round trip,
// exchanges the authorization code, resolves the mailbox owner identity
// and issues the gateway bearer token. The token is rendered exactly once.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		s.logger.Warn("authorization denied", logging.Operation("callback"), "provider_error", errParam)
		s.renderErrorPage(w, http.StatusBadRequest, "authorization was denied: "+errParam)
		return
	}

	code := query.Get("code")
	if code == "" {
		s.renderErrorPage(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	cookie, err := r.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" || cookie.Value != query.Get("state") {
		s.logger.Warn("state mismatch on callback", logging.Operation("callback"))
		s.renderErrorPage(w, http.StatusBadRequest, "state validation failed, restart the login flow")
		return
	}

	// The state cookie is single use.
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Path:     "/auth",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	cred, err := s.auth.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("code exchange failed", logging.Operation("callback"), logging.Err(err))
		s.renderErrorPage(w, http.StatusBadRequest, "could not exchange authorization code")
		return
	}

	email, err := s.auth.FetchIdentity(ctx, cred)
	if err != nil {
		s.logger.Error("identity lookup failed", logging.Operation("callback"), logging.Err(err))
		s.renderErrorPage(w, http.StatusInternalServerError, "could not determine mailbox owner")
		return
	}

	token, err := s.store.Issue(email, cred)
	if err != nil {
		s.logger.Error("token issue failed",
			logging.Operation("callback"),
			logging.UserHash(email),
			logging.Err(err))
		s.renderErrorPage(w, http.StatusInternalServerError, "could not create API token")
		return
	}

	s.logger.Info("session established",
		logging.Operation("callback"),
		logging.UserHash(email),
		logging.Status(logging.StatusSuccess))

	s.renderSuccessPage(w, successPageData{
		Email:     email,
		Token:     token,
		APIURL:    apiBaseURL(r),
		ExpiresAt: time.Now().Add(s.cfg.SessionTTL()).UTC().Format(time.RFC3339),
	})
}

// apiBaseURL builds the API base from the host the browser actually reached,
// so the success page never shows the bind address.
func apiBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/api"
}
