package server

import (
	"html/template"
	"net/http"
)

// successPageData feeds the one-time token page rendered after a completed
// authorization flow.
type successPageData struct {
	Email     string
	Token     string
	APIURL    string
	ExpiresAt string
}

var successPage = template.Must(template.New("success").Parse(`<!DOCTYPE html>
<html>
<head>
  <title>Mailbox Access Granted</title>
  <style>
    body { font-family: sans-serif; max-width: 640px; margin: 3em auto; padding: 0 1em; }
    code { background: #f4f4f4; padding: 0.2em 0.4em; border-radius: 3px; word-break: break-all; }
    .token { display: block; padding: 1em; margin: 1em 0; }
    .warn { color: #a33; }
  </style>
</head>
<body>
  <h1>Access granted</h1>
  <p>Mailbox <strong>{{.Email}}</strong> is now reachable through the gateway.</p>
  <p>Your API token (shown only once):</p>
  <code class="token">{{.Token}}</code>
  <p class="warn">Store this token now. It cannot be retrieved again.</p>
  <ul>
    <li>API base URL: <code>{{.APIURL}}</code></li>
    <li>Token expires: <code>{{.ExpiresAt}}</code></li>
  </ul>
  <p>Use it as a bearer token: <code>Authorization: Bearer &lt;token&gt;</code></p>
</body>
</html>
`))

var errorPage = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<head>
  <title>Authorization Failed</title>
  <style>
    body { font-family: sans-serif; max-width: 640px; margin: 3em auto; padding: 0 1em; }
    .detail { background: #fee; padding: 1em; border-radius: 3px; }
  </style>
</head>
<body>
  <h1>Authorization failed</h1>
  <p class="detail">{{.Detail}}</p>
  <p><a href="/auth/login">Try again</a></p>
</body>
</html>
`))

func (s *Server) renderSuccessPage(w http.ResponseWriter, data successPageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := successPage.Execute(w, data); err != nil {
		s.logger.Error("success page render failed", "error", err)
	}
}

func (s *Server) renderErrorPage(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := errorPage.Execute(w, struct{ Detail string }{Detail: detail}); err != nil {
		s.logger.Error("error page render failed", "error", err)
	}
}
