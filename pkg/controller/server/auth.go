package server

import (
	"crypto/rand"
	"encoding/base64"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/invy/pkg/usecase"
	"github.com/secmon-lab/invy/pkg/utils/errutil"
	"github.com/secmon-lab/invy/pkg/utils/logging"
)

const stateCookieName = "oauth_state"

func generateRandomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", goerr.Wrap(err, "failed to generate random state")
	}
	// RawURLEncoding avoids padding characters in the cookie value
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// handleLogin redirects the user to the GitHub authorization page with
// a CSRF state cookie.
func (x *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if x.cfg.authUC == nil || x.cfg.oauthClientID == "" {
		writeError(w, goerr.New("GitHub OAuth is not configured"), http.StatusServiceUnavailable)
		return
	}

	state, err := generateRandomState()
	if err != nil {
		errutil.HandleError(r.Context(), "failed to generate OAuth state", err)
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   !isLocalhost(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})

	authURL, err := url.Parse(x.cfg.authorizeURL)
	if err != nil {
		errutil.HandleError(r.Context(), "invalid authorize URL", err)
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	q := authURL.Query()
	q.Set("client_id", string(x.cfg.oauthClientID))
	q.Set("redirect_uri", x.redirectURI(r))
	q.Set("scope", strings.Join(usecase.OAuthScopes, " "))
	q.Set("state", state)
	authURL.RawQuery = q.Encode()

	logging.From(r.Context()).Info("redirecting to GitHub OAuth",
		"redirect_uri", x.redirectURI(r),
	)

	http.Redirect(w, r, authURL.String(), http.StatusTemporaryRedirect)
}

// handleCallback verifies the state cookie and exchanges the
// authorization code for an access token.
func (x *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	if x.cfg.authUC == nil {
		writeError(w, goerr.New("GitHub OAuth is not configured"), http.StatusServiceUnavailable)
		return
	}

	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil {
		writeError(w, goerr.New("OAuth state not found"), http.StatusBadRequest)
		return
	}
	if state == "" || state != stateCookie.Value {
		writeError(w, goerr.New("invalid OAuth state"), http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, goerr.New("authorization code not provided"), http.StatusBadRequest)
		return
	}

	resp, err := x.cfg.authUC.ExchangeCode(r.Context(), code, x.redirectURI(r))
	if err != nil {
		errutil.HandleError(r.Context(), "failed to exchange authorization code", err)
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (x *Server) redirectURI(r *http.Request) string {
	if x.cfg.callbackURL != "" {
		return x.cfg.callbackURL
	}

	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/api/v1/auth/github/callback"
}

func isLocalhost(r *http.Request) bool {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return host == "localhost" || host == "127.0.0.1"
}
