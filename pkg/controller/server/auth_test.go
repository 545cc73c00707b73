package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/invy/pkg/controller/server"
	"github.com/secmon-lab/invy/pkg/domain/mock"
	"github.com/secmon-lab/invy/pkg/domain/model"
)

func stateCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range w.Result().Cookies() {
		if c.Name == "oauth_state" {
			return c
		}
	}
	t.Fatal("oauth_state cookie not set")
	return nil
}

func TestLogin(t *testing.T) {
	t.Run("redirects to GitHub with state cookie", func(t *testing.T) {
		srv := server.New(&mock.UseCaseMock{},
			server.WithAuth(&mock.AuthMock{}, "test-client-id"),
		)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/login/github", nil)
		req.Host = "invy.example.com"
		w := httptest.NewRecorder()
		srv.Mux().ServeHTTP(w, req)

		gt.V(t, w.Code).Equal(http.StatusTemporaryRedirect)

		cookie := stateCookie(t, w)
		gt.True(t, cookie.HttpOnly)
		gt.True(t, cookie.Secure)
		gt.A(t, []byte(cookie.Value)).Longer(0)

		location := gt.R1(url.Parse(w.Header().Get("Location"))).NoError(t)
		gt.V(t, location.Host).Equal("github.com")
		gt.V(t, location.Path).Equal("/login/oauth/authorize")

		q := location.Query()
		gt.V(t, q.Get("client_id")).Equal("test-client-id")
		gt.V(t, q.Get("state")).Equal(cookie.Value)
		gt.V(t, q.Get("redirect_uri")).Equal("http://invy.example.com/api/v1/auth/github/callback")
		gt.S(t, q.Get("scope")).Contains("admin:org")
	})

	t.Run("localhost gets a non-secure cookie", func(t *testing.T) {
		srv := server.New(&mock.UseCaseMock{},
			server.WithAuth(&mock.AuthMock{}, "test-client-id"),
		)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/login/github", nil)
		req.Host = "localhost:8000"
		w := httptest.NewRecorder()
		srv.Mux().ServeHTTP(w, req)

		gt.V(t, stateCookie(t, w).Secure).Equal(false)
	})

	t.Run("unavailable without OAuth configuration", func(t *testing.T) {
		srv := server.New(&mock.UseCaseMock{})

		w := httptest.NewRecorder()
		srv.Mux().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/login/github", nil))

		gt.V(t, w.Code).Equal(http.StatusServiceUnavailable)
	})
}

func TestCallback(t *testing.T) {
	newServer := func(authMock *mock.AuthMock) *server.Server {
		return server.New(&mock.UseCaseMock{},
			server.WithAuth(authMock, "test-client-id"),
			server.WithCallbackURL("https://invy.example.com/api/v1/auth/github/callback"),
		)
	}

	callback := func(srv *server.Server, query string, cookie *http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/github/callback?"+query, nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		w := httptest.NewRecorder()
		srv.Mux().ServeHTTP(w, req)
		return w
	}

	t.Run("exchanges code for token response", func(t *testing.T) {
		authMock := &mock.AuthMock{
			ExchangeCodeFunc: func(ctx context.Context, code, redirectURI string) (*model.TokenResponse, error) {
				gt.V(t, code).Equal("test-code")
				gt.V(t, redirectURI).Equal("https://invy.example.com/api/v1/auth/github/callback")
				return &model.TokenResponse{
					AccessToken: "gho_testtoken",
					TokenType:   "bearer",
					User:        model.GitHubUser{ID: 12345, Login: "alice"},
				}, nil
			},
		}
		srv := newServer(authMock)

		w := callback(srv, "code=test-code&state=test-state", &http.Cookie{Name: "oauth_state", Value: "test-state"})

		gt.V(t, w.Code).Equal(http.StatusOK)

		var resp model.TokenResponse
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		gt.V(t, resp.AccessToken).Equal("gho_testtoken")
		gt.V(t, resp.User.Login).Equal("alice")

		// State cookie must be cleared after a completed exchange.
		for _, c := range w.Result().Cookies() {
			if c.Name == "oauth_state" {
				gt.True(t, c.MaxAge < 0)
			}
		}
	})

	t.Run("missing state cookie is rejected", func(t *testing.T) {
		authMock := &mock.AuthMock{}
		w := callback(newServer(authMock), "code=test-code&state=test-state", nil)

		gt.V(t, w.Code).Equal(http.StatusBadRequest)
		gt.V(t, len(authMock.ExchangeCodeCalls())).Equal(0)
	})

	t.Run("state mismatch is rejected", func(t *testing.T) {
		authMock := &mock.AuthMock{}
		w := callback(newServer(authMock),
			"code=test-code&state=forged",
			&http.Cookie{Name: "oauth_state", Value: "test-state"},
		)

		gt.V(t, w.Code).Equal(http.StatusBadRequest)
		gt.V(t, len(authMock.ExchangeCodeCalls())).Equal(0)
	})

	t.Run("missing code is rejected", func(t *testing.T) {
		authMock := &mock.AuthMock{}
		w := callback(newServer(authMock),
			"state=test-state",
			&http.Cookie{Name: "oauth_state", Value: "test-state"},
		)

		gt.V(t, w.Code).Equal(http.StatusBadRequest)

		var body map[string]string
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		gt.S(t, body["error"]).Contains("authorization code")
	})

	t.Run("exchange failure surfaces as internal error", func(t *testing.T) {
		authMock := &mock.AuthMock{
			ExchangeCodeFunc: func(ctx context.Context, code, redirectURI string) (*model.TokenResponse, error) {
				return nil, goerr.New("failed to exchange authorization code")
			},
		}
		w := callback(newServer(authMock),
			"code=expired&state=test-state",
			&http.Cookie{Name: "oauth_state", Value: "test-state"},
		)

		gt.V(t, w.Code).Equal(http.StatusInternalServerError)
	})
}

func TestBearerTokenFormat(t *testing.T) {
	srv := server.New(&mock.UseCaseMock{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invite/repository", strings.NewReader("{}"))
	req.Header.Set("Authorization", "token gho_testtoken")
	w := httptest.NewRecorder()
	srv.Mux().ServeHTTP(w, req)

	gt.V(t, w.Code).Equal(http.StatusUnauthorized)

	var body map[string]string
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	gt.S(t, body["error"]).Contains("Bearer")
}
