package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/invy/pkg/domain/interfaces"
	"github.com/secmon-lab/invy/pkg/domain/model"
	"github.com/secmon-lab/invy/pkg/domain/types"
	"github.com/secmon-lab/invy/pkg/utils/errutil"
	"github.com/secmon-lab/invy/pkg/utils/logging"
)

type Server struct {
	mux *chi.Mux
	uc  interfaces.UseCase
	cfg *config
}

type config struct {
	authUC        interfaces.Auth
	oauthClientID types.OAuthClientID
	authorizeURL  string
	callbackURL   string
}

type Option func(*config)

// WithAuth enables the OAuth login/callback endpoints.
func WithAuth(authUC interfaces.Auth, clientID types.OAuthClientID) Option {
	return func(cfg *config) {
		cfg.authUC = authUC
		cfg.oauthClientID = clientID
	}
}

// WithAuthorizeURL replaces the GitHub authorize URL. Used by tests.
func WithAuthorizeURL(authorizeURL string) Option {
	return func(cfg *config) {
		cfg.authorizeURL = authorizeURL
	}
}

// WithCallbackURL pins the OAuth redirect URI instead of deriving it
// from the incoming request.
func WithCallbackURL(callbackURL string) Option {
	return func(cfg *config) {
		cfg.callbackURL = callbackURL
	}
}

func New(uc interfaces.UseCase, options ...Option) *Server {
	cfg := &config{
		authorizeURL: "https://github.com/login/oauth/authorize",
	}
	for _, opt := range options {
		opt(cfg)
	}

	s := &Server{
		uc:  uc,
		cfg: cfg,
	}

	r := chi.NewRouter()
	r.Use(preProcess)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		safeWrite(w, http.StatusOK, []byte("ok"))
	})
	r.Get("/", s.handleRoot)
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Get("/login/github", s.handleLogin)
			r.Get("/github/callback", s.handleCallback)
		})
		r.Route("/invite", func(r chi.Router) {
			r.Post("/repository", s.handleInvite(types.InviteModeRepository))
			r.Post("/organization", s.handleInvite(types.InviteModeOrganization))
		})
	})

	s.mux = r
	return s
}

func (x *Server) Mux() *chi.Mux {
	return x.mux
}

func (x *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "online",
		"endpoints": map[string]string{
			"auth":                "/api/v1/auth/login/github",
			"repository_invite":   "/api/v1/invite/repository",
			"organization_invite": "/api/v1/invite/organization",
		},
	})
}

// handleInvite serves both invite endpoints; the mode decides how the
// target name and permission vocabulary are interpreted.
func (x *Server) handleInvite(mode types.InviteMode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			writeError(w, err, http.StatusUnauthorized)
			return
		}

		var req model.InvitationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, goerr.Wrap(err, "failed to decode request body"), http.StatusBadRequest)
			return
		}
		req.Mode = mode
		if req.Permission == "" {
			switch mode {
			case types.InviteModeRepository:
				req.Permission = string(types.RepoPermissionWrite)
			case types.InviteModeOrganization:
				req.Permission = string(types.OrgRoleMember)
			}
		}

		result, err := x.uc.BatchInvite(r.Context(), token, &req)
		if err != nil {
			if errors.Is(err, types.ErrInvalidTarget) || errors.Is(err, types.ErrInvalidOption) {
				writeError(w, err, http.StatusBadRequest)
				return
			}

			errutil.HandleError(r.Context(), "failed to process batch invitation", err)
			writeError(w, err, http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusOK, result)
	}
}

func bearerToken(r *http.Request) (types.AccessToken, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", goerr.New("authorization header is required")
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", goerr.New("authorization header must be 'Bearer <token>'")
	}

	return types.AccessToken(token), nil
}

func safeWrite(w http.ResponseWriter, code int, body []byte) {
	w.WriteHeader(code)

	if _, err := w.Write(body); err != nil {
		logging.Default().Error("fail to write response", slog.Any("error", err))
	}
}

func respondJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Default().Error("fail to encode response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, err error, status int) {
	var message string
	if goErr := goerr.Unwrap(err); goErr != nil {
		message = goErr.Error()
	} else {
		message = err.Error()
	}

	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
