package api

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"
	"github.com/marcv42/blog-backend/errs"
	"github.com/marcv42/blog-backend/identity"
	"github.com/marcv42/blog-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const githubProvider = "github"

// identityProvider is the OAuth2 authorization-code flow of one provider.
type identityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchUser(ctx context.Context, token *oauth2.Token) (identity.OAuth2User, error)
}

type oauthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	provider    identityProvider
	sessions    *identity.SessionManager
	cookies     cookieJar
	frontendURL string
}

func newOAuthHandler(provider identityProvider, sessions *identity.SessionManager, cookies cookieJar, frontendURL string) oauthHandler {
	logger := log.With().Str("handlerName", "oauthHandler").Logger()

	return oauthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		provider:    provider,
		sessions:    sessions,
		cookies:     cookies,
		frontendURL: frontendURL,
	}
}

// startLogin redirects the browser to GitHub
// @Summary Start GitHub login
// @Tags Auth
// @Success 302
// @Failure 503 {object} ErrorResponse "Service Unavailable - GitHub login not configured"
// @Router /oauth2/authorization/github [get]
func (h oauthHandler) startLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.provider == nil {
			h.responder.WriteError(w, errs.NewServiceUnreachableError(githubProvider, nil))
			return
		}

		state := uuid.NewString()
		h.cookies.setState(w, state)
		http.Redirect(w, r, h.provider.AuthCodeURL(state), http.StatusFound)
	}
}

// completeLogin handles GitHub's callback and starts a session
// @Summary Complete GitHub login
// @Tags Auth
// @Param code query string true "Authorization code"
// @Param state query string true "OAuth state"
// @Success 302
// @Failure 400 {object} ErrorResponse "Bad Request - State mismatch"
// @Failure 401 {object} ErrorResponse "Unauthorized - GitHub user has no login"
// @Failure 502 {object} ErrorResponse "Bad Gateway - GitHub unavailable"
// @Router /login/oauth2/code/github [get]
func (h oauthHandler) completeLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.provider == nil || h.sessions == nil {
			h.responder.WriteError(w, errs.NewServiceUnreachableError(githubProvider, nil))
			return
		}

		query := r.URL.Query()
		stateCookie, err := r.Cookie(stateCookieName)
		state := query.Get("state")
		if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(stateCookie.Value), []byte(state)) != 1 {
			h.responder.WriteError(w, errs.NewInvalidOAuthStateError())
			return
		}
		h.cookies.clearState(w)

		if providerErr := query.Get("error"); providerErr != "" {
			h.logger.Warn().Str("error", providerErr).Msg("GitHub denied authorization")
			h.responder.WriteError(w, errs.NewUnauthorizedError("authorization denied: "+providerErr))
			return
		}

		code := query.Get("code")
		if code == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("code"))
			return
		}

		token, err := h.provider.Exchange(r.Context(), code)
		if err != nil {
			h.responder.WriteError(w, errs.NewUpstreamAuthError(githubProvider, err))
			return
		}

		user, err := h.provider.FetchUser(r.Context(), token)
		if err != nil {
			h.responder.WriteError(w, errs.NewUpstreamAuthError(githubProvider, err))
			return
		}

		login, err := services.ResolveAuthor(identity.NewAuthentication(user))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		session, err := h.sessions.Issue(user)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("could not issue session", err))
			return
		}

		h.cookies.setSession(w, session)
		h.logger.Info().Str("login", login).Msg("GitHub login completed")
		http.Redirect(w, r, h.frontendURL, http.StatusFound)
	}
}
