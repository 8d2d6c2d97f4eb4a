package api

import (
	"net/http"

	"github.com/marcv42/blog-backend/services"
	"github.com/rs/zerolog/log"
)

type userHandler struct {
	responder Responder
	cookies   cookieJar
}

func newUserHandler(cookies cookieJar) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder: NewResponder(logger),
		cookies:   cookies,
	}
}

// getCurrentUser returns the login blogs would be authored under
// @Summary Current user
// @Tags Users
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} ErrorResponse "Unauthorized - No GitHub user signed in"
// @Router /api/users/me [get]
func (h userHandler) getCurrentUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		login, err := services.ResolveAuthor(ctxGetAuthentication(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, UserResponse{Login: login})
	}
}

// logout clears the session cookie
// @Summary Log out
// @Tags Users
// @Success 204
// @Router /api/users/logout [post]
func (h userHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.cookies.clearSession(w)
		w.WriteHeader(http.StatusNoContent)
	}
}
