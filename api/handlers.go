package api

import (
	"net/http"
	"time"

	"github.com/marcv42/blog-backend/database"
	"github.com/marcv42/blog-backend/services"
	"github.com/rs/zerolog/log"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, r router) *routeHandlers {
	tagService := services.NewTagService(database.TagRepo())

	return &routeHandlers{
		blogHandler:   newBlogHandler(database.BlogEntryRepo(), tagService),
		tagHandler:    newTagHandler(tagService),
		userHandler:   newUserHandler(r.cookies),
		oauthHandler:  newOAuthHandler(r.identityProvider, r.sessions, r.cookies, r.frontendURL),
		healthHandler: healthHandler{startupTime: r.startupTime, responder: NewResponder(log.Logger)},
	}
}

type healthHandler struct {
	startupTime time.Time
	responder   Responder
}

// getHealth reports liveness
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h healthHandler) getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, HealthResponse{
			Status:    "ok",
			StartedAt: services.FormatInstant(h.startupTime),
			Uptime:    time.Since(h.startupTime).Truncate(time.Second).String(),
		})
	}
}
