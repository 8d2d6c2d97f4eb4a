package api

import (
	"net/http"

	"github.com/marcv42/blog-backend/services"
	"github.com/rs/zerolog/log"
)

type tagHandler struct {
	responder  Responder
	tagService *services.TagService
}

func newTagHandler(tagService *services.TagService) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder:  NewResponder(logger),
		tagService: tagService,
	}
}

// getAllTags lists every hashtag used by a blog so far
// @Summary Get all tags
// @Tags Tags
// @Produce json
// @Success 200 {object} TagCollection
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching tags"
// @Router /api/tags [get]
func (h tagHandler) getAllTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values, err := h.tagService.ListTagValues(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "tags", err))
			return
		}

		h.responder.WriteJSON(w, TagCollection{Tags: values, Total: len(values)})
	}
}
