package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/marcv42/blog-backend/database"
	"github.com/marcv42/blog-backend/errs"
	"github.com/marcv42/blog-backend/models"
	"github.com/marcv42/blog-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

const maxBlogBodyBytes = 1 << 20

type blogHandler struct {
	responder     Responder
	logger        zerolog.Logger
	blogEntryRepo database.BlogEntryStore
	tagService    *services.TagService
}

func newBlogHandler(blogEntryRepo database.BlogEntryStore, tagService *services.TagService) blogHandler {
	logger := log.With().Str("handlerName", "blogHandler").Logger()

	return blogHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		blogEntryRepo: blogEntryRepo,
		tagService:    tagService,
	}
}

// getAllBlogs retrieves every blog entry, newest first
// @Summary Get all blogs
// @Tags Blogs
// @Produce json
// @Success 200 {array} models.BlogResponse "List of blogs"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching blogs"
// @Router /api/blogs [get]
func (h blogHandler) getAllBlogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := h.blogEntryRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog entries", err))
			return
		}

		response := make([]models.BlogResponse, 0, len(entries))
		for _, entry := range entries {
			response = append(response, services.MapBlogToResponse(*entry))
		}

		h.responder.WriteJSON(w, response)
	}
}

// getBlog retrieves a single blog entry
// @Summary Get blog
// @Tags Blogs
// @Produce json
// @Param blogID path string true "Blog ID" format(uuid)
// @Success 200 {object} models.BlogResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid blogID"
// @Failure 404 {object} ErrorResponse "Not Found - Blog not found"
// @Router /api/blogs/{blogID} [get]
func (h blogHandler) getBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogID, err := blogIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		entry, err := h.blogEntryRepo.FindByID(r.Context(), blogID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog entry", err))
			return
		}

		h.responder.WriteJSON(w, services.MapBlogToResponse(*entry))
	}
}

// createBlog stores a new blog entry authored by the signed-in GitHub user
// @Summary Create blog
// @Description Creates a blog entry and records any hashtags not seen before
// @Tags Blogs
// @Accept json
// @Produce json
// @Param blog body models.NewBlog true "Blog data"
// @Success 201 {object} models.BlogResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid blog data"
// @Failure 401 {object} ErrorResponse "Unauthorized - Author could not be resolved"
// @Router /api/blogs [post]
func (h blogHandler) createBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		newBlog, err := h.decodeNewBlog(w, r, true)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		entry, err := services.MapNewBlogToEntry(ctxGetAuthentication(r.Context()), newBlog)
		if err != nil {
			h.logger.Warn().Err(err).Msg("Rejected blog without a resolvable author")
			h.responder.WriteError(w, err)
			return
		}

		if err := h.tagService.AddTags(r.Context(), newBlog.Hashtags); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("save", "tags", err))
			return
		}

		if err := h.blogEntryRepo.Add(r.Context(), &entry); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "blog entry", err))
			return
		}

		h.logger.Info().Str("blog_id", entry.ID.String()).Str("author", entry.Author).Msg("Created blog")
		h.responder.WriteJSONStatus(w, http.StatusCreated, services.MapBlogToResponse(entry))
	}
}

// updateBlog replaces the title, content and hashtags of a blog entry
// @Summary Update blog
// @Tags Blogs
// @Accept json
// @Produce json
// @Param blogID path string true "Blog ID" format(uuid)
// @Param blog body models.NewBlog true "Updated blog data"
// @Success 200 {object} models.BlogResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid blog data"
// @Failure 404 {object} ErrorResponse "Not Found - Blog not found"
// @Router /api/blogs/{blogID} [put]
func (h blogHandler) updateBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogID, err := blogIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		// Editors send the whole entry back; id, author and timeCreated are ignored.
		newBlog, err := h.decodeNewBlog(w, r, false)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		entry, err := h.blogEntryRepo.FindByID(r.Context(), blogID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog entry", err))
			return
		}

		if err := h.tagService.AddTags(r.Context(), newBlog.Hashtags); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("save", "tags", err))
			return
		}

		entry.Title = newBlog.Title
		entry.Content = newBlog.Content
		entry.Hashtags = datatypes.JSONSlice[string](newBlog.Hashtags)
		if entry.Hashtags == nil {
			entry.Hashtags = datatypes.JSONSlice[string]{}
		}

		if err := h.blogEntryRepo.Update(r.Context(), entry); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "blog entry", err))
			return
		}

		h.responder.WriteJSON(w, services.MapBlogToResponse(*entry))
	}
}

// deleteBlog removes a blog entry. Tags it introduced are kept.
// @Summary Delete blog
// @Tags Blogs
// @Param blogID path string true "Blog ID" format(uuid)
// @Success 204
// @Failure 404 {object} ErrorResponse "Not Found - Blog not found"
// @Router /api/blogs/{blogID} [delete]
func (h blogHandler) deleteBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogID, err := blogIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.blogEntryRepo.Delete(r.Context(), blogID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "blog entry", err))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (h blogHandler) decodeNewBlog(w http.ResponseWriter, r *http.Request, strict bool) (models.NewBlog, error) {
	var newBlog models.NewBlog

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBlogBodyBytes))
	if strict {
		decoder.DisallowUnknownFields()
	}
	if err := decoder.Decode(&newBlog); err != nil {
		h.logger.Debug().Err(err).Msg("Failed to decode blog request body")
		return models.NewBlog{}, errs.NewInvalidJSONError(err)
	}

	if err := newBlog.Validate(); err != nil {
		return models.NewBlog{}, validationError(err)
	}
	return newBlog, nil
}

// validationError reports the first failing field.
func validationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fieldErr := validationErrs[0]
		if fieldErr.Tag() == "required" {
			return errs.NewMissingRequiredFieldError(fieldErr.Field())
		}
		return errs.NewInvalidFieldError(fieldErr.Field(), "failed "+fieldErr.Tag()+" check")
	}
	return errs.NewMalformedPayloadError("blog", err)
}

func blogIDParam(r *http.Request) (uuid.UUID, error) {
	blogIDStr := chi.URLParam(r, "blogID")
	if blogIDStr == "" {
		return uuid.Nil, errs.NewBadRequestError("missing blogID")
	}

	blogID, err := uuid.Parse(blogIDStr)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestErrorWithField("invalid blogID", "blogID", err.Error())
	}
	return blogID, nil
}
