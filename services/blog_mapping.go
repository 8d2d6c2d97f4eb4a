package services

import (
	"time"

	"github.com/marcv42/blog-backend/errs"
	"github.com/marcv42/blog-backend/identity"
	"github.com/marcv42/blog-backend/models"
	"gorm.io/datatypes"
)

// MapBlogToResponse copies entry into its response view. TimeCreated is rendered by
// FormatInstant.
func MapBlogToResponse(entry models.BlogEntry) models.BlogResponse {
	return models.BlogResponse{
		ID:          entry.ID,
		Title:       entry.Title,
		Content:     entry.Content,
		Hashtags:    hashtagsOrEmpty(entry.Hashtags),
		TimeCreated: FormatInstant(entry.TimeCreated),
		Author:      entry.Author,
	}
}

// hashtagsOrEmpty keeps "no hashtags" as [] rather than null on the wire and in storage.
func hashtagsOrEmpty(hashtags []string) []string {
	if hashtags == nil {
		return []string{}
	}
	return hashtags
}

const (
	instantSeconds = "2006-01-02T15:04:05Z"
	instantMillis  = "2006-01-02T15:04:05.000Z"
	instantMicros  = "2006-01-02T15:04:05.000000Z"
	instantNanos   = "2006-01-02T15:04:05.000000000Z"
)

// FormatInstant is the canonical string form of an instant: UTC, with the fraction
// omitted when zero and otherwise printed in groups of three digits.
func FormatInstant(t time.Time) string {
	t = t.UTC()
	switch ns := t.Nanosecond(); {
	case ns == 0:
		return t.Format(instantSeconds)
	case ns%int(time.Millisecond) == 0:
		return t.Format(instantMillis)
	case ns%int(time.Microsecond) == 0:
		return t.Format(instantMicros)
	default:
		return t.Format(instantNanos)
	}
}

// MapNewBlogToEntry builds the entry to persist for newBlog, authored by whoever auth
// identifies. It fails when no author can be resolved.
func MapNewBlogToEntry(auth *identity.Authentication, newBlog models.NewBlog) (models.BlogEntry, error) {
	author, err := ResolveAuthor(auth)
	if err != nil {
		return models.BlogEntry{}, err
	}

	return models.BlogEntry{
		Title:       newBlog.Title,
		Content:     newBlog.Content,
		Hashtags:    datatypes.JSONSlice[string](hashtagsOrEmpty(newBlog.Hashtags)),
		TimeCreated: time.Now(),
		Author:      author,
	}, nil
}

// ResolveAuthor returns the login of the OAuth2 user behind auth. There is no fallback:
// a missing authentication, a non-OAuth2 principal or an absent login all fail with
// errs.ErrAuthorUnresolved.
func ResolveAuthor(auth *identity.Authentication) (string, error) {
	if auth == nil || auth.Principal == nil {
		return "", errs.NewAuthorUnresolvedError("no authentication present")
	}

	var user identity.OAuth2User
	switch p := auth.Principal.(type) {
	case identity.OAuth2User:
		user = p
	case *identity.OAuth2User:
		if p == nil {
			return "", errs.NewAuthorUnresolvedError("no authentication present")
		}
		user = *p
	default:
		return "", errs.NewAuthorUnresolvedError("principal is not an OAuth2 user")
	}

	login, ok := user.Attribute(identity.LoginAttribute).(string)
	if !ok || login == "" {
		return "", errs.NewAuthorUnresolvedError("OAuth2 user has no login attribute")
	}
	return login, nil
}
