package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marcv42/blog-backend/errs"
	"github.com/marcv42/blog-backend/identity"
	"github.com/marcv42/blog-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func oauthAuthentication(attributes map[string]any) *identity.Authentication {
	return identity.NewAuthentication(identity.NewOAuth2User(attributes, identity.LoginAttribute))
}

func TestMapBlogToResponse(t *testing.T) {
	id := uuid.New()
	created := time.Date(2024, 3, 9, 14, 5, 7, 120000000, time.FixedZone("CET", 3600))

	response := MapBlogToResponse(models.BlogEntry{
		ID:          id,
		Title:       "Hello",
		Content:     "World",
		Hashtags:    datatypes.JSONSlice[string]{"go", "rust"},
		TimeCreated: created,
		Author:      "alice",
	})

	assert.Equal(t, models.BlogResponse{
		ID:          id,
		Title:       "Hello",
		Content:     "World",
		Hashtags:    []string{"go", "rust"},
		TimeCreated: "2024-03-09T13:05:07.120Z",
		Author:      "alice",
	}, response)
}

func TestMapBlogToResponseWithoutHashtags(t *testing.T) {
	response := MapBlogToResponse(models.BlogEntry{TimeCreated: time.Unix(0, 0)})

	assert.NotNil(t, response.Hashtags)
	assert.Empty(t, response.Hashtags)
	assert.Equal(t, "1970-01-01T00:00:00Z", response.TimeCreated)
}

func TestMapNewBlogToEntry(t *testing.T) {
	newBlog := models.NewBlog{Title: "Title", Content: "Body", Hashtags: []string{"go", "tdd"}}

	before := time.Now()
	entry, err := MapNewBlogToEntry(oauthAuthentication(map[string]any{"login": "alice"}), newBlog)
	after := time.Now()

	require.NoError(t, err)
	assert.Equal(t, "alice", entry.Author)
	assert.Equal(t, "Title", entry.Title)
	assert.Equal(t, "Body", entry.Content)
	assert.Equal(t, []string{"go", "tdd"}, []string(entry.Hashtags))
	assert.Equal(t, uuid.Nil, entry.ID)
	assert.False(t, entry.TimeCreated.Before(before))
	assert.False(t, entry.TimeCreated.After(after))
}

func TestMapNewBlogToEntryFailsWithoutAuthor(t *testing.T) {
	entry, err := MapNewBlogToEntry(nil, models.NewBlog{Title: "Title", Content: "Body"})

	assert.True(t, errs.IsAuthorUnresolvedError(err))
	assert.Equal(t, models.BlogEntry{}, entry)
}

func TestResolveAuthor(t *testing.T) {
	alice := identity.NewOAuth2User(map[string]any{"login": "alice"}, identity.LoginAttribute)

	testCases := []struct {
		name      string
		auth      *identity.Authentication
		wantLogin string
	}{
		{
			name:      "oauth2 user",
			auth:      identity.NewAuthentication(alice),
			wantLogin: "alice",
		},
		{
			name:      "oauth2 user pointer",
			auth:      identity.NewAuthentication(&alice),
			wantLogin: "alice",
		},
		{
			name: "no authentication",
			auth: nil,
		},
		{
			name: "authentication without principal",
			auth: &identity.Authentication{},
		},
		{
			name: "service principal",
			auth: identity.NewAuthentication(identity.ServicePrincipal{Name: "backend"}),
		},
		{
			name: "login attribute missing",
			auth: oauthAuthentication(map[string]any{"name": "Alice"}),
		},
		{
			name: "login attribute null",
			auth: oauthAuthentication(map[string]any{"login": nil}),
		},
		{
			name: "login attribute not a string",
			auth: oauthAuthentication(map[string]any{"login": 42}),
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			login, err := ResolveAuthor(testCase.auth)
			if testCase.wantLogin != "" {
				require.NoError(t, err)
				assert.Equal(t, testCase.wantLogin, login)
				return
			}

			assert.Empty(t, login)
			assert.True(t, errs.IsAuthorUnresolvedError(err))
			assert.True(t, errs.IsUnauthorized(err))
		})
	}
}

func TestFormatInstant(t *testing.T) {
	testCases := []struct {
		name string
		at   time.Time
		want string
	}{
		{name: "whole second", at: time.Date(2024, 3, 9, 13, 5, 7, 0, time.UTC), want: "2024-03-09T13:05:07Z"},
		{name: "millis", at: time.Date(2024, 3, 9, 13, 5, 7, 120_000_000, time.UTC), want: "2024-03-09T13:05:07.120Z"},
		{name: "micros", at: time.Date(2024, 3, 9, 13, 5, 7, 123_500_000, time.UTC), want: "2024-03-09T13:05:07.123500Z"},
		{name: "nanos", at: time.Date(2024, 3, 9, 13, 5, 7, 1, time.UTC), want: "2024-03-09T13:05:07.000000001Z"},
		{name: "converted to UTC", at: time.Date(2024, 3, 9, 15, 5, 7, 0, time.FixedZone("CEST", 2*60*60)), want: "2024-03-09T13:05:07Z"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, FormatInstant(testCase.at))
		})
	}
}
