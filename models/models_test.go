package models

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestNewBlogValidate(t *testing.T) {
	testCases := []struct {
		name      string
		blog      NewBlog
		wantField string
	}{
		{
			name: "valid",
			blog: NewBlog{Title: "Go", Content: "Hello", Hashtags: []string{"go"}},
		},
		{
			name: "no hashtags is fine",
			blog: NewBlog{Title: "Go", Content: "Hello"},
		},
		{
			name:      "missing title",
			blog:      NewBlog{Content: "Hello"},
			wantField: "title",
		},
		{
			name:      "missing content",
			blog:      NewBlog{Title: "Go"},
			wantField: "content",
		},
		{
			name:      "blank hashtag",
			blog:      NewBlog{Title: "Go", Content: "Hello", Hashtags: []string{"go", ""}},
			wantField: "hashtags[1]",
		},
		{
			name:      "title too long",
			blog:      NewBlog{Title: strings.Repeat("a", 201), Content: "Hello"},
			wantField: "title",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			err := testCase.blog.Validate()
			if testCase.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var validationErrs validator.ValidationErrors
			require.True(t, errors.As(err, &validationErrs))
			assert.Equal(t, testCase.wantField, validationErrs[0].Field())
		})
	}
}

func TestPersistedModelsSchema(t *testing.T) {
	s, err := schema.Parse(&BlogEntry{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	assert.Equal(t, "blog_entries", s.Table)
	assert.ElementsMatch(t,
		[]string{"id", "title", "content", "hashtags", "time_created", "author"},
		s.DBNames)

	s, err = schema.Parse(&Tag{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	assert.Equal(t, "tags", s.Table)
	assert.ElementsMatch(t, []string{"id", "tag_value"}, s.DBNames)
}

func TestFindColumnMismatches(t *testing.T) {
	mismatches := findColumnMismatches(
		[]string{"id", "tag_value", "legacy_slug", "created_at"},
		[]string{"id", "tag_value"},
	)
	assert.Equal(t, []string{"created_at", "legacy_slug"}, mismatches)
	assert.Empty(t, findColumnMismatches([]string{"id"}, []string{"id", "tag_value"}))
}
