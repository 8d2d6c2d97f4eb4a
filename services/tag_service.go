package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/marcv42/blog-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// TagStore is the persistence port the tag service reads and writes through.
type TagStore interface {
	FindAll(ctx context.Context) ([]*models.Tag, error)
	Save(ctx context.Context, tag *models.Tag) error
}

type TagService struct {
	store  TagStore
	logger zerolog.Logger
}

func NewTagService(store TagStore) *TagService {
	return &TagService{
		store:  store,
		logger: log.With().Str("service", "tagService").Logger(),
	}
}

// AddTags persists every hashtag not already stored. Values are compared exactly, kept
// in first-seen order, and repeats inside hashtags are saved once. Tags are saved one
// at a time without a transaction: the first failing save stops the loop and the
// tags saved before it stay.
func (s *TagService) AddTags(ctx context.Context, hashtags []string) error {
	if len(hashtags) == 0 {
		return nil
	}

	newTags, err := s.filterExistingTags(ctx, hashtags)
	if err != nil {
		return err
	}

	for i, value := range newTags {
		if err := s.store.Save(ctx, &models.Tag{TagValue: value}); err != nil {
			s.logger.Error().Err(err).
				Str("tag_value", value).
				Int("saved", i).
				Int("pending", len(newTags)-i).
				Msg("Failed to save tag")
			return fmt.Errorf("save tag %q: %w", value, err)
		}
	}

	if len(newTags) > 0 {
		s.logger.Debug().Strs("tags", newTags).Msg("Added new tags")
	}
	return nil
}

func (s *TagService) filterExistingTags(ctx context.Context, hashtags []string) ([]string, error) {
	existing, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}

	seen := make(map[string]struct{}, len(existing)+len(hashtags))
	for _, tag := range existing {
		seen[tag.TagValue] = struct{}{}
	}

	var filtered []string
	for _, hashtag := range hashtags {
		if _, ok := seen[hashtag]; ok {
			continue
		}
		seen[hashtag] = struct{}{}
		filtered = append(filtered, hashtag)
	}
	return filtered, nil
}

// ListTagValues returns every stored tag value in ascending order.
func (s *TagService) ListTagValues(ctx context.Context) ([]string, error) {
	tags, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	values := make([]string, 0, len(tags))
	for _, tag := range tags {
		values = append(values, tag.TagValue)
	}
	sort.Strings(values)
	return values, nil
}
