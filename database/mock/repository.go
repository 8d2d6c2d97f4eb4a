package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/marcv42/blog-backend/models"
	"gorm.io/gorm"
)

type BlogEntryRepository struct {
	entries map[uuid.UUID]models.BlogEntry
	mutex   sync.RWMutex
}

type TagRepository struct {
	tags  []models.Tag
	mutex sync.RWMutex

	// FailOnSave makes Save return an error for this tag value.
	FailOnSave string
	SaveCalls  int
	FindCalls  int
}

func NewBlogEntryRepository() *BlogEntryRepository {
	return &BlogEntryRepository{entries: make(map[uuid.UUID]models.BlogEntry)}
}

func NewTagRepository(values ...string) *TagRepository {
	repo := &TagRepository{}
	for _, value := range values {
		repo.tags = append(repo.tags, models.Tag{ID: uuid.New(), TagValue: value})
	}
	return repo
}

// BlogEntryRepository implementation
func (m *BlogEntryRepository) FindAll(ctx context.Context) ([]*models.BlogEntry, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	entries := make([]*models.BlogEntry, 0, len(m.entries))
	for _, entry := range m.entries {
		entry := entry
		entries = append(entries, &entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].TimeCreated.After(entries[j].TimeCreated)
	})
	return entries, nil
}

func (m *BlogEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.BlogEntry, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	entry, exists := m.entries[id]
	if !exists {
		return nil, gorm.ErrRecordNotFound
	}
	return &entry, nil
}

func (m *BlogEntryRepository) Add(ctx context.Context, entry *models.BlogEntry) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	m.entries[entry.ID] = *entry
	return nil
}

func (m *BlogEntryRepository) Update(ctx context.Context, entry *models.BlogEntry) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	stored, exists := m.entries[entry.ID]
	if !exists {
		return gorm.ErrRecordNotFound
	}
	stored.Title = entry.Title
	stored.Content = entry.Content
	stored.Hashtags = entry.Hashtags
	m.entries[entry.ID] = stored
	return nil
}

func (m *BlogEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.entries[id]; !exists {
		return gorm.ErrRecordNotFound
	}
	delete(m.entries, id)
	return nil
}

// TagRepository implementation
func (m *TagRepository) FindAll(ctx context.Context) ([]*models.Tag, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.FindCalls++
	tags := make([]*models.Tag, 0, len(m.tags))
	for i := range m.tags {
		tag := m.tags[i]
		tags = append(tags, &tag)
	}
	return tags, nil
}

// Save enforces value uniqueness the way the tag_value index does.
func (m *TagRepository) Save(ctx context.Context, tag *models.Tag) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.SaveCalls++
	if m.FailOnSave != "" && tag.TagValue == m.FailOnSave {
		return fmt.Errorf("connection reset while saving %q", tag.TagValue)
	}
	for _, existing := range m.tags {
		if existing.TagValue == tag.TagValue {
			return gorm.ErrDuplicatedKey
		}
	}

	if tag.ID == uuid.Nil {
		tag.ID = uuid.New()
	}
	m.tags = append(m.tags, *tag)
	return nil
}

// Values returns the stored tag values in insertion order.
func (m *TagRepository) Values() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	values := make([]string, 0, len(m.tags))
	for _, tag := range m.tags {
		values = append(values, tag.TagValue)
	}
	return values
}
