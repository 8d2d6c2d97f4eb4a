package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/marcv42/blog-backend/models"
	"gorm.io/gorm"
)

type BlogEntryRepo struct {
	db *gorm.DB
}

func NewBlogEntryRepo(db *gorm.DB) *BlogEntryRepo {
	return &BlogEntryRepo{db}
}

// FindAll returns all blog entries, newest first
func (r *BlogEntryRepo) FindAll(ctx context.Context) ([]*models.BlogEntry, error) {
	var entries []*models.BlogEntry
	err := r.db.WithContext(ctx).Order("time_created DESC").Find(&entries).Error
	return entries, err
}

// FindByID returns a blog entry by its ID
func (r *BlogEntryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.BlogEntry, error) {
	var entry models.BlogEntry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Add inserts a new blog entry, assigning its ID
func (r *BlogEntryRepo) Add(ctx context.Context, entry *models.BlogEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// Update writes title, content and hashtags; author and creation time are left as stored
func (r *BlogEntryRepo) Update(ctx context.Context, entry *models.BlogEntry) error {
	result := r.db.WithContext(ctx).
		Model(&models.BlogEntry{}).
		Where("id = ?", entry.ID).
		Select("title", "content", "hashtags").
		Updates(entry)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a blog entry from the database by id
func (r *BlogEntryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BlogEntry{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
