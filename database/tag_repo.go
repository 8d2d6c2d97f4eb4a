package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/marcv42/blog-backend/models"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// FindAll returns all tags. It always reads the primary so that tags saved a moment
// ago are seen before new ones are inserted.
func (r *TagRepo) FindAll(ctx context.Context) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).Find(&tags).Error
	return tags, err
}

// Save inserts a tag. A value that is already stored fails on the unique index.
func (r *TagRepo) Save(ctx context.Context, tag *models.Tag) error {
	if tag.ID == uuid.Nil {
		tag.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(tag).Error
}
