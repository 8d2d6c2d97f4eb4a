package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/marcv42/blog-backend/models"
)

// BlogEntryStore defines blog entry data access
type BlogEntryStore interface {
	FindAll(ctx context.Context) ([]*models.BlogEntry, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.BlogEntry, error)
	Add(ctx context.Context, entry *models.BlogEntry) error
	Update(ctx context.Context, entry *models.BlogEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TagStore defines tag data access
type TagStore interface {
	FindAll(ctx context.Context) ([]*models.Tag, error)
	Save(ctx context.Context, tag *models.Tag) error
}
