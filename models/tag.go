package models

import "github.com/google/uuid"

// Tag is a hashtag known to the blog, stored once per distinct value.
type Tag struct {
	ID       uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	TagValue string    `json:"tagValue" db:"tag_value" gorm:"type:text;not null;uniqueIndex:idx_tag_value"`
}
