package models

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// BlogEntry is a persisted blog post. Author and TimeCreated are set once, when the
// entry is authored, and never change afterwards.
type BlogEntry struct {
	ID          uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title       string                      `json:"title" db:"title" gorm:"type:text;not null"`
	Content     string                      `json:"content" db:"content" gorm:"type:text;not null"`
	Hashtags    datatypes.JSONSlice[string] `json:"hashtags" db:"hashtags" gorm:"not null"`
	TimeCreated time.Time                   `json:"timeCreated" db:"time_created" gorm:"type:timestamptz;not null;index:idx_blog_entry_time_created"`
	Author      string                      `json:"author" db:"author" gorm:"type:text;not null;index:idx_blog_entry_author"`
}

// NewBlog is the payload a caller sends to author a blog entry.
type NewBlog struct {
	Title    string   `json:"title" validate:"required,max=200"`
	Content  string   `json:"content" validate:"required"`
	Hashtags []string `json:"hashtags" validate:"omitempty,dive,required,max=64"`
}

// BlogResponse is the outward view of a BlogEntry.
type BlogResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Hashtags    []string  `json:"hashtags"`
	TimeCreated string    `json:"timeCreated"`
	Author      string    `json:"author"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the payload; failures are validator.ValidationErrors keyed by json name.
func (n NewBlog) Validate() error {
	return validate.Struct(n)
}
