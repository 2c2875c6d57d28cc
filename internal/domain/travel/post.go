package travel

import (
	"errors"
	"regexp"
	"time"
)

var ErrNotFound = errors.New("post not found")
var ErrSlugTaken = errors.New("slug already in use")

type Post struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Slug         string            `json:"slug"`
	Content      string            `json:"content,omitempty"`
	Country      string            `json:"country,omitempty"`
	Flag         string            `json:"flag,omitempty"`
	Date         string            `json:"date,omitempty"` // ISO day, YYYY-MM-DD
	Images       []string          `json:"images"`
	Published    bool              `json:"published"`
	Translations map[string]string `json:"translations,omitempty"`
	Author       string            `json:"author"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

type CreatePostRequest struct {
	Title        string            `json:"title" binding:"required,min=1,max=200"`
	Slug         string            `json:"slug" binding:"required,min=1,max=200"`
	Content      string            `json:"content" binding:"omitempty"`
	Country      string            `json:"country" binding:"omitempty,max=80"`
	Flag         string            `json:"flag" binding:"omitempty,max=16"`
	Date         string            `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Images       []string          `json:"images" binding:"omitempty,dive,max=500"`
	Published    bool              `json:"published"`
	Translations map[string]string `json:"translations" binding:"omitempty"`
}

// UpdatePostRequest is a partial update: only fields present in the body are
// written. The explicit field list is the allow-list; unknown body fields are
// dropped at bind time rather than spread into the document.
type UpdatePostRequest struct {
	ID           string             `json:"id" binding:"required"`
	Title        *string            `json:"title" binding:"omitempty,min=1,max=200"`
	Slug         *string            `json:"slug" binding:"omitempty,min=1,max=200"`
	Content      *string            `json:"content"`
	Country      *string            `json:"country" binding:"omitempty,max=80"`
	Flag         *string            `json:"flag" binding:"omitempty,max=16"`
	Date         *string            `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Images       *[]string          `json:"images" binding:"omitempty,dive,max=500"`
	Published    *bool              `json:"published"`
	Translations *map[string]string `json:"translations"`
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// IsValidSlug reports whether s is URL-safe: lowercase alphanumerics and
// single hyphens only.
func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}
