package travel

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(req CreatePostRequest, author string) Post {
	now := time.Now().UTC()

	images := req.Images
	if images == nil {
		images = []string{}
	}

	translations := req.Translations
	if translations == nil {
		translations = map[string]string{}
	}

	return Post{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Slug:         req.Slug,
		Content:      req.Content,
		Country:      req.Country,
		Flag:         req.Flag,
		Date:         req.Date,
		Images:       images,
		Published:    req.Published,
		Translations: translations,
		Author:       author,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
