package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jujunior/juniorsworld/internal/domain/travel"
)

// PostsRepo is the in-memory twin of the postgres repo. Handler tests and
// DB-less local runs use it.
type PostsRepo struct {
	mu    sync.RWMutex
	items map[string]travel.Post
}

func NewPostsRepo() *PostsRepo {
	return &PostsRepo{
		items: make(map[string]travel.Post),
	}
}

func (r *PostsRepo) Create(_ context.Context, p travel.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Slug == p.Slug {
			return travel.ErrSlugTaken
		}
	}

	r.items[p.ID] = p

	return nil
}

func (r *PostsRepo) GetBySlug(_ context.Context, slug string) (travel.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.items {
		if p.Slug == slug && p.Published {
			return p, nil
		}
	}

	return travel.Post{}, travel.ErrNotFound
}

func (r *PostsRepo) ListPublished(_ context.Context) ([]travel.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	output := make([]travel.Post, 0, len(r.items))

	for _, p := range r.items {
		if p.Published {
			output = append(output, p)
		}
	}

	sort.Slice(output, func(i, j int) bool {
		if output[i].Date != output[j].Date {
			return output[i].Date > output[j].Date
		}
		return output[i].CreatedAt.After(output[j].CreatedAt)
	})

	return output, nil
}

func (r *PostsRepo) Update(_ context.Context, req travel.UpdatePostRequest) (travel.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[req.ID]

	if !ok {
		return travel.Post{}, travel.ErrNotFound
	}

	if req.Slug != nil {
		for id, existing := range r.items {
			if id != req.ID && existing.Slug == *req.Slug {
				return travel.Post{}, travel.ErrSlugTaken
			}
		}
		p.Slug = *req.Slug
	}

	if req.Title != nil {
		p.Title = *req.Title
	}

	if req.Content != nil {
		p.Content = *req.Content
	}

	if req.Country != nil {
		p.Country = *req.Country
	}

	if req.Flag != nil {
		p.Flag = *req.Flag
	}

	if req.Date != nil {
		p.Date = *req.Date
	}

	if req.Images != nil {
		p.Images = *req.Images
	}

	if req.Published != nil {
		p.Published = *req.Published
	}

	if req.Translations != nil {
		p.Translations = *req.Translations
	}

	p.UpdatedAt = time.Now().UTC()

	r.items[req.ID] = p

	return p, nil
}

func (r *PostsRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return travel.ErrNotFound
	}

	delete(r.items, id)

	return nil
}

// Seed inserts a post directly, bypassing slug checks. Test helper.
func (r *PostsRepo) Seed(p travel.Post) {
	r.mu.Lock()
	r.items[p.ID] = p
	r.mu.Unlock()
}
