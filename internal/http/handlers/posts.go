package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jujunior/juniorsworld/internal/config"
	"github.com/jujunior/juniorsworld/internal/domain/travel"
	"github.com/jujunior/juniorsworld/internal/http/middlewares"
)

type PostsStore interface {
	Create(ctx context.Context, p travel.Post) error
	GetBySlug(ctx context.Context, slug string) (travel.Post, error)
	ListPublished(ctx context.Context) ([]travel.Post, error)
	Update(ctx context.Context, req travel.UpdatePostRequest) (travel.Post, error)
	Delete(ctx context.Context, id string) error
}

type PostsHandler struct {
	repo PostsStore
}

func NewPostsHandler(repo PostsStore) *PostsHandler {
	return &PostsHandler{repo: repo}
}

// Get serves both the single-post and the list read. Public: only
// published posts are ever visible here.
func (h *PostsHandler) Get(ctx *gin.Context) {
	slug := ctx.Query("slug")
	lang := ctx.Query("lang")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if slug != "" {
		p, err := h.repo.GetBySlug(cctx, slug)

		if err != nil {
			if err == travel.ErrNotFound {
				RespondNotFound(ctx, "Post not found")
				return
			}
			RespondInternal(ctx, "Could not fetch post")
			return
		}

		RespondJSONWithETag(ctx, http.StatusOK, localize(p, lang))
		return
	}

	posts, err := h.repo.ListPublished(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not fetch posts")
		return
	}

	for i := range posts {
		posts[i] = localize(posts[i], lang)
	}

	RespondJSONWithETag(ctx, http.StatusOK, posts)
}

func (h *PostsHandler) Create(ctx *gin.Context) {
	var req travel.CreatePostRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if !travel.IsValidSlug(req.Slug) {
		RespondBadRequest(ctx, "Slug must be URL-safe (lowercase letters, digits, hyphens)", nil)
		return
	}

	email, ok := middlewares.EmailFromContext(ctx)

	if !ok || email == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	p := travel.NewFromCreateRequest(req, email)

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.repo.Create(cctx, p)

	if err != nil {
		if err == travel.ErrSlugTaken {
			RespondConflict(ctx, "slug_taken", "A post with this slug already exists")
			return
		}

		RespondInternal(ctx, "Could not create post")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"id":      p.ID,
		"message": "Post created successfully",
	})
}

func (h *PostsHandler) Update(ctx *gin.Context) {
	var req travel.UpdatePostRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if req.Slug != nil && !travel.IsValidSlug(*req.Slug) {
		RespondBadRequest(ctx, "Slug must be URL-safe (lowercase letters, digits, hyphens)", nil)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	p, err := h.repo.Update(cctx, req)

	if err != nil {
		switch err {
		case travel.ErrNotFound:
			RespondNotFound(ctx, "Post not found")
		case travel.ErrSlugTaken:
			RespondConflict(ctx, "slug_taken", "A post with this slug already exists")
		default:
			RespondInternal(ctx, "Could not update post")
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Post updated successfully",
		"post":    p,
	})
}

func (h *PostsHandler) Delete(ctx *gin.Context) {
	id := ctx.Query("id")

	if id == "" {
		RespondBadRequest(ctx, "Missing id query parameter", nil)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, id)

	if err != nil {
		if err == travel.ErrNotFound {
			RespondNotFound(ctx, "Post not found")
			return
		}

		RespondInternal(ctx, "Could not delete post")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Post deleted successfully",
	})
}

// localize substitutes the requested translation into content when the post
// carries one; unknown languages fall back to the default content.
func localize(p travel.Post, lang string) travel.Post {
	if lang == "" {
		return p
	}

	if t, ok := p.Translations[lang]; ok && t != "" {
		p.Content = t
	}

	return p
}
