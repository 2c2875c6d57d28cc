package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jujunior/juniorsworld/internal/auth"
	"github.com/jujunior/juniorsworld/internal/domain/travel"
	"github.com/jujunior/juniorsworld/internal/http/handlers"
	"github.com/jujunior/juniorsworld/internal/http/middlewares"
	"github.com/jujunior/juniorsworld/internal/repo/memory"
)

// newPostsRouter wires the handler behind the real auth middleware so the
// write paths are tested with the same gate production uses.
func newPostsRouter(repo *memory.PostsRepo, jwtManager *auth.Manager) *gin.Engine {
	h := handlers.NewPostsHandler(repo)
	authed := middlewares.NewAuthMiddleware(jwtManager).RequireAuth()

	router := gin.New()
	router.GET("/api/travel/posts", h.Get)
	router.POST("/api/travel/posts", authed, h.Create)
	router.PUT("/api/travel/posts", authed, h.Update)
	router.DELETE("/api/travel/posts", authed, h.Delete)

	return router
}

func newPostsManager() *auth.Manager {
	return auth.NewManager("posts-test-secret", time.Hour)
}

func bearerToken(t *testing.T, m *auth.Manager) string {
	t.Helper()

	token, err := m.GenerateToken("22222222-2222-2222-2222-222222222222", "author@example.com", "admin")

	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	return token
}

func doJSON(router *gin.Engine, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader

	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func seedPost(repo *memory.PostsRepo, id, slug string, published bool) travel.Post {
	p := travel.Post{
		ID:        id,
		Title:     "Trip: " + slug,
		Slug:      slug,
		Content:   "original content",
		Date:      "2026-05-01",
		Images:    []string{},
		Published: published,
		Author:    "author@example.com",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	repo.Seed(p)

	return p
}

func TestPostsGetBySlug(t *testing.T) {
	repo := memory.NewPostsRepo()
	seedPost(repo, "id-1", "lisbon", true)
	seedPost(repo, "id-2", "hidden-draft", false)

	router := newPostsRouter(repo, newPostsManager())

	t.Run("published post found", func(t *testing.T) {
		rec := doJSON(router, http.MethodGet, "/api/travel/posts?slug=lisbon", "", nil)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		if rec.Header().Get("ETag") == "" {
			t.Error("single post read should carry an ETag")
		}
	})

	t.Run("unknown slug", func(t *testing.T) {
		rec := doJSON(router, http.MethodGet, "/api/travel/posts?slug=nowhere", "", nil)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}

		if !strings.Contains(rec.Body.String(), "Post not found") {
			t.Errorf("body = %s", rec.Body.String())
		}
	})

	t.Run("draft is invisible", func(t *testing.T) {
		rec := doJSON(router, http.MethodGet, "/api/travel/posts?slug=hidden-draft", "", nil)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404 for unpublished slug", rec.Code)
		}
	})
}

func TestPostsListOnlyPublished(t *testing.T) {
	repo := memory.NewPostsRepo()
	seedPost(repo, "id-1", "lisbon", true)
	seedPost(repo, "id-2", "draft", false)
	seedPost(repo, "id-3", "porto", true)

	router := newPostsRouter(repo, newPostsManager())

	rec := doJSON(router, http.MethodGet, "/api/travel/posts", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var posts []travel.Post

	if err := json.Unmarshal(rec.Body.Bytes(), &posts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(posts) != 2 {
		t.Fatalf("len(posts) = %d, want 2", len(posts))
	}

	for _, p := range posts {
		if !p.Published {
			t.Errorf("unpublished post %q leaked into the list", p.Slug)
		}
	}
}

func TestPostsLangSubstitution(t *testing.T) {
	repo := memory.NewPostsRepo()

	p := seedPost(repo, "id-1", "lisbon", true)
	p.Translations = map[string]string{"pt": "conteúdo em português"}
	repo.Seed(p)

	router := newPostsRouter(repo, newPostsManager())

	t.Run("known language replaces content", func(t *testing.T) {
		rec := doJSON(router, http.MethodGet, "/api/travel/posts?slug=lisbon&lang=pt", "", nil)

		var got travel.Post
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}

		if got.Content != "conteúdo em português" {
			t.Errorf("content = %q, want translated", got.Content)
		}
	})

	t.Run("unknown language falls back", func(t *testing.T) {
		rec := doJSON(router, http.MethodGet, "/api/travel/posts?slug=lisbon&lang=de", "", nil)

		var got travel.Post
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}

		if got.Content != "original content" {
			t.Errorf("content = %q, want original", got.Content)
		}
	})
}

func TestPostsCreate(t *testing.T) {
	repo := memory.NewPostsRepo()
	manager := newPostsManager()
	router := newPostsRouter(repo, manager)
	token := bearerToken(t, manager)

	body := map[string]interface{}{
		"title":     "A week in Lisbon",
		"slug":      "a-week-in-lisbon",
		"content":   "We went everywhere.",
		"date":      "2026-05-01",
		"published": true,
	}

	rec := doJSON(router, http.MethodPost, "/api/travel/posts", token, body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	var created struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
		Message string `json:"message"`
	}

	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !created.Success || created.ID == "" {
		t.Fatalf("create response = %+v", created)
	}

	if created.Message != "Post created successfully" {
		t.Errorf("message = %q", created.Message)
	}

	// author comes from the token, never from the body
	read := doJSON(router, http.MethodGet, "/api/travel/posts?slug=a-week-in-lisbon", "", nil)

	var got travel.Post
	if err := json.Unmarshal(read.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal stored post: %v", err)
	}

	if got.Author != "author@example.com" {
		t.Errorf("author = %q, want the token identity", got.Author)
	}
}

func TestPostsCreateRejectsBadSlug(t *testing.T) {
	manager := newPostsManager()
	router := newPostsRouter(memory.NewPostsRepo(), manager)
	token := bearerToken(t, manager)

	for _, slug := range []string{"Has Spaces", "UPPER", "trailing-", "-leading", "double--hyphen", "ünïcode"} {
		rec := doJSON(router, http.MethodPost, "/api/travel/posts", token, map[string]interface{}{
			"title": "t",
			"slug":  slug,
		})

		if rec.Code != http.StatusBadRequest {
			t.Errorf("slug %q: status = %d, want 400", slug, rec.Code)
		}
	}
}

func TestPostsCreateDuplicateSlug(t *testing.T) {
	repo := memory.NewPostsRepo()
	seedPost(repo, "id-1", "lisbon", true)

	manager := newPostsManager()
	router := newPostsRouter(repo, manager)
	token := bearerToken(t, manager)

	rec := doJSON(router, http.MethodPost, "/api/travel/posts", token, map[string]interface{}{
		"title": "Another Lisbon",
		"slug":  "lisbon",
	})

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestPostsUpdateAllowList(t *testing.T) {
	repo := memory.NewPostsRepo()
	seedPost(repo, "id-1", "lisbon", true)

	manager := newPostsManager()
	router := newPostsRouter(repo, manager)
	token := bearerToken(t, manager)

	// author and createdAt are not updatable fields; they must survive an
	// update body that tries to smuggle them in
	rec := doJSON(router, http.MethodPut, "/api/travel/posts", token, map[string]interface{}{
		"id":     "id-1",
		"title":  "Lisbon, revisited",
		"author": "attacker@example.com",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Post travel.Post `json:"post"`
	}

	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if resp.Post.Title != "Lisbon, revisited" {
		t.Errorf("title = %q, want updated", resp.Post.Title)
	}

	if resp.Post.Author != "author@example.com" {
		t.Errorf("author = %q, update must not rewrite it", resp.Post.Author)
	}

	if resp.Post.Content != "original content" {
		t.Errorf("content = %q, fields absent from the body must be untouched", resp.Post.Content)
	}
}

func TestPostsUpdateUnknownID(t *testing.T) {
	manager := newPostsManager()
	router := newPostsRouter(memory.NewPostsRepo(), manager)
	token := bearerToken(t, manager)

	rec := doJSON(router, http.MethodPut, "/api/travel/posts", token, map[string]interface{}{
		"id":    "missing-id",
		"title": "whatever",
	})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestPostsDelete(t *testing.T) {
	manager := newPostsManager()
	token := bearerToken(t, manager)

	t.Run("missing id", func(t *testing.T) {
		router := newPostsRouter(memory.NewPostsRepo(), manager)

		rec := doJSON(router, http.MethodDelete, "/api/travel/posts", token, nil)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		router := newPostsRouter(memory.NewPostsRepo(), manager)

		rec := doJSON(router, http.MethodDelete, "/api/travel/posts?id=nope", token, nil)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("delete removes the post", func(t *testing.T) {
		repo := memory.NewPostsRepo()
		seedPost(repo, "id-1", "lisbon", true)
		router := newPostsRouter(repo, manager)

		rec := doJSON(router, http.MethodDelete, "/api/travel/posts?id=id-1", token, nil)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		read := doJSON(router, http.MethodGet, "/api/travel/posts?slug=lisbon", "", nil)

		if read.Code != http.StatusNotFound {
			t.Errorf("post still readable after delete (status %d)", read.Code)
		}
	})
}

func TestPostsWritesRequireAuth(t *testing.T) {
	repo := memory.NewPostsRepo()
	seedPost(repo, "id-1", "lisbon", true)

	router := newPostsRouter(repo, newPostsManager())

	cases := []struct {
		method string
		target string
		body   interface{}
	}{
		{http.MethodPost, "/api/travel/posts", map[string]interface{}{"title": "t", "slug": "t"}},
		{http.MethodPut, "/api/travel/posts", map[string]interface{}{"id": "id-1", "title": "t"}},
		{http.MethodDelete, "/api/travel/posts?id=id-1", nil},
	}

	for _, tc := range cases {
		rec := doJSON(router, tc.method, tc.target, "", tc.body)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s without token: status = %d, want 401", tc.method, rec.Code)
		}

		if !strings.Contains(rec.Body.String(), "No token provided") {
			t.Errorf("%s body = %s, want No token provided", tc.method, rec.Body.String())
		}
	}

	// the rejected delete must not have removed anything
	read := doJSON(router, http.MethodGet, "/api/travel/posts?slug=lisbon", "", nil)

	if read.Code != http.StatusOK {
		t.Errorf("post missing after unauthenticated delete attempt (status %d)", read.Code)
	}
}

func TestPostsConditionalGet(t *testing.T) {
	repo := memory.NewPostsRepo()
	seedPost(repo, "id-1", "lisbon", true)

	router := newPostsRouter(repo, newPostsManager())

	first := doJSON(router, http.MethodGet, "/api/travel/posts", "", nil)
	etag := first.Header().Get("ETag")

	if etag == "" {
		t.Fatal("list response missing ETag")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/travel/posts", nil)
	req.Header.Set("If-None-Match", etag)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotModified {
		t.Fatalf("status = %d, want 304 on matching If-None-Match", rec.Code)
	}
}
