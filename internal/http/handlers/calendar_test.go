package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jujunior/juniorsworld/internal/auth"
	"github.com/jujunior/juniorsworld/internal/domain/petcal"
	"github.com/jujunior/juniorsworld/internal/http/handlers"
	"github.com/jujunior/juniorsworld/internal/http/middlewares"
	"github.com/jujunior/juniorsworld/internal/repo/memory"
)

func newCalendarRouter(repo *memory.CalendarRepo, jwtManager *auth.Manager) *gin.Engine {
	h := handlers.NewCalendarHandler(repo)
	authed := middlewares.NewAuthMiddleware(jwtManager).RequireAuth()

	router := gin.New()
	router.GET("/api/petsitting/calendar", h.List)
	router.POST("/api/petsitting/calendar", authed, h.Upsert)
	router.PUT("/api/petsitting/calendar", authed, h.Upsert)

	return router
}

func seedDay(t *testing.T, repo *memory.CalendarRepo, date string, available bool) {
	t.Helper()

	_, err := repo.Upsert(context.Background(), petcal.UpsertEntryRequest{Date: date, Available: available})

	if err != nil {
		t.Fatalf("seed %s: %v", date, err)
	}
}

func TestCalendarListMonthFilter(t *testing.T) {
	repo := memory.NewCalendarRepo()
	seedDay(t, repo, "2024-01-31", true)
	seedDay(t, repo, "2024-02-01", true)
	seedDay(t, repo, "2024-02-29", false) // leap day
	seedDay(t, repo, "2024-03-01", true)

	router := newCalendarRouter(repo, newPostsManager())

	rec := doJSON(router, http.MethodGet, "/api/petsitting/calendar?month=2&year=2024", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var entries []petcal.Entry

	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2 (Feb only, leap day included)", len(entries))
	}

	if entries[0].Date != "2024-02-01" || entries[1].Date != "2024-02-29" {
		t.Errorf("dates = %s, %s", entries[0].Date, entries[1].Date)
	}
}

func TestCalendarListUnfiltered(t *testing.T) {
	repo := memory.NewCalendarRepo()
	seedDay(t, repo, "2026-01-01", true)
	seedDay(t, repo, "2026-06-15", false)

	router := newCalendarRouter(repo, newPostsManager())

	rec := doJSON(router, http.MethodGet, "/api/petsitting/calendar", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var entries []petcal.Entry

	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(entries) != 2 {
		t.Errorf("len(entries) = %d, want every entry without filters", len(entries))
	}
}

func TestCalendarListParamValidation(t *testing.T) {
	router := newCalendarRouter(memory.NewCalendarRepo(), newPostsManager())

	cases := []struct {
		name   string
		target string
	}{
		{"month without year", "/api/petsitting/calendar?month=2"},
		{"year without month", "/api/petsitting/calendar?year=2024"},
		{"month not a number", "/api/petsitting/calendar?month=feb&year=2024"},
		{"year not a number", "/api/petsitting/calendar?month=2&year=twenty"},
		{"month out of range", "/api/petsitting/calendar?month=13&year=2024"},
		{"month zero", "/api/petsitting/calendar?month=0&year=2024"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(router, http.MethodGet, tc.target, "", nil)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestCalendarUpsertCreatesAndReplaces(t *testing.T) {
	repo := memory.NewCalendarRepo()
	manager := newPostsManager()
	router := newCalendarRouter(repo, manager)
	token := bearerToken(t, manager)

	first := doJSON(router, http.MethodPost, "/api/petsitting/calendar", token, map[string]interface{}{
		"date":      "2026-09-10",
		"available": true,
		"notes":     "mornings only",
	})

	if first.Code != http.StatusOK {
		t.Fatalf("create status = %d (body %s)", first.Code, first.Body.String())
	}

	// same date again: replacement, not a second entry
	second := doJSON(router, http.MethodPut, "/api/petsitting/calendar", token, map[string]interface{}{
		"date":      "2026-09-10",
		"available": false,
	})

	if second.Code != http.StatusOK {
		t.Fatalf("replace status = %d (body %s)", second.Code, second.Body.String())
	}

	if repo.Len() != 1 {
		t.Fatalf("entries = %d, want 1 after upserting the same date twice", repo.Len())
	}

	var resp struct {
		Success bool         `json:"success"`
		Entry   petcal.Entry `json:"entry"`
	}

	if err := json.Unmarshal(second.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if resp.Entry.Available {
		t.Error("second upsert should have flipped available to false")
	}

	if resp.Entry.Notes != "" {
		t.Errorf("notes = %q, replacement body had none", resp.Entry.Notes)
	}
}

func TestCalendarUpsertValidation(t *testing.T) {
	manager := newPostsManager()
	router := newCalendarRouter(memory.NewCalendarRepo(), manager)
	token := bearerToken(t, manager)

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing date", map[string]interface{}{"available": true}},
		{"bad date format", map[string]interface{}{"date": "10/09/2026", "available": true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(router, http.MethodPost, "/api/petsitting/calendar", token, tc.body)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestCalendarUpsertRequiresAuth(t *testing.T) {
	repo := memory.NewCalendarRepo()
	router := newCalendarRouter(repo, auth.NewManager("calendar-secret", time.Hour))

	rec := doJSON(router, http.MethodPost, "/api/petsitting/calendar", "", map[string]interface{}{
		"date":      "2026-09-10",
		"available": true,
	})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	if repo.Len() != 0 {
		t.Error("rejected upsert must not write")
	}
}
