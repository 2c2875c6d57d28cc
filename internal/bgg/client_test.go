package bgg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jujunior/juniorsworld/internal/cache"
)

func TestFetchCollectionRelaysStatuses(t *testing.T) {
	tests := []struct {
		name       string
		upstream   int
		body       string
		wantStatus int
		wantBody   string
	}{
		{name: "ready collection", upstream: http.StatusOK, body: "<items/>", wantStatus: http.StatusOK, wantBody: "<items/>"},
		{name: "still processing", upstream: http.StatusAccepted, wantStatus: http.StatusAccepted},
		{name: "upstream failure", upstream: http.StatusBadGateway, body: "nope", wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Authorization"); got != "Bearer bgg-secret" {
					t.Errorf("Authorization = %q", got)
				}

				if got := r.URL.Query().Get("username"); got != "jujunior" {
					t.Errorf("username = %q", got)
				}

				w.WriteHeader(tt.upstream)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient("jujunior", "bgg-secret", nil, time.Minute, nil).WithBaseURL(srv.URL)

			res, err := c.FetchCollection(context.Background())

			if err != nil {
				t.Fatalf("FetchCollection returned error: %v", err)
			}

			if res.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", res.Status, tt.wantStatus)
			}

			if tt.wantBody != "" && string(res.Body) != tt.wantBody {
				t.Errorf("Body = %q, want %q", res.Body, tt.wantBody)
			}
		})
	}
}

func TestFetchCollectionCachesReadyPayload(t *testing.T) {
	var calls int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte("<items/>"))
	}))
	defer srv.Close()

	c := NewClient("jujunior", "bgg-secret", cache.NewMemory(), time.Minute, nil).WithBaseURL(srv.URL)

	for i := 0; i < 3; i++ {
		res, err := c.FetchCollection(context.Background())

		if err != nil {
			t.Fatalf("FetchCollection returned error: %v", err)
		}

		if res.Status != http.StatusOK || string(res.Body) != "<items/>" {
			t.Fatalf("unexpected result: %d %q", res.Status, res.Body)
		}
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("upstream called %d times, want 1", got)
	}
}

func TestFetchCollectionDoesNotCacheProcessing(t *testing.T) {
	var calls int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		_, _ = w.Write([]byte("<items/>"))
	}))
	defer srv.Close()

	c := NewClient("jujunior", "bgg-secret", cache.NewMemory(), time.Minute, nil).WithBaseURL(srv.URL)

	res, err := c.FetchCollection(context.Background())

	if err != nil {
		t.Fatalf("FetchCollection returned error: %v", err)
	}

	if res.Status != http.StatusAccepted {
		t.Fatalf("first Status = %d, want 202", res.Status)
	}

	res, err = c.FetchCollection(context.Background())

	if err != nil {
		t.Fatalf("FetchCollection returned error: %v", err)
	}

	if res.Status != http.StatusOK {
		t.Errorf("second Status = %d, want 200", res.Status)
	}

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("upstream called %d times, want 2", got)
	}
}

func TestFetchCollectionWithoutToken(t *testing.T) {
	c := NewClient("jujunior", "", nil, time.Minute, nil)

	_, err := c.FetchCollection(context.Background())

	if err != ErrNotConfigured {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}
