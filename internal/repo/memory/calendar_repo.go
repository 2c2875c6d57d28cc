package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jujunior/juniorsworld/internal/domain/petcal"
)

type CalendarRepo struct {
	mu    sync.RWMutex
	items map[string]petcal.Entry // keyed by ISO day
}

func NewCalendarRepo() *CalendarRepo {
	return &CalendarRepo{
		items: make(map[string]petcal.Entry),
	}
}

func (r *CalendarRepo) List(_ context.Context, from, to string) ([]petcal.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	output := make([]petcal.Entry, 0, len(r.items))

	for _, e := range r.items {
		if from != "" && to != "" {
			// ISO day strings order lexically
			if e.Date < from || e.Date > to {
				continue
			}
		}
		output = append(output, e)
	}

	sort.Slice(output, func(i, j int) bool {
		return output[i].Date < output[j].Date
	})

	return output, nil
}

func (r *CalendarRepo) Upsert(_ context.Context, req petcal.UpsertEntryRequest) (petcal.Entry, error) {
	e := petcal.Entry{
		Date:      req.Date,
		Available: req.Available,
		Notes:     req.Notes,
		UpdatedAt: time.Now().UTC(),
	}

	r.mu.Lock()
	r.items[e.Date] = e
	r.mu.Unlock()

	return e, nil
}

// Len reports the number of stored entries. Test helper.
func (r *CalendarRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}
