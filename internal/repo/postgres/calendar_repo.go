package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jujunior/juniorsworld/internal/domain/petcal"
	"github.com/jujunior/juniorsworld/internal/observability"
)

type CalendarRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewCalendarRepo(pool *pgxpool.Pool, prom *observability.Prom) *CalendarRepo {
	return &CalendarRepo{
		pool: pool,
		prom: prom,
	}
}

// List returns availability entries, optionally constrained to an inclusive
// ISO-day range. Empty bounds mean no filter.
func (r *CalendarRepo) List(ctx context.Context, from, to string) ([]petcal.Entry, error) {
	query := `SELECT date, available, notes, updated_at FROM pet_calendar`
	var args []interface{}

	if from != "" && to != "" {
		query += ` WHERE date >= $1 AND date <= $2`
		args = append(args, from, to)
	}

	query += ` ORDER BY date ASC`

	output := make([]petcal.Entry, 0)

	err := observe(r.prom, "calendar.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var e petcal.Entry

			err = rows.Scan(&e.Date, &e.Available, &e.Notes, &e.UpdatedAt)

			if err != nil {
				return err
			}

			output = append(output, e)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

// Upsert keys on date: one entry per day, repeated writes converge.
func (r *CalendarRepo) Upsert(ctx context.Context, req petcal.UpsertEntryRequest) (petcal.Entry, error) {
	var e petcal.Entry

	err := observe(r.prom, "calendar.upsert", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO pet_calendar (date, available, notes, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (date) DO UPDATE
		 SET available = EXCLUDED.available,
		     notes = EXCLUDED.notes,
		     updated_at = EXCLUDED.updated_at
		 RETURNING date, available, notes, updated_at`,
			req.Date, req.Available, req.Notes, time.Now().UTC(),
		).Scan(&e.Date, &e.Available, &e.Notes, &e.UpdatedAt)
	})

	if err != nil {
		return petcal.Entry{}, err
	}

	return e, nil
}
