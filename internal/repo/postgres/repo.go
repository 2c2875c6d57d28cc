package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jujunior/juniorsworld/internal/observability"
)

// observe wraps one store call with latency and error-class metrics when a
// collector is wired. ErrNoRows is a clean miss, not a failure.
func observe(prom *observability.Prom, op string, fn func() error) error {
	if prom == nil {
		return fn()
	}

	var opErr error

	_ = prom.ObserveDB(op, func() error {
		opErr = fn()

		if opErr == nil || errors.Is(opErr, pgx.ErrNoRows) {
			return nil
		}

		return opErr
	})

	return opErr
}
