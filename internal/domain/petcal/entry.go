package petcal

import (
	"fmt"
	"time"
)

// Entry is one day of pet-sitting availability. Date is the natural key.
type Entry struct {
	Date      string    `json:"date"` // ISO day, YYYY-MM-DD
	Available bool      `json:"available"`
	Notes     string    `json:"notes"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UpsertEntryRequest struct {
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
	Available bool   `json:"available"`
	Notes     string `json:"notes" binding:"omitempty,max=2000"`
}

// MonthRange returns the first and last day of a month as ISO day strings,
// for inclusive range filtering. time.Date normalizes day 0 of the next
// month to the last day of this one, so leap years come out right.
func MonthRange(year, month int) (string, string, error) {
	if month < 1 || month > 12 {
		return "", "", fmt.Errorf("month %d out of range", month)
	}

	if year < 1 {
		return "", "", fmt.Errorf("year %d out of range", year)
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)

	return first.Format("2006-01-02"), last.Format("2006-01-02"), nil
}
