package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jujunior/juniorsworld/internal/config"
	"github.com/jujunior/juniorsworld/internal/domain/petcal"
)

type CalendarStore interface {
	List(ctx context.Context, from, to string) ([]petcal.Entry, error)
	Upsert(ctx context.Context, req petcal.UpsertEntryRequest) (petcal.Entry, error)
}

type CalendarHandler struct {
	repo CalendarStore
}

func NewCalendarHandler(repo CalendarStore) *CalendarHandler {
	return &CalendarHandler{repo: repo}
}

// List returns availability entries, optionally narrowed to one month.
// month and year travel together; supplying only one is a client error.
func (h *CalendarHandler) List(ctx *gin.Context) {
	monthStr := ctx.Query("month")
	yearStr := ctx.Query("year")

	var from, to string

	if monthStr != "" || yearStr != "" {
		if monthStr == "" || yearStr == "" {
			RespondBadRequest(ctx, "month and year must be supplied together", nil)
			return
		}

		month, err := strconv.Atoi(monthStr)

		if err != nil {
			RespondBadRequest(ctx, "month must be a number", nil)
			return
		}

		year, err := strconv.Atoi(yearStr)

		if err != nil {
			RespondBadRequest(ctx, "year must be a number", nil)
			return
		}

		from, to, err = petcal.MonthRange(year, month)

		if err != nil {
			RespondBadRequest(ctx, err.Error(), nil)
			return
		}
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	entries, err := h.repo.List(cctx, from, to)

	if err != nil {
		RespondInternal(ctx, "Could not fetch calendar")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, entries)
}

// Upsert creates or replaces the entry for a date. POST and PUT behave
// identically; the date is the identity.
func (h *CalendarHandler) Upsert(ctx *gin.Context) {
	var req petcal.UpsertEntryRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	entry, err := h.repo.Upsert(cctx, req)

	if err != nil {
		RespondInternal(ctx, "Could not update calendar")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Calendar updated successfully",
		"entry":   entry,
	})
}
