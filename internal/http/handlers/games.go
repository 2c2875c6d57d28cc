package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jujunior/juniorsworld/internal/bgg"
	"github.com/jujunior/juniorsworld/internal/config"
)

type CollectionFetcher interface {
	FetchCollection(ctx context.Context) (bgg.CollectionResult, error)
}

type GamesHandler struct {
	client CollectionFetcher
}

func NewGamesHandler(client CollectionFetcher) *GamesHandler {
	return &GamesHandler{client: client}
}

// GetCollection proxies the BoardGameGeek collection export. BGG answers
// 202 while it builds the export; that status is relayed as-is so the
// client knows to poll again.
func (h *GamesHandler) GetCollection(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(20 * time.Second)
	defer cancel()

	res, err := h.client.FetchCollection(cctx)

	if err != nil {
		if errors.Is(err, bgg.ErrNotConfigured) {
			RespondInternal(ctx, "Server configuration error: Missing Token")
			return
		}

		RespondInternal(ctx, "Internal Server Exception")
		return
	}

	switch {
	case res.Status == http.StatusAccepted:
		ctx.String(http.StatusAccepted, "Processing")
	case res.Status != http.StatusOK:
		RespondError(ctx, res.Status, "bgg_error", "BGG API Error", nil)
	default:
		ctx.Data(http.StatusOK, res.ContentType, res.Body)
	}
}
