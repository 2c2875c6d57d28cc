package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jujunior/juniorsworld/internal/config"
	"github.com/jujunior/juniorsworld/internal/storage"
)

type MediaPresigner interface {
	Configured() bool
	PresignUpload(ctx context.Context, filename string) (storage.PresignedUpload, error)
}

type MediaHandler struct {
	media MediaPresigner
}

func NewMediaHandler(media MediaPresigner) *MediaHandler {
	return &MediaHandler{media: media}
}

type PresignRequest struct {
	Filename string `json:"filename" binding:"required,max=300"`
}

// Presign hands out a short-lived PUT URL for a travel image upload.
func (h *MediaHandler) Presign(ctx *gin.Context) {
	if h.media == nil || !h.media.Configured() {
		RespondError(ctx, http.StatusServiceUnavailable, "media_unconfigured", "Media storage not configured", nil)
		return
	}

	var req PresignRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	upload, err := h.media.PresignUpload(cctx, req.Filename)

	if err != nil {
		RespondInternal(ctx, "Could not create upload URL")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"upload":  upload,
	})
}
