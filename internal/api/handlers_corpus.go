package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/arkandaru/simdoc/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func (h *Handler) ListCorpus(c *gin.Context) {
	limit, offset := pageParams(c)

	items, total, err := h.corpusRepo.ListCorpus(c.Request.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list corpus")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to list corpus",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"rows":   items,
	})
}

func (h *Handler) GetCorpusItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	item, err := h.corpusRepo.GetCorpusItemByID(c.Request.Context(), id)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load corpus item")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load corpus item",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "corpus item not found",
			Code:  "NOT_FOUND",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":           true,
		"corpus":       item,
		"preview_text": previewText(item.Text),
	})
}

// UploadCorpus stores a new reference document and rebuilds the index so it
// starts participating as a candidate.
func (h *Handler) UploadCorpus(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "file is required",
			Code:  "INVALID_REQUEST",
		})
		return
	}
	title := c.PostForm("title")
	if title == "" {
		title = fileHeader.Filename
	}

	policy, err := h.policyRepo.GetPolicy(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load upload policy",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if fileHeader.Size > policy.MaxFileSize {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: fmt.Sprintf("file exceeds max size of %d bytes", policy.MaxFileSize),
			Code:  "FILE_TOO_LARGE",
		})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Failed to read file",
			Code:  "INVALID_REQUEST",
		})
		return
	}
	raw, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Failed to read file",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	item := &models.CorpusItem{
		Title:     title,
		SourceRef: fileHeader.Filename,
		IsActive:  1,
		Text:      string(raw),
	}

	if err := h.corpusRepo.InsertCorpusItem(c.Request.Context(), item); err != nil {
		log.Error().Err(err).Msg("Failed to insert corpus item")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to store corpus item",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	h.audit(c, "corpus.upload", "corpus", item.ID)
	h.indexMgr.RebuildAsync(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{"ok": true, "corpus": item})
}

func (h *Handler) PatchCorpus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var patch models.CorpusPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}
	if patch.IsActive != nil && *patch.IsActive != 0 && *patch.IsActive != 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "is_active must be 0 or 1",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	if err := h.corpusRepo.PatchCorpusItem(c.Request.Context(), id, &patch); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: err.Error(),
			Code:  "NOT_FOUND",
		})
		return
	}

	h.audit(c, "corpus.patch", "corpus", id)

	// Activity toggles change candidate membership.
	if patch.IsActive != nil {
		h.indexMgr.RebuildAsync(c.Request.Context())
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) DeleteCorpus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.corpusRepo.DeleteCorpusItem(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: err.Error(),
			Code:  "NOT_FOUND",
		})
		return
	}

	h.audit(c, "corpus.delete", "corpus", id)
	h.indexMgr.RebuildAsync(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "corpus item deleted"})
}
