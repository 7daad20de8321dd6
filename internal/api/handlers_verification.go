package api

import (
	"net/http"
	"strconv"

	"github.com/arkandaru/simdoc/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// GetVerificationResults serves the reviewer inbox: finished results joined
// with their check, document, requester and latest note. The join, filters
// and pagination all run inside Mongo.
func (h *Handler) GetVerificationResults(c *gin.Context) {
	limit, offset := pageParams(c)

	filter := models.VerificationListFilter{
		Limit:       limit,
		Offset:      offset,
		Status:      c.Query("status"),
		OnlyPending: c.Query("only_pending") == "1",
	}
	if v := c.Query("min_similarity"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinSimilarity = &f
		}
	}

	rows, total, err := h.verifRepo.ListVerificationRows(c.Request.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list verification rows")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to list results",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if rows == nil {
		rows = []*models.VerificationResultRow{}
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"rows":   rows,
	})
}

// ListVerificationNotes returns the full verdict history for a result,
// newest first.
func (h *Handler) ListVerificationNotes(c *gin.Context) {
	resultID, ok := pathID(c, "result_id")
	if !ok {
		return
	}

	result, err := h.resultsRepo.GetResultByID(c.Request.Context(), resultID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load result",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "result not found",
			Code:  "NOT_FOUND",
		})
		return
	}

	notes, err := h.verifRepo.ListNotesByResultID(c.Request.Context(), resultID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list verification notes")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to list verification notes",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if notes == nil {
		notes = []*models.VerificationNote{}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "rows": notes})
}

// UpsertVerificationNote appends a verdict for a result. Earlier notes stay
// in place; the latest one wins.
func (h *Handler) UpsertVerificationNote(c *gin.Context) {
	resultID, ok := pathID(c, "result_id")
	if !ok {
		return
	}

	var req models.UpsertNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_REQUEST",
		})
		return
	}

	result, err := h.resultsRepo.GetResultByID(c.Request.Context(), resultID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load result",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "result not found",
			Code:  "NOT_FOUND",
		})
		return
	}

	note := &models.VerificationNote{
		ResultID:   result.ID,
		VerifierID: c.GetInt64("uid"),
		Status:     req.Status,
		NoteText:   req.NoteText,
	}
	if err := h.verifRepo.InsertNote(c.Request.Context(), note); err != nil {
		log.Error().Err(err).Msg("Failed to insert verification note")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to save verification note",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	h.audit(c, "verification.note", "result", result.ID)
	c.JSON(http.StatusOK, gin.H{"ok": true, "note": note})
}
