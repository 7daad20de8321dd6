package api

import (
	"net/http"

	"github.com/arkandaru/simdoc/internal/engine"
	"github.com/arkandaru/simdoc/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// CreateCheck queues a similarity check for a document and waits for the
// pipeline to finish, matching the dashboard's synchronous contract.
func (h *Handler) CreateCheck(c *gin.Context) {
	var req models.CreateCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	ctx := c.Request.Context()

	doc, err := h.docsRepo.GetDocumentByID(ctx, req.DocID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load document",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if doc == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Document not found",
			Code:  "DOC_NOT_FOUND",
		})
		return
	}
	if !h.canAccessDocument(c, doc) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error: "Not your document",
			Code:  "FORBIDDEN",
		})
		return
	}
	if doc.Status != models.DocStatusDone {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Document text is not ready",
			Code:  "DOC_NOT_READY",
		})
		return
	}

	params, err := h.paramsRepo.GetActiveParams(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load active params",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if params == nil {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: "No active params configured",
			Code:  "NO_ACTIVE_PARAMS",
		})
		return
	}

	maxCand := req.MaxCandidates
	if maxCand <= 0 || maxCand > h.cfg.MaxCandidatesCap {
		maxCand = h.cfg.MaxCandidatesCap
	}
	if maxCand > engine.MaxCandidatesHard {
		maxCand = engine.MaxCandidatesHard
	}

	check := &models.Check{
		RequestedBy: c.GetInt64("uid"),
		DocID:       doc.ID,
		ParamsID:    params.ID,
		MaxCand:     maxCand,
	}
	if err := h.checksRepo.InsertCheck(ctx, check); err != nil {
		log.Error().Err(err).Msg("Failed to insert check")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to create check",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	if err := engine.UpdateStatus(ctx, h.redisClient, check.ID, models.StepQueued); err != nil {
		log.Warn().Err(err).Int64("checkID", check.ID).Msg("Failed to update queued status")
	}

	h.audit(c, "check.create", "check", check.ID)

	resultChan := make(chan engine.JobResult, 1)
	job := &engine.CheckJob{
		CheckID:    check.ID,
		Deps:       h.checkDeps,
		ResultChan: resultChan,
	}

	if err := h.workerPool.Submit(job); err != nil {
		log.Error().Err(err).Int64("checkID", check.ID).Msg("Failed to submit check job")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "Check queue unavailable",
			Code:  "QUEUE_UNAVAILABLE",
		})
		return
	}

	select {
	case <-ctx.Done():
		// Client went away; the job still runs to a terminal state.
		c.JSON(http.StatusRequestTimeout, ErrorResponse{
			Error: "Request cancelled",
			Code:  "REQUEST_TIMEOUT",
		})
		return
	case res := <-resultChan:
		if res.Err != nil {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error: res.Err.Error(),
				Code:  "CHECK_FAILED",
			})
			return
		}

		c.JSON(http.StatusOK, models.CreateCheckResponse{
			OK:              true,
			CheckID:         res.Outcome.CheckID,
			ResultID:        res.Outcome.ResultID,
			Similarity:      res.Outcome.Similarity,
			Threshold:       res.Outcome.Threshold,
			CandidatesCount: res.Outcome.CandidatesCount,
			MatchesInserted: res.Outcome.MatchesInserted,
		})
	}
}

func (h *Handler) ListChecks(c *gin.Context) {
	limit, offset := pageParams(c)
	ctx := c.Request.Context()

	var requester *int64
	if c.GetString("role") == models.RoleMahasiswa {
		uid := c.GetInt64("uid")
		requester = &uid
	}

	checks, total, err := h.checksRepo.ListChecks(ctx, requester, limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list checks")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to list checks",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	rows := make([]models.CheckListRow, 0, len(checks))
	for _, check := range checks {
		row := models.CheckListRow{
			IDCheck:    check.ID,
			Status:     check.Status,
			QueuedAt:   check.QueuedAt,
			StartedAt:  check.StartedAt,
			FinishedAt: check.FinishedAt,
			IDDoc:      check.DocID,
		}

		if doc, err := h.docsRepo.GetDocumentByID(ctx, check.DocID); err == nil && doc != nil {
			row.DocTitle = doc.Title
		}
		if result, err := h.resultsRepo.GetResultByCheckID(ctx, check.ID); err == nil && result != nil {
			row.IDResult = &result.ID
			row.Similarity = &result.Similarity
		}

		rows = append(rows, row)
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"rows":   rows,
	})
}

func (h *Handler) GetCheckDetail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	check, err := h.checksRepo.GetCheckByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load check",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if check == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Check not found",
			Code:  "NOT_FOUND",
		})
		return
	}

	role := c.GetString("role")
	if role == models.RoleMahasiswa && check.RequestedBy != c.GetInt64("uid") {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error: "Not your check",
			Code:  "FORBIDDEN",
		})
		return
	}

	resp := gin.H{"ok": true, "check": check}

	doc, err := h.docsRepo.GetDocumentByID(ctx, check.DocID)
	if err == nil && doc != nil {
		resp["doc_preview_text"] = previewText(doc.Text)
	}

	result, err := h.resultsRepo.GetResultByCheckID(ctx, check.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load result",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	resp["result"] = result

	if result != nil {
		matches, err := h.resultsRepo.GetMatchesByResultID(ctx, result.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "Failed to load matches",
				Code:  "INTERNAL_ERROR",
			})
			return
		}
		resp["matches"] = matches
	}

	c.JSON(http.StatusOK, resp)
}

// CancelCheck cancels a check that has not started processing yet.
func (h *Handler) CancelCheck(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	check, err := h.checksRepo.GetCheckByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load check",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if check == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Check not found",
			Code:  "NOT_FOUND",
		})
		return
	}
	if c.GetString("role") == models.RoleMahasiswa && check.RequestedBy != c.GetInt64("uid") {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error: "Not your check",
			Code:  "FORBIDDEN",
		})
		return
	}

	cancelled, err := h.checksRepo.CancelCheck(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to cancel check",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if !cancelled {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: "Check already started",
			Code:  "NOT_QUEUED",
		})
		return
	}

	if err := engine.UpdateStatus(ctx, h.redisClient, id, models.StepCancelled); err != nil {
		log.Warn().Err(err).Int64("checkID", id).Msg("Failed to update cancelled status")
	}

	h.audit(c, "check.cancel", "check", id)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
