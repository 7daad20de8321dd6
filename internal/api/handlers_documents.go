package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/arkandaru/simdoc/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const previewRunes = 2000

func (h *Handler) ListDocuments(c *gin.Context) {
	limit, offset := pageParams(c)

	// Mahasiswa only see their own documents; dosen and admin see all.
	var owner *int64
	if c.GetString("role") == models.RoleMahasiswa {
		uid := c.GetInt64("uid")
		owner = &uid
	}

	docs, total, err := h.docsRepo.ListDocuments(c.Request.Context(), owner, limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list documents")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to list documents",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"rows":   docs,
	})
}

func (h *Handler) GetDocument(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	doc, err := h.docsRepo.GetDocumentByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load document",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Document not found",
			Code:  "NOT_FOUND",
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

	c.JSON(http.StatusOK, gin.H{
		"ok":           true,
		"document":     doc,
		"preview_text": previewText(doc.Text),
	})
}

func (h *Handler) UploadDocument(c *gin.Context) {
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

	mimeType := fileHeader.Header.Get("Content-Type")

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
	if !mimeAllowed(policy.AllowedMime, mimeType) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: fmt.Sprintf("mime type %s not allowed", mimeType),
			Code:  "MIME_NOT_ALLOWED",
		})
		return
	}

	doc := &models.Document{
		OwnerUserID: c.GetInt64("uid"),
		Title:       title,
		MimeType:    mimeType,
		SizeBytes:   fileHeader.Size,
		Status:      models.DocStatusQueued,
	}

	// Plain text needs no external extraction; everything else waits for the
	// extraction pipeline to publish its result on the stream.
	if strings.HasPrefix(mimeType, "text/plain") {
		f, err := fileHeader.Open()
		if err == nil {
			raw, readErr := io.ReadAll(f)
			f.Close()
			if readErr == nil {
				doc.Text = string(raw)
				doc.Status = models.DocStatusDone
			}
		}
	}

	if err := h.docsRepo.InsertDocument(c.Request.Context(), doc); err != nil {
		log.Error().Err(err).Msg("Failed to insert document")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to store document",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	rawPath := fmt.Sprintf("raw/doc_%d", doc.ID)
	if err := h.docsRepo.SetRawPath(c.Request.Context(), doc.ID, rawPath); err != nil {
		log.Warn().Err(err).Int64("docID", doc.ID).Msg("Failed to record raw path")
	}
	doc.PathRaw = &rawPath

	h.audit(c, "document.upload", "document", doc.ID)

	c.JSON(http.StatusOK, gin.H{"ok": true, "document": doc})
}

func (h *Handler) SubmitDocumentText(c *gin.Context) {
	var req models.SubmitTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	doc := &models.Document{
		OwnerUserID: c.GetInt64("uid"),
		Title:       req.Title,
		MimeType:    "text/plain",
		SizeBytes:   int64(len(req.Text)),
		Status:      models.DocStatusDone,
		Text:        req.Text,
	}

	if err := h.docsRepo.InsertDocument(c.Request.Context(), doc); err != nil {
		log.Error().Err(err).Msg("Failed to insert text document")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to store document",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	h.audit(c, "document.text_submit", "document", doc.ID)

	c.JSON(http.StatusOK, gin.H{"ok": true, "document": doc})
}

func (h *Handler) DeleteDocument(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	doc, err := h.docsRepo.GetDocumentByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load document",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Document not found",
			Code:  "NOT_FOUND",
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

	if err := h.docsRepo.DeleteDocument(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to delete document",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	h.audit(c, "document.delete", "document", id)

	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "document deleted"})
}

func (h *Handler) canAccessDocument(c *gin.Context, doc *models.Document) bool {
	role := c.GetString("role")
	if role == models.RoleAdmin || role == models.RoleDosen {
		return true
	}
	return doc.OwnerUserID == c.GetInt64("uid")
}

func mimeAllowed(allowed, mimeType string) bool {
	if mimeType == "" {
		return false
	}
	for _, m := range strings.Split(allowed, ",") {
		m = strings.TrimSpace(m)
		if m != "" && strings.HasPrefix(mimeType, m) {
			return true
		}
	}
	return false
}

func previewText(text string) string {
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return string(runes[:previewRunes])
}
