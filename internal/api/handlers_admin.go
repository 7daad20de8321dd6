package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/arkandaru/simdoc/internal/models"
	"github.com/arkandaru/simdoc/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) ListUsers(c *gin.Context) {
	limit, offset := pageParams(c)

	users, total, err := h.usersRepo.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to list users",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"rows":   users,
	})
}

// CreateUser provisions an account. Passwords are stored as bcrypt hashes
// only.
func (h *Handler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
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

	existing, err := h.usersRepo.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		log.Error().Err(err).Msg("Failed to look up email")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to create user",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: "email already registered",
			Code:  "EMAIL_TAKEN",
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to create user",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		IsActive:     1,
		NIM:          req.NIM,
		NIDN:         req.NIDN,
		Prodi:        req.Prodi,
		Angkatan:     req.Angkatan,
	}
	if err := h.usersRepo.InsertUser(c.Request.Context(), user); err != nil {
		log.Error().Err(err).Msg("Failed to insert user")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to create user",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	h.audit(c, "user.create", "user", user.ID)
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}

func (h *Handler) PatchUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var patch models.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}
	if patch.Role != nil {
		switch *patch.Role {
		case models.RoleAdmin, models.RoleDosen, models.RoleMahasiswa:
		default:
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "unknown role: " + *patch.Role,
				Code:  "INVALID_REQUEST",
			})
			return
		}
	}
	if patch.IsActive != nil && *patch.IsActive != 0 && *patch.IsActive != 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "is_active must be 0 or 1",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	if err := h.usersRepo.PatchUser(c.Request.Context(), id, &patch); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: err.Error(),
			Code:  "NOT_FOUND",
		})
		return
	}

	h.audit(c, "user.patch", "user", id)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) GetPolicy(c *gin.Context) {
	policy, err := h.policyRepo.GetPolicy(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load policy",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "policy": policy})
}

func (h *Handler) UpdatePolicy(c *gin.Context) {
	var update models.PolicyUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}
	if update.MaxFileSize != nil && *update.MaxFileSize <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "max_file_size must be positive",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	policy, err := h.policyRepo.UpdatePolicy(c.Request.Context(), &update)
	if err != nil {
		log.Error().Err(err).Msg("Failed to update policy")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to update policy",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	h.audit(c, "policy.update", "policy", policy.ID)
	c.JSON(http.StatusOK, gin.H{"ok": true, "policy": policy})
}

func (h *Handler) ListParams(c *gin.Context) {
	activeOnly := c.Query("active") == "1"

	rows, err := h.paramsRepo.ListParams(c.Request.Context(), activeOnly)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list params")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to list params",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "rows": rows})
}

// CreateParams inserts a new params row. With activate=true the new row also
// becomes the active configuration and the corpus index is rebuilt under it.
func (h *Handler) CreateParams(c *gin.Context) {
	var req models.CreateParamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	p := &models.Params{
		K:         req.K,
		W:         req.W,
		Base:      req.Base,
		Threshold: req.Threshold,
	}
	if err := h.paramsRepo.InsertParams(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_PARAMS",
		})
		return
	}

	h.audit(c, "params.create", "params", p.ID)

	if req.Activate {
		activated, err := h.paramsRepo.ActivateParams(c.Request.Context(), p.ID)
		if err != nil {
			h.respondActivationError(c, err)
			return
		}
		p = activated
		h.audit(c, "params.activate", "params", p.ID)
		h.indexMgr.RebuildAsync(c.Request.Context())
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "params": p})
}

func (h *Handler) ActivateParams(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	p, err := h.paramsRepo.ActivateParams(c.Request.Context(), id)
	if err != nil {
		h.respondActivationError(c, err)
		return
	}

	h.audit(c, "params.activate", "params", p.ID)
	h.indexMgr.RebuildAsync(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{"ok": true, "params": p})
}

func (h *Handler) respondActivationError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrActivationConflict) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: "Concurrent params activation detected, retry",
			Code:  "ACTIVATION_CONFLICT",
		})
		return
	}
	log.Error().Err(err).Msg("Failed to activate params")
	c.JSON(http.StatusNotFound, ErrorResponse{
		Error: err.Error(),
		Code:  "NOT_FOUND",
	})
}

func (h *Handler) GetAudit(c *gin.Context) {
	limit, offset := pageParams(c)

	filter := &models.AuditFilter{
		Query:  c.Query("q"),
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		Limit:  limit,
		Offset: offset,
	}
	if v := c.Query("user_id"); v != "" {
		if uid, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.UserID = &uid
		}
	}
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.From = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.To = &t
		}
	}

	logs, total, err := h.auditRepo.ListLogs(c.Request.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list audit logs")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to list audit logs",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	// Resolve actor profiles for display.
	userCache := make(map[int64]*models.User)
	for _, entry := range logs {
		if entry.UserID == nil {
			continue
		}
		u, cached := userCache[*entry.UserID]
		if !cached {
			u, _ = h.usersRepo.GetUserByID(c.Request.Context(), *entry.UserID)
			userCache[*entry.UserID] = u
		}
		if u != nil {
			entry.UserName = &u.Name
			entry.UserEmail = &u.Email
			entry.UserRole = &u.Role
		}
	}

	actions, err := h.auditRepo.DistinctActions(c.Request.Context())
	if err != nil {
		actions = nil
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
		"rows":    logs,
		"actions": actions,
	})
}
