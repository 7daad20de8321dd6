package api

import (
	"net/http"
	"strconv"

	"github.com/arkandaru/simdoc/internal/config"
	"github.com/arkandaru/simdoc/internal/engine"
	"github.com/arkandaru/simdoc/internal/infra/redis"
	"github.com/arkandaru/simdoc/internal/models"
	"github.com/arkandaru/simdoc/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler holds dependencies for handlers
type Handler struct {
	cfg         *config.Config
	usersRepo   *repository.UsersRepository
	docsRepo    *repository.DocumentsRepository
	corpusRepo  *repository.CorpusRepository
	paramsRepo  *repository.ParamsRepository
	checksRepo  *repository.ChecksRepository
	resultsRepo *repository.ResultsRepository
	verifRepo   *repository.VerificationRepository
	policyRepo  *repository.PolicyRepository
	auditRepo   *repository.AuditRepository
	indexMgr    *engine.IndexManager
	workerPool  *engine.WorkerPool
	redisClient *redis.Client
	checkDeps   *engine.Deps
}

// NewHandler creates a new handler
func NewHandler(
	cfg *config.Config,
	usersRepo *repository.UsersRepository,
	docsRepo *repository.DocumentsRepository,
	corpusRepo *repository.CorpusRepository,
	paramsRepo *repository.ParamsRepository,
	checksRepo *repository.ChecksRepository,
	resultsRepo *repository.ResultsRepository,
	verifRepo *repository.VerificationRepository,
	policyRepo *repository.PolicyRepository,
	auditRepo *repository.AuditRepository,
	indexMgr *engine.IndexManager,
	workerPool *engine.WorkerPool,
	redisClient *redis.Client,
) *Handler {
	return &Handler{
		cfg:         cfg,
		usersRepo:   usersRepo,
		docsRepo:    docsRepo,
		corpusRepo:  corpusRepo,
		paramsRepo:  paramsRepo,
		checksRepo:  checksRepo,
		resultsRepo: resultsRepo,
		verifRepo:   verifRepo,
		policyRepo:  policyRepo,
		auditRepo:   auditRepo,
		indexMgr:    indexMgr,
		workerPool:  workerPool,
		redisClient: redisClient,
		checkDeps: &engine.Deps{
			DocsRepo:    docsRepo,
			ChecksRepo:  checksRepo,
			ResultsRepo: resultsRepo,
			Index:       indexMgr,
			Redis:       redisClient,
			Aggregator:  engine.NewAggregator(cfg.Aggregation),
			Gate:        cfg.ThresholdGate,
			Timeout:     cfg.CheckTimeout,
		},
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// pageParams reads limit/offset query values with dashboard defaults.
func pageParams(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.Query("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid id",
			Code:  "INVALID_REQUEST",
		})
		return 0, false
	}
	return id, true
}

// audit records a mutating action; failures are logged, never surfaced.
func (h *Handler) audit(c *gin.Context, action, entity string, entityID int64) {
	uid := c.GetInt64("uid")
	ip := c.ClientIP()

	entry := &models.AuditLog{
		Action: action,
		Entity: &entity,
		IPAddr: &ip,
	}
	if uid != 0 {
		entry.UserID = &uid
	}
	if entityID != 0 {
		entry.EntityID = &entityID
	}

	if err := h.auditRepo.InsertLog(c.Request.Context(), entry); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("Failed to write audit log")
	}
}
