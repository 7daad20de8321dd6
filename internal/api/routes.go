package api

import (
	"github.com/arkandaru/simdoc/internal/config"
	"github.com/arkandaru/simdoc/internal/engine"
	"github.com/arkandaru/simdoc/internal/infra/redis"
	"github.com/arkandaru/simdoc/internal/models"
	"github.com/arkandaru/simdoc/internal/repository"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
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
) *gin.Engine {
	router := gin.Default()

	// Create handler
	handler := NewHandler(
		cfg,
		usersRepo,
		docsRepo,
		corpusRepo,
		paramsRepo,
		checksRepo,
		resultsRepo,
		verifRepo,
		policyRepo,
		auditRepo,
		indexMgr,
		workerPool,
		redisClient,
	)

	// Create rate limiter
	rateLimiter := NewRateLimiter(cfg.RateLimitRPS, int(cfg.RateLimitRPS*2))

	// Middleware
	router.Use(ErrorHandlerMiddleware())
	router.Use(MetricsMiddleware())

	// Health endpoint (no auth)
	router.GET("/health", handler.Health)

	// Login is the only unauthenticated API route
	router.POST("/api/auth/login", handler.Login)

	// API routes (with auth and rate limiting)
	api := router.Group("/api")
	api.Use(JWTAuthMiddleware(cfg.JWTSecret))
	api.Use(RateLimitMiddleware(rateLimiter))
	{
		api.POST("/auth/logout", handler.Logout)
		api.GET("/auth/profile", handler.Profile)

		api.GET("/documents", handler.ListDocuments)
		api.GET("/documents/:id", handler.GetDocument)
		api.POST("/documents/upload", handler.UploadDocument)
		api.POST("/documents/text", handler.SubmitDocumentText)
		api.DELETE("/documents/:id", handler.DeleteDocument)

		api.POST("/checks", handler.CreateCheck)
		api.GET("/checks", handler.ListChecks)
		api.GET("/checks/:id", handler.GetCheckDetail)
		api.POST("/checks/:id/cancel", handler.CancelCheck)

		staff := api.Group("")
		staff.Use(RequireRoles(models.RoleAdmin, models.RoleDosen))
		{
			staff.GET("/corpus", handler.ListCorpus)
			staff.GET("/corpus/:id", handler.GetCorpusItem)
			staff.POST("/corpus/upload", handler.UploadCorpus)
		}

		// Corpus mutations stay under /api/corpus but are admin-only
		api.PATCH("/corpus/:id", RequireRoles(models.RoleAdmin), handler.PatchCorpus)
		api.DELETE("/corpus/:id", RequireRoles(models.RoleAdmin), handler.DeleteCorpus)

		dosen := api.Group("/verification")
		dosen.Use(RequireRoles(models.RoleDosen, models.RoleAdmin))
		{
			dosen.GET("/results", handler.GetVerificationResults)
			dosen.GET("/results/:result_id/notes", handler.ListVerificationNotes)
			dosen.POST("/:result_id", handler.UpsertVerificationNote)
		}

		admin := api.Group("/admin")
		admin.Use(RequireRoles(models.RoleAdmin))
		{
			admin.GET("/users", handler.ListUsers)
			admin.POST("/users", handler.CreateUser)
			admin.PATCH("/users/:id", handler.PatchUser)

			admin.GET("/params", handler.ListParams)
			admin.POST("/params", handler.CreateParams)
			admin.PATCH("/params/:id/activate", handler.ActivateParams)

			admin.GET("/policy", handler.GetPolicy)
			admin.PUT("/policy", handler.UpdatePolicy)

			admin.GET("/audit", handler.GetAudit)
		}
	}

	return router
}
