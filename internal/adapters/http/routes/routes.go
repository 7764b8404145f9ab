package routes

import (
	"scouthub/internal/adapters/http/handlers"
	"scouthub/internal/adapters/http/middleware"
	"scouthub/internal/adapters/persistence/repositories"
	"scouthub/internal/adapters/storage"
	"scouthub/internal/config"
	"scouthub/internal/core/domain"
	"scouthub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, log *logrus.Logger) {
	// Initialize repositories
	unitRepo := repositories.NewUnitRepository(db)
	accountRepo := repositories.NewAccountRepository(db)
	requestRepo := repositories.NewRequestRepository(db)
	memberRepo := repositories.NewMemberRepository(db)
	mentorRepo := repositories.NewMentorRepository(db)

	// Object storage
	store := storage.NewS3Store(
		cfg.Storage.Endpoint,
		cfg.Storage.Region,
		cfg.Storage.Bucket,
		cfg.Storage.AccessKey,
		cfg.Storage.SecretKey,
		cfg.Storage.PublicBase,
	)

	// Initialize services
	scopeService := services.NewScopeService(unitRepo)
	authService := services.NewAuthService(accountRepo, cfg)
	accountService := services.NewAccountService(accountRepo, unitRepo, store, log)
	admissionService := services.NewAdmissionService(requestRepo, scopeService, store, log)
	memberService := services.NewMemberService(memberRepo, scopeService)
	mentorService := services.NewMentorService(mentorRepo, scopeService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	accountHandler := handlers.NewAccountHandler(accountService)
	requestHandler := handlers.NewRequestHandler(admissionService)
	memberHandler := handlers.NewMemberHandler(memberService)
	mentorHandler := handlers.NewMentorHandler(mentorService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Auth routes
	auth := apiV1.Group("/auth")
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)

	// Everything below requires a valid token
	protected := apiV1.Group("", middleware.AuthMiddleware(cfg))

	// Account provisioning routes
	accounts := protected.Group("/accounts")
	accounts.Post("", middleware.RoleMiddleware(domain.RoleBranch, domain.RoleSubBranch), accountHandler.Create)
	accounts.Get("", accountHandler.List)
	accounts.Patch("/:id", accountHandler.Update)
	accounts.Delete("/:id", accountHandler.Delete)

	// Membership request routes
	requests := protected.Group("/requests")
	requests.Post("", middleware.RoleMiddleware(domain.RoleTroop), requestHandler.Create)
	requests.Get("", requestHandler.List)
	requests.Get("/:id", requestHandler.GetByID)
	requests.Patch("/:id/status", middleware.RoleMiddleware(domain.RoleBranch), requestHandler.Decide)
	requests.Patch("/:id", middleware.RoleMiddleware(domain.RoleTroop), requestHandler.Update)
	requests.Delete("/:id", middleware.RoleMiddleware(domain.RoleTroop), requestHandler.Delete)

	// Member routes
	members := protected.Group("/members")
	members.Post("", middleware.RoleMiddleware(domain.RoleTroop), memberHandler.Create)
	members.Get("", memberHandler.List)
	members.Get("/:id", memberHandler.GetByID)
	members.Patch("/:id/level", middleware.RoleMiddleware(domain.RoleTroop), memberHandler.ChangeLevel)
	members.Patch("/:id", middleware.RoleMiddleware(domain.RoleTroop), memberHandler.Update)
	members.Delete("/:id", middleware.RoleMiddleware(domain.RoleTroop), memberHandler.Delete)

	// Mentor routes
	mentors := protected.Group("/mentors")
	mentors.Post("", middleware.RoleMiddleware(domain.RoleTroop), mentorHandler.Create)
	mentors.Get("", mentorHandler.List)
	mentors.Get("/:id", mentorHandler.GetByID)
	mentors.Delete("/:id", middleware.RoleMiddleware(domain.RoleTroop), mentorHandler.Delete)
}
