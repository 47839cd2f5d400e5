package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	svix "github.com/svix/svix-webhooks/go"

	"github.com/myifeai/myifeai/internal/clients/groq"
	"github.com/myifeai/myifeai/internal/db"
	"github.com/myifeai/myifeai/internal/handlers"
	"github.com/myifeai/myifeai/internal/logger"
	"github.com/myifeai/myifeai/internal/middleware"
	"github.com/myifeai/myifeai/internal/repos"
	"github.com/myifeai/myifeai/internal/server"
	"github.com/myifeai/myifeai/internal/services"
	"github.com/myifeai/myifeai/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, relying on process environment")
	}
	log.Info("Loading environment variables from main...")
	jwksURL := utils.GetEnv("CLERK_JWKS_URL", "", log)
	authorizedParty := utils.GetEnv("CLERK_AUTHORIZED_PARTY", "", log)
	webhookSecret := utils.GetEnv("CLERK_WEBHOOK_SIGNING_SECRET", "", log)
	frontendOrigins := utils.GetEnv("FRONTEND_ORIGINS", "*", log)
	domainScoreStep := utils.GetEnvAsInt("DOMAIN_SCORE_STEP", 10, log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	profileRepo := repos.NewProfileRepo(thePG, log)
	domainScoreRepo := repos.NewDomainScoreRepo(thePG, log)
	taskLogRepo := repos.NewTaskLogRepo(thePG, log)

	// Clients
	log.Info("Setting up Clients from main...")
	groqClient, err := groq.NewClient(log)
	if err != nil {
		log.Error("Could not init GroqClient", "error", err)
		os.Exit(1)
	}
	webhookVerifier, err := svix.NewWebhook(webhookSecret)
	if err != nil {
		log.Error("Could not init webhook verifier", "error", err)
		os.Exit(1)
	}

	// Services
	log.Info("Setting up Services from main...")
	authService, err := services.NewAuthService(context.Background(), log, jwksURL, authorizedParty)
	if err != nil {
		log.Error("Could not init AuthService", "error", err)
		os.Exit(1)
	}
	planService := services.NewPlanService(log, domainScoreRepo, taskLogRepo, groqClient)
	progressService := services.NewProgressService(log, profileRepo, domainScoreRepo, taskLogRepo, domainScoreStep)
	userSyncService := services.NewUserSyncService(log, profileRepo, domainScoreRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	planHandler := handlers.NewPlanHandler(log, planService)
	profileHandler := handlers.NewProfileHandler(log, progressService)
	taskHandler := handlers.NewTaskHandler(log, progressService)
	webhookHandler := handlers.NewWebhookHandler(log, webhookVerifier, userSyncService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AllowedOrigins: strings.Split(frontendOrigins, ","),
		AuthMiddleware: authMiddleware,
		PlanHandler:    planHandler,
		ProfileHandler: profileHandler,
		TaskHandler:    taskHandler,
		WebhookHandler: webhookHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
