package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/ibercasa/ibercasa/config"
	"github.com/ibercasa/ibercasa/internal/api/handlers"
	"github.com/ibercasa/ibercasa/internal/api/middleware"
	"github.com/ibercasa/ibercasa/internal/api/routes"
	"github.com/ibercasa/ibercasa/internal/cache"
	"github.com/ibercasa/ibercasa/internal/logger"
	"github.com/ibercasa/ibercasa/internal/providers/llm"
	pgrepo "github.com/ibercasa/ibercasa/internal/repositories/postgres"
	"github.com/ibercasa/ibercasa/internal/services"
)

func main() {
	_ = godotenv.Load()

	lg := logger.New()

	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	if err := config.MigratePostgres(); err != nil {
		log.Fatalf("PostgreSQL migrate error: %v", err)
	}
	lg.Info("PostgreSQL connected")

	// Redis only backs the analytics cache; the server runs without it.
	var analyticsCache cache.Cache
	if err := config.InitRedis(); err != nil {
		lg.WithError(err).Warn("Redis unavailable, analytics cache disabled")
	} else {
		analyticsCache = cache.NewRedisCache(config.RedisClient)
		lg.Info("Redis connected")
	}

	provider, err := newProvider(context.Background())
	if err != nil {
		log.Fatalf("LLM provider init error: %v", err)
	}
	defer provider.Close()

	interactions := pgrepo.NewInteractionRepo(config.PostgresDB)
	queryLogs := pgrepo.NewQueryLogRepo(config.PostgresDB)
	preferences := pgrepo.NewPreferenceRepo(config.PostgresDB)

	recorder := services.NewTelemetryRecorder(interactions, queryLogs, preferences, lg)
	advice := services.NewAdviceService(provider, recorder)
	analytics := services.NewAnalyticsService(interactions, queryLogs, preferences, analyticsCache)
	auth := services.NewAuthService(services.AuthConfig{
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		JWTSecret:         jwtSecret(),
	})

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(lg))

	routes.RegisterRoutes(r, routes.Deps{
		Advice:    handlers.NewAdviceHandler(advice),
		Admin:     handlers.NewAdminHandler(auth, analytics),
		JWTSecret: jwtSecret(),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func newProvider(ctx context.Context) (llm.Provider, error) {
	switch os.Getenv("LLM_PROVIDER") {
	case "vertex":
		return llm.NewVertexGemini(ctx,
			os.Getenv("VERTEX_PROJECT_ID"),
			os.Getenv("VERTEX_LOCATION"),
			os.Getenv("VERTEX_MODEL"))
	default:
		return llm.NewOpenAI(os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_MODEL")), nil
	}
}

func jwtSecret() string {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return s
	}
	return "admin-jwt-secret-key-2024"
}
