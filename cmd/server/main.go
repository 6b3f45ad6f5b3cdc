package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/Rafajb7/NutricionistWebPage/internal/auth"
	"github.com/Rafajb7/NutricionistWebPage/internal/cache"
	"github.com/Rafajb7/NutricionistWebPage/internal/config"
	"github.com/Rafajb7/NutricionistWebPage/internal/database"
	"github.com/Rafajb7/NutricionistWebPage/internal/gsuite"
	"github.com/Rafajb7/NutricionistWebPage/internal/handlers"
	"github.com/Rafajb7/NutricionistWebPage/internal/middleware"
	"github.com/Rafajb7/NutricionistWebPage/internal/routes"
	"github.com/Rafajb7/NutricionistWebPage/internal/services"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	if cfg.IsProduction() && len(cfg.SessionSecret) < 16 {
		log.Fatal("SESSION_SECRET must be set (16+ chars) in production. Generate one with: openssl rand -base64 32")
	}

	// Cache: Redis when configured, in-memory otherwise
	var store cache.Cache
	if cfg.RedisURI != "" {
		log.Printf("Connecting to Redis...")
		if err := database.ConnectRedis(cfg.RedisURI); err != nil {
			log.Fatal("Failed to connect to Redis:", err)
		}
		defer database.DisconnectRedis()
		store = cache.NewRedisCache(database.RedisClient)
	} else {
		log.Println("REDIS_URI not set, using in-memory cache")
		store = cache.NewMemoryCache()
	}

	// Google Workspace clients (Sheets, Drive, Calendar)
	log.Printf("Initializing Google API clients...")
	gclient, err := gsuite.NewClient(context.Background(), cfg)
	if err != nil {
		log.Fatal("Failed to initialize Google API clients:", err)
	}
	log.Println("✅ Google API clients ready")

	tokens := auth.NewTokenIssuer(cfg.SessionSecret, time.Duration(cfg.SessionTTLHours)*time.Hour)
	resetTokens := auth.NewResetIssuer(cfg.SessionSecret, time.Duration(cfg.PasswordResetTTLMinutes)*time.Minute)

	mailer := services.NewEmailService(cfg)
	if !mailer.IsConfigured() {
		log.Println("⚠️  WARNING: SMTP not fully configured. Password reset mails will not be sent.")
	}

	handlers.Init(handlers.Deps{
		Config:       cfg,
		Cache:        store,
		Tokens:       tokens,
		ResetTokens:  resetTokens,
		Users:        services.NewUserService(gclient, cfg),
		Revisions:    services.NewRevisionService(gclient, cfg),
		Routines:     services.NewRoutineService(gclient, cfg),
		Catalog:      services.NewCatalogService(gclient, cfg),
		Achievements: services.NewAchievementService(gclient, cfg),
		Competitions: services.NewCompetitionService(gclient, cfg),
		Drive:        services.NewDriveService(gclient, cfg),
		Mailer:       mailer,
	})

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Admin-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.IsProduction() {
		r.Use(middleware.SecurityHeaders)
		r.Use(middleware.GlobalRateLimit)
		log.Println("✅ Production security enabled (security headers, per-IP rate limiting)")
	}

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r, tokens)

	log.Printf("🚀 Backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
