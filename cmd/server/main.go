package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notenexus-backend/internal/config"
	"notenexus-backend/internal/database"
	"notenexus-backend/internal/handlers"
	"notenexus-backend/internal/middleware"
	"notenexus-backend/internal/ratelimit"
	"notenexus-backend/internal/repository"
	"notenexus-backend/internal/router"
	"notenexus-backend/internal/services"
	"notenexus-backend/internal/websocket"
)

func main() {
	log.Println("🚀 Starting NoteNexus Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	ctx := context.Background()

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL, int32(cfg.DatabaseMaxConns))
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(ctx, pool, os.DirFS("migrations")); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	summaryRepo := repository.NewSummaryRepo(pool)
	flashcardRepo := repository.NewFlashcardRepo(pool)
	quizRepo := repository.NewQuizRepo(pool)

	// ──── Step 5: Initialize AI Provider ────
	var generator services.TextGenerator
	if cfg.GeminiAPIKey != "" {
		gemini, err := services.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("✗ Gemini client initialization failed: %v", err)
		}
		defer gemini.Close()
		generator = gemini
		log.Printf("✓ Gemini client initialized (%s)", cfg.GeminiModel)
	} else {
		log.Println("⚠ GEMINI_API_KEY not set, using extractive summaries and fallback study material")
	}

	aiLimiter := ratelimit.NewWindow(cfg.AIRateWindow, cfg.AIRateMaxRequests)
	log.Printf("✓ AI rate limit: %d requests per %s", cfg.AIRateMaxRequests, cfg.AIRateWindow)

	// ──── Step 6: Initialize Video Source ────
	var videos services.VideoSource
	if cfg.YouTubeAPIKey != "" {
		dataAPI, err := services.NewDataAPISource(ctx, cfg.YouTubeAPIKey)
		if err != nil {
			log.Fatalf("✗ YouTube Data API client initialization failed: %v", err)
		}
		videos = dataAPI
		log.Println("✓ YouTube Data API source initialized")
	} else {
		videos = services.NewPlayerSource()
		log.Println("⚠ YOUTUBE_API_KEY not set, reading metadata from the player endpoint")
	}

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.FrontendURL)
	authService := services.NewAuthService(userRepo, redisClients.Tokens, jwtAuth, emailService, cfg.GoogleClientID)
	pdfService := services.NewPDFService()

	studyService := services.NewStudyService(
		services.NewTranscriptAcquirer(videos),
		services.NewSummarizer(generator, aiLimiter, cfg.AISummaryTimeout),
		services.NewFlashcardGenerator(generator, aiLimiter, cfg.AIFlashcardTimeout),
		services.NewQuizGenerator(generator, aiLimiter, cfg.AIQuizTimeout),
		summaryRepo,
		flashcardRepo,
		quizRepo,
		services.NewRedisPublisher(redisClients.PubSub),
	)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(userRepo)
	summaryHandler := handlers.NewSummaryHandler(studyService, summaryRepo)
	flashcardHandler := handlers.NewFlashcardHandler(studyService, flashcardRepo)
	quizHandler := handlers.NewQuizHandler(studyService, quizRepo)
	exportHandler := handlers.NewExportHandler(pdfService, summaryRepo, flashcardRepo, quizRepo)

	// ──── Step 7: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, jwtAuth, cfg.FrontendURL)
	log.Println("✓ WebSocket hub started")

	// ──── Step 8: Start HTTP Server ────
	authLimiter := middleware.NewRateLimiter(cfg.AuthRequestsPerMin, time.Minute)
	r := router.New(
		jwtAuth,
		authLimiter,
		authHandler,
		profileHandler,
		summaryHandler,
		flashcardHandler,
		quizHandler,
		exportHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// Study packs chain a transcript fetch with up to three AI calls.
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		wsHub.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("✗ Graceful shutdown failed: %v", err)
		}
	}()

	log.Printf("✓ NoteNexus Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
	<-done
}
