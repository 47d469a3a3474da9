package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"DRIVING_ANALYSIS/go-backend/internal/alerts"
	"DRIVING_ANALYSIS/go-backend/internal/auth"
	"DRIVING_ANALYSIS/go-backend/internal/config"
	"DRIVING_ANALYSIS/go-backend/internal/database"
	"DRIVING_ANALYSIS/go-backend/internal/handlers"
	"DRIVING_ANALYSIS/go-backend/internal/services"
	"DRIVING_ANALYSIS/go-backend/internal/session"
	"DRIVING_ANALYSIS/go-backend/internal/storage"
)

func main() {
	httpPort := flag.String("http-port", "", "HTTP port (overrides HTTP_PORT)")
	aiAddr := flag.String("ai-addr", "", "analysis service address (overrides AI_SERVER_HOST/PORT)")
	flag.Parse()

	cfg := config.LoadConfig()
	if *httpPort != "" {
		cfg.HTTPPort = *httpPort
	}

	addr := cfg.AIServerAddr()
	if *aiAddr != "" {
		addr = *aiAddr
	}

	log.Println("Starting driving analysis backend...")
	log.Printf("HTTP port: %s", cfg.HTTPPort)
	log.Printf("Analysis service: %s", addr)
	log.Printf("Environment: %s", cfg.Environment)
	log.Printf("Database: %s", cfg.DSNForLog())

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	if err := database.Migrate(cfg.DSN()); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := database.Connect(connectCtx, cfg.DSN())
	cancel()
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer pool.Close()

	analysisClient, err := services.NewAnalysisClient(addr, cfg.AITimeout, cfg.AIMaxRetries, cfg.AIRetryBackoff)
	if err != nil {
		log.Fatalf("Analysis client setup failed: %v", err)
	}
	defer analysisClient.Close()

	userStore := storage.NewUserStore(pool)
	videoStore := storage.NewVideoStore(pool)
	resultStore := storage.NewAnalysisResultStore(pool)
	scoreStore := storage.NewUserScoreStore(pool)
	feedbackStore := storage.NewFeedbackStore(pool)
	challengeStore := storage.NewChallengeProgressStore(pool)

	hub := alerts.NewHub(cfg.AlertPingInterval, cfg.AlertSweepInterval, cfg.AlertIdleTimeout)
	hub.Start()

	tracker := session.NewTracker()
	metrics := services.NewMetrics()

	videoService := services.NewVideoService(
		analysisClient,
		hub,
		tracker,
		userStore,
		videoStore,
		resultStore,
		services.NewScoreService(resultStore, scoreStore),
		services.NewFeedbackService(feedbackStore),
		services.NewChallengeProgressUpdater(challengeStore),
		metrics,
	)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	authHandler := handlers.NewAuthHandler(userStore, tokens)
	frameGateway := handlers.NewFrameGateway(videoService, metrics, int64(cfg.MaxMessageSizeMB)*1024*1024)
	alertHandler := handlers.NewAlertHandler(hub)
	statusHandler := handlers.NewStatusHandler(metrics, hub, pool)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", frameGateway.HandleFrames)
	mux.HandleFunc("/ws/alerts", alertHandler.HandleAlerts)
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/health", statusHandler.HandleHealth)
	mux.HandleFunc("/api/metrics", authHandler.RequireAuth(statusHandler.HandleMetrics))

	httpServer := &http.Server{
		Addr:        ":" + cfg.HTTPPort,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on port %s", cfg.HTTPPort)
		log.Printf("Frame socket:  ws://localhost:%s/ws", cfg.HTTPPort)
		log.Printf("Alert socket:  ws://localhost:%s/ws/alerts", cfg.HTTPPort)
		log.Printf("REST API:      http://localhost:%s/api/*", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve HTTP: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	} else {
		log.Println("HTTP server gracefully stopped")
	}

	log.Println("Closing alert connections...")
	hub.Shutdown()
	log.Println("Goodbye!")
}
