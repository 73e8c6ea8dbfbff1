package main

import (
	"alcyxob/form-check/internal/api"
	"alcyxob/form-check/internal/config"
	"alcyxob/form-check/internal/llm"
	"alcyxob/form-check/internal/service"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// @title Form Check API
// @version 0.1.0
// @description Backend service for analyzing weightlifting form from biomechanics data.
// @BasePath /
func main() {
	log.Println("Starting Form Check API Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("FATAL: Invalid configuration: %v", err)
	}
	log.Printf("Configuration loaded (environment: %s, output format: %s).", cfg.Server.Environment, cfg.Analysis.OutputFormat)

	// --- Model Client ---
	// Built once and shared by all requests.
	log.Println("Initializing model client...")
	modelClient, err := llm.NewAnthropicClient(&http.Client{Timeout: cfg.Anthropic.Timeout}, cfg.Anthropic)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize model client: %v", err)
	}

	// --- Initialize Services ---
	log.Println("Initializing services...")
	analysisService := service.NewAnalysisService(modelClient, cfg.Analysis.OutputFormat == config.OutputJSON)

	// --- Initialize Gin Engine ---
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, api.RouterOptions{
		AllowedOrigins: cfg.CORS.Origins(),
		Production:     cfg.IsProduction(),
	}, analysisService)

	// --- Start HTTP Server ---
	// No WriteTimeout: a request lasts as long as the model call.
	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
