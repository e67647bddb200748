package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/witherow/biostack/internal/api"
	"github.com/witherow/biostack/internal/db"
	"github.com/witherow/biostack/internal/security"
	"github.com/witherow/biostack/internal/services"
)

const secretKeyAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("could not load .env: %v", err)
	}

	location := mustLoadLocation(getEnv("TZ", "UTC"))
	time.Local = location

	secretKey := getEnv("SECRET_KEY", "")
	if secretKey == "" {
		generated, err := security.RandomString(48, secretKeyAlphabet)
		if err != nil {
			log.Fatalf("secret key generation failed: %v", err)
		}
		secretKey = generated
		log.Println("SECRET_KEY not set, generated an ephemeral key; sessions will not survive restarts")
	}

	dbPath := getEnv("DB_PATH", filepath.Join("data", "biostack.db"))
	port := getEnv("PORT", "8080")

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	repos := db.NewRepositories(database)

	engineTimeout := time.Duration(getEnvInt("ENGINE_TIMEOUT_SECONDS", 6)) * time.Second
	engineClient := services.NewEngineClient(
		getEnv("ENGINE_BASE_URL", ""),
		getEnv("ENGINE_SERVICE_KEY", ""),
		engineTimeout,
	)

	timingService := services.NewTimingService(repos.Rules, repos.LogEntries)
	localAnalyzer := services.NewLocalAnalyzer(repos.Rules, repos.Rules, timingService)
	analyzer := services.NewFallbackAnalyzer(engineClient, localAnalyzer, log.Default())

	handler := api.NewHandler(api.HandlerConfig{
		Repos:        repos,
		Auth:         services.NewAuthService(repos.Users),
		Analysis:     services.NewAnalysisService(analyzer, repos.LogEntries, location),
		Timeline:     services.NewTimelineService(repos.LogEntries, repos.Supplements, repos.Rules, repos.Rules),
		SecretKey:    []byte(secretKey),
		Location:     location,
		CookieSecure: getEnv("COOKIE_SECURE", "") == "true",
		Logger:       log.Default(),
	})

	app := fiber.New(fiber.Config{
		AppName:               "Biostack",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("Biostack listening on http://0.0.0.0:%s (db: %s, tz: %s, engine: %v)", port, dbPath, location.String(), engineClient.Configured())
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid %s %q, using %d", key, value, fallback)
		return fallback
	}
	return parsed
}
