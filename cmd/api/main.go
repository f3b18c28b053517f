package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/plantpoints/plant-points/internal/adapters/cache"
	adapterHTTP "github.com/plantpoints/plant-points/internal/adapters/handler/http"
	"github.com/plantpoints/plant-points/internal/adapters/repository"
	"github.com/plantpoints/plant-points/internal/core/domain"
	"github.com/plantpoints/plant-points/internal/core/services"
	"github.com/plantpoints/plant-points/internal/core/workers"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	startTime := time.Now()

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	serverPort := getEnv("PORT", "8080")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Critical: JWT_SECRET must be set")
	}

	weeklyGoal := domain.DefaultWeeklyGoal
	if raw := os.Getenv("WEEKLY_GOAL"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			log.Fatalf("Critical: invalid WEEKLY_GOAL %q", raw)
		}
		weeklyGoal = parsed
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	rdb, err := cache.NewRedisClient(
		getEnv("REDIS_HOST", "localhost"),
		getEnv("REDIS_PORT", "6379"),
		os.Getenv("REDIS_PASSWORD"),
		0,
	)
	if err != nil {
		log.Printf("Redis unavailable, running without cache and rate limiting: %v", err)
		rdb = nil
	} else {
		defer rdb.Close()
	}

	var plantRepo domain.PlantRepository = repository.NewPostgresPlantRepository(db)
	if rdb != nil {
		plantRepo = repository.NewCachedPlantRepository(plantRepo, rdb)
	}

	userRepo := repository.NewPostgresUserRepository(db)
	logRepo := repository.NewPostgresPlantLogRepository(db)
	mealRepo := repository.NewPostgresMealRepository(db)
	streakRepo := repository.NewPostgresStreakRepository(db)

	snapshotWorker := workers.NewSnapshotWorker(logRepo, streakRepo, weeklyGoal)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	snapshotWorker.Start(workerCtx)

	authService := services.NewAuthService(userRepo)
	tokenService := services.NewTokenService(jwtSecret, getEnv("JWT_ISSUER", "plant-points"), 24*time.Hour, userRepo)
	plantService := services.NewPlantService(plantRepo)
	mealService := services.NewMealService(mealRepo)
	progressService := services.NewProgressService(logRepo, plantRepo, mealRepo, snapshotWorker)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:     adapterHTTP.NewAuthHandler(authService, tokenService),
		PlantHandler:    adapterHTTP.NewPlantHandler(plantService),
		ProgressHandler: adapterHTTP.NewProgressHandler(progressService),
		MealHandler:     adapterHTTP.NewMealHandler(mealService, progressService),
		TokenService:    tokenService,
		DB:              db,
		Redis:           rdb,
		StartTime:       startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Plant Points API running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	stopWorker()

	log.Println("Server stopped gracefully.")
}
