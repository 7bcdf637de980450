package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/rogerio-castellano/medicine-tracker/internal/auth"
	"github.com/rogerio-castellano/medicine-tracker/internal/config"
	"github.com/rogerio-castellano/medicine-tracker/internal/db"
	"github.com/rogerio-castellano/medicine-tracker/internal/http/ban"
	"github.com/rogerio-castellano/medicine-tracker/internal/http/handlers"
	rl "github.com/rogerio-castellano/medicine-tracker/internal/http/rate_limiter"
	"github.com/rogerio-castellano/medicine-tracker/internal/http/router"
	"github.com/rogerio-castellano/medicine-tracker/internal/models"
	"github.com/rogerio-castellano/medicine-tracker/internal/redissvc"
	"github.com/rogerio-castellano/medicine-tracker/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

// @title Medicine Tracker API
// @version 1.0
// @description REST API for managing a medicine inventory identified by QR codes.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Could not load configuration:", err)
	}

	auth.SetSecret(cfg.JWTSecret)
	rl.Configure(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)
	ban.Configure(cfg.Ban.MaxStrikes, time.Duration(cfg.Ban.DurationMinutes)*time.Minute)

	go rl.StartVisitorCleanupLoop()

	if cfg.RedisAddr != "" {
		redisService := redissvc.Dial(context.Background(), cfg.RedisAddr)
		if err := redisService.Ping(); err != nil {
			log.Printf("⚠️ Redis unavailable at %s, bans disabled: %v", cfg.RedisAddr, err)
			_ = redisService.Close()
		} else {
			defer redisService.Close()
			ban.SetRedisService(redisService)
			go ban.StartDailyBanSummary(24 * time.Hour)
		}
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Could not connect to database:", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		log.Fatal("❌ Could not migrate database:", err)
	}

	medicines := repo.NewPostgresMedicineRepository(database)
	users := repo.NewPostgresUserRepository(database)
	backend := repo.NewPostgresTrigramBackend(database)

	handlers.SetMedicineRepo(medicines)
	handlers.SetScanLogRepo(repo.NewPostgresScanLogRepository(database))
	handlers.SetSimilarityBackend(backend)
	handlers.SetUserRepo(users)
	handlers.SetMetricsRepo(repo.NewPostgresMetricsRepository(database))

	if err := bootstrapAdmin(users, cfg.Admin); err != nil {
		log.Fatal("❌ Could not create admin user:", err)
	}

	r := router.NewRouter()
	log.Printf("✅ Server running on %s", cfg.Addr())
	if err := http.ListenAndServe(cfg.Addr(), r); err != nil {
		log.Fatal(err)
	}
}

func bootstrapAdmin(users repo.UserRepository, admin config.AdminConfig) error {
	if admin.Username == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := users.GetByUsername(ctx, admin.Username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repo.ErrUserNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = users.CreateUser(ctx, models.User{
		Username:     admin.Username,
		PasswordHash: string(hashed),
		Role:         "admin",
	})
	if err != nil {
		return err
	}
	log.Printf("👤 Admin user '%s' created", admin.Username)
	return nil
}
