package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"   // loads an optional .env file
	"github.com/sirupsen/logrus" // structured logging

	"github.com/iliyamo/store-rating-platform/internal/config"
	"github.com/iliyamo/store-rating-platform/internal/database"
	"github.com/iliyamo/store-rating-platform/internal/handler"
	"github.com/iliyamo/store-rating-platform/internal/logging"
	"github.com/iliyamo/store-rating-platform/internal/middleware"
	"github.com/iliyamo/store-rating-platform/internal/queue"
	"github.com/iliyamo/store-rating-platform/internal/repository"
	"github.com/iliyamo/store-rating-platform/internal/router"
	"github.com/iliyamo/store-rating-platform/internal/service"
)

const usage = `usage: server [migrate [up|down]]

Without arguments the HTTP API is started.`

func main() {
	_ = godotenv.Load() // .env is optional; real environment wins

	if err := run(os.Args[1:]); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logging.Setup(cfg.LogLevel, cfg.IsProduction())

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if len(args) > 0 {
		return runCommand(db, args)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
	}

	// Repositories
	users := repository.NewUserRepo(db)
	stores := repository.NewStoreRepo(db)
	ratings := repository.NewRatingRepo(db)

	// Rating events are optional; without a broker the services skip them.
	var events service.EventPublisher
	if cfg.EventsEnabled() {
		pub := queue.NewPublisher(cfg.RabbitMQURL)
		defer pub.Close()
		events = pub
		go func() {
			if err := queue.StartConsumer(ctx, cfg.RabbitMQURL, cfg.RatingLogDir); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("rating consumer stopped")
			}
		}()
	} else {
		log.Info("RABBITMQ_URL not set; rating events disabled")
	}

	// Services
	authSvc := service.NewAuthService(service.AuthConfig{
		JWTSecret:  cfg.JWTSecret,
		TokenTTL:   cfg.JWTExpiresIn,
		BcryptCost: cfg.BcryptCost,
	}, users)
	userSvc := service.NewUserService(users, stores, ratings, cfg.BcryptCost)
	storeSvc := service.NewStoreService(db, stores, users, ratings, cfg.BcryptCost)
	ratingSvc := service.NewRatingService(ratings, stores, events)

	if cfg.BootstrapAdmin() {
		if _, err := authSvc.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminAddress); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	// Rate limiting of the auth endpoints (no-op without Redis)
	rlCfg, err := config.LoadRateLimitConfig()
	if err != nil {
		return fmt.Errorf("load rate limit config: %w", err)
	}
	redisCfg, err := config.LoadRedisConfig()
	if err != nil {
		return fmt.Errorf("load redis config: %w", err)
	}
	rdb := config.NewRedisClient(redisCfg)
	if rdb != nil {
		defer rdb.Close()
	}
	limiter := middleware.NewTokenBucket(rlCfg, rdb)

	// HTTP
	e := router.New(cfg, log)
	router.RegisterRoutes(e, handler.NewHealthHandler(db, cfg))
	router.RegisterAuth(e, handler.NewAuthHandler(authSvc), cfg.JWTSecret, limiter)
	router.RegisterAdmin(e, handler.NewAdminHandler(userSvc, storeSvc), cfg.JWTSecret)
	router.RegisterUser(e, handler.NewUserHandler(storeSvc, ratingSvc), cfg.JWTSecret)
	router.RegisterOwner(e, handler.NewOwnerHandler(storeSvc), cfg.JWTSecret)

	addr := ":" + cfg.Port
	errc := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// runCommand handles the one-shot subcommands.
func runCommand(db *sql.DB, args []string) error {
	ctx := context.Background()
	switch {
	case args[0] == "migrate" && (len(args) == 1 || args[1] == "up"):
		return database.Migrate(ctx, db)
	case args[0] == "migrate" && len(args) > 1 && args[1] == "down":
		return database.Rollback(ctx, db)
	}
	fmt.Fprintln(os.Stderr, usage)
	return fmt.Errorf("unknown command %q", args[0])
}
