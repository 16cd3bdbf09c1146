package main

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/dmarku/eventdesk/internal/config"
	"github.com/dmarku/eventdesk/internal/database"
	"github.com/dmarku/eventdesk/internal/handler"
	"github.com/dmarku/eventdesk/internal/middleware"
	"github.com/dmarku/eventdesk/internal/model"
	"github.com/dmarku/eventdesk/internal/queue"
	"github.com/dmarku/eventdesk/internal/repository"
	"github.com/dmarku/eventdesk/internal/router"
	"github.com/dmarku/eventdesk/internal/status"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database connect failed")
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable; response cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	events := repository.NewEventRepo(db)
	registrations := repository.NewRegistrationRepo(db, events)
	announcements := repository.NewAnnouncementRepo(db)

	seedAdmin(cfg, users, log)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	browseH := handler.NewBrowseHandler(events, users)
	eventH := handler.NewEventHandler(events, users, registrations)
	regH := handler.NewRegistrationHandler(events, users, registrations, log)
	checkinH := handler.NewCheckInHandler(registrations)
	annH := handler.NewAnnouncementHandler(announcements, events)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	router.RegisterRoutes(e)
	router.RegisterPublic(e, browseH, annH, cache)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterOrganizer(e, eventH, checkinH, annH, cfg.JWTSecret)
	router.RegisterAttendee(e, regH, cfg.JWTSecret)

	// Background workers: status reconciliation keeps persisted
	// event statuses in step with the clock, the queue consumer
	// delivers registration confirmations.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go status.NewReconciler(events, log).Run(ctx, cfg.ReconcileInterval)
	go queue.StartRegistrationConsumer(log)

	addr := ":" + cfg.Port
	log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
	if err := e.Start(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

// seedAdmin creates the admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD when both are set and the account does not exist
// yet. Registration never hands out the ADMIN role, so this is the
// only way an admin comes into being.
func seedAdmin(cfg config.Config, users *repository.UserRepo, log *logrus.Logger) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := users.GetByEmail(ctx, cfg.AdminEmail); err == nil {
		return
	} else if err != sql.ErrNoRows {
		log.WithError(err).Warn("admin seed lookup failed")
		return
	}
	username := cfg.AdminEmail
	if at := strings.IndexByte(username, '@'); at > 0 {
		username = username[:at]
	}
	_, err := users.Create(ctx, model.User{
		Email:    cfg.AdminEmail,
		Username: username,
		Role:     model.RoleAdmin,
	}, cfg.AdminPassword, cfg.BcryptCost)
	if err != nil && err != repository.ErrUserExists {
		log.WithError(err).Warn("admin seed failed")
		return
	}
	log.WithField("email", cfg.AdminEmail).Info("admin account seeded")
}
