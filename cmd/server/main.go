package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/abengl/fleet-management-api/internal/config"
	"github.com/abengl/fleet-management-api/internal/database"
	"github.com/abengl/fleet-management-api/internal/handler"
	"github.com/abengl/fleet-management-api/internal/logs"
	"github.com/abengl/fleet-management-api/internal/middleware"
	"github.com/abengl/fleet-management-api/internal/queue"
	"github.com/abengl/fleet-management-api/internal/repository"
	"github.com/abengl/fleet-management-api/internal/router"
	"github.com/abengl/fleet-management-api/internal/service"
	"github.com/abengl/fleet-management-api/internal/utils"
)

func main() {
	cfg := config.Load()
	log := logs.Init(logs.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	defer db.Close()

	// Redis is optional; a nil client turns the cache and rate limiter into pass-through.
	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}

	users := repository.NewUserRepo(db)
	roles := repository.NewRoleRepo(db)
	taxis := repository.NewTaxiRepo(db)
	trajectories := repository.NewTrajectoryRepo(db)

	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTTL())
	dialer := gomail.NewDialer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password)
	publisher := queue.NewPublisher(cfg.AMQPURL, cfg.ExportQueue)

	authSvc := service.NewAuthService(users, roles, tokens, cfg.BcryptCost, cfg.RequestTimeout, log)
	trajectorySvc := service.NewTrajectoryService(taxis, trajectories, cfg.RequestTimeout)
	emailSvc := service.NewEmailService(dialer, cfg.Mail.From, cfg.Mail.StaticAttachment, cfg.RequestTimeout, log)
	exportSvc := service.NewExportService(trajectorySvc, emailSvc, publisher, cfg.RequestTimeout, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := queue.NewConsumer(cfg.AMQPURL, cfg.ExportQueue, exportSvc.Deliver, log.WithField("component", "export-consumer"))
	go func() {
		if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("export consumer stopped")
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID, echomw.Recover(), middleware.RequestLogger(log))

	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(authSvc), tokens,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log))
	router.RegisterTrajectories(e, handler.NewTrajectoryHandler(trajectorySvc, exportSvc), tokens,
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb, log))
	router.RegisterEmails(e, handler.NewEmailHandler(emailSvc), tokens)

	addr := ":" + cfg.Port
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
	log.Info("stopped")
}
