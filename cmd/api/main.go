package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/timefly/timefly/internal/app"
	"github.com/timefly/timefly/internal/config"
	"github.com/timefly/timefly/internal/controller/httpapi"
	"github.com/timefly/timefly/internal/notify"
	"github.com/timefly/timefly/internal/repository"
	"github.com/timefly/timefly/internal/schedule"
	"github.com/timefly/timefly/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("failed to apply migrations", zap.Error(err))
	}
	if version, err := migrator.Version(ctx); err == nil {
		logger.Info("database migrated", zap.Int64("version", version))
	}
	migrator.Close()

	location := schedule.ClinicLocation(cfg.ClinicTimezone)

	// Redis is optional; without it the calendar is computed on every request.
	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := cache.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, calendar caching disabled", zap.Error(err))
			cache = nil
		}
	}

	doctorRepo := repository.NewDoctorRepository(pool)
	apptRepo := repository.NewAppointmentRepository(pool)
	overrideRepo := repository.NewOverrideRepository(pool)

	var email notify.EmailSender
	if cfg.SendGridAPIKey != "" {
		email = notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger)
	} else {
		email = notify.NewLogEmailSender(logger)
	}

	var sms notify.SMSSender
	if cfg.SMSGatewayURL != "" {
		sms = notify.NewGatewaySMSSender(notify.GatewayConfig{
			URL:    cfg.SMSGatewayURL,
			APIKey: cfg.SMSGatewayAPIKey,
			Sender: cfg.SMSSender,
		}, logger)
	} else {
		sms = notify.NewLogSMSSender(logger)
	}
	notifier := notify.NewNotifier(email, sms, logger)

	doctorService := service.NewDoctorService(doctorRepo, overrideRepo, logger)
	scheduleService := service.NewScheduleService(doctorRepo, apptRepo, overrideRepo, cache, location, logger)
	bookingService := service.NewBookingService(pool, doctorRepo, apptRepo, notifier, location, logger)
	queueService := service.NewQueueService(apptRepo, logger)

	reminders := app.NewReminderScheduler(apptRepo, notifier, location, logger)
	if err := reminders.Start(cfg.ReminderCron); err != nil {
		logger.Fatal("failed to start reminder scheduler", zap.Error(err))
	}
	defer reminders.Stop()

	router := httpapi.New(httpapi.Config{
		DoctorService:   doctorService,
		ScheduleService: scheduleService,
		BookingService:  bookingService,
		QueueService:    queueService,
		Logger:          logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
