// Package main is the entry point for the rezerve background worker.
// It delivers outbox notifications, serves inbound bot commands,
// archives monthly reports and sweeps expired state.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"rezerve/internal/domain/audit"
	"rezerve/internal/domain/auth"
	"rezerve/internal/domain/catalogs/branch"
	"rezerve/internal/domain/catalogs/customer"
	"rezerve/internal/domain/catalogs/staff"
	"rezerve/internal/domain/reports"
	"rezerve/internal/domain/reservation"
	"rezerve/internal/infrastructure/archive"
	"rezerve/internal/infrastructure/notify"
	"rezerve/internal/infrastructure/storage/postgres"
	"rezerve/internal/infrastructure/storage/postgres/auth_repo"
	"rezerve/internal/infrastructure/storage/postgres/catalog_repo"
	"rezerve/internal/infrastructure/storage/postgres/report_repo"
	"rezerve/internal/infrastructure/storage/postgres/reservation_repo"
	"rezerve/pkg/logger"
)

const (
	outboxPollInterval = time.Second
	outboxBatchSize    = 50
	sweepInterval      = time.Hour
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("starting rezerve worker")

	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	poolCfg.MaxConns = 10

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	w, err := buildWorker(pool)
	if err != nil {
		log.Fatalw("failed to build worker", "error", err)
	}

	// Token lives in settings so operators can rotate it at runtime.
	if token, err := w.auth.GetSetting(ctx, auth.SettingBotToken); err != nil {
		log.Warnw("failed to load bot token", "error", err)
	} else if token != "" {
		w.telegram.SetToken(token)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		w.runRelay(ctx, log)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		w.bot.Run(ctx)
	}()

	// First morning of each month, archive the month that just ended.
	scheduler := cron.New()
	_, err = scheduler.AddFunc("0 6 1 * *", func() {
		archived, err := w.archiver.ArchivePreviousMonth(ctx, time.Now())
		if err != nil {
			log.Errorw("monthly archive failed", "error", err)
			return
		}
		log.Infow("monthly archive complete", "branches", archived)
	})
	if err != nil {
		log.Fatalw("failed to schedule archiver", "error", err)
	}
	scheduler.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()
	<-scheduler.Stop().Done()
	wg.Wait()
	log.Info("worker stopped")
}

type worker struct {
	relay    *postgres.OutboxRelay
	bot      *notify.BotPoller
	telegram *notify.TelegramClient
	archiver *archive.Archiver
	auth     *auth.Service
}

func buildWorker(pool *postgres.Pool) (*worker, error) {
	txManager := postgres.NewTxManager(pool)

	auditStore, err := postgres.NewAuditStore(txManager)
	if err != nil {
		return nil, err
	}
	auditSvc := audit.NewService(auditStore)
	outbox := postgres.NewOutboxPublisher(txManager)

	branchRepo := catalog_repo.NewBranchRepo(txManager)
	staffRepo := catalog_repo.NewStaffRepo(txManager)
	customerRepo := catalog_repo.NewCustomerRepo(txManager)
	reservationRepo := reservation_repo.NewRepo(txManager)

	branchSvc := branch.NewService(branchRepo, txManager, reservationRepo, staffRepo, auditSvc)
	staffSvc := staff.NewService(staffRepo, txManager, branchRepo, reservationRepo)
	customerSvc := customer.NewService(customerRepo, txManager, reservationRepo, auditSvc)
	reservationSvc := reservation.NewService(
		reservationRepo, customerSvc, branchSvc, staffSvc,
		txManager, auditSvc, notify.NewOutboxEventPublisher(outbox),
	)
	reportsSvc := reports.NewService(
		report_repo.NewReportRepo(txManager), branchSvc, staffSvc, customerSvc)

	jwtSvc := auth.NewJWTService(auth.DefaultJWTConfig(mustEnv("JWT_SECRET")))
	authSvc := auth.NewService(
		auth_repo.NewUserRepo(txManager),
		auth_repo.NewRoleRepo(txManager),
		auth_repo.NewTokenRepo(txManager),
		auth_repo.NewSettingsRepo(txManager),
		jwtSvc,
		txManager,
	)

	archiver, err := archive.New(getEnv("ARCHIVE_DIR", "./archives"), branchSvc, reportsSvc, auditSvc)
	if err != nil {
		return nil, err
	}

	telegram := notify.NewTelegramClient("")

	return &worker{
		relay:    postgres.NewOutboxRelay(pool.Unwrap(), outboxBatchSize, notify.NewTelegramHandler(telegram)),
		bot:      notify.NewBotPoller(telegram, branchSvc, reservationSvc),
		telegram: telegram,
		archiver: archiver,
		auth:     authSvc,
	}, nil
}

// runRelay drains the outbox and runs the hourly sweeps.
func (w *worker) runRelay(ctx context.Context, log *logger.Logger) {
	ticker := time.NewTicker(outboxPollInterval)
	defer ticker.Stop()

	sweep := time.NewTicker(sweepInterval)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			delivered, err := w.relay.ProcessBatch(ctx)
			if err != nil {
				log.Errorw("outbox batch failed", "error", err)
				continue
			}
			if delivered > 0 {
				log.Debugw("outbox batch delivered", "count", delivered)
			}

		case <-sweep.C:
			if moved, err := w.relay.MoveToDLQ(ctx); err != nil {
				log.Errorw("dlq sweep failed", "error", err)
			} else if moved > 0 {
				log.Warnw("moved exhausted notifications to dlq", "count", moved)
			}

			if removed, err := w.auth.CleanupExpiredTokens(ctx); err != nil {
				log.Errorw("token cleanup failed", "error", err)
			} else if removed > 0 {
				log.Infow("removed expired refresh tokens", "count", removed)
			}
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}
