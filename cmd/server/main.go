package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Rrens/careops/internal/api"
	"github.com/Rrens/careops/internal/automation"
	"github.com/Rrens/careops/internal/channel"
	"github.com/Rrens/careops/internal/channel/email"
	"github.com/Rrens/careops/internal/channel/sms"
	"github.com/Rrens/careops/internal/channel/telegram"
	"github.com/Rrens/careops/internal/config"
	"github.com/Rrens/careops/internal/domain"
	"github.com/Rrens/careops/internal/events"
	"github.com/Rrens/careops/internal/logger"
	"github.com/Rrens/careops/internal/realtime"
	"github.com/Rrens/careops/internal/repository/postgres"
	"github.com/Rrens/careops/internal/repository/redis"
	"github.com/Rrens/careops/internal/scanner"
	"github.com/Rrens/careops/internal/scheduler"
	"github.com/Rrens/careops/internal/security"
	"github.com/Rrens/careops/internal/service"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file - try multiple locations
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logCloser, err := logger.Setup(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("Starting CareOps automation server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Server.AutoMigrate {
		if err := postgres.RunMigrations(cfg.Database.DSN(), cfg.Server.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}

	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
	} else {
		log.Warn().Msg("Redis disabled: no delivery ledger, cadence lock or rate limiting")
	}

	// Repositories
	workspaceRepo := postgres.NewWorkspaceRepository(db)
	ruleRepo := postgres.NewRuleRepository(db)
	alertRepo := postgres.NewAlertRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	formRepo := postgres.NewFormSubmissionRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)
	logRepo := postgres.NewExecutionLogRepository(db)

	// Channels
	emailRouter := email.NewRouter(cfg.Email.Provider, cfg.Email.From)
	emailRouter.RegisterProvider(email.NewResendProvider(cfg.Email.Resend.APIKey, cfg.Email.Resend.BaseURL))
	emailRouter.RegisterProvider(email.NewSMTPProvider(cfg.Email.SMTP.Host, cfg.Email.SMTP.Port, cfg.Email.SMTP.Username, cfg.Email.SMTP.Password))
	if _, err := emailRouter.Provider(); err != nil {
		log.Warn().Str("provider", cfg.Email.Provider).Msg("Email provider not configured, email rules will fail")
	}

	var smsSender channel.SMSSender
	twilioSender, err := sms.NewTwilioSender(cfg.SMS.Twilio.AccountSID, cfg.SMS.Twilio.AuthToken, cfg.SMS.Twilio.FromNumber)
	if err != nil {
		log.Warn().Err(err).Msg("Twilio not configured, SMS rules will fail")
	} else {
		smsSender = twilioSender
	}

	// Realtime fan-out
	var wg sync.WaitGroup
	runBackground := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				log.Error().Err(err).Str("component", name).Msg("Background component stopped")
			}
		}()
	}

	hub := realtime.NewHub(cfg.Realtime.SendBuffer)
	runBackground("realtime_hub", func(ctx context.Context) error {
		hub.Run(ctx)
		return nil
	})

	var alertPublisher realtime.Publisher = hub
	if cfg.Realtime.RedisBridge && redisClient != nil {
		bridge := realtime.NewRedisBridge(redisClient.Client(), cfg.Realtime.Channel, hub)
		runBackground("realtime_bridge", bridge.Run)
		alertPublisher = bridge
	}

	publishers := realtime.Fanout{alertPublisher}
	if cfg.Telegram.Enabled {
		notifier, err := telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.DefaultChatID, cfg.Telegram.WorkspaceChats)
		if err != nil {
			log.Warn().Err(err).Msg("Telegram alert mirror disabled")
		} else {
			publishers = append(publishers, notifier)
		}
	}

	// Engine
	executor := automation.NewExecutor(emailRouter, smsSender, alertRepo, publishers,
		automation.WithActionTimeout(cfg.Automation.ActionTimeout),
	)
	dispatcher := automation.NewDispatcher(ruleRepo, executor, logRepo)

	loc, err := cfg.Scheduler.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid scheduler timezone")
	}

	var ledger domain.NotificationLedger
	if redisClient != nil {
		ledger = redis.NewNotificationLedger(redisClient)
	}

	scanOpts := []scanner.Option{
		scanner.WithLocation(loc),
		scanner.WithLedgerTTL(cfg.Automation.LedgerTTL),
	}
	cadences := []scheduler.Cadence{
		{
			Name:     scheduler.CadenceFast,
			Interval: cfg.Scheduler.FastInterval,
			Scanners: []scanner.Scanner{
				scanner.NewBookingReminderScanner(bookingRepo, dispatcher, ledger, scanOpts...),
				scanner.NewPendingFormScanner(formRepo, dispatcher, ledger,
					append(scanOpts, scanner.WithWindow(cfg.Automation.PendingFormAge))...),
				scanner.NewLowInventoryScanner(inventoryRepo, alertRepo, dispatcher,
					append(scanOpts, scanner.WithWindow(cfg.Automation.InventoryDedupWindow))...),
			},
		},
		{
			Name:     scheduler.CadenceSlow,
			Interval: cfg.Scheduler.SlowInterval,
			Scanners: []scanner.Scanner{
				scanner.NewOverdueFormScanner(formRepo, scanOpts...),
			},
		},
	}

	var schedOpts []scheduler.Option
	if redisClient != nil {
		schedOpts = append(schedOpts, scheduler.WithLocker(redis.NewLocker(redisClient), cfg.Scheduler.LockTTL))
	}
	sched := scheduler.New(cadences, schedOpts...)
	if cfg.Scheduler.Enabled {
		sched.Start(ctx)
		defer sched.Stop()
	} else {
		log.Warn().Msg("Scheduler disabled; scans run only on demand")
	}

	// Use cases
	ruleService := service.NewRuleService(ruleRepo, workspaceRepo, logRepo)
	alertService := service.NewAlertService(alertRepo)
	eventService := service.NewEventService(workspaceRepo, dispatcher)

	if cfg.Kafka.Enabled {
		consumer, err := events.NewConsumer(cfg.Kafka, eventService)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create domain event consumer")
		}
		defer consumer.Close()
		runBackground("kafka_consumer", consumer.Run)
	}

	deps := api.Deps{
		Tokens:   security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTokenTTL),
		DB:       db,
		Rules:    ruleService,
		Alerts:   alertService,
		Events:   eventService,
		Scans:    sched,
		Realtime: hub,
	}
	if redisClient != nil {
		deps.Limiter = redis.NewRateLimiter(redisClient, cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(cfg, deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	wg.Wait()
	log.Info().Msg("Server stopped")
}
