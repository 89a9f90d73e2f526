package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tutorhub/internal/app"
	"tutorhub/internal/domain/billing"
	"tutorhub/internal/infra/cache"
	"tutorhub/internal/infra/config"
	idb "tutorhub/internal/infra/database"
	"tutorhub/internal/infra/email"
	"tutorhub/internal/infra/httpapi"
	"tutorhub/internal/infra/logger"
	"tutorhub/internal/infra/realtime"
	"tutorhub/internal/infra/scheduler"
	"tutorhub/internal/infra/telegram"

	"golang.org/x/sync/errgroup"
	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	log := logger.Component("main")
	log.WithField("environment", cfg.Environment).Info("TutorHub server starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := idb.NewMigration(cfg.DatabaseURL, nil).Up(); err != nil {
		log.Fatalf("Could not apply migrations: %v", err)
	}

	db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	var queryCache cache.Cache = cache.NewMemoryCache()
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL, "tutorhub:")
		if err != nil {
			log.Fatalf("Could not connect to redis: %v", err)
		}
		defer rc.Close()
		queryCache = rc
		log.Info("Using redis query cache")
	}

	// Repositories
	profileRepo := idb.NewPostgresProfileRepository(db)
	classRepo := idb.NewPostgresClassRepository(db)
	relationshipRepo := idb.NewPostgresRelationshipRepository(db)
	notificationRepo := idb.NewPostgresNotificationRepository(db)
	noteRepo := idb.NewPostgresNoteRepository(db)
	shareRepo := idb.NewPostgresShareRepository(db)
	billingRepo := idb.NewPostgresBillingRepository(db)
	backupRepo := idb.NewPostgresBackupRepository(db)
	messageRepo := idb.NewPostgresMessageRepository(db)
	directoryRepo := idb.NewPostgresDirectoryRepository(db)

	// Delivery channels
	var channels []app.DeliveryChannel
	var bot *telebot.Bot
	var linkTokens *telegram.LinkTokens
	var linkIssuer httpapi.LinkIssuer
	if cfg.TelegramToken != "" {
		botLog := logger.Component("telegram")
		bot, err = telebot.NewBot(telebot.Settings{
			Token:  cfg.TelegramToken,
			Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
			OnError: func(err error, c telebot.Context) {
				entry := botLog.WithError(err)
				if c != nil && c.Chat() != nil {
					entry = entry.WithField("chat_id", c.Chat().ID)
				}
				entry.Error("Telegram handler failed")
			},
		})
		if err != nil {
			log.Fatalf("Could not create Telegram bot: %v", err)
		}
		channels = append(channels, telegram.NewChannel(telegram.NewTelebotAdapter(bot)))
		linkTokens = telegram.NewLinkTokens(cfg.JWTSecret, telegram.DefaultLinkTTL)
		linkIssuer = linkTokens
	} else {
		log.Info("TELEGRAM_TOKEN is empty, Telegram delivery disabled")
	}
	if cfg.SendGridAPIKey != "" {
		channels = append(channels, email.NewChannel(cfg.SendGridAPIKey, cfg.AppName, cfg.EmailFrom, email.DefaultHost))
	} else {
		log.Info("SENDGRID_API_KEY is empty, e-mail delivery disabled")
	}

	// Services
	plans := billing.Catalog(map[billing.PlanID]string{
		billing.PlanBasic:    cfg.PriceIDBasic,
		billing.PlanStandard: cfg.PriceIDStandard,
		billing.PlanPremium:  cfg.PriceIDPremium,
	})
	billingService := app.NewBillingService(billingRepo, classRepo, plans)
	relationshipService := app.NewRelationshipService(relationshipRepo, profileRepo, queryCache, cfg.CacheTTL, logger.Component("relationships"))
	notificationService := app.NewNotificationService(classRepo, notificationRepo, profileRepo, channels, cfg.UpcomingWindow, logger.Component("notifications"))
	schedulerService := app.NewSchedulerService(classRepo, relationshipService, billingService, notificationService, queryCache, cfg.CacheTTL, logger.Component("scheduler"))
	contentService := app.NewContentService(noteRepo, shareRepo, relationshipService, logger.Component("content"))
	adminService := app.NewAdminService(profileRepo, logger.Component("admin"))
	backupService := app.NewBackupService(backupRepo, notificationService, cfg.BackupDir, logger.Component("backup"))
	messageService := app.NewMessageService(messageRepo, profileRepo, relationshipService, logger.Component("messages"))
	directoryService := app.NewDirectoryService(directoryRepo, profileRepo, relationshipService, logger.Component("directory"))

	jobs := scheduler.NewJobScheduler(notificationService, backupService, cfg.BackupRetentionDays, scheduler.Specs{
		UpcomingCheck:    cfg.CronSpecUpcomingCheck,
		NextDayReminders: cfg.CronSpecNextDayReminders,
		DailyReport:      cfg.CronSpecDailyReport,
		AutoBackup:       cfg.CronSpecAutoBackup,
	}, logger.Component("cron"))
	if err := jobs.Start(); err != nil {
		log.Fatalf("Could not start job scheduler: %v", err)
	}

	hub := realtime.NewHub()
	listener := realtime.NewListener(realtime.NewPQSource(cfg.DatabaseURL, logger.Component("realtime")), hub, queryCache, logger.Component("realtime"))

	router := httpapi.NewRouter(httpapi.Config{
		JWTSecret:           cfg.JWTSecret,
		ServiceRoleKey:      cfg.ServiceRoleKey,
		CORSOrigins:         cfg.CORSOrigins,
		BackupRetentionDays: cfg.BackupRetentionDays,
		Health:              db.PingContext,
	}, httpapi.Services{
		Scheduler:     schedulerService,
		Notifications: notificationService,
		Relationships: relationshipService,
		Content:       contentService,
		Billing:       billingService,
		Admin:         adminService,
		Backups:       backupService,
		Messages:      messageService,
		Directory:     directoryService,
		TelegramLinks: linkIssuer,
		Hub:           hub,
		Functions:     httpapi.NewFunctionClient(cfg.FunctionsBaseURL, cfg.ServiceRoleKey, nil),
	}, logger.Component("http"))
	srv := httpapi.NewServer(cfg.HTTPAddr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return listener.Run(gctx)
	})
	if bot != nil {
		handlers := telegram.NewHandlers(gctx, profileRepo, schedulerService, adminService, backupService, notificationService, linkTokens, logger.Component("telegram"))
		handlers.Register(bot)
		g.Go(func() error {
			bot.Start()
			return nil
		})
		log.Info("Telegram bot started")
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")

		jobs.Stop()
		if bot != nil {
			bot.Stop()
		}
		hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Server stopped with error")
		os.Exit(1)
	}
	log.Info("Server shut down gracefully")
}
