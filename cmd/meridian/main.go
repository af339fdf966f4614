package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/meridian-cms/meridian-cms/internal/app"
	"github.com/meridian-cms/meridian-cms/internal/audit"
	"github.com/meridian-cms/meridian-cms/internal/auth"
	"github.com/meridian-cms/meridian-cms/internal/authz"
	"github.com/meridian-cms/meridian-cms/internal/i18n"
	"github.com/meridian-cms/meridian-cms/internal/mail"
	"github.com/meridian-cms/meridian-cms/internal/observability"
	"github.com/meridian-cms/meridian-cms/internal/platform/cache"
	"github.com/meridian-cms/meridian-cms/internal/platform/db"
	"github.com/meridian-cms/meridian-cms/internal/roles"
	"github.com/meridian-cms/meridian-cms/internal/shared"
	"github.com/meridian-cms/meridian-cms/internal/users"
	"github.com/meridian-cms/meridian-cms/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "meridian_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	registry, err := authz.NewRegistry(cfg.RoleNames()...)
	if err != nil {
		logger.Error("declare roles", slog.Any("error", err))
		os.Exit(1)
	}
	rules, err := app.Rules(registry)
	if err != nil {
		logger.Error("build rule table", slog.Any("error", err))
		os.Exit(1)
	}

	catalog := i18n.DefaultCatalog()
	languages, err := i18n.ParseLanguages(cfg.Languages)
	if err != nil {
		logger.Error("parse languages", slog.Any("error", err))
		os.Exit(1)
	}

	rolesRepo := roles.NewRepository(pool)
	rolesService, err := roles.NewService(rolesRepo, registry, cfg.DefaultRoleNames(), logger)
	if err != nil {
		logger.Error("init roles service", slog.Any("error", err))
		os.Exit(1)
	}

	usersRepo := users.NewRepository(pool)
	identity := auth.SessionIdentity{Users: usersRepo}

	gateway := authz.NewGateway(rules, rolesService, identity)
	guard := authz.Guard{Gateway: gateway, Logger: logger, LoginPath: "/auth/login"}

	auditRepo := audit.NewRepository(pool)
	recorder := audit.NewRecorder(auditRepo, catalog, languages)

	var mailer mail.Mailer
	switch cfg.MailMode {
	case "smtp":
		mailer = &mail.SMTPMailer{Host: cfg.SMTPHost, Port: cfg.SMTPPort, From: cfg.SMTPFrom}
	case "queue":
		queueMailer := jobs.NewQueueMailer(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() {
			if err := queueMailer.Close(); err != nil {
				logger.Warn("queue mailer close", slog.Any("error", err))
			}
		}()
		mailer = queueMailer
	default:
		mailer = &mail.LogMailer{Logger: logger}
	}

	usersService := users.NewService(users.ServiceConfig{
		Repo:      usersRepo,
		Roles:     rolesService,
		Recorder:  recorder,
		Mailer:    mailer,
		Catalog:   catalog,
		Languages: languages,
		BaseURL:   cfg.BaseURL,
		Logger:    logger,
	})

	authService := auth.NewService(auth.NewRepository(pool))

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		AuthHandler:    auth.NewHandler(logger, authService, sessionManager, identity),
		UsersHandler:   users.NewHandler(logger, usersService, identity),
		RolesHandler:   roles.NewHandler(logger, rolesService),
		AuditHandler:   audit.NewHandler(logger, auditRepo),
		Gateway:        gateway,
		Guard:          guard,
		Catalog:        catalog,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("http server", slog.Any("error", err))
		os.Exit(1)
	}
}
