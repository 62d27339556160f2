package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"beachvolley/internal/api"
	"beachvolley/internal/auth"
	"beachvolley/internal/calendar"
	"beachvolley/internal/config"
	"beachvolley/internal/logger"
	"beachvolley/internal/repository"
	"beachvolley/internal/service"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// app holds the wired dependencies shared by the CLI commands.
type app struct {
	cfg          *config.Config
	logger       *zap.Logger
	store        *repository.Store
	config       *service.ConfigService
	availability *service.AvailabilityService
	reservations *service.ReservationService
	admin        *service.AdminService
	adminAuth    service.AdminAuthService
	sender       *service.SenderService
	job          *service.JobService
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	loc := cfg.Location()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	configService := service.NewConfigService(store.Config, log)
	if err := configService.Seed(ctx); err != nil {
		log.Warn("Failed to seed default configuration", zap.Error(err))
	}

	// A nil *calendar.Client must not end up inside the interface.
	var remote service.RemoteCalendar
	if cfg.CalendarEnabled() {
		client, err := calendar.NewClient(ctx, log, cfg.GoogleServiceAccountKey, cfg.GoogleCalendarID, loc)
		if err != nil {
			_ = store.Close(context.Background())
			return nil, err
		}
		if err := client.Ping(ctx); err != nil {
			log.Warn("Google Calendar not reachable at startup", zap.Error(err))
		}
		remote = client
		log.Info("Google Calendar mirror enabled", zap.String("calendarId", cfg.GoogleCalendarID))
	} else {
		log.Info("Google Calendar mirror disabled")
	}

	var sms service.SMSSender
	if twilio := service.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber); twilio != nil {
		sms = twilio
	}
	var email service.EmailSender
	if sendgrid := service.NewSendGridSender(cfg.SendgridAPIKey, cfg.SendgridFromEmail, cfg.SendgridFromName); sendgrid != nil {
		email = sendgrid
	}
	sender := service.NewSenderService(sms, email, cfg.NotifyEmail, loc, log)

	adminAuth, err := service.NewAdminAuthService(cfg.AdminPassword, cfg.AdminPasswordHash, cfg.JWTSecret, log)
	if err != nil {
		_ = store.Close(context.Background())
		return nil, err
	}

	availability := service.NewAvailabilityService(store, configService, remote, log)
	a := &app{
		cfg:          cfg,
		logger:       log,
		store:        store,
		config:       configService,
		availability: availability,
		reservations: service.NewReservationService(store, configService, remote, sender, loc, log),
		admin:        service.NewAdminService(store, loc, log),
		adminAuth:    adminAuth,
		sender:       sender,
	}
	if remote != nil {
		a.job = service.NewJobService(availability, store.Reservations, cfg.ReconcileDays, loc, log)
	}
	return a, nil
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*repository.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendMongo:
		store, err := repository.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		log.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))
		return store, nil
	default:
		conn, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open DB: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := conn.PingContext(pingCtx); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to connect to DB: %w", err)
		}
		if err := repository.Migrate(ctx, conn); err != nil {
			conn.Close()
			return nil, err
		}
		log.Info("Connected to PostgreSQL")
		return repository.NewPostgresStore(conn), nil
	}
}

func (a *app) router() http.Handler {
	return api.NewRouter(api.RouterConfig{
		BasePath:     a.cfg.BasePath,
		User:         api.NewUserHandler(a.reservations, a.availability, a.config, a.logger),
		Admin:        api.NewAdminHandler(a.reservations, a.availability, a.admin, a.config, a.logger),
		Auth:         api.NewAdminAuthHandler(a.adminAuth, a.logger),
		Validator:    a.adminAuth,
		LoginLimiter: auth.NewRateLimiter(a.cfg.LoginRatePerMin, a.logger),
		TrustProxy:   a.cfg.TrustProxy,
		Logger:       a.logger,
	})
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.store.Close(ctx); err != nil {
		a.logger.Warn("Failed to close store", zap.Error(err))
	}
	_ = a.logger.Sync()
}
