package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-DetailingService/internal/api/middleware"
	"github.com/m04kA/SMC-DetailingService/internal/config"
	"github.com/m04kA/SMC-DetailingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/appointment"
	blockedSlotRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/blocked_slot"
	catalogRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/catalog"
	profileRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/profile"
	roleRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/role"
	"github.com/m04kA/SMC-DetailingService/internal/integrations/eventbus"
	appointmentsService "github.com/m04kA/SMC-DetailingService/internal/service/appointments"
	blackoutsService "github.com/m04kA/SMC-DetailingService/internal/service/blackouts"
	catalogService "github.com/m04kA/SMC-DetailingService/internal/service/catalog"
	profilesService "github.com/m04kA/SMC-DetailingService/internal/service/profiles"
	createBookingUC "github.com/m04kA/SMC-DetailingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-DetailingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DetailingService/pkg/logger"
	"github.com/m04kA/SMC-DetailingService/pkg/metrics"
	"github.com/m04kA/SMC-DetailingService/pkg/tracing"
	"github.com/m04kA/SMC-DetailingService/pkg/txmanager"
)

// eventPublisher общий интерфейс kafka-публикатора и заглушки
type eventPublisher interface {
	AppointmentBooked(ctx context.Context, appt *domain.Appointment) error
	AppointmentStatusChanged(ctx context.Context, appt *domain.Appointment, previous domain.AppointmentStatus) error
	Close() error
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			log, err := newLogger(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer log.Close()

			log.Info("Starting SMC-DetailingService...")
			log.Info("Configuration loaded from %s", path)

			return serve(cmd.Context(), cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	// Трассировка
	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Error("Failed to flush traces: %v", err)
		}
	}()

	// Метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	defer close(stopMetricsCh)

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// База данных
	db, err := openDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Репозитории работают через обёртку с метриками либо напрямую с *sql.DB
	var (
		executor dbmetrics.DBExecutor = db
		beginner dbmetrics.TxBeginner = dbmetrics.SqlDBWrapper{DB: db}
	)
	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		executor = wrappedDB
		beginner = wrappedDB
		log.Info("Database metrics collection started")
	}

	txMgr := txmanager.NewTransactionManager(beginner, txmanager.WithMaxRetries(cfg.Booking.MaxTxRetries))

	appointmentRepository := appointmentRepo.NewRepository(executor)
	blockedSlotRepository := blockedSlotRepo.NewRepository(executor)
	catalogRepository := catalogRepo.NewRepository(executor)
	profileRepository := profileRepo.NewRepository(executor)
	roleRepository := roleRepo.NewRepository(executor)

	// Календарная политика
	roster, err := cfg.Booking.Roster()
	if err != nil {
		return fmt.Errorf("invalid booking.time_slots: %w", err)
	}
	loc, err := cfg.Booking.Location()
	if err != nil {
		return fmt.Errorf("invalid booking.timezone: %w", err)
	}
	policy := domain.NewCalendarPolicy(cfg.Booking.WindowDays, roster, loc)
	log.Info("Calendar policy: window_days=%d, timezone=%s, slots=%d, block_overlapping=%t",
		cfg.Booking.WindowDays, cfg.Booking.Timezone, len(roster), cfg.Booking.BlockOverlappingSlots)

	// Публикация событий
	var publisher eventPublisher = eventbus.Noop{}
	if cfg.Kafka.Enabled {
		publisher = eventbus.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		log.Info("Kafka publisher enabled (brokers=%v, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}
	defer publisher.Close()

	// Ограничение частоты запросов
	limiter, closeLimiter, err := newLimiter(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLimiter()

	clientKeys, err := middleware.NewClientKeys(cfg.RateLimit.TrustedProxies)
	if err != nil {
		return fmt.Errorf("invalid rate_limit.trusted_proxies: %w", err)
	}

	// Сервисы
	appointmentSvc := appointmentsService.NewService(appointmentRepository, roleRepository, publisher, log)
	catalogSvc := catalogService.NewService(catalogRepository, log)
	blackoutSvc := blackoutsService.NewService(blockedSlotRepository, log)
	profileSvc := profilesService.NewService(profileRepository, profilesService.DefaultRegion, log)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		appointmentRepository,
		blackoutSvc,
		catalogRepository,
		txMgr,
		publisher,
		metricsCollector,
		policy,
		cfg.Booking.BlockOverlappingSlots,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		catalogRepository,
		appointmentRepository,
		blackoutSvc,
		policy,
		cfg.Booking.BlockOverlappingSlots,
		log,
	)

	handler := newRouter(routerDeps{
		cfg:               cfg,
		log:               log,
		metrics:           metricsCollector,
		roles:             roleRepository,
		limiter:           limiter,
		keys:              clientKeys,
		health:            db,
		createBooking:     createBookingUseCase,
		getAvailableSlots: getAvailableSlotsUseCase,
		appointments:      appointmentSvc,
		catalog:           catalogSvc,
		blackouts:         blackoutSvc,
		profiles:          profileSvc,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Info("Received %s, shutting down server...", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}

// newLimiter выбирает Redis-лимитер (общий для всех инстансов) или локальный
func newLimiter(ctx context.Context, cfg *config.Config, log *logger.Logger) (middleware.Limiter, func(), error) {
	window := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second

	if !cfg.Redis.Enabled {
		log.Info("Rate limiter: in-process (requests=%d, window=%s)", cfg.RateLimit.Requests, window)
		return middleware.NewLocalLimiter(cfg.RateLimit.Requests, window), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  time.Duration(cfg.Redis.DialTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Redis.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Redis.WriteTimeout) * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		if !cfg.RateLimit.FailOpen {
			rdb.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		log.Warn("Redis at %s is unavailable, limiter will fail open until it recovers: %v", cfg.Redis.Addr, err)
	}

	log.Info("Rate limiter: redis (addr=%s, requests=%d, window=%s)", cfg.Redis.Addr, cfg.RateLimit.Requests, window)
	limiter := middleware.NewRedisLimiter(rdb, cfg.RateLimit.Requests, window, "smc-detailing:rl")

	return limiter, func() {
		if err := rdb.Close(); err != nil {
			log.Warn("Failed to close redis client: %v", err)
		}
	}, nil
}
