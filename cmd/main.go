package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	archiveClientHandler "github.com/m04kA/SMC-CoachBooking/internal/api/handlers/archive_client"
	bookingTransitionHandler "github.com/m04kA/SMC-CoachBooking/internal/api/handlers/booking_transition"
	createBlockedTimeHandler "github.com/m04kA/SMC-CoachBooking/internal/api/handlers/create_blocked_time"
	createBookingHandler "github.com/m04kA/SMC-CoachBooking/internal/api/handlers/create_booking"
	createClientHandler "github.com/m04kA/SMC-CoachBooking/internal/api/handlers/create_client"
	deleteBlockedTimeHandler "github.com/m04kA/SMC-CoachBooking/internal/api/handlers/delete_blocked_time"
	getAvailabilityHandler "github.com/m04kA/SMC-CoachBooking/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-CoachBooking/internal/api/handlers/get_booking"
	getClientHandler "github.com/m04kA/SMC-CoachBooking/internal/api/handlers/get_client"
	getSettingsHandler "github.com/m04kA/SMC-CoachBooking/internal/api/handlers/get_settings"
	listBlockedTimesHandler "github.com/m04kA/SMC-CoachBooking/internal/api/handlers/list_blocked_times"
	listBookingsHandler "github.com/m04kA/SMC-CoachBooking/internal/api/handlers/list_bookings"
	listClientBookingsHandler "github.com/m04kA/SMC-CoachBooking/internal/api/handlers/list_client_bookings"
	listClientsHandler "github.com/m04kA/SMC-CoachBooking/internal/api/handlers/list_clients"
	updateClientHandler "github.com/m04kA/SMC-CoachBooking/internal/api/handlers/update_client"
	updateSettingsHandler "github.com/m04kA/SMC-CoachBooking/internal/api/handlers/update_settings"
	"github.com/m04kA/SMC-CoachBooking/internal/api/middleware"
	"github.com/m04kA/SMC-CoachBooking/internal/config"
	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	"github.com/m04kA/SMC-CoachBooking/internal/infra/cache"
	blockedTimeRepo "github.com/m04kA/SMC-CoachBooking/internal/infra/storage/blockedtime"
	bookingRepo "github.com/m04kA/SMC-CoachBooking/internal/infra/storage/booking"
	clientRepo "github.com/m04kA/SMC-CoachBooking/internal/infra/storage/client"
	"github.com/m04kA/SMC-CoachBooking/internal/infra/storage/memory"
	settingsRepo "github.com/m04kA/SMC-CoachBooking/internal/infra/storage/settings"
	blockedTimesService "github.com/m04kA/SMC-CoachBooking/internal/service/blockedtimes"
	bookingsService "github.com/m04kA/SMC-CoachBooking/internal/service/bookings"
	clientsService "github.com/m04kA/SMC-CoachBooking/internal/service/clients"
	settingsService "github.com/m04kA/SMC-CoachBooking/internal/service/settings"
	createBookingUC "github.com/m04kA/SMC-CoachBooking/internal/usecase/create_booking"
	getAvailabilityUC "github.com/m04kA/SMC-CoachBooking/internal/usecase/get_availability"
	"github.com/m04kA/SMC-CoachBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-CoachBooking/pkg/logger"
	"github.com/m04kA/SMC-CoachBooking/pkg/metrics"
	"github.com/m04kA/SMC-CoachBooking/pkg/txmanager"
)

// Интерфейсы хранилища, общие для PostgreSQL и memory драйверов
type (
	bookingStore interface {
		SetLockTimeout(ctx context.Context, timeout time.Duration) error
		LockDay(ctx context.Context, day time.Time) error
		ListActive(ctx context.Context, from, to time.Time) ([]*domain.Booking, error)
		Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
		GetByID(ctx context.Context, id int64) (*domain.Booking, error)
		GetWithClient(ctx context.Context, id int64) (*domain.BookingWithClient, error)
		List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.BookingWithClient, error)
		UpdateStatus(ctx context.Context, id int64, expected, next domain.BookingStatus) (*domain.Booking, error)
	}

	clientStore interface {
		Upsert(ctx context.Context, client *domain.Client) (*domain.Client, error)
		Create(ctx context.Context, client *domain.Client) (*domain.Client, error)
		GetByID(ctx context.Context, id int64) (*domain.Client, error)
		List(ctx context.Context, filter domain.ClientsFilter) ([]*domain.Client, error)
		Update(ctx context.Context, client *domain.Client) (*domain.Client, error)
		TouchLastSession(ctx context.Context, id int64, at time.Time) error
	}

	blockedTimeStore interface {
		Create(ctx context.Context, blocked *domain.BlockedTime) (*domain.BlockedTime, error)
		ListInRange(ctx context.Context, from, to time.Time) ([]*domain.BlockedTime, error)
		ListFrom(ctx context.Context, from time.Time) ([]*domain.BlockedTime, error)
		Delete(ctx context.Context, id int64) error
	}

	settingsStore interface {
		Get(ctx context.Context) (*domain.Settings, error)
		Save(ctx context.Context, s *domain.Settings) (*domain.Settings, error)
	}

	txManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
)

type storage struct {
	bookings     bookingStore
	clients      clientStore
	blockedTimes blockedTimeStore
	settings     settingsStore
	tx           txManager
	close        func()
}

func main() {
	// Загружаем конфигурацию
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-CoachBooking...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Scheduling.Location()
	if err != nil {
		log.Fatal("Failed to load timezone %q: %v", cfg.Scheduling.Timezone, err)
	}
	log.Info("Scheduling timezone: %s", location)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище
	store, err := openStorage(cfg, metricsCollector, stopMetricsCh, log)
	if err != nil {
		log.Fatal("Failed to initialize storage: %v", err)
	}
	defer store.close()

	// Кэш настроек
	settingsCache, closeCache := openCache(cfg, log)
	defer closeCache()

	// Инициализируем сервисы
	settingsSvc := settingsService.NewService(store.settings, settingsCache, cfg.Cache.TTL(), location, log)
	bookingSvc := bookingsService.NewService(store.bookings, store.clients, location, log)
	clientSvc := clientsService.NewService(store.clients, store.bookings, location, log)
	blockedTimeSvc := blockedTimesService.NewService(
		store.blockedTimes,
		store.bookings,
		store.tx,
		location,
		cfg.Admission.LockTimeout(),
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		store.bookings,
		store.clients,
		store.blockedTimes,
		settingsSvc,
		store.tx,
		location,
		cfg.Admission.LockTimeout(),
		metricsCollector,
		log,
	)

	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		store.bookings,
		store.blockedTimes,
		settingsSvc,
		location,
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, location, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, location, log)
	approveBooking := bookingTransitionHandler.NewHandler(bookingSvc, domain.ActionApprove, log)
	rejectBooking := bookingTransitionHandler.NewHandler(bookingSvc, domain.ActionReject, log)
	completeBooking := bookingTransitionHandler.NewHandler(bookingSvc, domain.ActionComplete, log)
	getSettings := getSettingsHandler.NewHandler(settingsSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(settingsSvc, log)
	createBlockedTime := createBlockedTimeHandler.NewHandler(blockedTimeSvc, log)
	listBlockedTimes := listBlockedTimesHandler.NewHandler(blockedTimeSvc, location, log)
	deleteBlockedTime := deleteBlockedTimeHandler.NewHandler(blockedTimeSvc, log)
	listClients := listClientsHandler.NewHandler(clientSvc, log)
	getClient := getClientHandler.NewHandler(clientSvc, log)
	createClient := createClientHandler.NewHandler(clientSvc, log)
	updateClient := updateClientHandler.NewHandler(clientSvc, log)
	archiveClient := archiveClientHandler.NewHandler(clientSvc, true, log)
	unarchiveClient := archiveClientHandler.NewHandler(clientSvc, false, log)
	listClientBookings := listClientBookingsHandler.NewHandler(clientSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.AccessLog(log))

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Бронирования ---
	// availability регистрируется до /bookings/{bookingId}
	api.HandleFunc("/bookings/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}/approve", approveBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}/reject", rejectBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}/complete", completeBooking.Handle).Methods(http.MethodPatch)

	// --- Настройки расписания ---
	api.HandleFunc("/settings", getSettings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/settings", updateSettings.Handle).Methods(http.MethodPut)

	// --- Блокировки времени ---
	api.HandleFunc("/blocked-times", listBlockedTimes.Handle).Methods(http.MethodGet)
	api.HandleFunc("/blocked-times", createBlockedTime.Handle).Methods(http.MethodPost)
	api.HandleFunc("/blocked-times/{blockedTimeId:[0-9]+}", deleteBlockedTime.Handle).Methods(http.MethodDelete)

	// --- Клиенты ---
	api.HandleFunc("/clients", listClients.Handle).Methods(http.MethodGet)
	api.HandleFunc("/clients", createClient.Handle).Methods(http.MethodPost)
	api.HandleFunc("/clients/{clientId:[0-9]+}", getClient.Handle).Methods(http.MethodGet)
	api.HandleFunc("/clients/{clientId:[0-9]+}", updateClient.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/clients/{clientId:[0-9]+}/bookings", listClientBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/clients/{clientId:[0-9]+}/archive", archiveClient.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/clients/{clientId:[0-9]+}/unarchive", unarchiveClient.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

// openStorage подключает PostgreSQL или создает хранилище в памяти
func openStorage(cfg *config.Config, m *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*storage, error) {
	if cfg.Database.Driver == config.DatabaseDriverMemory {
		log.Warn("Using in-memory storage: data is lost on restart")
		mem := memory.NewStore()
		return &storage{
			bookings:     mem.Bookings(),
			clients:      mem.Clients(),
			blockedTimes: mem.BlockedTimes(),
			settings:     mem.Settings(),
			tx:           memory.NewTransactionManager(mem),
			close:        func() {},
		}, nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Репозитории работают с *sql.DB или с обёрткой метрик
	var executor dbmetrics.DBExecutor = db
	if m != nil {
		executor = dbmetrics.WrapWithDefault(db, m, stopCh)
		log.Info("Database metrics collection started")
	}

	return &storage{
		bookings:     bookingRepo.NewRepository(executor),
		clients:      clientRepo.NewRepository(executor),
		blockedTimes: blockedTimeRepo.NewRepository(executor),
		settings:     settingsRepo.NewRepository(executor),
		tx:           txmanager.NewTransactionManager(executor),
		close:        func() { _ = db.Close() },
	}, nil
}

// openCache создает кэш настроек; при недоступном Redis используется кэш в памяти
func openCache(cfg *config.Config, log *logger.Logger) (settingsService.Cache, func()) {
	if cfg.Cache.Driver != config.CacheDriverRedis {
		log.Info("Settings cache: memory, ttl=%s", cfg.Cache.TTL())
		return cache.NewMemory(), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis %s unavailable, falling back to memory cache: %v", cfg.Cache.Redis.Addr, err)
		_ = rdb.Close()
		return cache.NewMemory(), func() {}
	}

	log.Info("Settings cache: redis %s, ttl=%s", cfg.Cache.Redis.Addr, cfg.Cache.TTL())
	return cache.NewRedis(rdb, cfg.Cache.Redis.Key), func() { _ = rdb.Close() }
}
