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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/decor-rental-service/internal/api/handlers/cancel_booking"
	checkAvailabilityHandler "github.com/m04kA/decor-rental-service/internal/api/handlers/check_availability"
	createBookingHandler "github.com/m04kA/decor-rental-service/internal/api/handlers/create_booking"
	createRulesHandler "github.com/m04kA/decor-rental-service/internal/api/handlers/create_rules"
	deleteRulesHandler "github.com/m04kA/decor-rental-service/internal/api/handlers/delete_rules"
	getBookingHandler "github.com/m04kA/decor-rental-service/internal/api/handlers/get_booking"
	getItemBookingsHandler "github.com/m04kA/decor-rental-service/internal/api/handlers/get_item_bookings"
	getItemRulesHandler "github.com/m04kA/decor-rental-service/internal/api/handlers/get_item_rules"
	getUserBookingsHandler "github.com/m04kA/decor-rental-service/internal/api/handlers/get_user_bookings"
	listRulesHandler "github.com/m04kA/decor-rental-service/internal/api/handlers/list_rules"
	quoteBookingHandler "github.com/m04kA/decor-rental-service/internal/api/handlers/quote_booking"
	updateBookingStatusHandler "github.com/m04kA/decor-rental-service/internal/api/handlers/update_booking_status"
	updateRulesHandler "github.com/m04kA/decor-rental-service/internal/api/handlers/update_rules"
	"github.com/m04kA/decor-rental-service/internal/api/middleware"
	"github.com/m04kA/decor-rental-service/internal/config"
	"github.com/m04kA/decor-rental-service/internal/domain"
	"github.com/m04kA/decor-rental-service/internal/infra/cache"
	"github.com/m04kA/decor-rental-service/internal/infra/events"
	bookingRepo "github.com/m04kA/decor-rental-service/internal/infra/storage/booking"
	rulesRepo "github.com/m04kA/decor-rental-service/internal/infra/storage/rules"
	catalogServiceClient "github.com/m04kA/decor-rental-service/internal/integrations/catalogservice"
	"github.com/m04kA/decor-rental-service/internal/jobs"
	bookingsService "github.com/m04kA/decor-rental-service/internal/service/bookings"
	rulesService "github.com/m04kA/decor-rental-service/internal/service/rules"
	checkAvailabilityUC "github.com/m04kA/decor-rental-service/internal/usecase/check_availability"
	createBookingUC "github.com/m04kA/decor-rental-service/internal/usecase/create_booking"
	quoteBookingUC "github.com/m04kA/decor-rental-service/internal/usecase/quote_booking"
	"github.com/m04kA/decor-rental-service/pkg/dbmetrics"
	"github.com/m04kA/decor-rental-service/pkg/logger"
	"github.com/m04kA/decor-rental-service/pkg/metrics"
	"github.com/m04kA/decor-rental-service/pkg/txmanager"
)

// eventPublisher издатель событий, который нужно закрыть при остановке
type eventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
	Close() error
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.toml"
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level, cfg.Logs.Format)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting decor-rental-service...")
	log.Info("Configuration loaded from %s", configPath)

	// Правила аренды по умолчанию (уже проверены в config.Validate)
	defaultCalcRules, err := cfg.Rental.Rules()
	if err != nil {
		log.Fatal("Invalid rental rules: %v", err)
	}
	defaultRules := domain.RulesFromCalc(defaultCalcRules, cfg.Rental.AdvanceBookingDays)
	log.Info("Default rental rules: pickup=%s, return=%s, days=%d",
		defaultCalcRules.PickupWeekday, defaultCalcRules.ReturnWeekday, defaultCalcRules.DefaultRentalDays)

	// Инициализируем метрики (если включены)
	// При выключенных метриках nil-коллектор безопасно игнорирует вызовы
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Обертка над БД: с метриками запросов и пула или без них
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db)
	}

	// Инициализируем репозитории и менеджер транзакций
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	rulesRepository := rulesRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Кэш Redis (при недоступности работает как pass-through)
	redisCache := cache.New(context.Background(), cache.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, log)
	defer redisCache.Close()

	// Инициализируем интеграционных клиентов
	catalogClient := catalogServiceClient.NewCachedClient(
		catalogServiceClient.NewClient(
			cfg.CatalogService.URL,
			time.Duration(cfg.CatalogService.Timeout)*time.Second,
			log,
		),
		redisCache,
		time.Duration(cfg.CatalogService.CacheTTL)*time.Second,
		log,
		metricsCollector,
	)
	log.Info("Integration clients initialized (CatalogService=%s timeout=%ds cache_ttl=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout, cfg.CatalogService.CacheTTL)

	// Издатель событий: Kafka или noop, если брокеры не заданы
	var publisher eventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log, metricsCollector)
		if err != nil {
			log.Fatal("Failed to create Kafka publisher: %v", err)
		}
		publisher = kafkaPublisher
		log.Info("Kafka publisher enabled (brokers=%v, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	} else {
		publisher = events.NewNoopPublisher(log)
		log.Info("Kafka brokers not configured, booking events are not published")
	}
	defer publisher.Close()

	// Инициализируем сервисы
	rulesSvc := rulesService.NewService(rulesRepository, *defaultRules, log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		txMgr,
		publisher,
		metricsCollector,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		rulesSvc,
		catalogClient,
		txMgr,
		publisher,
		metricsCollector,
		log,
	)
	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(
		bookingRepository,
		rulesSvc,
		catalogClient,
		metricsCollector,
		log,
	)
	quoteBookingUseCase := quoteBookingUC.NewUseCase(
		rulesSvc,
		catalogClient,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log)
	quoteBooking := quoteBookingHandler.NewHandler(quoteBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getItemBookings := getItemBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getItemRules := getItemRulesHandler.NewHandler(rulesSvc, log)
	listRules := listRulesHandler.NewHandler(rulesSvc, log)
	createRules := createRulesHandler.NewHandler(rulesSvc, log)
	updateRules := updateRulesHandler.NewHandler(rulesSvc, log)
	deleteRules := deleteRulesHandler.NewHandler(rulesSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recovery(log))

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Проверка доступности товара на окно аренды
	api.HandleFunc("/items/{itemId}/availability", checkAvailability.Handle).Methods(http.MethodGet)

	// Предварительный расчет стоимости
	api.HandleFunc("/items/{itemId}/quote", quoteBooking.Handle).Methods(http.MethodGet)

	// Действующие правила аренды товара
	api.HandleFunc("/items/{itemId}/rules", getItemRules.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (X-User-Role: admin)
	// ============================================================

	admin := protected.PathPrefix("").Subrouter()
	admin.Use(middleware.RequireAdmin)

	// Жизненный цикл бронирования: confirmed, picked_up, returned
	admin.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/items/{itemId}/bookings", getItemBookings.Handle).Methods(http.MethodGet)

	// --- Правила аренды ---
	admin.HandleFunc("/rules", listRules.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/rules", createRules.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/rules/{ruleId}", listRules.HandleGet).Methods(http.MethodGet)
	admin.HandleFunc("/rules/{ruleId}", updateRules.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/rules/{ruleId}", deleteRules.Handle).Methods(http.MethodDelete)

	// Фоновое освобождение неподтвержденных броней
	scheduler, err := jobs.NewScheduler(bookingSvc, cfg.Jobs.ExpireHoldsSchedule, cfg.Jobs.HoldTTLDuration(), log)
	if err != nil {
		log.Fatal("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	scheduler.Stop(shutdownCtx)

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
