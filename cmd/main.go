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

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/salonmarket/booking-service/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/salonmarket/booking-service/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/salonmarket/booking-service/internal/api/handlers/create_booking"
	createSlotHandler "github.com/salonmarket/booking-service/internal/api/handlers/create_slot"
	declareAvailabilityHandler "github.com/salonmarket/booking-service/internal/api/handlers/declare_availability"
	deleteSlotHandler "github.com/salonmarket/booking-service/internal/api/handlers/delete_slot"
	getAvailableSlotsHandler "github.com/salonmarket/booking-service/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/salonmarket/booking-service/internal/api/handlers/get_booking"
	getClientBookingsHandler "github.com/salonmarket/booking-service/internal/api/handlers/get_client_bookings"
	getFreeWindowsHandler "github.com/salonmarket/booking-service/internal/api/handlers/get_free_windows"
	getMasterBookingsHandler "github.com/salonmarket/booking-service/internal/api/handlers/get_master_bookings"
	listAvailabilityHandler "github.com/salonmarket/booking-service/internal/api/handlers/list_availability"
	regenerateSlotsHandler "github.com/salonmarket/booking-service/internal/api/handlers/regenerate_slots"
	updateAvailabilityHandler "github.com/salonmarket/booking-service/internal/api/handlers/update_availability"
	updateBookingHandler "github.com/salonmarket/booking-service/internal/api/handlers/update_booking"
	updateSlotHandler "github.com/salonmarket/booking-service/internal/api/handlers/update_slot"
	withdrawAvailabilityHandler "github.com/salonmarket/booking-service/internal/api/handlers/withdraw_availability"
	"github.com/salonmarket/booking-service/internal/api/middleware"
	"github.com/salonmarket/booking-service/internal/config"
	"github.com/salonmarket/booking-service/internal/domain"
	catalogCache "github.com/salonmarket/booking-service/internal/infra/cache/catalog"
	availabilityRepo "github.com/salonmarket/booking-service/internal/infra/storage/availability"
	bookingRepo "github.com/salonmarket/booking-service/internal/infra/storage/booking"
	catalogRepo "github.com/salonmarket/booking-service/internal/infra/storage/catalog"
	slotRepo "github.com/salonmarket/booking-service/internal/infra/storage/slot"
	"github.com/salonmarket/booking-service/internal/jobs"
	availabilityService "github.com/salonmarket/booking-service/internal/service/availability"
	bookingsService "github.com/salonmarket/booking-service/internal/service/bookings"
	slotsService "github.com/salonmarket/booking-service/internal/service/slots"
	createBookingUC "github.com/salonmarket/booking-service/internal/usecase/create_booking"
	declareAvailabilityUC "github.com/salonmarket/booking-service/internal/usecase/declare_availability"
	getAvailableSlotsUC "github.com/salonmarket/booking-service/internal/usecase/get_available_slots"
	getFreeWindowsUC "github.com/salonmarket/booking-service/internal/usecase/get_free_windows"
	"github.com/salonmarket/booking-service/pkg/dbmetrics"
	"github.com/salonmarket/booking-service/pkg/logger"
	"github.com/salonmarket/booking-service/pkg/metrics"
	"github.com/salonmarket/booking-service/pkg/simpletxmanager"
	"github.com/salonmarket/booking-service/pkg/txmanager"
)

func main() {
	// Переменные окружения из .env (если файл есть) дополняют config.toml
	_ = godotenv.Load()

	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting booking-service...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Инициализируем репозитории (с метриками или без)
	var (
		availabilityRepository *availabilityRepo.Repository
		slotRepository         *slotRepo.Repository
		bookingRepository      *bookingRepo.Repository
		catalogRepository      *catalogRepo.Repository
	)

	// Интерфейс transaction manager, общий для сервисов и use cases
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		availabilityRepository = availabilityRepo.NewRepository(wrappedDB)
		slotRepository = slotRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		availabilityRepository = availabilityRepo.NewRepository(db)
		slotRepository = slotRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Каталог: прямой доступ к БД либо Redis-кеш поверх него
	type CatalogProvider interface {
		GetMaster(ctx context.Context, id int64) (*domain.Master, error)
		GetClient(ctx context.Context, id int64) (*domain.Client, error)
		GetService(ctx context.Context, id int64) (*domain.Service, error)
	}
	var catalog CatalogProvider = catalogRepository

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		defer rdb.Close()

		catalog = catalogCache.New(rdb, catalogRepository, time.Duration(cfg.Redis.TTLSeconds)*time.Second, log)
		log.Info("Catalog cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTLSeconds)
	}

	// Инициализируем сервисы
	availabilitySvc := availabilityService.NewService(
		availabilityRepository,
		slotRepository,
		txMgr,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		slotRepository,
		txMgr,
		log,
	)
	slotSvc := slotsService.NewService(
		slotRepository,
		bookingRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	declareAvailabilityUseCase := declareAvailabilityUC.NewUseCase(
		availabilityRepository,
		slotRepository,
		catalog,
		txMgr,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		catalog,
		txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		availabilityRepository,
		slotRepository,
		bookingRepository,
		catalog,
		txMgr,
		log,
	)
	getFreeWindowsUseCase := getFreeWindowsUC.NewUseCase(
		slotRepository,
		bookingRepository,
		log,
	)

	// Инициализируем handlers
	declareAvailability := declareAvailabilityHandler.NewHandler(declareAvailabilityUseCase, log)
	updateAvailability := updateAvailabilityHandler.NewHandler(availabilitySvc, log)
	withdrawAvailability := withdrawAvailabilityHandler.NewHandler(availabilitySvc, log)
	regenerateSlots := regenerateSlotsHandler.NewHandler(availabilitySvc, log)
	listAvailability := listAvailabilityHandler.NewHandler(availabilitySvc, log)
	createSlot := createSlotHandler.NewHandler(slotSvc, log)
	updateSlot := updateSlotHandler.NewHandler(slotSvc, log)
	deleteSlot := deleteSlotHandler.NewHandler(slotSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getFreeWindows := getFreeWindowsHandler.NewHandler(getFreeWindowsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBooking := updateBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(bookingSvc, log)
	getMasterBookings := getMasterBookingsHandler.NewHandler(bookingSvc, log)

	// Фоновая очистка soft-deleted записей
	scheduler := jobs.NewScheduler(
		cfg.Jobs,
		availabilityRepository,
		bookingRepository,
		&createBookingUC.RealTimeProvider{},
		log,
	)
	if err := scheduler.Start(); err != nil {
		log.Fatal("Failed to start background jobs: %v", err)
	}

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные для бронирования слоты мастера на дату
	api.HandleFunc("/masters/{masterId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Свободные окна произвольной длительности
	api.HandleFunc("/masters/{masterId}/free-windows",
		getFreeWindows.Handle).Methods(http.MethodGet)

	// Расписание мастера (с опциональной выдачей слотов через ?withSlots=true)
	api.HandleFunc("/masters/{masterId}/availability",
		listAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Расписание мастера ---
	// Декларация доступности на дату
	protected.HandleFunc("/masters/{masterId}/availability",
		declareAvailability.Handle).Methods(http.MethodPost)

	// Принудительная перегенерация слотов на дату
	protected.HandleFunc("/masters/{masterId}/availability/regenerate",
		regenerateSlots.Handle).Methods(http.MethodPost)

	// Частичное обновление декларации
	protected.HandleFunc("/masters/{masterId}/availability/{availabilityId}",
		updateAvailability.Handle).Methods(http.MethodPut)

	// Отзыв декларации
	protected.HandleFunc("/masters/{masterId}/availability/{availabilityId}",
		withdrawAvailability.Handle).Methods(http.MethodDelete)

	// --- Ручные слоты ---
	// Точечное создание слота мастером
	protected.HandleFunc("/masters/{masterId}/slots",
		createSlot.Handle).Methods(http.MethodPost)

	// Правка границ или привязки к услуге
	protected.HandleFunc("/masters/{masterId}/slots/{slotId}",
		updateSlot.Handle).Methods(http.MethodPut)

	// Удаление незабронированного слота
	protected.HandleFunc("/masters/{masterId}/slots/{slotId}",
		deleteSlot.Handle).Methods(http.MethodDelete)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Перенос / правка бронирования
	protected.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPatch)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Подтверждение бронирования
	protected.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPatch)

	// История бронирований клиента
	protected.HandleFunc("/clients/{clientId}/bookings", getClientBookings.Handle).Methods(http.MethodGet)

	// Бронирования мастера с фильтрами
	protected.HandleFunc("/masters/{masterId}/bookings", getMasterBookings.Handle).Methods(http.MethodGet)

	// CORS для браузерных клиентов
	corsHandler := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins([]string{"*"}),
		gorillahandlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "X-User-ID", "X-Request-ID"}),
	)(r)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
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

	// Останавливаем фоновые задачи
	scheduler.Stop()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
