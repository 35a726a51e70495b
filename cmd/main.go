package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/m04kA/SMC-FacilityBooking/internal/api"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/check_availability"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/create_request"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/create_resource"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/delete_request"
	getCalendarHandler "github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/get_calendar"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/get_request"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/get_resource"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/list_invoices"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/list_requests"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/list_resources"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/payment_callback"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/request_extension"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/resolve_extension"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/transition_request"
	"github.com/m04kA/SMC-FacilityBooking/internal/config"
	"github.com/m04kA/SMC-FacilityBooking/internal/infra/locker/local"
	"github.com/m04kA/SMC-FacilityBooking/internal/infra/locker/redislock"
	"github.com/m04kA/SMC-FacilityBooking/internal/integrations/notifier"
	"github.com/m04kA/SMC-FacilityBooking/internal/integrations/refundservice"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/availability"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/billing"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/catalog"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/ledger"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle"
	confirmPaymentUC "github.com/m04kA/SMC-FacilityBooking/internal/usecase/confirm_payment"
	getCalendarUC "github.com/m04kA/SMC-FacilityBooking/internal/usecase/get_calendar"
	"github.com/m04kA/SMC-FacilityBooking/internal/worker"
	"github.com/m04kA/SMC-FacilityBooking/pkg/logger"
	"github.com/m04kA/SMC-FacilityBooking/pkg/metrics"
)

func main() {
	configPath := pflag.StringP("config", "c", "config.toml", "path to TOML config file")
	pflag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
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

	log.Info("Starting SMC-FacilityBooking...")
	log.Info("Configuration loaded from %s", *configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище
	store, err := openStorage(cfg, log, metricsCollector, stopMetricsCh)
	if err != nil {
		log.Fatal("Failed to initialize storage: %v", err)
	}
	defer store.close()

	// Блокировки заявок и ресурсов
	var lock lifecycle.Locker
	switch cfg.Lifecycle.Locker {
	case config.LockerRedis:
		redisClient, err := redislock.NewClient(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		lock = redislock.New(redisClient, redislock.Config{
			TTL:        time.Duration(cfg.Redis.LockTTL) * time.Second,
			RetryDelay: time.Duration(cfg.Redis.LockRetryMin) * time.Millisecond,
		}, log)
		log.Info("Redis locker initialized (addr=%s)", cfg.Redis.Addr)
	default:
		lock = local.New()
		log.Info("Local locker initialized (single instance only)")
	}

	// Уведомления
	var publisher notifier.Publisher
	if cfg.RabbitMQ.Enabled {
		amqpPublisher := notifier.NewAMQPPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		log.Info("RabbitMQ publisher initialized (exchange=%s)", cfg.RabbitMQ.Exchange)
	} else {
		publisher = notifier.NewLogPublisher(log)
		log.Warn("RabbitMQ disabled: events are written to the log")
	}
	dispatcher := notifier.NewDispatcher(publisher, notifier.DispatcherConfig{
		RetryInterval: time.Duration(cfg.RabbitMQ.RetryInterval) * time.Second,
		MaxRetries:    cfg.RabbitMQ.MaxRetries,
		QueueSize:     cfg.RabbitMQ.RetryQueue,
	}, log, metricsCollector)

	// Сервис возвратов
	var refunds billing.RefundClient
	if cfg.RefundService.URL != "" {
		refunds = refundservice.NewClient(cfg.RefundService.URL, time.Duration(cfg.RefundService.Timeout)*time.Second, log)
		log.Info("Refund client initialized (url=%s, timeout=%ds)", cfg.RefundService.URL, cfg.RefundService.Timeout)
	} else {
		log.Warn("Refund service URL is not set: refunds are only flagged on invoices")
	}

	// Инициализируем сервисы
	catalogSvc := catalog.NewService(store.resources, log)
	engine := availability.NewEngine(store.resources, store.allocations, metricsCollector, log)
	ledgerSvc := ledger.NewService(store.allocations, store.resources, metricsCollector, log)
	billingSvc := billing.NewService(
		store.invoices,
		store.sequence,
		refunds,
		store.txManager,
		dispatcher,
		metricsCollector,
		log,
		billing.Config{
			InvoiceDueDays: cfg.Billing.InvoiceDueDays,
			RequirePayment: cfg.Billing.RequirePayment,
		},
	)
	lifecycleSvc := lifecycle.NewService(
		store.requests,
		store.resources,
		engine,
		ledgerSvc,
		billingSvc,
		lock,
		store.txManager,
		store.sequence,
		dispatcher,
		metricsCollector,
		log,
		lifecycle.Config{
			AutoApproveExtensions: cfg.Lifecycle.AutoApproveExtensions,
			LockWait:              time.Duration(cfg.Redis.LockWait) * time.Second,
		},
	)

	// Инициализируем use cases
	getCalendarUseCase := getCalendarUC.NewUseCase(store.resources, engine, log)
	confirmPaymentUseCase := confirmPaymentUC.NewUseCase(billingSvc, lifecycleSvc, log)

	// Инициализируем handlers и роутер
	routerOpts := api.Options{}
	if cfg.Metrics.Enabled {
		routerOpts = api.Options{
			Metrics:        metricsCollector,
			MetricsHandler: promhttp.Handler(),
			MetricsPath:    cfg.Metrics.Path,
		}
		log.Info("HTTP metrics middleware enabled, endpoint exposed at %s", cfg.Metrics.Path)
	}

	r := api.NewRouter(api.Handlers{
		ListResources:     list_resources.NewHandler(catalogSvc, log),
		GetResource:       get_resource.NewHandler(catalogSvc, log),
		CreateResource:    create_resource.NewHandler(catalogSvc, log),
		CheckAvailability: check_availability.NewHandler(engine, log),
		GetCalendar:       getCalendarHandler.NewHandler(getCalendarUseCase, log),
		CreateRequest:     create_request.NewHandler(lifecycleSvc, log),
		GetRequest:        get_request.NewHandler(lifecycleSvc, log),
		ListRequests:      list_requests.NewHandler(lifecycleSvc, log),
		DeleteRequest:     delete_request.NewHandler(lifecycleSvc, log),
		Transitions:       transition_request.NewHandler(lifecycleSvc, log),
		RequestExtension:  request_extension.NewHandler(lifecycleSvc, log),
		ResolveExtension:  resolve_extension.NewHandler(lifecycleSvc, log),
		ListInvoices:      list_invoices.NewHandler(lifecycleSvc, billingSvc, log),
		PaymentCallback:   payment_callback.NewHandler(confirmPaymentUseCase, log),
	}, routerOpts)

	// Фоновые задачи
	workersCtx, stopWorkers := context.WithCancel(context.Background())
	runner := worker.NewRunner(log,
		worker.Job{
			Name:     "lifecycle-tick",
			Interval: time.Duration(cfg.Workers.TickInterval) * time.Second,
			Run:      lifecycleSvc.Tick,
		},
		worker.Job{
			Name:     "overdue-invoices",
			Interval: time.Duration(cfg.Workers.OverdueSweepInterval) * time.Second,
			Run:      billingSvc.SweepOverdue,
		},
	)
	runner.Start(workersCtx)

	dispatcherDone := make(chan struct{})
	go func() {
		defer close(dispatcherDone)
		dispatcher.Run(workersCtx)
	}()

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

	// Останавливаем фоновые задачи после HTTP, чтобы последние события успели уйти
	stopWorkers()
	runner.Wait()
	<-dispatcherDone

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}
