package main

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/config"
	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	allocationRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/allocation"
	invoiceRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/invoice"
	"github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/memory"
	requestRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/request"
	resourceRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/resource"
	"github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/sequence"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/availability"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/billing"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/catalog"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/ledger"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle"
	getCalendar "github.com/m04kA/SMC-FacilityBooking/internal/usecase/get_calendar"
	"github.com/m04kA/SMC-FacilityBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-FacilityBooking/pkg/logger"
	"github.com/m04kA/SMC-FacilityBooking/pkg/metrics"
	"github.com/m04kA/SMC-FacilityBooking/pkg/txmanager"
)

// Интерфейсы хранилища, общие для postgres и memory реализаций

type resourceRepository interface {
	catalog.ResourceRepository
	availability.ResourceRepository
	ledger.ResourceRepository
	lifecycle.ResourceRepository
	getCalendar.ResourceRepository
}

type allocationRepository interface {
	availability.AllocationRepository
	ledger.AllocationRepository
}

type sequenceGenerator interface {
	billing.SequenceGenerator
	lifecycle.SequenceGenerator
}

type transactionManager interface {
	billing.TxManager
	lifecycle.TxManager
}

type storage struct {
	resources   resourceRepository
	allocations allocationRepository
	requests    lifecycle.RequestRepository
	invoices    billing.InvoiceRepository
	sequence    sequenceGenerator
	txManager   transactionManager
	close       func()
}

// openStorage создает репозитории выбранного драйвера
func openStorage(cfg *config.Config, log *logger.Logger, m *metrics.Metrics, stopMetricsCh <-chan struct{}) (*storage, error) {
	if cfg.Database.Driver == config.DriverMemory {
		log.Warn("Using in-memory storage: data is lost on restart")
		store := memory.NewStore()
		return &storage{
			resources:   store.Resources(),
			allocations: store.Allocations(),
			requests:    store.Requests(),
			invoices:    store.Invoices(),
			sequence:    store.Sequence(),
			txManager:   store,
			close:       func() {},
		}, nil
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, m, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	return &storage{
		resources:   resourceRepo.NewRepository(wrappedDB),
		allocations: allocationRepo.NewRepository(wrappedDB),
		requests:    requestRepo.NewRepository(wrappedDB),
		invoices:    invoiceRepo.NewRepository(wrappedDB),
		sequence:    sequence.NewGenerator(wrappedDB, domain.SequenceRequests, domain.SequenceInvoices),
		txManager:   txmanager.NewTransactionManager(wrappedDB),
		close:       func() { db.Close() },
	}, nil
}
