package backend

import (
	"context"
	"errors"
	"fmt"

	"spendlog/internal/amqp"
	"spendlog/internal/ledger"
	"spendlog/internal/ledger/memory"
	"spendlog/internal/log"
	"spendlog/internal/services"
	"spendlog/internal/storage"
	"spendlog/internal/storage/postgres"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateBackend opens the configured ledger and, when AMQP is configured,
// a publisher. A broker that cannot be reached is logged and skipped.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		l       ledger.Ledger
		closeFn CleanupFunc
	)
	switch config.Type {
	case MemoryBackend:
		l = memory.New()
		f.logger.Info("Initialized memory ledger")
	case SQLiteBackend:
		repo, err := storage.NewSQLiteLedger(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite ledger: %w", err)
		}
		l, closeFn = repo, repo.Close
		f.logger.Info("Initialized SQLite ledger", "db_path", config.SQLiteDBPath)
	case PostgresBackend:
		pg, err := postgres.Open(ctx, config.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres ledger: %w", err)
		}
		l, closeFn = pg, pg.Close
		f.logger.Info("Initialized Postgres ledger")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	result := &BackendResult{Ledger: l}

	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		} else {
			amqpClient = client
			result.Publisher = client
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	result.Cleanup = func() error {
		var errs []error
		if amqpClient != nil {
			errs = append(errs, amqpClient.Close())
		}
		if closeFn != nil {
			errs = append(errs, closeFn())
		}
		return errors.Join(errs...)
	}
	return result, nil
}

// NewService builds the expense service on top of a backend result.
func NewService(result *BackendResult) *services.ExpenseService {
	return services.NewExpenseService(result.Ledger, result.Publisher)
}
