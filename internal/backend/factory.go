// Package backend assembles the collaborators selected by configuration:
// where entries persist, where reminders go and where the collection is
// mirrored.
package backend

import (
	"context"
	"errors"
	"fmt"

	"paycycle/internal/amqp"
	"paycycle/internal/log"
	"paycycle/internal/notify"
	"paycycle/internal/sheets"
	gsheet "paycycle/internal/sheets/google"
	"paycycle/internal/sheets/memory"
	"paycycle/internal/storage"
	"paycycle/internal/store"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend. The reminder queue and
// the spreadsheet mirror are optional; without them reminders and mirror
// rows stay in memory.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var cleanups []CleanupFunc
	result := &BackendResult{}

	repo, closeRepo, err := f.createRepository(config)
	if err != nil {
		return nil, err
	}
	result.Repository = repo
	if closeRepo != nil {
		cleanups = append(cleanups, closeRepo)
	}

	result.Sink, err = f.createSink(ctx, config)
	if err != nil {
		runCleanups(cleanups)
		return nil, err
	}
	if c, ok := result.Sink.(*amqp.Client); ok {
		cleanups = append(cleanups, c.Close)
	}

	result.Mirror, err = f.createMirror(ctx, config)
	if err != nil {
		runCleanups(cleanups)
		return nil, err
	}

	result.Cleanup = func() error { return runCleanups(cleanups) }
	return result, nil
}

func (f *DefaultFactory) createRepository(config Config) (store.Repository, CleanupFunc, error) {
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return repo, repo.Close, nil
	case FileBackend:
		f.logger.Info("Initialized file backend", "path", config.DataFile)
		return store.NewFileRepository(config.DataFile), nil, nil
	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		return store.NewMemoryRepository(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSink(ctx context.Context, config Config) (notify.Sink, error) {
	if config.AMQPURL == "" {
		f.logger.Info("Reminder queue disabled - no AMQP_URL provided")
		return notify.NewMemorySink(), nil
	}
	client, err := amqp.NewClient(ctx, config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AMQP client: %w", err)
	}
	f.logger.Info("Initialized AMQP reminder sink",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client, nil
}

func (f *DefaultFactory) createMirror(ctx context.Context, config Config) (sheets.Mirror, error) {
	if config.GoogleSpreadsheetID == "" {
		f.logger.Info("Google Sheets mirror disabled - no GOOGLE_SPREADSHEET_ID provided")
		return memory.New(), nil
	}
	client, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:      config.GoogleSpreadsheetID,
		SheetName:          config.GoogleSheetName,
		ServiceAccountJSON: config.GoogleServiceAccountJSON,
		ServiceAccountFile: config.GoogleServiceAccountFile,
	}, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}
	return client, nil
}

// runCleanups releases resources in reverse order of creation.
func runCleanups(cleanups []CleanupFunc) error {
	var errs []error
	for i := len(cleanups) - 1; i >= 0; i-- {
		if err := cleanups[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
