// Package backend builds the record store and expense mirror the binaries
// run against.
package backend

import (
	"context"
	"fmt"

	"taxiledger/internal/log"
	"taxiledger/internal/records"
	recmemory "taxiledger/internal/records/memory"
	"taxiledger/internal/sheets"
	"taxiledger/internal/sheets/google"
	sheetmemory "taxiledger/internal/sheets/memory"
	"taxiledger/internal/storage"
)

type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

func (f *DefaultFactory) CreateStore(ctx context.Context, config Config) (*StoreResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		result *StoreResult
		err    error
	)
	switch config.Type {
	case SQLiteBackend:
		result, err = f.createSQLiteStore(config)
	case MemoryBackend:
		result, err = f.createMemoryStore(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	if config.SeedDefaults {
		n, err := records.SeedDefaultCategories(ctx, result.Store)
		if err != nil {
			if result.Cleanup != nil {
				_ = result.Cleanup()
			}
			return nil, fmt.Errorf("seed default categories: %w", err)
		}
		if n > 0 {
			f.logger.InfoContext(ctx, "Seeded default categories", log.FieldOperation, log.OpSeed, log.FieldCount, n)
		}
	}
	return result, nil
}

func (f *DefaultFactory) createSQLiteStore(config Config) (*StoreResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	if config.SeedFile != "" {
		f.logger.Warn("Seed file ignored by the sqlite backend, use the backup import instead", "seed_file", config.SeedFile)
	}
	version, dirty, err := storage.SchemaVersion(config.SQLiteDBPath)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}
	if dirty {
		_ = repo.Close()
		return nil, fmt.Errorf("sqlite schema version %d is dirty, fix the failed migration first", version)
	}
	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath, "schema_version", version)
	return &StoreResult{
		Store:   repo,
		Ready:   repo.Ping,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryStore(config Config) (*StoreResult, error) {
	store, err := recmemory.NewFromFile(config.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize memory backend: %w", err)
	}
	f.logger.Info("Initialized memory backend", "seed_file", config.SeedFile)
	return &StoreResult{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}

// CreateMirror returns the Google Sheets mirror when a spreadsheet is
// configured, otherwise an in-process mirror that only keeps rows in memory.
func (f *DefaultFactory) CreateMirror(ctx context.Context, config MirrorConfig) (sheets.ExpenseMirror, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.SpreadsheetID == "" {
		f.logger.Warn("No spreadsheet configured, mirroring expenses in memory only")
		return sheetmemory.New(), nil
	}

	client, err := google.New(ctx, google.Config{
		SpreadsheetID:   config.SpreadsheetID,
		SheetName:       config.SheetName,
		CredentialsFile: config.CredentialsFile,
		CredentialsJSON: config.CredentialsJSON,
		BatchSize:       config.BatchSize,
	}, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}
	f.logger.Info("Initialized Google Sheets mirror", "sheet", config.SheetName)
	return client, nil
}
