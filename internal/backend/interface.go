package backend

import (
	"context"

	"taxiledger/internal/records"
	"taxiledger/internal/sheets"
)

// CleanupFunc releases whatever a factory opened.
type CleanupFunc func() error

// StoreResult is a ready record store plus its lifecycle hooks.
type StoreResult struct {
	Store records.Store
	// Ready backs the readiness probe. Nil means the store is always ready.
	Ready   func(context.Context) error
	Cleanup CleanupFunc
}

// Factory builds the record store and the spreadsheet mirror from config.
type Factory interface {
	CreateStore(ctx context.Context, config Config) (*StoreResult, error)
	CreateMirror(ctx context.Context, config MirrorConfig) (sheets.ExpenseMirror, error)
}

// Config selects and configures the record store.
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Memory specific: optional backup snapshot to start from
	SeedFile string

	// SeedDefaults inserts the default categories into an empty store.
	SeedDefaults bool
}

// MirrorConfig selects the expense mirror. An empty SpreadsheetID yields an
// in-process mirror.
type MirrorConfig struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	CredentialsJSON string
	BatchSize       int
}

type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
