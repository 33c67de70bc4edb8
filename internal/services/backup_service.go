package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"taxiledger/internal/core"
	"taxiledger/internal/log"
	"taxiledger/internal/records"
)

var ErrUnsupportedSnapshot = errors.New("unsupported snapshot version")

// BackupService exports and restores the whole record store.
type BackupService struct {
	store   records.Store
	reports Invalidator
	logger  *log.Logger
	now     func() time.Time
}

func NewBackupService(store records.Store, reports Invalidator, logger *log.Logger) *BackupService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &BackupService{
		store:   store,
		reports: reports,
		logger:  logger.WithComponent(log.ComponentBackup),
		now:     time.Now,
	}
}

// FileName is the download name for a backup taken at t.
func FileName(t time.Time) string {
	return "taxi_invoice_backup_" + t.UTC().Format("2006-01-02") + ".json"
}

// Export reads every collection into a snapshot.
func (s *BackupService) Export(ctx context.Context) (records.Snapshot, error) {
	snap := records.Snapshot{
		Timestamp: s.now().UTC(),
		Version:   records.SnapshotVersion,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Customers, err = s.store.ListCustomers(gctx)
		return wrap("customers", err)
	})
	g.Go(func() error {
		var err error
		snap.Company, err = s.store.GetCompany(gctx)
		return wrap("company", err)
	})
	g.Go(func() error {
		var err error
		snap.Categories, err = s.store.ListCategories(gctx)
		return wrap("categories", err)
	})
	g.Go(func() error {
		var err error
		snap.Expenses, err = s.store.ListExpenses(gctx)
		return wrap("expenses", err)
	})
	if err := g.Wait(); err != nil {
		return records.Snapshot{}, err
	}
	if snap.Customers == nil {
		snap.Customers = []core.Customer{}
	}
	if snap.Categories == nil {
		snap.Categories = []core.Category{}
	}
	if snap.Expenses == nil {
		snap.Expenses = []core.Expense{}
	}

	s.logger.InfoContext(ctx, "Backup exported",
		log.FieldOperation, log.OpExport,
		log.FieldCount, len(snap.Expenses),
		"customers", len(snap.Customers),
		"categories", len(snap.Categories))
	return snap, nil
}

// ExportJSON encodes an export as indented JSON.
func (s *BackupService) ExportJSON(ctx context.Context, w io.Writer) error {
	snap, err := s.Export(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// RestoreStats counts what a restore wrote.
type RestoreStats struct {
	Customers  int  `json:"customers"`
	Categories int  `json:"categories"`
	Expenses   int  `json:"expenses"`
	Company    bool `json:"company"`
}

// Restore upserts every record in snap. Records already in the store and
// absent from snap are kept.
func (s *BackupService) Restore(ctx context.Context, snap records.Snapshot) (RestoreStats, error) {
	if snap.Version != "" && snap.Version != records.SnapshotVersion {
		return RestoreStats{}, fmt.Errorf("%w: %q", ErrUnsupportedSnapshot, snap.Version)
	}

	// Anything written before a failure must still be visible to reports.
	if s.reports != nil {
		defer s.reports.Invalidate()
	}

	var stats RestoreStats
	for _, c := range snap.Categories {
		if err := s.store.SaveCategory(ctx, c); err != nil {
			return stats, fmt.Errorf("restore category %s: %w", c.ID, err)
		}
		stats.Categories++
	}
	for _, c := range snap.Customers {
		if err := s.store.SaveCustomer(ctx, c); err != nil {
			return stats, fmt.Errorf("restore customer %s: %w", c.ID, err)
		}
		stats.Customers++
	}
	for _, e := range snap.Expenses {
		if err := s.store.SaveExpense(ctx, e); err != nil {
			return stats, fmt.Errorf("restore expense %s: %w", e.ID, err)
		}
		stats.Expenses++
	}
	if snap.Company != nil {
		if err := s.store.SaveCompany(ctx, *snap.Company); err != nil {
			return stats, fmt.Errorf("restore company: %w", err)
		}
		stats.Company = true
	}

	s.logger.InfoContext(ctx, "Backup restored",
		log.FieldOperation, log.OpRestore,
		log.FieldCount, stats.Expenses,
		"customers", stats.Customers,
		"categories", stats.Categories)
	return stats, nil
}

// RestoreJSON decodes a snapshot from r and restores it.
func (s *BackupService) RestoreJSON(ctx context.Context, r io.Reader) (RestoreStats, error) {
	var snap records.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return RestoreStats{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s.Restore(ctx, snap)
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("export %s: %w", what, err)
	}
	return nil
}
