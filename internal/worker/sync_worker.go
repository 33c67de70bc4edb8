package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"taxiledger/internal/amqp"
	"taxiledger/internal/core"
	"taxiledger/internal/log"
	"taxiledger/internal/records"
	"taxiledger/internal/sheets"
)

// SyncWorker keeps the spreadsheet mirror in step with the expense ledger.
// Events keep it current; a periodic full export repairs anything a lost
// event left behind.
type SyncWorker struct {
	expenses   records.ExpenseStore
	categories records.CategoryStore
	mirror     sheets.ExpenseMirror
	interval   time.Duration
	logger     *log.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewSyncWorker(store records.Store, mirror sheets.ExpenseMirror, interval time.Duration, logger *log.Logger) *SyncWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &SyncWorker{
		expenses:   store,
		categories: store,
		mirror:     mirror,
		interval:   interval,
		logger:     logger.WithComponent(log.ComponentWorker),
	}
}

// HandleEvent is the AMQP handler. A returned error requeues the message.
func (w *SyncWorker) HandleEvent(ctx context.Context, ev *amqp.ExpenseEvent) error {
	w.logger.InfoContext(ctx, "Processing expense event",
		log.FieldEventType, ev.Type,
		log.FieldExpenseID, ev.ID)

	switch ev.Type {
	case amqp.EventExpenseSaved:
		return w.handleSaved(ctx, ev.ID)
	case amqp.EventExpenseDeleted:
		return w.handleDeleted(ctx, ev.ID)
	default:
		w.logger.WarnContext(ctx, "Ignoring unknown event type", log.FieldEventType, ev.Type)
		return nil
	}
}

func (w *SyncWorker) handleSaved(ctx context.Context, id string) error {
	expense, err := w.expenses.GetExpense(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		// Deleted before we got here; the delete event clears the row.
		w.logger.WarnContext(ctx, "Saved expense no longer exists", log.FieldExpenseID, id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get expense %s: %w", id, err)
	}
	categories, err := w.categories.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}

	// Saves are upserts, so drop any earlier row for the same ID first.
	if err := w.mirror.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("clear previous row: %w", err)
	}
	if err := w.mirror.AppendExpense(ctx, sheets.RowFor(expense, categories)); err != nil {
		return fmt.Errorf("append to mirror: %w", err)
	}

	w.logger.InfoContext(ctx, "Expense mirrored",
		log.NewFields().WithOperation(log.OpSync).WithExpense(expense.ID, expense.CategoryID, expense.Amount, expense.Date).ToSlice()...)
	return nil
}

func (w *SyncWorker) handleDeleted(ctx context.Context, id string) error {
	if err := w.mirror.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete from mirror: %w", err)
	}
	w.logger.InfoContext(ctx, "Expense removed from mirror", log.FieldOperation, log.OpDelete, log.FieldExpenseID, id)
	return nil
}

// ExportAll rewrites the mirror from the store.
func (w *SyncWorker) ExportAll(ctx context.Context) error {
	var (
		expenses   []core.Expense
		categories []core.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = w.expenses.ListExpenses(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = w.categories.ListCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	if err := w.mirror.ReplaceAll(ctx, sheets.RowsFor(expenses, categories)); err != nil {
		return fmt.Errorf("replace mirror: %w", err)
	}
	w.logger.InfoContext(ctx, "Full export completed", log.FieldOperation, log.OpExport, log.FieldCount, len(expenses))
	return nil
}

// Start runs ExportAll immediately and then every interval until Stop is
// called or ctx ends. It returns an error if the worker is already running.
func (w *SyncWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("sync worker is already running")
	}
	if w.interval <= 0 {
		w.mu.Unlock()
		return fmt.Errorf("invalid export interval %v", w.interval)
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	stopCh, doneCh := w.stopCh, w.doneCh
	w.mu.Unlock()

	go w.runLoop(ctx, stopCh, doneCh)

	w.logger.InfoContext(ctx, "Sync worker started", "interval", w.interval)
	return nil
}

// Stop signals the loop and waits for it, bounded by ctx.
func (w *SyncWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	stopCh, doneCh := w.stopCh, w.doneCh
	w.running = false
	w.mu.Unlock()

	close(stopCh)
	select {
	case <-doneCh:
		w.logger.InfoContext(ctx, "Sync worker stopped")
		return nil
	case <-ctx.Done():
		w.logger.WarnContext(ctx, "Sync worker stop timed out")
		return ctx.Err()
	}
}

func (w *SyncWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *SyncWorker) runLoop(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.export(ctx)
	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.export(ctx)
		}
	}
}

func (w *SyncWorker) export(ctx context.Context) {
	if err := w.ExportAll(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Periodic export failed", log.FieldError, err)
	}
}
