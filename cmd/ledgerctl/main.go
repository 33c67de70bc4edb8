// Command ledgerctl is the operator CLI: reports, invoice totals, backups
// and category seeding against the configured record store.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"taxiledger/internal/backend"
	"taxiledger/internal/calendar"
	"taxiledger/internal/cli"
	"taxiledger/internal/config"
	"taxiledger/internal/log"
	"taxiledger/internal/records"
)

// app opens the store on first use so commands that never touch it, such as
// invoice totals, need no configured backend.
type app struct {
	logger  *log.Logger
	cfg     *config.Config
	store   records.Store
	cleanup backend.CleanupFunc
}

func (a *app) config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := cli.LoadConfig()
	if err != nil {
		return nil, err
	}
	a.cfg = cfg
	return cfg, nil
}

func (a *app) openStore(ctx context.Context, seedDefaults bool) (records.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	backendCfg.SeedDefaults = seedDefaults
	res, err := backend.NewFactory(a.logger).CreateStore(ctx, backendCfg)
	if err != nil {
		return nil, err
	}
	a.store, a.cleanup = res.Store, res.Cleanup
	return a.store, nil
}

func (a *app) clock() (*calendar.Clock, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	system, err := calendar.Parse(cfg.LedgerCalendar)
	if err != nil {
		return nil, err
	}
	return calendar.NewClock(system), nil
}

func (a *app) close() {
	if a.cleanup == nil {
		return
	}
	if err := a.cleanup(); err != nil {
		a.logger.Warn("Failed to close record store", log.FieldError, err)
	}
	a.cleanup, a.store = nil, nil
}

func newRootCmd(a *app) *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Inspect and maintain the taxi ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if logLevel == "" {
				logLevel = os.Getenv("LOG_LEVEL")
			}
			cfg := log.DefaultConfig()
			cfg.Level = slog.LevelWarn
			if lvl, err := log.ParseLevel(logLevel); err == nil && logLevel != "" {
				cfg.Level = lvl
			}
			cfg.Output = cmd.ErrOrStderr()
			a.logger = log.New(cfg)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to LOG_LEVEL or warn")

	root.AddCommand(
		newReportCmd(a),
		newInvoiceCmd(),
		newBackupCmd(a),
		newSeedCmd(a),
	)
	return root
}

func main() {
	cli.LoadEnvFile()
	a := &app{logger: log.New(log.DefaultConfig())}
	defer a.close()

	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		a.close()
		os.Exit(1)
	}
}
