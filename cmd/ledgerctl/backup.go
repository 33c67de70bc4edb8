package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"taxiledger/internal/services"
)

func newBackupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import a JSON snapshot of every record",
	}
	cmd.AddCommand(newBackupExportCmd(a), newBackupImportCmd(a))
	return cmd
}

func newBackupExportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a snapshot file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := a.openStore(ctx, false)
			if err != nil {
				return err
			}
			svc := services.NewBackupService(store, nil, a.logger)

			if out == "-" {
				return svc.ExportJSON(ctx, cmd.OutOrStdout())
			}
			if out == "" {
				out = services.FileName(time.Now())
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := svc.ExportJSON(ctx, f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output file; - for stdout, default taxi_invoice_backup_<date>.json")
	return cmd
}

func newBackupImportCmd(a *app) *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Upsert every record of a snapshot file into the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var r io.Reader = cmd.InOrStdin()
			if in != "-" {
				f, err := os.Open(in)
				if err != nil {
					return fmt.Errorf("open %s: %w", in, err)
				}
				defer f.Close()
				r = f
			}

			store, err := a.openStore(ctx, false)
			if err != nil {
				return err
			}
			stats, err := services.NewBackupService(store, nil, a.logger).RestoreJSON(ctx, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d expenses, %d categories, %d customers (company: %t)\n",
				stats.Expenses, stats.Categories, stats.Customers, stats.Company)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Snapshot file to import, or - for stdin")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
