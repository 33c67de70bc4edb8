package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"taxiledger/internal/core"
	"taxiledger/internal/display"
	"taxiledger/internal/invoice"
)

func newInvoiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoice",
		Short: "Invoice utilities",
	}
	cmd.AddCommand(newInvoiceTotalsCmd())
	return cmd
}

func newInvoiceTotalsCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Compute the totals of an invoice JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := readInvoice(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return printTotals(cmd.OutOrStdout(), invoice.ComputeFor(data))
		},
	}
	cmd.Flags().StringVar(&file, "file", "-", "Invoice JSON file, or - for stdin")
	return cmd
}

func readInvoice(path string, stdin io.Reader) (core.InvoiceData, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return core.InvoiceData{}, fmt.Errorf("open invoice: %w", err)
		}
		defer f.Close()
		r = f
	}
	var data core.InvoiceData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return core.InvoiceData{}, fmt.Errorf("decode invoice: %w", err)
	}
	return data, nil
}

func printTotals(out io.Writer, t core.InvoiceTotals) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Subtotal:\t%s\t\n", display.Rials(t.Subtotal))
	fmt.Fprintf(tw, "Discount:\t%s\t\n", display.Rials(t.DiscountAmount))
	fmt.Fprintf(tw, "Tax:\t%s\t\n", display.Rials(t.TaxAmount))
	fmt.Fprintf(tw, "Total:\t%s\t\n", display.Rials(t.Total))
	return tw.Flush()
}
