package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"taxiledger/internal/services"
)

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default categories into an empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore(cmd.Context(), false)
			if err != nil {
				return err
			}
			n, err := services.NewExpenseService(store, nil, nil, a.logger).SeedCategories(cmd.Context())
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Categories already present, nothing to seed")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d default categories\n", n)
			return nil
		},
	}
}
