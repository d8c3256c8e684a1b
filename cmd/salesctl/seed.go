package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/capitalize-ai/sales-assistant/internal/app"
	"github.com/capitalize-ai/sales-assistant/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample catalog when the store has no products",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	cfg.SeedCatalog = false

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	gw, err := app.OpenStore(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer gw.Close()

	n, err := store.SeedIfEmpty(cmd.Context(), gw)
	if err != nil {
		return err
	}

	if n == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Catalog already has products, nothing to do.")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d products.\n", n)
	return nil
}
