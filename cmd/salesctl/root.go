package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/capitalize-ai/sales-assistant/internal/config"
	"github.com/capitalize-ai/sales-assistant/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "salesctl",
	Short: "Operate the auto-parts sales assistant",
	Long:  `salesctl seeds the product catalog, lists orders and runs a local chat session against the configured store and language model. Settings come from the environment and .env, like the API server.`,
}

var (
	storeDriver string
	logLevel    string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&storeDriver, "store", "", "Store driver override (memory or postgres)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	cfg := config.Load()
	if storeDriver != "" {
		cfg.StoreDriver = storeDriver
	}
	return cfg
}

func newLogger() (*logger.Logger, error) {
	log, err := logger.New(logger.Config{Level: logLevel, Format: logger.FormatConsole})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logger.SetGlobal(log)
	return log, nil
}
