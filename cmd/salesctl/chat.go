package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/capitalize-ai/sales-assistant/internal/app"
	"github.com/capitalize-ai/sales-assistant/internal/transport"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the assistant from this terminal",
	Long:  `chat runs the full message pipeline locally. Type messages at the prompt; "comprar <n>" buys a listed product and "/pedidos" shows your orders. Ctrl-D or Ctrl-C ends the session.`,
	RunE:  runChat,
}

var chatUser string

func init() {
	chatCmd.Flags().StringVar(&chatUser, "user", "console", "User id for the session")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log, app.Options{SkipIntegrations: true})
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	a.Start(runCtx)

	console := transport.NewConsole(chatUser, cmd.OutOrStdout())
	fmt.Fprintf(cmd.OutOrStdout(), "Conversando como %s. Ctrl-D para sair.\n", chatUser)

	runErr := a.RunConsole(runCtx, console)

	cancel()
	_ = console.Close()
	a.Close()
	return runErr
}
