package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"budgetbuddy/internal/chatcli"
	"budgetbuddy/internal/config"
	"budgetbuddy/internal/domain"
	"budgetbuddy/internal/llm"
	"budgetbuddy/internal/llm/gemini"
	"budgetbuddy/internal/logger"
	"budgetbuddy/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		date     string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Log expenses by chatting with the budgetbuddy assistant",
		Long: `chat runs the expense conversation locally against the configured model.
Nothing is saved; completed expenses are printed as they are recognised.

Model settings come from the same BUDGETBUDDY_LLM_* variables the server uses.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := config.LoadDotEnv(".env"); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			var currentDate time.Time
			if date != "" {
				currentDate, err = time.ParseInLocation(domain.DateLayout, date, cfg.Chat.Location())
				if err != nil {
					return fmt.Errorf("invalid --date %q, want YYYY-MM-DD", date)
				}
			}

			zl, err := logger.New(logLevel, "console")
			if err != nil {
				return err
			}
			defer func() { _ = zl.Sync() }()

			llm.RegisterProvider("gemini", gemini.Factory)
			completer, err := llm.NewCompleter(&cfg.LLM)
			if err != nil {
				return fmt.Errorf("failed to initialize llm provider: %w", err)
			}

			engine := service.NewConversationEngine(completer, zl,
				service.WithLocation(cfg.Chat.Location()),
				service.WithMaxInputChars(cfg.Chat.MaxInputChars),
			)
			session := chatcli.NewSession(engine, cmd.InOrStdin(), cmd.OutOrStdout(), currentDate)
			if err := session.Run(cmd.Context()); err != nil {
				return err
			}
			zl.Debug("chat session ended", zap.Int("expenses", len(session.Completed())))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "pretend today is this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	return cmd
}
