package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"portfolio-chat/backend/internal/client"
	"portfolio-chat/backend/internal/conversation"
	"portfolio-chat/backend/internal/tui"
)

func main() {
	var (
		serverURL string
		timeout   time.Duration
		logFile   string
		plain     bool
	)

	rootCmd := &cobra.Command{
		Use:   "chat",
		Short: "Terminal client for the portfolio chat relay",
		Long: "chat talks to a running relay server. Plain lines go to the open chat;\n" +
			"/explore <text> opens an annotation card about a piece of the bio.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := newLogger(logFile)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			relay := client.New(serverURL,
				client.WithHTTPClient(&http.Client{Timeout: timeout}),
				client.WithLogger(logger),
			)
			store := conversation.NewStore()

			ui := tui.New(ctx, store, relay)
			if !plain {
				md, err := tui.NewMarkdownRenderer(76)
				if err != nil {
					logger.Warn("Markdown rendering unavailable", "error", err)
				} else {
					ui = ui.WithMarkdown(md)
				}
			}

			_, err = tea.NewProgram(ui, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("chat client failed: %w", err)
			}
			return nil
		},
	}
	rootCmd.Flags().StringVarP(&serverURL, "server", "s", "http://localhost:3000", "Relay server base URL")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "Per-turn timeout (0 = none)")
	rootCmd.Flags().BoolVar(&plain, "plain", false, "Show replies as plain text instead of rendered markdown")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Write debug logs to this file")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// newLogger keeps logs off the terminal the UI is drawing on.
func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open log file: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)
	return logger, func() { _ = f.Close() }, nil
}
