package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"portfolio-chat/backend/internal/api"
	"portfolio-chat/backend/internal/config"
	"portfolio-chat/backend/internal/llm"
	"portfolio-chat/backend/internal/metrics"
	"portfolio-chat/backend/internal/profile"
	"portfolio-chat/backend/internal/prompt"
	"portfolio-chat/backend/internal/service"
)

// App is the fully wired relay server.
type App struct {
	Config  *config.Config
	Profile *profile.Profile
	Metrics *metrics.Metrics
	Server  *http.Server
}

// NewApp wires every component from cfg. A missing upstream credential is
// logged but does not prevent startup.
func NewApp(cfg *config.Config) (*App, error) {
	p, err := loadProfile(cfg.ProfilePath)
	if err != nil {
		return nil, err
	}

	composer, err := prompt.NewComposer(p)
	if err != nil {
		return nil, fmt.Errorf("could not build system prompts: %w", err)
	}

	provider := llm.NewAnthropicProvider(llm.AnthropicConfig{
		APIKey:  cfg.AnthropicAPIKey,
		BaseURL: cfg.AnthropicBaseURL,
		Model:   cfg.Model,
	})
	if !provider.Configured() {
		slog.Warn("ANTHROPIC_API_KEY is not set; relay requests will be refused until it is configured")
	}

	relayService := service.NewRelayService(provider, composer, service.RelayLimits{
		ChatMaxTokens:  cfg.ChatMaxTokens,
		LearnMaxTokens: cfg.LearnMaxTokens,
	})
	m := metrics.NewMetrics()
	relayHandler := api.NewRelayHandler(relayService, m)
	router := api.NewRouter(relayHandler, m.Handler(), cfg.StaticDir)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for streaming endpoints
		IdleTimeout:       120 * time.Second,
	}

	return &App{Config: cfg, Profile: p, Metrics: m, Server: server}, nil
}

// Serve runs the server until ctx is cancelled, then shuts it down, giving
// open streams up to the configured timeout to finish.
func (a *App) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", a.Config.AppPort, "model", a.Config.Model)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server", "timeout", a.Config.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return <-errCh
}

func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	slog.SetDefault(newLogger(cfg.LogLevel, os.Stdout))

	logConfigSource(cfg)

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Serve(ctx); err != nil {
		slog.Error("Server failed", "error", err)
		return 1
	}
	slog.Info("Server stopped")
	return 0
}

func loadProfile(path string) (*profile.Profile, error) {
	if path == "" {
		return profile.Default()
	}
	p, err := profile.Load(path)
	if err != nil {
		return nil, err
	}
	slog.Info("Loaded profile override", "path", path, "name", p.Name)
	return p, nil
}

// logConfigSource reports where the settings came from and the relay
// settings that matter when debugging a deployment. The API key is never
// logged, only whether one is present.
func logConfigSource(cfg *config.Config) {
	source := viper.ConfigFileUsed()
	if source == "" {
		source = "environment"
	}
	slog.Info("Configuration loaded",
		"source", source,
		"model", cfg.Model,
		"api_key_present", cfg.AnthropicAPIKey != "",
		"chat_max_tokens", cfg.ChatMaxTokens,
		"learn_max_tokens", cfg.LearnMaxTokens,
	)
}

// newLogger builds the JSON logger for the server. Unknown levels fall back
// to INFO.
func newLogger(logLevel string, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(logLevel))); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
