package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"daybrief/internal/calendar"
	"daybrief/internal/config"
	"daybrief/internal/instrumentation"
	"daybrief/internal/server"
	"daybrief/internal/token"
	"daybrief/internal/weather"
)

// shutdownTimeout bounds graceful shutdown of both HTTP servers.
const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	var (
		debugMode          bool
		httpAddr           string
		tokenFile          string
		googleClientID     string
		googleClientSecret string
		googleRedirectURI  string
		weatherAPIKey      string
		metricsEnabled     bool
		metricsAddr        string
		envFile            string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the calendar and weather proxy HTTP server",
		Long: `Start the daybrief HTTP server.

The server proxies Google Calendar events and OpenWeather forecasts for
a single authenticated user. Authenticate once via GET /auth/google;
the OAuth credential set is persisted to the token file and reused
until logout or upstream rejection.

Configuration:
  OAuth credentials:
    --google-client-id, --google-client-secret, --google-redirect-uri
    OR GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, GOOGLE_REDIRECT_URI env vars

  Weather:
    --weather-api-key OR OPENWEATHER_API_KEY env var

  An optional .env file in the working directory (or --env-file) is
  loaded before environment variables are read.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load the .env file before reading the environment; missing
			// files are fine
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("failed to load env file %s: %w", envFile, err)
				}
			} else {
				_ = godotenv.Load()
			}

			cfg := config.FromEnv()
			cfg.Debug = debugMode

			// Flags override environment values when set explicitly
			if cmd.Flags().Changed("http-addr") {
				cfg.HTTPAddr = httpAddr
			}
			if cmd.Flags().Changed("token-file") {
				cfg.TokenFile = tokenFile
			}
			if cmd.Flags().Changed("google-client-id") {
				cfg.Google.ClientID = googleClientID
			}
			if cmd.Flags().Changed("google-client-secret") {
				cfg.Google.ClientSecret = googleClientSecret
			}
			if cmd.Flags().Changed("google-redirect-uri") {
				cfg.Google.RedirectURI = googleRedirectURI
			}
			if cmd.Flags().Changed("weather-api-key") {
				cfg.Weather.APIKey = weatherAPIKey
			}
			if cmd.Flags().Changed("metrics-enabled") {
				cfg.MetricsEnabled = metricsEnabled
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.MetricsAddr = metricsAddr
			}

			return runServe(cfg)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&httpAddr, "http-addr", config.DefaultHTTPAddr, "HTTP server address. Can also use PORT env var.")
	cmd.Flags().StringVar(&tokenFile, "token-file", config.DefaultTokenFile(), "Path of the persisted OAuth credential file. Can also use DAYBRIEF_TOKEN_FILE env var.")
	cmd.Flags().StringVar(&googleClientID, "google-client-id", "", "Google OAuth Client ID. Can also use GOOGLE_CLIENT_ID env var.")
	cmd.Flags().StringVar(&googleClientSecret, "google-client-secret", "", "Google OAuth Client Secret. Can also use GOOGLE_CLIENT_SECRET env var.")
	cmd.Flags().StringVar(&googleRedirectURI, "google-redirect-uri", "", "Registered OAuth callback URL. Can also use GOOGLE_REDIRECT_URI env var.")
	cmd.Flags().StringVar(&weatherAPIKey, "weather-api-key", "", "OpenWeather API key. Can also use OPENWEATHER_API_KEY env var.")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", config.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Path of a .env file to load before reading the environment")

	return cmd
}

func runServe(cfg config.Config) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Error("error during instrumentation shutdown", "error", err)
		}
	}()

	// Start metrics server if enabled
	var metricsServer *server.MetricsServer
	if cfg.MetricsEnabled && provider.Enabled() {
		metricsServer = server.NewMetricsServer(cfg.MetricsAddr)

		// Use ready channel to confirm metrics server started successfully
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		select {
		case <-metricsReady:
			logger.Info("metrics server started", "addr", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	store := token.NewStore(cfg.TokenFile, logger)

	srv := server.New(server.Options{
		Config:    cfg,
		Store:     store,
		Events:    calendar.NewFetcher(cfg.Google),
		Forecasts: weather.NewClient(cfg.Weather.APIKey),
		Logger:    logger,
		Metrics:   provider.Metrics(),
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.HTTPAddr, "version", version)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-shutdownCtx.Done():
	}

	logger.Info("shutting down")
	ctx, cancelTimeout := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelTimeout()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			logger.Error("error during metrics server shutdown", "error", err)
		}
	}

	return httpServer.Shutdown(ctx)
}
