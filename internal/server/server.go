package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"daybrief/internal/calendar"
	"daybrief/internal/config"
	"daybrief/internal/instrumentation"
	"daybrief/internal/token"
	"daybrief/internal/weather"
)

// EventsFetcher fetches normalized calendar events for a credential
// set and time range. Satisfied by *calendar.Fetcher.
type EventsFetcher interface {
	FetchEvents(ctx context.Context, creds *token.Credentials, from, to time.Time) ([]calendar.Event, error)
}

// ForecastFetcher fetches a normalized weather summary for a
// coordinate pair. Satisfied by *weather.Client.
type ForecastFetcher interface {
	Forecast(ctx context.Context, lat, lon float64) (*weather.Summary, error)
}

// Options holds the dependencies for a Server. Store, Events and
// Forecasts are required; Logger and Metrics default to slog.Default()
// and a no-op recorder.
type Options struct {
	Config    config.Config
	Store     *token.Store
	Events    EventsFetcher
	Forecasts ForecastFetcher
	Logger    *slog.Logger
	Metrics   *instrumentation.Metrics
}

// Server holds the handler dependencies. All state shared across
// requests lives in the token store.
type Server struct {
	cfg       config.Config
	store     *token.Store
	events    EventsFetcher
	forecasts ForecastFetcher
	logger    *slog.Logger
	metrics   *instrumentation.Metrics
	startTime time.Time
}

// New creates a Server from the given options.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}
	return &Server{
		cfg:       opts.Config,
		store:     opts.Store,
		events:    opts.Events,
		forecasts: opts.Forecasts,
		logger:    logger,
		metrics:   metrics,
		startTime: time.Now(),
	}
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Auth flow
	mux.HandleFunc("GET /auth/google", s.handleBeginAuth)
	mux.HandleFunc("GET /oauth/callback", s.handleOAuthCallback)
	mux.HandleFunc("GET /auth/google/callback", s.handleOAuthCallback)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("GET /session", s.handleSession)

	// Resource fetch
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /events/today", s.handleEventsToday)
	mux.HandleFunc("GET /events/upcoming", s.handleEventsUpcoming)
	mux.HandleFunc("GET /weather", s.handleWeather)
	mux.HandleFunc("GET /weather/current", s.handleWeatherCurrent)
	mux.HandleFunc("GET /weather/location", s.handleWeatherLocation)

	// Liveness
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.withObservability(mux)
}

// statusRecorder captures the response status for metrics and logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withObservability records request metrics and logs each request.
func (s *Server) withObservability(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		duration := time.Since(start)
		s.metrics.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, recorder.status, duration)
		s.logger.Debug("request handled",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", recorder.status),
			slog.Duration("duration", duration),
		)
	})
}
