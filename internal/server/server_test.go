package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"daybrief/internal/calendar"
	"daybrief/internal/config"
	"daybrief/internal/token"
	"daybrief/internal/weather"
)

// stubEvents is an EventsFetcher that records calls.
type stubEvents struct {
	calls  int
	events []calendar.Event
	err    error
}

func (s *stubEvents) FetchEvents(ctx context.Context, creds *token.Credentials, from, to time.Time) ([]calendar.Event, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.events, nil
}

// stubForecasts is a ForecastFetcher that records calls.
type stubForecasts struct {
	calls   int
	summary *weather.Summary
	err     error
}

func (s *stubForecasts) Forecast(ctx context.Context, lat, lon float64) (*weather.Summary, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.summary, nil
}

// testEnv bundles a server under test with its collaborators.
type testEnv struct {
	server    *httptest.Server
	store     *token.Store
	events    *stubEvents
	forecasts *stubForecasts
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(e.server.URL + path)
	require.NoError(t, err)
	return resp, decodeBody(t, resp)
}

func (e *testEnv) post(t *testing.T, path string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(e.server.URL+path, "application/json", nil)
	require.NoError(t, err)
	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) == 0 {
		return nil
	}
	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	return body
}

func newTestEnv(t *testing.T, cfg config.Config) *testEnv {
	t.Helper()

	if cfg.TokenFile == "" {
		cfg.TokenFile = filepath.Join(t.TempDir(), "tokens.json")
	}

	env := &testEnv{
		store:     token.NewStore(cfg.TokenFile, nil),
		events:    &stubEvents{},
		forecasts: &stubForecasts{summary: &weather.Summary{Hourly: []weather.Hour{}}},
	}

	srv := New(Options{
		Config:    cfg,
		Store:     env.store,
		Events:    env.events,
		Forecasts: env.forecasts,
	})

	env.server = httptest.NewServer(srv.Handler())
	t.Cleanup(env.server.Close)
	return env
}

func completeGoogleConfig() config.GoogleConfig {
	return config.GoogleConfig{
		ClientID:     "client-id.apps.googleusercontent.com",
		ClientSecret: "client-secret",
		RedirectURI:  "http://localhost:3000/oauth/callback",
	}
}

// authenticate seeds the store with a valid credential set.
func (e *testEnv) authenticate(t *testing.T) {
	t.Helper()
	e.store.Save(&token.Credentials{
		AccessToken: "access-token",
		ExpiryDate:  time.Now().Add(time.Hour).UnixMilli(),
	})
}
