package server

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"daybrief/internal/instrumentation"
	"daybrief/internal/logging"
	"daybrief/internal/weather"
)

// handleWeather returns the full normalized forecast.
//
// GET /weather?lat=<number>&lon=<number>
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.fetchForecast(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleWeatherLocation is an alias of /weather sharing the same
// fetch path.
//
// GET /weather/location?lat=<number>&lon=<number>
func (s *Server) handleWeatherLocation(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.fetchForecast(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleWeatherCurrent returns only the current conditions.
//
// GET /weather/current?lat=<number>&lon=<number>
func (s *Server) handleWeatherCurrent(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.fetchForecast(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"current":   summary.Current,
		"location":  summary.Location,
		"fetchedAt": time.Now().UTC().Format(time.RFC3339),
	})
}

// fetchForecast validates coordinates, checks configuration and calls
// the upstream, writing the error response itself when it returns
// ok=false. All validation happens before any network call.
func (s *Server) fetchForecast(w http.ResponseWriter, r *http.Request) (*weather.Summary, bool) {
	ctx := r.Context()
	logger := logging.WithOperation(s.logger, "weather_fetch")
	query := r.URL.Query()

	latStr, lonStr := query.Get("lat"), query.Get("lon")
	if latStr == "" || lonStr == "" {
		writeError(w, http.StatusBadRequest, "missing_coordinates",
			"Latitude (lat) and longitude (lon) are required")
		return nil, false
	}

	lat, latErr := strconv.ParseFloat(latStr, 64)
	lon, lonErr := strconv.ParseFloat(lonStr, 64)
	if latErr != nil || lonErr != nil || math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		writeError(w, http.StatusBadRequest, "invalid_coordinates",
			"Latitude and longitude must be valid numbers")
		return nil, false
	}

	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		writeError(w, http.StatusBadRequest, "coordinates_out_of_range",
			"Latitude must be between -90 and 90, longitude between -180 and 180")
		return nil, false
	}

	// Missing API key is a server misconfiguration, not a client error
	if s.cfg.Weather.APIKey == "" {
		logger.Error("weather API key is not configured")
		writeError(w, http.StatusInternalServerError, "weather_api_not_configured",
			"Weather API is not configured")
		return nil, false
	}

	start := time.Now()
	summary, err := s.forecasts.Forecast(ctx, lat, lon)
	duration := time.Since(start)

	if err != nil {
		s.metrics.RecordUpstreamOperation(ctx, instrumentation.ServiceWeather, "forecast",
			instrumentation.StatusError, duration)

		var statusErr *weather.StatusError
		switch {
		case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized:
			// Upstream rejected our key; never exposed as a user-auth failure
			logger.Error("weather API key rejected", logging.Err(err))
			writeError(w, http.StatusInternalServerError, "weather_api_key_invalid",
				"Invalid weather API key")

		case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusTooManyRequests:
			logger.Warn("weather API rate limited", logging.Err(err))
			writeError(w, http.StatusServiceUnavailable, "weather_api_rate_limited",
				"Weather API rate limit exceeded. Please try again later.")

		case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusBadRequest:
			writeError(w, http.StatusBadRequest, "weather_api_bad_request",
				"Invalid coordinates provided to weather service")

		case errors.Is(err, weather.ErrTimeout):
			logger.Warn("weather API timed out", logging.Err(err))
			writeError(w, http.StatusServiceUnavailable, "weather_api_timeout",
				"Weather service request timed out. Please try again.")

		default:
			logger.Error("failed to fetch weather", logging.Err(err))
			writeNormalizedError(w, http.StatusServiceUnavailable, err, "weather_fetch_failed")
		}
		return nil, false
	}

	s.metrics.RecordUpstreamOperation(ctx, instrumentation.ServiceWeather, "forecast",
		instrumentation.StatusSuccess, duration)

	return summary, true
}
