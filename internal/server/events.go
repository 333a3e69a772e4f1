package server

import (
	"errors"
	"net/http"
	"time"

	"daybrief/internal/calendar"
	"daybrief/internal/instrumentation"
	"daybrief/internal/logging"
)

// defaultEventRange is the range used when no from/to is given.
const defaultEventRange = 7 * 24 * time.Hour

// handleEvents lists calendar events in an optional range.
//
// GET /events?from=<RFC3339>&to=<RFC3339>
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	from, to := now, now.Add(defaultEventRange)

	query := r.URL.Query()
	if v := query.Get("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_range", "from must be an RFC3339 timestamp")
			return
		}
		from = parsed
	}
	if v := query.Get("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_range", "to must be an RFC3339 timestamp")
			return
		}
		to = parsed
	}

	s.fetchEvents(w, r, from, to)
}

// handleEventsToday lists events for the current calendar day.
//
// GET /events/today
func (s *Server) handleEventsToday(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	s.fetchEvents(w, r, startOfDay, startOfDay.Add(24*time.Hour))
}

// handleEventsUpcoming lists events for the next seven days.
//
// GET /events/upcoming
func (s *Server) handleEventsUpcoming(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	s.fetchEvents(w, r, now, now.Add(defaultEventRange))
}

// fetchEvents is the shared fetch path behind /events and its
// convenience routes; each route computes its own range and this
// writes exactly one response.
func (s *Server) fetchEvents(w http.ResponseWriter, r *http.Request, from, to time.Time) {
	ctx := r.Context()
	logger := logging.WithOperation(s.logger, "events_fetch")

	valid, err := s.store.HasValidTokens()
	if err != nil {
		logger.Error("failed to read credential store", logging.Err(err))
		writeNormalizedError(w, http.StatusServiceUnavailable, err, "calendar_fetch_failed")
		return
	}
	if !valid {
		// No upstream call is attempted without valid credentials
		writeError(w, http.StatusUnauthorized, "not_authenticated",
			"Please authenticate with Google Calendar first")
		return
	}

	creds, err := s.store.Load()
	if err != nil {
		logger.Error("failed to load credentials", logging.Err(err))
		writeNormalizedError(w, http.StatusServiceUnavailable, err, "calendar_fetch_failed")
		return
	}

	start := time.Now()
	events, err := s.events.FetchEvents(ctx, creds, from, to)
	duration := time.Since(start)

	if err != nil {
		s.metrics.RecordUpstreamOperation(ctx, instrumentation.ServiceCalendar, "list_events",
			instrumentation.StatusError, duration)

		switch {
		case errors.Is(err, calendar.ErrAuthRejected):
			// The cached credential set is known-bad
			if clearErr := s.store.Clear(); clearErr != nil {
				logger.Error("failed to clear rejected credentials", logging.Err(clearErr))
			}
			logger.Warn("upstream rejected credentials", logging.Err(err))
			writeError(w, http.StatusUnauthorized, "token_expired",
				"Authentication expired. Please re-authenticate.")

		case errors.Is(err, calendar.ErrAccessDenied):
			logger.Warn("upstream denied calendar access", logging.Err(err))
			writeError(w, http.StatusForbidden, "calendar_access_denied",
				"Access to calendar denied. Please check permissions.")

		default:
			logger.Error("failed to fetch events", logging.Err(err))
			writeNormalizedError(w, http.StatusServiceUnavailable, err, "calendar_fetch_failed")
		}
		return
	}

	s.metrics.RecordUpstreamOperation(ctx, instrumentation.ServiceCalendar, "list_events",
		instrumentation.StatusSuccess, duration)

	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"meta": map[string]any{
			"count":     len(events),
			"from":      from.UTC().Format(time.RFC3339),
			"to":        to.UTC().Format(time.RFC3339),
			"fetchedAt": time.Now().UTC().Format(time.RFC3339),
		},
	})
}
